package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"jengamart/internal/common/enum"
)

// JSONB is a custom type for GORM to handle JSONB columns
type JSONB json.RawMessage

func (j JSONB) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return string(j), nil
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = JSONB("null")
		return nil
	}
	switch v := value.(type) {
	case []byte:
		*j = JSONB(v)
	case string:
		*j = JSONB(v)
	default:
		return errors.New("unsupported type for JSONB")
	}
	return nil
}

func (j JSONB) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("null"), nil
	}
	return []byte(j), nil
}

func (j *JSONB) UnmarshalJSON(data []byte) error {
	if j == nil {
		return errors.New("JSONB: UnmarshalJSON on nil pointer")
	}
	*j = append((*j)[0:0], data...)
	return nil
}

// CheckoutRecord is the audit row written when a checkout submits an order
// and updated when the flow completes or is abandoned. The order itself
// lives in the remote order service; this table only tracks the flow.
type CheckoutRecord struct {
	ID              string                 `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FlowID          string                 `json:"flow_id" gorm:"type:varchar(100);uniqueIndex;not null"`
	OrderID         int64                  `json:"order_id" gorm:"index;not null"`
	CustomerName    string                 `json:"customer_name" gorm:"type:varchar(255)"`
	CustomerPhone   string                 `json:"customer_phone" gorm:"type:varchar(50)"`
	CustomerEmail   string                 `json:"customer_email" gorm:"type:varchar(255)"`
	DeliveryAddress string                 `json:"delivery_address" gorm:"type:text"`
	PaymentMethod   enum.PaymentMethodEnum `json:"payment_method" gorm:"type:varchar(50);not null"`
	TotalAmount     int64                  `json:"total_amount" gorm:"not null"`
	Items           JSONB                  `json:"items" gorm:"type:jsonb;not null"`
	Status          string                 `json:"status" gorm:"type:varchar(50);not null;default:'pending';index"`
	CreatedAt       time.Time              `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time              `json:"updated_at" gorm:"autoUpdateTime"`
	PaidAt          *time.Time             `json:"paid_at"`
}

func (CheckoutRecord) TableName() string {
	return "checkout_records"
}

// PaymentAttempt records every confirmation attempt (manual code or push)
// against an order, successful or not.
type PaymentAttempt struct {
	ID        string               `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FlowID    string               `json:"flow_id" gorm:"type:varchar(100);index;not null"`
	OrderID   int64                `json:"order_id" gorm:"index;not null"`
	Mode      enum.PaymentModeEnum `json:"mode" gorm:"type:varchar(20);not null"`
	Code      string               `json:"code,omitempty" gorm:"type:varchar(20)"`
	PushID    string               `json:"push_id,omitempty" gorm:"type:varchar(100)"`
	Accepted  bool                 `json:"accepted" gorm:"not null"`
	Message   string               `json:"message,omitempty" gorm:"type:text"`
	CreatedAt time.Time            `json:"created_at" gorm:"autoCreateTime"`
}

func (PaymentAttempt) TableName() string {
	return "payment_attempts"
}
