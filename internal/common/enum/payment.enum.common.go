package enum

import "github.com/go-playground/validator/v10"

/*----------- PaymentMethodEnum -----------*/

type PaymentMethodEnum string

const (
	MOBILE_MONEY     PaymentMethodEnum = "mobile_money"
	CASH_ON_DELIVERY PaymentMethodEnum = "cash_on_delivery"
	BANK_TRANSFER    PaymentMethodEnum = "bank_transfer"
)

func (e PaymentMethodEnum) ToString() string {
	switch e {
	case MOBILE_MONEY:
		return "mobile_money"
	case CASH_ON_DELIVERY:
		return "cash_on_delivery"
	case BANK_TRANSFER:
		return "bank_transfer"
	}
	return ""
}

func (e PaymentMethodEnum) IsValid() bool {
	switch e {
	case MOBILE_MONEY, CASH_ON_DELIVERY, BANK_TRANSFER:
		return true
	}
	return false
}

/*----------- PaymentModeEnum -----------*/

// PaymentModeEnum distinguishes the two confirmation paths of the
// mobile-money sub-flow.
type PaymentModeEnum string

const (
	MANUAL_CODE PaymentModeEnum = "manual_code"
	PUSH_POLL   PaymentModeEnum = "push_poll"
)

func (e PaymentModeEnum) IsValid() bool {
	switch e {
	case MANUAL_CODE, PUSH_POLL:
		return true
	}
	return false
}

// ValidateEnum is registered as the "enum" validation tag. Any type used with
// the tag must implement IsValid() bool.
func ValidateEnum(fl validator.FieldLevel) bool {
	value, ok := fl.Field().Interface().(interface{ IsValid() bool })
	if !ok {
		return false
	}
	return value.IsValid()
}
