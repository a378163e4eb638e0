package checkout

import (
	"fmt"
	"strings"

	"jengamart/internal/common/enum"
)

// Draft holds the customer and shipping data collected across stages 1 and 2.
// It is mutated incrementally until the order is submitted, then frozen.
type Draft struct {
	Name          string                 `json:"name"`
	Email         string                 `json:"email,omitempty"`
	Phone         string                 `json:"phone"`
	Address       string                 `json:"address"`
	City          string                 `json:"city"`
	PostalCode    string                 `json:"postal_code"`
	PaymentMethod enum.PaymentMethodEnum `json:"payment_method"`
	Notes         string                 `json:"notes,omitempty"`
}

// CustomerInfoComplete is the stage 1→2 guard.
func (d Draft) CustomerInfoComplete() bool {
	return strings.TrimSpace(d.Name) != "" &&
		strings.TrimSpace(d.Phone) != "" &&
		strings.TrimSpace(d.Address) != ""
}

// ShippingComplete is the stage 2→3 guard.
func (d Draft) ShippingComplete() bool {
	return strings.TrimSpace(d.City) != "" && strings.TrimSpace(d.PostalCode) != ""
}

// DeliveryAddress composes the single-line address sent to the order service.
func (d Draft) DeliveryAddress() string {
	return fmt.Sprintf("%s, %s, %s", d.Address, d.City, d.PostalCode)
}
