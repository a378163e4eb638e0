package checkout

import "jengamart/internal/common/enum"

// SubmissionItem is one order line as sent to the order service.
type SubmissionItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
	Price     int64 `json:"price"`
}

// OrderSubmission is built once from the frozen draft and cart snapshot and
// sent exactly once to the order service, which assigns the order ID.
type OrderSubmission struct {
	CustomerName        string                 `json:"customer_name"`
	CustomerEmail       string                 `json:"customer_email,omitempty"`
	CustomerPhone       string                 `json:"customer_phone"`
	DeliveryAddress     string                 `json:"delivery_address"`
	PaymentMethod       enum.PaymentMethodEnum `json:"payment_method"`
	Notes               string                 `json:"notes,omitempty"`
	TotalAmount         int64                  `json:"total_amount"`
	Items               []SubmissionItem       `json:"items"`
	SendEmailToCustomer bool                   `json:"send_email_to_customer"`
	SendEmailToAdmin    bool                   `json:"send_email_to_admin"`
}

// Submission builds the order payload. Total = Σ(price×qty) + shipping fee.
func (f *Flow) Submission(shippingFee int64) OrderSubmission {
	items := make([]SubmissionItem, 0, len(f.Cart))
	for _, l := range f.Cart {
		items = append(items, SubmissionItem{
			ProductID: l.ProductID,
			Quantity:  l.Qty,
			Price:     l.UnitPrice,
		})
	}
	return OrderSubmission{
		CustomerName:        f.Draft.Name,
		CustomerEmail:       f.Draft.Email,
		CustomerPhone:       f.Draft.Phone,
		DeliveryAddress:     f.Draft.DeliveryAddress(),
		PaymentMethod:       f.Draft.PaymentMethod,
		Notes:               f.Draft.Notes,
		TotalAmount:         Summarize(f.Cart, shippingFee).Total,
		Items:               items,
		SendEmailToCustomer: f.Draft.Email != "",
		SendEmailToAdmin:    true,
	}
}
