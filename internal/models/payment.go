package models

// Payment gateways supported by the backend.
const (
	GatewayBkash    = "BKASH"
	GatewayAamarpay = "AAMARPAY"
)

// InitiatePaymentRequest starts a course checkout.
type InitiatePaymentRequest struct {
	CourseID    string `json:"courseId"`
	Description string `json:"description"`
	PaymentType string `json:"paymentType"`
}

// InitiatePaymentData is the gateway handoff returned by the backend.
type InitiatePaymentData struct {
	Result     bool   `json:"result"`
	PaymentURL string `json:"paymentUrl"`
}

// PaymentHistory is one entry of the student's payment history.
type PaymentHistory struct {
	ID          string  `json:"_id"`
	OrderID     string  `json:"orderId"`
	TranID      string  `json:"tranId"`
	Amount      float64 `json:"amount"`
	Status      string  `json:"status"`
	Description string  `json:"description"`
	CourseName  string  `json:"courseName"`
	InvoiceURL  string  `json:"invoiceUrl,omitempty"`
	CreatedAt   string  `json:"createdAt"`
}
