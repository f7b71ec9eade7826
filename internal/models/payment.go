package models

import "time"

// Payment request statuses.
const (
	PaymentRequestPending  = "pending"
	PaymentRequestApproved = "approved"
	PaymentRequestPaid     = "paid"
	PaymentRequestRejected = "rejected"
)

// Receipt verification statuses.
const (
	VerificationPending  = "pending"
	VerificationVerified = "verified"
	VerificationRejected = "rejected"
)

// PaymentRequest is a contractor's ask for a stage payment on a running
// project.
type PaymentRequest struct {
	ID                 FlexInt   `json:"id"`
	ProjectID          FlexInt   `json:"project_id"`
	ContractorName     string    `json:"contractor_name"`
	Stage              string    `json:"stage"`
	Amount             FlexFloat `json:"amount"`
	ApprovedAmount     FlexFloat `json:"approved_amount"`
	Status             string    `json:"status"`
	VerificationStatus string    `json:"verification_status"`
	Description        string    `json:"description"`
	HomeownerNotes     string    `json:"homeowner_notes"`
	CreatedAt          string    `json:"created_at"`
}

// ReceiptUpload carries the form fields of a manual payment receipt.
type ReceiptUpload struct {
	PaymentID            int64
	TransactionReference string
	PaymentDate          string
	PaymentMethod        string
	Notes                string
}

// CheckoutDescriptor is what the frontend needs to open the Razorpay widget.
type CheckoutDescriptor struct {
	PaymentID   string `json:"payment_id"`
	OrderID     string `json:"razorpay_order_id"`
	KeyID       string `json:"razorpay_key_id"`
	AmountPaise int64  `json:"amount"`
	Currency    string `json:"currency"`
	Description string `json:"description,omitempty"`
	DesignTitle string `json:"design_title,omitempty"`
}

// GatewayResult is the triple Razorpay hands back after a checkout.
type GatewayResult struct {
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

// PaymentAudit is the gateway's local record of an initiated unlock payment.
type PaymentAudit struct {
	ID          string    `db:"id"`
	HomeownerID int64     `db:"homeowner_id"`
	Kind        string    `db:"kind"`
	ResourceID  int64     `db:"resource_id"`
	OrderRef    string    `db:"order_ref"`
	AmountPaise int64     `db:"amount_paise"`
	Status      string    `db:"status"`
	Message     string    `db:"message"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}
