package models

import "time"

// PaymentMethod enumerates the instruments the simulated gateway accepts.
type PaymentMethod string

const (
	PaymentMethodCard       PaymentMethod = "card"
	PaymentMethodUPI        PaymentMethod = "upi"
	PaymentMethodWallet     PaymentMethod = "wallet"
	PaymentMethodNetbanking PaymentMethod = "netbanking"
)

// PaymentStatus is the gateway outcome. The dummy gateway always succeeds;
// the enum exists so a real gateway can slot in without a schema change.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusSuccess   PaymentStatus = "success"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

// Payment is the bookkeeping side record for a simulated payment capture.
// It is written in the same transaction as the enrollment it funds, so a
// successful payment can never exist without its enrollment.
type Payment struct {
	ID                 string        `db:"id" json:"id"`
	StudentID          string        `db:"student_id" json:"student_id"`
	CourseID           string        `db:"course_id" json:"course_id"`
	MentorID           string        `db:"mentor_id" json:"mentor_id"`
	VendorID           string        `db:"vendor_id" json:"vendor_id"`
	Amount             float64       `db:"amount" json:"amount"`
	Method             PaymentMethod `db:"payment_method" json:"payment_method"`
	Status             PaymentStatus `db:"payment_status" json:"payment_status"`
	TransactionID      string        `db:"transaction_id" json:"transaction_id"`
	Gateway            string        `db:"payment_gateway" json:"payment_gateway"`
	CardLast4          *string       `db:"card_last4" json:"card_last4,omitempty"`
	CardHolderName     *string       `db:"card_holder_name" json:"card_holder_name,omitempty"`
	UPIID              *string       `db:"upi_id" json:"upi_id,omitempty"`
	WalletName         *string       `db:"wallet_name" json:"wallet_name,omitempty"`
	BankName           *string       `db:"bank_name" json:"bank_name,omitempty"`
	ReferralCodeUsed   *string       `db:"referral_code_used" json:"referral_code_used,omitempty"`
	ReferredByMentorID *string       `db:"referred_by_mentor_id" json:"referred_by_mentor_id,omitempty"`
	PaidAt             time.Time     `db:"paid_at" json:"paid_at"`
}
