package models

import "time"

// CreateVendorRequest is the admin payload that opens a vendor slot.
type CreateVendorRequest struct {
	CompanyName string `json:"company_name" validate:"required,min=2,max=120"`
	Description string `json:"description" validate:"max=2000"`
}

// UpdateVendorRequest edits a vendor's descriptive fields.
type UpdateVendorRequest struct {
	CompanyName string `json:"company_name" validate:"required,min=2,max=120"`
	Description string `json:"description" validate:"max=2000"`
}

// RegisterVendorRequest claims a vendor slot. VendorKey is optional: a
// keyless registration opens a brand-new PENDING slot owned by the
// registrant, with the company name synthesised when absent.
type RegisterVendorRequest struct {
	VendorKey   string `json:"vendor_key" validate:"omitempty"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	FullName    string `json:"full_name" validate:"required,min=2,max=120"`
	Phone       string `json:"phone" validate:"omitempty,min=7,max=20"`
	CompanyName string `json:"company_name" validate:"omitempty,min=2,max=120"`
	Description string `json:"description" validate:"max=2000"`
}

// CreateMentorRequest is the vendor payload that opens a mentor slot.
type CreateMentorRequest struct {
	Specialization string `json:"specialization" validate:"max=120"`
	Bio            string `json:"bio" validate:"max=2000"`
}

// RegisterMentorRequest claims a mentor slot. MentorKey is optional: a
// keyless registration lands under the default tenant in PENDING state.
type RegisterMentorRequest struct {
	MentorKey      string `json:"mentor_key" validate:"omitempty"`
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,min=8"`
	FullName       string `json:"full_name" validate:"required,min=2,max=120"`
	Phone          string `json:"phone" validate:"omitempty,min=7,max=20"`
	Specialization string `json:"specialization" validate:"max=120"`
	Bio            string `json:"bio" validate:"max=2000"`
}

// RegisterStudentRequest admits a student through a referral code.
type RegisterStudentRequest struct {
	ReferralCode string `json:"referral_code" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8"`
	FullName     string `json:"full_name" validate:"required,min=2,max=120"`
	Phone        string `json:"phone" validate:"omitempty,min=7,max=20"`
}

// VerifyEmailRequest completes registration with the emailed OTP.
type VerifyEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

// ResendOTPRequest asks for a fresh verification code.
type ResendOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ApprovalRequest carries the optional reason attached to a rejection or
// suspension.
type ApprovalRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

// CreateReferralCodeRequest opens a new mentor referral code. Zero
// MaxUsage means unlimited; nil ExpiresAt means no expiry.
type CreateReferralCodeRequest struct {
	MaxUsage  int        `json:"max_usage" validate:"omitempty,min=1"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// CreateVendorCodeRequest opens a vendor-scoped referral code on behalf of
// a tenant. Vendor codes carry no referring mentor and sit outside the
// per-mentor active-code cap.
type CreateVendorCodeRequest struct {
	VendorID  string     `json:"vendor_id" validate:"required"`
	MaxUsage  int        `json:"max_usage" validate:"omitempty,min=1"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// EnrollRequest enrolls the authenticated student into a course, with an
// optional second referral code and a simulated payment instrument.
type EnrollRequest struct {
	CourseID       string        `json:"course_id" validate:"required"`
	ReferralCode   string        `json:"referral_code" validate:"omitempty"`
	PaymentMethod  PaymentMethod `json:"payment_method" validate:"required,oneof=card upi wallet netbanking"`
	CardNumber     string        `json:"card_number" validate:"omitempty,min=12,max=19"`
	CardHolderName string        `json:"card_holder_name" validate:"omitempty,max=120"`
	UPIID          string        `json:"upi_id" validate:"omitempty,max=120"`
	WalletName     string        `json:"wallet_name" validate:"omitempty,max=60"`
	BankName       string        `json:"bank_name" validate:"omitempty,max=120"`
}

// CourseRequest creates or updates a catalog entry.
type CourseRequest struct {
	Title         string      `json:"title" validate:"required,min=2,max=200"`
	Description   string      `json:"description" validate:"max=5000"`
	Category      string      `json:"category" validate:"required,max=120"`
	Level         CourseLevel `json:"level" validate:"required,oneof=BEGINNER INTERMEDIATE ADVANCED"`
	Price         float64     `json:"price" validate:"gte=0"`
	DiscountPrice *float64    `json:"discount_price" validate:"omitempty,gte=0"`
	Duration      string      `json:"duration" validate:"max=60"`
	MaxStudents   int         `json:"max_students" validate:"gte=0"`
	StartDate     *time.Time  `json:"start_date"`
	EndDate       *time.Time  `json:"end_date"`
	VendorID      *string     `json:"vendor_id"`
	Active        bool        `json:"is_active"`
}
