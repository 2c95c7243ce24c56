package domain

import "golang.org/x/crypto/bcrypt"

type ReaderStatus string

const (
	ReaderStatusActive    ReaderStatus = "ACTIVE"
	ReaderStatusSuspended ReaderStatus = "SUSPENDED"
	ReaderStatusExpired   ReaderStatus = "EXPIRED"
)

type Reader struct {
	ID           int32        `json:"id"`
	Email        string       `json:"email"`
	PhoneNumber  string       `json:"phone_number"`
	PasswordHash string       `json:"-"`
	Name         string       `json:"name"`
	Status       ReaderStatus `json:"status"`
	BorrowLimit  int32        `json:"borrow_limit"`
	// Counters mutated only via adjustments from the circulation service.
	CurrentBorrowCount int32  `json:"current_borrow_count"`
	TotalBorrowed      int32  `json:"total_borrowed"`
	OverdueCount       int32  `json:"overdue_count"`
	UnpaidViolations   int64  `json:"unpaid_violations"`
	CreatedOn          string `json:"created_on"`
	UpdatedOn          string `json:"updated_on"`
}

// NewReader builds a reader account with the password hashed up front.
// Hashing happens here, in the factory, never in a persistence hook.
func NewReader(name, email, phone, password string, borrowLimit int32) (*Reader, error) {
	if name == "" || email == "" {
		return nil, &ValidationError{Field: "name/email", Reason: "name and email are required"}
	}
	if len(password) < 8 {
		return nil, &ValidationError{Field: "password", Reason: "password must be at least 8 characters"}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &Reader{
		Email:        email,
		PhoneNumber:  phone,
		PasswordHash: string(hash),
		Name:         name,
		Status:       ReaderStatusActive,
		BorrowLimit:  borrowLimit,
	}, nil
}

// CheckPassword compares a candidate password against the stored hash.
func (r *Reader) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(r.PasswordHash), []byte(password)) == nil
}
