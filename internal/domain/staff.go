package domain

import "golang.org/x/crypto/bcrypt"

type StaffRole string

const (
	StaffRoleLibrarian StaffRole = "LIBRARIAN"
	StaffRoleAdmin     StaffRole = "ADMIN"
)

type Staff struct {
	ID           int32     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Role         StaffRole `json:"role"`
	CreatedOn    string    `json:"created_on"`
	UpdatedOn    string    `json:"updated_on"`
}

// NewStaff builds a staff account with the password hashed up front.
func NewStaff(name, email, password string, role StaffRole) (*Staff, error) {
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
	if role == "" {
		role = StaffRoleLibrarian
	}
	return &Staff{
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
	}, nil
}

func (s *Staff) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(s.PasswordHash), []byte(password)) == nil
}
