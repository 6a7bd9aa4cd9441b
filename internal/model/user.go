package model

import "golang.org/x/crypto/bcrypt"

type UserRole string

const (
	RoleAdmin   UserRole = "ADMIN"
	RoleManager UserRole = "MANAGER"
)

// User is the acting identity on ledger rows. Its lifecycle beyond
// register/login lives outside the core.
type User struct {
	Base
	Name        string   `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Email       string   `gorm:"type:varchar(255);uniqueIndex;not null" json:"email" validate:"required,email"`
	Password    string   `gorm:"type:varchar(255);not null" json:"-"`
	PhoneNumber string   `gorm:"type:varchar(20)" json:"phone_number"`
	Role        UserRole `gorm:"type:varchar(20);not null;default:MANAGER" json:"role"`
}

// NewUser builds an unsaved user; an empty role defaults to MANAGER.
func NewUser(name, email, phoneNumber string, role UserRole) *User {
	if role == "" {
		role = RoleManager
	}
	return &User{
		Base:        NewBase(),
		Name:        name,
		Email:       email,
		PhoneNumber: phoneNumber,
		Role:        role,
	}
}

// SetPassword hashes and sets the user's password.
func (u *User) SetPassword(password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

// CheckPassword verifies the provided password against the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
