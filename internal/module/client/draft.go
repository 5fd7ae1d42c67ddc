package client

import (
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/simp-lee/hrdash/internal/domain"
)

// Draft is the add/edit form of a client account. Password is only taken on
// create; an empty password on update keeps the current one.
type Draft struct {
	FirstName     string `json:"first_name" form:"first_name" validate:"required,max=100"`
	LastName      string `json:"last_name" form:"last_name" validate:"required,max=100"`
	Username      string `json:"username" form:"username" validate:"required,alphanum,min=3,max=100"`
	Email         string `json:"email" form:"email" validate:"required,email,max=255"`
	ContactNumber string `json:"contact_number" form:"contact_number" validate:"omitempty,max=50"`
	Country       string `json:"country" form:"country" validate:"omitempty,max=100"`
	Password      string `json:"password,omitempty" form:"password" validate:"omitempty,min=8,max=72"`
	IsActive      bool   `json:"is_active" form:"is_active"`
}

// ToDraft seeds the edit form from c. The password is never echoed.
func ToDraft(c domain.Client) Draft {
	return Draft{
		FirstName:     c.FirstName,
		LastName:      c.LastName,
		Username:      c.Username,
		Email:         c.Email,
		ContactNumber: c.ContactNumber,
		Country:       c.Country,
		IsActive:      c.IsActive,
	}
}

func (d Draft) apply(c *domain.Client) error {
	if d.Password != "" {
		hash, err := hashPassword(d.Password)
		if err != nil {
			return err
		}
		c.PasswordHash = hash
	}
	c.FirstName = d.FirstName
	c.LastName = d.LastName
	c.FullName = strings.TrimSpace(d.FirstName + " " + d.LastName)
	c.Username = d.Username
	c.Email = d.Email
	c.ContactNumber = d.ContactNumber
	c.Country = d.Country
	c.IsActive = d.IsActive
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", domain.NewAppError(domain.CodeInternal, "failed to hash password", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches c's stored hash.
func CheckPassword(c domain.Client, password string) bool {
	if c.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)) == nil
}
