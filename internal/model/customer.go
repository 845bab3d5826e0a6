package model

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type Customer struct {
	BaseModel
	Name  string `gorm:"type:varchar(255);not null" json:"name"`
	Email string `gorm:"type:varchar(319);not null" json:"email"`
	Phone string `gorm:"type:varchar(15);not null" json:"phone"`
}

// CustomerAccount is the single login account a customer may own.
type CustomerAccount struct {
	CustomerID uint      `gorm:"primaryKey;autoIncrement:false" json:"customer_id"`
	Username   string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"username"`
	Password   string    `gorm:"type:varchar(255);not null" json:"-"` // bcrypt hash, hidden from JSON
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// SetPassword hashes and sets the account's password
func (a *CustomerAccount) SetPassword(password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.Password = string(hashed)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (a *CustomerAccount) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(a.Password), []byte(password)) == nil
}

// CustomerDetail is the GET /customers/:id payload.
type CustomerDetail struct {
	Customer Customer         `json:"customer"`
	Account  *CustomerAccount `json:"account"`
	Orders   []OrderResponse  `json:"orders"`
}
