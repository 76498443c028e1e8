package model

import (
	"time"

	"github.com/google/uuid"
)

// Employee is a staff member. Only active cashiers are assignable to a
// cash register.
// Role: "cashier" | "admin"
type Employee struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;index;not null"`
	Name      string    `gorm:"not null"`
	Email     string    `gorm:"not null"`
	Phone     string    `gorm:"not null;default:''"`
	Role      string    `gorm:"type:varchar(20);not null"`
	IsActive  bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
