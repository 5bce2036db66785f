package department

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

type Department struct {
	ID              string
	Name            string
	Description     *string
	ManagerEmail    *string
	Location        *string
	Budget          decimal.NullDecimal
	Status          Status
	EstablishedDate time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// DTO / Join
	ManagerName   *string
	EmployeeCount int64
}

// Member is an employee listed under a department.
type Member struct {
	EmployeeID   string
	UserID       string
	EmployeeCode string
	FirstName    string
	LastName     string
	Email        string
	Position     string
	Status       string
}
