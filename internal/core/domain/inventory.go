package domain

import "time"

// InstanceStatus is the availability of a physical item.
type InstanceStatus string

const (
	InstanceAvailable   InstanceStatus = "available"
	InstanceLoaned      InstanceStatus = "loaned"
	InstanceMaintenance InstanceStatus = "maintenance"
	InstanceRetired     InstanceStatus = "retired"
)

// Product is a catalogue entry (e.g. "Wheelchair, folding").
type Product struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Category       string    `json:"category"`
	Description    string    `json:"description,omitempty"`
	InstancesCount int       `json:"instancesCount"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ProductInstance is one physical, lendable unit of a Product.
type ProductInstance struct {
	ID           string         `json:"id"`
	ProductID    string         `json:"productId"`
	SerialNumber string         `json:"serialNumber"`
	Status       InstanceStatus `json:"status"`
	Location     string         `json:"location,omitempty"`
	Notes        string         `json:"notes,omitempty"`
}

// LoanStatus is the lifecycle of a Loan.
type LoanStatus string

const (
	LoanActive   LoanStatus = "active"
	LoanReturned LoanStatus = "returned"
	LoanOverdue  LoanStatus = "overdue"
)

// Loan records an instance handed out to a borrower.
type Loan struct {
	ID            string     `json:"id"`
	InstanceID    string     `json:"instanceId"`
	ProductName   string     `json:"productName,omitempty"`
	BorrowerName  string     `json:"borrowerName"`
	BorrowerPhone string     `json:"borrowerPhone,omitempty"`
	Status        LoanStatus `json:"status"`
	LoanedAt      time.Time  `json:"loanedAt"`
	DueAt         time.Time  `json:"dueAt"`
	ReturnedAt    *time.Time `json:"returnedAt,omitempty"`
}

// VolunteerActivity is one logged volunteer shift.
type VolunteerActivity struct {
	ID            string    `json:"id"`
	VolunteerID   string    `json:"volunteerId"`
	VolunteerName string    `json:"volunteerName"`
	Activity      string    `json:"activity"`
	Hours         float64   `json:"hours"`
	Date          time.Time `json:"date"`
}

// Page is the list envelope used by every collection endpoint.
type Page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}
