package fixtures

import "time"

// DateLayout is the calendar date format used for invoice dates.
const DateLayout = "2006-01-02"

type UserRecord struct {
	ID       string `yaml:"id" json:"id"`
	Name     string `yaml:"name" json:"name"`
	Email    string `yaml:"email" json:"email"`
	Password string `yaml:"password" json:"-"`
}

type CustomerRecord struct {
	ID       string `yaml:"id" json:"id"`
	Name     string `yaml:"name" json:"name"`
	Email    string `yaml:"email" json:"email"`
	ImageURL string `yaml:"image_url" json:"image_url"`
}

// InvoiceRecord carries no id of its own; one is generated on insert.
type InvoiceRecord struct {
	CustomerID string `yaml:"customer_id" json:"customer_id"`
	Amount     int    `yaml:"amount" json:"amount"` // minor units
	Status     string `yaml:"status" json:"status"`
	Date       string `yaml:"date" json:"date"`
}

// ParsedDate returns Date as a UTC midnight time.
func (r InvoiceRecord) ParsedDate() (time.Time, error) {
	return time.Parse(DateLayout, r.Date)
}

type RevenueRecord struct {
	Month   string `yaml:"month" json:"month"`
	Revenue int    `yaml:"revenue" json:"revenue"`
}

// Set is the full placeholder dataset for one seeding run.
type Set struct {
	Users     []UserRecord     `yaml:"users"`
	Customers []CustomerRecord `yaml:"customers"`
	Invoices  []InvoiceRecord  `yaml:"invoices"`
	Revenue   []RevenueRecord  `yaml:"revenue"`
}
