package ledger

import (
	"time"
)

// ID identifies a stage, expense or payment.
type ID string

// StageStatus is derived from a stage's paid and amount.
type StageStatus string

const (
	StagePending    StageStatus = "pending"
	StageInProgress StageStatus = "in-progress"
	StageCompleted  StageStatus = "completed"
)

// ExpenseStatus is derived from an expense's paid and amount.
type ExpenseStatus string

const (
	ExpensePending ExpenseStatus = "pending"
	ExpensePaid    ExpenseStatus = "paid"
)

// PaymentType tells which collection a payment's ItemID points into.
type PaymentType string

const (
	PaymentConstruction PaymentType = "construction"
	PaymentExpense      PaymentType = "expense"
	PaymentOther        PaymentType = "other"
)

// Category groups expenses that sit outside the staged budget.
type Category string

const (
	CategoryBorewell   Category = "borewell"
	CategorySump       Category = "sump"
	CategorySepticTank Category = "septic-tank"
	CategoryElectrical Category = "electrical"
	CategoryPlumbing   Category = "plumbing"
	CategoryMaterial   Category = "material"
	CategoryLabor      Category = "labor"
	CategoryPermit     Category = "permit"
	CategoryTransport  Category = "transport"
	CategoryOther      Category = "other"
)

// Categories lists every known expense category in display order.
var Categories = []Category{
	CategoryBorewell,
	CategorySump,
	CategorySepticTank,
	CategoryElectrical,
	CategoryPlumbing,
	CategoryMaterial,
	CategoryLabor,
	CategoryPermit,
	CategoryTransport,
	CategoryOther,
}

// Valid reports whether c is one of Categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}

	return false
}

// Project describes the building being tracked. It is fixed for the lifetime of a Store.
type Project struct {
	Name        string    `json:"name"`
	Engineer    string    `json:"engineer"`
	Location    string    `json:"location"`
	PerSqftRate int64     `json:"perSqftRate"`
	TotalSqft   int64     `json:"totalSqft"`
	TotalCost   int64     `json:"totalCost"` // Rupees
	StartDate   time.Time `json:"startDate"`
	Completion  time.Time `json:"estimatedCompletion"`
}

// Stage is a construction phase priced as a percentage of Project.TotalCost.
type Stage struct {
	ID         ID          `json:"id"`
	Name       string      `json:"name"`
	Percentage int         `json:"percentage"`
	Amount     int64       `json:"amount"`
	Paid       int64       `json:"paid"`
	Status     StageStatus `json:"status"`
	Date       time.Time   `json:"date"`
	Notes      string      `json:"notes"`
}

// Balance is the unpaid remainder of the stage, never negative.
func (s Stage) Balance() int64 {
	return Balance(s.Amount, s.Paid)
}

// Expense is a cost outside the staged budget.
type Expense struct {
	ID       ID            `json:"id"`
	Name     string        `json:"name"`
	Amount   int64         `json:"amount"`
	Paid     int64         `json:"paid"`
	Status   ExpenseStatus `json:"status"`
	Category Category      `json:"category"`
	Date     time.Time     `json:"date"`
	Notes    string        `json:"notes"`
	Vendor   string        `json:"vendor"`
}

// Balance is the unpaid remainder of the expense, never negative.
func (e Expense) Balance() int64 {
	return Balance(e.Amount, e.Paid)
}

// Payment records money applied to a stage, an expense, or nothing at all.
//
// ItemID is a weak reference: the target may have been deleted since.
// TotalPaid and Balance are snapshots taken when the payment was made.
type Payment struct {
	ID        ID          `json:"id"`
	ItemID    *ID         `json:"itemId,omitempty"`
	ItemName  string      `json:"itemName"`
	Amount    int64       `json:"amount"`
	Type      PaymentType `json:"type"`
	Date      time.Time   `json:"date"`
	Notes     string      `json:"notes"`
	TotalPaid int64       `json:"totalPaid"`
	Balance   int64       `json:"balance"`
	CreatedAt time.Time   `json:"createdAt"`
}

// Day truncates t to midnight UTC of its calendar day. The zero time stays zero.
func Day(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}

	y, m, d := t.Date()

	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
