package domain

import "time"

// BillItem is a single line on a bill.
type BillItem struct {
	Description string
	Amount      float64
}

// Bill is the itemized fare for a completed ride.
// Exactly one bill exists per completed ride and it is immutable once written.
type Bill struct {
	ID          string
	RideID      string
	CustomerID  string
	DriverID    string
	Items       []BillItem
	Subtotal    float64
	Tax         float64
	Discount    float64
	Total       float64
	GeneratedAt time.Time
}
