package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"hail/internal/domain"
)

// AssembleBill builds the Bill entity for a ride from a fare breakdown.
// Called exactly once per ride, inside the settlement transaction.
func AssembleBill(ride *domain.Ride, fare *FareBreakdown) *domain.Bill {
	return &domain.Bill{
		ID:          uuid.New().String(),
		RideID:      ride.ID,
		CustomerID:  ride.CustomerID,
		DriverID:    ride.DriverID,
		Items:       fare.Items,
		Subtotal:    round2(fare.Subtotal),
		Tax:         fare.Tax,
		Discount:    fare.Discount,
		Total:       fare.Total,
		GeneratedAt: time.Now(),
	}
}

// FormatBillText renders a bill as plain text for the notification
// collaborator (WhatsApp/SMS). Pure formatting, no side effects.
func FormatBillText(bill *domain.Bill) string {
	var b strings.Builder

	b.WriteString("=====================================\n")
	b.WriteString("            RIDE BILL\n")
	b.WriteString("=====================================\n")
	fmt.Fprintf(&b, "Bill ID: %s\n", bill.ID)
	fmt.Fprintf(&b, "Ride ID: %s\n", bill.RideID)
	fmt.Fprintf(&b, "Date: %s\n", bill.GeneratedAt.Format("Jan 02, 2006 3:04 PM"))
	b.WriteString("-------------------------------------\n")

	for _, item := range bill.Items {
		fmt.Fprintf(&b, "%-26s %9.2f\n", item.Description, item.Amount)
	}

	b.WriteString("-------------------------------------\n")
	fmt.Fprintf(&b, "Subtotal: %.2f\n", bill.Subtotal)
	fmt.Fprintf(&b, "Tax:      %.2f\n", bill.Tax)
	fmt.Fprintf(&b, "Discount: -%.2f\n", bill.Discount)
	b.WriteString("-------------------------------------\n")
	fmt.Fprintf(&b, "TOTAL:    %.2f\n", bill.Total)
	b.WriteString("=====================================\n")
	b.WriteString("     Thank you for riding with us!\n")

	return b.String()
}
