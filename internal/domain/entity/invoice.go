package entity

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is a customer invoice. Amount is stored in minor units (cents).
type Invoice struct {
	ID          string    `json:"id" db:"id"`
	CustomerID  string    `json:"customer_id" db:"customer_id"`
	AmountCents int64     `json:"amount" db:"amount"`
	Status      string    `json:"status" db:"status"`
	Date        time.Time `json:"date" db:"date"`
}

// InvoiceRow is an invoice joined with its customer, as shown in the listing table
type InvoiceRow struct {
	ID          string    `json:"id" db:"id"`
	CustomerID  string    `json:"customer_id" db:"customer_id"`
	Name        string    `json:"name" db:"name"`
	Email       string    `json:"email" db:"email"`
	ImageURL    string    `json:"image_url" db:"image_url"`
	Date        time.Time `json:"date" db:"date"`
	AmountCents int64     `json:"amount" db:"amount"`
	Status      string    `json:"status" db:"status"`
}

// LatestInvoice is a recent invoice for the dashboard overview
type LatestInvoice struct {
	ID          string `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Email       string `json:"email" db:"email"`
	ImageURL    string `json:"image_url" db:"image_url"`
	AmountCents int64  `json:"-" db:"amount"`
	Amount      string `json:"amount" db:"-"`
}

// CardData holds the dashboard summary figures
type CardData struct {
	NumberOfInvoices  int64 `json:"number_of_invoices" db:"number_of_invoices"`
	NumberOfCustomers int64 `json:"number_of_customers" db:"number_of_customers"`
	TotalPaidCents    int64 `json:"total_paid_invoices" db:"total_paid"`
	TotalPendingCents int64 `json:"total_pending_invoices" db:"total_pending"`
}

// DateLayout is the calendar-day format invoices are stamped with
const DateLayout = time.DateOnly

// IsValidInvoiceStatus reports whether s is one of the invoice status values
func IsValidInvoiceStatus(s string) bool {
	return s == InvoiceStatusPending || s == InvoiceStatusPaid
}

// MaxAmountCents is the largest amount the invoices.amount INTEGER column
// holds on every supported database (32-bit on postgres)
const MaxAmountCents = math.MaxInt32

var maxAmount = decimal.NewFromInt(MaxAmountCents)

// ToMinorUnits converts a decimal amount to cents, rounding half away from
// zero. ok is false when the cents fall outside [-MaxAmountCents, MaxAmountCents].
func ToMinorUnits(amount decimal.Decimal) (cents int64, ok bool) {
	shifted := amount.Shift(2).Round(0)
	if shifted.Abs().GreaterThan(maxAmount) {
		return 0, false
	}
	return shifted.IntPart(), true
}

// FormatCurrency renders cents as US dollars, e.g. 123456 -> "$1,234.56"
func FormatCurrency(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	fixed := decimal.New(cents, -2).StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	return sign + "$" + b.String() + "." + frac
}
