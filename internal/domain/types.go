package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type (
	CategoryID    int64
	AccountID     int64
	CreditCardID  int64
	TransactionID int64
)

// Date is a calendar date without a time of day. It is always held at midnight UTC.
type Date struct {
	time.Time
}

// NewDate returns the civil date of t, ignoring its location and time of day.
func NewDate(t time.Time) Date {
	return Date{Time: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

func (d Date) String() string {
	return d.Format(time.DateOnly)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts "2006-01-02" and RFC3339 timestamps.
func (d *Date) UnmarshalJSON(data []byte) error {
	str := strings.Trim(string(data), `"`)
	if str == "" || str == "null" {
		d.Time = time.Time{}
		return nil
	}

	t, err := time.Parse(time.DateOnly, str)
	if err != nil {
		t, err = time.Parse(time.RFC3339, str)
		if err != nil {
			return fmt.Errorf("invalid date %q: %w", str, err)
		}
	}

	*d = NewDate(t)
	return nil
}

type Category struct {
	ID       CategoryID  `json:"id"`
	Name     string      `json:"name"`
	Color    string      `json:"color"`
	ParentID *CategoryID `json:"parent_id"`
	Archived bool        `json:"archived"`
}

type Account struct {
	ID              AccountID `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	InstitutionName string    `json:"institution_name"`
	Archived        bool      `json:"archived"`
	Type            string    `json:"type"`
}

type CreditCard struct {
	ID          CreditCardID `json:"id"`
	Name        string       `json:"name"`
	CardNetwork string       `json:"card_network"`
	ClosingDay  int          `json:"closing_day"`
	DueDay      int          `json:"due_day"`
	Archived    bool         `json:"archived"`
}

type Transaction struct {
	ID                TransactionID `json:"id"`
	Description       string        `json:"description"`
	Date              Date          `json:"date"`
	Paid              bool          `json:"paid"`
	AmountCents       *int64        `json:"amount_cents"` // Signed, negative for expenses. Nil when the API omits it.
	TotalInstallments int           `json:"total_installments"`
	Installment       int           `json:"installment"`
	Recurring         bool          `json:"recurring"`
	AccountID         *AccountID    `json:"account_id"`
	CategoryID        *CategoryID   `json:"category_id"`
	CreditCardID      *CreditCardID `json:"credit_card_id"`
	Notes             string        `json:"notes"`
}

// MappedTransaction is a Transaction joined with display names and a decimal amount.
// Names are empty when the referenced record could not be resolved.
type MappedTransaction struct {
	Description       string
	Date              Date
	Amount            decimal.Decimal
	TotalInstallments int
	Installment       int
	Recurring         bool
	Account           string
	Category          string
	CreditCard        string
}
