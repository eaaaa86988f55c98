package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionInput holds the caller-supplied fields of a transaction when it
// is recorded or replaced.
type TransactionInput struct {
	Amount   decimal.Decimal
	Type     TransactionType
	Category string
	Sender   string
	Receiver string
	Date     *time.Time
	Note     string
}
