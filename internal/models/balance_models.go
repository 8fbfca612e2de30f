package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType defines the type for ledger transaction kinds.
type TransactionType string

const (
	// TransactionRecharge is a self-service credit initiated by the restaurant owner.
	TransactionRecharge TransactionType = "recharge"
	// TransactionAdminCredit is a credit initiated by a platform admin.
	TransactionAdminCredit TransactionType = "admin_credit"
	// TransactionOrderDeduction is the system-initiated debit taken per accepted order.
	TransactionOrderDeduction TransactionType = "order_deduction"
)

// IsValidTransactionType checks if the provided string is a valid TransactionType.
func IsValidTransactionType(t string) bool {
	switch TransactionType(t) {
	case TransactionRecharge, TransactionAdminCredit, TransactionOrderDeduction:
		return true
	default:
		return false
	}
}

// RestaurantBalance is the derived current balance for a tenant. It always
// equals the signed sum of the tenant's balance transactions; the ledger is
// the source of truth and this row is only written alongside a ledger append.
type RestaurantBalance struct {
	RestaurantID int64           `json:"restaurant_id" db:"restaurant_id"`
	Balance      decimal.Decimal `json:"balance" db:"balance"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
}

// BalanceTransaction is one immutable ledger record. Positive amounts are
// credits, negative amounts are debits. Rows are never updated or deleted.
type BalanceTransaction struct {
	ID              int64           `json:"id" db:"id"`
	RestaurantID    int64           `json:"restaurant_id" db:"restaurant_id"`
	Amount          decimal.Decimal `json:"amount" db:"amount"`
	TransactionType TransactionType `json:"transaction_type" db:"transaction_type"`
	Description     *string         `json:"description,omitempty" db:"description"`
	CreatedBy       *int64          `json:"created_by,omitempty" db:"created_by"` // nil for system-initiated debits
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
}
