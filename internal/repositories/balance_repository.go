package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"qrdine_backend/internal/models"

	"github.com/shopspring/decimal"
)

// BalanceRepository defines the interface for balance-ledger database operations.
// The balance_transactions table is append-only: this interface deliberately
// exposes no update or delete on transactions.
type BalanceRepository interface {
	// AppendTransaction inserts an immutable ledger row and updates the derived
	// restaurant_balances row in the same executor. Callers that need the
	// append to be atomic with other statements pass a transaction executor.
	AppendTransaction(executor SQLExecutor, tx *models.BalanceTransaction) (int64, error)
	// GetBalance returns the derived balance, or zero if the tenant has no
	// balance row yet (not an error).
	GetBalance(restaurantID int64) (decimal.Decimal, error)
	// GetBalanceForUpdate reads the balance with a row lock, creating the row
	// if missing, so a gate check and the following deduction see a
	// serialized view of the tenant's balance.
	GetBalanceForUpdate(executor SQLExecutor, restaurantID int64) (decimal.Decimal, error)
	// ListTransactions returns the tenant's ledger, newest first, capped at limit.
	ListTransactions(restaurantID int64, limit int) ([]models.BalanceTransaction, error)
	// CanAcceptOrders calls the boolean-only server-side gate function.
	CanAcceptOrders(restaurantID int64, minBalance decimal.Decimal) (bool, error)
}

type balanceRepository struct {
	db *sql.DB
}

// NewBalanceRepository creates a new instance of BalanceRepository.
func NewBalanceRepository(db *sql.DB) BalanceRepository {
	return &balanceRepository{db: db}
}

func (r *balanceRepository) AppendTransaction(executor SQLExecutor, tx *models.BalanceTransaction) (int64, error) {
	query := `INSERT INTO balance_transactions
	            (restaurant_id, amount, transaction_type, description, created_by, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id`

	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}

	var createdBy sql.NullInt64
	if tx.CreatedBy != nil {
		createdBy = sql.NullInt64{Int64: *tx.CreatedBy, Valid: true}
	}

	err := executor.QueryRow(query,
		tx.RestaurantID, tx.Amount, tx.TransactionType, tx.Description, createdBy, tx.CreatedAt,
	).Scan(&tx.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: appending balance transaction: %v", ErrDatabaseError, err)
	}

	// Keep the derived balance in step with the ledger inside the same executor.
	upsert := `INSERT INTO restaurant_balances (restaurant_id, balance, updated_at)
	           VALUES ($1, $2, $3)
	           ON CONFLICT (restaurant_id)
	           DO UPDATE SET balance = restaurant_balances.balance + EXCLUDED.balance,
	                         updated_at = EXCLUDED.updated_at`
	if _, err := executor.Exec(upsert, tx.RestaurantID, tx.Amount, tx.CreatedAt); err != nil {
		return 0, fmt.Errorf("%w: updating derived balance for restaurant %d: %v", ErrDatabaseError, tx.RestaurantID, err)
	}

	return tx.ID, nil
}

func (r *balanceRepository) GetBalance(restaurantID int64) (decimal.Decimal, error) {
	var balance decimal.Decimal
	query := `SELECT balance FROM restaurant_balances WHERE restaurant_id = $1`
	err := r.db.QueryRow(query, restaurantID).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("%w: getting balance for restaurant %d: %v", ErrDatabaseError, restaurantID, err)
	}
	return balance, nil
}

func (r *balanceRepository) GetBalanceForUpdate(executor SQLExecutor, restaurantID int64) (decimal.Decimal, error) {
	// Ensure the row exists so FOR UPDATE has something to lock for tenants
	// that have never transacted.
	seed := `INSERT INTO restaurant_balances (restaurant_id, balance, updated_at)
	         VALUES ($1, 0, $2)
	         ON CONFLICT (restaurant_id) DO NOTHING`
	if _, err := executor.Exec(seed, restaurantID, time.Now()); err != nil {
		return decimal.Zero, fmt.Errorf("%w: seeding balance row for restaurant %d: %v", ErrDatabaseError, restaurantID, err)
	}

	var balance decimal.Decimal
	query := `SELECT balance FROM restaurant_balances WHERE restaurant_id = $1 FOR UPDATE`
	if err := executor.QueryRow(query, restaurantID).Scan(&balance); err != nil {
		return decimal.Zero, fmt.Errorf("%w: locking balance for restaurant %d: %v", ErrDatabaseError, restaurantID, err)
	}
	return balance, nil
}

func (r *balanceRepository) ListTransactions(restaurantID int64, limit int) ([]models.BalanceTransaction, error) {
	txs := []models.BalanceTransaction{}
	query := `SELECT id, restaurant_id, amount, transaction_type, description, created_by, created_at
	          FROM balance_transactions
	          WHERE restaurant_id = $1
	          ORDER BY created_at DESC, id DESC
	          LIMIT $2`

	rows, err := r.db.Query(query, restaurantID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: listing balance transactions for restaurant %d: %v", ErrDatabaseError, restaurantID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var tx models.BalanceTransaction
		var description sql.NullString
		var createdBy sql.NullInt64

		if err := rows.Scan(
			&tx.ID, &tx.RestaurantID, &tx.Amount, &tx.TransactionType,
			&description, &createdBy, &tx.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning balance transaction: %v", ErrDatabaseError, err)
		}
		if description.Valid {
			d := description.String
			tx.Description = &d
		}
		if createdBy.Valid {
			id := createdBy.Int64
			tx.CreatedBy = &id
		}
		txs = append(txs, tx)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating balance transactions: %v", ErrDatabaseError, err)
	}
	return txs, nil
}

func (r *balanceRepository) CanAcceptOrders(restaurantID int64, minBalance decimal.Decimal) (bool, error) {
	var canAccept sql.NullBool
	query := `SELECT can_accept_orders($1, $2)`
	err := r.db.QueryRow(query, restaurantID, minBalance).Scan(&canAccept)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, ErrNotFound
		}
		return false, fmt.Errorf("%w: checking order acceptance for restaurant %d: %v", ErrDatabaseError, restaurantID, err)
	}
	// The function returns NULL for an unknown restaurant id.
	if !canAccept.Valid {
		return false, ErrNotFound
	}
	return canAccept.Bool, nil
}
