package services

import (
	"errors"
	"fmt"

	"qrdine_backend/internal/models"
	"qrdine_backend/internal/realtime"
	"qrdine_backend/internal/repositories"

	"github.com/shopspring/decimal"
)

var (
	ErrRestaurantNotFound = errors.New("restaurant not found")
)

// DefaultTransactionLimit bounds ledger listings against unbounded scans.
const DefaultTransactionLimit = 50

// BalanceConfig carries the ledger thresholds. MinAcceptBalance is the hard
// acceptance cutoff; LowBalanceWarning only drives the owner-facing nudge and
// has no enforcement semantics; OrderFee is debited per accepted order.
type BalanceConfig struct {
	MinAcceptBalance  decimal.Decimal
	LowBalanceWarning decimal.Decimal
	OrderFee          decimal.Decimal
}

// BalanceStatus is the owner-facing view of a tenant's ledger position.
type BalanceStatus struct {
	Balance         decimal.Decimal `json:"balance"`
	IsLowBalance    bool            `json:"is_low_balance"`
	CanAcceptOrders bool            `json:"can_accept_orders"`
}

// RechargeRequest is the owner's self-service credit.
type RechargeRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description"`
}

// AdminCreditRequest is a platform-admin credit to any tenant.
type AdminCreditRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description"`
}

// --- BalanceService Interface ---
type BalanceService interface {
	// Recharge appends a self-service credit for the owner's restaurant.
	Recharge(restaurantID int64, req RechargeRequest, ownerUserID int64) (*models.BalanceTransaction, error)
	// AdminCredit appends a platform-admin credit. No upper bound is enforced.
	AdminCredit(restaurantID int64, req AdminCreditRequest, adminUserID int64) (*models.BalanceTransaction, error)
	// GetStatus returns the derived balance plus the UI nudge flags.
	GetStatus(restaurantID int64) (*BalanceStatus, error)
	// ListTransactions returns the ledger newest-first, capped.
	ListTransactions(restaurantID int64, limit int) ([]models.BalanceTransaction, error)
	// CanAcceptOrders is the authoritative boolean gate for anonymous callers.
	CanAcceptOrders(restaurantID int64) (bool, error)
}

type balanceService struct {
	balanceRepo repositories.BalanceRepository
	txRunner    repositories.TxRunner
	notifier    realtime.Notifier
	cfg         BalanceConfig
}

// NewBalanceService creates a new instance of BalanceService.
func NewBalanceService(
	br repositories.BalanceRepository,
	runner repositories.TxRunner,
	notifier realtime.Notifier,
	cfg BalanceConfig,
) BalanceService {
	return &balanceService{
		balanceRepo: br,
		txRunner:    runner,
		notifier:    notifier,
		cfg:         cfg,
	}
}

func (s *balanceService) Recharge(restaurantID int64, req RechargeRequest, ownerUserID int64) (*models.BalanceTransaction, error) {
	return s.appendCredit(restaurantID, req.Amount, req.Description, models.TransactionRecharge, ownerUserID)
}

func (s *balanceService) AdminCredit(restaurantID int64, req AdminCreditRequest, adminUserID int64) (*models.BalanceTransaction, error) {
	return s.appendCredit(restaurantID, req.Amount, req.Description, models.TransactionAdminCredit, adminUserID)
}

// appendCredit is the single write path for both credit kinds. The derived
// balance is updated in the same transaction as the ledger append.
func (s *balanceService) appendCredit(
	restaurantID int64,
	amount decimal.Decimal,
	description string,
	txType models.TransactionType,
	actorUserID int64,
) (*models.BalanceTransaction, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: %s amount must be positive", ErrValidation, txType)
	}

	tx := &models.BalanceTransaction{
		RestaurantID:    restaurantID,
		Amount:          amount,
		TransactionType: txType,
		CreatedBy:       &actorUserID,
	}
	if description != "" {
		tx.Description = &description
	}

	err := s.txRunner.WithinTx(func(ex repositories.SQLExecutor) error {
		_, appendErr := s.balanceRepo.AppendTransaction(ex, tx)
		return appendErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to append %s transaction: %w", txType, err)
	}

	s.notifier.BalanceChanged(restaurantID)
	return tx, nil
}

func (s *balanceService) GetStatus(restaurantID int64) (*BalanceStatus, error) {
	balance, err := s.balanceRepo.GetBalance(restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	return &BalanceStatus{
		Balance:         balance,
		IsLowBalance:    balance.LessThan(s.cfg.LowBalanceWarning),
		CanAcceptOrders: balance.GreaterThanOrEqual(s.cfg.MinAcceptBalance),
	}, nil
}

func (s *balanceService) ListTransactions(restaurantID int64, limit int) ([]models.BalanceTransaction, error) {
	if limit <= 0 || limit > DefaultTransactionLimit {
		limit = DefaultTransactionLimit
	}
	txs, err := s.balanceRepo.ListTransactions(restaurantID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list balance transactions: %w", err)
	}
	return txs, nil
}

func (s *balanceService) CanAcceptOrders(restaurantID int64) (bool, error) {
	canAccept, err := s.balanceRepo.CanAcceptOrders(restaurantID, s.cfg.MinAcceptBalance)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return false, ErrRestaurantNotFound
		}
		return false, fmt.Errorf("failed to check order acceptance: %w", err)
	}
	return canAccept, nil
}
