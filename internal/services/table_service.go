package services

import (
	"errors"
	"fmt"

	"qrdine_backend/internal/models"
	"qrdine_backend/internal/repositories"
	"qrdine_backend/pkg/utils"
)

var ErrTableNotFound = errors.New("table not found")

// qrTokenBytes sizes the random table token (hex doubles it on the wire).
const qrTokenBytes = 16

// TableRequest covers table create and rename; the QR token is server-issued
// and never client-settable.
type TableRequest struct {
	Name string `json:"name" binding:"required"`
}

// --- TableService Interface ---
type TableService interface {
	CreateTable(restaurantID int64, req TableRequest) (*models.RestaurantTable, error)
	GetTables(restaurantID int64) ([]models.RestaurantTable, error)
	RenameTable(restaurantID, tableID int64, req TableRequest) (*models.RestaurantTable, error)
	DeleteTable(restaurantID, tableID int64) error
}

type tableService struct {
	tableRepo repositories.TableRepository
	txRunner  repositories.TxRunner
}

// NewTableService creates a new instance of TableService.
func NewTableService(tr repositories.TableRepository, runner repositories.TxRunner) TableService {
	return &tableService{tableRepo: tr, txRunner: runner}
}

func (s *tableService) CreateTable(restaurantID int64, req TableRequest) (*models.RestaurantTable, error) {
	token, err := utils.RandomToken(qrTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to issue QR token: %w", err)
	}

	table := &models.RestaurantTable{
		RestaurantID: restaurantID,
		Name:         req.Name,
		QRToken:      token,
	}
	err = s.txRunner.WithinTx(func(ex repositories.SQLExecutor) error {
		_, txErr := s.tableRepo.CreateTable(ex, table)
		return txErr
	})
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: table %q already exists", ErrValidation, req.Name)
		}
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	return table, nil
}

func (s *tableService) GetTables(restaurantID int64) ([]models.RestaurantTable, error) {
	tables, err := s.tableRepo.GetTables(restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tables: %w", err)
	}
	return tables, nil
}

func (s *tableService) RenameTable(restaurantID, tableID int64, req TableRequest) (*models.RestaurantTable, error) {
	table := &models.RestaurantTable{
		ID:           tableID,
		RestaurantID: restaurantID,
		Name:         req.Name,
	}
	err := s.txRunner.WithinTx(func(ex repositories.SQLExecutor) error {
		return s.tableRepo.UpdateTable(ex, table)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTableNotFound
		}
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: table %q already exists", ErrValidation, req.Name)
		}
		return nil, fmt.Errorf("failed to rename table %d: %w", tableID, err)
	}
	return s.tableRepo.GetTableByID(tableID)
}

func (s *tableService) DeleteTable(restaurantID, tableID int64) error {
	err := s.txRunner.WithinTx(func(ex repositories.SQLExecutor) error {
		return s.tableRepo.DeleteTable(ex, tableID, restaurantID)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrTableNotFound
		}
		return fmt.Errorf("failed to delete table %d: %w", tableID, err)
	}
	return nil
}
