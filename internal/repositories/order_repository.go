package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"qrdine_backend/internal/models"

	"github.com/lib/pq" // For pq.Error and array parameters
)

// OrderRepository defines the interface for order-related database operations.
// Orders are never deleted; cancellation is a status, not a removal.
type OrderRepository interface {
	CreateOrder(executor SQLExecutor, order *models.Order) (int64, error)
	GetOrderByID(orderID int64) (*models.Order, error)
	GetOrdersByIDs(orderIDs []int64) ([]models.Order, error)
	GetOrders(filters models.OrderFilters) ([]models.Order, int, error) // orders, total count, error
	UpdateOrderStatus(executor SQLExecutor, orderID int64, newStatus models.OrderStatus, updatedAt time.Time) error
	// CancelIfPending flips pending -> cancelled as a compare-and-swap.
	// Returns ErrNotFound when the order does not exist or is no longer pending.
	CancelIfPending(executor SQLExecutor, orderID int64, updatedAt time.Time) error

	CreateOrderItem(executor SQLExecutor, item *models.OrderItem) (int64, error)
	GetOrderItemsByOrderID(orderID int64) ([]models.OrderItem, error)
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository.
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

// --- Order Methods ---

func (r *orderRepository) CreateOrder(executor SQLExecutor, order *models.Order) (int64, error) {
	query := `INSERT INTO orders
	            (restaurant_id, table_id, customer_name, customer_phone, notes,
	             total_amount, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          RETURNING id`

	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	if order.UpdatedAt.IsZero() {
		order.UpdatedAt = order.CreatedAt
	}

	var tableID sql.NullInt64
	if order.TableID != nil {
		tableID = sql.NullInt64{Int64: *order.TableID, Valid: true}
	}

	err := executor.QueryRow(query,
		order.RestaurantID, tableID, order.CustomerName, order.CustomerPhone, order.Notes,
		order.TotalAmount, order.Status, order.CreatedAt, order.UpdatedAt,
	).Scan(&order.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return 0, fmt.Errorf("%w: creating order (constraint: %s): %v", ErrDatabaseError, pqErr.Constraint, err)
		}
		return 0, fmt.Errorf("%w: creating order: %v", ErrDatabaseError, err)
	}
	return order.ID, nil
}

func (r *orderRepository) GetOrderByID(orderID int64) (*models.Order, error) {
	order := &models.Order{}
	var tableID sql.NullInt64
	var tableName sql.NullString

	query := `SELECT o.id, o.restaurant_id, o.table_id, o.customer_name, o.customer_phone,
	                 o.notes, o.total_amount, o.status, o.created_at, o.updated_at,
	                 rt.name as table_name
	          FROM orders o
	          LEFT JOIN restaurant_tables rt ON o.table_id = rt.id
	          WHERE o.id = $1`
	err := r.db.QueryRow(query, orderID).Scan(
		&order.ID, &order.RestaurantID, &tableID, &order.CustomerName, &order.CustomerPhone,
		&order.Notes, &order.TotalAmount, &order.Status, &order.CreatedAt, &order.UpdatedAt,
		&tableName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting order by ID %d: %v", ErrDatabaseError, orderID, err)
	}
	if tableID.Valid {
		id := tableID.Int64
		order.TableID = &id
	}
	if tableName.Valid {
		name := tableName.String
		order.TableName = &name
	}
	return order, nil
}

func (r *orderRepository) GetOrdersByIDs(orderIDs []int64) ([]models.Order, error) {
	orders := []models.Order{}
	if len(orderIDs) == 0 {
		return orders, nil
	}

	query := `SELECT o.id, o.restaurant_id, o.table_id, o.customer_name, o.customer_phone,
	                 o.notes, o.total_amount, o.status, o.created_at, o.updated_at,
	                 rt.name as table_name
	          FROM orders o
	          LEFT JOIN restaurant_tables rt ON o.table_id = rt.id
	          WHERE o.id = ANY($1)
	          ORDER BY o.created_at DESC`

	rows, err := r.db.Query(query, pq.Array(orderIDs))
	if err != nil {
		return nil, fmt.Errorf("%w: querying orders by id set: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		o, err := scanOrderRow(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating orders by id set: %v", ErrDatabaseError, err)
	}
	return orders, nil
}

func (r *orderRepository) GetOrders(filters models.OrderFilters) ([]models.Order, int, error) {
	orders := []models.Order{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
        SELECT
            o.id, o.restaurant_id, o.table_id, o.customer_name, o.customer_phone,
            o.notes, o.total_amount, o.status, o.created_at, o.updated_at,
            rt.name as table_name,
            res.name as restaurant_name,
            COUNT(*) OVER() as total_count
        FROM orders o
        LEFT JOIN restaurant_tables rt ON o.table_id = rt.id
        JOIN restaurants res ON o.restaurant_id = res.id
    `)

	var conditions []string
	var args []interface{}
	argCounter := 1

	if filters.RestaurantID != nil {
		conditions = append(conditions, fmt.Sprintf("o.restaurant_id = $%d", argCounter))
		args = append(args, *filters.RestaurantID)
		argCounter++
	}
	if filters.TableID != nil {
		conditions = append(conditions, fmt.Sprintf("o.table_id = $%d", argCounter))
		args = append(args, *filters.TableID)
		argCounter++
	}
	if filters.Status != nil && *filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("o.status = $%d", argCounter))
		args = append(args, *filters.Status)
		argCounter++
	}
	if filters.Date != nil && *filters.Date != "" {
		parsedDate, err := time.Parse("2006-01-02", *filters.Date)
		if err == nil {
			startOfDay := time.Date(parsedDate.Year(), parsedDate.Month(), parsedDate.Day(), 0, 0, 0, 0, parsedDate.Location())
			endOfDay := startOfDay.AddDate(0, 0, 1).Add(-time.Nanosecond)
			conditions = append(conditions, fmt.Sprintf("o.created_at BETWEEN $%d AND $%d", argCounter, argCounter+1))
			args = append(args, startOfDay, endOfDay)
			argCounter += 2
		}
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY o.created_at DESC")

	if filters.PageSize > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", argCounter))
		args = append(args, filters.PageSize)
		argCounter++
		if filters.Page > 0 {
			offset := (filters.Page - 1) * filters.PageSize
			queryBuilder.WriteString(fmt.Sprintf(" OFFSET $%d", argCounter))
			args = append(args, offset)
		}
	}

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying orders: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var o models.Order
		var tableID sql.NullInt64
		var tableName, restaurantName sql.NullString

		err := rows.Scan(
			&o.ID, &o.RestaurantID, &tableID, &o.CustomerName, &o.CustomerPhone,
			&o.Notes, &o.TotalAmount, &o.Status, &o.CreatedAt, &o.UpdatedAt,
			&tableName, &restaurantName,
			&totalCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: scanning order: %v", ErrDatabaseError, err)
		}

		if tableID.Valid {
			id := tableID.Int64
			o.TableID = &id
		}
		if tableName.Valid {
			name := tableName.String
			o.TableName = &name
		}
		if restaurantName.Valid {
			name := restaurantName.String
			o.RestaurantName = &name
		}
		orders = append(orders, o)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating order rows: %v", ErrDatabaseError, err)
	}
	return orders, totalCount, nil
}

func (r *orderRepository) UpdateOrderStatus(executor SQLExecutor, orderID int64, newStatus models.OrderStatus, updatedAt time.Time) error {
	query := `UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3`
	result, err := executor.Exec(query, newStatus, updatedAt, orderID)
	if err != nil {
		return fmt.Errorf("%w: updating order status for ID %d: %v", ErrDatabaseError, orderID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for order status update ID %d: %v", ErrDatabaseError, orderID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *orderRepository) CancelIfPending(executor SQLExecutor, orderID int64, updatedAt time.Time) error {
	// Status is part of the predicate so a concurrent staff transition to
	// preparing wins over a late customer cancel.
	query := `UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`
	result, err := executor.Exec(query, models.OrderStatusCancelled, updatedAt, orderID, models.OrderStatusPending)
	if err != nil {
		return fmt.Errorf("%w: cancelling order ID %d: %v", ErrDatabaseError, orderID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for cancelling order ID %d: %v", ErrDatabaseError, orderID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- OrderItem Methods ---

func (r *orderRepository) CreateOrderItem(executor SQLExecutor, item *models.OrderItem) (int64, error) {
	query := `INSERT INTO order_items
	            (order_id, menu_item_id, name, price, quantity, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id`
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}

	var menuItemID sql.NullInt64
	if item.MenuItemID != nil {
		menuItemID = sql.NullInt64{Int64: *item.MenuItemID, Valid: true}
	}

	err := executor.QueryRow(query,
		item.OrderID, menuItemID, item.Name, item.Price, item.Quantity, item.CreatedAt,
	).Scan(&item.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return 0, fmt.Errorf("%w: creating order item (constraint: %s): %v", ErrDatabaseError, pqErr.Constraint, err)
		}
		return 0, fmt.Errorf("%w: creating order item: %v", ErrDatabaseError, err)
	}
	return item.ID, nil
}

func (r *orderRepository) GetOrderItemsByOrderID(orderID int64) ([]models.OrderItem, error) {
	items := []models.OrderItem{}
	query := `SELECT id, order_id, menu_item_id, name, price, quantity, created_at
	          FROM order_items
	          WHERE order_id = $1
	          ORDER BY id`

	rows, err := r.db.Query(query, orderID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying order items for order ID %d: %v", ErrDatabaseError, orderID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderItem
		var menuItemID sql.NullInt64

		if err := rows.Scan(
			&item.ID, &item.OrderID, &menuItemID, &item.Name, &item.Price,
			&item.Quantity, &item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning order item for order ID %d: %v", ErrDatabaseError, orderID, err)
		}
		if menuItemID.Valid {
			id := menuItemID.Int64
			item.MenuItemID = &id
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating order item rows for order ID %d: %v", ErrDatabaseError, orderID, err)
	}
	return items, nil
}

func scanOrderRow(rows *sql.Rows) (*models.Order, error) {
	var o models.Order
	var tableID sql.NullInt64
	var tableName sql.NullString

	if err := rows.Scan(
		&o.ID, &o.RestaurantID, &tableID, &o.CustomerName, &o.CustomerPhone,
		&o.Notes, &o.TotalAmount, &o.Status, &o.CreatedAt, &o.UpdatedAt,
		&tableName,
	); err != nil {
		return nil, fmt.Errorf("%w: scanning order: %v", ErrDatabaseError, err)
	}
	if tableID.Valid {
		id := tableID.Int64
		o.TableID = &id
	}
	if tableName.Valid {
		name := tableName.String
		o.TableName = &name
	}
	return &o, nil
}
