package models_test

import (
	"testing"

	"qrdine_backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestIsValidOrderStatus(t *testing.T) {
	for _, valid := range []string{"pending", "preparing", "ready", "served", "cancelled"} {
		assert.True(t, models.IsValidOrderStatus(valid), valid)
	}
	for _, invalid := range []string{"", "Pending", "shipped", "canceled", "done"} {
		assert.False(t, models.IsValidOrderStatus(invalid), invalid)
	}
}

func TestOrderStatus_IsTerminal(t *testing.T) {
	assert.True(t, models.OrderStatusServed.IsTerminal())
	assert.True(t, models.OrderStatusCancelled.IsTerminal())
	assert.False(t, models.OrderStatusPending.IsTerminal())
	assert.False(t, models.OrderStatusPreparing.IsTerminal())
	assert.False(t, models.OrderStatusReady.IsTerminal())
}

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	active := []models.OrderStatus{
		models.OrderStatusPending, models.OrderStatusPreparing, models.OrderStatusReady,
	}
	terminal := []models.OrderStatus{models.OrderStatusServed, models.OrderStatusCancelled}

	// Active states may move to any valid status, including skipping steps
	// and cancelling mid-flow.
	for _, from := range active {
		for _, to := range append(active, terminal...) {
			assert.True(t, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}

	// Terminal states admit nothing, not even a re-assertion of themselves.
	for _, from := range terminal {
		for _, to := range append(active, terminal...) {
			assert.False(t, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}

	assert.False(t, models.OrderStatusPending.CanTransitionTo("shipped"), "unknown target status")
}
