package services_test

import (
	"testing"
	"time"

	"qrdine_backend/internal/models"
	"qrdine_backend/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRestaurantServiceFixture() (services.RestaurantService, *fakeRestaurantRepo, *fakeSubscriptionRepo, *fakeBalanceRepo) {
	restaurants := newFakeRestaurantRepo()
	subs := newFakeSubscriptionRepo()
	balances := newFakeBalanceRepo()
	balanceSvc := services.NewBalanceService(balances, &fakeTxRunner{}, &fakeNotifier{}, services.BalanceConfig{
		MinAcceptBalance:  decimal.NewFromInt(500),
		LowBalanceWarning: decimal.NewFromInt(50),
		OrderFee:          decimal.NewFromInt(5),
	})
	svc := services.NewRestaurantService(restaurants, subs, newFakeMenuRepo(), balanceSvc, &fakeTxRunner{})
	return svc, restaurants, subs, balances
}

func TestOnboard_CreatesRestaurantWithTrialSubscription(t *testing.T) {
	svc, _, subs, _ := newRestaurantServiceFixture()

	restaurant, err := svc.Onboard(10, services.OnboardRestaurantRequest{
		Name:     "Giulia's Trattoria",
		Currency: "EUR",
	})
	require.NoError(t, err)

	assert.Equal(t, "giulias-trattoria", restaurant.Slug)
	assert.Equal(t, "EUR", restaurant.Currency)
	assert.True(t, restaurant.IsActive, "new tenants start active")

	sub, err := subs.GetSubscriptionByRestaurant(restaurant.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionTrial, sub.Status)
	require.NotNil(t, sub.TrialEndsAt)
	assert.WithinDuration(t, time.Now().Add(services.TrialPeriod), *sub.TrialEndsAt, time.Minute)
}

func TestOnboard_OnePerOwnerAndUniqueSlug(t *testing.T) {
	svc, _, _, _ := newRestaurantServiceFixture()

	_, err := svc.Onboard(10, services.OnboardRestaurantRequest{Name: "First Place"})
	require.NoError(t, err)

	_, err = svc.Onboard(10, services.OnboardRestaurantRequest{Name: "Second Place"})
	assert.ErrorIs(t, err, services.ErrOwnerHasRestaurant)

	_, err = svc.Onboard(11, services.OnboardRestaurantRequest{Name: "First Place"})
	assert.ErrorIs(t, err, services.ErrSlugTaken)
}

func TestOnboard_RejectsNamesWithoutSlugCharacters(t *testing.T) {
	svc, _, _, _ := newRestaurantServiceFixture()

	_, err := svc.Onboard(10, services.OnboardRestaurantRequest{Name: "!!!"})
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestGetPublicMenu_ReportsAcceptanceGate(t *testing.T) {
	svc, _, _, balances := newRestaurantServiceFixture()

	restaurant, err := svc.Onboard(10, services.OnboardRestaurantRequest{Name: "Gate Cafe"})
	require.NoError(t, err)

	balances.setBalance(restaurant.ID, decimal.NewFromInt(10))
	menu, err := svc.GetPublicMenu("gate-cafe")
	require.NoError(t, err)
	assert.False(t, menu.CanAcceptOrders, "underfunded tenant shows a closed checkout")

	balances.setBalance(restaurant.ID, decimal.NewFromInt(800))
	menu, err = svc.GetPublicMenu("gate-cafe")
	require.NoError(t, err)
	assert.True(t, menu.CanAcceptOrders)
}

func TestResolveSlug_InactiveLooksNonexistent(t *testing.T) {
	svc, restaurants, _, _ := newRestaurantServiceFixture()

	restaurant, err := svc.Onboard(10, services.OnboardRestaurantRequest{Name: "Hidden Bar"})
	require.NoError(t, err)

	require.NoError(t, restaurants.SetActive(nil, restaurant.ID, false))
	_, err = svc.ResolveSlug("hidden-bar")
	assert.ErrorIs(t, err, services.ErrRestaurantNotFound)
}
