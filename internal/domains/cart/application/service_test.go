package application

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/amushan/portal-storefront/internal/domains/cart/domain"
	"github.com/amushan/portal-storefront/internal/domains/cart/ports"
)

type fakeCartRepo struct {
	carts   map[string][]domain.Item
	loadErr error
	saveErr error
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{carts: map[string][]domain.Item{}}
}

func (f *fakeCartRepo) Load(_ context.Context, key string) (*domain.Cart, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	items, ok := f.carts[key]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return domain.FromItems(items), nil
}

func (f *fakeCartRepo) Save(_ context.Context, key string, cart *domain.Cart) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.carts[key] = cart.Items()
	return nil
}

func (f *fakeCartRepo) Delete(_ context.Context, key string) error {
	delete(f.carts, key)
	return nil
}

func TestLoad_MissingStateDegradesToEmptyCart(t *testing.T) {
	svc := NewService(newFakeCartRepo())

	cart, err := svc.Load(context.Background(), "s1")
	require.NoError(t, err)
	require.True(t, cart.IsEmpty())
}

func TestLoad_StorageFailureDegradesToEmptyCartWithWarning(t *testing.T) {
	repo := newFakeCartRepo()
	repo.loadErr = fmt.Errorf("%w: connection refused", ports.ErrStorage)
	var logs bytes.Buffer
	svc := NewService(repo, WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))

	cart, err := svc.Load(context.Background(), "s1")
	require.NoError(t, err)
	require.True(t, cart.IsEmpty())
	require.Contains(t, logs.String(), "level=WARN")
	require.Contains(t, logs.String(), "degraded to empty cart")
}

func TestLoad_MissingStateIsNotLogged(t *testing.T) {
	var logs bytes.Buffer
	svc := NewService(newFakeCartRepo(), WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))

	cart, err := svc.Load(context.Background(), "s1")
	require.NoError(t, err)
	require.True(t, cart.IsEmpty())
	require.Empty(t, logs.String())
}

func TestAddItem_MergesAndPersists(t *testing.T) {
	repo := newFakeCartRepo()
	svc := NewService(repo)
	input := ports.AddItemInput{ProductID: "p1", Name: "Widget", UnitPrice: 1000, ImageRef: "widget.jpg"}

	_, err := svc.AddItem(context.Background(), "s1", input)
	require.NoError(t, err)
	cart, err := svc.AddItem(context.Background(), "s1", input)
	require.NoError(t, err)

	item, ok := cart.Find("p1")
	require.True(t, ok)
	require.Equal(t, 2, item.Quantity)

	persisted, err := svc.Load(context.Background(), "s1")
	require.NoError(t, err)
	require.Equal(t, cart.Items(), persisted.Items())
}

func TestAddItem_InvalidInput(t *testing.T) {
	svc := NewService(newFakeCartRepo())

	_, err := svc.AddItem(context.Background(), "s1", ports.AddItemInput{ProductID: ""})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrEmptyProductID)
}

func TestChangeQuantity_DropsLineAtZero(t *testing.T) {
	svc := NewService(newFakeCartRepo())
	_, err := svc.AddItem(context.Background(), "s1", ports.AddItemInput{ProductID: "p1", Name: "Widget", UnitPrice: 1000})
	require.NoError(t, err)

	cart, err := svc.ChangeQuantity(context.Background(), "s1", "p1", -1)
	require.NoError(t, err)
	require.True(t, cart.IsEmpty())

	persisted, err := svc.Load(context.Background(), "s1")
	require.NoError(t, err)
	require.True(t, persisted.IsEmpty())
}

func TestChangeQuantity_AbsentIDPersistsUnchanged(t *testing.T) {
	repo := newFakeCartRepo()
	svc := NewService(repo)
	_, err := svc.AddItem(context.Background(), "s1", ports.AddItemInput{ProductID: "p1", Name: "Widget", UnitPrice: 1000})
	require.NoError(t, err)

	cart, err := svc.ChangeQuantity(context.Background(), "s1", "missing", 3)
	require.NoError(t, err)
	require.Equal(t, 1, cart.Len())
}

func TestClear_PersistsEmptyState(t *testing.T) {
	repo := newFakeCartRepo()
	svc := NewService(repo)
	_, err := svc.AddItem(context.Background(), "s1", ports.AddItemInput{ProductID: "p1", Name: "Widget", UnitPrice: 1000})
	require.NoError(t, err)

	cart, err := svc.Clear(context.Background(), "s1")
	require.NoError(t, err)
	require.True(t, cart.IsEmpty())
	require.Empty(t, repo.carts["s1"])
}

func TestMutation_SurfacesStorageErrorKeepingCart(t *testing.T) {
	repo := newFakeCartRepo()
	repo.saveErr = errors.New("disk full")
	svc := NewService(repo)

	cart, err := svc.AddItem(context.Background(), "s1", ports.AddItemInput{ProductID: "p1", Name: "Widget", UnitPrice: 1000})
	require.ErrorIs(t, err, ports.ErrStorage)

	// The in-memory cart stays authoritative despite the failed persist.
	item, ok := cart.Find("p1")
	require.True(t, ok)
	require.Equal(t, 1, item.Quantity)
}
