package cart

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/tavolopos/tavolo-backend/pkg/errors"
	"github.com/tavolopos/tavolo-backend/pkg/redis"
	"github.com/tavolopos/tavolo-backend/pkg/types"
)

type fakeKV struct {
	data    map[string]string
	ttls    map[string]time.Duration
	failing bool
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeKV) Get(_ context.Context, key string) (string, error) {
	if f.failing {
		return "", errors.New("connection refused")
	}
	value, ok := f.data[key]
	if !ok {
		return "", redis.ErrNotFound
	}
	return value, nil
}

func (f *fakeKV) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	if f.failing {
		return errors.New("connection refused")
	}
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	default:
		f.data[key] = fmt.Sprint(v)
	}
	f.ttls[key] = ttl
	return nil
}

func (f *fakeKV) Del(_ context.Context, keys ...string) error {
	if f.failing {
		return errors.New("connection refused")
	}
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

func newTestStore(t *testing.T) (*SessionStore, *fakeKV) {
	t.Helper()
	kv := newFakeKV()
	store, err := NewSessionStore(kv, time.Hour)
	require.NoError(t, err)
	return store, kv
}

func TestLoadMissingSessionReturnsEmptyCart(t *testing.T) {
	store, _ := newTestStore(t)

	c, err := store.Load(context.Background(), "reg-1")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	store, kv := newTestStore(t)
	ctx := context.Background()

	c := New()
	c.AddItem(snapshot(10), 2,
		[]types.ModifierSelection{modifier("Oat", 0.75)},
		[]types.AddonSelection{addon("Fries", 2, 1)})
	c.SetCustomer("Walk-in")

	require.NoError(t, store.Save(ctx, "reg-1", c))
	assert.Equal(t, time.Hour, kv.ttls["cart:session:reg-1"])

	loaded, err := store.Load(ctx, "reg-1")
	require.NoError(t, err)
	assert.Equal(t, "Walk-in", loaded.CustomerName)
	require.Len(t, loaded.Lines, 1)
	assert.Equal(t, c.Lines[0].LineID, loaded.Lines[0].LineID)
	assert.True(t, loaded.Lines[0].Amount.Equal(c.Lines[0].Amount))
}

func TestDispatchAppliesAndPersists(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	p := snapshot(10)
	c, err := store.Dispatch(ctx, "reg-1", AddItemCommand{Product: p, Quantity: 2})
	require.NoError(t, err)
	require.Len(t, c.Lines, 1)

	// same configuration merges on the reloaded cart
	c, err = store.Dispatch(ctx, "reg-1", AddItemCommand{Product: p, Quantity: 3})
	require.NoError(t, err)
	require.Len(t, c.Lines, 1)
	assert.Equal(t, 5, c.Lines[0].Quantity)

	c, err = store.Dispatch(ctx, "reg-1", UpdateQuantityCommand{LineID: c.Lines[0].LineID, Quantity: 0})
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}

func TestDispatchUnknownCommand(t *testing.T) {
	store, _ := newTestStore(t)

	type bogus struct{ Command }
	_, err := store.Dispatch(context.Background(), "reg-1", bogus{})
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestClearDropsSession(t *testing.T) {
	store, kv := newTestStore(t)
	ctx := context.Background()

	_, err := store.Dispatch(ctx, "reg-1", AddItemCommand{Product: snapshot(10), Quantity: 1})
	require.NoError(t, err)
	require.NotEmpty(t, kv.data)

	require.NoError(t, store.Clear(ctx, "reg-1"))
	assert.Empty(t, kv.data)

	c, err := store.Load(ctx, "reg-1")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}

func TestSessionIDRequired(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.Load(ctx, "")
	require.NotNil(t, pkgerrors.As(err))

	err = store.Save(ctx, "", New())
	require.NotNil(t, pkgerrors.As(err))

	err = store.Clear(ctx, "")
	require.NotNil(t, pkgerrors.As(err))
}

func TestBackendFailureSurfacesAsDependencyError(t *testing.T) {
	store, kv := newTestStore(t)
	kv.failing = true

	_, err := store.Load(context.Background(), "reg-1")
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeDependency, appErr.Code())
}

func TestSessionsAreIsolated(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.Dispatch(ctx, "reg-1", AddItemCommand{Product: snapshot(10), Quantity: 1})
	require.NoError(t, err)

	other, err := store.Load(ctx, "reg-2")
	require.NoError(t, err)
	assert.True(t, other.IsEmpty())
}
