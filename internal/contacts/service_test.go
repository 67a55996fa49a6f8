package contacts

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"rolodex/internal/models"
	"rolodex/internal/query"
	"rolodex/internal/store"
	rolodex "rolodex/lib"
	"rolodex/lib/cache"
)

// spyStore counts Find calls on top of a real store.
type spyStore struct {
	store.Store
	finds atomic.Int32
}

func (s *spyStore) Find(ctx context.Context, pred query.Predicate, sort *query.Sort, skip, limit int) ([]*models.Contact, error) {
	s.finds.Add(1)
	return s.Store.Find(ctx, pred, sort, skip, limit)
}

// spyCache counts Clear calls and can be told to fail them.
type spyCache struct {
	cache.Cache
	clears atomic.Int32
	err    error
}

func (c *spyCache) Clear(ctx context.Context) error {
	c.clears.Add(1)
	if c.err != nil {
		return c.err
	}
	return c.Cache.Clear(ctx)
}

func newTestService(t *testing.T) (*Service, *spyStore, *spyCache) {
	t.Helper()
	mem := cache.NewMemoryCache(rolodex.NewNopLogger(), time.Minute)
	t.Cleanup(func() { mem.Close() })

	st := &spyStore{Store: store.NewMemoryStore()}
	sc := &spyCache{Cache: mem}
	return NewService(rolodex.NewNopLogger(), st, sc, query.Limits{}), st, sc
}

func sampleContact(email string) *models.Contact {
	return &models.Contact{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     email,
		Phone:     "555-0100",
		Address:   "1 Main St",
		Company:   "Acme",
		Title:     "Engineer",
	}
}

func TestServiceListShortCircuitsOnZero(t *testing.T) {
	svc, st, _ := newTestService(t)

	page, err := svc.List(context.Background(), query.ListParams{Search: "nobody", Page: 2, Limit: 10})
	require.NoError(t, err)

	assert.Equal(t, int64(0), page.TotalCount)
	assert.Equal(t, 2, page.CurrentPage)
	assert.NotNil(t, page.Contacts)
	assert.Empty(t, page.Contacts)
	assert.Equal(t, int32(0), st.finds.Load())
}

func TestServiceListRejectsBadPatternBeforeStorage(t *testing.T) {
	svc, st, _ := newTestService(t)

	_, err := svc.List(context.Background(), query.ListParams{Email: query.FieldFilter{Value: "[", Regex: true}})

	var pe *rolodex.InvalidPatternError
	assert.True(t, errors.As(err, &pe))
	assert.Equal(t, int32(0), st.finds.Load())
}

func TestServiceCreateNormalizesAndValidates(t *testing.T) {
	svc, _, sc := newTestService(t)
	ctx := context.Background()

	c := sampleContact("  Jane.Doe@Example.COM ")
	c.FirstName = "  Jane  "
	created, err := svc.Create(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, "jane.doe@example.com", created.Email)
	assert.Equal(t, "Jane", created.FirstName)
	assert.Equal(t, []string{}, created.Tags)

	blank := sampleContact("x@example.com")
	blank.Title = "   "
	_, err = svc.Create(ctx, blank)

	var ve rolodex.ValidationErrors
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, []string{"title is required"}, ve.Messages())
	assert.Equal(t, int32(1), sc.clears.Load())
}

func TestServiceWritesClearCache(t *testing.T) {
	svc, _, sc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, sc.Set(ctx, "listing", []byte("stale"), 0))

	created, err := svc.Create(ctx, sampleContact("jane@example.com"))
	require.NoError(t, err)
	assert.False(t, sc.Exists(ctx, "listing"))

	require.NoError(t, sc.Set(ctx, "listing", []byte("stale"), 0))
	_, err = svc.Replace(ctx, created.ID, sampleContact("jane@example.com"))
	require.NoError(t, err)
	assert.False(t, sc.Exists(ctx, "listing"))

	require.NoError(t, sc.Set(ctx, "listing", []byte("stale"), 0))
	require.NoError(t, svc.Delete(ctx, created.ID))
	assert.False(t, sc.Exists(ctx, "listing"))

	assert.Equal(t, int32(3), sc.clears.Load())
}

func TestServiceFailedWritesKeepCache(t *testing.T) {
	svc, _, sc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, sampleContact("jane@example.com"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, sampleContact("JANE@example.com"))

	var dup *rolodex.DuplicateKeyError
	assert.True(t, errors.As(err, &dup))
	assert.ErrorIs(t, svc.Delete(ctx, "missing"), rolodex.ErrNotFound)
	assert.Equal(t, int32(1), sc.clears.Load())
}

func TestServiceClearFailureDoesNotFailWrite(t *testing.T) {
	svc, _, sc := newTestService(t)
	sc.err = errors.New("redis down")

	created, err := svc.Create(context.Background(), sampleContact("jane@example.com"))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
}

func TestServiceClearFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	sc := &spyCache{Cache: cache.NewMemoryCache(rolodex.NewNopLogger(), time.Minute), err: errors.New("redis down")}
	t.Cleanup(func() { sc.Close() })

	svc := NewService(rolodex.NewZapLogger(zap.New(core)), store.NewMemoryStore(), sc, query.Limits{})
	_, err := svc.Create(context.Background(), sampleContact("jane@example.com"))
	require.NoError(t, err)

	entries := logs.FilterMessage("Failed to clear cache").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "contacts", entries[0].ContextMap()["component"])
	assert.Equal(t, "redis down", entries[0].ContextMap()["error"])
}
