package chartcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/agridash/catalog"
	"github.com/agridash/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubStore covers the slice of catalog.Store the chart catalog touches.
type stubStore struct {
	catalog.Store

	configs  map[uint]*models.Config
	products map[uint]*models.AbstractProduct
	charts   []models.Chart

	chartCalls int
	chartErr   error
}

func (s *stubStore) ConfigByID(_ context.Context, id uint) (*models.Config, error) {
	if c, ok := s.configs[id]; ok {
		return c, nil
	}
	return nil, catalog.ErrNotFound
}

func (s *stubStore) ProductByID(_ context.Context, id uint) (*models.AbstractProduct, error) {
	if p, ok := s.products[id]; ok {
		return p, nil
	}
	return nil, catalog.ErrNotFound
}

func (s *stubStore) ChartsOf(_ context.Context, _ uint) ([]models.Chart, error) {
	s.chartCalls++
	if s.chartErr != nil {
		return nil, s.chartErr
	}
	return s.charts, nil
}

func newStubStore() *stubStore {
	configID := uint(1)
	return &stubStore{
		configs: map[uint]*models.Config{1: {ID: 1, Name: "Vegetables"}},
		products: map[uint]*models.AbstractProduct{
			10: {ID: 10, Name: "Cabbage", ConfigID: &configID},
		},
		charts: []models.Chart{
			{ID: 1, Name: "Daily price and volume"},
			{ID: 2, Name: "Price by year"},
		},
	}
}

func TestChartsForConfigPopulatesOnce(t *testing.T) {
	store := newStubStore()
	cc := NewChartCatalog(store, NewMemory())
	ctx := context.Background()

	first, err := cc.ChartsForConfig(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, first, 2)
	assert.Equal(t, 1, store.chartCalls)

	second, err := cc.ChartsForConfig(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, store.chartCalls, "second call must hit the cache")
}

func TestChartsForProductUsesProductKey(t *testing.T) {
	store := newStubStore()
	cache := NewMemory()
	cc := NewChartCatalog(store, cache)
	ctx := context.Background()

	charts, err := cc.ChartsForProduct(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, charts, 2)

	_, ok, err := cache.Get(ctx, fmt.Sprintf(productChartsKey, 10))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestChartsForUnknownEntity(t *testing.T) {
	cc := NewChartCatalog(newStubStore(), NewMemory())
	ctx := context.Background()

	_, err := cc.ChartsForConfig(ctx, 9)
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	_, err = cc.ChartsForProduct(ctx, 99)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestPopulateFailureDegradesToEmpty(t *testing.T) {
	store := newStubStore()
	store.chartErr = errors.New("connection reset")
	cc := NewChartCatalog(store, NewMemory())

	charts, err := cc.ChartsForConfig(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, charts)
	assert.Equal(t, 2, store.chartCalls, "populate retries exactly once")
}

func TestStaleSnapshotVersionRepopulates(t *testing.T) {
	store := newStubStore()
	cache := NewMemory()
	cc := NewChartCatalog(store, cache)
	ctx := context.Background()

	stale, err := json.Marshal(chartSnapshot{Version: snapshotVersion + 1, Charts: []models.Chart{{ID: 9}}})
	require.NoError(t, err)
	require.NoError(t, cache.Set(ctx, fmt.Sprintf(configChartsKey, 1), stale))

	charts, err := cc.ChartsForConfig(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, charts, 2)
	assert.Equal(t, 1, store.chartCalls)
}

func TestChartsForBreadcrumbDispatch(t *testing.T) {
	store := newStubStore()
	cc := NewChartCatalog(store, NewMemory())
	ctx := context.Background()

	charts, err := cc.ChartsFor(ctx, catalog.Breadcrumb{ContentType: catalog.ContentTypeConfig, ObjectID: 1})
	require.NoError(t, err)
	assert.Len(t, charts, 2)

	charts, err = cc.ChartsFor(ctx, catalog.Breadcrumb{
		ContentType:     catalog.ContentTypeSource,
		ObjectID:        3,
		LastContentType: catalog.ContentTypeProduct,
		LastObjectID:    10,
	})
	require.NoError(t, err)
	assert.Len(t, charts, 2)

	// A type position without product context has no chart list.
	charts, err = cc.ChartsFor(ctx, catalog.Breadcrumb{ContentType: catalog.ContentTypeType, ObjectID: 3})
	require.NoError(t, err)
	assert.Empty(t, charts)
}

func TestFlushDropsSnapshots(t *testing.T) {
	store := newStubStore()
	cache := NewMemory()
	cc := NewChartCatalog(store, cache)
	ctx := context.Background()

	_, err := cc.ChartsForConfig(ctx, 1)
	require.NoError(t, err)
	_, err = cc.ChartsForProduct(ctx, 10)
	require.NoError(t, err)

	require.NoError(t, cc.Flush(ctx, 1, 10))

	_, ok, err := cache.Get(ctx, fmt.Sprintf(configChartsKey, 1))
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = cache.Get(ctx, fmt.Sprintf(productChartsKey, 10))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBadgerCacheRoundTrip(t *testing.T) {
	cache, err := NewBadger("")
	require.NoError(t, err)
	defer cache.Close()
	ctx := context.Background()

	_, ok, err := cache.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, "k", []byte("v")))
	value, ok, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("v"), value)

	require.NoError(t, cache.Delete(ctx, "k"))
	_, ok, err = cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBadgerCachePersists(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	cache, err := NewBadger(dir)
	require.NoError(t, err)
	require.NoError(t, cache.Set(ctx, "k", []byte("v")))
	require.NoError(t, cache.Close())

	reopened, err := NewBadger(dir)
	require.NoError(t, err)
	defer reopened.Close()

	value, ok, err := reopened.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("v"), value)
}
