package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/agridash/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// menuFixture builds a small catalog:
//
//	config 1 (type level 1)
//	  product 10 "Cabbage" (aggregate)
//	     product 11 (type 1, leaf)   product 12 (type 2, leaf)
//	  product 20 "Banana" (type 1, leaf)
//	sources 1 (type 1), 2 (type 2) attached to config 1
//	watchlist 1 watch-all, watchlist 2 watching product 11
func menuFixture() *fakeStore {
	f := newFakeStore()

	f.configs[1] = &models.Config{ID: 1, Name: "Vegetables", TypeLevel: 1}
	f.types[1] = &models.Type{ID: 1, Name: "Wholesale"}
	f.types[2] = &models.Type{ID: 2, Name: "Origin"}

	t1 := uint(1)
	t2 := uint(2)
	f.sources[1] = &models.Source{ID: 1, Name: "North Market", TypeID: &t1, Enable: true}
	f.sources[2] = &models.Source{ID: 2, Name: "South Origin", TypeID: &t2, Enable: true}
	f.configSources[1] = []uint{1, 2}

	f.addProduct(models.AbstractProduct{ID: 10, Name: "Cabbage", Code: "LA", ConfigID: uintPtr(1), TrackItem: false})
	f.addProduct(models.AbstractProduct{ID: 11, Name: "Cabbage wholesale", Code: "LA1", ConfigID: uintPtr(1), TypeID: uintPtr(1), ParentID: uintPtr(10), TrackItem: true})
	f.addProduct(models.AbstractProduct{ID: 12, Name: "Cabbage origin", Code: "LA2", ConfigID: uintPtr(1), TypeID: uintPtr(2), ParentID: uintPtr(10), TrackItem: true})
	f.addProduct(models.AbstractProduct{ID: 20, Name: "Banana", Code: "BN", ConfigID: uintPtr(1), TypeID: uintPtr(1), TrackItem: true})

	f.watchlists[1] = &models.Watchlist{ID: 1, Name: "everything", WatchAll: true, StartDate: time.Now()}
	f.watchlists[2] = &models.Watchlist{ID: 2, Name: "mine"}
	f.items = []models.WatchlistItem{
		{ID: 1, WatchlistID: 2, ProductID: 11, Sources: []models.Source{{ID: 1, Name: "North Market"}}},
	}
	return f
}

func TestMenuConfigListsFirstLevel(t *testing.T) {
	resolver := NewResolver(menuFixture())

	result, err := resolver.Menu(context.Background(), Breadcrumb{
		WatchlistID: 1,
		ContentType: ContentTypeConfig,
		ObjectID:    1,
	})
	require.NoError(t, err)

	require.Len(t, result.Products, 2)
	assert.Equal(t, uint(10), result.Products[0].ID)
	assert.Equal(t, uint(20), result.Products[1].ID)
	assert.Equal(t, ContentTypeProduct, result.Next)
	assert.Equal(t, ContentTypeConfig, result.LastContentType)
	assert.Equal(t, uint(1), result.LastObjectID)
}

func TestMenuConfigHonorsWatchlistFilter(t *testing.T) {
	resolver := NewResolver(menuFixture())

	result, err := resolver.Menu(context.Background(), Breadcrumb{
		WatchlistID: 2,
		ContentType: ContentTypeConfig,
		ObjectID:    1,
	})
	require.NoError(t, err)

	// Watchlist 2 only watches product 11, so only its ancestor shows.
	require.Len(t, result.Products, 1)
	assert.Equal(t, uint(10), result.Products[0].ID)
}

func TestMenuProductSplitsByType(t *testing.T) {
	resolver := NewResolver(menuFixture())

	result, err := resolver.Menu(context.Background(), Breadcrumb{
		WatchlistID: 1,
		ContentType: ContentTypeProduct,
		ObjectID:    10,
		MenuViewer:  true,
	})
	require.NoError(t, err)

	// Product 10 sits at the type level with two child types.
	require.Len(t, result.Types, 2)
	assert.Equal(t, ContentTypeType, result.Next)
	assert.Equal(t, ContentTypeProduct, result.LastContentType)
	assert.Equal(t, uint(10), result.LastObjectID)
}

func TestMenuProductStopsForPlainViewer(t *testing.T) {
	resolver := NewResolver(menuFixture())

	result, err := resolver.Menu(context.Background(), Breadcrumb{
		WatchlistID: 1,
		ContentType: ContentTypeProduct,
		ObjectID:    10,
	})
	require.NoError(t, err)
	assert.True(t, result.Empty())
}

func TestMenuProductExpandsWhenChildMonitored(t *testing.T) {
	store := menuFixture()
	store.profiles = []models.MonitorProfile{
		{ID: 1, WatchlistID: 1, ProductID: 11, Price: 20},
	}
	resolver := NewResolver(store)

	result, err := resolver.Menu(context.Background(), Breadcrumb{
		WatchlistID: 1,
		ContentType: ContentTypeProduct,
		ObjectID:    10,
	})
	require.NoError(t, err)
	assert.False(t, result.Empty())
}

func TestMenuLeafProductListsSources(t *testing.T) {
	resolver := NewResolver(menuFixture())

	result, err := resolver.Menu(context.Background(), Breadcrumb{
		WatchlistID: 1,
		ContentType: ContentTypeProduct,
		ObjectID:    20,
		MenuViewer:  true,
	})
	require.NoError(t, err)

	// Leaf with one type: fall through to its config sources.
	require.Len(t, result.Sources, 1)
	assert.Equal(t, uint(1), result.Sources[0].ID)
	assert.Equal(t, ContentTypeSource, result.Next)
}

func TestMenuTypeListsChildrenOfType(t *testing.T) {
	resolver := NewResolver(menuFixture())

	result, err := resolver.Menu(context.Background(), Breadcrumb{
		WatchlistID:     1,
		ContentType:     ContentTypeType,
		ObjectID:        2,
		LastContentType: ContentTypeProduct,
		LastObjectID:    10,
	})
	require.NoError(t, err)

	require.Len(t, result.Products, 1)
	assert.Equal(t, uint(12), result.Products[0].ID)
	assert.Equal(t, ContentTypeType, result.LastContentType)
	assert.Equal(t, uint(2), result.LastObjectID)
}

func TestMenuAmbiguousBreadcrumbIsEmptyNotError(t *testing.T) {
	resolver := NewResolver(menuFixture())

	cases := []Breadcrumb{
		{WatchlistID: 1, ContentType: ContentTypeType, ObjectID: 1}, // no product context
		{WatchlistID: 1, ContentType: ContentTypeSource, ObjectID: 1},
		{WatchlistID: 1, ContentType: ContentTypeInvalid},
	}
	for _, b := range cases {
		result, err := resolver.Menu(context.Background(), b)
		require.NoError(t, err)
		assert.True(t, result.Empty())
	}
}

func TestMenuUnknownWatchlist(t *testing.T) {
	resolver := NewResolver(menuFixture())

	_, err := resolver.Menu(context.Background(), Breadcrumb{
		WatchlistID: 99,
		ContentType: ContentTypeConfig,
		ObjectID:    1,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestItemScope(t *testing.T) {
	resolver := NewResolver(menuFixture())
	ctx := context.Background()

	t.Run("config", func(t *testing.T) {
		scope, err := resolver.ItemScope(ctx, Breadcrumb{
			WatchlistID: 2,
			ContentType: ContentTypeConfig,
			ObjectID:    1,
		})
		require.NoError(t, err)
		require.Len(t, scope.Items, 1)
		assert.Equal(t, uint(11), scope.Items[0].ProductID)
		assert.Nil(t, scope.Sources)
	})

	t.Run("product chain", func(t *testing.T) {
		scope, err := resolver.ItemScope(ctx, Breadcrumb{
			WatchlistID: 2,
			ContentType: ContentTypeProduct,
			ObjectID:    10, // parent of the watched product
		})
		require.NoError(t, err)
		require.Len(t, scope.Items, 1)
		assert.Equal(t, uint(11), scope.Items[0].ProductID)
	})

	t.Run("source pins the source set", func(t *testing.T) {
		scope, err := resolver.ItemScope(ctx, Breadcrumb{
			WatchlistID:     2,
			ContentType:     ContentTypeSource,
			ObjectID:        1,
			LastContentType: ContentTypeProduct,
			LastObjectID:    11,
		})
		require.NoError(t, err)
		require.Len(t, scope.Items, 1)
		require.Len(t, scope.Sources, 1)
		assert.Equal(t, uint(1), scope.Sources[0].ID)
	})

	t.Run("ambiguous type position", func(t *testing.T) {
		scope, err := resolver.ItemScope(ctx, Breadcrumb{
			WatchlistID: 2,
			ContentType: ContentTypeType,
			ObjectID:    1,
		})
		require.NoError(t, err)
		assert.Empty(t, scope.Items)
	})
}

func TestScopeTypesNarrowsOnTypePosition(t *testing.T) {
	store := menuFixture()
	store.items = append(store.items, models.WatchlistItem{ID: 2, WatchlistID: 2, ProductID: 12})
	resolver := NewResolver(store)
	ctx := context.Background()

	b := Breadcrumb{
		WatchlistID:     2,
		ContentType:     ContentTypeType,
		ObjectID:        2,
		LastContentType: ContentTypeProduct,
		LastObjectID:    10,
	}
	scope, err := resolver.ItemScope(ctx, b)
	require.NoError(t, err)
	require.Len(t, scope.Items, 2)

	types, err := resolver.ScopeTypes(ctx, b, scope)
	require.NoError(t, err)
	require.Len(t, types, 1)
	assert.Equal(t, uint(2), types[0].ID)

	b.ContentType = ContentTypeProduct
	b.ObjectID = 10
	types, err = resolver.ScopeTypes(ctx, b, scope)
	require.NoError(t, err)
	assert.Len(t, types, 2)
}

func TestBreadcrumbOverlay(t *testing.T) {
	cases := []struct {
		name string
		b    Breadcrumb
		ct   ContentType
		id   uint
	}{
		{"config points at itself", Breadcrumb{ContentType: ContentTypeConfig, ObjectID: 3}, ContentTypeConfig, 3},
		{"product points at itself", Breadcrumb{ContentType: ContentTypeProduct, ObjectID: 10}, ContentTypeProduct, 10},
		{"type falls back", Breadcrumb{ContentType: ContentTypeType, ObjectID: 1, LastContentType: ContentTypeProduct, LastObjectID: 10}, ContentTypeProduct, 10},
		{"source falls back", Breadcrumb{ContentType: ContentTypeSource, ObjectID: 2, LastContentType: ContentTypeProduct, LastObjectID: 11}, ContentTypeProduct, 11},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ct, id := tc.b.Overlay()
			assert.Equal(t, tc.ct, ct)
			assert.Equal(t, tc.id, id)
		})
	}
}
