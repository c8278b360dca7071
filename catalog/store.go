package catalog

import (
	"context"

	"github.com/agridash/models"
)

// Store is the read-only catalog query surface. The production
// implementation sits on GORM (NewStore); tests substitute a fake.
// All lookups return ErrNotFound (wrapped) when the id does not exist.
type Store interface {
	ConfigByID(ctx context.Context, id uint) (*models.Config, error)
	TypeByID(ctx context.Context, id uint) (*models.Type, error)
	ProductByID(ctx context.Context, id uint) (*models.AbstractProduct, error)
	SourceByID(ctx context.Context, id uint) (*models.Source, error)
	ChartByID(ctx context.Context, id uint) (*models.Chart, error)
	WatchlistByID(ctx context.Context, id uint) (*models.Watchlist, error)

	// Configs lists every config ordered by id (selector step 1).
	Configs(ctx context.Context) ([]models.Config, error)

	// Watchlists lists the user-curated (non-watch-all) watchlists.
	Watchlists(ctx context.Context) ([]models.Watchlist, error)

	// FirstLevelProducts returns a config's parentless products, filtered
	// to the watchlist's product chains unless the watchlist watches all.
	// A nil watchlist means no filtering.
	FirstLevelProducts(ctx context.Context, configID uint, w *models.Watchlist) ([]models.AbstractProduct, error)

	// Children returns a product's direct children, watchlist-filtered
	// the same way as FirstLevelProducts.
	Children(ctx context.Context, productID uint, w *models.Watchlist) ([]models.AbstractProduct, error)

	// ChildrenAll returns every descendant of a product, any depth.
	ChildrenAll(ctx context.Context, productID uint) ([]models.AbstractProduct, error)

	// ProductLevel returns the 1-based depth of a product (root = 1).
	ProductLevel(ctx context.Context, productID uint) (int, error)

	// TypesOf returns the types a product exposes: its children's
	// distinct types when it has children, else its own type.
	TypesOf(ctx context.Context, product *models.AbstractProduct, w *models.Watchlist) ([]models.Type, error)

	// SourcesOf returns a product's sources. With a non-watch-all
	// watchlist the sources come from the matching watchlist item
	// instead of the config.
	SourcesOf(ctx context.Context, product *models.AbstractProduct, w *models.Watchlist) ([]models.Source, error)

	ProductsByIDs(ctx context.Context, ids []uint) ([]models.AbstractProduct, error)
	SourcesByIDs(ctx context.Context, ids []uint) ([]models.Source, error)

	// ProductsByConfig returns a config's products with the given
	// track-item flag, optionally narrowed to a type (typeID 0 = any).
	ProductsByConfig(ctx context.Context, configID uint, typeID uint, trackItem bool) ([]models.AbstractProduct, error)

	// NonLeafProducts returns aggregate (track_item=false) products of a
	// config whose code contains marker, narrowed to a type.
	NonLeafProducts(ctx context.Context, configID uint, typeID uint, marker string) ([]models.AbstractProduct, error)

	// LeafChildren returns a product's direct children that are leaves.
	LeafChildren(ctx context.Context, productID uint) ([]models.AbstractProduct, error)

	// ConfigTypes returns the distinct types of a config's products.
	ConfigTypes(ctx context.Context, configID uint) ([]models.Type, error)

	// ConfigSources returns a config's sources narrowed to a type.
	ConfigSources(ctx context.Context, configID uint, typeID uint) ([]models.Source, error)

	// ChartsOf returns the charts associated with a config.
	ChartsOf(ctx context.Context, configID uint) ([]models.Chart, error)

	// WatchlistItems returns a watchlist's items, optionally narrowed to
	// products of one config (configID 0 = all).
	WatchlistItems(ctx context.Context, watchlistID uint, configID uint) ([]models.WatchlistItem, error)

	// ItemsByProductChain returns watchlist items whose product is the
	// given product or any descendant of it.
	ItemsByProductChain(ctx context.Context, watchlistID, productID uint) ([]models.WatchlistItem, error)

	// HasMonitorProfile reports whether any monitor profile of the
	// watchlist references one of the given products.
	HasMonitorProfile(ctx context.Context, watchlistID uint, productIDs []uint) (bool, error)

	// MonitorProfilesByProduct returns a product's profiles ordered by price.
	MonitorProfilesByProduct(ctx context.Context, productID uint) ([]models.MonitorProfile, error)

	// TypesForItems returns the distinct types of the items' products,
	// in type-id order.
	TypesForItems(ctx context.Context, items []models.WatchlistItem) ([]models.Type, error)

	// UnitForItems locates the unit for a watchlist item scope by walking
	// the config's type level. Fails with ErrEmptyProductSet on an empty
	// scope rather than dereferencing a missing first item.
	UnitForItems(ctx context.Context, items []models.WatchlistItem) (*models.Unit, error)

	// UnitOf returns a product's unit, possibly nil.
	UnitOf(ctx context.Context, productID uint) (*models.Unit, error)
}
