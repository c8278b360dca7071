package chartcache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/agridash/catalog"
	"github.com/agridash/models"
)

// Cache key formats. The literal formats are part of the deployment
// contract: external tooling flushes these keys when the catalog changes.
const (
	configChartsKey  = "content_type_config%d_charts"
	productChartsKey = "content_type_product%d_charts"
)

// snapshotVersion guards the serialized layout. A cached snapshot with a
// different version is treated as a miss and repopulated.
const snapshotVersion = 1

type chartSnapshot struct {
	Version int            `json:"version"`
	Charts  []models.Chart `json:"charts"`
}

// ChartCatalog answers "which charts apply at this catalog position"
// through the cache, populating it from the store on a miss.
type ChartCatalog struct {
	store catalog.Store
	cache Cache
}

// NewChartCatalog returns a ChartCatalog over the given store and cache.
func NewChartCatalog(store catalog.Store, cache Cache) *ChartCatalog {
	return &ChartCatalog{store: store, cache: cache}
}

// ChartsForConfig returns the charts attached to a config. Entity
// lookups fail loudly; cache and populate failures degrade to an empty
// chart list instead of failing the request.
func (c *ChartCatalog) ChartsForConfig(ctx context.Context, configID uint) ([]models.Chart, error) {
	if _, err := c.store.ConfigByID(ctx, configID); err != nil {
		return nil, err
	}
	key := fmt.Sprintf(configChartsKey, configID)
	return c.chartsFor(ctx, key, func() ([]models.Chart, error) {
		return c.store.ChartsOf(ctx, configID)
	}), nil
}

// ChartsForProduct returns the charts of the product's config.
func (c *ChartCatalog) ChartsForProduct(ctx context.Context, productID uint) ([]models.Chart, error) {
	product, err := c.store.ProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.ConfigID == nil {
		return []models.Chart{}, nil
	}

	configID := *product.ConfigID
	key := fmt.Sprintf(productChartsKey, productID)
	return c.chartsFor(ctx, key, func() ([]models.Chart, error) {
		return c.store.ChartsOf(ctx, configID)
	}), nil
}

// ChartsFor dispatches on the breadcrumb position: config positions use
// the config key, product positions (and type/source positions reached
// from a product) use the product key. Other positions have no charts.
func (c *ChartCatalog) ChartsFor(ctx context.Context, b catalog.Breadcrumb) ([]models.Chart, error) {
	switch b.ContentType {
	case catalog.ContentTypeConfig:
		return c.ChartsForConfig(ctx, b.ObjectID)
	case catalog.ContentTypeProduct:
		return c.ChartsForProduct(ctx, b.ObjectID)
	case catalog.ContentTypeType, catalog.ContentTypeSource:
		if b.LastContentType == catalog.ContentTypeProduct {
			return c.ChartsForProduct(ctx, b.LastObjectID)
		}
	}
	return []models.Chart{}, nil
}

// Flush drops the cached snapshots for a config and the given products.
func (c *ChartCatalog) Flush(ctx context.Context, configID uint, productIDs ...uint) error {
	if err := c.cache.Delete(ctx, fmt.Sprintf(configChartsKey, configID)); err != nil {
		return err
	}
	for _, id := range productIDs {
		if err := c.cache.Delete(ctx, fmt.Sprintf(productChartsKey, id)); err != nil {
			return err
		}
	}
	return nil
}

func (c *ChartCatalog) chartsFor(ctx context.Context, key string, resolve func() ([]models.Chart, error)) []models.Chart {
	if data, ok, err := c.cache.Get(ctx, key); err == nil && ok {
		if charts, ok := decodeSnapshot(data); ok {
			return charts
		}
	}

	charts, err := resolve()
	if err != nil {
		// One retry, then degrade to an empty list rather than
		// failing the whole menu request.
		charts, err = resolve()
		if err != nil {
			log.Printf("Chart populate failed for %s: %v", key, err)
			return []models.Chart{}
		}
	}

	if data, err := encodeSnapshot(charts); err == nil {
		if err := c.cache.Set(ctx, key, data); err != nil {
			log.Printf("Chart cache write failed for %s: %v", key, err)
		}
	}
	return charts
}

func encodeSnapshot(charts []models.Chart) ([]byte, error) {
	return json.Marshal(chartSnapshot{Version: snapshotVersion, Charts: charts})
}

func decodeSnapshot(data []byte) ([]models.Chart, bool) {
	var snapshot chartSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, false
	}
	if snapshot.Version != snapshotVersion {
		return nil, false
	}
	if snapshot.Charts == nil {
		snapshot.Charts = []models.Chart{}
	}
	return snapshot.Charts, true
}
