package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/agridash/models"
	"gorm.io/gorm"
)

// maxDepth bounds parent-chain walks. The legacy catalog never nests
// products more than five levels deep.
const maxDepth = 5

// gormStore implements Store on a GORM connection
type gormStore struct {
	db *gorm.DB
}

// NewStore returns a Store backed by the given database
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) ConfigByID(ctx context.Context, id uint) (*models.Config, error) {
	var config models.Config
	err := s.db.WithContext(ctx).Preload("Charts").First(&config, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("config", id)
	}
	if err != nil {
		return nil, fmt.Errorf("config %d: %w", id, err)
	}
	return &config, nil
}

func (s *gormStore) TypeByID(ctx context.Context, id uint) (*models.Type, error) {
	var t models.Type
	err := s.db.WithContext(ctx).First(&t, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("type", id)
	}
	if err != nil {
		return nil, fmt.Errorf("type %d: %w", id, err)
	}
	return &t, nil
}

func (s *gormStore) ProductByID(ctx context.Context, id uint) (*models.AbstractProduct, error) {
	var product models.AbstractProduct
	err := s.db.WithContext(ctx).Preload("Config").Preload("Type").Preload("Unit").First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("abstractproduct", id)
	}
	if err != nil {
		return nil, fmt.Errorf("product %d: %w", id, err)
	}
	return &product, nil
}

func (s *gormStore) SourceByID(ctx context.Context, id uint) (*models.Source, error) {
	var source models.Source
	err := s.db.WithContext(ctx).First(&source, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("source", id)
	}
	if err != nil {
		return nil, fmt.Errorf("source %d: %w", id, err)
	}
	return &source, nil
}

func (s *gormStore) ChartByID(ctx context.Context, id uint) (*models.Chart, error) {
	var chart models.Chart
	err := s.db.WithContext(ctx).First(&chart, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("chart", id)
	}
	if err != nil {
		return nil, fmt.Errorf("chart %d: %w", id, err)
	}
	return &chart, nil
}

func (s *gormStore) WatchlistByID(ctx context.Context, id uint) (*models.Watchlist, error) {
	var w models.Watchlist
	err := s.db.WithContext(ctx).First(&w, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("watchlist", id)
	}
	if err != nil {
		return nil, fmt.Errorf("watchlist %d: %w", id, err)
	}
	return &w, nil
}

func (s *gormStore) Configs(ctx context.Context) ([]models.Config, error) {
	var configs []models.Config
	err := s.db.WithContext(ctx).Order("id").Find(&configs).Error
	if err != nil {
		return nil, fmt.Errorf("list configs: %w", err)
	}
	return configs, nil
}

func (s *gormStore) Watchlists(ctx context.Context) ([]models.Watchlist, error) {
	var watchlists []models.Watchlist
	err := s.db.WithContext(ctx).Where("watch_all = ?", false).Order("id").Find(&watchlists).Error
	if err != nil {
		return nil, fmt.Errorf("list watchlists: %w", err)
	}
	return watchlists, nil
}

func (s *gormStore) FirstLevelProducts(ctx context.Context, configID uint, w *models.Watchlist) ([]models.AbstractProduct, error) {
	query := s.db.WithContext(ctx).
		Where("config_id = ?", configID).
		Where("parent_id IS NULL")

	if w != nil && !w.WatchAll {
		ids, err := s.relatedProductIDs(ctx, w)
		if err != nil {
			return nil, err
		}
		query = query.Where("id IN ?", emptyGuard(ids))
	}

	var products []models.AbstractProduct
	if err := query.Order("id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("first level products of config %d: %w", configID, err)
	}
	return products, nil
}

func (s *gormStore) Children(ctx context.Context, productID uint, w *models.Watchlist) ([]models.AbstractProduct, error) {
	query := s.db.WithContext(ctx).Where("parent_id = ?", productID)

	if w != nil && !w.WatchAll {
		ids, err := s.relatedProductIDs(ctx, w)
		if err != nil {
			return nil, err
		}
		query = query.Where("id IN ?", emptyGuard(ids))
	}

	var products []models.AbstractProduct
	if err := query.Order("id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("children of product %d: %w", productID, err)
	}
	return products, nil
}

func (s *gormStore) ChildrenAll(ctx context.Context, productID uint) ([]models.AbstractProduct, error) {
	var all []models.AbstractProduct
	parents := []uint{productID}

	for depth := 0; depth < maxDepth && len(parents) > 0; depth++ {
		var level []models.AbstractProduct
		err := s.db.WithContext(ctx).Where("parent_id IN ?", parents).Order("id").Find(&level).Error
		if err != nil {
			return nil, fmt.Errorf("descendants of product %d: %w", productID, err)
		}

		parents = parents[:0]
		for _, p := range level {
			parents = append(parents, p.ID)
		}
		all = append(all, level...)
	}

	return all, nil
}

func (s *gormStore) ProductLevel(ctx context.Context, productID uint) (int, error) {
	level := 1
	id := productID

	for depth := 0; depth < maxDepth; depth++ {
		var parentID *uint
		err := s.db.WithContext(ctx).Model(&models.AbstractProduct{}).
			Where("id = ?", id).
			Select("parent_id").
			Scan(&parentID).Error
		if err != nil {
			return 0, fmt.Errorf("level of product %d: %w", productID, err)
		}
		if parentID == nil {
			return level, nil
		}
		id = *parentID
		level++
	}

	return level, nil
}

func (s *gormStore) TypesOf(ctx context.Context, product *models.AbstractProduct, w *models.Watchlist) ([]models.Type, error) {
	children, err := s.Children(ctx, product.ID, w)
	if err != nil {
		return nil, err
	}

	if len(children) > 0 {
		var typeIDs []uint
		seen := map[uint]struct{}{}
		for _, c := range children {
			if c.TypeID == nil {
				continue
			}
			if _, ok := seen[*c.TypeID]; ok {
				continue
			}
			seen[*c.TypeID] = struct{}{}
			typeIDs = append(typeIDs, *c.TypeID)
		}
		return s.typesByIDs(ctx, typeIDs)
	}

	if product.TypeID != nil {
		return s.typesByIDs(ctx, []uint{*product.TypeID})
	}

	return nil, nil
}

func (s *gormStore) SourcesOf(ctx context.Context, product *models.AbstractProduct, w *models.Watchlist) ([]models.Source, error) {
	if w != nil && !w.WatchAll {
		// Sources come from the watchlist item that watches this product.
		var item models.WatchlistItem
		err := s.db.WithContext(ctx).Preload("Sources").
			Where("watchlist_id = ? AND product_id = ?", w.ID, product.ID).
			Order("id").
			First(&item).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("watchlist sources of product %d: %w", product.ID, err)
		}
		return item.Sources, nil
	}

	if product.ConfigID == nil {
		return nil, nil
	}

	query := s.db.WithContext(ctx).
		Joins("JOIN source_configs ON source_configs.source_id = sources.id").
		Where("source_configs.config_id = ?", *product.ConfigID)
	if product.TypeID != nil {
		query = query.Where("sources.type_id = ?", *product.TypeID)
	}

	var sources []models.Source
	if err := query.Order("sources.id").Find(&sources).Error; err != nil {
		return nil, fmt.Errorf("sources of product %d: %w", product.ID, err)
	}
	return sources, nil
}

func (s *gormStore) ProductsByIDs(ctx context.Context, ids []uint) ([]models.AbstractProduct, error) {
	var products []models.AbstractProduct
	err := s.db.WithContext(ctx).Preload("Config").Preload("Unit").
		Where("id IN ?", emptyGuard(ids)).Order("id").Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("products by ids: %w", err)
	}
	return products, nil
}

func (s *gormStore) SourcesByIDs(ctx context.Context, ids []uint) ([]models.Source, error) {
	var sources []models.Source
	err := s.db.WithContext(ctx).Where("id IN ?", emptyGuard(ids)).Order("id").Find(&sources).Error
	if err != nil {
		return nil, fmt.Errorf("sources by ids: %w", err)
	}
	return sources, nil
}

func (s *gormStore) ProductsByConfig(ctx context.Context, configID uint, typeID uint, trackItem bool) ([]models.AbstractProduct, error) {
	query := s.db.WithContext(ctx).
		Where("config_id = ?", configID).
		Where("track_item = ?", trackItem)
	if typeID != 0 {
		query = query.Where("type_id = ?", typeID)
	}

	var products []models.AbstractProduct
	if err := query.Order("id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("products of config %d: %w", configID, err)
	}
	return products, nil
}

func (s *gormStore) NonLeafProducts(ctx context.Context, configID uint, typeID uint, marker string) ([]models.AbstractProduct, error) {
	query := s.db.WithContext(ctx).
		Where("config_id = ?", configID).
		Where("track_item = ?", false).
		Where("code ILIKE ?", "%"+marker+"%")
	if typeID != 0 {
		query = query.Where("type_id = ?", typeID)
	}

	var products []models.AbstractProduct
	if err := query.Order("id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("non-leaf products of config %d: %w", configID, err)
	}
	return products, nil
}

func (s *gormStore) LeafChildren(ctx context.Context, productID uint) ([]models.AbstractProduct, error) {
	var products []models.AbstractProduct
	err := s.db.WithContext(ctx).
		Where("parent_id = ?", productID).
		Where("track_item = ?", true).
		Order("id").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("leaf children of product %d: %w", productID, err)
	}
	return products, nil
}

func (s *gormStore) ConfigTypes(ctx context.Context, configID uint) ([]models.Type, error) {
	var typeIDs []uint
	err := s.db.WithContext(ctx).Model(&models.AbstractProduct{}).
		Where("config_id = ?", configID).
		Where("type_id IS NOT NULL").
		Distinct("type_id").
		Pluck("type_id", &typeIDs).Error
	if err != nil {
		return nil, fmt.Errorf("types of config %d: %w", configID, err)
	}
	return s.typesByIDs(ctx, typeIDs)
}

func (s *gormStore) ConfigSources(ctx context.Context, configID uint, typeID uint) ([]models.Source, error) {
	query := s.db.WithContext(ctx).
		Joins("JOIN source_configs ON source_configs.source_id = sources.id").
		Where("source_configs.config_id = ?", configID)
	if typeID != 0 {
		query = query.Where("sources.type_id = ?", typeID)
	}

	var sources []models.Source
	if err := query.Order("sources.id").Find(&sources).Error; err != nil {
		return nil, fmt.Errorf("sources of config %d: %w", configID, err)
	}
	return sources, nil
}

func (s *gormStore) ChartsOf(ctx context.Context, configID uint) ([]models.Chart, error) {
	config, err := s.ConfigByID(ctx, configID)
	if err != nil {
		return nil, err
	}
	return config.Charts, nil
}

func (s *gormStore) WatchlistItems(ctx context.Context, watchlistID uint, configID uint) ([]models.WatchlistItem, error) {
	query := s.db.WithContext(ctx).Preload("Product").Preload("Sources").
		Where("watchlist_id = ?", watchlistID)
	if configID != 0 {
		query = query.
			Joins("JOIN abstract_products ON abstract_products.id = watchlist_items.product_id").
			Where("abstract_products.config_id = ?", configID)
	}

	var items []models.WatchlistItem
	if err := query.Order("watchlist_items.id").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("items of watchlist %d: %w", watchlistID, err)
	}
	return items, nil
}

func (s *gormStore) ItemsByProductChain(ctx context.Context, watchlistID, productID uint) ([]models.WatchlistItem, error) {
	descendants, err := s.ChildrenAll(ctx, productID)
	if err != nil {
		return nil, err
	}

	ids := []uint{productID}
	for _, p := range descendants {
		ids = append(ids, p.ID)
	}

	var items []models.WatchlistItem
	err = s.db.WithContext(ctx).Preload("Product").Preload("Sources").
		Where("watchlist_id = ?", watchlistID).
		Where("product_id IN ?", ids).
		Order("id").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("items by product chain %d: %w", productID, err)
	}
	return items, nil
}

func (s *gormStore) HasMonitorProfile(ctx context.Context, watchlistID uint, productIDs []uint) (bool, error) {
	if len(productIDs) == 0 {
		return false, nil
	}

	var count int64
	err := s.db.WithContext(ctx).Model(&models.MonitorProfile{}).
		Where("watchlist_id = ?", watchlistID).
		Where("product_id IN ?", productIDs).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("monitor profiles of watchlist %d: %w", watchlistID, err)
	}
	return count > 0, nil
}

func (s *gormStore) MonitorProfilesByProduct(ctx context.Context, productID uint) ([]models.MonitorProfile, error) {
	var profiles []models.MonitorProfile
	err := s.db.WithContext(ctx).Preload("Type").
		Where("product_id = ?", productID).
		Order("price").
		Find(&profiles).Error
	if err != nil {
		return nil, fmt.Errorf("monitor profiles of product %d: %w", productID, err)
	}
	return profiles, nil
}

func (s *gormStore) TypesForItems(ctx context.Context, items []models.WatchlistItem) ([]models.Type, error) {
	var typeIDs []uint
	seen := map[uint]struct{}{}
	for _, item := range items {
		if item.Product == nil || item.Product.TypeID == nil {
			continue
		}
		id := *item.Product.TypeID
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		typeIDs = append(typeIDs, id)
	}
	return s.typesByIDs(ctx, typeIDs)
}

func (s *gormStore) UnitForItems(ctx context.Context, items []models.WatchlistItem) (*models.Unit, error) {
	if len(items) == 0 || items[0].Product == nil || items[0].Product.ConfigID == nil {
		return nil, ErrEmptyProductSet
	}

	config, err := s.ConfigByID(ctx, *items[0].Product.ConfigID)
	if err != nil {
		return nil, err
	}

	firstLevel, err := s.FirstLevelProducts(ctx, config.ID, nil)
	if err != nil {
		return nil, err
	}
	if len(firstLevel) == 0 {
		return nil, ErrEmptyProductSet
	}

	switch config.TypeLevel {
	case 1:
		return s.UnitOf(ctx, firstLevel[0].ID)
	case 2:
		children, err := s.Children(ctx, firstLevel[0].ID, nil)
		if err != nil {
			return nil, err
		}
		if len(children) == 0 {
			return nil, ErrEmptyProductSet
		}
		return s.UnitOf(ctx, children[0].ID)
	}

	return nil, fmt.Errorf("config %d: unsupported type level %d", config.ID, config.TypeLevel)
}

func (s *gormStore) UnitOf(ctx context.Context, productID uint) (*models.Unit, error) {
	product, err := s.ProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	return product.Unit, nil
}

// relatedProductIDs collects, for every item in the watchlist, the
// watched product's id plus its direct children and ancestor chain.
// Matches the legacy "related product ids" expansion used to narrow
// navigation to watched subtrees.
func (s *gormStore) relatedProductIDs(ctx context.Context, w *models.Watchlist) ([]uint, error) {
	items, err := s.WatchlistItems(ctx, w.ID, 0)
	if err != nil {
		return nil, err
	}

	seen := map[uint]struct{}{}
	var ids []uint
	add := func(id uint) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}

	for _, item := range items {
		var childIDs []uint
		err := s.db.WithContext(ctx).Model(&models.AbstractProduct{}).
			Where("parent_id = ?", item.ProductID).
			Pluck("id", &childIDs).Error
		if err != nil {
			return nil, fmt.Errorf("related products of watchlist %d: %w", w.ID, err)
		}
		for _, id := range childIDs {
			add(id)
		}

		id := item.ProductID
		for depth := 0; depth < maxDepth; depth++ {
			add(id)
			var parentID *uint
			err := s.db.WithContext(ctx).Model(&models.AbstractProduct{}).
				Where("id = ?", id).
				Select("parent_id").
				Scan(&parentID).Error
			if err != nil {
				return nil, fmt.Errorf("related products of watchlist %d: %w", w.ID, err)
			}
			if parentID == nil {
				break
			}
			id = *parentID
		}
	}

	return ids, nil
}

func (s *gormStore) typesByIDs(ctx context.Context, ids []uint) ([]models.Type, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var types []models.Type
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&types).Error; err != nil {
		return nil, fmt.Errorf("types by ids: %w", err)
	}
	return types, nil
}

// emptyGuard keeps `IN ?` valid for empty id sets; GORM renders an
// empty slice as `IN (NULL)` which matches nothing, the intended result.
func emptyGuard(ids []uint) []uint {
	if len(ids) == 0 {
		return []uint{0}
	}
	return ids
}
