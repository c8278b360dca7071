package catalog

import (
	"context"
	"sort"
	"strings"

	"github.com/agridash/models"
)

// fakeStore is an in-memory Store for resolver and policy tests.
type fakeStore struct {
	configs    map[uint]*models.Config
	types      map[uint]*models.Type
	products   map[uint]*models.AbstractProduct
	sources    map[uint]*models.Source
	charts     map[uint]*models.Chart
	watchlists map[uint]*models.Watchlist
	items      []models.WatchlistItem
	profiles   []models.MonitorProfile

	// configID -> source ids (source_configs join)
	configSources map[uint][]uint
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		configs:       map[uint]*models.Config{},
		types:         map[uint]*models.Type{},
		products:      map[uint]*models.AbstractProduct{},
		sources:       map[uint]*models.Source{},
		charts:        map[uint]*models.Chart{},
		watchlists:    map[uint]*models.Watchlist{},
		configSources: map[uint][]uint{},
	}
}

func (f *fakeStore) addProduct(p models.AbstractProduct) *models.AbstractProduct {
	if p.ConfigID != nil {
		p.Config = f.configs[*p.ConfigID]
	}
	if p.TypeID != nil {
		p.Type = f.types[*p.TypeID]
	}
	cp := p
	f.products[p.ID] = &cp
	return &cp
}

func (f *fakeStore) ConfigByID(_ context.Context, id uint) (*models.Config, error) {
	if c, ok := f.configs[id]; ok {
		return c, nil
	}
	return nil, notFound("config", id)
}

func (f *fakeStore) TypeByID(_ context.Context, id uint) (*models.Type, error) {
	if t, ok := f.types[id]; ok {
		return t, nil
	}
	return nil, notFound("type", id)
}

func (f *fakeStore) ProductByID(_ context.Context, id uint) (*models.AbstractProduct, error) {
	if p, ok := f.products[id]; ok {
		return p, nil
	}
	return nil, notFound("abstractproduct", id)
}

func (f *fakeStore) SourceByID(_ context.Context, id uint) (*models.Source, error) {
	if s, ok := f.sources[id]; ok {
		return s, nil
	}
	return nil, notFound("source", id)
}

func (f *fakeStore) ChartByID(_ context.Context, id uint) (*models.Chart, error) {
	if c, ok := f.charts[id]; ok {
		return c, nil
	}
	return nil, notFound("chart", id)
}

func (f *fakeStore) WatchlistByID(_ context.Context, id uint) (*models.Watchlist, error) {
	if w, ok := f.watchlists[id]; ok {
		return w, nil
	}
	return nil, notFound("watchlist", id)
}

func (f *fakeStore) Configs(_ context.Context) ([]models.Config, error) {
	var out []models.Config
	for _, c := range f.configs {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) Watchlists(_ context.Context) ([]models.Watchlist, error) {
	var out []models.Watchlist
	for _, w := range f.watchlists {
		if !w.WatchAll {
			out = append(out, *w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) productList(keep func(*models.AbstractProduct) bool) []models.AbstractProduct {
	var out []models.AbstractProduct
	for _, p := range f.products {
		if keep(p) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeStore) watchFilter(w *models.Watchlist) map[uint]struct{} {
	if w == nil || w.WatchAll {
		return nil
	}
	related := map[uint]struct{}{}
	for _, item := range f.items {
		if item.WatchlistID != w.ID {
			continue
		}
		for _, p := range f.products {
			if p.ParentID != nil && *p.ParentID == item.ProductID {
				related[p.ID] = struct{}{}
			}
		}
		id := item.ProductID
		for {
			related[id] = struct{}{}
			p, ok := f.products[id]
			if !ok || p.ParentID == nil {
				break
			}
			id = *p.ParentID
		}
	}
	return related
}

func inFilter(filter map[uint]struct{}, id uint) bool {
	if filter == nil {
		return true
	}
	_, ok := filter[id]
	return ok
}

func (f *fakeStore) FirstLevelProducts(_ context.Context, configID uint, w *models.Watchlist) ([]models.AbstractProduct, error) {
	filter := f.watchFilter(w)
	return f.productList(func(p *models.AbstractProduct) bool {
		return p.ConfigID != nil && *p.ConfigID == configID && p.ParentID == nil && inFilter(filter, p.ID)
	}), nil
}

func (f *fakeStore) Children(_ context.Context, productID uint, w *models.Watchlist) ([]models.AbstractProduct, error) {
	filter := f.watchFilter(w)
	return f.productList(func(p *models.AbstractProduct) bool {
		return p.ParentID != nil && *p.ParentID == productID && inFilter(filter, p.ID)
	}), nil
}

func (f *fakeStore) ChildrenAll(ctx context.Context, productID uint) ([]models.AbstractProduct, error) {
	var all []models.AbstractProduct
	level, _ := f.Children(ctx, productID, nil)
	for _, c := range level {
		all = append(all, c)
		sub, _ := f.ChildrenAll(ctx, c.ID)
		all = append(all, sub...)
	}
	return all, nil
}

func (f *fakeStore) ProductLevel(_ context.Context, productID uint) (int, error) {
	level := 1
	id := productID
	for {
		p, ok := f.products[id]
		if !ok || p.ParentID == nil {
			return level, nil
		}
		id = *p.ParentID
		level++
	}
}

func (f *fakeStore) TypesOf(ctx context.Context, product *models.AbstractProduct, w *models.Watchlist) ([]models.Type, error) {
	children, _ := f.Children(ctx, product.ID, w)
	var ids []uint
	if len(children) > 0 {
		seen := map[uint]struct{}{}
		for _, c := range children {
			if c.TypeID == nil {
				continue
			}
			if _, ok := seen[*c.TypeID]; !ok {
				seen[*c.TypeID] = struct{}{}
				ids = append(ids, *c.TypeID)
			}
		}
	} else if product.TypeID != nil {
		ids = append(ids, *product.TypeID)
	}
	return f.typesByIDs(ids), nil
}

func (f *fakeStore) SourcesOf(_ context.Context, product *models.AbstractProduct, w *models.Watchlist) ([]models.Source, error) {
	if w != nil && !w.WatchAll {
		for _, item := range f.items {
			if item.WatchlistID == w.ID && item.ProductID == product.ID {
				return item.Sources, nil
			}
		}
		return nil, nil
	}

	if product.ConfigID == nil {
		return nil, nil
	}
	var out []models.Source
	for _, id := range f.configSources[*product.ConfigID] {
		s := f.sources[id]
		if product.TypeID != nil && (s.TypeID == nil || *s.TypeID != *product.TypeID) {
			continue
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) ProductsByIDs(_ context.Context, ids []uint) ([]models.AbstractProduct, error) {
	var out []models.AbstractProduct
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) SourcesByIDs(_ context.Context, ids []uint) ([]models.Source, error) {
	var out []models.Source
	for _, id := range ids {
		if s, ok := f.sources[id]; ok {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) ProductsByConfig(_ context.Context, configID uint, typeID uint, trackItem bool) ([]models.AbstractProduct, error) {
	return f.productList(func(p *models.AbstractProduct) bool {
		if p.ConfigID == nil || *p.ConfigID != configID || p.TrackItem != trackItem {
			return false
		}
		return typeID == 0 || (p.TypeID != nil && *p.TypeID == typeID)
	}), nil
}

func (f *fakeStore) NonLeafProducts(_ context.Context, configID uint, typeID uint, marker string) ([]models.AbstractProduct, error) {
	return f.productList(func(p *models.AbstractProduct) bool {
		if p.ConfigID == nil || *p.ConfigID != configID || p.TrackItem {
			return false
		}
		if typeID != 0 && (p.TypeID == nil || *p.TypeID != typeID) {
			return false
		}
		// ILIKE in the real store
		return strings.Contains(strings.ToUpper(p.Code), strings.ToUpper(marker))
	}), nil
}

func (f *fakeStore) LeafChildren(_ context.Context, productID uint) ([]models.AbstractProduct, error) {
	return f.productList(func(p *models.AbstractProduct) bool {
		return p.ParentID != nil && *p.ParentID == productID && p.TrackItem
	}), nil
}

func (f *fakeStore) ConfigTypes(_ context.Context, configID uint) ([]models.Type, error) {
	seen := map[uint]struct{}{}
	var ids []uint
	for _, p := range f.products {
		if p.ConfigID == nil || *p.ConfigID != configID || p.TypeID == nil {
			continue
		}
		if _, ok := seen[*p.TypeID]; !ok {
			seen[*p.TypeID] = struct{}{}
			ids = append(ids, *p.TypeID)
		}
	}
	return f.typesByIDs(ids), nil
}

func (f *fakeStore) ConfigSources(_ context.Context, configID uint, typeID uint) ([]models.Source, error) {
	var out []models.Source
	for _, id := range f.configSources[configID] {
		s := f.sources[id]
		if typeID != 0 && (s.TypeID == nil || *s.TypeID != typeID) {
			continue
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) ChartsOf(_ context.Context, configID uint) ([]models.Chart, error) {
	c, ok := f.configs[configID]
	if !ok {
		return nil, notFound("config", configID)
	}
	return c.Charts, nil
}

func (f *fakeStore) WatchlistItems(_ context.Context, watchlistID uint, configID uint) ([]models.WatchlistItem, error) {
	var out []models.WatchlistItem
	for _, item := range f.items {
		if item.WatchlistID != watchlistID {
			continue
		}
		if configID != 0 {
			p := f.products[item.ProductID]
			if p == nil || p.ConfigID == nil || *p.ConfigID != configID {
				continue
			}
		}
		item.Product = f.products[item.ProductID]
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) ItemsByProductChain(ctx context.Context, watchlistID, productID uint) ([]models.WatchlistItem, error) {
	ids := map[uint]struct{}{productID: {}}
	descendants, _ := f.ChildrenAll(ctx, productID)
	for _, d := range descendants {
		ids[d.ID] = struct{}{}
	}

	var out []models.WatchlistItem
	for _, item := range f.items {
		if item.WatchlistID != watchlistID {
			continue
		}
		if _, ok := ids[item.ProductID]; !ok {
			continue
		}
		item.Product = f.products[item.ProductID]
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) HasMonitorProfile(_ context.Context, watchlistID uint, productIDs []uint) (bool, error) {
	ids := map[uint]struct{}{}
	for _, id := range productIDs {
		ids[id] = struct{}{}
	}
	for _, profile := range f.profiles {
		if profile.WatchlistID != watchlistID {
			continue
		}
		if _, ok := ids[profile.ProductID]; ok {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) MonitorProfilesByProduct(_ context.Context, productID uint) ([]models.MonitorProfile, error) {
	var out []models.MonitorProfile
	for _, profile := range f.profiles {
		if profile.ProductID == productID {
			out = append(out, profile)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	return out, nil
}

func (f *fakeStore) TypesForItems(_ context.Context, items []models.WatchlistItem) ([]models.Type, error) {
	seen := map[uint]struct{}{}
	var ids []uint
	for _, item := range items {
		p := f.products[item.ProductID]
		if p == nil || p.TypeID == nil {
			continue
		}
		if _, ok := seen[*p.TypeID]; !ok {
			seen[*p.TypeID] = struct{}{}
			ids = append(ids, *p.TypeID)
		}
	}
	return f.typesByIDs(ids), nil
}

func (f *fakeStore) UnitForItems(ctx context.Context, items []models.WatchlistItem) (*models.Unit, error) {
	if len(items) == 0 {
		return nil, ErrEmptyProductSet
	}
	p := f.products[items[0].ProductID]
	if p == nil || p.Unit == nil {
		return nil, ErrEmptyProductSet
	}
	return p.Unit, nil
}

func (f *fakeStore) UnitOf(_ context.Context, productID uint) (*models.Unit, error) {
	p, ok := f.products[productID]
	if !ok {
		return nil, notFound("abstractproduct", productID)
	}
	return p.Unit, nil
}

func (f *fakeStore) typesByIDs(ids []uint) []models.Type {
	var out []models.Type
	for _, id := range ids {
		if t, ok := f.types[id]; ok {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func uintPtr(v uint) *uint { return &v }
