package catalog

import (
	"context"

	"github.com/agridash/models"
)

// Breadcrumb is the decoded navigation position: the current entity, the
// one the user came from, and the watchlist scoping the whole menu.
type Breadcrumb struct {
	WatchlistID     uint
	ContentType     ContentType
	ObjectID        uint
	LastContentType ContentType
	LastObjectID    uint
	MenuViewer      bool
}

// Overlay returns the entity a chart event overlay should attach to.
// Overlays stick to the config or product level; type and source
// positions fall back to the entity they were reached from.
func (b Breadcrumb) Overlay() (ContentType, uint) {
	switch b.ContentType {
	case ContentTypeConfig, ContentTypeProduct:
		return b.ContentType, b.ObjectID
	case ContentTypeType, ContentTypeSource:
		return b.LastContentType, b.LastObjectID
	}
	return ContentTypeInvalid, 0
}

// MenuResult is the next drill-down level for a breadcrumb. Exactly one
// of Products, Types or Sources is populated; all empty means the
// position does not expand further (or the breadcrumb was ambiguous).
type MenuResult struct {
	Watchlist *models.Watchlist

	Products []models.AbstractProduct
	Types    []models.Type
	Sources  []models.Source

	// Breadcrumb values for the listed entries.
	Next            ContentType
	LastContentType ContentType
	LastObjectID    uint
}

// Empty reports whether the position yields no further level.
func (r *MenuResult) Empty() bool {
	return len(r.Products) == 0 && len(r.Types) == 0 && len(r.Sources) == 0
}

// Scope is the watchlist item set a breadcrumb selects for charting,
// plus the source restriction when the position is a source node.
type Scope struct {
	Watchlist *models.Watchlist
	Items     []models.WatchlistItem
	Sources   []models.Source
}

// Resolver decodes breadcrumbs against the catalog.
type Resolver struct {
	store Store
}

// NewResolver returns a Resolver over the given store.
func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// Menu resolves the next drill-down level for a breadcrumb.
//
// An unmatched breadcrumb combination resolves to an empty result, not
// an error; some states are unreachable through the current menu but
// must still answer.
func (r *Resolver) Menu(ctx context.Context, b Breadcrumb) (*MenuResult, error) {
	watchlist, err := r.store.WatchlistByID(ctx, b.WatchlistID)
	if err != nil {
		return nil, err
	}
	result := &MenuResult{Watchlist: watchlist}

	switch b.ContentType {
	case ContentTypeConfig:
		return r.menuConfig(ctx, b, watchlist, result)
	case ContentTypeType:
		return r.menuType(ctx, b, watchlist, result)
	case ContentTypeProduct:
		return r.menuProduct(ctx, b, watchlist, result)
	}

	return result, nil
}

func (r *Resolver) menuConfig(ctx context.Context, b Breadcrumb, watchlist *models.Watchlist, result *MenuResult) (*MenuResult, error) {
	if _, err := r.store.ConfigByID(ctx, b.ObjectID); err != nil {
		return nil, err
	}

	products, err := r.store.FirstLevelProducts(ctx, b.ObjectID, watchlist)
	if err != nil {
		return nil, err
	}

	if len(products) > 0 {
		result.Products = products
		result.Next = ContentTypeProduct
		result.LastContentType = ContentTypeConfig
		result.LastObjectID = b.ObjectID
	}
	return result, nil
}

func (r *Resolver) menuType(ctx context.Context, b Breadcrumb, watchlist *models.Watchlist, result *MenuResult) (*MenuResult, error) {
	if b.LastContentType != ContentTypeProduct {
		return result, nil
	}

	product, err := r.store.ProductByID(ctx, b.LastObjectID)
	if err != nil {
		return nil, err
	}

	children, err := r.store.Children(ctx, product.ID, watchlist)
	if err != nil {
		return nil, err
	}

	if len(children) > 0 {
		var ofType []models.AbstractProduct
		for _, c := range children {
			if c.TypeID != nil && *c.TypeID == b.ObjectID {
				ofType = append(ofType, c)
			}
		}
		result.Products = ofType
		result.Next = ContentTypeProduct
		result.LastContentType = ContentTypeType
		result.LastObjectID = b.ObjectID
		return result, nil
	}

	sources, err := r.store.SourcesOf(ctx, product, watchlist)
	if err != nil {
		return nil, err
	}
	if len(sources) > 0 {
		result.Sources = sources
		result.Next = ContentTypeSource
		result.LastContentType = ContentTypeProduct
		result.LastObjectID = product.ID
	}
	return result, nil
}

func (r *Resolver) menuProduct(ctx context.Context, b Breadcrumb, watchlist *models.Watchlist, result *MenuResult) (*MenuResult, error) {
	product, err := r.store.ProductByID(ctx, b.ObjectID)
	if err != nil {
		return nil, err
	}
	result.LastContentType = ContentTypeProduct
	result.LastObjectID = product.ID

	level, err := r.store.ProductLevel(ctx, product.ID)
	if err != nil {
		return nil, err
	}

	typeLevel := 0
	if product.Config != nil {
		typeLevel = product.Config.TypeLevel
	}

	monitored, err := r.childrenMonitored(ctx, watchlist, product.ID)
	if err != nil {
		return nil, err
	}

	// Past the type level, plain viewers without monitored children
	// stop here.
	if level >= typeLevel && !b.MenuViewer && !monitored {
		return result, nil
	}

	types, err := r.store.TypesOf(ctx, product, watchlist)
	if err != nil {
		return nil, err
	}
	if len(types) > 1 && level == typeLevel {
		result.Types = types
		result.Next = ContentTypeType
		return result, nil
	}

	children, err := r.store.Children(ctx, product.ID, watchlist)
	if err != nil {
		return nil, err
	}
	if len(children) > 0 {
		result.Products = children
		result.Next = ContentTypeProduct
		return result, nil
	}

	sources, err := r.store.SourcesOf(ctx, product, watchlist)
	if err != nil {
		return nil, err
	}
	if len(sources) > 0 {
		result.Sources = sources
		result.Next = ContentTypeSource
	}
	return result, nil
}

func (r *Resolver) childrenMonitored(ctx context.Context, watchlist *models.Watchlist, productID uint) (bool, error) {
	descendants, err := r.store.ChildrenAll(ctx, productID)
	if err != nil {
		return false, err
	}
	ids := make([]uint, 0, len(descendants))
	for _, d := range descendants {
		ids = append(ids, d.ID)
	}
	return r.store.HasMonitorProfile(ctx, watchlist.ID, ids)
}

// ItemScope resolves the watchlist items a breadcrumb selects for
// chart building. Source positions additionally pin the source set.
// Ambiguous breadcrumbs resolve to an empty item set.
func (r *Resolver) ItemScope(ctx context.Context, b Breadcrumb) (*Scope, error) {
	watchlist, err := r.store.WatchlistByID(ctx, b.WatchlistID)
	if err != nil {
		return nil, err
	}
	scope := &Scope{Watchlist: watchlist}

	switch b.ContentType {
	case ContentTypeConfig:
		scope.Items, err = r.store.WatchlistItems(ctx, watchlist.ID, b.ObjectID)

	case ContentTypeType:
		if b.LastContentType == ContentTypeProduct {
			scope.Items, err = r.store.ItemsByProductChain(ctx, watchlist.ID, b.LastObjectID)
		}

	case ContentTypeProduct:
		scope.Items, err = r.store.ItemsByProductChain(ctx, watchlist.ID, b.ObjectID)

	case ContentTypeSource:
		scope.Items, err = r.store.ItemsByProductChain(ctx, watchlist.ID, b.LastObjectID)
		if err == nil {
			var source *models.Source
			source, err = r.store.SourceByID(ctx, b.ObjectID)
			if err == nil {
				scope.Sources = []models.Source{*source}
			}
		}
	}

	if err != nil {
		return nil, err
	}
	return scope, nil
}

// ScopeTypes lists the type partitions of a scope in resolution order.
// A type position narrows the partitions to the selected type.
func (r *Resolver) ScopeTypes(ctx context.Context, b Breadcrumb, scope *Scope) ([]models.Type, error) {
	types, err := r.store.TypesForItems(ctx, scope.Items)
	if err != nil {
		return nil, err
	}

	if b.ContentType == ContentTypeType {
		var narrowed []models.Type
		for _, t := range types {
			if t.ID == b.ObjectID {
				narrowed = append(narrowed, t)
			}
		}
		return narrowed, nil
	}
	return types, nil
}
