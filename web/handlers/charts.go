package handlers

import (
	"github.com/agridash/catalog"
	"github.com/agridash/models"
	"github.com/gofiber/fiber/v2"
)

// ChartTabResponse carries the chart list for a breadcrumb position
// plus, on product positions, the product context the tab renders
// (types and monitor thresholds).
type ChartTabResponse struct {
	Charts          []models.Chart          `json:"charts"`
	Product         *models.AbstractProduct `json:"product,omitempty"`
	Types           []models.Type           `json:"types,omitempty"`
	MonitorProfiles []models.MonitorProfile `json:"monitor_profiles,omitempty"`
	Watchlists      []models.Watchlist      `json:"watchlists"`
}

// ChartTab returns the charts available at a breadcrumb position.
// GET /api/charts/tab/:wi/:ct/:oi/:lct/:loi
func (h *Handler) ChartTab(c *fiber.Ctx) error {
	b, err := breadcrumbFromParams(c)
	if err != nil {
		return err
	}
	ctx := c.Context()

	charts, err := h.charts.ChartsFor(ctx, b)
	if err != nil {
		return fail(err)
	}

	watchlists, err := h.store.Watchlists(ctx)
	if err != nil {
		return fail(err)
	}

	response := ChartTabResponse{Charts: charts, Watchlists: watchlists}

	if b.ContentType == catalog.ContentTypeProduct {
		product, err := h.store.ProductByID(ctx, b.ObjectID)
		if err != nil {
			return fail(err)
		}
		watchlist, err := h.store.WatchlistByID(ctx, b.WatchlistID)
		if err != nil {
			return fail(err)
		}
		types, err := h.store.TypesOf(ctx, product, watchlist)
		if err != nil {
			return fail(err)
		}
		profiles, err := h.store.MonitorProfilesByProduct(ctx, product.ID)
		if err != nil {
			return fail(err)
		}

		response.Product = product
		response.Types = types
		response.MonitorProfiles = profiles
	}

	return c.JSON(response)
}
