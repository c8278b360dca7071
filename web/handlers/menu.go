package handlers

import (
	"github.com/agridash/catalog"
	"github.com/agridash/models"
	"github.com/gofiber/fiber/v2"
)

// MenuResponse is the next drill-down level for a breadcrumb. Exactly
// one of the item lists is populated; all empty means the position does
// not expand.
type MenuResponse struct {
	Watchlist *models.Watchlist        `json:"watchlist"`
	Products  []models.AbstractProduct `json:"products,omitempty"`
	Types     []models.Type            `json:"types,omitempty"`
	Sources   []models.Source          `json:"sources,omitempty"`
	Next      catalog.ContentType      `json:"ct,omitempty"`
	LastCT    catalog.ContentType      `json:"lct,omitempty"`
	LastOI    uint                     `json:"loi,omitempty"`
}

// Menu resolves one breadcrumb move.
// GET /api/menu/:wi/:ct/:oi/:lct/:loi
func (h *Handler) Menu(c *fiber.Ctx) error {
	b, err := breadcrumbFromParams(c)
	if err != nil {
		return err
	}

	result, err := h.resolver.Menu(c.Context(), b)
	if err != nil {
		return fail(err)
	}

	return c.JSON(MenuResponse{
		Watchlist: result.Watchlist,
		Products:  result.Products,
		Types:     result.Types,
		Sources:   result.Sources,
		Next:      result.Next,
		LastCT:    result.LastContentType,
		LastOI:    result.LastObjectID,
	})
}
