package handlers

import (
	"strconv"

	"github.com/agridash/models"
	"github.com/agridash/series"
	"github.com/gofiber/fiber/v2"
)

// IntegrationResponse is the two-phase integration payload. Init fills
// SeriesOptions, Chart and DateLabels; update fills Option only (nil
// when the partition has no data).
type IntegrationResponse struct {
	Unit          *models.Unit       `json:"unit"`
	SeriesOptions []series.Option    `json:"series_options"`
	Option        *series.Option     `json:"option,omitempty"`
	Chart         *models.Chart      `json:"chart,omitempty"`
	DateLabels    *series.DateLabels `json:"date_labels,omitempty"`
}

// Integration drives the integration chart over a watchlist scope.
// POST /api/charts/integration/:ci/:wi/:ct/:oi/:lct/:loi
//
// The init phase partitions the scope by type; the update phase takes
// the type from the payload, matching the frontend protocol.
func (h *Handler) Integration(c *fiber.Ctx) error {
	b, err := breadcrumbFromParams(c)
	if err != nil {
		return err
	}
	ctx := c.Context()

	start, end, err := integrationWindow(c)
	if err != nil {
		return err
	}
	toInit := c.FormValue("to_init") == "true"

	scope, err := h.resolver.ItemScope(ctx, b)
	if err != nil {
		return fail(err)
	}
	unit, err := h.store.UnitForItems(ctx, scope.Items)
	if err != nil {
		return fail(err)
	}

	response := IntegrationResponse{Unit: unit, SeriesOptions: []series.Option{}}

	if toInit {
		chartID, err := c.ParamsInt("ci")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid chart id")
		}
		chart, err := h.store.ChartByID(ctx, uint(chartID))
		if err != nil {
			return fail(err)
		}

		types, err := h.resolver.ScopeTypes(ctx, b, scope)
		if err != nil {
			return fail(err)
		}
		partitions := series.PartitionItems(types, scope.Items)

		options, labels, err := h.integration.Init(ctx, partitions, scope.Sources, start, end)
		if err != nil {
			return fail(err)
		}
		response.SeriesOptions = options
		response.Chart = chart
		response.DateLabels = &labels
		return c.JSON(response)
	}

	t, err := h.payloadType(c)
	if err != nil {
		return err
	}

	partitions := series.PartitionItems([]models.Type{*t}, scope.Items)
	option, err := h.integration.Update(ctx, *t, partitions[0].Products, scope.Sources, start, end)
	if err != nil {
		return fail(err)
	}
	response.Option = option
	return c.JSON(response)
}

// payloadType resolves the type id posted with integration updates.
func (h *Handler) payloadType(c *fiber.Ctx) (*models.Type, error) {
	raw := c.FormValue("type")
	if raw == "" {
		return nil, fiber.NewError(fiber.StatusBadRequest, "missing type")
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid type")
	}

	t, err := h.store.TypeByID(c.Context(), uint(id))
	if err != nil {
		return nil, fail(err)
	}
	return t, nil
}
