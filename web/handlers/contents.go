package handlers

import (
	"time"

	"github.com/agridash/catalog"
	"github.com/agridash/models"
	"github.com/agridash/series"
	"github.com/gofiber/fiber/v2"
)

// EventOverlay tells the frontend which catalog entity chart events
// attach to on integration-style charts.
type EventOverlay struct {
	ContentType catalog.ContentType `json:"content_type"`
	ObjectID    uint                `json:"object_id"`
}

// ChartContentsResponse is the series payload for one chart kind over a
// watchlist scope.
type ChartContentsResponse struct {
	Chart         models.Chart    `json:"chart"`
	Unit          *models.Unit    `json:"unit"`
	SeriesOptions []series.Option `json:"series_options"`
	SelectedYears []int           `json:"selected_years,omitempty"`
	EventOverlay  *EventOverlay   `json:"event_overlay,omitempty"`
}

// ChartContents builds the series options for a chart over the
// breadcrumb's watchlist scope.
// GET|POST /api/charts/contents/:ci/:wi/:ct/:oi/:lct/:loi
func (h *Handler) ChartContents(c *fiber.Ctx) error {
	b, err := breadcrumbFromParams(c)
	if err != nil {
		return err
	}
	ctx := c.Context()

	chartID, err := c.ParamsInt("ci")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid chart id")
	}
	chart, err := h.store.ChartByID(ctx, uint(chartID))
	if err != nil {
		return fail(err)
	}
	kind, ok := series.KindOf(chart.ID)
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "unsupported chart kind")
	}

	scope, err := h.resolver.ItemScope(ctx, b)
	if err != nil {
		return fail(err)
	}

	unit, err := h.store.UnitForItems(ctx, scope.Items)
	if err != nil {
		return fail(err)
	}

	types, err := h.resolver.ScopeTypes(ctx, b, scope)
	if err != nil {
		return fail(err)
	}
	partitions := series.PartitionItems(types, scope.Items)

	params, err := seriesParams(c)
	if err != nil {
		return err
	}

	result, err := h.aggregator.BuildSeries(ctx, kind, partitions, scope.Sources, params)
	if err != nil {
		return fail(err)
	}

	response := ChartContentsResponse{
		Chart:         *chart,
		Unit:          unit,
		SeriesOptions: result.Options,
		SelectedYears: result.Years,
	}
	if kind == series.KindIntegration {
		if ct, oi := b.Overlay(); ct != catalog.ContentTypeInvalid {
			response.EventOverlay = &EventOverlay{ContentType: ct, ObjectID: oi}
		}
	}
	return c.JSON(response)
}

// seriesParams reads the optional window and year selection from the
// request payload.
func seriesParams(c *fiber.Ctx) (series.Params, error) {
	var params series.Params

	years, err := parseYears(c)
	if err != nil {
		return params, err
	}
	params.Years = years

	if raw := c.FormValue("start_date"); raw != "" {
		start, err := parseUnixMillis(raw)
		if err != nil {
			return params, err
		}
		params.Start = &start
	}
	if raw := c.FormValue("end_date"); raw != "" {
		end, err := parseUnixMillis(raw)
		if err != nil {
			return params, err
		}
		params.End = &end
	}
	return params, nil
}

// integrationWindow reads the mandatory integration window.
func integrationWindow(c *fiber.Ctx) (start, end time.Time, err error) {
	start, err = parseUnixMillis(c.FormValue("start_date"))
	if err != nil {
		return
	}
	end, err = parseUnixMillis(c.FormValue("end_date"))
	return
}
