package handlers

import (
	"strconv"
	"strings"

	"github.com/agridash/catalog"
	"github.com/agridash/models"
	"github.com/agridash/series"
	"github.com/gofiber/fiber/v2"
)

// SelectorUIResponse is one step of the product selector wizard:
// configs first, then the config's types, then products and sources
// with substitution applied and display hints attached.
type SelectorUIResponse struct {
	Step     int                      `json:"step"`
	Configs  []models.Config          `json:"configs,omitempty"`
	Types    []models.Type            `json:"types,omitempty"`
	ConfigID uint                     `json:"config_id,omitempty"`
	Products []models.AbstractProduct `json:"products,omitempty"`
	Sources  []models.Source          `json:"sources,omitempty"`
	Hints    *catalog.Hints           `json:"hints,omitempty"`
}

// SelectorUI answers the selector wizard steps.
// POST /api/selector/ui/:step
func (h *Handler) SelectorUI(c *fiber.Ctx) error {
	step, err := c.ParamsInt("step")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid step")
	}
	ctx := c.Context()
	response := SelectorUIResponse{Step: step}

	switch step {
	case 1:
		configs, err := h.store.Configs(ctx)
		if err != nil {
			return fail(err)
		}
		response.Configs = configs

	case 2:
		configID, err := formID(c, "config_id")
		if err != nil {
			return err
		}
		types, err := h.store.ConfigTypes(ctx, configID)
		if err != nil {
			return fail(err)
		}
		response.Types = types

	case 3:
		configID, err := formID(c, "config_id")
		if err != nil {
			return err
		}
		typeID, err := formID(c, "type_id")
		if err != nil {
			return err
		}

		products, err := h.store.ProductsByConfig(ctx, configID, typeID, true)
		if err != nil {
			return fail(err)
		}
		products, err = h.policy.Apply(ctx, configID, typeID, products)
		if err != nil {
			return fail(err)
		}
		sources, err := h.store.ConfigSources(ctx, configID, typeID)
		if err != nil {
			return fail(err)
		}

		hints := h.policy.Hints(configID, typeID)
		response.ConfigID = configID
		response.Products = products
		response.Sources = sources
		response.Hints = &hints

	default:
		return fiber.NewError(fiber.StatusBadRequest, "unknown step")
	}

	return c.JSON(response)
}

// SelectorTabResponse carries the chart tab state for a selector
// selection: the tab chart kinds plus the selection echoed in the
// underscore-joined breadcrumb form.
type SelectorTabResponse struct {
	Charts   []models.Chart `json:"charts"`
	Type     uint           `json:"type"`
	Products string         `json:"products"`
	Sources  string         `json:"sources"`
}

// SelectorTab returns the chart tabs for a selector selection.
// GET /api/selector/tab?config=&type=&products=&sources=
//
// products and sources arrive comma-separated and are echoed
// underscore-joined with the "_" sentinel for empty lists.
func (h *Handler) SelectorTab(c *fiber.Ctx) error {
	configID, err := queryID(c, "config")
	if err != nil {
		return err
	}
	typeID, _ := queryID(c, "type")

	charts, err := h.store.ChartsOf(c.Context(), configID)
	if err != nil {
		return fail(err)
	}

	// The integration chart has its own tab flow.
	tabCharts := make([]models.Chart, 0, len(charts))
	for _, chart := range charts {
		if chart.ID != models.ChartIntegration {
			tabCharts = append(tabCharts, chart)
		}
	}

	return c.JSON(SelectorTabResponse{
		Charts:   tabCharts,
		Type:     typeID,
		Products: underscoreJoin(c.Query("products")),
		Sources:  underscoreJoin(c.Query("sources")),
	})
}

// SelectorChartsResponse is the series payload for a selector selection.
type SelectorChartsResponse struct {
	Chart         models.Chart    `json:"chart"`
	Unit          *models.Unit    `json:"unit"`
	SeriesOptions []series.Option `json:"series_options"`
	SelectedYears []int           `json:"selected_years,omitempty"`
}

// SelectorCharts builds series options for a caller-chosen product set.
// GET|POST /api/selector/charts/:ci/:type/:products?sources=
func (h *Handler) SelectorCharts(c *fiber.Ctx) error {
	ctx := c.Context()

	chart, t, products, sources, err := h.selectorScope(c)
	if err != nil {
		return err
	}
	kind, ok := series.KindOf(chart.ID)
	if !ok || kind == series.KindIntegration {
		return fiber.NewError(fiber.StatusBadRequest, "unsupported chart kind")
	}

	unit, err := h.store.UnitOf(ctx, products[0].ID)
	if err != nil {
		return fail(err)
	}

	params, err := seriesParams(c)
	if err != nil {
		return err
	}

	partitions := []series.Partition{{Type: *t, Products: products}}
	result, err := h.aggregator.BuildSeries(ctx, kind, partitions, sources, params)
	if err != nil {
		return fail(err)
	}

	return c.JSON(SelectorChartsResponse{
		Chart:         *chart,
		Unit:          unit,
		SeriesOptions: result.Options,
		SelectedYears: result.Years,
	})
}

// SelectorIntegration drives the integration chart for a selector
// selection.
// POST /api/selector/integration/:ci/:type/:products?sources=
func (h *Handler) SelectorIntegration(c *fiber.Ctx) error {
	ctx := c.Context()

	chart, t, products, sources, err := h.selectorScope(c)
	if err != nil {
		return err
	}

	start, end, err := integrationWindow(c)
	if err != nil {
		return err
	}
	toInit := c.FormValue("to_init") == "true"

	unit, err := h.store.UnitOf(ctx, products[0].ID)
	if err != nil {
		return fail(err)
	}
	response := IntegrationResponse{Unit: unit, SeriesOptions: []series.Option{}}

	if toInit {
		partitions := []series.Partition{{Type: *t, Products: products}}
		options, labels, err := h.integration.Init(ctx, partitions, sources, start, end)
		if err != nil {
			return fail(err)
		}
		response.SeriesOptions = options
		response.Chart = chart
		response.DateLabels = &labels
		return c.JSON(response)
	}

	option, err := h.integration.Update(ctx, *t, products, sources, start, end)
	if err != nil {
		return fail(err)
	}
	response.Option = option
	return c.JSON(response)
}

// selectorScope decodes the shared :ci/:type/:products segments and the
// sources query, expanding the product selection through the
// substitution policy.
func (h *Handler) selectorScope(c *fiber.Ctx) (*models.Chart, *models.Type, []models.AbstractProduct, []models.Source, error) {
	ctx := c.Context()

	chartID, err := c.ParamsInt("ci")
	if err != nil {
		return nil, nil, nil, nil, fiber.NewError(fiber.StatusBadRequest, "invalid chart id")
	}
	chart, err := h.store.ChartByID(ctx, uint(chartID))
	if err != nil {
		return nil, nil, nil, nil, fail(err)
	}

	typeID, err := c.ParamsInt("type")
	if err != nil {
		return nil, nil, nil, nil, fiber.NewError(fiber.StatusBadRequest, "invalid type id")
	}
	t, err := h.store.TypeByID(ctx, uint(typeID))
	if err != nil {
		return nil, nil, nil, nil, fail(err)
	}

	productIDs, err := parseIDList(c.Params("products"))
	if err != nil {
		return nil, nil, nil, nil, err
	}
	selection, err := h.store.ProductsByIDs(ctx, productIDs)
	if err != nil {
		return nil, nil, nil, nil, fail(err)
	}
	products, err := h.policy.ExpandSelection(ctx, selection)
	if err != nil {
		return nil, nil, nil, nil, fail(err)
	}

	sourceIDs, err := parseIDList(c.Query("sources"))
	if err != nil {
		return nil, nil, nil, nil, err
	}
	var sources []models.Source
	if len(sourceIDs) > 0 {
		sources, err = h.store.SourcesByIDs(ctx, sourceIDs)
		if err != nil {
			return nil, nil, nil, nil, fail(err)
		}
	}

	return chart, t, products, sources, nil
}

func formID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.FormValue(name), 10, 32)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid "+name)
	}
	return uint(id), nil
}

func queryID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Query(name), 10, 32)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid "+name)
	}
	return uint(id), nil
}

// underscoreJoin converts a comma-separated id list to the
// underscore-joined breadcrumb form, with the "_" sentinel when empty.
func underscoreJoin(raw string) string {
	if raw == "" {
		return emptyList
	}
	return strings.Join(strings.Split(raw, ","), "_")
}
