// Package handlers holds the JSON entry points. Handlers stay thin:
// they decode breadcrumb and payload parameters, call into catalog /
// chartcache / series, and map errors to status codes.
package handlers

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/agridash/catalog"
	"github.com/agridash/chartcache"
	"github.com/agridash/series"
	"github.com/gofiber/fiber/v2"
)

// emptyList is the path/query sentinel for "no ids selected".
const emptyList = "_"

// Handler bundles the services the entry points dispatch into.
type Handler struct {
	store       catalog.Store
	resolver    *catalog.Resolver
	policy      *catalog.Policy
	charts      *chartcache.ChartCatalog
	aggregator  *series.Aggregator
	integration *series.IntegrationBuilder
}

// New wires a Handler over the given services.
func New(store catalog.Store, resolver *catalog.Resolver, policy *catalog.Policy, charts *chartcache.ChartCatalog, aggregator *series.Aggregator, integration *series.IntegrationBuilder) *Handler {
	return &Handler{
		store:       store,
		resolver:    resolver,
		policy:      policy,
		charts:      charts,
		aggregator:  aggregator,
		integration: integration,
	}
}

// breadcrumbFromParams decodes the wi/ct/oi/lct/loi path segments.
// Unknown content-type tags stay ContentTypeInvalid; the resolver
// answers those with an empty result.
func breadcrumbFromParams(c *fiber.Ctx) (catalog.Breadcrumb, error) {
	wi, err := c.ParamsInt("wi")
	if err != nil {
		return catalog.Breadcrumb{}, fiber.NewError(fiber.StatusBadRequest, "invalid watchlist id")
	}
	oi, err := c.ParamsInt("oi")
	if err != nil {
		return catalog.Breadcrumb{}, fiber.NewError(fiber.StatusBadRequest, "invalid object id")
	}

	b := catalog.Breadcrumb{
		WatchlistID: uint(wi),
		ObjectID:    uint(oi),
		MenuViewer:  c.QueryBool("menu_viewer"),
	}
	if ct, ok := catalog.ParseContentType(c.Params("ct")); ok {
		b.ContentType = ct
	}
	if lct, ok := catalog.ParseContentType(c.Params("lct")); ok {
		b.LastContentType = lct
	}
	if loi, err := c.ParamsInt("loi"); err == nil {
		b.LastObjectID = uint(loi)
	}
	return b, nil
}

// parseIDList splits an underscore-joined id list, honoring the "_"
// sentinel for an empty list.
func parseIDList(raw string) ([]uint, error) {
	if raw == "" || raw == emptyList {
		return nil, nil
	}
	parts := strings.Split(raw, "_")
	ids := make([]uint, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "invalid id list")
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

// joinIDList is the inverse of parseIDList for echoing selections back.
func joinIDList(ids []uint) string {
	if len(ids) == 0 {
		return emptyList
	}
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.FormatUint(uint64(id), 10))
	}
	return strings.Join(parts, "_")
}

// parseUnixMillis decodes a unix-millisecond timestamp form value.
func parseUnixMillis(raw string) (time.Time, error) {
	ms, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return time.Time{}, fiber.NewError(fiber.StatusBadRequest, "invalid date")
	}
	return time.UnixMilli(int64(ms)), nil
}

// parseYears reads the repeated average_years[] form values.
func parseYears(c *fiber.Ctx) ([]int, error) {
	values := c.Request().PostArgs().PeekMulti("average_years[]")
	years := make([]int, 0, len(values))
	for _, value := range values {
		year, err := strconv.Atoi(string(value))
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "invalid year selection")
		}
		years = append(years, year)
	}
	return years, nil
}

// fail maps domain errors onto HTTP statuses: unknown entities are 404,
// empty product sets are a 422 data-integrity error.
func fail(err error) error {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, catalog.ErrEmptyProductSet):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}
	return err
}
