// Package series turns a chart kind plus a catalog scope into chart
// series options: one aggregated time series per type partition with
// actual data.
package series

import (
	"context"
	"time"

	"github.com/agridash/models"
)

// Point is one x/y pair. X is unix-milliseconds on date axes, a month
// or year index otherwise. A nil Y marks a gap in the series.
type Point struct {
	X int64    `json:"x"`
	Y *float64 `json:"y"`
}

// Option is one chart series option. Series holds the continuous
// measures (avg_price, sum_volume, avg_weight), Groups the per-year or
// per-term breakdowns, and Stats scalar summaries. NoData options never
// leave the aggregator.
type Option struct {
	Type      models.Type        `json:"type"`
	Series    map[string][]Point `json:"series,omitempty"`
	Groups    map[string][]Point `json:"groups,omitempty"`
	Stats     map[string]float64 `json:"stats,omitempty"`
	HasVolume bool               `json:"has_volume"`
	HasWeight bool               `json:"has_weight"`
	NoData    bool               `json:"no_data"`
}

// Repository computes aggregated price/volume series from the
// underlying transaction records.
type Repository interface {
	// DailyPriceVolume returns one point per day over the window.
	// Nil bounds mean "from the first record" / "to the last record".
	DailyPriceVolume(ctx context.Context, t models.Type, products []models.AbstractProduct, sources []models.Source, start, end *time.Time) (Option, error)

	// DailyPriceByYear returns one daily series per calendar year.
	DailyPriceByYear(ctx context.Context, t models.Type, products []models.AbstractProduct, sources []models.Source) (Option, error)

	// MonthlyPriceDistribution returns per-month price aggregates over
	// the selected years.
	MonthlyPriceDistribution(ctx context.Context, t models.Type, products []models.AbstractProduct, sources []models.Source, years []int) (Option, error)

	// Integration returns index-style comparison series over the window.
	// toInit selects the full this-term/last-term/five-year build; a
	// non-init call returns the yearly comparison only.
	Integration(ctx context.Context, t models.Type, products []models.AbstractProduct, sources []models.Source, start, end time.Time, toInit bool) (Option, error)
}

// UnixMilli converts a time to the unix-millisecond x value used on
// date axes.
func UnixMilli(t time.Time) int64 {
	return t.UnixMilli()
}

// FromUnixMilli converts a unix-millisecond payload value to a time.
func FromUnixMilli(ms int64) time.Time {
	return time.UnixMilli(ms)
}
