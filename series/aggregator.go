package series

import (
	"context"
	"time"

	"github.com/agridash/models"
)

// Partition is one type slice of the requested scope: the type and the
// products of that type.
type Partition struct {
	Type     models.Type
	Products []models.AbstractProduct
}

// PartitionItems slices watchlist items along the given types, keeping
// the types' order. Types without any matching item yield an empty
// partition, which the repository reports as NoData.
func PartitionItems(types []models.Type, items []models.WatchlistItem) []Partition {
	partitions := make([]Partition, 0, len(types))
	for _, t := range types {
		p := Partition{Type: t}
		for _, item := range items {
			if item.Product == nil || item.Product.TypeID == nil {
				continue
			}
			if *item.Product.TypeID == t.ID {
				p.Products = append(p.Products, *item.Product)
			}
		}
		partitions = append(partitions, p)
	}
	return partitions
}

// Params are the caller-supplied series parameters. Start/End apply to
// KindDailyRange and KindIntegration; Years to KindMonthlyDist.
type Params struct {
	Start *time.Time
	End   *time.Time
	Years []int
}

// Result is the assembled series response. Years echoes the resolved
// year selection for KindMonthlyDist (caller years or the default).
type Result struct {
	Options []Option
	Years   []int
}

// Aggregator builds series options by issuing one repository call per
// type partition and dropping partitions without data.
type Aggregator struct {
	repo Repository

	// Now is the clock for window defaults; tests pin it.
	Now func() time.Time
}

// NewAggregator returns an Aggregator over the given repository.
func NewAggregator(repo Repository) *Aggregator {
	return &Aggregator{repo: repo, Now: time.Now}
}

// BuildSeries assembles the options for a chart kind over the given
// partitions. The returned list holds exactly the partitions with data,
// in partition order.
func (a *Aggregator) BuildSeries(ctx context.Context, kind Kind, partitions []Partition, sources []models.Source, params Params) (*Result, error) {
	result := &Result{Options: []Option{}}

	start, end := params.Start, params.End
	if s, e := kind.Window(a.Now()); s != nil {
		start, end = s, e
	}

	if kind == KindMonthlyDist {
		result.Years = params.Years
		if len(result.Years) == 0 {
			result.Years = DefaultYears(a.Now())
		}
	}

	for _, p := range partitions {
		option, err := a.buildOne(ctx, kind, p, sources, start, end, result.Years)
		if err != nil {
			return nil, err
		}
		if option.NoData {
			continue
		}
		result.Options = append(result.Options, option)
	}
	return result, nil
}

func (a *Aggregator) buildOne(ctx context.Context, kind Kind, p Partition, sources []models.Source, start, end *time.Time, years []int) (Option, error) {
	switch kind {
	case KindDaily, KindDailyRange, KindIntegration:
		return a.repo.DailyPriceVolume(ctx, p.Type, p.Products, sources, start, end)
	case KindYearly:
		return a.repo.DailyPriceByYear(ctx, p.Type, p.Products, sources)
	case KindMonthlyDist:
		return a.repo.MonthlyPriceDistribution(ctx, p.Type, p.Products, sources, years)
	}
	return Option{NoData: true}, nil
}
