package series

import (
	"context"
	"time"

	"github.com/agridash/models"
)

// DateLabels are the integration chart's axis labels. Dates within one
// calendar year omit the year.
type DateLabels struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// FormatDateLabels renders the window bounds for the integration axis.
func FormatDateLabels(start, end time.Time) DateLabels {
	layout := "2006/01/02"
	if start.Year() == end.Year() {
		layout = "01/02"
	}
	return DateLabels{Start: start.Format(layout), End: end.Format(layout)}
}

// IntegrationBuilder drives the two-phase protocol of the integration
// chart: Init assembles the full comparison set with axis labels, Update
// refreshes a single type partition.
type IntegrationBuilder struct {
	repo Repository
}

// NewIntegrationBuilder returns an IntegrationBuilder over the repository.
func NewIntegrationBuilder(repo Repository) *IntegrationBuilder {
	return &IntegrationBuilder{repo: repo}
}

// Init builds one option per partition with data, plus the axis labels
// for the window.
func (b *IntegrationBuilder) Init(ctx context.Context, partitions []Partition, sources []models.Source, start, end time.Time) ([]Option, DateLabels, error) {
	options := []Option{}
	for _, p := range partitions {
		option, err := b.repo.Integration(ctx, p.Type, p.Products, sources, start, end, true)
		if err != nil {
			return nil, DateLabels{}, err
		}
		if option.NoData {
			continue
		}
		options = append(options, option)
	}
	return options, FormatDateLabels(start, end), nil
}

// Update refreshes one partition. The type comes from the caller
// payload, not from scope resolution; the chart frontend already tracks
// which partition it is updating. Returns nil when the partition has
// no data.
func (b *IntegrationBuilder) Update(ctx context.Context, t models.Type, products []models.AbstractProduct, sources []models.Source, start, end time.Time) (*Option, error) {
	option, err := b.repo.Integration(ctx, t, products, sources, start, end, false)
	if err != nil {
		return nil, err
	}
	if option.NoData {
		return nil, nil
	}
	return &option, nil
}
