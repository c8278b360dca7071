package series

import (
	"context"
	"testing"
	"time"

	"github.com/agridash/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepo records calls and answers from canned per-type options.
type fakeRepo struct {
	options map[uint]Option // keyed by type id

	calls []repoCall
}

type repoCall struct {
	method string
	typeID uint
	start  *time.Time
	end    *time.Time
	years  []int
	toInit bool
}

func (f *fakeRepo) answer(t models.Type) Option {
	if option, ok := f.options[t.ID]; ok {
		option.Type = t
		return option
	}
	return Option{Type: t, NoData: true}
}

func (f *fakeRepo) DailyPriceVolume(_ context.Context, t models.Type, _ []models.AbstractProduct, _ []models.Source, start, end *time.Time) (Option, error) {
	f.calls = append(f.calls, repoCall{method: "daily", typeID: t.ID, start: start, end: end})
	return f.answer(t), nil
}

func (f *fakeRepo) DailyPriceByYear(_ context.Context, t models.Type, _ []models.AbstractProduct, _ []models.Source) (Option, error) {
	f.calls = append(f.calls, repoCall{method: "yearly", typeID: t.ID})
	return f.answer(t), nil
}

func (f *fakeRepo) MonthlyPriceDistribution(_ context.Context, t models.Type, _ []models.AbstractProduct, _ []models.Source, years []int) (Option, error) {
	f.calls = append(f.calls, repoCall{method: "monthly", typeID: t.ID, years: years})
	return f.answer(t), nil
}

func (f *fakeRepo) Integration(_ context.Context, t models.Type, _ []models.AbstractProduct, _ []models.Source, start, end time.Time, toInit bool) (Option, error) {
	f.calls = append(f.calls, repoCall{method: "integration", typeID: t.ID, start: &start, end: &end, toInit: toInit})
	return f.answer(t), nil
}

func pinned(t *testing.T, a *Aggregator, date string) {
	t.Helper()
	now, err := time.Parse("2006-01-02", date)
	require.NoError(t, err)
	a.Now = func() time.Time { return now }
}

func somePrice() *float64 {
	v := 42.5
	return &v
}

func twoPartitions() []Partition {
	typeID1, typeID2 := uint(1), uint(2)
	return PartitionItems(
		[]models.Type{{ID: 1, Name: "Wholesale"}, {ID: 2, Name: "Origin"}},
		[]models.WatchlistItem{
			{ID: 1, Product: &models.AbstractProduct{ID: 11, TypeID: &typeID1}},
			{ID: 2, Product: &models.AbstractProduct{ID: 12, TypeID: &typeID2}},
			{ID: 3, Product: &models.AbstractProduct{ID: 13, TypeID: &typeID1}},
		},
	)
}

func TestPartitionItems(t *testing.T) {
	partitions := twoPartitions()

	require.Len(t, partitions, 2)
	assert.Equal(t, uint(1), partitions[0].Type.ID)
	assert.Len(t, partitions[0].Products, 2)
	assert.Equal(t, uint(2), partitions[1].Type.ID)
	assert.Len(t, partitions[1].Products, 1)
}

func TestBuildSeriesDropsNoData(t *testing.T) {
	repo := &fakeRepo{options: map[uint]Option{
		1: {Series: map[string][]Point{"avg_price": {{X: 1, Y: somePrice()}}}},
		// type 2 has no data
	}}
	agg := NewAggregator(repo)

	result, err := agg.BuildSeries(context.Background(), KindDailyRange, twoPartitions(), nil, Params{})
	require.NoError(t, err)

	require.Len(t, result.Options, 1)
	assert.Equal(t, uint(1), result.Options[0].Type.ID)
	assert.False(t, result.Options[0].NoData)
	assert.Len(t, repo.calls, 2, "every partition is queried")
}

func TestBuildSeriesDailyWindow(t *testing.T) {
	repo := &fakeRepo{options: map[uint]Option{1: {}}}
	agg := NewAggregator(repo)
	pinned(t, agg, "2026-08-30")

	_, err := agg.BuildSeries(context.Background(), KindDaily, twoPartitions()[:1], nil, Params{})
	require.NoError(t, err)

	require.Len(t, repo.calls, 1)
	call := repo.calls[0]
	require.NotNil(t, call.start)
	require.NotNil(t, call.end)
	assert.Equal(t, "2026-08-30", call.end.Format("2006-01-02"))
	assert.Equal(t, "2026-08-17", call.start.Format("2006-01-02"))
}

func TestBuildSeriesDailyWindowUsesLocalCalendarDay(t *testing.T) {
	repo := &fakeRepo{options: map[uint]Option{1: {}}}
	agg := NewAggregator(repo)

	// Early morning east of UTC: 01:00 local is still the previous day
	// in UTC, but the window must end on the local date.
	taipei := time.FixedZone("UTC+8", 8*3600)
	agg.Now = func() time.Time {
		return time.Date(2026, 8, 30, 1, 0, 0, 0, taipei)
	}

	_, err := agg.BuildSeries(context.Background(), KindDaily, twoPartitions()[:1], nil, Params{})
	require.NoError(t, err)

	require.Len(t, repo.calls, 1)
	call := repo.calls[0]
	require.NotNil(t, call.start)
	require.NotNil(t, call.end)
	assert.Equal(t, "2026-08-30", call.end.Format("2006-01-02"))
	assert.Equal(t, "2026-08-17", call.start.Format("2006-01-02"))
	assert.Equal(t, taipei, call.end.Location())
}

func TestBuildSeriesRangeUsesCallerWindow(t *testing.T) {
	repo := &fakeRepo{options: map[uint]Option{1: {}}}
	agg := NewAggregator(repo)

	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	_, err := agg.BuildSeries(context.Background(), KindDailyRange, twoPartitions()[:1], nil, Params{Start: &start, End: &end})
	require.NoError(t, err)

	require.Len(t, repo.calls, 1)
	assert.Equal(t, &start, repo.calls[0].start)
	assert.Equal(t, &end, repo.calls[0].end)
}

func TestBuildSeriesMonthlyDefaultYears(t *testing.T) {
	repo := &fakeRepo{options: map[uint]Option{1: {}}}
	agg := NewAggregator(repo)
	pinned(t, agg, "2026-08-30")

	result, err := agg.BuildSeries(context.Background(), KindMonthlyDist, twoPartitions()[:1], nil, Params{})
	require.NoError(t, err)

	want := []int{2021, 2022, 2023, 2024, 2025}
	assert.Equal(t, want, result.Years)
	require.Len(t, repo.calls, 1)
	assert.Equal(t, want, repo.calls[0].years)
}

func TestBuildSeriesMonthlyCallerYears(t *testing.T) {
	repo := &fakeRepo{options: map[uint]Option{1: {}}}
	agg := NewAggregator(repo)

	result, err := agg.BuildSeries(context.Background(), KindMonthlyDist, twoPartitions()[:1], nil, Params{Years: []int{2019, 2020}})
	require.NoError(t, err)
	assert.Equal(t, []int{2019, 2020}, result.Years)
	assert.Equal(t, []int{2019, 2020}, repo.calls[0].years)
}

func TestBuildSeriesYearlyHasNoWindow(t *testing.T) {
	repo := &fakeRepo{options: map[uint]Option{1: {}}}
	agg := NewAggregator(repo)

	_, err := agg.BuildSeries(context.Background(), KindYearly, twoPartitions()[:1], nil, Params{})
	require.NoError(t, err)
	require.Len(t, repo.calls, 1)
	assert.Equal(t, "yearly", repo.calls[0].method)
	assert.Nil(t, repo.calls[0].start)
}

func TestKindOf(t *testing.T) {
	for id := uint(1); id <= 5; id++ {
		kind, ok := KindOf(id)
		assert.True(t, ok)
		assert.Equal(t, Kind(id), kind)
	}
	_, ok := KindOf(9)
	assert.False(t, ok)
}
