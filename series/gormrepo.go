package series

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/agridash/models"
	"gorm.io/gorm"
)

// gormRepository computes series from daily_trans rows. Daily averages
// are volume-weighted when volume was reported, plain averages otherwise.
type gormRepository struct {
	db *gorm.DB
}

// NewRepository returns a Repository over the given database.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

type dailyRow struct {
	Date      time.Time
	AvgPrice  float64
	SumVolume *float64
	AvgWeight *float64
}

func (r *gormRepository) dailyRows(ctx context.Context, products []models.AbstractProduct, sources []models.Source, start, end *time.Time) ([]dailyRow, error) {
	if len(products) == 0 {
		return nil, nil
	}

	productIDs := make([]uint, 0, len(products))
	for _, p := range products {
		productIDs = append(productIDs, p.ID)
	}

	query := r.db.WithContext(ctx).Model(&models.DailyTran{}).
		Select(`date,
			CASE WHEN COALESCE(SUM(volume), 0) > 0
			     THEN SUM(avg_price * volume) / SUM(volume)
			     ELSE AVG(avg_price) END AS avg_price,
			SUM(volume) AS sum_volume,
			AVG(avg_weight) AS avg_weight`).
		Where("product_id IN ?", productIDs).
		Group("date").
		Order("date")

	if len(sources) > 0 {
		sourceIDs := make([]uint, 0, len(sources))
		for _, s := range sources {
			sourceIDs = append(sourceIDs, s.ID)
		}
		query = query.Where("source_id IN ?", sourceIDs)
	}
	if start != nil {
		query = query.Where("date >= ?", *start)
	}
	if end != nil {
		query = query.Where("date <= ?", *end)
	}

	var rows []dailyRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("daily rows: %w", err)
	}
	return rows, nil
}

func (r *gormRepository) DailyPriceVolume(ctx context.Context, t models.Type, products []models.AbstractProduct, sources []models.Source, start, end *time.Time) (Option, error) {
	rows, err := r.dailyRows(ctx, products, sources, start, end)
	if err != nil {
		return Option{}, err
	}
	if len(rows) == 0 {
		return Option{Type: t, NoData: true}, nil
	}

	// Reindex over the full window so the chart shows gaps for days
	// without records.
	from := rows[0].Date
	to := rows[len(rows)-1].Date
	if start != nil {
		from = *start
	}
	if end != nil {
		to = *end
	}

	byDate := make(map[string]dailyRow, len(rows))
	hasVolume := false
	hasWeight := false
	for _, row := range rows {
		byDate[row.Date.Format("2006-01-02")] = row
		hasVolume = hasVolume || row.SumVolume != nil
		hasWeight = hasWeight || row.AvgWeight != nil
	}

	option := Option{
		Type:      t,
		Series:    map[string][]Point{},
		HasVolume: hasVolume,
		HasWeight: hasWeight,
	}

	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		x := UnixMilli(d)
		row, ok := byDate[d.Format("2006-01-02")]
		if !ok {
			option.Series["avg_price"] = append(option.Series["avg_price"], Point{X: x})
			if hasVolume {
				option.Series["sum_volume"] = append(option.Series["sum_volume"], Point{X: x})
			}
			if hasWeight {
				option.Series["avg_weight"] = append(option.Series["avg_weight"], Point{X: x})
			}
			continue
		}

		price := row.AvgPrice
		option.Series["avg_price"] = append(option.Series["avg_price"], Point{X: x, Y: &price})
		if hasVolume {
			option.Series["sum_volume"] = append(option.Series["sum_volume"], Point{X: x, Y: row.SumVolume})
		}
		if hasWeight {
			option.Series["avg_weight"] = append(option.Series["avg_weight"], Point{X: x, Y: row.AvgWeight})
		}
	}

	return option, nil
}

func (r *gormRepository) DailyPriceByYear(ctx context.Context, t models.Type, products []models.AbstractProduct, sources []models.Source) (Option, error) {
	rows, err := r.dailyRows(ctx, products, sources, nil, nil)
	if err != nil {
		return Option{}, err
	}
	if len(rows) == 0 {
		return Option{Type: t, NoData: true}, nil
	}

	option := Option{Type: t, Groups: map[string][]Point{}}
	for _, row := range rows {
		year := strconv.Itoa(row.Date.Year())
		price := row.AvgPrice
		option.Groups[year] = append(option.Groups[year], Point{X: UnixMilli(row.Date), Y: &price})
	}
	return option, nil
}

type monthlyRow struct {
	Year     int
	Month    int
	AvgPrice float64
}

func (r *gormRepository) MonthlyPriceDistribution(ctx context.Context, t models.Type, products []models.AbstractProduct, sources []models.Source, years []int) (Option, error) {
	if len(products) == 0 || len(years) == 0 {
		return Option{Type: t, NoData: true}, nil
	}

	productIDs := make([]uint, 0, len(products))
	for _, p := range products {
		productIDs = append(productIDs, p.ID)
	}

	query := r.db.WithContext(ctx).Model(&models.DailyTran{}).
		Select(`EXTRACT(YEAR FROM date)::int AS year,
			EXTRACT(MONTH FROM date)::int AS month,
			AVG(avg_price) AS avg_price`).
		Where("product_id IN ?", productIDs).
		Where("EXTRACT(YEAR FROM date) IN ?", years).
		Group("year, month").
		Order("year, month")

	if len(sources) > 0 {
		sourceIDs := make([]uint, 0, len(sources))
		for _, s := range sources {
			sourceIDs = append(sourceIDs, s.ID)
		}
		query = query.Where("source_id IN ?", sourceIDs)
	}

	var rows []monthlyRow
	if err := query.Scan(&rows).Error; err != nil {
		return Option{}, fmt.Errorf("monthly distribution: %w", err)
	}
	if len(rows) == 0 {
		return Option{Type: t, NoData: true}, nil
	}

	option := Option{Type: t, Groups: map[string][]Point{}}

	// Per-year monthly curves plus the cross-year monthly mean.
	monthSum := map[int]float64{}
	monthCount := map[int]int{}
	for _, row := range rows {
		year := strconv.Itoa(row.Year)
		price := row.AvgPrice
		option.Groups[year] = append(option.Groups[year], Point{X: int64(row.Month), Y: &price})
		monthSum[row.Month] += row.AvgPrice
		monthCount[row.Month]++
	}

	option.Series = map[string][]Point{}
	for month := 1; month <= 12; month++ {
		if monthCount[month] == 0 {
			option.Series["monthly_avg_price"] = append(option.Series["monthly_avg_price"], Point{X: int64(month)})
			continue
		}
		mean := monthSum[month] / float64(monthCount[month])
		option.Series["monthly_avg_price"] = append(option.Series["monthly_avg_price"], Point{X: int64(month), Y: &mean})
	}

	return option, nil
}

func (r *gormRepository) Integration(ctx context.Context, t models.Type, products []models.AbstractProduct, sources []models.Source, start, end time.Time, toInit bool) (Option, error) {
	if toInit {
		return r.integrationInit(ctx, t, products, sources, start, end)
	}
	return r.integrationYearly(ctx, t, products, sources, start, end)
}

// integrationInit compares the requested term with the same term a year
// back and with the five-year mean.
func (r *gormRepository) integrationInit(ctx context.Context, t models.Type, products []models.AbstractProduct, sources []models.Source, start, end time.Time) (Option, error) {
	thisTerm, err := r.dailyRows(ctx, products, sources, &start, &end)
	if err != nil {
		return Option{}, err
	}
	if len(thisTerm) == 0 {
		return Option{Type: t, NoData: true}, nil
	}

	option := Option{
		Type:   t,
		Groups: map[string][]Point{"this_term": sparkline(thisTerm)},
		Stats:  map[string]float64{"this_term": meanPrice(thisTerm)},
	}

	lastStart := start.AddDate(-1, 0, 0)
	lastEnd := end.AddDate(-1, 0, 0)
	lastTerm, err := r.dailyRows(ctx, products, sources, &lastStart, &lastEnd)
	if err != nil {
		return Option{}, err
	}
	if len(lastTerm) > 0 {
		option.Groups["last_term"] = sparkline(lastTerm)
		option.Stats["last_term"] = meanPrice(lastTerm)
	}

	fiveStart := start.AddDate(-5, 0, 0)
	fiveEnd := end.AddDate(-1, 0, 0)
	fiveYears, err := r.dailyRows(ctx, products, sources, &fiveStart, &fiveEnd)
	if err != nil {
		return Option{}, err
	}
	if len(fiveYears) > 0 {
		option.Stats["five_year"] = meanPrice(fiveYears)
	}

	return option, nil
}

// integrationYearly builds the per-year comparison for the update phase:
// the same term shifted into each of the five preceding years.
func (r *gormRepository) integrationYearly(ctx context.Context, t models.Type, products []models.AbstractProduct, sources []models.Source, start, end time.Time) (Option, error) {
	option := Option{Type: t, Groups: map[string][]Point{}, Stats: map[string]float64{}}

	for back := 1; back <= 5; back++ {
		s := start.AddDate(-back, 0, 0)
		e := end.AddDate(-back, 0, 0)
		rows, err := r.dailyRows(ctx, products, sources, &s, &e)
		if err != nil {
			return Option{}, err
		}
		if len(rows) == 0 {
			continue
		}
		year := strconv.Itoa(s.Year())
		option.Groups[year] = sparkline(rows)
		option.Stats[year] = meanPrice(rows)
	}

	option.NoData = len(option.Groups) == 0
	return option, nil
}

func sparkline(rows []dailyRow) []Point {
	points := make([]Point, 0, len(rows))
	for _, row := range rows {
		price := row.AvgPrice
		points = append(points, Point{X: UnixMilli(row.Date), Y: &price})
	}
	return points
}

func meanPrice(rows []dailyRow) float64 {
	if len(rows) == 0 {
		return 0
	}
	sum := 0.0
	for _, row := range rows {
		sum += row.AvgPrice
	}
	return sum / float64(len(rows))
}
