package series

import (
	"time"

	"github.com/agridash/models"
)

// Kind is a chart kind. Values match the seeded chart ids.
type Kind uint

const (
	KindDaily       = Kind(models.ChartDaily)       // rolling 14-day window ending today
	KindDailyRange  = Kind(models.ChartDailyRange)  // caller-supplied window
	KindYearly      = Kind(models.ChartYearly)      // no window
	KindMonthlyDist = Kind(models.ChartMonthlyDist) // selected years
	KindIntegration = Kind(models.ChartIntegration) // caller window + event overlay
)

// KindOf maps a chart id to its Kind.
func KindOf(chartID uint) (Kind, bool) {
	switch chartID {
	case models.ChartDaily, models.ChartDailyRange, models.ChartYearly,
		models.ChartMonthlyDist, models.ChartIntegration:
		return Kind(chartID), true
	}
	return 0, false
}

// Window returns the date bounds the kind imposes. Only KindDaily pins
// its own window; the other kinds use caller bounds or none.
func (k Kind) Window(now time.Time) (start, end *time.Time) {
	if k != KindDaily {
		return nil, nil
	}
	// Truncate to the calendar day in now's zone; Truncate would cut at
	// UTC day boundaries and land on yesterday early in eastern zones.
	y, m, d := now.Date()
	e := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	s := e.AddDate(0, 0, -13)
	return &s, &e
}

// DefaultYears returns the five calendar years preceding now's year,
// ascending. Used by KindMonthlyDist when the caller selects none.
func DefaultYears(now time.Time) []int {
	thisYear := now.Year()
	years := make([]int, 0, 5)
	for y := thisYear - 5; y < thisYear; y++ {
		years = append(years, y)
	}
	return years
}
