package services

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/uni10/storefront-api/models"
	"gorm.io/gorm"
)

const dateKeyLayout = "2006-01-02"

// Totals are revenue and order counts over a window
type Totals struct {
	Revenue float64 `json:"revenue"`
	Orders  int64   `json:"orders"`
}

// OverviewTotals adds the user count to the all-time totals
type OverviewTotals struct {
	Revenue float64 `json:"revenue"`
	Orders  int64   `json:"orders"`
	Users   int64   `json:"users"`
}

// SeriesPoint is one zero-filled day of the dashboard chart
type SeriesPoint struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
	Orders  int64   `json:"orders"`
}

// Overview is the admin dashboard payload
type Overview struct {
	Range     string         `json:"range"`
	Totals    OverviewTotals `json:"totals"`
	ThisMonth Totals         `json:"thisMonth"`
	LastMonth Totals         `json:"lastMonth"`
	PrevMonth Totals         `json:"prevMonth"`
	Series    []SeriesPoint  `json:"series"`
}

// OrderPoint is the slice of an order the daily series needs
type OrderPoint struct {
	CreatedAt time.Time
	Total     float64
}

// MonthBounds are the first instants of four consecutive calendar months
type MonthBounds struct {
	PrevMonthStart time.Time
	LastMonthStart time.Time
	ThisMonthStart time.Time
	NextMonthStart time.Time
}

// StatsService computes dashboard aggregates. Reads are unlocked snapshots:
// orders created during a read may or may not be counted.
type StatsService struct {
	db  *gorm.DB
	loc *time.Location
	now func() time.Time
}

// NewStatsService creates a stats service; loc sets day and month boundaries
func NewStatsService(db *gorm.DB, loc *time.Location, now func() time.Time) *StatsService {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &StatsService{db: db, loc: loc, now: now}
}

// ParseRange maps 7d/30d/90d to a day count; anything else is 30d
func ParseRange(value string) (string, int) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "7d":
		return "7d", 7
	case "90d":
		return "90d", 90
	default:
		return "30d", 30
	}
}

// StartOfDay truncates t to midnight in loc
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// CalendarMonths returns the month boundaries around now in loc
func CalendarMonths(now time.Time, loc *time.Location) MonthBounds {
	local := now.In(loc)
	first := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
	return MonthBounds{
		PrevMonthStart: first.AddDate(0, -2, 0),
		LastMonthStart: first.AddDate(0, -1, 0),
		ThisMonthStart: first,
		NextMonthStart: first.AddDate(0, 1, 0),
	}
}

// BuildDailySeries buckets orders by calendar day in loc. Every day from
// start (inclusive) for the given number of days appears exactly once, in
// ascending order, with zeros when nothing was ordered.
func BuildDailySeries(points []OrderPoint, start time.Time, days int, loc *time.Location) []SeriesPoint {
	revenue := make(map[string]decimal.Decimal, days)
	counts := make(map[string]int64, days)
	for _, p := range points {
		key := p.CreatedAt.In(loc).Format(dateKeyLayout)
		revenue[key] = revenue[key].Add(decimal.NewFromFloat(p.Total))
		counts[key]++
	}

	series := make([]SeriesPoint, 0, days)
	day := StartOfDay(start, loc)
	for i := 0; i < days; i++ {
		key := day.Format(dateKeyLayout)
		series = append(series, SeriesPoint{
			Date:    key,
			Revenue: revenue[key].Round(2).InexactFloat64(),
			Orders:  counts[key],
		})
		// AddDate keeps wall-clock midnight across DST changes
		day = day.AddDate(0, 0, 1)
	}
	return series
}

// Overview assembles totals, calendar-month comparisons and the daily series
func (s *StatsService) Overview(ctx context.Context, rangeParam string) (*Overview, error) {
	label, days := ParseRange(rangeParam)
	now := s.now()
	db := s.db.WithContext(ctx)

	overview := &Overview{Range: label}

	all, err := s.window(db, time.Time{}, time.Time{})
	if err != nil {
		return nil, err
	}
	overview.Totals.Revenue = all.Revenue
	overview.Totals.Orders = all.Orders
	if err := db.Model(&models.User{}).Count(&overview.Totals.Users).Error; err != nil {
		return nil, err
	}

	months := CalendarMonths(now, s.loc)
	if overview.ThisMonth, err = s.window(db, months.ThisMonthStart, months.NextMonthStart); err != nil {
		return nil, err
	}
	if overview.LastMonth, err = s.window(db, months.LastMonthStart, months.ThisMonthStart); err != nil {
		return nil, err
	}
	if overview.PrevMonth, err = s.window(db, months.PrevMonthStart, months.LastMonthStart); err != nil {
		return nil, err
	}

	start := StartOfDay(now, s.loc).AddDate(0, 0, -(days - 1))
	end := StartOfDay(now, s.loc).AddDate(0, 0, 1)
	var points []OrderPoint
	if err := db.Model(&models.Order{}).
		Select("created_at", "total").
		Where("created_at >= ? AND created_at < ?", start.UTC(), end.UTC()).
		Find(&points).Error; err != nil {
		return nil, err
	}
	overview.Series = BuildDailySeries(points, start, days, s.loc)

	return overview, nil
}

// window sums orders created in [from, to); zero bounds are open
func (s *StatsService) window(db *gorm.DB, from, to time.Time) (Totals, error) {
	var row struct {
		Revenue float64
		Orders  int64
	}
	query := db.Model(&models.Order{}).Select("COALESCE(SUM(total), 0) AS revenue, COUNT(*) AS orders")
	if !from.IsZero() {
		query = query.Where("created_at >= ?", from.UTC())
	}
	if !to.IsZero() {
		query = query.Where("created_at < ?", to.UTC())
	}
	if err := query.Scan(&row).Error; err != nil {
		return Totals{}, err
	}
	return Totals{
		Revenue: decimal.NewFromFloat(row.Revenue).Round(2).InexactFloat64(),
		Orders:  row.Orders,
	}, nil
}
