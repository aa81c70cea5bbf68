package eastmoney

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/bobmcallan/fundwatch/internal/models"
	"github.com/bobmcallan/fundwatch/internal/textextract"
)

// GetHistory retrieves the full NAV series for a fund. The upstream returns
// rows newest-first; the result here is sorted ascending by date with exact
// duplicate dates collapsed (last row in source order wins) and the
// day-over-day change computed from adjacent points. An empty slice, not an
// error, is returned when the table is missing or no row survives parsing.
func (c *Client) GetHistory(ctx context.Context, code string) ([]models.HistoricalPoint, error) {
	body, err := c.getText(ctx, c.historyURL(code))
	if err != nil {
		return nil, err
	}

	rows := textextract.ExtractHTMLTableRows(body)
	points := normalizeHistoryRows(rows)

	c.logger.Debug().
		Str("code", code).
		Int("rows", len(rows)).
		Int("points", len(points)).
		Msg("History fetched")

	return points, nil
}

// normalizeHistoryRows maps raw table rows (column 0 = date, column 1 =
// unit NAV) into an ascending, deduplicated point series. Rows with fewer
// than 2 cells, an empty date, or a non-numeric NAV are dropped.
func normalizeHistoryRows(rows [][]string) []models.HistoricalPoint {
	byDate := make(map[string]float64, len(rows))
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		date := row[0]
		if date == "" {
			continue
		}
		nav, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			continue
		}
		byDate[date] = nav // duplicate dates: last row wins
	}

	points := make([]models.HistoricalPoint, 0, len(byDate))
	for date, nav := range byDate {
		points = append(points, models.HistoricalPoint{Time: date, NavValue: nav})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Time < points[j].Time })

	for i := 1; i < len(points); i++ {
		points[i].Change = points[i].NavValue - points[i-1].NavValue
	}
	return points
}

// periodLookbacks maps each chart period to a client-side lookback window.
// The windows are wider than the nominal period so sparse trading-day data
// still fills the chart.
var periodLookbacks = map[models.ChartPeriod]func(latest time.Time) time.Time{
	models.Period1D: func(t time.Time) time.Time { return t.AddDate(0, 0, -3) },
	models.Period5D: func(t time.Time) time.Time { return t.AddDate(0, 0, -10) },
	models.Period1M: func(t time.Time) time.Time { return t.AddDate(0, -2, 0) },
	models.Period3M: func(t time.Time) time.Time { return t.AddDate(0, -4, 0) },
	models.Period6M: func(t time.Time) time.Time { return t.AddDate(0, -7, 0) },
	models.Period1Y: func(t time.Time) time.Time { return t.AddDate(0, -14, 0) },
}

// FilterPeriod returns the tail of an ascending point series within the
// period's lookback window, anchored at the latest point's date. PeriodAll
// (or an unknown period, or an unparsable anchor date) returns the series
// unchanged.
func FilterPeriod(points []models.HistoricalPoint, period models.ChartPeriod) []models.HistoricalPoint {
	if len(points) == 0 || period == models.PeriodAll {
		return points
	}
	lookback, ok := periodLookbacks[period]
	if !ok {
		return points
	}

	latest, err := time.Parse("2006-01-02", points[len(points)-1].Time)
	if err != nil {
		return points
	}
	cutoff := lookback(latest).Format("2006-01-02")

	for i, p := range points {
		if p.Time >= cutoff {
			return points[i:]
		}
	}
	return []models.HistoricalPoint{}
}
