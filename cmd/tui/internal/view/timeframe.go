package view

import (
	"time"

	"github.com/MrJamesThe3rd/brazaforte/internal/period"
)

// Timeframe is a predefined date range offered when reviewing imports.
type Timeframe int

const (
	TimeframeThisWeek Timeframe = iota
	TimeframeLastWeek
	TimeframeThisMonth
	TimeframeLastMonth
	TimeframeAll
)

func (t Timeframe) String() string {
	switch t {
	case TimeframeThisWeek:
		return "Esta semana"
	case TimeframeLastWeek:
		return "Semana passada"
	case TimeframeThisMonth:
		return "Este mês"
	case TimeframeLastMonth:
		return "Mês passado"
	case TimeframeAll:
		return "Todo o período"
	}

	return "Desconhecido"
}

// dateRange returns the half-open range [start, end) covered by t relative to
// now. Weeks start on Monday. ok is false for TimeframeAll.
func (t Timeframe) dateRange(now time.Time) (r period.Range, ok bool) {
	today := period.Date(now)

	offset := int(today.Weekday()) - 1
	if offset < 0 {
		offset = 6
	}

	monday := today.AddDate(0, 0, -offset)
	firstOfMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)

	switch t {
	case TimeframeThisWeek:
		return period.Range{Start: monday, End: today.AddDate(0, 0, 1)}, true
	case TimeframeLastWeek:
		return period.Range{Start: monday.AddDate(0, 0, -7), End: monday}, true
	case TimeframeThisMonth:
		return period.Range{Start: firstOfMonth, End: today.AddDate(0, 0, 1)}, true
	case TimeframeLastMonth:
		return period.Range{Start: firstOfMonth.AddDate(0, -1, 0), End: firstOfMonth}, true
	}

	return period.Range{}, false
}
