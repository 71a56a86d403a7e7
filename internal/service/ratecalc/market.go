package ratecalc

import (
	"time"

	"JewarRates/internal/domain/models"
)

// IST is used instead of time.LoadLocation so the binary needs no tzdata.
var IST = time.FixedZone("IST", 5*3600+1800)

// MarketHours is a weekday trading window [Open, Close) in hours.
type MarketHours struct {
	Open  int
	Close int
	Loc   *time.Location
}

func DefaultMarketHours() MarketHours {
	return MarketHours{Open: 9, Close: 17, Loc: IST}
}

func (h MarketHours) local(t time.Time) time.Time {
	if h.Loc == nil {
		return t
	}
	return t.In(h.Loc)
}

func isWeekday(t time.Time) bool {
	d := t.Weekday()
	return d != time.Saturday && d != time.Sunday
}

func (h MarketHours) IsOpen(t time.Time) bool {
	lt := h.local(t)
	return isWeekday(lt) && lt.Hour() >= h.Open && lt.Hour() < h.Close
}

// NextOpen returns the first opening instant strictly after t.
func (h MarketHours) NextOpen(t time.Time) time.Time {
	lt := h.local(t)
	day := time.Date(lt.Year(), lt.Month(), lt.Day(), h.Open, 0, 0, 0, lt.Location())
	for i := 0; i < 8; i++ {
		if day.After(lt) && isWeekday(day) {
			return day
		}
		day = day.AddDate(0, 0, 1)
	}
	return day
}

func (h MarketHours) Status(t time.Time) models.MarketStatus {
	open := h.IsOpen(t)
	status := "CLOSED"
	if open {
		status = "OPEN"
	}
	return models.MarketStatus{IsOpen: open, Status: status, NextOpen: h.NextOpen(t)}
}

// volatilityMultiplier is 2.0 in the opening and closing hour, 1.5 during
// the rest of the session and 0.8 outside it.
func (h MarketHours) volatilityMultiplier(t time.Time) float64 {
	if !h.IsOpen(t) {
		return 0.8
	}
	hour := h.local(t).Hour()
	if hour == h.Open || hour == h.Close-1 {
		return 2.0
	}
	return 1.5
}
