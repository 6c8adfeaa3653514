package service

import (
	"strings"
	"time"

	"restaurant-ops/internal/domain"
	"restaurant-ops/internal/microservices/report/repository"
)

const (
	PeriodDaily   = "daily"
	PeriodMonthly = "monthly"
	PeriodAnnual  = "annual"
	PeriodCustom  = "custom"
)

const dateOnly = "2006-01-02"

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func startOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

func startOfYear(t time.Time) time.Time {
	return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
}

// parseBound accepts RFC3339 or a plain date in loc. A plain end date covers
// the whole day.
func parseBound(s string, loc *time.Location, end bool) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	t, err := time.ParseInLocation(dateOnly, s, loc)
	if err != nil {
		return time.Time{}, false
	}
	if end {
		t = t.AddDate(0, 0, 1).Add(-time.Millisecond)
	}
	return t, true
}

// popularityWindow resolves the menu popularity period into a createdAt window.
func popularityWindow(period, startDate, endDate string, now time.Time) (repository.Window, error) {
	switch period {
	case "":
		return repository.Window{}, domain.Validationf("Period is required")
	case PeriodDaily:
		return repository.Window{From: startOfDay(now)}, nil
	case PeriodMonthly:
		return repository.Window{From: startOfMonth(now)}, nil
	case PeriodAnnual:
		return repository.Window{From: startOfYear(now)}, nil
	case PeriodCustom:
		if strings.TrimSpace(startDate) == "" || strings.TrimSpace(endDate) == "" {
			break
		}
		from, okFrom := parseBound(startDate, now.Location(), false)
		to, okTo := parseBound(endDate, now.Location(), true)
		if !okFrom || !okTo {
			return repository.Window{}, domain.Validationf("Invalid startDate or endDate format")
		}
		if to.Before(from) {
			return repository.Window{}, domain.Validationf("endDate must not be before startDate")
		}
		return repository.Window{From: from, To: to}, nil
	}
	return repository.Window{}, domain.Validationf("Invalid period or missing date range for custom period")
}
