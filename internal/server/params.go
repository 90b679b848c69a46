package server

import (
	"time"

	"github.com/gin-gonic/gin"
	warehousedomain "github.com/sfc-gh-jasvestis/reseller-billing-app/internal/warehouse/domain"
)

// dateRange resolves the start/end query params, defaulting to the
// configured lookback window ending today.
func (s *Server) dateRange(c *gin.Context) (time.Time, time.Time, error) {
	start, err := parseOptionalTime(c.Query("start"), false)
	if err != nil {
		return time.Time{}, time.Time{}, newValidationError("start", "invalid_time", "invalid start time")
	}
	end, err := parseOptionalTime(c.Query("end"), true)
	if err != nil {
		return time.Time{}, time.Time{}, newValidationError("end", "invalid_time", "invalid end time")
	}

	now := s.clock.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if end == nil {
		endOfToday := today.Add(24*time.Hour - time.Nanosecond)
		end = &endOfToday
	}
	if start == nil {
		lookback := s.reporting.Get().Query.LookbackDays
		defaultStart := today.AddDate(0, 0, -lookback)
		start = &defaultStart
	}
	if end.Before(*start) {
		return time.Time{}, time.Time{}, newValidationError("end", "invalid_range", "end must not be before start")
	}
	return *start, *end, nil
}

// windowDays resolves the run-rate window from the days query param. Zero
// means "use the configured default".
func (s *Server) windowDays(c *gin.Context) (int, error) {
	days, err := parseOptionalInt(c.Query("days"))
	if err != nil {
		return 0, newValidationError("days", "invalid_int", "invalid days value")
	}
	if days == nil {
		return 0, nil
	}
	if *days <= 0 {
		return 0, newValidationError("days", "invalid_window", "days must be positive")
	}
	return *days, nil
}

func setDataSource(c *gin.Context, source warehousedomain.Source) {
	c.Set("data_source", string(source))
}
