package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	reportingdomain "github.com/sfc-gh-jasvestis/reseller-billing-app/internal/reporting/domain"
)

const defaultTopCustomers = 5

func (s *Server) reportingRequest(c *gin.Context) (reportingdomain.Request, error) {
	start, end, err := s.dateRange(c)
	if err != nil {
		return reportingdomain.Request{}, err
	}
	return reportingdomain.Request{
		Start:      start,
		End:        end,
		Customer:   strings.TrimSpace(c.Query("customer")),
		UsageTypes: parseUsageTypes(c.QueryArray("usage_type")),
	}, nil
}

func (s *Server) GetUsageSummary(c *gin.Context) {
	req, err := s.reportingRequest(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.reportingSvc.UsageSummary(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	setDataSource(c, resp.Source)
	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetDailyUsage(c *gin.Context) {
	req, err := s.reportingRequest(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.reportingSvc.DailyUsage(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	setDataSource(c, resp.Source)
	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetTopCustomers(c *gin.Context) {
	req, err := s.reportingRequest(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	limit, err := parseOptionalInt(c.Query("limit"))
	if err != nil {
		AbortWithError(c, newValidationError("limit", "invalid_int", "invalid limit value"))
		return
	}
	n := defaultTopCustomers
	if limit != nil {
		if *limit <= 0 {
			AbortWithError(c, newValidationError("limit", "invalid_limit", "limit must be positive"))
			return
		}
		n = *limit
	}

	resp, err := s.reportingSvc.TopCustomers(c.Request.Context(), req, n)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	setDataSource(c, resp.Source)
	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetUsageGrowth(c *gin.Context) {
	req, err := s.reportingRequest(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.reportingSvc.Growth(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	setDataSource(c, resp.Source)
	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetBalanceSummary(c *gin.Context) {
	req, err := s.reportingRequest(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.reportingSvc.BalanceSummary(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	setDataSource(c, resp.Source)
	c.JSON(http.StatusOK, resp)
}
