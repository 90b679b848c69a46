package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	runratedomain "github.com/sfc-gh-jasvestis/reseller-billing-app/internal/runrate/domain"
)

func (s *Server) runRateRequest(c *gin.Context) (runratedomain.Request, error) {
	start, end, err := s.dateRange(c)
	if err != nil {
		return runratedomain.Request{}, err
	}
	days, err := s.windowDays(c)
	if err != nil {
		return runratedomain.Request{}, err
	}
	return runratedomain.Request{
		Start:      start,
		End:        end,
		Customer:   strings.TrimSpace(c.Query("customer")),
		UsageTypes: parseUsageTypes(c.QueryArray("usage_type")),
		WindowDays: days,
	}, nil
}

func (s *Server) GetOverallRunRate(c *gin.Context) {
	req, err := s.runRateRequest(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.runRateSvc.Overall(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	setDataSource(c, resp.Source)
	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetCustomerRunRates(c *gin.Context) {
	req, err := s.runRateRequest(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.runRateSvc.ByCustomer(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	setDataSource(c, resp.Source)
	c.JSON(http.StatusOK, resp)
}
