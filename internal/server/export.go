package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	exportdomain "github.com/sfc-gh-jasvestis/reseller-billing-app/internal/export/domain"
)

// ExportRateLimit throttles CSV downloads per client IP when redis is
// configured. Without a limiter every request passes.
func (s *Server) ExportRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.exportLimiter.Enabled() {
			c.Next()
			return
		}

		result, err := s.exportLimiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			// Redis being down should not take exports with it.
			c.Next()
			return
		}
		if !result.Allowed {
			if result.RetryAfter > 0 {
				c.Header("Retry-After", fmt.Sprintf("%.0f", result.RetryAfter.Seconds()))
			}
			AbortWithError(c, ErrTooManyRequests)
			return
		}
		c.Next()
	}
}

func (s *Server) exportRequest(c *gin.Context) (exportdomain.Request, error) {
	start, end, err := s.dateRange(c)
	if err != nil {
		return exportdomain.Request{}, err
	}
	return exportdomain.Request{
		Start:      start,
		End:        end,
		Customer:   strings.TrimSpace(c.Query("customer")),
		UsageTypes: parseUsageTypes(c.QueryArray("usage_type")),
	}, nil
}

func (s *Server) ExportUsage(c *gin.Context) {
	s.serveExport(c, s.exportSvc.Usage)
}

func (s *Server) ExportBalances(c *gin.Context) {
	s.serveExport(c, s.exportSvc.Balances)
}

func (s *Server) ExportContracts(c *gin.Context) {
	s.serveExport(c, s.exportSvc.Contracts)
}

func (s *Server) serveExport(c *gin.Context, render func(context.Context, exportdomain.Request) (exportdomain.Export, error)) {
	req, err := s.exportRequest(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	result, err := render(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	setDataSource(c, result.Source)
	if len(result.Data) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Header("X-Data-Source", string(result.Source))
	c.Data(http.StatusOK, "text/csv", result.Data)
}
