package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	alertingdomain "github.com/sfc-gh-jasvestis/reseller-billing-app/internal/alerting/domain"
)

func (s *Server) GetAlerts(c *gin.Context) {
	start, end, err := s.dateRange(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	days, err := s.windowDays(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.alertingSvc.Evaluate(c.Request.Context(), alertingdomain.Request{
		Start:      start,
		End:        end,
		WindowDays: days,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	setDataSource(c, resp.Source)
	c.JSON(http.StatusOK, resp)
}
