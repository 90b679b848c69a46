package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	contractdomain "github.com/sfc-gh-jasvestis/reseller-billing-app/internal/contract/domain"
)

func (s *Server) contractRequest(c *gin.Context) (contractdomain.Request, error) {
	days, err := s.windowDays(c)
	if err != nil {
		return contractdomain.Request{}, err
	}
	return contractdomain.Request{
		Customer:   strings.TrimSpace(c.Query("customer")),
		WindowDays: days,
	}, nil
}

func (s *Server) GetContractMetrics(c *gin.Context) {
	req, err := s.contractRequest(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.contractSvc.Metrics(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	setDataSource(c, resp.Source)
	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetContractChart(c *gin.Context) {
	req, err := s.contractRequest(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.contractSvc.Chart(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	setDataSource(c, resp.Source)
	c.JSON(http.StatusOK, resp)
}
