package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	warehousedomain "github.com/sfc-gh-jasvestis/reseller-billing-app/internal/warehouse/domain"
)

type customersResponse struct {
	Source    warehousedomain.Source `json:"source"`
	Customers []string               `json:"customers"`
}

func (s *Server) ListCustomers(c *gin.Context) {
	customers, source, err := s.loader.Customers(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	setDataSource(c, source)
	c.JSON(http.StatusOK, customersResponse{Source: source, Customers: customers})
}
