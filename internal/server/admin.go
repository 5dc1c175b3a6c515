package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	shopdomain "github.com/waselhq/wasel/internal/shop/domain"
)

func (s *Server) GetCurrentPeriod(c *gin.Context) {
	period, err := s.settlementSvc.ActivePeriod(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": period})
}

type closePeriodRequest struct {
	PeriodID string `json:"period_id"`
}

// ClosePeriod settles the named period, or the active one when the body is
// empty. Closing opens the successor period in the same transaction.
func (s *Server) ClosePeriod(c *gin.Context) {
	var req closePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		AbortWithError(c, invalidRequestError())
		return
	}

	periodID := req.PeriodID
	if strings.TrimSpace(periodID) == "" {
		period, err := s.settlementSvc.ActivePeriod(c.Request.Context())
		if err != nil {
			AbortWithError(c, err)
			return
		}
		periodID = period.ID.String()
	}

	id, err := parseID(periodID)
	if err != nil {
		AbortWithError(c, newValidationError("period_id", "invalid_period_id", "invalid period_id"))
		return
	}

	result, err := s.settlementSvc.ClosePeriod(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

type adjustPointsRequest struct {
	CustomerID string `json:"customer_id"`
	Points     int    `json:"points"`
	Reason     string `json:"reason"`
}

func (s *Server) AdjustPoints(c *gin.Context) {
	var req adjustPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	customerID, err := parseID(req.CustomerID)
	if err != nil {
		AbortWithError(c, newValidationError("customer_id", "invalid_customer_id", "invalid customer_id"))
		return
	}
	if req.Points == 0 {
		AbortWithError(c, newValidationError("points", "invalid_points", "points must be non-zero"))
		return
	}

	txn, err := s.pointsSvc.Adjust(c.Request.Context(), customerID, req.Points, strings.TrimSpace(req.Reason))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": txn})
}

type recordAdSpendRequest struct {
	Amount float64 `json:"amount"`
}

// RecordAdSpend charges advertising to a shop inside the active period; the
// amount is deducted from the shop's payout at period close.
func (s *Server) RecordAdSpend(c *gin.Context) {
	shopID, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_shop_id", "invalid shop_id"))
		return
	}

	var req recordAdSpendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if req.Amount <= 0 {
		AbortWithError(c, shopdomain.ErrInvalidAdAmount)
		return
	}

	shop, err := s.findShop(c, shopID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if shop == nil {
		AbortWithError(c, shopdomain.ErrShopNotFound)
		return
	}

	period, err := s.settlementSvc.ActivePeriod(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	spend := shopdomain.AdSpend{
		ID:       s.genID.Generate(),
		ShopID:   shopID,
		PeriodID: period.ID,
		Amount:   req.Amount,
	}
	if err := s.adSpends.Create(c.Request.Context(), &spend); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": spend})
}

func (s *Server) findShop(c *gin.Context, shopID snowflake.ID) (*shopdomain.Shop, error) {
	var shop shopdomain.Shop
	err := s.db.WithContext(c.Request.Context()).Raw(
		`SELECT * FROM shops WHERE id = ?`, shopID,
	).Scan(&shop).Error
	if err != nil {
		return nil, err
	}
	if shop.ID == 0 {
		return nil, nil
	}
	return &shop, nil
}
