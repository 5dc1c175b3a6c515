package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	orderdomain "github.com/waselhq/wasel/internal/order/domain"
)

type createOrderItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type createOrderRequest struct {
	CustomerID      string                   `json:"customer_id"`
	ShopID          string                   `json:"shop_id"`
	RiderID         string                   `json:"rider_id"`
	Items           []createOrderItemRequest `json:"items"`
	DeliveryAddress string                   `json:"delivery_address"`
	PointsToUse     int                      `json:"points_to_use"`
	IsFreeDelivery  bool                     `json:"is_free_delivery"`
}

func (s *Server) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	customerID, err := parseID(req.CustomerID)
	if err != nil {
		AbortWithError(c, newValidationError("customer_id", "invalid_customer_id", "invalid customer_id"))
		return
	}
	shopID, err := parseID(req.ShopID)
	if err != nil {
		AbortWithError(c, newValidationError("shop_id", "invalid_shop_id", "invalid shop_id"))
		return
	}

	var riderID *snowflake.ID
	if strings.TrimSpace(req.RiderID) != "" {
		id, err := parseID(req.RiderID)
		if err != nil {
			AbortWithError(c, newValidationError("rider_id", "invalid_rider_id", "invalid rider_id"))
			return
		}
		riderID = &id
	}

	items := make([]orderdomain.CreateOrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		productID, err := parseID(item.ProductID)
		if err != nil {
			AbortWithError(c, newValidationError("items", "invalid_product_id", "invalid product_id"))
			return
		}
		items = append(items, orderdomain.CreateOrderItem{
			ProductID: productID,
			Quantity:  item.Quantity,
		})
	}

	order, err := s.orderSvc.Create(c.Request.Context(), orderdomain.CreateOrderRequest{
		CustomerID:      customerID,
		ShopID:          shopID,
		RiderID:         riderID,
		Items:           items,
		DeliveryAddress: strings.TrimSpace(req.DeliveryAddress),
		PointsToUse:     req.PointsToUse,
		IsFreeDelivery:  req.IsFreeDelivery,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": order})
}

func (s *Server) GetOrderByID(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	order, err := s.orderSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": order})
}

type transitionOrderRequest struct {
	Status string `json:"target_status"`
	Role   string `json:"actor_role"`
}

func (s *Server) TransitionOrder(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	var req transitionOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	target := orderdomain.OrderStatus(strings.TrimSpace(req.Status))
	if !orderdomain.ValidStatus(target) {
		AbortWithError(c, newValidationError("status", "invalid_status", "invalid status"))
		return
	}
	role := orderdomain.ActorRole(strings.TrimSpace(req.Role))
	if !orderdomain.ValidRole(role) {
		AbortWithError(c, newValidationError("role", "invalid_role", "invalid role"))
		return
	}

	order, err := s.orderSvc.Transition(c.Request.Context(), orderdomain.TransitionRequest{
		OrderID: id,
		Target:  target,
		Role:    role,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": order})
}

func parseID(raw string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(raw))
}
