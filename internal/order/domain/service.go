package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type CreateOrderItem struct {
	ProductID snowflake.ID `json:"product_id"`
	Quantity  int          `json:"quantity"`
}

type CreateOrderRequest struct {
	CustomerID      snowflake.ID
	ShopID          snowflake.ID
	RiderID         *snowflake.ID
	Items           []CreateOrderItem
	DeliveryAddress string
	PointsToUse     int
	IsFreeDelivery  bool
}

type TransitionRequest struct {
	OrderID snowflake.ID
	Target  OrderStatus
	Role    ActorRole
}

type Service interface {
	Create(context.Context, CreateOrderRequest) (Order, error)
	Transition(context.Context, TransitionRequest) (Order, error)
	GetByID(context.Context, snowflake.ID) (Order, error)
}
