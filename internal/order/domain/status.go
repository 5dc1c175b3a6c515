package domain

// OrderStatus is the lifecycle state of an order. Financial postings are
// gated by transitions: points are awarded on completed and refunded on
// cancelled, nowhere else.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusAccepted  OrderStatus = "accepted"
	StatusPreparing OrderStatus = "preparing"
	StatusPickedUp  OrderStatus = "picked_up"
	StatusShopPaid  OrderStatus = "shop_paid"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

// ActorRole identifies who is requesting a transition.
type ActorRole string

const (
	RoleCustomer ActorRole = "customer"
	RoleShop     ActorRole = "shop"
	RoleRider    ActorRole = "rider"
	RoleAdmin    ActorRole = "admin"
)

type statusEdge struct {
	from OrderStatus
	to   OrderStatus
}

// transitions is the single source of truth for legal status edges and the
// roles allowed to drive them.
var transitions = map[statusEdge][]ActorRole{
	{StatusPending, StatusAccepted}:    {RoleShop},
	{StatusAccepted, StatusPreparing}:  {RoleShop},
	{StatusPreparing, StatusPickedUp}:  {RoleRider},
	{StatusPickedUp, StatusShopPaid}:   {RoleRider},
	{StatusShopPaid, StatusCompleted}:  {RoleShop},
	{StatusPending, StatusCancelled}:   {RoleCustomer, RoleShop, RoleAdmin},
	{StatusAccepted, StatusCancelled}:  {RoleCustomer, RoleShop, RoleAdmin},
}

// ValidStatus reports whether s is a known order status.
func ValidStatus(s OrderStatus) bool {
	switch s {
	case StatusPending, StatusAccepted, StatusPreparing, StatusPickedUp, StatusShopPaid, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// ValidRole reports whether r is a known actor role.
func ValidRole(r ActorRole) bool {
	switch r {
	case RoleCustomer, RoleShop, RoleRider, RoleAdmin:
		return true
	default:
		return false
	}
}

// CanTransition authorizes a status change. Transitioning to the current
// status is an idempotent no-op, not an error. The machine performs no side
// effects; callers run the completion/cancellation hooks after a successful
// edge.
func CanTransition(from, to OrderStatus, role ActorRole) error {
	if from == to {
		return nil
	}
	roles, ok := transitions[statusEdge{from, to}]
	if !ok {
		return ErrInvalidStatusTransition
	}
	for _, allowed := range roles {
		if allowed == role {
			return nil
		}
	}
	return ErrInvalidStatusTransition
}

// Cancellable reports whether points refunds are still possible from s.
func Cancellable(s OrderStatus) bool {
	return s == StatusPending || s == StatusAccepted
}
