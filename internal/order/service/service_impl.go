package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/oklog/ulid/v2"
	"github.com/waselhq/wasel/internal/cache"
	"github.com/waselhq/wasel/internal/clock"
	"github.com/waselhq/wasel/internal/commission"
	"github.com/waselhq/wasel/internal/config"
	customerdomain "github.com/waselhq/wasel/internal/customer/domain"
	obsmetrics "github.com/waselhq/wasel/internal/observability/metrics"
	"github.com/waselhq/wasel/internal/order/domain"
	"github.com/waselhq/wasel/internal/personalcommission"
	pointsdomain "github.com/waselhq/wasel/internal/points/domain"
	riderdomain "github.com/waselhq/wasel/internal/rider/domain"
	settlementdomain "github.com/waselhq/wasel/internal/settlement/domain"
	shopdomain "github.com/waselhq/wasel/internal/shop/domain"
	"github.com/waselhq/wasel/pkg/money"
	"github.com/waselhq/wasel/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const shopCacheTTL = 30 * time.Second

type Params struct {
	fx.In

	DB            *gorm.DB
	Log           *zap.Logger
	GenID         *snowflake.Node
	Clock         clock.Clock
	Cfg           config.Config
	PointsSvc     pointsdomain.Service
	SettlementSvc settlementdomain.Service
	Metrics       *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db            *gorm.DB
	log           *zap.Logger
	genID         *snowflake.Node
	clock         clock.Clock
	pricing       config.PricingConfig
	pointsSvc     pointsdomain.Service
	settlementSvc settlementdomain.Service
	metrics       *obsmetrics.Metrics

	shopCache cache.Cache[snowflake.ID, shopdomain.Shop]

	customers repository.Repository[customerdomain.Customer]
	riders    repository.Repository[riderdomain.Rider]
}

func New(p Params) domain.Service {
	return &Service{
		db:            p.DB,
		log:           p.Log.Named("order.service"),
		genID:         p.GenID,
		clock:         p.Clock,
		pricing:       p.Cfg.Pricing,
		pointsSvc:     p.PointsSvc,
		settlementSvc: p.SettlementSvc,
		metrics:       p.Metrics,
		shopCache:     cache.NewTTLCache[snowflake.ID, shopdomain.Shop](),
		customers:     repository.ProvideStore[customerdomain.Customer](p.DB),
		riders:        repository.ProvideStore[riderdomain.Rider](p.DB),
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateOrderRequest) (domain.Order, error) {
	if len(req.Items) == 0 {
		return domain.Order{}, domain.ErrEmptyItems
	}
	if strings.TrimSpace(req.DeliveryAddress) == "" {
		return domain.Order{}, domain.ErrMissingDeliveryAddress
	}
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return domain.Order{}, domain.ErrInvalidQuantity
		}
	}

	shop, err := s.loadShop(ctx, req.ShopID)
	if err != nil {
		return domain.Order{}, err
	}
	if !shop.IsOpen {
		return domain.Order{}, shopdomain.ErrShopClosed
	}

	customer, err := s.customers.FindOne(ctx, &customerdomain.Customer{ID: req.CustomerID})
	if err != nil {
		return domain.Order{}, err
	}
	if customer == nil {
		return domain.Order{}, customerdomain.ErrCustomerNotFound
	}

	items, subtotal, err := s.priceItems(ctx, shop.ID, req.Items)
	if err != nil {
		return domain.Order{}, err
	}
	if subtotal < shop.MinOrderAmount {
		return domain.Order{}, domain.ErrMinOrderNotMet
	}

	deliveryFee := s.pricing.DefaultDeliveryFee
	if req.RiderID != nil {
		rider, err := s.riders.FindOne(ctx, &riderdomain.Rider{ID: *req.RiderID})
		if err != nil {
			return domain.Order{}, err
		}
		if rider == nil {
			return domain.Order{}, riderdomain.ErrRiderNotFound
		}
		deliveryFee = rider.DeliveryFee
	}

	period, err := s.settlementSvc.ActivePeriod(ctx)
	if err != nil {
		return domain.Order{}, err
	}

	rate := shop.CommissionRate
	if rate <= 0 {
		rate = s.pricing.DefaultCommissionRate
	}
	shopCommission := commission.ShopCommission(subtotal, rate)
	freeDeliveryCost := commission.FreeDeliveryCost(req.IsFreeDelivery, deliveryFee)

	// Redemption is capped at the platform commission left after the
	// absorbed free-delivery cost, which keeps the admin commission
	// non-negative by construction.
	var redemption pointsdomain.Redemption
	if req.PointsToUse > 0 {
		orderTotal := commission.CustomerTotal(subtotal, deliveryFee, req.IsFreeDelivery, 0)
		maxRedeemable := pointsdomain.MaxRedeemable(
			money.NonNegative(shopCommission-freeDeliveryCost),
			customer.TotalPoints,
		)
		redemption = pointsdomain.ApplyPoints(orderTotal, req.PointsToUse, customer.TotalPoints, maxRedeemable, s.pricing.PointValue)
	}

	now := s.clock.Now()
	order := domain.Order{
		ID:              s.genID.Generate(),
		OrderNumber:     s.newOrderNumber(now),
		CustomerID:      customer.ID,
		ShopID:          shop.ID,
		RiderID:         req.RiderID,
		PeriodID:        period.ID,
		Status:          domain.StatusPending,
		Subtotal:        money.Round2(subtotal),
		DeliveryFee:     money.Round2(deliveryFee),
		IsFreeDelivery:  req.IsFreeDelivery,
		PointsUsed:      redemption.PointsUsed,
		PointsDiscount:  money.Round2(redemption.DiscountAmount),
		ShopCommission:  money.Round2(shopCommission),
		AdminCommission: money.Round2(commission.PlatformCommission(shopCommission, redemption.DiscountAmount, freeDeliveryCost)),
		TotalAmount:     money.Round2(commission.CustomerTotal(subtotal, deliveryFee, req.IsFreeDelivery, redemption.DiscountAmount)),
		DeliveryAddress: strings.TrimSpace(req.DeliveryAddress),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	personal := personalcommission.Calculate(subtotal, deliveryFee, req.IsFreeDelivery)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		for i := range items {
			items[i].ID = s.genID.Generate()
			items[i].OrderID = order.ID
			items[i].CreatedAt = now
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}

		if redemption.PointsUsed > 0 {
			if err := s.pointsSvc.Redeem(ctx, tx, customer.ID, order.ID, redemption.PointsUsed); err != nil {
				return err
			}
			if _, err := s.pointsSvc.RecordUsage(ctx, tx, order.ID, shop.ID, period.ID, redemption.PointsUsed, redemption.StoreCommissionCredit); err != nil {
				return err
			}
		}

		pc := domain.NewPersonalCommission(s.genID.Generate(), order.ID, period.ID, personal, now)
		return tx.Create(&pc).Error
	})
	if err != nil {
		return domain.Order{}, err
	}

	if s.metrics != nil {
		s.metrics.IncOrderCreated()
		if redemption.PointsUsed > 0 {
			s.metrics.AddPointsRedeemed(redemption.PointsUsed)
		}
	}
	s.log.Info("order created",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.Float64("total_amount", order.TotalAmount),
		zap.Int("points_used", order.PointsUsed),
	)
	return order, nil
}

func (s *Service) Transition(ctx context.Context, req domain.TransitionRequest) (domain.Order, error) {
	if !domain.ValidStatus(req.Target) || !domain.ValidRole(req.Role) {
		return domain.Order{}, domain.ErrInvalidStatusTransition
	}

	var updated domain.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := s.findOrder(ctx, tx, req.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrOrderNotFound
		}

		// Idempotent: transitioning to the current status repeats no side
		// effects and reports success.
		if order.Status == req.Target {
			updated = *order
			return nil
		}

		if err := domain.CanTransition(order.Status, req.Target, req.Role); err != nil {
			return err
		}

		now := s.clock.Now()
		// Compare-and-set on the previously read status: a concurrent
		// transition that got there first leaves zero rows affected.
		res := tx.WithContext(ctx).Exec(
			`UPDATE orders SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
			req.Target, now, order.ID, order.Status,
		)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrStatusConflict
		}

		switch req.Target {
		case domain.StatusCompleted:
			earned := pointsdomain.EarnedPoints(order.Subtotal, s.pricing.PointsEarnStep)
			if err := tx.WithContext(ctx).Exec(
				`UPDATE orders SET points_earned = ? WHERE id = ?`,
				earned, order.ID,
			).Error; err != nil {
				return err
			}
			if err := s.pointsSvc.AwardOnCompletion(ctx, tx, order.CustomerID, order.ID, earned); err != nil {
				return err
			}
			order.PointsEarned = earned
		case domain.StatusCancelled:
			if err := s.pointsSvc.RefundOnCancellation(ctx, tx, order.CustomerID, order.ID, order.PointsUsed); err != nil {
				return err
			}
		}

		order.Status = req.Target
		order.UpdatedAt = now
		updated = *order
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}

	if s.metrics != nil {
		switch updated.Status {
		case domain.StatusCompleted:
			s.metrics.IncOrderCompleted()
		case domain.StatusCancelled:
			s.metrics.IncOrderCancelled()
		}
	}
	return updated, nil
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (domain.Order, error) {
	order, err := s.findOrder(ctx, s.db, id)
	if err != nil {
		return domain.Order{}, err
	}
	if order == nil {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return *order, nil
}

func (s *Service) findOrder(ctx context.Context, tx *gorm.DB, id snowflake.ID) (*domain.Order, error) {
	var order domain.Order
	err := tx.WithContext(ctx).Raw(
		`SELECT * FROM orders WHERE id = ?`, id,
	).Scan(&order).Error
	if err != nil {
		return nil, err
	}
	if order.ID == 0 {
		return nil, nil
	}
	return &order, nil
}

func (s *Service) loadShop(ctx context.Context, shopID snowflake.ID) (shopdomain.Shop, error) {
	if shop, ok := s.shopCache.Get(shopID); ok {
		return shop, nil
	}

	var shop shopdomain.Shop
	err := s.db.WithContext(ctx).Raw(
		`SELECT * FROM shops WHERE id = ?`, shopID,
	).Scan(&shop).Error
	if err != nil {
		return shopdomain.Shop{}, err
	}
	if shop.ID == 0 {
		return shopdomain.Shop{}, shopdomain.ErrShopNotFound
	}

	s.shopCache.Set(shopID, shop, shopCacheTTL)
	return shop, nil
}

func (s *Service) priceItems(ctx context.Context, shopID snowflake.ID, reqItems []domain.CreateOrderItem) ([]domain.OrderItem, float64, error) {
	ids := make([]snowflake.ID, 0, len(reqItems))
	for _, item := range reqItems {
		ids = append(ids, item.ProductID)
	}

	var products []shopdomain.Product
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, 0, err
	}
	byID := make(map[snowflake.ID]shopdomain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	items := make([]domain.OrderItem, 0, len(reqItems))
	var subtotal float64
	for _, item := range reqItems {
		product, ok := byID[item.ProductID]
		if !ok || !product.IsAvailable {
			return nil, 0, shopdomain.ErrProductNotFound
		}
		if product.ShopID != shopID {
			return nil, 0, shopdomain.ErrProductNotInShop
		}
		subtotal += product.Price * float64(item.Quantity)
		items = append(items, domain.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  item.Quantity,
		})
	}
	return items, subtotal, nil
}

func (s *Service) newOrderNumber(now time.Time) string {
	return "WSL-" + ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String()
}
