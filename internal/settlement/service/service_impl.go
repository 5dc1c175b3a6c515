package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/waselhq/wasel/internal/clock"
	obsmetrics "github.com/waselhq/wasel/internal/observability/metrics"
	pointsdomain "github.com/waselhq/wasel/internal/points/domain"
	"github.com/waselhq/wasel/internal/settlement/domain"
	"github.com/waselhq/wasel/pkg/db"
	"github.com/waselhq/wasel/pkg/money"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	PointsSvc pointsdomain.Service
	Metrics   *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	pointsSvc pointsdomain.Service
	metrics   *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("settlement.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		pointsSvc: p.PointsSvc,
		metrics:   p.Metrics,
	}
}

func (s *Service) ActivePeriod(ctx context.Context) (domain.WeeklyPeriod, error) {
	period, err := s.findActive(ctx)
	if err != nil {
		return domain.WeeklyPeriod{}, err
	}
	if period != nil {
		return *period, nil
	}

	created, err := s.openPeriod(ctx, s.db, domain.WeekStart(s.clock.Now()))
	if err != nil {
		// A concurrent caller may have opened the same week first.
		if db.IsDuplicateKeyErr(err) {
			period, findErr := s.findActive(ctx)
			if findErr == nil && period != nil {
				return *period, nil
			}
		}
		return domain.WeeklyPeriod{}, err
	}
	return created, nil
}

func (s *Service) ClosePeriod(ctx context.Context, periodID snowflake.ID) (domain.CloseResult, error) {
	var result domain.CloseResult
	batchID := uuid.NewString()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := s.clock.Now()

		// The period status is the gate: the compare-and-set serializes
		// concurrent closes, the loser sees zero rows affected.
		res := tx.WithContext(ctx).Exec(
			`UPDATE weekly_periods
			 SET status = ?, closed_at = ?, updated_at = ?
			 WHERE id = ? AND status = ?`,
			domain.PeriodClosed, now, now, periodID, domain.PeriodActive,
		)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var existing domain.WeeklyPeriod
			if err := tx.WithContext(ctx).Raw(
				`SELECT * FROM weekly_periods WHERE id = ?`, periodID,
			).Scan(&existing).Error; err != nil {
				return err
			}
			if existing.ID == 0 {
				return domain.ErrPeriodNotFound
			}
			return domain.ErrPeriodNotActive
		}

		var period domain.WeeklyPeriod
		if err := tx.WithContext(ctx).Raw(
			`SELECT * FROM weekly_periods WHERE id = ?`, periodID,
		).Scan(&period).Error; err != nil {
			return err
		}

		var openOrders int64
		if err := tx.WithContext(ctx).Raw(
			`SELECT COUNT(1) FROM orders WHERE period_id = ? AND status IN (?, ?)`,
			periodID, "pending", "accepted",
		).Scan(&openOrders).Error; err != nil {
			return err
		}
		if openOrders > 0 {
			s.log.Warn("closing period with open orders excluded from settlement",
				zap.String("period_id", periodID.String()),
				zap.Int64("open_orders", openOrders),
			)
		}

		shopSettlements, err := s.settleShops(ctx, tx, period, batchID, now)
		if err != nil {
			return err
		}
		riderSettlements, err := s.settleRiders(ctx, tx, period, batchID, now)
		if err != nil {
			return err
		}
		summary, err := s.adminSummary(ctx, tx, period, shopSettlements)
		if err != nil {
			return err
		}

		next, err := s.openPeriod(ctx, tx, period.EndDate.AddDate(0, 0, 1))
		if err != nil {
			return err
		}

		result = domain.CloseResult{
			Period:           period,
			NextPeriod:       next,
			AdminSummary:     summary,
			ShopSettlements:  shopSettlements,
			RiderSettlements: riderSettlements,
		}
		return nil
	})
	if err != nil {
		if s.metrics != nil {
			s.metrics.IncSettlementRun(obsmetrics.SettlementOutcomeFailed)
		}
		return domain.CloseResult{}, err
	}

	if s.metrics != nil {
		s.metrics.IncSettlementRun(obsmetrics.SettlementOutcomeClosed)
	}
	s.log.Info("period closed",
		zap.String("period_id", periodID.String()),
		zap.String("batch_id", batchID),
		zap.Int("shop_settlements", len(result.ShopSettlements)),
		zap.Int("rider_settlements", len(result.RiderSettlements)),
	)
	return result, nil
}

type shopAggregate struct {
	ShopID           snowflake.ID
	Completed        int
	Cancelled        int
	GrossSales       float64
	TotalCommission  float64
	FreeDeliveryCost float64
}

func (s *Service) settleShops(ctx context.Context, tx *gorm.DB, period domain.WeeklyPeriod, batchID string, now time.Time) ([]domain.ShopSettlement, error) {
	var aggregates []shopAggregate
	err := tx.WithContext(ctx).Raw(
		`SELECT shop_id,
		        SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END) AS completed,
		        SUM(CASE WHEN status = 'cancelled' THEN 1 ELSE 0 END) AS cancelled,
		        SUM(CASE WHEN status = 'completed' THEN subtotal ELSE 0 END) AS gross_sales,
		        SUM(CASE WHEN status = 'completed' THEN shop_commission ELSE 0 END) AS total_commission,
		        SUM(CASE WHEN status = 'completed' AND is_free_delivery THEN delivery_fee ELSE 0 END) AS free_delivery_cost
		 FROM orders
		 WHERE period_id = ? AND status IN ('completed', 'cancelled')
		 GROUP BY shop_id
		 ORDER BY shop_id`,
		period.ID,
	).Scan(&aggregates).Error
	if err != nil {
		return nil, err
	}

	usageRecords, err := s.completedUsageRecords(ctx, tx, period.ID)
	if err != nil {
		return nil, err
	}
	adsByShop, err := s.adSpendByShop(ctx, tx, period.ID)
	if err != nil {
		return nil, err
	}

	settlements := make([]domain.ShopSettlement, 0, len(aggregates))
	for _, agg := range aggregates {
		// Shops with only cancelled orders get no settlement row.
		if agg.Completed == 0 {
			continue
		}

		exists, err := s.shopSettlementExists(ctx, tx, agg.ShopID, period.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.ErrSettlementExists
		}

		pointsCredit := pointsdomain.StoreWeeklyPointsCredit(usageRecords, agg.ShopID)
		adsCost := adsByShop[agg.ShopID]
		settlement := domain.ShopSettlement{
			ID:               s.genID.Generate(),
			ShopID:           agg.ShopID,
			PeriodID:         period.ID,
			BatchID:          batchID,
			OrdersCompleted:  agg.Completed,
			OrdersCancelled:  agg.Cancelled,
			GrossSales:       money.Round2(agg.GrossSales),
			TotalCommission:  money.Round2(agg.TotalCommission),
			PointsDiscounts:  money.Round2(pointsCredit),
			FreeDeliveryCost: money.Round2(agg.FreeDeliveryCost),
			AdsCost:          money.Round2(adsCost),
			NetAmount:        money.Round2(agg.GrossSales - agg.TotalCommission + pointsCredit - adsCost),
			Status:           domain.SettlementPending,
			CreatedAt:        now,
		}
		if err := tx.WithContext(ctx).Create(&settlement).Error; err != nil {
			if db.IsDuplicateKeyErr(err) {
				return nil, domain.ErrSettlementExists
			}
			return nil, err
		}
		settlements = append(settlements, settlement)
	}
	return settlements, nil
}

type riderAggregate struct {
	RiderID          snowflake.ID
	TotalDeliveries  int
	TotalEarnings    float64
	TotalCashHandled float64
}

func (s *Service) settleRiders(ctx context.Context, tx *gorm.DB, period domain.WeeklyPeriod, batchID string, now time.Time) ([]domain.RiderSettlement, error) {
	var aggregates []riderAggregate
	err := tx.WithContext(ctx).Raw(
		`SELECT rider_id,
		        COUNT(1) AS total_deliveries,
		        SUM(delivery_fee) AS total_earnings,
		        SUM(total_amount) AS total_cash_handled
		 FROM orders
		 WHERE period_id = ? AND status = 'completed' AND rider_id IS NOT NULL
		 GROUP BY rider_id
		 ORDER BY rider_id`,
		period.ID,
	).Scan(&aggregates).Error
	if err != nil {
		return nil, err
	}

	settlements := make([]domain.RiderSettlement, 0, len(aggregates))
	for _, agg := range aggregates {
		exists, err := s.riderSettlementExists(ctx, tx, agg.RiderID, period.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.ErrSettlementExists
		}

		settlement := domain.RiderSettlement{
			ID:               s.genID.Generate(),
			RiderID:          agg.RiderID,
			PeriodID:         period.ID,
			BatchID:          batchID,
			TotalDeliveries:  agg.TotalDeliveries,
			TotalEarnings:    money.Round2(agg.TotalEarnings),
			TotalCashHandled: money.Round2(agg.TotalCashHandled),
			Status:           domain.SettlementPending,
			CreatedAt:        now,
		}
		if err := tx.WithContext(ctx).Create(&settlement).Error; err != nil {
			if db.IsDuplicateKeyErr(err) {
				return nil, domain.ErrSettlementExists
			}
			return nil, err
		}
		settlements = append(settlements, settlement)
	}
	return settlements, nil
}

func (s *Service) adminSummary(ctx context.Context, tx *gorm.DB, period domain.WeeklyPeriod, shops []domain.ShopSettlement) (domain.AdminSummary, error) {
	summary := domain.AdminSummary{PeriodID: period.ID}
	for _, settlement := range shops {
		summary.TotalCommissions += settlement.TotalCommission
		summary.PointsCost += settlement.PointsDiscounts
		summary.FreeDeliveryCost += settlement.FreeDeliveryCost
		summary.OrdersCompleted += settlement.OrdersCompleted
		summary.OrdersCancelled += settlement.OrdersCancelled
	}

	// Ads revenue comes from the ad spend ledger, not the settlement rows:
	// a shop that bought ads but completed no orders gets no settlement,
	// yet its spend is still platform revenue for the period.
	var totalAds float64
	err := tx.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(amount), 0) FROM ad_spends WHERE period_id = ?`,
		period.ID,
	).Scan(&totalAds).Error
	if err != nil {
		return domain.AdminSummary{}, err
	}
	summary.AdsRevenue = totalAds

	var personalTotal float64
	err = tx.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(pc.total), 0)
		 FROM personal_commissions pc
		 JOIN orders o ON o.id = pc.order_id
		 WHERE pc.period_id = ? AND o.status = 'completed'`,
		period.ID,
	).Scan(&personalTotal).Error
	if err != nil {
		return domain.AdminSummary{}, err
	}

	summary.TotalCommissions = money.Round2(summary.TotalCommissions)
	summary.PointsCost = money.Round2(summary.PointsCost)
	summary.FreeDeliveryCost = money.Round2(summary.FreeDeliveryCost)
	summary.AdsRevenue = money.Round2(summary.AdsRevenue)
	summary.NetRevenue = money.Round2(summary.TotalCommissions - summary.PointsCost - summary.FreeDeliveryCost + summary.AdsRevenue)
	summary.PersonalCommissionTotal = money.Round2(personalTotal)
	return summary, nil
}

// completedUsageRecords returns the period's usage ledger restricted to
// completed orders; cancelled orders already had their points refunded and
// carry no store credit.
func (s *Service) completedUsageRecords(ctx context.Context, tx *gorm.DB, periodID snowflake.ID) ([]pointsdomain.UsageRecord, error) {
	var records []pointsdomain.UsageRecord
	err := tx.WithContext(ctx).Raw(
		`SELECT r.*
		 FROM points_usage_records r
		 JOIN orders o ON o.id = r.order_id
		 WHERE r.period_id = ? AND o.status = 'completed'`,
		periodID,
	).Scan(&records).Error
	return records, err
}

func (s *Service) adSpendByShop(ctx context.Context, tx *gorm.DB, periodID snowflake.ID) (map[snowflake.ID]float64, error) {
	var rows []struct {
		ShopID snowflake.ID
		Total  float64
	}
	err := tx.WithContext(ctx).Raw(
		`SELECT shop_id, SUM(amount) AS total FROM ad_spends WHERE period_id = ? GROUP BY shop_id`,
		periodID,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	byShop := make(map[snowflake.ID]float64, len(rows))
	for _, row := range rows {
		byShop[row.ShopID] = row.Total
	}
	return byShop, nil
}

func (s *Service) shopSettlementExists(ctx context.Context, tx *gorm.DB, shopID, periodID snowflake.ID) (bool, error) {
	var count int64
	err := tx.WithContext(ctx).Raw(
		`SELECT COUNT(1) FROM shop_settlements WHERE shop_id = ? AND period_id = ?`,
		shopID, periodID,
	).Scan(&count).Error
	return count > 0, err
}

func (s *Service) riderSettlementExists(ctx context.Context, tx *gorm.DB, riderID, periodID snowflake.ID) (bool, error) {
	var count int64
	err := tx.WithContext(ctx).Raw(
		`SELECT COUNT(1) FROM rider_settlements WHERE rider_id = ? AND period_id = ?`,
		riderID, periodID,
	).Scan(&count).Error
	return count > 0, err
}

func (s *Service) findActive(ctx context.Context) (*domain.WeeklyPeriod, error) {
	var period domain.WeeklyPeriod
	err := s.db.WithContext(ctx).Raw(
		`SELECT * FROM weekly_periods WHERE status = ? ORDER BY start_date DESC LIMIT 1`,
		domain.PeriodActive,
	).Scan(&period).Error
	if err != nil {
		return nil, err
	}
	if period.ID == 0 {
		return nil, nil
	}
	return &period, nil
}

func (s *Service) openPeriod(ctx context.Context, tx *gorm.DB, start time.Time) (domain.WeeklyPeriod, error) {
	start = start.UTC().Truncate(24 * time.Hour)
	year, week := start.ISOWeek()
	now := s.clock.Now()
	period := domain.WeeklyPeriod{
		ID:         s.genID.Generate(),
		Year:       year,
		WeekNumber: week,
		StartDate:  start,
		EndDate:    domain.WeekEnd(start),
		Status:     domain.PeriodActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := tx.WithContext(ctx).Create(&period).Error; err != nil {
		return domain.WeeklyPeriod{}, err
	}
	return period, nil
}
