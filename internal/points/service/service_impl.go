package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/waselhq/wasel/internal/clock"
	"github.com/waselhq/wasel/internal/config"
	"github.com/waselhq/wasel/internal/points/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Cfg   config.Config
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	pricing config.PricingConfig
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("points.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		pricing: p.Cfg.Pricing,
	}
}

func (s *Service) Redeem(ctx context.Context, tx *gorm.DB, customerID, orderID snowflake.ID, pointsUsed int) error {
	if pointsUsed <= 0 {
		return domain.ErrInvalidPoints
	}
	_, err := s.debit(ctx, tx, customerID, &orderID, domain.TransactionRedeemed, pointsUsed, "")
	return err
}

func (s *Service) AwardOnCompletion(ctx context.Context, tx *gorm.DB, customerID, orderID snowflake.ID, earned int) error {
	if earned > 0 {
		if _, err := s.credit(ctx, tx, customerID, &orderID, domain.TransactionEarned, earned, ""); err != nil {
			return err
		}
	}

	// First-completion flag is a compare-and-set: a retried completion event
	// finds it already set and skips the referral path.
	now := s.clock.Now()
	res := tx.WithContext(ctx).Exec(
		`UPDATE customers
		 SET first_order_completed_at = ?, updated_at = ?
		 WHERE id = ? AND first_order_completed_at IS NULL`,
		now, now, customerID,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return nil
	}

	var referrer struct {
		ReferredByID *snowflake.ID
	}
	if err := tx.WithContext(ctx).Raw(
		`SELECT referred_by_id FROM customers WHERE id = ?`, customerID,
	).Scan(&referrer).Error; err != nil {
		return err
	}
	if referrer.ReferredByID == nil {
		return nil
	}

	_, err := s.credit(ctx, tx, *referrer.ReferredByID, &orderID, domain.TransactionReferral, s.pricing.ReferralBonusPoints, "")
	if err != nil {
		return err
	}
	s.log.Info("referral bonus awarded",
		zap.String("customer_id", customerID.String()),
		zap.String("referrer_id", referrer.ReferredByID.String()),
		zap.Int("points", s.pricing.ReferralBonusPoints),
	)
	return nil
}

func (s *Service) RefundOnCancellation(ctx context.Context, tx *gorm.DB, customerID, orderID snowflake.ID, pointsUsed int) error {
	if pointsUsed <= 0 {
		return nil
	}
	_, err := s.credit(ctx, tx, customerID, &orderID, domain.TransactionAdjustment, pointsUsed, "order cancelled")
	return err
}

func (s *Service) Adjust(ctx context.Context, customerID snowflake.ID, points int, reason string) (domain.Transaction, error) {
	if points == 0 {
		return domain.Transaction{}, domain.ErrInvalidPoints
	}

	var txn domain.Transaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if points > 0 {
			txn, err = s.credit(ctx, tx, customerID, nil, domain.TransactionAdjustment, points, reason)
		} else {
			txn, err = s.debit(ctx, tx, customerID, nil, domain.TransactionAdjustment, -points, reason)
		}
		return err
	})
	if err != nil {
		return domain.Transaction{}, err
	}
	return txn, nil
}

func (s *Service) RecordUsage(ctx context.Context, tx *gorm.DB, orderID, storeID, periodID snowflake.ID, pointsUsed int, monetaryValue float64) (domain.UsageRecord, error) {
	record := domain.UsageRecord{
		ID:            s.genID.Generate(),
		OrderID:       orderID,
		StoreID:       storeID,
		PeriodID:      periodID,
		PointsUsed:    pointsUsed,
		MonetaryValue: monetaryValue,
		UsedAt:        s.clock.Now(),
	}
	if err := tx.WithContext(ctx).Create(&record).Error; err != nil {
		return domain.UsageRecord{}, err
	}
	return record, nil
}

func (s *Service) UsageRecordsForPeriod(ctx context.Context, periodID snowflake.ID) ([]domain.UsageRecord, error) {
	var records []domain.UsageRecord
	err := s.db.WithContext(ctx).
		Where("period_id = ?", periodID).
		Order("used_at, id").
		Find(&records).Error
	return records, err
}

// credit adds points unconditionally and appends the ledger row in the same
// transaction.
func (s *Service) credit(ctx context.Context, tx *gorm.DB, customerID snowflake.ID, orderID *snowflake.ID, typ domain.TransactionType, points int, reason string) (domain.Transaction, error) {
	now := s.clock.Now()
	res := tx.WithContext(ctx).Exec(
		`UPDATE customers SET total_points = total_points + ?, updated_at = ? WHERE id = ?`,
		points, now, customerID,
	)
	if res.Error != nil {
		return domain.Transaction{}, res.Error
	}
	if res.RowsAffected == 0 {
		return domain.Transaction{}, gorm.ErrRecordNotFound
	}
	return s.appendTransaction(ctx, tx, customerID, orderID, typ, points, reason, now)
}

// debit subtracts points iff the balance covers them. The precondition is
// asserted in the UPDATE itself so concurrent redemptions cannot lose
// updates; a failed precondition is ErrInsufficientPoints, never a clamp.
func (s *Service) debit(ctx context.Context, tx *gorm.DB, customerID snowflake.ID, orderID *snowflake.ID, typ domain.TransactionType, points int, reason string) (domain.Transaction, error) {
	now := s.clock.Now()
	res := tx.WithContext(ctx).Exec(
		`UPDATE customers
		 SET total_points = total_points - ?, updated_at = ?
		 WHERE id = ? AND total_points >= ?`,
		points, now, customerID, points,
	)
	if res.Error != nil {
		return domain.Transaction{}, res.Error
	}
	if res.RowsAffected == 0 {
		return domain.Transaction{}, domain.ErrInsufficientPoints
	}
	return s.appendTransaction(ctx, tx, customerID, orderID, typ, -points, reason, now)
}

func (s *Service) appendTransaction(ctx context.Context, tx *gorm.DB, customerID snowflake.ID, orderID *snowflake.ID, typ domain.TransactionType, points int, reason string, now time.Time) (domain.Transaction, error) {
	var balance struct {
		TotalPoints int
	}
	if err := tx.WithContext(ctx).Raw(
		`SELECT total_points FROM customers WHERE id = ?`, customerID,
	).Scan(&balance).Error; err != nil {
		return domain.Transaction{}, err
	}

	txn := domain.Transaction{
		ID:           s.genID.Generate(),
		CustomerID:   customerID,
		OrderID:      orderID,
		Type:         typ,
		Points:       points,
		BalanceAfter: balance.TotalPoints,
		Reason:       reason,
		CreatedAt:    now,
	}
	if err := tx.WithContext(ctx).Create(&txn).Error; err != nil {
		return domain.Transaction{}, err
	}
	return txn, nil
}
