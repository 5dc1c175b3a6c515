package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/waselhq/wasel/internal/clock"
	"github.com/waselhq/wasel/internal/config"
	customerdomain "github.com/waselhq/wasel/internal/customer/domain"
	"github.com/waselhq/wasel/internal/points/domain"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(
		&customerdomain.Customer{},
		&domain.Transaction{},
		&domain.UsageRecord{},
	))

	node, err := snowflake.NewNode(1)
	assert.NoError(t, err)

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.NewFakeClock(time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)),
		Cfg: config.Config{
			Pricing: config.PricingConfig{
				PointsEarnStep:      100,
				PointValue:          1.0,
				ReferralBonusPoints: 2,
			},
		},
	}).(*Service)
	return svc, db, node
}

func seedCustomer(t *testing.T, db *gorm.DB, node *snowflake.Node, points int, referredBy *snowflake.ID) customerdomain.Customer {
	t.Helper()
	customer := customerdomain.Customer{
		ID:           node.Generate(),
		Name:         "test customer",
		TotalPoints:  points,
		ReferredByID: referredBy,
	}
	assert.NoError(t, db.Create(&customer).Error)
	return customer
}

func balanceOf(t *testing.T, db *gorm.DB, id snowflake.ID) int {
	t.Helper()
	var customer customerdomain.Customer
	assert.NoError(t, db.First(&customer, "id = ?", id).Error)
	return customer.TotalPoints
}

func TestRedeemDebitsBalanceAndAppendsLedger(t *testing.T) {
	svc, db, node := newTestService(t)
	customer := seedCustomer(t, db, node, 50, nil)
	orderID := node.Generate()

	err := db.Transaction(func(tx *gorm.DB) error {
		return svc.Redeem(context.Background(), tx, customer.ID, orderID, 20)
	})
	assert.NoError(t, err)
	assert.Equal(t, 30, balanceOf(t, db, customer.ID))

	var txn domain.Transaction
	assert.NoError(t, db.First(&txn, "customer_id = ?", customer.ID).Error)
	assert.Equal(t, domain.TransactionRedeemed, txn.Type)
	assert.Equal(t, -20, txn.Points)
	assert.Equal(t, 30, txn.BalanceAfter)
	assert.NotNil(t, txn.OrderID)
	assert.Equal(t, orderID, *txn.OrderID)
}

func TestRedeemInsufficientBalance(t *testing.T) {
	svc, db, node := newTestService(t)
	customer := seedCustomer(t, db, node, 10, nil)

	err := db.Transaction(func(tx *gorm.DB) error {
		return svc.Redeem(context.Background(), tx, customer.ID, node.Generate(), 20)
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientPoints)
	assert.Equal(t, 10, balanceOf(t, db, customer.ID))

	var count int64
	assert.NoError(t, db.Model(&domain.Transaction{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRedeemRejectsNonPositivePoints(t *testing.T) {
	svc, db, node := newTestService(t)
	customer := seedCustomer(t, db, node, 50, nil)

	err := db.Transaction(func(tx *gorm.DB) error {
		return svc.Redeem(context.Background(), tx, customer.ID, node.Generate(), 0)
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPoints)
}

func TestAwardOnCompletionCreditsEarnedPoints(t *testing.T) {
	svc, db, node := newTestService(t)
	customer := seedCustomer(t, db, node, 0, nil)

	err := db.Transaction(func(tx *gorm.DB) error {
		return svc.AwardOnCompletion(context.Background(), tx, customer.ID, node.Generate(), 5)
	})
	assert.NoError(t, err)
	assert.Equal(t, 5, balanceOf(t, db, customer.ID))

	var updated customerdomain.Customer
	assert.NoError(t, db.First(&updated, "id = ?", customer.ID).Error)
	assert.NotNil(t, updated.FirstOrderCompletedAt)
}

func TestAwardOnCompletionReferralBonusOnce(t *testing.T) {
	svc, db, node := newTestService(t)
	referrer := seedCustomer(t, db, node, 0, nil)
	referred := seedCustomer(t, db, node, 0, &referrer.ID)

	err := db.Transaction(func(tx *gorm.DB) error {
		return svc.AwardOnCompletion(context.Background(), tx, referred.ID, node.Generate(), 3)
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, balanceOf(t, db, referred.ID))
	assert.Equal(t, 2, balanceOf(t, db, referrer.ID))

	var referralRows int64
	assert.NoError(t, db.Model(&domain.Transaction{}).
		Where("customer_id = ? AND type = ?", referrer.ID, domain.TransactionReferral).
		Count(&referralRows).Error)
	assert.EqualValues(t, 1, referralRows)

	// A later completed order earns points but never repeats the bonus.
	err = db.Transaction(func(tx *gorm.DB) error {
		return svc.AwardOnCompletion(context.Background(), tx, referred.ID, node.Generate(), 4)
	})
	assert.NoError(t, err)
	assert.Equal(t, 7, balanceOf(t, db, referred.ID))
	assert.Equal(t, 2, balanceOf(t, db, referrer.ID))
}

func TestRefundOnCancellationRestoresBalance(t *testing.T) {
	svc, db, node := newTestService(t)
	customer := seedCustomer(t, db, node, 50, nil)
	orderID := node.Generate()

	err := db.Transaction(func(tx *gorm.DB) error {
		return svc.Redeem(context.Background(), tx, customer.ID, orderID, 30)
	})
	assert.NoError(t, err)
	assert.Equal(t, 20, balanceOf(t, db, customer.ID))

	err = db.Transaction(func(tx *gorm.DB) error {
		return svc.RefundOnCancellation(context.Background(), tx, customer.ID, orderID, 30)
	})
	assert.NoError(t, err)
	assert.Equal(t, 50, balanceOf(t, db, customer.ID))
}

func TestAdjust(t *testing.T) {
	svc, db, node := newTestService(t)
	customer := seedCustomer(t, db, node, 10, nil)
	ctx := context.Background()

	txn, err := svc.Adjust(ctx, customer.ID, 15, "promo credit")
	assert.NoError(t, err)
	assert.Equal(t, 15, txn.Points)
	assert.Equal(t, 25, txn.BalanceAfter)
	assert.Equal(t, domain.TransactionAdjustment, txn.Type)
	assert.Equal(t, "promo credit", txn.Reason)

	txn, err = svc.Adjust(ctx, customer.ID, -5, "correction")
	assert.NoError(t, err)
	assert.Equal(t, -5, txn.Points)
	assert.Equal(t, 20, txn.BalanceAfter)

	_, err = svc.Adjust(ctx, customer.ID, 0, "noop")
	assert.ErrorIs(t, err, domain.ErrInvalidPoints)

	_, err = svc.Adjust(ctx, customer.ID, -100, "too much")
	assert.ErrorIs(t, err, domain.ErrInsufficientPoints)
	assert.Equal(t, 20, balanceOf(t, db, customer.ID))
}

func TestRecordUsageAndListForPeriod(t *testing.T) {
	svc, db, node := newTestService(t)
	ctx := context.Background()
	periodID := node.Generate()
	storeID := node.Generate()

	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := svc.RecordUsage(ctx, tx, node.Generate(), storeID, periodID, 20, 20)
		if err != nil {
			return err
		}
		_, err = svc.RecordUsage(ctx, tx, node.Generate(), storeID, periodID, 15, 15)
		return err
	})
	assert.NoError(t, err)

	records, err := svc.UsageRecordsForPeriod(ctx, periodID)
	assert.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, 35.0, domain.StoreWeeklyPointsCredit(records, storeID))

	otherPeriod, err := svc.UsageRecordsForPeriod(ctx, node.Generate())
	assert.NoError(t, err)
	assert.Empty(t, otherPeriod)
}
