package seed

import (
	customerdomain "github.com/waselhq/wasel/internal/customer/domain"
	orderdomain "github.com/waselhq/wasel/internal/order/domain"
	pointsdomain "github.com/waselhq/wasel/internal/points/domain"
	riderdomain "github.com/waselhq/wasel/internal/rider/domain"
	settlementdomain "github.com/waselhq/wasel/internal/settlement/domain"
	shopdomain "github.com/waselhq/wasel/internal/shop/domain"
	"gorm.io/gorm"
)

// AutoMigrate builds the schema from the models. Used for sqlite and mysql
// where the embedded postgres migrations do not apply.
func AutoMigrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&customerdomain.Customer{},
		&shopdomain.Shop{},
		&shopdomain.Product{},
		&shopdomain.AdSpend{},
		&riderdomain.Rider{},
		&settlementdomain.WeeklyPeriod{},
		&settlementdomain.ShopSettlement{},
		&settlementdomain.RiderSettlement{},
		&orderdomain.Order{},
		&orderdomain.OrderItem{},
		&orderdomain.PersonalCommission{},
		&pointsdomain.Transaction{},
		&pointsdomain.UsageRecord{},
	)
}
