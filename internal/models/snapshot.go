package models

import "time"

// PlatformSnapshot is the latest reporting-period row of a merchant's
// transactional metrics on one platform. The three data_<platform>
// tables share this shape; the table name is chosen per platform at
// query time. Columns a platform does not report stay at zero.
type PlatformSnapshot struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	MerchantID uint      `gorm:"column:merchant_id;index" json:"merchant_id"`
	FromDate   time.Time `gorm:"column:from_date" json:"from_date"`
	TillDate   time.Time `gorm:"column:till_date;index" json:"till_date"`

	OrderCount           float64 `gorm:"column:order_count" json:"order_count"`
	BillingAmount        float64 `gorm:"column:billing_amount" json:"billing_amount"`
	MarginAmount         float64 `gorm:"column:margin_amount" json:"margin_amount"`
	ComplaintCount       float64 `gorm:"column:complaint_count" json:"complaint_count"`
	ReturnedOrders       float64 `gorm:"column:returned_orders" json:"returned_orders"`
	UndeliveredOrders    float64 `gorm:"column:undelivered_orders" json:"undelivered_orders"`
	ServicesAmount       float64 `gorm:"column:services_amount" json:"services_amount"`
	DelayedOrders        float64 `gorm:"column:delayed_orders" json:"delayed_orders"`
	AverageResolutionTAT float64 `gorm:"column:average_resolution_tat" json:"average_resolution_tat"`
}
