package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 出貨狀態機: pending -> processing -> shipped -> completed
const (
	OrderStatusPending    = "pending"    // 待處理
	OrderStatusProcessing = "processing" // 處理中
	OrderStatusShipped    = "shipped"    // 已出貨
	OrderStatusCompleted  = "completed"  // 已完成
)

// 付款狀態由結帳引擎設置一次，後台不可改
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

// Order 成立後 Total 與 OrderItems 凍結，之後商品改價不回溯
// PaymentIntentID 唯一，作為重複結帳確認的冪等鍵
type Order struct {
	OrderID         string          `gorm:"primaryKey;type:varchar(64)" json:"order_id"`
	UserID          int             `gorm:"not null;index" json:"user_id"`
	OrderItems      []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_items"` // 一對多，級聯刪除
	Total           decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"total"`
	Status          string          `gorm:"not null;type:varchar(20);default:'pending'" json:"status"`
	PaymentIntentID string          `gorm:"not null;type:varchar(255);uniqueIndex" json:"payment_intent_id"`
	PaymentStatus   string          `gorm:"not null;type:varchar(50);default:'pending'" json:"payment_status"`
	PaymentMethod   string          `gorm:"type:varchar(50)" json:"payment_method"`
	PaymentDate     *time.Time      `json:"payment_date"`
	TrackingNumber  string          `gorm:"type:varchar(100)" json:"tracking_number"`
	Carrier         string          `gorm:"type:varchar(100)" json:"carrier"`
	ShippingDate    *time.Time      `json:"shipping_date"`
	ShippingAddress string          `gorm:"type:varchar(255)" json:"shipping_address"`
	BaseModel
}

// OrderItem.Price 為購買當下的單價快照，永不重新計算
// BookID 可為 null，書本之後被刪除仍保留歷史訂單內容
type OrderItem struct {
	OrderItemID uint            `gorm:"primaryKey" json:"order_item_id"`
	OrderID     string          `gorm:"not null;type:varchar(64);index" json:"order_id"`
	BookID      *uint           `json:"book_id"`
	Title       string          `gorm:"type:varchar(200)" json:"title"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	Price       decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"price"`
	BaseModel
}
