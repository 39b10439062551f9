package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Discount 折扣活動，Percentage 為 0 ~ 100
type Discount struct {
	DiscountID  uint            `gorm:"primaryKey" json:"discount_id"`
	Name        string          `gorm:"not null;type:varchar(100)" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Percentage  decimal.Decimal `gorm:"not null;type:decimal(5,2)" json:"percentage"`
	StartDate   time.Time       `gorm:"not null" json:"start_date"`
	EndDate     time.Time       `gorm:"not null" json:"end_date"`
	Active      bool            `gorm:"not null;default:true" json:"active"`
	BaseModel
}

// BookDiscount 書籍與折扣的關聯，帶自己的生效區間與開關
type BookDiscount struct {
	BookDiscountID uint      `gorm:"primaryKey" json:"book_discount_id"`
	BookID         uint      `gorm:"not null;index" json:"book_id"`
	DiscountID     uint      `gorm:"not null;index" json:"discount_id"`
	Discount       *Discount `gorm:"foreignKey:DiscountID;constraint:OnDelete:CASCADE" json:"discount,omitempty"`
	StartDate      time.Time `gorm:"not null;index:idx_book_discount_dates" json:"start_date"`
	EndDate        time.Time `gorm:"not null;index:idx_book_discount_dates" json:"end_date"`
	Active         bool      `gorm:"not null;default:true" json:"active"`
	BaseModel
}
