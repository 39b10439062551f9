package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	CategoryID   uint   `gorm:"primaryKey" json:"category_id"`
	Name         string `gorm:"not null;type:varchar(50);unique" json:"name"`
	Description  string `gorm:"type:text" json:"description"`
	DisplayOrder int    `gorm:"not null;default:0" json:"display_order"`
	Books        []Book `gorm:"foreignKey:CategoryID" json:"-"`
	BaseModel
}

// Book.Stock 是結帳流程唯一會異動的欄位
// 庫存只會在訂單成立的交易內扣減，不做預扣
type Book struct {
	BookID      uint            `gorm:"primaryKey" json:"book_id"`
	Title       string          `gorm:"not null;type:varchar(200);index" json:"title"`
	Author      string          `gorm:"not null;type:varchar(100);index" json:"author"`
	Price       decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"price"`
	Description string          `gorm:"type:text" json:"description"`
	ImageURL    string          `gorm:"type:varchar(500)" json:"image_url"`
	Stock       uint            `gorm:"not null;default:0" json:"stock"`
	CategoryID  *uint           `gorm:"index" json:"category_id"` // 外鍵，書本刪除分類後保留 null
	Category    *Category       `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"category,omitempty"`
	Reviews     []Review        `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE" json:"-"`
	Discounts   []BookDiscount  `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE" json:"discounts,omitempty"`
	BaseModel
}

// CurrentPrice 套用當下有效折扣後的顯示價
// 只影響前台顯示，結帳與訂單凍結的都是 Price
func (b *Book) CurrentPrice(at time.Time) decimal.Decimal {
	for _, bd := range b.Discounts {
		if !bd.Active || bd.Discount == nil || bd.EndDate.Before(at) {
			continue
		}
		factor := decimal.NewFromInt(100).Sub(bd.Discount.Percentage)
		return b.Price.Mul(factor).Div(decimal.NewFromInt(100)).Round(2)
	}
	return b.Price
}
