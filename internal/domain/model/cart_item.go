package model

// 購物車為持久化的 user 維度資料表，不依附 session
// (user_id, book_id) 唯一，重複加入同一本書只會累加數量
type CartItem struct {
	CartItemID uint `gorm:"primaryKey" json:"cart_item_id"`
	UserID     int  `gorm:"not null;uniqueIndex:idx_cart_user_book" json:"user_id"`
	BookID     uint `gorm:"not null;uniqueIndex:idx_cart_user_book" json:"book_id"`
	Quantity   int  `gorm:"not null" json:"quantity"`
	BaseModel
}
