package model

type Review struct {
	ReviewID uint   `gorm:"primaryKey" json:"review_id"`
	UserID   int    `gorm:"not null;uniqueIndex:idx_review_user_book" json:"user_id"`
	BookID   uint   `gorm:"not null;uniqueIndex:idx_review_user_book" json:"book_id"`
	Rating   int    `gorm:"not null" json:"rating"` // 1 ~ 5
	Comment  string `gorm:"type:text" json:"comment"`
	BaseModel
}

// UserActivity 使用者行為記錄，結帳各階段會寫入
type UserActivity struct {
	ActivityID   uint   `gorm:"primaryKey" json:"activity_id"`
	UserID       int    `gorm:"not null;index" json:"user_id"`
	ActivityType string `gorm:"not null;type:varchar(50)" json:"activity_type"`
	Description  string `gorm:"type:varchar(255)" json:"description"`
	IPAddress    string `gorm:"type:varchar(45)" json:"ip_address"`
	BaseModel
}
