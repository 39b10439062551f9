package model

type User struct {
	UserID    int        `gorm:"primaryKey" json:"user_id"`
	UserName  string     `gorm:"not null;type:varchar(64);unique" json:"user_name"`
	UserEmail string     `gorm:"unique;not null;type:varchar(120)" json:"user_email"`
	Role      string     `gorm:"not null;type:varchar(20);default:'customer'" json:"role"`
	IsAdmin   bool       `gorm:"not null;default:false" json:"is_admin"`
	Orders    []Order    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"` // 一對多，級聯刪除
	CartItems []CartItem `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Reviews   []Review   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	BaseModel
}
