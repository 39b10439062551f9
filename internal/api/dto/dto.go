package dto

import (
	"time"

	"github.com/RoyceAzure/lab/bookstore/internal/domain/model"
	"github.com/shopspring/decimal"
)

type BookDTO struct {
	Title       string          `json:"title"`
	Author      string          `json:"author"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	ImageURL    string          `json:"image_url"`
	Stock       uint            `json:"stock"`
	CategoryID  *uint           `json:"category_id"`
}

func (d BookDTO) ToModel() *model.Book {
	return &model.Book{
		Title:       d.Title,
		Author:      d.Author,
		Price:       d.Price,
		Description: d.Description,
		ImageURL:    d.ImageURL,
		Stock:       d.Stock,
		CategoryID:  d.CategoryID,
	}
}

type CartAddDTO struct {
	BookID   uint `json:"book_id"`
	Quantity int  `json:"quantity"`
}

type CartUpdateDTO struct {
	BookID   uint `json:"book_id"`
	Quantity int  `json:"quantity"`
}

type CartRemoveDTO struct {
	BookID uint `json:"book_id"`
}

type CheckoutCompleteDTO struct {
	PaymentIntentID string `json:"payment_intent_id"`
}

type CheckoutSessionResponse struct {
	PaymentIntentID string          `json:"payment_intent_id"`
	ClientSecret    string          `json:"client_secret"`
	Total           decimal.Decimal `json:"total"`
}

type OrderCompletedResponse struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

type UpdateOrderStatusDTO struct {
	Status string `json:"status"`
}

type UpdateShippingDTO struct {
	Carrier         string     `json:"carrier"`
	TrackingNumber  string     `json:"tracking_number"`
	ShippingDate    *time.Time `json:"shipping_date"`
	ShippingAddress string     `json:"shipping_address"`
}
