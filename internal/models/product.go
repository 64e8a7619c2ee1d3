package models

import "time"

// DeliveryCategory помечает услугу доставки. У таких товаров нет физического
// остатка, продажа не уменьшает Stock.
const DeliveryCategory = "delivery"

// Product описывает товар, продаваемый на ресепшене.
type Product struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Stock     int       `json:"stock"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsDelivery сообщает, является ли товар услугой доставки.
func (p *Product) IsDelivery() bool {
	return p.Category == DeliveryCategory
}

// ProductRequest используется для приёма товара из JSON-запроса.
type ProductRequest struct {
	Name     string  `json:"name" validate:"required"`
	Price    float64 `json:"price" validate:"required,gt=0"`
	Stock    int     `json:"stock" validate:"gte=0"`
	Category string  `json:"category" validate:"required"`
}

// SaleRequest описывает продажу товара на ресепшене.
type SaleRequest struct {
	Quantity      int    `json:"quantity" validate:"required,gt=0"`
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
}

// Sale возвращается после успешной продажи.
type Sale struct {
	Product     *Product     `json:"product"`
	Transaction *Transaction `json:"transaction"`
}
