package models

import (
	"time"

	"github.com/gearghar/gearghar-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ShippingAddress is embedded into orders; the address travels with the
// order even if the user later changes their profile.
type ShippingAddress struct {
	Street  string `gorm:"column:shipping_street;not null"`
	City    string `gorm:"column:shipping_city;not null"`
	State   string `gorm:"column:shipping_state;not null"`
	ZipCode string `gorm:"column:shipping_zip_code;not null"`
	Country string `gorm:"column:shipping_country;not null"`
}

// Order represents a placed checkout.
type Order struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	OrderNumber     string              `gorm:"column:order_number;not null;uniqueIndex:idx_orders_order_number"`
	UserID          uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	User            *User               `gorm:"foreignKey:UserID"`
	Items           []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Subtotal        decimal.Decimal     `gorm:"column:subtotal;type:numeric(10,2);not null"`
	Tax             decimal.Decimal     `gorm:"column:tax;type:numeric(10,2);not null"`
	Shipping        decimal.Decimal     `gorm:"column:shipping;type:numeric(10,2);not null"`
	Total           decimal.Decimal     `gorm:"column:total;type:numeric(10,2);not null"`
	Status          enums.OrderStatus   `gorm:"column:status;type:text;not null;default:pending"`
	PaymentStatus   enums.PaymentStatus `gorm:"column:payment_status;type:text;not null;default:pending"`
	PaymentMethod   string              `gorm:"column:payment_method;not null"`
	ShippingAddress ShippingAddress     `gorm:"embedded"`
	Notes           *string             `gorm:"column:notes"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// OrderItem is a line captured at checkout time. Name and price are
// snapshots, detached from later catalog edits.
type OrderItem struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OrderID   uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	Name      string          `gorm:"column:name;not null"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	Quantity  int             `gorm:"column:quantity;not null"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
