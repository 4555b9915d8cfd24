package model

import "time"

type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusPreparing      OrderStatus = "preparing"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCanceled       OrderStatus = "canceled"
)

type Order struct {
	ID              uint64      `gorm:"primaryKey;autoIncrement" json:"id"`
	PublicID        string      `gorm:"column:public_id;size:36;uniqueIndex:uk_orders_public_id" json:"publicId"`
	CustomerUID     string      `gorm:"column:customer_uid;size:128;index;not null" json:"customerUid"`
	CustomerName    string      `gorm:"column:customer_name;size:120;not null" json:"customerName"`
	CustomerPhone   string      `gorm:"column:customer_phone;size:32;not null" json:"customerPhone"`
	CustomerAddress string      `gorm:"column:customer_address;size:255;not null" json:"customerAddress"`
	DeliveryDate    string      `gorm:"column:delivery_date;size:10" json:"deliveryDate"`
	TimeSlot        string      `gorm:"column:time_slot;size:32" json:"timeSlot"`
	Instructions    string      `gorm:"type:text" json:"instructions"`
	Subtotal        int64       `gorm:"not null" json:"subtotal"`
	DeliveryFee     int64       `gorm:"column:delivery_fee;not null" json:"deliveryFee"`
	Total           int64       `gorm:"not null" json:"total"`
	Status          OrderStatus `gorm:"size:32;not null" json:"status"`
	Lines           []OrderLine `gorm:"foreignKey:OrderID" json:"lines"`
	CreatedAt       time.Time   `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time   `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Order) TableName() string {
	return "orders"
}

type OrderLine struct {
	ID         uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID    uint64 `gorm:"column:order_id;index;not null" json:"orderId"`
	MenuItemID uint64 `gorm:"column:menu_item_id;index;not null" json:"menuItemId"`
	Name       string `gorm:"size:120;not null" json:"name"`
	Price      int64  `gorm:"not null" json:"price"`
	Quantity   int    `gorm:"not null" json:"quantity"`
}

func (OrderLine) TableName() string {
	return "order_lines"
}
