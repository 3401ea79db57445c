package postgres

import "time"

// UserSchema represents the database schema for the users table.
type UserSchema struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	Name         string `gorm:"size:100;not null"`
	Email        string `gorm:"size:255;not null;uniqueIndex"`
	Phone        string `gorm:"size:32;not null;default:''"`
	PasswordHash string `gorm:"not null"`
	Address      string `gorm:"size:500;not null;default:''"`
	DateOfBirth  *time.Time
	Blocked      bool `gorm:"not null;default:false"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (UserSchema) TableName() string { return "users" }

// AdminSchema represents the database schema for the admins table.
type AdminSchema struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	Name         string `gorm:"size:100;not null"`
	Email        string `gorm:"size:255;not null;uniqueIndex"`
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"size:20;not null;default:'admin'"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (AdminSchema) TableName() string { return "admins" }

// DriverSchema represents the database schema for the drivers table.
type DriverSchema struct {
	ID              int64  `gorm:"primaryKey;autoIncrement"`
	Name            string `gorm:"size:100;not null"`
	Email           string `gorm:"size:255;not null;uniqueIndex"`
	Phone           string `gorm:"size:32;not null;default:''"`
	PasswordHash    string `gorm:"not null"`
	VehicleNumber   string `gorm:"size:32;not null;default:''"`
	LicenseNumber   string `gorm:"size:64;not null;default:''"`
	TelegramChatID  *int64
	Active          bool    `gorm:"not null"`
	OnDuty          bool    `gorm:"not null;default:false"`
	TotalEarnings   float64 `gorm:"not null;default:0"`
	TotalPaid       float64 `gorm:"not null;default:0"`
	TotalDeliveries int64   `gorm:"not null;default:0"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (DriverSchema) TableName() string { return "drivers" }

// CategorySchema represents the database schema for the categories table.
type CategorySchema struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	Name        string `gorm:"size:100;not null;uniqueIndex"`
	Description string `gorm:"size:500;not null;default:''"`
	ImageURL    string `gorm:"size:500;not null;default:''"`
	Active      bool   `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (CategorySchema) TableName() string { return "categories" }

// ProductSchema represents the database schema for the products table.
type ProductSchema struct {
	ID              int64           `gorm:"primaryKey;autoIncrement"`
	CategoryID      int64           `gorm:"not null;index"`
	Category        *CategorySchema `gorm:"foreignKey:CategoryID"`
	Name            string          `gorm:"size:200;not null"`
	Description     string          `gorm:"size:2000;not null;default:''"`
	Brand           string          `gorm:"size:100;not null;default:''"`
	Unit            string          `gorm:"size:32;not null;default:''"`
	ImageURL        string          `gorm:"size:500;not null;default:''"`
	Price           float64         `gorm:"not null"`
	DiscountPercent float64         `gorm:"not null;default:0"`
	Stock           int64           `gorm:"not null;default:0"`
	IsAlcohol       bool            `gorm:"not null;default:false"`
	Active          bool            `gorm:"not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (ProductSchema) TableName() string { return "products" }

// BannerSchema represents the database schema for the banners table.
type BannerSchema struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	Title     string `gorm:"size:200;not null"`
	ImageURL  string `gorm:"size:500;not null;default:''"`
	LinkURL   string `gorm:"size:500;not null;default:''"`
	Position  int    `gorm:"not null;default:0"`
	Active    bool   `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (BannerSchema) TableName() string { return "banners" }

// OrderSchema represents the database schema for the orders table.
type OrderSchema struct {
	ID              int64             `gorm:"primaryKey;autoIncrement"`
	Number          string            `gorm:"size:32;not null;uniqueIndex"`
	UserID          int64             `gorm:"not null;index"`
	User            *UserSchema       `gorm:"foreignKey:UserID"`
	DriverID        *int64            `gorm:"index"`
	Driver          *DriverSchema     `gorm:"foreignKey:DriverID"`
	Status          string            `gorm:"size:20;not null;index"`
	PaymentMethod   string            `gorm:"size:10;not null"`
	PaymentStatus   string            `gorm:"size:10;not null"`
	Items           []OrderItemSchema `gorm:"foreignKey:OrderID"`
	Subtotal        float64           `gorm:"not null"`
	DeliveryFee     float64           `gorm:"not null"`
	Total           float64           `gorm:"not null"`
	DeliveryAddress string            `gorm:"size:500;not null"`
	Notes           string            `gorm:"size:500;not null;default:''"`
	CancelReason    string            `gorm:"size:500;not null;default:''"`
	AssignedAt      *time.Time
	PickedUpAt      *time.Time
	DeliveredAt     *time.Time
	CancelledAt     *time.Time
	CreatedAt       time.Time `gorm:"index"`
	UpdatedAt       time.Time
}

func (OrderSchema) TableName() string { return "orders" }

// OrderItemSchema represents the database schema for the order_items table.
type OrderItemSchema struct {
	ID        int64   `gorm:"primaryKey;autoIncrement"`
	OrderID   int64   `gorm:"not null;index"`
	ProductID int64   `gorm:"not null;index"`
	Name      string  `gorm:"size:200;not null"`
	UnitPrice float64 `gorm:"not null"`
	Quantity  int64   `gorm:"not null"`
	LineTotal float64 `gorm:"not null"`
}

func (OrderItemSchema) TableName() string { return "order_items" }

// DriverEarningSchema represents the database schema for the driver_earnings table.
type DriverEarningSchema struct {
	ID        int64        `gorm:"primaryKey;autoIncrement"`
	DriverID  int64        `gorm:"not null;index"`
	OrderID   int64        `gorm:"not null;uniqueIndex"`
	Order     *OrderSchema `gorm:"foreignKey:OrderID"`
	Amount    float64      `gorm:"not null"`
	CreatedAt time.Time    `gorm:"index"`
}

func (DriverEarningSchema) TableName() string { return "driver_earnings" }

// DriverPaymentSchema represents the database schema for the driver_payments table.
type DriverPaymentSchema struct {
	ID        int64   `gorm:"primaryKey;autoIncrement"`
	DriverID  int64   `gorm:"not null;index"`
	AdminID   int64   `gorm:"not null"`
	Amount    float64 `gorm:"not null"`
	Method    string  `gorm:"size:32;not null"`
	Reference string  `gorm:"size:100;not null;default:''"`
	Note      string  `gorm:"size:500;not null;default:''"`
	CreatedAt time.Time `gorm:"index"`
}

func (DriverPaymentSchema) TableName() string { return "driver_payments" }

// Models lists every schema, in dependency order, for AutoMigrate in tests.
func Models() []any {
	return []any{
		&UserSchema{},
		&AdminSchema{},
		&DriverSchema{},
		&CategorySchema{},
		&ProductSchema{},
		&BannerSchema{},
		&OrderSchema{},
		&OrderItemSchema{},
		&DriverEarningSchema{},
		&DriverPaymentSchema{},
	}
}
