package model

import (
	"time"

	"gorm.io/gorm"
)

type PackageWeight string

const (
	Weight500g  PackageWeight = "500g"
	Weight1000g PackageWeight = "1000g"
)

// Ordinal coffee attributes (roast, acidity, caffeine, sweetness) are always
// in [AttributeMin, AttributeMax].
const (
	AttributeMin = 1
	AttributeMax = 3
)

type Product struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	Name          string         `gorm:"not null;uniqueIndex" json:"name"` // also the image lookup key and slug source
	Description   string         `gorm:"type:text" json:"description"`
	Price         float64        `gorm:"not null" json:"price"` // PLN
	Weight        PackageWeight  `gorm:"type:varchar(10);default:'500g'" json:"weight"`
	RoastLevel    int            `gorm:"default:1" json:"roastLevel"`
	Acidity       int            `gorm:"default:1" json:"acidity"`
	CaffeineLevel int            `gorm:"default:1" json:"caffeineLevel"`
	Sweetness     int            `gorm:"default:1" json:"sweetness"`
	StockQuantity int            `gorm:"default:0" json:"stockQuantity"` // 0 means unavailable for purchase
	Sales         int            `gorm:"default:0" json:"sales"`         // units sold, drives the top-sellers ranking
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	OrderItems []OrderItem `gorm:"foreignKey:ProductID" json:"-"`
}

func (Product) TableName() string {
	return "products"
}

// ValidWeight reports whether w is one of the package sizes the shop sells.
func ValidWeight(w PackageWeight) bool {
	return w == Weight500g || w == Weight1000g
}

// ValidAttribute reports whether v is a legal ordinal attribute value.
func ValidAttribute(v int) bool {
	return v >= AttributeMin && v <= AttributeMax
}
