package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pricebookhq/pricebook-backend/pkg/enums"
	"github.com/pricebookhq/pricebook-backend/pkg/id"
)

// PriceEntry is one currency/amount record inside a price list, optionally
// narrowed to a customer group or quantity range.
type PriceEntry struct {
	ID              string          `gorm:"column:id;primaryKey"`
	PriceListID     string          `gorm:"column:price_list_id;not null;index"`
	CurrencyCode    enums.Currency  `gorm:"column:currency_code;not null"`
	Amount          decimal.Decimal `gorm:"column:amount;type:numeric(19,4);not null"`
	CustomerGroupID *string         `gorm:"column:customer_group_id"`
	MinQuantity     *int            `gorm:"column:min_quantity"`
	MaxQuantity     *int            `gorm:"column:max_quantity"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate assigns the immutable prefixed identifier.
func (p *PriceEntry) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = id.New(id.PrefixPriceEntry)
	}
	return nil
}
