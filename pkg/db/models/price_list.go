package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/pricebookhq/pricebook-backend/pkg/enums"
	"github.com/pricebookhq/pricebook-backend/pkg/id"
)

// PriceList is the aggregate root for a named, time-bounded set of prices,
// optionally scoped to customer groups. Price entries and group associations
// are only reachable through their owning list.
type PriceList struct {
	ID             string                `gorm:"column:id;primaryKey"`
	Name           string                `gorm:"column:name;not null"`
	Description    string                `gorm:"column:description;not null"`
	Type           enums.PriceListType   `gorm:"column:type;not null;default:sale"`
	Status         enums.PriceListStatus `gorm:"column:status;not null;default:draft"`
	StartsAt       *time.Time            `gorm:"column:starts_at"`
	EndsAt         *time.Time            `gorm:"column:ends_at"`
	Metadata       datatypes.JSONMap     `gorm:"column:metadata;type:jsonb"`
	Prices         []PriceEntry          `gorm:"foreignKey:PriceListID;constraint:OnDelete:CASCADE"`
	CustomerGroups []CustomerGroup       `gorm:"many2many:price_list_customer_groups"`
	CreatedAt      time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time             `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt      gorm.DeletedAt        `gorm:"column:deleted_at;index"`
}

// BeforeCreate assigns the immutable prefixed identifier.
func (p *PriceList) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = id.New(id.PrefixPriceList)
	}
	return nil
}
