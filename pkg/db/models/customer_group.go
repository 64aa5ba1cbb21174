package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/pricebookhq/pricebook-backend/pkg/id"
)

// CustomerGroup is owned by the customer subsystem; this service only reads
// groups and maintains the association edge from price lists.
type CustomerGroup struct {
	ID        string            `gorm:"column:id;primaryKey"`
	Name      string            `gorm:"column:name;not null;uniqueIndex"`
	Metadata  datatypes.JSONMap `gorm:"column:metadata;type:jsonb"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time         `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt gorm.DeletedAt    `gorm:"column:deleted_at;index"`
}

// BeforeCreate assigns the immutable prefixed identifier.
func (c *CustomerGroup) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = id.New(id.PrefixCustomerGroup)
	}
	return nil
}
