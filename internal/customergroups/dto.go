package customergroup

import (
	"time"

	"github.com/pricebookhq/pricebook-backend/pkg/db/models"
)

// CustomerGroupDTO represents the customer group payload returned to clients.
type CustomerGroupDTO struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// NewCustomerGroupDTO builds a DTO from the persisted model.
func NewCustomerGroupDTO(group *models.CustomerGroup) *CustomerGroupDTO {
	return &CustomerGroupDTO{
		ID:        group.ID,
		Name:      group.Name,
		Metadata:  group.Metadata,
		CreatedAt: group.CreatedAt,
		UpdatedAt: group.UpdatedAt,
	}
}

// NewCustomerGroupDTOs maps a page of rows.
func NewCustomerGroupDTOs(rows []models.CustomerGroup) []CustomerGroupDTO {
	dtos := make([]CustomerGroupDTO, len(rows))
	for i := range rows {
		dtos[i] = *NewCustomerGroupDTO(&rows[i])
	}
	return dtos
}
