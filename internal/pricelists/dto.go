package pricelist

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/pricebookhq/pricebook-backend/pkg/db/models"
)

// PriceListDTO represents the price list payload returned to clients.
type PriceListDTO struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	Description    string             `json:"description"`
	Type           string             `json:"type"`
	Status         string             `json:"status"`
	StartsAt       *time.Time         `json:"starts_at,omitempty"`
	EndsAt         *time.Time         `json:"ends_at,omitempty"`
	Metadata       map[string]any     `json:"metadata,omitempty"`
	Prices         []PriceDTO         `json:"prices,omitempty"`
	CustomerGroups []CustomerGroupDTO `json:"customer_groups,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// PriceDTO represents one price record inside a list.
type PriceDTO struct {
	ID              string          `json:"id"`
	CurrencyCode    string          `json:"currency_code"`
	Amount          decimal.Decimal `json:"amount"`
	CustomerGroupID *string         `json:"customer_group_id,omitempty"`
	MinQuantity     *int            `json:"min_quantity,omitempty"`
	MaxQuantity     *int            `json:"max_quantity,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// CustomerGroupDTO surfaces the group data attached to a price list.
type CustomerGroupDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NewPriceListDTO builds a DTO from the persisted model.
func NewPriceListDTO(list *models.PriceList) *PriceListDTO {
	dto := &PriceListDTO{
		ID:          list.ID,
		Name:        list.Name,
		Description: list.Description,
		Type:        string(list.Type),
		Status:      string(list.Status),
		StartsAt:    list.StartsAt,
		EndsAt:      list.EndsAt,
		Metadata:    list.Metadata,
		CreatedAt:   list.CreatedAt,
		UpdatedAt:   list.UpdatedAt,
	}

	if len(list.Prices) > 0 {
		dto.Prices = make([]PriceDTO, len(list.Prices))
		for i, entry := range list.Prices {
			dto.Prices[i] = PriceDTO{
				ID:              entry.ID,
				CurrencyCode:    string(entry.CurrencyCode),
				Amount:          entry.Amount,
				CustomerGroupID: entry.CustomerGroupID,
				MinQuantity:     entry.MinQuantity,
				MaxQuantity:     entry.MaxQuantity,
				CreatedAt:       entry.CreatedAt,
				UpdatedAt:       entry.UpdatedAt,
			}
		}
	}

	if len(list.CustomerGroups) > 0 {
		dto.CustomerGroups = make([]CustomerGroupDTO, len(list.CustomerGroups))
		for i, group := range list.CustomerGroups {
			dto.CustomerGroups[i] = CustomerGroupDTO{ID: group.ID, Name: group.Name}
		}
	}

	return dto
}

// NewPriceListDTOs maps a page of rows.
func NewPriceListDTOs(rows []models.PriceList) []PriceListDTO {
	dtos := make([]PriceListDTO, len(rows))
	for i := range rows {
		dtos[i] = *NewPriceListDTO(&rows[i])
	}
	return dtos
}
