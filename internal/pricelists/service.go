package pricelist

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pricebookhq/pricebook-backend/pkg/db"
	"github.com/pricebookhq/pricebook-backend/pkg/db/models"
	"github.com/pricebookhq/pricebook-backend/pkg/enums"
	pkgerrors "github.com/pricebookhq/pricebook-backend/pkg/errors"
	"github.com/pricebookhq/pricebook-backend/pkg/pagination"
)

// Service exposes price list management operations.
type Service interface {
	Retrieve(ctx context.Context, id string, cfg RetrieveConfig) (*PriceListDTO, error)
	Create(ctx context.Context, input CreatePriceListInput) (*PriceListDTO, error)
	Update(ctx context.Context, id string, input UpdatePriceListInput) (*PriceListDTO, error)
	AddPrices(ctx context.Context, id string, prices []PriceInput, replace bool) (*PriceListDTO, error)
	DeletePrices(ctx context.Context, id string, priceIDs []string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter, page pagination.Params) ([]PriceListDTO, error)
	ListAndCount(ctx context.Context, filter ListFilter, page pagination.Params) ([]PriceListDTO, int64, error)
}

// CreatePriceListInput holds the validated payload to create a price list.
type CreatePriceListInput struct {
	Name             string
	Description      string
	Type             enums.PriceListType
	Status           enums.PriceListStatus
	StartsAt         *time.Time
	EndsAt           *time.Time
	Metadata         map[string]any
	Prices           []PriceInput
	CustomerGroupIDs []string
}

// UpdatePriceListInput holds optional mutation values for a price list.
// Nil fields are left untouched.
type UpdatePriceListInput struct {
	Name             *string
	Description      *string
	Type             *enums.PriceListType
	Status           *enums.PriceListStatus
	StartsAt         **time.Time
	EndsAt           **time.Time
	Metadata         *map[string]any
	Prices           *[]PriceInput
	CustomerGroupIDs *[]string
}

// PriceInput defines one price record to persist.
type PriceInput struct {
	CurrencyCode    string
	Amount          decimal.Decimal
	CustomerGroupID *string
	MinQuantity     *int
	MaxQuantity     *int
}

type groupDirectory interface {
	Retrieve(ctx context.Context, id string) (*models.CustomerGroup, error)
}

// service implements the price list service.
type service struct {
	repo     *Repository
	dbClient *db.Client
	groups   groupDirectory
}

// NewService constructs a price list service instance.
func NewService(repo *Repository, dbClient *db.Client, groups groupDirectory) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("price list repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if groups == nil {
		return nil, fmt.Errorf("customer group directory required")
	}
	return &service{repo: repo, dbClient: dbClient, groups: groups}, nil
}

// Retrieve loads a single price list with the requested fields and relations.
func (s *service) Retrieve(ctx context.Context, id string, cfg RetrieveConfig) (*PriceListDTO, error) {
	list, err := s.repo.FindByID(ctx, id, cfg)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "price list not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load price list")
	}
	return NewPriceListDTO(list), nil
}

// Create persists the list, its initial prices, and its group associations in
// one transaction, then returns the state re-read inside that transaction.
func (s *service) Create(ctx context.Context, input CreatePriceListInput) (*PriceListDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	listType := input.Type
	if listType == "" {
		listType = enums.PriceListTypeSale
	}
	if !listType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid price list type")
	}
	status := input.Status
	if status == "" {
		status = enums.PriceListStatusDraft
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid price list status")
	}
	entries, err := buildPriceEntries(input.Prices)
	if err != nil {
		return nil, err
	}

	var dto *PriceListDTO
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		list := &models.PriceList{
			Name:        name,
			Description: input.Description,
			Type:        listType,
			Status:      status,
			StartsAt:    input.StartsAt,
			EndsAt:      input.EndsAt,
			Metadata:    input.Metadata,
		}
		created, err := txRepo.Create(ctx, list)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert price list")
		}

		if err := txRepo.AddPrices(ctx, created.ID, entries, false); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert price records")
		}

		if len(input.CustomerGroupIDs) > 0 {
			if err := s.upsertCustomerGroups(ctx, txRepo, created, input.CustomerGroupIDs); err != nil {
				return err
			}
		}

		loaded, err := txRepo.FindByID(ctx, created.ID, RetrieveConfig{
			Relations: []string{RelationPrices, RelationCustomerGroups},
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: reload price list")
		}
		dto = NewPriceListDTO(loaded)
		return nil
	}); err != nil {
		return nil, normalizeError(err, "create price list")
	}
	return dto, nil
}

// Update applies the patch, merges prices by natural key, and replaces group
// associations when present, all in one transaction.
func (s *service) Update(ctx context.Context, id string, input UpdatePriceListInput) (*PriceListDTO, error) {
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
	}
	if input.Type != nil && !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid price list type")
	}
	if input.Status != nil && !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid price list status")
	}
	var entries []models.PriceEntry
	if input.Prices != nil {
		var err error
		entries, err = buildPriceEntries(*input.Prices)
		if err != nil {
			return nil, err
		}
	}

	var dto *PriceListDTO
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		list, err := txRepo.FindByID(ctx, id, RetrieveConfig{})
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "price list not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load price list")
		}

		applyUpdateToPriceList(list, input)
		if _, err := txRepo.Save(ctx, list); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update price list")
		}

		if input.Prices != nil {
			if err := txRepo.UpsertPrices(ctx, list.ID, entries); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: upsert price records")
			}
		}

		if input.CustomerGroupIDs != nil {
			if err := s.upsertCustomerGroups(ctx, txRepo, list, *input.CustomerGroupIDs); err != nil {
				return err
			}
		}

		loaded, err := txRepo.FindByID(ctx, list.ID, RetrieveConfig{
			Relations: []string{RelationPrices, RelationCustomerGroups},
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: reload price list")
		}
		dto = NewPriceListDTO(loaded)
		return nil
	}); err != nil {
		return nil, normalizeError(err, "update price list")
	}
	return dto, nil
}

// AddPrices appends (or, with replace, swaps) the list's price records atomically.
func (s *service) AddPrices(ctx context.Context, id string, prices []PriceInput, replace bool) (*PriceListDTO, error) {
	entries, err := buildPriceEntries(prices)
	if err != nil {
		return nil, err
	}

	var dto *PriceListDTO
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		if _, err := txRepo.FindByID(ctx, id, RetrieveConfig{Fields: []string{"id"}}); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "price list not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load price list")
		}

		if err := txRepo.AddPrices(ctx, id, entries, replace); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: add price records")
		}

		loaded, err := txRepo.FindByID(ctx, id, RetrieveConfig{
			Relations: []string{RelationPrices, RelationCustomerGroups},
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: reload price list")
		}
		dto = NewPriceListDTO(loaded)
		return nil
	}); err != nil {
		return nil, normalizeError(err, "add prices")
	}
	return dto, nil
}

// DeletePrices removes the given records from the list. Unknown ids, and ids
// owned by other lists, are silently skipped.
func (s *service) DeletePrices(ctx context.Context, id string, priceIDs []string) error {
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		if _, err := txRepo.FindByID(ctx, id, RetrieveConfig{Fields: []string{"id"}}); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "price list not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load price list")
		}

		if err := txRepo.DeletePrices(ctx, id, priceIDs); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete price records")
		}
		return nil
	}); err != nil {
		return normalizeError(err, "delete prices")
	}
	return nil
}

// Delete soft-deletes the price list. Deleting an absent list succeeds.
func (s *service) Delete(ctx context.Context, id string) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete price list")
	}
	return nil
}

// List returns one page of matching price lists.
func (s *service) List(ctx context.Context, filter ListFilter, page pagination.Params) ([]PriceListDTO, error) {
	rows, err := s.repo.List(ctx, filter, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list price lists")
	}
	return NewPriceListDTOs(rows), nil
}

// ListAndCount returns one page plus the total matching row count.
func (s *service) ListAndCount(ctx context.Context, filter ListFilter, page pagination.Params) ([]PriceListDTO, int64, error) {
	rows, total, err := s.repo.ListAndCount(ctx, filter, page)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list price lists")
	}
	return NewPriceListDTOs(rows), total, nil
}

// upsertCustomerGroups resolves every referenced group through the directory and
// replaces the association set wholesale. An unknown group aborts the caller's
// transaction, rolling back everything done before it.
func (s *service) upsertCustomerGroups(ctx context.Context, txRepo *Repository, list *models.PriceList, groupIDs []string) error {
	groups := make([]models.CustomerGroup, 0, len(groupIDs))
	seen := make(map[string]struct{}, len(groupIDs))
	for _, groupID := range groupIDs {
		if _, ok := seen[groupID]; ok {
			continue
		}
		seen[groupID] = struct{}{}

		group, err := s.groups.Retrieve(ctx, groupID)
		if err != nil {
			if pkgerrors.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("customer group %s not found", groupID))
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer group")
		}
		groups = append(groups, *group)
	}

	if err := txRepo.ReplaceCustomerGroups(ctx, list, groups); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: replace customer groups")
	}
	return nil
}

func buildPriceEntries(prices []PriceInput) ([]models.PriceEntry, error) {
	entries := make([]models.PriceEntry, 0, len(prices))
	for _, price := range prices {
		currency, err := enums.ParseCurrency(price.CurrencyCode)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid currency code %q", price.CurrencyCode))
		}
		if price.Amount.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be non-negative")
		}
		if price.MinQuantity != nil && *price.MinQuantity < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "min_quantity must be non-negative")
		}
		if price.MaxQuantity != nil && *price.MaxQuantity < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "max_quantity must be non-negative")
		}
		if price.MinQuantity != nil && price.MaxQuantity != nil && *price.MaxQuantity < *price.MinQuantity {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "max_quantity cannot be below min_quantity")
		}
		entries = append(entries, models.PriceEntry{
			CurrencyCode:    currency,
			Amount:          price.Amount,
			CustomerGroupID: price.CustomerGroupID,
			MinQuantity:     price.MinQuantity,
			MaxQuantity:     price.MaxQuantity,
		})
	}
	return entries, nil
}

func applyUpdateToPriceList(list *models.PriceList, input UpdatePriceListInput) {
	if input.Name != nil {
		list.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		list.Description = *input.Description
	}
	if input.Type != nil {
		list.Type = *input.Type
	}
	if input.Status != nil {
		list.Status = *input.Status
	}
	if input.StartsAt != nil {
		list.StartsAt = *input.StartsAt
	}
	if input.EndsAt != nil {
		list.EndsAt = *input.EndsAt
	}
	if input.Metadata != nil {
		list.Metadata = *input.Metadata
	}
}

func normalizeError(err error, op string) error {
	if pkgerrors.As(err) != nil {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op)
}
