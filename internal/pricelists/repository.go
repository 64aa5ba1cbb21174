package pricelist

import (
	"context"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/pricebookhq/pricebook-backend/pkg/db/models"
	"github.com/pricebookhq/pricebook-backend/pkg/enums"
	"github.com/pricebookhq/pricebook-backend/pkg/pagination"
)

// Relation names accepted by read paths.
const (
	RelationPrices         = "prices"
	RelationCustomerGroups = "customer_groups"
)

// RetrieveConfig narrows which columns and associations a read loads.
type RetrieveConfig struct {
	Fields    []string
	Relations []string
}

// ListFilter restricts price list queries.
type ListFilter struct {
	Query            string
	Status           *enums.PriceListStatus
	CustomerGroupIDs []string
}

// Repository wires together price list persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads a live price list, applying field selection and relation preloads.
func (r *Repository) FindByID(ctx context.Context, id string, cfg RetrieveConfig) (*models.PriceList, error) {
	qb := r.db.WithContext(ctx)
	if len(cfg.Fields) > 0 {
		qb = qb.Select(cfg.Fields)
	}
	for _, relation := range cfg.Relations {
		switch relation {
		case RelationPrices:
			qb = qb.Preload("Prices", func(db *gorm.DB) *gorm.DB {
				return db.Order("created_at ASC, id ASC")
			})
		case RelationCustomerGroups:
			qb = qb.Preload("CustomerGroups")
		}
	}

	var list models.PriceList
	if err := qb.First(&list, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &list, nil
}

// Create inserts a new price list row.
func (r *Repository) Create(ctx context.Context, list *models.PriceList) (*models.PriceList, error) {
	if err := r.db.WithContext(ctx).Omit("Prices", "CustomerGroups").Create(list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// Save persists scalar changes to an existing price list row.
func (r *Repository) Save(ctx context.Context, list *models.PriceList) (*models.PriceList, error) {
	if err := r.db.WithContext(ctx).Omit("Prices", "CustomerGroups").Save(list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// SoftDelete marks the price list deleted. Missing rows are not an error.
func (r *Repository) SoftDelete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.PriceList{}).Error
}

// AddPrices appends price records to the list. When replace is set, all existing
// records are removed first; both steps run on the repository's DB handle so a
// caller-supplied transaction keeps the swap atomic.
func (r *Repository) AddPrices(ctx context.Context, listID string, entries []models.PriceEntry, replace bool) error {
	tx := r.db.WithContext(ctx)
	if replace {
		if err := tx.Where("price_list_id = ?", listID).Delete(&models.PriceEntry{}).Error; err != nil {
			return err
		}
	}
	if len(entries) == 0 {
		return nil
	}
	for i := range entries {
		entries[i].PriceListID = listID
	}
	return tx.Create(&entries).Error
}

// UpsertPrices merges entries into the list by natural key: an existing record
// with the same currency, customer group, and quantity bounds is overwritten,
// anything else is inserted.
func (r *Repository) UpsertPrices(ctx context.Context, listID string, entries []models.PriceEntry) error {
	if len(entries) == 0 {
		return nil
	}
	tx := r.db.WithContext(ctx)

	var existing []models.PriceEntry
	if err := tx.Where("price_list_id = ?", listID).Find(&existing).Error; err != nil {
		return err
	}
	byKey := make(map[string]models.PriceEntry, len(existing))
	for _, row := range existing {
		byKey[priceNaturalKey(row)] = row
	}

	for i := range entries {
		entries[i].PriceListID = listID
		if match, ok := byKey[priceNaturalKey(entries[i])]; ok {
			entries[i].ID = match.ID
			entries[i].CreatedAt = match.CreatedAt
			if err := tx.Save(&entries[i]).Error; err != nil {
				return err
			}
			continue
		}
		if err := tx.Create(&entries[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// DeletePrices removes the given price records from the list. IDs that do not
// exist, or that belong to another list, are ignored.
func (r *Repository) DeletePrices(ctx context.Context, listID string, priceIDs []string) error {
	if len(priceIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("price_list_id = ? AND id IN ?", listID, priceIDs).
		Delete(&models.PriceEntry{}).
		Error
}

// ReplaceCustomerGroups overwrites the group association set wholesale.
func (r *Repository) ReplaceCustomerGroups(ctx context.Context, list *models.PriceList, groups []models.CustomerGroup) error {
	return r.db.WithContext(ctx).Model(list).Association("CustomerGroups").Replace(groups)
}

// List returns one page of price lists matching the filter.
func (r *Repository) List(ctx context.Context, filter ListFilter, page pagination.Params) ([]models.PriceList, error) {
	page = pagination.Normalize(page)

	var rows []models.PriceList
	err := r.applyFilter(r.db.WithContext(ctx), filter).
		Order("created_at DESC, id DESC").
		Offset(page.Offset).
		Limit(page.Limit).
		Find(&rows).
		Error
	return rows, err
}

// ListAndCount returns one page plus the total number of matching rows.
func (r *Repository) ListAndCount(ctx context.Context, filter ListFilter, page pagination.Params) ([]models.PriceList, int64, error) {
	var total int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.PriceList{}), filter).
		Count(&total).
		Error; err != nil {
		return nil, 0, err
	}

	rows, err := r.List(ctx, filter, page)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *Repository) applyFilter(qb *gorm.DB, filter ListFilter) *gorm.DB {
	if search := strings.TrimSpace(filter.Query); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where("(LOWER(name) LIKE ? OR LOWER(description) LIKE ?)", pattern, pattern)
	}
	if filter.Status != nil {
		qb = qb.Where("status = ?", *filter.Status)
	}
	if len(filter.CustomerGroupIDs) > 0 {
		qb = qb.Where(
			"EXISTS (SELECT 1 FROM price_list_customer_groups plcg WHERE plcg.price_list_id = price_lists.id AND plcg.customer_group_id IN ?)",
			filter.CustomerGroupIDs,
		)
	}
	return qb
}

func priceNaturalKey(entry models.PriceEntry) string {
	var b strings.Builder
	b.WriteString(string(entry.CurrencyCode))
	b.WriteByte('|')
	if entry.CustomerGroupID != nil {
		b.WriteString(*entry.CustomerGroupID)
	}
	b.WriteByte('|')
	b.WriteString(intKeyPart(entry.MinQuantity))
	b.WriteByte('|')
	b.WriteString(intKeyPart(entry.MaxQuantity))
	return b.String()
}

func intKeyPart(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
