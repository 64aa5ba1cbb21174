package customergroup

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/pricebookhq/pricebook-backend/pkg/db/models"
	pkgerrors "github.com/pricebookhq/pricebook-backend/pkg/errors"
	"github.com/pricebookhq/pricebook-backend/pkg/pagination"
)

// ListFilter restricts customer group queries.
type ListFilter struct {
	Query string
}

// Repository exposes read access to the customer group directory. Group
// lifecycle is owned by the customer subsystem; this service never mutates them.
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

// Retrieve loads a live customer group by id.
func (r *Repository) Retrieve(ctx context.Context, id string) (*models.CustomerGroup, error) {
	var group models.CustomerGroup
	if err := r.db.WithContext(ctx).First(&group, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer group not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer group")
	}
	return &group, nil
}

// List returns one page of groups matching the filter.
func (r *Repository) List(ctx context.Context, filter ListFilter, page pagination.Params) ([]models.CustomerGroup, error) {
	page = pagination.Normalize(page)

	var rows []models.CustomerGroup
	err := r.applyFilter(r.db.WithContext(ctx), filter).
		Order("name ASC").
		Offset(page.Offset).
		Limit(page.Limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customer groups")
	}
	return rows, nil
}

// ListAndCount returns one page plus the total number of matching rows.
func (r *Repository) ListAndCount(ctx context.Context, filter ListFilter, page pagination.Params) ([]models.CustomerGroup, int64, error) {
	var total int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.CustomerGroup{}), filter).
		Count(&total).
		Error; err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count customer groups")
	}

	rows, err := r.List(ctx, filter, page)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *Repository) applyFilter(qb *gorm.DB, filter ListFilter) *gorm.DB {
	if search := strings.TrimSpace(filter.Query); search != "" {
		qb = qb.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	return qb
}
