package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pricebookhq/pricebook-backend/api/responses"
	"github.com/pricebookhq/pricebook-backend/api/validators"
	customergroup "github.com/pricebookhq/pricebook-backend/internal/customergroups"
	pkgerrors "github.com/pricebookhq/pricebook-backend/pkg/errors"
	"github.com/pricebookhq/pricebook-backend/pkg/logger"
)

// GetCustomerGroup returns a single group from the directory.
func GetCustomerGroup(repo *customergroup.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customer group directory unavailable"))
			return
		}

		groupID := chi.URLParam(r, "customerGroupId")
		group, err := repo.Retrieve(r.Context(), groupID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, customergroup.NewCustomerGroupDTO(group))
	}
}

// ListCustomerGroups pages through the directory.
func ListCustomerGroups(repo *customergroup.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customer group directory unavailable"))
			return
		}

		page, err := validators.PaginationFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filter := customergroup.ListFilter{Query: r.URL.Query().Get("q")}

		rows, total, err := repo.ListAndCount(r.Context(), filter, page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteList(w, customergroup.NewCustomerGroupDTOs(rows), total, page.Limit, page.Offset)
	}
}
