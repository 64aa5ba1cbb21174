package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/pricebookhq/pricebook-backend/api/responses"
	"github.com/pricebookhq/pricebook-backend/api/validators"
	pricelist "github.com/pricebookhq/pricebook-backend/internal/pricelists"
	"github.com/pricebookhq/pricebook-backend/pkg/enums"
	pkgerrors "github.com/pricebookhq/pricebook-backend/pkg/errors"
	"github.com/pricebookhq/pricebook-backend/pkg/logger"
)

// CreatePriceList handles POST /api/v1/price-lists.
func CreatePriceList(svc pricelist.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "price list service unavailable"))
			return
		}

		var payload createPriceListRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toCreateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// GetPriceList handles GET /api/v1/price-lists/{priceListId}.
func GetPriceList(svc pricelist.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "price list service unavailable"))
			return
		}

		cfg := pricelist.RetrieveConfig{
			Fields:    validators.CSVFromQuery(r, "fields"),
			Relations: validators.CSVFromQuery(r, "expand"),
		}

		listID := chi.URLParam(r, "priceListId")
		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithPriceListID(ctx, listID)
		}

		dto, err := svc.Retrieve(ctx, listID, cfg)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// UpdatePriceList handles PATCH /api/v1/price-lists/{priceListId}.
func UpdatePriceList(svc pricelist.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "price list service unavailable"))
			return
		}

		var payload updatePriceListRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toUpdateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		listID := chi.URLParam(r, "priceListId")
		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithPriceListID(ctx, listID)
		}

		updated, err := svc.Update(ctx, listID, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, updated)
	}
}

// DeletePriceList handles DELETE /api/v1/price-lists/{priceListId}.
// Deleting an already-deleted or unknown list still returns 204.
func DeletePriceList(svc pricelist.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "price list service unavailable"))
			return
		}

		listID := chi.URLParam(r, "priceListId")
		if err := svc.Delete(r.Context(), listID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteNoContent(w)
	}
}

// ListPriceLists handles GET /api/v1/price-lists.
func ListPriceLists(svc pricelist.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "price list service unavailable"))
			return
		}

		page, err := validators.PaginationFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filter := pricelist.ListFilter{
			Query:            r.URL.Query().Get("q"),
			CustomerGroupIDs: validators.CSVFromQuery(r, "customer_group_id"),
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParsePriceListStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
				return
			}
			filter.Status = &status
		}

		rows, total, err := svc.ListAndCount(r.Context(), filter, page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteList(w, rows, total, page.Limit, page.Offset)
	}
}

// AddPriceListPrices handles POST /api/v1/price-lists/{priceListId}/prices.
func AddPriceListPrices(svc pricelist.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "price list service unavailable"))
			return
		}

		var payload addPricesRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		listID := chi.URLParam(r, "priceListId")
		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithPriceListID(ctx, listID)
		}

		updated, err := svc.AddPrices(ctx, listID, toPriceInputs(payload.Prices), payload.Replace)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, updated)
	}
}

// DeletePriceListPrices handles DELETE /api/v1/price-lists/{priceListId}/prices.
func DeletePriceListPrices(svc pricelist.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "price list service unavailable"))
			return
		}

		var payload deletePricesRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		listID := chi.URLParam(r, "priceListId")
		if err := svc.DeletePrices(r.Context(), listID, payload.PriceIDs); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteNoContent(w)
	}
}

type createPriceListRequest struct {
	Name             string         `json:"name" validate:"required"`
	Description      string         `json:"description,omitempty"`
	Type             string         `json:"type,omitempty" validate:"omitempty,oneof=sale override"`
	Status           string         `json:"status,omitempty" validate:"omitempty,oneof=active draft"`
	StartsAt         *time.Time     `json:"starts_at,omitempty"`
	EndsAt           *time.Time     `json:"ends_at,omitempty"`
	Metadata         map[string]any `json:"metadata,omitempty"`
	Prices           []priceRequest `json:"prices,omitempty" validate:"omitempty,dive"`
	CustomerGroupIDs []string       `json:"customer_group_ids,omitempty" validate:"omitempty,dive,required"`
}

type updatePriceListRequest struct {
	Name             *string         `json:"name,omitempty"`
	Description      *string         `json:"description,omitempty"`
	Type             *string         `json:"type,omitempty" validate:"omitempty,oneof=sale override"`
	Status           *string         `json:"status,omitempty" validate:"omitempty,oneof=active draft"`
	StartsAt         **time.Time     `json:"starts_at,omitempty"`
	EndsAt           **time.Time     `json:"ends_at,omitempty"`
	Metadata         *map[string]any `json:"metadata,omitempty"`
	Prices           *[]priceRequest `json:"prices,omitempty" validate:"omitempty,dive"`
	CustomerGroupIDs *[]string       `json:"customer_group_ids,omitempty"`
}

type priceRequest struct {
	CurrencyCode    string          `json:"currency_code" validate:"required"`
	Amount          decimal.Decimal `json:"amount" validate:"required"`
	CustomerGroupID *string         `json:"customer_group_id,omitempty"`
	MinQuantity     *int            `json:"min_quantity,omitempty" validate:"omitempty,min=0"`
	MaxQuantity     *int            `json:"max_quantity,omitempty" validate:"omitempty,min=0"`
}

type addPricesRequest struct {
	Prices  []priceRequest `json:"prices" validate:"required,dive"`
	Replace bool           `json:"replace,omitempty"`
}

type deletePricesRequest struct {
	PriceIDs []string `json:"price_ids" validate:"required,dive,required"`
}

func (r createPriceListRequest) toCreateInput() (pricelist.CreatePriceListInput, error) {
	input := pricelist.CreatePriceListInput{
		Name:             r.Name,
		Description:      r.Description,
		StartsAt:         r.StartsAt,
		EndsAt:           r.EndsAt,
		Metadata:         r.Metadata,
		Prices:           toPriceInputs(r.Prices),
		CustomerGroupIDs: r.CustomerGroupIDs,
	}
	if r.Type != "" {
		listType, err := enums.ParsePriceListType(r.Type)
		if err != nil {
			return pricelist.CreatePriceListInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid type")
		}
		input.Type = listType
	}
	if r.Status != "" {
		status, err := enums.ParsePriceListStatus(r.Status)
		if err != nil {
			return pricelist.CreatePriceListInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
		}
		input.Status = status
	}
	return input, nil
}

func (r updatePriceListRequest) toUpdateInput() (pricelist.UpdatePriceListInput, error) {
	input := pricelist.UpdatePriceListInput{
		Name:             r.Name,
		Description:      r.Description,
		StartsAt:         r.StartsAt,
		EndsAt:           r.EndsAt,
		Metadata:         r.Metadata,
		CustomerGroupIDs: r.CustomerGroupIDs,
	}
	if r.Type != nil {
		listType, err := enums.ParsePriceListType(*r.Type)
		if err != nil {
			return pricelist.UpdatePriceListInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid type")
		}
		input.Type = &listType
	}
	if r.Status != nil {
		status, err := enums.ParsePriceListStatus(*r.Status)
		if err != nil {
			return pricelist.UpdatePriceListInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
		}
		input.Status = &status
	}
	if r.Prices != nil {
		prices := toPriceInputs(*r.Prices)
		input.Prices = &prices
	}
	return input, nil
}

func toPriceInputs(prices []priceRequest) []pricelist.PriceInput {
	inputs := make([]pricelist.PriceInput, len(prices))
	for i, price := range prices {
		inputs[i] = pricelist.PriceInput{
			CurrencyCode:    price.CurrencyCode,
			Amount:          price.Amount,
			CustomerGroupID: price.CustomerGroupID,
			MinQuantity:     price.MinQuantity,
			MaxQuantity:     price.MaxQuantity,
		}
	}
	return inputs
}
