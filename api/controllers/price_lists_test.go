package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	pricelist "github.com/pricebookhq/pricebook-backend/internal/pricelists"
	pkgerrors "github.com/pricebookhq/pricebook-backend/pkg/errors"
	"github.com/pricebookhq/pricebook-backend/pkg/logger"
	"github.com/pricebookhq/pricebook-backend/pkg/pagination"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

func withRouteParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestCreatePriceList(t *testing.T) {
	logg := testLogger()

	t.Run("success", func(t *testing.T) {
		stub := &stubPriceListService{
			createFn: func(ctx context.Context, input pricelist.CreatePriceListInput) (*pricelist.PriceListDTO, error) {
				return &pricelist.PriceListDTO{ID: "pl_created", Name: input.Name}, nil
			},
		}
		body := `{"name":"summer sale","prices":[{"currency_code":"usd","amount":"19.99"}]}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/price-lists", strings.NewReader(body))
		rec := httptest.NewRecorder()

		CreatePriceList(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}

		var envelope struct {
			Data pricelist.PriceListDTO `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if envelope.Data.ID != "pl_created" {
			t.Fatalf("expected created id in envelope, got %q", envelope.Data.ID)
		}
	})

	t.Run("missing name", func(t *testing.T) {
		stub := &stubPriceListService{}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/price-lists", strings.NewReader(`{}`))
		rec := httptest.NewRecorder()

		CreatePriceList(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		stub := &stubPriceListService{}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/price-lists", strings.NewReader(`{"name":"x","surprise":true}`))
		rec := httptest.NewRecorder()

		CreatePriceList(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestGetPriceList(t *testing.T) {
	logg := testLogger()

	t.Run("not found maps to 404", func(t *testing.T) {
		stub := &stubPriceListService{
			retrieveFn: func(ctx context.Context, id string, cfg pricelist.RetrieveConfig) (*pricelist.PriceListDTO, error) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "price list not found")
			},
		}
		req := httptest.NewRequest(http.MethodGet, "/api/v1/price-lists/pl_missing", nil)
		req = withRouteParam(req, "priceListId", "pl_missing")
		rec := httptest.NewRecorder()

		GetPriceList(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("expand forwards relations", func(t *testing.T) {
		var gotCfg pricelist.RetrieveConfig
		stub := &stubPriceListService{
			retrieveFn: func(ctx context.Context, id string, cfg pricelist.RetrieveConfig) (*pricelist.PriceListDTO, error) {
				gotCfg = cfg
				return &pricelist.PriceListDTO{ID: id}, nil
			},
		}
		req := httptest.NewRequest(http.MethodGet, "/api/v1/price-lists/pl_x?expand=prices,customer_groups", nil)
		req = withRouteParam(req, "priceListId", "pl_x")
		rec := httptest.NewRecorder()

		GetPriceList(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if len(gotCfg.Relations) != 2 {
			t.Fatalf("expected both relations forwarded, got %v", gotCfg.Relations)
		}
	})
}

func TestDeletePriceList_alwaysNoContent(t *testing.T) {
	logg := testLogger()
	stub := &stubPriceListService{
		deleteFn: func(ctx context.Context, id string) error { return nil },
	}
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/price-lists/pl_gone", nil)
	req = withRouteParam(req, "priceListId", "pl_gone")
	rec := httptest.NewRecorder()

	DeletePriceList(stub, logg).ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestAddPriceListPrices_forwardsReplaceFlag(t *testing.T) {
	logg := testLogger()
	var gotReplace bool
	stub := &stubPriceListService{
		addPricesFn: func(ctx context.Context, id string, prices []pricelist.PriceInput, replace bool) (*pricelist.PriceListDTO, error) {
			gotReplace = replace
			return &pricelist.PriceListDTO{ID: id}, nil
		},
	}
	body := `{"replace":true,"prices":[{"currency_code":"usd","amount":"12.00"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/price-lists/pl_x/prices", strings.NewReader(body))
	req = withRouteParam(req, "priceListId", "pl_x")
	rec := httptest.NewRecorder()

	AddPriceListPrices(stub, logg).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !gotReplace {
		t.Fatalf("expected replace flag to be forwarded")
	}
}

func TestDeletePriceListPrices(t *testing.T) {
	logg := testLogger()
	var gotIDs []string
	stub := &stubPriceListService{
		deletePricesFn: func(ctx context.Context, id string, priceIDs []string) error {
			gotIDs = priceIDs
			return nil
		},
	}
	body := `{"price_ids":["price_a","price_b"]}`
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/price-lists/pl_x/prices", strings.NewReader(body))
	req = withRouteParam(req, "priceListId", "pl_x")
	rec := httptest.NewRecorder()

	DeletePriceListPrices(stub, logg).ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if len(gotIDs) != 2 {
		t.Fatalf("expected both price ids forwarded, got %v", gotIDs)
	}
}

func TestListPriceLists_invalidStatus(t *testing.T) {
	logg := testLogger()
	stub := &stubPriceListService{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/price-lists?status=archived", nil)
	rec := httptest.NewRecorder()

	ListPriceLists(stub, logg).ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status, got %d", rec.Code)
	}
}

type stubPriceListService struct {
	retrieveFn     func(context.Context, string, pricelist.RetrieveConfig) (*pricelist.PriceListDTO, error)
	createFn       func(context.Context, pricelist.CreatePriceListInput) (*pricelist.PriceListDTO, error)
	updateFn       func(context.Context, string, pricelist.UpdatePriceListInput) (*pricelist.PriceListDTO, error)
	addPricesFn    func(context.Context, string, []pricelist.PriceInput, bool) (*pricelist.PriceListDTO, error)
	deletePricesFn func(context.Context, string, []string) error
	deleteFn       func(context.Context, string) error
}

func (s *stubPriceListService) Retrieve(ctx context.Context, id string, cfg pricelist.RetrieveConfig) (*pricelist.PriceListDTO, error) {
	if s.retrieveFn == nil {
		panic("unexpected Retrieve call")
	}
	return s.retrieveFn(ctx, id, cfg)
}

func (s *stubPriceListService) Create(ctx context.Context, input pricelist.CreatePriceListInput) (*pricelist.PriceListDTO, error) {
	if s.createFn == nil {
		panic("unexpected Create call")
	}
	return s.createFn(ctx, input)
}

func (s *stubPriceListService) Update(ctx context.Context, id string, input pricelist.UpdatePriceListInput) (*pricelist.PriceListDTO, error) {
	if s.updateFn == nil {
		panic("unexpected Update call")
	}
	return s.updateFn(ctx, id, input)
}

func (s *stubPriceListService) AddPrices(ctx context.Context, id string, prices []pricelist.PriceInput, replace bool) (*pricelist.PriceListDTO, error) {
	if s.addPricesFn == nil {
		panic("unexpected AddPrices call")
	}
	return s.addPricesFn(ctx, id, prices, replace)
}

func (s *stubPriceListService) DeletePrices(ctx context.Context, id string, priceIDs []string) error {
	if s.deletePricesFn == nil {
		panic("unexpected DeletePrices call")
	}
	return s.deletePricesFn(ctx, id, priceIDs)
}

func (s *stubPriceListService) Delete(ctx context.Context, id string) error {
	if s.deleteFn == nil {
		panic("unexpected Delete call")
	}
	return s.deleteFn(ctx, id)
}

func (s *stubPriceListService) List(ctx context.Context, filter pricelist.ListFilter, page pagination.Params) ([]pricelist.PriceListDTO, error) {
	return nil, nil
}

func (s *stubPriceListService) ListAndCount(ctx context.Context, filter pricelist.ListFilter, page pagination.Params) ([]pricelist.PriceListDTO, int64, error) {
	return nil, 0, nil
}
