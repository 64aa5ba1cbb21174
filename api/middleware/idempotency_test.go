package middleware

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/pricebookhq/pricebook-backend/pkg/logger"
)

type fakeIdempotencyStore struct {
	values map[string]string
}

func newFakeStore() *fakeIdempotencyStore {
	return &fakeIdempotencyStore{values: map[string]string{}}
}

func (s *fakeIdempotencyStore) Get(ctx context.Context, key string) (string, error) {
	value, ok := s.values[key]
	if !ok {
		return "", redis.Nil
	}
	return value, nil
}

func (s *fakeIdempotencyStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if _, ok := s.values[key]; ok {
		return false, nil
	}
	s.values[key] = fmt.Sprint(value)
	return true, nil
}

func (s *fakeIdempotencyStore) IdempotencyKey(scope, id string) string {
	return "test:" + scope + ":" + id
}

func newIdempotencyTestRouter(store *fakeIdempotencyStore, hits *atomic.Int64) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	r := chi.NewRouter()
	r.Use(Idempotency(store, time.Hour, logg))
	r.Post("/api/v1/price-lists", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"pl_1"}}`))
	})
	r.Get("/api/v1/price-lists", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	})
	return r
}

func TestIdempotency_replaysStoredResponse(t *testing.T) {
	store := newFakeStore()
	var hits atomic.Int64
	router := newIdempotencyTestRouter(store, &hits)

	body := `{"name":"summer"}`
	first := httptest.NewRequest(http.MethodPost, "/api/v1/price-lists", strings.NewReader(body))
	first.Header.Set("Idempotency-Key", "key-1")
	firstRec := httptest.NewRecorder()
	router.ServeHTTP(firstRec, first)

	second := httptest.NewRequest(http.MethodPost, "/api/v1/price-lists", strings.NewReader(body))
	second.Header.Set("Idempotency-Key", "key-1")
	secondRec := httptest.NewRecorder()
	router.ServeHTTP(secondRec, second)

	if hits.Load() != 1 {
		t.Fatalf("expected handler to run once, ran %d times", hits.Load())
	}
	if secondRec.Code != http.StatusCreated {
		t.Fatalf("expected replayed 201, got %d", secondRec.Code)
	}
	if firstRec.Body.String() != secondRec.Body.String() {
		t.Fatalf("expected identical replayed body")
	}
}

func TestIdempotency_rejectsKeyReuseWithDifferentBody(t *testing.T) {
	store := newFakeStore()
	var hits atomic.Int64
	router := newIdempotencyTestRouter(store, &hits)

	first := httptest.NewRequest(http.MethodPost, "/api/v1/price-lists", strings.NewReader(`{"name":"a"}`))
	first.Header.Set("Idempotency-Key", "key-2")
	router.ServeHTTP(httptest.NewRecorder(), first)

	second := httptest.NewRequest(http.MethodPost, "/api/v1/price-lists", strings.NewReader(`{"name":"b"}`))
	second.Header.Set("Idempotency-Key", "key-2")
	secondRec := httptest.NewRecorder()
	router.ServeHTTP(secondRec, second)

	if hits.Load() != 1 {
		t.Fatalf("expected handler to run once, ran %d times", hits.Load())
	}
	if secondRec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for key reuse, got %d", secondRec.Code)
	}
}

func TestIdempotency_keylessRequestPassesThrough(t *testing.T) {
	store := newFakeStore()
	var hits atomic.Int64
	router := newIdempotencyTestRouter(store, &hits)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/price-lists", strings.NewReader(`{}`))
		router.ServeHTTP(httptest.NewRecorder(), req)
	}

	if hits.Load() != 2 {
		t.Fatalf("expected handler to run every time without a key, ran %d times", hits.Load())
	}
	if len(store.values) != 0 {
		t.Fatalf("expected no records stored for keyless requests")
	}
}

func TestIdempotency_coversRoutesOnNestedRouter(t *testing.T) {
	store := newFakeStore()
	var hits atomic.Int64
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	// same nesting as the production router: the middleware sits on the
	// /api/v1 subrouter, above the price-lists subtree
	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(Idempotency(store, time.Hour, logg))
		r.Route("/price-lists", func(r chi.Router) {
			r.Post("/", func(w http.ResponseWriter, r *http.Request) {
				hits.Add(1)
				w.WriteHeader(http.StatusCreated)
				_, _ = w.Write([]byte(`{"data":{"id":"pl_nested"}}`))
			})
			r.Route("/{priceListId}", func(r chi.Router) {
				r.Post("/prices", func(w http.ResponseWriter, r *http.Request) {
					hits.Add(1)
					w.WriteHeader(http.StatusOK)
					_, _ = w.Write([]byte(`{"data":{"id":"pl_nested"}}`))
				})
			})
		})
	})

	body := `{"name":"nested"}`
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/price-lists", strings.NewReader(body))
		req.Header.Set("Idempotency-Key", "nested-1")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201 on attempt %d, got %d", i+1, rec.Code)
		}
	}
	if hits.Load() != 1 {
		t.Fatalf("expected handler to run once through the nested router, ran %d times", hits.Load())
	}
	if len(store.values) != 1 {
		t.Fatalf("expected one stored record, got %d", len(store.values))
	}

	pricesBody := `{"prices":[{"currency_code":"usd","amount":"10"}]}`
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/price-lists/pl_nested/prices", strings.NewReader(pricesBody))
		req.Header.Set("Idempotency-Key", "nested-2")
		r.ServeHTTP(httptest.NewRecorder(), req)
	}
	if hits.Load() != 2 {
		t.Fatalf("expected the prices handler to run once, total hits %d", hits.Load())
	}
}

func TestIdempotency_uncoveredRouteIgnored(t *testing.T) {
	store := newFakeStore()
	var hits atomic.Int64
	router := newIdempotencyTestRouter(store, &hits)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/price-lists", nil)
	req.Header.Set("Idempotency-Key", "key-3")
	router.ServeHTTP(httptest.NewRecorder(), req)

	if hits.Load() != 1 {
		t.Fatalf("expected handler to run, ran %d times", hits.Load())
	}
	if len(store.values) != 0 {
		t.Fatalf("expected GET routes to skip idempotency storage")
	}
}
