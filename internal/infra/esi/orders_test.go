package esi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"indy_go/internal/domain"
)

func writeOrders(w http.ResponseWriter, totalPages int, orders []marketOrder) {
	if totalPages > 0 {
		w.Header().Set("X-Pages", strconv.Itoa(totalPages))
	}
	json.NewEncoder(w).Encode(orders)
}

func pageOrder(id int64, price float64) marketOrder {
	return marketOrder{
		OrderID:      id,
		TypeID:       34,
		Price:        price,
		LocationID:   60003760,
		VolumeRemain: 10,
	}
}

func TestFetchOrdersMultiPage(t *testing.T) {
	var gotPages []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/markets/10000002/orders/" {
			t.Errorf("path = %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("order_type") != "sell" || q.Get("type_id") != "34" {
			t.Errorf("query = %v", q)
		}

		page := q.Get("page")
		gotPages = append(gotPages, page)
		switch page {
		case "1":
			writeOrders(w, 2, []marketOrder{pageOrder(1, 10), pageOrder(2, 11)})
		case "2":
			writeOrders(w, 2, []marketOrder{pageOrder(3, 12)})
		default:
			t.Errorf("unexpected page %s", page)
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	orders, err := c.FetchOrders(context.Background(), 34, domain.SideSell)
	if err != nil {
		t.Fatalf("FetchOrders failed: %v", err)
	}
	if len(orders) != 3 {
		t.Fatalf("len(orders) = %d, want 3", len(orders))
	}
	if len(gotPages) != 2 || gotPages[0] != "1" || gotPages[1] != "2" {
		t.Errorf("pages requested = %v, want [1 2]", gotPages)
	}
	if orders[0].OrderID != 1 || orders[2].OrderID != 3 {
		t.Errorf("order ids = %d..%d", orders[0].OrderID, orders[2].OrderID)
	}
}

func TestFetchOrdersSinglePageWithoutHeader(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		writeOrders(w, 0, []marketOrder{pageOrder(1, 10)}) // no X-Pages
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	orders, err := c.FetchOrders(context.Background(), 34, domain.SideSell)
	if err != nil {
		t.Fatalf("FetchOrders failed: %v", err)
	}
	if len(orders) != 1 {
		t.Errorf("len(orders) = %d, want 1", len(orders))
	}
	if requests != 1 {
		t.Errorf("requests = %d, want 1 (absent X-Pages means single page)", requests)
	}
}

func TestFetchOrdersEmptyFirstPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeOrders(w, 5, []marketOrder{})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	orders, err := c.FetchOrders(context.Background(), 34, domain.SideBuy)
	if err != nil {
		t.Fatalf("empty book is not an error, got %v", err)
	}
	if len(orders) != 0 {
		t.Errorf("len(orders) = %d, want 0", len(orders))
	}
}

func TestFetchOrdersNoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	orders, err := c.FetchOrders(context.Background(), 34, domain.SideBuy)
	if err != nil {
		t.Fatalf("204 is not an error, got %v", err)
	}
	if len(orders) != 0 {
		t.Errorf("len(orders) = %d, want 0", len(orders))
	}
}

func TestFetchOrdersRetriesSamePageOnTransientError(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests <= 2 {
			http.Error(w, "try later", http.StatusServiceUnavailable)
			return
		}
		if page := r.URL.Query().Get("page"); page != "1" {
			t.Errorf("retried page = %s, want 1", page)
		}
		writeOrders(w, 0, []marketOrder{pageOrder(1, 10)})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	orders, err := c.FetchOrders(context.Background(), 34, domain.SideSell)
	if err != nil {
		t.Fatalf("FetchOrders failed: %v", err)
	}
	if len(orders) != 1 {
		t.Errorf("len(orders) = %d, want 1", len(orders))
	}
	if requests != 3 {
		t.Errorf("requests = %d, want 3 (two failures, one success)", requests)
	}
}

func TestFetchOrdersRetryCap(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	c.maxRetries = 2

	_, err := c.FetchOrders(context.Background(), 34, domain.SideSell)
	var esiErr *domain.ESIError
	if !errors.As(err, &esiErr) {
		t.Fatalf("err = %v, want ESIError", err)
	}
	if esiErr.Status != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", esiErr.Status)
	}
	// Initial attempt plus two retries.
	if requests != 3 {
		t.Errorf("requests = %d, want 3", requests)
	}
}

func TestFetchOrdersMaxPagesBound(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		writeOrders(w, 100, []marketOrder{pageOrder(int64(page), float64(page))})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	c.maxPages = 3

	orders, err := c.FetchOrders(context.Background(), 34, domain.SideSell)
	if err != nil {
		t.Fatalf("hitting the page bound is not an error, got %v", err)
	}
	if len(orders) != 3 {
		t.Errorf("len(orders) = %d, want 3 (accumulated pages)", len(orders))
	}
	if requests != 3 {
		t.Errorf("requests = %d, want 3", requests)
	}
}

func TestFetchOrdersUnexpectedStatusIsFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, fmt.Sprintf("%q is not a valid type", "34"), http.StatusNotFound)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	_, err := c.FetchOrders(context.Background(), 34, domain.SideSell)
	var esiErr *domain.ESIError
	if !errors.As(err, &esiErr) {
		t.Fatalf("err = %v, want ESIError", err)
	}
	if esiErr.IsRetriable() {
		t.Error("404 must not be retried")
	}
}
