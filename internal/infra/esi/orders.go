package esi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"indy_go/internal/domain"
	"indy_go/internal/infra"
)

// FetchOrders retrieves every resting order for one type and side in the
// configured region, walking pages from 1 until the book is exhausted:
// an empty page, an absent X-Pages header, or page == declared total all
// terminate. An empty first page is an empty result, not an error.
//
// Transient statuses pause for the retry interval and re-request the same
// page. With max_retries 0 (the default) that loops until the service
// recovers, so a persistently failing endpoint stalls the run; the cap
// exists for deployments that want bounded worst-case latency. Exceeding
// the page bound stops fetching and returns what accumulated.
func (c *Client) FetchOrders(ctx context.Context, typeID int32, side domain.Side) ([]domain.Order, error) {
	var out []domain.Order
	path := fmt.Sprintf("/markets/%d/orders/", c.regionID)

	page := 1
	attempts := 0
	for page <= c.maxPages {
		q := url.Values{}
		q.Set("order_type", string(side))
		q.Set("type_id", strconv.FormatInt(int64(typeID), 10))
		q.Set("page", strconv.Itoa(page))

		resp, err := c.do(ctx, http.MethodGet, path, q, nil)
		if err != nil {
			return nil, &domain.ESIError{Op: "fetch orders", Err: err}
		}

		if domain.IsRetryStatus(resp.StatusCode) {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			infra.GlobalMetrics.RecordRetry()
			attempts++
			if c.maxRetries > 0 && attempts > c.maxRetries {
				return nil, &domain.ESIError{
					Op:     "fetch orders",
					Status: resp.StatusCode,
					Err:    fmt.Errorf("gave up after %d retries on page %d", c.maxRetries, page),
				}
			}
			c.logger.Warn("transient market data error, pausing",
				"status", resp.StatusCode, "type_id", typeID, "page", page)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.retryInterval):
			}
			continue // same page
		}
		attempts = 0

		if resp.StatusCode == http.StatusNoContent {
			resp.Body.Close()
			break
		}

		bodyBytes, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, &domain.ESIError{Op: "fetch orders", Err: err}
		}
		if resp.StatusCode != http.StatusOK {
			return nil, &domain.ESIError{
				Op:     "fetch orders",
				Status: resp.StatusCode,
				Err:    fmt.Errorf("body: %s", truncateBody(bodyBytes)),
			}
		}

		var batch []marketOrder
		if err := json.Unmarshal(bodyBytes, &batch); err != nil {
			return nil, &domain.ESIError{Op: "fetch orders", Err: fmt.Errorf("parse orders: %w", err)}
		}
		infra.GlobalMetrics.RecordPage()

		if len(batch) == 0 {
			break
		}
		for _, o := range batch {
			out = append(out, domain.Order{
				OrderID:      o.OrderID,
				TypeID:       o.TypeID,
				IsBuyOrder:   o.IsBuyOrder,
				Price:        decimal.NewFromFloat(o.Price),
				LocationID:   o.LocationID,
				VolumeRemain: o.VolumeRemain,
			})
		}

		total, ok := parsePageCount(resp.Header.Get("X-Pages"))
		if !ok {
			break // absent or malformed total: single-page result
		}
		if page >= total {
			break
		}
		page++
	}

	return out, nil
}

func parsePageCount(h string) (int, bool) {
	if h == "" {
		return 0, false
	}
	n, err := strconv.Atoi(h)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
