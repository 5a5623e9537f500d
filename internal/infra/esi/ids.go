package esi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"

	"indy_go/internal/domain"
	"indy_go/internal/infra"
)

// ResolveNames resolves item display names to type IDs via /universe/ids/.
// The result is partial: names the service does not recognize are logged
// once, sorted, and omitted. Any transport or protocol failure here is
// fatal for the run and is never retried, since nothing downstream can
// proceed without identifiers.
func (c *Client) ResolveNames(ctx context.Context, names []string) (map[string]int32, error) {
	payload, err := json.Marshal(names)
	if err != nil {
		return nil, &domain.ESIError{Op: "resolve ids", Err: err}
	}

	resp, err := c.do(ctx, http.MethodPost, "/universe/ids/", nil, bytes.NewReader(payload))
	if err != nil {
		return nil, &domain.ESIError{Op: "resolve ids", Err: err}
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.ESIError{Op: "resolve ids", Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &domain.ESIError{
			Op:     "resolve ids",
			Status: resp.StatusCode,
			Err:    fmt.Errorf("body: %s", truncateBody(bodyBytes)),
		}
	}

	var parsed idsResponse
	if err := json.Unmarshal(bodyBytes, &parsed); err != nil {
		return nil, &domain.ESIError{Op: "resolve ids", Err: fmt.Errorf("parse response: %w", err)}
	}

	mapping := make(map[string]int32, len(parsed.InventoryTypes))
	for _, t := range parsed.InventoryTypes {
		mapping[t.Name] = t.ID
	}

	var missing []string
	for _, name := range names {
		if _, ok := mapping[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		c.logger.Warn("could not resolve type ids", "names", missing)
	}
	infra.GlobalMetrics.RecordResolved(len(mapping), len(missing))

	return mapping, nil
}
