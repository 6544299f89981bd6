// Sonograph - Artist Similarity Graph Explorer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sonograph

package lastfm

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/sonograph/internal/metrics"
)

// maxBodySize bounds how much of a response is read.
const maxBodySize = 4 << 20

// requestConfig describes one Last.fm API method call.
type requestConfig struct {
	method string     // Last.fm method, e.g. "artist.getInfo"
	params url.Values // method parameters; api_key and format are added
}

// doRequest executes one call against the Last.fm REST endpoint and decodes
// the JSON body into result. Last.fm reports failures either through the HTTP
// status or through an {"error": N} body with status 200, so both are checked.
func (c *Client) doRequest(ctx context.Context, cfg requestConfig, result interface{}) (err error) {
	start := time.Now()
	defer func() {
		metrics.RecordUpstreamRequest(cfg.method, outcome(err), time.Since(start))
	}()

	query := url.Values{}
	for k, v := range cfg.params {
		query[k] = v
	}
	query.Set("method", cfg.method)
	query.Set("api_key", c.apiKey)
	query.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.URL.RawQuery = query.Encode()
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return &Error{Kind: ErrUpstream, Method: cfg.method, Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return &Error{Kind: ErrUpstream, Method: cfg.method, StatusCode: resp.StatusCode, Message: fmt.Sprintf("read body: %v", err)}
	}

	var apiErr errorResponse
	if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != 0 {
		return &Error{
			Kind:       classify(resp.StatusCode, apiErr.Error),
			Method:     cfg.method,
			Code:       apiErr.Error,
			Message:    apiErr.Message,
			StatusCode: resp.StatusCode,
		}
	}

	if resp.StatusCode != http.StatusOK {
		return &Error{
			Kind:       classify(resp.StatusCode, 0),
			Method:     cfg.method,
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
		}
	}

	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return &Error{Kind: ErrUpstream, Method: cfg.method, StatusCode: resp.StatusCode, Message: fmt.Sprintf("decode response: %v", err)}
		}
	}
	return nil
}
