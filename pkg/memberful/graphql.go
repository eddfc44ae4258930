package memberful

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

type gqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type gqlResponse struct {
	Data   json.RawMessage      `json:"data"`
	Errors []GraphQLErrorDetail `json:"errors"`
}

// Do executes a GraphQL query and unmarshals the response's data object into
// out. The operation name labels logs and metrics; the typed query methods
// are thin wrappers around Do, which is exported so callers can run queries
// this library does not model.
//
// Transport failures, 429 and 5xx responses are retried up to MaxRetries
// times with a fixed pause, honoring ctx cancellation. Authentication
// failures and GraphQL-level errors are never retried.
func (c *Client) Do(ctx context.Context, operation, query string, variables map[string]interface{}, out interface{}) error {
	payload, err := json.Marshal(gqlRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("encode query: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.Debug("retrying memberful query",
				Field{Key: "operation", Value: operation},
				Field{Key: "attempt", Value: attempt},
				Field{Key: "last_error", Value: lastErr.Error()})
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.retryInterval):
			}
		}

		done, err := c.attempt(ctx, operation, payload, out)
		if done {
			return err
		}
		lastErr = err
	}
	return lastErr
}

// attempt runs one round trip. done=false marks retryable failures.
func (c *Client) attempt(ctx context.Context, operation string, payload []byte, out interface{}) (done bool, err error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return true, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.RecordAPICall(operation, "transport_error")
		if ctx.Err() != nil {
			return true, ctx.Err()
		}
		return false, fmt.Errorf("memberful request: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn("closing response body failed", Field{Key: "error", Value: closeErr})
		}
	}()

	c.metrics.RecordAPICall(operation, strconv.Itoa(resp.StatusCode))
	c.metrics.RecordAPICallDuration(operation, time.Since(start))

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return true, fmt.Errorf("%w (status %d)", ErrUnauthorized, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError:
		return false, fmt.Errorf("%w: status %d", ErrAPIError, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return true, fmt.Errorf("%w: unexpected status %d", ErrAPIError, resp.StatusCode)
	}

	var envelope gqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return true, fmt.Errorf("decode response: %w", err)
	}
	if len(envelope.Errors) > 0 {
		return true, &GraphQLError{Errors: envelope.Errors}
	}
	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return true, fmt.Errorf("decode data: %w", err)
		}
	}
	return true, nil
}
