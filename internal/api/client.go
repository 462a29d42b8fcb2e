// Package api is the client for the remote schedule API: four read-only,
// versioned GET resources. The revalidation protocol is the caching layer, so
// every request disables intermediate HTTP caching.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/planwise/timetable-companion/internal/models"
	appErrors "github.com/planwise/timetable-companion/pkg/errors"
)

// Client talks to the remote schedule API.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient builds a client for the given base URL.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Metadata fetches the full taxonomy with its version token.
func (c *Client) Metadata(ctx context.Context) (*models.Metadata, error) {
	var meta models.Metadata
	if err := c.get(ctx, "/api/metadata", nil, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// ClassesVersion fetches only the version token for a tuple's class data.
// The server answers "0" for unknown tuples.
func (c *Client) ClassesVersion(ctx context.Context, t models.Tuple) (string, error) {
	var payload models.VersionPayload
	if err := c.get(ctx, "/api/allclasses-version", tupleQuery(t), &payload); err != nil {
		return "", err
	}
	return payload.CacheVersion, nil
}

// Classes fetches the full week payload for a tuple.
func (c *Client) Classes(ctx context.Context, t models.Tuple) (*models.ClassesPayload, error) {
	var payload models.ClassesPayload
	if err := c.get(ctx, "/api/allclasses", tupleQuery(t), &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Electives fetches the elective catalog for a combo.
func (c *Client) Electives(ctx context.Context, combo models.Combo) (models.ElectiveCatalog, error) {
	query := url.Values{}
	query.Set("course", combo.Course)
	query.Set("semester", combo.Semester)
	query.Set("phase", combo.Phase)

	var catalog models.ElectiveCatalog
	if err := c.get(ctx, "/api/electives", query, &catalog); err != nil {
		return models.ElectiveCatalog{}, err
	}
	return catalog, nil
}

func tupleQuery(t models.Tuple) url.Values {
	query := url.Values{}
	query.Set("course", t.Course)
	query.Set("semester", t.Semester)
	query.Set("phase", t.Phase)
	query.Set("batch", t.Batch)
	return query
}

func (c *Client) get(ctx context.Context, path string, query url.Values, dest interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build upstream request")
	}
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, fmt.Sprintf("fetch %s", path))
	}
	defer res.Body.Close() //nolint:errcheck

	if res.StatusCode != http.StatusOK {
		return appErrors.Wrap(
			fmt.Errorf("unexpected status %d", res.StatusCode),
			appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, fmt.Sprintf("fetch %s", path))
	}
	if err := json.NewDecoder(res.Body).Decode(dest); err != nil {
		return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, fmt.Sprintf("decode %s response", path))
	}

	c.logger.Debug("upstream fetch",
		zap.String("path", path),
		zap.Duration("latency", time.Since(start)))
	return nil
}
