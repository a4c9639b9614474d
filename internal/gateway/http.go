package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/angelmondragon/gs-storefront/internal/orders"
	pkgerrors "github.com/angelmondragon/gs-storefront/pkg/errors"
	"github.com/angelmondragon/gs-storefront/pkg/metrics"
	"github.com/angelmondragon/gs-storefront/pkg/types"
)

const (
	defaultUserAgent = "gs-storefront/1.0"
	defaultTimeout   = 10 * time.Second
	apiPrefix        = "/api"
	maxErrorBody     = 64 << 10
)

// HTTPOptions tunes the REST client. Zero values fall back to defaults.
type HTTPOptions struct {
	Timeout    time.Duration
	HTTPClient *http.Client
	UserAgent  string
	Metrics    *metrics.GatewayMetrics
}

type httpClient struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	metrics   *metrics.GatewayMetrics
}

// NewHTTPGateway builds a Gateway talking to the REST surface under baseURL:
//
//	GET    /api/{collection}
//	PUT    /api/{collection}/{id}
//	DELETE /api/{collection}/{id}
//	PATCH  /api/orders/{id}
func NewHTTPGateway(baseURL string, opts HTTPOptions) (*Gateway, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	userAgent := strings.TrimSpace(opts.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	c := &httpClient{
		baseURL:   base,
		http:      client,
		userAgent: userAgent,
		metrics:   opts.Metrics,
	}
	return &Gateway{
		Products: &httpCollection[types.Product]{client: c, name: CollectionProducts, idOf: productID},
		Orders:   &httpOrders{httpCollection: &httpCollection[types.Order]{client: c, name: CollectionOrders, idOf: orderID}},
		Users:    &httpCollection[types.UserAccount]{client: c, name: CollectionUsers, idOf: userID},
	}, nil
}

type httpCollection[T any] struct {
	client *httpClient
	name   string
	idOf   func(T) string
}

var (
	_ Collection[types.Product]     = (*httpCollection[types.Product])(nil)
	_ Collection[types.UserAccount] = (*httpCollection[types.UserAccount])(nil)
	_ OrderCollection               = (*httpOrders)(nil)
)

func (h *httpCollection[T]) GetAll(ctx context.Context) ([]T, error) {
	var records []T
	if err := h.client.do(ctx, h.name, OpGetAll, http.MethodGet, h.collectionPath(), nil, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

func (h *httpCollection[T]) Save(ctx context.Context, record T) (T, error) {
	var saved T
	id := strings.TrimSpace(h.idOf(record))
	if id == "" {
		return saved, pkgerrors.New(pkgerrors.CodeValidation, h.name+" record id is required")
	}
	if err := h.client.do(ctx, h.name, OpSave, http.MethodPut, h.recordPath(id), record, &saved); err != nil {
		return saved, err
	}
	return saved, nil
}

func (h *httpCollection[T]) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, h.name+" record id is required")
	}
	return h.client.do(ctx, h.name, OpDelete, http.MethodDelete, h.recordPath(id), nil, nil)
}

func (h *httpCollection[T]) collectionPath() string {
	return apiPrefix + "/" + h.name
}

func (h *httpCollection[T]) recordPath(id string) string {
	return h.collectionPath() + "/" + url.PathEscape(id)
}

type httpOrders struct {
	*httpCollection[types.Order]
}

func (h *httpOrders) Update(ctx context.Context, id string, update orders.Update) (types.Order, error) {
	var saved types.Order
	id = strings.TrimSpace(id)
	if id == "" {
		return saved, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if err := update.Validate(); err != nil {
		return saved, err
	}
	if err := h.client.do(ctx, h.name, OpUpdate, http.MethodPatch, h.recordPath(id), update, &saved); err != nil {
		return saved, err
	}
	return saved, nil
}

func (c *httpClient) do(ctx context.Context, collection, op, method, path string, body, dest any) (err error) {
	start := time.Now()
	defer func() { c.metrics.Observe(collection, op, time.Since(start), err) }()

	var reader io.Reader
	if body != nil {
		raw, marshalErr := json.Marshal(body)
		if marshalErr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, marshalErr, "encode request body")
		}
		reader = bytes.NewReader(raw)
	}

	ref, err := url.Parse(path)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "build gateway request path")
	}
	reqURL := c.baseURL.ResolveReference(ref)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create gateway request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeTransport, err, fmt.Sprintf("%s %s failed", method, path))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		return statusError(method, path, resp)
	}
	if dest == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeTransport, err, "decode gateway response")
	}
	return nil
}

func statusError(method, path string, resp *http.Response) error {
	code := codeForStatus(resp.StatusCode)
	message := fmt.Sprintf("%s %s returned status %d", method, path, resp.StatusCode)

	var envelope types.ErrorEnvelope
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if len(raw) > 0 && json.Unmarshal(raw, &envelope) == nil && envelope.Error.Message != "" {
		message = envelope.Error.Message
	}
	return pkgerrors.New(code, message).WithDetails(map[string]any{
		"status": resp.StatusCode,
		"path":   path,
	})
}

func codeForStatus(status int) pkgerrors.Code {
	switch status {
	case http.StatusNotFound:
		return pkgerrors.CodeNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return pkgerrors.CodeValidation
	case http.StatusConflict:
		return pkgerrors.CodeConflict
	default:
		return pkgerrors.CodeTransport
	}
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("gateway base url is empty")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse gateway url %q: %w", raw, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
