package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"github.com/mamadbah2/stockledger/internal/config"
	"github.com/mamadbah2/stockledger/internal/domain/models"
)

// APIKeyHeader carries the shared secret expected by the catalog service.
const APIKeyHeader = "X-API-KEY"

var (
	// ErrNotFound means the catalog reported that the product does not exist.
	ErrNotFound = errors.New("catalog: product not found")

	// ErrForbidden means the catalog rejected our credentials.
	ErrForbidden = errors.New("catalog: access forbidden")

	// ErrMalformedResponse means a 2xx response did not carry a product object.
	ErrMalformedResponse = errors.New("catalog: malformed response")
)

// TransportError covers network failures, timeouts and unexpected HTTP statuses.
// StatusCode is zero when no response was received.
type TransportError struct {
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("catalog: transport failure: %v", e.Err)
	}
	return fmt.Sprintf("catalog: unexpected status %d", e.StatusCode)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Client exposes the catalog operations used by the inventory service.
type Client interface {
	Fetch(ctx context.Context, productID int64) (*models.ProductSummary, error)
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
}

// NewClient builds a catalog client using the provided configuration values.
func NewClient(cfg config.CatalogConfig) *APIClient {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader(APIKeyHeader, cfg.APIKey).
		SetHeader("Accept", "application/json").
		SetTimeout(cfg.Timeout)

	return &APIClient{httpClient: restyClient}
}

// envelope mirrors the catalog response wrapper. Data is decoded in a second
// step so that a wrong shape is reported as ErrMalformedResponse.
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type productPayload struct {
	ID    *int64              `json:"id"`
	Name  *string             `json:"name"`
	Price decimal.NullDecimal `json:"price"`
}

// Fetch resolves a product by id and classifies every failure.
func (c *APIClient) Fetch(ctx context.Context, productID int64) (*models.ProductSummary, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetPathParam("id", strconv.FormatInt(productID, 10)).
		Get("/api/products/{id}")
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	switch code := resp.StatusCode(); {
	case code == http.StatusNotFound:
		return nil, ErrNotFound
	case code == http.StatusForbidden:
		return nil, ErrForbidden
	case code < 200 || code >= 300:
		return nil, &TransportError{StatusCode: code}
	}

	return decodeProduct(productID, resp.Body())
}

func decodeProduct(productID int64, body []byte) (*models.ProductSummary, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, ErrNotFound
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if isNull(env.Data) {
		return nil, ErrNotFound
	}

	var payload productPayload
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	summary := &models.ProductSummary{ID: productID, Price: payload.Price}
	if payload.ID != nil {
		summary.ID = *payload.ID
	}
	if payload.Name != nil {
		summary.Name = *payload.Name
	}
	return summary, nil
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

