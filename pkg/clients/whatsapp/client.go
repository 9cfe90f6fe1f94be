package whatsapp

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/stockledger/internal/config"
)

// Messenger delivers plain text alerts to a WhatsApp recipient.
type Messenger interface {
	SendText(ctx context.Context, to, body string) (string, error)
}

// APIClient is a resty-backed implementation of Messenger.
type APIClient struct {
	httpClient    *resty.Client
	phoneNumberID string
}

// NewClient builds a WhatsApp API client using the provided configuration values.
func NewClient(cfg config.WhatsAppConfig) *APIClient {
	base := strings.TrimSuffix(cfg.BaseURL, "/")

	restyClient := resty.New()
	restyClient.
		SetBaseURL(fmt.Sprintf("%s/%s", base, cfg.APIVersion)).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.AccessToken)).
		SetHeader("Content-Type", "application/json").
		SetTimeout(10 * time.Second)

	return &APIClient{
		httpClient:    restyClient,
		phoneNumberID: cfg.PhoneNumberID,
	}
}

type textPayload struct {
	MessagingProduct string      `json:"messaging_product"`
	To               string      `json:"to"`
	Type             string      `json:"type"`
	Text             textContent `json:"text"`
}

type textContent struct {
	Body       string `json:"body"`
	PreviewURL bool   `json:"preview_url"`
}

type sendResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

// APIError is returned when the Cloud API answers with a non-2xx status.
type APIError struct {
	Status  int
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("whatsapp api error: status=%d code=%d message=%s", e.Status, e.Code, e.Message)
}

type apiErrorBody struct {
	Error APIError `json:"error"`
}

// SendText posts a text message and returns the id assigned by Meta.
func (c *APIClient) SendText(ctx context.Context, to, body string) (string, error) {
	if strings.TrimSpace(to) == "" {
		return "", fmt.Errorf("whatsapp: recipient must not be empty")
	}

	result := new(sendResponse)
	errBody := new(apiErrorBody)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(textPayload{
			MessagingProduct: "whatsapp",
			To:               to,
			Type:             "text",
			Text:             textContent{Body: body},
		}).
		SetResult(result).
		SetError(errBody).
		Post(fmt.Sprintf("%s/messages", c.phoneNumberID))
	if err != nil {
		return "", fmt.Errorf("send whatsapp message: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		apiErr := errBody.Error
		apiErr.Status = resp.StatusCode()
		return "", &apiErr
	}

	if len(result.Messages) == 0 {
		return "", nil
	}
	return result.Messages[0].ID, nil
}
