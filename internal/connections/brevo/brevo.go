package brevo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"restaurant-ops/internal/config"

	lib "github.com/getbrevo/brevo-go/lib"
)

// Client sends plain-text transactional e-mail through the Brevo API.
type Client struct {
	api    *lib.APIClient
	apiKey string
	sender string
}

func New(cfg config.EmailConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	bc := lib.NewConfiguration()
	bc.BasePath = strings.TrimRight(cfg.BaseURL, "/") + "/v3"
	bc.AddDefaultHeader("api-key", cfg.APIKey)
	bc.HTTPClient = &http.Client{Timeout: timeout}

	return &Client{
		api:    lib.NewAPIClient(bc),
		apiKey: cfg.APIKey,
		sender: cfg.Sender,
	}
}

func (c *Client) Send(ctx context.Context, to, subject, body string) error {
	if c.apiKey == "" || c.sender == "" {
		return errors.New("brevo: api key and sender address must be configured")
	}

	_, resp, err := c.api.TransactionalEmailsApi.SendTransacEmail(ctx, lib.SendSmtpEmail{
		Sender:      &lib.SendSmtpEmailSender{Email: c.sender},
		To:          []lib.SendSmtpEmailTo{{Email: to}},
		Subject:     subject,
		TextContent: body,
	})
	if err != nil {
		var apiErr lib.GenericSwaggerError
		if errors.As(err, &apiErr) && resp != nil {
			return fmt.Errorf("brevo: send to %s: status %d: %s", to, resp.StatusCode, strings.TrimSpace(string(apiErr.Body())))
		}
		return fmt.Errorf("brevo: send to %s: %w", to, err)
	}
	return nil
}
