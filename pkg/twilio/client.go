package twilio

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/ecinar/unified-inbox/environments"
	"github.com/ecinar/unified-inbox/pkg/logger"
)

// Client talks to the Twilio Messages REST API.
type Client struct {
	httpClient *resty.Client
	accountSID string
	smsFrom    string
	waFrom     string
}

type SendRequest struct {
	To        string
	Body      string
	MediaURLs []string
}

type SendResponse struct {
	Sid          string  `json:"sid"`
	Status       string  `json:"status"`
	ErrorCode    *int    `json:"error_code"`
	ErrorMessage *string `json:"error_message"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func NewClient(cfg environments.TwilioConfig) *Client {
	client := resty.New().
		SetBaseURL(cfg.APIBaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(3).
		SetRetryWaitTime(500*time.Millisecond).
		SetRetryMaxWaitTime(2*time.Second).
		SetBasicAuth(cfg.AccountSID, cfg.AuthToken).
		SetHeader("Accept", "application/json")

	return &Client{
		httpClient: client,
		accountSID: cfg.AccountSID,
		smsFrom:    cfg.SMSFrom,
		waFrom:     cfg.WhatsAppFrom,
	}
}

// SMSFrom returns the configured SMS sender address.
func (c *Client) SMSFrom() string { return c.smsFrom }

// WhatsAppFrom returns the configured WhatsApp sender address.
func (c *Client) WhatsAppFrom() string { return c.waFrom }

// Send posts one message to the provider and returns the assigned sid.
// A non-2xx response or transport error is returned as an error; the
// caller decides what that means for its own state.
func (c *Client) Send(ctx context.Context, from string, req SendRequest) (*SendResponse, error) {
	if from == "" {
		return nil, fmt.Errorf("sender address is not configured")
	}
	if req.To == "" {
		return nil, fmt.Errorf("recipient address is required")
	}

	form := url.Values{}
	form.Set("From", from)
	form.Set("To", req.To)
	if req.Body != "" {
		form.Set("Body", req.Body)
	}
	for _, media := range req.MediaURLs {
		form.Add("MediaUrl", media)
	}

	var sendResp SendResponse
	var errResp apiError

	startTime := time.Now()

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetFormDataFromValues(form).
		SetResult(&sendResp).
		SetError(&errResp).
		Post(fmt.Sprintf("/2010-04-01/Accounts/%s/Messages.json", c.accountSID))

	duration := time.Since(startTime)

	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	logger.Infof("Provider send to %s completed in %v (status: %d)", req.To, duration, resp.StatusCode())

	if resp.StatusCode() != http.StatusCreated {
		if errResp.Message != "" {
			return nil, fmt.Errorf("provider rejected send (code %d): %s", errResp.Code, errResp.Message)
		}
		return nil, fmt.Errorf("unexpected status code: %d (expected 201), body: %s", resp.StatusCode(), resp.String())
	}

	if sendResp.ErrorMessage != nil && *sendResp.ErrorMessage != "" {
		return nil, fmt.Errorf("provider send error: %s", *sendResp.ErrorMessage)
	}

	return &sendResp, nil
}
