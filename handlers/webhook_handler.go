package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ecinar/unified-inbox/environments"
	"github.com/ecinar/unified-inbox/internal/service"
	"github.com/ecinar/unified-inbox/pkg/logger"
	"github.com/ecinar/unified-inbox/pkg/twilio"
)

// WebhookHandler receives inbound message callbacks from the provider.
// Authentication is the provider's request signature, not an API key.
type WebhookHandler struct {
	inbound *service.InboundService
	config  environments.TwilioConfig
}

func NewWebhookHandler(inbound *service.InboundService, cfg environments.TwilioConfig) *WebhookHandler {
	return &WebhookHandler{inbound: inbound, config: cfg}
}

// HandleTwilio godoc
// @Summary Twilio inbound webhook
// @Description Ingests an inbound SMS/WhatsApp message. Requires a valid X-Twilio-Signature; redelivered messages dedup to the original record.
// @Tags webhooks
// @Accept x-www-form-urlencoded
// @Produce json
// @Param X-Twilio-Signature header string true "HMAC-SHA1 request signature"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Failure 401 {object} map[string]any
// @Failure 500 {object} map[string]any
// @Router /api/v1/webhooks/twilio [post]
func (h *WebhookHandler) HandleTwilio(c echo.Context) error {
	req := c.Request()

	signature := req.Header.Get(twilio.SignatureHeader)
	if signature == "" {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "Unauthorized"})
	}

	if err := req.ParseForm(); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "Invalid form payload"})
	}

	params := make(map[string]string, len(req.PostForm))
	for key, values := range req.PostForm {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}

	callbackURL, err := h.callbackURL(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "Invalid request"})
	}

	if !twilio.ValidateSignature(h.config.AuthToken, callbackURL, params, signature) {
		logger.Warnf("Rejected webhook with invalid signature for %s", callbackURL)
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "Invalid signature"})
	}

	hook := service.InboundWebhook{
		From:       params["From"],
		To:         params["To"],
		Body:       params["Body"],
		MessageSid: params["MessageSid"],
	}

	if field := firstMissing(hook); field != "" {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": field + " field is required"})
	}

	result, err := h.inbound.Ingest(c.Request().Context(), hook)
	if err != nil {
		logger.Errorf("Webhook ingestion failed: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, map[string]any{"ok": true, "messageId": result.MessageID})
}

// callbackURL reconstructs the exact URL the provider signed. A
// configured base URL wins over proxy headers.
func (h *WebhookHandler) callbackURL(c echo.Context) (string, error) {
	path := c.Request().URL.Path

	if h.config.WebhookBaseURL != "" {
		return strings.TrimRight(h.config.WebhookBaseURL, "/") + path, nil
	}

	proto := c.Request().Header.Get("X-Forwarded-Proto")
	if proto == "" {
		proto = "https"
	}

	host := c.Request().Host
	if forwarded := c.Request().Header.Get("X-Forwarded-Host"); forwarded != "" {
		host = forwarded
	}
	if host == "" {
		return "", echo.ErrBadRequest
	}

	return proto + "://" + host + path, nil
}

func firstMissing(hook service.InboundWebhook) string {
	switch {
	case hook.From == "":
		return "From"
	case hook.To == "":
		return "To"
	case hook.MessageSid == "":
		return "MessageSid"
	default:
		return ""
	}
}
