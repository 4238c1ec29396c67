// Package webhook receives and authenticates Jellyseerr issue webhooks.
package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/remediarr/remediarr/core/config"
	"github.com/remediarr/remediarr/internal/http/dto"
	"github.com/remediarr/remediarr/internal/service"
)

const signatureHeader = "X-Jellyseerr-Signature"

// RemediationProcessor is the slice of the remediation service the handler
// depends on.
type RemediationProcessor interface {
	Process(ctx context.Context, payload dto.IssueWebhook) service.Report
}

type JellyseerrWebhookHandler struct {
	cfg         config.WebhookConfig
	remediation RemediationProcessor
}

func NewJellyseerrWebhookHandler(cfg config.WebhookConfig, remediation RemediationProcessor) *JellyseerrWebhookHandler {
	return &JellyseerrWebhookHandler{
		cfg:         cfg,
		remediation: remediation,
	}
}

// HandleIssue authenticates the delivery, decodes it and runs the pipeline.
// Authentication happens against the raw body, before any JSON parsing.
func (h *JellyseerrWebhookHandler) HandleIssue(c *gin.Context) {
	ctx := c.Request.Context()

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	if !h.verifySignature(body, c.GetHeader(signatureHeader)) {
		slog.WarnContext(ctx, "webhook rejected: bad signature")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
		return
	}

	if !h.verifyStaticHeader(c) {
		slog.WarnContext(ctx, "webhook rejected: bad auth header")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid auth header"})
		return
	}

	var payload dto.IssueWebhook
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.WarnContext(ctx, "webhook rejected: undecodable payload", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	report := h.remediation.Process(ctx, payload)

	// Always ack accepted deliveries so the front end does not retry.
	c.JSON(http.StatusOK, report)
}

// verifySignature checks the HMAC-SHA256 of the raw body against the
// "sha256=<hex>" signature header. No configured secret disables the check.
func (h *JellyseerrWebhookHandler) verifySignature(body []byte, header string) bool {
	if h.cfg.SharedSecret == "" {
		return true
	}

	provided, ok := strings.CutPrefix(header, "sha256=")
	if !ok {
		return false
	}

	mac := hmac.New(sha256.New, []byte(h.cfg.SharedSecret))
	mac.Write(body)
	computed := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(computed), []byte(strings.TrimSpace(provided)))
}

// verifyStaticHeader checks the optional fixed header/value pair some
// front-end templates send instead of a signature.
func (h *JellyseerrWebhookHandler) verifyStaticHeader(c *gin.Context) bool {
	if h.cfg.HeaderName == "" || h.cfg.HeaderValue == "" {
		return true
	}
	return c.GetHeader(h.cfg.HeaderName) == h.cfg.HeaderValue
}
