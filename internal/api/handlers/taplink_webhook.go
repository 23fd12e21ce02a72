package handlers

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jirafa27/TaplinkRetailCRMConnector/internal/config"
	"github.com/jirafa27/TaplinkRetailCRMConnector/internal/service"
	"github.com/jirafa27/TaplinkRetailCRMConnector/internal/taplink"
)

func verifyTaplinkSignature(secret string, body []byte, header string) bool {
	if secret == "" || header == "" {
		return false
	}
	mac := hmac.New(sha1.New, []byte(secret))
	_, _ = mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	// constant-time compare
	return hmac.Equal([]byte(expected), []byte(strings.TrimSpace(header)))
}

// HandleTaplinkWebhook handles POST /webhook/taplink. Taplink signs the raw
// request body with HMAC-SHA1 (hex) in the taplink-signature header; only
// leads.created events reach the pipeline, everything else is acknowledged
// and ignored so Taplink does not retry.
func HandleTaplinkWebhook(cfg *config.Config, crm service.CRMGateway, logger *zap.Logger) gin.HandlerFunc {
	leads := service.NewLeadService(crm, logger)

	return func(c *gin.Context) {
		// Read raw body (the signature is computed over raw bytes)
		bodyBytes, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read body"})
			return
		}

		signature := c.GetHeader("taplink-signature")
		if signature == "" {
			logger.Warn("No signature received in webhook request")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "no signature provided"})
			return
		}
		if !verifyTaplinkSignature(cfg.TaplinkWebhookSecret, bodyBytes, signature) {
			logger.Warn("Invalid webhook signature received")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
			return
		}

		var webhook taplink.Webhook
		if err := json.Unmarshal(bodyBytes, &webhook); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON", "details": err.Error()})
			return
		}

		if webhook.Action != taplink.ActionLeadCreated {
			logger.Info("Ignoring webhook action", zap.String("action", webhook.Action))
			c.JSON(http.StatusOK, gin.H{"status": "ignored", "action": webhook.Action})
			return
		}

		result := leads.ProcessLead(c.Request.Context(), webhook.Data)
		c.JSON(http.StatusOK, result)
	}
}
