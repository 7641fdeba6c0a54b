package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/taxbridge/taxbridge-api/internal/logger"
)

const (
	TimestampHeader = "X-Timestamp"
	NonceHeader     = "X-Nonce"
	SignatureHeader = "X-Signature"

	// maxClockSkew is how far a request timestamp may drift from server time.
	maxClockSkew = 5 * time.Minute
)

// RequireSignature is the session gate: every inbound request must carry a
// timestamp, a nonce and an HMAC-SHA256 signature over
// method|path|timestamp|nonce|body computed with the shared secret. The path
// is the bare URL path; the query string is outside the signed surface.
//
// Replayed nonces are not rejected; there is no nonce store.
func RequireSignature(secret func() string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := secret()
		if key == "" {
			logger.Error("Session gate secret not configured")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"message": "Server configuration error",
			})
			return
		}

		timestamp := c.GetHeader(TimestampHeader)
		nonce := c.GetHeader(NonceHeader)
		signature := c.GetHeader(SignatureHeader)

		tsMillis, err := strconv.ParseInt(timestamp, 10, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"message": "Request timestamp is missing or malformed",
			})
			return
		}

		skew := time.Duration(math.Abs(float64(time.Now().UnixMilli()-tsMillis))) * time.Millisecond
		if skew > maxClockSkew {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"message": "Request timestamp is too old or too far in the future",
			})
			return
		}

		var body []byte
		if c.Request.Body != nil {
			body, _ = io.ReadAll(c.Request.Body)
			// Restore the body for downstream binding
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
		}

		mac := hmac.New(sha256.New, []byte(key))
		mac.Write([]byte(c.Request.Method))
		mac.Write([]byte("|"))
		mac.Write([]byte(c.Request.URL.Path))
		mac.Write([]byte("|"))
		mac.Write([]byte(timestamp))
		mac.Write([]byte("|"))
		mac.Write([]byte(nonce))
		mac.Write([]byte("|"))
		mac.Write(body)
		expected := hex.EncodeToString(mac.Sum(nil))

		if !hmac.Equal([]byte(expected), []byte(signature)) {
			logger.Warn("Rejected request with invalid signature",
				zap.String("path", c.Request.URL.Path),
				zap.String("correlation_id", GetCorrelationID(c)))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"message": "Invalid signature",
			})
			return
		}

		c.Next()
	}
}
