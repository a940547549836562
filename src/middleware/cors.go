package middleware

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"memo-notes/src/logger"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	corsAllowMethods  = "GET, POST, PUT, PATCH, DELETE, OPTIONS"
	corsAllowHeaders  = "Origin, Content-Type, Accept, X-Requested-With, " + RequestIDHeader
	corsExposeHeaders = RequestIDHeader + ", Retry-After"
)

// CORSConfig CORS設定
type CORSConfig struct {
	// AllowedOrigins lists exact origins; empty or "*" allows any origin
	AllowedOrigins []string
	MaxAge         time.Duration
}

func (c CORSConfig) allowAll() bool {
	return len(c.AllowedOrigins) == 0 || slices.Contains(c.AllowedOrigins, "*")
}

// CORSMiddleware CORS設定用のmiddleware
func CORSMiddleware(cfg CORSConfig) gin.HandlerFunc {
	allowAll := cfg.allowAll()
	maxAge := strconv.Itoa(int(cfg.MaxAge.Seconds()))

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		preflight := c.Request.Method == http.MethodOptions

		switch {
		case allowAll:
			c.Header("Access-Control-Allow-Origin", "*")
		case origin == "":
			// ブラウザ以外のクライアントはそのまま通す
			c.Next()
			return
		case slices.ContainsFunc(cfg.AllowedOrigins, func(o string) bool { return strings.EqualFold(o, origin) }):
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		default:
			logger.WithFields(logrus.Fields{
				"origin":    origin,
				"route":     c.FullPath(),
				"preflight": preflight,
			}).Warn("許可されていないオリジンからのリクエスト")

			if preflight {
				c.AbortWithStatus(http.StatusForbidden)
				return
			}
			c.Next()
			return
		}

		c.Header("Access-Control-Expose-Headers", corsExposeHeaders)

		if preflight {
			c.Header("Access-Control-Allow-Methods", corsAllowMethods)
			c.Header("Access-Control-Allow-Headers", corsAllowHeaders)
			if cfg.MaxAge > 0 {
				c.Header("Access-Control-Max-Age", maxAge)
			}

			logger.WithFields(logrus.Fields{
				"origin": origin,
				"route":  c.FullPath(),
			}).Debug("CORS preflight request handled")

			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
