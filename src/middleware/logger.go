package middleware

import (
	"regexp"
	"slices"
	"time"

	"memo-notes/src/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	// RequestIDHeader リクエストIDを受け渡すヘッダー
	RequestIDHeader = "X-Request-ID"
	// RequestIDKey gin.Contextに保存するリクエストIDのキー
	RequestIDKey = "request_id"
)

var requestIDPattern = regexp.MustCompile(`^[A-Za-z0-9._\-]{1,64}$`)

// RequestID returns the id assigned by LoggerMiddleware, or "" outside it
func RequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}

// LoggerMiddleware 構造化ログを使用したロギングmiddleware。
// quietRoutes に一致するルートは成功時の完了ログを Debug に落とす
func LoggerMiddleware(quietRoutes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		// クライアントが送ったIDは形式が正しい場合のみ引き継ぐ
		requestID := c.GetHeader(RequestIDHeader)
		if !requestIDPattern.MatchString(requestID) {
			requestID = uuid.NewString()
		}
		c.Set(RequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		statusCode := c.Writer.Status()

		logEntry := logger.WithFields(logrus.Fields{
			"request_id":    requestID,
			"method":        c.Request.Method,
			"route":         route,
			"uri":           c.Request.RequestURI,
			"client_ip":     c.ClientIP(),
			"user_agent":    c.Request.UserAgent(),
			"status_code":   statusCode,
			"latency_ms":    time.Since(start).Milliseconds(),
			"response_size": c.Writer.Size(),
		})

		// ステータスコードに応じてログレベルを変更
		switch {
		case statusCode >= 500:
			logEntry.Error("リクエスト完了 - サーバーエラー")
		case statusCode >= 400:
			logEntry.Warn("リクエスト完了 - クライアントエラー")
		case slices.Contains(quietRoutes, route):
			logEntry.Debug("リクエスト完了")
		default:
			logEntry.Info("リクエスト完了")
		}

		if len(c.Errors) > 0 {
			logEntry.WithField("errors", c.Errors.String()).Error("リクエスト処理中にエラーが発生")
		}
	}
}
