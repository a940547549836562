package routes

import (
	"net/http"
	"time"

	"memo-notes/src/interface/handler"
	"memo-notes/src/logger"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Handlers groups the HTTP handlers mounted under /api
type Handlers struct {
	Memo     *handler.MemoHandler
	Category *handler.CategoryHandler
	Tag      *handler.TagHandler
}

// HealthCheck reports a component failure, or nil when it is healthy
type HealthCheck func() error

// SetupRoutes sets up all API routes
func SetupRoutes(r *gin.Engine, h Handlers) {
	api := r.Group("/api")

	memos := api.Group("/memos")
	{
		// メモの基本CRUD操作
		memos.POST("", h.Memo.CreateMemo)
		memos.GET("", h.Memo.ListMemos)
		memos.GET("/:id", h.Memo.GetMemo)
		memos.PUT("/:id", h.Memo.ReplaceMemo)
		memos.PATCH("/:id", h.Memo.UpdateMemo)
		memos.DELETE("/:id", h.Memo.DeleteMemo)

		// メモの状態変更
		memos.PATCH("/:id/archive", h.Memo.ArchiveMemo)
		memos.PATCH("/:id/restore", h.Memo.RestoreMemo)
		memos.PATCH("/:id/pin", h.Memo.PinMemo)
		memos.PATCH("/:id/unpin", h.Memo.UnpinMemo)
	}

	categories := api.Group("/categories")
	{
		categories.GET("", h.Category.ListCategories)
		categories.GET("/:id", h.Category.GetCategory)
		categories.GET("/slug/:slug", h.Category.GetCategoryBySlug)
		categories.POST("", h.Category.CreateCategory)
		categories.PUT("/:id", h.Category.UpdateCategory)
		categories.DELETE("/:id", h.Category.DeleteCategory)
	}

	tags := api.Group("/tags")
	{
		tags.GET("", h.Tag.ListTags)
		tags.GET("/:id", h.Tag.GetTag)
		tags.POST("", h.Tag.CreateTag)
		tags.PUT("/:id", h.Tag.UpdateTag)
		tags.DELETE("/:id", h.Tag.DeleteTag)
	}
}

// SetupPublicRoutes mounts the service root, health check and the 404/405
// fallbacks. A failing check turns /health into a 503.
func SetupPublicRoutes(r *gin.Engine, version string, checks map[string]HealthCheck) {
	r.HandleMethodNotAllowed = true

	// NoRouteハンドラー（404）
	r.NoRoute(func(c *gin.Context) {
		logger.WithFields(logrus.Fields{
			"method":    c.Request.Method,
			"uri":       c.Request.RequestURI,
			"client_ip": c.ClientIP(),
		}).Warn("404: ルートが見つかりません")
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
	})

	// NoMethodハンドラー（405）
	r.NoMethod(func(c *gin.Context) {
		logger.WithFields(logrus.Fields{
			"method":    c.Request.Method,
			"uri":       c.Request.RequestURI,
			"client_ip": c.ClientIP(),
		}).Warn("405: サポートされていないメソッド")
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
	})

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Memo Notes API",
			"version": version,
			"service": "memo-notes-api-server",
		})
	})

	// ヘルスチェック用のエンドポイント
	r.GET("/health", func(c *gin.Context) {
		status := http.StatusOK
		components := gin.H{}
		for name, check := range checks {
			if err := check(); err != nil {
				status = http.StatusServiceUnavailable
				components[name] = err.Error()
				continue
			}
			components[name] = "OK"
		}

		overall := "OK"
		if status != http.StatusOK {
			overall = "DEGRADED"
			logger.WithField("components", components).Warn("ヘルスチェックに失敗")
		}

		c.JSON(status, gin.H{
			"status":     overall,
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
			"components": components,
		})
	})
}
