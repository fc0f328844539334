// Package httpapi is the REST surface of the image catalog.
package httpapi

import (
	"context"
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/dmitrijs2005/postapp/internal/logging"
	"github.com/dmitrijs2005/postapp/internal/server/catalog"
	"github.com/dmitrijs2005/postapp/internal/server/models"
)

// Catalog is the service behind the routes.
type Catalog interface {
	Add(ctx context.Context, category string, up catalog.Upload) (*models.Image, error)
	KeysByCategory(ctx context.Context, category string) ([]models.ImageKey, error)
	Info(ctx context.Context, key string) (*models.ObjectInfo, error)
	DownloadURL(ctx context.Context, key string) (string, error)
	Remove(ctx context.Context, key string) error
}

// Options tunes the router middleware.
type Options struct {
	RateLimit      float64
	RateBurst      int
	MaxUploadBytes int64
}

type handler struct {
	catalog Catalog
	logger  logging.Logger
}

// NewRouter builds the gin engine. A zero RateLimit disables rate limiting.
func NewRouter(cat Catalog, logger logging.Logger, limiter *RateLimiter, opts Options) *gin.Engine {
	h := &handler{catalog: cat, logger: logger}

	g := gin.New()
	g.Use(gin.Recovery(), RequestIDMiddleware(), LoggingMiddleware(logger))
	g.Use(gzip.Gzip(gzip.DefaultCompression))
	if limiter != nil {
		g.Use(RateLimitMiddleware(limiter))
	}

	g.GET("/health", h.health)

	images := g.Group("/images")
	images.GET("", h.listByCategory)
	images.POST("", MaxBytesMiddleware(opts.MaxUploadBytes), h.upload)
	images.GET("/:objectKey", h.info)
	images.GET("/:objectKey/url", h.downloadURL)
	images.DELETE("/:objectKey", h.remove)

	return g
}

// NewLimiter returns nil when opts disables rate limiting.
func NewLimiter(opts Options) *RateLimiter {
	if opts.RateLimit <= 0 {
		return nil
	}
	return NewRateLimiter(rate.Limit(opts.RateLimit), opts.RateBurst)
}

func (h *handler) fail(c *gin.Context, status int, err error) {
	h.logger.Debug(c.Request.Context(), "request failed",
		"request_id", c.GetString(requestIDKey), "status", status, "error", err)
	c.JSON(status, gin.H{"error": err.Error()})
}

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// example: GET /images?category=lolcats
func (h *handler) listByCategory(c *gin.Context) {
	category := c.Query("category")
	if category == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "category is required"})
		return
	}

	keys, err := h.catalog.KeysByCategory(c.Request.Context(), category)
	if err != nil {
		h.fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, keys)
}

// example: GET /images/lolcat_1491233250126.jpg
func (h *handler) info(c *gin.Context) {
	info, err := h.catalog.Info(c.Request.Context(), c.Param("objectKey"))
	if err != nil {
		h.fail(c, http.StatusNotFound, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

func (h *handler) downloadURL(c *gin.Context) {
	u, err := h.catalog.DownloadURL(c.Request.Context(), c.Param("objectKey"))
	if err != nil {
		h.fail(c, http.StatusNotFound, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": u})
}

// example: POST /images?category=lolcats with a multipart "photo" field
func (h *handler) upload(c *gin.Context) {
	fh, err := c.FormFile("photo")
	if err != nil {
		h.fail(c, http.StatusBadRequest, err)
		return
	}

	f, err := fh.Open()
	if err != nil {
		h.fail(c, http.StatusBadRequest, err)
		return
	}
	defer f.Close()

	img, err := h.catalog.Add(c.Request.Context(), c.Query("category"), catalog.Upload{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	})
	if err != nil {
		h.fail(c, http.StatusBadRequest, err)
		return
	}
	c.JSON(http.StatusOK, img)
}

// example: DELETE /images/lolcat_1491233250126.jpg
func (h *handler) remove(c *gin.Context) {
	key := c.Param("objectKey")
	if err := h.catalog.Remove(c.Request.Context(), key); err != nil {
		h.fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"S3ObjectKey": key})
}
