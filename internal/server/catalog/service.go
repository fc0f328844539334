// Package catalog stores images in object storage and keeps the category
// index in step with it.
package catalog

import (
	"context"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/postapp/internal/common"
	"github.com/dmitrijs2005/postapp/internal/logging"
	"github.com/dmitrijs2005/postapp/internal/server/index"
	"github.com/dmitrijs2005/postapp/internal/server/models"
	"github.com/dmitrijs2005/postapp/internal/server/storage"
)

// Upload is one image received from a client.
type Upload struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type Service struct {
	objects storage.ObjectStore
	index   index.Repository
	logger  logging.Logger
	now     func() time.Time
}

func NewService(objects storage.ObjectStore, idx index.Repository, logger logging.Logger) *Service {
	return &Service{objects: objects, index: idx, logger: logger.With("module", "catalog"), now: time.Now}
}

// ObjectKey names an upload: the original base name without its extension,
// "_", the upload time in unix milliseconds and an extension chosen by MIME
// type.
func ObjectKey(fileName, contentType string, at time.Time) string {
	base := path.Base(strings.ReplaceAll(fileName, `\`, "/"))
	base = strings.TrimSuffix(base, path.Ext(base))
	return base + "_" + strconv.FormatInt(at.UnixMilli(), 10) + extensionFor(contentType)
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	default:
		return ""
	}
}

// Add stores up under category and records it in the index.
func (s *Service) Add(ctx context.Context, category string, up Upload) (*models.Image, error) {
	if err := common.FirstError(
		common.Required("category", category),
		common.Required("photo", up.FileName),
	); err != nil {
		return nil, err
	}

	key := ObjectKey(up.FileName, up.ContentType, s.now())
	location, err := s.objects.Put(ctx, key, up.Body, up.Size, up.ContentType)
	if err != nil {
		return nil, err
	}

	img := &models.Image{ImageLocation: location, Category: category, S3ObjectKey: key}
	if err := s.index.Put(ctx, *img); err != nil {
		if derr := s.objects.Delete(ctx, key); derr != nil {
			s.logger.Error(ctx, "object stored but not indexed", "key", key, "error", err, "cleanup_error", derr)
		} else {
			s.logger.Warn(ctx, "index write failed, object removed", "key", key, "error", err)
		}
		return nil, fmt.Errorf("index %s: %w", key, err)
	}

	s.logger.Info(ctx, "image added", "key", key, "category", category, "size", up.Size)
	return img, nil
}

// KeysByCategory lists the object keys indexed under category.
func (s *Service) KeysByCategory(ctx context.Context, category string) ([]models.ImageKey, error) {
	if err := common.Required("category", category); err != nil {
		return nil, err
	}
	return s.index.KeysByCategory(ctx, category)
}

func (s *Service) Info(ctx context.Context, key string) (*models.ObjectInfo, error) {
	return s.objects.Head(ctx, key)
}

func (s *Service) DownloadURL(ctx context.Context, key string) (string, error) {
	return s.objects.PresignGet(ctx, key)
}

// Remove deletes the object and then its index record.
func (s *Service) Remove(ctx context.Context, key string) error {
	if err := s.objects.Delete(ctx, key); err != nil {
		return err
	}
	if err := s.index.Delete(ctx, key); err != nil {
		return fmt.Errorf("unindex %s: %w", key, err)
	}
	s.logger.Info(ctx, "image removed", "key", key)
	return nil
}
