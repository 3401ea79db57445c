package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"grocery-delivery-service/pkg/logger"
)

// ImageStore saves uploaded images and returns their public URL.
type ImageStore interface {
	SaveImage(ctx context.Context, kind string, r io.Reader) (string, error)
	Remove(url string) error
	MaxBytes() int64
}

// attachFunc stores url on a record and returns the response body and the
// image URL it replaced.
type attachFunc func(ctx context.Context, url string) (out any, replaced string, err error)

// uploadImage stores the multipart "image" field and hands its URL to attach.
// The new file is removed again when attach fails, the replaced one when it succeeds.
func uploadImage(c *gin.Context, store ImageStore, kind string, log *zap.Logger, attach attachFunc) {
	// multipart overhead on top of the file itself
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, store.MaxBytes()+1<<20)

	fh, err := c.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondFail(c, http.StatusRequestEntityTooLarge, "validation_error",
				fmt.Sprintf("file exceeds %d MB", store.MaxBytes()>>20))
			return
		}
		respondFail(c, http.StatusBadRequest, "validation_error", "multipart field image is required")
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, log, err)
		return
	}
	defer f.Close()

	ctx := c.Request.Context()
	url, err := store.SaveImage(ctx, kind, f)
	if err != nil {
		respondError(c, log, err)
		return
	}

	out, replaced, err := attach(ctx, url)
	if err != nil {
		if rmErr := store.Remove(url); rmErr != nil {
			logger.WithContext(ctx, log).Warn("failed to remove orphaned upload", zap.String("url", url), zap.Error(rmErr))
		}
		respondError(c, log, err)
		return
	}
	if replaced != "" && replaced != url {
		if rmErr := store.Remove(replaced); rmErr != nil {
			logger.WithContext(ctx, log).Warn("failed to remove replaced upload", zap.String("url", replaced), zap.Error(rmErr))
		}
	}
	respond(c, http.StatusOK, "image uploaded", out)
}
