package uploads

import (
	"context"
	"io"
	"net/http"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fineart/internal/api/httpx"
	"fineart/internal/apperr"
	"fineart/internal/domain/media"
	mediastore "fineart/internal/media"
)

// MaxFileSize is the largest accepted upload.
const MaxFileSize = 10 << 20

var allowedTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp", "image/avif"}

type Store interface {
	CreateImage(ctx context.Context, img *media.Image) error
}

type Handler struct {
	Store    Store
	Uploader mediastore.Uploader
	Logger   *zap.Logger
}

// POST /uploads (multipart "file") stores an image and returns its public URL.
func (h *Handler) Upload(c *gin.Context) {
	// multipart framing needs a little room beyond the file itself
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxFileSize+1<<20)

	header, err := c.FormFile("file")
	if err != nil {
		apperr.Write(c, apperr.Validation("a file field is required (max 10 MiB)"))
		return
	}
	if header.Size > MaxFileSize {
		apperr.Write(c, &apperr.AppError{
			Code:       apperr.CodeValidation,
			Message:    "file exceeds 10 MiB",
			HTTPStatus: http.StatusRequestEntityTooLarge,
		})
		return
	}

	f, err := header.Open()
	if err != nil {
		apperr.Write(c, apperr.Validation("could not read upload"))
		return
	}
	defer f.Close()

	mtype, err := mimetype.DetectReader(f)
	if err != nil {
		apperr.Write(c, apperr.Validation("could not read upload"))
		return
	}
	if !mimetype.EqualsAny(mtype.String(), allowedTypes...) {
		apperr.Write(c, &apperr.AppError{
			Code:       apperr.CodeValidation,
			Message:    "unsupported file type " + mtype.String(),
			HTTPStatus: http.StatusUnsupportedMediaType,
		})
		return
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		apperr.Write(c, apperr.Internal(err))
		return
	}

	ctx := c.Request.Context()
	stored, err := h.Uploader.Save(ctx, mtype.Extension(), mtype.String(), f)
	if err != nil {
		h.Logger.Error("store upload failed", zap.String("name", header.Filename), zap.Error(err))
		apperr.Write(c, apperr.WriteFailed("could not store the file", err))
		return
	}

	img := media.Image{
		OriginalPath: stored.Path,
		URL:          stored.URL,
		MimeType:     mtype.String(),
		Size:         header.Size,
	}
	if id := httpx.ActorOf(c).ProfileID; id != "" {
		img.UploadedBy = &id
	}
	if err := h.Store.CreateImage(ctx, &img); err != nil {
		httpx.WriteFailure(c, h.Logger, err, "image", gin.H{"url": stored.URL})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"url": stored.URL, "data": img})
}
