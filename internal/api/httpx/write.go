package httpx

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fineart/internal/apperr"
	"fineart/internal/store"
)

// WriteFailure renders a failed create/update/delete. Rejections the caller can fix
// come back as 4xx; anything else is logged and reported as WRITE_FAILED. The
// submitted payload is echoed so the client can restore its form.
func WriteFailure(c *gin.Context, log *zap.Logger, err error, resource string, input any) {
	var ae *apperr.AppError
	switch {
	case errors.Is(err, store.ErrArtistRequired):
		ae = apperr.Validation("artistId must name an existing artist")
	case errors.Is(err, store.ErrInvalidParent):
		ae = apperr.Validation("parentId must name an existing board and must not create a cycle")
	default:
		ae = apperr.FromStore(err, resource, func(e error) *apperr.AppError {
			return apperr.WriteFailed("could not save "+resource, e)
		})
	}
	if ae.Code == apperr.CodeWriteFailed {
		log.Error("write failed", zap.String("resource", resource), zap.Error(err))
	}
	apperr.Write(c, ae.WithInput(input))
}

// Invalid renders a validation error with the rejected payload.
func Invalid(c *gin.Context, err error, input any) {
	apperr.Write(c, apperr.Validation(err.Error()).WithInput(input))
}
