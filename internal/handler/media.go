package handler

import (
	"context"

	"github.com/deppfellow/datagate/internal/server"
	"github.com/deppfellow/datagate/internal/validation"
	"github.com/labstack/echo/v4"
)

type MediaService interface {
	SignedURL(ctx context.Context, videoPath string) (string, error)
}

type MediaHandler struct {
	Handler
	media MediaService
}

func NewMediaHandler(s *server.Server, media MediaService) *MediaHandler {
	return &MediaHandler{
		Handler: NewHandler(s),
		media:   media,
	}
}

type SignedURLRequest struct {
	VideoPath string `param:"video_path" validate:"required"`
}

func (r *SignedURLRequest) Validate() error {
	return validation.Struct(r)
}

// SignedURL answers with a presigned GET URL as plain text.
func (h *MediaHandler) SignedURL(c echo.Context, req *SignedURLRequest) (string, error) {
	return h.media.SignedURL(c.Request().Context(), req.VideoPath)
}
