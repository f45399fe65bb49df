package service

import (
	"context"
	"errors"
	"net/url"

	"github.com/deppfellow/datagate/internal/errs"
	"github.com/deppfellow/datagate/internal/lib/storage"
)

// URLSigner is satisfied by *storage.Client.
type URLSigner interface {
	PresignGet(ctx context.Context, objectName string) (*url.URL, error)
}

// MediaService hands out presigned video URLs.
type MediaService struct {
	signer URLSigner
}

func NewMediaService(signer URLSigner) *MediaService {
	return &MediaService{signer: signer}
}

// SignedURL returns a presigned GET URL for videoPath.
func (s *MediaService) SignedURL(ctx context.Context, videoPath string) (string, error) {
	u, err := s.signer.PresignGet(ctx, videoPath)
	switch {
	case errors.Is(err, storage.ErrDisabled):
		return "", errs.NewServiceUnavailableError("object storage is not configured", errs.Ptr(errs.CodeStorageDisabled))
	case errors.Is(err, storage.ErrInvalidObjectName):
		return "", errs.NewBadRequestError(err.Error(), true, nil, []errs.FieldError{{Field: "video_path", Error: "invalid object name"}})
	case err != nil:
		return "", err
	}
	return u.String(), nil
}
