package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cloudflare/cloudflare-go"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rxtech-lab/x402-marketplace/internal/adapter"
)

var (
	ErrNoFile              = errors.New("No file provided")
	ErrUnsupportedFileType = errors.New("Unsupported file type")
	ErrMediaNotConfigured  = errors.New("image hosting is not configured")
)

// UploadResult is what the upload proxy returns to the browser.
type UploadResult struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

// MediaService proxies endpoint preview images to Cloudflare Images
type MediaService interface {
	// UploadImage accepts raw base64 or a data URI.
	UploadImage(ctx context.Context, file string) (*UploadResult, error)
	DeleteImage(ctx context.Context, publicID string) error
}

type mediaService struct {
	client    adapter.CloudflareClient
	accountID string
	variant   string
}

// NewMediaService creates a MediaService. A nil client yields a service whose
// calls fail with ErrMediaNotConfigured.
func NewMediaService(client adapter.CloudflareClient, accountID string, variant string) MediaService {
	return &mediaService{client: client, accountID: accountID, variant: variant}
}

func (s *mediaService) UploadImage(ctx context.Context, file string) (*UploadResult, error) {
	data, err := decodeFile(file)
	if err != nil {
		return nil, err
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFileType, mtype.String())
	}

	if s.client == nil {
		return nil, ErrMediaNotConfigured
	}

	image, err := s.client.UploadImage(ctx, s.resourceContainer(), cloudflare.UploadImageParams{
		File: io.NopCloser(bytes.NewReader(data)),
		Name: uuid.NewString() + mtype.Extension(),
		Metadata: map[string]interface{}{
			"source": "api-endpoint-preview",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}

	return &UploadResult{URL: s.pickVariant(image.Variants), PublicID: image.ID}, nil
}

func (s *mediaService) DeleteImage(ctx context.Context, publicID string) error {
	if publicID == "" {
		return ErrNoFile
	}
	if s.client == nil {
		return ErrMediaNotConfigured
	}
	if err := s.client.DeleteImage(ctx, s.resourceContainer(), publicID); err != nil {
		return fmt.Errorf("failed to delete image %s: %w", publicID, err)
	}
	return nil
}

func (s *mediaService) resourceContainer() *cloudflare.ResourceContainer {
	return &cloudflare.ResourceContainer{
		Level:      cloudflare.AccountRouteLevel,
		Identifier: s.accountID,
	}
}

// pickVariant prefers the delivery URL of the configured variant.
func (s *mediaService) pickVariant(variants []string) string {
	for _, v := range variants {
		if s.variant != "" && strings.HasSuffix(v, "/"+s.variant) {
			return v
		}
	}
	if len(variants) > 0 {
		return variants[0]
	}
	return ""
}

func decodeFile(file string) ([]byte, error) {
	file = strings.TrimSpace(file)
	if strings.HasPrefix(file, "data:") {
		comma := strings.Index(file, ",")
		if comma < 0 {
			return nil, ErrUnsupportedFileType
		}
		file = file[comma+1:]
	}
	if file == "" {
		return nil, ErrNoFile
	}

	data, err := base64.StdEncoding.DecodeString(file)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(file)
		if err != nil {
			return nil, fmt.Errorf("%w: file is not base64 encoded", ErrUnsupportedFileType)
		}
	}
	if len(data) == 0 {
		return nil, ErrNoFile
	}
	return data, nil
}
