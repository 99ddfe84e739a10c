// Package cloudinary uploads assets to the Cloudinary CDN under a
// per-category folder.
package cloudinary

import (
	"context"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/mtldev514/retro-portfolio/pkg/portfolio"
)

// Backend is a Cloudinary implementation of the portfolio.Uploader interface
type Backend struct {
	client *cloudinary.Cloudinary
	folder string
}

// Config options for the Cloudinary backend
type Config struct {
	CloudName string
	APIKey    string
	APISecret string
	// Folder is the root folder; uploads land under Folder/{category}.
	// Defaults to "portfolio".
	Folder string
}

// New creates a new Cloudinary backend
func New(config Config) (*Backend, error) {
	if config.CloudName == "" || config.APIKey == "" || config.APISecret == "" {
		return nil, fmt.Errorf("cloudinary credentials are required")
	}
	client, err := cloudinary.NewFromParams(config.CloudName, config.APIKey, config.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloudinary client: %w", err)
	}
	client.Config.URL.Secure = true

	folder := config.Folder
	if folder == "" {
		folder = "portfolio"
	}
	return &Backend{client: client, folder: folder}, nil
}

// Upload sends the file to Cloudinary and returns its secure URL.
func (b *Backend) Upload(ctx context.Context, localPath string, req portfolio.UploadRequest) (string, error) {
	resourceType := string(req.Resource)
	if resourceType == "" {
		resourceType = string(portfolio.ResourceAuto)
	}

	resp, err := b.client.Upload.Upload(ctx, localPath, uploader.UploadParams{
		Folder:       fmt.Sprintf("%s/%s", b.folder, req.Category),
		ResourceType: resourceType,
	})
	if err != nil {
		return "", fmt.Errorf("%w: cloudinary: %v", portfolio.ErrUploadFailed, err)
	}
	if resp.Error.Message != "" {
		return "", fmt.Errorf("%w: cloudinary: %s", portfolio.ErrUploadFailed, resp.Error.Message)
	}
	if resp.SecureURL == "" {
		return "", fmt.Errorf("%w: cloudinary returned no secure url", portfolio.ErrUploadFailed)
	}
	return resp.SecureURL, nil
}
