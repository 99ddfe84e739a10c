// Package uploader routes local files to the remote asset host that will
// serve them durably: the image/video CDN for most categories, the GitHub
// release asset store for the categories the CDN's free tier rejects
// (audio, large video).
package uploader

import (
	"context"
	"fmt"

	"github.com/mtldev514/retro-portfolio/pkg/portfolio"
)

// Router picks an asset host per category and delegates the transfer.
// It implements portfolio.Uploader itself so the service never sees the split.
type Router struct {
	cdn               portfolio.Uploader
	release           portfolio.Uploader
	releaseCategories map[string]bool
}

// Config options for the upload router
type Config struct {
	// CDN is the default host (Cloudinary). Required.
	CDN portfolio.Uploader
	// Release is the release-asset host. Optional; without it every category
	// routes to the CDN.
	Release portfolio.Uploader
	// ReleaseCategories name the categories that prefer the release host.
	ReleaseCategories []string
}

// NewRouter creates a new upload router
func NewRouter(config Config) (*Router, error) {
	if config.CDN == nil {
		return nil, fmt.Errorf("cdn uploader is required")
	}
	set := make(map[string]bool, len(config.ReleaseCategories))
	for _, c := range config.ReleaseCategories {
		set[c] = true
	}
	return &Router{
		cdn:               config.CDN,
		release:           config.Release,
		releaseCategories: set,
	}, nil
}

// Upload transfers the file to the routed host and returns its durable URL.
func (r *Router) Upload(ctx context.Context, localPath string, req portfolio.UploadRequest) (string, error) {
	if r.releaseCategories[req.Category] && r.release != nil {
		return r.release.Upload(ctx, localPath, req)
	}
	if req.Resource == "" || req.Resource == portfolio.ResourceAuto {
		if req.Category == "video" {
			req.Resource = portfolio.ResourceVideo
		} else {
			req.Resource = portfolio.ResourceAuto
		}
	}
	return r.cdn.Upload(ctx, localPath, req)
}
