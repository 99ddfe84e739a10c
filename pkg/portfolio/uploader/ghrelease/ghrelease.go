// Package ghrelease uploads assets to a long-lived GitHub release that acts
// as a free binary store for media the CDN won't take.
package ghrelease

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/go-github/v60/github"

	"github.com/mtldev514/retro-portfolio/pkg/portfolio"
)

// Backend is a GitHub release-asset implementation of the portfolio.Uploader
// interface. All assets hang off one release looked up by a fixed tag.
type Backend struct {
	client *github.Client
	owner  string
	repo   string
	tag    string
	now    func() time.Time
}

// Config options for the release-asset backend
type Config struct {
	Token string
	Owner string
	Repo  string
	// Tag of the media release. Defaults to "media".
	Tag string
}

// New creates a new release-asset backend
func New(config Config) (*Backend, error) {
	if config.Token == "" {
		return nil, errors.New("github token is required")
	}
	if config.Owner == "" || config.Repo == "" {
		return nil, errors.New("github owner and repo are required")
	}
	tag := config.Tag
	if tag == "" {
		tag = "media"
	}
	return &Backend{
		client: github.NewClient(nil).WithAuthToken(config.Token),
		owner:  config.Owner,
		repo:   config.Repo,
		tag:    tag,
		now:    time.Now,
	}, nil
}

// NewWithClient creates a backend around an existing client; tests point it
// at an httptest server.
func NewWithClient(client *github.Client, owner, repo, tag string) *Backend {
	return &Backend{client: client, owner: owner, repo: repo, tag: tag, now: time.Now}
}

// Upload pushes the file as a release asset and returns its public download URL.
func (b *Backend) Upload(ctx context.Context, localPath string, req portfolio.UploadRequest) (string, error) {
	release, err := b.getOrCreateRelease(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: release lookup: %v", portfolio.ErrUploadFailed, err)
	}

	name := req.FileName
	if name == "" {
		name = filepath.Base(localPath)
	}

	file, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("%w: opening %s: %v", portfolio.ErrUploadFailed, localPath, err)
	}
	defer file.Close()

	asset, _, err := b.client.Repositories.UploadReleaseAsset(ctx, b.owner, b.repo, release.GetID(),
		&github.UploadOptions{
			Name:      AssetName(b.now(), name),
			MediaType: ContentTypeForFile(name),
		}, file)
	if err != nil {
		return "", fmt.Errorf("%w: github asset upload: %v", portfolio.ErrUploadFailed, err)
	}
	return asset.GetBrowserDownloadURL(), nil
}

// getOrCreateRelease fetches the media release by tag, creating it when
// absent. A create that loses the race reports "already_exists"; that is
// success, re-fetch and carry on.
func (b *Backend) getOrCreateRelease(ctx context.Context) (*github.RepositoryRelease, error) {
	release, resp, err := b.client.Repositories.GetReleaseByTag(ctx, b.owner, b.repo, b.tag)
	if err == nil {
		return release, nil
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		return nil, err
	}

	release, _, err = b.client.Repositories.CreateRelease(ctx, b.owner, b.repo, &github.RepositoryRelease{
		TagName: github.String(b.tag),
		Name:    github.String("Media Assets"),
		Body:    github.String("Permanent storage for portfolio media files."),
	})
	if err == nil {
		return release, nil
	}

	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) {
		for _, e := range ghErr.Errors {
			if e.Code == "already_exists" {
				release, _, err = b.client.Repositories.GetReleaseByTag(ctx, b.owner, b.repo, b.tag)
				return release, err
			}
		}
	}
	return nil, err
}

// AssetName prefixes the file name with a unix timestamp so re-uploads of the
// same file name do not collide with earlier assets.
func AssetName(now time.Time, fileName string) string {
	return fmt.Sprintf("%d_%s", now.Unix(), fileName)
}

// contentTypes maps file extensions to upload content types.
var contentTypes = map[string]string{
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".ogg":  "audio/ogg",
	".m4a":  "audio/mp4",
	".flac": "audio/flac",
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".webm": "video/webm",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".pdf":  "application/pdf",
}

// ContentTypeForFile resolves the upload content type from the file
// extension, falling back to a generic binary type.
func ContentTypeForFile(fileName string) string {
	if ct, ok := contentTypes[strings.ToLower(filepath.Ext(fileName))]; ok {
		return ct
	}
	return "application/octet-stream"
}
