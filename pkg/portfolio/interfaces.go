package portfolio

import "context"

// Repository defines persistence over the per-category JSON array files.
type Repository interface {
	// Categories lists the known category names.
	Categories() []string

	// Known reports whether the category name is registered at all.
	Known(category string) bool

	// Exists reports whether the category is known and its file is present.
	// Mutating operations other than first append require this.
	Exists(category string) bool

	// Load reads a category's entries. A missing, empty or unparseable file
	// yields an empty slice: "no data yet", never an error.
	Load(ctx context.Context, category string) ([]*MediaEntry, error)

	// Save rewrites a category's file with the full entry sequence, creating
	// the file on first append. The write must be atomic: a reader never
	// observes a half-written file.
	Save(ctx context.Context, category string, entries []*MediaEntry) error

	// Update runs one load-mutate-save pass under the category's write lock,
	// so concurrent mutations of the same category never lose each other's
	// committed writes. When mutate returns an error nothing is written and
	// the error comes back unchanged. Mutating operations go through Update;
	// Save is for full overwrites that replace whatever is stored.
	Update(ctx context.Context, category string, mutate func([]*MediaEntry) ([]*MediaEntry, error)) error

	// Find locates one entry by the category's identity rule.
	Find(ctx context.Context, category, key string) (*MediaEntry, error)
}

// ResourceKind declares what an uploaded file is, for hosts that care.
type ResourceKind string

const (
	ResourceAuto  ResourceKind = "auto"
	ResourceImage ResourceKind = "image"
	ResourceAudio ResourceKind = "audio"
	ResourceVideo ResourceKind = "video"
)

// UploadRequest carries upload routing inputs alongside the local file path.
type UploadRequest struct {
	Category string
	FileName string
	Resource ResourceKind
}

// Uploader obtains a durable remote URL for a local file. The caller owns the
// local file's lifetime; uploaders never delete it.
type Uploader interface {
	Upload(ctx context.Context, localPath string, req UploadRequest) (string, error)
}

// SiteMarker is the side-effect port fired after every committed mutation.
// Failures are logged by the service, never propagated.
type SiteMarker interface {
	Touch(ctx context.Context) error
}
