package portfolio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// service implements the Service interface
type service struct {
	repo     Repository
	uploader Uploader
	marker   SiteMarker
	logger   *slog.Logger
	now      func() time.Time
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the media store for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repo = repo
	}
}

// WithUploader sets the upload router used by AddItem and BulkAdd
func WithUploader(u Uploader) Option {
	return func(s *service) {
		s.uploader = u
	}
}

// WithSiteMarker sets the site-timestamp toucher fired after each mutation
func WithSiteMarker(m SiteMarker) Option {
	return func(s *service) {
		s.marker = m
	}
}

// WithLogger sets the structured logger
func WithLogger(l *slog.Logger) Option {
	return func(s *service) {
		s.logger = l
	}
}

// WithClock overrides the time source; tests pin dates and id timestamps with it
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		s.now = now
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		logger: slog.Default(),
		now:    time.Now,
	}

	for _, option := range options {
		option(s)
	}

	if s.repo == nil {
		return nil, fmt.Errorf("repository is required")
	}

	return s, nil
}

// newID generates an entry id. The bare unix timestamp the files historically
// carried collides on rapid successive creations, so a short random fragment
// is appended; the category prefix is load-bearing for readers of the raw files.
func (s *service) newID(category string, extracted bool) string {
	frag := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	if extracted {
		return fmt.Sprintf("%s_extracted_%d_%s", category, s.now().Unix(), frag)
	}
	return fmt.Sprintf("%s_%d_%s", category, s.now().Unix(), frag)
}

func (s *service) today() string {
	return s.now().Format("2006-01-02")
}

// touch fires the site-timestamp marker after a committed mutation. The marker
// sits outside the transactional core: its failure never unwinds a saved write.
func (s *service) touch(ctx context.Context) {
	if s.marker == nil {
		return
	}
	if err := s.marker.Touch(ctx); err != nil {
		s.logger.Warn("site timestamp touch failed", "err", err)
	}
}

func (s *service) AddItem(ctx context.Context, req AddItemRequest) (*MediaEntry, error) {
	if req.Title == "" || req.Category == "" {
		return nil, validationf("title and category are required")
	}
	if req.FilePath == "" {
		return nil, validationf("file is required")
	}
	if !s.repo.Known(req.Category) {
		return nil, fmt.Errorf("%w: %s", ErrCategoryNotFound, req.Category)
	}
	if s.uploader == nil {
		return nil, fmt.Errorf("%w: no uploader configured", ErrUploadFailed)
	}

	url, err := s.uploader.Upload(ctx, req.FilePath, UploadRequest{
		Category: req.Category,
		FileName: req.FileName,
		Resource: req.Resource,
	})
	if err != nil {
		return nil, err
	}

	entry := s.buildEntry(req.Category, req.Title, url, req.Medium, req.Genre, req.Description, req.Created)
	if err := s.append(ctx, req.Category, entry); err != nil {
		return nil, err
	}

	s.logger.Info("item added", "category", req.Category, "id", entry.ID, "url", url)
	s.touch(ctx)
	return entry, nil
}

func (s *service) AddItemFromURL(ctx context.Context, req AddItemFromURLRequest) (*MediaEntry, error) {
	if req.URL == "" || req.Title == "" || req.Category == "" {
		return nil, validationf("url, title and category are required")
	}
	if !s.repo.Known(req.Category) {
		return nil, fmt.Errorf("%w: %s", ErrCategoryNotFound, req.Category)
	}

	entry := s.buildEntry(req.Category, req.Title, req.URL, req.Medium, req.Genre, req.Description, req.Created)
	if err := s.append(ctx, req.Category, entry); err != nil {
		return nil, err
	}

	s.logger.Info("item added from url", "category", req.Category, "id", entry.ID)
	s.touch(ctx)
	return entry, nil
}

func (s *service) BulkAdd(ctx context.Context, reqs []AddItemRequest) (*BulkResult, error) {
	result := &BulkResult{Items: make([]BulkItemResult, 0, len(reqs))}
	for i, req := range reqs {
		entry, err := s.AddItem(ctx, req)
		if err != nil {
			result.Failed++
			result.Items = append(result.Items, BulkItemResult{Index: i, Error: err.Error()})
			s.logger.Warn("bulk add element failed", "index", i, "title", req.Title, "err", err)
			continue
		}
		result.Succeeded++
		result.Items = append(result.Items, BulkItemResult{Index: i, Entry: entry})
	}
	return result, nil
}

func (s *service) GetItem(ctx context.Context, category, id string) (*MediaEntry, error) {
	if category == "" || id == "" {
		return nil, validationf("category and id are required")
	}
	if !s.repo.Exists(category) {
		return nil, fmt.Errorf("%w: %s", ErrCategoryNotFound, category)
	}
	return s.repo.Find(ctx, category, id)
}

func (s *service) ListAll(ctx context.Context) (map[string][]*MediaEntry, error) {
	all := make(map[string][]*MediaEntry)
	for _, category := range s.repo.Categories() {
		entries, err := s.repo.Load(ctx, category)
		if err != nil {
			return nil, err
		}
		all[category] = entries
	}
	return all, nil
}

func (s *service) DeleteItem(ctx context.Context, category, id string) error {
	if category == "" || id == "" {
		return validationf("category and id are required")
	}
	if !s.repo.Exists(category) {
		return fmt.Errorf("%w: %s", ErrCategoryNotFound, category)
	}

	err := s.repo.Update(ctx, category, func(entries []*MediaEntry) ([]*MediaEntry, error) {
		idx, _ := FindEntry(entries, category, id)
		if idx < 0 {
			return nil, fmt.Errorf("%w: %s/%s", ErrItemNotFound, category, id)
		}
		return append(entries[:idx], entries[idx+1:]...), nil
	})
	if err != nil {
		if errors.Is(err, ErrStorage) {
			return &EntryError{Category: category, ID: id, Op: "delete", Err: err}
		}
		return err
	}

	s.logger.Info("item deleted", "category", category, "id", id)
	s.touch(ctx)
	return nil
}

func (s *service) UpdateItem(ctx context.Context, req UpdateItemRequest) error {
	if req.Category == "" || req.ID == "" || len(req.Updates) == 0 {
		return validationf("category, id and updates are required")
	}
	if !s.repo.Exists(req.Category) {
		return fmt.Errorf("%w: %s", ErrCategoryNotFound, req.Category)
	}

	err := s.repo.Update(ctx, req.Category, func(entries []*MediaEntry) ([]*MediaEntry, error) {
		idx, entry := FindEntry(entries, req.Category, req.ID)
		if idx < 0 {
			return nil, fmt.Errorf("%w: %s/%s", ErrItemNotFound, req.Category, req.ID)
		}
		if err := entry.Merge(req.Updates); err != nil {
			return nil, validationf("%v", err)
		}
		return entries, nil
	})
	if err != nil {
		if errors.Is(err, ErrStorage) {
			return &EntryError{Category: req.Category, ID: req.ID, Op: "update", Err: err}
		}
		return err
	}

	s.logger.Info("item updated", "category", req.Category, "id", req.ID)
	s.touch(ctx)
	return nil
}

// buildEntry assembles a fresh MediaEntry for the creation paths. The date
// field records the upload date and is set exactly once here; created is the
// caller's "work created" date, defaulting to the upload date.
func (s *service) buildEntry(category, title, url, medium, genre, description, created string) *MediaEntry {
	if created == "" {
		created = s.today()
	}
	return &MediaEntry{
		ID:          s.newID(category, false),
		Title:       Localize(title),
		Medium:      LocalizeOptional(medium),
		Genre:       LocalizeOptional(genre),
		Description: LocalizeOptional(description),
		URL:         url,
		Date:        s.today(),
		Created:     created,
	}
}

// append adds the entry in one locked load-mutate-save pass, creating the
// category file lazily on first append.
func (s *service) append(ctx context.Context, category string, entry *MediaEntry) error {
	err := s.repo.Update(ctx, category, func(entries []*MediaEntry) ([]*MediaEntry, error) {
		return append(entries, entry), nil
	})
	if err != nil {
		return &EntryError{Category: category, ID: entry.ID, Op: "append", Err: err}
	}
	return nil
}
