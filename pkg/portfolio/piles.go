package portfolio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Pile operations. Each one runs as a single locked load-mutate-save pass
// through Repository.Update: when a precondition fails mid-flight, no write
// has happened and the file is untouched.

func (s *service) MoveToPile(ctx context.Context, req MoveToPileRequest) (int, error) {
	if req.Category == "" || req.SourceID == "" || req.TargetID == "" {
		return 0, validationf("category, source id and target id are required")
	}
	if req.SourceID == req.TargetID {
		return 0, validationf("source and target must differ")
	}
	if !s.repo.Exists(req.Category) {
		return 0, fmt.Errorf("%w: %s", ErrCategoryNotFound, req.Category)
	}

	var galleryLen int
	err := s.repo.Update(ctx, req.Category, func(entries []*MediaEntry) ([]*MediaEntry, error) {
		srcIdx, tgtIdx := FindEntryPair(entries, req.Category, req.SourceID, req.TargetID)
		if srcIdx < 0 {
			return nil, fmt.Errorf("%w: %s/%s", ErrItemNotFound, req.Category, req.SourceID)
		}
		if tgtIdx < 0 {
			return nil, fmt.Errorf("%w: %s/%s", ErrItemNotFound, req.Category, req.TargetID)
		}
		source, target := entries[srcIdx], entries[tgtIdx]
		if source.URL == "" {
			return nil, validationf("source entry has no primary image")
		}

		// Primary image first, then the source's own gallery in original order.
		moved := append([]string{source.URL}, source.Gallery...)
		target.Gallery = append(target.Gallery, moved...)
		migrateGalleryMetadata(source, target, moved...)

		galleryLen = len(target.Gallery)
		return append(entries[:srcIdx], entries[srcIdx+1:]...), nil
	})
	if err != nil {
		return 0, s.pileError(req.Category, req.SourceID, "move_to_pile", err)
	}

	s.logger.Info("moved to pile", "category", req.Category,
		"source", req.SourceID, "target", req.TargetID, "gallery_len", galleryLen)
	s.touch(ctx)
	return galleryLen, nil
}

func (s *service) ExtractFromPile(ctx context.Context, req ExtractFromPileRequest) (*ExtractResult, error) {
	if req.Category == "" || req.SourceID == "" {
		return nil, validationf("category and source id are required")
	}
	if !s.repo.Exists(req.Category) {
		return nil, fmt.Errorf("%w: %s", ErrCategoryNotFound, req.Category)
	}

	var result *ExtractResult
	err := s.repo.Update(ctx, req.Category, func(entries []*MediaEntry) ([]*MediaEntry, error) {
		srcIdx, source := FindEntry(entries, req.Category, req.SourceID)
		if srcIdx < 0 {
			return nil, fmt.Errorf("%w: %s/%s", ErrItemNotFound, req.Category, req.SourceID)
		}
		if len(source.Gallery) == 0 {
			return nil, validationf("entry %s has no gallery", req.SourceID)
		}
		if req.ImageIndex < 0 || req.ImageIndex >= len(source.Gallery) {
			return nil, fmt.Errorf("%w: %d of %d", ErrInvalidIndex, req.ImageIndex, len(source.Gallery))
		}

		removed := source.Gallery[req.ImageIndex]
		if req.ImageURL != "" && req.ImageURL != removed {
			return nil, validationf("image url does not match gallery element at index %d", req.ImageIndex)
		}
		source.Gallery = append(source.Gallery[:req.ImageIndex], source.Gallery[req.ImageIndex+1:]...)
		delete(source.GalleryMetadata, removed)

		title := req.CustomTitle
		if title == "" {
			sourceTitle := source.Title.English()
			if sourceTitle == "" {
				sourceTitle = "Untitled"
			}
			title = fmt.Sprintf("Photo %d from %s", req.ImageIndex+1, sourceTitle)
		}
		date := source.Date
		if date == "" {
			date = s.today()
		}

		extracted := &MediaEntry{
			ID:          s.newID(req.Category, true),
			Title:       Localize(title),
			Description: Localize(req.CustomDescription),
			URL:         removed,
			Date:        date,
			Created:     s.today(),
		}
		result = &ExtractResult{ID: extracted.ID, Title: title}
		return append(entries, extracted), nil
	})
	if err != nil {
		return nil, s.pileError(req.Category, req.SourceID, "extract_from_pile", err)
	}

	s.logger.Info("extracted from pile", "category", req.Category,
		"source", req.SourceID, "new_id", result.ID)
	s.touch(ctx)
	return result, nil
}

func (s *service) AddToPile(ctx context.Context, req AddToPileRequest) (int, error) {
	if req.Category == "" || req.SourceID == "" || req.TargetID == "" {
		return 0, validationf("category, source id and target id are required")
	}
	if !s.repo.Exists(req.Category) {
		return 0, fmt.Errorf("%w: %s", ErrCategoryNotFound, req.Category)
	}

	var galleryLen int
	err := s.repo.Update(ctx, req.Category, func(entries []*MediaEntry) ([]*MediaEntry, error) {
		srcIdx, tgtIdx := FindEntryPair(entries, req.Category, req.SourceID, req.TargetID)
		if srcIdx < 0 {
			return nil, fmt.Errorf("%w: %s/%s", ErrItemNotFound, req.Category, req.SourceID)
		}
		if tgtIdx < 0 {
			return nil, fmt.Errorf("%w: %s/%s", ErrItemNotFound, req.Category, req.TargetID)
		}
		source, target := entries[srcIdx], entries[tgtIdx]
		if req.ImageIndex < 0 || req.ImageIndex >= len(source.Gallery) {
			return nil, fmt.Errorf("%w: %d of %d", ErrInvalidIndex, req.ImageIndex, len(source.Gallery))
		}

		moved := source.Gallery[req.ImageIndex]
		if req.ImageURL != "" && req.ImageURL != moved {
			return nil, validationf("image url does not match gallery element at index %d", req.ImageIndex)
		}
		source.Gallery = append(source.Gallery[:req.ImageIndex], source.Gallery[req.ImageIndex+1:]...)
		target.Gallery = append(target.Gallery, moved)
		migrateGalleryMetadata(source, target, moved)

		galleryLen = len(target.Gallery)
		return entries, nil
	})
	if err != nil {
		return 0, s.pileError(req.Category, req.SourceID, "add_to_pile", err)
	}

	s.logger.Info("added to pile", "category", req.Category,
		"source", req.SourceID, "target", req.TargetID, "gallery_len", galleryLen)
	s.touch(ctx)
	return galleryLen, nil
}

// pileError wraps storage failures with the operation context; precondition
// errors pass through so callers can match the sentinels.
func (s *service) pileError(category, id, op string, err error) error {
	if errors.Is(err, ErrStorage) {
		return &EntryError{Category: category, ID: id, Op: op, Err: err}
	}
	return err
}

// migrateGalleryMetadata carries per-image metadata along when images move
// between entries, keyed by the moved URLs. Metadata left behind for a URL
// the source no longer holds would be orphaned otherwise.
func migrateGalleryMetadata(source, target *MediaEntry, urls ...string) {
	for _, url := range urls {
		meta, ok := source.GalleryMetadata[url]
		if !ok {
			continue
		}
		if target.GalleryMetadata == nil {
			target.GalleryMetadata = make(map[string]json.RawMessage)
		}
		target.GalleryMetadata[url] = meta
		delete(source.GalleryMetadata, url)
	}
}
