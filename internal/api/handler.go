// Package api exposes the admin REST surface over the portfolio service:
// uploads, content CRUD, pile operations, translations and the GitHub
// project sync.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/mtldev514/retro-portfolio/pkg/portfolio"
	"github.com/mtldev514/retro-portfolio/pkg/portfolio/ghsync"
	"github.com/mtldev514/retro-portfolio/pkg/portfolio/siteconfig"
	"github.com/mtldev514/retro-portfolio/pkg/portfolio/translations"
)

// Handler handles the admin HTTP requests.
type Handler struct {
	service      portfolio.Service
	translations *translations.Store
	syncer       *ghsync.Syncer
	site         *siteconfig.Site
	tempDir      string
}

// Option configures optional handler collaborators.
type Option func(*Handler)

// WithTranslations enables the translations endpoints
func WithTranslations(store *translations.Store) Option {
	return func(h *Handler) {
		h.translations = store
	}
}

// WithSyncer enables the GitHub project sync endpoint
func WithSyncer(s *ghsync.Syncer) Option {
	return func(h *Handler) {
		h.syncer = s
	}
}

// WithSiteConfig enables the config endpoint
func WithSiteConfig(site *siteconfig.Site) Option {
	return func(h *Handler) {
		h.site = site
	}
}

// NewHandler creates a new admin handler. Uploaded files are staged under
// tempDir until the service has processed them.
func NewHandler(service portfolio.Service, tempDir string, opts ...Option) *Handler {
	h := &Handler{service: service, tempDir: tempDir}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes returns the admin API routes.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/upload", h.Upload)
	r.Post("/upload-url", h.UploadFromURL)
	r.Post("/upload/bulk", h.BulkUpload)

	r.Get("/content", h.AllContent)
	r.Get("/content/item", h.SingleItem)
	r.Post("/content/delete", h.DeleteItem)
	r.Post("/content/update", h.UpdateItem)
	r.Post("/content/move-to-pile", h.MoveToPile)
	r.Post("/content/extract-from-pile", h.ExtractFromPile)
	r.Post("/content/add-to-pile", h.AddToPile)

	r.Get("/config", h.SiteConfig)

	r.Get("/translations", h.Translations)
	r.Post("/translations/update", h.UpdateTranslation)
	r.Get("/translations/missing", h.MissingTranslations)

	r.Post("/github/sync", h.SyncProjects)

	return r
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, portfolio.ErrValidation), errors.Is(err, portfolio.ErrInvalidIndex):
		status = http.StatusBadRequest
	case errors.Is(err, portfolio.ErrCategoryNotFound),
		errors.Is(err, portfolio.ErrItemNotFound),
		errors.Is(err, translations.ErrLanguageNotFound):
		status = http.StatusNotFound
	case errors.Is(err, portfolio.ErrUploadFailed):
		status = http.StatusBadGateway
	}
	render.Status(r, status)
	render.JSON(w, r, map[string]any{"error": err.Error()})
}

func (h *Handler) renderSuccess(w http.ResponseWriter, r *http.Request, data any) {
	body := map[string]any{"success": true}
	if data != nil {
		body["data"] = data
	}
	render.JSON(w, r, body)
}

// stageUpload copies one multipart file into the temp dir and returns its
// path. The caller removes it when done, success or not.
func (h *Handler) stageUpload(file io.Reader, name string) (string, error) {
	if err := os.MkdirAll(h.tempDir, 0755); err != nil {
		return "", err
	}
	tmp, err := os.CreateTemp(h.tempDir, "upload-*-"+filepath.Base(name))
	if err != nil {
		return "", err
	}
	defer tmp.Close()
	if _, err := io.Copy(tmp, file); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}

// Upload accepts one multipart file plus its metadata form fields.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]any{"error": "No file part"})
		return
	}
	defer file.Close()

	title := r.FormValue("title")
	category := r.FormValue("category")
	if title == "" || category == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]any{"error": "Title and Category are required"})
		return
	}

	tempPath, err := h.stageUpload(file, header.Filename)
	if err != nil {
		slog.Error("Failed to stage upload", "error", err)
		h.renderError(w, r, err)
		return
	}
	defer os.Remove(tempPath)

	entry, err := h.service.AddItem(r.Context(), portfolio.AddItemRequest{
		FilePath:    tempPath,
		FileName:    header.Filename,
		Title:       title,
		Category:    category,
		Medium:      r.FormValue("medium"),
		Genre:       r.FormValue("genre"),
		Description: r.FormValue("description"),
		Created:     r.FormValue("created"),
	})
	if err != nil {
		slog.Error("Upload failed", "category", category, "error", err)
		h.renderError(w, r, err)
		return
	}
	h.renderSuccess(w, r, entry)
}

// UploadFromURLRequest is the request body for saving an already-hosted asset.
type UploadFromURLRequest struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	Medium      string `json:"medium"`
	Genre       string `json:"genre"`
	Description string `json:"description"`
	Created     string `json:"created"`
}

// UploadFromURL stores a direct URL without uploading anything. For audio
// hosted on the Internet Archive, GitHub Releases and the like.
func (h *Handler) UploadFromURL(w http.ResponseWriter, r *http.Request) {
	var req UploadFromURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]any{"error": err.Error()})
		return
	}
	if req.URL == "" || req.Title == "" || req.Category == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]any{"error": "URL, Title, and Category are required"})
		return
	}

	entry, err := h.service.AddItemFromURL(r.Context(), portfolio.AddItemFromURLRequest{
		URL:         req.URL,
		Title:       req.Title,
		Category:    req.Category,
		Medium:      req.Medium,
		Genre:       req.Genre,
		Description: req.Description,
		Created:     req.Created,
	})
	if err != nil {
		slog.Error("Save from url failed", "category", req.Category, "error", err)
		h.renderError(w, r, err)
		return
	}
	h.renderSuccess(w, r, entry)
}

// bulkItemMeta is the per-file metadata element of a bulk upload.
type bulkItemMeta struct {
	Title       string `json:"title"`
	Category    string `json:"category"`
	Medium      string `json:"medium"`
	Genre       string `json:"genre"`
	Description string `json:"description"`
	Created     string `json:"created"`
}

// BulkUpload accepts several files under "files" plus an "items" form field:
// a JSON array of metadata objects matched to the files by position.
func (h *Handler) BulkUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(64 << 20); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]any{"error": err.Error()})
		return
	}
	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]any{"error": "No files part"})
		return
	}

	var metas []bulkItemMeta
	if raw := r.FormValue("items"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &metas); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]any{"error": "Invalid items metadata: " + err.Error()})
			return
		}
	}
	if len(metas) != len(files) {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]any{"error": "items metadata must match files"})
		return
	}

	reqs := make([]portfolio.AddItemRequest, 0, len(files))
	var staged []string
	defer func() {
		for _, path := range staged {
			os.Remove(path)
		}
	}()

	for i, header := range files {
		f, err := header.Open()
		if err != nil {
			h.renderError(w, r, err)
			return
		}
		path, err := h.stageUpload(f, header.Filename)
		f.Close()
		if err != nil {
			h.renderError(w, r, err)
			return
		}
		staged = append(staged, path)
		reqs = append(reqs, portfolio.AddItemRequest{
			FilePath:    path,
			FileName:    header.Filename,
			Title:       metas[i].Title,
			Category:    metas[i].Category,
			Medium:      metas[i].Medium,
			Genre:       metas[i].Genre,
			Description: metas[i].Description,
			Created:     metas[i].Created,
		})
	}

	result, err := h.service.BulkAdd(r.Context(), reqs)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	h.renderSuccess(w, r, result)
}

// AllContent returns every category's entries in one payload.
func (h *Handler) AllContent(w http.ResponseWriter, r *http.Request) {
	content, err := h.service.ListAll(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	render.JSON(w, r, content)
}

// SingleItem returns one entry by category and id.
func (h *Handler) SingleItem(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	id := r.URL.Query().Get("id")
	if category == "" || id == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]any{"error": "Category and ID are required"})
		return
	}

	entry, err := h.service.GetItem(r.Context(), category, id)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]any{"success": true, "item": entry, "category": category})
}

// ItemRef names one entry.
type ItemRef struct {
	Category string `json:"category"`
	ID       string `json:"id"`
}

// DeleteItem removes one entry.
func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	var req ItemRef
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]any{"error": err.Error()})
		return
	}

	if err := h.service.DeleteItem(r.Context(), req.Category, req.ID); err != nil {
		h.renderError(w, r, err)
		return
	}
	h.renderSuccess(w, r, nil)
}

// UpdateItemRequest is the request body for a partial entry update.
type UpdateItemRequest struct {
	Category string                     `json:"category"`
	ID       string                     `json:"id"`
	Updates  map[string]json.RawMessage `json:"updates"`
}

// UpdateItem merges partial fields into one entry.
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]any{"error": err.Error()})
		return
	}

	if err := h.service.UpdateItem(r.Context(), portfolio.UpdateItemRequest{
		Category: req.Category,
		ID:       req.ID,
		Updates:  req.Updates,
	}); err != nil {
		h.renderError(w, r, err)
		return
	}
	h.renderSuccess(w, r, nil)
}

// PileMoveRequest is the request body for the two-entry pile operations.
type PileMoveRequest struct {
	Category   string `json:"category"`
	SourceID   string `json:"sourceId"`
	TargetID   string `json:"targetId"`
	ImageURL   string `json:"imageUrl"`
	ImageIndex int    `json:"imageIndex"`
}

// MoveToPile folds one entry into another's gallery.
func (h *Handler) MoveToPile(w http.ResponseWriter, r *http.Request) {
	var req PileMoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]any{"error": err.Error()})
		return
	}

	galleryLen, err := h.service.MoveToPile(r.Context(), portfolio.MoveToPileRequest{
		Category: req.Category,
		SourceID: req.SourceID,
		TargetID: req.TargetID,
	})
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	h.renderSuccess(w, r, map[string]any{"galleryLength": galleryLen})
}

// ExtractFromPileRequest is the request body for promoting a gallery image.
type ExtractFromPileRequest struct {
	Category          string `json:"category"`
	SourceID          string `json:"sourceId"`
	ImageURL          string `json:"imageUrl"`
	ImageIndex        int    `json:"imageIndex"`
	CustomTitle       string `json:"customTitle"`
	CustomDescription string `json:"customDescription"`
}

// ExtractFromPile promotes one gallery image to a standalone entry.
func (h *Handler) ExtractFromPile(w http.ResponseWriter, r *http.Request) {
	var req ExtractFromPileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]any{"error": err.Error()})
		return
	}

	result, err := h.service.ExtractFromPile(r.Context(), portfolio.ExtractFromPileRequest{
		Category:          req.Category,
		SourceID:          req.SourceID,
		ImageURL:          req.ImageURL,
		ImageIndex:        req.ImageIndex,
		CustomTitle:       req.CustomTitle,
		CustomDescription: req.CustomDescription,
	})
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	h.renderSuccess(w, r, result)
}

// AddToPile moves one gallery image between two piles.
func (h *Handler) AddToPile(w http.ResponseWriter, r *http.Request) {
	var req PileMoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]any{"error": err.Error()})
		return
	}

	galleryLen, err := h.service.AddToPile(r.Context(), portfolio.AddToPileRequest{
		Category:   req.Category,
		SourceID:   req.SourceID,
		TargetID:   req.TargetID,
		ImageURL:   req.ImageURL,
		ImageIndex: req.ImageIndex,
	})
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	h.renderSuccess(w, r, map[string]any{"galleryLength": galleryLen})
}

// SiteConfig returns the loaded content configuration.
func (h *Handler) SiteConfig(w http.ResponseWriter, r *http.Request) {
	if h.site == nil {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, map[string]any{"error": "no site configuration loaded"})
		return
	}
	render.JSON(w, r, h.site)
}

// Translations returns every language's key/value table.
func (h *Handler) Translations(w http.ResponseWriter, r *http.Request) {
	if h.translations == nil {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, map[string]any{"error": "translations not configured"})
		return
	}
	all, err := h.translations.All()
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	render.JSON(w, r, all)
}

// UpdateTranslationRequest is the request body for a translation edit.
type UpdateTranslationRequest struct {
	Lang  string `json:"lang"`
	Key   string `json:"key"`
	Value string `json:"value"`
}

// UpdateTranslation sets one key in one language file.
func (h *Handler) UpdateTranslation(w http.ResponseWriter, r *http.Request) {
	if h.translations == nil {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, map[string]any{"error": "translations not configured"})
		return
	}
	var req UpdateTranslationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]any{"error": err.Error()})
		return
	}
	if req.Lang == "" || req.Key == "" || req.Value == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]any{"error": "Lang, Key, and Value are required"})
		return
	}

	if err := h.translations.Update(req.Lang, req.Key, req.Value); err != nil {
		h.renderError(w, r, err)
		return
	}
	h.renderSuccess(w, r, nil)
}

// MissingTranslations reports untranslated keys per language.
func (h *Handler) MissingTranslations(w http.ResponseWriter, r *http.Request) {
	if h.translations == nil {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, map[string]any{"error": "translations not configured"})
		return
	}
	missing, err := h.translations.Missing()
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	render.JSON(w, r, missing)
}

// SyncProjects rebuilds projects.json from the GitHub listing.
func (h *Handler) SyncProjects(w http.ResponseWriter, r *http.Request) {
	if h.syncer == nil {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, map[string]any{"error": "github sync not configured"})
		return
	}
	count, err := h.syncer.Sync(r.Context())
	if err != nil {
		slog.Error("GitHub sync failed", "error", err)
		h.renderError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]any{"success": true, "count": count})
}
