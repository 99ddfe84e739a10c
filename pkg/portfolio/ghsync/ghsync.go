// Package ghsync regenerates the projects category from the admin's GitHub
// repository listing.
package ghsync

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/go-github/v60/github"

	"github.com/mtldev514/retro-portfolio/pkg/portfolio"
)

// noDescription is the localized placeholder for repositories without one.
var noDescription = map[string]string{
	"en": "No description provided.",
	"fr": "Aucune description fournie.",
	"mx": "No se proporcionó descripción.",
	"ht": "Pa gen deskripsyon.",
}

// Syncer fetches the user's repositories and overwrites projects.json with
// the transformed listing. With a token the authenticated listing is used so
// private repositories appear too.
type Syncer struct {
	client        *github.Client
	username      string
	authenticated bool
	repo          portfolio.Repository
}

// Config options for the project syncer
type Config struct {
	Username string
	// Token is optional; without it only public repositories are listed.
	Token string
	Store portfolio.Repository
}

// New creates a new project syncer
func New(config Config) (*Syncer, error) {
	if config.Username == "" {
		return nil, errors.New("github username is required")
	}
	if config.Store == nil {
		return nil, errors.New("media store is required")
	}
	client := github.NewClient(nil)
	if config.Token != "" {
		client = client.WithAuthToken(config.Token)
	}
	return &Syncer{
		client:        client,
		username:      config.Username,
		authenticated: config.Token != "",
		repo:          config.Store,
	}, nil
}

// NewWithClient is New with an injected client; tests point it at a local server.
func NewWithClient(client *github.Client, username string, authenticated bool, store portfolio.Repository) *Syncer {
	return &Syncer{client: client, username: username, authenticated: authenticated, repo: store}
}

// Sync rebuilds the projects file and returns how many entries were written.
// It is a full overwrite, not a merge: the listing is the source of truth.
func (s *Syncer) Sync(ctx context.Context) (int, error) {
	repos, err := s.listRepositories(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing repositories: %w", err)
	}

	entries := make([]*portfolio.MediaEntry, 0, len(repos))
	for _, r := range repos {
		// The authenticated listing includes repos the user only collaborates on.
		if s.authenticated && !strings.EqualFold(r.GetOwner().GetLogin(), s.username) {
			continue
		}
		entries = append(entries, RepoEntry(r))
	}

	if err := s.repo.Save(ctx, "projects", entries); err != nil {
		return 0, err
	}
	return len(entries), nil
}

func (s *Syncer) listRepositories(ctx context.Context) ([]*github.Repository, error) {
	if s.authenticated {
		repos, _, err := s.client.Repositories.ListByAuthenticatedUser(ctx,
			&github.RepositoryListByAuthenticatedUserOptions{
				Sort:        "updated",
				ListOptions: github.ListOptions{PerPage: 100},
			})
		return repos, err
	}
	repos, _, err := s.client.Repositories.ListByUser(ctx, s.username,
		&github.RepositoryListByUserOptions{
			Sort:        "updated",
			ListOptions: github.ListOptions{PerPage: 100},
		})
	return repos, err
}

// RepoEntry maps one repository to a projects entry. Titles stay bare strings
// on purpose: the projects identity rule matches them by name.
func RepoEntry(r *github.Repository) *portfolio.MediaEntry {
	description := portfolio.Localize(r.GetDescription())
	if r.GetDescription() == "" {
		locales := make(map[string]string, len(noDescription))
		for code, text := range noDescription {
			locales[code] = text
		}
		description = &portfolio.Text{Locales: locales}
	}

	visibility := "public"
	if r.GetPrivate() {
		visibility = "private"
	}

	return &portfolio.MediaEntry{
		Title:       &portfolio.Text{Plain: r.GetName()},
		Description: description,
		URL:         r.GetHTMLURL(),
		Visibility:  visibility,
		Date:        r.GetUpdatedAt().Format("2006-01-02"),
		Category:    "projects",
	}
}
