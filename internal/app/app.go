// Package app implements the application services: catalog, users,
// engagement, queries and the access-control rules between them. Services
// validate input, enforce authorization and delegate persistence to the
// store; they return taxonomy errors that the HTTP layer maps to statuses.
package app

import (
	"context"
	"log/slog"

	"tonearm/internal/musicbrainz"
	"tonearm/internal/store"
)

// Lookup resolves album metadata from an external source. Implemented by
// *musicbrainz.Client; faked in tests.
type Lookup interface {
	SearchReleases(ctx context.Context, keyword string, limit int) ([]musicbrainz.Release, error)
	CoverArt(ctx context.Context, albumName, artistName string) (string, error)
}

// App bundles the services over one store handle.
type App struct {
	Artists    *ArtistService
	Genres     *GenreService
	Albums     *AlbumService
	Users      *UserService
	Engagement *EngagementService
	Queries    *QueryService
}

// New wires the services. lookup may be nil, which disables the external
// search fallback.
func New(st store.Store, lookup Lookup, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	return &App{
		Artists:    &ArtistService{store: st},
		Genres:     &GenreService{store: st},
		Albums:     &AlbumService{store: st},
		Users:      &UserService{store: st, logger: logger},
		Engagement: &EngagementService{store: st},
		Queries:    &QueryService{store: st, lookup: lookup, logger: logger},
	}
}
