package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"tonearm/internal/apperr"
	"tonearm/internal/store"
	"tonearm/pkg/domain"
)

const (
	searchLookupLimit  = 8
	coverFetchParallel = 4
)

// QueryService serves read paths: album stats, reviews, user collections
// and keyword search with the external lookup fallback.
type QueryService struct {
	store  store.Store
	lookup Lookup
	logger *slog.Logger
}

func renderStats(agg store.AlbumAggregates) domain.AlbumStats {
	stats := domain.AlbumStats{
		RatingCount:   agg.RatingCount,
		FavoriteCount: agg.FavoriteCount,
	}
	if agg.RatingCount > 0 {
		stats.AvgRating = fmt.Sprintf("%.2f", agg.AvgRating)
	}
	return stats
}

// AlbumWithStats returns the album with its genres and aggregates computed
// fresh from engagement rows. AvgRating is absent when nobody rated it.
func (s *QueryService) AlbumWithStats(ctx context.Context, albumID int64) (domain.AlbumWithStats, error) {
	album, found, err := s.store.GetAlbum(ctx, albumID)
	if err != nil {
		return domain.AlbumWithStats{}, err
	}
	if !found {
		return domain.AlbumWithStats{}, apperr.NotFoundf("album not found")
	}
	genres, err := s.store.AlbumGenres(ctx, albumID)
	if err != nil {
		return domain.AlbumWithStats{}, err
	}
	agg, err := s.store.AlbumAggregates(ctx, albumID)
	if err != nil {
		return domain.AlbumWithStats{}, err
	}
	return domain.AlbumWithStats{
		Album:      album,
		AlbumStats: renderStats(agg),
		Genres:     genres,
	}, nil
}

// ListAlbumsWithStats returns every album with aggregates, best-rated
// first and unrated albums last.
func (s *QueryService) ListAlbumsWithStats(ctx context.Context) ([]domain.AlbumWithStats, error) {
	rows, err := s.store.ListAlbumsWithAggregates(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.AlbumWithStats, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.AlbumWithStats{
			Album:      row.Album,
			AlbumStats: renderStats(row.Aggregates),
		})
	}
	return out, nil
}

func (s *QueryService) AlbumReviews(ctx context.Context, albumID int64) ([]domain.Review, error) {
	if _, found, err := s.store.GetAlbum(ctx, albumID); err != nil {
		return nil, err
	} else if !found {
		return nil, apperr.NotFoundf("album not found")
	}
	return s.store.AlbumReviews(ctx, albumID)
}

// UserRatings returns the caller's rated albums.
func (s *QueryService) UserRatings(ctx context.Context, ident *Identity) ([]domain.UserAlbum, error) {
	if err := requireIdentity(ident); err != nil {
		return nil, err
	}
	return s.store.UserRatings(ctx, ident.UserID)
}

// UserFavorites returns the caller's favorited albums.
func (s *QueryService) UserFavorites(ctx context.Context, ident *Identity) ([]domain.UserAlbum, error) {
	if err := requireIdentity(ident); err != nil {
		return nil, err
	}
	return s.store.UserFavorites(ctx, ident.UserID)
}

// Search matches the local catalog first; only when nothing matches does
// it consult the external lookup. Externally found candidates come back
// with ID 0 and are never persisted; a candidate whose exact name and
// artist already exist locally is returned as the persisted album
// instead. A lookup failure yields an empty result, never an error.
func (s *QueryService) Search(ctx context.Context, keyword string) ([]domain.Album, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, apperr.Validationf("keyword", "search keyword is required")
	}
	local, err := s.store.SearchAlbums(ctx, keyword)
	if err != nil {
		return nil, err
	}
	if len(local) > 0 {
		return local, nil
	}
	if s.lookup == nil {
		return []domain.Album{}, nil
	}

	albums, err := s.externalSearch(ctx, keyword)
	if err != nil {
		s.logger.WarnContext(ctx, "external search failed", "keyword", keyword, "error", err)
		return []domain.Album{}, nil
	}
	return albums, nil
}

// externalSearch resolves fallback candidates from the lookup. Failures
// come back as LookupUnavailable; Search swallows them into an empty
// result.
func (s *QueryService) externalSearch(ctx context.Context, keyword string) ([]domain.Album, error) {
	releases, err := s.lookup.SearchReleases(ctx, keyword, searchLookupLimit)
	if err != nil {
		return nil, apperr.Wrap(apperr.LookupUnavailable, "search releases", err)
	}

	albums := make([]domain.Album, len(releases))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(coverFetchParallel)
	for i, release := range releases {
		g.Go(func() error {
			if existing, found, err := s.store.GetAlbumByNameAndArtist(gctx, release.Title, release.ArtistName); err == nil && found {
				albums[i] = existing
				return nil
			}
			cover, err := s.lookup.CoverArt(gctx, release.Title, release.ArtistName)
			if err != nil {
				// A missing cover never sinks the search result.
				cover = ""
			}
			albums[i] = domain.Album{
				Name:       release.Title,
				ArtistName: release.ArtistName,
				CoverURL:   cover,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, apperr.Wrap(apperr.LookupUnavailable, "resolve cover art", err)
	}
	return albums, nil
}
