package app

import (
	"context"
	"strings"
	"time"

	"tonearm/internal/apperr"
	"tonearm/internal/slug"
	"tonearm/internal/store"
	"tonearm/pkg/domain"
)

// Release years before recorded music make no sense in the catalog.
const minReleaseYear = 1890

// CreateAlbum is the input for album creation against an existing artist.
type CreateAlbum struct {
	Name        string  `json:"name"`
	ArtistID    int64   `json:"artistId"`
	CoverURL    string  `json:"coverUrl"`
	ReleaseYear int     `json:"releaseYear"`
	EmbedID     string  `json:"embedId"`
	GenreIDs    []int64 `json:"genreIds"`
}

// CreateAlbumWithArtistName creates the album and its artist in one shot;
// the artist is reused when one with the same name already exists.
type CreateAlbumWithArtistName struct {
	Name        string  `json:"name"`
	ArtistName  string  `json:"artistName"`
	CoverURL    string  `json:"coverUrl"`
	ReleaseYear int     `json:"releaseYear"`
	EmbedID     string  `json:"embedId"`
	GenreIDs    []int64 `json:"genreIds"`
}

// AlbumPatch updates an album; nil fields are left unchanged. A name
// change recomputes the slug.
type AlbumPatch struct {
	Name        *string `json:"name"`
	ArtistID    *int64  `json:"artistId"`
	CoverURL    *string `json:"coverUrl"`
	ReleaseYear *int    `json:"releaseYear"`
	EmbedID     *string `json:"embedId"`
}

// AlbumService manages the album catalog. Mutations are admin-only; reads
// are open.
type AlbumService struct {
	store store.Store
}

var _ EntityService[domain.Album, CreateAlbum, AlbumPatch] = (*AlbumService)(nil)

func validateReleaseYear(year int) error {
	if year < minReleaseYear || year > time.Now().UTC().Year() {
		return apperr.Validationf("release_year", "release year must be between %d and the current year", minReleaseYear)
	}
	return nil
}

func (s *AlbumService) Create(ctx context.Context, ident *Identity, in CreateAlbum) (domain.Album, error) {
	if err := requireAdmin(ident); err != nil {
		return domain.Album{}, err
	}
	name := strings.TrimSpace(in.Name)
	albumSlug := slug.Make(name)
	if albumSlug == "" {
		return domain.Album{}, apperr.Validationf("name", "name must contain at least one letter or digit")
	}
	if err := validateReleaseYear(in.ReleaseYear); err != nil {
		return domain.Album{}, err
	}
	if _, found, err := s.store.GetArtist(ctx, in.ArtistID); err != nil {
		return domain.Album{}, err
	} else if !found {
		return domain.Album{}, apperr.Validationf("artist_id", "artist %d does not exist", in.ArtistID)
	}
	return s.store.CreateAlbum(ctx, domain.Album{
		Name:        name,
		Slug:        albumSlug,
		ArtistID:    in.ArtistID,
		CoverURL:    strings.TrimSpace(in.CoverURL),
		ReleaseYear: in.ReleaseYear,
		EmbedID:     strings.TrimSpace(in.EmbedID),
	}, in.GenreIDs)
}

// CreateWithArtistName finds or creates the named artist and inserts the
// album plus its genre links in one transaction; any failure rolls the
// whole write back.
func (s *AlbumService) CreateWithArtistName(ctx context.Context, ident *Identity, in CreateAlbumWithArtistName) (domain.Album, error) {
	if err := requireAdmin(ident); err != nil {
		return domain.Album{}, err
	}
	name := strings.TrimSpace(in.Name)
	albumSlug := slug.Make(name)
	if albumSlug == "" {
		return domain.Album{}, apperr.Validationf("name", "name must contain at least one letter or digit")
	}
	artistName := strings.TrimSpace(in.ArtistName)
	artistSlug := slug.Make(artistName)
	if artistSlug == "" {
		return domain.Album{}, apperr.Validationf("artist_name", "artist name must contain at least one letter or digit")
	}
	if err := validateReleaseYear(in.ReleaseYear); err != nil {
		return domain.Album{}, err
	}
	return s.store.CreateAlbumWithArtist(ctx,
		domain.Artist{Name: artistName, Slug: artistSlug},
		domain.Album{
			Name:        name,
			Slug:        albumSlug,
			CoverURL:    strings.TrimSpace(in.CoverURL),
			ReleaseYear: in.ReleaseYear,
			EmbedID:     strings.TrimSpace(in.EmbedID),
		}, in.GenreIDs)
}

func (s *AlbumService) Get(ctx context.Context, id int64) (domain.Album, error) {
	album, found, err := s.store.GetAlbum(ctx, id)
	if err != nil {
		return domain.Album{}, err
	}
	if !found {
		return domain.Album{}, apperr.NotFoundf("album not found")
	}
	return album, nil
}

func (s *AlbumService) List(ctx context.Context) ([]domain.Album, error) {
	return s.store.ListAlbums(ctx)
}

func (s *AlbumService) Update(ctx context.Context, ident *Identity, id int64, patch AlbumPatch) (domain.Album, error) {
	if err := requireAdmin(ident); err != nil {
		return domain.Album{}, err
	}
	album, err := s.Get(ctx, id)
	if err != nil {
		return domain.Album{}, err
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		albumSlug := slug.Make(name)
		if albumSlug == "" {
			return domain.Album{}, apperr.Validationf("name", "name must contain at least one letter or digit")
		}
		album.Name = name
		album.Slug = albumSlug
	}
	if patch.ArtistID != nil {
		if _, found, err := s.store.GetArtist(ctx, *patch.ArtistID); err != nil {
			return domain.Album{}, err
		} else if !found {
			return domain.Album{}, apperr.Validationf("artist_id", "artist %d does not exist", *patch.ArtistID)
		}
		album.ArtistID = *patch.ArtistID
	}
	if patch.CoverURL != nil {
		album.CoverURL = strings.TrimSpace(*patch.CoverURL)
	}
	if patch.ReleaseYear != nil {
		if err := validateReleaseYear(*patch.ReleaseYear); err != nil {
			return domain.Album{}, err
		}
		album.ReleaseYear = *patch.ReleaseYear
	}
	if patch.EmbedID != nil {
		album.EmbedID = strings.TrimSpace(*patch.EmbedID)
	}
	if err := s.store.UpdateAlbum(ctx, album); err != nil {
		return domain.Album{}, err
	}
	return s.Get(ctx, id)
}

func (s *AlbumService) Delete(ctx context.Context, ident *Identity, id int64) error {
	if err := requireAdmin(ident); err != nil {
		return err
	}
	return s.store.DeleteAlbum(ctx, id)
}

// AssignGenre links a genre to an album; assigning the same pair twice is
// a no-op.
func (s *AlbumService) AssignGenre(ctx context.Context, ident *Identity, albumID, genreID int64) error {
	if err := requireAdmin(ident); err != nil {
		return err
	}
	return s.store.LinkAlbumGenre(ctx, albumID, genreID)
}
