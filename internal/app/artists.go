package app

import (
	"context"
	"strings"

	"tonearm/internal/apperr"
	"tonearm/internal/slug"
	"tonearm/internal/store"
	"tonearm/pkg/domain"
)

// CreateArtist is the input for artist creation.
type CreateArtist struct {
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
}

// ArtistPatch updates an artist; nil fields are left unchanged. A name
// change recomputes the slug.
type ArtistPatch struct {
	Name     *string `json:"name"`
	ImageURL *string `json:"imageUrl"`
}

// ArtistService manages the artist catalog. Mutations are admin-only;
// reads are open.
type ArtistService struct {
	store store.Store
}

var _ EntityService[domain.Artist, CreateArtist, ArtistPatch] = (*ArtistService)(nil)

func (s *ArtistService) Create(ctx context.Context, ident *Identity, in CreateArtist) (domain.Artist, error) {
	if err := requireAdmin(ident); err != nil {
		return domain.Artist{}, err
	}
	name := strings.TrimSpace(in.Name)
	artistSlug := slug.Make(name)
	if artistSlug == "" {
		return domain.Artist{}, apperr.Validationf("name", "name must contain at least one letter or digit")
	}
	return s.store.CreateArtist(ctx, domain.Artist{
		Name:     name,
		Slug:     artistSlug,
		ImageURL: strings.TrimSpace(in.ImageURL),
	})
}

func (s *ArtistService) Get(ctx context.Context, id int64) (domain.Artist, error) {
	artist, found, err := s.store.GetArtist(ctx, id)
	if err != nil {
		return domain.Artist{}, err
	}
	if !found {
		return domain.Artist{}, apperr.NotFoundf("artist not found")
	}
	return artist, nil
}

func (s *ArtistService) List(ctx context.Context) ([]domain.Artist, error) {
	return s.store.ListArtists(ctx)
}

func (s *ArtistService) Update(ctx context.Context, ident *Identity, id int64, patch ArtistPatch) (domain.Artist, error) {
	if err := requireAdmin(ident); err != nil {
		return domain.Artist{}, err
	}
	artist, err := s.Get(ctx, id)
	if err != nil {
		return domain.Artist{}, err
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		artistSlug := slug.Make(name)
		if artistSlug == "" {
			return domain.Artist{}, apperr.Validationf("name", "name must contain at least one letter or digit")
		}
		artist.Name = name
		artist.Slug = artistSlug
	}
	if patch.ImageURL != nil {
		artist.ImageURL = strings.TrimSpace(*patch.ImageURL)
	}
	if err := s.store.UpdateArtist(ctx, artist); err != nil {
		return domain.Artist{}, err
	}
	return artist, nil
}

func (s *ArtistService) Delete(ctx context.Context, ident *Identity, id int64) error {
	if err := requireAdmin(ident); err != nil {
		return err
	}
	return s.store.DeleteArtist(ctx, id)
}
