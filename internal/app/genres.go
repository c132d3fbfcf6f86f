package app

import (
	"context"
	"strings"

	"tonearm/internal/apperr"
	"tonearm/internal/slug"
	"tonearm/internal/store"
	"tonearm/pkg/domain"
)

// CreateGenre is the input for genre creation.
type CreateGenre struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
}

// GenrePatch updates a genre; nil fields are left unchanged.
type GenrePatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	ImageURL    *string `json:"imageUrl"`
}

// GenreService manages the genre catalog and the subgenre hierarchy.
type GenreService struct {
	store store.Store
}

var _ EntityService[domain.Genre, CreateGenre, GenrePatch] = (*GenreService)(nil)

func (s *GenreService) Create(ctx context.Context, ident *Identity, in CreateGenre) (domain.Genre, error) {
	if err := requireAdmin(ident); err != nil {
		return domain.Genre{}, err
	}
	name := strings.TrimSpace(in.Name)
	genreSlug := slug.Make(name)
	if genreSlug == "" {
		return domain.Genre{}, apperr.Validationf("name", "name must contain at least one letter or digit")
	}
	return s.store.CreateGenre(ctx, domain.Genre{
		Name:        name,
		Slug:        genreSlug,
		Description: strings.TrimSpace(in.Description),
		ImageURL:    strings.TrimSpace(in.ImageURL),
	})
}

func (s *GenreService) Get(ctx context.Context, id int64) (domain.Genre, error) {
	genre, found, err := s.store.GetGenre(ctx, id)
	if err != nil {
		return domain.Genre{}, err
	}
	if !found {
		return domain.Genre{}, apperr.NotFoundf("genre not found")
	}
	return genre, nil
}

func (s *GenreService) List(ctx context.Context) ([]domain.Genre, error) {
	return s.store.ListGenres(ctx)
}

func (s *GenreService) Update(ctx context.Context, ident *Identity, id int64, patch GenrePatch) (domain.Genre, error) {
	if err := requireAdmin(ident); err != nil {
		return domain.Genre{}, err
	}
	genre, err := s.Get(ctx, id)
	if err != nil {
		return domain.Genre{}, err
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		genreSlug := slug.Make(name)
		if genreSlug == "" {
			return domain.Genre{}, apperr.Validationf("name", "name must contain at least one letter or digit")
		}
		genre.Name = name
		genre.Slug = genreSlug
	}
	if patch.Description != nil {
		genre.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.ImageURL != nil {
		genre.ImageURL = strings.TrimSpace(*patch.ImageURL)
	}
	if err := s.store.UpdateGenre(ctx, genre); err != nil {
		return domain.Genre{}, err
	}
	return genre, nil
}

func (s *GenreService) Delete(ctx context.Context, ident *Identity, id int64) error {
	if err := requireAdmin(ident); err != nil {
		return err
	}
	return s.store.DeleteGenre(ctx, id)
}

// AssignSubgenre links childID under parentID. Self-links and links that
// would close a cycle in the hierarchy are rejected; assigning an existing
// pair again is a no-op.
func (s *GenreService) AssignSubgenre(ctx context.Context, ident *Identity, parentID, childID int64) error {
	if err := requireAdmin(ident); err != nil {
		return err
	}
	if parentID == childID {
		return apperr.Validationf("subgenre_id", "a genre cannot be its own subgenre")
	}
	if _, err := s.Get(ctx, parentID); err != nil {
		return err
	}
	if _, err := s.Get(ctx, childID); err != nil {
		return err
	}

	// Walk the parent's ancestors; if the child is already above the
	// parent, the new link would close a cycle.
	visited := map[int64]struct{}{parentID: {}}
	frontier := []int64{parentID}
	for len(frontier) > 0 {
		current := frontier[0]
		frontier = frontier[1:]
		parents, err := s.store.SubgenreParents(ctx, current)
		if err != nil {
			return err
		}
		for _, p := range parents {
			if p == childID {
				return apperr.Validationf("subgenre_id", "assignment would create a genre cycle")
			}
			if _, seen := visited[p]; seen {
				continue
			}
			visited[p] = struct{}{}
			frontier = append(frontier, p)
		}
	}
	return s.store.LinkSubgenre(ctx, parentID, childID)
}
