package store

import (
	"context"

	"tonearm/pkg/domain"
)

// AlbumAggregates carries per-album statistics computed fresh from
// engagement rows at read time.
type AlbumAggregates struct {
	AvgRating     float64
	RatingCount   int
	FavoriteCount int
}

// AlbumWithAggregates pairs an album (with artist name resolved) with its
// aggregates.
type AlbumWithAggregates struct {
	Album      domain.Album
	Aggregates AlbumAggregates
}

// Store defines persistence operations for the catalog, users and
// engagement rows. Uniqueness violations surface as apperr Conflict and
// broken references as apperr NotFound; lookups that can legitimately miss
// return a bool instead of an error.
type Store interface {
	// roles
	CreateRole(ctx context.Context, name string) error
	ListRoles(ctx context.Context) ([]string, error)

	// users
	CreateUser(ctx context.Context, u domain.User) (domain.User, error)
	GetUser(ctx context.Context, id int64) (domain.User, bool, error)
	GetUserByUsername(ctx context.Context, username string) (domain.User, bool, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	CountUsers(ctx context.Context) (int64, error)
	UpdateUser(ctx context.Context, u domain.User) error
	DeleteUser(ctx context.Context, id int64) error

	// artists
	CreateArtist(ctx context.Context, a domain.Artist) (domain.Artist, error)
	GetArtist(ctx context.Context, id int64) (domain.Artist, bool, error)
	GetArtistByName(ctx context.Context, name string) (domain.Artist, bool, error)
	ListArtists(ctx context.Context) ([]domain.Artist, error)
	UpdateArtist(ctx context.Context, a domain.Artist) error
	DeleteArtist(ctx context.Context, id int64) error

	// genres
	CreateGenre(ctx context.Context, g domain.Genre) (domain.Genre, error)
	GetGenre(ctx context.Context, id int64) (domain.Genre, bool, error)
	ListGenres(ctx context.Context) ([]domain.Genre, error)
	UpdateGenre(ctx context.Context, g domain.Genre) error
	DeleteGenre(ctx context.Context, id int64) error
	LinkSubgenre(ctx context.Context, parentID, childID int64) error
	SubgenreParents(ctx context.Context, childID int64) ([]int64, error)

	// albums
	CreateAlbum(ctx context.Context, a domain.Album, genreIDs []int64) (domain.Album, error)
	// CreateAlbumWithArtist creates the artist (unless one with the same
	// name exists), the album and its genre links in one transaction.
	CreateAlbumWithArtist(ctx context.Context, artist domain.Artist, album domain.Album, genreIDs []int64) (domain.Album, error)
	GetAlbum(ctx context.Context, id int64) (domain.Album, bool, error)
	GetAlbumByNameAndArtist(ctx context.Context, albumName, artistName string) (domain.Album, bool, error)
	ListAlbums(ctx context.Context) ([]domain.Album, error)
	UpdateAlbum(ctx context.Context, a domain.Album) error
	DeleteAlbum(ctx context.Context, id int64) error
	LinkAlbumGenre(ctx context.Context, albumID, genreID int64) error
	AlbumGenres(ctx context.Context, albumID int64) ([]domain.Genre, error)
	SearchAlbums(ctx context.Context, keyword string) ([]domain.Album, error)

	// engagement upserts; each touches only its named column plus
	// updated_at and never clobbers the others.
	UpsertRating(ctx context.Context, userID, albumID int64, rating *int) error
	UpsertFavorite(ctx context.Context, userID, albumID int64, favorite bool) error
	UpsertReview(ctx context.Context, userID, albumID int64, review string) error
	GetEngagement(ctx context.Context, userID, albumID int64) (domain.Engagement, bool, error)
	// InsertEngagements performs plain inserts for bulk seeding; duplicate
	// pairs fail with Conflict rather than upserting.
	InsertEngagements(ctx context.Context, rows []domain.Engagement) error

	// aggregates
	AlbumAggregates(ctx context.Context, albumID int64) (AlbumAggregates, error)
	ListAlbumsWithAggregates(ctx context.Context) ([]AlbumWithAggregates, error)
	AlbumReviews(ctx context.Context, albumID int64) ([]domain.Review, error)
	UserRatings(ctx context.Context, userID int64) ([]domain.UserAlbum, error)
	UserFavorites(ctx context.Context, userID int64) ([]domain.UserAlbum, error)
}
