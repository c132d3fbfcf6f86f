package domain

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is a registered account. PasswordHash is never serialized.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Artist struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	ImageURL string `json:"imageUrl,omitempty"`
}

type Genre struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// Album with ID 0 is a transient search result that was never persisted.
type Album struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	ArtistID    int64  `json:"artistId"`
	ArtistName  string `json:"artistName,omitempty"`
	CoverURL    string `json:"coverUrl,omitempty"`
	ReleaseYear int    `json:"releaseYear"`
	EmbedID     string `json:"embedId,omitempty"`
}

// Engagement is the per-user-per-album record keyed by (UserID, AlbumID).
// A nil Rating means the user has not rated the album; an empty Review is
// a valid "no review" value distinct from row absence.
type Engagement struct {
	UserID    int64     `json:"userId"`
	AlbumID   int64     `json:"albumId"`
	Rating    *int      `json:"rating"`
	Favorite  bool      `json:"favorite"`
	Review    string    `json:"review"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AlbumStats carries aggregates computed fresh from engagement rows.
// AvgRating is empty when the album has no ratings.
type AlbumStats struct {
	AvgRating     string `json:"avgRating,omitempty"`
	RatingCount   int    `json:"ratingCount"`
	FavoriteCount int    `json:"favoriteCount"`
}

type AlbumWithStats struct {
	Album
	AlbumStats
	Genres []Genre `json:"genres,omitempty"`
}

// Review is an engagement row with non-empty review text joined with the
// reviewing user's name.
type Review struct {
	UserID    int64     `json:"userId"`
	Username  string    `json:"username"`
	AlbumID   int64     `json:"albumId"`
	Rating    *int      `json:"rating"`
	Review    string    `json:"review"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserAlbum is one entry in a user's ratings or favorites collection.
type UserAlbum struct {
	AlbumID    int64  `json:"albumId"`
	AlbumName  string `json:"albumName"`
	ArtistName string `json:"artistName"`
	CoverURL   string `json:"coverUrl,omitempty"`
	Rating     *int   `json:"rating,omitempty"`
	Favorite   bool   `json:"favorite"`
}
