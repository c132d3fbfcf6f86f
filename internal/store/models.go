package store

import "time"

// GORM models used for persistence. Cascade and uniqueness rules live here:
// usernames, emails, artist names/slugs, album slugs, genre names/slugs and
// embed ids are unique; deleting a user or an album removes its engagement
// rows; deleting an artist is blocked while albums reference it.

type RoleModel struct {
	Name string `gorm:"primaryKey;size:32"`
}

func (RoleModel) TableName() string { return "roles" }

type UserModel struct {
	ID           int64  `gorm:"primaryKey"`
	Username     string `gorm:"uniqueIndex;size:255;not null"`
	Email        string `gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Role         string `gorm:"size:32;not null;default:user"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	RoleRef     RoleModel         `gorm:"foreignKey:Role;references:Name;constraint:OnUpdate:CASCADE"`
	Engagements []EngagementModel `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (UserModel) TableName() string { return "users" }

type ArtistModel struct {
	ID       int64  `gorm:"primaryKey"`
	Name     string `gorm:"uniqueIndex;size:255;not null"`
	Slug     string `gorm:"uniqueIndex;size:255;not null"`
	ImageURL string `gorm:"size:512"`

	Albums []AlbumModel `gorm:"foreignKey:ArtistID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (ArtistModel) TableName() string { return "artists" }

type GenreModel struct {
	ID          int64  `gorm:"primaryKey"`
	Name        string `gorm:"uniqueIndex;size:255;not null"`
	Slug        string `gorm:"uniqueIndex;size:255;not null"`
	Description string `gorm:"type:text"`
	ImageURL    string `gorm:"size:512"`
}

func (GenreModel) TableName() string { return "genres" }

type AlbumModel struct {
	ID          int64   `gorm:"primaryKey"`
	Name        string  `gorm:"size:255;not null"`
	Slug        string  `gorm:"uniqueIndex;size:255;not null"`
	ArtistID    int64   `gorm:"not null;index"`
	CoverURL    string  `gorm:"size:512"`
	ReleaseYear int     `gorm:"not null"`
	EmbedID     *string `gorm:"uniqueIndex;size:255"`

	GenreLinks  []AlbumGenreModel `gorm:"foreignKey:AlbumID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Engagements []EngagementModel `gorm:"foreignKey:AlbumID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (AlbumModel) TableName() string { return "albums" }

// AlbumGenreModel links albums to genres. The composite primary key makes
// genre assignment idempotent-on-pair.
type AlbumGenreModel struct {
	AlbumID int64 `gorm:"primaryKey;autoIncrement:false"`
	GenreID int64 `gorm:"primaryKey;autoIncrement:false"`

	Genre GenreModel `gorm:"foreignKey:GenreID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (AlbumGenreModel) TableName() string { return "album_genres" }

// GenreSubgenreModel holds parent/child genre pairs.
type GenreSubgenreModel struct {
	GenreID    int64 `gorm:"primaryKey;autoIncrement:false"`
	SubgenreID int64 `gorm:"primaryKey;autoIncrement:false"`

	Genre    GenreModel `gorm:"foreignKey:GenreID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Subgenre GenreModel `gorm:"foreignKey:SubgenreID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (GenreSubgenreModel) TableName() string { return "genre_subgenres" }

// EngagementModel is the user x album row. The composite primary key
// guarantees at most one row per pair; every mutation is an
// insert-on-conflict-update against it.
type EngagementModel struct {
	UserID    int64  `gorm:"primaryKey;autoIncrement:false"`
	AlbumID   int64  `gorm:"primaryKey;autoIncrement:false"`
	Rating    *int   `gorm:"check:rating_range,rating >= 1 AND rating <= 5"`
	Favorite  bool   `gorm:"not null;default:false"`
	Review    string `gorm:"type:text;not null;default:''"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (EngagementModel) TableName() string { return "engagements" }
