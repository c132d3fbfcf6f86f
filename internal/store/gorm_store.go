package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
	"unicode/utf8"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tonearm/internal/apperr"
	"tonearm/pkg/domain"
)

// MaxReviewLength is the upper bound on review text, counted in
// characters, not bytes. The service layer validates it first; the store
// defends it again.
const MaxReviewLength = 2000

// GormStore implements Store using GORM + Postgres.
type GormStore struct {
	db *gorm.DB
}

var _ Store = (*GormStore)(nil)

// NewGormStore opens the DB, runs auto-migrations and seeds the static
// role rows.
func NewGormStore(dsn string) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, apperr.Internalf(err, "open db")
	}
	if err := db.AutoMigrate(
		&RoleModel{},
		&UserModel{},
		&ArtistModel{},
		&GenreModel{},
		&AlbumModel{},
		&AlbumGenreModel{},
		&GenreSubgenreModel{},
		&EngagementModel{},
	); err != nil {
		return nil, apperr.Internalf(err, "auto migrate")
	}
	roles := []RoleModel{{Name: string(domain.RoleAdmin)}, {Name: string(domain.RoleUser)}}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&roles).Error; err != nil {
		return nil, apperr.Internalf(err, "seed roles")
	}
	return &GormStore{db: db}, nil
}

// roles

func (s *GormStore) CreateRole(ctx context.Context, name string) error {
	err := s.db.WithContext(ctx).Create(&RoleModel{Name: name}).Error
	return translate(err, "role already exists")
}

func (s *GormStore) ListRoles(ctx context.Context) ([]string, error) {
	var names []string
	if err := s.db.WithContext(ctx).Model(&RoleModel{}).Order("name ASC").Pluck("name", &names).Error; err != nil {
		return nil, apperr.Internalf(err, "list roles")
	}
	return names, nil
}

// users

func (s *GormStore) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	model := userToModel(u)
	if err := s.db.WithContext(ctx).Create(&model).Error; err != nil {
		return domain.User{}, translate(err, "username or email already taken")
	}
	return userFromModel(model), nil
}

func (s *GormStore) GetUser(ctx context.Context, id int64) (domain.User, bool, error) {
	var model UserModel
	if err := s.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, apperr.Internalf(err, "get user")
	}
	return userFromModel(model), true, nil
}

func (s *GormStore) GetUserByUsername(ctx context.Context, username string) (domain.User, bool, error) {
	var model UserModel
	if err := s.db.WithContext(ctx).First(&model, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, apperr.Internalf(err, "get user by username")
	}
	return userFromModel(model), true, nil
}

func (s *GormStore) ListUsers(ctx context.Context) ([]domain.User, error) {
	var models []UserModel
	if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, apperr.Internalf(err, "list users")
	}
	users := make([]domain.User, 0, len(models))
	for _, m := range models {
		users = append(users, userFromModel(m))
	}
	return users, nil
}

func (s *GormStore) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&UserModel{}).Count(&count).Error; err != nil {
		return 0, apperr.Internalf(err, "count users")
	}
	return count, nil
}

func (s *GormStore) UpdateUser(ctx context.Context, u domain.User) error {
	tx := s.db.WithContext(ctx).Model(&UserModel{}).Where("id = ?", u.ID).Updates(map[string]any{
		"username":      u.Username,
		"email":         u.Email,
		"password_hash": u.PasswordHash,
		"role":          string(u.Role),
		"updated_at":    time.Now().UTC(),
	})
	if tx.Error != nil {
		return translate(tx.Error, "username or email already taken")
	}
	if tx.RowsAffected == 0 {
		return apperr.NotFoundf("user not found")
	}
	return nil
}

func (s *GormStore) DeleteUser(ctx context.Context, id int64) error {
	tx := s.db.WithContext(ctx).Delete(&UserModel{}, "id = ?", id)
	if tx.Error != nil {
		return apperr.Internalf(tx.Error, "delete user")
	}
	if tx.RowsAffected == 0 {
		return apperr.NotFoundf("user not found")
	}
	return nil
}

// artists

func (s *GormStore) CreateArtist(ctx context.Context, a domain.Artist) (domain.Artist, error) {
	model := artistToModel(a)
	if err := s.db.WithContext(ctx).Create(&model).Error; err != nil {
		return domain.Artist{}, translate(err, "artist name or slug already exists")
	}
	return artistFromModel(model), nil
}

func (s *GormStore) GetArtist(ctx context.Context, id int64) (domain.Artist, bool, error) {
	var model ArtistModel
	if err := s.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Artist{}, false, nil
		}
		return domain.Artist{}, false, apperr.Internalf(err, "get artist")
	}
	return artistFromModel(model), true, nil
}

func (s *GormStore) GetArtistByName(ctx context.Context, name string) (domain.Artist, bool, error) {
	var model ArtistModel
	if err := s.db.WithContext(ctx).First(&model, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Artist{}, false, nil
		}
		return domain.Artist{}, false, apperr.Internalf(err, "get artist by name")
	}
	return artistFromModel(model), true, nil
}

func (s *GormStore) ListArtists(ctx context.Context) ([]domain.Artist, error) {
	var models []ArtistModel
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&models).Error; err != nil {
		return nil, apperr.Internalf(err, "list artists")
	}
	artists := make([]domain.Artist, 0, len(models))
	for _, m := range models {
		artists = append(artists, artistFromModel(m))
	}
	return artists, nil
}

func (s *GormStore) UpdateArtist(ctx context.Context, a domain.Artist) error {
	tx := s.db.WithContext(ctx).Model(&ArtistModel{}).Where("id = ?", a.ID).Updates(map[string]any{
		"name":      a.Name,
		"slug":      a.Slug,
		"image_url": a.ImageURL,
	})
	if tx.Error != nil {
		return translate(tx.Error, "artist name or slug already exists")
	}
	if tx.RowsAffected == 0 {
		return apperr.NotFoundf("artist not found")
	}
	return nil
}

func (s *GormStore) DeleteArtist(ctx context.Context, id int64) error {
	tx := s.db.WithContext(ctx).Delete(&ArtistModel{}, "id = ?", id)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrForeignKeyViolated) {
			return apperr.Conflictf("artist still has albums")
		}
		return apperr.Internalf(tx.Error, "delete artist")
	}
	if tx.RowsAffected == 0 {
		return apperr.NotFoundf("artist not found")
	}
	return nil
}

// genres

func (s *GormStore) CreateGenre(ctx context.Context, g domain.Genre) (domain.Genre, error) {
	model := genreToModel(g)
	if err := s.db.WithContext(ctx).Create(&model).Error; err != nil {
		return domain.Genre{}, translate(err, "genre name or slug already exists")
	}
	return genreFromModel(model), nil
}

func (s *GormStore) GetGenre(ctx context.Context, id int64) (domain.Genre, bool, error) {
	var model GenreModel
	if err := s.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Genre{}, false, nil
		}
		return domain.Genre{}, false, apperr.Internalf(err, "get genre")
	}
	return genreFromModel(model), true, nil
}

func (s *GormStore) ListGenres(ctx context.Context) ([]domain.Genre, error) {
	var models []GenreModel
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&models).Error; err != nil {
		return nil, apperr.Internalf(err, "list genres")
	}
	genres := make([]domain.Genre, 0, len(models))
	for _, m := range models {
		genres = append(genres, genreFromModel(m))
	}
	return genres, nil
}

func (s *GormStore) UpdateGenre(ctx context.Context, g domain.Genre) error {
	tx := s.db.WithContext(ctx).Model(&GenreModel{}).Where("id = ?", g.ID).Updates(map[string]any{
		"name":        g.Name,
		"slug":        g.Slug,
		"description": g.Description,
		"image_url":   g.ImageURL,
	})
	if tx.Error != nil {
		return translate(tx.Error, "genre name or slug already exists")
	}
	if tx.RowsAffected == 0 {
		return apperr.NotFoundf("genre not found")
	}
	return nil
}

func (s *GormStore) DeleteGenre(ctx context.Context, id int64) error {
	tx := s.db.WithContext(ctx).Delete(&GenreModel{}, "id = ?", id)
	if tx.Error != nil {
		return apperr.Internalf(tx.Error, "delete genre")
	}
	if tx.RowsAffected == 0 {
		return apperr.NotFoundf("genre not found")
	}
	return nil
}

func (s *GormStore) LinkSubgenre(ctx context.Context, parentID, childID int64) error {
	link := GenreSubgenreModel{GenreID: parentID, SubgenreID: childID}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error
	return translate(err, "subgenre already assigned")
}

func (s *GormStore) SubgenreParents(ctx context.Context, childID int64) ([]int64, error) {
	var parents []int64
	err := s.db.WithContext(ctx).
		Model(&GenreSubgenreModel{}).
		Where("subgenre_id = ?", childID).
		Pluck("genre_id", &parents).Error
	if err != nil {
		return nil, apperr.Internalf(err, "list subgenre parents")
	}
	return parents, nil
}

// albums

func (s *GormStore) CreateAlbum(ctx context.Context, a domain.Album, genreIDs []int64) (domain.Album, error) {
	model := albumToModel(a)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&model).Error; err != nil {
			return translate(err, "album slug or embed id already exists")
		}
		return linkGenres(tx, model.ID, genreIDs)
	})
	if err != nil {
		return domain.Album{}, err
	}
	return s.loadAlbum(ctx, model.ID)
}

func (s *GormStore) CreateAlbumWithArtist(ctx context.Context, artist domain.Artist, album domain.Album, genreIDs []int64) (domain.Album, error) {
	var albumID int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var artistModel ArtistModel
		err := tx.First(&artistModel, "name = ?", artist.Name).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			artistModel = artistToModel(artist)
			if err := tx.Create(&artistModel).Error; err != nil {
				return translate(err, "artist name or slug already exists")
			}
		case err != nil:
			return apperr.Internalf(err, "find artist")
		}

		albumModel := albumToModel(album)
		albumModel.ArtistID = artistModel.ID
		if err := tx.Create(&albumModel).Error; err != nil {
			return translate(err, "album slug or embed id already exists")
		}
		albumID = albumModel.ID
		return linkGenres(tx, albumModel.ID, genreIDs)
	})
	if err != nil {
		return domain.Album{}, err
	}
	return s.loadAlbum(ctx, albumID)
}

func linkGenres(tx *gorm.DB, albumID int64, genreIDs []int64) error {
	for _, genreID := range genreIDs {
		link := AlbumGenreModel{AlbumID: albumID, GenreID: genreID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error; err != nil {
			if errors.Is(err, gorm.ErrForeignKeyViolated) {
				return apperr.NotFoundf("genre %d not found", genreID)
			}
			return apperr.Internalf(err, "link genre")
		}
	}
	return nil
}

type albumRow struct {
	ID          int64
	Name        string
	Slug        string
	ArtistID    int64
	ArtistName  string
	CoverURL    string
	ReleaseYear int
	EmbedID     *string
}

const albumSelect = `
SELECT a.id, a.name, a.slug, a.artist_id, ar.name AS artist_name,
       a.cover_url, a.release_year, a.embed_id
FROM albums a
JOIN artists ar ON ar.id = a.artist_id`

func (s *GormStore) loadAlbum(ctx context.Context, id int64) (domain.Album, error) {
	album, ok, err := s.GetAlbum(ctx, id)
	if err != nil {
		return domain.Album{}, err
	}
	if !ok {
		return domain.Album{}, apperr.NotFoundf("album not found")
	}
	return album, nil
}

func (s *GormStore) GetAlbum(ctx context.Context, id int64) (domain.Album, bool, error) {
	var row albumRow
	tx := s.db.WithContext(ctx).Raw(albumSelect+" WHERE a.id = ?", id).Scan(&row)
	if tx.Error != nil {
		return domain.Album{}, false, apperr.Internalf(tx.Error, "get album")
	}
	if tx.RowsAffected == 0 {
		return domain.Album{}, false, nil
	}
	return albumFromRow(row), true, nil
}

func (s *GormStore) GetAlbumByNameAndArtist(ctx context.Context, albumName, artistName string) (domain.Album, bool, error) {
	var row albumRow
	tx := s.db.WithContext(ctx).Raw(albumSelect+" WHERE a.name = ? AND ar.name = ?", albumName, artistName).Scan(&row)
	if tx.Error != nil {
		return domain.Album{}, false, apperr.Internalf(tx.Error, "get album by name and artist")
	}
	if tx.RowsAffected == 0 {
		return domain.Album{}, false, nil
	}
	return albumFromRow(row), true, nil
}

func (s *GormStore) ListAlbums(ctx context.Context) ([]domain.Album, error) {
	var rows []albumRow
	if err := s.db.WithContext(ctx).Raw(albumSelect + " ORDER BY a.name ASC").Scan(&rows).Error; err != nil {
		return nil, apperr.Internalf(err, "list albums")
	}
	return albumsFromRows(rows), nil
}

func (s *GormStore) UpdateAlbum(ctx context.Context, a domain.Album) error {
	model := albumToModel(a)
	tx := s.db.WithContext(ctx).Model(&AlbumModel{}).Where("id = ?", a.ID).Updates(map[string]any{
		"name":         model.Name,
		"slug":         model.Slug,
		"artist_id":    model.ArtistID,
		"cover_url":    model.CoverURL,
		"release_year": model.ReleaseYear,
		"embed_id":     model.EmbedID,
	})
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrForeignKeyViolated) {
			return apperr.NotFoundf("artist not found")
		}
		return translate(tx.Error, "album slug or embed id already exists")
	}
	if tx.RowsAffected == 0 {
		return apperr.NotFoundf("album not found")
	}
	return nil
}

func (s *GormStore) DeleteAlbum(ctx context.Context, id int64) error {
	tx := s.db.WithContext(ctx).Delete(&AlbumModel{}, "id = ?", id)
	if tx.Error != nil {
		return apperr.Internalf(tx.Error, "delete album")
	}
	if tx.RowsAffected == 0 {
		return apperr.NotFoundf("album not found")
	}
	return nil
}

func (s *GormStore) LinkAlbumGenre(ctx context.Context, albumID, genreID int64) error {
	link := AlbumGenreModel{AlbumID: albumID, GenreID: genreID}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return apperr.NotFoundf("album or genre not found")
	}
	return translate(err, "genre already assigned")
}

func (s *GormStore) AlbumGenres(ctx context.Context, albumID int64) ([]domain.Genre, error) {
	var models []GenreModel
	err := s.db.WithContext(ctx).
		Joins("JOIN album_genres ag ON ag.genre_id = genres.id").
		Where("ag.album_id = ?", albumID).
		Order("genres.name ASC").
		Find(&models).Error
	if err != nil {
		return nil, apperr.Internalf(err, "list album genres")
	}
	genres := make([]domain.Genre, 0, len(models))
	for _, m := range models {
		genres = append(genres, genreFromModel(m))
	}
	return genres, nil
}

func (s *GormStore) SearchAlbums(ctx context.Context, keyword string) ([]domain.Album, error) {
	pattern := "%" + keyword + "%"
	var rows []albumRow
	err := s.db.WithContext(ctx).
		Raw(albumSelect+" WHERE a.name ILIKE ? OR ar.name ILIKE ? ORDER BY a.name ASC", pattern, pattern).
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.Internalf(err, "search albums")
	}
	return albumsFromRows(rows), nil
}

// engagement

var engagementConflictKey = []clause.Column{{Name: "user_id"}, {Name: "album_id"}}

func (s *GormStore) UpsertRating(ctx context.Context, userID, albumID int64, rating *int) error {
	if rating != nil && (*rating < 1 || *rating > 5) {
		return apperr.Validationf("rating", "rating must be between 1 and 5")
	}
	now := time.Now().UTC()
	row := EngagementModel{UserID: userID, AlbumID: albumID, Rating: rating, CreatedAt: now, UpdatedAt: now}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   engagementConflictKey,
		DoUpdates: clause.AssignmentColumns([]string{"rating", "updated_at"}),
	}).Create(&row).Error
	return translateEngagement(err)
}

func (s *GormStore) UpsertFavorite(ctx context.Context, userID, albumID int64, favorite bool) error {
	now := time.Now().UTC()
	row := EngagementModel{UserID: userID, AlbumID: albumID, Favorite: favorite, CreatedAt: now, UpdatedAt: now}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   engagementConflictKey,
		DoUpdates: clause.AssignmentColumns([]string{"favorite", "updated_at"}),
	}).Create(&row).Error
	return translateEngagement(err)
}

func (s *GormStore) UpsertReview(ctx context.Context, userID, albumID int64, review string) error {
	if utf8.RuneCountInString(review) > MaxReviewLength {
		return apperr.Validationf("review", "review exceeds %d characters", MaxReviewLength)
	}
	now := time.Now().UTC()
	row := EngagementModel{UserID: userID, AlbumID: albumID, Review: review, CreatedAt: now, UpdatedAt: now}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   engagementConflictKey,
		DoUpdates: clause.AssignmentColumns([]string{"review", "updated_at"}),
	}).Create(&row).Error
	return translateEngagement(err)
}

func (s *GormStore) GetEngagement(ctx context.Context, userID, albumID int64) (domain.Engagement, bool, error) {
	var model EngagementModel
	err := s.db.WithContext(ctx).First(&model, "user_id = ? AND album_id = ?", userID, albumID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Engagement{}, false, nil
		}
		return domain.Engagement{}, false, apperr.Internalf(err, "get engagement")
	}
	return engagementFromModel(model), true, nil
}

func (s *GormStore) InsertEngagements(ctx context.Context, rows []domain.Engagement) error {
	if len(rows) == 0 {
		return nil
	}
	models := make([]EngagementModel, 0, len(rows))
	now := time.Now().UTC()
	for _, r := range rows {
		if r.Rating != nil && (*r.Rating < 1 || *r.Rating > 5) {
			return apperr.Validationf("rating", "rating must be between 1 and 5")
		}
		if utf8.RuneCountInString(r.Review) > MaxReviewLength {
			return apperr.Validationf("review", "review exceeds %d characters", MaxReviewLength)
		}
		createdAt := r.CreatedAt
		if createdAt.IsZero() {
			createdAt = now
		}
		models = append(models, EngagementModel{
			UserID:    r.UserID,
			AlbumID:   r.AlbumID,
			Rating:    r.Rating,
			Favorite:  r.Favorite,
			Review:    r.Review,
			CreatedAt: createdAt,
			UpdatedAt: createdAt,
		})
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(&models, 500).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Conflictf("duplicate engagement pair in bulk insert")
	}
	return translateEngagement(err)
}

func translateEngagement(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return apperr.NotFoundf("user or album not found")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperr.Conflictf("engagement already exists")
	default:
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return err
		}
		return apperr.Internalf(err, "engagement write failed")
	}
}

// aggregates

func (s *GormStore) AlbumAggregates(ctx context.Context, albumID int64) (AlbumAggregates, error) {
	var row struct {
		AvgRating     sql.NullFloat64
		RatingCount   int
		FavoriteCount int
	}
	err := s.db.WithContext(ctx).Raw(`
SELECT AVG(rating) AS avg_rating,
       COUNT(rating) AS rating_count,
       COUNT(*) FILTER (WHERE favorite) AS favorite_count
FROM engagements
WHERE album_id = ?`, albumID).Scan(&row).Error
	if err != nil {
		return AlbumAggregates{}, apperr.Internalf(err, "album aggregates")
	}
	return AlbumAggregates{
		AvgRating:     row.AvgRating.Float64,
		RatingCount:   row.RatingCount,
		FavoriteCount: row.FavoriteCount,
	}, nil
}

func (s *GormStore) ListAlbumsWithAggregates(ctx context.Context) ([]AlbumWithAggregates, error) {
	var rows []struct {
		albumRow
		AvgRating     sql.NullFloat64
		RatingCount   int
		FavoriteCount int
	}
	err := s.db.WithContext(ctx).Raw(`
SELECT a.id, a.name, a.slug, a.artist_id, ar.name AS artist_name,
       a.cover_url, a.release_year, a.embed_id,
       AVG(e.rating) AS avg_rating,
       COUNT(e.rating) AS rating_count,
       COUNT(*) FILTER (WHERE e.favorite) AS favorite_count
FROM albums a
JOIN artists ar ON ar.id = a.artist_id
LEFT JOIN engagements e ON e.album_id = a.id
GROUP BY a.id, ar.name
ORDER BY avg_rating DESC NULLS LAST, a.name ASC`).Scan(&rows).Error
	if err != nil {
		return nil, apperr.Internalf(err, "list albums with aggregates")
	}
	out := make([]AlbumWithAggregates, 0, len(rows))
	for _, r := range rows {
		out = append(out, AlbumWithAggregates{
			Album: albumFromRow(r.albumRow),
			Aggregates: AlbumAggregates{
				AvgRating:     r.AvgRating.Float64,
				RatingCount:   r.RatingCount,
				FavoriteCount: r.FavoriteCount,
			},
		})
	}
	return out, nil
}

func (s *GormStore) AlbumReviews(ctx context.Context, albumID int64) ([]domain.Review, error) {
	var rows []struct {
		UserID    int64
		Username  string
		AlbumID   int64
		Rating    *int
		Review    string
		CreatedAt time.Time
	}
	err := s.db.WithContext(ctx).Raw(`
SELECT e.user_id, u.username, e.album_id, e.rating, e.review, e.created_at
FROM engagements e
JOIN users u ON u.id = e.user_id
WHERE e.album_id = ? AND e.review <> ''
ORDER BY e.created_at DESC`, albumID).Scan(&rows).Error
	if err != nil {
		return nil, apperr.Internalf(err, "album reviews")
	}
	reviews := make([]domain.Review, 0, len(rows))
	for _, r := range rows {
		reviews = append(reviews, domain.Review{
			UserID:    r.UserID,
			Username:  r.Username,
			AlbumID:   r.AlbumID,
			Rating:    r.Rating,
			Review:    r.Review,
			CreatedAt: r.CreatedAt,
		})
	}
	return reviews, nil
}

func (s *GormStore) UserRatings(ctx context.Context, userID int64) ([]domain.UserAlbum, error) {
	return s.userAlbums(ctx, userID, "e.rating IS NOT NULL")
}

func (s *GormStore) UserFavorites(ctx context.Context, userID int64) ([]domain.UserAlbum, error) {
	return s.userAlbums(ctx, userID, "e.favorite")
}

func (s *GormStore) userAlbums(ctx context.Context, userID int64, filter string) ([]domain.UserAlbum, error) {
	var rows []struct {
		AlbumID    int64
		AlbumName  string
		ArtistName string
		CoverURL   string
		Rating     *int
		Favorite   bool
	}
	err := s.db.WithContext(ctx).Raw(`
SELECT e.album_id, a.name AS album_name, ar.name AS artist_name,
       a.cover_url, e.rating, e.favorite
FROM engagements e
JOIN albums a ON a.id = e.album_id
JOIN artists ar ON ar.id = a.artist_id
WHERE e.user_id = ? AND `+filter+`
ORDER BY a.name ASC`, userID).Scan(&rows).Error
	if err != nil {
		return nil, apperr.Internalf(err, "user albums")
	}
	out := make([]domain.UserAlbum, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.UserAlbum{
			AlbumID:    r.AlbumID,
			AlbumName:  r.AlbumName,
			ArtistName: r.ArtistName,
			CoverURL:   r.CoverURL,
			Rating:     r.Rating,
			Favorite:   r.Favorite,
		})
	}
	return out, nil
}

// translate maps store-level constraint failures into the error taxonomy
// so raw driver detail never leaks to callers.
func translate(err error, conflictMsg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperr.Conflictf("%s", conflictMsg)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return apperr.NotFoundf("referenced record not found")
	default:
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return err
		}
		return apperr.Internalf(err, "store query failed")
	}
}

// model conversions

func userToModel(u domain.User) UserModel {
	return UserModel{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func userFromModel(m UserModel) domain.User {
	return domain.User{
		ID:           m.ID,
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Role:         domain.Role(m.Role),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func artistToModel(a domain.Artist) ArtistModel {
	return ArtistModel{ID: a.ID, Name: a.Name, Slug: a.Slug, ImageURL: a.ImageURL}
}

func artistFromModel(m ArtistModel) domain.Artist {
	return domain.Artist{ID: m.ID, Name: m.Name, Slug: m.Slug, ImageURL: m.ImageURL}
}

func genreToModel(g domain.Genre) GenreModel {
	return GenreModel{ID: g.ID, Name: g.Name, Slug: g.Slug, Description: g.Description, ImageURL: g.ImageURL}
}

func genreFromModel(m GenreModel) domain.Genre {
	return domain.Genre{ID: m.ID, Name: m.Name, Slug: m.Slug, Description: m.Description, ImageURL: m.ImageURL}
}

func albumToModel(a domain.Album) AlbumModel {
	var embedID *string
	if a.EmbedID != "" {
		embedID = &a.EmbedID
	}
	return AlbumModel{
		ID:          a.ID,
		Name:        a.Name,
		Slug:        a.Slug,
		ArtistID:    a.ArtistID,
		CoverURL:    a.CoverURL,
		ReleaseYear: a.ReleaseYear,
		EmbedID:     embedID,
	}
}

func albumFromRow(r albumRow) domain.Album {
	album := domain.Album{
		ID:          r.ID,
		Name:        r.Name,
		Slug:        r.Slug,
		ArtistID:    r.ArtistID,
		ArtistName:  r.ArtistName,
		CoverURL:    r.CoverURL,
		ReleaseYear: r.ReleaseYear,
	}
	if r.EmbedID != nil {
		album.EmbedID = *r.EmbedID
	}
	return album
}

func albumsFromRows(rows []albumRow) []domain.Album {
	albums := make([]domain.Album, 0, len(rows))
	for _, r := range rows {
		albums = append(albums, albumFromRow(r))
	}
	return albums
}

func engagementFromModel(m EngagementModel) domain.Engagement {
	return domain.Engagement{
		UserID:    m.UserID,
		AlbumID:   m.AlbumID,
		Rating:    m.Rating,
		Favorite:  m.Favorite,
		Review:    m.Review,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
