package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"tonearm/internal/apperr"
	"tonearm/pkg/domain"
)

type engagementKey struct {
	userID  int64
	albumID int64
}

type memEngagement struct {
	domain.Engagement
	seq int64
}

// MemoryStore is an in-memory Store used by tests and local development.
// It enforces the same uniqueness, reference and cascade rules as the SQL
// schema so the two backends are interchangeable.
type MemoryStore struct {
	mu sync.Mutex

	nextUserID   int64
	nextArtistID int64
	nextGenreID  int64
	nextAlbumID  int64
	nextSeq      int64

	roles       map[string]struct{}
	users       map[int64]domain.User
	artists     map[int64]domain.Artist
	genres      map[int64]domain.Genre
	albums      map[int64]domain.Album
	albumGenres map[int64]map[int64]struct{}
	subgenres   map[int64]map[int64]struct{}
	engagements map[engagementKey]memEngagement
}

// NewMemoryStore returns an empty store with the static roles seeded.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		roles: map[string]struct{}{
			string(domain.RoleAdmin): {},
			string(domain.RoleUser):  {},
		},
		users:       make(map[int64]domain.User),
		artists:     make(map[int64]domain.Artist),
		genres:      make(map[int64]domain.Genre),
		albums:      make(map[int64]domain.Album),
		albumGenres: make(map[int64]map[int64]struct{}),
		subgenres:   make(map[int64]map[int64]struct{}),
		engagements: make(map[engagementKey]memEngagement),
	}
}

var _ Store = (*MemoryStore)(nil)

// roles

func (s *MemoryStore) CreateRole(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.roles[name]; ok {
		return apperr.Conflictf("role already exists")
	}
	s.roles[name] = struct{}{}
	return nil
}

func (s *MemoryStore) ListRoles(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.roles))
	for name := range s.roles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// users

func (s *MemoryStore) CreateUser(_ context.Context, u domain.User) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return domain.User{}, apperr.Conflictf("username or email already taken")
		}
	}
	if _, ok := s.roles[string(u.Role)]; !ok {
		return domain.User{}, apperr.NotFoundf("referenced record not found")
	}
	s.nextUserID++
	u.ID = s.nextUserID
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = u.CreatedAt
	s.users[u.ID] = u
	return u, nil
}

func (s *MemoryStore) GetUser(_ context.Context, id int64) (domain.User, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	return u, ok, nil
}

func (s *MemoryStore) GetUserByUsername(_ context.Context, username string) (domain.User, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			return u, true, nil
		}
	}
	return domain.User{}, false, nil
}

func (s *MemoryStore) ListUsers(_ context.Context) ([]domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool {
		if !users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].CreatedAt.Before(users[j].CreatedAt)
		}
		return users[i].ID < users[j].ID
	})
	return users, nil
}

func (s *MemoryStore) CountUsers(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.users)), nil
}

func (s *MemoryStore) UpdateUser(_ context.Context, u domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.users[u.ID]
	if !ok {
		return apperr.NotFoundf("user not found")
	}
	for id, other := range s.users {
		if id == u.ID {
			continue
		}
		if other.Username == u.Username || other.Email == u.Email {
			return apperr.Conflictf("username or email already taken")
		}
	}
	if _, ok := s.roles[string(u.Role)]; !ok {
		return apperr.NotFoundf("referenced record not found")
	}
	u.CreatedAt = existing.CreatedAt
	u.UpdatedAt = time.Now().UTC()
	s.users[u.ID] = u
	return nil
}

func (s *MemoryStore) DeleteUser(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return apperr.NotFoundf("user not found")
	}
	delete(s.users, id)
	for key := range s.engagements {
		if key.userID == id {
			delete(s.engagements, key)
		}
	}
	return nil
}

// artists

func (s *MemoryStore) CreateArtist(_ context.Context, a domain.Artist) (domain.Artist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.artistUnique(a, 0); err != nil {
		return domain.Artist{}, err
	}
	s.nextArtistID++
	a.ID = s.nextArtistID
	s.artists[a.ID] = a
	return a, nil
}

func (s *MemoryStore) artistUnique(a domain.Artist, selfID int64) error {
	for id, existing := range s.artists {
		if id == selfID {
			continue
		}
		if existing.Name == a.Name || existing.Slug == a.Slug {
			return apperr.Conflictf("artist name or slug already exists")
		}
	}
	return nil
}

func (s *MemoryStore) GetArtist(_ context.Context, id int64) (domain.Artist, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.artists[id]
	return a, ok, nil
}

func (s *MemoryStore) GetArtistByName(_ context.Context, name string) (domain.Artist, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.artists {
		if a.Name == name {
			return a, true, nil
		}
	}
	return domain.Artist{}, false, nil
}

func (s *MemoryStore) ListArtists(_ context.Context) ([]domain.Artist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	artists := make([]domain.Artist, 0, len(s.artists))
	for _, a := range s.artists {
		artists = append(artists, a)
	}
	sort.Slice(artists, func(i, j int) bool { return artists[i].Name < artists[j].Name })
	return artists, nil
}

func (s *MemoryStore) UpdateArtist(_ context.Context, a domain.Artist) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.artists[a.ID]; !ok {
		return apperr.NotFoundf("artist not found")
	}
	if err := s.artistUnique(a, a.ID); err != nil {
		return err
	}
	s.artists[a.ID] = a
	return nil
}

func (s *MemoryStore) DeleteArtist(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.artists[id]; !ok {
		return apperr.NotFoundf("artist not found")
	}
	for _, album := range s.albums {
		if album.ArtistID == id {
			return apperr.Conflictf("artist still has albums")
		}
	}
	delete(s.artists, id)
	return nil
}

// genres

func (s *MemoryStore) CreateGenre(_ context.Context, g domain.Genre) (domain.Genre, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.genreUnique(g, 0); err != nil {
		return domain.Genre{}, err
	}
	s.nextGenreID++
	g.ID = s.nextGenreID
	s.genres[g.ID] = g
	return g, nil
}

func (s *MemoryStore) genreUnique(g domain.Genre, selfID int64) error {
	for id, existing := range s.genres {
		if id == selfID {
			continue
		}
		if existing.Name == g.Name || existing.Slug == g.Slug {
			return apperr.Conflictf("genre name or slug already exists")
		}
	}
	return nil
}

func (s *MemoryStore) GetGenre(_ context.Context, id int64) (domain.Genre, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.genres[id]
	return g, ok, nil
}

func (s *MemoryStore) ListGenres(_ context.Context) ([]domain.Genre, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	genres := make([]domain.Genre, 0, len(s.genres))
	for _, g := range s.genres {
		genres = append(genres, g)
	}
	sort.Slice(genres, func(i, j int) bool { return genres[i].Name < genres[j].Name })
	return genres, nil
}

func (s *MemoryStore) UpdateGenre(_ context.Context, g domain.Genre) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.genres[g.ID]; !ok {
		return apperr.NotFoundf("genre not found")
	}
	if err := s.genreUnique(g, g.ID); err != nil {
		return err
	}
	s.genres[g.ID] = g
	return nil
}

func (s *MemoryStore) DeleteGenre(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.genres[id]; !ok {
		return apperr.NotFoundf("genre not found")
	}
	delete(s.genres, id)
	for _, links := range s.albumGenres {
		delete(links, id)
	}
	delete(s.subgenres, id)
	for _, children := range s.subgenres {
		delete(children, id)
	}
	return nil
}

func (s *MemoryStore) LinkSubgenre(_ context.Context, parentID, childID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.genres[parentID]; !ok {
		return apperr.NotFoundf("referenced record not found")
	}
	if _, ok := s.genres[childID]; !ok {
		return apperr.NotFoundf("referenced record not found")
	}
	children, ok := s.subgenres[parentID]
	if !ok {
		children = make(map[int64]struct{})
		s.subgenres[parentID] = children
	}
	children[childID] = struct{}{}
	return nil
}

func (s *MemoryStore) SubgenreParents(_ context.Context, childID int64) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var parents []int64
	for parentID, children := range s.subgenres {
		if _, ok := children[childID]; ok {
			parents = append(parents, parentID)
		}
	}
	sort.Slice(parents, func(i, j int) bool { return parents[i] < parents[j] })
	return parents, nil
}

// albums

func (s *MemoryStore) CreateAlbum(_ context.Context, a domain.Album, genreIDs []int64) (domain.Album, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.artists[a.ArtistID]; !ok {
		return domain.Album{}, apperr.NotFoundf("referenced record not found")
	}
	if err := s.albumInsertable(a, genreIDs); err != nil {
		return domain.Album{}, err
	}
	return s.insertAlbum(a, genreIDs), nil
}

func (s *MemoryStore) CreateAlbumWithArtist(_ context.Context, artist domain.Artist, album domain.Album, genreIDs []int64) (domain.Album, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Validate everything before touching any map so a failure leaves the
	// store untouched, mirroring the SQL transaction.
	existing, found := int64(0), false
	for id, a := range s.artists {
		if a.Name == artist.Name {
			existing, found = id, true
			break
		}
	}
	if !found {
		if err := s.artistUnique(artist, 0); err != nil {
			return domain.Album{}, err
		}
	}
	if err := s.albumInsertable(album, genreIDs); err != nil {
		return domain.Album{}, err
	}

	if found {
		album.ArtistID = existing
	} else {
		s.nextArtistID++
		artist.ID = s.nextArtistID
		s.artists[artist.ID] = artist
		album.ArtistID = artist.ID
	}
	return s.insertAlbum(album, genreIDs), nil
}

func (s *MemoryStore) albumInsertable(a domain.Album, genreIDs []int64) error {
	for _, existing := range s.albums {
		if existing.Slug == a.Slug {
			return apperr.Conflictf("album slug or embed id already exists")
		}
		if a.EmbedID != "" && existing.EmbedID == a.EmbedID {
			return apperr.Conflictf("album slug or embed id already exists")
		}
	}
	for _, genreID := range genreIDs {
		if _, ok := s.genres[genreID]; !ok {
			return apperr.NotFoundf("genre %d not found", genreID)
		}
	}
	return nil
}

func (s *MemoryStore) insertAlbum(a domain.Album, genreIDs []int64) domain.Album {
	s.nextAlbumID++
	a.ID = s.nextAlbumID
	a.ArtistName = s.artists[a.ArtistID].Name
	s.albums[a.ID] = a
	links := make(map[int64]struct{}, len(genreIDs))
	for _, genreID := range genreIDs {
		links[genreID] = struct{}{}
	}
	s.albumGenres[a.ID] = links
	return a
}

func (s *MemoryStore) GetAlbum(_ context.Context, id int64) (domain.Album, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.albums[id]
	if !ok {
		return domain.Album{}, false, nil
	}
	a.ArtistName = s.artists[a.ArtistID].Name
	return a, true, nil
}

func (s *MemoryStore) GetAlbumByNameAndArtist(_ context.Context, albumName, artistName string) (domain.Album, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.albums {
		if a.Name == albumName && s.artists[a.ArtistID].Name == artistName {
			a.ArtistName = artistName
			return a, true, nil
		}
	}
	return domain.Album{}, false, nil
}

func (s *MemoryStore) ListAlbums(_ context.Context) ([]domain.Album, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listAlbumsLocked(), nil
}

func (s *MemoryStore) listAlbumsLocked() []domain.Album {
	albums := make([]domain.Album, 0, len(s.albums))
	for _, a := range s.albums {
		a.ArtistName = s.artists[a.ArtistID].Name
		albums = append(albums, a)
	}
	sort.Slice(albums, func(i, j int) bool { return albums[i].Name < albums[j].Name })
	return albums
}

func (s *MemoryStore) UpdateAlbum(_ context.Context, a domain.Album) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.albums[a.ID]; !ok {
		return apperr.NotFoundf("album not found")
	}
	if _, ok := s.artists[a.ArtistID]; !ok {
		return apperr.NotFoundf("artist not found")
	}
	for id, existing := range s.albums {
		if id == a.ID {
			continue
		}
		if existing.Slug == a.Slug {
			return apperr.Conflictf("album slug or embed id already exists")
		}
		if a.EmbedID != "" && existing.EmbedID == a.EmbedID {
			return apperr.Conflictf("album slug or embed id already exists")
		}
	}
	a.ArtistName = ""
	s.albums[a.ID] = a
	return nil
}

func (s *MemoryStore) DeleteAlbum(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.albums[id]; !ok {
		return apperr.NotFoundf("album not found")
	}
	delete(s.albums, id)
	delete(s.albumGenres, id)
	for key := range s.engagements {
		if key.albumID == id {
			delete(s.engagements, key)
		}
	}
	return nil
}

func (s *MemoryStore) LinkAlbumGenre(_ context.Context, albumID, genreID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.albums[albumID]; !ok {
		return apperr.NotFoundf("album or genre not found")
	}
	if _, ok := s.genres[genreID]; !ok {
		return apperr.NotFoundf("album or genre not found")
	}
	links, ok := s.albumGenres[albumID]
	if !ok {
		links = make(map[int64]struct{})
		s.albumGenres[albumID] = links
	}
	links[genreID] = struct{}{}
	return nil
}

func (s *MemoryStore) AlbumGenres(_ context.Context, albumID int64) ([]domain.Genre, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var genres []domain.Genre
	for genreID := range s.albumGenres[albumID] {
		if g, ok := s.genres[genreID]; ok {
			genres = append(genres, g)
		}
	}
	sort.Slice(genres, func(i, j int) bool { return genres[i].Name < genres[j].Name })
	return genres, nil
}

func (s *MemoryStore) SearchAlbums(_ context.Context, keyword string) ([]domain.Album, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	needle := strings.ToLower(keyword)
	var matches []domain.Album
	for _, a := range s.listAlbumsLocked() {
		if strings.Contains(strings.ToLower(a.Name), needle) ||
			strings.Contains(strings.ToLower(a.ArtistName), needle) {
			matches = append(matches, a)
		}
	}
	return matches, nil
}

// engagement

func (s *MemoryStore) UpsertRating(_ context.Context, userID, albumID int64, rating *int) error {
	if rating != nil && (*rating < 1 || *rating > 5) {
		return apperr.Validationf("rating", "rating must be between 1 and 5")
	}
	return s.upsert(userID, albumID, func(e *domain.Engagement) { e.Rating = rating })
}

func (s *MemoryStore) UpsertFavorite(_ context.Context, userID, albumID int64, favorite bool) error {
	return s.upsert(userID, albumID, func(e *domain.Engagement) { e.Favorite = favorite })
}

func (s *MemoryStore) UpsertReview(_ context.Context, userID, albumID int64, review string) error {
	if utf8.RuneCountInString(review) > MaxReviewLength {
		return apperr.Validationf("review", "review exceeds %d characters", MaxReviewLength)
	}
	return s.upsert(userID, albumID, func(e *domain.Engagement) { e.Review = review })
}

func (s *MemoryStore) upsert(userID, albumID int64, apply func(*domain.Engagement)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[userID]; !ok {
		return apperr.NotFoundf("user or album not found")
	}
	if _, ok := s.albums[albumID]; !ok {
		return apperr.NotFoundf("user or album not found")
	}
	key := engagementKey{userID: userID, albumID: albumID}
	now := time.Now().UTC()
	row, ok := s.engagements[key]
	if !ok {
		s.nextSeq++
		row = memEngagement{
			Engagement: domain.Engagement{UserID: userID, AlbumID: albumID, CreatedAt: now},
			seq:        s.nextSeq,
		}
	}
	apply(&row.Engagement)
	row.UpdatedAt = now
	s.engagements[key] = row
	return nil
}

func (s *MemoryStore) GetEngagement(_ context.Context, userID, albumID int64) (domain.Engagement, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.engagements[engagementKey{userID: userID, albumID: albumID}]
	return row.Engagement, ok, nil
}

func (s *MemoryStore) InsertEngagements(_ context.Context, rows []domain.Engagement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[engagementKey]struct{}, len(rows))
	for _, r := range rows {
		if r.Rating != nil && (*r.Rating < 1 || *r.Rating > 5) {
			return apperr.Validationf("rating", "rating must be between 1 and 5")
		}
		if utf8.RuneCountInString(r.Review) > MaxReviewLength {
			return apperr.Validationf("review", "review exceeds %d characters", MaxReviewLength)
		}
		if _, ok := s.users[r.UserID]; !ok {
			return apperr.NotFoundf("user or album not found")
		}
		if _, ok := s.albums[r.AlbumID]; !ok {
			return apperr.NotFoundf("user or album not found")
		}
		key := engagementKey{userID: r.UserID, albumID: r.AlbumID}
		if _, ok := s.engagements[key]; ok {
			return apperr.Conflictf("duplicate engagement pair in bulk insert")
		}
		if _, ok := seen[key]; ok {
			return apperr.Conflictf("duplicate engagement pair in bulk insert")
		}
		seen[key] = struct{}{}
	}
	now := time.Now().UTC()
	for _, r := range rows {
		if r.CreatedAt.IsZero() {
			r.CreatedAt = now
		}
		r.UpdatedAt = r.CreatedAt
		s.nextSeq++
		key := engagementKey{userID: r.UserID, albumID: r.AlbumID}
		s.engagements[key] = memEngagement{Engagement: r, seq: s.nextSeq}
	}
	return nil
}

// aggregates

func (s *MemoryStore) AlbumAggregates(_ context.Context, albumID int64) (AlbumAggregates, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.aggregatesLocked(albumID), nil
}

func (s *MemoryStore) aggregatesLocked(albumID int64) AlbumAggregates {
	var agg AlbumAggregates
	var sum int
	for key, row := range s.engagements {
		if key.albumID != albumID {
			continue
		}
		if row.Rating != nil {
			sum += *row.Rating
			agg.RatingCount++
		}
		if row.Favorite {
			agg.FavoriteCount++
		}
	}
	if agg.RatingCount > 0 {
		agg.AvgRating = float64(sum) / float64(agg.RatingCount)
	}
	return agg
}

func (s *MemoryStore) ListAlbumsWithAggregates(_ context.Context) ([]AlbumWithAggregates, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]AlbumWithAggregates, 0, len(s.albums))
	for _, a := range s.listAlbumsLocked() {
		out = append(out, AlbumWithAggregates{Album: a, Aggregates: s.aggregatesLocked(a.ID)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := out[i].Aggregates, out[j].Aggregates
		switch {
		case ri.RatingCount > 0 && rj.RatingCount == 0:
			return true
		case ri.RatingCount == 0 && rj.RatingCount > 0:
			return false
		case ri.RatingCount == 0 && rj.RatingCount == 0:
			return false // already name-sorted
		default:
			return ri.AvgRating > rj.AvgRating
		}
	})
	return out, nil
}

func (s *MemoryStore) AlbumReviews(_ context.Context, albumID int64) ([]domain.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var rows []memEngagement
	for key, row := range s.engagements {
		if key.albumID == albumID && row.Review != "" {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].CreatedAt.After(rows[j].CreatedAt)
		}
		return rows[i].seq > rows[j].seq
	})
	reviews := make([]domain.Review, 0, len(rows))
	for _, row := range rows {
		reviews = append(reviews, domain.Review{
			UserID:    row.UserID,
			Username:  s.users[row.UserID].Username,
			AlbumID:   row.AlbumID,
			Rating:    row.Rating,
			Review:    row.Review,
			CreatedAt: row.CreatedAt,
		})
	}
	return reviews, nil
}

func (s *MemoryStore) UserRatings(_ context.Context, userID int64) ([]domain.UserAlbum, error) {
	return s.userAlbums(userID, func(e domain.Engagement) bool { return e.Rating != nil })
}

func (s *MemoryStore) UserFavorites(_ context.Context, userID int64) ([]domain.UserAlbum, error) {
	return s.userAlbums(userID, func(e domain.Engagement) bool { return e.Favorite })
}

func (s *MemoryStore) userAlbums(userID int64, keep func(domain.Engagement) bool) ([]domain.UserAlbum, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.UserAlbum
	for key, row := range s.engagements {
		if key.userID != userID || !keep(row.Engagement) {
			continue
		}
		album := s.albums[key.albumID]
		out = append(out, domain.UserAlbum{
			AlbumID:    key.albumID,
			AlbumName:  album.Name,
			ArtistName: s.artists[album.ArtistID].Name,
			CoverURL:   album.CoverURL,
			Rating:     row.Rating,
			Favorite:   row.Favorite,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AlbumName < out[j].AlbumName })
	return out, nil
}
