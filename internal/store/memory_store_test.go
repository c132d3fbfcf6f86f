package store

import (
	"context"
	"strings"
	"testing"
	"time"

	"tonearm/internal/apperr"
	"tonearm/pkg/domain"
)

func intPtr(v int) *int { return &v }

func seedUser(t *testing.T, s *MemoryStore, username string) domain.User {
	t.Helper()
	u, err := s.CreateUser(context.Background(), domain.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Role:         domain.RoleUser,
	})
	if err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

func seedAlbum(t *testing.T, s *MemoryStore, artistName, albumName string) domain.Album {
	t.Helper()
	artist, found, err := s.GetArtistByName(context.Background(), artistName)
	if err != nil {
		t.Fatalf("get artist: %v", err)
	}
	if !found {
		artist, err = s.CreateArtist(context.Background(), domain.Artist{Name: artistName, Slug: "slug-" + artistName})
		if err != nil {
			t.Fatalf("create artist %s: %v", artistName, err)
		}
	}
	album, err := s.CreateAlbum(context.Background(), domain.Album{
		Name:        albumName,
		Slug:        "slug-" + albumName,
		ArtistID:    artist.ID,
		ReleaseYear: 1991,
	}, nil)
	if err != nil {
		t.Fatalf("create album %s: %v", albumName, err)
	}
	return album
}

func TestUpsertRatingKeepsSingleRowPerPair(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	user := seedUser(t, s, "alice")
	album := seedAlbum(t, s, "Nirvana", "Nevermind")

	if err := s.UpsertRating(ctx, user.ID, album.ID, intPtr(3)); err != nil {
		t.Fatalf("first rating: %v", err)
	}
	if err := s.UpsertRating(ctx, user.ID, album.ID, intPtr(5)); err != nil {
		t.Fatalf("second rating: %v", err)
	}

	agg, err := s.AlbumAggregates(ctx, album.ID)
	if err != nil {
		t.Fatalf("aggregates: %v", err)
	}
	if agg.RatingCount != 1 {
		t.Fatalf("expected one rating row after double upsert, got %d", agg.RatingCount)
	}
	if agg.AvgRating != 5 {
		t.Fatalf("expected latest rating to win, got avg %v", agg.AvgRating)
	}
}

func TestUpsertRatingDoesNotClobberOtherFields(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	user := seedUser(t, s, "alice")
	album := seedAlbum(t, s, "Nirvana", "Nevermind")

	if err := s.UpsertFavorite(ctx, user.ID, album.ID, true); err != nil {
		t.Fatalf("favorite: %v", err)
	}
	if err := s.UpsertReview(ctx, user.ID, album.ID, "a classic"); err != nil {
		t.Fatalf("review: %v", err)
	}
	if err := s.UpsertRating(ctx, user.ID, album.ID, intPtr(4)); err != nil {
		t.Fatalf("rating: %v", err)
	}

	e, found, err := s.GetEngagement(ctx, user.ID, album.ID)
	if err != nil || !found {
		t.Fatalf("get engagement: found=%v err=%v", found, err)
	}
	if !e.Favorite || e.Review != "a classic" || e.Rating == nil || *e.Rating != 4 {
		t.Fatalf("fields clobbered: %+v", e)
	}
}

func TestUpsertRatingNilClearsRating(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	user := seedUser(t, s, "alice")
	album := seedAlbum(t, s, "Nirvana", "Nevermind")

	if err := s.UpsertRating(ctx, user.ID, album.ID, intPtr(4)); err != nil {
		t.Fatalf("rating: %v", err)
	}
	if err := s.UpsertRating(ctx, user.ID, album.ID, nil); err != nil {
		t.Fatalf("clear rating: %v", err)
	}
	e, _, err := s.GetEngagement(ctx, user.ID, album.ID)
	if err != nil {
		t.Fatalf("get engagement: %v", err)
	}
	if e.Rating != nil {
		t.Fatalf("expected cleared rating, got %d", *e.Rating)
	}
	agg, _ := s.AlbumAggregates(ctx, album.ID)
	if agg.RatingCount != 0 {
		t.Fatalf("cleared rating should not count, got %d", agg.RatingCount)
	}
}

func TestRatingOutOfRangeRejected(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	user := seedUser(t, s, "alice")
	album := seedAlbum(t, s, "Nirvana", "Nevermind")

	for _, bad := range []int{0, 6, -1} {
		err := s.UpsertRating(ctx, user.ID, album.ID, intPtr(bad))
		if !apperr.IsValidation(err) {
			t.Fatalf("rating %d: expected validation error, got %v", bad, err)
		}
	}
}

func TestReviewLengthBoundary(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	user := seedUser(t, s, "alice")
	album := seedAlbum(t, s, "Nirvana", "Nevermind")

	if err := s.UpsertReview(ctx, user.ID, album.ID, strings.Repeat("a", MaxReviewLength)); err != nil {
		t.Fatalf("review at limit should pass: %v", err)
	}
	err := s.UpsertReview(ctx, user.ID, album.ID, strings.Repeat("a", MaxReviewLength+1))
	if !apperr.IsValidation(err) {
		t.Fatalf("review over limit: expected validation error, got %v", err)
	}

	// the bound counts characters, not bytes: 2000 two-byte runes pass
	if err := s.UpsertReview(ctx, user.ID, album.ID, strings.Repeat("é", MaxReviewLength)); err != nil {
		t.Fatalf("multibyte review at limit should pass: %v", err)
	}
	err = s.UpsertReview(ctx, user.ID, album.ID, strings.Repeat("é", MaxReviewLength+1))
	if !apperr.IsValidation(err) {
		t.Fatalf("multibyte review over limit: expected validation error, got %v", err)
	}
}

func TestAggregatesForUnengagedAlbum(t *testing.T) {
	s := NewMemoryStore()
	album := seedAlbum(t, s, "Nirvana", "Bleach")

	agg, err := s.AlbumAggregates(context.Background(), album.ID)
	if err != nil {
		t.Fatalf("aggregates: %v", err)
	}
	if agg.RatingCount != 0 || agg.FavoriteCount != 0 || agg.AvgRating != 0 {
		t.Fatalf("expected zero aggregates, got %+v", agg)
	}
}

func TestAggregatesAverageIgnoresUnrated(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	album := seedAlbum(t, s, "Nirvana", "Nevermind")
	alice := seedUser(t, s, "alice")
	bob := seedUser(t, s, "bob")
	carol := seedUser(t, s, "carol")

	if err := s.UpsertRating(ctx, alice.ID, album.ID, intPtr(5)); err != nil {
		t.Fatalf("rating: %v", err)
	}
	if err := s.UpsertRating(ctx, bob.ID, album.ID, intPtr(2)); err != nil {
		t.Fatalf("rating: %v", err)
	}
	// carol favorites without rating; her row must not drag the average
	if err := s.UpsertFavorite(ctx, carol.ID, album.ID, true); err != nil {
		t.Fatalf("favorite: %v", err)
	}

	agg, err := s.AlbumAggregates(ctx, album.ID)
	if err != nil {
		t.Fatalf("aggregates: %v", err)
	}
	if agg.RatingCount != 2 || agg.AvgRating != 3.5 {
		t.Fatalf("expected avg 3.5 over 2 ratings, got %+v", agg)
	}
	if agg.FavoriteCount != 1 {
		t.Fatalf("expected 1 favorite, got %d", agg.FavoriteCount)
	}
}

func TestListAlbumsWithAggregatesOrdersUnratedLast(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	good := seedAlbum(t, s, "Nirvana", "Nevermind")
	better := seedAlbum(t, s, "Nirvana", "In Utero")
	_ = seedAlbum(t, s, "Nirvana", "Bleach") // never rated
	alice := seedUser(t, s, "alice")

	if err := s.UpsertRating(ctx, alice.ID, good.ID, intPtr(3)); err != nil {
		t.Fatalf("rating: %v", err)
	}
	if err := s.UpsertRating(ctx, alice.ID, better.ID, intPtr(5)); err != nil {
		t.Fatalf("rating: %v", err)
	}

	out, err := s.ListAlbumsWithAggregates(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 albums, got %d", len(out))
	}
	if out[0].Album.Name != "In Utero" || out[1].Album.Name != "Nevermind" || out[2].Album.Name != "Bleach" {
		t.Fatalf("unexpected order: %s, %s, %s", out[0].Album.Name, out[1].Album.Name, out[2].Album.Name)
	}
}

func TestAlbumReviewsFilteredAndNewestFirst(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	album := seedAlbum(t, s, "Nirvana", "Nevermind")
	alice := seedUser(t, s, "alice")
	bob := seedUser(t, s, "bob")
	carol := seedUser(t, s, "carol")

	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	err := s.InsertEngagements(ctx, []domain.Engagement{
		{UserID: alice.ID, AlbumID: album.ID, Review: "older take", CreatedAt: base},
		{UserID: bob.ID, AlbumID: album.ID, Review: "newer take", CreatedAt: base.Add(time.Hour)},
		{UserID: carol.ID, AlbumID: album.ID, Rating: intPtr(4)}, // no review text
	})
	if err != nil {
		t.Fatalf("bulk insert: %v", err)
	}

	reviews, err := s.AlbumReviews(ctx, album.ID)
	if err != nil {
		t.Fatalf("reviews: %v", err)
	}
	if len(reviews) != 2 {
		t.Fatalf("expected 2 reviews (empty filtered), got %d", len(reviews))
	}
	if reviews[0].Username != "bob" || reviews[1].Username != "alice" {
		t.Fatalf("expected newest first, got %s then %s", reviews[0].Username, reviews[1].Username)
	}
}

func TestInsertEngagementsRejectsDuplicatePair(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	album := seedAlbum(t, s, "Nirvana", "Nevermind")
	alice := seedUser(t, s, "alice")

	if err := s.UpsertFavorite(ctx, alice.ID, album.ID, true); err != nil {
		t.Fatalf("favorite: %v", err)
	}
	err := s.InsertEngagements(ctx, []domain.Engagement{
		{UserID: alice.ID, AlbumID: album.ID, Rating: intPtr(5)},
	})
	if !apperr.IsConflict(err) {
		t.Fatalf("expected conflict on duplicate pair, got %v", err)
	}
	// the failed insert must not have replaced the existing row
	e, _, _ := s.GetEngagement(ctx, alice.ID, album.ID)
	if !e.Favorite || e.Rating != nil {
		t.Fatalf("existing row was mutated: %+v", e)
	}
}

func TestCreateAlbumWithArtistRollsBackOnConflict(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	seedAlbum(t, s, "Nirvana", "Nevermind")

	_, err := s.CreateAlbumWithArtist(ctx,
		domain.Artist{Name: "Pearl Jam", Slug: "pearl-jam"},
		domain.Album{Name: "Ten", Slug: "slug-Nevermind", ReleaseYear: 1991}, // slug collides
		nil)
	if !apperr.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if _, found, _ := s.GetArtistByName(ctx, "Pearl Jam"); found {
		t.Fatalf("artist must not survive a failed album insert")
	}
}

func TestCreateAlbumWithArtistReusesExistingArtist(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	existing := seedAlbum(t, s, "Nirvana", "Nevermind")

	album, err := s.CreateAlbumWithArtist(ctx,
		domain.Artist{Name: "Nirvana", Slug: "nirvana-dupe"},
		domain.Album{Name: "In Utero", Slug: "in-utero", ReleaseYear: 1993},
		nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if album.ArtistID != existing.ArtistID {
		t.Fatalf("expected artist reuse, got artist %d vs %d", album.ArtistID, existing.ArtistID)
	}
	artists, _ := s.ListArtists(ctx)
	if len(artists) != 1 {
		t.Fatalf("expected a single artist, got %d", len(artists))
	}
}

func TestDeleteArtistBlockedWhileAlbumsExist(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	album := seedAlbum(t, s, "Nirvana", "Nevermind")

	err := s.DeleteArtist(ctx, album.ArtistID)
	if !apperr.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if err := s.DeleteAlbum(ctx, album.ID); err != nil {
		t.Fatalf("delete album: %v", err)
	}
	if err := s.DeleteArtist(ctx, album.ArtistID); err != nil {
		t.Fatalf("delete artist after albums gone: %v", err)
	}
}

func TestDeleteAlbumCascadesEngagements(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	album := seedAlbum(t, s, "Nirvana", "Nevermind")
	alice := seedUser(t, s, "alice")

	if err := s.UpsertRating(ctx, alice.ID, album.ID, intPtr(5)); err != nil {
		t.Fatalf("rating: %v", err)
	}
	if err := s.DeleteAlbum(ctx, album.ID); err != nil {
		t.Fatalf("delete album: %v", err)
	}
	if _, found, _ := s.GetEngagement(ctx, alice.ID, album.ID); found {
		t.Fatalf("engagement must cascade with album")
	}
}

func TestDeleteUserCascadesEngagements(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	album := seedAlbum(t, s, "Nirvana", "Nevermind")
	alice := seedUser(t, s, "alice")

	if err := s.UpsertFavorite(ctx, alice.ID, album.ID, true); err != nil {
		t.Fatalf("favorite: %v", err)
	}
	if err := s.DeleteUser(ctx, alice.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}
	if _, found, _ := s.GetEngagement(ctx, alice.ID, album.ID); found {
		t.Fatalf("engagement must cascade with user")
	}
	agg, _ := s.AlbumAggregates(ctx, album.ID)
	if agg.FavoriteCount != 0 {
		t.Fatalf("favorite count should drop to 0, got %d", agg.FavoriteCount)
	}
}

func TestUsernameAndEmailUnique(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	seedUser(t, s, "alice")

	_, err := s.CreateUser(ctx, domain.User{Username: "alice", Email: "other@example.com", Role: domain.RoleUser})
	if !apperr.IsConflict(err) {
		t.Fatalf("duplicate username: expected conflict, got %v", err)
	}
	_, err = s.CreateUser(ctx, domain.User{Username: "alice2", Email: "alice@example.com", Role: domain.RoleUser})
	if !apperr.IsConflict(err) {
		t.Fatalf("duplicate email: expected conflict, got %v", err)
	}
}

func TestUserRatingsAndFavoritesSplit(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	rated := seedAlbum(t, s, "Nirvana", "Nevermind")
	faved := seedAlbum(t, s, "Nirvana", "In Utero")
	alice := seedUser(t, s, "alice")

	if err := s.UpsertRating(ctx, alice.ID, rated.ID, intPtr(5)); err != nil {
		t.Fatalf("rating: %v", err)
	}
	if err := s.UpsertFavorite(ctx, alice.ID, faved.ID, true); err != nil {
		t.Fatalf("favorite: %v", err)
	}

	ratings, err := s.UserRatings(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ratings: %v", err)
	}
	if len(ratings) != 1 || ratings[0].AlbumName != "Nevermind" {
		t.Fatalf("unexpected ratings %+v", ratings)
	}
	favorites, err := s.UserFavorites(ctx, alice.ID)
	if err != nil {
		t.Fatalf("favorites: %v", err)
	}
	if len(favorites) != 1 || favorites[0].AlbumName != "In Utero" {
		t.Fatalf("unexpected favorites %+v", favorites)
	}
}

func TestSearchAlbumsMatchesAlbumOrArtistName(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	seedAlbum(t, s, "Nirvana", "Nevermind")
	seedAlbum(t, s, "Pearl Jam", "Ten")

	byAlbum, err := s.SearchAlbums(ctx, "never")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(byAlbum) != 1 || byAlbum[0].Name != "Nevermind" {
		t.Fatalf("unexpected matches %+v", byAlbum)
	}
	byArtist, err := s.SearchAlbums(ctx, "pearl")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(byArtist) != 1 || byArtist[0].Name != "Ten" {
		t.Fatalf("unexpected matches %+v", byArtist)
	}
}
