package app

import (
	"context"
	"unicode/utf8"

	"tonearm/internal/apperr"
	"tonearm/internal/store"
	"tonearm/pkg/domain"
)

// EngagementService mutates per-user-per-album rows. Every mutation is
// self-only: the caller must be the subject user, and admins get no
// bypass.
type EngagementService struct {
	store store.Store
}

// SetRating sets or clears (nil) the caller's rating for the album.
func (s *EngagementService) SetRating(ctx context.Context, ident *Identity, userID, albumID int64, rating *int) error {
	if err := requireSelf(ident, userID); err != nil {
		return err
	}
	if rating != nil && (*rating < 1 || *rating > 5) {
		return apperr.Validationf("rating", "rating must be between 1 and 5")
	}
	return s.store.UpsertRating(ctx, userID, albumID, rating)
}

func (s *EngagementService) SetFavorite(ctx context.Context, ident *Identity, userID, albumID int64, favorite bool) error {
	if err := requireSelf(ident, userID); err != nil {
		return err
	}
	return s.store.UpsertFavorite(ctx, userID, albumID, favorite)
}

// SetReview sets the caller's review text; "" is a valid no-review value.
func (s *EngagementService) SetReview(ctx context.Context, ident *Identity, userID, albumID int64, review string) error {
	if err := requireSelf(ident, userID); err != nil {
		return err
	}
	if utf8.RuneCountInString(review) > store.MaxReviewLength {
		return apperr.Validationf("review", "review exceeds %d characters", store.MaxReviewLength)
	}
	return s.store.UpsertReview(ctx, userID, albumID, review)
}

// GetStatus returns the caller's engagement row for the album, or
// found=false when the user never engaged with it.
func (s *EngagementService) GetStatus(ctx context.Context, ident *Identity, userID, albumID int64) (domain.Engagement, bool, error) {
	if err := requireSelf(ident, userID); err != nil {
		return domain.Engagement{}, false, err
	}
	return s.store.GetEngagement(ctx, userID, albumID)
}

// BulkAssign inserts engagement rows for seeding. Plain inserts: a
// duplicate (user, album) pair fails the whole batch with Conflict, so the
// call is not idempotent. Admin-only.
func (s *EngagementService) BulkAssign(ctx context.Context, ident *Identity, rows []domain.Engagement) error {
	if err := requireAdmin(ident); err != nil {
		return err
	}
	return s.store.InsertEngagements(ctx, rows)
}
