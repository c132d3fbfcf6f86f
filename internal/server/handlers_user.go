package server

import (
	"net/http"
	"time"

	"tonearm/internal/app"
	"tonearm/pkg/domain"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	if !s.allowRate(w, r, s.signupLimiter, "too many signup attempts") {
		return
	}
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	user, err := s.app.Users.Create(r.Context(), app.SignupInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, authResponse{Token: token, User: user})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !s.allowRate(w, r, s.loginLimiter, "too many login attempts") {
		return
	}
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	user, ok, err := s.app.Users.Validate(r.Context(), req.Username, req.Password)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse{Token: token, User: user})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request, ident *app.Identity) {
	user, err := s.app.Users.Get(r.Context(), ident.UserID)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleUpdateMe(w http.ResponseWriter, r *http.Request, ident *app.Identity) {
	var patch app.UserPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	user, err := s.app.Users.Update(r.Context(), ident, ident.UserID, patch)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleDeleteMe(w http.ResponseWriter, r *http.Request, ident *app.Identity) {
	if err := s.app.Users.Delete(r.Context(), ident, ident.UserID); err != nil {
		writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMyRatings(w http.ResponseWriter, r *http.Request, ident *app.Identity) {
	ratings, err := s.app.Queries.UserRatings(r.Context(), ident)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ratings)
}

func (s *Server) handleMyFavorites(w http.ResponseWriter, r *http.Request, ident *app.Identity) {
	favorites, err := s.app.Queries.UserFavorites(r.Context(), ident)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, favorites)
}

// engagement

func (s *Server) handleSetRating(w http.ResponseWriter, r *http.Request, ident *app.Identity) {
	albumID, err := pathID(r)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	var req struct {
		Rating *int `json:"rating"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.app.Engagement.SetRating(r.Context(), ident, ident.UserID, albumID, req.Rating); err != nil {
		writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetFavorite(w http.ResponseWriter, r *http.Request, ident *app.Identity) {
	albumID, err := pathID(r)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	var req struct {
		Favorite bool `json:"favorite"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.app.Engagement.SetFavorite(r.Context(), ident, ident.UserID, albumID, req.Favorite); err != nil {
		writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetReview(w http.ResponseWriter, r *http.Request, ident *app.Identity) {
	albumID, err := pathID(r)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	var req struct {
		Review string `json:"review"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.app.Engagement.SetReview(r.Context(), ident, ident.UserID, albumID, req.Review); err != nil {
		writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleEngagementStatus(w http.ResponseWriter, r *http.Request, ident *app.Identity) {
	albumID, err := pathID(r)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	engagement, found, err := s.app.Engagement.GetStatus(r.Context(), ident, ident.UserID, albumID)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	if !found {
		writeJSON(w, http.StatusOK, map[string]bool{"engaged": false})
		return
	}
	writeJSON(w, http.StatusOK, engagement)
}

// roles & admin

func (s *Server) handleListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := s.app.Users.ListRoles(r.Context())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, roles)
}

func (s *Server) handleCreateRole(w http.ResponseWriter, r *http.Request, ident *app.Identity) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.app.Users.CreateRole(r.Context(), ident, req.Name); err != nil {
		writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleAdminListUsers(w http.ResponseWriter, r *http.Request, ident *app.Identity) {
	users, err := s.app.Users.List(r.Context(), ident)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

type bulkEngagementRow struct {
	UserID    int64      `json:"userId"`
	AlbumID   int64      `json:"albumId"`
	Rating    *int       `json:"rating"`
	Favorite  bool       `json:"favorite"`
	Review    string     `json:"review"`
	CreatedAt *time.Time `json:"createdAt"`
}

func (s *Server) handleBulkEngagements(w http.ResponseWriter, r *http.Request, ident *app.Identity) {
	var req struct {
		Rows []bulkEngagementRow `json:"rows"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	rows := make([]domain.Engagement, 0, len(req.Rows))
	for _, row := range req.Rows {
		e := domain.Engagement{
			UserID:   row.UserID,
			AlbumID:  row.AlbumID,
			Rating:   row.Rating,
			Favorite: row.Favorite,
			Review:   row.Review,
		}
		if row.CreatedAt != nil {
			e.CreatedAt = *row.CreatedAt
		}
		rows = append(rows, e)
	}
	if err := s.app.Engagement.BulkAssign(r.Context(), ident, rows); err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int{"inserted": len(rows)})
}
