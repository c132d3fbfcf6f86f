package server

import (
	"net/http"

	"tonearm/internal/app"
)

// artists

func (s *Server) handleListArtists(w http.ResponseWriter, r *http.Request) {
	artists, err := s.app.Artists.List(r.Context())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, artists)
}

func (s *Server) handleGetArtist(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	artist, err := s.app.Artists.Get(r.Context(), id)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, artist)
}

func (s *Server) handleCreateArtist(w http.ResponseWriter, r *http.Request, ident *app.Identity) {
	var req app.CreateArtist
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	artist, err := s.app.Artists.Create(r.Context(), ident, req)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, artist)
}

func (s *Server) handleUpdateArtist(w http.ResponseWriter, r *http.Request, ident *app.Identity) {
	id, err := pathID(r)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	var patch app.ArtistPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	artist, err := s.app.Artists.Update(r.Context(), ident, id, patch)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, artist)
}

func (s *Server) handleDeleteArtist(w http.ResponseWriter, r *http.Request, ident *app.Identity) {
	id, err := pathID(r)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	if err := s.app.Artists.Delete(r.Context(), ident, id); err != nil {
		writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// genres

func (s *Server) handleListGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := s.app.Genres.List(r.Context())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, genres)
}

func (s *Server) handleGetGenre(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	genre, err := s.app.Genres.Get(r.Context(), id)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, genre)
}

func (s *Server) handleCreateGenre(w http.ResponseWriter, r *http.Request, ident *app.Identity) {
	var req app.CreateGenre
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	genre, err := s.app.Genres.Create(r.Context(), ident, req)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, genre)
}

func (s *Server) handleUpdateGenre(w http.ResponseWriter, r *http.Request, ident *app.Identity) {
	id, err := pathID(r)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	var patch app.GenrePatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	genre, err := s.app.Genres.Update(r.Context(), ident, id, patch)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, genre)
}

func (s *Server) handleDeleteGenre(w http.ResponseWriter, r *http.Request, ident *app.Identity) {
	id, err := pathID(r)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	if err := s.app.Genres.Delete(r.Context(), ident, id); err != nil {
		writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAssignSubgenre(w http.ResponseWriter, r *http.Request, ident *app.Identity) {
	parentID, err := pathID(r)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	var req struct {
		SubgenreID int64 `json:"subgenreId"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.app.Genres.AssignSubgenre(r.Context(), ident, parentID, req.SubgenreID); err != nil {
		writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// albums

func (s *Server) handleListAlbums(w http.ResponseWriter, r *http.Request) {
	albums, err := s.app.Queries.ListAlbumsWithStats(r.Context())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, albums)
}

func (s *Server) handleGetAlbum(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	album, err := s.app.Queries.AlbumWithStats(r.Context(), id)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, album)
}

type createAlbumRequest struct {
	Name        string  `json:"name"`
	ArtistID    int64   `json:"artistId"`
	ArtistName  string  `json:"artistName"`
	CoverURL    string  `json:"coverUrl"`
	ReleaseYear int     `json:"releaseYear"`
	EmbedID     string  `json:"embedId"`
	GenreIDs    []int64 `json:"genreIds"`
}

// handleCreateAlbum accepts either an artistId referencing an existing
// artist or an artistName that is found-or-created transactionally.
func (s *Server) handleCreateAlbum(w http.ResponseWriter, r *http.Request, ident *app.Identity) {
	var req createAlbumRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.ArtistName != "" {
		album, err := s.app.Albums.CreateWithArtistName(r.Context(), ident, app.CreateAlbumWithArtistName{
			Name:        req.Name,
			ArtistName:  req.ArtistName,
			CoverURL:    req.CoverURL,
			ReleaseYear: req.ReleaseYear,
			EmbedID:     req.EmbedID,
			GenreIDs:    req.GenreIDs,
		})
		if err != nil {
			writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, album)
		return
	}
	album, err := s.app.Albums.Create(r.Context(), ident, app.CreateAlbum{
		Name:        req.Name,
		ArtistID:    req.ArtistID,
		CoverURL:    req.CoverURL,
		ReleaseYear: req.ReleaseYear,
		EmbedID:     req.EmbedID,
		GenreIDs:    req.GenreIDs,
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, album)
}

func (s *Server) handleUpdateAlbum(w http.ResponseWriter, r *http.Request, ident *app.Identity) {
	id, err := pathID(r)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	var patch app.AlbumPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	album, err := s.app.Albums.Update(r.Context(), ident, id, patch)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, album)
}

func (s *Server) handleDeleteAlbum(w http.ResponseWriter, r *http.Request, ident *app.Identity) {
	id, err := pathID(r)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	if err := s.app.Albums.Delete(r.Context(), ident, id); err != nil {
		writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAssignAlbumGenre(w http.ResponseWriter, r *http.Request, ident *app.Identity) {
	albumID, err := pathID(r)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	var req struct {
		GenreID int64 `json:"genreId"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.app.Albums.AssignGenre(r.Context(), ident, albumID, req.GenreID); err != nil {
		writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAlbumReviews(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	reviews, err := s.app.Queries.AlbumReviews(r.Context(), id)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	results, err := s.app.Queries.Search(r.Context(), r.URL.Query().Get("keyword"))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}
