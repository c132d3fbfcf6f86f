package musicbrainz

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSearchReleasesParsesCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("fmt"); got != "json" {
			t.Fatalf("expected fmt=json, got %q", got)
		}
		if got := r.Header.Get("User-Agent"); got != "tonearm-test/1.0" {
			t.Fatalf("unexpected user agent %q", got)
		}
		fmt.Fprint(w, `{"releases":[
			{"id":"mbid-1","title":"Nevermind","artist-credit":[{"name":"Nirvana"}]},
			{"id":"mbid-2","title":"No Artist Credit"},
			{"id":"mbid-3","title":"In Utero","artist-credit":[{"name":"Nirvana"}]}
		]}`)
	}))
	defer srv.Close()

	client := New(Config{BaseURL: srv.URL, UserAgent: "tonearm-test/1.0"})
	releases, err := client.SearchReleases(context.Background(), "nirvana", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(releases) != 2 {
		t.Fatalf("expected 2 usable candidates, got %d", len(releases))
	}
	if releases[0].Title != "Nevermind" || releases[0].ArtistName != "Nirvana" {
		t.Fatalf("unexpected first candidate %+v", releases[0])
	}
}

func TestCoverArtTwoStepLookup(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/release/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"releases":[{"id":"mbid-9","title":"Nevermind","artist-credit":[{"name":"Nirvana"}]}]}`)
	})
	mux.HandleFunc("/cover/release/mbid-9", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"images":[{"image":"https://img.example/front.jpg"}]}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := New(Config{BaseURL: srv.URL, CoverArtURL: srv.URL + "/cover"})
	cover, err := client.CoverArt(context.Background(), "Nevermind", "Nirvana")
	if err != nil {
		t.Fatalf("cover art: %v", err)
	}
	if cover != "https://img.example/front.jpg" {
		t.Fatalf("unexpected cover %q", cover)
	}
}

func TestCoverArtMissingIsNotAnError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/release/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"releases":[{"id":"mbid-404","title":"Obscure","artist-credit":[{"name":"Nobody"}]}]}`)
	})
	mux.HandleFunc("/cover/release/mbid-404", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := New(Config{BaseURL: srv.URL, CoverArtURL: srv.URL + "/cover"})
	cover, err := client.CoverArt(context.Background(), "Obscure", "Nobody")
	if err != nil {
		t.Fatalf("404 cover should not error: %v", err)
	}
	if cover != "" {
		t.Fatalf("expected empty cover, got %q", cover)
	}
}

func TestSearchReleasesSurfacesServerErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := New(Config{BaseURL: srv.URL})
	if _, err := client.SearchReleases(context.Background(), "anything", 5); err == nil {
		t.Fatalf("expected error for 503 response")
	}
}
