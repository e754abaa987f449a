package tmdb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"cinescout/internal/services"
)

func TestSearchMovieSendsQueryAndYear(t *testing.T) {
	var gotQuery, gotYear string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		gotYear = r.URL.Query().Get("primary_release_year")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"page":1,"results":[{"id":238,"title":"The Godfather","release_date":"1972-03-14"}],"total_pages":1,"total_results":1}`))
	}))
	defer server.Close()

	client, err := New("key", server.URL, "en-GB")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	resp, err := client.SearchMovie(context.Background(), "The Godfather", SearchOptions{Year: 1972})
	if err != nil {
		t.Fatalf("SearchMovie failed: %v", err)
	}
	if gotQuery != "The Godfather" || gotYear != "1972" {
		t.Errorf("unexpected request params: query=%q year=%q", gotQuery, gotYear)
	}
	if len(resp.Results) != 1 || resp.Results[0].ID != 238 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Results[0].Year() != 1972 {
		t.Errorf("Year() = %d, want 1972", resp.Results[0].Year())
	}
}

func TestSearchMovieServerErrorIsMetadataUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client, err := New("key", server.URL, "")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	_, err = client.SearchMovie(context.Background(), "Anything", SearchOptions{})
	if !errors.Is(err, services.ErrMetadataUnavailable) {
		t.Fatalf("expected ErrMetadataUnavailable, got %v", err)
	}
}

func TestSearchMovieRejectsEmptyQuery(t *testing.T) {
	client, err := New("key", "http://example.invalid", "")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := client.SearchMovie(context.Background(), "  ", SearchOptions{}); err == nil {
		t.Fatal("expected error for empty query")
	}
}

func TestGetMovieDetailsExtractsCredits(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("append_to_response") != "credits" {
			t.Errorf("missing append_to_response=credits, got %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
            "id": 238,
            "title": "The Godfather",
            "release_date": "1972-03-14",
            "runtime": 175,
            "production_countries": [{"iso_3166_1":"US","name":"United States of America"}],
            "credits": {"crew": [
                {"name":"Francis Ford Coppola","job":"Director"},
                {"name":"Gordon Willis","job":"Director of Photography"}
            ]}
        }`))
	}))
	defer server.Close()

	client, err := New("key", server.URL, "")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	details, err := client.GetMovieDetails(context.Background(), 238)
	if err != nil {
		t.Fatalf("GetMovieDetails failed: %v", err)
	}
	directors := details.Directors()
	if len(directors) != 1 || directors[0] != "Francis Ford Coppola" {
		t.Errorf("Directors() = %v", directors)
	}
	countries := details.Countries()
	if len(countries) != 1 || countries[0] != "United States of America" {
		t.Errorf("Countries() = %v", countries)
	}
	if details.Runtime != 175 {
		t.Errorf("Runtime = %d, want 175", details.Runtime)
	}
}

func TestNewRequiresKeyAndURL(t *testing.T) {
	if _, err := New("", "http://example.invalid", ""); err == nil {
		t.Fatal("expected error for missing api key")
	}
	if _, err := New("key", "", ""); err == nil {
		t.Fatal("expected error for missing base url")
	}
}
