package resolver

import (
	"context"
	"strings"
	"sync"
	"testing"

	"cinescout/internal/catalog"
	"cinescout/internal/services"
	"cinescout/internal/testsupport"
	"cinescout/internal/tmdb"
)

type fakeSearcher struct {
	mu       sync.Mutex
	searches int
	results  map[string][]tmdb.Result
	details  map[int64]*tmdb.Details
	err      error
}

func (f *fakeSearcher) SearchMovie(_ context.Context, query string, _ tmdb.SearchOptions) (*tmdb.Response, error) {
	f.mu.Lock()
	f.searches++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	results := f.results[strings.ToLower(query)]
	return &tmdb.Response{Results: results, TotalResults: len(results)}, nil
}

func (f *fakeSearcher) GetMovieDetails(_ context.Context, movieID int64) (*tmdb.Details, error) {
	if details, ok := f.details[movieID]; ok {
		return details, nil
	}
	return nil, services.Wrap(services.ErrMetadataUnavailable, "tmdb", "details", "not found", nil)
}

func (f *fakeSearcher) searchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.searches
}

func nosferatuSearcher() *fakeSearcher {
	result := tmdb.Result{ID: 426063, Title: "Nosferatu", Overview: "A vampire.", ReleaseDate: "2024-12-25"}
	return &fakeSearcher{
		results: map[string][]tmdb.Result{
			"nosferatu": {result},
			"dracula":   {{ID: 138, Title: "Dracula", ReleaseDate: "1931-02-12"}},
		},
		details: map[int64]*tmdb.Details{
			426063: {
				Result:  result,
				Runtime: 132,
				ProductionCountries: []tmdb.ProductionCountry{
					{ISO: "US", Name: "United States of America"},
				},
				Credits: tmdb.Credits{Crew: []tmdb.CrewMember{{Name: "Robert Eggers", Job: "Director"}}},
			},
			138: {Result: tmdb.Result{ID: 138, Title: "Dracula", ReleaseDate: "1931-02-12"}},
		},
	}
}

func newTestResolver(t *testing.T, searcher tmdb.Searcher) (*Resolver, *catalog.Store) {
	t.Helper()
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	return New(store, searcher, nil), store
}

func TestResolveSecondLookupHitsAliasCache(t *testing.T) {
	searcher := nosferatuSearcher()
	resolver, _ := newTestResolver(t, searcher)
	ctx := context.Background()

	first, err := resolver.Resolve(ctx, "Nosferatu", "prince-charles", 0)
	if err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	second, err := resolver.Resolve(ctx, "Nosferatu", "genesis", 0)
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}

	if first.ID != second.ID {
		t.Fatalf("expected one film, got %q and %q", first.ID, second.ID)
	}
	if searcher.searchCount() != 1 {
		t.Errorf("expected 1 metadata search, got %d", searcher.searchCount())
	}
	if first.TMDBID != 426063 {
		t.Errorf("TMDBID = %d, want 426063", first.TMDBID)
	}
	if len(first.Directors) != 1 || first.Directors[0] != "Robert Eggers" {
		t.Errorf("Directors = %v", first.Directors)
	}
}

func TestResolveTitleVariantsConvergeOnOneFilm(t *testing.T) {
	resolver, store := newTestResolver(t, nosferatuSearcher())
	ctx := context.Background()

	variants := []string{"Nosferatu", "NOSFERATU (2024)", "Preview: Nosferatu [IMAX]"}
	ids := make(map[string]bool)
	for _, raw := range variants {
		film, err := resolver.Resolve(ctx, raw, "cinema-a", 0)
		if err != nil {
			t.Fatalf("resolve %q: %v", raw, err)
		}
		ids[film.ID] = true
	}
	if len(ids) != 1 {
		t.Fatalf("variants resolved to %d films: %v", len(ids), ids)
	}

	films, err := store.ListFilms(ctx, false)
	if err != nil {
		t.Fatalf("list films: %v", err)
	}
	if len(films) != 1 {
		t.Fatalf("expected 1 film in catalogue, got %d", len(films))
	}
}

func TestResolveDistinctTitlesStaySeparate(t *testing.T) {
	resolver, _ := newTestResolver(t, nosferatuSearcher())
	ctx := context.Background()

	nosferatu, err := resolver.Resolve(ctx, "Nosferatu", "cinema-a", 0)
	if err != nil {
		t.Fatalf("resolve nosferatu: %v", err)
	}
	dracula, err := resolver.Resolve(ctx, "Dracula", "cinema-a", 0)
	if err != nil {
		t.Fatalf("resolve dracula: %v", err)
	}
	if nosferatu.ID == dracula.ID {
		t.Fatalf("distinct films merged into %q", nosferatu.ID)
	}
}

func TestResolveProviderFailureYieldsPlaceholder(t *testing.T) {
	searcher := &fakeSearcher{
		err: services.Wrap(services.ErrMetadataUnavailable, "tmdb", "search", "timeout", nil),
	}
	resolver, _ := newTestResolver(t, searcher)

	film, err := resolver.Resolve(context.Background(), "Obscure Short (2023)", "cinema-a", 0)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !film.Placeholder() {
		t.Fatalf("expected placeholder, got TMDBID %d", film.TMDBID)
	}
	if film.Title != "Obscure Short" {
		t.Errorf("Title = %q, want %q", film.Title, "Obscure Short")
	}
	if film.Year != 2023 {
		t.Errorf("Year = %d, want 2023", film.Year)
	}
}

func TestResolveNilSearcherYieldsPlaceholder(t *testing.T) {
	resolver, _ := newTestResolver(t, nil)

	film, err := resolver.Resolve(context.Background(), "Local Shorts Night", "cinema-a", 0)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !film.Placeholder() {
		t.Fatal("expected placeholder film")
	}
}

func TestResolveEmptyTitleYieldsUntitledPlaceholder(t *testing.T) {
	resolver, _ := newTestResolver(t, nil)

	film, err := resolver.Resolve(context.Background(), "   ", "cinema-a", 0)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if film.ID != "untitled" {
		t.Errorf("ID = %q, want %q", film.ID, "untitled")
	}
	if film.Title != "Untitled" {
		t.Errorf("Title = %q, want %q", film.Title, "Untitled")
	}
}

func TestResolveShoutingPlaceholderIsTitleCased(t *testing.T) {
	resolver, _ := newTestResolver(t, nil)

	film, err := resolver.Resolve(context.Background(), "MYSTERY MIDNIGHT MOVIE", "cinema-a", 0)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if film.Title != "Mystery Midnight Movie" {
		t.Errorf("Title = %q, want %q", film.Title, "Mystery Midnight Movie")
	}
}

func TestResolveConcurrentIdenticalTitlesCreateOneFilm(t *testing.T) {
	resolver, store := newTestResolver(t, nosferatuSearcher())
	ctx := context.Background()

	const workers = 50
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := resolver.Resolve(ctx, "Nosferatu (2024)", "cinema-a", 0); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent resolve: %v", err)
	}

	films, err := store.ListFilms(ctx, false)
	if err != nil {
		t.Fatalf("list films: %v", err)
	}
	if len(films) != 1 {
		t.Fatalf("expected 1 film after concurrent resolution, got %d", len(films))
	}
}

func TestConfidentResultRejectsWeakMatches(t *testing.T) {
	results := []tmdb.Result{
		{ID: 1, Title: "The Thing Returns"},
		{ID: 2, Title: "The Thing Rises"},
	}
	if got := confidentResult("the thing r", results); got != nil {
		t.Fatalf("expected nil for weak matches, got %+v", got)
	}
}

func TestConfidentResultRejectsAmbiguity(t *testing.T) {
	// Both results score identically on tokens but neither is an exact
	// normalized match, so there is no margin to separate them.
	results := []tmdb.Result{
		{ID: 1, Title: "Dead Alive!"},
		{ID: 2, Title: "Alive Dead"},
	}
	if got := confidentResult("dead alive", results); got != nil {
		t.Fatalf("expected nil for ambiguous results, got %+v", got)
	}
}

func TestConfidentResultPrefersExactNormalizedMatch(t *testing.T) {
	results := []tmdb.Result{
		{ID: 1, Title: "Alien: Romulus"},
		{ID: 2, Title: "Alien"},
	}
	got := confidentResult("Alien", results)
	if got == nil || got.ID != 2 {
		t.Fatalf("expected exact match id 2, got %+v", got)
	}
}
