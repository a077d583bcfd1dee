package deps

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchGitHubLatest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/starship/starship/releases/latest", r.URL.Path)
		assert.Equal(t, "application/vnd.github+json", r.Header.Get("Accept"))
		w.Write([]byte(`{"tag_name": "v1.23.0"}`))
	}))
	defer server.Close()

	orig := githubAPIBase
	githubAPIBase = server.URL
	defer func() { githubAPIBase = orig }()

	latest, err := fetchGitHubLatest(context.Background(), "starship/starship")
	require.NoError(t, err)
	assert.Equal(t, "v1.23.0", latest)
}

func TestFetchGitHubLatestNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	orig := githubAPIBase
	githubAPIBase = server.URL
	defer func() { githubAPIBase = orig }()

	_, err := fetchGitHubLatest(context.Background(), "someone/ratelimited")
	assert.Error(t, err)
}

func TestFetchNodeLatest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"version": "v22.5.0"}, {"version": "v22.4.1"}]`))
	}))
	defer server.Close()

	orig := nodeDistURL
	nodeDistURL = server.URL
	defer func() { nodeDistURL = orig }()

	latest, err := fetchNodeLatest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "v22.5.0", latest)
}

func TestFetchNodeLatestEmptyIndex(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	orig := nodeDistURL
	nodeDistURL = server.URL
	defer func() { nodeDistURL = orig }()

	_, err := fetchNodeLatest(context.Background())
	assert.Error(t, err)
}

func TestBuildFetcherFallsBackOnFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	orig := githubAPIBase
	githubAPIBase = server.URL
	defer func() { githubAPIBase = orig }()

	fetcher := buildFetcher(Entry{
		Name:   "flaky",
		Latest: &LatestSpec{GitHub: "someone/flaky"},
	})

	// An unreachable source degrades to the installed version instead of
	// failing the pass.
	assert.Equal(t, "1.0.0", fetcher(context.Background(), "1.0.0"))
}

func TestBuildFetcherNilSpecUsesFallback(t *testing.T) {
	fetcher := buildFetcher(Entry{Name: "presence-only"})
	assert.Equal(t, "5.9", fetcher(context.Background(), "5.9"))
}

func TestTagLess(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"numeric_segments", "1.2.3", "1.10.0", true},
		{"numeric_reversed", "1.10.0", "1.2.3", false},
		{"equal", "1.2.3", "1.2.3", false},
		{"prefix_ignored", "v1.2.3", "1.3.0", true},
		{"shorter_is_less", "1.2", "1.2.1", true},
		{"lexical_fallback", "alpha", "beta", true},
		{"mixed_segments", "1.2.beta", "1.2.rc", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tagLess(tt.a, tt.b))
		})
	}
}
