package fetch

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGitHub serves the contents API for a single repository.
type fakeGitHub struct {
	t        *testing.T
	files    map[string]string
	dirs     map[string]bool
	failing  map[string]int
	limitAt  string
	requests atomic.Int32
	inflight atomic.Int32
	maxSeen  atomic.Int32
	hold     time.Duration
	mu       sync.Mutex
	headers  []http.Header
}

func (g *fakeGitHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	g.requests.Add(1)
	n := g.inflight.Add(1)
	defer g.inflight.Add(-1)
	for {
		seen := g.maxSeen.Load()
		if n <= seen || g.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}
	if g.hold > 0 {
		time.Sleep(g.hold)
	}

	g.mu.Lock()
	g.headers = append(g.headers, r.Header.Clone())
	g.mu.Unlock()

	const prefix = "/repos/octo/app/contents/"
	if !strings.HasPrefix(r.URL.Path, prefix) {
		http.NotFound(w, r)
		return
	}
	path := strings.TrimPrefix(r.URL.Path, prefix)

	if path == g.limitAt {
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.WriteHeader(http.StatusForbidden)
		return
	}
	if code, ok := g.failing[path]; ok {
		w.WriteHeader(code)
		return
	}
	if g.dirs[path] {
		_ = json.NewEncoder(w).Encode([]map[string]string{{"type": "file", "name": "x"}})
		return
	}
	content, ok := g.files[path]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	encoded := base64.StdEncoding.EncodeToString([]byte(content))
	// GitHub wraps base64 at 60 columns.
	if len(encoded) > 60 {
		encoded = encoded[:60] + "\n" + encoded[60:]
	}
	_ = json.NewEncoder(w).Encode(map[string]string{
		"type":     "file",
		"encoding": "base64",
		"content":  encoded,
	})
}

func newFakeGitHub(t *testing.T, g *fakeGitHub) *httptest.Server {
	t.Helper()
	g.t = t
	server := httptest.NewServer(g)
	t.Cleanup(server.Close)
	return server
}

func TestParseRepoURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    Repo
		wantErr bool
	}{
		{"https", "https://github.com/octo/app", Repo{"octo", "app"}, false},
		{"trailing path", "https://github.com/octo/app/tree/main/src", Repo{"octo", "app"}, false},
		{"git suffix", "https://github.com/octo/app.git", Repo{"octo", "app"}, false},
		{"query", "https://github.com/octo/app?tab=readme", Repo{"octo", "app"}, false},
		{"no scheme", "github.com/octo/app", Repo{"octo", "app"}, false},
		{"owner only", "https://github.com/octo", Repo{}, true},
		{"other host", "https://gitlab.com/octo/app", Repo{}, true},
		{"empty", "", Repo{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRepoURL(tt.url)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRepoURL)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Owner+"/"+tt.want.Name, got.String())
		})
	}
}

func TestRepositoryName(t *testing.T) {
	assert.Equal(t, "app", RepositoryName("https://github.com/octo/app"))
	assert.Equal(t, "app", RepositoryName("https://github.com/octo/app/"))
	assert.Equal(t, "Unknown", RepositoryName(""))
	assert.Equal(t, "plain", RepositoryName("plain"))
}

func TestGitHubClient_FetchRepository(t *testing.T) {
	g := &fakeGitHub{
		files: map[string]string{
			"README.md":    "# App\n" + strings.Repeat("long readme line\n", 10),
			"package.json": `{"name":"app"}`,
			"lib/utils.ts": "export const x = 1;",
		},
		dirs:    map[string]bool{"lib": true},
		failing: map[string]int{"broken.ts": http.StatusInternalServerError},
	}
	server := newFakeGitHub(t, g)

	client := NewGitHubClient(GitHubConfig{
		BaseURL: server.URL,
		Token:   "secret",
		Files:   []string{"package.json", "lib", "missing.ts", "broken.ts", "lib/utils.ts", "README.md"},
		Delay:   -1,
	})

	repo, err := client.FetchRepository(context.Background(), Repo{Owner: "octo", Name: "app"})
	require.NoError(t, err)

	paths := make([]string, 0, len(repo.Files))
	for _, f := range repo.Files {
		paths = append(paths, f.Path)
	}
	assert.Equal(t, []string{"package.json", "lib/utils.ts", "README.md"}, paths, "files keep requested order")
	assert.Equal(t, g.files["README.md"], repo.Files[2].Content)
	assert.Equal(t, Summary{Fetched: 3, Missing: 1, Errors: 1}, repo.Summary)
	assert.Equal(t, int32(6), g.requests.Load())

	g.mu.Lock()
	defer g.mu.Unlock()
	for _, h := range g.headers {
		assert.Equal(t, "application/vnd.github.v3+json", h.Get("Accept"))
		assert.Equal(t, "Interview-App-Analyzer", h.Get("User-Agent"))
		assert.Equal(t, "token secret", h.Get("Authorization"))
	}
}

func TestGitHubClient_NoTokenSendsNoAuthorization(t *testing.T) {
	g := &fakeGitHub{files: map[string]string{"a": "1"}}
	server := newFakeGitHub(t, g)

	client := NewGitHubClient(GitHubConfig{BaseURL: server.URL, Files: []string{"a"}, Delay: -1})
	_, err := client.FetchRepository(context.Background(), Repo{Owner: "octo", Name: "app"})
	require.NoError(t, err)

	g.mu.Lock()
	defer g.mu.Unlock()
	require.Len(t, g.headers, 1)
	assert.Empty(t, g.headers[0].Get("Authorization"))
}

func TestGitHubClient_StopsOnRateLimit(t *testing.T) {
	files := []string{"f0", "f1", "f2", "f3", "f4", "f5", "f6", "f7"}
	g := &fakeGitHub{
		files:   map[string]string{"f0": "zero", "f1": "one"},
		limitAt: "f2",
	}
	server := newFakeGitHub(t, g)

	client := NewGitHubClient(GitHubConfig{
		BaseURL:     server.URL,
		Files:       files,
		Concurrency: 1,
		Delay:       -1,
	})

	repo, err := client.FetchRepository(context.Background(), Repo{Owner: "octo", Name: "app"})
	require.NoError(t, err)
	assert.True(t, repo.Summary.RateLimited)
	assert.Equal(t, 2, repo.Summary.Fetched)
	assert.Len(t, repo.Files, 2)
	assert.Equal(t, int32(3), g.requests.Load(), "no request is started after the limit is hit")
}

func TestGitHubClient_BoundedConcurrency(t *testing.T) {
	files := make([]string, 12)
	contents := make(map[string]string, len(files))
	for i := range files {
		files[i] = "file" + string(rune('a'+i))
		contents[files[i]] = "x"
	}
	g := &fakeGitHub{files: contents, hold: 20 * time.Millisecond}
	server := newFakeGitHub(t, g)

	client := NewGitHubClient(GitHubConfig{
		BaseURL:     server.URL,
		Files:       files,
		Concurrency: 2,
		Delay:       -1,
	})

	repo, err := client.FetchRepository(context.Background(), Repo{Owner: "octo", Name: "app"})
	require.NoError(t, err)
	assert.Len(t, repo.Files, len(files))
	assert.LessOrEqual(t, g.maxSeen.Load(), int32(2))
}

func TestGitHubClient_ContextCanceled(t *testing.T) {
	g := &fakeGitHub{files: map[string]string{"a": "1"}}
	server := newFakeGitHub(t, g)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewGitHubClient(GitHubConfig{BaseURL: server.URL, Files: []string{"a", "b"}, Delay: -1})
	_, err := client.FetchRepository(ctx, Repo{Owner: "octo", Name: "app"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewGitHubClient_Defaults(t *testing.T) {
	c := NewGitHubClient(GitHubConfig{})
	assert.Equal(t, DefaultGitHubAPI, c.baseURL)
	assert.Equal(t, DefaultConcurrency, c.concurrency)
	assert.Equal(t, DefaultDelay, c.delay)
	assert.Len(t, c.files, 26)
	assert.Contains(t, c.files, "package.json")
}
