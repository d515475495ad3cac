package fetch

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/jonathan/interview-coach/internal/observability"
	"golang.org/x/sync/errgroup"
)

// DefaultGitHubAPI is the GitHub REST API root.
const DefaultGitHubAPI = "https://api.github.com"

// DefaultConcurrency is the number of files fetched at once.
const DefaultConcurrency = 4

// DefaultDelay paces each worker between requests.
const DefaultDelay = 100 * time.Millisecond

// DefaultFiles lists the repository paths fetched for a review.
func DefaultFiles() []string {
	return []string{
		"app/page.tsx",
		"app/layout.tsx",
		"app/api/chat/route.ts",
		"app/api/admin/github-analyze/route.ts",
		"components/chat/ChatInterface.tsx",
		"components/chat/ChatMessage.tsx",
		"components/chat/ChatInput.tsx",
		"components/chat/TypingIndicator.tsx",
		"components/ui/Button.tsx",
		"components/ui/Input.tsx",
		"lib/openai.ts",
		"lib/claud.ts",
		"lib/utils.ts",
		"lib/validation.ts",
		"lib/errorHandler.ts",
		"lib/security.ts",
		"config/prompts.ts",
		"types/chat.ts",
		"types/admin.ts",
		"hooks/useChat.ts",
		"hooks/useAdminPanel.ts",
		"package.json",
		"README.md",
		"assignment.md",
		"next.config.ts",
		"tsconfig.json",
	}
}

// ErrInvalidRepoURL is returned for URLs that do not name a GitHub repository.
var ErrInvalidRepoURL = errors.New("invalid GitHub URL. Use format: https://github.com/username/repository")

// errRateLimited stops the fan-out once GitHub reports an exhausted quota.
var errRateLimited = errors.New("github rate limit exceeded")

var repoPattern = regexp.MustCompile(`github\.com/([^/]+)/([^/]+)`)

// Repo identifies a GitHub repository.
type Repo struct {
	Owner string
	Name  string
}

func (r Repo) String() string {
	return r.Owner + "/" + r.Name
}

// ParseRepoURL extracts owner and name from a github.com URL.
func ParseRepoURL(raw string) (Repo, error) {
	m := repoPattern.FindStringSubmatch(raw)
	if m == nil {
		return Repo{}, ErrInvalidRepoURL
	}
	name := strings.TrimSuffix(m[2], ".git")
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	if name == "" {
		return Repo{}, ErrInvalidRepoURL
	}
	return Repo{Owner: m[1], Name: name}, nil
}

// RepositoryName returns the last path segment of a repository URL, or
// "Unknown" when the URL is empty.
func RepositoryName(raw string) string {
	raw = strings.TrimRight(strings.TrimSpace(raw), "/")
	if raw == "" {
		return "Unknown"
	}
	return raw[strings.LastIndex(raw, "/")+1:]
}

// File is one fetched repository file.
type File struct {
	Path    string
	Content string
}

// Summary counts the outcome of one repository fetch.
type Summary struct {
	Fetched     int  `json:"fetched"`
	Missing     int  `json:"missing"`
	Errors      int  `json:"errors"`
	RateLimited bool `json:"rateLimited"`
}

// Repository is the result of fetching a repository's files. Files keep the
// order of the requested paths.
type Repository struct {
	Repo    Repo
	Files   []File
	Summary Summary
}

// RepositoryFetcher fetches the review file set of a repository.
type RepositoryFetcher interface {
	FetchRepository(ctx context.Context, repo Repo) (*Repository, error)
}

// GitHubConfig configures a GitHubClient.
type GitHubConfig struct {
	BaseURL     string
	Token       string
	Files       []string
	Concurrency int
	Delay       time.Duration
	Options     *Options
}

// GitHubClient reads files through the GitHub contents API.
type GitHubClient struct {
	baseURL     string
	token       string
	files       []string
	concurrency int
	delay       time.Duration
	options     *Options
}

// NewGitHubClient creates a client. Zero fields take the package defaults; a
// negative Delay disables pacing.
func NewGitHubClient(cfg GitHubConfig) *GitHubClient {
	c := &GitHubClient{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		token:       cfg.Token,
		files:       cfg.Files,
		concurrency: cfg.Concurrency,
		delay:       cfg.Delay,
		options:     cfg.Options,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultGitHubAPI
	}
	if len(c.files) == 0 {
		c.files = DefaultFiles()
	}
	if c.concurrency <= 0 {
		c.concurrency = DefaultConcurrency
	}
	if c.delay == 0 {
		c.delay = DefaultDelay
	}
	if c.options == nil {
		c.options = DefaultOptions()
	}
	return c
}

type contentsResponse struct {
	Type     string `json:"type"`
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

// FetchRepository fetches every configured path. Missing files and per-file
// errors are counted, not returned. Once GitHub reports an exhausted rate
// limit no further requests are started.
func (c *GitHubClient) FetchRepository(ctx context.Context, repo Repo) (*Repository, error) {
	logger := observability.LoggerFromContext(ctx).With("repo", repo.String())
	if c.token == "" {
		logger.Warn("no GitHub token configured, using unauthenticated requests")
	}

	contents := make([]*string, len(c.files))
	var (
		mu      sync.Mutex
		summary Summary
	)
	count := func(f func(*Summary)) {
		mu.Lock()
		f(&summary)
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for i, path := range c.files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			content, status, err := c.fetchFile(gctx, repo, path)
			switch {
			case err == nil && content != nil:
				contents[i] = content
				count(func(s *Summary) { s.Fetched++ })
				logger.Debug("fetched file", "path", path, "chars", len(*content))
			case err == nil:
				logger.Debug("path is not a file", "path", path)
			case errors.Is(err, errRateLimited):
				count(func(s *Summary) { s.Errors++; s.RateLimited = true })
				logger.Error("GitHub API rate limit exceeded", "path", path)
				return err
			case status == http.StatusNotFound:
				count(func(s *Summary) { s.Missing++ })
				logger.Debug("file not found", "path", path)
			case gctx.Err() != nil:
				return gctx.Err()
			default:
				count(func(s *Summary) { s.Errors++ })
				logger.Warn("could not fetch file", "path", path, "status", status, "error", err)
			}
			return pause(gctx, c.delay)
		})
	}

	err := g.Wait()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil && !errors.Is(err, errRateLimited) && !errors.Is(err, context.Canceled) {
		return nil, err
	}

	out := &Repository{Repo: repo, Summary: summary}
	for i, content := range contents {
		if content != nil {
			out.Files = append(out.Files, File{Path: c.files[i], Content: *content})
		}
	}

	logger.Info("GitHub fetch summary",
		"fetched", summary.Fetched,
		"missing", summary.Missing,
		"errors", summary.Errors,
		"rate_limited", summary.RateLimited)
	return out, nil
}

// fetchFile returns nil content for directories and empty files.
func (c *GitHubClient) fetchFile(ctx context.Context, repo Repo, path string) (*string, int, error) {
	opts := *c.options
	opts.Headers = map[string]string{"Accept": "application/vnd.github.v3+json"}
	for k, v := range c.options.Headers {
		opts.Headers[k] = v
	}
	if c.token != "" {
		opts.Headers["Authorization"] = "token " + c.token
	}

	endpoint := fmt.Sprintf("%s/repos/%s/%s/contents/%s", c.baseURL, repo.Owner, repo.Name, path)
	result, err := URL(ctx, endpoint, &opts)
	if err != nil {
		if result == nil {
			return nil, 0, err
		}
		if result.StatusCode == http.StatusForbidden && result.Header.Get("X-RateLimit-Remaining") == "0" {
			return nil, result.StatusCode, errRateLimited
		}
		return nil, result.StatusCode, err
	}

	// Directories come back as a JSON array of entries.
	if trimmed := bytes.TrimSpace(result.Body); len(trimmed) > 0 && trimmed[0] == '[' {
		return nil, result.StatusCode, nil
	}

	var body contentsResponse
	if err := json.Unmarshal(result.Body, &body); err != nil {
		return nil, result.StatusCode, &Error{URL: endpoint, Message: "failed to decode contents response", Cause: err}
	}
	if body.Type != "file" || body.Content == "" {
		return nil, result.StatusCode, nil
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(body.Content, "\n", ""))
	if err != nil {
		return nil, result.StatusCode, &Error{URL: endpoint, Message: "failed to decode base64 content", Cause: err}
	}
	content := string(decoded)
	return &content, result.StatusCode, nil
}

func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return nil
	case <-t.C:
		return nil
	}
}
