package discovery

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/go-github/v47/github"
	"github.com/hashicorp/go-hclog"
)

// DefaultMaxRepos caps how many unique candidate repositories discovery
// returns across all search queries.
const DefaultMaxRepos = 20

// maxRateLimitWait bounds how long discovery is willing to sleep on a
// search rate limit before giving up on the remaining queries.
const maxRateLimitWait = 5 * time.Minute

// Search queries that tend to surface MCP server implementations.
var searchQueries = []string{
	`"ModelContextProtocol"`,
	`"MCP server"`,
	`"mcp_server"`,
	`"model context protocol"`,
	`"MCP handler"`,
}

// Candidate identifies one repository surfaced by code search.
type Candidate struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
	URL   string `json:"url"`
}

func (c Candidate) FullName() string {
	return c.Owner + "/" + c.Name
}

// Discoverer searches GitHub code for MCP server candidates.
type Discoverer struct {
	client   *github.Client
	language string
	maxRepos int
	logger   hclog.Logger
}

// tokenTransport injects the GitHub token into every request.
type tokenTransport struct {
	token string
	base  http.RoundTripper
}

func (t *tokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", "token "+t.token)
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(clone)
}

// New builds a Discoverer on top of httpClient. When token is empty the
// search runs unauthenticated and hits rate limits quickly; that is the
// caller's problem to warn about, not a failure.
func New(httpClient *http.Client, token, language string, maxRepos int, logger hclog.Logger) *Discoverer {
	if token != "" {
		wrapped := *httpClient
		wrapped.Transport = &tokenTransport{token: token, base: httpClient.Transport}
		httpClient = &wrapped
	}
	if language == "" {
		language = "python"
	}
	if maxRepos <= 0 {
		maxRepos = DefaultMaxRepos
	}
	return &Discoverer{
		client:   github.NewClient(httpClient),
		language: language,
		maxRepos: maxRepos,
		logger:   logger,
	}
}

// Search runs every query until the overall candidate cap is reached and
// returns the unique repositories sorted by full name.
func (d *Discoverer) Search(ctx context.Context) ([]Candidate, error) {
	seen := map[string]Candidate{}

	for _, query := range searchQueries {
		if len(seen) >= d.maxRepos {
			break
		}
		if err := d.searchQuery(ctx, query, seen); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			// One failed query should not discard what the others found.
			d.logger.Warn("search query failed", "query", query, "error", err)
		}
	}

	candidates := make([]Candidate, 0, len(seen))
	for _, c := range seen {
		candidates = append(candidates, c)
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].FullName() < candidates[j].FullName()
	})

	d.logger.Info("discovery finished", "unique_repositories", len(candidates))
	return candidates, nil
}

func (d *Discoverer) searchQuery(ctx context.Context, query string, seen map[string]Candidate) error {
	q := fmt.Sprintf("%s language:%s", query, d.language)
	opts := &github.SearchOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	}

	d.logger.Info("searching GitHub code", "query", q)
	for {
		result, resp, err := d.client.Search.Code(ctx, q, opts)
		if err != nil {
			var rateErr *github.RateLimitError
			if errors.As(err, &rateErr) {
				if waited := d.waitForRateLimit(ctx, rateErr); waited {
					continue
				}
				return fmt.Errorf("search rate limit reset is too far away")
			}
			return fmt.Errorf("code search failed: %w", err)
		}

		for _, item := range result.CodeResults {
			repo := item.GetRepository()
			owner := repo.GetOwner().GetLogin()
			name := repo.GetName()
			if owner == "" || name == "" {
				d.logger.Warn("skipping result with missing repository information", "url", item.GetHTMLURL())
				continue
			}
			full := owner + "/" + name
			if _, ok := seen[full]; ok {
				continue
			}
			seen[full] = Candidate{
				Owner: owner,
				Name:  name,
				URL:   strings.TrimSuffix(repo.GetHTMLURL(), "/"),
			}
			if len(seen) >= d.maxRepos {
				d.logger.Info("reached candidate cap", "max", d.maxRepos)
				return nil
			}
		}

		if resp.NextPage == 0 {
			return nil
		}
		opts.Page = resp.NextPage
	}
}

// waitForRateLimit sleeps until the search rate limit resets, unless the
// reset is further away than maxRateLimitWait.
func (d *Discoverer) waitForRateLimit(ctx context.Context, rateErr *github.RateLimitError) bool {
	wait := time.Until(rateErr.Rate.Reset.Time) + 5*time.Second
	if wait <= 0 {
		return true
	}
	if wait > maxRateLimitWait {
		d.logger.Warn("search rate limit exceeded", "reset_in", wait.Round(time.Second))
		return false
	}

	d.logger.Info("search rate limit exceeded, waiting", "wait", wait.Round(time.Second))
	select {
	case <-ctx.Done():
		return false
	case <-time.After(wait):
		return true
	}
}
