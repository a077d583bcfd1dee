package deps

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/storage/memory"

	"github.com/arthur-debert/franklin/pkg/logging"
	"github.com/arthur-debert/franklin/pkg/reconcile"
)

// Lookup endpoints; package variables so tests can point them at a local
// server.
var (
	githubAPIBase = "https://api.github.com"
	nodeDistURL   = "https://nodejs.org/dist/index.json"
)

var httpClient = &http.Client{Timeout: 10 * time.Second}

// buildFetcher compiles a manifest entry into a latest-version fetcher. All
// fetchers degrade gracefully: any failure returns the caller-supplied
// fallback so one unreachable source never blocks the whole pass.
func buildFetcher(entry Entry) reconcile.LatestFetcher {
	spec := entry.Latest
	name := entry.Name

	return func(ctx context.Context, fallback string) string {
		if spec == nil {
			return fallback
		}

		var (
			latest string
			err    error
		)
		switch {
		case spec.GitHub != "":
			latest, err = fetchGitHubLatest(ctx, spec.GitHub)
		case spec.GitRemote != "":
			latest, err = fetchRemoteTag(ctx, spec.GitRemote)
		case spec.NodeDist:
			latest, err = fetchNodeLatest(ctx)
		default:
			return fallback
		}

		if err != nil || latest == "" {
			logger := logging.GetLogger("deps.fetch")
			logger.Debug().Err(err).Str("dependency", name).Msg("Latest-version lookup failed, using fallback")
			return fallback
		}
		return latest
	}
}

// fetchGitHubLatest returns the tag name of a repository's latest release.
func fetchGitHubLatest(ctx context.Context, repo string) (string, error) {
	url := fmt.Sprintf("%s/repos/%s/releases/latest", githubAPIBase, repo)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	var release struct {
		TagName string `json:"tag_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", err
	}
	return release.TagName, nil
}

// fetchNodeLatest returns the newest entry of the nodejs.org dist index.
func fetchNodeLatest(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, nodeDistURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d from %s", resp.StatusCode, nodeDistURL)
	}

	var index []struct {
		Version string `json:"version"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&index); err != nil {
		return "", err
	}
	if len(index) == 0 {
		return "", fmt.Errorf("empty dist index")
	}
	// The index is newest-first.
	return index[0].Version, nil
}

// fetchRemoteTag lists a remote's tags without cloning and returns the
// newest one.
func fetchRemoteTag(ctx context.Context, url string) (string, error) {
	remote := git.NewRemote(memory.NewStorage(), &gitconfig.RemoteConfig{
		Name: "origin",
		URLs: []string{url},
	})

	refs, err := remote.ListContext(ctx, &git.ListOptions{})
	if err != nil {
		return "", err
	}

	var tags []string
	for _, ref := range refs {
		name := ref.Name()
		if !name.IsTag() {
			continue
		}
		tag := name.Short()
		if strings.HasSuffix(tag, "^{}") {
			continue
		}
		tags = append(tags, tag)
	}
	if len(tags) == 0 {
		return "", fmt.Errorf("no tags advertised by %s", url)
	}

	newest := tags[0]
	for _, tag := range tags[1:] {
		if tagLess(newest, tag) {
			newest = tag
		}
	}
	return newest, nil
}

// tagLess orders tags for picking the newest advertised one. Dot-separated
// numeric segments compare numerically, everything else lexically. This
// ordering exists only for choosing among remote tags; drift classification
// stays equality-only.
func tagLess(a, b string) bool {
	as := strings.Split(reconcile.Normalize(a), ".")
	bs := strings.Split(reconcile.Normalize(b), ".")

	for i := 0; i < len(as) && i < len(bs); i++ {
		an, aerr := strconv.Atoi(as[i])
		bn, berr := strconv.Atoi(bs[i])
		if aerr == nil && berr == nil {
			if an != bn {
				return an < bn
			}
			continue
		}
		if as[i] != bs[i] {
			return as[i] < bs[i]
		}
	}
	return len(as) < len(bs)
}
