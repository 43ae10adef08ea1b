package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os/exec"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/mod/semver"
)

// Release is one published build of the workflow.
type Release struct {
	Version    string `json:"version"`
	URL        string `json:"url"`
	Filename   string `json:"filename"`
	Prerelease bool   `json:"prerelease"`
}

// UpdateStatus is the cached outcome of the last release check.
type UpdateStatus struct {
	Available bool      `json:"available"`
	Release   *Release  `json:"release,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

// Updater checks a GitHub repository's releases for newer builds of
// the workflow. Check results are cached so Script Filters, which run
// on every keystroke, never block on the network.
type Updater struct {
	slug        string
	current     string
	prereleases bool
	store       *Store
	client      *http.Client
	baseURL     string
	logger      hclog.Logger
}

// UpdaterOption adjusts an Updater at construction.
type UpdaterOption func(*Updater)

// WithPrereleases includes prereleases when looking for updates.
func WithPrereleases() UpdaterOption {
	return func(u *Updater) { u.prereleases = true }
}

// WithUpdateHTTPClient overrides the HTTP client.
func WithUpdateHTTPClient(hc *http.Client) UpdaterOption {
	return func(u *Updater) { u.client = hc }
}

// WithUpdateBaseURL points the updater at a different API host, for tests.
func WithUpdateBaseURL(base string) UpdaterOption {
	return func(u *Updater) { u.baseURL = strings.TrimSuffix(base, "/") }
}

// NewUpdater creates an updater for the repository slug ("owner/repo")
// comparing against the currently installed version.
func NewUpdater(slug, current string, store *Store, logger hclog.Logger, opts ...UpdaterOption) *Updater {
	u := &Updater{
		slug:    slug,
		current: current,
		store:   store,
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: "https://api.github.com",
		logger:  logger,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// UpdateAvailable consults only the cached status. It never touches the
// network, so it is safe on the Script Filter hot path.
func (u *Updater) UpdateAvailable() bool {
	var status UpdateStatus
	if err := u.store.LoadJSON(UpdateStatusKey, 0, &status); err != nil {
		return false
	}
	return status.Available
}

// CheckForUpdate queries the releases feed and caches the outcome. The
// cached status is reused until UpdateInterval passes, unless force is
// set.
func (u *Updater) CheckForUpdate(ctx context.Context, force bool) (*UpdateStatus, error) {
	if !force && !u.store.Expired(UpdateStatusKey, UpdateInterval) {
		var status UpdateStatus
		if err := u.store.LoadJSON(UpdateStatusKey, 0, &status); err == nil {
			u.logger.Debug("🔍 Using cached update status", "available", status.Available)
			return &status, nil
		}
	}

	releases, err := u.fetchReleases(ctx)
	if err != nil {
		return nil, err
	}

	status := &UpdateStatus{CheckedAt: time.Now().UTC()}
	if latest := u.latest(releases); latest != nil {
		if semver.Compare(latest.Version, canonicalVersion(u.current)) > 0 {
			status.Available = true
			status.Release = latest
		}
	}

	if err := u.store.StoreJSON(UpdateStatusKey, status); err != nil {
		return nil, err
	}

	if status.Available {
		u.logger.Info("⬆️ Update available", "current", u.current, "latest", status.Release.Version)
	} else {
		u.logger.Debug("✅ Workflow is up to date", "current", u.current)
	}
	return status, nil
}

// Install downloads the newest release into the cache directory and
// hands the file to macOS, which routes the workflow extension to the
// host application for import.
func (u *Updater) Install(ctx context.Context) error {
	status, err := u.CheckForUpdate(ctx, false)
	if err != nil {
		return err
	}
	if !status.Available || status.Release == nil {
		return ErrNoUpdate
	}

	u.logger.Info("⬇️ Downloading update", "version", status.Release.Version, "url", status.Release.URL)

	data, err := u.download(ctx, status.Release.URL)
	if err != nil {
		return err
	}
	if err := u.store.Store(status.Release.Filename, data); err != nil {
		return err
	}

	path := u.store.Path(status.Release.Filename)
	u.logger.Info("📦 Opening workflow package", "path", path)
	if err := exec.CommandContext(ctx, "open", path).Run(); err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	return nil
}

// fetchReleases returns the repository's valid releases. A release is
// valid when its tag parses as a version and it carries exactly one
// workflow asset.
func (u *Updater) fetchReleases(ctx context.Context) ([]Release, error) {
	url := fmt.Sprintf("%s/repos/%s/releases", u.baseURL, u.slug)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building releases request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching releases: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("releases API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var raw []struct {
		TagName    string `json:"tag_name"`
		Prerelease bool   `json:"prerelease"`
		Assets     []struct {
			Name               string `json:"name"`
			BrowserDownloadURL string `json:"browser_download_url"`
		} `json:"assets"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding releases: %w", err)
	}

	var releases []Release
	for _, r := range raw {
		var name, downloadURL string
		count := 0
		for _, a := range r.Assets {
			if strings.HasSuffix(a.Name, WorkflowExt) {
				name, downloadURL = a.Name, a.BrowserDownloadURL
				count++
			}
		}
		if count != 1 {
			u.logger.Debug("🙈 Skipping release", "tag", r.TagName, "workflow_assets", count)
			continue
		}

		version := canonicalVersion(r.TagName)
		if !semver.IsValid(version) {
			u.logger.Debug("🙈 Skipping release with invalid tag", "tag", r.TagName)
			continue
		}

		releases = append(releases, Release{
			Version:    version,
			URL:        downloadURL,
			Filename:   name,
			Prerelease: r.Prerelease,
		})
	}

	u.logger.Debug("🔍 Fetched releases", "slug", u.slug, "valid", len(releases))
	return releases, nil
}

// latest returns the newest acceptable release, or nil.
func (u *Updater) latest(releases []Release) *Release {
	var best *Release
	for i := range releases {
		r := &releases[i]
		if r.Prerelease && !u.prereleases {
			continue
		}
		if best == nil || semver.Compare(r.Version, best.Version) > 0 {
			best = r
		}
	}
	return best
}

// download fetches the release asset.
func (u *Updater) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building download request: %w", err)
	}

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading update: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download returned %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading download: %w", err)
	}
	return data, nil
}

// canonicalVersion maps a release tag to the "v"-prefixed form the
// semver package compares. "1.2", "v1.2" and "v1.2.0" compare equal.
func canonicalVersion(tag string) string {
	return "v" + strings.TrimPrefix(strings.TrimSpace(tag), "v")
}
