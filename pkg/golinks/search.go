package golinks

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jasantunes/alfred-golinks/pkg/workflow"
)

// Defaults applied when the workflow variables are unset or don't
// parse. The environment carries the variables as opaque strings;
// interpreting them is this consumer's business.
const (
	DefaultAPIURL      = "https://api.stackexchange.com/2.2/search/advanced"
	DefaultMaxResults  = 50
	DefaultCacheMaxAge = 20 * time.Second
)

// Settings is the consumer-side reading of the workflow variables.
type Settings struct {
	APIURL      string
	MaxResults  int
	CacheMaxAge time.Duration
}

// SettingsFromEnv parses the pass-through variables, falling back to
// the defaults on anything unset or unparsable.
func SettingsFromEnv(env *workflow.Environment) Settings {
	s := Settings{
		APIURL:      env.APIURL,
		MaxResults:  DefaultMaxResults,
		CacheMaxAge: DefaultCacheMaxAge,
	}

	if s.APIURL == "" {
		s.APIURL = DefaultAPIURL
	}
	if n, err := strconv.Atoi(env.MaxResults); err == nil && n > 0 {
		s.MaxResults = n
	}
	if n, err := strconv.Atoi(env.CacheMaxAge); err == nil && n >= 0 {
		s.CacheMaxAge = time.Duration(n) * time.Second
	}
	return s
}

// API is the client surface a Searcher needs. Tests substitute fakes.
type API interface {
	Search(ctx context.Context, query string, limit int) ([]Answer, error)
}

// Searcher runs one Script Filter invocation end to end: update nag,
// cached API search, result items, empty warning, feedback.
type Searcher struct {
	wf       *workflow.Workflow
	answers  *workflow.Store
	api      API
	settings Settings
	logger   hclog.Logger
}

// NewSearcher wires a searcher to a prepared workflow runtime. Cached
// answer sets are stored gzip-coded.
func NewSearcher(wf *workflow.Workflow, api API, settings Settings, logger hclog.Logger) *Searcher {
	return &Searcher{
		wf:       wf,
		answers:  workflow.NewStore(wf.Dirs.Cache(), logger, workflow.WithCodec(workflow.GzipCodec{})),
		api:      api,
		settings: settings,
		logger:   logger,
	}
}

// Do searches for query and sends the feedback document.
func (s *Searcher) Do(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)
	s.logger.Debug("🔍 Query", "query", query)

	if s.wf.Updater != nil && s.wf.Updater.UpdateAvailable() {
		it := s.wf.Feedback.NewItem("A newer version is available")
		it.Subtitle = "↩ to install update"
		it.Autocomplete = workflow.MagicPrefix + "update"
		it.Icon = workflow.IconUpdate
	}

	var answers []Answer
	reload := func() (interface{}, error) {
		return s.api.Search(ctx, query, s.settings.MaxResults)
	}
	if err := s.answers.LoadOrStoreJSON(CacheKey(query), s.settings.CacheMaxAge, reload, &answers); err != nil {
		return err
	}
	s.logger.Info("📋 Answers", "count", len(answers), "query", query)

	for _, a := range answers {
		it := s.wf.Feedback.NewItem(a.Shortname)
		it.Subtitle = a.Subtitle()
		it.Arg = a.Target()
		it.UID = a.Link
		it.Valid = true
		it.Icon = workflow.IconWorkflow
	}

	s.wf.Feedback.WarnEmpty("No Answers Found", "Try a different query")
	return s.wf.Feedback.Send()
}

var (
	unsafeChars    = regexp.MustCompile(`[^a-z0-9-_;.]`)
	collapseDashes = regexp.MustCompile(`-+`)
)

// CacheKey makes a filesystem-friendly cache entry name for a query.
// Queries that sanitize to the same string stay distinct through the
// hash suffix.
func CacheKey(query string) string {
	sum := md5.Sum([]byte(query))
	digest := hex.EncodeToString(sum[:])[:12]

	key := sanitize(query) + "-" + digest
	return "search/" + collapseDashes.ReplaceAllString(key, "-")
}

// sanitize folds a query to lowercase ASCII, replacing anything unsafe
// in a filename with a dash.
func sanitize(s string) string {
	// Decompose accented characters and drop the combining marks
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, s)
	if err != nil {
		folded = s
	}
	return unsafeChars.ReplaceAllString(strings.ToLower(folded), "-")
}
