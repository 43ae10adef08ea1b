// Package workflow provides the runtime an Alfred workflow binary
// needs: the environment the host would construct, cache and data
// stores, Script Filter feedback, session state, self-updates and
// maintenance commands.
package workflow

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/hashicorp/go-hclog"
)

// Workflow ties together the environment, directories, caches and
// feedback of one workflow invocation.
type Workflow struct {
	Env      *Environment
	Dirs     *Dirs
	Cache    *Store
	Data     *Store
	Session  *Session
	Feedback *Feedback
	Updater  *Updater

	helpURL    string
	updateSlug string
	out        io.Writer
	logger     hclog.Logger
}

// Option adjusts a Workflow at construction.
type Option func(*Workflow)

// WithUpdates enables the release checker against a GitHub repository
// slug ("owner/repo").
func WithUpdates(slug string) Option {
	return func(wf *Workflow) { wf.updateSlug = slug }
}

// WithHelpURL points error feedback at the workflow's documentation.
func WithHelpURL(url string) Option {
	return func(wf *Workflow) { wf.helpURL = url }
}

// WithOutput redirects feedback away from stdout, for tests.
func WithOutput(out io.Writer) Option {
	return func(wf *Workflow) { wf.out = out }
}

// New prepares the workflow runtime. Both directories exist afterward
// and feedback is ready to collect items.
func New(env *Environment, logger hclog.Logger, opts ...Option) (*Workflow, error) {
	wf := &Workflow{
		Env:    env,
		out:    os.Stdout,
		logger: logger,
	}
	for _, opt := range opts {
		opt(wf)
	}

	wf.Dirs = NewDirs(env)
	if err := wf.Dirs.Ensure(); err != nil {
		return nil, err
	}

	wf.Cache = NewStore(wf.Dirs.Cache(), logger)
	wf.Data = NewStore(wf.Dirs.Data(), logger)
	wf.Session = NewSession(wf.Cache, logger)
	wf.Feedback = NewFeedback(wf.out, logger)
	if wf.updateSlug != "" {
		wf.Updater = NewUpdater(wf.updateSlug, env.Version, wf.Cache, logger)
	}

	logger.Debug("🚀 Workflow ready",
		"name", env.Name,
		"version", env.Version,
		"session", wf.Session.ID(),
	)
	return wf, nil
}

// HelpURL returns the configured documentation address.
func (wf *Workflow) HelpURL() string {
	return wf.helpURL
}

// Run executes fn, rescuing failures and panics into a single feedback
// item so the user sees the error inside the host instead of silence.
// The error is returned either way for the caller's exit code.
func (wf *Workflow) Run(fn func() error) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		wf.logger.Error("❌ Workflow run panicked", "panic", r, "stack", string(debug.Stack()))
		err = fmt.Errorf("workflow panicked: %v", r)
		wf.rescue(err)
	}()

	if err = fn(); err != nil {
		wf.logger.Error("❌ Workflow run failed", "error", err)
		wf.rescue(err)
	}
	return err
}

// rescue abandons whatever fn accumulated and sends one error item.
func (wf *Workflow) rescue(err error) {
	fb := NewFeedback(wf.out, wf.logger)
	it := fb.NewItem(err.Error())
	it.Subtitle = wf.helpURL
	it.Icon = IconError
	if sendErr := fb.Send(); sendErr != nil {
		wf.logger.Error("❌ Could not send error feedback", "error", sendErr)
	}
}
