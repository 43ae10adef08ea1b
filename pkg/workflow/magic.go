package workflow

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// MagicAction is a built-in maintenance command reachable from the
// query box, e.g. "workflow:delcache".
type MagicAction struct {
	Keyword     string
	Description string
	Run         func(ctx context.Context) (string, error)
}

// magicActions returns the built-ins. Assembled per call because the
// closures capture the workflow.
func (wf *Workflow) magicActions() []MagicAction {
	return []MagicAction{
		{"update", "Check for a newer version and install it", wf.magicUpdate},
		{"delcache", "Delete the workflow's cache contents", wf.magicDelcache},
		{"deldata", "Delete the workflow's data contents", wf.magicDeldata},
		{"reset", "Delete both cache and data contents", wf.magicReset},
		{"openlog", "Open the workflow's log file", wf.magicOpenlog},
		{"help", "Open the help page", wf.magicHelp},
	}
}

// HandleMagic intercepts maintenance queries. The returned message is
// for the user; handled reports whether the query was consumed and
// should not be searched.
func (wf *Workflow) HandleMagic(ctx context.Context, query string) (string, bool, error) {
	if !strings.HasPrefix(query, MagicPrefix) {
		return "", false, nil
	}

	keyword := strings.TrimPrefix(query, MagicPrefix)
	for _, action := range wf.magicActions() {
		if action.Keyword != keyword {
			continue
		}
		wf.logger.Info("🪄 Running magic action", "keyword", keyword)
		msg, err := action.Run(ctx)
		return msg, true, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Unknown action %q. Available actions:\n", keyword)
	for _, action := range wf.magicActions() {
		fmt.Fprintf(&b, "  %s%-10s %s\n", MagicPrefix, action.Keyword, action.Description)
	}
	return b.String(), true, nil
}

func (wf *Workflow) magicUpdate(ctx context.Context) (string, error) {
	if wf.Updater == nil {
		return "Updates are not configured for this workflow", nil
	}

	status, err := wf.Updater.CheckForUpdate(ctx, true)
	if err != nil {
		return "", err
	}
	if !status.Available {
		return "No update available", nil
	}
	if err := wf.Updater.Install(ctx); err != nil {
		return "", err
	}
	return fmt.Sprintf("Downloaded %s, handing off to Alfred", status.Release.Version), nil
}

func (wf *Workflow) magicDelcache(context.Context) (string, error) {
	if err := wf.Dirs.ClearCache(); err != nil {
		return "", err
	}
	return "Deleted workflow cache contents", nil
}

func (wf *Workflow) magicDeldata(context.Context) (string, error) {
	if err := wf.Dirs.ClearData(); err != nil {
		return "", err
	}
	return "Deleted workflow data contents", nil
}

func (wf *Workflow) magicReset(ctx context.Context) (string, error) {
	if _, err := wf.magicDelcache(ctx); err != nil {
		return "", err
	}
	if _, err := wf.magicDeldata(ctx); err != nil {
		return "", err
	}
	return "Reset workflow cache and data", nil
}

func (wf *Workflow) magicOpenlog(ctx context.Context) (string, error) {
	path := wf.Dirs.LogFile()
	if err := exec.CommandContext(ctx, "open", path).Run(); err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	return "Opening workflow log file", nil
}

func (wf *Workflow) magicHelp(ctx context.Context) (string, error) {
	if wf.helpURL == "" {
		return "No help page configured", nil
	}
	if err := exec.CommandContext(ctx, "open", wf.helpURL).Run(); err != nil {
		return "", fmt.Errorf("opening %s: %w", wf.helpURL, err)
	}
	return "Opening " + wf.helpURL, nil
}
