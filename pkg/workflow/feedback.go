package workflow

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/hashicorp/go-hclog"
)

// Item is a single Script Filter result row.
type Item struct {
	Title        string `json:"title"`
	Subtitle     string `json:"subtitle,omitempty"`
	Arg          string `json:"arg,omitempty"`
	UID          string `json:"uid,omitempty"`
	Autocomplete string `json:"autocomplete,omitempty"`
	Match        string `json:"match,omitempty"`
	QuicklookURL string `json:"quicklookurl,omitempty"`
	Valid        bool   `json:"valid"`
	Icon         *Icon  `json:"icon,omitempty"`
	Text         *Text  `json:"text,omitempty"`
}

// Icon is an item's icon. Type "fileicon" shows the icon of the file at
// Path; "filetype" treats Path as a UTI; empty means Path is an image.
type Icon struct {
	Path string `json:"path"`
	Type string `json:"type,omitempty"`
}

// Text controls what the host copies (⌘C) or shows as large type (⌘L).
type Text struct {
	Copy      string `json:"copy,omitempty"`
	LargeType string `json:"largetype,omitempty"`
}

// Feedback is the JSON document a Script Filter prints on stdout. One
// document per invocation: the host reads a single JSON object and
// ignores anything after it.
type Feedback struct {
	Items     []*Item           `json:"items"`
	Variables map[string]string `json:"variables,omitempty"`
	Rerun     float64           `json:"rerun,omitempty"`

	out    io.Writer
	sent   bool
	logger hclog.Logger
}

// NewFeedback creates an empty feedback document writing to out.
func NewFeedback(out io.Writer, logger hclog.Logger) *Feedback {
	return &Feedback{
		Items:  []*Item{},
		out:    out,
		logger: logger,
	}
}

// NewItem appends an item with the given title and returns it for the
// caller to flesh out. Items are invalid until marked otherwise.
func (f *Feedback) NewItem(title string) *Item {
	it := &Item{Title: title}
	f.Items = append(f.Items, it)
	return it
}

// Var sets a top-level variable passed on to downstream workflow objects.
func (f *Feedback) Var(key, value string) {
	if f.Variables == nil {
		f.Variables = make(map[string]string)
	}
	f.Variables[key] = value
}

// IsEmpty reports whether any items have been added.
func (f *Feedback) IsEmpty() bool {
	return len(f.Items) == 0
}

// WarnEmpty adds a warning item, but only when the feedback is empty.
// Returns true when the warning was added.
func (f *Feedback) WarnEmpty(title, subtitle string) bool {
	if !f.IsEmpty() {
		return false
	}

	it := f.NewItem(title)
	it.Subtitle = subtitle
	it.Icon = IconWarning
	return true
}

// Send marshals the document to the writer. Sending twice is a warned
// no-op, since the host only reads the first document.
func (f *Feedback) Send() error {
	if f.sent {
		f.logger.Warn("⚠️ Feedback already sent, ignoring")
		return nil
	}

	enc := json.NewEncoder(f.out)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("encoding feedback: %w", err)
	}

	f.sent = true
	f.logger.Debug("📣 Feedback sent", "items", len(f.Items))
	return nil
}
