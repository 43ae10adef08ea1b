package workflow

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestFeedbackJSON(t *testing.T) {
	var buf bytes.Buffer
	fb := NewFeedback(&buf, testLogger("feedback_test"))

	it := fb.NewItem("docs & guides")
	it.Subtitle = "(5) https://example.com/docs"
	it.Arg = "http://go/docs"
	it.UID = "https://example.com/docs"
	it.Valid = true
	it.Icon = IconWorkflow

	fb.NewItem("pending row")
	fb.Var("_WF_SESSION_ID", "abc")

	if err := fb.Send(); err != nil {
		t.Fatalf("Send() error: %v", err)
	}

	// Alfred reads the raw bytes; entities must stay unescaped.
	if !strings.Contains(buf.String(), "docs & guides") {
		t.Errorf("output escaped HTML: %s", buf.String())
	}

	var doc struct {
		Items []struct {
			Title    string `json:"title"`
			Subtitle string `json:"subtitle"`
			Arg      string `json:"arg"`
			Valid    bool   `json:"valid"`
			Icon     *struct {
				Path string `json:"path"`
			} `json:"icon"`
		} `json:"items"`
		Variables map[string]string `json:"variables"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}

	if len(doc.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(doc.Items))
	}
	first := doc.Items[0]
	if first.Title != "docs & guides" || first.Arg != "http://go/docs" || !first.Valid {
		t.Errorf("first item = %+v", first)
	}
	if first.Icon == nil || first.Icon.Path != "icon.png" {
		t.Errorf("first item icon = %+v", first.Icon)
	}
	if doc.Items[1].Valid {
		t.Error("items must default to invalid")
	}
	if doc.Variables["_WF_SESSION_ID"] != "abc" {
		t.Errorf("variables = %v", doc.Variables)
	}
}

func TestFeedbackEmptyItemsArray(t *testing.T) {
	var buf bytes.Buffer
	fb := NewFeedback(&buf, testLogger("feedback_test"))

	if err := fb.Send(); err != nil {
		t.Fatalf("Send() error: %v", err)
	}
	// Alfred wants an array, never null.
	if !strings.Contains(buf.String(), `"items":[]`) {
		t.Errorf("empty feedback = %s, want \"items\":[]", buf.String())
	}
}

func TestWarnEmpty(t *testing.T) {
	t.Run("adds a warning when empty", func(t *testing.T) {
		fb := NewFeedback(&bytes.Buffer{}, testLogger("feedback_test"))

		if !fb.WarnEmpty("No Answers Found", "Try a different query") {
			t.Error("WarnEmpty() = false on empty feedback")
		}
		if len(fb.Items) != 1 {
			t.Fatalf("items = %d, want 1", len(fb.Items))
		}
		it := fb.Items[0]
		if it.Title != "No Answers Found" || it.Icon != IconWarning || it.Valid {
			t.Errorf("warning item = %+v", it)
		}
	})

	t.Run("keeps out of the way otherwise", func(t *testing.T) {
		fb := NewFeedback(&bytes.Buffer{}, testLogger("feedback_test"))
		fb.NewItem("a result")

		if fb.WarnEmpty("No Answers Found", "Try a different query") {
			t.Error("WarnEmpty() = true despite existing items")
		}
		if len(fb.Items) != 1 {
			t.Errorf("items = %d, want 1", len(fb.Items))
		}
	})
}

func TestSendTwice(t *testing.T) {
	var buf bytes.Buffer
	fb := NewFeedback(&buf, testLogger("feedback_test"))
	fb.NewItem("once")

	if err := fb.Send(); err != nil {
		t.Fatalf("first Send() error: %v", err)
	}
	size := buf.Len()

	if err := fb.Send(); err != nil {
		t.Fatalf("second Send() error: %v", err)
	}
	if buf.Len() != size {
		t.Errorf("second Send() wrote %d more bytes; the host reads one document", buf.Len()-size)
	}
}
