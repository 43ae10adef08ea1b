// Package golinks searches a golinks directory service and renders the
// answers as Script Filter feedback.
package golinks

import (
	"fmt"
	"sort"
)

// Answer is one golink returned by the API.
type Answer struct {
	Shortname string `json:"shortname"`
	Link      string `json:"url"`
	Clicks    int    `json:"clicks"`
}

// Target returns the address the workflow opens when the answer is
// actioned. Golinks resolve through the local "go/" host.
func (a Answer) Target() string {
	return "http://go/" + a.Shortname
}

// Subtitle renders the click count and destination for display.
func (a Answer) Subtitle() string {
	return fmt.Sprintf("(%d) %s", a.Clicks, a.Link)
}

// SortByClicks moves answers that were clicked at least once ahead of
// the never-clicked ones, keeping API order within each group.
func SortByClicks(answers []Answer) {
	sort.SliceStable(answers, func(i, j int) bool {
		return answers[i].Clicks > 0 && answers[j].Clicks == 0
	})
}
