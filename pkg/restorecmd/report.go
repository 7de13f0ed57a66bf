package restorecmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/andrew-torda/cifrestore/restore"
)

type categoryReport struct {
	Category string `json:"category"`
	Status   string `json:"status"`
	Kept     int    `json:"kept"`
	Dropped  int    `json:"dropped"`
	Error    string `json:"error,omitempty"`
}

// report is what we tell the user after a run.
type report struct {
	Edited     string           `json:"edited"`
	Reference  string           `json:"reference"`
	Output     string           `json:"output,omitempty"` // empty if nothing was written
	Categories []categoryReport `json:"categories"`
}

func newReport(edited, reference string, results []restore.Result) *report {
	r := &report{Edited: edited, Reference: reference, Categories: []categoryReport{}}
	for _, res := range results {
		c := categoryReport{
			Category: res.Category,
			Status:   string(res.Status),
			Kept:     res.Kept,
			Dropped:  res.Dropped,
		}
		if res.Err != nil {
			c.Error = res.Err.Error()
		}
		r.Categories = append(r.Categories, c)
	}
	return r
}

// failed counts the categories that went wrong.
func (r *report) failed() int {
	n := 0
	for _, c := range r.Categories {
		if c.Status == string(restore.StatusFailed) {
			n++
		}
	}
	return n
}

// hasCounts is true for statuses where the row counts mean something.
func hasCounts(status string) bool {
	return status == string(restore.StatusRestored) || status == string(restore.StatusNoRows)
}

func (r *report) write(w io.Writer, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}
	nw, sw := 0, 0
	for _, c := range r.Categories {
		nw = max(nw, len(c.Category))
		sw = max(sw, len(c.Status))
	}
	for _, c := range r.Categories {
		line := fmt.Sprintf("%-*s %-*s", nw, c.Category, sw, c.Status)
		if hasCounts(c.Status) {
			line += fmt.Sprintf(" kept %d dropped %d", c.Kept, c.Dropped)
		}
		if c.Error != "" {
			line += " " + c.Error
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}
