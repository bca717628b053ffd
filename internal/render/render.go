// Package render turns directory records into labelled lines shared by the
// terminal and browser views.
package render

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/steveyegge/hrs/internal/directory"
)

// Placeholder is shown instead of the panel list when there are no records.
const Placeholder = "No Results Currently"

// Line is one labelled row of a panel. Items, when set, are rendered as a
// bulleted list under the label instead of Value.
type Line struct {
	Label string   `json:"label"`
	Value string   `json:"value,omitempty"`
	Items []string `json:"items,omitempty"`
}

// Panel is the expandable view of one record.
type Panel struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Lines []Line `json:"lines"`
	// Details holds merged fields not covered by Lines, sorted by key.
	Details []Line `json:"details,omitempty"`
}

// known keys are rendered explicitly and skipped in Details.
var known = map[string]bool{
	"id":            true,
	"first_name":    true,
	"middle_name":   true,
	"last_name":     true,
	"department":    true,
	"is_active":     true,
	"dob":           true,
	"gender":        true,
	"residence":     true,
	"emails":        true,
	"phone_numbers": true,
}

// Panels renders a collection in order.
func Panels(c directory.Collection) []Panel {
	out := make([]Panel, 0, len(c))
	for _, r := range c {
		out = append(out, RecordPanel(r))
	}
	return out
}

// RecordPanel renders one record.
func RecordPanel(r directory.Record) Panel {
	p := Panel{
		ID:    r.ID(),
		Title: strings.TrimSpace(r.String("first_name") + " " + r.String("last_name")),
	}

	dept := ""
	if d, ok := r.Object("department"); ok {
		dept = d.String("name")
	}
	p.Lines = append(p.Lines, Line{Label: "Department", Value: dept})

	activity := "Not Active"
	if active, _ := r["is_active"].(bool); active {
		activity = "Active"
	}
	p.Lines = append(p.Lines, Line{Label: "Activity", Value: activity})

	if dob := r.String("dob"); dob != "" {
		p.Lines = append(p.Lines, Line{Label: "Date of Birth", Value: dob})
	}
	if gender := r.String("gender"); gender != "" {
		p.Lines = append(p.Lines, Line{Label: "Gender", Value: gender})
	}
	if res, ok := r.Object("residence"); ok {
		p.Lines = append(p.Lines, Line{Label: "Residence", Value: Address(res)})
	}
	if _, ok := r["emails"].([]any); ok {
		p.Lines = append(p.Lines, Line{Label: "Email", Items: entryItems(r.Entries("emails"))})
	}
	if _, ok := r["phone_numbers"].([]any); ok {
		p.Lines = append(p.Lines, Line{Label: "Phone Numbers", Items: entryItems(r.Entries("phone_numbers"))})
	}

	p.Details = details(r)
	return p
}

// Address formats a residence as "line1 line2 city, state postal_code".
func Address(res directory.Record) string {
	var b strings.Builder
	for _, part := range []string{res.String("line1"), res.String("line2"), res.String("city")} {
		if part == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(part)
	}
	tail := strings.TrimSpace(res.String("state") + " " + res.String("postal_code"))
	if tail != "" {
		if b.Len() > 0 {
			b.WriteString(", ")
		}
		b.WriteString(tail)
	}
	return b.String()
}

func entryItems(entries []directory.Entry) []string {
	items := make([]string, 0, len(entries))
	for _, e := range entries {
		items = append(items, e.Type+" - "+e.Data)
	}
	return items
}

func details(r directory.Record) []Line {
	keys := make([]string, 0, len(r))
	for k := range r {
		if !known[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	out := make([]Line, 0, len(keys))
	for _, k := range keys {
		v := r[k]
		if v == nil {
			continue
		}
		out = append(out, Line{Label: Label(k), Value: Value(v)})
	}
	return out
}

// Label humanizes an API key: "start_date" becomes "Start Date".
func Label(key string) string {
	// Casers carry state and must not be shared between goroutines.
	return cases.Title(language.English).String(strings.ReplaceAll(key, "_", " "))
}

// Value formats an arbitrary JSON value for display.
func Value(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		if x {
			return "Yes"
		}
		return "No"
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case json.Number:
		return x.String()
	case map[string]any:
		if name, ok := x["name"].(string); ok && len(x) <= 2 {
			return name
		}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}
