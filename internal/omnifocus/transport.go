package omnifocus

import "strings"

// TransportText renders the draft as the single-line transport text that
// OmniFocus parses natively. Field order matters to the parser: name, then
// the ::project assignment, @tag markers, #defer and #due dates (defer
// first when both are present), and a trailing ! for flagged.
func (d TaskDraft) TransportText() string {
	parts := []string{d.Name}
	if d.Project != "" {
		parts = append(parts, "::"+d.Project)
	}
	for _, tag := range d.Tags {
		parts = append(parts, "@"+tag)
	}
	if d.DeferDate != "" {
		parts = append(parts, "#"+d.DeferDate)
	}
	if d.DueDate != "" {
		parts = append(parts, "#"+d.DueDate)
	}
	if d.Flagged {
		parts = append(parts, "!")
	}
	return strings.Join(parts, " ")
}
