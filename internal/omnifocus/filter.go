package omnifocus

import (
	"fmt"
	"strings"

	"github.com/taskbridge/omnifocus-mcp/internal/omnijs"
)

// Expression renders the filter as an OmniJS boolean expression over a task
// variable named t. Conditions are composed with &&; an unconstrained
// filter yields "true" so the surrounding script stays well-formed.
func (f Filter) Expression() string {
	var conds []string

	if !f.IncludeCompleted {
		conds = append(conds, "!t.completed")
	}
	if f.ProjectName != "" {
		conds = append(conds, fmt.Sprintf(
			"t.containingProject && t.containingProject.name === '%s'",
			omnijs.EscapeSingleQuotes(f.ProjectName)))
	}
	if f.HasDueDate != nil {
		if *f.HasDueDate {
			conds = append(conds, "t.effectiveDueDate !== null")
		} else {
			conds = append(conds, "t.effectiveDueDate === null")
		}
	}
	if f.IsFlagged != nil {
		conds = append(conds, fmt.Sprintf("t.flagged === %t", *f.IsFlagged))
	}
	for _, tag := range f.TagNames {
		conds = append(conds, fmt.Sprintf(
			"t.tags.some(tag => tag.name === '%s')",
			omnijs.EscapeSingleQuotes(tag)))
	}
	if f.SearchText != "" {
		needle := omnijs.EscapeSingleQuotes(strings.ToLower(f.SearchText))
		conds = append(conds, fmt.Sprintf(
			"(t.name.toLowerCase().includes('%s') || (t.note && t.note.toLowerCase().includes('%s')))",
			needle, needle))
	}

	if len(conds) == 0 {
		return "true"
	}
	return strings.Join(conds, " && ")
}
