package fsf

import (
	"fmt"
	"strings"
)

// ExtractionError reports a page entry that violates the minimal structure
// the extractor depends on. Silent drops would corrupt the cross-reference
// tables downstream, so these abort the run.
type ExtractionError struct {
	Section string
	Name    string
	Reason  string
}

func (e *ExtractionError) Error() string {
	var sb strings.Builder
	sb.WriteString("extraction failed: ")
	sb.WriteString(e.Reason)
	if e.Name != "" {
		fmt.Fprintf(&sb, " (entry %q", e.Name)
		if e.Section != "" {
			fmt.Fprintf(&sb, " in section %q", e.Section)
		}
		sb.WriteString(")")
	} else if e.Section != "" {
		fmt.Fprintf(&sb, " (section %q)", e.Section)
	}
	return sb.String()
}

// OverrideConflictError reports correction tables that are internally
// inconsistent or inconsistent with the scraped page.
type OverrideConflictError struct {
	Table string
	Keys  []string
	Why   string
}

func (e *OverrideConflictError) Error() string {
	return fmt.Sprintf("%s table conflict: %s: %s", e.Table, e.Why, strings.Join(e.Keys, ", "))
}
