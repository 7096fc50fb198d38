// Package report summarizes a migration project into the counts a human
// needs to judge migration readiness: blocks by type, findings by action
// category, script pattern frequencies, and a ranked list of top issues.
package report

import (
	"fmt"
	"sort"
	"strings"

	htmlmd "github.com/JohannesKaufmann/html-to-markdown"

	"wamigrate/internal/blocks"
	"wamigrate/internal/project"
	"wamigrate/internal/scripts"
)

// ActionCategory buckets every finding by how it is resolved.
type ActionCategory string

const (
	ActionAuto    ActionCategory = "auto"    // native equivalent exists, nothing to do
	ActionRemove  ActionCategory = "remove"  // safe to discard
	ActionManual  ActionCategory = "manual"  // a human must decide
	ActionUnknown ActionCategory = "unknown" // unclassified content
)

// Issue is one ranked entry in the top-issues list.
type Issue struct {
	Description string `json:"description"`
	Count       int    `json:"count"`
}

// HTMLPreview pairs a preserved html fallback block with a markdown
// rendering so reviewers can read what was flagged without parsing markup.
type HTMLPreview struct {
	PageURL  string `json:"pageUrl"`
	BlockID  string `json:"blockId"`
	Markdown string `json:"markdown"`
}

// Report is the migration-readiness summary of one project.
type Report struct {
	ProjectID       string                 `json:"projectId"`
	TotalPages      int                    `json:"totalPages"`
	TotalBlocks     int                    `json:"totalBlocks"`
	TotalWarnings   int                    `json:"totalWarnings"`
	BlocksByType    map[string]int         `json:"blocksByType"`
	WarningsByType  map[string]int         `json:"warningsByType"`
	ActionCounts    map[ActionCategory]int `json:"actionCounts"`
	PatternCounts   map[string]int         `json:"patternCounts"`
	WidgetsByTarget map[string]int         `json:"widgetsByTarget"`
	TopIssues       []Issue                `json:"topIssues"`
	HTMLPreviews    []HTMLPreview          `json:"htmlPreviews,omitempty"`
}

// categorize maps a script finding to an action category.
func categorize(a scripts.Analysis) ActionCategory {
	if a.Purpose == scripts.PurposeUnknown {
		return ActionUnknown
	}
	if a.Replacement == nil {
		return ActionManual
	}
	switch a.Replacement.Type {
	case scripts.ReplaceBuiltIn, scripts.ReplaceWithBlock:
		return ActionAuto
	case scripts.ReplaceRemove:
		return ActionRemove
	default:
		return ActionManual
	}
}

// Build assembles the report from a project's stored conversion output.
// Markdown previews are rendered for html fallback blocks; a block whose
// markup defeats the renderer keeps its raw content as the preview.
func Build(p project.Project) Report {
	r := Report{
		ProjectID:       p.ID,
		TotalPages:      len(p.Pages),
		BlocksByType:    map[string]int{},
		WarningsByType:  map[string]int{},
		ActionCounts:    map[ActionCategory]int{},
		PatternCounts:   map[string]int{},
		WidgetsByTarget: map[string]int{},
	}

	issueCounts := map[string]int{}
	conv := htmlmd.NewConverter("", true, nil)

	for _, page := range p.Pages {
		r.TotalBlocks += len(page.ConvertedBlocks)
		r.TotalWarnings += len(page.Warnings)

		for _, b := range page.ConvertedBlocks {
			r.BlocksByType[string(b.Type)]++
			if b.Type != blocks.TypeHTML {
				continue
			}
			content, _ := b.Data["content"].(string)
			md, err := conv.ConvertString(content)
			if err != nil || strings.TrimSpace(md) == "" {
				md = content
			}
			r.HTMLPreviews = append(r.HTMLPreviews, HTMLPreview{
				PageURL:  page.URL,
				BlockID:  b.ID,
				Markdown: md,
			})
		}

		for _, w := range page.Warnings {
			r.WarningsByType[string(w.Type)]++
			issueCounts[w.Message]++
		}

		for _, f := range page.ScriptFindings {
			r.ActionCounts[categorize(f)]++
			r.PatternCounts[string(f.Purpose)]++
		}

		for _, m := range page.WidgetMappings {
			r.WidgetsByTarget[m.MurmurantType]++
			r.ActionCounts[ActionAuto]++
		}
	}

	r.TopIssues = rankIssues(issueCounts, 10)
	return r
}

func rankIssues(counts map[string]int, limit int) []Issue {
	out := make([]Issue, 0, len(counts))
	for desc, n := range counts {
		out = append(out, Issue{Description: desc, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Description < out[j].Description
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Render prints the report as readable text with stable ordering, suitable
// for a terminal or a plain-text attachment.
func Render(r Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Migration readiness report for project %s\n", r.ProjectID)
	fmt.Fprintf(&b, "Pages: %d  Blocks: %d  Warnings: %d\n\n", r.TotalPages, r.TotalBlocks, r.TotalWarnings)

	writeSection := func(title string, m map[string]int) {
		if len(m) == 0 {
			return
		}
		b.WriteString(title + "\n")
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "  %-24s %d\n", k, m[k])
		}
		b.WriteString("\n")
	}

	writeSection("Blocks by type:", r.BlocksByType)
	writeSection("Warnings by type:", r.WarningsByType)

	actions := map[string]int{}
	for k, v := range r.ActionCounts {
		actions[string(k)] = v
	}
	writeSection("Findings by action:", actions)
	writeSection("Script patterns:", r.PatternCounts)
	writeSection("Widgets by native target:", r.WidgetsByTarget)

	if len(r.TopIssues) > 0 {
		b.WriteString("Top issues:\n")
		for i, issue := range r.TopIssues {
			fmt.Fprintf(&b, "  %2d. (%d) %s\n", i+1, issue.Count, issue.Description)
		}
	}

	return b.String()
}
