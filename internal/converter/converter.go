// Package converter turns arbitrary Wild Apricot HTML fragments into typed
// Murmurant content blocks. It is deliberately regex-driven rather than a
// conformant HTML parser: the inputs span two decades of organically
// authored markup, and a pattern-based segmenter with a fixed matcher
// priority and fallback cascade is auditable in a way a full DOM pipeline
// is not. The converter is total over its input domain; the worst case for
// any string is an html fallback block plus a complex_html warning.
package converter

import (
	"strings"

	"wamigrate/internal/blocks"
	"wamigrate/internal/model"
	"wamigrate/internal/scripts"
	"wamigrate/internal/widgets"
)

// WarningType categorizes a conversion finding.
type WarningType string

const (
	WarningScript           WarningType = "script"
	WarningUnsupportedEmbed WarningType = "unsupported_embed"
	WarningComplexHTML      WarningType = "complex_html"
	WarningExternalResource WarningType = "external_resource"
)

// Severity is an informational signal; warnings never halt conversion.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Warning is a structured finding attached to a conversion result. The
// HTMLSnippet excerpt is truncated so script content is only ever surfaced
// for human reference, never as executable payload.
type Warning struct {
	Type           WarningType `json:"type"`
	Severity       Severity    `json:"severity"`
	Message        string      `json:"message"`
	Recommendation string      `json:"recommendation,omitempty"`
	HTMLSnippet    string      `json:"htmlSnippet,omitempty"`
}

// Stats counts what happened during one conversion call. ConvertedBlocks
// always equals the emitted block count; TotalElements and SkippedElements
// are per-element tallies and do not form an exact partition because a
// single element can yield more than one outcome.
type Stats struct {
	TotalElements   int `json:"totalElements"`
	ConvertedBlocks int `json:"convertedBlocks"`
	SkippedElements int `json:"skippedElements"`
	Warnings        int `json:"warnings"`
}

// Result is the aggregate of one snippet conversion. Block order preserves
// source document order.
type Result struct {
	Blocks         []blocks.Block     `json:"blocks"`
	Warnings       []Warning          `json:"warnings,omitempty"`
	Stats          Stats              `json:"stats"`
	ScriptFindings []scripts.Analysis `json:"scriptFindings,omitempty"`
}

// WidgetMapping records one recognized widget that was replaced by a
// placeholder block, and where in the block sequence it landed.
type WidgetMapping struct {
	WAType        string `json:"waType"`
	MurmurantType string `json:"murmurantType"`
	Position      int    `json:"position"`
}

// BatchResult aggregates conversion output across the custom-HTML units of
// a page, preserving input order.
type BatchResult struct {
	Blocks         []blocks.Block     `json:"blocks"`
	Warnings       []Warning          `json:"warnings,omitempty"`
	Stats          Stats              `json:"stats"`
	WidgetMappings []WidgetMapping    `json:"widgetMappings,omitempty"`
	WidgetConfigs  []widgets.Config   `json:"widgetConfigs,omitempty"`
	ScriptFindings []scripts.Analysis `json:"scriptFindings,omitempty"`
}

// ConvertHTMLSnippet converts one custom-content HTML fragment into blocks.
// It never fails: malformed input degrades to fallback blocks and warnings.
func ConvertHTMLSnippet(html string) Result {
	var res Result

	html = stripWrappers(html)

	var scriptWarnings []Warning
	html, scriptWarnings, res.ScriptFindings = stripScripts(html)
	res.Warnings = append(res.Warnings, scriptWarnings...)

	handlerWarnings, handlerFindings := []Warning(nil), []scripts.Analysis(nil)
	html, handlerWarnings, handlerFindings = stripHandlers(html)
	res.Warnings = append(res.Warnings, handlerWarnings...)
	res.ScriptFindings = append(res.ScriptFindings, handlerFindings...)

	// A matcher consumes only its own element; whatever trails it in the
	// same segment is fed back through the chain so nothing after a matched
	// element is lost. The fallback always consumes the whole remainder.
	for _, seg := range splitSegments(html) {
		rest := seg
		for strings.TrimSpace(rest) != "" {
			res.Stats.TotalElements++

			if blk, warn, consumed, ok := matchSegment(rest); ok {
				res.Blocks = append(res.Blocks, blk)
				if warn != nil {
					res.Warnings = append(res.Warnings, *warn)
				}
				if consumed <= 0 || consumed >= len(rest) {
					rest = ""
				} else {
					rest = rest[consumed:]
				}
				continue
			}

			blk, warn, ok := fallbackSegment(rest)
			if warn != nil {
				res.Warnings = append(res.Warnings, *warn)
			}
			if ok {
				res.Blocks = append(res.Blocks, blk)
			} else {
				res.Stats.SkippedElements++
			}
			rest = ""
		}
	}

	res.Stats.ConvertedBlocks = len(res.Blocks)
	res.Stats.Warnings = len(res.Warnings)
	return res
}

// fallbackSegment handles segments no structural matcher consumed. The
// cascade: code-looking text is dropped with a script warning; markup-
// looking text is preserved verbatim as an html block; clean prose becomes
// a text block; anything else long enough to matter is preserved as html.
func fallbackSegment(seg string) (blocks.Block, *Warning, bool) {
	text := extractText(seg)

	if text != "" && scripts.LooksLikeScript(text) {
		return blocks.Block{}, &Warning{
			Type:           WarningScript,
			Severity:       SeverityWarning,
			Message:        "inline code survived tag stripping",
			Recommendation: "review the original fragment; the code was not migrated",
			HTMLSnippet:    scripts.Truncate(seg),
		}, false
	}

	if text != "" && looksLikeMarkup(text) {
		return blocks.HTML(seg), &Warning{
			Type:           WarningComplexHTML,
			Severity:       SeverityWarning,
			Message:        "fragment contains raw markup that could not be converted structurally",
			Recommendation: "rebuild this section manually from the preserved HTML",
			HTMLSnippet:    scripts.Truncate(seg),
		}, true
	}

	if len(text) > 10 {
		return blocks.Text(text), nil, true
	}

	if len(strings.TrimSpace(seg)) > 50 {
		return blocks.HTML(seg), &Warning{
			Type:           WarningComplexHTML,
			Severity:       SeverityWarning,
			Message:        "fragment could not be converted and was preserved as HTML",
			Recommendation: "rebuild this section manually from the preserved HTML",
			HTMLSnippet:    scripts.Truncate(seg),
		}, true
	}

	return blocks.Block{}, nil, false
}

// ConvertCustomHTMLBlocks converts the ordered custom-content units of one
// page. Recognized widgets are handled by the action table before any
// generic parsing: skip widgets vanish silently (their functionality is
// rebuilt natively), placeholder widgets become a single placeholder block
// plus a mapping entry, and everything else goes through ConvertHTMLSnippet.
func ConvertCustomHTMLBlocks(units []model.CustomHTMLBlock) BatchResult {
	var out BatchResult

	for _, unit := range units {
		if cfg := widgets.Extract(unit.HTMLSnippet, unit.Location); cfg != nil {
			action := widgets.ActionFor(cfg.Kind)
			switch action {
			case widgets.ActionSkip:
				out.Stats.TotalElements++
				out.Stats.SkippedElements++
				continue
			case widgets.ActionPlaceholder:
				native := widgets.MurmurantType(cfg.Kind)
				out.WidgetMappings = append(out.WidgetMappings, WidgetMapping{
					WAType:        string(cfg.Kind),
					MurmurantType: native,
					Position:      len(out.Blocks),
				})
				out.Blocks = append(out.Blocks, blocks.Placeholder(native, string(cfg.Kind)))
				out.WidgetConfigs = append(out.WidgetConfigs, *cfg)
				out.Stats.TotalElements++
				continue
			}
			// ActionConvert: fall through to generic conversion.
		}

		r := ConvertHTMLSnippet(unit.HTMLSnippet)
		out.Blocks = append(out.Blocks, r.Blocks...)
		out.Warnings = append(out.Warnings, r.Warnings...)
		out.ScriptFindings = append(out.ScriptFindings, r.ScriptFindings...)
		out.Stats.TotalElements += r.Stats.TotalElements
		out.Stats.SkippedElements += r.Stats.SkippedElements
	}

	out.Stats.ConvertedBlocks = len(out.Blocks)
	out.Stats.Warnings = len(out.Warnings)
	return out
}

// ConvertCrawledPage converts a whole crawled page: a synthetic level-1
// heading from the page title, the batch-converted custom units, then any
// page-level embeds not already present as iframe blocks.
func ConvertCrawledPage(page model.PageContent) BatchResult {
	var out BatchResult

	if title := stripSiteName(page.Title); title != "" {
		out.Blocks = append(out.Blocks, blocks.Heading(1, title))
		out.Stats.TotalElements++
	}

	offset := len(out.Blocks)
	batch := ConvertCustomHTMLBlocks(page.CustomBlocks)
	out.Blocks = append(out.Blocks, batch.Blocks...)
	out.Warnings = append(out.Warnings, batch.Warnings...)
	out.WidgetConfigs = append(out.WidgetConfigs, batch.WidgetConfigs...)
	out.ScriptFindings = append(out.ScriptFindings, batch.ScriptFindings...)
	for _, m := range batch.WidgetMappings {
		m.Position += offset
		out.WidgetMappings = append(out.WidgetMappings, m)
	}
	out.Stats.TotalElements += batch.Stats.TotalElements
	out.Stats.SkippedElements += batch.Stats.SkippedElements

	for _, e := range page.Embeds {
		if e.Src == "" || hasIframeSrc(out.Blocks, e.Src) {
			continue
		}
		blk, warn := iframeBlockFor(e.Src, e.Width, e.Height)
		out.Blocks = append(out.Blocks, blk)
		if warn != nil {
			out.Warnings = append(out.Warnings, *warn)
		}
		out.Stats.TotalElements++
	}

	out.Stats.ConvertedBlocks = len(out.Blocks)
	out.Stats.Warnings = len(out.Warnings)
	return out
}

// stripSiteName removes the site-name prefix Wild Apricot prepends to page
// titles, i.e. everything up to and including the first " - " separator.
func stripSiteName(title string) string {
	if idx := strings.Index(title, " - "); idx >= 0 {
		return strings.TrimSpace(title[idx+3:])
	}
	return strings.TrimSpace(title)
}

func hasIframeSrc(list []blocks.Block, src string) bool {
	for _, b := range list {
		if b.Type != blocks.TypeIframe {
			continue
		}
		if s, ok := b.Data["src"].(string); ok && s == src {
			return true
		}
	}
	return false
}
