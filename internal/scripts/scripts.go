package scripts

import (
	"regexp"
	"strings"
)

// Purpose classifies what a script snippet is trying to do.
type Purpose string

const (
	PurposeCarousel       Purpose = "carousel"
	PurposeLightbox       Purpose = "lightbox"
	PurposeAccordion      Purpose = "accordion"
	PurposeTabs           Purpose = "tabs"
	PurposeAnalytics      Purpose = "analytics"
	PurposeCountdown      Purpose = "countdown"
	PurposeFormValidation Purpose = "form-validation"
	PurposeSmoothScroll   Purpose = "smooth-scroll"
	PurposeStickyHeader   Purpose = "sticky-header"
	PurposeLazyLoad       Purpose = "lazy-load"
	PurposeSocialShare    Purpose = "social-share"
	PurposeModal          Purpose = "modal"
	PurposeTooltip        Purpose = "tooltip"
	PurposeAnimation      Purpose = "animation"
	PurposeMenuToggle     Purpose = "menu-toggle"
	PurposeUnknown        Purpose = "unknown"
)

// ReplacementType drives downstream handling of a classified script.
type ReplacementType string

const (
	// ReplaceWithBlock maps the script to a specific native block type.
	ReplaceWithBlock ReplacementType = "block"
	// ReplaceBuiltIn means equivalent functionality exists natively.
	ReplaceBuiltIn ReplacementType = "built-in"
	// ReplaceRemove means the script is safe to discard outright.
	ReplaceRemove ReplacementType = "remove"
	// ReplaceManual defers the decision to a human reviewer.
	ReplaceManual ReplacementType = "manual"
)

// Replacement is the suggested native substitute for a classified script.
type Replacement struct {
	Type         ReplacementType `json:"type"`
	BlockType    string          `json:"blockType,omitempty"`
	Action       string          `json:"action"`
	Instructions string          `json:"instructions,omitempty"`
}

// Analysis is the result of classifying one script or handler snippet.
type Analysis struct {
	Purpose     Purpose      `json:"purpose"`
	Confidence  float64      `json:"confidence"`
	Description string       `json:"description"`
	Replacement *Replacement `json:"replacement,omitempty"`
	Snippet     string       `json:"snippet"`
}

const snippetMaxLen = 200

// Truncate shortens a source excerpt for inclusion in warnings and
// analyses. Script content is only ever surfaced this way, never verbatim
// inside block data.
func Truncate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= snippetMaxLen {
		return s
	}
	return s[:snippetMaxLen-3] + "..."
}

var jqueryIdiom = regexp.MustCompile(`\$\(|jQuery`)

// Analyze classifies one snippet of script-like text. It is a pure function:
// identical input always yields identical output. Table matches carry a
// fixed 0.8 confidence; jQuery code the table cannot place gets 0.3; totally
// unknown code gets 0.1.
func Analyze(src string) Analysis {
	for _, group := range patternTable {
		for _, re := range group.patterns {
			if re.MatchString(src) {
				return Analysis{
					Purpose:     group.purpose,
					Confidence:  0.8,
					Description: group.description,
					Replacement: group.replacement,
					Snippet:     Truncate(src),
				}
			}
		}
	}

	if jqueryIdiom.MatchString(src) {
		return Analysis{
			Purpose:     PurposeUnknown,
			Confidence:  0.3,
			Description: "unclassified jQuery code",
			Replacement: &Replacement{
				Type:   ReplaceManual,
				Action: "review",
				Instructions: "jQuery code with no recognized plugin signature; " +
					"review the original page to determine its role",
			},
			Snippet: Truncate(src),
		}
	}

	return Analysis{
		Purpose:     PurposeUnknown,
		Confidence:  0.1,
		Description: "unclassified script",
		Replacement: &Replacement{
			Type:         ReplaceManual,
			Action:       "review",
			Instructions: "script purpose could not be determined; review manually",
		},
		Snippet: Truncate(src),
	}
}

var (
	scriptTagRe = regexp.MustCompile(`(?is)<script\b[^>]*>(.*?)</script>`)
	// Inline event handlers in either quoting style. The attribute value is
	// the second submatch.
	handlerAttrRe = regexp.MustCompile(`(?i)\son([a-z]+)\s*=\s*("([^"]*)"|'([^']*)')`)
)

// AnalyzeHTML extracts every <script> body and every inline event-handler
// attribute value from a raw HTML string and classifies each one
// independently. Handler-derived analyses are prefixed so their provenance
// stays visible in review output.
func AnalyzeHTML(html string) []Analysis {
	var out []Analysis

	for _, m := range scriptTagRe.FindAllStringSubmatch(html, -1) {
		body := strings.TrimSpace(m[1])
		if body == "" {
			continue
		}
		out = append(out, Analyze(body))
	}

	for _, m := range handlerAttrRe.FindAllStringSubmatch(html, -1) {
		value := m[3]
		if value == "" {
			value = m[4]
		}
		if len(strings.TrimSpace(value)) <= 10 {
			continue
		}
		a := Analyze(value)
		a.Description = "inline on" + strings.ToLower(m[1]) + " handler: " + a.Description
		out = append(out, a)
	}

	return out
}

var codeLikeRes = []*regexp.Regexp{
	regexp.MustCompile(`function\s*\(`),
	regexp.MustCompile(`=>\s*[{(]`),
	regexp.MustCompile(`\b(var|let|const)\s+\w+\s*=`),
	regexp.MustCompile(`document\.(getElementById|querySelector|addEventListener|write)`),
	regexp.MustCompile(`window\.(location|onload|open)`),
	regexp.MustCompile(`\$\(\s*['".#]`),
	regexp.MustCompile(`jQuery\s*\(`),
	regexp.MustCompile(`\)\s*;\s*}`),
}

// LooksLikeScript reports whether tag-stripped text still reads like code.
// Inline handler text can survive tag stripping, so the converter runs this
// check even after <script> blocks have been removed.
func LooksLikeScript(text string) bool {
	for _, re := range codeLikeRes {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
