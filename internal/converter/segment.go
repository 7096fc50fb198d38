package converter

import (
	"regexp"
	"strings"

	"wamigrate/internal/scripts"
)

// Wild Apricot wraps authored content in content-editable container divs
// that carry no semantic value of their own.
var wrapperOpenRe = regexp.MustCompile(
	`(?is)^\s*<div[^>]*class="[^"]*(?:WaGadgetContentEditable|gadgetStyle(?:None|Body)|stylizedContent)[^"]*"[^>]*>`)

// stripWrappers peels known wrapper divs off the outside of a fragment.
// Matching the trailing </div> by suffix rather than by balancing is
// imprecise for pathological nesting but safe: at worst a stray close tag
// survives into a segment and is stripped during text extraction.
func stripWrappers(html string) string {
	for {
		loc := wrapperOpenRe.FindStringIndex(html)
		if loc == nil {
			return html
		}
		inner := strings.TrimSpace(html[loc[1]:])
		if strings.HasSuffix(strings.ToLower(inner), "</div>") {
			inner = inner[:len(inner)-len("</div>")]
		}
		html = inner
	}
}

var (
	scriptBlockRe  = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script>`)
	scriptOrphanRe = regexp.MustCompile(`(?is)<script\b[^>]*/?>`)
	scriptBodyRe   = regexp.MustCompile(`(?is)<script\b[^>]*>(.*?)</script>`)
	srcAttrRe      = regexp.MustCompile(`(?i)\ssrc\s*=\s*"([^"]+)"`)
)

// stripScripts removes every <script> element before segmentation. Scripts
// are never preserved as block content; inline bodies are classified and
// reported, external script references become external_resource warnings.
func stripScripts(html string) (string, []Warning, []scripts.Analysis) {
	var warnings []Warning
	var findings []scripts.Analysis

	out := scriptBlockRe.ReplaceAllStringFunc(html, func(tag string) string {
		body := ""
		if m := scriptBodyRe.FindStringSubmatch(tag); m != nil {
			body = strings.TrimSpace(m[1])
		}

		if body == "" {
			if m := srcAttrRe.FindStringSubmatch(tag); m != nil {
				warnings = append(warnings, Warning{
					Type:           WarningExternalResource,
					Severity:       SeverityInfo,
					Message:        "external script reference removed: " + m[1],
					Recommendation: "verify whether this third-party resource is still needed on the new site",
					HTMLSnippet:    scripts.Truncate(tag),
				})
			}
			return ""
		}

		a := scripts.Analyze(body)
		findings = append(findings, a)
		warnings = append(warnings, scriptWarning(a))
		return ""
	})

	// Unterminated script tags: drop the opener so nothing executable
	// survives even in badly broken markup.
	out = scriptOrphanRe.ReplaceAllString(out, "")

	return out, warnings, findings
}

var handlerAttrStripRe = regexp.MustCompile(`(?i)\son[a-z]+\s*=\s*("[^"]*"|'[^']*')`)

// stripHandlers removes inline event-handler attributes so they cannot leak
// into verbatim html fallback blocks. Handler bodies long enough to carry
// logic are classified like scripts.
func stripHandlers(html string) (string, []Warning, []scripts.Analysis) {
	var warnings []Warning
	var findings []scripts.Analysis

	out := handlerAttrStripRe.ReplaceAllStringFunc(html, func(attr string) string {
		eq := strings.IndexByte(attr, '=')
		value := strings.Trim(strings.TrimSpace(attr[eq+1:]), `"'`)
		if len(strings.TrimSpace(value)) > 10 {
			a := scripts.Analyze(value)
			a.Description = "inline event handler: " + a.Description
			findings = append(findings, a)
			warnings = append(warnings, scriptWarning(a))
		}
		return ""
	})

	return out, warnings, findings
}

// scriptWarning turns a script classification into the warning surfaced to
// reviewers. Classifications with a native or removable replacement are
// informational; anything needing a human decision is a warning.
func scriptWarning(a scripts.Analysis) Warning {
	severity := SeverityInfo
	recommendation := ""
	if a.Replacement != nil {
		recommendation = a.Replacement.Instructions
		if a.Replacement.Type == scripts.ReplaceManual {
			severity = SeverityWarning
		}
	}
	return Warning{
		Type:           WarningScript,
		Severity:       severity,
		Message:        "script removed: " + a.Description,
		Recommendation: recommendation,
		HTMLSnippet:    a.Snippet,
	}
}

// structuralTags start a new segment when they open at top level.
var structuralTags = map[string]bool{
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"p": true, "ul": true, "ol": true, "div": true, "hr": true, "iframe": true,
}

// depthTags are containers tracked while scanning so that nested structure
// stays inside its enclosing segment. <p> is deliberately absent: its
// implicit closing rules make depth counting unreliable.
var depthTags = map[string]bool{
	"div": true, "ul": true, "ol": true, "table": true,
	"section": true, "article": true, "blockquote": true, "iframe": true,
}

// splitSegments performs the lookahead split: the fragment is cut
// immediately before each top-level structural opening tag. This is a
// token scan, not a parser; structure nested inside one top-level element
// stays together as a single segment.
func splitSegments(html string) []string {
	var cuts []int
	depth := 0

	for i := 0; i < len(html); {
		if html[i] != '<' {
			i++
			continue
		}

		j := i + 1
		closing := false
		if j < len(html) && html[j] == '/' {
			closing = true
			j++
		}
		start := j
		for j < len(html) && isTagNameByte(html[j]) {
			j++
		}
		name := strings.ToLower(html[start:j])
		if name == "" {
			// Comment, doctype, or a bare '<' in text.
			i++
			continue
		}

		end := strings.IndexByte(html[i:], '>')
		if end < 0 {
			break
		}
		end += i
		selfClosed := end > i && html[end-1] == '/'

		if !closing && depth == 0 && structuralTags[name] {
			cuts = append(cuts, i)
		}
		if depthTags[name] && !selfClosed {
			if closing {
				if depth > 0 {
					depth--
				}
			} else {
				depth++
			}
		}

		i = end + 1
	}

	var segments []string
	appendSeg := func(s string) {
		if strings.TrimSpace(s) != "" {
			segments = append(segments, strings.TrimSpace(s))
		}
	}

	if len(cuts) == 0 {
		appendSeg(html)
		return segments
	}
	if cuts[0] > 0 {
		appendSeg(html[:cuts[0]])
	}
	for k, cut := range cuts {
		if k+1 < len(cuts) {
			appendSeg(html[cut:cuts[k+1]])
		} else {
			appendSeg(html[cut:])
		}
	}
	return segments
}

func isTagNameByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

var (
	tagRe        = regexp.MustCompile(`<[^>]*>`)
	blockBreakRe = regexp.MustCompile(`(?i)</(?:p|div|li|h[1-6]|tr)>|<br\s*/?>`)
	entityRepl   = strings.NewReplacer(
		"&nbsp;", " ", "&amp;", "&", "&lt;", "<", "&gt;", ">",
		"&quot;", `"`, "&#39;", "'", "&rsquo;", "'", "&lsquo;", "'",
		"&rdquo;", `"`, "&ldquo;", `"`, "&mdash;", "-", "&ndash;", "-",
	)
	lineSpaceRe = regexp.MustCompile(`[ \t]+`)
	multiNLRe   = regexp.MustCompile(`\n{2,}`)
)

// extractText flattens a fragment to plain text: block-level closers become
// newlines, remaining tags are stripped, common entities decoded, and
// whitespace collapsed.
func extractText(fragment string) string {
	s := blockBreakRe.ReplaceAllString(fragment, "\n")
	s = tagRe.ReplaceAllString(s, " ")
	s = entityRepl.Replace(s)
	s = lineSpaceRe.ReplaceAllString(s, " ")

	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	s = strings.Join(lines, "\n")
	s = multiNLRe.ReplaceAllString(s, "\n")
	return strings.TrimSpace(s)
}

var markupHintRe = regexp.MustCompile(`(?i)^\s*</?[a-z!]|class\s*=|style\s*=`)

// looksLikeMarkup reports whether tag-stripped text still reads like raw
// HTML, which happens when the source markup was too broken to tokenize.
func looksLikeMarkup(text string) bool {
	return markupHintRe.MatchString(text)
}
