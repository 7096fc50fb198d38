// Package theme derives a site-wide style profile from crawled HTML. It is
// pure and deterministic: three independent frequency scans (colors, fonts,
// button classes) over every custom-HTML block, aggregated with a weighted
// confidence heuristic.
package theme

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"wamigrate/internal/model"
)

// ColorUsage is one color with its observed frequency and usage contexts.
type ColorUsage struct {
	Value    string   `json:"value"`
	Count    int      `json:"count"`
	Contexts []string `json:"contexts,omitempty"`
}

// FontUsage is one font family with its observed frequency and contexts.
type FontUsage struct {
	Name     string   `json:"name"`
	Count    int      `json:"count"`
	Contexts []string `json:"contexts,omitempty"`
}

// ButtonStyle is one detected button style class with a suggested native
// variant assigned by relative frequency.
type ButtonStyle struct {
	Class   string `json:"class"`
	Count   int    `json:"count"`
	Variant string `json:"variant"` // primary, secondary, or outline
}

// Theme is the extracted site-wide style aggregate.
type Theme struct {
	PrimaryColor *string       `json:"primaryColor"`
	AccentColor  *string       `json:"accentColor"`
	Colors       []ColorUsage  `json:"colors,omitempty"`
	Fonts        []FontUsage   `json:"fonts,omitempty"`
	ButtonStyles []ButtonStyle `json:"buttonStyles,omitempty"`
	Confidence   float64       `json:"confidence"`
}

var (
	colorAttrRe = regexp.MustCompile(`(?i)\scolor\s*=\s*"([^"]+)"`)
	cssColorRe  = regexp.MustCompile(`(?i)(?:^|[^-])color\s*:\s*([^;"'}]+)`)
	cssBgRe     = regexp.MustCompile(`(?i)background(?:-color)?\s*:\s*([^;"'}]+)`)
	faceAttrRe  = regexp.MustCompile(`(?i)\sface\s*=\s*"([^"]+)"`)
	fontFamRe   = regexp.MustCompile(`(?i)font-family\s*:\s*([^;"}]+)`)
	buttonClsRe = regexp.MustCompile(`(?i)class="[^"]*\b(stylizedButton|generalButton|loginButton|button[A-Za-z0-9-]*|btn[A-Za-z0-9-]*)\b[^"]*"`)
	headingNear = regexp.MustCompile(`(?i)<h[1-6]`)
)

type usage struct {
	count    int
	contexts map[string]bool
}

// Extract builds a Theme from a crawl report. Never errors; an empty report
// yields an empty theme with base confidence.
func Extract(report model.CrawlReport) Theme {
	colors := map[string]*usage{}
	fonts := map[string]*usage{}
	buttons := map[string]int{}

	tally := func(m map[string]*usage, key, context string) {
		if key == "" {
			return
		}
		u := m[key]
		if u == nil {
			u = &usage{contexts: map[string]bool{}}
			m[key] = u
		}
		u.count++
		if context != "" {
			u.contexts[context] = true
		}
	}

	for _, page := range report.Pages {
		for _, blk := range page.CustomBlocks {
			html := blk.HTMLSnippet

			for _, m := range colorAttrRe.FindAllStringSubmatch(html, -1) {
				if hex, ok := NormalizeColor(m[1]); ok {
					tally(colors, hex, "text")
				}
			}
			for _, m := range cssColorRe.FindAllStringSubmatch(html, -1) {
				if hex, ok := NormalizeColor(m[1]); ok {
					tally(colors, hex, "text")
				}
			}
			for _, m := range cssBgRe.FindAllStringSubmatch(html, -1) {
				if hex, ok := NormalizeColor(m[1]); ok {
					tally(colors, hex, "background")
				}
			}

			for _, m := range faceAttrRe.FindAllStringSubmatchIndex(html, -1) {
				name := normalizeFont(html[m[2]:m[3]])
				tally(fonts, name, fontContext(html, m[0]))
			}
			for _, m := range fontFamRe.FindAllStringSubmatchIndex(html, -1) {
				name := normalizeFont(html[m[2]:m[3]])
				tally(fonts, name, fontContext(html, m[0]))
			}

			for _, m := range buttonClsRe.FindAllStringSubmatch(html, -1) {
				buttons[m[1]]++
			}
		}
	}

	t := Theme{
		Colors:       rankColors(colors),
		Fonts:        rankFonts(fonts),
		ButtonStyles: rankButtons(buttons),
	}

	t.PrimaryColor, t.AccentColor = pickPrimaryAccent(t.Colors)
	t.Confidence = confidence(t, len(report.Pages))
	return t
}

// normalizeFont reduces a font stack to its first family, unquoted and
// lowercased.
func normalizeFont(stack string) string {
	first := strings.SplitN(stack, ",", 2)[0]
	first = strings.Trim(strings.TrimSpace(first), `'"`)
	return strings.ToLower(first)
}

// fontContext tags a font declaration as heading or body by looking for a
// heading tag in the preceding stretch of markup.
func fontContext(html string, pos int) string {
	start := pos - 200
	if start < 0 {
		start = 0
	}
	if headingNear.MatchString(html[start:pos]) {
		return "heading"
	}
	return "body"
}

func rankColors(m map[string]*usage) []ColorUsage {
	out := make([]ColorUsage, 0, len(m))
	for v, u := range m {
		out = append(out, ColorUsage{Value: v, Count: u.count, Contexts: sortedKeys(u.contexts)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	return out
}

func rankFonts(m map[string]*usage) []FontUsage {
	out := make([]FontUsage, 0, len(m))
	for v, u := range m {
		out = append(out, FontUsage{Name: v, Count: u.count, Contexts: sortedKeys(u.contexts)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func rankButtons(m map[string]int) []ButtonStyle {
	out := make([]ButtonStyle, 0, len(m))
	for cls, n := range m {
		out = append(out, ButtonStyle{Class: cls, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Class < out[j].Class
	})
	for i := range out {
		switch i {
		case 0:
			out[i].Variant = "primary"
		case 1:
			out[i].Variant = "secondary"
		default:
			out[i].Variant = "outline"
		}
	}
	return out
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// pickPrimaryAccent chooses the most frequent non-neutral color as primary
// and the next-ranked non-neutral color as accent, skipping an accent
// candidate that is more than 85% similar to the primary.
func pickPrimaryAccent(ranked []ColorUsage) (*string, *string) {
	var primary, accent *string
	for i := range ranked {
		if isNeutral(ranked[i].Value) {
			continue
		}
		if primary == nil {
			primary = &ranked[i].Value
			continue
		}
		if Similarity(*primary, ranked[i].Value) > 0.85 {
			continue
		}
		accent = &ranked[i].Value
		break
	}
	return primary, accent
}

// confidence starts at a 0.5 base and earns fixed bonuses for a strong
// primary color signal, consistent font usage, and sample size.
func confidence(t Theme, pageCount int) float64 {
	c := 0.5
	if t.PrimaryColor != nil {
		for _, cu := range t.Colors {
			if cu.Value == *t.PrimaryColor && cu.Count > 2*pageCount {
				c += 0.2
				break
			}
		}
	}
	if len(t.Fonts) > 0 && t.Fonts[0].Count > pageCount {
		c += 0.15
	}
	if pageCount >= 10 {
		c += 0.15
	}
	if c > 1.0 {
		c = 1.0
	}
	return c
}

// namedColors resolves the small set of legacy named colors that show up in
// two decades of hand-authored markup.
var namedColors = map[string]string{
	"black": "#000000", "white": "#ffffff", "red": "#ff0000",
	"green": "#008000", "blue": "#0000ff", "yellow": "#ffff00",
	"orange": "#ffa500", "purple": "#800080", "gray": "#808080",
	"grey": "#808080", "silver": "#c0c0c0", "maroon": "#800000",
	"navy": "#000080", "teal": "#008080", "olive": "#808000",
	"aqua": "#00ffff", "cyan": "#00ffff", "fuchsia": "#ff00ff",
	"magenta": "#ff00ff", "lime": "#00ff00", "brown": "#a52a2a",
	"pink": "#ffc0cb", "gold": "#ffd700",
}

var (
	hex6Re = regexp.MustCompile(`^#([0-9a-fA-F]{6})$`)
	hex3Re = regexp.MustCompile(`^#([0-9a-fA-F]{3})$`)
	rgbRe  = regexp.MustCompile(`^rgba?\(\s*(\d{1,3})\s*,\s*(\d{1,3})\s*,\s*(\d{1,3})`)
)

// NormalizeColor converts a color token to 6-digit lowercase hex. It is
// idempotent on already-normalized values. Unparseable tokens (gradients,
// var() refs, "transparent") report ok=false.
func NormalizeColor(raw string) (string, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))

	if hex, ok := namedColors[s]; ok {
		return hex, true
	}
	if m := hex6Re.FindStringSubmatch(s); m != nil {
		return "#" + strings.ToLower(m[1]), true
	}
	if m := hex3Re.FindStringSubmatch(s); m != nil {
		d := m[1]
		return fmt.Sprintf("#%c%c%c%c%c%c", d[0], d[0], d[1], d[1], d[2], d[2]), true
	}
	if m := rgbRe.FindStringSubmatch(s); m != nil {
		r, g, b := atoiClamp(m[1]), atoiClamp(m[2]), atoiClamp(m[3])
		return fmt.Sprintf("#%02x%02x%02x", r, g, b), true
	}
	return "", false
}

func atoiClamp(s string) int {
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	if n > 255 {
		n = 255
	}
	return n
}

func rgbComponents(hex string) (int, int, int, bool) {
	m := hex6Re.FindStringSubmatch(hex)
	if m == nil {
		return 0, 0, 0, false
	}
	var r, g, b int
	fmt.Sscanf(m[1], "%02x%02x%02x", &r, &g, &b)
	return r, g, b, true
}

// isNeutral reports near-white, near-black, and low-saturation grays, which
// are excluded from primary/accent selection. Thresholds are fixed.
func isNeutral(hex string) bool {
	r, g, b, ok := rgbComponents(hex)
	if !ok {
		return true
	}
	if r >= 240 && g >= 240 && b >= 240 {
		return true
	}
	if r <= 32 && g <= 32 && b <= 32 {
		return true
	}
	max := r
	min := r
	for _, v := range []int{g, b} {
		if v > max {
			max = v
		}
		if v < min {
			min = v
		}
	}
	return max-min <= 16
}

var maxColorDistance = math.Sqrt(3 * 255 * 255)

// Similarity is 1 minus the normalized Euclidean RGB distance between two
// hex colors, in [0,1]. Unparseable inputs score 0.
func Similarity(a, b string) float64 {
	ar, ag, ab, ok := rgbComponents(a)
	if !ok {
		return 0
	}
	br, bg, bb, ok := rgbComponents(b)
	if !ok {
		return 0
	}
	dr, dg, db := float64(ar-br), float64(ag-bg), float64(ab-bb)
	return 1 - math.Sqrt(dr*dr+dg*dg+db*db)/maxColorDistance
}
