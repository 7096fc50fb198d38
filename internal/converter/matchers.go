package converter

import (
	"regexp"
	"strings"

	"wamigrate/internal/blocks"
	"wamigrate/internal/scripts"
)

// matcher inspects the head of a segment and either consumes an element
// into a block (optionally with a warning), reporting how many bytes it
// consumed, or declines. Anything left after the consumed element goes back
// through the chain, so content trailing a matched element in the same
// segment is never dropped.
type matcher func(seg string) (blocks.Block, *Warning, int, bool)

// matcherChain is the fixed priority order. First match wins; order is part
// of the behavioral contract, so do not reorder casually.
var matcherChain = []matcher{
	matchHeading,
	matchIframe,
	matchList,
	matchImage,
	matchParagraph,
	matchDivider,
}

func matchSegment(seg string) (blocks.Block, *Warning, int, bool) {
	for _, m := range matcherChain {
		if blk, warn, consumed, ok := m(seg); ok {
			return blk, warn, consumed, true
		}
	}
	return blocks.Block{}, nil, 0, false
}

var headingRe = regexp.MustCompile(`(?is)^\s*<h([1-6])[^>]*>(.*?)</h[1-6]>`)

func matchHeading(seg string) (blocks.Block, *Warning, int, bool) {
	m := headingRe.FindStringSubmatchIndex(seg)
	if m == nil {
		return blocks.Block{}, nil, 0, false
	}
	text := extractText(seg[m[4]:m[5]])
	if text == "" {
		return blocks.Block{}, nil, 0, false
	}
	level := int(seg[m[2]] - '0')
	return blocks.Heading(level, text), nil, m[1], true
}

var (
	iframeTagRe    = regexp.MustCompile(`(?is)<iframe[^>]*>`)
	widthAttrRe    = regexp.MustCompile(`(?i)\swidth\s*=\s*"([^"]*)"`)
	heightAttrRe   = regexp.MustCompile(`(?i)\sheight\s*=\s*"([^"]*)"`)
	iframeSrcRe    = regexp.MustCompile(`(?i)\ssrc\s*=\s*"([^"]*)"`)
	altAttrRe      = regexp.MustCompile(`(?i)\salt\s*=\s*"([^"]*)"`)
	imgTagRe       = regexp.MustCompile(`(?i)<img[^>]*>`)
	imgLeadRe      = regexp.MustCompile(`(?is)^\s*(?:<div[^>]*>\s*)*<img`)
	listOpenRe     = regexp.MustCompile(`(?is)^\s*<(ul|ol)[^>]*>`)
	listItemRe     = regexp.MustCompile(`(?is)<li[^>]*>(.*?)</li>`)
	paragraphRe    = regexp.MustCompile(`(?is)^\s*<p[^>]*>(.*?)</p>`)
	buttonAnchorRe = regexp.MustCompile(`(?is)<a[^>]*class="[^"]*(?:button|btn|stylizedButton)[^"]*"[^>]*>(.*?)</a>`)
	anchorHrefRe   = regexp.MustCompile(`(?i)\shref\s*=\s*"([^"]*)"`)
	hrTagRe        = regexp.MustCompile(`(?i)<hr[^>]*>`)
)

var iframeCloseRe = regexp.MustCompile(`(?i)</iframe\s*>`)

// matchIframe emits an iframe block for any segment containing an iframe.
// Non-allowlisted sources are preserved too, with an unsupported_embed
// warning: the policy is "preserve content, flag for review", not "drop
// unknown embeds".
func matchIframe(seg string) (blocks.Block, *Warning, int, bool) {
	loc := iframeTagRe.FindStringIndex(seg)
	if loc == nil {
		return blocks.Block{}, nil, 0, false
	}
	tag := seg[loc[0]:loc[1]]
	src, width, height := "", "", ""
	if m := iframeSrcRe.FindStringSubmatch(tag); m != nil {
		src = m[1]
	}
	if m := widthAttrRe.FindStringSubmatch(tag); m != nil {
		width = m[1]
	}
	if m := heightAttrRe.FindStringSubmatch(tag); m != nil {
		height = m[1]
	}

	consumed := loc[1]
	if close := iframeCloseRe.FindStringIndex(seg[loc[1]:]); close != nil {
		consumed = loc[1] + close[1]
	}

	blk, warn := iframeBlockFor(src, width, height)
	return blk, warn, consumed, true
}

// iframeBlockFor builds an iframe block, adding an unsupported_embed
// warning when the source host is not on the embed allowlist.
func iframeBlockFor(src, width, height string) (blocks.Block, *Warning) {
	blk := blocks.Iframe(src, width, height)
	if embedAllowed(src) {
		return blk, nil
	}
	return blk, &Warning{
		Type:           WarningUnsupportedEmbed,
		Severity:       SeverityWarning,
		Message:        "iframe embed from an unrecognized provider: " + src,
		Recommendation: "confirm the embed source is trustworthy before publishing",
		HTMLSnippet:    scripts.Truncate(src),
	}
}

var (
	ulCloseRe = regexp.MustCompile(`(?i)</ul\s*>`)
	olCloseRe = regexp.MustCompile(`(?i)</ol\s*>`)
)

func matchList(seg string) (blocks.Block, *Warning, int, bool) {
	m := listOpenRe.FindStringSubmatch(seg)
	if m == nil {
		return blocks.Block{}, nil, 0, false
	}
	ordered := strings.EqualFold(m[1], "ol")

	// Items are collected only up to the list's close tag; anything after
	// it belongs to the next element.
	closeRe := ulCloseRe
	if ordered {
		closeRe = olCloseRe
	}
	body := seg
	consumed := len(seg)
	if close := closeRe.FindStringIndex(seg); close != nil {
		body = seg[:close[0]]
		consumed = close[1]
	}

	var items []string
	for _, li := range listItemRe.FindAllStringSubmatch(body, -1) {
		if text := extractText(li[1]); text != "" {
			items = append(items, text)
		}
	}
	if len(items) == 0 {
		return blocks.Block{}, nil, 0, false
	}
	return blocks.List(ordered, items), nil, consumed, true
}

// matchImage consumes segments that lead with an image (optionally inside
// plain wrapper divs). Images inside paragraphs are handled by the
// paragraph matcher so surrounding text is not lost.
func matchImage(seg string) (blocks.Block, *Warning, int, bool) {
	if !imgLeadRe.MatchString(seg) {
		return blocks.Block{}, nil, 0, false
	}
	loc := imgTagRe.FindStringIndex(seg)
	if loc == nil {
		return blocks.Block{}, nil, 0, false
	}
	return imageBlockFromTag(seg[loc[0]:loc[1]]), nil, loc[1], true
}

func imageBlockFromTag(tag string) blocks.Block {
	src, alt := "", ""
	if m := iframeSrcRe.FindStringSubmatch(tag); m != nil {
		src = m[1]
	}
	if m := altAttrRe.FindStringSubmatch(tag); m != nil {
		alt = m[1]
	}
	return blocks.Image(src, alt)
}

// matchParagraph handles <p> segments with two special cases: a paragraph
// whose sole content is one image becomes an image block, and a paragraph
// containing a button-styled anchor becomes a button block.
func matchParagraph(seg string) (blocks.Block, *Warning, int, bool) {
	m := paragraphRe.FindStringSubmatchIndex(seg)
	if m == nil {
		return blocks.Block{}, nil, 0, false
	}
	inner := seg[m[2]:m[3]]
	consumed := m[1]

	if img := imgTagRe.FindString(inner); img != "" {
		rest := strings.Replace(inner, img, "", 1)
		if extractText(rest) == "" {
			return imageBlockFromTag(img), nil, consumed, true
		}
	}

	if b := buttonAnchorRe.FindStringSubmatch(inner); b != nil {
		text := extractText(b[1])
		href := ""
		if h := anchorHrefRe.FindStringSubmatch(b[0]); h != nil {
			href = h[1]
		}
		if text != "" {
			return blocks.Button(text, href), nil, consumed, true
		}
	}

	text := extractText(inner)
	if text == "" {
		return blocks.Block{}, nil, 0, false
	}
	return blocks.Text(text), nil, consumed, true
}

func matchDivider(seg string) (blocks.Block, *Warning, int, bool) {
	loc := hrTagRe.FindStringIndex(seg)
	if loc == nil {
		return blocks.Block{}, nil, 0, false
	}
	return blocks.Divider(), nil, loc[1], true
}
