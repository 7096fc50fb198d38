package converter

import (
	"encoding/json"
	"strings"
	"testing"

	"wamigrate/internal/blocks"
	"wamigrate/internal/model"
)

func TestConvertPreservesDocumentOrder(t *testing.T) {
	html := `<h1>Welcome</h1><p>Intro text for members.</p><div><img src="/banner.jpg" alt="Banner"></div>`
	res := ConvertHTMLSnippet(html)

	want := []blocks.Type{blocks.TypeHeading, blocks.TypeText, blocks.TypeImage}
	if len(res.Blocks) != len(want) {
		t.Fatalf("expected %d blocks, got %d: %+v", len(want), len(res.Blocks), res.Blocks)
	}
	for i, w := range want {
		if res.Blocks[i].Type != w {
			t.Fatalf("block %d: expected %q, got %q", i, w, res.Blocks[i].Type)
		}
	}
	if res.Blocks[0].Data["level"] != 1 || res.Blocks[0].Data["text"] != "Welcome" {
		t.Fatalf("heading data wrong: %v", res.Blocks[0].Data)
	}
	if res.Blocks[2].Data["src"] != "/banner.jpg" || res.Blocks[2].Data["alt"] != "Banner" {
		t.Fatalf("image data wrong: %v", res.Blocks[2].Data)
	}
}

func TestConvertBareImageAfterParagraph(t *testing.T) {
	res := ConvertHTMLSnippet(`<h1>A</h1><p>B</p><img src="x">`)

	want := []blocks.Type{blocks.TypeHeading, blocks.TypeText, blocks.TypeImage}
	if len(res.Blocks) != len(want) {
		t.Fatalf("expected %d blocks, got %d: %+v", len(want), len(res.Blocks), res.Blocks)
	}
	for i, w := range want {
		if res.Blocks[i].Type != w {
			t.Fatalf("block %d: expected %q, got %q", i, w, res.Blocks[i].Type)
		}
	}
	if res.Blocks[2].Data["src"] != "x" {
		t.Fatalf("trailing image data wrong: %v", res.Blocks[2].Data)
	}
}

func TestConvertTextTrailingHeading(t *testing.T) {
	res := ConvertHTMLSnippet(`<h1>Title</h1>This is a full sentence that must survive conversion.`)

	if len(res.Blocks) != 2 {
		t.Fatalf("expected heading and text, got %d: %+v", len(res.Blocks), res.Blocks)
	}
	if res.Blocks[0].Type != blocks.TypeHeading || res.Blocks[1].Type != blocks.TypeText {
		t.Fatalf("block types wrong: %q, %q", res.Blocks[0].Type, res.Blocks[1].Type)
	}
	if res.Blocks[1].Data["text"] != "This is a full sentence that must survive conversion." {
		t.Fatalf("trailing prose wrong: %v", res.Blocks[1].Data)
	}
}

func TestConvertListWithTrailingContent(t *testing.T) {
	res := ConvertHTMLSnippet(`<ul><li>One</li><li>Two</li></ul><img src="/after.jpg">`)

	var types []blocks.Type
	for _, b := range res.Blocks {
		types = append(types, b.Type)
	}
	if len(res.Blocks) != 2 || res.Blocks[0].Type != blocks.TypeList || res.Blocks[1].Type != blocks.TypeImage {
		t.Fatalf("expected list then image, got %v", types)
	}
	items := res.Blocks[0].Data["items"].([]string)
	if len(items) != 2 {
		t.Fatalf("trailing content must not fold into list items: %v", items)
	}
}

func TestConvertAllowlistedEmbed(t *testing.T) {
	res := ConvertHTMLSnippet(`<iframe src="https://www.youtube.com/embed/dQw4w9WgXcQ" width="560" height="315"></iframe>`)
	if len(res.Blocks) != 1 || res.Blocks[0].Type != blocks.TypeIframe {
		t.Fatalf("expected one iframe block, got %+v", res.Blocks)
	}
	if len(res.Warnings) != 0 {
		t.Fatalf("allowlisted provider must not warn, got %+v", res.Warnings)
	}
	if res.Blocks[0].Data["width"] != "560" {
		t.Fatalf("iframe dimensions lost: %v", res.Blocks[0].Data)
	}
}

func TestConvertUnknownEmbedKeptWithWarning(t *testing.T) {
	res := ConvertHTMLSnippet(`<iframe src="https://widgets.evil.example/embed/1"></iframe>`)
	if len(res.Blocks) != 1 || res.Blocks[0].Type != blocks.TypeIframe {
		t.Fatalf("unknown embeds are preserved, not dropped: %+v", res.Blocks)
	}
	if len(res.Warnings) != 1 || res.Warnings[0].Type != WarningUnsupportedEmbed {
		t.Fatalf("expected unsupported_embed warning, got %+v", res.Warnings)
	}
}

func TestConvertSoleImageParagraph(t *testing.T) {
	res := ConvertHTMLSnippet(`<p><img src="/photos/gala.jpg" alt="Gala night"></p>`)
	if len(res.Blocks) != 1 {
		t.Fatalf("expected exactly one block, got %d: %+v", len(res.Blocks), res.Blocks)
	}
	b := res.Blocks[0]
	if b.Type != blocks.TypeImage {
		t.Fatalf("a paragraph wrapping only an image becomes an image block, got %q", b.Type)
	}
	if b.Data["src"] != "/photos/gala.jpg" || b.Data["alt"] != "Gala night" {
		t.Fatalf("image data wrong: %v", b.Data)
	}
}

func TestConvertParagraphWithImageAndText(t *testing.T) {
	res := ConvertHTMLSnippet(`<p><img src="/x.jpg">See the photo above from our spring event.</p>`)
	if len(res.Blocks) != 1 || res.Blocks[0].Type != blocks.TypeText {
		t.Fatalf("paragraph with surrounding text stays a text block, got %+v", res.Blocks)
	}
}

func TestConvertButtonAnchor(t *testing.T) {
	res := ConvertHTMLSnippet(`<p><a class="stylizedButton" href="/join">Join Now</a></p>`)
	if len(res.Blocks) != 1 || res.Blocks[0].Type != blocks.TypeButton {
		t.Fatalf("expected button block, got %+v", res.Blocks)
	}
	if res.Blocks[0].Data["text"] != "Join Now" || res.Blocks[0].Data["url"] != "/join" {
		t.Fatalf("button data wrong: %v", res.Blocks[0].Data)
	}
}

func TestConvertList(t *testing.T) {
	res := ConvertHTMLSnippet(`<ul><li>First</li><li>Second <b>bold</b></li></ul>`)
	if len(res.Blocks) != 1 || res.Blocks[0].Type != blocks.TypeList {
		t.Fatalf("expected list block, got %+v", res.Blocks)
	}
	items := res.Blocks[0].Data["items"].([]string)
	if len(items) != 2 || items[1] != "Second bold" {
		t.Fatalf("list items wrong: %v", items)
	}
	if res.Blocks[0].Data["ordered"] != false {
		t.Fatalf("ul should be unordered")
	}
}

// Scripts are stripped before blocks are built; their content may only
// surface as truncated warning snippets, never inside block data.
func TestConvertScriptNeverReachesBlockData(t *testing.T) {
	html := `<p>Meeting minutes are posted monthly.</p><script>$('.photos').slick({autoplay:true});</script>`
	res := ConvertHTMLSnippet(html)

	for _, b := range res.Blocks {
		raw, _ := json.Marshal(b.Data)
		if strings.Contains(string(raw), "slick") {
			t.Fatalf("script content leaked into block data: %s", raw)
		}
	}
	if len(res.ScriptFindings) != 1 {
		t.Fatalf("expected one script finding, got %d", len(res.ScriptFindings))
	}

	found := false
	for _, w := range res.Warnings {
		if w.Type == WarningScript {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a script warning, got %+v", res.Warnings)
	}
}

func TestConvertInlineHandlerStripped(t *testing.T) {
	html := `<p onclick="window.open('https://example.com/popup')">Click here for details</p>`
	res := ConvertHTMLSnippet(html)

	if len(res.Blocks) != 1 || res.Blocks[0].Type != blocks.TypeText {
		t.Fatalf("expected one text block, got %+v", res.Blocks)
	}
	raw, _ := json.Marshal(res.Blocks)
	if strings.Contains(string(raw), "window.open") {
		t.Fatalf("handler body leaked into block output: %s", raw)
	}
	if len(res.ScriptFindings) != 1 {
		t.Fatalf("expected the handler to be classified, got %d findings", len(res.ScriptFindings))
	}
}

func TestConvertComplexTablePreserved(t *testing.T) {
	html := `<div><table><tr><td>A</td><td>B</td></tr></table></div>`
	res := ConvertHTMLSnippet(html)

	if len(res.Blocks) != 1 || res.Blocks[0].Type != blocks.TypeHTML {
		t.Fatalf("expected html fallback block, got %+v", res.Blocks)
	}
	if !strings.Contains(res.Blocks[0].Data["content"].(string), "<table>") {
		t.Fatalf("fallback must preserve the original markup")
	}
	if len(res.Warnings) != 1 || res.Warnings[0].Type != WarningComplexHTML {
		t.Fatalf("expected complex_html warning, got %+v", res.Warnings)
	}
}

// The converter is total: any input yields a valid (possibly empty) result,
// and every emitted block satisfies the registry contract.
func TestConvertTotality(t *testing.T) {
	inputs := []string{
		"",
		"   \n\t  ",
		"just some plain prose that is not markup at all",
		"<<<>>>",
		"<div><span>unclosed",
		"<p></p><ul></ul>",
		strings.Repeat("<div>", 40) + "deep" + strings.Repeat("</div>", 3),
	}
	for _, in := range inputs {
		res := ConvertHTMLSnippet(in)
		for i, b := range res.Blocks {
			if err := blocks.Validate(b); err != nil {
				t.Fatalf("input %q block %d invalid: %v", in, i, err)
			}
		}
		if res.Stats.ConvertedBlocks != len(res.Blocks) {
			t.Fatalf("input %q: stats.ConvertedBlocks=%d but %d blocks emitted",
				in, res.Stats.ConvertedBlocks, len(res.Blocks))
		}
		if res.Stats.Warnings != len(res.Warnings) {
			t.Fatalf("input %q: warning count mismatch", in)
		}
	}
}

func TestConvertWidgetSkipIsSilent(t *testing.T) {
	res := ConvertCustomHTMLBlocks([]model.CustomHTMLBlock{{
		HTMLSnippet: `<form action="/login"><input name="u"><input name="p"></form>`,
		Location:    "WaGadgetLoginForm",
	}})
	if len(res.Blocks) != 0 || len(res.Warnings) != 0 || len(res.WidgetMappings) != 0 {
		t.Fatalf("skip widgets vanish silently, got %+v", res)
	}
	if res.Stats.SkippedElements != 1 {
		t.Fatalf("skip must still count the element, got %d", res.Stats.SkippedElements)
	}
}

func TestConvertWidgetPlaceholder(t *testing.T) {
	res := ConvertCustomHTMLBlocks([]model.CustomHTMLBlock{{
		HTMLSnippet: `<div class="eventList"><a href="/event-1">AGM</a></div>`,
		Location:    "WaGadgetEvents gadgetStyleNone",
	}})
	if len(res.Blocks) != 1 || res.Blocks[0].Type != blocks.TypePlaceholder {
		t.Fatalf("expected one placeholder block, got %+v", res.Blocks)
	}
	if len(res.WidgetMappings) != 1 {
		t.Fatalf("expected one widget mapping, got %d", len(res.WidgetMappings))
	}
	m := res.WidgetMappings[0]
	if m.WAType != "events" || m.MurmurantType != "event-list" || m.Position != 0 {
		t.Fatalf("mapping wrong: %+v", m)
	}
	if len(res.WidgetConfigs) != 1 {
		t.Fatalf("expected extracted widget config, got %d", len(res.WidgetConfigs))
	}
}

func TestConvertCrawledPage(t *testing.T) {
	page := model.PageContent{
		URL:   "https://club.example.org/about",
		Title: "Valley Hiking Club - About Us",
		CustomBlocks: []model.CustomHTMLBlock{
			{
				HTMLSnippet: `<div class="eventList"><a href="/event-1">AGM</a></div>`,
				Location:    "WaGadgetEvents",
			},
			{
				HTMLSnippet: `<p>We have welcomed hikers since 1973.</p>`,
				Location:    "WaGadgetContent gadgetStyleNone",
			},
		},
		Embeds: []model.PageEmbed{
			{Src: "https://player.vimeo.com/video/99", Width: "640"},
		},
	}

	res := ConvertCrawledPage(page)

	if len(res.Blocks) != 4 {
		t.Fatalf("expected heading+placeholder+text+embed, got %d: %+v", len(res.Blocks), res.Blocks)
	}
	if res.Blocks[0].Type != blocks.TypeHeading || res.Blocks[0].Data["text"] != "About Us" {
		t.Fatalf("site-name prefix should be stripped from the title heading: %v", res.Blocks[0].Data)
	}
	if res.Blocks[1].Type != blocks.TypePlaceholder {
		t.Fatalf("expected placeholder second, got %q", res.Blocks[1].Type)
	}
	if res.Blocks[3].Type != blocks.TypeIframe {
		t.Fatalf("page-level embed should append as iframe, got %q", res.Blocks[3].Type)
	}

	// Mapping positions are offset by the synthetic title heading.
	if len(res.WidgetMappings) != 1 || res.WidgetMappings[0].Position != 1 {
		t.Fatalf("mapping position not offset: %+v", res.WidgetMappings)
	}
}

func TestConvertCrawledPageDedupesEmbeds(t *testing.T) {
	src := "https://www.youtube.com/embed/abc123"
	page := model.PageContent{
		Title: "Videos",
		CustomBlocks: []model.CustomHTMLBlock{
			{HTMLSnippet: `<iframe src="` + src + `"></iframe>`, Location: "WaGadgetContent"},
		},
		Embeds: []model.PageEmbed{{Src: src}},
	}

	res := ConvertCrawledPage(page)

	count := 0
	for _, b := range res.Blocks {
		if b.Type == blocks.TypeIframe {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("embed already present as a block must not duplicate, got %d iframes", count)
	}
}

func TestStripSiteName(t *testing.T) {
	if got := stripSiteName("My Club - Contact"); got != "Contact" {
		t.Fatalf("got %q", got)
	}
	if got := stripSiteName("Contact"); got != "Contact" {
		t.Fatalf("titles without a separator pass through, got %q", got)
	}
}
