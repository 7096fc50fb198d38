package scripts

import (
	"strings"
	"testing"
)

func TestAnalyzeCarouselPlugin(t *testing.T) {
	a := Analyze(`$('.slider').slick({autoplay: true});`)
	if a.Purpose != PurposeCarousel {
		t.Fatalf("expected carousel, got %q", a.Purpose)
	}
	if a.Confidence != 0.8 {
		t.Fatalf("table matches carry 0.8 confidence, got %v", a.Confidence)
	}
	if a.Replacement == nil || a.Replacement.Type != ReplaceWithBlock {
		t.Fatalf("carousel should map to a block replacement, got %+v", a.Replacement)
	}
}

func TestAnalyzeAnalyticsIsRemovable(t *testing.T) {
	a := Analyze(`gtag('config', 'UA-12345-1');`)
	if a.Purpose != PurposeAnalytics {
		t.Fatalf("expected analytics, got %q", a.Purpose)
	}
	if a.Replacement == nil || a.Replacement.Type != ReplaceRemove {
		t.Fatalf("analytics should be removable, got %+v", a.Replacement)
	}
}

// A slider plugin that also fades must not be misfiled as animation: named
// plugin groups are evaluated before the generic animation catch-all.
func TestAnalyzeCarouselBeatsAnimation(t *testing.T) {
	a := Analyze(`$('.gallery').slick({fade: true}); $('.x').fadeIn();`)
	if a.Purpose != PurposeCarousel {
		t.Fatalf("expected carousel to win over animation, got %q", a.Purpose)
	}
}

func TestAnalyzeUnclassifiedJQuery(t *testing.T) {
	a := Analyze(`$('#thing').css('color', 'red');`)
	if a.Purpose != PurposeUnknown {
		t.Fatalf("expected unknown, got %q", a.Purpose)
	}
	if a.Confidence != 0.3 {
		t.Fatalf("unclassified jQuery carries 0.3 confidence, got %v", a.Confidence)
	}
	if a.Replacement == nil || a.Replacement.Type != ReplaceManual {
		t.Fatalf("unknown scripts defer to manual review, got %+v", a.Replacement)
	}
}

func TestAnalyzeTotallyUnknown(t *testing.T) {
	a := Analyze(`doTheThing(42);`)
	if a.Purpose != PurposeUnknown || a.Confidence != 0.1 {
		t.Fatalf("expected unknown/0.1, got %q/%v", a.Purpose, a.Confidence)
	}
}

func TestAnalyzeUnknownNeverConfident(t *testing.T) {
	for _, src := range []string{
		`doTheThing(42);`,
		`$('#x').hide();`,
		`var a = 1; a += 2;`,
	} {
		a := Analyze(src)
		if a.Purpose == PurposeUnknown && a.Confidence > 0.3 {
			t.Fatalf("unknown purpose must cap confidence at 0.3, got %v for %q", a.Confidence, src)
		}
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	src := `$('.menu').slideToggle();`
	first := Analyze(src)
	for i := 0; i < 5; i++ {
		if got := Analyze(src); got != first {
			t.Fatalf("Analyze is not deterministic: %+v vs %+v", got, first)
		}
	}
}

func TestTruncateCapsSnippet(t *testing.T) {
	long := strings.Repeat("x", 500)
	got := Truncate(long)
	if len(got) != 200 {
		t.Fatalf("expected 200-char snippet, got %d", len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("truncated snippet should end with ellipsis")
	}
	if short := Truncate("short"); short != "short" {
		t.Fatalf("short snippets pass through, got %q", short)
	}
}

func TestAnalyzeHTMLScriptBodies(t *testing.T) {
	html := `<div><script>gtag('event', 'view');</script><p>text</p><script src="https://cdn.example.com/lib.js"></script></div>`
	out := AnalyzeHTML(html)
	if len(out) != 1 {
		t.Fatalf("src-only script tags have no body to classify, got %d analyses", len(out))
	}
	if out[0].Purpose != PurposeAnalytics {
		t.Fatalf("expected analytics, got %q", out[0].Purpose)
	}
}

func TestAnalyzeHTMLInlineHandlers(t *testing.T) {
	html := `<a onclick="window.open('https://example.com/popup')">open</a>` +
		`<img onerror="x()">`
	out := AnalyzeHTML(html)
	if len(out) != 1 {
		t.Fatalf("trivial handlers are skipped; expected 1 analysis, got %d", len(out))
	}
	if !strings.HasPrefix(out[0].Description, "inline onclick handler: ") {
		t.Fatalf("handler analyses carry a provenance prefix, got %q", out[0].Description)
	}
}

func TestLooksLikeScript(t *testing.T) {
	positives := []string{
		`function() { return 1; }`,
		`var count = 0;`,
		`document.getElementById('x')`,
		`$('.nav').toggle();`,
	}
	for _, s := range positives {
		if !LooksLikeScript(s) {
			t.Fatalf("expected %q to read as code", s)
		}
	}

	negatives := []string{
		"Join us for the annual meeting on March 3.",
		"Dues are $50 (payable at the door).",
	}
	for _, s := range negatives {
		if LooksLikeScript(s) {
			t.Fatalf("expected %q to read as prose", s)
		}
	}
}
