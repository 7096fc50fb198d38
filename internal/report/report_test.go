package report

import (
	"strings"
	"testing"

	"wamigrate/internal/converter"
	"wamigrate/internal/model"
	"wamigrate/internal/project"
	"wamigrate/internal/scripts"
)

func sampleProject() project.Project {
	return project.NewFromReport("club", model.CrawlReport{
		SiteURL: "https://club.example.org",
		Pages: []model.PageContent{
			{
				URL:   "https://club.example.org/about",
				Title: "Club - About",
				CustomBlocks: []model.CustomHTMLBlock{
					{HTMLSnippet: "<p>Founded in 1973.</p>", Location: "WaGadgetContent"},
					{HTMLSnippet: "<div><table><tr><td>Dues</td><td>$50</td></tr></table></div>", Location: "WaGadgetContent"},
					{HTMLSnippet: `<p>News</p><script>gtag('event','x');</script>`, Location: "WaGadgetContent"},
				},
			},
			{
				URL:   "https://club.example.org/events",
				Title: "Club - Events",
				CustomBlocks: []model.CustomHTMLBlock{
					{HTMLSnippet: `<div><a href="/event-1">AGM</a></div>`, Location: "WaGadgetEvents"},
				},
			},
		},
	})
}

func TestBuild(t *testing.T) {
	p := sampleProject()
	r := Build(p)

	if r.ProjectID != p.ID || r.TotalPages != 2 {
		t.Fatalf("identity wrong: %+v", r)
	}
	if r.TotalBlocks != p.Stats.TotalBlocks {
		t.Fatalf("block total disagrees with project stats: %d vs %d", r.TotalBlocks, p.Stats.TotalBlocks)
	}
	if r.BlocksByType["placeholder"] != 1 {
		t.Fatalf("expected one placeholder counted, got %+v", r.BlocksByType)
	}
	if r.ActionCounts[ActionRemove] != 1 {
		t.Fatalf("analytics script should count as removable, got %+v", r.ActionCounts)
	}
	if r.ActionCounts[ActionAuto] < 1 {
		t.Fatalf("widget mapping should count as auto, got %+v", r.ActionCounts)
	}
	if r.PatternCounts["analytics"] != 1 {
		t.Fatalf("expected analytics pattern tally, got %+v", r.PatternCounts)
	}
	if r.WarningsByType[string(converter.WarningComplexHTML)] != 1 {
		t.Fatalf("expected one complex_html warning counted, got %+v", r.WarningsByType)
	}

	// The preserved table block gets a markdown preview.
	if len(r.HTMLPreviews) == 0 {
		t.Fatalf("expected a preview for the html fallback block")
	}
	if !strings.Contains(r.HTMLPreviews[0].Markdown, "Dues") {
		t.Fatalf("preview lost content: %q", r.HTMLPreviews[0].Markdown)
	}
}

func TestCategorize(t *testing.T) {
	cases := []struct {
		a    scripts.Analysis
		want ActionCategory
	}{
		{scripts.Analyze(`$('.s').slick()`), ActionAuto},
		{scripts.Analyze(`gtag('config','x')`), ActionRemove},
		{scripts.Analyze(`$('.x').modal()`), ActionManual},
		{scripts.Analyze(`mysteryCall()`), ActionUnknown},
	}
	for _, c := range cases {
		if got := categorize(c.a); got != c.want {
			t.Fatalf("categorize(%q) = %q, want %q", c.a.Purpose, got, c.want)
		}
	}
}

func TestRenderStable(t *testing.T) {
	p := sampleProject()
	first := Render(Build(p))
	second := Render(Build(p))
	if first != second {
		t.Fatalf("render output must be deterministic")
	}
	if !strings.Contains(first, "Blocks by type:") || !strings.Contains(first, "Top issues:") {
		t.Fatalf("render missing sections:\n%s", first)
	}
}

func TestRankIssuesOrderAndLimit(t *testing.T) {
	counts := map[string]int{}
	for i := 0; i < 15; i++ {
		counts[strings.Repeat("x", i+1)] = i + 1
	}
	issues := rankIssues(counts, 10)
	if len(issues) != 10 {
		t.Fatalf("expected 10 issues, got %d", len(issues))
	}
	if issues[0].Count != 15 || issues[9].Count != 6 {
		t.Fatalf("ranking wrong: %+v", issues)
	}
}
