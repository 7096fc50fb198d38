package project

import (
	"testing"

	"wamigrate/internal/blocks"
	"wamigrate/internal/model"
)

func sampleReport() model.CrawlReport {
	return model.CrawlReport{
		SiteURL: "https://club.example.org",
		Pages: []model.PageContent{
			{
				URL:   "https://club.example.org/about",
				Title: "Club - About",
				CustomBlocks: []model.CustomHTMLBlock{
					{HTMLSnippet: "<p>We are a community organization.</p>", Location: "WaGadgetContent"},
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
	}
}

func TestNewFromReportConvertsEagerly(t *testing.T) {
	p := NewFromReport("club migration", sampleReport())

	if p.ID == "" || p.SiteURL != "https://club.example.org" {
		t.Fatalf("project identity wrong: %+v", p)
	}
	if len(p.Pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(p.Pages))
	}
	for _, page := range p.Pages {
		if page.Status != StatusConverted {
			t.Fatalf("fresh pages start converted, got %q", page.Status)
		}
		if len(page.ConvertedBlocks) == 0 {
			t.Fatalf("page %s has no blocks", page.URL)
		}
	}
	if p.Stats.TotalPages != 2 || p.Stats.ByStatus[StatusConverted] != 2 {
		t.Fatalf("stats wrong: %+v", p.Stats)
	}
	if p.Stats.TotalWidgets != 1 {
		t.Fatalf("expected one widget mapping in stats, got %d", p.Stats.TotalWidgets)
	}
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusConverted, StatusInReview, true},
		{StatusInReview, StatusApproved, true},
		{StatusApproved, StatusPublished, true},
		{StatusConverted, StatusApproved, false}, // no skipping ahead
		{StatusApproved, StatusInReview, false},  // no moving back
		{StatusConverted, StatusConverted, false},
		{StatusPublished, StatusSkipped, false}, // published is terminal
		{StatusSkipped, StatusInReview, false},  // skipped is terminal
		{StatusConverted, StatusSkipped, true},
		{StatusPending, StatusSkipped, true},
		{Status("bogus"), StatusInReview, false},
		{Status("bogus"), StatusSkipped, false}, // unrecognized from cannot even skip
	}
	for _, c := range cases {
		if got := CanTransition(c.from, c.to); got != c.want {
			t.Fatalf("CanTransition(%q, %q) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestUpdatePageStatus(t *testing.T) {
	p := NewFromReport("m", sampleReport())
	pageID := p.Pages[0].ID

	updated, err := UpdatePageStatus(p, pageID, StatusInReview, "dana", "checking layout")
	if err != nil {
		t.Fatalf("transition failed: %v", err)
	}
	page := updated.Pages[0]
	if page.Status != StatusInReview || page.ReviewedBy != "dana" || page.Notes != "checking layout" {
		t.Fatalf("review fields not set: %+v", page)
	}
	if page.ReviewedAt == nil {
		t.Fatalf("ReviewedAt not set")
	}
	if updated.Stats.ByStatus[StatusInReview] != 1 || updated.Stats.ByStatus[StatusConverted] != 1 {
		t.Fatalf("stats not recomputed: %+v", updated.Stats)
	}

	// The input project is a value; the update must not mutate it.
	if p.Pages[0].Status != StatusConverted {
		t.Fatalf("UpdatePageStatus mutated its input")
	}
}

func TestUpdatePageStatusRejectsIllegalMove(t *testing.T) {
	p := NewFromReport("m", sampleReport())
	if _, err := UpdatePageStatus(p, p.Pages[0].ID, StatusPublished, "", ""); err == nil {
		t.Fatalf("converted -> published skips review and must fail")
	}
	if _, err := UpdatePageStatus(p, "no-such-page", StatusInReview, "", ""); err == nil {
		t.Fatalf("unknown page id must fail")
	}
}

func TestEditPageBlocks(t *testing.T) {
	p := NewFromReport("m", sampleReport())
	pageID := p.Pages[0].ID

	edited := []blocks.Block{blocks.Heading(2, "About"), blocks.Text("rewritten")}
	updated, err := EditPageBlocks(p, pageID, edited)
	if err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	if len(updated.Pages[0].ConvertedBlocks) != 2 {
		t.Fatalf("blocks not replaced: %+v", updated.Pages[0].ConvertedBlocks)
	}
	if updated.Pages[0].Stats.ConvertedBlocks != 2 {
		t.Fatalf("page stats not updated: %+v", updated.Pages[0].Stats)
	}

	bad := []blocks.Block{blocks.New(blocks.TypeHeading, map[string]any{"level": 2})}
	if _, err := EditPageBlocks(p, pageID, bad); err == nil {
		t.Fatalf("invalid edited block must be rejected")
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	p := NewFromReport("m", sampleReport())

	data, err := Encode(p)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != p.ID || len(got.Pages) != len(p.Pages) {
		t.Fatalf("round trip lost data: %+v", got)
	}
	if got.Pages[1].WidgetConfigs[0].Kind != p.Pages[1].WidgetConfigs[0].Kind {
		t.Fatalf("widget configs lost in round trip")
	}
	if got.Stats.TotalPages != p.Stats.TotalPages {
		t.Fatalf("stats lost in round trip")
	}
}

func TestDecodeRejectsMissingAndFutureVersions(t *testing.T) {
	if _, err := Decode([]byte(`{"project":{}}`)); err == nil {
		t.Fatalf("payload without schemaVersion must be rejected")
	}
	if _, err := Decode([]byte(`{"schemaVersion":99,"project":{}}`)); err == nil {
		t.Fatalf("future schema version must be rejected")
	}
}
