// Package project wraps conversion output into reviewable units. A
// MigrationProject owns an ordered collection of MigrationPages; every
// state change goes through an explicit update operation that returns a
// new snapshot with recomputed stats, so the rolled-up numbers can never
// drift from the pages they summarize.
package project

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"wamigrate/internal/blocks"
	"wamigrate/internal/converter"
	"wamigrate/internal/model"
	"wamigrate/internal/scripts"
	"wamigrate/internal/widgets"
)

// Page is one reviewable migrated page. Conversion runs eagerly at
// creation, so a fresh page is already in the converted state.
type Page struct {
	ID              string                      `json:"id"`
	URL             string                      `json:"url"`
	Title           string                      `json:"title"`
	Status          Status                      `json:"status"`
	ConvertedBlocks []blocks.Block              `json:"convertedBlocks"`
	Warnings        []converter.Warning         `json:"warnings,omitempty"`
	WidgetMappings  []converter.WidgetMapping   `json:"widgetMappings,omitempty"`
	WidgetConfigs   []widgets.Config            `json:"widgetConfigs,omitempty"`
	ScriptFindings  []scripts.Analysis          `json:"scriptFindings,omitempty"`
	Stats           converter.Stats             `json:"stats"`
	ReviewedAt      *time.Time                  `json:"reviewedAt,omitempty"`
	ReviewedBy      string                      `json:"reviewedBy,omitempty"`
	Notes           string                      `json:"notes,omitempty"`
}

// Stats is the rolled-up summary of a project. It is always a pure
// recomputation from the pages slice.
type Stats struct {
	TotalPages    int            `json:"totalPages"`
	ByStatus      map[Status]int `json:"byStatus"`
	TotalBlocks   int            `json:"totalBlocks"`
	TotalWarnings int            `json:"totalWarnings"`
	TotalWidgets  int            `json:"totalWidgets"`
}

// Project owns the pages of one site migration.
type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	SiteURL   string    `json:"siteUrl"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Pages     []Page    `json:"pages"`
	Stats     Stats     `json:"stats"`
}

// NewFromReport builds a project from a crawl report, converting every page
// eagerly. Each created page starts in the converted state.
func NewFromReport(name string, report model.CrawlReport) Project {
	now := time.Now().UTC()
	p := Project{
		ID:        uuid.New().String(),
		Name:      name,
		SiteURL:   report.SiteURL,
		CreatedAt: now,
		UpdatedAt: now,
	}

	for _, pc := range report.Pages {
		res := converter.ConvertCrawledPage(pc)
		p.Pages = append(p.Pages, Page{
			ID:              uuid.New().String(),
			URL:             pc.URL,
			Title:           pc.Title,
			Status:          StatusConverted,
			ConvertedBlocks: res.Blocks,
			Warnings:        res.Warnings,
			WidgetMappings:  res.WidgetMappings,
			WidgetConfigs:   res.WidgetConfigs,
			ScriptFindings:  res.ScriptFindings,
			Stats:           res.Stats,
		})
	}

	p.Stats = computeStats(p.Pages)
	return p
}

// computeStats recomputes the project rollup from scratch.
func computeStats(pages []Page) Stats {
	s := Stats{
		TotalPages: len(pages),
		ByStatus:   map[Status]int{},
	}
	for i := range pages {
		s.ByStatus[pages[i].Status]++
		s.TotalBlocks += len(pages[i].ConvertedBlocks)
		s.TotalWarnings += len(pages[i].Warnings)
		s.TotalWidgets += len(pages[i].WidgetMappings)
	}
	return s
}

// findPage returns the index of a page by id, or -1.
func (p *Project) findPage(pageID string) int {
	for i := range p.Pages {
		if p.Pages[i].ID == pageID {
			return i
		}
	}
	return -1
}

// snapshot returns a copy of the project with its own pages slice, so
// update operations never mutate the caller's value.
func (p Project) snapshot() Project {
	pages := make([]Page, len(p.Pages))
	copy(pages, p.Pages)
	p.Pages = pages
	return p
}

// UpdatePageStatus applies one operator-driven status transition and
// returns a new project snapshot. ReviewedAt, ReviewedBy, and Notes are set
// only here, never during conversion.
func UpdatePageStatus(p Project, pageID string, to Status, reviewedBy, notes string) (Project, error) {
	idx := p.findPage(pageID)
	if idx < 0 {
		return Project{}, fmt.Errorf("page %q not found", pageID)
	}

	from := p.Pages[idx].Status
	if !CanTransition(from, to) {
		return Project{}, fmt.Errorf("invalid status transition %q -> %q", from, to)
	}

	out := p.snapshot()
	now := time.Now().UTC()
	page := out.Pages[idx]
	page.Status = to
	page.ReviewedAt = &now
	page.ReviewedBy = reviewedBy
	page.Notes = notes
	out.Pages[idx] = page

	out.Stats = computeStats(out.Pages)
	out.UpdatedAt = now
	return out, nil
}

// EditPageBlocks replaces a page's blocks after manual review edits and
// returns a new project snapshot. Every block must still satisfy the
// registry contract; an invalid block is a caller error, not something to
// silently accept.
func EditPageBlocks(p Project, pageID string, edited []blocks.Block) (Project, error) {
	idx := p.findPage(pageID)
	if idx < 0 {
		return Project{}, fmt.Errorf("page %q not found", pageID)
	}
	for i := range edited {
		if err := blocks.Validate(edited[i]); err != nil {
			return Project{}, fmt.Errorf("edited block %d: %w", i, err)
		}
	}

	out := p.snapshot()
	page := out.Pages[idx]
	page.ConvertedBlocks = edited
	page.Stats.ConvertedBlocks = len(edited)
	out.Pages[idx] = page

	out.Stats = computeStats(out.Pages)
	out.UpdatedAt = time.Now().UTC()
	return out, nil
}
