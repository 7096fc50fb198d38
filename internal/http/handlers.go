package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"wamigrate/internal/converter"
	"wamigrate/internal/metrics"
	"wamigrate/internal/model"
	"wamigrate/internal/project"
	"wamigrate/internal/report"
	"wamigrate/internal/store"
	"wamigrate/internal/theme"
)

func getStore(c *fiber.Ctx) *store.Store {
	st, _ := c.Locals("store").(*store.Store)
	return st
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Success: false,
		Code:    "bad_request",
		Error:   msg,
	})
}

func internalError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Success: false,
		Code:    "internal_error",
		Error:   err.Error(),
	})
}

func recordConversion(res converter.BatchResult) {
	for _, b := range res.Blocks {
		metrics.RecordBlock(string(b.Type))
	}
	for _, w := range res.Warnings {
		metrics.RecordWarning(string(w.Type))
	}
	for _, f := range res.ScriptFindings {
		metrics.RecordScriptPurpose(string(f.Purpose))
	}
	for range res.WidgetMappings {
		metrics.RecordWidget("placeholder")
	}
}

// convertHandler converts a single HTML snippet without creating a project.
// When a location class string is supplied the snippet goes through widget
// detection first, the same path a crawled page takes.
func convertHandler(c *fiber.Ctx) error {
	var req ConvertRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if strings.TrimSpace(req.HTML) == "" {
		return badRequest(c, "html is required")
	}

	if req.Location != "" {
		res := converter.ConvertCustomHTMLBlocks([]model.CustomHTMLBlock{{
			HTMLSnippet: req.HTML,
			Location:    req.Location,
		}})
		recordConversion(res)
		return c.JSON(res)
	}

	res := converter.ConvertHTMLSnippet(req.HTML)
	recordConversion(converter.BatchResult{
		Blocks:         res.Blocks,
		Warnings:       res.Warnings,
		ScriptFindings: res.ScriptFindings,
	})
	return c.JSON(res)
}

// themeHandler extracts the inferred site theme from a crawl report.
func themeHandler(c *fiber.Ctx) error {
	var req model.CrawlReport
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if len(req.Pages) == 0 {
		return badRequest(c, "report has no pages")
	}
	return c.JSON(theme.Extract(req))
}

// createProjectHandler converts every page of a crawl report and stores the
// resulting project.
func createProjectHandler(c *fiber.Ctx) error {
	var req CreateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if strings.TrimSpace(req.Name) == "" {
		return badRequest(c, "name is required")
	}
	if len(req.Report.Pages) == 0 {
		return badRequest(c, "report has no pages")
	}

	proj := project.NewFromReport(req.Name, req.Report)

	for _, page := range proj.Pages {
		metrics.RecordPageConverted()
		recordConversion(converter.BatchResult{
			Blocks:         page.ConvertedBlocks,
			Warnings:       page.Warnings,
			WidgetMappings: page.WidgetMappings,
			ScriptFindings: page.ScriptFindings,
		})
	}

	if err := getStore(c).CreateProject(c.Context(), proj); err != nil {
		return internalError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(proj)
}

func listProjectsHandler(c *fiber.Ctx) error {
	summaries, err := getStore(c).ListProjects(c.Context())
	if err != nil {
		return internalError(c, err)
	}
	if summaries == nil {
		summaries = []store.ProjectSummary{}
	}
	return c.JSON(fiber.Map{"projects": summaries})
}

func getProjectHandler(c *fiber.Ctx) error {
	proj, err := loadProject(c)
	if err != nil {
		return respondLoadError(c, err)
	}
	return c.JSON(proj)
}

func deleteProjectHandler(c *fiber.Ctx) error {
	err := getStore(c).DeleteProject(c.Context(), c.Params("id"))
	if errors.Is(err, store.ErrNotFound) {
		return notFound(c)
	}
	if err != nil {
		return internalError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// updatePageStatusHandler moves one page through the review workflow and
// persists the new project snapshot under optimistic concurrency.
func updatePageStatusHandler(c *fiber.Ctx) error {
	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.Status == "" {
		return badRequest(c, "status is required")
	}

	proj, err := loadProject(c)
	if err != nil {
		return respondLoadError(c, err)
	}

	pageID := c.Params("pageId")
	if !hasPage(proj, pageID) {
		return notFound(c)
	}

	updated, err := project.UpdatePageStatus(proj, pageID, project.Status(req.Status), req.ReviewedBy, req.Notes)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{
			Success: false,
			Code:    "invalid_transition",
			Error:   err.Error(),
		})
	}

	if err := saveProject(c, updated, proj); err != nil {
		return err
	}
	return c.JSON(updated)
}

// editPageBlocksHandler replaces a page's blocks with a manually edited set.
func editPageBlocksHandler(c *fiber.Ctx) error {
	var req EditBlocksRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	proj, err := loadProject(c)
	if err != nil {
		return respondLoadError(c, err)
	}

	pageID := c.Params("pageId")
	if !hasPage(proj, pageID) {
		return notFound(c)
	}

	updated, err := project.EditPageBlocks(proj, pageID, req.Blocks)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{
			Success: false,
			Code:    "invalid_blocks",
			Error:   err.Error(),
		})
	}

	if err := saveProject(c, updated, proj); err != nil {
		return err
	}
	return c.JSON(updated)
}

// projectReportHandler renders the migration-readiness report. The default
// response is JSON; ?format=text returns the plain-text rendering.
func projectReportHandler(c *fiber.Ctx) error {
	proj, err := loadProject(c)
	if err != nil {
		return respondLoadError(c, err)
	}

	rep := report.Build(proj)
	if c.Query("format") == "text" {
		c.Type("text/plain")
		return c.SendString(report.Render(rep))
	}
	return c.JSON(rep)
}

func loadProject(c *fiber.Ctx) (project.Project, error) {
	return getStore(c).GetProject(c.Context(), c.Params("id"))
}

func respondLoadError(c *fiber.Ctx, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return notFound(c)
	}
	if strings.Contains(err.Error(), "invalid project id") {
		return badRequest(c, err.Error())
	}
	return internalError(c, err)
}

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
		Success: false,
		Code:    "not_found",
		Error:   "project or page not found",
	})
}

func hasPage(p project.Project, pageID string) bool {
	for i := range p.Pages {
		if p.Pages[i].ID == pageID {
			return true
		}
	}
	return false
}

// saveProject persists an updated snapshot, guarding on the previously
// loaded UpdatedAt. A lost race surfaces as 409 so the client re-reads.
func saveProject(c *fiber.Ctx, updated, loaded project.Project) error {
	err := getStore(c).UpdateProject(c.Context(), updated, loaded.UpdatedAt)
	if errors.Is(err, store.ErrStale) {
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Success: false,
			Code:    "conflict",
			Error:   "project was modified by another writer, re-read and retry",
		})
	}
	if errors.Is(err, store.ErrNotFound) {
		return notFound(c)
	}
	if err != nil {
		return internalError(c, err)
	}
	return nil
}
