package environment

import (
	"errors"

	"copy-environment/core/logger"
	"copy-environment/core/reconcile"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for environment export and import.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ImportResponse is the state of an import session.
type ImportResponse struct {
	Session *ImportSession `json:"session"`
	View    reconcile.View `json:"view"`
}

// RegisterRoutes registers the environment routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/environment")
	group.Get("/summary", h.HandleSummary)
	group.Get("/summary/text", h.HandleSummaryText)
	group.Get("/export/:file", h.HandleExport)

	group.Get("/archive", h.HandleListArchives)
	group.Post("/archive", h.HandleArchive)
	group.Delete("/archive/:name", h.HandleRemoveArchive)

	group.Post("/import", h.HandleStartImport)
	group.Get("/import/:id", h.HandleGetImport)
	group.Patch("/import/:id/selection", h.HandleUpdateSelection)
	group.Post("/import/:id/commit", h.HandleCommit)
	group.Delete("/import/:id", h.HandleDiscard)
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrUnknownDocument):
		return fiber.StatusNotFound
	case errors.Is(err, reconcile.ErrInvalidDocument),
		errors.Is(err, reconcile.ErrUnknownField),
		errors.Is(err, ErrInvalidName):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrArchiveDisabled):
		return fiber.StatusServiceUnavailable
	}
	return fiber.StatusInternalServerError
}

func (h *Handler) fail(c *fiber.Ctx, msg string, err error) error {
	status := statusOf(err)
	l := logger.WithRayID(h.service.logger, c)
	if status == fiber.StatusInternalServerError {
		l.Error(msg, zap.Error(err))
	} else {
		l.Debug(msg, zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

// HandleSummary returns the environment summary.
// @Summary Environment Summary
// @Description Core version, game system and active modules of the world.
// @Tags environment
// @Produce json
// @Success 200 {object} environment.Summary "Summary"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /environment/summary [get]
func (h *Handler) HandleSummary(c *fiber.Ctx) error {
	summary, err := h.service.Summary(c.Context())
	if err != nil {
		return h.fail(c, "Failed to build summary", err)
	}
	return c.JSON(summary)
}

// HandleSummaryText returns the environment summary as plain text.
// @Summary Environment Summary Text
// @Description Environment summary formatted for bug reports.
// @Tags environment
// @Produce plain
// @Success 200 {string} string "Summary"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /environment/summary/text [get]
func (h *Handler) HandleSummaryText(c *fiber.Ctx) error {
	summary, err := h.service.Summary(c.Context())
	if err != nil {
		return h.fail(c, "Failed to build summary", err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(summary.Text())
}

// HandleExport downloads one export document.
// @Summary Download Export
// @Description Download foundry-environment.json, foundry-settings-export.json, foundry-player-settings-export.json or the full foundry-environment-snapshot.json.
// @Tags environment
// @Produce json
// @Param file path string true "Export file name"
// @Success 200 {array} object "Export document"
// @Failure 404 {object} map[string]string "Unknown document"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /environment/export/{file} [get]
func (h *Handler) HandleExport(c *fiber.Ctx) error {
	file := c.Params("file")

	e, err := h.service.Export(c.Context())
	if err != nil {
		return h.fail(c, "Failed to build export", err)
	}
	doc, err := e.Document(file)
	if err != nil {
		return h.fail(c, "Unknown export document", err)
	}
	data, err := Encode(doc)
	if err != nil {
		return h.fail(c, "Failed to encode export", err)
	}

	c.Attachment(file)
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(data)
}

// HandleArchive stores a fresh snapshot in object storage.
// @Summary Archive Snapshot
// @Description Export the world and upload the snapshot to the archive bucket.
// @Tags environment
// @Produce json
// @Success 201 {object} map[string]string "Archive name"
// @Failure 503 {object} map[string]string "Archive not configured"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /environment/archive [post]
func (h *Handler) HandleArchive(c *fiber.Ctx) error {
	name, err := h.service.ArchiveSnapshot(c.Context())
	if err != nil {
		return h.fail(c, "Failed to archive snapshot", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"name": name})
}

// HandleListArchives lists archived snapshots.
// @Summary List Archived Snapshots
// @Tags environment
// @Produce json
// @Success 200 {array} environment.ArchiveEntry "Snapshots"
// @Failure 503 {object} map[string]string "Archive not configured"
// @Router /environment/archive [get]
func (h *Handler) HandleListArchives(c *fiber.Ctx) error {
	entries, err := h.service.Archives(c.Context())
	if err != nil {
		return h.fail(c, "Failed to list snapshots", err)
	}
	return c.JSON(entries)
}

// HandleRemoveArchive deletes an archived snapshot.
// @Summary Remove Archived Snapshot
// @Tags environment
// @Param name path string true "Snapshot name"
// @Success 204 "Removed"
// @Failure 400 {object} map[string]string "Invalid name"
// @Router /environment/archive/{name} [delete]
func (h *Handler) HandleRemoveArchive(c *fiber.Ctx) error {
	if err := h.service.RemoveArchive(c.Context(), c.Params("name")); err != nil {
		return h.fail(c, "Failed to remove snapshot", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleStartImport starts an import session.
// @Summary Start Import
// @Description Upload a snapshot document, or name an archived one, and compute its differences with the world. Replaces the active import session.
// @Tags import
// @Accept json
// @Produce json
// @Param archive query string false "Archived snapshot name"
// @Param snapshot body []object false "Snapshot document"
// @Success 201 {object} environment.ImportResponse "Import session"
// @Failure 400 {object} map[string]string "Invalid document"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /environment/import [post]
func (h *Handler) HandleStartImport(c *fiber.Ctx) error {
	var (
		imp *ImportSession
		err error
	)
	if name := c.Query("archive"); name != "" {
		imp, err = h.service.StartImportFromArchive(c.Context(), name)
	} else {
		// Body is reused by fiber after the handler returns.
		body := append([]byte(nil), c.Body()...)
		imp, err = h.service.StartImport(c.Context(), body, "upload")
	}
	if err != nil {
		return h.fail(c, "Failed to start import", err)
	}

	view, err := h.service.View(imp.ID)
	if err != nil {
		return h.fail(c, "Import session vanished", err)
	}
	return c.Status(fiber.StatusCreated).JSON(ImportResponse{Session: imp, View: view})
}

// HandleGetImport returns the differences and selection of an import session.
// @Summary Get Import
// @Tags import
// @Produce json
// @Param id path string true "Import session id"
// @Success 200 {object} reconcile.View "Import view"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /environment/import/{id} [get]
func (h *Handler) HandleGetImport(c *fiber.Ctx) error {
	view, err := h.service.View(c.Params("id"))
	if err != nil {
		return h.fail(c, "Failed to render import", err)
	}
	return c.JSON(view)
}

// HandleUpdateSelection changes which differences will be applied.
// @Summary Update Import Selection
// @Tags import
// @Accept json
// @Produce json
// @Param id path string true "Import session id"
// @Param selection body environment.SelectionRequest true "Selection changes"
// @Success 200 {object} reconcile.View "Import view"
// @Failure 400 {object} map[string]string "Unknown field"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /environment/import/{id}/selection [patch]
func (h *Handler) HandleUpdateSelection(c *fiber.Ctx) error {
	var req SelectionRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid selection request: " + err.Error()})
	}

	view, err := h.service.UpdateSelection(c.Context(), c.Params("id"), req)
	if err != nil {
		return h.fail(c, "Failed to update selection", err)
	}
	return c.JSON(view)
}

// HandleCommit applies the selected differences.
// @Summary Commit Import
// @Description Apply every selected difference to the world. Failed batches stay in the session and can be retried.
// @Tags import
// @Produce json
// @Param id path string true "Import session id"
// @Success 200 {object} reconcile.CommitResult "Commit result"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 500 {object} map[string]interface{} "Partial failure"
// @Router /environment/import/{id}/commit [post]
func (h *Handler) HandleCommit(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	result, err := h.service.Commit(c.Context(), c.Params("id"))
	if err != nil {
		if result == nil {
			return h.fail(c, "Commit failed", err)
		}
		l.Error("Commit partially failed", zap.Error(err), zap.Int("failed", len(result.Failed)))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":  err.Error(),
			"result": result,
		})
	}

	l.Info("Import committed",
		zap.Int("applied", result.Applied()),
		zap.Int("skipped", len(result.Skipped)),
		zap.Bool("reload_required", result.ReloadRequired))
	return c.JSON(result)
}

// HandleDiscard drops an import session.
// @Summary Discard Import
// @Tags import
// @Param id path string true "Import session id"
// @Success 204 "Discarded"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /environment/import/{id} [delete]
func (h *Handler) HandleDiscard(c *fiber.Ctx) error {
	if err := h.service.Discard(c.Params("id")); err != nil {
		return h.fail(c, "Failed to discard import", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
