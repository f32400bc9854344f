package http

import (
	appSnapshot "github.com/autoshield/autoshield/pkg/app/snapshot"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type importSnapshotHandler struct {
	logger   *logrus.Logger
	importer appSnapshot.Importer
}

func NewImportSnapshotHandler(logger *logrus.Logger, importer appSnapshot.Importer) Handler {
	return &importSnapshotHandler{
		logger:   logger,
		importer: importer,
	}
}

// Handle @Summary Import the provider range feed
// @Description Downloads the service tags feed and replaces the staged snapshot
// @Tags Snapshot
// @Produce json
// @Success 200 {object} snapshot.ImportSummary "Import summary"
// @Failure 500 {object} map[string]interface{} "Import failed"
// @Router /api/v1/snapshot/import [post]
func (h *importSnapshotHandler) Handle(c *fiber.Ctx) error {
	summary, err := h.importer.Import(c.Context())
	if err != nil {
		h.logger.WithError(err).Error("snapshot import failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(summary)
}
