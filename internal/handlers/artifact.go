package handlers

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	gocache "github.com/patrickmn/go-cache"

	"slideforge/internal/deck"
)

const pptxContentType = "application/vnd.openxmlformats-officedocument.presentationml.presentation"

// ArtifactHandler serves generated presentation artifacts: text previews and
// binary downloads.
type ArtifactHandler struct {
	outputDir    string
	previewCache *gocache.Cache
}

// NewArtifactHandler creates a new artifact handler
func NewArtifactHandler(outputDir string) *ArtifactHandler {
	return &ArtifactHandler{
		outputDir:    outputDir,
		previewCache: gocache.New(5*time.Minute, 10*time.Minute),
	}
}

// resolve validates a client-supplied filename and maps it into the output
// directory. Traversal attempts and non-pptx names are rejected.
func (h *ArtifactHandler) resolve(filename string) (string, bool) {
	if filename == "" || filename != filepath.Base(filename) {
		return "", false
	}
	if strings.Contains(filename, "..") || !strings.HasSuffix(filename, ".pptx") {
		return "", false
	}
	return filepath.Join(h.outputDir, filename), true
}

// Preview returns the text content of a generated presentation for quick
// review, one "Slide N:" section per slide.
// GET /preview_ppt/:filename
func (h *ArtifactHandler) Preview(c *fiber.Ctx) error {
	name := c.Params("filename")

	path, ok := h.resolve(name)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"detail": "File not found",
		})
	}

	if cached, found := h.previewCache.Get(name); found {
		return c.JSON(fiber.Map{"preview": cached.(string)})
	}

	if _, err := os.Stat(path); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"detail": "File not found",
		})
	}

	preview, err := deck.ExtractPreview(path)
	if err != nil {
		log.Printf("❌ [PREVIEW] Failed to extract preview from %s: %v", name, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"detail": "Failed to read presentation",
		})
	}

	h.previewCache.Set(name, preview, gocache.DefaultExpiration)

	return c.JSON(fiber.Map{"preview": preview})
}

// Download serves the binary artifact with its PPTX MIME type.
// GET /download_ppt/:filename
func (h *ArtifactHandler) Download(c *fiber.Ctx) error {
	name := c.Params("filename")

	path, ok := h.resolve(name)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"detail": "File '" + name + "' not found",
		})
	}

	info, err := os.Stat(path)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"detail": "File '" + name + "' not found",
		})
	}

	log.Printf("📥 [DOWNLOAD] Serving artifact: %s (%d bytes)", name, info.Size())

	c.Set("Content-Disposition", "attachment; filename=\""+name+"\"")
	c.Set("Content-Type", pptxContentType)

	if err := c.SendFile(path); err != nil {
		log.Printf("❌ [DOWNLOAD] Failed to send file: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"detail": "Failed to download file",
		})
	}
	return nil
}
