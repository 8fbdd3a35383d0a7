package controllers

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/latpategaurav/blu/internal/pkg/storage"
	"github.com/latpategaurav/blu/internal/pkg/upload"
)

// maxUploadBytes caps gallery image uploads at 20 MB.
const maxUploadBytes = 20 * 1024 * 1024

var storageClient *storage.Client

// SetStorageClient injects the shared object storage client. A nil client
// disables uploads (503).
func SetStorageClient(client *storage.Client) {
	storageClient = client
}

// HandleAdminUploadImage stores a gallery image for moodboards or models and
// returns its public URLs. The multipart field is "image"; ?category= selects
// the target gallery (default "moodboards").
func HandleAdminUploadImage(c *fiber.Ctx) error {
	if storageClient == nil {
		return jsonError(c, fiber.StatusServiceUnavailable, "storage_disabled", "Object storage is not configured")
	}

	category := c.Query("category", "moodboards")
	if category != "moodboards" && category != "models" {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "category must be moodboards or models")
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Multipart field 'image' is required")
	}
	if fileHeader.Size > maxUploadBytes {
		return jsonError(c, fiber.StatusRequestEntityTooLarge, "too_large", "Image exceeds the 20 MB limit")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not read upload")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not read upload")
	}
	if int64(len(data)) > maxUploadBytes {
		return jsonError(c, fiber.StatusRequestEntityTooLarge, "too_large", "Image exceeds the 20 MB limit")
	}

	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	if _, err := upload.ValidateImageBySniff(fileHeader.Filename, head); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid_file_type", err.Error())
	}

	result, err := storageClient.UploadImage(c.Context(), category, fileHeader.Filename, data)
	if err != nil {
		log.Errorf("image upload failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not store image")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"url":           result.URL,
		"thumbnail_url": result.ThumbnailURL,
		"object_key":    result.ObjectKey,
		"size":          result.Size,
		"content_type":  result.ContentType,
	})
}
