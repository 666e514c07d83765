package uploadController

import (
	"edutalks/middleware"
	"edutalks/utils"
	"log"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const maxUploadSize = 25 << 20 // 25 MB

var allowedExtensions = map[string]string{
	".jpg":  "image",
	".jpeg": "image",
	".png":  "image",
	".webp": "image",
	".pdf":  "document",
	".mp4":  "video",
	".webm": "video",
	".mp3":  "audio",
	".m4a":  "audio",
	".wav":  "audio",
}

// UploadFile accepts a multipart file (course image/PDF/video, topic or
// paragraph audio) and returns the public URL to store on the content record
func UploadFile(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "File is required!", nil)
	}

	if file.Size > maxUploadSize {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "File exceeds the 25 MB limit!", nil)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	kind, ok := allowedExtensions[ext]
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Unsupported file type!", nil)
	}

	storedPath, err := utils.SaveUploadedFile(file, kind)
	if err != nil {
		log.Printf("Error saving upload: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save file!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "File uploaded successfully.", fiber.Map{
		"url":  utils.GetFileURL(storedPath),
		"kind": kind,
		"size": file.Size,
	})
}
