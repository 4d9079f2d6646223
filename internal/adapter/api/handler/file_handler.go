package handler

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"bazaarflow/internal/infrastructure/storage"
	"bazaarflow/pkg/errors"
	"bazaarflow/pkg/logger"
	"bazaarflow/pkg/response"
)

type FileHandler struct {
	storageClient *storage.CloudStorageClient
	maxFileSize   int64
}

var fileHandler *FileHandler

func NewFileHandler(storageClient *storage.CloudStorageClient, maxFileSize int64) *FileHandler {
	return &FileHandler{
		storageClient: storageClient,
		maxFileSize:   maxFileSize,
	}
}

func SetupFileHandler(storageClient *storage.CloudStorageClient, maxFileSize int64) {
	fileHandler = NewFileHandler(storageClient, maxFileSize)
}

func GetFileHandler() *FileHandler {
	return fileHandler
}

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

func (h *FileHandler) UploadImage(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return response.Error(c, errors.BadRequest("Missing or invalid file", err))
	}

	if file.Size > h.maxFileSize {
		return response.Error(c, errors.BadRequest(
			fmt.Sprintf("File size exceeds maximum allowed (%dMB)", h.maxFileSize/(1024*1024)), nil))
	}

	contentType := file.Header.Get("Content-Type")
	if !allowedImageTypes[contentType] {
		return response.Error(c, errors.BadRequest("File type not supported", nil))
	}

	src, err := file.Open()
	if err != nil {
		return response.Error(c, errors.Internal("Unable to read file", err))
	}
	defer src.Close()

	result, err := h.storageClient.UploadImage(c.Request().Context(), src, contentType, "listings")
	if err != nil {
		logger.Error("Upload failed: %v", err)
		return response.Error(c, errors.Internal("Failed to upload file", err))
	}

	return response.Created(c, result)
}

type deleteFileRequest struct {
	ObjectID string `json:"object_id" validate:"required"`
}

func (h *FileHandler) DeleteFile(c echo.Context) error {
	var req deleteFileRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	if err := h.storageClient.Delete(c.Request().Context(), req.ObjectID); err != nil {
		logger.Error("Delete failed for object %s: %v", req.ObjectID, err)
		return response.Error(c, errors.Internal("Failed to delete file", err))
	}

	return response.Success(c, map[string]string{"status": "deleted"})
}
