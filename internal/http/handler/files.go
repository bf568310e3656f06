package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"storeit/internal/service"
)

// writeFileError translates file service errors into the standard envelope.
func writeFileError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "file not found")
	case errors.Is(err, service.ErrForbidden):
		return writeError(c, fiber.StatusForbidden, "FORBIDDEN", "action not permitted")
	case errors.Is(err, service.ErrTooLarge):
		return writeError(c, fiber.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds size limit")
	case errors.Is(err, service.ErrNameRequired):
		return writeError(c, fiber.StatusBadRequest, "NAME_REQUIRED", "name is required")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// parseID validates the :id route parameter.
func parseID(c *fiber.Ctx) (string, bool) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

// ListFiles returns files visible to the signed-in user with search, type
// filter, sorting and pagination.
func ListFiles(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		q := service.ListQuery{
			Search: c.Query("search"),
			Type:   c.Query("type"),
			Sort:   c.Query("sort"),
			Limit:  limit,
			Offset: offset,
		}
		res, err := svc.List(c.UserContext(), currentUser(c), q)
		if err != nil {
			return writeFileError(c, err)
		}
		return c.JSON(res)
	}
}

// UploadFile accepts a multipart upload (field name: file) and stores it for
// the signed-in user.
func UploadFile(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		file, err := svc.Upload(c.UserContext(), currentUser(c), f, fh.Filename, ct, fh.Size)
		if err != nil {
			return writeFileError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(file)
	}
}

// GetFile returns a single file's metadata.
func GetFile(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		file, err := svc.Get(c.UserContext(), currentUser(c), id)
		if err != nil {
			return writeFileError(c, err)
		}
		return c.JSON(file)
	}
}

// DownloadFile returns a short-lived presigned URL for the file content.
func DownloadFile(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		url, err := svc.DownloadURL(c.UserContext(), currentUser(c), id)
		if err != nil {
			return writeFileError(c, err)
		}
		return c.JSON(fiber.Map{"url": url})
	}
}

type renameRequest struct {
	Name string `json:"name"`
}

// RenameFile updates the file's display name. Owner only.
func RenameFile(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var req renameRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		file, err := svc.Rename(c.UserContext(), currentUser(c), id, req.Name)
		if err != nil {
			return writeFileError(c, err)
		}
		return c.JSON(file)
	}
}

type shareRequest struct {
	Emails string `json:"emails"`
}

// ShareFile merges the submitted emails into the file's share list. Owner only.
func ShareFile(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var req shareRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		file, err := svc.Share(c.UserContext(), currentUser(c), id, req.Emails)
		if err != nil {
			return writeFileError(c, err)
		}
		return c.JSON(file)
	}
}

type unshareRequest struct {
	Email string `json:"email"`
}

// UnshareFile removes one email from the file's share list. Owner only.
func UnshareFile(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var req unshareRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		file, err := svc.Unshare(c.UserContext(), currentUser(c), id, req.Email)
		if err != nil {
			return writeFileError(c, err)
		}
		return c.JSON(file)
	}
}

// DeleteFile removes the metadata row first and then the stored object.
// Owner only.
func DeleteFile(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.Delete(c.UserContext(), currentUser(c), id); err != nil {
			return writeFileError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// StorageUsage summarizes the signed-in user's owned files per category.
func StorageUsage(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.Usage(c.UserContext(), currentUser(c))
		if err != nil {
			return writeFileError(c, err)
		}
		return c.JSON(res)
	}
}
