package handler

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/ahmadchreiff/eigen-journal/internal/service"
	"github.com/ahmadchreiff/eigen-journal/internal/storage"
)

// draftNotFound writes the fixed miss body. The same body covers ids that
// never existed and ids that were already deleted.
func draftNotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Draft not found"})
}

// SubmitDraft ingests a multipart submission: a "metadata" JSON part with the
// author/article fields and a "pdf" file part.
func SubmitDraft(drafts service.DraftService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.SubmitInput
		if err := json.Unmarshal([]byte(c.FormValue("metadata")), &in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid metadata"})
		}

		fh, err := c.FormFile("pdf")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "pdf file is required"})
		}

		f, err := fh.Open()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "cannot open uploaded file"})
		}
		defer f.Close()

		d, err := drafts.Submit(c.UserContext(), in, f, fh.Size, fh.Filename)
		if err != nil {
			if errors.Is(err, storage.ErrEmptyFile) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "pdf file is empty"})
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "draftId": d.ID})
	}
}

// ListDrafts returns every draft. The route table gates this behind ADMIN.
func ListDrafts(drafts service.DraftService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := drafts.ListAll(c.UserContext())
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(items)
	}
}

// GetDraft returns a single draft by id.
func GetDraft(drafts service.DraftService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		d, err := drafts.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			if errors.Is(err, service.ErrNotFound) || errors.Is(err, service.ErrIDRequired) {
				return draftNotFound(c)
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(d)
	}
}

type statusUpdateRequest struct {
	Status string `json:"status"`
}

// UpdateDraftStatus moves a draft through the review workflow.
func UpdateDraftStatus(drafts service.DraftService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req statusUpdateRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}

		_, err := drafts.UpdateStatus(c.UserContext(), c.Params("id"), req.Status)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrInvalidStatus):
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid status"})
			case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrIDRequired):
				return draftNotFound(c)
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}

		return c.JSON(fiber.Map{"updated": true})
	}
}

// DeleteDraft removes a draft and its backing file.
func DeleteDraft(drafts service.DraftService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := drafts.Delete(c.UserContext(), c.Params("id")); err != nil {
			if errors.Is(err, service.ErrNotFound) || errors.Is(err, service.ErrIDRequired) {
				return draftNotFound(c)
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(fiber.Map{"deleted": true})
	}
}

// StreamDraftPDF streams the stored file inline. The client-visible filename
// hint comes from the article title; storage is addressed only by stored name.
func StreamDraftPDF(drafts service.DraftService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rc, d, err := drafts.StreamFile(c.UserContext(), c.Params("id"))
		if err != nil {
			if errors.Is(err, service.ErrNotFound) || errors.Is(err, service.ErrIDRequired) {
				return draftNotFound(c)
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		name := d.Title
		if name == "" {
			name = "draft"
		}
		c.Set(fiber.HeaderContentType, "application/pdf")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", name+".pdf"))
		return c.SendStream(rc)
	}
}
