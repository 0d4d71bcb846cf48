package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/gramseva/grievance-service/internal/api/dto"
	"github.com/gramseva/grievance-service/internal/auth"
	"github.com/gramseva/grievance-service/internal/service"
	apperrors "github.com/gramseva/grievance-service/pkg/util"
)

// ComplaintsHandler manages complaint endpoints.
type ComplaintsHandler struct {
	complaints *service.ComplaintService
	uploads    *service.UploadService
}

// NewComplaintsHandler constructs handler.
func NewComplaintsHandler(complaintService *service.ComplaintService, uploadService *service.UploadService) *ComplaintsHandler {
	return &ComplaintsHandler{complaints: complaintService, uploads: uploadService}
}

// Create handles POST /complaints.
func (h *ComplaintsHandler) Create(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	complaint, err := h.complaints.Create(c.Context(), user, service.ComplaintCreateInput{
		Category:    req.Category,
		Description: req.Description,
		ImageURL:    req.Image,
		Address:     req.ResolvedAddress(),
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewComplaintResponse(complaint)})
}

// ListMine handles GET /complaints/my.
func (h *ComplaintsHandler) ListMine(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	complaints, err := h.complaints.ListMine(c.Context(), user)
	if err != nil {
		return err
	}
	items := make([]dto.ComplaintResponse, 0, len(complaints))
	for i := range complaints {
		items = append(items, dto.NewComplaintResponse(&complaints[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// ListAll handles GET /complaints (admin).
func (h *ComplaintsHandler) ListAll(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	complaints, err := h.complaints.ListAll(c.Context(), user)
	if err != nil {
		return err
	}
	items := make([]dto.ComplaintResponse, 0, len(complaints))
	for i := range complaints {
		items = append(items, dto.NewComplaintResponse(&complaints[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Update handles PUT /complaints/:id (admin).
func (h *ComplaintsHandler) Update(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	complaint, err := h.complaints.Update(c.Context(), user, c.Params("id"), service.ComplaintUpdateInput{
		Status:       req.Status,
		AdminComment: req.AdminComment,
		IsApproved:   req.IsApproved,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewComplaintResponse(complaint)})
}

// Feed handles GET /complaints/feed (public).
func (h *ComplaintsHandler) Feed(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit"))
	feed, err := h.complaints.PublicFeed(c.Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": feed})
}

// UploadSignature handles GET /complaints/upload-signature.
func (h *ComplaintsHandler) UploadSignature(c *fiber.Ctx) error {
	if _, ok := auth.UserFromContext(c); !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	signature, err := h.uploads.Sign()
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": signature})
}
