package handlers

import (
	"errors"
	"net/http"

	"github.com/creatorhub/apply-api/internal/models"
	"github.com/creatorhub/apply-api/internal/services"
	apperrors "github.com/creatorhub/apply-api/pkg/errors"
	"github.com/gin-gonic/gin"
)

// ApplicationHandler handles application form submissions
type ApplicationHandler struct {
	service services.ApplicationServiceInterface
}

// NewApplicationHandler creates a new application handler
func NewApplicationHandler(service services.ApplicationServiceInterface) *ApplicationHandler {
	return &ApplicationHandler{service: service}
}

// Submit handles POST /api/v1/applications. The front-end posts
// multipart/form-data (with the optional photo part) or plain JSON.
func (h *ApplicationHandler) Submit(c *gin.Context) {
	form, photo, cleanup, err := bindSubmission(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request", err)
		return
	}
	defer cleanup()

	resp, err := h.service.Submit(c.Request.Context(), form, photo)
	if err != nil {
		// Diagnostics are already logged by the service; the submitter
		// gets a single generic message
		attachError(c, err)
		if apperrors.Is(err, apperrors.ErrDelivery) {
			c.JSON(http.StatusBadGateway, models.SubmitResponse{OK: false, Error: "Failed to deliver application"})
		} else {
			c.JSON(http.StatusInternalServerError, models.SubmitResponse{OK: false, Error: "Internal error"})
		}
		return
	}

	if !resp.OK {
		c.JSON(http.StatusBadRequest, resp)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// bindSubmission maps the request body onto the form model, opening
// the uploaded photo stream when one is present. The cleanup func
// closes that stream.
func bindSubmission(c *gin.Context) (*models.ApplicationForm, *models.Attachment, func(), error) {
	noop := func() {}
	var form models.ApplicationForm

	if c.ContentType() == "multipart/form-data" {
		if err := c.ShouldBind(&form); err != nil {
			return nil, nil, noop, err
		}

		header, err := c.FormFile("photo")
		if err != nil {
			if errors.Is(err, http.ErrMissingFile) {
				return &form, nil, noop, nil
			}
			return nil, nil, noop, err
		}

		file, err := header.Open()
		if err != nil {
			return nil, nil, noop, err
		}
		photo := &models.Attachment{
			Reader:      file,
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
		}
		return &form, photo, func() { _ = file.Close() }, nil
	}

	if err := c.ShouldBindJSON(&form); err != nil {
		return nil, nil, noop, err
	}
	return &form, nil, noop, nil
}
