package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/planea/back/internal/clients"
	"github.com/planea/back/internal/platform/logger"
	"github.com/planea/back/internal/repositories"
	"github.com/planea/back/internal/services"
	"github.com/planea/back/internal/utils"
)

// writeServiceError maps a service error to a status and a Spanish
// message. Provider details are only logged.
func writeServiceError(c *gin.Context, log *logger.Logger, err error) {
	var verr *utils.ValidationError
	if errors.As(err, &verr) {
		utils.WriteValidationResponse(c, verr)
		return
	}

	status, code := http.StatusInternalServerError, "internal_error"
	switch {
	case errors.Is(err, clients.ErrMissingCredential):
		status, code = http.StatusServiceUnavailable, "missing_credential"
	case errors.Is(err, clients.ErrAllModelsFailed):
		status, code = http.StatusBadGateway, "generation_failed"
	case errors.Is(err, repositories.ErrNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, services.ErrSessionBusy):
		status, code = http.StatusConflict, "session_busy"
	case errors.Is(err, services.ErrAttachmentTooLarge):
		status, code = http.StatusRequestEntityTooLarge, "attachment_too_large"
	case errors.Is(err, services.ErrInvalidAttachment):
		status, code = http.StatusBadRequest, "invalid_attachment"
	case errors.Is(err, services.ErrUnknownFormat):
		status, code = http.StatusBadRequest, "unknown_format"
	case errors.Is(err, services.ErrEmptyDocument):
		status, code = http.StatusUnprocessableEntity, "empty_document"
	case errors.Is(err, services.ErrEmailDisabled):
		status, code = http.StatusServiceUnavailable, "email_disabled"
	}

	if status >= http.StatusInternalServerError {
		log.Error("❌ request failed", "path", c.FullPath(), "code", code, "error", err)
	}
	utils.WriteErrorResponse(c, status, code, services.UserMessage(err))
}

// bindJSON decodes the body; a malformed body is answered with 400.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		utils.WriteErrorResponse(c, http.StatusBadRequest, "invalid_body", "El cuerpo de la solicitud no es un JSON válido.")
		return false
	}
	return true
}
