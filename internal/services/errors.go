package services

import (
	"errors"

	"github.com/planea/back/internal/clients"
	"github.com/planea/back/internal/repositories"
	"github.com/planea/back/internal/utils"
)

var (
	ErrSessionBusy        = errors.New("chat session is busy")
	ErrAttachmentTooLarge = errors.New("attachment too large")
	ErrInvalidAttachment  = errors.New("attachment is not valid base64")
	ErrUnknownFormat      = errors.New("unknown export format")
	ErrEmptyDocument      = errors.New("nothing to export")
)

// UserMessage returns the Spanish message shown to teachers for err.
// Provider details stay in the logs.
func UserMessage(err error) string {
	var verr *utils.ValidationError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &verr):
		return "Datos inválidos: revise los campos marcados."
	case errors.Is(err, clients.ErrMissingCredential):
		return "No hay una clave de API configurada para generar contenido. Contacte al administrador."
	case errors.Is(err, repositories.ErrNotFound):
		return "No se encontró el recurso solicitado."
	case errors.Is(err, ErrSessionBusy):
		return "Espere a que termine la respuesta anterior."
	case errors.Is(err, ErrAttachmentTooLarge):
		return "El documento adjunto es demasiado grande."
	case errors.Is(err, ErrInvalidAttachment):
		return "El documento adjunto no es válido."
	case errors.Is(err, ErrUnknownFormat):
		return "Formato de exportación no soportado."
	case errors.Is(err, ErrEmptyDocument):
		return "No hay contenido para exportar."
	case errors.Is(err, ErrEmailDisabled):
		return "El envío de correo no está configurado."
	case clients.IsTokenLimitError(err):
		return "El contenido es demasiado extenso para el modelo. Intente con un documento o una sección más corta."
	case errors.Is(err, clients.ErrAllModelsFailed):
		return "No se pudo generar el contenido en este momento. Intente de nuevo en unos minutos."
	default:
		return "Ocurrió un error inesperado."
	}
}
