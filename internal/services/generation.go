package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/planea/back/internal/clients"
	"github.com/planea/back/internal/config"
	"github.com/planea/back/internal/models"
	"github.com/planea/back/internal/platform/logger"
	"github.com/planea/back/internal/utils"
)

// Dependencies are shared by every generating service.
type Dependencies struct {
	Gateway        *clients.Gateway
	Prompts        *utils.PromptLoader
	Validator      *utils.Validator
	Catalog        *config.Catalog
	Logger         *logger.Logger
	SchoolName     string
	MaxUploadBytes int
}

func (d Dependencies) systemPrompt() (string, error) {
	return d.Prompts.LoadPrompt("system.txt", map[string]string{"SCHOOL_NAME": d.SchoolName})
}

// decodeAttachment turns a base64 upload into a file part.
func (d Dependencies) decodeAttachment(att *models.Attachment) (*clients.FileContent, error) {
	if att == nil || att.Data == "" {
		return nil, nil
	}
	data := att.Data
	// Browser file readers produce data URLs.
	if i := strings.Index(data, ";base64,"); i >= 0 && strings.HasPrefix(data, "data:") {
		data = data[i+len(";base64,"):]
	}
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAttachment, err)
	}
	if d.MaxUploadBytes > 0 && len(raw) > d.MaxUploadBytes {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrAttachmentTooLarge, len(raw), d.MaxUploadBytes)
	}
	return &clients.FileContent{Name: att.Name, MimeType: att.MimeType, Data: raw}, nil
}

// generate renders a prompt template and runs a structured cascade for T.
func generate[T any](ctx context.Context, d Dependencies, task clients.Task, template string, vars map[string]string, model string, schema *clients.Schema, files ...*clients.FileContent) (*T, *clients.Result, error) {
	system, err := d.systemPrompt()
	if err != nil {
		return nil, nil, err
	}
	prompt, err := d.Prompts.LoadPrompt(template, vars)
	if err != nil {
		return nil, nil, err
	}

	parts := []clients.Part{clients.TextPart(prompt)}
	for _, f := range files {
		if f != nil {
			parts = append(parts, clients.FilePart(*f))
		}
	}

	out, res, err := clients.GenerateStructured[T](ctx, d.Gateway, clients.GenerateRequest{
		Task:     task,
		Model:    model,
		System:   system,
		Contents: []clients.Content{clients.UserContent(parts...)},
		Schema:   schema,
	})
	if err != nil {
		d.Logger.Error("❌ generation failed", "task", string(task), "error", err)
		return nil, nil, err
	}
	return &out, res, nil
}
