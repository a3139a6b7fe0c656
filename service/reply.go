package service

import (
	"context"
	"fmt"

	"navid/server/constants"
	"navid/server/models"
)

// GenerateRequest carries everything a reply backend may use: the prior
// messages (oldest first), the user content being answered and how many files
// came with it.
type GenerateRequest struct {
	History         []models.Message
	Prompt          string
	AttachmentCount int
	Regenerate      bool
}

// Generator produces assistant replies. The conversation lifecycle never
// depends on which backend is plugged in.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// TemplateGenerator is the deterministic default: it echoes the user content
// and attachment count into a fixed sentence. It never fails.
type TemplateGenerator struct{}

func (TemplateGenerator) Generate(_ context.Context, req GenerateRequest) (string, error) {
	if req.Regenerate {
		return fmt.Sprintf(constants.ReplyTemplateRegenerated, req.Prompt), nil
	}
	if req.AttachmentCount > 0 {
		return fmt.Sprintf(constants.ReplyTemplateAttachments, req.Prompt, req.AttachmentCount), nil
	}
	return fmt.Sprintf(constants.ReplyTemplate, req.Prompt), nil
}
