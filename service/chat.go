package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"navid/server/constants"
	"navid/server/models"
	"navid/server/store"
)

// ChatService owns the conversation lifecycle and the message exchange
// engine. Multi-step mutations run inside a single transaction so callers
// never observe a partially applied exchange.
type ChatService struct {
	db      *gorm.DB
	convs   store.ConversationStore
	msgs    store.MessageStore
	catalog store.ModelStore
	gen     Generator
	log     *zap.Logger
}

func NewChatService(db *gorm.DB, gen Generator, log *zap.Logger) *ChatService {
	return &ChatService{
		db:      db,
		convs:   store.NewConversationStore(db),
		msgs:    store.NewMessageStore(db),
		catalog: store.NewModelStore(db),
		gen:     gen,
		log:     log,
	}
}

// ListConversations returns the caller's conversations, most recently bumped
// first.
func (s *ChatService) ListConversations(ctx context.Context, userID string) ([]models.Conversation, error) {
	return s.convs.ListByUser(ctx, userID)
}

// CreateConversation starts an empty conversation on the given catalog model.
func (s *ChatService) CreateConversation(ctx context.Context, userID, modelID string) (*models.Conversation, error) {
	if _, err := s.catalog.Get(ctx, modelID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidModel
		}
		return nil, err
	}

	seq, err := s.convs.NextBumpSeq(ctx)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	conv := models.Conversation{
		ID:        uuid.NewString(),
		UserID:    userID,
		ModelID:   modelID,
		Title:     constants.SentinelTitle,
		Preview:   "",
		UpdatedAt: now,
		BumpSeq:   seq,
		CreatedAt: now,
	}
	if err := s.convs.Create(ctx, &conv); err != nil {
		return nil, err
	}
	s.log.Info("conversation created",
		zap.String("conversation_id", conv.ID),
		zap.String("model_id", modelID))
	return &conv, nil
}

// GetConversation returns a conversation and its messages in insertion
// order. A conversation outside the caller's own collection is reported as
// not found, never as forbidden.
func (s *ChatService) GetConversation(ctx context.Context, userID, id string) (*models.Conversation, []models.Message, error) {
	conv, err := s.convs.GetOwned(ctx, userID, id)
	if err != nil {
		return nil, nil, ownedOrNotFound(err)
	}
	messages, err := s.msgs.ListByConversation(ctx, conv.ID)
	if err != nil {
		return nil, nil, err
	}
	return conv, messages, nil
}

// DeleteConversation removes the conversation and all of its messages.
// Irreversible.
func (s *ChatService) DeleteConversation(ctx context.Context, userID, id string) error {
	if _, err := s.convs.GetOwned(ctx, userID, id); err != nil {
		return ownedOrNotFound(err)
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := store.NewMessageStore(tx).DeleteByConversation(ctx, id); err != nil {
			return err
		}
		return store.NewConversationStore(tx).Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.log.Info("conversation deleted", zap.String("conversation_id", id))
	return nil
}

// AddMessage appends the user's message, generates the assistant reply,
// appends it and bumps the conversation. Returns the assistant message.
func (s *ChatService) AddMessage(ctx context.Context, userID, convID, content string, attachments []models.Attachment) (*models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, Validation("Message content is required.")
	}
	if len(attachments) > constants.AttachmentsMax {
		return nil, ErrInvalidAttachment.WithDetails(map[string]any{"max": constants.AttachmentsMax})
	}

	conv, err := s.convs.GetOwned(ctx, userID, convID)
	if err != nil {
		return nil, ownedOrNotFound(err)
	}
	if len(attachments) > 0 {
		model, err := s.catalog.Get(ctx, conv.ModelID)
		if err == nil && !model.Supports(models.CapabilityFile) && !model.Supports(models.CapabilityImage) {
			return nil, ErrInvalidAttachment
		}
	}

	history, err := s.msgs.ListByConversation(ctx, convID)
	if err != nil {
		return nil, err
	}
	replyText, err := s.gen.Generate(ctx, GenerateRequest{
		History:         history,
		Prompt:          content,
		AttachmentCount: len(attachments),
	})
	if err != nil {
		return nil, err
	}

	var assistant models.Message
	err = s.db.Transaction(func(tx *gorm.DB) error {
		msgs := store.NewMessageStore(tx)
		seq, err := msgs.NextSeq(ctx, convID)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		userMsg := models.Message{
			ID:             uuid.NewString(),
			ConversationID: convID,
			Role:           models.RoleUser,
			Content:        content,
			Status:         models.MessageStatusDone,
			Attachments:    attachments,
			Seq:            seq,
			CreatedAt:      now,
		}
		if err := msgs.Append(ctx, &userMsg); err != nil {
			return err
		}
		assistant = models.Message{
			ID:             uuid.NewString(),
			ConversationID: convID,
			Role:           models.RoleAssistant,
			Content:        replyText,
			Status:         models.MessageStatusDone,
			Seq:            seq + 1,
			CreatedAt:      now,
		}
		if err := msgs.Append(ctx, &assistant); err != nil {
			return err
		}
		return s.bump(ctx, tx, conv, content, content)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("message exchange",
		zap.String("conversation_id", convID),
		zap.Int("attachments", len(attachments)))
	return &assistant, nil
}

// EditUserMessage rewrites history from the edited message onward: its
// content is replaced, every later message is discarded and a fresh reply is
// appended. Destructive and non-recoverable.
func (s *ChatService) EditUserMessage(ctx context.Context, userID, convID, messageID, newContent string) error {
	newContent = strings.TrimSpace(newContent)
	if newContent == "" {
		return Validation("Message content is required.")
	}

	conv, err := s.convs.GetOwned(ctx, userID, convID)
	if err != nil {
		return ownedOrNotFound(err)
	}
	edited, err := s.msgs.GetUserMessage(ctx, convID, messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMessageNotFound
		}
		return err
	}

	history, err := s.msgs.ListByConversation(ctx, convID)
	if err != nil {
		return err
	}
	// The reply answers the rewritten thread: everything before the edit,
	// then the new content.
	var prior []models.Message
	for _, m := range history {
		if m.Seq >= edited.Seq {
			break
		}
		prior = append(prior, m)
	}
	replyText, err := s.gen.Generate(ctx, GenerateRequest{
		History:         prior,
		Prompt:          newContent,
		AttachmentCount: len(edited.Attachments),
	})
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		msgs := store.NewMessageStore(tx)
		edited.Content = newContent
		if err := msgs.Save(ctx, edited); err != nil {
			return err
		}
		if err := msgs.DeleteAfter(ctx, convID, edited.Seq); err != nil {
			return err
		}
		assistant := models.Message{
			ID:             uuid.NewString(),
			ConversationID: convID,
			Role:           models.RoleAssistant,
			Content:        replyText,
			Status:         models.MessageStatusDone,
			Seq:            edited.Seq + 1,
			CreatedAt:      time.Now().UTC(),
		}
		if err := msgs.Append(ctx, &assistant); err != nil {
			return err
		}
		return s.bump(ctx, tx, conv, newContent, newContent)
	})
	if err != nil {
		return err
	}
	s.log.Info("message edited",
		zap.String("conversation_id", convID),
		zap.String("message_id", messageID))
	return nil
}

// RegenerateLastAssistant replaces the most recent assistant message with a
// fresh reply to the most recent user message. Repeated calls never grow the
// conversation.
func (s *ChatService) RegenerateLastAssistant(ctx context.Context, userID, convID string) error {
	conv, err := s.convs.GetOwned(ctx, userID, convID)
	if err != nil {
		return ownedOrNotFound(err)
	}
	lastUser, err := s.msgs.LastByRole(ctx, convID, models.RoleUser)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoUserMessage
		}
		return err
	}

	lastAssistant, err := s.msgs.LastByRole(ctx, convID, models.RoleAssistant)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	history, err := s.msgs.ListByConversation(ctx, convID)
	if err != nil {
		return err
	}
	var prior []models.Message
	for _, m := range history {
		if lastAssistant != nil && m.ID == lastAssistant.ID {
			continue
		}
		if m.Seq >= lastUser.Seq {
			break
		}
		prior = append(prior, m)
	}
	replyText, err := s.gen.Generate(ctx, GenerateRequest{
		History:         prior,
		Prompt:          lastUser.Content,
		AttachmentCount: len(lastUser.Attachments),
		Regenerate:      true,
	})
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		msgs := store.NewMessageStore(tx)
		if lastAssistant != nil {
			if err := msgs.Delete(ctx, lastAssistant.ID); err != nil {
				return err
			}
		}
		seq, err := msgs.NextSeq(ctx, convID)
		if err != nil {
			return err
		}
		assistant := models.Message{
			ID:             uuid.NewString(),
			ConversationID: convID,
			Role:           models.RoleAssistant,
			Content:        replyText,
			Status:         models.MessageStatusDone,
			Regenerated:    true,
			Seq:            seq,
			CreatedAt:      time.Now().UTC(),
		}
		if err := msgs.Append(ctx, &assistant); err != nil {
			return err
		}
		// Preview follows the new reply; the title fallback follows the
		// user message that prompted it.
		return s.bump(ctx, tx, conv, replyText, lastUser.Content)
	})
	if err != nil {
		return err
	}
	s.log.Info("assistant reply regenerated", zap.String("conversation_id", convID))
	return nil
}

// GetMessage returns one message from a conversation the caller owns.
func (s *ChatService) GetMessage(ctx context.Context, userID, convID, messageID string) (*models.Message, error) {
	if _, err := s.convs.GetOwned(ctx, userID, convID); err != nil {
		return nil, ownedOrNotFound(err)
	}
	msg, err := s.msgs.Get(ctx, convID, messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return msg, nil
}

// ListModels exposes the seeded catalog.
func (s *ChatService) ListModels(ctx context.Context) ([]models.Model, error) {
	return s.catalog.List(ctx)
}

// bump refreshes the conversation ordering metadata after a message-affecting
// operation: UpdatedAt, the tiebreaking BumpSeq, the preview, and the derived
// title while it is still the sentinel.
func (s *ChatService) bump(ctx context.Context, tx *gorm.DB, conv *models.Conversation, previewSource, titleSource string) error {
	convs := store.NewConversationStore(tx)
	seq, err := convs.NextBumpSeq(ctx)
	if err != nil {
		return err
	}
	conv.UpdatedAt = time.Now().UTC()
	conv.BumpSeq = seq
	conv.Preview = truncate(previewSource, constants.PreviewMaxLen)
	if conv.Title == constants.SentinelTitle && titleSource != "" {
		conv.Title = deriveTitle(titleSource)
	}
	return convs.Save(ctx, conv)
}

// ownedOrNotFound hides the distinction between "does not exist" and "not
// yours".
func ownedOrNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// deriveTitle takes the first few words of the content.
func deriveTitle(content string) string {
	words := strings.Fields(content)
	if len(words) > constants.TitleMaxWords {
		words = words[:constants.TitleMaxWords]
	}
	return strings.Join(words, " ")
}
