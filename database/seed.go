package database

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"navid/server/models"
)

// Demo account credentials used by the web client's guided tour.
const (
	DemoEmail    = "demo@navid.ai"
	DemoPassword = "password123"
	DemoTitle    = "Product launch checklist"
)

// Catalog returns the static model catalog.
func Catalog() []models.Model {
	return []models.Model{
		{ID: "navid-lite", Label: "Navid Lite", Capabilities: []string{models.CapabilityText}},
		{ID: "navid-pro", Label: "Navid Pro", Capabilities: []string{models.CapabilityText, models.CapabilityFile}},
		{ID: "navid-vision", Label: "Navid Vision", Capabilities: []string{models.CapabilityText, models.CapabilityImage, models.CapabilityFile}},
	}
}

// Seed loads the model catalog, help articles and the demo account. It is
// idempotent: already-seeded rows are left alone.
func Seed(db *gorm.DB) error {
	if err := seedCatalog(db); err != nil {
		return err
	}
	if err := seedHelp(db); err != nil {
		return err
	}
	return seedDemoUser(db)
}

func seedCatalog(db *gorm.DB) error {
	for _, m := range Catalog() {
		var existing models.Model
		if err := db.First(&existing, "id = ?", m.ID).Error; err == nil {
			continue
		}
		if err := db.Create(&m).Error; err != nil {
			return fmt.Errorf("seed model %s: %w", m.ID, err)
		}
	}
	return nil
}

func seedHelp(db *gorm.DB) error {
	articles := []models.HelpArticle{
		{
			ID:    "getting-started",
			Title: "Getting started with Navid",
			Body:  "Create a conversation, pick a model and start typing. Your conversations are saved automatically.",
		},
		{
			ID:    "attachments",
			Title: "Attaching files",
			Body:  "Models with the file capability accept images, text files and PDFs up to the configured size limit.",
		},
		{
			ID:    "editing-messages",
			Title: "Editing a message",
			Body:  "Editing one of your messages rewrites the conversation from that point: later messages are discarded and a new reply is generated.",
		},
	}
	for _, a := range articles {
		var existing models.HelpArticle
		if err := db.First(&existing, "id = ?", a.ID).Error; err == nil {
			continue
		}
		if err := db.Create(&a).Error; err != nil {
			return fmt.Errorf("seed help article %s: %w", a.ID, err)
		}
	}
	return nil
}

func seedDemoUser(db *gorm.DB) error {
	var existing models.User
	if err := db.First(&existing, "email = ?", DemoEmail).Error; err == nil {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}

	now := time.Now().UTC()
	user := models.User{
		ID:                 uuid.NewString(),
		Email:              DemoEmail,
		PasswordHash:       string(hash),
		Name:               "Demo User",
		OnboardingComplete: true,
		Theme:              models.ThemeSystem,
		DefaultModelID:     "navid-pro",
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	userContent := "Draft a launch checklist for our new product announcement next month."
	assistantContent := "Here's a launch checklist to get you started: finalize positioning, " +
		"lock the announcement date, brief the sales team, prepare the changelog, " +
		"schedule social posts and line up customer quotes."

	conv := models.Conversation{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		ModelID:   user.DefaultModelID,
		Title:     DemoTitle,
		Preview:   assistantContent[:min(len(assistantContent), 120)],
		UpdatedAt: now,
		BumpSeq:   1,
		CreatedAt: now,
	}
	messages := []models.Message{
		{
			ID:             uuid.NewString(),
			ConversationID: conv.ID,
			Role:           models.RoleUser,
			Content:        userContent,
			Status:         models.MessageStatusDone,
			Seq:            1,
			CreatedAt:      now,
		},
		{
			ID:             uuid.NewString(),
			ConversationID: conv.ID,
			Role:           models.RoleAssistant,
			Content:        assistantContent,
			Status:         models.MessageStatusDone,
			Seq:            2,
			CreatedAt:      now,
		},
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return fmt.Errorf("seed demo user: %w", err)
		}
		if err := tx.Create(&conv).Error; err != nil {
			return fmt.Errorf("seed demo conversation: %w", err)
		}
		if err := tx.Create(&messages).Error; err != nil {
			return fmt.Errorf("seed demo messages: %w", err)
		}
		return nil
	})
}
