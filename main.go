package main

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"navid/server/config"
	"navid/server/database"
	"navid/server/handlers"
	"navid/server/service"
	"navid/server/storage"
	"navid/server/store"
	"navid/server/tasks"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		logger.Fatal("failed to open database",
			zap.Error(err),
			zap.String("path", cfg.DatabasePath))
	}
	if err := database.Seed(db); err != nil {
		logger.Fatal("failed to seed database", zap.Error(err))
	}

	files, err := storage.New(cfg.UploadDir)
	if err != nil {
		logger.Fatal("failed to init file store", zap.Error(err))
	}

	generator, err := newGenerator(cfg)
	if err != nil {
		logger.Fatal("failed to init reply generator", zap.Error(err))
	}

	users := store.NewUserStore(db)
	catalog := store.NewModelStore(db)

	authSvc := service.NewAuthService(users, catalog, cfg.SessionTTL, logger)
	chatSvc := service.NewChatService(db, generator, logger)
	settingsSvc := service.NewSettingsService(users, catalog, logger)
	attachmentSvc := service.NewAttachmentService(store.NewAttachmentStore(db), files, cfg.AttachmentMaxLen, logger)
	helpSvc := service.NewHelpService(store.NewHelpStore(db))

	janitor := tasks.NewJanitor(authSvc, time.Minute, logger)
	janitor.Start()
	defer janitor.Stop()

	cookieAge := int(cfg.SessionTTL / time.Second)
	router := handlers.NewRouter(
		authSvc,
		handlers.NewAuthHandler(authSvc, cookieAge, logger),
		handlers.NewChatHandler(chatSvc, attachmentSvc, logger),
		handlers.NewSettingsHandler(settingsSvc, logger),
		handlers.NewHelpHandler(helpSvc),
	)

	logger.Info("navid server listening", zap.String("addr", cfg.Addr))
	if err := router.Run(cfg.Addr); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

// newGenerator picks the reply backend. The deterministic template is the
// default; an OpenAI-compatible endpoint can be plugged in via config.
func newGenerator(cfg config.Config) (service.Generator, error) {
	if cfg.ReplyBackend == "openai" {
		return service.NewOpenAIGenerator(cfg.OpenAIBase, cfg.OpenAIKey, cfg.OpenAIModel)
	}
	return service.TemplateGenerator{}, nil
}
