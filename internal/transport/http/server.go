package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"botdeck/internal/ai"
	appsvc "botdeck/internal/app"
	"botdeck/internal/bootstrap"
	"botdeck/internal/cache"
	"botdeck/internal/platform/rabbitmq"
	"botdeck/internal/repository"
	"botdeck/internal/transport/http/handler"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	// The embeddable widget talks to /api/message from arbitrary origins.
	corsConfig := cors.DefaultConfig()
	if len(app.Config.CORS.AllowOrigins) == 1 && app.Config.CORS.AllowOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = app.Config.CORS.AllowOrigins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	router.Use(cors.New(corsConfig))

	router.StaticFile("/widget.js", "web/widget.js")
	router.StaticFile("/chat", "web/chat.html")

	botRepo := repository.NewBotRepository(app.DB)
	docRepo := repository.NewDocumentRepository(app.DB)

	var settingsCache appsvc.SettingsCache
	if app.Redis != nil {
		settingsCache = cache.NewSettingsCache(
			app.Redis,
			time.Duration(app.Config.Redis.SettingsTTLSeconds)*time.Second,
		)
	}

	var inference appsvc.InferenceGenerator
	if app.Config.InferenceEnabled() {
		inference = ai.NewClient(ai.Config{
			APIURL:  app.Config.Inference.APIURL,
			APIKey:  app.Config.Inference.APIKey,
			Timeout: app.Config.InferenceTimeout(),
		})
	}

	var publisher appsvc.TranscriptPublisher
	var transcripts appsvc.TranscriptStore
	if app.MQConn != nil {
		publisher = rabbitmq.NewTranscriptPublisher(app.MQConn, app.Config.RabbitMQ.TranscriptQueue)
		transcripts = repository.NewTranscriptRepository(app.DB)
	}

	botService := appsvc.NewBotService(botRepo, settingsCache)
	ingestService := appsvc.NewIngestService(botRepo, docRepo)
	retriever := appsvc.NewRetriever(docRepo)
	replyService := appsvc.NewReplyService(
		botService,
		retriever,
		inference,
		publisher,
		transcripts,
		app.Config.InferenceTimeout(),
	)

	healthHandler := handler.NewHealthHandler(app)
	botHandler := handler.NewBotHandler(botService, ingestService, app.Config.Upload.MaxFileSize, app.Config.Upload.TmpDir)
	chatHandler := handler.NewChatHandler(replyService)

	router.GET("/healthz", healthHandler.Check)

	api := router.Group("/api")
	api.GET("/health", healthHandler.OK)
	api.POST("/bot", botHandler.Create)
	api.POST("/bot/:botId/upload", botHandler.Upload)
	api.GET("/bot/:botId/settings", botHandler.GetSettings)
	api.POST("/bot/:botId/settings", botHandler.UpdateSettings)
	api.GET("/bot/:botId/documents", botHandler.ListDocuments)
	api.GET("/bot/:botId/transcripts", chatHandler.ListTranscripts)
	api.POST("/message", chatHandler.Message)
	// Legacy bot-scoped chat route, same response shape as /api/message.
	api.POST("/bot/:botId/chat", chatHandler.LegacyChat)

	return router
}
