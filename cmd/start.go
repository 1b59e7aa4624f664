package cmd

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/remiehneppo/research-assistant/config"
	"github.com/remiehneppo/research-assistant/database"
	"github.com/remiehneppo/research-assistant/handler"
	"github.com/remiehneppo/research-assistant/repository"
	"github.com/remiehneppo/research-assistant/service"
	"github.com/remiehneppo/research-assistant/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// startServerCmd represents the start command
var startServerCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the research assistant server",
	Long:  `Starts the HTTP and websocket server that handles uploads and research queries`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		logger := utils.NewLogger()
		defer logger.Sync()

		repo := repository.NewDocumentRepository()
		pdfService := service.NewPDFService(service.DefaultDocumentServiceConfig, logger)

		// A missing vector index must not prevent startup. Queries and
		// uploads report the misconfiguration when attempted.
		var vectorStore service.VectorSearcher
		var vectorIndexer service.VectorIndexer
		weaviateDb, err := database.NewWeaviateStore(cfg.WeaviateStoreConfig, logger)
		if err != nil {
			logger.Warn("weaviate unavailable, starting without a vector index", zap.Error(err))
		} else {
			vectorStore = weaviateDb
			vectorIndexer = weaviateDb
		}

		embedder := service.NewOpenAIEmbeddingService(cfg.AIEndpoint, cfg.OpenAIAPIKey, cfg.EmbeddingModel)
		aiService := buildAIService(cfg, logger)

		var reranker service.Reranker
		if cfg.RerankerURL != "" {
			reranker = service.NewHTTPReranker(cfg.RerankerURL)
		} else {
			logger.Warn("no reranker configured, queries use the fused ranking order")
		}

		sparse := service.NewBleveSparseSearcher(logger)
		retriever := service.NewHybridRetriever(embedder, vectorStore, sparse, reranker, repo, logger)

		researchService := service.NewResearchService(
			retriever,
			service.NewAnswerTask(aiService, logger),
			service.NewSummarizeTask(aiService, logger),
			service.NewCompareTask(aiService, logger),
			service.NewCitationTask(),
			logger,
		)
		fileService := service.NewFileService(cfg.UploadDir, repo, vectorIndexer, embedder, pdfService, logger)
		wsService := service.NewWebSocketService(researchService, aiService, logger)

		corsHandler := handler.NewCorsHandler()
		researchHandler := handler.NewResearchHandler(researchService, repo)
		uploadHandler := handler.NewUploadHandler(fileService)
		pdfHandler := handler.NewDocumentHandler(cfg.UploadDir)

		router := gin.Default()
		router.Use(corsHandler.CorsMiddleware)

		apiV1 := router.Group("/api/v1")
		{
			apiV1.POST("/research", researchHandler.HandleResearch)
			apiV1.GET("/documents", researchHandler.HandleListDocuments)
			apiV1.POST("/documents/active", researchHandler.HandleSetActiveDocument)
			apiV1.POST("/upload", uploadHandler.UploadDocumentHandler)
			apiV1.GET("/pdf", pdfHandler.ServeDocument)
		}
		router.GET("/ws/research", func(c *gin.Context) {
			wsService.HandleResearch(c.Writer, c.Request)
		})

		logger.Info("starting server", zap.String("port", cfg.Port))
		if err := router.Run(":" + cfg.Port); err != nil {
			log.Fatal("Server error:", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(startServerCmd)
	startServerCmd.Flags().StringP("config", "c", "config/config.yaml", "config file")
}

// buildAIService picks the chat backend by provider. Gemini needs at least
// one API key; anything else falls back to the OpenAI-compatible endpoint.
func buildAIService(cfg *config.Config, logger *zap.Logger) service.AIService {
	if cfg.AIProvider == "gemini" {
		gemini, err := service.NewGeminiService(cfg.GeminiKeys(), cfg.Model)
		if err != nil {
			logger.Warn("gemini unavailable, falling back to openai", zap.Error(err))
		} else {
			return gemini
		}
	}
	return service.NewOpenAIService(cfg.AIEndpoint, cfg.OpenAIAPIKey, cfg.Model)
}
