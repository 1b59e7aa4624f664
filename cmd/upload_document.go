package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/remiehneppo/research-assistant/config"
	"github.com/remiehneppo/research-assistant/database"
	"github.com/remiehneppo/research-assistant/repository"
	"github.com/remiehneppo/research-assistant/service"
	"github.com/remiehneppo/research-assistant/types"
	"github.com/remiehneppo/research-assistant/utils"
	"github.com/spf13/cobra"
)

// uploadDocumentCmd represents the upload-document command
var uploadDocumentCmd = &cobra.Command{
	Use:   "upload-document",
	Short: "Parse, embed and index a single PDF",
	Long: `Parses a PDF from disk, chunks and embeds it, and indexes the
chunks into the configured Weaviate collection. Pass --reinit to drop
and recreate the collection first.`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		filePath, _ := cmd.Flags().GetString("file")
		reinit, _ := cmd.Flags().GetBool("reinit")
		if filePath == "" {
			log.Fatal("--file is required")
		}

		fileService := buildIngestion(configPath, reinit)

		chunks, err := fileService.IngestLocalFile(context.Background(), filePath, nil)
		if err != nil {
			log.Fatalf("Failed to upload document: %v", err)
		}
		fmt.Printf("Indexed %d chunks from %s\n", chunks, filePath)
	},
}

func init() {
	rootCmd.AddCommand(uploadDocumentCmd)

	uploadDocumentCmd.Flags().StringP("file", "f", "", "Path to the PDF to upload")
	uploadDocumentCmd.Flags().StringP("config", "c", "config/config.yaml", "config file")
	uploadDocumentCmd.Flags().BoolP("reinit", "r", false, "Drop and recreate the collection first")
}

// buildIngestion wires the ingestion path only. CLI ingestion requires a
// reachable vector index, unlike the server which degrades.
func buildIngestion(configPath string, reinit bool) *service.FileService {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger := utils.NewLogger()

	weaviateDb, err := database.NewWeaviateStore(cfg.WeaviateStoreConfig, logger)
	if err != nil {
		log.Fatalf("Failed to connect to Weaviate database: %v", err)
	}
	if reinit {
		if err := weaviateDb.ReInit(context.Background()); err != nil {
			log.Fatalf("Failed to reinitialize Weaviate collection: %v", err)
		}
	}

	repo := repository.NewDocumentRepository()
	pdfService := service.NewPDFService(types.DocumentServiceConfig{}, logger)
	embedder := service.NewOpenAIEmbeddingService(cfg.AIEndpoint, cfg.OpenAIAPIKey, cfg.EmbeddingModel)
	return service.NewFileService(cfg.UploadDir, repo, weaviateDb, embedder, pdfService, logger)
}
