package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

// batchUploadDocumentCmd represents the batch-upload-document command
var batchUploadDocumentCmd = &cobra.Command{
	Use:   "batch-upload-document",
	Short: "Parse, embed and index every PDF in a directory",
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		directory, _ := cmd.Flags().GetString("directory")
		reinit, _ := cmd.Flags().GetBool("reinit")
		if directory == "" {
			log.Fatal("--directory is required")
		}

		fileService := buildIngestion(configPath, reinit)

		files, err := os.ReadDir(directory)
		if err != nil {
			log.Fatalf("Failed to read directory: %v", err)
		}
		for _, file := range files {
			if file.IsDir() || !strings.EqualFold(filepath.Ext(file.Name()), ".pdf") {
				continue
			}
			filePath := filepath.Join(directory, file.Name())
			chunks, err := fileService.IngestLocalFile(context.Background(), filePath, nil)
			if err != nil {
				log.Printf("Failed to upload document %s: %v", filePath, err)
				continue
			}
			fmt.Printf("Indexed %d chunks from %s\n", chunks, filePath)
		}
	},
}

func init() {
	rootCmd.AddCommand(batchUploadDocumentCmd)

	batchUploadDocumentCmd.Flags().String("directory", "", "Path to the directory of PDFs to upload")
	batchUploadDocumentCmd.Flags().StringP("config", "c", "config/config.yaml", "config file")
	batchUploadDocumentCmd.Flags().BoolP("reinit", "r", false, "Drop and recreate the collection first")
}
