package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/remiehneppo/research-assistant/service"
	"github.com/remiehneppo/research-assistant/types"
)

type UploadHandler struct {
	fileService *service.FileService
}

func NewUploadHandler(fileService *service.FileService) *UploadHandler {
	return &UploadHandler{
		fileService: fileService,
	}
}

// UploadDocumentHandler ingests a PDF upload and streams per-page progress
// back as server-sent events, ending with a JSON result.
func (h *UploadHandler) UploadDocumentHandler(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "Invalid file",
		})
		return
	}
	defer file.Close()

	var req types.UploadRequest
	if metadata := c.Request.FormValue("metadata"); metadata != "" {
		if err := json.Unmarshal([]byte(metadata), &req); err != nil {
			c.JSON(http.StatusBadRequest, types.DataResponse{
				Status:  "error",
				Message: "Invalid metadata",
			})
			return
		}
	}

	const maxSize = 50 << 20
	if header.Size > maxSize {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "File too large",
		})
		return
	}

	statusChan := make(chan types.ProcessingDocumentStatus)
	type ingestResult struct {
		chunks int
		err    error
	}
	resultChan := make(chan ingestResult, 1)
	go func() {
		defer close(statusChan)
		chunks, err := h.fileService.UploadFile(c.Request.Context(), req, header, statusChan)
		resultChan <- ingestResult{chunks: chunks, err: err}
	}()

	clientGone := c.Writer.CloseNotify()
	for {
		select {
		case <-clientGone:
			return
		case status, ok := <-statusChan:
			if !ok {
				statusChan = nil
				continue
			}
			jsonStatus, err := json.Marshal(status)
			if err != nil {
				continue
			}
			c.SSEvent("message", string(jsonStatus))
			c.Writer.Flush()
		case res := <-resultChan:
			if res.err != nil {
				c.JSON(http.StatusInternalServerError, types.DataResponse{
					Status:  "error",
					Message: res.err.Error(),
				})
			} else {
				c.JSON(http.StatusOK, types.DataResponse{
					Status: "success",
					Data: types.UploadResponse{
						OriginalName: header.Filename,
						Chunks:       res.chunks,
					},
				})
			}
			return
		}
	}
}
