package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/remiehneppo/research-assistant/repository"
	"github.com/remiehneppo/research-assistant/service"
	"github.com/remiehneppo/research-assistant/types"
)

// ResearchHandler exposes the research pipeline and the session document
// list over HTTP.
type ResearchHandler struct {
	research *service.ResearchService
	repo     *repository.DocumentRepository
}

func NewResearchHandler(research *service.ResearchService, repo *repository.DocumentRepository) *ResearchHandler {
	return &ResearchHandler{
		research: research,
		repo:     repo,
	}
}

// HandleResearch runs one pipeline pass. Executor-level failures come back
// as a readable error field with status 200; configuration problems (no
// active file, no index) map to 400.
func (h *ResearchHandler) HandleResearch(c *gin.Context) {
	var req types.ResearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "Invalid request body",
		})
		return
	}
	if req.Query == "" {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "Query must not be empty",
		})
		return
	}

	state := &types.ResearchState{
		Query:  req.Query,
		Params: req.Params(),
	}
	h.research.Run(c.Request.Context(), state)

	mode, _ := types.ParseResearchMode(req.Mode)
	resp := types.ResearchResponse{
		Mode:               string(mode),
		Answer:             state.Answer,
		Summary:            state.Summary,
		Comparison:         state.Comparison,
		ComparisonMetadata: state.ComparisonMetadata,
		Citation:           state.CitationOutput,
		TruncationNote:     state.TruncationNote,
	}
	if state.Err != nil {
		resp.Error = state.Err.Error()

		var cfgErr *types.ConfigurationError
		if errors.As(state.Err, &cfgErr) {
			c.JSON(http.StatusBadRequest, types.DataResponse{
				Status:  "error",
				Message: cfgErr.Error(),
				Data:    resp,
			})
			return
		}
	}

	c.JSON(http.StatusOK, types.DataResponse{
		Status: "success",
		Data:   resp,
	})
}

// HandleListDocuments returns the uploaded file names and the active file.
func (h *ResearchHandler) HandleListDocuments(c *gin.Context) {
	c.JSON(http.StatusOK, types.DataResponse{
		Status: "success",
		Data: types.DocumentsResponse{
			Files:      h.repo.Files(),
			ActiveFile: h.repo.ActiveFile(),
		},
	})
}

// HandleSetActiveDocument scopes subsequent queries to one uploaded file.
func (h *ResearchHandler) HandleSetActiveDocument(c *gin.Context) {
	var req types.SetActiveDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.File == "" {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "Invalid request body",
		})
		return
	}
	if err := h.repo.SetActiveFile(req.File); err != nil {
		c.JSON(http.StatusNotFound, types.DataResponse{
			Status:  "error",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{Status: "success"})
}
