package service

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/remiehneppo/research-assistant/types"
	"go.uber.org/zap"
)

// WebSocketService serves research requests over a websocket. With
// Stream=true and a Q&A mode request, answer tokens are forwarded as they
// arrive from the model; the pipeline semantics are identical either way.
type WebSocketService struct {
	research *ResearchService
	ai       AIService
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

func NewWebSocketService(research *ResearchService, ai AIService, logger *zap.Logger) *WebSocketService {
	return &WebSocketService{
		research: research,
		ai:       ai,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // allow all origins, fronted by the CORS layer
			},
		},
		logger: logger,
	}
}

func (s *WebSocketService) HandleResearch(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	conn.SetReadLimit(512 * 1024)
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	for {
		_, p, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				s.logger.Warn("websocket read error", zap.Error(err))
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))

		var req types.WebsocketRequest
		if err := json.Unmarshal(p, &req); err != nil {
			s.writeError(conn, "invalid message")
			continue
		}

		switch req.Type {
		case types.TypeWebsocketPing:
			conn.WriteJSON(types.WebsocketResponse{Type: types.TypeWebsocketPong})
		case types.TypeWebsocketResearch:
			s.handleResearchMessage(ctx, conn, req.Payload)
		default:
			s.writeError(conn, "unknown message type")
		}
	}
}

func (s *WebSocketService) handleResearchMessage(ctx context.Context, conn *websocket.Conn, rawPayload interface{}) {
	payloadBytes, err := json.Marshal(rawPayload)
	if err != nil {
		s.writeError(conn, "invalid payload")
		return
	}
	var payload types.WebsocketResearchPayload
	if err := json.Unmarshal(payloadBytes, &payload); err != nil {
		s.writeError(conn, "invalid payload")
		return
	}

	state := &types.ResearchState{
		Query: payload.Query,
		Params: types.ResearchParams{
			Mode:              payload.Mode,
			SummarizationMode: payload.SummarizationMode,
			FocusArea:         payload.FocusArea,
			CitationStyle:     payload.CitationStyle,
		},
	}

	mode, _ := types.ParseResearchMode(payload.Mode)
	if payload.Stream && mode == types.ModeStandardQA {
		s.streamAnswer(ctx, conn, state)
		return
	}

	s.research.Run(ctx, state)
	s.writeResult(conn, state)
}

// streamAnswer runs retrieval through the pipeline's retriever, then
// streams the grounded answer token by token instead of waiting for the
// full completion.
func (s *WebSocketService) streamAnswer(ctx context.Context, conn *websocket.Conn, state *types.ResearchState) {
	if err := s.research.retriever.Retrieve(ctx, state); err != nil {
		s.writeError(conn, err.Error())
		return
	}
	if len(state.Docs) == 0 {
		s.writeError(conn, (&types.NoDocumentsError{Operation: "answering"}).Error())
		return
	}

	prompt := AnswerPrompt(state.Query, state.Docs)
	err := s.ai.InvokeStream(ctx, prompt, func(delta string) {
		conn.WriteJSON(types.WebsocketResponse{
			Type:    types.TypeWebsocketDelta,
			Payload: delta,
		})
	})
	if err != nil {
		s.writeError(conn, (&types.LLMInvocationError{Err: err}).Error())
		return
	}

	conn.WriteJSON(types.WebsocketResponse{
		Type:    types.TypeWebsocketResult,
		Payload: types.ResearchResponse{
			Mode:   string(types.ModeStandardQA),
			Answer: "\n\nSources:\n" + SourceList(state.Docs),
		},
	})
}

func (s *WebSocketService) writeResult(conn *websocket.Conn, state *types.ResearchState) {
	mode, _ := types.ParseResearchMode(state.Params.Mode)
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
	}
	conn.WriteJSON(types.WebsocketResponse{
		Type:    types.TypeWebsocketResult,
		Payload: resp,
	})
}

func (s *WebSocketService) writeError(conn *websocket.Conn, message string) {
	conn.WriteJSON(types.WebsocketResponse{
		Type:    types.TypeWebsocketError,
		Payload: message,
	})
}
