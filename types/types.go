package types

const (
	TypeWebsocketPing     = "ping"
	TypeWebsocketPong     = "pong"
	TypeWebsocketResearch = "research"
	TypeWebsocketDelta    = "delta"
	TypeWebsocketResult   = "result"
	TypeWebsocketError    = "error"
)

type WebsocketRequest struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// WebsocketResearchPayload is a research request over the websocket. Stream
// toggles token-by-token delivery of the answer; it changes delivery only,
// never the pipeline's behavior.
type WebsocketResearchPayload struct {
	Query             string `json:"query"`
	Mode              string `json:"mode"`
	SummarizationMode string `json:"summarization_mode,omitempty"`
	FocusArea         string `json:"focus_area,omitempty"`
	CitationStyle     string `json:"citation_style,omitempty"`
	Stream            bool   `json:"stream"`
}

type WebsocketResponse struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// StreamHandler receives incremental model output.
type StreamHandler func(delta string)
