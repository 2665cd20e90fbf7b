package models

// Chat roles as sent by the client.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one entry of the client-held transcript.
type ChatMessage struct {
	Role            string           `json:"role"`
	Content         string           `json:"content"`
	Recommendations []Recommendation `json:"recommendations,omitempty"`
}

// ChatRequest is the payload for POST /chat/message.
type ChatRequest struct {
	Messages          []ChatMessage `json:"messages"`
	PreferredLanguage string        `json:"preferredLanguage"`
}

// ChatReply is the response for POST /chat/message.
type ChatReply struct {
	Message         string           `json:"message"`
	Recommendations []Recommendation `json:"recommendations"`
}

// Recommendation is a listing surfaced by the assistant, annotated for the UI.
type Recommendation struct {
	Car
	Compatibility MatchNote `json:"compatibility"`
}

// MatchNote explains why a listing was recommended.
type MatchNote struct {
	Score  int    `json:"score"`
	Reason string `json:"reason"`
}

// QuickSearchRequest is the payload for POST /chat/quick-search.
type QuickSearchRequest struct {
	Text string `json:"text"`
}

// QuickSearchResult pairs the parsed intent with the listings it selected.
type QuickSearchResult struct {
	Filters Intent `json:"filters"`
	Cars    []Car  `json:"cars"`
}
