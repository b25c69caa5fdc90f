package api

// TableData is a display-only table attached to chat replies.
type TableData struct {
	Headers []string   `json:"headers"`
	Rows    []TableRow `json:"rows"`
}

// TableRow is one labelled row of a TableData.
type TableRow struct {
	Label     string   `json:"label"`
	Values    []string `json:"values"`
	Highlight bool     `json:"highlight,omitempty"`
}

// AIChatResponse is the reply envelope of POST /ai/chat/. Only Response is
// always present; the remaining fields are optional rendering hints.
type AIChatResponse struct {
	Response    string     `json:"response"`
	MessageType string     `json:"messageType,omitempty"`
	Title       string     `json:"title,omitempty"`
	Subtitle    string     `json:"subtitle,omitempty"`
	Actions     []string   `json:"actions,omitempty"`
	TableData   *TableData `json:"tableData,omitempty"`
	HowItWorks  []string   `json:"howItWorks,omitempty"`
	HowToSetup  string     `json:"howToSetup,omitempty"`
	Savings     string     `json:"savings,omitempty"`
}

// ChatRequest is the body of POST /ai/chat/.
type ChatRequest struct {
	Message string `json:"message"`
}

// HealthResponse is the body of GET /health/.
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}
