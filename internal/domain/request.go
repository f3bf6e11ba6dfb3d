package domain

import "context"

// ProcessRequest is the inbound shape consumed by the structuring core.
type ProcessRequest struct {
	Context       context.Context
	Text          string
	Reference     string
	Action        string
	ModelOverride string
	Provenance    Provenance
}

// Provenance identifies who issued a request.
type Provenance struct {
	IP        string `json:"ip"`
	UserAgent string `json:"userAgent"`
	SessionID string `json:"sessionId,omitempty"`
}

// ProcessingInfo is attached to every outbound result for observability.
type ProcessingInfo struct {
	OptionsFound      int    `json:"optionsFound"`
	RawResponseLength int    `json:"rawResponseLength"`
	ProcessingSuccess bool   `json:"processingSuccess"`
	DatabaseSaved     bool   `json:"databaseSaved"`
	FromCache         bool   `json:"fromCache"`
	Model             string `json:"model"`
	HistoryID         string `json:"historyId,omitempty"`
}

// ProcessResult is what the process use case hands back to its callers.
type ProcessResult struct {
	Response       StructuredResponse
	ProcessingInfo ProcessingInfo
}

// ProcessService exposes the use-case boundary for structuring a request.
type ProcessService interface {
	Process(ProcessRequest) (ProcessResult, error)
}
