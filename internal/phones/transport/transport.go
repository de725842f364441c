package transport

import "github.com/google/uuid"

type NormalizeRequest struct {
	Inputs []string `json:"inputs" validate:"required,min=1"`
}

type NormalizeTextRequest struct {
	Text string `json:"text" validate:"required"`
}

type NormalizeCSVRequest struct {
	Column string `form:"column" validate:"omitempty,max=200"`
}

type ItemResponse struct {
	Input      string `json:"input"`
	Normalized string `json:"normalized"`
	Valid      bool   `json:"valid"`
	Kind       string `json:"kind,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

type SummaryResponse struct {
	Total         int            `json:"total"`
	Valid         int            `json:"valid"`
	Domestic      int            `json:"domestic"`
	International int            `json:"international"`
	Invalid       int            `json:"invalid"`
	Reasons       map[string]int `json:"reasons"`
}

type BatchResponse struct {
	BatchID uuid.UUID       `json:"batchId"`
	Items   []ItemResponse  `json:"items"`
	Summary SummaryResponse `json:"summary"`
}

type PrefixRewriteResponse struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type CountryHintResponse struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

type TablesResponse struct {
	NoiseTolerant bool                    `json:"noiseTolerant"`
	Legacy        []PrefixRewriteResponse `json:"legacy"`
	Countries     []CountryHintResponse   `json:"countries"`
}
