package payload

// CreateFlowRequest is the body of POST /flow/{id}. Status is required for
// expense records and forbidden for everything else.
type CreateFlowRequest struct {
	Category    string   `json:"category"`
	Chart       string   `json:"chart"       validate:"required,oneof=income expense"`
	Description string   `json:"description" validate:"required,max=100"`
	Amount      *float64 `json:"amount"      validate:"required,gte=0"`
	Status      string   `json:"status"      validate:"required_if=Chart expense,excluded_unless=Chart expense,omitempty,oneof=Processing Completed"`
}
