package dto

type MarkingRequest struct {
	Marks    float64 `json:"marks"`
	Comments string  `json:"comments"`
}

type MarkingResponse struct {
	ApplicationID string  `json:"application_id"`
	Status        string  `json:"status"`
	Marks         float64 `json:"marks"`
	Comments      string  `json:"comments,omitempty"`
}
