package model

// MessageResponse is the uniform JSON envelope for chat replies and for every
// non-audio error body.
type MessageResponse struct {
	Message string `json:"message"`
}
