package handlers

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

// DeleteResponse reports whether every requested file is gone.
type DeleteResponse struct {
	Deleted bool `json:"deleted"`
}

// TextResponse carries transformed text.
type TextResponse struct {
	Text string `json:"text"`
}
