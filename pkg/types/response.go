package types

const (
	StatusSuccess          = "success"
	StatusAuthenticated    = "authenticated"
	StatusNotAuthenticated = "not_authenticated"
)

type APIError struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

// Message is the minimal success body for endpoints with nothing else to say.
type Message struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
