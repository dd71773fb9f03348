package entities

// QaResult is a redacted answer grounded in transcript excerpts
type QaResult struct {
	Answer    string   `json:"answer"`
	Citations []string `json:"citations"`
}
