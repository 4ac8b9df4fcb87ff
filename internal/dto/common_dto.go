package dto

// ErrorResponse is the body of every non-2xx response. Fields carries
// per-field messages for validation failures.
type ErrorResponse struct {
	Error   bool                `json:"error"`
	Message string              `json:"message"`
	Fields  map[string][]string `json:"fields,omitempty"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
	Store     string `json:"store"`
}

type CountryResponse struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type CountryListResponse struct {
	Count   int               `json:"count"`
	Results []CountryResponse `json:"results"`
}
