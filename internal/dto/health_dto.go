package dto

type HealthResponse struct {
	Status   string         `json:"status"`
	Sessions map[string]int `json:"sessions"`
	Events   map[string]int `json:"events"`
}
