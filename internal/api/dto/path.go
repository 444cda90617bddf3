package dto

type PathResponse struct {
	From  string   `json:"from"`
	To    string   `json:"to"`
	Hours float64  `json:"hours"`
	Path  []string `json:"path"`
}
