package boarddto

type Health struct {
	Status string   `json:"status"`
	Themes []string `json:"themes"`
}
