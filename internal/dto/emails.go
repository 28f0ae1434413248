package dto

// EmailAccountListItem is one entry in the mock email account pool
type EmailAccountListItem struct {
	ID        string `json:"id"`
	Address   string `json:"address"`
	UUID      string `json:"uuid"`
	Available bool   `json:"available"`
}
