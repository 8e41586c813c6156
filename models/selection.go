package models

import "time"

// PendingSelection is a single-use command waiting for the user to pick a wiki.
type PendingSelection struct {
	ID             string    `json:"id"`
	InstallationID string    `json:"installation_id"`
	Command        Command   `json:"command"`
	WikiURIs       []string  `json:"wiki_uris"`
	CreatedAt      time.Time `json:"created_at"`
}

// RegistrationOrder is a wiki registration submitted from Slack that waits for
// the wiki to confirm it through the relation test endpoint.
type RegistrationOrder struct {
	InstallationID string    `json:"installation_id"`
	WikiURI        string    `json:"wiki_uri"`
	TokenPtoG      string    `json:"token_ptog"`
	TokenGtoP      string    `json:"token_gtop"`
	ChannelID      string    `json:"channel_id"`
	UserID         string    `json:"user_id"`
	CreatedAt      time.Time `json:"created_at"`
}
