package models

import "time"

// Installation is a Slack workspace (or Enterprise Grid org) that installed the bot.
type Installation struct {
	ID           string    `db:"id"            json:"id"`
	TeamID       string    `db:"team_id"       json:"team_id"`
	EnterpriseID *string   `db:"enterprise_id" json:"enterprise_id"`
	TeamName     string    `db:"team_name"     json:"team_name"`
	BotToken     string    `db:"bot_token"     json:"-"`
	BotUserID    string    `db:"bot_user_id"   json:"bot_user_id"`
	CreatedAt    time.Time `db:"created_at"    json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"    json:"updated_at"`
}

// InstallationKey picks the enterprise id for org-wide installs and the team id otherwise.
func InstallationKey(teamID, enterpriseID string) string {
	if enterpriseID != "" {
		return enterpriseID
	}
	return teamID
}
