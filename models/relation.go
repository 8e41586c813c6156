package models

import (
	"net/url"
	"time"
)

const wikiSettingsPath = "/admin/slack-integration"

// Relation links one Slack installation to one wiki instance.
type Relation struct {
	ID                         string             `db:"id"                            json:"id"`
	InstallationID             string             `db:"installation_id"               json:"installation_id"`
	WikiURI                    string             `db:"wiki_uri"                      json:"wiki_uri"`
	TokenPtoG                  string             `db:"token_ptog"                    json:"-"`
	TokenGtoP                  string             `db:"token_gtop"                    json:"-"`
	PermissionsForBroadcastUse CommandPermissions `db:"permissions_for_broadcast_use" json:"permissions_for_broadcast_use"`
	PermissionsForSingleUse    CommandPermissions `db:"permissions_for_single_use"    json:"permissions_for_single_use"`
	PermissionsExpireAt        *time.Time         `db:"permissions_expire_at"         json:"permissions_expire_at"`
	CreatedAt                  time.Time          `db:"created_at"                    json:"created_at"`
	UpdatedAt                  time.Time          `db:"updated_at"                    json:"updated_at"`
}

// PermissionsFor returns the permission set for mode. Unknown modes get nil.
func (r *Relation) PermissionsFor(mode PermissionMode) CommandPermissions {
	switch mode {
	case PermissionModeSingleUse:
		return r.PermissionsForSingleUse
	case PermissionModeBroadcast:
		return r.PermissionsForBroadcastUse
	default:
		return nil
	}
}

// SettingsURL is the wiki admin page where Slack command permissions are edited.
func (r *Relation) SettingsURL() string {
	base, err := url.Parse(r.WikiURI)
	if err != nil {
		return r.WikiURI + wikiSettingsPath
	}
	return base.JoinPath(wikiSettingsPath).String()
}

// RelationFilter narrows FindOne lookups. Empty fields are ignored.
type RelationFilter struct {
	InstallationID string
	WikiURI        string
	TokenGtoP      string
}

// DefaultBroadcastPermissions are granted to a freshly registered wiki until it
// pushes its own settings.
func DefaultBroadcastPermissions() CommandPermissions {
	return CommandPermissions{
		string(CommandTypeSearch): AllowAll(),
	}
}

// DefaultSingleUsePermissions are granted to a freshly registered wiki until it
// pushes its own settings.
func DefaultSingleUsePermissions() CommandPermissions {
	return CommandPermissions{
		string(CommandTypeNote): AllowAll(),
		string(CommandTypeKeep): AllowAll(),
	}
}
