package permissions

import (
	"strings"

	"slackproxy/models"
)

// Evaluator decides from a relation's stored settings alone whether a command
// may run. It does no I/O and holds no state, so one instance can be shared.
type Evaluator struct{}

func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// IsAllowed fails closed: unknown commands, unknown modes, expired permission
// snapshots and channels outside a restriction are all disallowed.
func (e *Evaluator) IsAllowed(relation *models.Relation, query models.PermissionQuery) bool {
	if relation == nil || query.CommandType == "" {
		return false
	}

	if relation.PermissionsExpireAt != nil && !query.AsOf.Before(*relation.PermissionsExpireAt) {
		return false
	}

	permission, ok := relation.PermissionsFor(query.Mode)[string(query.CommandType)]
	if !ok {
		return false
	}

	if permission.Until != nil && !query.AsOf.Before(*permission.Until) {
		return false
	}

	if permission.AllowAll {
		return true
	}

	return channelListed(permission.Channels, query.ChannelID, query.ChannelName)
}

func channelListed(channels []string, channelID, channelName string) bool {
	for _, channel := range channels {
		channel = strings.TrimPrefix(strings.TrimSpace(channel), "#")
		if channel == "" {
			continue
		}
		if channel == channelID || channel == channelName {
			return true
		}
	}
	return false
}
