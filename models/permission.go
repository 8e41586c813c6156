package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// PermissionMode selects which permission set of a relation applies.
type PermissionMode string

const (
	// PermissionModeSingleUse asks the user to pick exactly one wiki.
	PermissionModeSingleUse PermissionMode = "single_use"
	// PermissionModeBroadcast fans the command out to every permitted wiki.
	PermissionModeBroadcast PermissionMode = "broadcast"
)

// CommandPermission is the permission a wiki grants for one command.
//
// On the wire it is written the way wiki admin pages send it: true (allow in
// every channel), false (deny), a list of channel names or ids, or an object
// {"channels": [...], "until": "<RFC3339>"} when the grant is time-boxed.
type CommandPermission struct {
	AllowAll bool
	Channels []string
	Until    *time.Time
}

func AllowAll() CommandPermission {
	return CommandPermission{AllowAll: true}
}

func DenyAll() CommandPermission {
	return CommandPermission{}
}

func AllowChannels(channels ...string) CommandPermission {
	return CommandPermission{Channels: channels}
}

// IsDenied reports whether the permission can never allow anything.
func (p CommandPermission) IsDenied() bool {
	return !p.AllowAll && len(p.Channels) == 0
}

type commandPermissionObject struct {
	Channels *[]string `json:"channels,omitempty"`
	Until    *time.Time `json:"until,omitempty"`
}

func (p CommandPermission) MarshalJSON() ([]byte, error) {
	if p.IsDenied() {
		return []byte("false"), nil
	}
	if p.Until == nil {
		if p.AllowAll {
			return []byte("true"), nil
		}
		return json.Marshal(p.Channels)
	}

	obj := commandPermissionObject{Until: p.Until}
	if !p.AllowAll {
		channels := p.Channels
		obj.Channels = &channels
	}
	return json.Marshal(obj)
}

func (p *CommandPermission) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty command permission")
	}

	switch data[0] {
	case 't', 'f':
		var allowed bool
		if err := json.Unmarshal(data, &allowed); err != nil {
			return fmt.Errorf("invalid command permission %s: %w", data, err)
		}
		*p = CommandPermission{AllowAll: allowed}
	case '[':
		var channels []string
		if err := json.Unmarshal(data, &channels); err != nil {
			return fmt.Errorf("invalid channel list: %w", err)
		}
		*p = CommandPermission{Channels: channels}
	case '{':
		var obj commandPermissionObject
		if err := json.Unmarshal(data, &obj); err != nil {
			return fmt.Errorf("invalid command permission object: %w", err)
		}
		*p = CommandPermission{Until: obj.Until}
		if obj.Channels == nil {
			p.AllowAll = true
		} else {
			p.Channels = *obj.Channels
		}
	case 'n':
		*p = DenyAll()
	default:
		return fmt.Errorf("unsupported command permission %s", data)
	}
	return nil
}

// CommandPermissions maps a command name to its permission. It is stored as a
// JSONB column.
type CommandPermissions map[string]CommandPermission

func (c CommandPermissions) Value() (driver.Value, error) {
	if c == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(c)
}

func (c *CommandPermissions) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*c = CommandPermissions{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into CommandPermissions", src)
	}

	perms := CommandPermissions{}
	if err := json.Unmarshal(data, &perms); err != nil {
		return fmt.Errorf("failed to decode command permissions: %w", err)
	}
	*c = perms
	return nil
}

// PermissionQuery is everything the permission evaluator looks at besides
// the relation itself.
type PermissionQuery struct {
	CommandType CommandType
	Mode        PermissionMode
	AsOf        time.Time
	ChannelID   string
	ChannelName string
}
