package models

// CommandType is the first word of a slash command's text.
type CommandType string

const (
	CommandTypeHelp       CommandType = "help"
	CommandTypeRegister   CommandType = "register"
	CommandTypeUnregister CommandType = "unregister"
	CommandTypeStatus     CommandType = "status"
	CommandTypeSearch     CommandType = "search"
	CommandTypeNote       CommandType = "note"
	CommandTypeKeep       CommandType = "keep"
)

// BuiltinCommandTypes are handled by the proxy itself and never forwarded.
var BuiltinCommandTypes = []CommandType{
	CommandTypeHelp,
	CommandTypeRegister,
	CommandTypeUnregister,
	CommandTypeStatus,
}

// WikiCommandTypes are forwarded to the wikis that permit them.
var WikiCommandTypes = []CommandType{
	CommandTypeSearch,
	CommandTypeNote,
	CommandTypeKeep,
}

// SlashCommandEvent is a verified slash command as received from Slack.
// Payload keeps every form field so it can be forwarded untouched.
type SlashCommandEvent struct {
	Command      string            `json:"command"`
	Text         string            `json:"text"`
	TeamID       string            `json:"team_id"`
	TeamDomain   string            `json:"team_domain"`
	EnterpriseID string            `json:"enterprise_id"`
	ChannelID    string            `json:"channel_id"`
	ChannelName  string            `json:"channel_name"`
	UserID       string            `json:"user_id"`
	UserName     string            `json:"user_name"`
	ResponseURL  string            `json:"response_url"`
	TriggerID    string            `json:"trigger_id"`
	Payload      map[string]string `json:"payload"`
}

// Command is a parsed slash command.
type Command struct {
	Type  CommandType       `json:"type"`
	Args  []string          `json:"args"`
	Text  string            `json:"text"`
	Event SlashCommandEvent `json:"event"`
}

// WikiCommand is the parsed command as wikis expect it in forwarded bodies.
type WikiCommand struct {
	Type string   `json:"growiCommandType"`
	Args []string `json:"growiCommandArgs"`
	Text string   `json:"text"`
}

func (c Command) ToWikiCommand() WikiCommand {
	args := c.Args
	if args == nil {
		args = []string{}
	}
	return WikiCommand{
		Type: string(c.Type),
		Args: args,
		Text: c.Text,
	}
}
