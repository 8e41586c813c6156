package commands

import (
	"fmt"
	"slices"
	"strings"

	"slackproxy/models"
)

// ParseError is returned when slash command text does not name a known command.
// Reason is shown to the user as is.
type ParseError struct {
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse command %q: %s", e.Text, e.Reason)
}

const (
	reasonMissingType = "Command type is not specified."
	reasonUnknownType = "Unknown command type."
)

// Parse splits slash command text into a command type and its arguments.
// The type is the first word, matched case-insensitively.
func Parse(event models.SlashCommandEvent) (models.Command, error) {
	fields := strings.Fields(event.Text)
	if len(fields) == 0 {
		return models.Command{}, &ParseError{Text: event.Text, Reason: reasonMissingType}
	}

	commandType := models.CommandType(strings.ToLower(fields[0]))
	if !IsKnownType(commandType) {
		return models.Command{}, &ParseError{Text: event.Text, Reason: reasonUnknownType}
	}

	return models.Command{
		Type:  commandType,
		Args:  fields[1:],
		Text:  strings.TrimSpace(event.Text),
		Event: event,
	}, nil
}

// IsKnownType reports whether commandType is a builtin or a wiki command.
func IsKnownType(commandType models.CommandType) bool {
	return IsBuiltin(commandType) || slices.Contains(models.WikiCommandTypes, commandType)
}

// IsBuiltin reports whether the proxy answers commandType itself.
func IsBuiltin(commandType models.CommandType) bool {
	return slices.Contains(models.BuiltinCommandTypes, commandType)
}
