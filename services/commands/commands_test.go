package commands

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slackproxy/models"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		expectedType models.CommandType
		expectedArgs []string
	}{
		{
			name:         "command without args",
			text:         "help",
			expectedType: models.CommandTypeHelp,
			expectedArgs: []string{},
		},
		{
			name:         "command with args",
			text:         "search  release notes",
			expectedType: models.CommandTypeSearch,
			expectedArgs: []string{"release", "notes"},
		},
		{
			name:         "type is case insensitive",
			text:         "NOTE hello",
			expectedType: models.CommandTypeNote,
			expectedArgs: []string{"hello"},
		},
		{
			name:         "unregister with urls",
			text:         "unregister https://a.example.com https://b.example.com",
			expectedType: models.CommandTypeUnregister,
			expectedArgs: []string{"https://a.example.com", "https://b.example.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := models.SlashCommandEvent{Text: tt.text, ChannelID: "C1"}

			command, err := Parse(event)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedType, command.Type)
			assert.Equal(t, tt.expectedArgs, command.Args)
			assert.Equal(t, event, command.Event)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name           string
		text           string
		expectedReason string
	}{
		{name: "empty text", text: "", expectedReason: reasonMissingType},
		{name: "whitespace only", text: "   ", expectedReason: reasonMissingType},
		{name: "unknown type", text: "deploy prod", expectedReason: reasonUnknownType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(models.SlashCommandEvent{Text: tt.text})
			require.Error(t, err)

			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr))
			assert.Equal(t, tt.expectedReason, parseErr.Reason)
		})
	}
}

func TestIsBuiltin(t *testing.T) {
	assert.True(t, IsBuiltin(models.CommandTypeRegister))
	assert.True(t, IsBuiltin(models.CommandTypeStatus))
	assert.False(t, IsBuiltin(models.CommandTypeSearch))
	assert.False(t, IsBuiltin(models.CommandType("other")))
}
