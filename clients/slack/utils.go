package slack

import (
	"github.com/slack-go/slack"

	"slackproxy/models"
)

// MessageBlocks renders each section of msg as a markdown section block.
func MessageBlocks(msg models.Message) []slack.Block {
	blocks := make([]slack.Block, 0, len(msg.Sections))
	for _, section := range msg.Sections {
		text := slack.NewTextBlockObject(slack.MarkdownType, section, false, false)
		blocks = append(blocks, slack.NewSectionBlock(text, nil, nil))
	}
	return blocks
}

// MessageOptions converts msg into chat.postMessage / chat.postEphemeral options.
func MessageOptions(msg models.Message) []slack.MsgOption {
	options := []slack.MsgOption{slack.MsgOptionText(msg.Text, false)}
	if blocks := MessageBlocks(msg); len(blocks) > 0 {
		options = append(options, slack.MsgOptionBlocks(blocks...))
	}
	return options
}

// MessageResponse builds the body Slack expects as an immediate slash command
// or response_url reply. Replies are always ephemeral.
func MessageResponse(msg models.Message) *slack.Msg {
	return &slack.Msg{
		ResponseType: slack.ResponseTypeEphemeral,
		Text:         msg.Text,
		Blocks:       slack.Blocks{BlockSet: MessageBlocks(msg)},
	}
}
