package slackproxy

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/slack-go/slack"
)

// Modal callback ids. They route view submissions back to their handlers.
const (
	CallbackRegister   = "register"
	CallbackUnregister = "unregister"
	CallbackSelectWiki = "select_wiki"
)

// Input block and action ids of the modals.
const (
	BlockWikiURI    = "wiki_uri"
	BlockTokenPtoG  = "token_ptog"
	BlockTokenGtoP  = "token_gtop"
	BlockSelectWiki = "select_wiki"

	ActionWikiURI    = "wiki_uri_input"
	ActionTokenPtoG  = "token_ptog_input"
	ActionTokenGtoP  = "token_gtop_input"
	ActionSelectWiki = "select_wiki_input"
)

// viewMetadata travels in a modal's private_metadata so the submission can be
// answered in the channel the command came from.
type viewMetadata struct {
	ChannelID   string   `json:"channel_id"`
	SelectionID string   `json:"selection_id,omitempty"`
	WikiURIs    []string `json:"wiki_uris,omitempty"`
}

func (m viewMetadata) encode() string {
	data, err := json.Marshal(m)
	if err != nil {
		return ""
	}
	return string(data)
}

func decodeViewMetadata(raw string) (viewMetadata, error) {
	var metadata viewMetadata
	if raw == "" {
		return metadata, fmt.Errorf("view metadata is empty")
	}
	if err := json.Unmarshal([]byte(raw), &metadata); err != nil {
		return metadata, fmt.Errorf("failed to decode view metadata: %w", err)
	}
	return metadata, nil
}

func plainText(text string) *slack.TextBlockObject {
	return slack.NewTextBlockObject(slack.PlainTextType, text, false, false)
}

func markdown(text string) *slack.TextBlockObject {
	return slack.NewTextBlockObject(slack.MarkdownType, text, false, false)
}

func textInput(blockID, actionID, label, placeholder string) *slack.InputBlock {
	element := slack.NewPlainTextInputBlockElement(plainText(placeholder), actionID)
	return slack.NewInputBlock(blockID, plainText(label), nil, element)
}

func registerView(channelID string) slack.ModalViewRequest {
	return slack.ModalViewRequest{
		Type:            slack.VTModal,
		CallbackID:      CallbackRegister,
		Title:           plainText("Register a wiki"),
		Submit:          plainText("Register"),
		Close:           plainText("Cancel"),
		PrivateMetadata: viewMetadata{ChannelID: channelID}.encode(),
		Blocks: slack.Blocks{BlockSet: []slack.Block{
			textInput(BlockWikiURI, ActionWikiURI, "Wiki URL", "https://wiki.example.com"),
			textInput(BlockTokenPtoG, ActionTokenPtoG, "Access Token Proxy to Wiki", "from the wiki's Slack integration settings"),
			textInput(BlockTokenGtoP, ActionTokenGtoP, "Access Token Wiki to Proxy", "from the wiki's Slack integration settings"),
		}},
	}
}

func unregisterView(channelID string, wikiURIs []string) slack.ModalViewRequest {
	list := "• " + strings.Join(wikiURIs, "\n• ")
	return slack.ModalViewRequest{
		Type:            slack.VTModal,
		CallbackID:      CallbackUnregister,
		Title:           plainText("Unregister wikis"),
		Submit:          plainText("Unregister"),
		Close:           plainText("Cancel"),
		PrivateMetadata: viewMetadata{ChannelID: channelID, WikiURIs: wikiURIs}.encode(),
		Blocks: slack.Blocks{BlockSet: []slack.Block{
			slack.NewSectionBlock(markdown("*Do you want to unregister these wikis?*"), nil, nil),
			slack.NewSectionBlock(markdown(list), nil, nil),
		}},
	}
}

func selectWikiView(channelID, selectionID string, wikiURIs []string) slack.ModalViewRequest {
	options := make([]*slack.OptionBlockObject, 0, len(wikiURIs))
	for _, uri := range wikiURIs {
		options = append(options, slack.NewOptionBlockObject(uri, plainText(uri), nil))
	}

	selectElement := slack.NewOptionsSelectBlockElement(slack.OptTypeStatic, plainText("Select a wiki"), ActionSelectWiki, options...)
	if len(options) > 0 {
		selectElement.InitialOption = options[0]
	}

	return slack.ModalViewRequest{
		Type:            slack.VTModal,
		CallbackID:      CallbackSelectWiki,
		Title:           plainText("Select a wiki"),
		Submit:          plainText("Submit"),
		Close:           plainText("Cancel"),
		PrivateMetadata: viewMetadata{ChannelID: channelID, SelectionID: selectionID}.encode(),
		Blocks: slack.Blocks{BlockSet: []slack.Block{
			slack.NewInputBlock(BlockSelectWiki, plainText("Wiki"), nil, selectElement),
		}},
	}
}

// inputValue reads a text input or the selected option of a submitted modal.
func inputValue(view slack.View, blockID, actionID string) string {
	if view.State == nil {
		return ""
	}
	action, ok := view.State.Values[blockID][actionID]
	if !ok {
		return ""
	}
	if action.SelectedOption.Value != "" {
		return action.SelectedOption.Value
	}
	return strings.TrimSpace(action.Value)
}

// wikiURIFromInteraction finds the wiki an interaction belongs to. Wikis put
// {"growiUri": ...} in their modal metadata or in the value of their buttons.
func wikiURIFromInteraction(callback slack.InteractionCallback) string {
	type wikiRef struct {
		WikiURI string `json:"growiUri"`
	}

	candidates := []string{callback.View.PrivateMetadata}
	for _, action := range callback.ActionCallback.BlockActions {
		if action != nil {
			candidates = append(candidates, action.Value)
		}
	}

	for _, raw := range candidates {
		if raw == "" {
			continue
		}
		var ref wikiRef
		if err := json.Unmarshal([]byte(raw), &ref); err == nil && ref.WikiURI != "" {
			return ref.WikiURI
		}
	}
	return ""
}
