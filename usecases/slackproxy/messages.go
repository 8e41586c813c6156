package slackproxy

import (
	"fmt"
	"strings"

	"slackproxy/models"
)

func helpMessage() models.Message {
	return models.NewMessage(
		"Usage of /growi",
		"*Usage of /growi*",
		strings.Join([]string{
			"• `/growi register` registers a wiki with this workspace",
			"• `/growi unregister <wiki url> ...` removes registered wikis",
			"• `/growi status` lists the registered wikis",
			"• `/growi search <keywords>` searches every permitted wiki",
			"• `/growi note <text>` and `/growi keep` save to a wiki you pick",
		}, "\n"),
	)
}

func usageHintMessage(reason string) models.Message {
	return models.NewMessage(
		reason,
		fmt.Sprintf("*%s*", reason),
		"Run `/growi help` to check the commands you can use.",
	)
}

func noRelationMessage() models.Message {
	return models.NewMessage(
		"No relation found.",
		"*No relation found.*",
		"Run `/growi register` first.",
	)
}

func relationsLookupFailedMessage() models.Message {
	return models.NewMessage(
		"Failed to load registered wikis.",
		"*Failed to load registered wikis.*",
		"Please try again in a moment.",
	)
}

func statusMessage(relations []*models.Relation) models.Message {
	lines := make([]string, 0, len(relations))
	for _, relation := range relations {
		lines = append(lines, fmt.Sprintf("• %s", relation.WikiURI))
	}
	return models.NewMessage(
		"Found Relations to wikis.",
		"*Found Relations to wikis.*",
		strings.Join(lines, "\n"),
	)
}

func unregisterURLsRequiredMessage() models.Message {
	return models.NewMessage(
		"URLs are required.",
		"*URLs are required.*",
		"Run `/growi unregister <wiki url> ...` with the URLs of the wikis to remove.",
	)
}

func unregisterInvalidURLsMessage(invalid []string) models.Message {
	return models.NewMessage(
		"Arguments must be urls.",
		"*Arguments must be urls.*",
		fmt.Sprintf("Invalid: %s", strings.Join(invalid, ", ")),
	)
}

func registerInstructionsMessage(wikiURI, proxyURI string) models.Message {
	return models.NewMessage(
		"Registration requested for "+wikiURI,
		fmt.Sprintf("*Registration requested for %s.*", wikiURI),
		fmt.Sprintf(
			"Open the Slack integration settings of the wiki, enter `%s` as the Proxy URL and run the connection test to finish.",
			proxyURI,
		),
	)
}

func unregisteredMessage(wikiURIs []string, deleted int64) models.Message {
	return models.NewMessage(
		fmt.Sprintf("Unregistered %d wikis.", deleted),
		fmt.Sprintf("*Unregistered %d of %d wikis.*", deleted, len(wikiURIs)),
		"• "+strings.Join(wikiURIs, "\n• "),
	)
}

func selectionExpiredMessage() models.Message {
	return models.NewMessage(
		"This request has expired.",
		"*This request has expired.*",
		"Run the command again.",
	)
}

func commandFailedMessage(commandType models.CommandType) models.Message {
	text := fmt.Sprintf("Failed to run '%s'.", commandType)
	return models.NewMessage(text, fmt.Sprintf("*%s*", text), "Please try again in a moment.")
}
