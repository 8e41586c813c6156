package aggregator

import (
	"fmt"
	"net/http"
	"strings"

	"slackproxy/models"
)

// AggregatorService folds dispatch outcomes into a single report.
type AggregatorService struct{}

func NewAggregatorService() *AggregatorService {
	return &AggregatorService{}
}

// Aggregate partitions outcomes by status. At most one notice is produced and
// it names only the wikis that failed.
func (s *AggregatorService) Aggregate(
	outcomes []models.DispatchOutcome,
	commandType models.CommandType,
) models.DispatchReport {
	report := models.DispatchReport{}
	for _, outcome := range outcomes {
		if outcome.Succeeded() {
			report.Succeeded = append(report.Succeeded, outcome)
		} else {
			report.Failed = append(report.Failed, outcome)
		}
	}

	if len(report.Failed) == 0 {
		return report
	}

	var header string
	if len(report.Succeeded) == 0 {
		header = fmt.Sprintf("*Failed to deliver '%s' to any wiki.*", commandType)
	} else {
		header = fmt.Sprintf("*Failed to deliver '%s' to %d of %d wikis.*", commandType, len(report.Failed), len(outcomes))
	}

	lines := make([]string, 0, len(report.Failed))
	for _, outcome := range report.Failed {
		lines = append(lines, fmt.Sprintf("• %s: %s", outcome.Relation.WikiURI, failureReason(outcome)))
	}

	notice := models.NewMessage(strings.Trim(header, "*"), header, strings.Join(lines, "\n"))
	report.Notice = &notice
	return report
}

// NonePermitted is shown when no relation may run commandType. It points the
// user at each wiki's settings page.
func (s *AggregatorService) NonePermitted(
	commandType models.CommandType,
	relations []*models.Relation,
) models.Message {
	lines := make([]string, 0, len(relations))
	for _, relation := range relations {
		lines = append(lines, fmt.Sprintf("• <%s|%s>", relation.SettingsURL(), relation.WikiURI))
	}

	sections := []string{
		"*None of the wikis permitted the command.*",
		fmt.Sprintf("Allow '%s' in the Slack integration settings of a wiki:", commandType),
	}
	if len(lines) > 0 {
		sections = append(sections, strings.Join(lines, "\n"))
	}

	return models.NewMessage("None of the wikis permitted the command.", sections...)
}

func failureReason(outcome models.DispatchOutcome) string {
	switch outcome.Failure {
	case models.DispatchFailureTimeout:
		return "the wiki did not respond in time"
	case models.DispatchFailureRejected:
		if outcome.StatusCode != 0 {
			return fmt.Sprintf("the wiki rejected the command (%d %s)", outcome.StatusCode, http.StatusText(outcome.StatusCode))
		}
		return "the wiki rejected the command"
	default:
		return "the wiki could not be reached"
	}
}
