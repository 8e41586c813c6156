package aggregator

import (
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slackproxy/models"
)

func relation(uri string) *models.Relation {
	return &models.Relation{WikiURI: uri, TokenPtoG: "secret-" + uri}
}

func TestAggregatorService_Aggregate_AllSucceeded(t *testing.T) {
	service := NewAggregatorService()
	outcomes := []models.DispatchOutcome{
		models.NewSucceededOutcome(relation("https://a.example.com"), http.StatusOK, time.Millisecond),
		models.NewSucceededOutcome(relation("https://b.example.com"), http.StatusOK, time.Millisecond),
	}

	report := service.Aggregate(outcomes, models.CommandTypeSearch)

	assert.Len(t, report.Succeeded, 2)
	assert.Empty(t, report.Failed)
	assert.Nil(t, report.Notice)
}

func TestAggregatorService_Aggregate_Mixed(t *testing.T) {
	service := NewAggregatorService()
	outcomes := []models.DispatchOutcome{
		models.NewSucceededOutcome(relation("https://a.example.com"), http.StatusOK, time.Millisecond),
		models.NewFailedOutcome(relation("https://b.example.com"), models.DispatchFailureTimeout, 0, errors.New("deadline"), time.Second),
	}

	report := service.Aggregate(outcomes, models.CommandTypeSearch)

	assert.Len(t, report.Succeeded, 1)
	require.Len(t, report.Failed, 1)
	require.NotNil(t, report.Notice)

	body := strings.Join(report.Notice.Sections, "\n")
	assert.Contains(t, body, "1 of 2")
	assert.Contains(t, body, "https://b.example.com")
	assert.Contains(t, body, "did not respond in time")
	assert.NotContains(t, body, "https://a.example.com")
}

func TestAggregatorService_Aggregate_AllFailed(t *testing.T) {
	service := NewAggregatorService()
	outcomes := []models.DispatchOutcome{
		models.NewFailedOutcome(relation("https://a.example.com"), models.DispatchFailureRejected, http.StatusForbidden, errors.New("403"), time.Millisecond),
		models.NewFailedOutcome(relation("https://b.example.com"), models.DispatchFailureNetwork, 0, errors.New("refused"), time.Millisecond),
	}

	report := service.Aggregate(outcomes, models.CommandTypeSearch)

	assert.Empty(t, report.Succeeded)
	assert.Len(t, report.Failed, 2)
	require.NotNil(t, report.Notice)
	assert.Equal(t, "*Failed to deliver 'search' to any wiki.*", report.Notice.Sections[0])

	body := strings.Join(report.Notice.Sections, "\n")
	assert.Contains(t, body, "403 Forbidden")
	assert.Contains(t, body, "could not be reached")
	assert.NotContains(t, body, "secret-", "tokens must never appear in notices")
}

func TestAggregatorService_NonePermitted(t *testing.T) {
	service := NewAggregatorService()
	relations := []*models.Relation{
		relation("https://a.example.com"),
		relation("https://b.example.com/wiki"),
	}

	msg := service.NonePermitted(models.CommandTypeNote, relations)

	assert.Equal(t, "None of the wikis permitted the command.", msg.Text)
	body := strings.Join(msg.Sections, "\n")
	assert.Contains(t, body, "https://a.example.com/admin/slack-integration")
	assert.Contains(t, body, "https://b.example.com/wiki/admin/slack-integration")
	assert.Contains(t, body, "'note'")
	assert.NotContains(t, body, "secret-")
}
