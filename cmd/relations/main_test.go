package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slackproxy/models"
)

func TestFilterRelations(t *testing.T) {
	now := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	all := []*models.Relation{
		{InstallationID: "inst_b", WikiURI: "https://b.example.com", PermissionsExpireAt: &future},
		{InstallationID: "inst_a", WikiURI: "https://z.example.com", PermissionsExpireAt: &past},
		{InstallationID: "inst_a", WikiURI: "https://a.example.com"},
	}

	sorted := filterRelations(all, false, now)
	require.Len(t, sorted, 3)
	assert.Equal(t, "https://a.example.com", sorted[0].WikiURI)
	assert.Equal(t, "https://z.example.com", sorted[1].WikiURI)
	assert.Equal(t, "https://b.example.com", sorted[2].WikiURI)

	expired := filterRelations(all, true, now)
	require.Len(t, expired, 1)
	assert.Equal(t, "https://z.example.com", expired[0].WikiURI)
}

func TestPrintRelations(t *testing.T) {
	now := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	relation := &models.Relation{
		InstallationID: "inst_a",
		WikiURI:        "https://a.example.com",
		PermissionsForBroadcastUse: models.CommandPermissions{
			"search": models.AllowAll(),
			"status": models.DenyAll(),
		},
		PermissionsExpireAt: &past,
	}

	var out bytes.Buffer
	require.NoError(t, printRelations(&out, []*models.Relation{relation}, now))

	assert.Contains(t, out.String(), "https://a.example.com")
	assert.Contains(t, out.String(), "search")
	assert.NotContains(t, out.String(), "status")
	assert.Contains(t, out.String(), "(expired)")
}
