package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/samber/mo"

	dbtx "slackproxy/db/tx"
	"slackproxy/models"
)

type PostgresInstallationsRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for installations table
var installationsColumns = []string{
	"id",
	"team_id",
	"enterprise_id",
	"team_name",
	"bot_token",
	"bot_user_id",
	"created_at",
	"updated_at",
}

func NewPostgresInstallationsRepository(db *sqlx.DB, schema string) *PostgresInstallationsRepository {
	return &PostgresInstallationsRepository{db: db, schema: schema}
}

// UpsertInstallation inserts the installation or refreshes the bot credentials
// of an existing one for the same team.
func (r *PostgresInstallationsRepository) UpsertInstallation(
	ctx context.Context,
	installation *models.Installation,
) error {
	db := dbtx.GetTransactional(ctx, r.db)

	returningStr := strings.Join(installationsColumns, ", ")
	query := fmt.Sprintf(`
		INSERT INTO %s.installations (id, team_id, enterprise_id, team_name, bot_token, bot_user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		ON CONFLICT (team_id) DO UPDATE SET
			enterprise_id = EXCLUDED.enterprise_id,
			team_name = EXCLUDED.team_name,
			bot_token = EXCLUDED.bot_token,
			bot_user_id = EXCLUDED.bot_user_id,
			updated_at = NOW()
		RETURNING %s`, r.schema, returningStr)

	err := db.QueryRowxContext(
		ctx,
		query,
		installation.ID,
		installation.TeamID,
		installation.EnterpriseID,
		installation.TeamName,
		installation.BotToken,
		installation.BotUserID,
	).StructScan(installation)
	if err != nil {
		return fmt.Errorf("failed to upsert installation: %w", err)
	}

	return nil
}

// GetInstallationByTeamOrEnterpriseID matches either the enterprise id or the team id.
func (r *PostgresInstallationsRepository) GetInstallationByTeamOrEnterpriseID(
	ctx context.Context,
	id string,
) (mo.Option[*models.Installation], error) {
	db := dbtx.GetTransactional(ctx, r.db)

	columnsStr := strings.Join(installationsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.installations
		WHERE enterprise_id = $1 OR team_id = $1
		ORDER BY enterprise_id NULLS LAST
		LIMIT 1`, columnsStr, r.schema)

	var installation models.Installation
	if err := db.GetContext(ctx, &installation, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return mo.None[*models.Installation](), nil
		}
		return mo.None[*models.Installation](), fmt.Errorf("failed to get installation: %w", err)
	}

	return mo.Some(&installation), nil
}

func (r *PostgresInstallationsRepository) GetInstallationByID(
	ctx context.Context,
	id string,
) (mo.Option[*models.Installation], error) {
	db := dbtx.GetTransactional(ctx, r.db)

	columnsStr := strings.Join(installationsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.installations
		WHERE id = $1`, columnsStr, r.schema)

	var installation models.Installation
	if err := db.GetContext(ctx, &installation, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return mo.None[*models.Installation](), nil
		}
		return mo.None[*models.Installation](), fmt.Errorf("failed to get installation by ID: %w", err)
	}

	return mo.Some(&installation), nil
}

func (r *PostgresInstallationsRepository) DeleteInstallation(ctx context.Context, id string) (bool, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`DELETE FROM %s.installations WHERE id = $1`, r.schema)

	result, err := db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete installation: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rowsAffected > 0, nil
}
