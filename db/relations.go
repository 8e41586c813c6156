package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/samber/mo"

	dbtx "slackproxy/db/tx"
	"slackproxy/models"
)

type PostgresRelationsRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for relations table
var relationsColumns = []string{
	"id",
	"installation_id",
	"wiki_uri",
	"token_ptog",
	"token_gtop",
	"permissions_for_broadcast_use",
	"permissions_for_single_use",
	"permissions_expire_at",
	"created_at",
	"updated_at",
}

func NewPostgresRelationsRepository(db *sqlx.DB, schema string) *PostgresRelationsRepository {
	return &PostgresRelationsRepository{db: db, schema: schema}
}

// UpsertRelation inserts the relation, or replaces tokens and permissions of the
// relation already linking the same installation and wiki.
func (r *PostgresRelationsRepository) UpsertRelation(ctx context.Context, relation *models.Relation) error {
	db := dbtx.GetTransactional(ctx, r.db)

	insertColumns := []string{
		"id",
		"installation_id",
		"wiki_uri",
		"token_ptog",
		"token_gtop",
		"permissions_for_broadcast_use",
		"permissions_for_single_use",
		"permissions_expire_at",
		"created_at",
		"updated_at",
	}
	columnsStr := strings.Join(insertColumns, ", ")
	returningStr := strings.Join(relationsColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.relations (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		ON CONFLICT (installation_id, wiki_uri) DO UPDATE SET
			token_ptog = EXCLUDED.token_ptog,
			token_gtop = EXCLUDED.token_gtop,
			permissions_for_broadcast_use = EXCLUDED.permissions_for_broadcast_use,
			permissions_for_single_use = EXCLUDED.permissions_for_single_use,
			permissions_expire_at = EXCLUDED.permissions_expire_at,
			updated_at = NOW()
		RETURNING %s`, r.schema, columnsStr, returningStr)

	err := db.QueryRowxContext(
		ctx,
		query,
		relation.ID,
		relation.InstallationID,
		relation.WikiURI,
		relation.TokenPtoG,
		relation.TokenGtoP,
		relation.PermissionsForBroadcastUse,
		relation.PermissionsForSingleUse,
		relation.PermissionsExpireAt,
	).StructScan(relation)
	if err != nil {
		return fmt.Errorf("failed to upsert relation: %w", err)
	}

	return nil
}

func (r *PostgresRelationsRepository) GetRelationsByInstallationID(
	ctx context.Context,
	installationID string,
) ([]*models.Relation, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	columnsStr := strings.Join(relationsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.relations
		WHERE installation_id = $1
		ORDER BY created_at ASC`, columnsStr, r.schema)

	var relations []*models.Relation
	if err := db.SelectContext(ctx, &relations, query, installationID); err != nil {
		return nil, fmt.Errorf("failed to get relations by installation ID: %w", err)
	}

	return relations, nil
}

func (r *PostgresRelationsRepository) GetAllRelations(ctx context.Context) ([]*models.Relation, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	columnsStr := strings.Join(relationsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.relations
		ORDER BY installation_id, created_at ASC`, columnsStr, r.schema)

	var relations []*models.Relation
	if err := db.SelectContext(ctx, &relations, query); err != nil {
		return nil, fmt.Errorf("failed to get all relations: %w", err)
	}

	return relations, nil
}

func (r *PostgresRelationsRepository) FindOneRelation(
	ctx context.Context,
	filter models.RelationFilter,
) (mo.Option[*models.Relation], error) {
	db := dbtx.GetTransactional(ctx, r.db)

	var conditions []string
	var args []any
	addCondition := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	addCondition("installation_id", filter.InstallationID)
	addCondition("wiki_uri", filter.WikiURI)
	addCondition("token_gtop", filter.TokenGtoP)

	if len(conditions) == 0 {
		return mo.None[*models.Relation](), fmt.Errorf("relation filter cannot be empty")
	}

	columnsStr := strings.Join(relationsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.relations
		WHERE %s
		ORDER BY created_at ASC
		LIMIT 1`, columnsStr, r.schema, strings.Join(conditions, " AND "))

	var relation models.Relation
	if err := db.GetContext(ctx, &relation, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return mo.None[*models.Relation](), nil
		}
		return mo.None[*models.Relation](), fmt.Errorf("failed to find relation: %w", err)
	}

	return mo.Some(&relation), nil
}

func (r *PostgresRelationsRepository) UpdateRelationPermissions(
	ctx context.Context,
	relationID string,
	broadcast models.CommandPermissions,
	singleUse models.CommandPermissions,
	expireAt time.Time,
) (bool, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		UPDATE %s.relations
		SET permissions_for_broadcast_use = $1,
			permissions_for_single_use = $2,
			permissions_expire_at = $3,
			updated_at = NOW()
		WHERE id = $4`, r.schema)

	result, err := db.ExecContext(ctx, query, broadcast, singleUse, expireAt, relationID)
	if err != nil {
		return false, fmt.Errorf("failed to update relation permissions: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *PostgresRelationsRepository) DeleteRelationsByWikiURIs(
	ctx context.Context,
	installationID string,
	wikiURIs []string,
) (int64, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		DELETE FROM %s.relations
		WHERE installation_id = $1 AND wiki_uri = ANY($2)`, r.schema)

	result, err := db.ExecContext(ctx, query, installationID, pq.Array(wikiURIs))
	if err != nil {
		return 0, fmt.Errorf("failed to delete relations: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rowsAffected, nil
}

func (r *PostgresRelationsRepository) DeleteRelationsByInstallationID(
	ctx context.Context,
	installationID string,
) (int64, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`DELETE FROM %s.relations WHERE installation_id = $1`, r.schema)

	result, err := db.ExecContext(ctx, query, installationID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete relations for installation: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rowsAffected, nil
}
