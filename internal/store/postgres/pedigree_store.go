package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/traba/internal/models"
	"github.com/wolfeidau/traba/internal/store"
)

var (
	_ store.PedigreeStore   = (*PedigreeStore)(nil)
	_ store.PedigreeQueries = (*queries)(nil)
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PedigreeStore implements store.PedigreeStore using PostgreSQL.
type PedigreeStore struct {
	*queries
	pool *pgxpool.Pool
}

// NewPedigreeStore creates a new PostgreSQL-backed pedigree store.
// It shares the connection pool with other stores.
func NewPedigreeStore(pool *pgxpool.Pool) *PedigreeStore {
	return &PedigreeStore{
		queries: &queries{db: pool},
		pool:    pool,
	}
}

// InTx runs fn inside a single database transaction, committing when fn
// returns nil and rolling back otherwise.
func (s *PedigreeStore) InTx(ctx context.Context, fn func(q store.PedigreeQueries) error) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(&queries{db: tx})
	})
}

type queries struct {
	db querier
}

const individualColumns = `
	individual_id, tenant_id, tag, secondary_tag, name, breed, color, appearance,
	fight_record, photo_ref, synthetic_code, placeholder, created_at, updated_at
`

func scanIndividual(row pgx.Row) (*models.Individual, error) {
	var ind models.Individual
	err := row.Scan(
		&ind.IndividualID,
		&ind.TenantID,
		&ind.Tag,
		&ind.SecondaryTag,
		&ind.Name,
		&ind.Breed,
		&ind.Color,
		&ind.Appearance,
		&ind.FightRecord,
		&ind.PhotoRef,
		&ind.SyntheticCode,
		&ind.Placeholder,
		&ind.CreatedAt,
		&ind.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ind, nil
}

// prefixed qualifies each column in a comma separated list with a table alias.
func prefixed(alias, columns string) string {
	fields := strings.Split(columns, ",")
	for i, f := range fields {
		fields[i] = alias + "." + strings.TrimSpace(f)
	}
	return strings.Join(fields, ", ")
}

func collectIndividuals(rows pgx.Rows) ([]*models.Individual, error) {
	defer rows.Close()

	var result []*models.Individual
	for rows.Next() {
		ind, err := scanIndividual(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan individual: %w", err)
		}
		result = append(result, ind)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating individuals: %w", err)
	}

	return result, nil
}

// CreateIndividual inserts a new individual.
func (q *queries) CreateIndividual(ctx context.Context, ind *models.Individual) error {
	query := `INSERT INTO individuals (` + individualColumns + `) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
	)`

	_, err := q.db.Exec(ctx, query,
		ind.IndividualID,
		ind.TenantID,
		ind.Tag,
		ind.SecondaryTag,
		ind.Name,
		ind.Breed,
		ind.Color,
		ind.Appearance,
		ind.FightRecord,
		ind.PhotoRef,
		ind.SyntheticCode,
		ind.Placeholder,
		ind.CreatedAt,
		ind.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create individual: %w", mapPostgresError(err))
	}

	log.Debug().
		Str("individual_id", ind.IndividualID.String()).
		Str("tenant_id", ind.TenantID.String()).
		Str("tag", ind.Tag).
		Bool("placeholder", ind.Placeholder).
		Msg("Created individual")

	return nil
}

// GetIndividual retrieves an individual by ID.
func (q *queries) GetIndividual(ctx context.Context, individualID uuid.UUID) (*models.Individual, error) {
	query := `SELECT ` + individualColumns + ` FROM individuals WHERE individual_id = $1`

	ind, err := scanIndividual(q.db.QueryRow(ctx, query, individualID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrIndividualNotFound
		}
		return nil, fmt.Errorf("failed to get individual: %w", mapPostgresError(err))
	}

	return ind, nil
}

// UpdateIndividual overwrites the mutable attributes and refreshes ind with
// the stored row.
func (q *queries) UpdateIndividual(ctx context.Context, ind *models.Individual) error {
	query := `
		UPDATE individuals SET
			tag = $2,
			secondary_tag = $3,
			name = $4,
			breed = $5,
			color = $6,
			appearance = $7,
			fight_record = $8,
			photo_ref = $9,
			updated_at = $10
		WHERE individual_id = $1
		RETURNING ` + individualColumns

	updated, err := scanIndividual(q.db.QueryRow(ctx, query,
		ind.IndividualID,
		ind.Tag,
		ind.SecondaryTag,
		ind.Name,
		ind.Breed,
		ind.Color,
		ind.Appearance,
		ind.FightRecord,
		ind.PhotoRef,
		time.Now(),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.ErrIndividualNotFound
		}
		return fmt.Errorf("failed to update individual: %w", mapPostgresError(err))
	}
	*ind = *updated

	log.Debug().
		Str("individual_id", ind.IndividualID.String()).
		Msg("Updated individual")

	return nil
}

// DeleteIndividual removes the parentage rows referencing the individual and
// then the individual itself. Crosses cascade via FK constraint.
func (q *queries) DeleteIndividual(ctx context.Context, individualID uuid.UUID) error {
	unlinked, err := q.db.Exec(ctx, `
		DELETE FROM parentage
		WHERE subject_id = $1 OR mother_id = $1 OR father_id = $1
	`, individualID)
	if err != nil {
		return fmt.Errorf("failed to delete parentage: %w", mapPostgresError(err))
	}

	result, err := q.db.Exec(ctx, `DELETE FROM individuals WHERE individual_id = $1`, individualID)
	if err != nil {
		return fmt.Errorf("failed to delete individual: %w", mapPostgresError(err))
	}

	if result.RowsAffected() == 0 {
		return store.ErrIndividualNotFound
	}

	log.Debug().
		Str("individual_id", individualID.String()).
		Int64("parentage_rows", unlinked.RowsAffected()).
		Msg("Deleted individual")

	return nil
}

// ListIndividuals returns the tenant's individuals ordered by tag.
func (q *queries) ListIndividuals(ctx context.Context, tenantID uuid.UUID, query string) ([]*models.Individual, error) {
	sql := `SELECT ` + individualColumns + `
		FROM individuals
		WHERE tenant_id = $1
		  AND (
			$2 = ''
			OR strpos(lower(tag), lower($2)) > 0
			OR strpos(lower(secondary_tag), lower($2)) > 0
			OR strpos(lower(name), lower($2)) > 0
			OR strpos(lower(synthetic_code), lower($2)) > 0
		  )
		ORDER BY tag COLLATE "C", individual_id
	`

	rows, err := q.db.Query(ctx, sql, tenantID, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list individuals: %w", mapPostgresError(err))
	}

	return collectIndividuals(rows)
}

// GetParentage returns the subject's parentage row or nil if there is none.
func (q *queries) GetParentage(ctx context.Context, subjectID uuid.UUID) (*models.Parentage, error) {
	query := `
		SELECT subject_id, tenant_id, mother_id, father_id, updated_at
		FROM parentage
		WHERE subject_id = $1
	`

	var p models.Parentage
	err := q.db.QueryRow(ctx, query, subjectID).Scan(
		&p.SubjectID,
		&p.TenantID,
		&p.MotherID,
		&p.FatherID,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get parentage: %w", mapPostgresError(err))
	}

	return &p, nil
}

// SetParent upserts the subject's parentage row, touching only one role.
func (q *queries) SetParent(ctx context.Context, tenantID, subjectID uuid.UUID, role models.ParentRole, parentID uuid.UUID) error {
	var column string
	switch role {
	case models.RoleMother:
		column = "mother_id"
	case models.RoleFather:
		column = "father_id"
	default:
		return fmt.Errorf("unknown parent role %q", role)
	}

	query := `
		INSERT INTO parentage (subject_id, tenant_id, ` + column + `, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (subject_id) DO UPDATE SET
			` + column + ` = EXCLUDED.` + column + `,
			updated_at = EXCLUDED.updated_at
	`

	_, err := q.db.Exec(ctx, query, subjectID, tenantID, parentID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to set parent: %w", mapPostgresError(err))
	}

	log.Debug().
		Str("subject_id", subjectID.String()).
		Str("role", string(role)).
		Str("parent_id", parentID.String()).
		Msg("Set parent")

	return nil
}

// ListChildren returns the tenant's individuals that name parentID as a parent.
func (q *queries) ListChildren(ctx context.Context, tenantID, parentID uuid.UUID) ([]*models.Individual, error) {
	sql := `SELECT ` + prefixed("i", individualColumns) + `
		FROM parentage p
		JOIN individuals i ON i.individual_id = p.subject_id
		WHERE p.tenant_id = $1
		  AND i.tenant_id = $1
		  AND (p.mother_id = $2 OR p.father_id = $2)
		ORDER BY i.tag COLLATE "C", i.individual_id
	`

	rows, err := q.db.Query(ctx, sql, tenantID, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list children: %w", mapPostgresError(err))
	}

	return collectIndividuals(rows)
}

// CreateCross inserts a cross record.
func (q *queries) CreateCross(ctx context.Context, cross *models.Cross) error {
	query := `
		INSERT INTO crosses (
			cross_id, tenant_id, cross_type, individual1_id, individual2_id,
			generation, percentage, notes, photo_ref, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		)
	`

	_, err := q.db.Exec(ctx, query,
		cross.CrossID,
		cross.TenantID,
		cross.Type,
		cross.Individual1ID,
		cross.Individual2ID,
		cross.Generation,
		cross.Percentage,
		cross.Notes,
		cross.PhotoRef,
		cross.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create cross: %w", mapPostgresError(err))
	}

	log.Debug().
		Str("cross_id", cross.CrossID.String()).
		Str("tenant_id", cross.TenantID.String()).
		Int("generation", cross.Generation).
		Msg("Created cross")

	return nil
}

// ListCrosses returns the tenant's crosses newest first.
func (q *queries) ListCrosses(ctx context.Context, tenantID uuid.UUID, generation *int) ([]*models.Cross, error) {
	query := `
		SELECT cross_id, tenant_id, cross_type, individual1_id, individual2_id,
		       generation, percentage, notes, photo_ref, created_at
		FROM crosses
		WHERE tenant_id = $1
		  AND ($2::integer IS NULL OR generation = $2)
		ORDER BY created_at DESC, cross_id DESC
	`

	rows, err := q.db.Query(ctx, query, tenantID, generation)
	if err != nil {
		return nil, fmt.Errorf("failed to list crosses: %w", mapPostgresError(err))
	}
	defer rows.Close()

	var result []*models.Cross
	for rows.Next() {
		var c models.Cross
		err := rows.Scan(
			&c.CrossID,
			&c.TenantID,
			&c.Type,
			&c.Individual1ID,
			&c.Individual2ID,
			&c.Generation,
			&c.Percentage,
			&c.Notes,
			&c.PhotoRef,
			&c.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cross: %w", err)
		}
		result = append(result, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating crosses: %w", err)
	}

	return result, nil
}
