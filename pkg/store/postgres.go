/*
 * Copyright 2025 Monready Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/monready/monready/pkg/logger"
	"github.com/monready/monready/pkg/models"
)

const snapshotColumns = `
	e.id, e.kind, e.name, e.description, e.primary_ip,
	e.platform_id, e.site_id, e.role_id, e.attributes,
	p.id, p.slug, p.name, p.attributes,
	s.id, s.slug, s.name, s.attributes,
	r.id, r.slug, r.sla_report_code, r.attributes`

const snapshotJoins = `
	FROM entities e
	LEFT JOIN platforms p ON p.id = e.platform_id
	LEFT JOIN sites s ON s.id = e.site_id
	LEFT JOIN roles r ON r.id = e.role_id`

// monitoredClause matches both the boolean and the legacy string encodings
// of the monitoring-enabled attribute.
const monitoredClause = `(e.attributes @> '{"mon_enabled": true}'::jsonb
	OR lower(e.attributes ->> 'mon_enabled') IN ('1', 'true', 'yes', 'y', 'enabled', 'enable'))`

// PostgresStore implements Store on a pgx connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
	log  logger.Logger
}

func NewPostgresStore(ctx context.Context, dsn string, log logger.Logger) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{pool: pool, log: log}, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) Snapshot(ctx context.Context, kind models.EntityKind, id int64) (*models.EntitySnapshot, error) {
	query := `SELECT` + snapshotColumns + snapshotJoins + `
	WHERE e.kind = $1 AND e.id = $2`

	row := s.pool.QueryRow(ctx, query, string(kind), id)

	snap, err := scanSnapshot(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("entity %s/%d: %w", kind, id, models.ErrNotFound)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load entity %s/%d: %w", kind, id, err)
	}

	return snap, nil
}

func (s *PostgresStore) SaveAttributes(ctx context.Context, entity *models.ManagedEntity) error {
	if err := ValidateAttributes(entity.Attributes); err != nil {
		return err
	}

	attrs, err := json.Marshal(entity.Attributes)
	if err != nil {
		return fmt.Errorf("failed to encode attributes: %w", err)
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE entities SET attributes = $1 WHERE kind = $2 AND id = $3`,
		attrs, string(entity.Kind), entity.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, "23") {
			// Integrity constraint violation maps to the validation error
			// the write path knows how to surface.
			return fmt.Errorf("%w: %s", models.ErrValidationFailed, pgErr.Message)
		}

		return fmt.Errorf("failed to save attributes for %s/%d: %w", entity.Kind, entity.ID, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("entity %s/%d: %w", entity.Kind, entity.ID, models.ErrNotFound)
	}

	return nil
}

func (s *PostgresStore) ListBySource(ctx context.Context, ref models.SourceRef, afterID int64, limit int) ([]*models.EntitySnapshot, error) {
	var column string

	switch ref.Kind {
	case models.SourcePlatform:
		column = "e.platform_id"
	case models.SourceSite:
		column = "e.site_id"
	default:
		return nil, fmt.Errorf("unknown source kind %q", ref.Kind)
	}

	query := `SELECT` + snapshotColumns + snapshotJoins + `
	WHERE ` + column + ` = $1 AND e.id > $2 AND ` + monitoredClause + `
	ORDER BY e.id
	LIMIT $3`

	return s.querySnapshots(ctx, query, ref.ID, afterID, limit)
}

func (s *PostgresStore) ListMonitored(ctx context.Context, kinds []models.EntityKind, afterID int64, limit int) ([]*models.EntitySnapshot, error) {
	kindValues := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		kindValues = append(kindValues, string(kind))
	}

	query := `SELECT` + snapshotColumns + snapshotJoins + `
	WHERE ($1::text[] IS NULL OR e.kind = ANY($1)) AND e.id > $2 AND ` + monitoredClause + `
	ORDER BY e.id
	LIMIT $3`

	var kindArg interface{}
	if len(kindValues) > 0 {
		kindArg = kindValues
	}

	return s.querySnapshots(ctx, query, kindArg, afterID, limit)
}

func (s *PostgresStore) querySnapshots(ctx context.Context, query string, args ...interface{}) ([]*models.EntitySnapshot, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list entities: %w", err)
	}

	defer rows.Close()

	var snaps []*models.EntitySnapshot

	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entity row: %w", err)
		}

		snaps = append(snaps, snap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read entity rows: %w", err)
	}

	return snaps, nil
}

func scanSnapshot(row pgx.Row) (*models.EntitySnapshot, error) {
	var (
		entity models.ManagedEntity

		description, primaryIP          *string
		platformID, siteID, roleID      *int64
		entityAttrs                     []byte
		pID, sID, rID                   *int64
		pSlug, pName, sSlug, sName      *string
		rSlug, rSLACode                 *string
		pAttrs, sAttrs, rAttrs          []byte
	)

	err := row.Scan(
		&entity.ID, &entity.Kind, &entity.Name, &description, &primaryIP,
		&platformID, &siteID, &roleID, &entityAttrs,
		&pID, &pSlug, &pName, &pAttrs,
		&sID, &sSlug, &sName, &sAttrs,
		&rID, &rSlug, &rSLACode, &rAttrs,
	)
	if err != nil {
		return nil, err
	}

	if description != nil {
		entity.Description = *description
	}

	if primaryIP != nil {
		entity.PrimaryIP = *primaryIP
	}

	if platformID != nil {
		entity.PlatformID = *platformID
	}

	if siteID != nil {
		entity.SiteID = *siteID
	}

	if roleID != nil {
		entity.RoleID = *roleID
	}

	if entity.Attributes, err = decodeAttrs(entityAttrs); err != nil {
		return nil, err
	}

	snap := &models.EntitySnapshot{Entity: &entity}

	if pID != nil {
		platform := &models.SourceEntity{ID: *pID}
		if pSlug != nil {
			platform.Slug = *pSlug
		}

		if pName != nil {
			platform.Name = *pName
		}

		if platform.Attributes, err = decodeAttrs(pAttrs); err != nil {
			return nil, err
		}

		snap.Platform = platform
	}

	if sID != nil {
		site := &models.SourceEntity{ID: *sID}
		if sSlug != nil {
			site.Slug = *sSlug
		}

		if sName != nil {
			site.Name = *sName
		}

		if site.Attributes, err = decodeAttrs(sAttrs); err != nil {
			return nil, err
		}

		snap.Site = site
	}

	if rID != nil {
		role := &models.Role{ID: *rID}
		if rSlug != nil {
			role.Slug = *rSlug
		}

		if rSLACode != nil {
			role.SLAReportCode = *rSLACode
		}

		if role.Attributes, err = decodeAttrs(rAttrs); err != nil {
			return nil, err
		}

		snap.Role = role
	}

	return snap, nil
}

func decodeAttrs(raw []byte) (models.AttributeMap, error) {
	if len(raw) == 0 {
		return models.AttributeMap{}, nil
	}

	var attrs models.AttributeMap
	if err := json.Unmarshal(raw, &attrs); err != nil {
		return nil, fmt.Errorf("failed to decode attributes: %w", err)
	}

	return attrs, nil
}
