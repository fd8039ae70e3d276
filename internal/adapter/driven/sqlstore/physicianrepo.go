package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/ericfisherdev/portalbonos/internal/domain/model"
	"github.com/ericfisherdev/portalbonos/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.PhysicianStore = (*PhysicianRepo)(nil)

// PhysicianRepo is the SQL implementation of the PhysicianStore port.
type PhysicianRepo struct {
	db *DB
}

// NewPhysicianRepo creates a new PhysicianRepo backed by the given DB.
func NewPhysicianRepo(db *DB) *PhysicianRepo {
	return &PhysicianRepo{db: db}
}

// likeEscaper escapes LIKE wildcards so user input only matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsFold returns a case-insensitive substring predicate on column.
// Both sides are folded with Unicode rules: the value here, the column by
// lower (see DB.lowerFunc).
func containsFold(lower, column, value string) sq.Sqlizer {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(value)) + "%"
	return sq.Expr(lower+"("+column+") LIKE ? ESCAPE '\\'", pattern)
}

// physicianPredicates composes the filter into AND-ed predicates. Absent
// fields contribute nothing.
func physicianPredicates(f model.PhysicianFilter, lower string) sq.And {
	preds := sq.And{}
	if f.NameContains != "" {
		preds = append(preds, containsFold(lower, "nombre", f.NameContains))
	}
	if f.RutContains != "" {
		preds = append(preds, containsFold(lower, "rut", f.RutContains))
	}
	if f.Specialty != "" {
		preds = append(preds, sq.Eq{"especialidad": f.Specialty})
	}
	if f.Commune != "" {
		preds = append(preds, sq.Eq{"comuna": f.Commune})
	}
	return preds
}

// Search returns physicians matching every predicate in filter ordered by name.
func (r *PhysicianRepo) Search(ctx context.Context, filter model.PhysicianFilter) ([]model.Physician, error) {
	builder := r.db.sb.
		Select("rut", "nombre", "especialidad", "comuna").
		From("medico").
		OrderBy("nombre ASC")

	if preds := physicianPredicates(filter, r.db.lowerFunc()); len(preds) > 0 {
		builder = builder.Where(preds)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build physician search: %w", err)
	}

	rows, err := r.db.Reader.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search physicians: %w", err)
	}
	defer rows.Close()

	var physicians []model.Physician
	for rows.Next() {
		var p model.Physician
		if err := rows.Scan(&p.Rut, &p.Name, &p.Specialty, &p.Commune); err != nil {
			return nil, fmt.Errorf("scan physician: %w", err)
		}
		physicians = append(physicians, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate physicians: %w", err)
	}

	return physicians, nil
}

// ListCommunes returns the distinct communes ascending.
func (r *PhysicianRepo) ListCommunes(ctx context.Context) ([]string, error) {
	return r.listDistinct(ctx, "comuna")
}

// ListSpecialties returns the distinct specialties ascending.
func (r *PhysicianRepo) ListSpecialties(ctx context.Context) ([]string, error) {
	return r.listDistinct(ctx, "especialidad")
}

func (r *PhysicianRepo) listDistinct(ctx context.Context, column string) ([]string, error) {
	query, args, err := r.db.sb.
		Select(column).
		Distinct().
		From("medico").
		OrderBy(column + " ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build distinct %s: %w", column, err)
	}

	rows, err := r.db.Reader.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list distinct %s: %w", column, err)
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan %s: %w", column, err)
		}
		values = append(values, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", column, err)
	}

	return values, nil
}

// Upsert inserts physicians or replaces the stored fields of existing RUTs.
// All rows share one transaction.
func (r *PhysicianRepo) Upsert(ctx context.Context, physicians ...model.Physician) error {
	if len(physicians) == 0 {
		return nil
	}

	return r.db.withTx(ctx, func(tx *sql.Tx) error {
		for _, p := range physicians {
			query, args, err := r.db.sb.
				Insert("medico").
				Columns("rut", "nombre", "especialidad", "comuna").
				Values(p.Rut, p.Name, p.Specialty, p.Commune).
				Suffix("ON CONFLICT (rut) DO UPDATE SET nombre = excluded.nombre, especialidad = excluded.especialidad, comuna = excluded.comuna").
				ToSql()
			if err != nil {
				return fmt.Errorf("build upsert medico: %w", err)
			}

			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("upsert physician %s: %w", p.Rut, err)
			}
		}
		return nil
	})
}
