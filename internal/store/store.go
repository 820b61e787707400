// Package store persists floor plans in SQLite.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/cjeanneret/coverplan/internal/debug"
)

// ErrNotFound is returned for a project that was never saved.
var ErrNotFound = errors.New("project not found")

// schema.sql creates the projects, devices and walls tables.
//
//go:embed schema.sql
var schemaSQL string

// Store is a project database.
type Store struct {
	*sql.DB
	validator *Validator
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// one writer, avoids SQLITE_BUSY between pooled connections
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	v, err := NewValidator()
	if err != nil {
		db.Close()
		return nil, err
	}
	debug.Info("project store ready at %s", path)
	return &Store{DB: db, validator: v}, nil
}

// SaveProject replaces the stored copy of a project.
func (s *Store) SaveProject(ctx context.Context, p Project) error {
	tx, err := s.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save %s: %w", p.Name, err)
	}
	defer tx.Rollback()

	for _, q := range []string{
		`DELETE FROM devices WHERE project = ?`,
		`DELETE FROM walls WHERE project = ?`,
		`DELETE FROM projects WHERE name = ?`,
	} {
		if _, err := tx.ExecContext(ctx, q, p.Name); err != nil {
			return fmt.Errorf("save %s: clear: %w", p.Name, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO projects (name, pixels_per_meter) VALUES (?, ?)`,
		p.Name, p.PixelsPerMeter); err != nil {
		return fmt.Errorf("save %s: %w", p.Name, err)
	}

	for i, d := range p.Devices {
		var cov sql.NullString
		if d.Coverage != nil {
			b, err := json.Marshal(d.Coverage)
			if err != nil {
				return fmt.Errorf("save %s: device %s: %w", p.Name, d.ID, err)
			}
			cov = sql.NullString{String: string(b), Valid: true}
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO devices (project, id, ord, kind, name, x, y, coverage)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			p.Name, d.ID, i, d.Kind, d.Name, d.X, d.Y, cov); err != nil {
			return fmt.Errorf("save %s: device %s: %w", p.Name, d.ID, err)
		}
	}

	for i, w := range p.Walls {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO walls (project, id, ord, ax, ay, bx, by)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			p.Name, w.ID, i, w.A.X, w.A.Y, w.B.X, w.B.Y); err != nil {
			return fmt.Errorf("save %s: wall %s: %w", p.Name, w.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save %s: commit: %w", p.Name, err)
	}
	debug.Live("saved project %s: %d devices, %d walls", p.Name, len(p.Devices), len(p.Walls))
	return nil
}

// LoadProject reads a project. Stored coverage records are validated
// before use.
func (s *Store) LoadProject(ctx context.Context, name string) (Project, error) {
	p := Project{Name: name}
	err := s.QueryRowContext(ctx,
		`SELECT pixels_per_meter FROM projects WHERE name = ?`, name).Scan(&p.PixelsPerMeter)
	if errors.Is(err, sql.ErrNoRows) {
		return Project{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return Project{}, fmt.Errorf("load %s: %w", name, err)
	}

	rows, err := s.QueryContext(ctx, `
		SELECT id, kind, name, x, y, coverage FROM devices
		WHERE project = ? ORDER BY ord`, name)
	if err != nil {
		return Project{}, fmt.Errorf("load %s: devices: %w", name, err)
	}
	defer rows.Close()
	for rows.Next() {
		var d Device
		var cov sql.NullString
		if err := rows.Scan(&d.ID, &d.Kind, &d.Name, &d.X, &d.Y, &cov); err != nil {
			return Project{}, fmt.Errorf("load %s: device: %w", name, err)
		}
		if cov.Valid {
			rec, err := s.validator.DecodeRecord([]byte(cov.String))
			if err != nil {
				return Project{}, fmt.Errorf("load %s: device %s: %w", name, d.ID, err)
			}
			d.Coverage = &rec
		}
		p.Devices = append(p.Devices, d)
	}
	if err := rows.Err(); err != nil {
		return Project{}, fmt.Errorf("load %s: devices: %w", name, err)
	}

	wrows, err := s.QueryContext(ctx, `
		SELECT id, ax, ay, bx, by FROM walls
		WHERE project = ? ORDER BY ord`, name)
	if err != nil {
		return Project{}, fmt.Errorf("load %s: walls: %w", name, err)
	}
	defer wrows.Close()
	for wrows.Next() {
		var w Wall
		if err := wrows.Scan(&w.ID, &w.A.X, &w.A.Y, &w.B.X, &w.B.Y); err != nil {
			return Project{}, fmt.Errorf("load %s: wall: %w", name, err)
		}
		p.Walls = append(p.Walls, w)
	}
	if err := wrows.Err(); err != nil {
		return Project{}, fmt.Errorf("load %s: walls: %w", name, err)
	}

	debug.Live("loaded project %s: %d devices, %d walls", name, len(p.Devices), len(p.Walls))
	return p, nil
}

// ListProjects returns saved project names, sorted.
func (s *Store) ListProjects(ctx context.Context) ([]string, error) {
	rows, err := s.QueryContext(ctx, `SELECT name FROM projects ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("list projects: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// DeleteProject removes a project.
func (s *Store) DeleteProject(ctx context.Context, name string) error {
	res, err := s.ExecContext(ctx, `DELETE FROM projects WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete %s: %w", name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	for _, q := range []string{`DELETE FROM devices WHERE project = ?`, `DELETE FROM walls WHERE project = ?`} {
		if _, err := s.ExecContext(ctx, q, name); err != nil {
			return fmt.Errorf("delete %s: %w", name, err)
		}
	}
	return nil
}

// Validator returns the coverage record validator.
func (s *Store) Validator() *Validator { return s.validator }
