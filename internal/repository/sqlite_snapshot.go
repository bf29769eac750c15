package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/sitetrack/internal/db"
	"github.com/alexanderramin/sitetrack/internal/domain"
)

const selectedSiteKey = "selected_site_id"

// SQLiteSnapshotRepo implements SnapshotRepo over normalised SQLite tables.
type SQLiteSnapshotRepo struct {
	conn db.DBTX
	uow  db.UnitOfWork
}

// NewSQLiteSnapshotRepo reads through conn and writes inside uow.
func NewSQLiteSnapshotRepo(conn db.DBTX, uow db.UnitOfWork) *SQLiteSnapshotRepo {
	return &SQLiteSnapshotRepo{conn: conn, uow: uow}
}

func (r *SQLiteSnapshotRepo) Load(ctx context.Context) (*domain.Snapshot, error) {
	snap := domain.NewSnapshot()

	sites, err := r.loadSites(ctx)
	if err != nil {
		return nil, err
	}
	snap.Sites = sites

	for _, level := range []domain.NodeLevel{domain.LevelPhase, domain.LevelSection, domain.LevelSubsection} {
		nodes, err := r.loadNodes(ctx, level)
		if err != nil {
			return nil, err
		}
		switch level {
		case domain.LevelPhase:
			snap.Phases = nodes
		case domain.LevelSection:
			snap.Sections = nodes
		case domain.LevelSubsection:
			snap.Subsections = nodes
		}
	}

	tasks, err := r.loadTasks(ctx)
	if err != nil {
		return nil, err
	}
	snap.Tasks = tasks

	var selected string
	err = r.conn.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, selectedSiteKey).Scan(&selected)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("loading selected site: %w", err)
	}
	snap.SelectedSiteID = selected

	if snap.IsEmpty() && err == sql.ErrNoRows {
		return nil, nil
	}
	return snap, nil
}

func (r *SQLiteSnapshotRepo) loadSites(ctx context.Context) ([]*domain.Site, error) {
	rows, err := r.conn.QueryContext(ctx, `SELECT id, name, created_at FROM sites ORDER BY ordinal`)
	if err != nil {
		return nil, fmt.Errorf("listing sites: %w", err)
	}
	defer rows.Close()

	sites := []*domain.Site{}
	for rows.Next() {
		var s domain.Site
		var createdAt string
		if err := rows.Scan(&s.ID, &s.Name, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning site: %w", err)
		}
		if s.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("site %s: %w", s.ID, err)
		}
		sites = append(sites, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sites: %w", err)
	}
	return sites, nil
}

func (r *SQLiteSnapshotRepo) loadNodes(ctx context.Context, level domain.NodeLevel) ([]*domain.HierarchyNode, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT id, site_id, parent_id, name, created_at FROM hierarchy_nodes WHERE level = ? ORDER BY ordinal`,
		string(level))
	if err != nil {
		return nil, fmt.Errorf("listing %s nodes: %w", level, err)
	}
	defer rows.Close()

	nodes := []*domain.HierarchyNode{}
	for rows.Next() {
		n := domain.HierarchyNode{Level: level}
		var createdAt string
		if err := rows.Scan(&n.ID, &n.SiteID, &n.ParentID, &n.Name, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", level, err)
		}
		if n.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("%s %s: %w", level, n.ID, err)
		}
		nodes = append(nodes, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s nodes: %w", level, err)
	}
	return nodes, nil
}

func (r *SQLiteSnapshotRepo) loadTasks(ctx context.Context) ([]*domain.Task, error) {
	rows, err := r.conn.QueryContext(ctx, `SELECT id, site_id, name, phase_id, section_id, subsection_id,
		due_date, end_date, actual_start_date, actual_end_date, progress, dependent_on_task_id, created_at
		FROM tasks ORDER BY ordinal`)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	tasks := []*domain.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return tasks, nil
}

func scanTask(rows *sql.Rows) (*domain.Task, error) {
	var t domain.Task
	var due, end, createdAt string
	var actualStart, actualEnd sql.NullString
	err := rows.Scan(&t.ID, &t.SiteID, &t.Name, &t.PhaseID, &t.SectionID, &t.SubsectionID,
		&due, &end, &actualStart, &actualEnd, &t.Progress, &t.DependentOnTaskID, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("scanning task: %w", err)
	}
	if t.DueDate, err = parseTime(due); err != nil {
		return nil, fmt.Errorf("task %s due date: %w", t.ID, err)
	}
	if t.EndDate, err = parseTime(end); err != nil {
		return nil, fmt.Errorf("task %s end date: %w", t.ID, err)
	}
	if t.ActualStartDate, err = parseNullableTime(actualStart); err != nil {
		return nil, fmt.Errorf("task %s actual start: %w", t.ID, err)
	}
	if t.ActualEndDate, err = parseNullableTime(actualEnd); err != nil {
		return nil, fmt.Errorf("task %s actual end: %w", t.ID, err)
	}
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("task %s created at: %w", t.ID, err)
	}
	return &t, nil
}

// Save replaces every stored row with the contents of snap in a single
// transaction.
func (r *SQLiteSnapshotRepo) Save(ctx context.Context, snap *domain.Snapshot) error {
	return r.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		for _, table := range []string{"tasks", "hierarchy_nodes", "sites", "settings"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("clearing %s: %w", table, err)
			}
		}

		for i, s := range snap.Sites {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO sites (id, ordinal, name, created_at) VALUES (?, ?, ?, ?)`,
				s.ID, i, s.Name, formatTime(s.CreatedAt))
			if err != nil {
				return fmt.Errorf("inserting site: %w", err)
			}
		}

		for _, level := range []domain.NodeLevel{domain.LevelPhase, domain.LevelSection, domain.LevelSubsection} {
			for i, n := range snap.Nodes(level) {
				_, err := tx.ExecContext(ctx,
					`INSERT INTO hierarchy_nodes (id, level, ordinal, site_id, parent_id, name, created_at)
					VALUES (?, ?, ?, ?, ?, ?, ?)`,
					n.ID, string(level), i, n.SiteID, n.ParentID, n.Name, formatTime(n.CreatedAt))
				if err != nil {
					return fmt.Errorf("inserting %s: %w", level, err)
				}
			}
		}

		for i, t := range snap.Tasks {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO tasks (id, ordinal, site_id, name, phase_id, section_id, subsection_id,
					due_date, end_date, actual_start_date, actual_end_date, progress, dependent_on_task_id, created_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				t.ID, i, t.SiteID, t.Name, t.PhaseID, t.SectionID, t.SubsectionID,
				formatTime(t.DueDate), formatTime(t.EndDate),
				nullableTimeToString(t.ActualStartDate), nullableTimeToString(t.ActualEndDate),
				t.Progress, t.DependentOnTaskID, formatTime(t.CreatedAt))
			if err != nil {
				return fmt.Errorf("inserting task: %w", err)
			}
		}

		_, err := tx.ExecContext(ctx,
			`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)`,
			selectedSiteKey, snap.SelectedSiteID, nowUTC())
		if err != nil {
			return fmt.Errorf("saving selected site: %w", err)
		}
		return nil
	})
}
