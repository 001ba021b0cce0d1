package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dgs-kpis/fmd-dashboard/internal/models"
)

// sqlTimeFormat is the canonical datetime layout stored in the cache.
const sqlTimeFormat = "2006-01-02 15:04:05"

// ReplaceWorkOrders swaps the cached snapshot for a freshly cleaned one in
// a single transaction.
func (db *DB) ReplaceWorkOrders(orders []models.WorkOrder) error {
	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM work_orders"); err != nil {
		return fmt.Errorf("failed to clear work orders: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO work_orders (
			wo_id, prob_type, bl_id, completed_by, date_requested,
			date_completed, time_start, time_end, time_completed,
			fiscal_year_requested, fiscal_year_completed
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range orders {
		wo := &orders[i]

		var completed, fyCompleted any
		if wo.DateCompleted != nil {
			completed = wo.DateCompleted.Format(sqlTimeFormat)
			fyCompleted = wo.FiscalYearCompleted
		}

		if _, err := stmt.Exec(
			wo.ID,
			wo.ProbType,
			wo.BuildingID,
			wo.CompletedBy,
			wo.DateRequested.Format(sqlTimeFormat),
			completed,
			nullString(wo.TimeStart),
			nullString(wo.TimeEnd),
			nullString(wo.TimeCompleted),
			wo.FiscalYearRequested,
			fyCompleted,
		); err != nil {
			return fmt.Errorf("failed to insert work order %s: %w", wo.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit work orders: %w", err)
	}
	return nil
}

// GetWorkOrders returns all cached work orders sorted by requested date.
func (db *DB) GetWorkOrders() ([]models.WorkOrder, error) {
	query := `
		SELECT wo_id, prob_type, bl_id, completed_by, date_requested,
			   date_completed, time_start, time_end, time_completed,
			   fiscal_year_requested, fiscal_year_completed
		FROM work_orders
		ORDER BY date_requested ASC
	`

	rows, err := db.QueryContext(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("failed to query work orders: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var orders []models.WorkOrder
	for rows.Next() {
		var wo models.WorkOrder
		var requested string
		var completed, timeStart, timeEnd, timeCompleted sql.NullString
		var fyCompleted sql.NullInt64

		err := rows.Scan(
			&wo.ID,
			&wo.ProbType,
			&wo.BuildingID,
			&wo.CompletedBy,
			&requested,
			&completed,
			&timeStart,
			&timeEnd,
			&timeCompleted,
			&wo.FiscalYearRequested,
			&fyCompleted,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan work order: %w", err)
		}

		wo.DateRequested, err = time.Parse(sqlTimeFormat, requested)
		if err != nil {
			return nil, fmt.Errorf("failed to parse requested date %q: %w", requested, err)
		}
		if completed.Valid {
			t, err := time.Parse(sqlTimeFormat, completed.String)
			if err != nil {
				return nil, fmt.Errorf("failed to parse completed date %q: %w", completed.String, err)
			}
			wo.DateCompleted = &t
		}
		wo.TimeStart = timeStart.String
		wo.TimeEnd = timeEnd.String
		wo.TimeCompleted = timeCompleted.String
		wo.FiscalYearCompleted = int(fyCompleted.Int64)

		orders = append(orders, wo)
	}

	return orders, rows.Err()
}

// CountWorkOrders returns the number of cached work orders.
func (db *DB) CountWorkOrders() (int, error) {
	var count int
	err := db.QueryRowContext(context.Background(),
		"SELECT COUNT(*) FROM work_orders").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count work orders: %w", err)
	}
	return count, nil
}

// GetFiscalYearVolumes returns request counts grouped by fiscal year,
// ascending.
func (db *DB) GetFiscalYearVolumes() ([]models.FiscalYearVolume, error) {
	query := `
		SELECT fiscal_year_requested, COUNT(*) as total
		FROM work_orders
		GROUP BY fiscal_year_requested
		ORDER BY fiscal_year_requested ASC
	`

	rows, err := db.QueryContext(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("failed to query fiscal year volumes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var volumes []models.FiscalYearVolume
	for rows.Next() {
		var v models.FiscalYearVolume
		if err := rows.Scan(&v.FiscalYear, &v.Count); err != nil {
			return nil, fmt.Errorf("failed to scan fiscal year volume: %w", err)
		}
		volumes = append(volumes, v)
	}

	return volumes, rows.Err()
}

// InsertFetchSnapshot records one catalog fetch.
func (db *DB) InsertFetchSnapshot(snap *models.FetchSnapshot) error {
	fetchedAt := snap.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now().UTC()
	}

	result, err := db.ExecContext(context.Background(), `
		INSERT INTO fetch_snapshots (fetched_at, row_count, open_count, dataset, table_name)
		VALUES (?, ?, ?, ?, ?)
	`,
		fetchedAt.Format(sqlTimeFormat),
		snap.RowCount,
		snap.OpenCount,
		snap.Dataset,
		snap.Table,
	)
	if err != nil {
		return fmt.Errorf("failed to insert fetch snapshot: %w", err)
	}

	if id, err := result.LastInsertId(); err == nil {
		snap.ID = id
	}
	return nil
}

// GetFetchSnapshots returns the most recent fetch snapshots, newest first.
func (db *DB) GetFetchSnapshots(limit int) ([]models.FetchSnapshot, error) {
	query := `
		SELECT id, fetched_at, row_count, open_count, dataset, table_name
		FROM fetch_snapshots
		ORDER BY fetched_at DESC, id DESC
		LIMIT ?
	`

	rows, err := db.QueryContext(context.Background(), query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query fetch snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var snaps []models.FetchSnapshot
	for rows.Next() {
		var snap models.FetchSnapshot
		var fetchedAt string

		if err := rows.Scan(&snap.ID, &fetchedAt, &snap.RowCount, &snap.OpenCount,
			&snap.Dataset, &snap.Table); err != nil {
			return nil, fmt.Errorf("failed to scan fetch snapshot: %w", err)
		}

		snap.FetchedAt, err = time.Parse(sqlTimeFormat, fetchedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse fetch time %q: %w", fetchedAt, err)
		}
		snaps = append(snaps, snap)
	}

	return snaps, rows.Err()
}

// nullString converts empty strings to NULL for insertion.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
