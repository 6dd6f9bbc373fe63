package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/stridehq/stride/store"
)

func (d *DB) CreateReminder(ctx context.Context, create *store.Reminder) (*store.Reminder, error) {
	fields := []string{"goal_id", "creator_id", "channel", "cron_expr", "next_run_ts", "is_active"}
	placeholderValues := []any{
		create.GoalID, create.CreatorID, create.Channel,
		create.CronExpr, create.NextRunTs, create.IsActive,
	}

	stmt := `INSERT INTO reminder (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(placeholderValues)) + `)
		RETURNING id, created_ts`

	if err := d.db.QueryRowContext(ctx, stmt, placeholderValues...).Scan(
		&create.ID,
		&create.CreatedTs,
	); err != nil {
		return nil, fmt.Errorf("failed to create reminder: %w", err)
	}

	return create, nil
}

func (d *DB) ListReminders(ctx context.Context, find *store.FindReminder) ([]*store.Reminder, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "reminder.id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.GoalID; v != nil {
		where, args = append(where, "reminder.goal_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.CreatorID; v != nil {
		where, args = append(where, "reminder.creator_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.IsActive; v != nil {
		where, args = append(where, "reminder.is_active = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.DueBefore; v != nil {
		where, args = append(where, "(reminder.next_run_ts IS NULL OR reminder.next_run_ts <= "+placeholder(len(args)+1)+")"), append(args, *v)
	}

	// Due scans want the oldest-due first, never-computed first.
	// SQLite sorts NULLs first on ASC.
	orderBy := "ORDER BY reminder.created_ts DESC, reminder.id DESC"
	if find.DueBefore != nil {
		orderBy = "ORDER BY reminder.next_run_ts ASC, reminder.id ASC"
	}

	query := `
		SELECT id, goal_id, creator_id, created_ts, channel, cron_expr, next_run_ts, is_active
		FROM reminder
		WHERE ` + strings.Join(where, " AND ") + ` ` + orderBy

	if find.Limit != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reminders: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Reminder, 0)
	for rows.Next() {
		reminder := &store.Reminder{}
		if err := rows.Scan(
			&reminder.ID,
			&reminder.GoalID,
			&reminder.CreatorID,
			&reminder.CreatedTs,
			&reminder.Channel,
			&reminder.CronExpr,
			&reminder.NextRunTs,
			&reminder.IsActive,
		); err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		list = append(list, reminder)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reminders: %w", err)
	}

	return list, nil
}

func (d *DB) UpdateReminder(ctx context.Context, update *store.UpdateReminder) error {
	set, args := []string{}, []any{}

	if v := update.CronExpr; v != nil {
		set, args = append(set, "cron_expr = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.NextRunTs; v != nil {
		set, args = append(set, "next_run_ts = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.IsActive; v != nil {
		set, args = append(set, "is_active = "+placeholder(len(args)+1)), append(args, *v)
	}
	if len(set) == 0 {
		return nil
	}

	stmt := `UPDATE reminder SET ` + strings.Join(set, ", ") + ` WHERE id = ` + placeholder(len(args)+1)
	args = append(args, update.ID)

	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("failed to update reminder: %w", err)
	}
	return nil
}

func (d *DB) DeleteReminder(ctx context.Context, delete *store.DeleteReminder) error {
	if _, err := d.db.ExecContext(ctx, `DELETE FROM reminder WHERE id = `+placeholder(1), delete.ID); err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}
	return nil
}

func (d *DB) UpdateReminderNextRuns(ctx context.Context, updates []store.ReminderNextRun) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `UPDATE reminder SET next_run_ts = `+placeholder(1)+` WHERE id = `+placeholder(2))
	if err != nil {
		return fmt.Errorf("failed to prepare next run update: %w", err)
	}
	defer stmt.Close()

	for _, update := range updates {
		if _, err := stmt.ExecContext(ctx, update.NextRunTs, update.ID); err != nil {
			return fmt.Errorf("failed to update next run for reminder %d: %w", update.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit next run updates: %w", err)
	}
	return nil
}
