package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/stridehq/stride/store"
)

func (d *DB) CreateGoal(ctx context.Context, create *store.Goal) (*store.Goal, error) {
	fields := []string{"uid", "creator_id", "title", "description", "status", "priority", "target_ts"}
	placeholderValues := []any{
		create.UID, create.CreatorID, create.Title, create.Description,
		create.Status, create.Priority, create.TargetTs,
	}

	stmt := `INSERT INTO goal (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(placeholderValues)) + `)
		RETURNING id, created_ts, updated_ts`

	if err := d.db.QueryRowContext(ctx, stmt, placeholderValues...).Scan(
		&create.ID,
		&create.CreatedTs,
		&create.UpdatedTs,
	); err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	return create, nil
}

// goalFilter builds the shared WHERE clause for ListGoals and CountGoals.
// Keeping it in one place guarantees the page count and the page rows are
// computed over the same row set.
func goalFilter(find *store.FindGoal) ([]string, []any) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "goal.id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.UID; v != nil {
		where, args = append(where, "goal.uid = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.CreatorID; v != nil {
		where, args = append(where, "goal.creator_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Search; v != nil {
		pattern := "%" + *v + "%"
		where = append(where, "(LOWER(goal.title) LIKE "+placeholder(len(args)+1)+" OR LOWER(goal.description) LIKE "+placeholder(len(args)+2)+")")
		args = append(args, pattern, pattern)
	}
	if v := find.Status; v != nil {
		where, args = append(where, "goal.status = "+placeholder(len(args)+1)), append(args, string(*v))
	}
	if v := find.Priority; v != nil {
		where, args = append(where, "goal.priority = "+placeholder(len(args)+1)), append(args, string(*v))
	}

	return where, args
}

func (d *DB) ListGoals(ctx context.Context, find *store.FindGoal) ([]*store.Goal, error) {
	where, args := goalFilter(find)

	query := `
		SELECT
			id, uid, creator_id, created_ts, updated_ts,
			title, description, status, priority, target_ts
		FROM goal
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY goal.created_ts DESC, goal.id DESC`

	if find.Limit != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *find.Limit)
		if find.Offset != nil {
			query = fmt.Sprintf("%s OFFSET %d", query, *find.Offset)
		}
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query goals: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Goal, 0)
	for rows.Next() {
		goal := &store.Goal{}
		if err := rows.Scan(
			&goal.ID,
			&goal.UID,
			&goal.CreatorID,
			&goal.CreatedTs,
			&goal.UpdatedTs,
			&goal.Title,
			&goal.Description,
			&goal.Status,
			&goal.Priority,
			&goal.TargetTs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		list = append(list, goal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate goals: %w", err)
	}

	return list, nil
}

func (d *DB) CountGoals(ctx context.Context, find *store.FindGoal) (int64, error) {
	where, args := goalFilter(find)

	query := `SELECT COUNT(*) FROM goal WHERE ` + strings.Join(where, " AND ")

	var count int64
	if err := d.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count goals: %w", err)
	}
	return count, nil
}

func (d *DB) UpdateGoal(ctx context.Context, update *store.UpdateGoal) error {
	set, args := []string{}, []any{}

	if v := update.UpdatedTs; v != nil {
		set, args = append(set, "updated_ts = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Title; v != nil {
		set, args = append(set, "title = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Description; v != nil {
		set, args = append(set, "description = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Status; v != nil {
		set, args = append(set, "status = "+placeholder(len(args)+1)), append(args, string(*v))
	}
	if v := update.Priority; v != nil {
		set, args = append(set, "priority = "+placeholder(len(args)+1)), append(args, string(*v))
	}
	if v := update.TargetTs; v != nil {
		set, args = append(set, "target_ts = "+placeholder(len(args)+1)), append(args, *v)
	}
	if len(set) == 0 {
		return nil
	}

	stmt := `UPDATE goal SET ` + strings.Join(set, ", ") + ` WHERE id = ` + placeholder(len(args)+1)
	args = append(args, update.ID)

	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("failed to update goal: %w", err)
	}
	return nil
}

func (d *DB) DeleteGoal(ctx context.Context, delete *store.DeleteGoal) error {
	if _, err := d.db.ExecContext(ctx, `DELETE FROM goal WHERE id = `+placeholder(1), delete.ID); err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	return nil
}
