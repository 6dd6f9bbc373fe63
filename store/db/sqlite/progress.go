package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/stridehq/stride/store"
)

func (d *DB) CreateProgressEntry(ctx context.Context, create *store.ProgressEntry) (*store.ProgressEntry, error) {
	fields := []string{"uid", "goal_id", "creator_id", "note", "value"}
	placeholderValues := []any{create.UID, create.GoalID, create.CreatorID, create.Note, create.Value}

	stmt := `INSERT INTO progress_entry (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(placeholderValues)) + `)
		RETURNING id, created_ts`

	if err := d.db.QueryRowContext(ctx, stmt, placeholderValues...).Scan(
		&create.ID,
		&create.CreatedTs,
	); err != nil {
		return nil, fmt.Errorf("failed to create progress entry: %w", err)
	}

	return create, nil
}

func (d *DB) ListProgressEntries(ctx context.Context, find *store.FindProgressEntry) ([]*store.ProgressEntry, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "progress_entry.id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.GoalID; v != nil {
		where, args = append(where, "progress_entry.goal_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.CreatorID; v != nil {
		where, args = append(where, "progress_entry.creator_id = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `
		SELECT id, uid, goal_id, creator_id, created_ts, note, value
		FROM progress_entry
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY progress_entry.created_ts DESC, progress_entry.id DESC`

	if find.Limit != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *find.Limit)
		if find.Offset != nil {
			query = fmt.Sprintf("%s OFFSET %d", query, *find.Offset)
		}
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query progress entries: %w", err)
	}
	defer rows.Close()

	list := make([]*store.ProgressEntry, 0)
	for rows.Next() {
		entry := &store.ProgressEntry{}
		if err := rows.Scan(
			&entry.ID,
			&entry.UID,
			&entry.GoalID,
			&entry.CreatorID,
			&entry.CreatedTs,
			&entry.Note,
			&entry.Value,
		); err != nil {
			return nil, fmt.Errorf("failed to scan progress entry: %w", err)
		}
		list = append(list, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate progress entries: %w", err)
	}

	return list, nil
}
