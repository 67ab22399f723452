package mysql

import (
	"context"
	"database/sql"

	"tripchat/internal/domain"
)

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func keyColumns(key domain.UserKey) (kind, subject string) {
	if key.Anonymous() {
		return "anon", ""
	}
	return "user", key.ID()
}

// FindOrCreate returns the conversation id for the identity, creating the
// row on first contact. The upsert keeps it race-safe under concurrent
// first turns.
func (r *Repo) FindOrCreate(ctx context.Context, key domain.UserKey) (int64, error) {
	kind, subject := keyColumns(key)

	res, err := r.db.ExecContext(ctx, insertConversationSQL, kind, subject)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err == nil && id > 0 {
		return id, nil
	}

	// Some drivers return 0 on the duplicate path; fall back to a read.
	row := r.db.QueryRowContext(ctx, selectConversationSQL, kind, subject)
	if err := row.Scan(&id); err != nil {
		if err == sql.ErrNoRows {
			return 0, domain.ErrNotFound
		}
		return 0, err
	}
	return id, nil
}

func (r *Repo) Append(ctx context.Context, conversationID int64, role domain.Role, content string) error {
	_, err := r.db.ExecContext(ctx, insertMessageSQL, conversationID, string(role), content)
	return err
}

// ListMessages returns the identity's full message log in insertion order.
// An identity with no conversation yet yields an empty slice.
func (r *Repo) ListMessages(ctx context.Context, key domain.UserKey) ([]domain.Message, error) {
	kind, subject := keyColumns(key)

	rows, err := r.db.QueryContext(ctx, listMessagesSQL, kind, subject)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Message
	for rows.Next() {
		var m domain.Message
		var role string
		if err := rows.Scan(&role, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.Role = domain.Role(role)
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
