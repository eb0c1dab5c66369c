package uploads

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// Receipt statuses. Rejected receipts carry the reason in Detail.
const (
	ReceiptAccepted = "accepted"
	ReceiptRejected = "rejected"
)

// Receipt records one upload attempt.
type Receipt struct {
	ID         string    `json:"id"`
	ProjectID  string    `json:"project_id"`
	UserID     string    `json:"user_id"`
	FileName   string    `json:"file_name"`
	SizeBytes  int64     `json:"size_bytes"`
	SHA256     string    `json:"sha256,omitempty"`
	Version    int       `json:"version,omitempty"`
	Status     string    `json:"status"`
	Detail     string    `json:"detail,omitempty"`
	ArchiveKey string    `json:"archive_key,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// ReceiptLog persists receipts.
type ReceiptLog interface {
	Insert(ctx context.Context, r *Receipt) error
	ListByProject(ctx context.Context, projectID string, limit int) ([]Receipt, error)
}

// Schema creates the receipts table.
const Schema = `
create table if not exists upload_receipts (
	id          uuid primary key,
	project_id  text not null,
	user_id     text not null,
	file_name   text not null,
	size_bytes  bigint not null,
	sha256      text,
	version     integer,
	status      text not null,
	detail      text,
	archive_key text,
	created_at  timestamptz not null default now()
);
create index if not exists upload_receipts_project_idx on upload_receipts (project_id, created_at desc);
`

// ReceiptRepository handles PostgreSQL operations for upload receipts
type ReceiptRepository struct {
	db *sql.DB
}

func NewReceiptRepository(db *sql.DB) *ReceiptRepository {
	return &ReceiptRepository{db: db}
}

func (r *ReceiptRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("failed to create upload_receipts: %w", err)
	}
	return nil
}

// Insert stores the receipt, assigning ID and CreatedAt.
func (r *ReceiptRepository) Insert(ctx context.Context, rec *Receipt) error {
	const q = `
insert into upload_receipts (
	id, project_id, user_id, file_name, size_bytes, sha256, version, status, detail, archive_key
)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
returning created_at;
`
	var version sql.NullInt64
	if rec.Version > 0 {
		version = sql.NullInt64{Int64: int64(rec.Version), Valid: true}
	}

	for i := 0; i < 3; i++ {
		id := uuid.New().String()
		err := r.db.QueryRowContext(ctx, q,
			id, rec.ProjectID, rec.UserID, rec.FileName, rec.SizeBytes,
			nullString(rec.SHA256), version, rec.Status, nullString(rec.Detail), nullString(rec.ArchiveKey),
		).Scan(&rec.CreatedAt)
		if err == nil {
			rec.ID = id
			return nil
		}

		// unique violation on id → retry
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			continue
		}
		return fmt.Errorf("failed to insert receipt: %w", err)
	}
	return fmt.Errorf("failed to generate unique receipt id")
}

// ListByProject returns the newest receipts first.
func (r *ReceiptRepository) ListByProject(ctx context.Context, projectID string, limit int) ([]Receipt, error) {
	if limit <= 0 {
		limit = 50
	}
	const q = `
select id, project_id, user_id, file_name, size_bytes, sha256, version, status, detail, archive_key, created_at
from upload_receipts
where project_id = $1
order by created_at desc
limit $2;
`
	rows, err := r.db.QueryContext(ctx, q, projectID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list receipts: %w", err)
	}
	defer rows.Close()

	out := make([]Receipt, 0, 16)
	for rows.Next() {
		var (
			rec                  Receipt
			sum, detail, archive sql.NullString
			version              sql.NullInt64
		)
		if err := rows.Scan(&rec.ID, &rec.ProjectID, &rec.UserID, &rec.FileName, &rec.SizeBytes,
			&sum, &version, &rec.Status, &detail, &archive, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan receipt: %w", err)
		}
		rec.SHA256 = sum.String
		rec.Detail = detail.String
		rec.ArchiveKey = archive.String
		rec.Version = int(version.Int64)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
