package workspace

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	models "scribe/internal/domain/models/workspace"
	wsRepo "scribe/internal/domain/repositories/workspace"
	"scribe/internal/repository/postgres"
)

// PostgresAttachmentRepository implements AttachmentRepository over the
// shared attachments table.
type PostgresAttachmentRepository struct {
	pool   *pgxpool.Pool
	table  string
	logger *slog.Logger
}

// NewAttachmentRepository creates a new attachment repository
func NewAttachmentRepository(config *postgres.RepositoryConfig) wsRepo.AttachmentRepository {
	return &PostgresAttachmentRepository{
		pool:   config.Pool,
		table:  config.Tables.Attachments,
		logger: config.Logger,
	}
}

// Create inserts an attachment row
func (r *PostgresAttachmentRepository) Create(ctx context.Context, attachment *models.Attachment) error {
	if attachment.ID == "" {
		attachment.ID = uuid.NewString()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, resource_id, resource_kind, object_key, size_bytes, content_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, r.table)

	executor := postgres.GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		attachment.ID,
		attachment.ResourceID,
		attachment.ResourceKind,
		attachment.ObjectKey,
		attachment.SizeBytes,
		attachment.ContentType,
		attachment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create attachment: %w", err)
	}

	return nil
}

// ListByResource returns all attachments of a resource
func (r *PostgresAttachmentRepository) ListByResource(ctx context.Context, kind, resourceID string) ([]models.Attachment, error) {
	query := fmt.Sprintf(`
		SELECT id, resource_id, resource_kind, object_key, size_bytes, content_type, created_at
		FROM %s
		WHERE resource_kind = $1 AND resource_id = $2
		ORDER BY created_at ASC
	`, r.table)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, kind, resourceID)
	if err != nil {
		return nil, fmt.Errorf("list attachments: %w", err)
	}
	defer rows.Close()

	var attachments []models.Attachment
	for rows.Next() {
		var a models.Attachment
		err := rows.Scan(
			&a.ID,
			&a.ResourceID,
			&a.ResourceKind,
			&a.ObjectKey,
			&a.SizeBytes,
			&a.ContentType,
			&a.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan attachment: %w", err)
		}
		attachments = append(attachments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attachments: %w", err)
	}

	return attachments, nil
}

// DeleteByResource removes all attachment rows of a resource
func (r *PostgresAttachmentRepository) DeleteByResource(ctx context.Context, kind, resourceID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE resource_kind = $1 AND resource_id = $2`, r.table)

	executor := postgres.GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, kind, resourceID); err != nil {
		return fmt.Errorf("delete attachments: %w", err)
	}

	return nil
}
