package persistent

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/andreyxaxa/Image-Ingest/internal/entity"
	"github.com/andreyxaxa/Image-Ingest/pkg/postgres"
	"github.com/andreyxaxa/Image-Ingest/pkg/types/errs"
	"github.com/jackc/pgx/v5"
)

const (
	// Table
	imagesTable = "images"

	// Columns
	fileNameColumn    = "file_name"
	descriptionColumn = "description"
)

type ImageRecordPostgresRepo struct {
	db      postgres.Executor
	builder squirrel.StatementBuilderType
}

func NewImageRecordPostgresRepo(pg *postgres.Postgres) *ImageRecordPostgresRepo {
	return &ImageRecordPostgresRepo{db: pg.Pool, builder: pg.Builder}
}

// Put inserts the record or replaces an existing one, clearing its description.
func (r *ImageRecordPostgresRepo) Put(ctx context.Context, record entity.ImageRecord) error {
	sql, args, err := r.builder.
		Insert(imagesTable).
		Columns(fileNameColumn, descriptionColumn).
		Values(record.FileName, record.Description).
		Suffix("ON CONFLICT (" + fileNameColumn + ") DO UPDATE SET " + descriptionColumn + " = EXCLUDED." + descriptionColumn).
		ToSql()
	if err != nil {
		return fmt.Errorf("ImageRecordPostgresRepo - Put - r.builder.ToSql: %w", err)
	}

	if _, err = r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("ImageRecordPostgresRepo - Put - r.db.Exec: %v: %w", err, errs.ErrTableOperation)
	}

	return nil
}

func (r *ImageRecordPostgresRepo) Delete(ctx context.Context, fileName string) error {
	sql, args, err := r.builder.
		Delete(imagesTable).
		Where(squirrel.Eq{fileNameColumn: fileName}).
		ToSql()
	if err != nil {
		return fmt.Errorf("ImageRecordPostgresRepo - Delete - r.builder.ToSql: %w", err)
	}

	if _, err = r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("ImageRecordPostgresRepo - Delete - r.db.Exec: %v: %w", err, errs.ErrTableOperation)
	}

	return nil
}

func (r *ImageRecordPostgresRepo) Get(ctx context.Context, fileName string) (*entity.ImageRecord, error) {
	sql, args, err := r.builder.
		Select(fileNameColumn, descriptionColumn).
		From(imagesTable).
		Where(squirrel.Eq{fileNameColumn: fileName}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ImageRecordPostgresRepo - Get - r.builder.ToSql: %w", err)
	}

	var record entity.ImageRecord
	err = r.db.QueryRow(ctx, sql, args...).Scan(&record.FileName, &record.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("ImageRecordPostgresRepo - Get - %q: %w", fileName, errs.ErrRecordNotFound)
		}

		return nil, fmt.Errorf("ImageRecordPostgresRepo - Get - r.db.QueryRow: %v: %w", err, errs.ErrTableOperation)
	}

	return &record, nil
}

// UpdateDescription never creates a row.
func (r *ImageRecordPostgresRepo) UpdateDescription(ctx context.Context, fileName, description string) error {
	sql, args, err := r.builder.
		Update(imagesTable).
		Set(descriptionColumn, description).
		Where(squirrel.Eq{fileNameColumn: fileName}).
		ToSql()
	if err != nil {
		return fmt.Errorf("ImageRecordPostgresRepo - UpdateDescription - r.builder.ToSql: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("ImageRecordPostgresRepo - UpdateDescription - r.db.Exec: %v: %w", err, errs.ErrTableOperation)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("ImageRecordPostgresRepo - UpdateDescription - %q: %w", fileName, errs.ErrRecordNotFound)
	}

	return nil
}
