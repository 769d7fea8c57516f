package repo

import (
	"context"

	"github.com/andreyxaxa/Image-Ingest/internal/entity"
)

type (
	ImageRecordRepo interface {
		Put(ctx context.Context, record entity.ImageRecord) error
		Delete(ctx context.Context, fileName string) error
		Get(ctx context.Context, fileName string) (*entity.ImageRecord, error)
		UpdateDescription(ctx context.Context, fileName, description string) error
	}

	ObjectRepo interface {
		DownloadBytes(ctx context.Context, bucket, key string) ([]byte, error)
	}

	MailSender interface {
		Send(ctx context.Context, mail entity.Mail) error
	}
)
