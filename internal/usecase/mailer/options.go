package mailer

import (
	"time"

	"github.com/andreyxaxa/Image-Ingest/pkg/logger"
)

type Option func(*MailerUseCase)

func SendTimeout(timeout time.Duration) Option {
	return func(uc *MailerUseCase) {
		if timeout > 0 {
			uc.sendTimeout = timeout
		}
	}
}

func Logger(l logger.Interface) Option {
	return func(uc *MailerUseCase) {
		uc.logger = l
	}
}
