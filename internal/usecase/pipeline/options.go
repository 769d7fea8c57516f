package pipeline

import (
	"time"

	"github.com/andreyxaxa/Image-Ingest/pkg/logger"
)

type options struct {
	callTimeout time.Duration
	logger      logger.Interface
}

type Option func(*options)

func CallTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.callTimeout = timeout
	}
}

func Logger(l logger.Interface) Option {
	return func(o *options) {
		o.logger = l
	}
}
