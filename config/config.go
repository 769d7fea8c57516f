package config

import (
	"fmt"
	"slices"
	"time"

	"github.com/caarlos0/env/v11"
)

type (
	Config struct {
		Log      Log
		AWS      AWS
		Table    Table
		Pipeline Pipeline
		SQS      SQS
		Kafka    Kafka
		Mail     Mail
		HTTP     HTTP
		PG       PG
		Lambda   Lambda
	}

	Log struct {
		Level string `env:"LOG_LEVEL,required"`
	}

	AWS struct {
		Region         string        `env:"REGION,required"`
		Endpoint       string        `env:"AWS_ENDPOINT_URL"`
		AccessKey      string        `env:"AWS_STATIC_ACCESS_KEY"`
		SecretKey      string        `env:"AWS_STATIC_SECRET_KEY"`
		S3UsePathStyle bool          `env:"S3_USE_PATH_STYLE" envDefault:"false"`
		S3PingBucket   string        `env:"S3_PING_BUCKET"`
		CfgLoadTimeout time.Duration `env:"AWS_LOAD_CFG_TIMEOUT" envDefault:"10s"`
	}

	Table struct {
		Name   string `env:"TABLE_NAME,required"`
		Driver string `env:"TABLE_DRIVER" envDefault:"dynamodb"` // dynamodb, postgres
	}

	Pipeline struct {
		FailurePolicy  string        `env:"PIPELINE_FAILURE_POLICY" envDefault:"batch"` // batch, record
		CreateEvents   []string      `env:"PIPELINE_CREATE_EVENTS" envDefault:"ObjectCreated:Put"`
		FetchObjects   bool          `env:"PIPELINE_FETCH_OBJECTS" envDefault:"true"`
		CallTimeout    time.Duration `env:"PIPELINE_CALL_TIMEOUT" envDefault:"5s"`  // один вызов таблицы / хранилища
		ProcessTimeout time.Duration `env:"PIPELINE_PROCESS_TIMEOUT" envDefault:"25s"` // весь батч
	}

	SQS struct {
		CreateQueueURL    string        `env:"SQS_CREATE_QUEUE_URL"`
		TableQueueURL     string        `env:"SQS_TABLE_QUEUE_URL"`
		ConfirmQueueURL   string        `env:"SQS_CONFIRM_QUEUE_URL"`
		RejectQueueURL    string        `env:"SQS_REJECT_QUEUE_URL"`
		MaxMessages       int32         `env:"SQS_MAX_MESSAGES" envDefault:"5"`
		WaitTime          time.Duration `env:"SQS_WAIT_TIME" envDefault:"10s"`
		VisibilityTimeout time.Duration `env:"SQS_VISIBILITY_TIMEOUT" envDefault:"30s"`
		Pollers           int           `env:"SQS_POLLERS" envDefault:"1"`
		DeleteTimeout     time.Duration `env:"SQS_DELETE_TIMEOUT" envDefault:"5s"`
		ShutdownTimeout   time.Duration `env:"SQS_SHUTDOWN_TIMEOUT" envDefault:"15s"`
	}

	Kafka struct {
		Brokers         []string      `env:"KAFKA_BROKERS"`
		GroupID         string        `env:"KAFKA_GROUP_ID" envDefault:"image-ingest"`
		Topic           string        `env:"KAFKA_TOPIC" envDefault:"bucket-notifications"`
		Route           string        `env:"KAFKA_ROUTE" envDefault:"all"`         // create, delete, update, table, all, confirm, reject
		DLQTopic        string        `env:"KAFKA_DLQ_TOPIC"`
		Workers         int           `env:"KAFKA_WORKERS" envDefault:"1"`
		CommitTimeout   time.Duration `env:"KAFKA_COMMIT_TIMEOUT" envDefault:"2s"`
		ShutdownTimeout time.Duration `env:"KAFKA_SHUTDOWN_TIMEOUT" envDefault:"5s"`
	}

	Mail struct {
		From        string        `env:"MAIL_FROM"`
		To          []string      `env:"MAIL_TO"`
		SendTimeout time.Duration `env:"MAIL_SEND_TIMEOUT" envDefault:"5s"`
	}

	HTTP struct {
		Enabled bool   `env:"HTTP_ENABLED" envDefault:"true"`
		Port    string `env:"HTTP_PORT" envDefault:"8080"`
	}

	PG struct {
		PoolMax int    `env:"PG_POOL_MAX" envDefault:"2"`
		URL     string `env:"PG_URL"`
	}

	Lambda struct {
		Handler string `env:"LAMBDA_HANDLER" envDefault:"create"`
	}
)

var (
	tableDrivers    = []string{"dynamodb", "postgres"}
	failurePolicies = []string{"batch", "record"}
	routes          = []string{"create", "delete", "update", "table", "all"}
	mailerRoutes    = []string{"confirm", "reject"}
	lambdaHandlers  = []string{"create", "delete", "update", "table", "confirm", "reject"}
)

func New() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if !slices.Contains(tableDrivers, c.Table.Driver) {
		return fmt.Errorf("TABLE_DRIVER: unknown driver %q", c.Table.Driver)
	}

	if c.Table.Driver == "postgres" && c.PG.URL == "" {
		return fmt.Errorf("PG_URL: required with TABLE_DRIVER=postgres")
	}

	if !slices.Contains(failurePolicies, c.Pipeline.FailurePolicy) {
		return fmt.Errorf("PIPELINE_FAILURE_POLICY: unknown policy %q", c.Pipeline.FailurePolicy)
	}

	if !slices.Contains(routes, c.Kafka.Route) && !slices.Contains(mailerRoutes, c.Kafka.Route) {
		return fmt.Errorf("KAFKA_ROUTE: unknown route %q", c.Kafka.Route)
	}

	if !slices.Contains(lambdaHandlers, c.Lambda.Handler) {
		return fmt.Errorf("LAMBDA_HANDLER: unknown handler %q", c.Lambda.Handler)
	}

	mailConsumers := c.SQS.ConfirmQueueURL != "" || c.SQS.RejectQueueURL != "" ||
		slices.Contains(mailerRoutes, c.Lambda.Handler) ||
		(len(c.Kafka.Brokers) > 0 && slices.Contains(mailerRoutes, c.Kafka.Route))
	if mailConsumers && (c.Mail.From == "" || len(c.Mail.To) == 0) {
		return fmt.Errorf("MAIL_FROM, MAIL_TO: required when a mailer is enabled")
	}

	if c.SQS.MaxMessages < 1 || c.SQS.MaxMessages > 10 {
		return fmt.Errorf("SQS_MAX_MESSAGES: must be between 1 and 10, got %d", c.SQS.MaxMessages)
	}

	return nil
}
