package webapi

import (
	"bytes"
	"context"
	"fmt"

	"github.com/andreyxaxa/Image-Ingest/internal/entity"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/jhillyerd/enmime"
)

type SESAPI interface {
	SendEmail(ctx context.Context, in *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

type MailSESSender struct {
	client SESAPI
}

func NewMailSESSender(client SESAPI) *MailSESSender {
	return &MailSESSender{client: client}
}

func NewMailSESSenderFromConfig(cfg aws.Config) *MailSESSender {
	return NewMailSESSender(sesv2.NewFromConfig(cfg))
}

func (s *MailSESSender) Send(ctx context.Context, mail entity.Mail) error {
	raw, err := buildRaw(mail)
	if err != nil {
		return fmt.Errorf("MailSESSender - Send - buildRaw: %w", err)
	}

	_, err = s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(mail.From),
		Destination:      &types.Destination{ToAddresses: mail.To},
		Content: &types.EmailContent{
			Raw: &types.RawMessage{Data: raw},
		},
	})
	if err != nil {
		return fmt.Errorf("MailSESSender - Send - s.client.SendEmail: %w", err)
	}

	return nil
}

func buildRaw(mail entity.Mail) ([]byte, error) {
	b := enmime.Builder().
		From("", mail.From).
		Subject(mail.Subject).
		Text([]byte(mail.Body))

	for _, to := range mail.To {
		b = b.To("", to)
	}

	part, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("enmime.Builder.Build: %w", err)
	}

	var buf bytes.Buffer
	if err := part.Encode(&buf); err != nil {
		return nil, fmt.Errorf("part.Encode: %w", err)
	}

	return buf.Bytes(), nil
}
