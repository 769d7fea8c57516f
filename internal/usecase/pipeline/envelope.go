package pipeline

import (
	"encoding/json"
	"fmt"
	"maps"

	"github.com/andreyxaxa/Image-Ingest/internal/entity"
	"github.com/andreyxaxa/Image-Ingest/pkg/types/errs"
)

// snsNotification is the body SNS writes into a subscribed queue
// when raw message delivery is off.
type snsNotification struct {
	Type              string                         `json:"Type"`
	MessageID         string                         `json:"MessageId"`
	Message           string                         `json:"Message"`
	MessageAttributes map[string]snsMessageAttribute `json:"MessageAttributes"`
}

type snsMessageAttribute struct {
	Type  string `json:"Type"`
	Value string `json:"Value"`
}

type storageRecord struct {
	EventName string `json:"eventName"`
	S3        struct {
		Bucket struct {
			Name string `json:"name"`
		} `json:"bucket"`
		Object struct {
			Key string `json:"key"`
		} `json:"object"`
	} `json:"s3"`
}

type captionPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ParseEnvelopes extracts the envelopes carried by one transport record.
// A recognized payload with nothing to process yields no envelopes and no error.
func ParseEnvelopes(record entity.TransportRecord) ([]entity.Envelope, error) {
	payload := record.Body

	fields, err := decodeObject(payload)
	if err != nil {
		return nil, fmt.Errorf("ParseEnvelopes - decodeObject: %w", err)
	}

	attrs := make(map[string]string, len(record.Attributes))
	maps.Copy(attrs, record.Attributes)

	if _, ok := fields["Message"]; ok {
		var n snsNotification
		if err := json.Unmarshal(payload, &n); err != nil {
			return nil, fmt.Errorf("ParseEnvelopes - json.Unmarshal notification: %v: %w", err, errs.ErrMalformedEnvelope)
		}

		switch n.Type {
		case "SubscriptionConfirmation", "UnsubscribeConfirmation":
			return nil, nil
		}

		for name, attr := range n.MessageAttributes {
			attrs[name] = attr.Value
		}

		payload = []byte(n.Message)
		fields, err = decodeObject(payload)
		if err != nil {
			return nil, fmt.Errorf("ParseEnvelopes - decodeObject message: %w", err)
		}
	}

	if _, ok := attrs[entity.CommentTypeAttribute]; ok {
		var c captionPayload
		if err := json.Unmarshal(payload, &c); err != nil {
			return nil, fmt.Errorf("ParseEnvelopes - json.Unmarshal caption: %v: %w", err, errs.ErrMalformedEnvelope)
		}

		return []entity.Envelope{{
			MessageID:   record.MessageID,
			ObjectKey:   c.Name,
			Description: c.Description,
			Attributes:  attrs,
		}}, nil
	}

	raw, ok := fields["Records"]
	if !ok {
		return nil, nil
	}

	var records []storageRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("ParseEnvelopes - json.Unmarshal records: %v: %w", err, errs.ErrMalformedEnvelope)
	}

	envelopes := make([]entity.Envelope, 0, len(records))
	for _, r := range records {
		envelopes = append(envelopes, entity.Envelope{
			MessageID:  record.MessageID,
			BucketName: r.S3.Bucket.Name,
			ObjectKey:  r.S3.Object.Key,
			EventName:  r.EventName,
			Attributes: attrs,
		})
	}

	return envelopes, nil
}

func decodeObject(b []byte) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return nil, fmt.Errorf("%v: %w", err, errs.ErrMalformedEnvelope)
	}
	if fields == nil {
		return nil, fmt.Errorf("null body: %w", errs.ErrMalformedEnvelope)
	}

	return fields, nil
}
