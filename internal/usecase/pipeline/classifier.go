package pipeline

import (
	"slices"
	"strings"

	"github.com/andreyxaxa/Image-Ingest/internal/entity"
)

const (
	EventObjectCreatedPut = "ObjectCreated:Put"
	EventObjectRemoved    = "ObjectRemoved:Delete"
)

type Classifier struct {
	createEvents []string
}

// NewClassifier accepts the event subtypes treated as a create.
// With none given only ObjectCreated:Put is accepted.
func NewClassifier(createEvents ...string) *Classifier {
	events := make([]string, 0, len(createEvents))
	for _, e := range createEvents {
		if e = eventType(e); e != "" {
			events = append(events, e)
		}
	}
	if len(events) == 0 {
		events = []string{EventObjectCreatedPut}
	}

	return &Classifier{createEvents: events}
}

// Classify maps an envelope onto exactly one kind. Rows are checked in order.
func (c *Classifier) Classify(env entity.Envelope) entity.Classification {
	if commentType, ok := env.Attributes[entity.CommentTypeAttribute]; ok {
		if commentType == entity.CaptionCommentType {
			return entity.Classification{Kind: entity.KindCaptionUpdate}
		}

		return entity.Classification{Kind: entity.KindGenericUpdate}
	}

	name := eventType(env.EventName)

	if name == EventObjectRemoved {
		return entity.Classification{Kind: entity.KindDelete}
	}

	if slices.Contains(c.createEvents, name) {
		return entity.Classification{Kind: entity.KindCreate}
	}

	if strings.HasPrefix(name, "ObjectCreated:") || strings.HasPrefix(name, "ObjectRemoved:") {
		return entity.Classification{Kind: entity.KindRejected, Reason: entity.ReasonUnsupportedSubtype}
	}

	return entity.Classification{Kind: entity.KindRejected, Reason: entity.ReasonUnclassified}
}

// eventType drops the "s3:" prefix some producers put on event names.
func eventType(name string) string {
	return strings.TrimPrefix(strings.TrimSpace(name), "s3:")
}
