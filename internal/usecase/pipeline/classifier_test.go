package pipeline

import (
	"testing"

	"github.com/andreyxaxa/Image-Ingest/internal/entity"
	"github.com/stretchr/testify/assert"
)

func TestClassifier_Classify(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		name   string
		env    entity.Envelope
		kind   entity.EventKind
		reason string
	}{
		{
			name: "caption attribute wins over event name",
			env:  entity.Envelope{EventName: "ObjectRemoved:Delete", Attributes: map[string]string{"comment_type": "Caption"}},
			kind: entity.KindCaptionUpdate,
		},
		{
			name: "other comment type",
			env:  entity.Envelope{Attributes: map[string]string{"comment_type": "Rating"}},
			kind: entity.KindGenericUpdate,
		},
		{
			name: "delete",
			env:  entity.Envelope{EventName: "ObjectRemoved:Delete"},
			kind: entity.KindDelete,
		},
		{
			name: "put",
			env:  entity.Envelope{EventName: "ObjectCreated:Put"},
			kind: entity.KindCreate,
		},
		{
			name: "prefixed event name",
			env:  entity.Envelope{EventName: "s3:ObjectCreated:Put"},
			kind: entity.KindCreate,
		},
		{
			name:   "multipart is not accepted by default",
			env:    entity.Envelope{EventName: "ObjectCreated:CompleteMultipartUpload"},
			kind:   entity.KindRejected,
			reason: entity.ReasonUnsupportedSubtype,
		},
		{
			name:   "delete marker is never a delete",
			env:    entity.Envelope{EventName: "ObjectRemoved:DeleteMarkerCreated"},
			kind:   entity.KindRejected,
			reason: entity.ReasonUnsupportedSubtype,
		},
		{
			name: "prefixed delete",
			env:  entity.Envelope{EventName: "s3:ObjectRemoved:Delete"},
			kind: entity.KindDelete,
		},
		{
			name:   "prefixed delete marker",
			env:    entity.Envelope{EventName: "s3:ObjectRemoved:DeleteMarkerCreated"},
			kind:   entity.KindRejected,
			reason: entity.ReasonUnsupportedSubtype,
		},
		{
			name:   "lifecycle expiry",
			env:    entity.Envelope{EventName: "LifecycleExpiration:Delete"},
			kind:   entity.KindRejected,
			reason: entity.ReasonUnclassified,
		},
		{
			name:   "unknown",
			env:    entity.Envelope{EventName: "ObjectRestore:Post"},
			kind:   entity.KindRejected,
			reason: entity.ReasonUnclassified,
		},
		{
			name:   "empty",
			env:    entity.Envelope{},
			kind:   entity.KindRejected,
			reason: entity.ReasonUnclassified,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.env)
			assert.Equal(t, tt.kind, got.Kind)
			assert.Equal(t, tt.reason, got.Reason)
		})
	}
}

func TestClassifier_ConfiguredCreateEvents(t *testing.T) {
	c := NewClassifier("ObjectCreated:Put", " ObjectCreated:CompleteMultipartUpload ", "")

	got := c.Classify(entity.Envelope{EventName: "ObjectCreated:CompleteMultipartUpload"})
	assert.Equal(t, entity.KindCreate, got.Kind)

	got = c.Classify(entity.Envelope{EventName: "ObjectCreated:Copy"})
	assert.Equal(t, entity.KindRejected, got.Kind)
}

func TestClassifier_CreateEventsMatchExactly(t *testing.T) {
	c := NewClassifier("s3:ObjectCreated:Copy")

	got := c.Classify(entity.Envelope{EventName: "ObjectCreated:Copy"})
	assert.Equal(t, entity.KindCreate, got.Kind)

	got = c.Classify(entity.Envelope{EventName: "ObjectCreated:CopyObject"})
	assert.Equal(t, entity.KindRejected, got.Kind)
	assert.Equal(t, entity.ReasonUnsupportedSubtype, got.Reason)

	got = c.Classify(entity.Envelope{EventName: "ObjectCreated:Put"})
	assert.Equal(t, entity.KindRejected, got.Kind)
}
