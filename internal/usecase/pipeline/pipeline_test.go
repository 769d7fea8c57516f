package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/andreyxaxa/Image-Ingest/internal/entity"
	"github.com/andreyxaxa/Image-Ingest/pkg/types/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(id, body string) entity.TransportRecord {
	return entity.TransportRecord{MessageID: id, Body: []byte(body)}
}

func caption(id, name, description string) entity.TransportRecord {
	return entity.TransportRecord{
		MessageID:  id,
		Body:       []byte(`{"name":"` + name + `","description":"` + description + `"}`),
		Attributes: map[string]string{"comment_type": "Caption"},
	}
}

func newTestPipeline(route entity.Route, policy FailurePolicy, table *memTable, objects *memObjects) *Pipeline {
	if objects == nil {
		return New(route, policy, NewClassifier(), table, nil)
	}

	return New(route, policy, NewClassifier(), table, objects)
}

func TestPipeline_CreateWritesDecodedKey(t *testing.T) {
	table := newMemTable()
	objects := &memObjects{objects: map[string][]byte{"images/my cat.jpeg": []byte("x")}}
	p := newTestPipeline(entity.RouteCreate, PolicyBatch, table, objects)

	report, err := p.ProcessBatch(context.Background(), []entity.TransportRecord{
		rec("m1", s3Event("ObjectCreated:Put", "images", "my+cat.jpeg")),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Applied)
	assert.NotEmpty(t, report.BatchID)
	_, err = table.Get(context.Background(), "my cat.jpeg")
	assert.NoError(t, err)
}

func TestPipeline_CreateOverwritesDescription(t *testing.T) {
	table := newMemTable()
	d := "old"
	table.records["a.png"] = entity.ImageRecord{FileName: "a.png", Description: &d}
	p := newTestPipeline(entity.RouteCreate, PolicyBatch, table, nil)

	_, err := p.ProcessBatch(context.Background(), []entity.TransportRecord{
		rec("m1", s3Event("ObjectCreated:Put", "images", "a.png")),
	})
	require.NoError(t, err)

	got, err := table.Get(context.Background(), "a.png")
	require.NoError(t, err)
	assert.Nil(t, got.Description)
}

func TestPipeline_CreateMissingObjectSkipsWrite(t *testing.T) {
	table := newMemTable()
	objects := &memObjects{objects: map[string][]byte{}}
	p := newTestPipeline(entity.RouteCreate, PolicyBatch, table, objects)

	report, err := p.ProcessBatch(context.Background(), []entity.TransportRecord{
		rec("m1", s3Event("ObjectCreated:Put", "images", "gone.png")),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Failed)
	assert.ErrorIs(t, report.Outcomes[0].Err, errs.ErrObjectNotFound)
	assert.Empty(t, table.calls)
	assert.Empty(t, report.Redeliver)
}

func TestPipeline_CreateUnsupportedTypeAbortsBatch(t *testing.T) {
	table := newMemTable()
	p := newTestPipeline(entity.RouteCreate, PolicyBatch, table, nil)

	report, err := p.ProcessBatch(context.Background(), []entity.TransportRecord{
		rec("m1", s3Event("ObjectCreated:Put", "images", "a.png")),
		rec("m2", s3Event("ObjectCreated:Put", "images", "b.gif")),
		rec("m3", s3Event("ObjectCreated:Put", "images", "c.png")),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrUnsupportedFileType)

	assert.Equal(t, []string{"put:a.png"}, table.calls)
	assert.Equal(t, 1, report.Failed)
}

func TestPipeline_CreateUnsupportedTypeIsolatedPerRecord(t *testing.T) {
	table := newMemTable()
	p := newTestPipeline(entity.RouteCreate, PolicyRecord, table, nil)

	report, err := p.ProcessBatch(context.Background(), []entity.TransportRecord{
		rec("m1", s3Event("ObjectCreated:Put", "images", "a.png")),
		rec("m2", s3Event("ObjectCreated:Put", "images", "b.gif")),
		rec("m3", s3Event("ObjectCreated:Put", "images", "c.png")),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"put:a.png", "put:c.png"}, table.calls)
	assert.Equal(t, []string{"m2"}, report.Redeliver)
	assert.True(t, report.MustRedeliver("m2"))
	assert.False(t, report.MustRedeliver("m1"))
	assert.Equal(t, 2, report.Applied)
	assert.Equal(t, 1, report.Failed)
}

func TestPipeline_DeleteIgnoresUnsupportedType(t *testing.T) {
	table := newMemTable()
	p := newTestPipeline(entity.RouteTable, PolicyBatch, table, nil)

	report, err := p.ProcessBatch(context.Background(), []entity.TransportRecord{
		rec("m1", s3Event("ObjectRemoved:Delete", "images", "notes.txt")),
		rec("m2", s3Event("ObjectRemoved:Delete", "images", "a+b.png")),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"delete:a b.png"}, table.calls)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 1, report.Applied)
	assert.ErrorIs(t, report.Outcomes[0].Err, errs.ErrUnsupportedFileType)
}

func TestPipeline_DeleteAbsentKeyIsApplied(t *testing.T) {
	table := newMemTable()
	p := newTestPipeline(entity.RouteDelete, PolicyBatch, table, nil)

	report, err := p.ProcessBatch(context.Background(), []entity.TransportRecord{
		rec("m1", s3Event("ObjectRemoved:Delete", "images", "never.png")),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Applied)
}

func TestPipeline_CaptionUpdate(t *testing.T) {
	table := newMemTable()
	table.records["cat.jpeg"] = entity.ImageRecord{FileName: "cat.jpeg"}
	p := newTestPipeline(entity.RouteUpdate, PolicyBatch, table, nil)

	report, err := p.ProcessBatch(context.Background(), []entity.TransportRecord{
		caption("m1", "cat.jpeg", "a cat"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Applied)

	got, err := table.Get(context.Background(), "cat.jpeg")
	require.NoError(t, err)
	require.NotNil(t, got.Description)
	assert.Equal(t, "a cat", *got.Description)
}

func TestPipeline_CaptionUpdateOnAbsentKeyCreatesNothing(t *testing.T) {
	table := newMemTable()
	p := newTestPipeline(entity.RouteUpdate, PolicyBatch, table, nil)

	report, err := p.ProcessBatch(context.Background(), []entity.TransportRecord{
		caption("m1", "ghost.png", "boo"),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Failed)
	assert.ErrorIs(t, report.Outcomes[0].Err, errs.ErrRecordNotFound)
	assert.Empty(t, table.records)
}

func TestPipeline_CaptionNameIsNotDecoded(t *testing.T) {
	table := newMemTable()
	table.records["a+b.png"] = entity.ImageRecord{FileName: "a+b.png"}
	p := newTestPipeline(entity.RouteUpdate, PolicyBatch, table, nil)

	_, err := p.ProcessBatch(context.Background(), []entity.TransportRecord{
		caption("m1", "a+b.png", "plus"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"update:a+b.png"}, table.calls)
}

func TestPipeline_RejectedAndUnroutedAreSkipped(t *testing.T) {
	table := newMemTable()
	p := newTestPipeline(entity.RouteCreate, PolicyBatch, table, nil)

	report, err := p.ProcessBatch(context.Background(), []entity.TransportRecord{
		rec("m1", s3Event("ObjectCreated:Copy", "images", "a.gif")),
		rec("m2", s3Event("ObjectRemoved:Delete", "images", "b.png")),
		caption("m3", "c.png", "x"),
	})
	require.NoError(t, err)

	assert.Empty(t, table.calls)
	assert.Equal(t, 3, report.Skipped)
	for _, o := range report.Outcomes {
		assert.ErrorIs(t, o.Err, errs.ErrUnclassified)
	}
}

func TestPipeline_GenericUpdateWritesNothing(t *testing.T) {
	table := newMemTable()
	p := newTestPipeline(entity.RouteTable, PolicyBatch, table, nil)

	report, err := p.ProcessBatch(context.Background(), []entity.TransportRecord{{
		MessageID:  "m1",
		Body:       []byte(`{"name":"a.png","description":"x"}`),
		Attributes: map[string]string{"comment_type": "Rating"},
	}})
	require.NoError(t, err)

	assert.Empty(t, table.calls)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, entity.KindGenericUpdate, report.Outcomes[0].Kind)
}

func TestPipeline_MalformedEnvelopeDoesNotStopBatch(t *testing.T) {
	table := newMemTable()
	p := newTestPipeline(entity.RouteAll, PolicyBatch, table, nil)

	report, err := p.ProcessBatch(context.Background(), []entity.TransportRecord{
		rec("m1", "{{{"),
		rec("m2", s3Event("ObjectCreated:Put", "images", "ok.png")),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, report.Total)
	assert.ErrorIs(t, report.Outcomes[0].Err, errs.ErrMalformedEnvelope)
	assert.Equal(t, []string{"put:ok.png"}, table.calls)
}

func TestPipeline_TableFailureDoesNotStopBatch(t *testing.T) {
	table := newMemTable()
	table.failOn["a.png"] = errors.New("throttled")
	p := newTestPipeline(entity.RouteCreate, PolicyBatch, table, nil)

	report, err := p.ProcessBatch(context.Background(), []entity.TransportRecord{
		rec("m1", s3Event("ObjectCreated:Put", "images", "a.png")),
		rec("m2", s3Event("ObjectCreated:Put", "images", "b.png")),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 1, report.Applied)
	assert.Empty(t, report.Redeliver)
}

func TestPipeline_CanceledContext(t *testing.T) {
	table := newMemTable()
	p := newTestPipeline(entity.RouteAll, PolicyBatch, table, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.ProcessBatch(ctx, []entity.TransportRecord{
		rec("m1", s3Event("ObjectCreated:Put", "images", "a.png")),
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, table.calls)
}

func TestPipeline_SameBatchIsIdempotent(t *testing.T) {
	table := newMemTable()
	p := newTestPipeline(entity.RouteAll, PolicyBatch, table, nil)

	batch := []entity.TransportRecord{
		rec("m1", s3Event("ObjectCreated:Put", "images", "a.png")),
		rec("m2", s3Event("ObjectCreated:Put", "images", "b.png")),
		rec("m3", s3Event("ObjectRemoved:Delete", "images", "b.png")),
	}

	_, err := p.ProcessBatch(context.Background(), batch)
	require.NoError(t, err)
	first := len(table.records)

	_, err = p.ProcessBatch(context.Background(), batch)
	require.NoError(t, err)
	assert.Equal(t, first, len(table.records))
	assert.Contains(t, table.records, "a.png")
}

func TestParseFailurePolicy(t *testing.T) {
	p, err := ParseFailurePolicy(" Record ")
	require.NoError(t, err)
	assert.Equal(t, PolicyRecord, p)

	_, err = ParseFailurePolicy("sometimes")
	assert.Error(t, err)
}

func TestPipeline_NonDeleteRemovalsLeaveTableUnchanged(t *testing.T) {
	for _, route := range []entity.Route{entity.RouteDelete, entity.RouteTable} {
		t.Run(string(route), func(t *testing.T) {
			table := newMemTable()
			table.records["a.png"] = entity.ImageRecord{FileName: "a.png"}
			p := newTestPipeline(route, PolicyBatch, table, nil)

			report, err := p.ProcessBatch(context.Background(), []entity.TransportRecord{
				rec("m1", s3Event("ObjectRemoved:DeleteMarkerCreated", "images", "a.png")),
				rec("m2", s3Event("s3:ObjectRemoved:DeleteMarkerCreated", "images", "a.png")),
				rec("m3", s3Event("LifecycleExpiration:Delete", "images", "a.png")),
			})
			require.NoError(t, err)

			assert.Empty(t, table.calls)
			assert.Contains(t, table.records, "a.png")
			assert.Equal(t, 3, report.Skipped)
			for _, o := range report.Outcomes {
				assert.Equal(t, entity.KindRejected, o.Kind)
				assert.ErrorIs(t, o.Err, errs.ErrUnclassified)
			}
		})
	}
}
