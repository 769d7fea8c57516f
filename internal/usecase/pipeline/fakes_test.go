package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/andreyxaxa/Image-Ingest/internal/entity"
	"github.com/andreyxaxa/Image-Ingest/pkg/types/errs"
)

type memTable struct {
	mu      sync.Mutex
	records map[string]entity.ImageRecord
	calls   []string
	failOn  map[string]error
}

func newMemTable() *memTable {
	return &memTable{records: map[string]entity.ImageRecord{}, failOn: map[string]error{}}
}

func (m *memTable) Put(_ context.Context, r entity.ImageRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, "put:"+r.FileName)
	if err := m.failOn[r.FileName]; err != nil {
		return err
	}
	m.records[r.FileName] = r

	return nil
}

func (m *memTable) Delete(_ context.Context, fileName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, "delete:"+fileName)
	delete(m.records, fileName)

	return nil
}

func (m *memTable) Get(_ context.Context, fileName string) (*entity.ImageRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.records[fileName]
	if !ok {
		return nil, errs.ErrRecordNotFound
	}

	return &r, nil
}

func (m *memTable) UpdateDescription(_ context.Context, fileName, description string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, "update:"+fileName)
	r, ok := m.records[fileName]
	if !ok {
		return fmt.Errorf("%q: %w", fileName, errs.ErrRecordNotFound)
	}
	r.Description = &description
	m.records[fileName] = r

	return nil
}

type memObjects struct {
	objects map[string][]byte
}

func (m *memObjects) DownloadBytes(_ context.Context, bucket, key string) ([]byte, error) {
	b, ok := m.objects[bucket+"/"+key]
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", bucket, key, errs.ErrObjectNotFound)
	}

	return b, nil
}
