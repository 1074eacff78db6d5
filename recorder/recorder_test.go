package recorder

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rottenbot/inference-service/inference"
	"github.com/rottenbot/inference-service/models"
)

type fakeObjects struct {
	mu    sync.Mutex
	puts  map[string][]byte
	types map[string]string
	err   error
	block chan struct{}
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{puts: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeObjects) Put(ctx context.Context, key string, contents []byte, contentType string) error {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.puts[key] = contents
	f.types[key] = contentType
	return nil
}

type fakePredictions struct {
	mu   sync.Mutex
	rows []*models.Prediction
	err  error
}

func (f *fakePredictions) Create(ctx context.Context, p *models.Prediction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.rows = append(f.rows, p)
	return nil
}

func testJob() Job {
	return Job{
		Contents:    []byte("image bytes"),
		ContentType: "image/png",
		UserUID:     "user-123",
		Result:      inference.Result{Class: 1, ClassName: "rottenapples", Confidence: 0.93},
	}
}

func TestRecorderPersistsJob(t *testing.T) {
	objects := newFakeObjects()
	predictions := &fakePredictions{}
	rec := New(objects, predictions, 8, 1)

	rec.Enqueue(testJob())
	rec.Close(2 * time.Second)

	require.Len(t, predictions.rows, 1)
	row := predictions.rows[0]
	assert.Equal(t, 1, row.PredictedClass)
	assert.Equal(t, "rottenapples", row.PredictedClassName)
	assert.InDelta(t, 0.93, row.Confidence, 1e-9)
	assert.Equal(t, "user-123", row.UserUID)

	require.Len(t, objects.puts, 1)
	contents, ok := objects.puts[row.ImagePath]
	require.True(t, ok, "record must reference the archived object key")
	assert.Equal(t, []byte("image bytes"), contents)
	assert.Equal(t, "image/png", objects.types[row.ImagePath])

	enqueued, saved, failed := rec.Stats()
	assert.EqualValues(t, 1, enqueued)
	assert.EqualValues(t, 1, saved)
	assert.EqualValues(t, 0, failed)
}

func TestRecorderConcurrentJobsGetDistinctKeys(t *testing.T) {
	objects := newFakeObjects()
	predictions := &fakePredictions{}
	rec := New(objects, predictions, 8, 2)

	rec.Enqueue(testJob())
	rec.Enqueue(testJob())
	rec.Close(2 * time.Second)

	require.Len(t, predictions.rows, 2)
	assert.NotEqual(t, predictions.rows[0].ImagePath, predictions.rows[1].ImagePath)
	assert.Len(t, objects.puts, 2)
}

func TestRecorderObjectStoreFailureStillWritesRecord(t *testing.T) {
	objects := newFakeObjects()
	objects.err = context.DeadlineExceeded
	predictions := &fakePredictions{}
	rec := New(objects, predictions, 8, 1)

	rec.Enqueue(testJob())
	rec.Close(2 * time.Second)

	// The two writes are independent, matching how the saves were scheduled
	// as two separate background tasks.
	require.Len(t, predictions.rows, 1)
	_, _, failed := rec.Stats()
	assert.EqualValues(t, 1, failed)
}

func TestRecorderDropsWhenQueueFull(t *testing.T) {
	objects := newFakeObjects()
	objects.block = make(chan struct{})
	predictions := &fakePredictions{}
	rec := New(objects, predictions, 1, 1)

	rec.Enqueue(testJob())
	rec.Enqueue(testJob())
	rec.Enqueue(testJob())

	_, _, failed := rec.Stats()
	assert.GreaterOrEqual(t, failed, uint64(1), "a full queue drops instead of blocking the caller")

	close(objects.block)
	rec.Close(2 * time.Second)
}

func TestImageKey(t *testing.T) {
	key := imageKey("image/png")
	assert.True(t, strings.HasPrefix(key, "predictions/"))
	assert.True(t, strings.HasSuffix(key, ".png"))

	other := imageKey("image/png")
	assert.NotEqual(t, key, other, "keys for identical uploads must not collide")
}
