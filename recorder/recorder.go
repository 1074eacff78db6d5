// Package recorder persists prediction outcomes after the HTTP response has
// already been sent. Enqueue is fire-and-forget: failures are logged and
// counted but never retried and never surfaced to the caller.
package recorder

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/rottenbot/inference-service/inference"
	"github.com/rottenbot/inference-service/models"
	"github.com/rottenbot/inference-service/storage"
	"github.com/rottenbot/inference-service/utils"
)

const jobTimeout = 30 * time.Second

// Job carries everything needed to archive one prediction: the original
// upload bytes, the inference result, and the caller's identity.
type Job struct {
	Contents    []byte
	ContentType string
	UserUID     string
	Result      inference.Result
}

// Recorder drains a bounded queue of jobs with a fixed worker pool. One job
// produces one object-store entry and one prediction row referencing it.
type Recorder struct {
	objects     storage.ObjectStore
	predictions storage.PredictionStore

	jobs      chan Job
	wg        sync.WaitGroup
	closeOnce sync.Once

	enqueued atomic.Uint64
	saved    atomic.Uint64
	failed   atomic.Uint64
}

// New creates a Recorder and starts its workers.
func New(objects storage.ObjectStore, predictions storage.PredictionStore, queueSize, workers int) *Recorder {
	if queueSize < 1 {
		queueSize = 1
	}
	if workers < 1 {
		workers = 1
	}

	r := &Recorder{
		objects:     objects,
		predictions: predictions,
		jobs:        make(chan Job, queueSize),
	}

	r.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go r.work()
	}
	return r
}

// Enqueue schedules a job for background recording. It never blocks the
// caller: when the queue is full the job is dropped and counted as failed,
// the same silent-loss trade-off a failed save has.
func (r *Recorder) Enqueue(job Job) {
	select {
	case r.jobs <- job:
		r.enqueued.Add(1)
	default:
		r.failed.Add(1)
		if utils.Sugar != nil {
			utils.Sugar.Warnf("recorder queue full, dropping save for user %s", job.UserUID)
		}
	}
}

func (r *Recorder) work() {
	defer r.wg.Done()
	for job := range r.jobs {
		r.process(job)
	}
}

// process runs both writes independently, mirroring how the saves were
// originally scheduled as two separate tasks: a failed archive does not stop
// the record insert, and vice versa.
func (r *Recorder) process(job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	key := imageKey(job.ContentType)
	ok := true

	if err := r.objects.Put(ctx, key, job.Contents, job.ContentType); err != nil {
		ok = false
		if utils.Sugar != nil {
			utils.Sugar.Errorf("image archive failed for user %s: %v", job.UserUID, err)
		}
	}

	record := &models.Prediction{
		ImagePath:          key,
		PredictedClass:     job.Result.Class,
		PredictedClassName: job.Result.ClassName,
		Confidence:         job.Result.Confidence,
		UserUID:            job.UserUID,
	}
	if err := r.predictions.Create(ctx, record); err != nil {
		ok = false
		if utils.Sugar != nil {
			utils.Sugar.Errorf("prediction insert failed for user %s: %v", job.UserUID, err)
		}
	}

	if ok {
		r.saved.Add(1)
	} else {
		r.failed.Add(1)
	}
}

// imageKey builds a unique object key: a date-partitioned base path plus a
// timestamp and a fresh uuid, so concurrent uploads never collide.
func imageKey(contentType string) string {
	now := time.Now().UTC()
	return fmt.Sprintf("predictions/%s/%s-%s%s",
		now.Format("20060102"),
		now.Format("150405"),
		uuid.NewString(),
		inference.ExtensionFor(contentType),
	)
}

// Stats returns the enqueued/saved/failed counters.
func (r *Recorder) Stats() (enqueued, saved, failed uint64) {
	return r.enqueued.Load(), r.saved.Load(), r.failed.Load()
}

// LogStats writes the counters to the log; scheduled periodically so
// operators can watch the silent-loss rate.
func (r *Recorder) LogStats() {
	enqueued, saved, failed := r.Stats()
	if utils.Sugar != nil {
		utils.Sugar.Infow("recorder stats",
			"enqueued", enqueued,
			"saved", saved,
			"failed", failed,
			"pending", len(r.jobs),
		)
	}
}

// Close stops accepting jobs and waits for the queue to drain, up to the
// given timeout.
func (r *Recorder) Close(timeout time.Duration) {
	r.closeOnce.Do(func() {
		close(r.jobs)

		done := make(chan struct{})
		go func() {
			r.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(timeout):
			if utils.Sugar != nil {
				utils.Sugar.Warnf("recorder drain timed out after %s", timeout)
			}
		}
	})
}
