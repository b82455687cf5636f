package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingNotifier counts events and remembers which jobs it saw.
type recordingNotifier struct {
	mu        sync.Mutex
	started   map[string]int
	succeeded map[string]int
	failed    map[string]int
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{
		started:   make(map[string]int),
		succeeded: make(map[string]int),
		failed:    make(map[string]int),
	}
}

func (n *recordingNotifier) JobStarted(j *Job) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.started[j.ID]++
}

func (n *recordingNotifier) JobSucceeded(j *Job) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.succeeded[j.ID]++
}

func (n *recordingNotifier) JobFailed(j *Job) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failed[j.ID]++
}

func TestPool_AllJobsReachTerminalState(t *testing.T) {
	const jobCount = 20

	var mu sync.Mutex
	processedBy := make(map[string]int)

	process := func(_ context.Context, job *Job) (float64, error) {
		mu.Lock()
		processedBy[job.ID]++
		mu.Unlock()
		if job.Preset == "strong" {
			return 0, errors.New("boom")
		}
		return 1.5, nil
	}

	notifier := newRecordingNotifier()
	pool := NewPool(2, process, notifier, zerolog.Nop())
	pool.Start(context.Background())

	var submitted []*Job
	for i := 0; i < jobCount; i++ {
		presetName := "medium"
		if i%4 == 0 {
			presetName = "strong" // Every fourth job fails.
		}
		j := New(fmt.Sprintf("in%d.mp4", i), fmt.Sprintf("out%d.mp4", i), presetName, nil)
		submitted = append(submitted, j)
		pool.Submit(j)
	}

	pool.Close()
	pool.Wait()

	for _, j := range submitted {
		assert.True(t, j.IsTerminal(), "job %s left in state %s", j.ID, j.Status)
		assert.Equal(t, 1, processedBy[j.ID], "job %s processed by more than one worker", j.ID)
		assert.Equal(t, 1, notifier.started[j.ID])
		if j.Status == StatusSucceeded {
			assert.Equal(t, 1.5, j.SizeMB)
			assert.Equal(t, 1, notifier.succeeded[j.ID])
		} else {
			assert.NotEmpty(t, j.Error)
			assert.Equal(t, 1, notifier.failed[j.ID])
		}
	}

	succeeded, failed := pool.Counts()
	assert.Equal(t, 15, succeeded)
	assert.Equal(t, 5, failed)
}

func TestPool_FailureDoesNotStopWorkers(t *testing.T) {
	process := func(_ context.Context, job *Job) (float64, error) {
		if job.Preset == "strong" {
			return 0, errors.New("encode failed")
		}
		return 1, nil
	}

	pool := NewPool(1, process, nil, zerolog.Nop())
	pool.Start(context.Background())

	bad := New("bad.mp4", "out.mp4", "strong", nil)
	good := New("good.mp4", "out.mp4", "medium", nil)
	pool.Submit(bad)
	pool.Submit(good)
	pool.Close()
	pool.Wait()

	assert.Equal(t, StatusFailed, bad.Status)
	assert.Equal(t, StatusSucceeded, good.Status)
}

func TestPool_SubmitNeverBlocks(t *testing.T) {
	block := make(chan struct{})
	process := func(context.Context, *Job) (float64, error) {
		<-block
		return 1, nil
	}

	pool := NewPool(1, process, nil, zerolog.Nop())
	pool.Start(context.Background())

	// The single worker is held inside process; further submissions must
	// still return immediately since the queue is unbounded.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			pool.Submit(New("in.mp4", "out.mp4", "medium", nil))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Submit blocked")
	}

	close(block)
	pool.Close()
	pool.Wait()
}

func TestPool_SubmitAfterCloseFailsJob(t *testing.T) {
	pool := NewPool(1, func(context.Context, *Job) (float64, error) { return 1, nil }, nil, zerolog.Nop())
	pool.Start(context.Background())
	pool.Close()
	pool.Wait()

	j := New("in.mp4", "out.mp4", "medium", nil)
	pool.Submit(j)
	assert.Equal(t, StatusFailed, j.Status)
}

func TestPool_ContextCancellationStopsIdleWorkers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pool := NewPool(2, func(context.Context, *Job) (float64, error) { return 1, nil }, nil, zerolog.Nop())
	pool.Start(ctx)

	cancel()

	done := make(chan struct{})
	go func() {
		pool.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("workers did not exit after context cancellation")
	}
}

func TestPool_CancellationFailsQueuedJobs(t *testing.T) {
	block := make(chan struct{})
	running := make(chan struct{}, 1)
	process := func(_ context.Context, _ *Job) (float64, error) {
		running <- struct{}{}
		<-block
		return 1, nil
	}

	notifier := newRecordingNotifier()
	ctx, cancel := context.WithCancel(context.Background())
	pool := NewPool(1, process, notifier, zerolog.Nop())
	pool.Start(ctx)

	first := New("first.mp4", "out1.mp4", "medium", nil)
	queued1 := New("q1.mp4", "out2.mp4", "medium", nil)
	queued2 := New("q2.mp4", "out3.mp4", "medium", nil)
	pool.Submit(first)
	<-running // first job is inside process; the rest stay queued
	pool.Submit(queued1)
	pool.Submit(queued2)

	cancel()

	// The queued jobs must reach a failed state even before the running
	// job finishes.
	require.Eventually(t, func() bool {
		notifier.mu.Lock()
		defer notifier.mu.Unlock()
		return notifier.failed[queued1.ID] == 1 && notifier.failed[queued2.ID] == 1
	}, 5*time.Second, 10*time.Millisecond)

	close(block)
	pool.Wait()

	assert.Equal(t, StatusSucceeded, first.Status)
	for _, j := range []*Job{queued1, queued2} {
		assert.Equal(t, StatusFailed, j.Status)
		assert.Equal(t, "cancelled before start", j.Error)
		assert.Equal(t, 1, notifier.failed[j.ID])
	}

	succeeded, failed := pool.Counts()
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 2, failed)
}

func TestClampWorkers(t *testing.T) {
	assert.Equal(t, MinWorkers, ClampWorkers(0))
	assert.Equal(t, MinWorkers, ClampWorkers(-3))
	assert.Equal(t, 4, ClampWorkers(4))
	assert.Equal(t, MaxWorkers, ClampWorkers(64))
}

func TestNew_JobDefaults(t *testing.T) {
	target := 25
	j := New("in.mp4", "out.mp4", "light", &target)
	require.NotEmpty(t, j.ID)
	assert.Equal(t, StatusQueued, j.Status)
	assert.False(t, j.IsTerminal())
	assert.Equal(t, 25, *j.TargetMB)
}
