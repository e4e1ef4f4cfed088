//go:build unit

package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"booking-engine/internal/pkg/config"
	"booking-engine/internal/usecase/commands"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	s := New()

	err := s.Register(Job{Name: "bad", Spec: "every now and then", Run: func(context.Context) error { return nil }})
	assert.Error(t, err)

	err = s.Register(Job{Name: "ok", Spec: "*/30 * * * * *", Run: func(context.Context) error { return nil }})
	assert.NoError(t, err)
}

func TestRunNow(t *testing.T) {
	s := New()
	var gotDeadline bool
	boom := errors.New("boom")

	require.NoError(t, s.Register(Job{
		Name:    "fails",
		Spec:    "0 0 6 * * *",
		Timeout: time.Second,
		Run: func(ctx context.Context) error {
			_, gotDeadline = ctx.Deadline()
			return boom
		},
	}))

	err := s.RunNow(context.Background(), "fails")
	assert.ErrorIs(t, err, boom)
	assert.True(t, gotDeadline)

	err = s.RunNow(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUnknownJob)
}

func TestStartStop(t *testing.T) {
	s := New()
	ran := make(chan struct{}, 1)
	require.NoError(t, s.Register(Job{
		Name: "tick",
		Spec: "* * * * * *",
		Run: func(ctx context.Context) error {
			select {
			case ran <- struct{}{}:
			default:
			}
			return nil
		},
	}))

	s.Start()
	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not run")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, s.Stop(ctx))
}

type fakeMaintenance struct {
	due   int
	sweep commands.SweepResult
	err   error
}

func (f *fakeMaintenance) RequestDueBalances(context.Context) (int, error) { return f.due, f.err }
func (f *fakeMaintenance) Sweep(context.Context) (commands.SweepResult, error) {
	return f.sweep, f.err
}

type countingPruner struct{ calls int }

func (p *countingPruner) Prune() int { p.calls++; return 0 }

func TestBookingJobs(t *testing.T) {
	cfg := config.NewTestConfig().Scheduler
	pruner := &countingPruner{}
	jobs := BookingJobs(cfg, &fakeMaintenance{due: 2, sweep: commands.SweepResult{ExpiredHolds: 1}}, pruner)

	require.Len(t, jobs, 2)
	assert.Equal(t, JobBalanceRequests, jobs[0].Name)
	assert.Equal(t, cfg.BalanceSpec, jobs[0].Spec)
	assert.Equal(t, JobSweep, jobs[1].Name)

	s := New()
	for _, j := range jobs {
		require.NoError(t, s.Register(j))
	}
	require.NoError(t, s.RunNow(context.Background(), JobBalanceRequests))
	require.NoError(t, s.RunNow(context.Background(), JobSweep))
	assert.Equal(t, 1, pruner.calls)
}
