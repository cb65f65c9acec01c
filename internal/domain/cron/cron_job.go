package cron

import (
	"context"
	"sync"
	"time"

	"github.com/questx-lab/lotterypool/pkg/xcontext"
)

type CronJob interface {
	Do(context.Context)
	RunNow() bool
	Next() time.Time
}

// CronJobManager runs every registered job at the time it asks for, until the
// context of Start is done.
type CronJobManager struct {
	mutex   sync.Mutex
	running sync.WaitGroup
	jobs    map[CronJob]*time.Timer
	stopped bool
}

func NewCronJobManager() *CronJobManager {
	return &CronJobManager{jobs: make(map[CronJob]*time.Timer)}
}

func (m *CronJobManager) Register(job CronJob) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.jobs[job] = nil
}

// Start blocks until ctx is done, then waits for the running jobs.
func (m *CronJobManager) Start(ctx context.Context) {
	xcontext.Logger(ctx).Infof("Cron job manager started")

	m.mutex.Lock()
	jobs := make([]CronJob, 0, len(m.jobs))
	for job := range m.jobs {
		jobs = append(jobs, job)
	}
	m.mutex.Unlock()

	for _, job := range jobs {
		if job.RunNow() {
			m.running.Add(1)
			go m.run(ctx, job)
		} else {
			m.schedule(ctx, job)
		}
	}

	<-ctx.Done()
	m.stop()
	m.running.Wait()
	xcontext.Logger(ctx).Infof("Cron job manager stopped")
}

func (m *CronJobManager) stop() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.stopped = true
	for _, timer := range m.jobs {
		// A stopped timer never calls run, so its slot is released here.
		if timer != nil && timer.Stop() {
			m.running.Done()
		}
	}
}

func (m *CronJobManager) run(ctx context.Context, job CronJob) {
	defer m.running.Done()

	xcontext.Logger(ctx).Debugf("%T is running...", job)
	job.Do(ctx)
	xcontext.Logger(ctx).Debugf("%T ok", job)

	m.schedule(ctx, job)
}

func (m *CronJobManager) schedule(ctx context.Context, job CronJob) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.stopped {
		return
	}

	m.running.Add(1)
	m.jobs[job] = time.AfterFunc(time.Until(job.Next()), func() { m.run(ctx, job) })
}
