package lib

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
)

const jobTimeout = 5 * time.Minute

var scheduler gocron.Scheduler

func NewScheduler(s gocron.Scheduler) {
	scheduler = s
}

func GetScheduler() (gocron.Scheduler, error) {
	if scheduler != nil {
		return scheduler, nil
	}
	sched, err := gocron.NewScheduler()
	if err != nil {
		log.Printf("Error initializing Scheduler: %s\n", err.Error())
		return nil, err
	}
	scheduler = sched
	return sched, nil
}

// ParseClock reads a 24 hour "HH:MM" time of day.
func ParseClock(clock string) (hour uint, minute uint, err error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time of day %q: %w", clock, err)
	}
	return uint(t.Hour()), uint(t.Minute()), nil
}

// ScheduleDaily runs task once a day at clock. Overlapping runs are skipped.
func ScheduleDaily(sched gocron.Scheduler, name, clock string, task func(ctx context.Context) error) (gocron.Job, error) {
	hour, minute, err := ParseClock(clock)
	if err != nil {
		return nil, err
	}
	j, err := sched.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(hour, minute, 0))),
		gocron.NewTask(func() error {
			ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
			defer cancel()
			return task(ctx)
		}),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithEventListeners(
			gocron.AfterJobRunsWithError(func(jobID uuid.UUID, jobName string, err error) {
				log.Printf("[Scheduler] Job %s (%s) failed: %s\n", jobName, jobID, err.Error())
			}),
		),
	)
	if err != nil {
		log.Printf("Error creating job %s: %s\n", name, err.Error())
		return nil, err
	}
	log.Printf("Job: %s %s daily at %s\n", j.ID(), j.Name(), clock)
	return j, nil
}
