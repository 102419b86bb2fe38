package history

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

const DefaultRolloverSchedule = "0 0 * * *"

type Scheduler struct {
	cron    *cron.Cron
	service *Service
}

// NewScheduler registers the nightly rollover, it does not start the cron.
func NewScheduler(service *Service, schedule string) (*Scheduler, error) {
	if schedule == "" {
		schedule = DefaultRolloverSchedule
	}

	s := &Scheduler{
		cron:    cron.New(),
		service: service,
	}
	if _, err := s.cron.AddFunc(schedule, s.rollover); err != nil {
		return nil, fmt.Errorf("add rollover job [%s]: %w", schedule, err)
	}

	return s, nil
}

func (s *Scheduler) rollover() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.service.Rollover(ctx); err != nil {
		log.Errorf("history: scheduled rollover: %s", err)
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
	log.Debugf("history: rollover scheduler started")
}

// Stop stops the cron and waits for a running rollover to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Debugf("history: rollover scheduler stopped")
}
