package webhook

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/swfrancis/strava-workout-description-generator/internal/activity"
	"github.com/swfrancis/strava-workout-description-generator/internal/history"
	"github.com/swfrancis/strava-workout-description-generator/internal/stream"
	"github.com/swfrancis/strava-workout-description-generator/internal/user"
)

const minConfidenceForWriteBack = 0.7

// eligibleTypes are the sports whose laps carry interval structure worth
// describing.
var eligibleTypes = []string{"Run", "Ride", "VirtualRun", "VirtualRide"}

// Processor handles activity-create events in the background. Each event
// waits out a settle delay so Strava has finished computing laps, then runs
// the gated auto-describe and broadcasts the outcome to the athlete's feed.
type Processor struct {
	activities *activity.Service
	users      *user.Service
	records    *history.Service
	hub        *stream.Hub
	delay      time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewProcessor(activities *activity.Service, users *user.Service, records *history.Service, hub *stream.Hub, delay time.Duration) *Processor {
	ctx, cancel := context.WithCancel(context.Background())
	return &Processor{
		activities: activities,
		users:      users,
		records:    records,
		hub:        hub,
		delay:      delay,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Enqueue schedules background processing for an event. Only new activities
// and athlete deauthorizations are acted on; everything else is dropped.
func (p *Processor) Enqueue(event Event) {
	switch {
	case event.IsActivityCreate():
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			p.process(event)
		}()
	case event.IsDeauthorize():
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			p.deauthorize(event)
		}()
	}
}

// deauthorize drops the athlete and their tokens after access is revoked.
func (p *Processor) deauthorize(event Event) {
	if p.users == nil {
		return
	}
	if err := p.users.Delete(context.Background(), event.OwnerID); err != nil {
		log.Printf("webhook: remove deauthorized athlete %d: %v", event.OwnerID, err)
		return
	}
	log.Printf("webhook: removed deauthorized athlete %d", event.OwnerID)
}

func (p *Processor) process(event Event) {
	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-p.ctx.Done():
			return
		}
	}

	// past the settle delay the event is processed to completion, so a
	// shutdown never half-applies a description
	result, err := p.activities.AutoDescribe(context.Background(), event.OwnerID, event.ObjectID, activity.AutoDescribeOptions{
		MinConfidence: minConfidenceForWriteBack,
		MinLaps:       2,
		AllowedTypes:  eligibleTypes,
	})
	if err != nil {
		log.Printf("webhook: auto describe activity %d: %v", event.ObjectID, err)
		return
	}
	if result.Applied {
		log.Printf("webhook: described activity %d: %s", event.ObjectID, result.Description)
	} else {
		log.Printf("webhook: skipped activity %d: %s", event.ObjectID, result.Reason)
	}

	if p.records != nil && result.Analysis != nil {
		raw, err := json.Marshal(result.Analysis)
		if err == nil {
			_, err = p.records.Save(context.Background(), history.Record{
				AthleteID:    event.OwnerID,
				ActivityID:   event.ObjectID,
				ActivityName: result.Analysis.ActivityName,
				ActivityType: result.Analysis.ActivityType,
				Description:  result.Description,
				Confidence:   result.Analysis.Confidence,
				Applied:      result.Applied,
				Analysis:     raw,
			})
		}
		if err != nil {
			log.Printf("webhook: record analysis for activity %d: %v", event.ObjectID, err)
		}
	}

	if p.hub != nil {
		if payload, err := json.Marshal(result); err == nil {
			p.hub.Broadcast(strconv.FormatInt(event.OwnerID, 10), payload)
		}
	}
}

// Shutdown stops accepting delays and waits for in-flight events, up to the
// context deadline.
func (p *Processor) Shutdown(ctx context.Context) error {
	p.cancel()
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
