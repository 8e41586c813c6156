package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"sync"
	"time"

	"github.com/gammazero/workerpool"

	"slackproxy/clients"
	"slackproxy/clients/wiki"
	"slackproxy/core"
	"slackproxy/metrics"
	"slackproxy/models"
)

// wikiCommandField is the body field carrying the parsed command next to the
// raw slash command form values.
const wikiCommandField = "growiCommand"

type DispatchService struct {
	wikiClient clients.WikiClient
	workers    int
	timeout    time.Duration
	inFlight   sync.WaitGroup
}

// NewDispatchService creates a dispatcher that runs at most workers deliveries
// at once per command, each bounded by timeout. Concurrent commands do not
// share workers.
func NewDispatchService(wikiClient clients.WikiClient, workers int, timeout time.Duration) *DispatchService {
	if workers < 1 {
		workers = 1
	}
	return &DispatchService{
		wikiClient: wikiClient,
		workers:    workers,
		timeout:    timeout,
	}
}

// DispatchCommand delivers command to every relation concurrently and returns
// one outcome per relation, in the order relations were given. A failed
// delivery never affects its siblings and is reported in its outcome, not as an error.
func (s *DispatchService) DispatchCommand(
	ctx context.Context,
	command models.Command,
	relations []*models.Relation,
) ([]models.DispatchOutcome, error) {
	if len(relations) == 0 {
		return nil, fmt.Errorf("failed to dispatch command %s: no target relations: %w", command.Type, core.ErrInvalidOperation)
	}

	log.Printf("📋 Starting to dispatch command %s to %d relations", command.Type, len(relations))

	body := commandBody(command)
	outcomes := make([]models.DispatchOutcome, len(relations))

	s.inFlight.Add(1)
	defer s.inFlight.Done()

	pool := workerpool.New(min(len(relations), s.workers))
	for i, relation := range relations {
		pool.Submit(func() {
			outcomes[i] = s.deliver(ctx, relation, func(callCtx context.Context) (int, error) {
				return s.wikiClient.PostCommand(callCtx, relation.WikiURI, relation.TokenPtoG, body)
			})
		})
	}
	pool.StopWait()

	failed := 0
	for _, outcome := range outcomes {
		if !outcome.Succeeded() {
			failed++
		}
	}

	log.Printf("📋 Completed successfully - dispatched command %s: %d succeeded, %d failed", command.Type, len(outcomes)-failed, failed)
	return outcomes, nil
}

// ForwardInteraction posts a Slack interaction payload to a single relation.
func (s *DispatchService) ForwardInteraction(
	ctx context.Context,
	payload map[string]string,
	relation *models.Relation,
) models.DispatchOutcome {
	log.Printf("📋 Starting to forward interaction to %s", relation.WikiURI)

	outcome := s.deliver(ctx, relation, func(callCtx context.Context) (int, error) {
		return s.wikiClient.PostInteraction(callCtx, relation.WikiURI, relation.TokenPtoG, payload)
	})
	if outcome.Succeeded() {
		log.Printf("📋 Completed successfully - forwarded interaction to %s", relation.WikiURI)
	}
	return outcome
}

// Stop waits for in-flight command dispatches to finish.
func (s *DispatchService) Stop() {
	s.inFlight.Wait()
}

func (s *DispatchService) deliver(
	ctx context.Context,
	relation *models.Relation,
	send func(callCtx context.Context) (int, error),
) models.DispatchOutcome {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	statusCode, err := send(callCtx)
	duration := time.Since(start)

	var outcome models.DispatchOutcome
	if err == nil {
		outcome = models.NewSucceededOutcome(relation, statusCode, duration)
	} else {
		failure := classifyFailure(callCtx, err)
		log.Printf("❌ Failed to deliver to %s (%s): %v", relation.WikiURI, failure, err)
		outcome = models.NewFailedOutcome(relation, failure, statusCode, err, duration)
	}

	metrics.DispatchOutcomesTotal.WithLabelValues(string(outcome.Status), string(outcome.Failure)).Inc()
	metrics.DispatchDuration.Observe(duration.Seconds())
	return outcome
}

func classifyFailure(callCtx context.Context, err error) models.DispatchFailure {
	var statusErr *wiki.StatusError
	if errors.As(err, &statusErr) {
		return models.DispatchFailureRejected
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		return models.DispatchFailureTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return models.DispatchFailureTimeout
	}

	return models.DispatchFailureNetwork
}

func commandBody(command models.Command) map[string]any {
	body := make(map[string]any, len(command.Event.Payload)+1)
	for key, value := range command.Event.Payload {
		body[key] = value
	}
	body[wikiCommandField] = command.ToWikiCommand()
	return body
}
