package observer

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// RoundEvent represents a round lifecycle event
type RoundEvent struct {
	EventType EventType              `json:"event_type"`
	Timestamp time.Time              `json:"timestamp"`
	RoundID   string                 `json:"round_id"`
	Mode      string                 `json:"mode,omitempty"`
	Correct   bool                   `json:"correct,omitempty"`
	Score     float64                `json:"score,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// EventType represents the type of round event
type EventType string

const (
	// RoundStarted when a session is constructed
	RoundStarted EventType = "round_started"
	// GuessSubmitted when a player submits a guess
	GuessSubmitted EventType = "guess_submitted"
	// RoundSolved when a guess is correct
	RoundSolved EventType = "round_solved"
	// RoundClosed when a round is removed from the registry
	RoundClosed EventType = "round_closed"
	// RoundStartFailed when session construction fails
	RoundStartFailed EventType = "round_start_failed"
)

// Observer defines the interface for event observers
type Observer interface {
	OnEvent(ctx context.Context, event RoundEvent)
	GetObserverName() string
}

// Subject defines the interface for event publishers
type Subject interface {
	Subscribe(observer Observer)
	Unsubscribe(observer Observer)
	NotifyObservers(ctx context.Context, event RoundEvent)
}

// LoggingObserver logs round events
type LoggingObserver struct {
	logger *logrus.Logger
}

// NewLoggingObserver creates a new logging observer
func NewLoggingObserver(logger *logrus.Logger) Observer {
	return &LoggingObserver{
		logger: logger,
	}
}

// OnEvent handles round events by logging them
func (o *LoggingObserver) OnEvent(ctx context.Context, event RoundEvent) {
	fields := logrus.Fields{
		"event_type": event.EventType,
		"round_id":   event.RoundID,
	}
	if event.Mode != "" {
		fields["mode"] = event.Mode
	}
	if event.Metadata != nil {
		for k, v := range event.Metadata {
			fields[k] = v
		}
	}

	switch event.EventType {
	case RoundStarted:
		o.logger.WithFields(fields).Info("Round started")
	case GuessSubmitted:
		fields["correct"] = event.Correct
		o.logger.WithFields(fields).Info("Guess submitted")
	case RoundSolved:
		fields["score"] = event.Score
		o.logger.WithFields(fields).Info("Round solved")
	case RoundClosed:
		o.logger.WithFields(fields).Debug("Round closed")
	case RoundStartFailed:
		o.logger.WithFields(fields).Error("Round start failed")
	default:
		o.logger.WithFields(fields).Info("Round event occurred")
	}
}

// GetObserverName returns the observer name
func (o *LoggingObserver) GetObserverName() string {
	return "logging_observer"
}

// StatsObserver aggregates gameplay counters from round events
type StatsObserver struct {
	mu           sync.RWMutex
	roundsPlayed int64
	guesses      int64
	solved       int64
	totalScore   float64
}

// NewStatsObserver creates a new stats observer
func NewStatsObserver() *StatsObserver {
	return &StatsObserver{}
}

// OnEvent handles round events by updating counters
func (o *StatsObserver) OnEvent(ctx context.Context, event RoundEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch event.EventType {
	case RoundStarted:
		o.roundsPlayed++
	case GuessSubmitted:
		o.guesses++
	case RoundSolved:
		o.solved++
		o.totalScore += event.Score
	}
}

// GetObserverName returns the observer name
func (o *StatsObserver) GetObserverName() string {
	return "stats_observer"
}

// Snapshot returns the current gameplay counters
func (o *StatsObserver) Snapshot() map[string]interface{} {
	o.mu.RLock()
	defer o.mu.RUnlock()

	avgScore := 0.0
	if o.solved > 0 {
		avgScore = o.totalScore / float64(o.solved)
	}

	return map[string]interface{}{
		"rounds_played": o.roundsPlayed,
		"guesses":       o.guesses,
		"solved":        o.solved,
		"average_score": avgScore,
	}
}

// EventPublisher implements the Subject interface
type EventPublisher struct {
	mu        sync.RWMutex
	observers []Observer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher() Subject {
	return &EventPublisher{
		observers: make([]Observer, 0),
	}
}

// Subscribe adds an observer
func (p *EventPublisher) Subscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, observer)
}

// Unsubscribe removes an observer
func (p *EventPublisher) Unsubscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, obs := range p.observers {
		if obs.GetObserverName() == observer.GetObserverName() {
			p.observers = append(p.observers[:i], p.observers[i+1:]...)
			break
		}
	}
}

// NotifyObservers notifies all observers of an event
func (p *EventPublisher) NotifyObservers(ctx context.Context, event RoundEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	p.mu.RLock()
	observers := make([]Observer, len(p.observers))
	copy(observers, p.observers)
	p.mu.RUnlock()

	for _, observer := range observers {
		go func(obs Observer) {
			defer func() {
				if r := recover(); r != nil {
					logrus.WithField("observer", obs.GetObserverName()).
						WithField("panic", r).
						Error("Observer panicked while handling event")
				}
			}()
			obs.OnEvent(ctx, event)
		}(observer)
	}
}
