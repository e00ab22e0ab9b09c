package alert

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Transition describes a change in a route's health between two passes.
type Transition struct {
	Route       string    `json:"route"`
	Destination string    `json:"destination"`
	WasHealthy  bool      `json:"wasHealthy"`
	IsHealthy   bool      `json:"isHealthy"`
	Status      *int      `json:"status"`
	Error       string    `json:"error,omitempty"`
	At          time.Time `json:"at"`
}

// Notifier receives health transitions.
type Notifier interface {
	Notify(ctx context.Context, t Transition) error
}

// LogNotifier writes each transition to the logger.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(_ context.Context, t Transition) error {
	if t.IsHealthy {
		n.logger.Info("Redirect destination recovered",
			slog.String("route", t.Route),
			slog.String("destination", t.Destination))
		return nil
	}

	n.logger.Warn("Redirect destination became unhealthy",
		slog.String("route", t.Route),
		slog.String("destination", t.Destination),
		slog.String("reason", t.Error))
	return nil
}

// Multi fans a transition out to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, t Transition) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, t); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
