package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/inout-manager/realtime-go/internal/domain/activity"
	"github.com/inout-manager/realtime-go/internal/domain/realtime"
	"github.com/inout-manager/realtime-go/internal/domain/stats"
	"github.com/inout-manager/realtime-go/internal/pkg/hub"
)

// RecentLimit matches the feed capacity on the client side
const RecentLimit = 50

type service struct {
	events activity.Repository
	stats  stats.Repository
	hub    *hub.Hub
	logger *slog.Logger
}

// NewIngestService creates the gateway-side event pipeline: events are
// persisted, broadcast to every connected admin channel, and followed
// by a stats_update push carrying the recomputed counters.
func NewIngestService(events activity.Repository, statsRepo stats.Repository, h *hub.Hub, logger *slog.Logger) activity.Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &service{
		events: events,
		stats:  statsRepo,
		hub:    h,
		logger: logger,
	}
}

func (s *service) Record(ctx context.Context, req activity.RecordEventRequest) (activity.EventResponse, error) {
	if !req.Type.IsValid() {
		return activity.EventResponse{}, fmt.Errorf("%w: %q", activity.ErrInvalidEventType, req.Type)
	}
	if req.Type != activity.TypeAlert && req.Employee.ID == "" {
		return activity.EventResponse{}, activity.ErrMissingEmployee
	}

	occurredAt := time.Now()
	if req.OccurredAt != nil {
		occurredAt = *req.OccurredAt
	}

	event := activity.Event{
		ID:           uuid.New().String(),
		Type:         req.Type,
		EmployeeID:   req.Employee.ID,
		EmployeeName: req.Employee.Name,
		Timestamp:    occurredAt,
		Message:      s.eventMessage(req),
		Avatar:       req.Employee.Avatar,
		Department:   req.Employee.Department,
		Severity:     req.Severity,
	}

	if err := s.events.Insert(ctx, &event); err != nil {
		return activity.EventResponse{}, err
	}

	if status, ok := badgeStatus(req); ok {
		if err := s.events.SetEmployeeStatus(ctx, req.Employee.ID, status); err != nil {
			return activity.EventResponse{}, err
		}
	}

	s.broadcast(ctx, event, req)

	return activity.ToResponse(event), nil
}

func (s *service) Recent(ctx context.Context) ([]activity.EventResponse, error) {
	events, err := s.events.Recent(ctx, RecentLimit)
	if err != nil {
		return nil, err
	}
	out := make([]activity.EventResponse, len(events))
	for i, e := range events {
		out[i] = activity.ToResponse(e)
	}
	return out, nil
}

func (s *service) CurrentStats(ctx context.Context) (stats.DashboardResponse, error) {
	current, err := s.stats.Current(ctx)
	if err != nil {
		return stats.DashboardResponse{}, err
	}
	return stats.ToResponse(current), nil
}

func (s *service) eventMessage(req activity.RecordEventRequest) string {
	if req.Message != "" {
		return req.Message
	}
	switch req.Type {
	case activity.TypeEntry:
		return fmt.Sprintf("%s ha ingresado al trabajo", req.Employee.Name)
	case activity.TypeExit:
		return fmt.Sprintf("%s ha salido del trabajo", req.Employee.Name)
	case activity.TypeBreak:
		return fmt.Sprintf("%s está en descanso", req.Employee.Name)
	}
	return ""
}

func badgeStatus(req activity.RecordEventRequest) (activity.EmployeeStatus, bool) {
	switch req.Type {
	case activity.TypeEntry:
		return activity.StatusWorking, true
	case activity.TypeExit:
		return activity.StatusInactive, true
	case activity.TypeBreak:
		return activity.StatusBreak, true
	case activity.TypeStatusUpdate:
		if req.Status != "" {
			return req.Status, true
		}
	}
	return "", false
}

// broadcast pushes the event envelope followed by a stats_update with
// the recomputed counters. Broadcast failures are logged, never fatal:
// polling clients will catch up.
func (s *service) broadcast(ctx context.Context, event activity.Event, req activity.RecordEventRequest) {
	env := s.toEnvelope(event, req)
	if err := s.hub.Broadcast(env); err != nil {
		s.logger.Error("failed to broadcast event", slog.String("error", err.Error()))
	}

	current, err := s.stats.Current(ctx)
	if err != nil {
		s.logger.Error("failed to recompute stats for broadcast", slog.String("error", err.Error()))
		return
	}
	payload := stats.ToResponse(current)
	if err := s.hub.Broadcast(realtime.Envelope{
		Type:  realtime.MessageStatsUpdate,
		Stats: &payload,
	}); err != nil {
		s.logger.Error("failed to broadcast stats update", slog.String("error", err.Error()))
	}
}

func (s *service) toEnvelope(event activity.Event, req activity.RecordEventRequest) realtime.Envelope {
	ts := event.Timestamp
	switch event.Type {
	case activity.TypeEntry, activity.TypeExit:
		return realtime.Envelope{
			ID:   event.ID,
			Type: string(event.Type),
			Employee: &realtime.EmployeePayload{
				ID:         event.EmployeeID,
				Name:       event.EmployeeName,
				Avatar:     event.Avatar,
				Department: event.Department,
			},
			Timestamp: &ts,
		}
	case activity.TypeAlert:
		return realtime.Envelope{
			ID:         event.ID,
			Type:       realtime.MessageAlert,
			Message:    event.Message,
			Severity:   event.Severity,
			EmployeeID: event.EmployeeID,
			Timestamp:  &ts,
		}
	default:
		status := req.Status
		if status == "" {
			status = activity.StatusBreak
		}
		return realtime.Envelope{
			ID:           event.ID,
			Type:         realtime.MessageStatusUpdate,
			EmployeeID:   event.EmployeeID,
			EmployeeName: event.EmployeeName,
			Status:       status,
			Avatar:       event.Avatar,
			Timestamp:    &ts,
		}
	}
}
