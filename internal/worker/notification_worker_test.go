package worker

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/memberops/memberops-api/internal/config"
	"github.com/memberops/memberops-api/internal/events"
	"github.com/memberops/memberops-api/internal/observability"
	"github.com/memberops/memberops-api/internal/service"
)

func TestWorkersSubscribeToEveryEvent(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher(nil)
	metrics := observability.NewMetrics("test")

	StartNotificationWorker(service.NewNotificationService(dispatcher, zap.NewNop(), config.NotificationConfig{
		EmailFrom:  "noreply@memberops.local",
		WebhookURL: "http://hooks.local",
	}))
	StartMetricsWorker(dispatcher, metrics)

	for _, eventType := range events.AllEventTypes {
		if err := dispatcher.Publish(context.Background(), events.Event{Type: eventType}); err != nil {
			t.Fatalf("publish %s: %v", eventType, err)
		}
	}

	got, err := testutil.GatherAndCount(metrics.Registry(), "memberops_lifecycle_events_total")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if got != len(events.AllEventTypes) {
		t.Fatalf("expected one series per event type, got %d", got)
	}
}

func TestStartWithNilDependencies(t *testing.T) {
	StartNotificationWorker(nil)
	StartMetricsWorker(nil, nil)
}
