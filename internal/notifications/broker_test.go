package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/routeflow/routeflow-backend/pkg/db/models"
	"github.com/routeflow/routeflow-backend/pkg/enums"
	"github.com/routeflow/routeflow-backend/pkg/logger"
)

func newTestBroker(t *testing.T) *Broker {
	t.Helper()
	broker, err := NewBroker(logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("error")}))
	if err != nil {
		t.Fatalf("unexpected broker error: %v", err)
	}
	return broker
}

func TestBrokerDeliversToSubscriber(t *testing.T) {
	broker := newTestBroker(t)
	defer broker.Close()

	events, cancel := broker.Subscribe()
	defer cancel()

	order := &models.Order{ID: 5, OrderNumber: "ORD-AAAA1111", Status: enums.OrderStatusPlaced}
	broker.Publish(context.Background(), NewOrderCreated(order))

	select {
	case event := <-events:
		if event.Type != enums.EventOrderCreated {
			t.Fatalf("unexpected event type %s", event.Type)
		}
		if event.OrderNumber != "ORD-AAAA1111" {
			t.Fatalf("unexpected order number %s", event.OrderNumber)
		}
		if event.NewStatus == nil || *event.NewStatus != "PLACED" {
			t.Fatalf("unexpected new status %v", event.NewStatus)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestBrokerPublishNeverBlocksOnSlowSubscriber(t *testing.T) {
	broker := newTestBroker(t)
	defer broker.Close()

	// Subscriber that never reads.
	_, cancel := broker.Subscribe()
	defer cancel()

	order := &models.Order{ID: 5, OrderNumber: "ORD-AAAA1111", Status: enums.OrderStatusPlaced}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < defaultSubscriberBuffer*3; i++ {
			broker.Publish(context.Background(), NewOrderCreated(order))
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}

func TestBrokerCancelRemovesSubscriber(t *testing.T) {
	broker := newTestBroker(t)
	defer broker.Close()

	_, cancel := broker.Subscribe()
	if broker.SubscriberCount() != 1 {
		t.Fatalf("expected 1 subscriber, got %d", broker.SubscriberCount())
	}
	cancel()
	if broker.SubscriberCount() != 0 {
		t.Fatalf("expected 0 subscribers, got %d", broker.SubscriberCount())
	}
}

func TestBrokerCloseClosesChannels(t *testing.T) {
	broker := newTestBroker(t)
	events, cancel := broker.Subscribe()
	defer cancel()

	broker.Close()

	select {
	case _, open := <-events:
		if open {
			t.Fatal("expected channel to be closed")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for channel close")
	}
}

func TestEventConstructorsMatchContract(t *testing.T) {
	order := &models.Order{ID: 8, OrderNumber: "ORD-CCCC3333", Status: enums.OrderStatusAssigned}

	statusEvent := NewStatusChanged(order, enums.OrderStatusPlaced, enums.OrderStatusAssigned)
	if statusEvent.OldStatus == nil || *statusEvent.OldStatus != "PLACED" {
		t.Fatalf("unexpected old status %v", statusEvent.OldStatus)
	}
	if statusEvent.NewStatus == nil || *statusEvent.NewStatus != "ASSIGNED" {
		t.Fatalf("unexpected new status %v", statusEvent.NewStatus)
	}

	assignEvent := NewPartnerAssigned(order, "Ravi Kumar")
	if assignEvent.PartnerName == nil || *assignEvent.PartnerName != "Ravi Kumar" {
		t.Fatalf("unexpected partner name %v", assignEvent.PartnerName)
	}

	cancelEvent := NewOrderCancelled(order, "address unreachable")
	if cancelEvent.NewStatus == nil || *cancelEvent.NewStatus != "CANCELLED" {
		t.Fatalf("unexpected new status %v", cancelEvent.NewStatus)
	}
	if cancelEvent.Message != "Order ORD-CCCC3333 cancelled: address unreachable" {
		t.Fatalf("unexpected message %q", cancelEvent.Message)
	}
}
