package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNotify_DeliversPayloadToWebhook(t *testing.T) {
	t.Parallel()

	received := make(chan notificationPayload, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected application/json, got %s", ct)
		}
		var payload notificationPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode failed: %v", err)
		}
		received <- payload
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	d := NewNotificationDispatcher(srv.URL, 5*time.Second)
	d.Notify(NotificationBillReady, "+911234567890", "ride-1", "your bill")

	select {
	case payload := <-received:
		if payload.Kind != NotificationBillReady {
			t.Errorf("expected BILL_READY, got %s", payload.Kind)
		}
		if payload.RecipientContact != "+911234567890" {
			t.Errorf("unexpected recipient %s", payload.RecipientContact)
		}
		if payload.RideID != "ride-1" {
			t.Errorf("unexpected ride %s", payload.RideID)
		}
		if payload.Timestamp.IsZero() {
			t.Error("expected timestamp set")
		}
	case <-time.After(3 * time.Second):
		t.Fatal("webhook never called")
	}
}

func TestNotify_EmptyURLDoesNotPanic(t *testing.T) {
	t.Parallel()

	d := NewNotificationDispatcher("", 0)
	d.Notify(NotificationRideStarted, "+911234567890", "ride-1", "started")
}

func TestNotify_WebhookFailureIsSwallowed(t *testing.T) {
	t.Parallel()

	called := make(chan struct{}, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called <- struct{}{}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	d := NewNotificationDispatcher(srv.URL, 2*time.Second)
	d.Notify(NotificationRideCancelled, "+911234567890", "ride-1", "cancelled")

	select {
	case <-called:
		// Delivery was attempted; the failure never reaches the caller.
	case <-time.After(3 * time.Second):
		t.Fatal("webhook never called")
	}
}
