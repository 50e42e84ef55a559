package service

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"
)

// NotificationKind represents the type of outbound notification.
type NotificationKind string

const (
	NotificationBookingConfirmed NotificationKind = "BOOKING_CONFIRMED"
	NotificationDriverAssigned   NotificationKind = "DRIVER_ASSIGNED"
	NotificationRideStarted      NotificationKind = "RIDE_STARTED"
	NotificationBillReady        NotificationKind = "BILL_READY"
	NotificationRideCancelled    NotificationKind = "RIDE_CANCELLED"
)

// notificationPayload is the wire shape handed to the webhook collaborator.
type notificationPayload struct {
	Kind             NotificationKind `json:"kind"`
	RecipientContact string           `json:"recipient_contact"`
	RideID           string           `json:"ride_id"`
	Message          string           `json:"message"`
	Timestamp        time.Time        `json:"timestamp"`
}

// NotificationDispatcher delivers notifications to an outbound webhook
// (WhatsApp/SMS automation). Delivery is strictly best-effort: Notify
// returns immediately, failures are logged and never reach the caller, and
// ride/ledger state is never affected by the outcome.
type NotificationDispatcher struct {
	webhookURL string
	client     *http.Client
}

// NewNotificationDispatcher creates a dispatcher posting to webhookURL.
// An empty URL disables delivery (notifications are logged only).
func NewNotificationDispatcher(webhookURL string, timeout time.Duration) *NotificationDispatcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &NotificationDispatcher{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: timeout},
	}
}

// Notify queues a notification for delivery and returns immediately.
func (d *NotificationDispatcher) Notify(kind NotificationKind, recipientContact, rideID, message string) {
	payload := notificationPayload{
		Kind:             kind,
		RecipientContact: recipientContact,
		RideID:           rideID,
		Message:          message,
		Timestamp:        time.Now().UTC(),
	}

	if d.webhookURL == "" {
		log.Printf("[notify] kind=%s recipient=%s ride=%s (webhook not configured)", kind, recipientContact, rideID)
		return
	}

	go d.deliver(payload)
}

func (d *NotificationDispatcher) deliver(payload notificationPayload) {
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[notify] marshal failed: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), d.client.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(body))
	if err != nil {
		log.Printf("[notify] request build failed: %v", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		log.Printf("[notify] delivery failed: kind=%s ride=%s err=%v", payload.Kind, payload.RideID, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		log.Printf("[notify] webhook returned %d for kind=%s ride=%s", resp.StatusCode, payload.Kind, payload.RideID)
	}
}
