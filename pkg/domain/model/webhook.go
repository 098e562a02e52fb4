package model

import "time"

// WebhookEventType represents the type of webhook event received
type WebhookEventType string

const (
	EventTypePush    WebhookEventType = "push"
	EventTypeUnknown WebhookEventType = "unknown"
)

// WebhookEvent represents a webhook event received from the repository host
type WebhookEvent struct {
	ID         string           // Retrieved from X-GitHub-Delivery header
	Type       WebhookEventType // Retrieved from X-GitHub-Event header
	Ref        string           // Pushed git ref (e.g. refs/tags/v1.2.3)
	Repository string           // Repository full name
	Sender     string           // Sender username
	ReceivedAt time.Time        // Time when the event was received
	RawPayload []byte           // Raw JSON payload
}

// ReleaseTrigger returns the parsed release tag when the event is a push of
// a ref matching the release tag pattern. Any other push must not start a
// publish run.
func (e *WebhookEvent) ReleaseTrigger() (*ReleaseTag, bool) {
	if e.Type != EventTypePush {
		return nil, false
	}
	return MatchTagRef(e.Ref)
}
