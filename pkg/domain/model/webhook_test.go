package model_test

import (
	"testing"

	"github.com/tagship/tagship/pkg/domain/model"
)

func TestWebhookEvent_ReleaseTrigger(t *testing.T) {
	tests := []struct {
		name    string
		event   *model.WebhookEvent
		wantTag string
		wantOK  bool
	}{
		{
			name: "push of release tag - triggers",
			event: &model.WebhookEvent{
				Type: model.EventTypePush,
				Ref:  "refs/tags/v1.2.3",
			},
			wantTag: "v1.2.3",
			wantOK:  true,
		},
		{
			name: "push of branch - ignored",
			event: &model.WebhookEvent{
				Type: model.EventTypePush,
				Ref:  "refs/heads/main",
			},
			wantOK: false,
		},
		{
			name: "push of non-matching tag - ignored",
			event: &model.WebhookEvent{
				Type: model.EventTypePush,
				Ref:  "refs/tags/v1.2",
			},
			wantOK: false,
		},
		{
			name: "non-push event with tag-shaped ref - ignored",
			event: &model.WebhookEvent{
				Type: model.WebhookEventType("issues"),
				Ref:  "refs/tags/v1.2.3",
			},
			wantOK: false,
		},
		{
			name: "unknown event type",
			event: &model.WebhookEvent{
				Type: model.EventTypeUnknown,
			},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tag, ok := tt.event.ReleaseTrigger()
			if ok != tt.wantOK {
				t.Errorf("ReleaseTrigger() ok = %v, want %v", ok, tt.wantOK)
			}
			if tt.wantOK && tag.Name != tt.wantTag {
				t.Errorf("ReleaseTrigger() tag = %v, want %v", tag.Name, tt.wantTag)
			}
		})
	}
}
