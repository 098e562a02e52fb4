package usecase

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/tagship/tagship/pkg/domain/model"
)

type webhookUseCase struct{}

// NewWebhook creates a new instance of WebhookUseCase
func NewWebhook() *webhookUseCase {
	return &webhookUseCase{}
}

// ProcessEvent records a webhook event. Trigger evaluation and dispatch
// happen in the controller; this keeps an audit trail of every delivery,
// including ignored ones.
func (uc *webhookUseCase) ProcessEvent(ctx context.Context, event *model.WebhookEvent) error {
	logger := ctxlog.From(ctx)

	_, triggers := event.ReleaseTrigger()

	logger.Info("Received webhook event",
		"id", event.ID,
		"type", event.Type,
		"ref", event.Ref,
		"repository", event.Repository,
		"sender", event.Sender,
		"triggers_publish", triggers,
	)

	return nil
}
