package interfaces

import (
	"context"

	"github.com/tagship/tagship/pkg/domain/model"
)

// PublishUseCase defines the release publish operation
type PublishUseCase interface {
	// Publish runs the build matrix for the request's tag and uploads one
	// asset per successful entry. The returned report carries per-platform
	// outcomes; a non-nil error means the run could not start at all.
	Publish(ctx context.Context, req *model.PublishRequest) (*model.Report, error)
}

// WebhookUseCase defines the interface for webhook event processing
type WebhookUseCase interface {
	// ProcessEvent processes a webhook event
	ProcessEvent(ctx context.Context, event *model.WebhookEvent) error
}
