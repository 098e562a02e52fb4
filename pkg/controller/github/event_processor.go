package github

import (
	"context"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/tagship/tagship/pkg/domain/interfaces"
	"github.com/tagship/tagship/pkg/domain/model"
	"github.com/tagship/tagship/pkg/utils/async"
)

// EventProcessor turns push events into publish runs.
type EventProcessor struct {
	publishUC  interfaces.PublishUseCase
	markLatest bool
}

// NewEventProcessor creates a new GitHub event processor
func NewEventProcessor(publishUC interfaces.PublishUseCase, markLatest bool) *EventProcessor {
	return &EventProcessor{
		publishUC:  publishUC,
		markLatest: markLatest,
	}
}

// ProcessEvent handles a parsed webhook payload. Only pushes of refs
// matching the release tag pattern start a run; everything else is
// acknowledged and ignored.
func (p *EventProcessor) ProcessEvent(ctx context.Context, eventType string, payload interface{}) error {
	logger := ctxlog.From(ctx)

	switch eventType {
	case "push":
		return p.processPushEvent(ctx, payload)
	default:
		logger.Info("Ignoring unsupported event type", "event_type", eventType)
		return nil
	}
}

func (p *EventProcessor) processPushEvent(ctx context.Context, payload interface{}) error {
	logger := ctxlog.From(ctx)

	pushEvent, ok := payload.(*github.PushEvent)
	if !ok {
		logger.Warn("Invalid push event payload")
		return nil
	}

	ref := pushEvent.GetRef()
	tag, ok := model.MatchTagRef(ref)
	if !ok {
		logger.Info("Ignoring push of non-release ref", "ref", ref)
		return nil
	}

	owner := pushEvent.GetRepo().GetOwner().GetLogin()
	repo := pushEvent.GetRepo().GetName()
	if owner == "" || repo == "" {
		return goerr.New("missing repository information in push event", goerr.V("ref", ref))
	}

	req := model.NewPublishRequest(owner, repo, tag, p.markLatest)

	logger.Info("Dispatching publish run for pushed tag",
		"run_id", req.RunID,
		"owner", owner,
		"repo", repo,
		"tag", tag.Name,
	)

	// Respond to the webhook right away; the run continues in background
	async.Dispatch(ctx, func(ctx context.Context) error {
		report, err := p.publishUC.Publish(ctx, req)
		if err != nil {
			return err
		}
		if failed := report.Failed(); len(failed) > 0 {
			return goerr.New("publish run finished with failed targets",
				goerr.V("run_id", req.RunID),
				goerr.V("failed", len(failed)),
				goerr.V("succeeded", len(report.Succeeded())),
			)
		}
		return nil
	})

	return nil
}
