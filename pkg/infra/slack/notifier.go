package slack

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
	"github.com/tagship/tagship/pkg/domain/model"
)

// Notifier posts publish reports to a Slack incoming webhook.
type Notifier struct {
	webhookURL string
}

// New creates a Slack notifier
func New(webhookURL string) *Notifier {
	return &Notifier{webhookURL: webhookURL}
}

// NotifyReport posts one line per matrix entry so partial success stays
// visible per platform.
func (n *Notifier) NotifyReport(ctx context.Context, report *model.Report) error {
	var lines []string
	lines = append(lines, fmt.Sprintf("*%s/%s %s*: %d/%d targets published",
		report.Request.Owner,
		report.Request.Repo,
		report.Request.Tag.Name,
		len(report.Succeeded()),
		len(report.Entries),
	))

	for _, entry := range report.Entries {
		if entry.OK() {
			lines = append(lines, fmt.Sprintf(":white_check_mark: %s → `%s`", entry.Target.Label(), entry.AssetName))
		} else {
			lines = append(lines, fmt.Sprintf(":x: %s failed at %s: %v", entry.Target.Label(), entry.Stage, entry.Err))
		}
	}

	msg := &slack.WebhookMessage{Text: strings.Join(lines, "\n")}
	if err := slack.PostWebhookContext(ctx, n.webhookURL, msg); err != nil {
		return goerr.Wrap(err, "failed to post Slack notification")
	}

	return nil
}
