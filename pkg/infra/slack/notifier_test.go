package slack_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/tagship/tagship/pkg/domain/model"
	slackinfra "github.com/tagship/tagship/pkg/infra/slack"
)

func testReport(t *testing.T) *model.Report {
	t.Helper()
	tag, err := model.ParseReleaseTag("v1.2.3")
	gt.NoError(t, err)

	linux := model.Target{OS: model.OSLinux, Arch: "amd64"}
	windows := model.Target{OS: model.OSWindows, Arch: "amd64"}

	return &model.Report{
		Request: model.NewPublishRequest("acme", "widget", tag, true),
		Entries: []model.EntryResult{
			{
				Target:    linux,
				AssetName: linux.AssetName("widget"),
				Stage:     model.StageDone,
			},
			{
				Target:    windows,
				AssetName: windows.AssetName("widget"),
				Stage:     model.StageBuild,
				Err:       errors.New("compile error"),
			},
		},
	}
}

func TestNotifier_NotifyReport(t *testing.T) {
	var received struct {
		Text string `json:"text"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	notifier := slackinfra.New(server.URL)
	gt.NoError(t, notifier.NotifyReport(context.Background(), testReport(t)))

	gt.String(t, received.Text).Contains("acme/widget v1.2.3")
	gt.String(t, received.Text).Contains("1/2 targets published")
	gt.String(t, received.Text).Contains("widget-linux-amd64")
	gt.String(t, received.Text).Contains("windows/amd64 failed at build")
}

func TestNotifier_NotifyReport_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	notifier := slackinfra.New(server.URL)
	gt.Error(t, notifier.NotifyReport(context.Background(), testReport(t)))
}
