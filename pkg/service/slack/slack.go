package slack

import (
	"context"
	"fmt"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/roshan-abady/churnscope/pkg/domain/model"
	"github.com/slack-go/slack"
)

// Service posts analysis completion notices to a Slack channel
type Service struct {
	client    *slack.Client
	channelID string
}

// New creates a new Slack notification service
func New(token, channelID string) *Service {
	return &Service{
		client:    slack.New(token),
		channelID: channelID,
	}
}

// NotifyRunCompleted posts a summary of a completed analysis run
func (s *Service) NotifyRunCompleted(ctx context.Context, run *model.AnalysisRun) error {
	if run == nil {
		return goerr.New("run is nil")
	}

	_, _, err := s.client.PostMessageContext(ctx, s.channelID,
		slack.MsgOptionText(summaryText(run), false),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to post completion notice to Slack",
			goerr.V("runID", run.ID),
			goerr.V("channel", s.channelID),
		)
	}

	return nil
}

func summaryText(run *model.AnalysisRun) string {
	date := run.Date.Format(time.DateOnly)
	if len(run.SeriesEnd) == 0 {
		return fmt.Sprintf("Churn analysis completed for agreements with billing starting on %s (no matching rows).", date)
	}

	final := run.SeriesEnd[len(run.SeriesEnd)-1]
	finalReporting := run.SeriesReporting[len(run.SeriesReporting)-1]
	return fmt.Sprintf(
		"Churn analysis completed for agreements with billing starting on %s: "+
			"%.1f%% churned within %d months by agreement end date (%.1f%% by reporting month) across %d agreements.",
		date, final.Rate*100, final.Month, finalReporting.Rate*100, run.RowCount,
	)
}
