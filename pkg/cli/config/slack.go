package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/roshan-abady/churnscope/pkg/domain/interfaces"
	slackSvc "github.com/roshan-abady/churnscope/pkg/service/slack"
	"github.com/urfave/cli/v3"
)

// Slack holds completion notification configuration
type Slack struct {
	OAuthToken string
	Channel    string
}

// Flags returns CLI flags for Slack configuration
func (s *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-oauth-token",
			Usage:       "Slack OAuth token for completion notifications",
			Category:    "Slack",
			Sources:     cli.EnvVars("CHURNSCOPE_SLACK_OAUTH_TOKEN"),
			Destination: &s.OAuthToken,
		},
		&cli.StringFlag{
			Name:        "slack-channel",
			Usage:       "Slack channel ID receiving completion notifications",
			Category:    "Slack",
			Sources:     cli.EnvVars("CHURNSCOPE_SLACK_CHANNEL"),
			Destination: &s.Channel,
		},
	}
}

// ConfigureOptional creates the Slack notifier when configured, nil otherwise
func (s *Slack) ConfigureOptional(ctx context.Context) interfaces.Notifier {
	if !s.IsConfigured() {
		ctxlog.From(ctx).Debug("Slack notifications disabled (no token or channel)")
		return nil
	}
	return slackSvc.New(s.OAuthToken, s.Channel)
}

// IsConfigured checks if Slack notifications are configured
func (s *Slack) IsConfigured() bool {
	return s.OAuthToken != "" && s.Channel != ""
}

// LogValue returns structured log value; the token stays out of logs
func (s Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("configured", s.IsConfigured()),
		slog.String("channel", s.Channel),
	)
}
