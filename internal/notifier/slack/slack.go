package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/tga-scoring-audit/internal/daterange"
	"github.com/mauv0809/tga-scoring-audit/internal/metrics"
	"github.com/mauv0809/tga-scoring-audit/internal/notifier"
	"github.com/mauv0809/tga-scoring-audit/internal/report"
	"github.com/slack-go/slack"
)

// Flagged rounds listed individually before the rest are summarized.
const maxListedRounds = 10

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier posts audit summaries to a Slack channel.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier. Without a token messages are only
// logged.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	n := &Notifier{
		channelID: channelID,
		metrics:   metrics,
	}
	if token != "" {
		n.api = slack.New(token)
	}
	return n
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(ctx context.Context, message slack.Message, dryRun bool) (string, string, error) {
	if dryRun || s.api == nil {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionText(summaryFallback(message), false),
	)

	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

// SendAuditSummary posts the outcome of an audit run.
func (s *Notifier) SendAuditSummary(ctx context.Context, summary *report.Summary, dryRun bool) error {
	msg := s.formatAuditSummary(summary)
	_, _, err := s.sendMessage(ctx, msg, dryRun)
	return err
}

// FormatAuditSummary builds the Block Kit message without sending it.
func (s *Notifier) FormatAuditSummary(summary *report.Summary) (any, error) {
	return s.formatAuditSummary(summary), nil
}

func (s *Notifier) formatAuditSummary(summary *report.Summary) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "⛳ TGA scoring audit complete", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	details := fmt.Sprintf("*Season:* %s\n*Date range:* %s\n*Rounds analyzed:* %d\n*Flagged:* %d\n*Clean:* %d",
		summary.SeasonName, summary.Range, summary.TotalRounds, len(summary.FlaggedRounds), summary.CleanRounds())
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", details, false, false), nil, nil))

	if len(summary.FlaggedRounds) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject("mrkdwn", ":white_check_mark: No scoring issues detected!", false, false), nil, nil))
	} else {
		blocks = append(blocks, slack.NewDividerBlock())
		for i, r := range summary.FlaggedRounds {
			if i == maxListedRounds {
				more := fmt.Sprintf("…and %d more flagged rounds", len(summary.FlaggedRounds)-maxListedRounds)
				blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("mrkdwn", more, false, false)))
				break
			}
			line := fmt.Sprintf(":warning: *<%s|%s>* (%s)\n%s", r.ScorecardURL(), r.RoundName, daterange.Format(r.Date), r.Issue)
			blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", line, false, false), nil, nil))
		}
	}

	footer := fmt.Sprintf("Run %s", summary.RunID)
	if summary.DryRun {
		footer += " (dry run)"
	}
	blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("mrkdwn", footer, false, false)))

	return slack.NewBlockMessage(blocks...)
}

// summaryFallback is the plain text shown in notifications.
func summaryFallback(message slack.Message) string {
	if len(message.Blocks.BlockSet) == 0 {
		return "TGA scoring audit"
	}
	if h, ok := message.Blocks.BlockSet[0].(*slack.HeaderBlock); ok && h.Text != nil {
		return h.Text.Text
	}
	return "TGA scoring audit"
}
