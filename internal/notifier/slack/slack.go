package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/JocaCola1972/LevelUP-Connect/internal/advisor"
	"github.com/JocaCola1972/LevelUP-Connect/internal/club"
	"github.com/JocaCola1972/LevelUP-Connect/internal/metrics"
	"github.com/JocaCola1972/LevelUP-Connect/internal/notifier"
	"github.com/charmbracelet/log"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier. Without a token every message is
// handled as a dry run.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	var api slackClient
	if token != "" {
		api = slack.New(token)
	}
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
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

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) (string, string, error) {
	if dryRun || s.api == nil {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-channel", "dry-run-ts", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
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

func (s *Notifier) SendMatchSuggestion(suggestion *advisor.Suggestion, dryRun bool) error {
	_, _, err := s.sendMessage(s.formatMatchSuggestion(suggestion), dryRun)
	return err
}

func (s *Notifier) SendSlotLineup(slot club.SlotTime, lineup [][]club.Player, dryRun bool) error {
	_, _, err := s.sendMessage(s.formatSlotLineup(slot, lineup), dryRun)
	return err
}

// formatMatchSuggestion creates the Slack message for a suggested match using Block Kit.
func (s *Notifier) formatMatchSuggestion(suggestion *advisor.Suggestion) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🎾 Suggested match 🎾", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	teamsText := fmt.Sprintf("*Team 1:* %s\n*Team 2:* %s", teamNames(suggestion.Team1), teamNames(suggestion.Team2))
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", teamsText, false, false), nil, nil))

	if suggestion.Reasoning != "" {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", suggestion.Reasoning, true, false), nil, nil))
	}

	scoreText := fmt.Sprintf("Balance score: %.0f/100", suggestion.BalanceScore)
	blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", scoreText, true, false)))

	return slack.NewBlockMessage(blocks...)
}

// formatSlotLineup creates the Slack message listing the bookings of a slot.
func (s *Notifier) formatSlotLineup(slot club.SlotTime, lineup [][]club.Player) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", fmt.Sprintf("📋 Line-up %s", slot), true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if len(lineup) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "Nobody is enrolled yet.", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	var lines []string
	for _, booking := range lineup {
		label := "solo"
		if len(booking) == 2 {
			label = "pair"
		}
		lines = append(lines, fmt.Sprintf("• %s (%s)", teamNames(booking), label))
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", strings.Join(lines, "\n"), true, false), nil, nil))

	return slack.NewBlockMessage(blocks...)
}

func teamNames(players []club.Player) string {
	if len(players) == 0 {
		return "-"
	}
	names := make([]string, 0, len(players))
	for _, p := range players {
		names = append(names, fmt.Sprintf("%s (%s)", p.Name, p.Level.Label()))
	}
	return strings.Join(names, " & ")
}
