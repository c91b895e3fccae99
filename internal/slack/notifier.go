package slack

import (
	"fmt"
	"log"

	"github.com/slack-go/slack"

	"github.com/alertdash/alertdash/internal/engine"
)

// Notifier posts newly opened alerts to a Slack channel
type Notifier struct {
	client          *slack.Client
	channelResolver *ChannelResolver
	channel         string
	minSeverity     engine.Severity
}

// NewNotifier creates a notifier. Returns nil when the bot token or
// channel is empty, which disables Slack notifications; a nil Notifier
// is safe to use.
func NewNotifier(botToken, channel string, minSeverity engine.Severity) *Notifier {
	if botToken == "" || channel == "" {
		log.Printf("Slack notifier disabled (no bot token or channel configured)")
		return nil
	}
	if !minSeverity.IsValid() {
		minSeverity = engine.SeverityHigh
	}

	client := slack.New(botToken)
	return &Notifier{
		client:          client,
		channelResolver: NewChannelResolver(client),
		channel:         channel,
		minSeverity:     minSeverity,
	}
}

// HandleIngest is called from the engine ingest hook. Posting happens in
// a goroutine so Slack latency never delays ingestion.
func (n *Notifier) HandleIngest(result engine.IngestResult) {
	if n == nil {
		return
	}
	if !n.shouldNotify(result) {
		return
	}
	go n.post(result.Record)
}

// shouldNotify reports whether a result is worth a message: only newly
// opened alerts at or above the minimum severity
func (n *Notifier) shouldNotify(result engine.IngestResult) bool {
	if result.Outcome != engine.OutcomeNew {
		return false
	}
	if result.Record == nil {
		return false
	}
	return result.Record.Severity.Rank() >= n.minSeverity.Rank()
}

func (n *Notifier) post(record *engine.AlertRecord) {
	channelID, err := n.channelResolver.ResolveChannel(n.channel)
	if err != nil {
		log.Printf("Slack notifier: failed to resolve channel: %v", err)
		return
	}

	message := FormatAlertMessage(record)
	_, ts, err := n.client.PostMessage(
		channelID,
		slack.MsgOptionText(message, false),
	)
	if err != nil {
		log.Printf("Slack notifier: failed to post alert %s: %v", record.ID, err)
		return
	}

	if record.Severity == engine.SeverityCritical {
		n.client.AddReaction("rotating_light", slack.ItemRef{
			Channel:   channelID,
			Timestamp: ts,
		})
	}
}

// FormatAlertMessage renders the Slack message body for an alert
func FormatAlertMessage(record *engine.AlertRecord) string {
	message := fmt.Sprintf(`%s *Alert: %s*

:label: *Source:* %s
:warning: *Severity:* %s
:id: *Fingerprint:* %s`,
		SeverityEmoji(record.Severity),
		record.Title,
		record.Source,
		record.Severity,
		record.Fingerprint,
	)

	if host := record.Labels["host"]; host != "" {
		message += fmt.Sprintf("\n:computer: *Host:* %s", host)
	}
	if service := record.Labels["service"]; service != "" {
		message += fmt.Sprintf("\n:gear: *Service:* %s", service)
	}
	if record.Description != "" {
		message += fmt.Sprintf("\n:memo: *Description:* %s", record.Description)
	}
	if record.IncidentID != "" {
		message += fmt.Sprintf("\n:link: *Incident:* %s", record.IncidentID)
	}

	return message
}

// SeverityEmoji returns an emoji for the alert severity
func SeverityEmoji(severity engine.Severity) string {
	switch severity {
	case engine.SeverityCritical:
		return ":red_circle:"
	case engine.SeverityHigh:
		return ":large_orange_circle:"
	case engine.SeverityMedium:
		return ":large_yellow_circle:"
	case engine.SeverityLow:
		return ":large_green_circle:"
	case engine.SeverityInfo:
		return ":large_blue_circle:"
	default:
		return ":white_circle:"
	}
}
