package notifications

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/scamwatch/scamwatch/internal/config"
	"github.com/scamwatch/scamwatch/internal/models"
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// Service sends digests and alerts via a webhook and/or email
type Service struct {
	config *config.Config
	client *resty.Client
}

// Ensure Service implements NotificationInterface
var _ NotificationInterface = (*Service)(nil)

// WebhookMessage is the MessageCard-style payload posted to the alert webhook
type WebhookMessage struct {
	Type     string           `json:"@type"`
	Context  string           `json:"@context"`
	Title    string           `json:"title"`
	Text     string           `json:"text"`
	Sections []WebhookSection `json:"sections,omitempty"`
}

type WebhookSection struct {
	ActivityTitle string        `json:"activityTitle,omitempty"`
	ActivityText  string        `json:"activityText,omitempty"`
	Facts         []WebhookFact `json:"facts,omitempty"`
	Markdown      bool          `json:"markdown,omitempty"`
}

type WebhookFact struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// NewService creates a new notification service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
		client: resty.New().SetTimeout(30 * time.Second),
	}
}

// SendDigest sends a digest via all configured channels
func (s *Service) SendDigest(digest *models.Digest) error {
	var errs []string

	if s.config.AlertWebhookURL != "" {
		if err := s.postWebhook(s.buildDigestMessage(digest)); err != nil {
			logrus.Errorf("Failed to send digest to webhook: %v", err)
			errs = append(errs, fmt.Sprintf("webhook: %v", err))
		} else {
			logrus.Info("Successfully sent digest to webhook")
		}
	}

	if s.config.NotificationEmail != "" {
		if err := s.sendDigestEmail(digest); err != nil {
			logrus.Errorf("Failed to send digest email: %v", err)
			errs = append(errs, fmt.Sprintf("email: %v", err))
		} else {
			logrus.Info("Successfully sent digest via email")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("notification errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

// SendAlert sends an urgent alert via all configured channels
func (s *Service) SendAlert(alert *models.Alert) error {
	var errs []string

	if s.config.AlertWebhookURL != "" {
		if err := s.postWebhook(s.buildAlertMessage(alert)); err != nil {
			logrus.Errorf("Failed to send alert to webhook: %v", err)
			errs = append(errs, fmt.Sprintf("webhook: %v", err))
		}
	}

	if s.config.NotificationEmail != "" {
		if err := s.sendAlertEmail(alert); err != nil {
			logrus.Errorf("Failed to send alert email: %v", err)
			errs = append(errs, fmt.Sprintf("email: %v", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("alert errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (s *Service) postWebhook(message *WebhookMessage) error {
	resp, err := s.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(message).
		Post(s.config.AlertWebhookURL)

	if err != nil {
		return fmt.Errorf("failed to post webhook message: %w", err)
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode(), string(resp.Body()))
	}
	return nil
}

func (s *Service) buildDigestMessage(digest *models.Digest) *WebhookMessage {
	message := &WebhookMessage{
		Type:    "MessageCard",
		Context: "https://schema.org/extensions",
		Title:   fmt.Sprintf("Scam Report Digest - %s", strings.Title(digest.Period)),
		Text:    fmt.Sprintf("%d reports submitted in the last %s period", digest.TotalReports, digest.Period),
	}

	facts := []WebhookFact{
		{Name: "Total Reports", Value: fmt.Sprintf("%d", digest.TotalReports)},
		{Name: "Generated", Value: digest.GeneratedAt.Format("2006-01-02 15:04:05 UTC")},
	}
	for _, level := range []string{models.RiskHigh, models.RiskMedium, models.RiskLow} {
		if count, ok := digest.RiskBreakdown[level]; ok {
			facts = append(facts, WebhookFact{
				Name:  fmt.Sprintf("%s Risk", level),
				Value: fmt.Sprintf("%d", count),
			})
		}
	}
	message.Sections = append(message.Sections, WebhookSection{
		ActivityTitle: "Summary",
		Facts:         facts,
		Markdown:      true,
	})

	if len(digest.TopDomains) > 0 {
		message.Sections = append(message.Sections, WebhookSection{
			ActivityTitle: "Most Reported Domains",
			ActivityText:  strings.Join(digest.TopDomains, ", "),
			Markdown:      true,
		})
	}

	if len(digest.Trending) > 0 {
		var lines []string
		limit := 5
		if len(digest.Trending) < limit {
			limit = len(digest.Trending)
		}
		for i := 0; i < limit; i++ {
			report := digest.Trending[i]
			lines = append(lines, fmt.Sprintf("**%s** - %d votes (%s)",
				report.Type, report.Votes, report.CreatedAt.Format("Jan 2")))
		}
		message.Sections = append(message.Sections, WebhookSection{
			ActivityTitle: "Trending Reports",
			ActivityText:  strings.Join(lines, "\n\n"),
			Markdown:      true,
		})
	}

	return message
}

func (s *Service) buildAlertMessage(alert *models.Alert) *WebhookMessage {
	return &WebhookMessage{
		Type:    "MessageCard",
		Context: "https://schema.org/extensions",
		Title:   alert.Title,
		Text:    alert.Message,
	}
}

func (s *Service) sendDigestEmail(digest *models.Digest) error {
	subject := fmt.Sprintf("Scam Report Digest - %s (%d reports)",
		strings.Title(digest.Period), digest.TotalReports)

	htmlBody, err := s.buildDigestHTML(digest)
	if err != nil {
		return fmt.Errorf("failed to build digest HTML: %w", err)
	}

	return s.sendEmail(subject, s.buildDigestText(digest), htmlBody)
}

func (s *Service) sendAlertEmail(alert *models.Alert) error {
	body := alert.Message
	for i, report := range alert.Reports {
		body += fmt.Sprintf("\n%d. [%s] %s", i+1, report.Type, truncate(report.Content, 200))
	}
	return s.sendEmail(alert.Title, body, "")
}

func (s *Service) sendEmail(subject, textBody, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.config.SMTPUsername)
	m.SetHeader("To", s.config.NotificationEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", textBody)
	if htmlBody != "" {
		m.AddAlternative("text/html", htmlBody)
	}

	d := gomail.NewDialer(s.config.SMTPHost, s.config.SMTPPort, s.config.SMTPUsername, s.config.SMTPPassword)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *Service) buildDigestHTML(digest *models.Digest) (string, error) {
	tmpl := `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Scam Report Digest</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; }
        .header { background-color: #b91c1c; color: white; padding: 20px; border-radius: 5px; }
        .summary { background-color: #f5f5f5; padding: 15px; margin: 20px 0; border-radius: 5px; }
        .report { border-left: 4px solid #b91c1c; padding: 10px; margin: 10px 0; background-color: #fafafa; }
        .report-meta { color: #666; font-size: 0.9em; }
    </style>
</head>
<body>
    <div class="header">
        <h1>Scam Report Digest</h1>
        <p>{{.Period}} digest generated on {{.GeneratedAt.Format "January 2, 2006 at 3:04 PM UTC"}}</p>
    </div>

    <div class="summary">
        <h2>Summary</h2>
        <p><strong>Total Reports:</strong> {{.TotalReports}}</p>
        {{range $level, $count := .RiskBreakdown}}
            <p><strong>{{$level}} Risk:</strong> {{$count}}</p>
        {{end}}
        {{if .TopDomains}}
            <p><strong>Most Reported Domains:</strong> {{join .TopDomains ", "}}</p>
        {{end}}
    </div>

    {{if .Trending}}
    <h2>Trending Reports</h2>
    {{range $index, $report := .Trending}}
        {{if lt $index 10}}
        <div class="report">
            <div class="report-meta">
                {{$report.Type}} | {{$report.Votes}} votes | {{$report.CreatedAt.Format "Jan 2, 2006"}}
                {{if $report.Domain}} | {{$report.Domain}}{{end}}
            </div>
            <p>{{$report.Content | truncate 200}}</p>
        </div>
        {{end}}
    {{end}}
    {{end}}

    <hr>
    <p><small>This digest was generated automatically by ScamWatch.</small></p>
</body>
</html>
`

	t := template.New("digest").Funcs(template.FuncMap{
		"join": strings.Join,
		// pipeline form {{x | truncate n}} passes the piped value last
		"truncate": func(length int, s string) string { return truncate(s, length) },
	})

	t, err := t.Parse(tmpl)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, digest); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (s *Service) buildDigestText(digest *models.Digest) string {
	var text strings.Builder

	text.WriteString(fmt.Sprintf("Scam Report Digest - %s\n", strings.Title(digest.Period)))
	text.WriteString(fmt.Sprintf("Generated: %s\n\n", digest.GeneratedAt.Format("2006-01-02 15:04:05 UTC")))

	text.WriteString("SUMMARY\n")
	text.WriteString("=======\n")
	text.WriteString(fmt.Sprintf("Total Reports: %d\n", digest.TotalReports))
	for _, level := range []string{models.RiskHigh, models.RiskMedium, models.RiskLow} {
		if count, ok := digest.RiskBreakdown[level]; ok {
			text.WriteString(fmt.Sprintf("%s Risk: %d\n", level, count))
		}
	}
	if len(digest.TopDomains) > 0 {
		text.WriteString(fmt.Sprintf("Most Reported Domains: %s\n", strings.Join(digest.TopDomains, ", ")))
	}

	if len(digest.Trending) > 0 {
		text.WriteString("\nTRENDING REPORTS\n")
		text.WriteString("================\n")

		limit := 10
		if len(digest.Trending) < limit {
			limit = len(digest.Trending)
		}
		for i := 0; i < limit; i++ {
			report := digest.Trending[i]
			text.WriteString(fmt.Sprintf("\n%d. [%s] %d votes | %s\n",
				i+1, report.Type, report.Votes, report.CreatedAt.Format("Jan 2, 2006")))
			text.WriteString(fmt.Sprintf("   %s\n", truncate(report.Content, 200)))
		}
	}

	text.WriteString("\n---\nThis digest was generated automatically by ScamWatch.\n")
	return text.String()
}

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length] + "..."
}
