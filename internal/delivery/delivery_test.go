package delivery

import (
	"errors"
	"github.com/asaskevich/EventBus"
	botApi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/maxaizer/job-monitor/internal/config"
	"github.com/maxaizer/job-monitor/internal/entities"
	"github.com/maxaizer/job-monitor/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"strings"
	"sync"
	"testing"
	"time"
)

func posting(id string, source entities.Source, title, company string) entities.Posting {
	return entities.Posting{ID: id, Source: source, Title: title, Company: company, URL: "https://example.com/" + id}
}

func Test_SourceLabel(t *testing.T) {
	assert.Equal(t, "Platsbanken (Arbetsförmedlingen)", SourceLabel("platsbanken"))
	assert.Equal(t, "Hammer & Hanborg", SourceLabel("hammerhanborg"))
	assert.Equal(t, "Nigel Wright", SourceLabel("nigel_wright"))
}

func Test_NewDigest_ShouldGroupBySourceInFirstSeenOrder(t *testing.T) {
	postings := []entities.Posting{
		posting("1", "capa", "VD", "Acme AB"),
		posting("2", "platsbanken", "CFO", "Beta AB"),
		posting("3", "capa", "Interim CFO", "CAPA"),
	}

	digest := NewDigest(postings, time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC))

	assert.Equal(t, 3, digest.Total)
	require.Len(t, digest.Groups, 2)
	assert.Equal(t, "CAPA", digest.Groups[0].Label)
	require.Len(t, digest.Groups[0].Postings, 2)
	assert.Equal(t, "Acme AB", digest.Groups[0].Postings[0].Company)
	assert.Empty(t, digest.Groups[0].Postings[1].Company, "company equal to the label is hidden")
	assert.Equal(t, "Platsbanken (Arbetsförmedlingen)", digest.Groups[1].Label)
	assert.Equal(t, "📋 Job Digest, 02 Mar 2026 (3 new)", digest.Subject())
}

func Test_Digest_Render_ShouldEscapeHTMLAndListEveryPosting(t *testing.T) {
	postings := []entities.Posting{
		posting("1", "wise", "VD <Norr>", "Acme & Co"),
		posting("2", "mason", "Ekonomichef", ""),
	}
	digest := NewDigest(postings, time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC))

	html, err := digest.RenderHTML()
	require.NoError(t, err)
	assert.Contains(t, html, "VD &lt;Norr&gt;")
	assert.Contains(t, html, "Acme &amp; Co")
	assert.Contains(t, html, `href="https://example.com/2"`)
	assert.Contains(t, html, "2 new matching position(s).")

	text, err := digest.RenderText()
	require.NoError(t, err)
	assert.Contains(t, text, "- VD <Norr> (Acme & Co)")
	assert.Contains(t, text, "Mason\n- Ekonomichef\n  https://example.com/2")
}

func Test_Mailer_BuildMessage_ShouldContainBothParts(t *testing.T) {
	mailer := NewMailer(config.SMTPConfig{Host: "smtp.example.com", From: "digest@example.com", FromName: "Nordic Executive List"})

	body, err := mailer.buildMessage(Message{
		To:      []string{"anna@example.se"},
		Subject: "📋 Job Digest",
		HTML:    "<p>hej</p>",
		Text:    "hej",
	})
	require.NoError(t, err)

	msg := string(body)
	assert.Contains(t, msg, "To: anna@example.se\r\n")
	assert.Contains(t, msg, "<digest@example.com>")
	assert.Contains(t, msg, "Subject: =?utf-8?q?")
	assert.Contains(t, msg, "Content-Type: text/plain")
	assert.Contains(t, msg, "Content-Type: text/html")
	assert.True(t, strings.HasSuffix(msg, "--\r\n"))
}

type mockTelegramAPI struct {
	mock.Mock
	mu   sync.Mutex
	sent []botApi.MessageConfig
}

func (m *mockTelegramAPI) Send(chattable botApi.Chattable) (botApi.Message, error) {
	m.mu.Lock()
	m.sent = append(m.sent, chattable.(botApi.MessageConfig))
	m.mu.Unlock()
	args := m.Called(chattable)
	return botApi.Message{}, args.Error(0)
}

func enrichedPostings(n int) []entities.EnrichedPosting {
	result := make([]entities.EnrichedPosting, 0, n)
	for i := 0; i < n; i++ {
		result = append(result, entities.EnrichedPosting{RawPosting: entities.RawPosting{
			ID: string(rune('a' + i)), Title: "VD", Company: "Acme", URL: "https://example.com", Source: "capa",
		}})
	}
	return result
}

func Test_TelegramNotifier_WhenPostingsQueued_ShouldSendChunkedAlerts(t *testing.T) {
	api := &mockTelegramAPI{}
	api.On("Send", mock.Anything).Return(nil)
	bus := EventBus.New()
	_, err := NewTelegramNotifier(api, bus, 1000, 2)
	require.NoError(t, err)

	chatID := int64(42)
	bus.Publish(events.PostingsQueuedTopic, events.PostingsQueued{UserID: "u1", TelegramChatID: &chatID, Postings: enrichedPostings(3)})
	bus.WaitAsync()

	require.Len(t, api.sent, 2)
	assert.Equal(t, chatID, api.sent[0].ChatID)
	assert.Contains(t, api.sent[0].Text, "New matching positions (3)")
	assert.True(t, api.sent[0].DisableWebPagePreview)
}

func Test_TelegramNotifier_WhenNoChatLinked_ShouldSendNothing(t *testing.T) {
	api := &mockTelegramAPI{}
	bus := EventBus.New()
	_, err := NewTelegramNotifier(api, bus, 1000, 10)
	require.NoError(t, err)

	bus.Publish(events.PostingsQueuedTopic, events.PostingsQueued{UserID: "u1", Postings: enrichedPostings(1)})
	bus.WaitAsync()

	api.AssertNotCalled(t, "Send", mock.Anything)
}

func Test_TelegramNotifier_WhenSendFails_ShouldStopForThatEvent(t *testing.T) {
	api := &mockTelegramAPI{}
	api.On("Send", mock.Anything).Return(errors.New("forbidden: bot was blocked by the user"))
	bus := EventBus.New()
	_, err := NewTelegramNotifier(api, bus, 1000, 1)
	require.NoError(t, err)

	chatID := int64(7)
	bus.Publish(events.PostingsQueuedTopic, events.PostingsQueued{UserID: "u1", TelegramChatID: &chatID, Postings: enrichedPostings(3)})
	bus.WaitAsync()

	api.AssertNumberOfCalls(t, "Send", 1)
}
