package delivery

import (
	"context"
	"errors"
	"fmt"
	"github.com/asaskevich/EventBus"
	botApi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/maxaizer/job-monitor/internal/entities"
	"github.com/maxaizer/job-monitor/internal/events"
	"github.com/maxaizer/job-monitor/internal/logger"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"strings"
)

type telegramAPI interface {
	Send(chattable botApi.Chattable) (botApi.Message, error)
}

// TelegramNotifier sends instant alerts to subscribers with a linked chat.
type TelegramNotifier struct {
	api           telegramAPI
	limiter       *rate.Limiter
	maxPerMessage int
}

func NewTelegramAPI(token string) (*botApi.BotAPI, error) {
	api, err := botApi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	log.Infof("Authorized on account %s", api.Self.UserName)

	if err = botApi.SetLogger(log.StandardLogger()); err != nil {
		return nil, err
	}
	return api, nil
}

func NewTelegramNotifier(api telegramAPI, bus EventBus.Bus, maxMessagesPerSecond float64, maxPostingsPerMessage int) (*TelegramNotifier, error) {

	if api == nil {
		return nil, errors.New("telegram api is nil")
	}
	if bus == nil {
		return nil, errors.New("bus is nil")
	}
	if maxMessagesPerSecond <= 0 {
		maxMessagesPerSecond = 1
	}
	if maxPostingsPerMessage <= 0 {
		maxPostingsPerMessage = 10
	}

	notifier := &TelegramNotifier{
		api:           api,
		limiter:       rate.NewLimiter(rate.Limit(maxMessagesPerSecond), 1),
		maxPerMessage: maxPostingsPerMessage,
	}

	err := bus.SubscribeAsync(events.PostingsQueuedTopic, notifier.onPostingsQueued, true)
	if err != nil {
		return nil, err
	}
	return notifier, nil
}

func (n *TelegramNotifier) onPostingsQueued(event events.PostingsQueued) {
	if event.TelegramChatID == nil || len(event.Postings) == 0 {
		return
	}

	for _, chunk := range lo.Chunk(event.Postings, n.maxPerMessage) {
		if err := n.limiter.Wait(context.Background()); err != nil {
			return
		}

		msg := botApi.NewMessage(*event.TelegramChatID, formatAlert(chunk, len(event.Postings)))
		msg.DisableWebPagePreview = true

		if _, err := n.api.Send(msg); err != nil {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeTgApi).
				Errorf("error occurred while sending alert to user %v: %v", event.UserID, err)
			return
		}
	}
}

func formatAlert(postings []entities.EnrichedPosting, total int) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("New matching positions (%d):\n", total))

	for _, posting := range postings {
		sb.WriteString("\n• ")
		sb.WriteString(posting.Title)
		if posting.Company != "" {
			sb.WriteString(", ")
			sb.WriteString(posting.Company)
		}
		if raw, ok := posting.LocationRaw(); ok {
			sb.WriteString(" (")
			sb.WriteString(raw)
			sb.WriteString(")")
		}
		sb.WriteString("\n")
		sb.WriteString(posting.URL)
		sb.WriteString("\n")
	}

	return sb.String()
}
