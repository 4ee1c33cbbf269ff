package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/mroshb/quiz_bot/internal/config"
	"github.com/mroshb/quiz_bot/internal/handlers"
	"github.com/mroshb/quiz_bot/pkg/logger"
)

const (
	workerCount      = 10
	workerQueueSize  = 100
	maxSendRetries   = 3
	privilegeTimeout = 10 * time.Second
)

type Bot struct {
	api    *tgbotapi.BotAPI
	config *config.Config

	handler *handlers.QuizHandler

	// Worker pool for parallel processing
	workerChans []chan tgbotapi.Update
	wg          sync.WaitGroup
	cancel      context.CancelFunc
}

func InitBot(cfg *config.Config) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	if cfg.AppEnv == "development" {
		api.Debug = true
	}

	logger.Info("Authorized on account", "username", api.Self.UserName)

	return &Bot{
		api:    api,
		config: cfg,
	}, nil
}

// Username is the bot account name, used to match "/command@name".
func (b *Bot) Username() string {
	return b.api.Self.UserName
}

// Start runs the update listener and the worker pool until Stop is called.
func (b *Bot) Start(ctx context.Context, handler *handlers.QuizHandler) {
	ctx, b.cancel = context.WithCancel(ctx)
	b.handler = handler

	b.workerChans = make([]chan tgbotapi.Update, workerCount)
	for i := range b.workerChans {
		b.workerChans[i] = make(chan tgbotapi.Update, workerQueueSize)
		b.wg.Add(1)
		go b.startWorker(ctx, b.workerChans[i])
	}

	b.wg.Add(1)
	go b.startUpdateListener(ctx)
}

func (b *Bot) startUpdateListener(ctx context.Context) {
	defer b.wg.Done()
	defer func() {
		for _, ch := range b.workerChans {
			close(ch)
		}
	}()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	for {
		logger.Info("Starting update listener...")
		updates := b.api.GetUpdatesChan(u)

		for update := range updates {
			if update.Message == nil || update.Message.From == nil {
				continue
			}
			// Hashed dispatch keeps each user's messages in order.
			b.workerChans[workerIndex(update.Message.From.ID, len(b.workerChans))] <- update
		}

		if ctx.Err() != nil {
			return
		}

		logger.Warn("Update channel closed. Restarting in 5 seconds...")
		select {
		case <-ctx.Done():
			return
		case <-time.After(5 * time.Second):
		}
	}
}

func (b *Bot) startWorker(ctx context.Context, ch chan tgbotapi.Update) {
	defer b.wg.Done()
	for update := range ch {
		b.handleUpdate(ctx, update)
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Panic in handleUpdate", "error", r)
		}
	}()

	message := update.Message
	if !shouldHandle(message) {
		return
	}

	logger.Debug("Received message",
		"chat_id", message.Chat.ID,
		"user_id", message.From.ID,
		"text_length", len(message.Text),
	)

	b.handler.HandleMessage(ctx, handlers.Incoming{
		ChatID:      message.Chat.ID,
		UserID:      message.From.ID,
		Participant: participantName(message.From),
		Text:        message.Text,
	})
}

// SendMessage sends HTML text, retrying network failures and flood waits.
func (b *Bot) SendMessage(chatID int64, text string) int {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true

	for i := 0; i < maxSendRetries; i++ {
		sentMsg, err := b.api.Send(msg)
		if err == nil {
			return sentMsg.MessageID
		}

		logger.Error("Failed to send message", "error", err, "chat_id", chatID, "attempt", i+1)

		wait, retry := retryDelay(err, i)
		if !retry {
			return 0
		}
		time.Sleep(wait)
	}
	return 0
}

// IsPrivileged reports whether userID may advance or reset the quiz: a
// configured moderator, the group creator, or an administrator allowed to
// delete messages.
func (b *Bot) IsPrivileged(ctx context.Context, chatID, userID int64) bool {
	if b.config.IsModerator(userID) {
		return true
	}
	// Private chats carry no admin rights over the shared quiz.
	if chatID == userID {
		return false
	}

	type result struct {
		member tgbotapi.ChatMember
		err    error
	}
	done := make(chan result, 1)
	go func() {
		member, err := b.api.GetChatMember(tgbotapi.GetChatMemberConfig{
			ChatConfigWithUser: tgbotapi.ChatConfigWithUser{ChatID: chatID, UserID: userID},
		})
		done <- result{member: member, err: err}
	}()

	ctx, cancel := context.WithTimeout(ctx, privilegeTimeout)
	defer cancel()

	select {
	case <-ctx.Done():
		logger.Warn("Privilege check timed out", "chat_id", chatID, "user_id", userID)
		return false
	case res := <-done:
		if res.err != nil {
			logger.Error("Failed to get chat member", "error", res.err, "chat_id", chatID, "user_id", userID)
			return false
		}
		return canModerate(res.member)
	}
}

// Stop ends the update listener and waits for in-flight updates.
func (b *Bot) Stop() {
	if b.cancel != nil {
		b.cancel()
	}
	b.api.StopReceivingUpdates()
	b.wg.Wait()
	logger.Info("Bot stopped receiving updates")
}

func shouldHandle(message *tgbotapi.Message) bool {
	return message != nil &&
		message.From != nil &&
		!message.From.IsBot &&
		message.Chat != nil &&
		strings.TrimSpace(message.Text) != ""
}

func canModerate(member tgbotapi.ChatMember) bool {
	return member.IsCreator() || (member.IsAdministrator() && member.CanDeleteMessages)
}

// participantName is the score-table key: the @username when set,
// otherwise the full name.
func participantName(user *tgbotapi.User) string {
	if user.UserName != "" {
		return "@" + user.UserName
	}
	name := strings.TrimSpace(user.FirstName + " " + user.LastName)
	if name == "" {
		return fmt.Sprintf("user%d", user.ID)
	}
	return name
}

func workerIndex(userID int64, n int) int {
	idx := userID % int64(n)
	if idx < 0 {
		idx = -idx
	}
	return int(idx)
}

// retryDelay decides whether a failed send is worth another attempt.
func retryDelay(err error, attempt int) (time.Duration, bool) {
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.RetryAfter > 0 {
			return time.Duration(apiErr.RetryAfter) * time.Second, true
		}
		return 0, false
	}

	msg := err.Error()
	if strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "network is unreachable") {
		return time.Duration(attempt+1) * time.Second, true
	}
	return 0, false
}
