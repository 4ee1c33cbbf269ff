package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mroshb/quiz_bot/internal/judge"
	"github.com/mroshb/quiz_bot/internal/middleware"
	"github.com/mroshb/quiz_bot/internal/quiz"
	"github.com/mroshb/quiz_bot/internal/security"
	"github.com/mroshb/quiz_bot/internal/segment"
	apperrors "github.com/mroshb/quiz_bot/pkg/errors"
	"github.com/mroshb/quiz_bot/pkg/logger"
)

// Sender delivers HTML parse-mode text to a chat and returns the message id,
// or 0 when delivery failed.
type Sender interface {
	SendMessage(chatID int64, text string) int
}

// Authorizer decides whether a user may advance or reset the quiz in a chat.
type Authorizer interface {
	IsPrivileged(ctx context.Context, chatID, userID int64) bool
}

// Incoming is a chat message as seen by the dispatcher.
type Incoming struct {
	ChatID int64
	UserID int64
	// Participant is the score-table name of the author.
	Participant string
	Text        string
}

type QuizHandler struct {
	session      *quiz.Session
	limiter      *middleware.RateLimiter
	auth         Authorizer
	sender       Sender
	botName      string
	segmentLimit int
}

func NewQuizHandler(
	session *quiz.Session,
	limiter *middleware.RateLimiter,
	auth Authorizer,
	sender Sender,
	botName string,
	segmentLimit int,
) *QuizHandler {
	return &QuizHandler{
		session:      session,
		limiter:      limiter,
		auth:         auth,
		sender:       sender,
		botName:      botName,
		segmentLimit: segmentLimit,
	}
}

// HandleMessage runs msg if it is a quiz command and reports whether it was one.
func (h *QuizHandler) HandleMessage(ctx context.Context, msg Incoming) bool {
	cmd, args := ParseCommand(msg.Text, h.botName)
	if cmd == CmdNone {
		return false
	}

	logger.Debug("Quiz command",
		"command", cmd.String(),
		"chat_id", msg.ChatID,
		"user_id", msg.UserID,
	)

	switch cmd {
	case CmdShow:
		h.showFirst(msg)
	case CmdAnswer:
		h.answer(ctx, msg, args)
	case CmdAdvance:
		h.advance(ctx, msg)
	case CmdScores:
		h.scores(msg)
	case CmdReset:
		h.reset(ctx, msg)
	case CmdHelp:
		h.reply(msg.ChatID, MsgHelp)
	}
	return true
}

func (h *QuizHandler) showFirst(msg Incoming) {
	view, err := h.session.ShowFirst()
	if err != nil {
		h.replyError(msg.ChatID, err, "")
		return
	}
	h.reply(msg.ChatID, fmt.Sprintf(MsgShowQuestion, view.Number, view.Total, security.SanitizeHTML(view.Prompt)))
}

func (h *QuizHandler) advance(ctx context.Context, msg Incoming) {
	res, err := h.session.Advance(h.auth.IsPrivileged(ctx, msg.ChatID, msg.UserID))
	if err != nil {
		h.replyError(msg.ChatID, err, MsgForbiddenAdvance)
		return
	}
	if res.Completed {
		h.reply(msg.ChatID, MsgQuizCompleted)
		return
	}
	q := res.Question
	h.reply(msg.ChatID, fmt.Sprintf(MsgAdvanceQuestion, q.Number, q.Total, security.SanitizeHTML(q.Prompt)))
}

func (h *QuizHandler) reset(ctx context.Context, msg Incoming) {
	if err := h.session.Reset(h.auth.IsPrivileged(ctx, msg.ChatID, msg.UserID)); err != nil {
		h.replyError(msg.ChatID, err, MsgForbiddenReset)
		return
	}
	if h.limiter != nil {
		h.limiter.Reset()
	}
	h.reply(msg.ChatID, MsgQuizReset)
}

func (h *QuizHandler) scores(msg Incoming) {
	h.reply(msg.ChatID, FormatScores(h.session.ReportScores()))
}

func (h *QuizHandler) answer(ctx context.Context, msg Incoming, text string) {
	if h.limiter != nil && !h.limiter.CheckUserLimit(msg.UserID) {
		wait := h.limiter.RetryAfter(msg.UserID)
		logger.Warn("Answer rate limited", "user_id", msg.UserID, "retry_after", wait)
		h.replyError(msg.ChatID, apperrors.New(apperrors.ErrCodeRateLimitExceeded, "too many answers"), "",
			int((wait+time.Second-1)/time.Second))
		return
	}
	if h.limiter != nil {
		logger.Debug("Answer accepted by rate limiter", "user_id", msg.UserID, "remaining", h.limiter.GetUserRemaining(msg.UserID))
	}

	res, err := h.session.SubmitAnswer(ctx, msg.Participant, text)
	if err != nil {
		h.replyError(msg.ChatID, err, "")
		return
	}

	h.reply(msg.ChatID, FormatAnswer(mention(msg), text, res))
}

// FormatAnswer renders the chat reply for an answer result. The official
// answer is present whatever the outcome.
func FormatAnswer(who, answer string, res quiz.AnswerResult) string {
	official := fmt.Sprintf(MsgOfficialAnswer, security.SanitizeHTML(res.OfficialAnswer))

	switch {
	case res.Outcome == quiz.OutcomeRejected:
		return fmt.Sprintf(MsgAnswerRejected, who, security.SanitizeHTML(security.SanitizeString(answer, security.MaxEchoLength))) + official
	case res.Outcome == quiz.OutcomeJudgeFailed:
		return fmt.Sprintf(MsgJudgeFailed, who) + official
	case res.Discarded:
		return fmt.Sprintf(MsgVerdictDiscarded, who) + official
	}

	// The verdict text already ends with the official answer.
	header := fmt.Sprintf(MsgVerdictHeader, verdictEmoji(res.Verdict.Kind), who, res.Points)
	return header + security.SanitizeHTML(res.Verdict.Text)
}

// FormatScores renders the score report, medals for the first three places.
func FormatScores(entries []quiz.ScoreEntry) string {
	if len(entries) == 0 {
		return MsgNoScores
	}

	var b strings.Builder
	b.WriteString(MsgScoresHeader)
	for i, entry := range entries {
		marker := scoreMarker
		if i < len(scoreMedals) {
			marker = scoreMedals[i]
		}
		fmt.Fprintf(&b, MsgScoreLine, marker, security.SanitizeHTML(entry.Participant), entry.Score)
	}
	return b.String()
}

func verdictEmoji(kind judge.Kind) string {
	switch kind {
	case judge.Correct:
		return "✅"
	case judge.Partial:
		return "⚠️"
	default:
		return "❌"
	}
}

func mention(msg Incoming) string {
	return fmt.Sprintf(`<a href="tg://user?id=%d"><b>%s</b></a>`, msg.UserID, security.DisplayName(msg.Participant))
}

// replyError maps a session error to its chat message. forbidden is used
// for privilege failures, which read differently per command.
func (h *QuizHandler) replyError(chatID int64, err error, forbidden string, args ...interface{}) {
	var text string
	switch apperrors.CodeOf(err) {
	case apperrors.ErrCodeNoQuestions:
		text = MsgNoQuestions
	case apperrors.ErrCodeNoActiveQuestion:
		text = MsgNoActiveQuestion
	case apperrors.ErrCodeUseAdvance:
		text = MsgUseAdvance
	case apperrors.ErrCodeEmptyAnswer:
		text = MsgEmptyAnswer
	case apperrors.ErrCodeForbidden:
		text = forbidden
	case apperrors.ErrCodeRateLimitExceeded:
		text = fmt.Sprintf(MsgRateLimited, args...)
	}

	if text == "" {
		logger.Error("Unhandled quiz error", "chat_id", chatID, "error", err)
		text = MsgInternalError
	}
	h.reply(chatID, text)
}

// reply sends text, split into continuation-marked segments when long.
func (h *QuizHandler) reply(chatID int64, text string) {
	parts := segment.WithContinuation(segment.Split(text, h.segmentLimit), segment.ContinuationMarker)
	for i, part := range parts {
		if h.sender.SendMessage(chatID, part) == 0 {
			logger.Warn("Failed to deliver reply segment", "chat_id", chatID, "segment", i+1, "of", len(parts))
			return
		}
	}
}
