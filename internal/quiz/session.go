// Package quiz owns the shared quiz session: question progression, answer
// intake and per-participant scores.
package quiz

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mroshb/quiz_bot/internal/filter"
	"github.com/mroshb/quiz_bot/internal/judge"
	"github.com/mroshb/quiz_bot/internal/models"
	apperrors "github.com/mroshb/quiz_bot/pkg/errors"
	"github.com/mroshb/quiz_bot/pkg/logger"
)

// User errors. They never change session state.
var (
	ErrNoQuestions      = apperrors.New(apperrors.ErrCodeNoQuestions, "no questions loaded")
	ErrNoActiveQuestion = apperrors.New(apperrors.ErrCodeNoActiveQuestion, "no active question")
	ErrUseAdvance       = apperrors.New(apperrors.ErrCodeUseAdvance, "first question already passed, use advance instead")
	ErrEmptyAnswer      = apperrors.New(apperrors.ErrCodeEmptyAnswer, "answer text is empty")
	ErrForbidden        = apperrors.New(apperrors.ErrCodeForbidden, "moderator privilege required")
)

type State int

const (
	StateNotStarted State = iota
	StateInProgress
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateInProgress:
		return "in_progress"
	default:
		return "completed"
	}
}

// Outcome tells how an answer submission ended.
type Outcome int

const (
	OutcomeJudged Outcome = iota
	OutcomeRejected
	OutcomeJudgeFailed
)

// QuestionView is a question as shown to participants. Number is 1-based.
type QuestionView struct {
	Number int
	Total  int
	Prompt string
}

type AdvanceResult struct {
	Completed bool
	Question  QuestionView
}

// AnswerResult always carries the official answer, whatever the outcome.
type AnswerResult struct {
	Participant    string
	Outcome        Outcome
	Reason         filter.Reason
	Verdict        judge.Verdict
	Points         int
	Score          int
	OfficialAnswer string
	Question       QuestionView
	// JudgeErr is set for OutcomeJudgeFailed.
	JudgeErr error
	// Discarded is set when a reset happened while the answer was being judged.
	Discarded bool
}

type ScoreEntry struct {
	Participant string
	Score       int
}

type Status struct {
	State State
	Index int
	Total int
}

// Session is safe for concurrent use. Mutations are serialized by mu; the
// judge call runs without holding it.
type Session struct {
	mu         sync.Mutex
	questions  []models.Question
	current    int
	shown      bool
	generation uint64
	scores     map[string]int
	order      []string

	filter       *filter.Filter
	judge        judge.Judge
	judgeTimeout time.Duration
}

// NewSession builds a session over an immutable copy of questions.
// judgeTimeout bounds every judge call; zero leaves it to the judge.
func NewSession(questions []models.Question, f *filter.Filter, j judge.Judge, judgeTimeout time.Duration) *Session {
	qs := make([]models.Question, len(questions))
	copy(qs, questions)
	return &Session{
		questions:    qs,
		scores:       make(map[string]int),
		filter:       f,
		judge:        j,
		judgeTimeout: judgeTimeout,
	}
}

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{State: s.stateLocked(), Index: s.current, Total: len(s.questions)}
}

// ShowFirst returns the first question. It fails once the quiz has advanced.
func (s *Session) ShowFirst() (QuestionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.questions) == 0 {
		return QuestionView{}, ErrNoQuestions
	}
	if s.current > 0 {
		return QuestionView{}, ErrUseAdvance
	}

	s.shown = true
	logger.Info("Quiz question shown", "number", 1, "total", len(s.questions))
	return s.viewLocked(0), nil
}

// Advance moves to the next question. Past the last question it keeps
// reporting completion.
func (s *Session) Advance(privileged bool) (AdvanceResult, error) {
	if !privileged {
		return AdvanceResult{}, ErrForbidden
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.questions) == 0 {
		return AdvanceResult{}, ErrNoQuestions
	}

	s.current++
	s.shown = true

	if s.current >= len(s.questions) {
		logger.Info("Quiz completed", "index", s.current, "total", len(s.questions))
		return AdvanceResult{Completed: true}, nil
	}

	logger.Info("Quiz advanced", "number", s.current+1, "total", len(s.questions))
	return AdvanceResult{Question: s.viewLocked(s.current)}, nil
}

// Reset returns the session to its initial state and clears every score.
func (s *Session) Reset(privileged bool) error {
	if !privileged {
		return ErrForbidden
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = 0
	s.shown = false
	s.scores = make(map[string]int)
	s.order = nil
	s.generation++

	logger.Info("Quiz reset", "generation", s.generation)
	return nil
}

// SubmitAnswer filters, judges and scores raw against the question active
// at submission time. Judge failures are reported through the result, not
// the error.
func (s *Session) SubmitAnswer(ctx context.Context, participant, raw string) (AnswerResult, error) {
	raw = strings.TrimSpace(raw)

	s.mu.Lock()
	if len(s.questions) == 0 {
		s.mu.Unlock()
		return AnswerResult{}, ErrNoQuestions
	}
	if s.stateLocked() != StateInProgress {
		s.mu.Unlock()
		return AnswerResult{}, ErrNoActiveQuestion
	}
	if raw == "" {
		s.mu.Unlock()
		return AnswerResult{}, ErrEmptyAnswer
	}
	question := s.questions[s.current]
	view := s.viewLocked(s.current)
	generation := s.generation
	s.mu.Unlock()

	result := AnswerResult{
		Participant:    participant,
		OfficialAnswer: question.OfficialAnswer,
		Question:       view,
	}

	if reason := s.filter.Check(raw); reason != filter.ReasonNone {
		logger.Info("Answer rejected by filter",
			"participant", participant,
			"question", view.Number,
			"reason", string(reason),
		)
		result.Outcome = OutcomeRejected
		result.Reason = reason
		result.Score = s.scoreOf(participant)
		return result, nil
	}

	start := time.Now()
	text, err := s.evaluate(ctx, judge.Request{
		Question:       question.Prompt,
		OfficialAnswer: question.OfficialAnswer,
		Candidate:      raw,
	})
	if err != nil {
		logger.Warn("Judge failed",
			"participant", participant,
			"question", view.Number,
			"duration", time.Since(start),
			"error", err,
		)
		result.Outcome = OutcomeJudgeFailed
		result.JudgeErr = err
		result.Score = s.scoreOf(participant)
		return result, nil
	}

	verdict := judge.ParseVerdict(text, question.OfficialAnswer)
	result.Outcome = OutcomeJudged
	result.Verdict = verdict

	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation {
		logger.Warn("Discarding verdict judged across a reset",
			"participant", participant,
			"question", view.Number,
		)
		result.Discarded = true
		return result, nil
	}

	if _, ok := s.scores[participant]; !ok {
		s.scores[participant] = 0
		s.order = append(s.order, participant)
	}
	result.Points = verdict.Kind.Points()
	s.scores[participant] += result.Points
	result.Score = s.scores[participant]

	logger.Info("Answer judged",
		"participant", participant,
		"question", view.Number,
		"verdict", verdict.Kind.String(),
		"points", result.Points,
		"duration", time.Since(start),
	)
	return result, nil
}

// ReportScores lists participants by descending score; ties keep first-scored order.
func (s *Session) ReportScores() []ScoreEntry {
	s.mu.Lock()
	entries := make([]ScoreEntry, 0, len(s.order))
	for _, p := range s.order {
		entries = append(entries, ScoreEntry{Participant: p, Score: s.scores[p]})
	}
	s.mu.Unlock()

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	return entries
}

type judgeReply struct {
	text string
	err  error
}

// evaluate bounds the judge call by ctx even if the judge ignores it, and
// turns a panicking judge into an error.
func (s *Session) evaluate(ctx context.Context, req judge.Request) (string, error) {
	if s.judgeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.judgeTimeout)
		defer cancel()
	}

	replies := make(chan judgeReply, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				replies <- judgeReply{err: fmt.Errorf("judge panicked: %v", r)}
			}
		}()
		text, err := s.judge.Evaluate(ctx, req)
		replies <- judgeReply{text: text, err: err}
	}()

	select {
	case reply := <-replies:
		if reply.err == nil && strings.TrimSpace(reply.text) == "" {
			return "", fmt.Errorf("judge returned an empty verdict")
		}
		return reply.text, reply.err
	case <-ctx.Done():
		return "", fmt.Errorf("judge did not respond: %w", ctx.Err())
	}
}

func (s *Session) scoreOf(participant string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scores[participant]
}

func (s *Session) stateLocked() State {
	switch {
	case s.current >= len(s.questions):
		return StateCompleted
	case !s.shown:
		return StateNotStarted
	default:
		return StateInProgress
	}
}

func (s *Session) viewLocked(i int) QuestionView {
	return QuestionView{
		Number: i + 1,
		Total:  len(s.questions),
		Prompt: s.questions[i].Prompt,
	}
}
