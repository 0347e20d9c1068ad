package quiz

import (
	"fmt"

	"github.com/otabek-dev/poytaxt_bot/internal/models"
	"github.com/otabek-dev/poytaxt_bot/pkg/errors"
)

// FactSource provides the reference set the quiz draws questions from.
type FactSource interface {
	AllFacts() ([]models.CapitalFact, error)
}

// Engine drives the per-user quiz state machine: count selection, question
// loop, scoring and the final summary. It is not internally thread-safe for
// a single user; the caller must deliver one user's events in order.
type Engine struct {
	facts       FactSource
	gen         *Generator
	store       *SessionStore
	countMenu   []int
	distractors int
}

func NewEngine(facts FactSource, gen *Generator, store *SessionStore, countMenu []int, distractors int) *Engine {
	return &Engine{
		facts:       facts,
		gen:         gen,
		store:       store,
		countMenu:   countMenu,
		distractors: distractors,
	}
}

// CountMenu emits the question-count selection prompt. Any stale session for
// the user is discarded so /test always starts clean.
func (e *Engine) CountMenu(userID int64) Message {
	e.store.Clear(userID)

	options := make([]Option, 0, len(e.countMenu))
	for _, n := range e.countMenu {
		options = append(options, Option{
			Label: fmt.Sprintf(countLabelFormat, n),
			Data:  CountToken(n),
		})
	}
	return Message{Text: MsgSelectCount, Options: options}
}

// StartQuiz creates a session for the selected count and emits the first
// question. A count outside the offered menu leaves the user without a
// session.
func (e *Engine) StartQuiz(userID int64, count int) ([]Message, error) {
	if !e.countOffered(count) {
		return nil, errors.New(errors.ErrCodeInvalidSession,
			fmt.Sprintf("question count %d is not offered", count))
	}

	e.store.Create(userID, count)

	msg, err := e.advance(userID)
	if err != nil {
		return nil, err
	}
	return []Message{msg}, nil
}

// SubmitAnswer scores the in-flight question and either emits the next one
// or finishes the session. The correct answer travels with the callback
// token, so scoring never touches the reference set.
func (e *Engine) SubmitAnswer(userID int64, chosen, correctAtSend string) ([]Message, error) {
	session, ok := e.store.Get(userID)
	if !ok || session.Phase != PhaseInQuestion {
		return nil, errors.New(errors.ErrCodeUnknownSession, "no quiz in progress")
	}

	var feedback Message
	if chosen == correctAtSend {
		session.CorrectCount++
		feedback = Message{Text: MsgCorrect}
	} else {
		feedback = Message{Text: fmt.Sprintf(incorrectFormat, correctAtSend)}
	}
	session.PendingAnswer = ""

	next, err := e.advance(userID)
	if err != nil {
		return nil, err
	}
	return []Message{feedback, next}, nil
}

// Stop clears the user's session and emits the stop acknowledgement.
func (e *Engine) Stop(userID int64) Message {
	e.store.Clear(userID)
	return Message{Text: MsgStopped}
}

// HasSession reports whether the user has a quiz in progress.
func (e *Engine) HasSession(userID int64) bool {
	_, ok := e.store.Get(userID)
	return ok
}

// advance either sends the next question or, once every question has been
// answered, emits the summary and destroys the session. Any failure also
// destroys the session so the user never gets stuck mid-quiz.
func (e *Engine) advance(userID int64) (Message, error) {
	session, ok := e.store.Get(userID)
	if !ok {
		return Message{}, errors.New(errors.ErrCodeUnknownSession, "no quiz in progress")
	}

	if session.AnsweredCount >= session.TotalQuestions {
		return e.finish(userID, session)
	}

	facts, err := e.facts.AllFacts()
	if err != nil {
		e.store.Clear(userID)
		return Message{}, err
	}

	question, err := e.gen.NextQuestion(facts, e.distractors)
	if err != nil {
		e.store.Clear(userID)
		return Message{}, errors.Wrap(err, errors.ErrCodeGenerationFailed, "failed to build question")
	}

	session.AnsweredCount++
	session.PendingAnswer = question.CorrectAnswer
	session.Phase = PhaseInQuestion

	options := make([]Option, 0, len(question.Options))
	for _, opt := range question.Options {
		options = append(options, Option{
			Label: opt,
			Data:  AnswerToken(opt, question.CorrectAnswer),
		})
	}

	return Message{
		Text:    fmt.Sprintf(questionFormat, session.AnsweredCount, question.Country),
		Options: options,
	}, nil
}

func (e *Engine) finish(userID int64, session *Session) (Message, error) {
	// Not reachable through the count menu, but guard the division anyway.
	if session.TotalQuestions <= 0 {
		e.store.Clear(userID)
		return Message{}, errors.New(errors.ErrCodeInvalidSession, "session has zero questions")
	}

	session.Phase = PhaseFinished
	session.PendingAnswer = ""

	percentage := float64(session.CorrectCount) / float64(session.TotalQuestions) * 100
	summary := Message{
		Text: fmt.Sprintf(summaryFormat, session.TotalQuestions, session.CorrectCount, percentage),
	}

	e.store.Clear(userID)
	return summary, nil
}

func (e *Engine) countOffered(count int) bool {
	if count <= 0 {
		return false
	}
	for _, n := range e.countMenu {
		if n == count {
			return true
		}
	}
	return false
}
