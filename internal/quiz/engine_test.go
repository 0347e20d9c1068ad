package quiz

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/otabek-dev/poytaxt_bot/internal/models"
	"github.com/otabek-dev/poytaxt_bot/pkg/errors"
)

type staticFacts []models.CapitalFact

func (s staticFacts) AllFacts() ([]models.CapitalFact, error) {
	if len(s) == 0 {
		return nil, errors.New(errors.ErrCodeNoData, "no capitals in reference set")
	}
	return s, nil
}

func newTestEngine(facts []models.CapitalFact, seed int64) *Engine {
	return NewEngine(
		staticFacts(facts),
		NewGeneratorWithSource(rand.NewSource(seed)),
		NewSessionStore(),
		[]int{5, 10, 15},
		3,
	)
}

// correctFromQuestion recovers the correct answer from the answer tokens of
// an emitted question message.
func correctFromQuestion(t *testing.T, msg Message) string {
	t.Helper()
	if len(msg.Options) == 0 {
		t.Fatalf("message has no options: %+v", msg)
	}
	_, correct, err := ParseAnswerToken(msg.Options[0].Data)
	if err != nil {
		t.Fatalf("bad answer token %q: %v", msg.Options[0].Data, err)
	}
	return correct
}

func checkInvariants(t *testing.T, e *Engine, userID int64) {
	t.Helper()
	session, ok := e.store.Get(userID)
	if !ok {
		return
	}
	if session.CorrectCount < 0 || session.CorrectCount > session.AnsweredCount {
		t.Fatalf("invariant violated: correct=%d answered=%d", session.CorrectCount, session.AnsweredCount)
	}
	if session.AnsweredCount > session.TotalQuestions {
		t.Fatalf("invariant violated: answered=%d total=%d", session.AnsweredCount, session.TotalQuestions)
	}
	if (session.PendingAnswer != "") != (session.Phase == PhaseInQuestion) {
		t.Fatalf("invariant violated: pending=%q phase=%q", session.PendingAnswer, session.Phase)
	}
}

func TestEngine_CountMenu(t *testing.T) {
	e := newTestEngine(referenceFacts(), 1)

	msg := e.CountMenu(1)
	if msg.Text != MsgSelectCount {
		t.Errorf("Text = %q, want %q", msg.Text, MsgSelectCount)
	}
	if len(msg.Options) != 3 {
		t.Fatalf("len(Options) = %d, want 3", len(msg.Options))
	}
	if msg.Options[0].Data != "count_5" || msg.Options[2].Data != "count_15" {
		t.Errorf("option tokens = %+v", msg.Options)
	}
}

func TestEngine_AllCorrect(t *testing.T) {
	// Scenario: 5 questions, always the correct option -> 5/5, 100.0%.
	e := newTestEngine(referenceFacts(), 7)
	const userID int64 = 42

	msgs, err := e.StartQuiz(userID, 5)
	if err != nil {
		t.Fatalf("StartQuiz() error = %v", err)
	}
	checkInvariants(t, e, userID)

	question := msgs[0]
	var summary Message
	for i := 0; i < 5; i++ {
		correct := correctFromQuestion(t, question)
		out, err := e.SubmitAnswer(userID, correct, correct)
		if err != nil {
			t.Fatalf("SubmitAnswer() #%d error = %v", i+1, err)
		}
		checkInvariants(t, e, userID)

		if out[0].Text != MsgCorrect {
			t.Errorf("feedback = %q, want %q", out[0].Text, MsgCorrect)
		}
		if i < 4 {
			question = out[1]
		} else {
			summary = out[1]
		}
	}

	if !strings.Contains(summary.Text, "100.0%") {
		t.Errorf("summary = %q, want it to report 100.0%%", summary.Text)
	}
	if !strings.Contains(summary.Text, "<b>5</b> ta savoldan <b>5</b> tasiga") {
		t.Errorf("summary = %q, want 5 of 5", summary.Text)
	}
	if e.HasSession(userID) {
		t.Error("session still present after finish")
	}
}

func TestEngine_MixedAnswers(t *testing.T) {
	// Scenario: 5 questions, 2 correct and 3 wrong -> 40.0%.
	e := newTestEngine(referenceFacts(), 11)
	const userID int64 = 43

	msgs, err := e.StartQuiz(userID, 5)
	if err != nil {
		t.Fatalf("StartQuiz() error = %v", err)
	}

	question := msgs[0]
	var summary Message
	for i := 0; i < 5; i++ {
		correct := correctFromQuestion(t, question)

		chosen := correct
		if i >= 2 {
			chosen = "Notog'ri Shahar"
		}

		out, err := e.SubmitAnswer(userID, chosen, correct)
		if err != nil {
			t.Fatalf("SubmitAnswer() #%d error = %v", i+1, err)
		}
		checkInvariants(t, e, userID)

		if i >= 2 && !strings.Contains(out[0].Text, correct) {
			t.Errorf("incorrect feedback %q does not name %q", out[0].Text, correct)
		}
		if i < 4 {
			question = out[1]
		} else {
			summary = out[1]
		}
	}

	if !strings.Contains(summary.Text, "40.0%") {
		t.Errorf("summary = %q, want it to report 40.0%%", summary.Text)
	}
	if !strings.Contains(summary.Text, "<b>5</b> ta savoldan <b>2</b> tasiga") {
		t.Errorf("summary = %q, want 2 of 5", summary.Text)
	}
}

func TestEngine_StopMidQuiz(t *testing.T) {
	// Scenario: /stop while a question is open, then a late answer callback.
	e := newTestEngine(referenceFacts(), 13)
	const userID int64 = 44

	if _, err := e.StartQuiz(userID, 5); err != nil {
		t.Fatalf("StartQuiz() error = %v", err)
	}

	ack := e.Stop(userID)
	if ack.Text != MsgStopped {
		t.Errorf("stop ack = %q, want %q", ack.Text, MsgStopped)
	}
	if e.HasSession(userID) {
		t.Fatal("session survived Stop")
	}

	_, err := e.SubmitAnswer(userID, "Parij", "Parij")
	if err == nil {
		t.Fatal("SubmitAnswer() after Stop expected error, got nil")
	}
	if code := errors.CodeOf(err); code != errors.ErrCodeUnknownSession {
		t.Errorf("error code = %q, want %q", code, errors.ErrCodeUnknownSession)
	}
}

func TestEngine_SmallReferenceSet(t *testing.T) {
	// Scenario: 3 reference rows -> 3 options per question, no failures.
	e := newTestEngine(referenceFacts()[:3], 17)
	const userID int64 = 45

	msgs, err := e.StartQuiz(userID, 5)
	if err != nil {
		t.Fatalf("StartQuiz() error = %v", err)
	}

	question := msgs[0]
	for i := 0; i < 5; i++ {
		if len(question.Options) != 3 {
			t.Fatalf("question #%d options = %d, want 3", i+1, len(question.Options))
		}
		correct := correctFromQuestion(t, question)
		out, err := e.SubmitAnswer(userID, correct, correct)
		if err != nil {
			t.Fatalf("SubmitAnswer() #%d error = %v", i+1, err)
		}
		if i < 4 {
			question = out[1]
		}
	}
}

func TestEngine_RejectsBadCount(t *testing.T) {
	// Scenario: count outside the menu leaves the user without a session.
	e := newTestEngine(referenceFacts(), 19)
	const userID int64 = 46

	for _, count := range []int{0, -5, 7, 100} {
		_, err := e.StartQuiz(userID, count)
		if err == nil {
			t.Fatalf("StartQuiz(count=%d) expected error, got nil", count)
		}
		if code := errors.CodeOf(err); code != errors.ErrCodeInvalidSession {
			t.Errorf("StartQuiz(count=%d) code = %q, want %q", count, code, errors.ErrCodeInvalidSession)
		}
		if e.HasSession(userID) {
			t.Errorf("StartQuiz(count=%d) created a session", count)
		}
	}
}

func TestEngine_ZeroTotalGuard(t *testing.T) {
	e := newTestEngine(referenceFacts(), 23)
	const userID int64 = 47

	// Forge a broken session: zero questions but already in flight.
	session := e.store.Create(userID, 0)
	session.Phase = PhaseInQuestion
	session.PendingAnswer = "Parij"

	_, err := e.SubmitAnswer(userID, "Parij", "Parij")
	if err == nil {
		t.Fatal("SubmitAnswer() expected zero-division guard error, got nil")
	}
	if code := errors.CodeOf(err); code != errors.ErrCodeInvalidSession {
		t.Errorf("error code = %q, want %q", code, errors.ErrCodeInvalidSession)
	}
	if e.HasSession(userID) {
		t.Error("broken session not cleared")
	}
}

func TestEngine_EmptyReferenceSet(t *testing.T) {
	e := newTestEngine(nil, 29)
	const userID int64 = 48

	_, err := e.StartQuiz(userID, 5)
	if err == nil {
		t.Fatal("StartQuiz() expected error for empty reference set, got nil")
	}
	if code := errors.CodeOf(err); code != errors.ErrCodeNoData {
		t.Errorf("error code = %q, want %q", code, errors.ErrCodeNoData)
	}
	if e.HasSession(userID) {
		t.Error("session left behind after generation failure")
	}
}

func TestEngine_CountMenuClearsStaleSession(t *testing.T) {
	e := newTestEngine(referenceFacts(), 31)
	const userID int64 = 49

	if _, err := e.StartQuiz(userID, 5); err != nil {
		t.Fatalf("StartQuiz() error = %v", err)
	}
	e.CountMenu(userID)

	if e.HasSession(userID) {
		t.Error("stale session survived a fresh /test")
	}
}
