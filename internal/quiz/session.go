package quiz

import (
	"sync"
	"time"

	"cellquest-service/internal/domain"
)

// Phase is one state of the quiz session state machine.
type Phase string

const (
	PhaseGreeting  Phase = "greeting"
	PhaseIntro     Phase = "intro"
	PhaseCountdown Phase = "countdown"
	PhaseQuestion  Phase = "question"
	PhaseAnswer    Phase = "answer"
	PhaseCorrect   Phase = "correct"
	PhaseFinished  Phase = "finished"
)

// Dwell holds the per-phase dwell durations in whole seconds. A zero value
// for a phase disables its automatic timeout, which reproduces the older
// untimed click-through flow as a degenerate case.
type Dwell struct {
	Greeting  int `yaml:"greeting"`
	Intro     int `yaml:"intro"`
	Countdown int `yaml:"countdown"`
	Question  int `yaml:"question"`
	Answer    int `yaml:"answer"`
	Correct   int `yaml:"correct"`
}

// DefaultDwell mirrors the pacing of the timed quiz flow.
func DefaultDwell() Dwell {
	return Dwell{Greeting: 5, Intro: 5, Countdown: 3, Question: 10, Answer: 3, Correct: 3}
}

func (d Dwell) of(p Phase) int {
	switch p {
	case PhaseGreeting:
		return d.Greeting
	case PhaseIntro:
		return d.Intro
	case PhaseCountdown:
		return d.Countdown
	case PhaseQuestion:
		return d.Question
	case PhaseAnswer:
		return d.Answer
	case PhaseCorrect:
		return d.Correct
	}
	return 0
}

// Result is the final outcome of a session, reported exactly once when the
// machine reaches the finished phase.
type Result struct {
	ActivityID string
	Score      int
	Total      int
	Transcript []domain.TranscriptEntry
	FinishedAt time.Time
}

// Snapshot is an immutable view of session state, safe to hand to
// subscribers and transports.
type Snapshot struct {
	ActivityID    string
	Phase         Phase
	Remaining     int
	QuestionIndex int
	QuestionCount int
	Question      *domain.Question // set during countdown/question/answer/correct
	LastEntry     *domain.TranscriptEntry
	Score         int
	Total         int
}

// Session advances a quiz through greeting → intro → countdown → question →
// answer → correct → (countdown … | finished). Tick and Submit are the only
// mutators; time is injected so the machine is testable without real timers.
type Session struct {
	mu         sync.Mutex
	activity   domain.Activity
	dwell      Dwell
	now        func() time.Time
	onFinish   func(Result)
	phase      Phase
	remaining  int
	index      int
	selected   *domain.Answer
	answered   bool
	score      int
	transcript []domain.TranscriptEntry
	subs       map[chan Snapshot]struct{}
}

// Option configures a Session.
type Option func(*Session)

// WithDwell overrides the default phase durations.
func WithDwell(d Dwell) Option {
	return func(s *Session) { s.dwell = d }
}

// WithClock injects a time source for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithOnFinish registers the completion callback. It runs outside the
// session lock, on the goroutine whose mutation reached the finished phase.
func WithOnFinish(fn func(Result)) Option {
	return func(s *Session) { s.onFinish = fn }
}

// NewSession builds a session positioned at the greeting phase.
func NewSession(activity domain.Activity, opts ...Option) *Session {
	s := &Session{
		activity: activity,
		dwell:    DefaultDwell(),
		now:      time.Now,
		phase:    PhaseGreeting,
		subs:     make(map[chan Snapshot]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	// An activity without questions has nothing to run; the machine starts
	// finished rather than entering phases whose snapshots need a question.
	if len(activity.Questions) == 0 {
		s.phase = PhaseFinished
	}
	s.remaining = s.dwell.of(s.phase)
	return s
}

// Snapshot returns the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Tick consumes one second of the current phase's dwell. Reaching zero
// advances the machine regardless of user action: the timer always fires.
// Phases with zero dwell ignore ticks.
func (s *Session) Tick() Snapshot {
	return s.tick(false, "")
}

// TickIn consumes one second only while the machine is still in phase p.
// A countdown that outlived its phase becomes a no-op instead of shaving
// time off the successor's dwell.
func (s *Session) TickIn(p Phase) Snapshot {
	return s.tick(true, p)
}

func (s *Session) tick(match bool, p Phase) Snapshot {
	s.mu.Lock()
	if (match && s.phase != p) || s.phase == PhaseFinished || s.dwell.of(s.phase) == 0 {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap
	}
	s.remaining--
	var fire *Result
	if s.remaining <= 0 {
		fire = s.advanceLocked()
	}
	snap := s.broadcastLocked()
	s.mu.Unlock()
	s.fire(fire)
	return snap
}

// Submit locks in the participant's answer and moves straight to the reveal.
// Valid only in the question phase; a second submission for the same
// question is rejected, answers are immutable once recorded.
func (s *Session) Submit(ans domain.Answer) (Snapshot, error) {
	s.mu.Lock()
	if s.phase == PhaseFinished {
		s.mu.Unlock()
		return Snapshot{}, domain.ErrSessionFinished
	}
	if s.phase != PhaseQuestion {
		s.mu.Unlock()
		return Snapshot{}, domain.ErrNotAcceptingAnswers
	}
	if s.answered {
		s.mu.Unlock()
		return Snapshot{}, domain.ErrAlreadyAnswered
	}
	s.selected = &ans
	s.answered = true
	fire := s.advanceLocked()
	snap := s.broadcastLocked()
	s.mu.Unlock()
	s.fire(fire)
	return snap, nil
}

// Advance forces the transition out of the current phase. It exists for the
// untimed flow where the client clicks through phases with zero dwell;
// leaving the question phase this way records a nil selection.
func (s *Session) Advance() Snapshot {
	s.mu.Lock()
	if s.phase == PhaseFinished {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap
	}
	fire := s.advanceLocked()
	snap := s.broadcastLocked()
	s.mu.Unlock()
	s.fire(fire)
	return snap
}

// Subscribe returns a channel receiving a snapshot after every mutation,
// primed with the current state. The cancel function must be called to
// release the subscription.
func (s *Session) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 16)

	s.mu.Lock()
	s.subs[ch] = struct{}{}
	initial := s.snapshotLocked()
	s.mu.Unlock()

	ch <- initial

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subs[ch]; ok {
			delete(s.subs, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

// Transcript returns a copy of the answered-question record so far.
func (s *Session) Transcript() []domain.TranscriptEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.TranscriptEntry, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// advanceLocked performs one transition and returns a Result to fire when
// the finished phase was just entered.
func (s *Session) advanceLocked() *Result {
	switch s.phase {
	case PhaseGreeting:
		s.enterLocked(PhaseIntro)
	case PhaseIntro:
		s.enterLocked(PhaseCountdown)
	case PhaseCountdown:
		s.enterLocked(PhaseQuestion)
	case PhaseQuestion:
		s.recordLocked()
		s.enterLocked(PhaseAnswer)
	case PhaseAnswer:
		s.enterLocked(PhaseCorrect)
	case PhaseCorrect:
		if s.index+1 < len(s.activity.Questions) {
			s.index++
			s.selected = nil
			s.answered = false
			s.enterLocked(PhaseCountdown)
			return nil
		}
		s.enterLocked(PhaseFinished)
		res := Result{
			ActivityID: s.activity.ID,
			Score:      s.score,
			Total:      s.activity.TotalPoints(),
			Transcript: append([]domain.TranscriptEntry(nil), s.transcript...),
			FinishedAt: s.now(),
		}
		return &res
	}
	return nil
}

func (s *Session) enterLocked(p Phase) {
	s.phase = p
	s.remaining = s.dwell.of(p)
}

// recordLocked scores the pending selection and appends the transcript
// entry. A nil selection (timeout) still produces an entry, marked
// incorrect.
func (s *Session) recordLocked() {
	q := s.activity.Questions[s.index]
	correct := q.Check(s.selected)
	awarded := 0
	if correct {
		awarded = q.PointValue()
		s.score += awarded
	}
	s.transcript = append(s.transcript, domain.TranscriptEntry{
		QuestionID: q.ID,
		Selected:   s.selected,
		Correct:    q.CorrectAnswer(),
		IsCorrect:  correct,
		Awarded:    awarded,
	})
}

func (s *Session) fire(res *Result) {
	if res != nil && s.onFinish != nil {
		s.onFinish(*res)
	}
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		ActivityID:    s.activity.ID,
		Phase:         s.phase,
		Remaining:     s.remaining,
		QuestionIndex: s.index,
		QuestionCount: len(s.activity.Questions),
		Score:         s.score,
		Total:         s.activity.TotalPoints(),
	}
	switch s.phase {
	case PhaseCountdown, PhaseQuestion, PhaseAnswer, PhaseCorrect:
		q := s.activity.Questions[s.index]
		snap.Question = &q
	}
	if len(s.transcript) > 0 {
		last := s.transcript[len(s.transcript)-1]
		snap.LastEntry = &last
	}
	return snap
}

func (s *Session) broadcastLocked() Snapshot {
	snap := s.snapshotLocked()
	for ch := range s.subs {
		select {
		case ch <- snap:
		default:
			// Drop the oldest pending snapshot so a slow subscriber never
			// stalls the machine.
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
	return snap
}
