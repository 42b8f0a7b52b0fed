package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"cellquest-service/internal/app"
	"cellquest-service/internal/domain"
	"cellquest-service/internal/quiz"
)

// WSHandler exposes quiz sessions and leaderboard subscriptions over
// websockets.
type WSHandler struct {
	accounts     *app.AccountService
	quizzes      *app.QuizService
	leaderboards *app.LeaderboardService
	log          *zap.Logger
	upgrader     websocket.Upgrader
	tickInterval time.Duration
}

func NewWSHandler(accounts *app.AccountService, quizzes *app.QuizService, leaderboards *app.LeaderboardService, log *zap.Logger) *WSHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &WSHandler{
		accounts:     accounts,
		quizzes:      quizzes,
		leaderboards: leaderboards,
		log:          log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		tickInterval: time.Second,
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	Kind  domain.QuestionKind `json:"kind"`
	Index int                 `json:"index"`
	Bool  bool                `json:"bool"`
	Text  string              `json:"text"`
}

// questionView is the client-safe question shape; correct answers and
// explanations stay on the server until the reveal.
type questionView struct {
	ID      string              `json:"id"`
	Kind    domain.QuestionKind `json:"kind"`
	Prompt  string              `json:"prompt"`
	Options []string            `json:"options,omitempty"`
}

type revealView struct {
	QuestionID  string         `json:"questionId"`
	Selected    *domain.Answer `json:"selected"`
	Correct     domain.Answer  `json:"correct"`
	IsCorrect   bool           `json:"isCorrect"`
	Awarded     int            `json:"awarded"`
	Explanation string         `json:"explanation,omitempty"`
}

type phaseView struct {
	Phase         quiz.Phase    `json:"phase"`
	Remaining     int           `json:"remaining"`
	QuestionIndex int           `json:"questionIndex"`
	QuestionCount int           `json:"questionCount"`
	Score         int           `json:"score"`
	Total         int           `json:"total"`
	Question      *questionView `json:"question,omitempty"`
	Reveal        *revealView   `json:"reveal,omitempty"`
}

type finishedView struct {
	Score      int                      `json:"score"`
	Total      int                      `json:"total"`
	Transcript []domain.TranscriptEntry `json:"transcript"`
	SaveError  string                   `json:"saveError,omitempty"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeQuiz runs one quiz session per connection: the server drives the
// phase machine and streams state; the client sends answers (and advance
// clicks in untimed mode).
func (h *WSHandler) ServeQuiz(w http.ResponseWriter, r *http.Request) {
	activityID := r.URL.Query().Get("activityId")
	username := r.URL.Query().Get("username")
	if activityID == "" || username == "" {
		http.Error(w, "missing activityId or username", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx, stop := context.WithCancel(r.Context())
	defer stop()

	sc, err := h.accounts.Resume(ctx, username)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}

	send := make(chan outboundMessage[any], 32)
	session, err := h.quizzes.Start(ctx, sc, activityID, func(res quiz.Result, saveErr error) {
		view := finishedView{Score: res.Score, Total: res.Total, Transcript: res.Transcript}
		if saveErr != nil {
			// A failed progress write degrades to a user-visible retryable
			// message, never a silently dropped result.
			view.SaveError = saveErr.Error()
		}
		trySend(send, outboundMessage[any]{Type: "finished", Payload: view})
	})
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}

	// Single writer goroutine; everything else posts to send. The channel
	// is never closed, the context tears the writer down.
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-send:
				if err := conn.WriteJSON(msg); err != nil {
					h.log.Debug("ws write error", zap.Error(err))
					return
				}
			}
		}
	}()

	snaps, unsubscribe := session.Subscribe()
	defer unsubscribe()

	runner := quiz.NewRunner(session, h.tickInterval)
	runnerDone := make(chan struct{})
	go func() {
		defer close(runnerDone)
		_ = runner.Run(ctx)
	}()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case snap, ok := <-snaps:
				if !ok {
					return
				}
				trySend(send, outboundMessage[any]{Type: "phase", Payload: phaseViewOf(snap)})
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				trySend(send, outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid answer payload"}})
				continue
			}
			_, err := session.Submit(domain.Answer{
				Kind:  payload.Kind,
				Index: payload.Index,
				Bool:  payload.Bool,
				Text:  payload.Text,
			})
			if err != nil {
				trySend(send, outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}})
			}
		case "advance":
			session.Advance()
		default:
			trySend(send, outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}})
		}
	}

	stop()
	<-runnerDone
	<-writerDone
}

// ServeLeaderboard streams ranked boards to a viewer, recomputed on every
// store change.
func (h *WSHandler) ServeLeaderboard(w http.ResponseWriter, r *http.Request) {
	activityID := r.URL.Query().Get("activityId")
	username := r.URL.Query().Get("username")

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx, stop := context.WithCancel(r.Context())
	defer stop()

	updates, cancel, err := h.leaderboards.Watch(ctx, activityID, username)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer cancel()

	// Reads only detect the client going away.
	go func() {
		defer stop()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case board, ok := <-updates:
			if !ok {
				return
			}
			if err := conn.WriteJSON(outboundMessage[app.RankedBoard]{Type: "leaderboard", Payload: board}); err != nil {
				return
			}
		}
	}
}

func phaseViewOf(snap quiz.Snapshot) phaseView {
	view := phaseView{
		Phase:         snap.Phase,
		Remaining:     snap.Remaining,
		QuestionIndex: snap.QuestionIndex,
		QuestionCount: snap.QuestionCount,
		Score:         snap.Score,
		Total:         snap.Total,
	}
	if snap.Question != nil && (snap.Phase == quiz.PhaseCountdown || snap.Phase == quiz.PhaseQuestion) {
		view.Question = &questionView{
			ID:      snap.Question.ID,
			Kind:    snap.Question.Kind,
			Prompt:  snap.Question.Prompt,
			Options: snap.Question.Options,
		}
	}
	if snap.LastEntry != nil && (snap.Phase == quiz.PhaseAnswer || snap.Phase == quiz.PhaseCorrect) {
		view.Reveal = &revealView{
			QuestionID: snap.LastEntry.QuestionID,
			Selected:   snap.LastEntry.Selected,
			Correct:    snap.LastEntry.Correct,
			IsCorrect:  snap.LastEntry.IsCorrect,
			Awarded:    snap.LastEntry.Awarded,
		}
		if snap.Question != nil {
			view.Reveal.Explanation = snap.Question.Explanation
		}
	}
	return view
}

// trySend never blocks the session; a saturated client just skips frames.
func trySend(send chan outboundMessage[any], msg outboundMessage[any]) {
	select {
	case send <- msg:
	default:
	}
}
