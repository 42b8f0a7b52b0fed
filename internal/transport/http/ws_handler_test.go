package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"cellquest-service/internal/app"
	"cellquest-service/internal/content"
	"cellquest-service/internal/domain"
	"cellquest-service/internal/quiz"
	"cellquest-service/internal/store/memstore"
)

func newTestServer(t *testing.T) (*httptest.Server, *memstore.Store) {
	t.Helper()
	st := memstore.New()
	accounts := app.NewAccountService(st, nil)
	if _, err := accounts.Register(context.Background(), "alice", ""); err != nil {
		t.Fatalf("register: %v", err)
	}

	catalog := repositoryOf(content.NewStaticLoader(map[string]domain.Activity{
		"activity1": {
			ID:           "activity1",
			LessonID:     "lesson1",
			NextLessonID: "lesson2",
			Questions: []domain.Question{
				{ID: "q1", Kind: domain.MultipleChoice, Prompt: "What is 2 + 2?",
					Options: []string{"3", "4", "5"}, CorrectIndex: 1, Points: 2},
			},
		},
	}))
	progress := app.NewProgressService(st, catalog, nil)
	// Zero dwell keeps the flow click-driven and the test deterministic.
	quizzes := app.NewQuizService(catalog, progress, quiz.Dwell{}, nil)
	leaderboards := app.NewLeaderboardService(st, nil)
	handler := NewWSHandler(accounts, quizzes, leaderboards, nil)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws/quiz", handler.ServeQuiz)
	mux.HandleFunc("/ws/leaderboard", handler.ServeLeaderboard)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, st
}

func repositoryOf(loader content.Loader) app.ActivityRepository {
	return content.NewRepository(loader, time.Minute)
}

func dialWS(t *testing.T, server *httptest.Server, path string) *websocket.Conn {
	t.Helper()
	u := "ws" + server.URL[len("http"):] + path
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", path, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

type rawMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func readUntil(t *testing.T, conn *websocket.Conn, msgType string) rawMessage {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for i := 0; i < 100; i++ {
		var msg rawMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read json waiting for %s: %v", msgType, err)
		}
		if msg.Type == "error" && msgType != "error" {
			t.Fatalf("unexpected error frame: %s", msg.Payload)
		}
		if msg.Type == msgType {
			return msg
		}
	}
	t.Fatalf("never received %s", msgType)
	return rawMessage{}
}

func sendMsg(t *testing.T, conn *websocket.Conn, msgType string, payload any) {
	t.Helper()
	if err := conn.WriteJSON(map[string]any{"type": msgType, "payload": payload}); err != nil {
		t.Fatalf("write %s: %v", msgType, err)
	}
}

func TestQuizFlowOverWebSocket(t *testing.T) {
	server, st := newTestServer(t)
	conn := dialWS(t, server, "/ws/quiz?activityId=activity1&username=alice")

	readPhase := func(want quiz.Phase) phaseView {
		t.Helper()
		for {
			msg := readUntil(t, conn, "phase")
			var view phaseView
			if err := json.Unmarshal(msg.Payload, &view); err != nil {
				t.Fatalf("unmarshal phase: %v", err)
			}
			if view.Phase == want {
				return view
			}
		}
	}

	readPhase(quiz.PhaseGreeting)
	sendMsg(t, conn, "advance", nil)
	readPhase(quiz.PhaseIntro)
	sendMsg(t, conn, "advance", nil)
	readPhase(quiz.PhaseCountdown)
	sendMsg(t, conn, "advance", nil)

	question := readPhase(quiz.PhaseQuestion)
	if question.Question == nil || question.Question.Prompt != "What is 2 + 2?" {
		t.Fatalf("expected question payload, got %+v", question.Question)
	}

	sendMsg(t, conn, "answer", map[string]any{"kind": "multiple-choice", "index": 1})
	reveal := readPhase(quiz.PhaseAnswer)
	if reveal.Reveal == nil || !reveal.Reveal.IsCorrect || reveal.Reveal.Awarded != 2 {
		t.Fatalf("expected correct reveal worth 2, got %+v", reveal.Reveal)
	}

	sendMsg(t, conn, "advance", nil)
	readPhase(quiz.PhaseCorrect)
	sendMsg(t, conn, "advance", nil)

	finishedMsg := readUntil(t, conn, "finished")
	var finished finishedView
	if err := json.Unmarshal(finishedMsg.Payload, &finished); err != nil {
		t.Fatalf("unmarshal finished: %v", err)
	}
	if finished.Score != 2 || finished.Total != 2 || finished.SaveError != "" {
		t.Fatalf("unexpected finish %+v", finished)
	}
	if len(finished.Transcript) != 1 {
		t.Fatalf("expected transcript length 1, got %d", len(finished.Transcript))
	}

	// The completion made it to the store.
	deadline := time.Now().Add(2 * time.Second)
	for {
		var rec domain.CompletionRecord
		if err := st.Get(context.Background(), "users/alice/completedLessons/lesson1", &rec); err == nil {
			if !rec.Completed || rec.Score != 2 {
				t.Fatalf("unexpected completion record %+v", rec)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("completion record never written")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestQuizRejectsUnknownUser(t *testing.T) {
	server, _ := newTestServer(t)
	conn := dialWS(t, server, "/ws/quiz?activityId=activity1&username=ghost")

	msg := readUntil(t, conn, "error")
	var payload errorPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if payload.Message == "" {
		t.Fatalf("expected not-authenticated message")
	}
}

func TestLeaderboardPushesUpdates(t *testing.T) {
	server, st := newTestServer(t)
	conn := dialWS(t, server, "/ws/leaderboard?username=alice")

	// Initial board is empty.
	msg := readUntil(t, conn, "leaderboard")
	var board app.RankedBoard
	if err := json.Unmarshal(msg.Payload, &board); err != nil {
		t.Fatalf("unmarshal board: %v", err)
	}
	if board.Ranked || len(board.Entries) != 0 {
		t.Fatalf("expected empty initial board, got %+v", board)
	}

	// A score lands in the store; the subscription recomputes.
	err := st.Set(context.Background(), "leaderboard/alice/activity1", map[string]any{
		"username": "alice", "score": 8, "activityID": "activity1",
	})
	if err != nil {
		t.Fatalf("seed score: %v", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		msg := readUntil(t, conn, "leaderboard")
		if err := json.Unmarshal(msg.Payload, &board); err != nil {
			t.Fatalf("unmarshal board: %v", err)
		}
		if board.Ranked {
			if board.Rank != 1 || board.Medal != "🥇" {
				t.Fatalf("expected first with gold, got %+v", board)
			}
			return
		}
	}
}
