package app

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"cellquest-service/internal/domain"
	"cellquest-service/internal/store"
)

// boardPrefix is the store subtree holding score records.
const boardPrefix = "leaderboard"

// RankedBoard is a leaderboard snapshot annotated for one viewer.
type RankedBoard struct {
	domain.Board
	Rank   int    `json:"rank"` // 1-based; 0 when unranked
	Ranked bool   `json:"ranked"`
	Medal  string `json:"medal,omitempty"`
}

// LeaderboardService ranks score records. Every change notification
// triggers a full recompute from the current store state; there is no
// incremental path, so arbitrary cross-client write interleavings cannot
// corrupt the view.
type LeaderboardService struct {
	store store.Store
	log   *zap.Logger
	now   func() time.Time
}

func NewLeaderboardService(st store.Store, log *zap.Logger) *LeaderboardService {
	if log == nil {
		log = zap.NewNop()
	}
	return &LeaderboardService{store: st, log: log, now: time.Now}
}

// rawRecord tolerates every historical record shape: nested
// leaderboard/{user}/{activity} documents, legacy flat push entries, and
// both field spellings for name and score.
type rawRecord struct {
	Username   string   `json:"username"`
	Name       string   `json:"name"`
	Score      *float64 `json:"score"`
	Points     *float64 `json:"points"`
	ActivityID string   `json:"activityID"`
	LessonID   string   `json:"lessonId"`
}

func (r rawRecord) normalize() (domain.LeaderboardEntry, string) {
	name := r.Username
	if name == "" {
		name = r.Name
	}
	if name == "" {
		name = "Unknown"
	}
	score := 0
	switch {
	case r.Score != nil:
		score = int(*r.Score)
	case r.Points != nil:
		score = int(*r.Points)
	}
	activity := r.ActivityID
	if activity == "" {
		activity = r.LessonID
	}
	return domain.LeaderboardEntry{Username: name, Score: score}, activity
}

// Board aggregates all score records into a ranked view. With a non-empty
// activityID only records for that activity count; otherwise a user's
// scores across activities sum into one total. Records with a
// non-positive score are excluded from display: an empty board means no
// one has demonstrated mastery yet, by policy.
func (s *LeaderboardService) Board(ctx context.Context, activityID string) (domain.Board, error) {
	docs, err := s.store.List(ctx, boardPrefix)
	if err != nil {
		return domain.Board{}, fmt.Errorf("read leaderboard: %w", err)
	}

	totals := make(map[string]int)
	order := make([]string, 0, len(docs))
	paths := make([]string, 0, len(docs))
	for path := range docs {
		paths = append(paths, path)
	}
	// Deterministic input order keeps stable-sort ties reproducible.
	sort.Strings(paths)

	for _, path := range paths {
		var rec rawRecord
		if err := json.Unmarshal(docs[path], &rec); err != nil {
			s.log.Warn("skipping malformed leaderboard record", zap.String("path", path), zap.Error(err))
			continue
		}
		entry, recActivity := rec.normalize()
		if activityID != "" && recActivity != "" && recActivity != activityID {
			continue
		}
		if _, seen := totals[entry.Username]; !seen {
			order = append(order, entry.Username)
		}
		totals[entry.Username] += entry.Score
	}

	entries := make([]domain.LeaderboardEntry, 0, len(order))
	for _, name := range order {
		if totals[name] <= 0 {
			continue
		}
		entries = append(entries, domain.LeaderboardEntry{Username: name, Score: totals[name]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})

	return domain.Board{
		ActivityID: activityID,
		Entries:    entries,
		UpdatedAt:  s.now(),
	}, nil
}

// Rank returns the 1-based position of username on the board, matched
// case-insensitively. Absence is unranked, not an error.
func Rank(board domain.Board, username string) (int, bool) {
	for i, entry := range board.Entries {
		if strings.EqualFold(entry.Username, username) {
			return i + 1, true
		}
	}
	return 0, false
}

// Medal maps a rank to its display label; total over all positive ranks.
func Medal(rank int) string {
	switch rank {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	default:
		return ""
	}
}

// RankedFor builds a viewer-specific snapshot.
func (s *LeaderboardService) RankedFor(ctx context.Context, activityID, username string) (RankedBoard, error) {
	board, err := s.Board(ctx, activityID)
	if err != nil {
		return RankedBoard{}, err
	}
	rank, ok := Rank(board, username)
	return RankedBoard{Board: board, Rank: rank, Ranked: ok, Medal: Medal(rank)}, nil
}

// Watch pushes a recomputed board to the returned channel on every change
// under the leaderboard subtree, starting with the current state. The
// cancel function releases the subscription.
func (s *LeaderboardService) Watch(ctx context.Context, activityID, username string) (<-chan RankedBoard, func(), error) {
	events, stop, err := s.store.Watch(ctx, boardPrefix)
	if err != nil {
		return nil, nil, fmt.Errorf("subscribe leaderboard: %w", err)
	}

	out := make(chan RankedBoard, 8)
	push := func() {
		ranked, err := s.RankedFor(ctx, activityID, username)
		if err != nil {
			// Snapshot reads can fail transiently; the next notification
			// retries the full pipeline.
			s.log.Warn("leaderboard recompute failed", zap.Error(err))
			return
		}
		select {
		case out <- ranked:
		default:
			// Replace the stale pending snapshot rather than block.
			select {
			case <-out:
			default:
			}
			out <- ranked
		}
	}

	go func() {
		defer close(out)
		push()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-events:
				if !ok {
					return
				}
				push()
			}
		}
	}()
	return out, stop, nil
}
