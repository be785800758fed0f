package matching

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"chugr/backend/internal/models"
)

// candidateFetchLimit caps how many rows the candidate query may return
// before scoring. Scoring is cheap, the query is not.
const candidateFetchLimit = 200

// defaultScoreWorkers bounds concurrent scoring goroutines.
const defaultScoreWorkers = 4

// UserStore is the user persistence the matching service depends on.
type UserStore interface {
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindCandidates(ctx context.Context, viewer *models.User, excludedIDs []uint, limit int) ([]models.User, error)
	Delete(ctx context.Context, id uint) error
}

// SwipeStore is the swipe persistence the matching service depends on.
type SwipeStore interface {
	Create(ctx context.Context, swipe *models.Swipe) error
	HasPositive(ctx context.Context, swiperID, targetID uint) (bool, error)
	SwipedUserIDs(ctx context.Context, userID uint) ([]uint, error)
	CountPositiveReceived(ctx context.Context, userID uint) (int64, error)
}

// MatchStore is the match persistence the matching service depends on.
type MatchStore interface {
	CreateIfAbsent(ctx context.Context, a, b uint, now time.Time) (*models.Match, bool, error)
	ListActiveForUser(ctx context.Context, userID uint) ([]models.Match, error)
	GetForUser(ctx context.Context, matchID, userID uint) (*models.Match, error)
	Deactivate(ctx context.Context, matchID uint) error
	DeactivateAllForUser(ctx context.Context, userID uint) ([]uint, error)
}

// BlockStore exposes the block edges used for candidate exclusion.
type BlockStore interface {
	BlockedUserIDs(ctx context.Context, userID uint) ([]uint, error)
}

// ConversationStore is the slice of conversation persistence the matching
// service needs for unmatch/delete cascades.
type ConversationStore interface {
	DeactivateByMatch(ctx context.Context, matchID uint) error
	DeactivateByMatches(ctx context.Context, matchIDs []uint) error
}

// LikeCounter caches the per-user "likes received" counter.
type LikeCounter interface {
	GetLikeCount(ctx context.Context, userID uint) (int64, bool, error)
	SetLikeCount(ctx context.Context, userID uint, count int64) error
	IncrLikeCount(ctx context.Context, userID uint) error
}

// Notifier delivers match events to the notification service.
type Notifier interface {
	MatchCreated(ctx context.Context, match *models.Match) error
}

// Service implements the swipe/match state machine and the candidate
// recommendation pipeline on top of the storage interfaces.
type Service struct {
	users   UserStore
	swipes  SwipeStore
	matches MatchStore
	blocks  BlockStore
	convos  ConversationStore

	// Optional collaborators; nil disables the feature.
	counter  LikeCounter
	notifier Notifier

	weights ScoreWeights
	workers int
	now     func() time.Time
}

// NewService wires a matching service. counter and notifier may be nil.
func NewService(users UserStore, swipes SwipeStore, matches MatchStore, blocks BlockStore, convos ConversationStore, counter LikeCounter, notifier Notifier) *Service {
	return &Service{
		users:    users,
		swipes:   swipes,
		matches:  matches,
		blocks:   blocks,
		convos:   convos,
		counter:  counter,
		notifier: notifier,
		weights:  DefaultWeights(),
		workers:  defaultScoreWorkers,
		now:      time.Now,
	}
}

// SwipeResult is the outcome of recording a swipe.
type SwipeResult struct {
	Swipe   models.Swipe
	Matched bool
	Match   *models.Match
}

// RecordSwipe validates and persists a swipe, then runs match detection.
//
// Transitions for the unordered pair {swiper, target}:
//   - first positive swipe: one-sided like, no match;
//   - reciprocal positive swipe: match created, exactly once even when
//     both sides swipe concurrently (the uniqueness constraint in
//     MatchStore.CreateIfAbsent is the guarantee, not this code path);
//   - any dislike: no match ever forms from that direction.
func (s *Service) RecordSwipe(ctx context.Context, swiperID, targetID uint, action models.SwipeAction) (*SwipeResult, error) {
	if !action.Valid() {
		return nil, models.ErrInvalidAction
	}
	if swiperID == targetID {
		return nil, models.ErrInvalidTarget
	}
	if _, err := s.users.FindByID(ctx, targetID); err != nil {
		return nil, err
	}

	swipe := &models.Swipe{
		SwiperID:  swiperID,
		TargetID:  targetID,
		Action:    action,
		CreatedAt: s.now(),
	}
	if err := s.swipes.Create(ctx, swipe); err != nil {
		return nil, err
	}

	result := &SwipeResult{Swipe: *swipe}
	if !action.Positive() {
		return result, nil
	}

	if s.counter != nil {
		if err := s.counter.IncrLikeCount(ctx, targetID); err != nil {
			log.Printf("like counter update failed for user %d: %v", targetID, err)
		}
	}

	reciprocal, err := s.swipes.HasPositive(ctx, targetID, swiperID)
	if err != nil {
		return nil, err
	}
	if !reciprocal {
		return result, nil
	}

	match, created, err := s.matches.CreateIfAbsent(ctx, swiperID, targetID, s.now())
	if err != nil {
		return nil, err
	}
	result.Matched = true
	result.Match = match

	if created && s.notifier != nil {
		// Delivery failure never fails the swipe.
		if err := s.notifier.MatchCreated(ctx, match); err != nil {
			log.Printf("match notification failed for match %d: %v", match.ID, err)
		}
	}

	return result, nil
}

// Recommendation pairs a candidate with their compatibility score.
type Recommendation struct {
	User  models.User
	Score ScoreBreakdown
}

// PotentialMatches returns scored candidates for the user, best first.
//
// Hard filters (gender, age window, visibility, bounding box) are applied
// in the candidate query; users already swiped on in either direction and
// blocked users are excluded before scoring. Scoring itself is read-only
// and runs across a bounded worker pool, so cancellation mid-request
// discards partial work safely. Ties are broken by candidate ID so the
// ordering is reproducible.
func (s *Service) PotentialMatches(ctx context.Context, userID uint, limit int) ([]Recommendation, error) {
	viewer, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	swiped, err := s.swipes.SwipedUserIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	blocked, err := s.blocks.BlockedUserIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	excluded := append(swiped, blocked...)

	candidates, err := s.users.FindCandidates(ctx, viewer, excluded, candidateFetchLimit)
	if err != nil {
		return nil, err
	}

	now := s.now()
	viewerProfile := profileOf(viewer, now)

	scored := make([]*Recommendation, len(candidates))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < s.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if ctx.Err() != nil {
					continue
				}
				candidate := candidates[i]
				breakdown := Score(viewerProfile, profileOf(&candidate, now), s.weights)
				// Hard distance cut: the bounding box is approximate.
				if breakdown.DistanceKm > viewerProfile.MaxDistanceKm {
					continue
				}
				scored[i] = &Recommendation{User: candidate, Score: breakdown}
			}
		}()
	}
	for i := range candidates {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	recommendations := make([]Recommendation, 0, len(scored))
	for _, rec := range scored {
		if rec != nil {
			recommendations = append(recommendations, *rec)
		}
	}

	sort.Slice(recommendations, func(i, j int) bool {
		if recommendations[i].Score.Total != recommendations[j].Score.Total {
			return recommendations[i].Score.Total > recommendations[j].Score.Total
		}
		return recommendations[i].User.ID < recommendations[j].User.ID
	})

	if limit > 0 && len(recommendations) > limit {
		recommendations = recommendations[:limit]
	}
	return recommendations, nil
}

// Matches returns the user's active matches.
func (s *Service) Matches(ctx context.Context, userID uint) ([]models.Match, error) {
	return s.matches.ListActiveForUser(ctx, userID)
}

// MatchByID returns one match, participants only.
func (s *Service) MatchByID(ctx context.Context, matchID, userID uint) (*models.Match, error) {
	return s.matches.GetForUser(ctx, matchID, userID)
}

// Unmatch deactivates a match on behalf of a participant and cascades to
// its conversation. Messages are retained.
func (s *Service) Unmatch(ctx context.Context, matchID, userID uint) error {
	match, err := s.matches.GetForUser(ctx, matchID, userID)
	if err != nil {
		return err
	}
	if err := s.matches.Deactivate(ctx, match.ID); err != nil {
		return err
	}
	return s.convos.DeactivateByMatch(ctx, match.ID)
}

// DeleteAccount removes a user: all their matches are deactivated, their
// conversations go inactive, and the user row is soft-deleted. Message
// history survives.
func (s *Service) DeleteAccount(ctx context.Context, userID uint) error {
	matchIDs, err := s.matches.DeactivateAllForUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.convos.DeactivateByMatches(ctx, matchIDs); err != nil {
		return err
	}
	return s.users.Delete(ctx, userID)
}

// LikesReceived returns how many users liked this user, served from the
// cache when warm and from the swipe table otherwise.
func (s *Service) LikesReceived(ctx context.Context, userID uint) (int64, error) {
	if s.counter != nil {
		count, hit, err := s.counter.GetLikeCount(ctx, userID)
		if err == nil && hit {
			return count, nil
		}
		if err != nil {
			log.Printf("like counter read failed for user %d: %v", userID, err)
		}
	}

	count, err := s.swipes.CountPositiveReceived(ctx, userID)
	if err != nil {
		return 0, err
	}
	if s.counter != nil {
		if err := s.counter.SetLikeCount(ctx, userID, count); err != nil {
			log.Printf("like counter refresh failed for user %d: %v", userID, err)
		}
	}
	return count, nil
}

func profileOf(u *models.User, now time.Time) Profile {
	return Profile{
		Age:           u.AgeAt(now),
		Lat:           u.Lat,
		Lon:           u.Lon,
		MinAge:        u.Preferences.MinAge,
		MaxAge:        u.Preferences.MaxAge,
		MaxDistanceKm: u.Preferences.MaxDistanceKm,
		Interests:     u.InterestNames(),
	}
}
