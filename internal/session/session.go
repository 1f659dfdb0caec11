// Package session orchestrates one quiz round: it holds the (post-crop)
// original image, the chosen reveal mode and time limit, and answers the
// per-frame queries of the presentation layer. A session is created once per
// round and holds no cross-round state.
package session

import (
	"image"
	"sync"

	"go-reveal-quiz/internal/answer"
	"go-reveal-quiz/internal/reveal"
	"go-reveal-quiz/internal/score"
)

// RevealSession is the query surface for a single round. The original image
// is immutable once the session is constructed; every view computation
// allocates a fresh image, so concurrent CurrentView calls are safe. The
// answer key may be overridden mid-round and is guarded separately.
type RevealSession struct {
	original  image.Image
	transform reveal.Transform
	mode      reveal.Mode
	timeLimit float64

	mu       sync.RWMutex
	key      string
	synonyms answer.SynonymSet
}

// New constructs a session for one round. The key is the canonical identity
// string of the image (normalized here); synonyms may be nil.
func New(img image.Image, key string, mode reveal.Mode, timeLimit float64, synonyms answer.SynonymSet) *RevealSession {
	return &RevealSession{
		original:  img,
		transform: reveal.ForMode(mode),
		mode:      mode,
		timeLimit: timeLimit,
		key:       answer.Normalize(key),
		synonyms:  synonyms,
	}
}

// Progress maps elapsed seconds to reveal progress in [0,1]. A non-positive
// time limit means the image is fully revealed from the start.
func (s *RevealSession) Progress(elapsed float64) float64 {
	if s.timeLimit <= 0 {
		return 1.0
	}
	p := elapsed / s.timeLimit
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// CurrentView returns the obscured view of the round image for the given
// elapsed time.
func (s *RevealSession) CurrentView(elapsed float64) image.Image {
	return s.transform.Apply(s.original, s.Progress(elapsed))
}

// SubmitGuess checks a free-text guess against the session's key and
// synonyms, returning the verdict and the display form of the answer.
func (s *RevealSession) SubmitGuess(text string) (bool, string) {
	res := s.SubmitGuessDetailed(text)
	return res.Correct, res.DisplayAnswer
}

// SubmitGuessDetailed is SubmitGuess with near-miss feedback included.
func (s *RevealSession) SubmitGuessDetailed(text string) answer.Result {
	s.mu.RLock()
	key, synonyms := s.key, s.synonyms
	s.mu.RUnlock()
	return answer.CheckDetailed(key, synonyms, text)
}

// ScoreNow returns the score the player would earn at the given elapsed
// time.
func (s *RevealSession) ScoreNow(elapsed float64) float64 {
	return score.Compute(elapsed, s.timeLimit)
}

// OverrideAnswer replaces the derived key with an explicit one, for cases
// where the filename-derived key is wrong. The override is normalized.
func (s *RevealSession) OverrideAnswer(text string) {
	s.mu.Lock()
	s.key = answer.Normalize(text)
	s.mu.Unlock()
}

// Key returns the current normalized answer key.
func (s *RevealSession) Key() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.key
}

// Mode returns the reveal mode chosen for the round.
func (s *RevealSession) Mode() reveal.Mode {
	return s.mode
}

// TimeLimit returns the round's time budget in seconds.
func (s *RevealSession) TimeLimit() float64 {
	return s.timeLimit
}

// Image returns the round's original (post-crop) image.
func (s *RevealSession) Image() image.Image {
	return s.original
}
