// Package service orchestrates round construction and gameplay: it resolves
// the image source, crops the subject, estimates difficulty, builds the
// session and answers the per-round queries of the transport layer.
package service

import (
	"context"
	"image"
	"path/filepath"
	"sort"
	"sync"

	"go-reveal-quiz/internal/analyzer"
	"go-reveal-quiz/internal/answer"
	"go-reveal-quiz/internal/config"
	"go-reveal-quiz/internal/cropper"
	"go-reveal-quiz/internal/dataset"
	"go-reveal-quiz/internal/dictionary"
	apperrors "go-reveal-quiz/internal/errors"
	"go-reveal-quiz/internal/observer"
	"go-reveal-quiz/internal/repository"
	"go-reveal-quiz/internal/reveal"
	"go-reveal-quiz/internal/session"
	"go-reveal-quiz/pkg/models"
)

// RoundService is the application-level API behind the HTTP transport.
type RoundService interface {
	CreateRound(ctx context.Context, req models.CreateRoundRequest) (*models.RoundResponse, error)
	FrameAt(ctx context.Context, id string, elapsed *float64) (image.Image, float64, error)
	SubmitGuess(ctx context.Context, id, text string, elapsed *float64) (*models.GuessResponse, error)
	ScoreAt(ctx context.Context, id string, elapsed *float64) (*models.ScoreResponse, error)
	OverrideAnswer(ctx context.Context, id, text string) error
	CloseRound(ctx context.Context, id string)
	DatasetStats(ctx context.Context) (*models.DatasetStatsResponse, error)
}

type roundService struct {
	cfg       *config.Config
	repo      repository.ImageRepository
	registry  *session.Registry
	dict      *dictionary.Dictionary
	crop      *cropper.SubjectCropper
	estimator *analyzer.DifficultyEstimator
	pool      *analyzer.WorkerPool
	loader    *dataset.Loader
	events    observer.Subject
	stats     *observer.StatsObserver
}

// NewRoundService wires the round pipeline together.
func NewRoundService(
	cfg *config.Config,
	repo repository.ImageRepository,
	registry *session.Registry,
	dict *dictionary.Dictionary,
	loader *dataset.Loader,
	events observer.Subject,
	stats *observer.StatsObserver,
	pool *analyzer.WorkerPool,
) RoundService {
	return &roundService{
		cfg:       cfg,
		repo:      repo,
		registry:  registry,
		dict:      dict,
		crop:      cropper.NewSubjectCropper(),
		estimator: analyzer.NewDifficultyEstimator(),
		pool:      pool,
		loader:    loader,
		events:    events,
		stats:     stats,
	}
}

func (s *roundService) CreateRound(ctx context.Context, req models.CreateRoundRequest) (*models.RoundResponse, error) {
	mode, err := s.resolveMode(req.Mode)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid reveal mode", err)
	}

	src, err := s.resolveImage(ctx, req)
	if err != nil {
		s.events.NotifyObservers(ctx, observer.RoundEvent{
			EventType: observer.RoundStartFailed,
			Mode:      string(mode),
			Metadata:  map[string]interface{}{"source": req.Source, "error": err.Error()},
		})
		return nil, err
	}

	img := src.Image
	if req.AutoCrop == nil || *req.AutoCrop {
		img = s.crop.Crop(img)
	}

	difficulty := s.estimator.Estimate(img)
	timeLimit := req.TimeLimit
	if timeLimit <= 0 {
		timeLimit = difficulty.SuggestedTimeLimit
	}

	key := src.Key
	if req.AnswerKey != "" {
		key = req.AnswerKey
	}
	if answer.Normalize(key) == "" {
		return nil, apperrors.NewValidationError("round has no answer key; provide answer_key explicitly", nil)
	}

	sess := session.New(img, key, mode, timeLimit, s.dict.Set())
	round := s.registry.Add(sess)

	s.events.NotifyObservers(ctx, observer.RoundEvent{
		EventType: observer.RoundStarted,
		RoundID:   round.ID,
		Mode:      string(mode),
		Metadata: map[string]interface{}{
			"source":     src.Source,
			"time_limit": timeLimit,
			"difficulty": difficulty.Level,
		},
	})

	bounds := img.Bounds()
	return &models.RoundResponse{
		ID:                 round.ID,
		Mode:               string(mode),
		TimeLimit:          timeLimit,
		Width:              bounds.Dx(),
		Height:             bounds.Dy(),
		DifficultyLevel:    difficulty.Level,
		SuggestedTimeLimit: difficulty.SuggestedTimeLimit,
		StartedAt:          round.StartedAt,
	}, nil
}

func (s *roundService) FrameAt(ctx context.Context, id string, elapsed *float64) (image.Image, float64, error) {
	round, ok := s.registry.Get(id)
	if !ok {
		return nil, 0, apperrors.NewNotFoundError("round not found: "+id, nil)
	}
	at := round.Elapsed()
	if elapsed != nil {
		at = *elapsed
	}
	return round.Session.CurrentView(at), at, nil
}

func (s *roundService) SubmitGuess(ctx context.Context, id, text string, elapsed *float64) (*models.GuessResponse, error) {
	round, ok := s.registry.Get(id)
	if !ok {
		return nil, apperrors.NewNotFoundError("round not found: "+id, nil)
	}

	at := round.Elapsed()
	if elapsed != nil {
		at = *elapsed
	}

	res := round.Session.SubmitGuessDetailed(text)
	resp := &models.GuessResponse{
		Correct:       res.Correct,
		DisplayAnswer: res.DisplayAnswer,
		NearMiss:      res.NearMiss,
		Elapsed:       at,
	}
	if res.Correct {
		resp.Score = round.Session.ScoreNow(at)
	}

	s.events.NotifyObservers(ctx, observer.RoundEvent{
		EventType: observer.GuessSubmitted,
		RoundID:   round.ID,
		Mode:      string(round.Session.Mode()),
		Correct:   res.Correct,
	})
	if res.Correct {
		s.events.NotifyObservers(ctx, observer.RoundEvent{
			EventType: observer.RoundSolved,
			RoundID:   round.ID,
			Mode:      string(round.Session.Mode()),
			Correct:   true,
			Score:     resp.Score,
		})
	}
	return resp, nil
}

func (s *roundService) ScoreAt(ctx context.Context, id string, elapsed *float64) (*models.ScoreResponse, error) {
	round, ok := s.registry.Get(id)
	if !ok {
		return nil, apperrors.NewNotFoundError("round not found: "+id, nil)
	}
	at := round.Elapsed()
	if elapsed != nil {
		at = *elapsed
	}
	return &models.ScoreResponse{
		Score:    round.Session.ScoreNow(at),
		Elapsed:  at,
		Progress: round.Session.Progress(at),
	}, nil
}

func (s *roundService) OverrideAnswer(ctx context.Context, id, text string) error {
	round, ok := s.registry.Get(id)
	if !ok {
		return apperrors.NewNotFoundError("round not found: "+id, nil)
	}
	if answer.Normalize(text) == "" {
		return apperrors.NewValidationError("override answer must not be empty", nil)
	}
	round.Session.OverrideAnswer(text)
	return nil
}

func (s *roundService) CloseRound(ctx context.Context, id string) {
	if _, ok := s.registry.Get(id); !ok {
		return
	}
	s.registry.Remove(id)
	s.events.NotifyObservers(ctx, observer.RoundEvent{
		EventType: observer.RoundClosed,
		RoundID:   id,
	})
}

// DatasetStats loads every dataset image on the worker pool and reports its
// difficulty estimate plus the aggregated gameplay counters.
func (s *roundService) DatasetStats(ctx context.Context) (*models.DatasetStatsResponse, error) {
	if err := s.loader.Refresh(); err != nil {
		return nil, apperrors.NewInternalError("failed to scan dataset", err)
	}

	paths := s.loader.ListAll()
	categories := make(map[string]int)
	for key, group := range s.loader.ByCategory() {
		categories[key] = len(group)
	}

	var mu sync.Mutex
	images := make([]models.ImageDifficulty, 0, len(paths))
	for _, path := range paths {
		path := path
		s.pool.Submit(func() {
			img, err := dataset.LoadImage(path)
			if err != nil {
				return
			}
			d := s.estimator.Estimate(img)
			mu.Lock()
			images = append(images, models.ImageDifficulty{
				Name:               filepath.Base(path),
				Level:              d.Level,
				LaplacianVariance:  d.LaplacianVariance,
				EdgeDensity:        d.EdgeDensity,
				SuggestedTimeLimit: d.SuggestedTimeLimit,
			})
			mu.Unlock()
		})
	}
	s.pool.Wait()

	sort.Slice(images, func(i, j int) bool { return images[i].Name < images[j].Name })

	return &models.DatasetStatsResponse{
		Count:      len(paths),
		Categories: categories,
		Images:     images,
		Gameplay:   s.stats.Snapshot(),
	}, nil
}

// resolveMode parses the request mode, falling back to the configured
// default.
func (s *roundService) resolveMode(raw string) (reveal.Mode, error) {
	if raw == "" {
		raw = s.cfg.DefaultMode
	}
	return reveal.ParseMode(raw)
}

// resolveImage dispatches to the source named by the request.
func (s *roundService) resolveImage(ctx context.Context, req models.CreateRoundRequest) (*repository.RoundImage, error) {
	switch req.Source {
	case "", "dataset":
		return s.repo.FromDataset(ctx, req.Name)
	case "url":
		if req.URL == "" {
			return nil, apperrors.NewValidationError("url source requires a url", nil)
		}
		return s.repo.FromURL(ctx, req.URL, req.AnswerKey)
	case "azure":
		if req.URL == "" {
			return nil, apperrors.NewValidationError("azure source requires a url", nil)
		}
		return s.repo.FromBlob(ctx, req.URL, req.AnswerKey)
	default:
		return nil, apperrors.NewValidationError("unknown image source: "+req.Source, nil)
	}
}
