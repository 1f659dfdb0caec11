// Package models defines the transport-level request and response shapes of
// the quiz API.
package models

import "time"

// CreateRoundRequest starts a new round. Source selects where the image
// comes from: "dataset" (default), "url" or "azure".
type CreateRoundRequest struct {
	Source string `json:"source,omitempty"`

	// Name addresses a specific dataset file; empty picks a random one.
	Name string `json:"name,omitempty"`

	// URL addresses a remote image for the url and azure sources.
	URL string `json:"url,omitempty"`

	// Mode is one of blur, zoom, hybrid; empty uses the server default.
	Mode string `json:"mode,omitempty"`

	// TimeLimit in seconds; zero lets the difficulty estimator choose.
	TimeLimit float64 `json:"time_limit,omitempty"`

	// AnswerKey overrides the identity-derived key.
	AnswerKey string `json:"answer_key,omitempty"`

	// AutoCrop toggles the subject cropper; nil means enabled.
	AutoCrop *bool `json:"auto_crop,omitempty"`
}

// RoundResponse describes a created or queried round. The answer key is
// deliberately absent.
type RoundResponse struct {
	ID                 string    `json:"id"`
	Mode               string    `json:"mode"`
	TimeLimit          float64   `json:"time_limit"`
	Width              int       `json:"width"`
	Height             int       `json:"height"`
	DifficultyLevel    string    `json:"difficulty_level,omitempty"`
	SuggestedTimeLimit float64   `json:"suggested_time_limit,omitempty"`
	StartedAt          time.Time `json:"started_at"`
}

// GuessRequest submits a free-text guess. Elapsed is optional; when absent
// the server clock since round start is used for scoring.
type GuessRequest struct {
	Text    string   `json:"text" binding:"required"`
	Elapsed *float64 `json:"elapsed,omitempty"`
}

// GuessResponse is the verdict for one guess.
type GuessResponse struct {
	Correct       bool    `json:"correct"`
	DisplayAnswer string  `json:"display_answer"`
	NearMiss      bool    `json:"near_miss"`
	Score         float64 `json:"score"`
	Elapsed       float64 `json:"elapsed"`
}

// OverrideAnswerRequest replaces a round's answer key.
type OverrideAnswerRequest struct {
	Answer string `json:"answer" binding:"required"`
}

// ScoreResponse reports the score and reveal progress at an elapsed time.
type ScoreResponse struct {
	Score    float64 `json:"score"`
	Elapsed  float64 `json:"elapsed"`
	Progress float64 `json:"progress"`
}

// ImageDifficulty is the per-image entry of the dataset statistics report.
type ImageDifficulty struct {
	Name               string  `json:"name"`
	Level              string  `json:"level"`
	LaplacianVariance  float64 `json:"laplacian_variance"`
	EdgeDensity        float64 `json:"edge_density"`
	SuggestedTimeLimit float64 `json:"suggested_time_limit"`
}

// DatasetStatsResponse summarizes the local dataset.
type DatasetStatsResponse struct {
	Count      int                    `json:"count"`
	Categories map[string]int         `json:"categories"`
	Images     []ImageDifficulty      `json:"images"`
	Gameplay   map[string]interface{} `json:"gameplay"`
}
