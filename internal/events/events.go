// Package events emits run-progress events so external pipeline tooling can
// follow catalog assembly and image generation without scraping logs.
package events

import (
	"context"

	"github.com/asterolab/romanprep/internal/plan"
)

// Event topic constants
const (
	TopicCatalogAssembled = "romanprep.catalog.assembled"
	TopicExposureDone     = "romanprep.exposure.completed"
	TopicExposureFailed   = "romanprep.exposure.failed"
	TopicRunFinished      = "romanprep.run.finished"
)

// Event types

type CatalogAssembled struct {
	RunID     string `json:"run_id"`
	PlanPath  string `json:"plan_path"`
	UnionPath string `json:"union_path"`
	Galaxies  int    `json:"galaxies"`
	Stars     int    `json:"stars"`
	Synthetic int    `json:"synthetic"`
}

type ExposureDone struct {
	RunID  string          `json:"run_id"`
	ID     plan.ExposureID `json:"id"`
	SCA    int             `json:"sca"`
	Output string          `json:"output"`
}

type ExposureFailed struct {
	RunID string          `json:"run_id"`
	ID    plan.ExposureID `json:"id"`
	SCA   int             `json:"sca"`
	Error string          `json:"error"`
}

type RunFinished struct {
	RunID     string `json:"run_id"`
	Exposures int    `json:"exposures"`
	Failed    int    `json:"failed"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
