package domain

import (
	"fmt"
	"time"
)

// RebuildTrigger records what started a rebuild.
type RebuildTrigger string

const (
	// TriggerBoot is the rebuild run when the listener process starts.
	TriggerBoot RebuildTrigger = "boot"
	// TriggerWebhook is a rebuild requested through the webhook.
	TriggerWebhook RebuildTrigger = "webhook"
	// TriggerManual is a rebuild run from the command line.
	TriggerManual RebuildTrigger = "manual"
)

// RunStatus is the outcome of a rebuild run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusSucceeded RunStatus = "succeeded"
	RunStatusFailed    RunStatus = "failed"
)

// RebuildPhase is a step of the rebuild sequence.
type RebuildPhase string

const (
	PhaseIdle      RebuildPhase = "idle"
	PhaseConnect   RebuildPhase = "connect"
	PhaseWipe      RebuildPhase = "wipe"
	PhaseCreate    RebuildPhase = "create"
	PhaseConfigure RebuildPhase = "configure"
	PhaseInventory RebuildPhase = "inventory"
	PhaseTransform RebuildPhase = "transform"
	PhaseSubmit    RebuildPhase = "submit"
	PhaseDone      RebuildPhase = "done"
)

// RebuildRun is the audit record of one rebuild.
// It is never read back by the pipeline.
type RebuildRun struct {
	// ID is the unique identifier for the run.
	ID string

	// Trigger is what started the run.
	Trigger RebuildTrigger

	// Status is the outcome, RunStatusRunning while in flight.
	Status RunStatus

	// StartedAt is when the run started.
	StartedAt time.Time

	// FinishedAt is when the run ended. Zero while running.
	FinishedAt time.Time

	// Documents is the number of documents submitted.
	Documents int

	// DeletedIndexes is the number of indexes wiped.
	DeletedIndexes int

	// Error holds the failure message of a failed run.
	Error string
}

// Duration returns how long the run took, or zero while running.
func (r RebuildRun) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// ParseTrigger validates a trigger name.
func ParseTrigger(s string) (RebuildTrigger, error) {
	switch t := RebuildTrigger(s); t {
	case TriggerBoot, TriggerWebhook, TriggerManual:
		return t, nil
	}
	return "", fmt.Errorf("%w: unknown rebuild trigger %q", ErrInvalidInput, s)
}

// WebhookMode decides what an authorised webhook call does.
type WebhookMode string

const (
	// WebhookAck acknowledges the call without touching the index.
	WebhookAck WebhookMode = "ack"
	// WebhookRebuild starts a background rebuild.
	WebhookRebuild WebhookMode = "rebuild"
)

// ParseWebhookMode validates a webhook mode name.
func ParseWebhookMode(s string) (WebhookMode, error) {
	switch m := WebhookMode(s); m {
	case WebhookAck, WebhookRebuild:
		return m, nil
	}
	return "", fmt.Errorf("%w: unknown webhook mode %q (allowed: ack, rebuild)", ErrInvalidInput, s)
}
