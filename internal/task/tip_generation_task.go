package task

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"
)

// TipEnsurer populates the tip cache for one species.
type TipEnsurer interface {
	Ensure(ctx context.Context, species string) error
}

// TipGenerationTask asks a TipEnsurer to populate tips for one species.
type TipGenerationTask struct {
	id      uuid.UUID
	species string
	ensurer TipEnsurer
	status  atomic.Value
}

var _ Task = (*TipGenerationTask)(nil)

// NewTipGenerationTask creates a pending tip generation task.
func NewTipGenerationTask(species string, ensurer TipEnsurer) *TipGenerationTask {
	t := &TipGenerationTask{
		id:      uuid.New(),
		species: species,
		ensurer: ensurer,
	}
	t.status.Store(TaskStatusPending)
	return t
}

// ID returns the task's unique identifier
func (t *TipGenerationTask) ID() uuid.UUID { return t.id }

// Type returns TaskTypeTipGeneration
func (t *TipGenerationTask) Type() string { return TaskTypeTipGeneration }

// Species returns the species the task generates tips for.
func (t *TipGenerationTask) Species() string { return t.species }

// Status returns the current task status
func (t *TipGenerationTask) Status() TaskStatus {
	return t.status.Load().(TaskStatus)
}

// Execute runs the generation and records the outcome in Status.
func (t *TipGenerationTask) Execute(ctx context.Context) error {
	t.status.Store(TaskStatusProcessing)
	if err := t.ensurer.Ensure(ctx, t.species); err != nil {
		t.status.Store(TaskStatusFailed)
		return err
	}
	t.status.Store(TaskStatusCompleted)
	return nil
}
