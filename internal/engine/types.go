package engine

import (
	"context"
	"errors"

	"github.com/fyrsmithlabs/memoryd/internal/attribute"
	"github.com/fyrsmithlabs/memoryd/internal/history"
)

// TaskType identifies one kind of sub-task within a turn.
type TaskType string

const (
	TaskJudgment   TaskType = "judgment"
	TaskGeneration TaskType = "generation"
	TaskExtraction TaskType = "extraction"
)

// TaskState is the lifecycle state of a sub-task.
type TaskState string

const (
	StatePending    TaskState = "pending"
	StateProcessing TaskState = "processing"
	StateCompleted  TaskState = "completed"
	StateFailed     TaskState = "failed"
)

// TaskStatus is one immutable progress event. Judgment and extraction
// statuses carry the attribute name; generation statuses do not.
type TaskStatus struct {
	Type          TaskType  `json:"task_type"`
	AttributeName string    `json:"attribute_name,omitempty"`
	State         TaskState `json:"state"`
}

// ChatResponse is the final result of one successful turn.
type ChatResponse struct {
	ResponseText        string                `json:"response_text"`
	UsedAttributes      *attribute.Context    `json:"used_attributes"`
	ExtractedAttributes []attribute.Extracted `json:"extracted_attributes"`
	TaskStatuses        []TaskStatus          `json:"task_statuses"`
}

// Repository is the attribute store surface the engine depends on.
// Masters are returned in the fixed order every turn iterates in.
type Repository interface {
	AttributeMasters(ctx context.Context) ([]attribute.Master, error)
	LatestAttributeContent(ctx context.Context, attributeID int64) (content string, ok bool, err error)
	InsertAttributeRecord(ctx context.Context, rec attribute.Record) (sequenceNo int64, err error)
}

// Capability is the text-generation surface the engine depends on.
// Multiple interchangeable providers satisfy it; the engine is
// constructed with exactly one.
type Capability interface {
	Judge(ctx context.Context, judgmentPrompt, userInput, attributeName string) (bool, error)
	Extract(ctx context.Context, extractionPrompt, userInput, attributeName string) (content string, ok bool, err error)
	GenerateResponse(ctx context.Context, hist []history.Message, userInput string, attrs *attribute.Context) (string, error)
}

// ErrTurnActive reports that a turn is already in progress on the
// session; turns are strictly serialized per session.
var ErrTurnActive = errors.New("turn already in progress for session")

// ErrStreamOpen reports that Result was called before the status
// stream was drained.
var ErrStreamOpen = errors.New("turn stream not yet drained")
