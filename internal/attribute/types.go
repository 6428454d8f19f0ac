package attribute

import (
	"fmt"
	"time"
)

// Master defines one trackable category of user information.
//
// A master carries the two prompts driving a turn: the judgment prompt
// decides whether the attribute's stored content is relevant context for
// the current response, and the extraction prompt pulls new values for
// the attribute out of the user's input. Masters are read-only inputs to
// the engine and are loaded fresh from the store each turn.
type Master struct {
	ID               int64  `json:"attribute_id"`
	Name             string `json:"attribute_name"`
	ExtractionPrompt string `json:"extraction_prompt"`
	JudgmentPrompt   string `json:"judgment_prompt"`
}

// Validate checks that all required master fields are present.
func (m Master) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("attribute name is required")
	}
	if m.ExtractionPrompt == "" {
		return fmt.Errorf("extraction prompt is required")
	}
	if m.JudgmentPrompt == "" {
		return fmt.Errorf("judgment prompt is required")
	}
	return nil
}

// Record is one stored value for an attribute.
//
// Records are append-only: the engine only ever creates new records via
// the store, never mutates existing ones. SequenceNo is assigned by the
// store on insert.
type Record struct {
	SequenceNo  int64     `json:"sequence_no"`
	AttributeID int64     `json:"attribute_id"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Validate checks that the record carries content.
func (r Record) Validate() error {
	if r.Content == "" {
		return fmt.Errorf("record content is required")
	}
	return nil
}

// Extracted pairs an attribute name with the content extracted from a
// single user turn. Order follows the master order of the turn.
type Extracted struct {
	Name    string `json:"attribute_name"`
	Content string `json:"content"`
}
