package store

import (
	"context"

	"github.com/fyrsmithlabs/memoryd/internal/attribute"
)

// DefaultMasters returns the built-in attribute masters, modeled on the
// categories a capable assistant uses to file away information about
// the person they support.
func DefaultMasters() []attribute.Master {
	return []attribute.Master{
		{
			Name:             "User Profile",
			ExtractionPrompt: "Extract user profile information from the text, including occupation, position, and personal details. Example: I am an engineer → engineer",
			JudgmentPrompt:   "Does answering the following text require information about the user's profile, occupation, or personal details? Answer with 'yes' or 'no'.",
		},
		{
			Name:             "Current Tasks & Projects",
			ExtractionPrompt: "Extract information about current tasks, projects, schedules, or goals from the text. Example: Meeting next Monday → Next Monday: Meeting",
			JudgmentPrompt:   "Does answering the following text require information about the user's current tasks, projects, or schedules? Answer with 'yes' or 'no'.",
		},
		{
			Name:             "Expertise & Skills",
			ExtractionPrompt: "Extract information about user's expertise, skills, or areas of interest from the text. Example: I often go hiking on weekends → hiking",
			JudgmentPrompt:   "Does answering the following text require information about the user's expertise, skills, or interests? Answer with 'yes' or 'no'.",
		},
		{
			Name:             "Past Decisions & Policies",
			ExtractionPrompt: "Extract information about user's past decisions, preferences, or policies from the text. Example: I prefer tea over coffee → prefers tea",
			JudgmentPrompt:   "Does answering the following text require information about the user's past decisions, preferences, or policies? Answer with 'yes' or 'no'.",
		},
	}
}

// Seed inserts the default masters if the master table is empty.
// Returns the number of masters inserted (zero when already seeded).
func (s *Store) Seed(ctx context.Context) (int, error) {
	existing, err := s.AttributeMasters(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}

	inserted := 0
	for _, m := range DefaultMasters() {
		if _, err := s.InsertAttributeMaster(ctx, m); err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}
