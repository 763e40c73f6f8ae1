package seed

import (
	"errors"
	"fmt"
)

// ErrDependencyViolation is returned when a step runs before, or without, the
// records it references.
var ErrDependencyViolation = errors.New("dependency violation")

// Kind names one generated entity family.
type Kind string

const (
	KindUsers     Kind = "users"
	KindProfiles  Kind = "profiles"
	KindQuestions Kind = "questions"
	KindAnswers   Kind = "answers"
	KindTags      Kind = "tags"
	KindLikes     Kind = "likes"
)

// Step is one stage of a seeding run.
type Step struct {
	Kind     Kind
	Requires []Kind
}

// Plan is an ordered list of steps.
type Plan []Step

// DefaultPlan seeds users (with their profiles), then questions, then the
// question children.
func DefaultPlan() Plan {
	return Plan{
		{Kind: KindUsers},
		{Kind: KindQuestions, Requires: []Kind{KindUsers}},
		{Kind: KindAnswers, Requires: []Kind{KindQuestions, KindUsers}},
		{Kind: KindTags, Requires: []Kind{KindQuestions}},
		{Kind: KindLikes, Requires: []Kind{KindQuestions, KindUsers}},
	}
}

// Validate checks that every step is known, appears once, and only requires
// kinds produced by an earlier step. Ordering by earlier steps also rules out
// cycles.
func (p Plan) Validate() error {
	seen := make(map[Kind]bool, len(p))
	for i, step := range p {
		if !knownKind(step.Kind) {
			return fmt.Errorf("%w: step %d has unknown kind %q", ErrDependencyViolation, i, step.Kind)
		}
		if seen[step.Kind] {
			return fmt.Errorf("%w: kind %q scheduled twice", ErrDependencyViolation, step.Kind)
		}
		for _, req := range step.Requires {
			if req == step.Kind {
				return fmt.Errorf("%w: %q requires itself", ErrDependencyViolation, step.Kind)
			}
			if !seen[req] {
				return fmt.Errorf("%w: %q requires %q which is not seeded before it", ErrDependencyViolation, step.Kind, req)
			}
		}
		seen[step.Kind] = true
	}
	return nil
}

func knownKind(k Kind) bool {
	switch k {
	case KindUsers, KindQuestions, KindAnswers, KindTags, KindLikes:
		return true
	}
	return false
}
