// Package quiz defines the canonical question model that every import
// path converges to, plus validation and answer grading.
package quiz

import (
	"errors"
	"fmt"
	"strings"
)

// Kind enumerates the supported question types.
type Kind string

const (
	MultipleChoice Kind = "multiple-choice"
	FillInBlank    Kind = "fill-in-blank"
	ShortAnswer    Kind = "short-answer"
	DragDrop       Kind = "drag-drop"
)

// NoCorrectChoice marks a multiple-choice question whose import source
// carried an unparseable or out-of-range correct-answer letter. Such a
// question is valid but can never be auto-scored correct.
const NoCorrectChoice = -1

// Question is the canonical form shared by the bank, the play flow, and
// the exporter. For drag-drop questions Choices holds the correct order.
type Question struct {
	ID                 string   `json:"id"`
	Kind               Kind     `json:"kind"`
	Prompt             string   `json:"prompt"`
	Choices            []string `json:"choices,omitempty"`
	CorrectChoiceIndex int      `json:"correctChoiceIndex"`
	CorrectText        string   `json:"correctText,omitempty"`
}

var ErrInvalidQuestion = errors.New("invalid question")

// Validate checks the per-kind invariants.
func (q Question) Validate() error {
	if strings.TrimSpace(q.Prompt) == "" {
		return fmt.Errorf("%w: empty prompt", ErrInvalidQuestion)
	}
	switch q.Kind {
	case MultipleChoice:
		if len(q.Choices) < 2 {
			return fmt.Errorf("%w: multiple-choice needs at least 2 choices", ErrInvalidQuestion)
		}
		for i, c := range q.Choices {
			if strings.TrimSpace(c) == "" {
				return fmt.Errorf("%w: empty choice %d", ErrInvalidQuestion, i)
			}
		}
		if q.CorrectChoiceIndex != NoCorrectChoice &&
			(q.CorrectChoiceIndex < 0 || q.CorrectChoiceIndex >= len(q.Choices)) {
			return fmt.Errorf("%w: correct index %d out of range", ErrInvalidQuestion, q.CorrectChoiceIndex)
		}
	case FillInBlank, ShortAnswer:
		if strings.TrimSpace(q.CorrectText) == "" {
			return fmt.Errorf("%w: %s needs a correct answer", ErrInvalidQuestion, q.Kind)
		}
	case DragDrop:
		if len(q.Choices) < 2 {
			return fmt.Errorf("%w: drag-drop needs at least 2 entries", ErrInvalidQuestion)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidQuestion, q.Kind)
	}
	return nil
}

// Answer is a player's response to one question. Exactly one field is
// meaningful depending on the question kind.
type Answer struct {
	ChoiceIndex int      `json:"choiceIndex"`
	Text        string   `json:"text,omitempty"`
	Order       []string `json:"order,omitempty"`
}

// Grade reports whether ans is correct for q. A multiple-choice question
// with no marked correct choice never grades correct.
func Grade(q Question, ans Answer) bool {
	switch q.Kind {
	case MultipleChoice:
		return q.CorrectChoiceIndex != NoCorrectChoice && ans.ChoiceIndex == q.CorrectChoiceIndex
	case FillInBlank, ShortAnswer:
		return NormalizeText(ans.Text) == NormalizeText(q.CorrectText)
	case DragDrop:
		if len(ans.Order) != len(q.Choices) {
			return false
		}
		for i, item := range ans.Order {
			if item != q.Choices[i] {
				return false
			}
		}
		return true
	}
	return false
}

// NormalizeText lowercases, trims, and collapses internal whitespace so
// that "Hồ Chí Minh " and "hồ  chí minh" compare equal.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
