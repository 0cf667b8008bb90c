package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/eduplay/quizquest/internal/quiz"
)

// jsonElement accepts both the canonical question shape and the legacy
// export shape {text, answers: [{text, isCorrect}]}. Field pairs are
// aliases; the canonical name wins when both are present.
type jsonElement struct {
	ID      string   `json:"id"`
	Kind    string   `json:"kind"`
	Type    string   `json:"type"`
	Prompt  string   `json:"prompt"`
	Text    string   `json:"text"`
	Choices []string `json:"choices"`
	Options []string `json:"options"`

	CorrectChoiceIndex *int   `json:"correctChoiceIndex"`
	CorrectIndex       *int   `json:"correctIndex"`
	CorrectText        string `json:"correctText"`
	CorrectAnswer      string `json:"correctAnswer"`

	Answers []struct {
		Text      string `json:"text"`
		IsCorrect bool   `json:"isCorrect"`
	} `json:"answers"`
}

// JSON normalizes a JSON array of questions. Malformed JSON aborts the
// whole import; individual elements missing a prompt or an answer set
// are skipped. Elements without ids get batch-unique synthesized ones.
func (im *Importer) JSON(ctx context.Context, data []byte) (Batch, error) {
	var elems []jsonElement
	if err := json.Unmarshal(data, &elems); err != nil {
		return Batch{}, fmt.Errorf("parsing question JSON: %w", err)
	}

	var b Batch
	ts := im.now()
	for i, el := range elems {
		if err := ctx.Err(); err != nil {
			return Batch{}, err
		}
		r := normalizeElement(el)
		if !r.skipped() && r.Question.ID == "" {
			r.Question.ID = syntheticID("json", ts, i)
		}
		b.add(r)
	}
	return b, nil
}

func normalizeElement(el jsonElement) RowResult {
	prompt := strings.TrimSpace(el.Prompt)
	if prompt == "" {
		prompt = strings.TrimSpace(el.Text)
	}
	if prompt == "" {
		return skip("element without prompt")
	}

	kind := quiz.Kind(el.Kind)
	if kind == "" {
		kind = quiz.Kind(el.Type)
	}

	choices := el.Choices
	if len(choices) == 0 {
		choices = el.Options
	}

	correctText := el.CorrectText
	if correctText == "" {
		correctText = el.CorrectAnswer
	}

	q := quiz.Question{ID: el.ID, Prompt: prompt}

	switch {
	case len(el.Answers) > 0:
		// Legacy shape: answers carry their own correct flag.
		q.Kind = quiz.MultipleChoice
		q.CorrectChoiceIndex = quiz.NoCorrectChoice
		for i, a := range el.Answers {
			q.Choices = append(q.Choices, a.Text)
			if a.IsCorrect && q.CorrectChoiceIndex == quiz.NoCorrectChoice {
				q.CorrectChoiceIndex = i
			}
		}
	case kind == quiz.FillInBlank || kind == quiz.ShortAnswer:
		q.Kind = kind
		q.CorrectText = correctText
	case kind == quiz.DragDrop:
		q.Kind = quiz.DragDrop
		q.Choices = choices
	case len(choices) > 0:
		q.Kind = quiz.MultipleChoice
		q.Choices = choices
		q.CorrectChoiceIndex = quiz.NoCorrectChoice
		if el.CorrectChoiceIndex != nil {
			q.CorrectChoiceIndex = *el.CorrectChoiceIndex
		} else if el.CorrectIndex != nil {
			q.CorrectChoiceIndex = *el.CorrectIndex
		}
		if q.CorrectChoiceIndex < 0 || q.CorrectChoiceIndex >= len(q.Choices) {
			q.CorrectChoiceIndex = quiz.NoCorrectChoice
		}
	default:
		return skip("element without answers or choices")
	}

	if err := q.Validate(); err != nil {
		return skip(err.Error())
	}
	return ok(q)
}
