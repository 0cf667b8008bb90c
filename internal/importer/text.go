package importer

import (
	"context"
	"regexp"
	"strings"

	"github.com/eduplay/quizquest/internal/quiz"
)

// Line patterns for the document heuristic. A question starts with a
// label token, e.g. "Câu 1:", "Bài 3.", "Question 2:" or a bare "7.".
// Choice lines carry a single letter marker "A." .. "D:".
var (
	questionStartRe = regexp.MustCompile(`^(?:\p{L}+\s+)?\d+\s*[.:]\s*`)
	choiceLineRe    = regexp.MustCompile(`^[A-Da-d][.:]\s+`)
	correctAnnotRe  = regexp.MustCompile(`(?i)\((?:correct|đúng)\)`)
)

// Text parses free document text into multiple-choice questions using a
// best-effort line heuristic. A question is committed only once it has
// collected at least two choice lines; malformed input degrades by
// omission, never by error.
func (im *Importer) Text(ctx context.Context, text string) (Batch, error) {
	var b Batch
	ts := im.now()

	var prompt string
	var choices []string
	correct := quiz.NoCorrectChoice
	sawQuestion := false

	commit := func() {
		if !sawQuestion {
			return
		}
		if len(choices) < 2 {
			b.add(skip("question with fewer than 2 choices"))
			return
		}
		b.add(ok(quiz.Question{
			ID:                 syntheticID("doc", ts, len(b.Questions)),
			Kind:               quiz.MultipleChoice,
			Prompt:             prompt,
			Choices:            choices,
			CorrectChoiceIndex: correct,
		}))
	}

	for _, raw := range strings.Split(text, "\n") {
		if err := ctx.Err(); err != nil {
			return Batch{}, err
		}
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if m := questionStartRe.FindString(line); m != "" {
			commit()
			prompt = strings.TrimSpace(strings.TrimPrefix(line, m))
			choices = nil
			correct = quiz.NoCorrectChoice
			sawQuestion = true
			continue
		}

		if m := choiceLineRe.FindString(line); m != "" && sawQuestion {
			body := strings.TrimPrefix(line, m)
			if strings.Contains(body, "*") || correctAnnotRe.MatchString(body) {
				if correct == quiz.NoCorrectChoice {
					correct = len(choices)
				}
				body = strings.ReplaceAll(body, "*", "")
				body = correctAnnotRe.ReplaceAllString(body, "")
			}
			choices = append(choices, strings.TrimSpace(body))
		}
	}
	commit()

	return b, nil
}
