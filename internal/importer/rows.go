package importer

import (
	"context"
	"strconv"
	"strings"

	"github.com/eduplay/quizquest/internal/quiz"
)

// Two tabular layouts are accepted. The legacy layout is a header row
// followed by six ordered columns: question, four choices, correct
// letter. The named layout is detected by its header cells:
// text, type, option1..option4, correctIndex, correctAnswer.

type columnMap struct {
	text, typ, correctIndex, correctAnswer int
	options                                [4]int
}

// Rows normalizes tabular input. The first row is always treated as a
// header. Rows lacking a prompt or the required answer columns are
// skipped; an unparseable correct-answer letter yields a question with
// no option marked correct rather than an error.
func (im *Importer) Rows(ctx context.Context, rows [][]string) (Batch, error) {
	var b Batch
	if len(rows) == 0 {
		return b, nil
	}

	cols, named := detectNamedLayout(rows[0])
	ts := im.now()

	for i, row := range rows[1:] {
		if err := ctx.Err(); err != nil {
			return Batch{}, err
		}
		var r RowResult
		if named {
			r = namedRow(row, cols)
		} else {
			r = orderedRow(row)
		}
		if !r.skipped() {
			r.Question.ID = syntheticID("row", ts, i)
		}
		b.add(r)
	}
	return b, nil
}

func detectNamedLayout(header []string) (columnMap, bool) {
	cols := columnMap{text: -1, typ: -1, correctIndex: -1, correctAnswer: -1, options: [4]int{-1, -1, -1, -1}}
	found := false
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "text":
			cols.text = i
		case "type":
			cols.typ = i
			found = true
		case "option1":
			cols.options[0] = i
		case "option2":
			cols.options[1] = i
		case "option3":
			cols.options[2] = i
		case "option4":
			cols.options[3] = i
		case "correctindex":
			cols.correctIndex = i
		case "correctanswer":
			cols.correctAnswer = i
		}
	}
	return cols, found && cols.text >= 0
}

// orderedRow handles the six-column layout: prompt, A, B, C, D, letter.
func orderedRow(row []string) RowResult {
	if len(row) < 6 {
		return skip("too few columns")
	}
	prompt := strings.TrimSpace(row[0])
	if prompt == "" {
		return skip("empty prompt")
	}
	choices := make([]string, 4)
	for i := 0; i < 4; i++ {
		choices[i] = strings.TrimSpace(row[1+i])
		if choices[i] == "" {
			return skip("missing choice column")
		}
	}
	return ok(quiz.Question{
		Kind:               quiz.MultipleChoice,
		Prompt:             prompt,
		Choices:            choices,
		CorrectChoiceIndex: parseCorrectMark(row[5], len(choices)),
	})
}

func namedRow(row []string, cols columnMap) RowResult {
	cell := func(i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	prompt := cell(cols.text)
	if prompt == "" {
		return skip("empty prompt")
	}

	kind := quiz.Kind(cell(cols.typ))
	if kind == "" {
		kind = quiz.MultipleChoice
	}

	var choices []string
	for _, ci := range cols.options {
		if v := cell(ci); v != "" {
			choices = append(choices, v)
		}
	}

	q := quiz.Question{Kind: kind, Prompt: prompt}
	switch kind {
	case quiz.MultipleChoice:
		if len(choices) < 4 {
			return skip("missing choice column")
		}
		q.Choices = choices
		q.CorrectChoiceIndex = parseCorrectMark(cell(cols.correctIndex), len(choices))
	case quiz.FillInBlank, quiz.ShortAnswer:
		if cell(cols.correctAnswer) == "" {
			return skip("missing correct answer")
		}
		q.CorrectText = cell(cols.correctAnswer)
	case quiz.DragDrop:
		if len(choices) < 2 {
			return skip("drag-drop needs at least 2 options")
		}
		q.Choices = choices
	default:
		return skip("unknown question type " + string(kind))
	}
	if err := q.Validate(); err != nil {
		return skip(err.Error())
	}
	return ok(q)
}

// parseCorrectMark reads a correct-answer cell given either as a letter
// (A-D, case-insensitive) or a numeric index. Anything out of range or
// unparseable yields NoCorrectChoice: the row still imports, but no
// option is marked correct.
func parseCorrectMark(cell string, choiceCount int) int {
	s := strings.ToUpper(strings.TrimSpace(cell))
	if len(s) == 1 && s[0] >= 'A' && s[0] <= 'Z' {
		idx := int(s[0] - 'A')
		if idx < choiceCount {
			return idx
		}
		return quiz.NoCorrectChoice
	}
	if idx, err := strconv.Atoi(s); err == nil && idx >= 0 && idx < choiceCount {
		return idx
	}
	return quiz.NoCorrectChoice
}
