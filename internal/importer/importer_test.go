package importer

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/eduplay/quizquest/internal/quiz"
)

func testImporter() *Importer {
	return NewAt(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
}

func TestRowsOrderedLayout(t *testing.T) {
	rows := [][]string{
		{"Question", "A", "B", "C", "D", "Correct"},
		{"Q?", "A", "B", "C", "D", "b"},
	}
	b, err := testImporter().Rows(context.Background(), rows)
	if err != nil {
		t.Fatal(err)
	}
	if len(b.Questions) != 1 {
		t.Fatalf("expected 1 question, got %d (skipped %v)", len(b.Questions), b.Skipped)
	}
	q := b.Questions[0]
	if q.Kind != quiz.MultipleChoice {
		t.Errorf("expected multiple-choice, got %s", q.Kind)
	}
	// Lowercase letter "b" marks the second choice.
	if q.CorrectChoiceIndex != 1 {
		t.Errorf("expected correct index 1, got %d", q.CorrectChoiceIndex)
	}
	if q.ID == "" {
		t.Error("expected a synthesized id")
	}
}

func TestRowsSkipsInvalid(t *testing.T) {
	rows := [][]string{
		{"Question", "A", "B", "C", "D", "Correct"},
		{"", "A", "B", "C", "D", "A"},     // empty prompt
		{"Q?", "A", "B"},                  // too few columns
		{"Q?", "A", "", "C", "D", "A"},    // missing choice
		{"Kept?", "A", "B", "C", "D", "C"},
	}
	b, err := testImporter().Rows(context.Background(), rows)
	if err != nil {
		t.Fatal(err)
	}
	if len(b.Questions) != 1 || b.Questions[0].Prompt != "Kept?" {
		t.Fatalf("expected only the valid row, got %+v", b.Questions)
	}
	if len(b.Skipped) != 3 {
		t.Errorf("expected 3 skipped rows, got %d: %v", len(b.Skipped), b.Skipped)
	}
}

func TestRowsUnparseableCorrectLetter(t *testing.T) {
	rows := [][]string{
		{"Question", "A", "B", "C", "D", "Correct"},
		{"Q?", "A", "B", "C", "D", "X"},
		{"Q?", "A", "B", "C", "D", "17"},
		{"Q?", "A", "B", "C", "D", ""},
	}
	b, err := testImporter().Rows(context.Background(), rows)
	if err != nil {
		t.Fatal(err)
	}
	if len(b.Questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(b.Questions))
	}
	for i, q := range b.Questions {
		if q.CorrectChoiceIndex != quiz.NoCorrectChoice {
			t.Errorf("row %d: expected no correct choice, got %d", i, q.CorrectChoiceIndex)
		}
		// Still a valid record downstream code must handle.
		if err := q.Validate(); err != nil {
			t.Errorf("row %d: expected valid question, got %v", i, err)
		}
	}
}

func TestRowsNamedLayout(t *testing.T) {
	rows := [][]string{
		{"text", "type", "option1", "option2", "option3", "option4", "correctIndex", "correctAnswer"},
		{"Pick one", "multiple-choice", "a", "b", "c", "d", "2", ""},
		{"Fill it", "fill-in-blank", "", "", "", "", "", "giữ"},
		{"Order these", "drag-drop", "first", "second", "third", "", "", ""},
		{"No answer", "short-answer", "", "", "", "", "", ""},
	}
	b, err := testImporter().Rows(context.Background(), rows)
	if err != nil {
		t.Fatal(err)
	}
	if len(b.Questions) != 3 {
		t.Fatalf("expected 3 questions, got %d (skipped %v)", len(b.Questions), b.Skipped)
	}
	if b.Questions[0].CorrectChoiceIndex != 2 {
		t.Errorf("expected numeric correct index 2, got %d", b.Questions[0].CorrectChoiceIndex)
	}
	if b.Questions[1].Kind != quiz.FillInBlank || b.Questions[1].CorrectText != "giữ" {
		t.Errorf("unexpected fill-in-blank question: %+v", b.Questions[1])
	}
	if b.Questions[2].Kind != quiz.DragDrop || len(b.Questions[2].Choices) != 3 {
		t.Errorf("unexpected drag-drop question: %+v", b.Questions[2])
	}
	if len(b.Skipped) != 1 {
		t.Errorf("expected 1 skipped row, got %v", b.Skipped)
	}
}

func TestTextHeuristic(t *testing.T) {
	b, err := testImporter().Text(context.Background(), "Câu 1: X\nA. foo\nB. *bar")
	if err != nil {
		t.Fatal(err)
	}
	if len(b.Questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(b.Questions))
	}
	q := b.Questions[0]
	if q.Prompt != "X" {
		t.Errorf("expected prompt %q, got %q", "X", q.Prompt)
	}
	if len(q.Choices) != 2 {
		t.Fatalf("expected 2 choices, got %v", q.Choices)
	}
	if q.CorrectChoiceIndex != 1 {
		t.Errorf("expected second choice correct, got index %d", q.CorrectChoiceIndex)
	}
	// Marker stripped from the stored text.
	if q.Choices[1] != "bar" {
		t.Errorf("expected asterisk stripped, got %q", q.Choices[1])
	}
}

func TestTextMultipleQuestionsAndAnnotations(t *testing.T) {
	text := strings.Join([]string{
		"MẪU CÂU HỎI TRẮC NGHIỆM",
		"Câu 1: Who wrote Sóng?",
		"A. Xuân Quỳnh (Đúng)",
		"B. Tố Hữu",
		"",
		"Question 2. Year of Điện Biên Phủ?",
		"A: 1945",
		"B: *1954",
		"C: 1975",
		"3. Orphan without choices",
	}, "\n")

	b, err := testImporter().Text(context.Background(), text)
	if err != nil {
		t.Fatal(err)
	}
	if len(b.Questions) != 2 {
		t.Fatalf("expected 2 committed questions, got %d", len(b.Questions))
	}
	if b.Questions[0].CorrectChoiceIndex != 0 {
		t.Errorf("expected (Đúng) annotation to mark choice 0, got %d", b.Questions[0].CorrectChoiceIndex)
	}
	if b.Questions[0].Choices[0] != "Xuân Quỳnh" {
		t.Errorf("expected annotation stripped, got %q", b.Questions[0].Choices[0])
	}
	if b.Questions[1].CorrectChoiceIndex != 1 {
		t.Errorf("expected choice 1 correct, got %d", b.Questions[1].CorrectChoiceIndex)
	}
	// The trailing question never collected 2 choices.
	if len(b.Skipped) != 1 {
		t.Errorf("expected 1 skipped entry, got %v", b.Skipped)
	}
}

func TestJSONLegacyShape(t *testing.T) {
	data := []byte(`[
		{"text": "Q1?", "answers": [
			{"text": "wrong", "isCorrect": false},
			{"text": "right", "isCorrect": true}
		]},
		{"text": "no answers here"}
	]`)
	b, err := testImporter().JSON(context.Background(), data)
	if err != nil {
		t.Fatal(err)
	}
	if len(b.Questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(b.Questions))
	}
	q := b.Questions[0]
	if q.CorrectChoiceIndex != 1 {
		t.Errorf("expected correct index 1, got %d", q.CorrectChoiceIndex)
	}
	if q.ID == "" {
		t.Error("expected a synthesized id")
	}
	if len(b.Skipped) != 1 {
		t.Errorf("expected 1 skipped element, got %v", b.Skipped)
	}
}

func TestJSONCanonicalShape(t *testing.T) {
	data := []byte(`[
		{"id": "q7", "kind": "short-answer", "prompt": "Who?", "correctText": "Hồ Chí Minh"},
		{"type": "drag-drop", "text": "Order", "options": ["a", "b", "c"]},
		{"text": "MC", "options": ["x", "y"], "correctIndex": 0}
	]`)
	b, err := testImporter().JSON(context.Background(), data)
	if err != nil {
		t.Fatal(err)
	}
	if len(b.Questions) != 3 {
		t.Fatalf("expected 3 questions, got %d (skipped %v)", len(b.Questions), b.Skipped)
	}
	if b.Questions[0].ID != "q7" {
		t.Errorf("expected provided id kept, got %q", b.Questions[0].ID)
	}
	if b.Questions[1].ID == b.Questions[2].ID {
		t.Error("synthesized ids must be unique within a batch")
	}
}

func TestJSONRoundTripKeepsFirstChoiceKey(t *testing.T) {
	// A question whose correct answer is choice 0 must survive a
	// marshal-reimport cycle with its answer key intact.
	orig := quiz.Question{
		ID:                 "q1",
		Kind:               quiz.MultipleChoice,
		Prompt:             "Nhà nước đầu tiên của nước ta có tên là gì?",
		Choices:            []string{"Văn Lang", "Âu Lạc", "Vạn Xuân", "Đại Cồ Việt"},
		CorrectChoiceIndex: 0,
	}
	data, err := json.Marshal([]quiz.Question{orig})
	if err != nil {
		t.Fatal(err)
	}
	b, err := testImporter().JSON(context.Background(), data)
	if err != nil {
		t.Fatal(err)
	}
	if len(b.Questions) != 1 {
		t.Fatalf("expected 1 question, got %d (skipped %v)", len(b.Questions), b.Skipped)
	}
	if got := b.Questions[0].CorrectChoiceIndex; got != 0 {
		t.Errorf("round trip lost the answer key: expected index 0, got %d", got)
	}
}

func TestJSONMalformedAbortsWholeImport(t *testing.T) {
	if _, err := testImporter().JSON(context.Background(), []byte(`{"not":"an array"`)); err == nil {
		t.Fatal("expected malformed JSON to abort the import")
	}
}

func TestFileUnsupportedExtension(t *testing.T) {
	_, err := testImporter().File(context.Background(), "questions.pdf", strings.NewReader("x"))
	if err == nil {
		t.Fatal("expected unsupported extension error")
	}
}

func TestFileDispatchesText(t *testing.T) {
	b, err := testImporter().File(context.Background(), "bank.txt",
		strings.NewReader("1. Q?\nA. yes\nB. *no"))
	if err != nil {
		t.Fatal(err)
	}
	if len(b.Questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(b.Questions))
	}
}

func TestImportCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := testImporter().Text(ctx, "1. Q?\nA. a\nB. b")
	if err == nil {
		t.Fatal("expected cancelled context to abort the parse")
	}
}
