// Package importer converts heterogeneous external input (spreadsheet
// rows, document text, JSON arrays) into canonical quiz questions.
// Structurally invalid rows are skipped and counted; they never fail a
// whole batch. A whole batch fails only when its source is unreadable.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/eduplay/quizquest/internal/quiz"
)

var ErrUnsupportedFile = errors.New("unsupported file type")

// RowResult is the tagged outcome of normalizing one row: either an
// accepted question or a skip with its reason.
type RowResult struct {
	Question quiz.Question
	Reason   string
}

func ok(q quiz.Question) RowResult { return RowResult{Question: q} }
func skip(reason string) RowResult { return RowResult{Reason: reason} }
func (r RowResult) skipped() bool  { return r.Reason != "" }

// Batch aggregates row results, preserving input order of the accepted
// questions.
type Batch struct {
	Questions []quiz.Question
	Skipped   []string
}

func (b *Batch) add(r RowResult) {
	if r.skipped() {
		b.Skipped = append(b.Skipped, r.Reason)
		return
	}
	b.Questions = append(b.Questions, r.Question)
}

// Importer normalizes import sources into canonical questions. The now
// function stamps synthesized ids so a batch's ids are deterministic and
// unique within the batch.
type Importer struct {
	now func() time.Time
}

func New() *Importer {
	return &Importer{now: time.Now}
}

// NewAt pins the id timestamp, for tests.
func NewAt(t time.Time) *Importer {
	return &Importer{now: func() time.Time { return t }}
}

// syntheticID builds a batch-unique id from the import timestamp and the
// element's position, e.g. "xlsx-1714988112000-3".
func syntheticID(source string, ts time.Time, index int) string {
	return fmt.Sprintf("%s-%d-%d", source, ts.UnixMilli(), index)
}

// File dispatches on the file extension and normalizes the content.
// Unreadable input or an unsupported extension aborts the whole import
// with zero rows committed. The context cancels a long-running parse.
func (im *Importer) File(ctx context.Context, name string, r io.Reader) (Batch, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		data, err := io.ReadAll(r)
		if err != nil {
			return Batch{}, fmt.Errorf("reading %s: %w", name, err)
		}
		return im.JSON(ctx, data)
	case ".xlsx", ".xls":
		rows, err := readWorkbook(r)
		if err != nil {
			return Batch{}, fmt.Errorf("reading %s: %w", name, err)
		}
		return im.Rows(ctx, rows)
	case ".csv":
		rows, err := readCSV(r)
		if err != nil {
			return Batch{}, fmt.Errorf("reading %s: %w", name, err)
		}
		return im.Rows(ctx, rows)
	case ".docx":
		text, err := extractDocxText(r)
		if err != nil {
			return Batch{}, fmt.Errorf("reading %s: %w", name, err)
		}
		return im.Text(ctx, text)
	case ".doc", ".txt":
		data, err := io.ReadAll(r)
		if err != nil {
			return Batch{}, fmt.Errorf("reading %s: %w", name, err)
		}
		return im.Text(ctx, string(data))
	}
	return Batch{}, fmt.Errorf("%w: %s", ErrUnsupportedFile, name)
}
