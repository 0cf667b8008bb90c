package server

import (
	"errors"
	"net/http"

	"github.com/eduplay/quizquest/internal/importer"
)

// Imported files are read fully; cap the upload well above any
// realistic question bank.
const maxImportBytes = 32 << 20

type ImportResponse struct {
	Imported int      `json:"imported"`
	Skipped  []string `json:"skipped"`
}

// handleImport ingests a question file. Rows that cannot be salvaged
// are skipped with a reason; a structurally broken file imports nothing.
func handleImport(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxImportBytes); err != nil {
			writeError(w, http.StatusBadRequest, "invalid multipart form")
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "file field is required")
			return
		}
		defer file.Close()

		batch, err := importer.New().File(r.Context(), header.Filename, file)
		if errors.Is(err, importer.ErrUnsupportedFile) {
			writeError(w, http.StatusBadRequest, "unsupported file type")
			return
		}
		if err != nil {
			writeError(w, http.StatusBadRequest, "could not parse file: "+err.Error())
			return
		}

		if _, err := store.AppendQuestions(r.Context(), batch.Questions); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		skipped := batch.Skipped
		if skipped == nil {
			skipped = []string{}
		}
		writeJSON(w, http.StatusOK, ImportResponse{
			Imported: len(batch.Questions),
			Skipped:  skipped,
		})
	}
}
