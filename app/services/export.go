package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// ErrUnknownFormat is returned by Export for formats other than json, csv and pdf.
var ErrUnknownFormat = fmt.Errorf("%w: unknown export format", ErrInvalidInput)

// Export renders every task in the requested format and returns the payload
// together with its content type.
func (s *TaskService) Export(ctx context.Context, format string) ([]byte, string, error) {
	format = strings.ToLower(format)
	if format == "" {
		format = "json"
	}
	if format != "json" && format != "csv" && format != "pdf" {
		return nil, "", ErrUnknownFormat
	}

	tasks, err := s.GetTasks(ctx)
	if err != nil {
		return nil, "", err
	}

	switch format {
	case "csv":
		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		_ = w.Write([]string{"numero_tarea", "descripcion", "conversationID"})
		for _, t := range tasks {
			_ = w.Write([]string{strconv.FormatInt(t.NumeroTarea, 10), t.Descripcion, t.ConversationID})
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return nil, "", fmt.Errorf("write csv: %w", err)
		}
		return buf.Bytes(), "text/csv; charset=utf-8", nil

	case "pdf":
		pdf := gofpdf.New("P", "mm", "A4", "")
		tr := pdf.UnicodeTranslatorFromDescriptor("")
		pdf.AddPage()
		pdf.SetFont("Arial", "B", 14)
		pdf.Cell(40, 10, "Tareas")
		pdf.Ln(12)
		pdf.SetFont("Arial", "", 10)
		for _, t := range tasks {
			line := fmt.Sprintf("#%d [%s] %s", t.NumeroTarea, t.ConversationID, t.Descripcion)
			pdf.MultiCell(0, 6, tr(line), "0", "L", false)
		}
		var buf bytes.Buffer
		if err := pdf.Output(&buf); err != nil {
			return nil, "", fmt.Errorf("write pdf: %w", err)
		}
		return buf.Bytes(), "application/pdf", nil

	default:
		b, err := json.MarshalIndent(tasks, "", "  ")
		if err != nil {
			return nil, "", fmt.Errorf("write json: %w", err)
		}
		return b, "application/json", nil
	}
}
