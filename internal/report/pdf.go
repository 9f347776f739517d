// Package report renders completed encounters as downloadable PDF documents.
package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/signintech/gopdf"

	"github.com/oscesim/consult-service/internal/domain/models"
)

const (
	pageTextWidth = 500.0
	lineHeight    = 14.0
	bottomMargin  = 800.0
)

var fontPaths = []string{
	"/usr/share/fonts/ttf-dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
}

// Renderer produces feedback reports for finished encounters.
type Renderer struct {
	fontPaths []string
}

// NewRenderer creates a renderer. Custom font paths override the defaults,
// which cover the common DejaVu install locations.
func NewRenderer(paths ...string) *Renderer {
	if len(paths) == 0 {
		paths = fontPaths
	}
	return &Renderer{fontPaths: paths}
}

// Render produces the PDF bytes for one encounter: scenario summary, the
// rubric scores with examiner comments, and the visible dialogue.
func (r *Renderer) Render(encounter *models.Encounter) ([]byte, error) {
	if encounter == nil {
		return nil, fmt.Errorf("encounter is required")
	}

	pdf := &gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	pdf.AddPage()

	var fontErr error
	loaded := false
	for _, path := range r.fontPaths {
		if err := pdf.AddTTFFont("report", path); err == nil {
			loaded = true
			break
		} else {
			fontErr = err
		}
	}
	if !loaded {
		return nil, fmt.Errorf("failed to load report font: %w", fontErr)
	}

	w := &writer{pdf: pdf}

	w.heading(18, "Consultation Feedback Report")
	w.line(10, "Generated: "+encounter.CreatedAt.Format(time.RFC1123))
	w.space(10)

	if sc := encounter.Scenario; sc != nil {
		w.heading(13, "Scenario")
		w.line(11, fmt.Sprintf("Patient: %s, %d, %s, %s", sc.Persona.Name, sc.Persona.Age, sc.Persona.Gender, sc.Persona.Ethnicity))
		w.line(11, "Presenting complaint: "+sc.Complaint)
		w.line(11, "Body system: "+sc.BodySystem)
		if len(sc.Comorbidities) > 0 {
			w.wrapped(11, "Comorbidities: "+strings.Join(sc.Comorbidities, ", "))
		}
		w.space(10)
	}

	r.renderFeedback(w, encounter.Feedback)
	r.renderDialogue(w, encounter.Transcript)

	var buf bytes.Buffer
	if _, err := pdf.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	if w.err != nil {
		return nil, w.err
	}
	return buf.Bytes(), nil
}

func (r *Renderer) renderFeedback(w *writer, fb *models.Feedback) {
	w.heading(13, "Examiner Feedback")
	if fb == nil {
		w.line(11, "No feedback was generated for this encounter.")
		w.space(10)
		return
	}

	if fb.Result != nil {
		for _, cat := range fb.Result.Categories() {
			w.line(11, fmt.Sprintf("%s: %d/10", cat.Name, cat.Score.Score))
			w.wrapped(10, cat.Score.Comment)
			w.space(4)
		}
		w.line(11, fmt.Sprintf("Overall: %d/70", fb.Result.Overall))
		w.space(6)
		w.wrapped(10, "Clinical reasoning: "+fb.Result.ClinicalReasoning)
	} else {
		w.wrapped(10, fb.Raw)
	}
	w.space(10)
}

func (r *Renderer) renderDialogue(w *writer, transcript models.Transcript) {
	w.heading(13, "Dialogue")
	for _, msg := range transcript.Visible() {
		speaker := "Patient"
		if msg.Role == models.RoleUser {
			speaker = "User"
		}
		w.wrapped(10, speaker+": "+msg.Content)
		w.space(4)
	}
}

// writer collects the first rendering error so callers need a single check.
type writer struct {
	pdf *gopdf.GoPdf
	err error
}

func (w *writer) setFont(size float64) {
	if w.err == nil {
		w.err = w.pdf.SetFont("report", "", size)
	}
}

func (w *writer) heading(size float64, text string) {
	w.setFont(size)
	if w.err != nil {
		return
	}
	w.pdf.Cell(nil, text)
	w.pdf.Br(size + 8)
}

func (w *writer) line(size float64, text string) {
	w.setFont(size)
	if w.err != nil {
		return
	}
	w.pageBreak()
	w.pdf.Cell(nil, text)
	w.pdf.Br(lineHeight)
}

func (w *writer) wrapped(size float64, text string) {
	w.setFont(size)
	if w.err != nil {
		return
	}
	lines, err := w.pdf.SplitText(text, pageTextWidth)
	if err != nil {
		lines = []string{text}
	}
	for _, l := range lines {
		w.pageBreak()
		w.pdf.Cell(nil, l)
		w.pdf.Br(lineHeight - 2)
	}
}

func (w *writer) space(n float64) {
	if w.err == nil {
		w.pdf.Br(n)
	}
}

func (w *writer) pageBreak() {
	if w.pdf.GetY() > bottomMargin {
		w.pdf.AddPage()
	}
}
