package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/signintech/gopdf"

	"symptom-check-bot/internal/session"
)

// Service renders a completed symptom check as a PDF the user (or their
// provider) can download.
type Service struct {
	fontPaths []string
}

func NewService() *Service {
	return &Service{
		// Common DejaVuSans locations, Alpine first.
		fontPaths: []string{
			"/usr/share/fonts/ttf-dejavu/DejaVuSans.ttf",
			"/usr/share/fonts/dejavu/DejaVuSans.ttf",
			"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
		},
	}
}

// Render builds the PDF for a session whose flow has completed.
func (r *Service) Render(s *session.Session) ([]byte, error) {
	if s.Result == nil {
		return nil, fmt.Errorf("session %s has no completed symptom check", s.Key)
	}
	res := s.Result

	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	pdf.AddPage()

	var fontErr error
	fontLoaded := false
	for _, path := range r.fontPaths {
		if err := pdf.AddTTFFont("DejaVu", path); err == nil {
			fontLoaded = true
			break
		} else {
			fontErr = err
		}
	}
	if !fontLoaded {
		return nil, fmt.Errorf("failed to load font for PDF, ensure ttf-dejavu is installed: %w", fontErr)
	}

	if err := pdf.SetFont("DejaVu", "", 20); err != nil {
		return nil, err
	}
	pdf.Cell(nil, "Symptom Check Report")
	pdf.Br(30)

	if err := pdf.SetFont("DejaVu", "", 12); err != nil {
		return nil, err
	}
	pdf.Cell(nil, fmt.Sprintf("Date: %s", s.UpdatedAt.Format("02.01.2006 15:04")))
	pdf.Br(15)
	pdf.Cell(nil, fmt.Sprintf("Check ID: %s", s.FlowID))
	pdf.Br(25)

	if err := pdf.SetFont("DejaVu", "", 14); err != nil {
		return nil, err
	}
	pdf.Cell(nil, "Reported symptoms:")
	pdf.Br(15)

	if err := pdf.SetFont("DejaVu", "", 11); err != nil {
		return nil, err
	}
	if len(res.Matched) == 0 {
		pdf.Cell(nil, "- none recorded")
		pdf.Br(12)
	}
	for _, sym := range res.Matched {
		pdf.Cell(nil, "- "+sym.Display())
		pdf.Br(12)
	}
	pdf.Br(10)

	if err := pdf.SetFont("DejaVu", "", 14); err != nil {
		return nil, err
	}
	pdf.Cell(nil, "Assessment:")
	pdf.Br(15)

	if err := pdf.SetFont("DejaVu", "", 11); err != nil {
		return nil, err
	}
	writeWrapped(&pdf, fmt.Sprintf("Possible condition: %s (%.2f%% confidence)", res.Condition, res.Confidence))
	writeWrapped(&pdf, "Severity: "+string(res.Severity))
	writeWrapped(&pdf, "Description: "+res.Description)
	pdf.Br(10)

	if err := pdf.SetFont("DejaVu", "", 14); err != nil {
		return nil, err
	}
	pdf.Cell(nil, "Precautions:")
	pdf.Br(15)

	if err := pdf.SetFont("DejaVu", "", 11); err != nil {
		return nil, err
	}
	for i, p := range res.Precautions {
		writeWrapped(&pdf, fmt.Sprintf("%d) %s", i+1, strings.TrimSpace(p)))
	}
	pdf.Br(15)

	if err := pdf.SetFont("DejaVu", "", 9); err != nil {
		return nil, err
	}
	writeWrapped(&pdf, "Generated "+time.Now().Format("02.01.2006 15:04")+
		". This report provides general health information only and is not a medical diagnosis.")

	return pdf.GetBytesPdf(), nil
}

func writeWrapped(pdf *gopdf.GoPdf, line string) {
	lines, _ := pdf.SplitText(line, 500)
	for _, l := range lines {
		pdf.Cell(nil, l)
		pdf.Br(12)
	}
	pdf.Br(3)
}
