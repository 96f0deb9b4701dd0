package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/MrJamesThe3rd/sitebook/internal/ledger"
)

// Source is the read side of the ledger that reports draw from.
type Source interface {
	Project() ledger.Project
	Summary() ledger.Summary
	Stages() []ledger.Stage
	Payments() []ledger.Payment
}

// Service builds reports from a live ledger.
type Service struct {
	src Source
	now func() time.Time
}

func NewService(src Source) *Service {
	return &Service{src: src, now: time.Now}
}

func (s *Service) Payments(start, end time.Time) Report {
	return Build(s.src.Payments(), start, end)
}

func (s *Service) Upcoming(n int) []Due {
	return Upcoming(s.src.Stages(), n)
}

func (s *Service) Markdown(start, end time.Time) string {
	return Markdown(s.src.Project(), s.src.Summary(), s.Payments(start, end))
}

// Export writes the markdown and CSV renderings of the report into dir and
// returns the paths written.
func (s *Service) Export(dir string, start, end time.Time) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	r := s.Payments(start, end)
	stamp := s.now().Format("20060102")

	mdPath := filepath.Join(dir, "payments_"+stamp+".md")
	if err := os.WriteFile(mdPath, []byte(Markdown(s.src.Project(), s.src.Summary(), r)), 0o644); err != nil {
		return nil, fmt.Errorf("writing markdown: %w", err)
	}

	csvPath := filepath.Join(dir, "payments_"+stamp+".csv")

	f, err := os.Create(csvPath)
	if err != nil {
		return nil, fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	if err := WriteCSV(f, r); err != nil {
		return nil, fmt.Errorf("writing csv: %w", err)
	}

	return []string{mdPath, csvPath}, nil
}
