package store

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/naka-gawa/myimpact/internal/apperrors"
	"github.com/naka-gawa/myimpact/internal/domain"
)

// ReportStore keeps saved reports in reports.json, keyed by report ID.
type ReportStore struct {
	doc    document
	logger *log.Logger
}

// NewReportStore creates a ReportStore rooted at dataDir.
func NewReportStore(dataDir string, logger *log.Logger) *ReportStore {
	return &ReportStore{
		doc:    document{dir: dataDir, name: reportsFile},
		logger: logger,
	}
}

// List returns every saved report in file order. A missing file is an empty list;
// an unreadable or corrupt file is an error.
func (s *ReportStore) List() ([]domain.SavedReport, error) {
	data, exists, err := s.doc.read()
	if err != nil {
		return nil, fmt.Errorf("%w reports: %v", apperrors.ErrParse, err)
	}
	if !exists {
		return []domain.SavedReport{}, nil
	}
	reports := []domain.SavedReport{}
	if err := json.Unmarshal(data, &reports); err != nil {
		return nil, fmt.Errorf("%w reports: %v", apperrors.ErrParse, err)
	}
	if reports == nil {
		reports = []domain.SavedReport{}
	}
	return reports, nil
}

// Upsert replaces the first report with the same ID, or appends the report.
func (s *ReportStore) Upsert(report domain.SavedReport) error {
	reports, _ := s.loadLenient()

	replaced := false
	for i := range reports {
		if reports[i].ID == report.ID {
			reports[i] = report
			replaced = true
			break
		}
	}
	if !replaced {
		reports = append(reports, report)
	}

	if err := s.doc.write(reports, "reports"); err != nil {
		return err
	}
	s.logger.Printf("Store: saved report %q (replaced=%t, total=%d)", report.ID, replaced, len(reports))
	return nil
}

// Delete removes every report with the given ID. Unknown IDs and a missing file are not errors.
func (s *ReportStore) Delete(id string) error {
	reports, exists := s.loadLenient()
	if !exists {
		return nil
	}
	kept := reports[:0]
	for _, r := range reports {
		if r.ID != id {
			kept = append(kept, r)
		}
	}

	if err := s.doc.write(kept, "reports"); err != nil {
		return err
	}
	s.logger.Printf("Store: deleted %d report(s) with id %q", len(reports)-len(kept), id)
	return nil
}

// Get returns the report with the given ID and whether it was found.
func (s *ReportStore) Get(id string) (domain.SavedReport, bool, error) {
	reports, err := s.List()
	if err != nil {
		return domain.SavedReport{}, false, err
	}
	for _, r := range reports {
		if r.ID == id {
			return r, true, nil
		}
	}
	return domain.SavedReport{}, false, nil
}

// loadLenient treats unreadable or corrupt content as an empty collection so that
// a damaged file never blocks the next write. The flag reports whether the file exists.
func (s *ReportStore) loadLenient() ([]domain.SavedReport, bool) {
	data, exists, err := s.doc.read()
	if err != nil {
		s.logger.Printf("Store: ignoring unreadable reports file: %v", err)
		return []domain.SavedReport{}, exists
	}
	if !exists {
		return []domain.SavedReport{}, false
	}
	var reports []domain.SavedReport
	if err := json.Unmarshal(data, &reports); err != nil {
		s.logger.Printf("Store: ignoring corrupt reports file: %v", err)
		return []domain.SavedReport{}, true
	}
	if reports == nil {
		reports = []domain.SavedReport{}
	}
	return reports, true
}
