package store

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/naka-gawa/myimpact/internal/apperrors"
	"github.com/naka-gawa/myimpact/internal/domain"
)

// SettingsStore keeps the single AppSettings record in settings.json.
type SettingsStore struct {
	doc    document
	logger *log.Logger
}

// NewSettingsStore creates a SettingsStore rooted at dataDir.
func NewSettingsStore(dataDir string, logger *log.Logger) *SettingsStore {
	return &SettingsStore{
		doc:    document{dir: dataDir, name: settingsFile},
		logger: logger,
	}
}

// Save overwrites the stored settings.
func (s *SettingsStore) Save(settings domain.AppSettings) error {
	if err := s.doc.write(settings, "settings"); err != nil {
		return err
	}
	s.logger.Println("Store: settings saved")
	return nil
}

// Load returns the stored settings, or zero settings when the file does not exist.
// A corrupt file is an error.
func (s *SettingsStore) Load() (domain.AppSettings, error) {
	data, exists, err := s.doc.read()
	if err != nil {
		return domain.AppSettings{}, fmt.Errorf("%w settings: %v", apperrors.ErrParse, err)
	}
	if !exists {
		return domain.AppSettings{}, nil
	}
	var settings domain.AppSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		return domain.AppSettings{}, fmt.Errorf("%w settings: %v", apperrors.ErrParse, err)
	}
	return settings, nil
}
