package store

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/myimpact/internal/apperrors"
	"github.com/naka-gawa/myimpact/internal/domain"
)

func newTestReportStore(t *testing.T) (*ReportStore, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), ".myimpact")
	return NewReportStore(dir, log.New(io.Discard, "", 0)), dir
}

func report(id, name string) domain.SavedReport {
	body := "Adds retries"
	number := 12
	return domain.SavedReport{
		ID:        id,
		Name:      name,
		CreatedAt: "2024-07-01T09:00:00Z",
		OrgName:   "acme",
		DateRange: "2024-01-01 to 2024-06-30",
		PRCount:   1,
		Summary:   "I shipped retries.",
		PullRequests: []domain.PullRequest{{
			Title:      "Add retries",
			URL:        "https://github.com/acme/api/pull/12",
			Body:       &body,
			ClosedAt:   "2024-02-01T00:00:00Z",
			Number:     &number,
			Repository: domain.Repository{Name: "api", NameWithOwner: "acme/api"},
		}},
	}
}

func TestReportStore_ListMissingFile(t *testing.T) {
	s, dir := newTestReportStore(t)

	reports, err := s.List()

	require.NoError(t, err)
	assert.NotNil(t, reports)
	assert.Empty(t, reports)
	assert.DirExists(t, dir)
	assert.NoFileExists(t, filepath.Join(dir, reportsFile))
}

func TestReportStore_UpsertIsIdempotent(t *testing.T) {
	s, _ := newTestReportStore(t)
	r := report("r1", "H1 review")

	require.NoError(t, s.Upsert(r))
	require.NoError(t, s.Upsert(r))

	reports, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []domain.SavedReport{r}, reports)
}

func TestReportStore_UpsertReplacesByID(t *testing.T) {
	s, _ := newTestReportStore(t)
	first := report("r1", "draft")
	other := report("r2", "other")
	second := report("r1", "final")
	second.Summary = "Edited summary."
	second.PullRequests = nil
	second.PRCount = 0

	require.NoError(t, s.Upsert(first))
	require.NoError(t, s.Upsert(other))
	require.NoError(t, s.Upsert(second))

	reports, err := s.List()
	require.NoError(t, err)
	require.Len(t, reports, 2)
	// Replacement keeps the original position.
	assert.Equal(t, "r1", reports[0].ID)
	assert.Equal(t, "final", reports[0].Name)
	assert.Equal(t, "Edited summary.", reports[0].Summary)
	assert.Equal(t, "r2", reports[1].ID)
}

func TestReportStore_UpsertThenDelete(t *testing.T) {
	s, _ := newTestReportStore(t)

	require.NoError(t, s.Upsert(report("r1", "only")))
	require.NoError(t, s.Delete("r1"))

	reports, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, reports)
}

func TestReportStore_DeleteUnknownID(t *testing.T) {
	t.Run("missing file stays missing", func(t *testing.T) {
		s, dir := newTestReportStore(t)

		require.NoError(t, s.Delete("nope"))

		assert.NoFileExists(t, filepath.Join(dir, reportsFile))
	})

	t.Run("existing reports are untouched", func(t *testing.T) {
		s, _ := newTestReportStore(t)
		require.NoError(t, s.Upsert(report("r1", "keep")))

		require.NoError(t, s.Delete("nope"))

		reports, err := s.List()
		require.NoError(t, err)
		assert.Equal(t, []domain.SavedReport{report("r1", "keep")}, reports)
	})
}

func TestReportStore_DeleteRemovesDuplicates(t *testing.T) {
	s, dir := newTestReportStore(t)
	require.NoError(t, os.MkdirAll(dir, 0o700))
	content := `[{"id":"dup","name":"a"},{"id":"x","name":"b"},{"id":"dup","name":"c"}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, reportsFile), []byte(content), 0o600))

	require.NoError(t, s.Delete("dup"))

	reports, err := s.List()
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "x", reports[0].ID)
}

func TestReportStore_CorruptFile(t *testing.T) {
	s, dir := newTestReportStore(t)
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, reportsFile), []byte("{corrupt"), 0o600))

	_, err := s.List()
	assert.ErrorIs(t, err, apperrors.ErrParse)

	// Writes are not blocked by the corrupt content.
	require.NoError(t, s.Upsert(report("r1", "fresh")))
	reports, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []domain.SavedReport{report("r1", "fresh")}, reports)
}

func TestReportStore_Get(t *testing.T) {
	s, _ := newTestReportStore(t)
	require.NoError(t, s.Upsert(report("r1", "one")))

	got, found, err := s.Get("r1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "one", got.Name)

	_, found, err = s.Get("r2")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestReportStore_PRCountIsStoredVerbatim(t *testing.T) {
	s, _ := newTestReportStore(t)
	r := report("r1", "mismatch")
	r.PRCount = 42

	require.NoError(t, s.Upsert(r))

	got, _, err := s.Get("r1")
	require.NoError(t, err)
	assert.Equal(t, 42, got.PRCount)
	assert.Len(t, got.PullRequests, 1)
}

func TestReportStore_WriteFailure(t *testing.T) {
	parent := t.TempDir()
	blocker := filepath.Join(parent, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))
	s := NewReportStore(filepath.Join(blocker, "data"), log.New(io.Discard, "", 0))

	err := s.Upsert(report("r1", "x"))

	assert.ErrorIs(t, err, apperrors.ErrFileWrite)
}
