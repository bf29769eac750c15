package importer

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexanderramin/sitetrack/internal/domain"
	"github.com/alexanderramin/sitetrack/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)

	assert.Equal(t, FormatYAML, FormatFromPath("backup.yaml"))
	assert.Equal(t, FormatJSON, FormatFromPath("backup.json"))
	assert.Equal(t, FormatJSON, FormatFromPath("backup"))
}

func TestDocumentRoundTrip(t *testing.T) {
	snap := testutil.NewTestSnapshot()
	exported := time.Date(2024, 2, 1, 9, 30, 0, 0, time.UTC)

	for _, format := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			data, err := EncodeDocument(NewDocument(snap, exported), format)
			require.NoError(t, err)

			doc, err := ParseDocument(data, format)
			require.NoError(t, err)
			assert.Equal(t, DocumentVersion, doc.Version)
			assert.True(t, exported.Equal(doc.ExportedAt))
			assert.Equal(t, snap, doc.State)
		})
	}
}

func TestLoadDocument_FromFile(t *testing.T) {
	snap := testutil.NewTestSnapshot()
	data, err := EncodeDocument(NewDocument(snap, time.Now()), FormatYAML)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "export.yml")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	doc, err := LoadDocument(path)
	require.NoError(t, err)
	assert.Equal(t, snap.Tasks[1].Name, doc.State.Tasks[1].Name)
}

func TestParseDocument_RejectsNewerVersion(t *testing.T) {
	_, err := ParseDocument([]byte(`{"version": 99, "state": {"sites": []}}`), FormatJSON)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "newer than supported")
}

func TestParseDocument_YAMLWithoutState(t *testing.T) {
	_, err := ParseDocument([]byte("version: 1\n"), FormatYAML)
	assert.Error(t, err)
}

const legacyBlob = `{
  "sites": [{"id": "1700000000001", "name": "Harbour Road"}],
  "phases": [{"id": "p1", "name": "Foundations", "siteId": "1700000000001"}],
  "sections": [{"id": "s1", "name": "Footings", "phaseId": "p1"}],
  "subsections": [{"id": "ss1", "name": "Grid A", "sectionId": "s1"}],
  "tasks": [
    {"id": "t1", "siteId": "1700000000001", "taskName": "Pour", "phaseId": "p1", "sectionId": "s1",
     "subsectionId": "ss1", "dueDate": "2024-03-01", "endDate": "2024-03-05",
     "actualStartDate": "2024-03-02", "actualEndDate": null, "progress": "30"},
    {"id": "t2", "siteId": "1700000000001", "taskName": "Cure", "dueDate": "2024-03-06",
     "endDate": "2024-03-10", "progress": 0, "dependentOnTaskId": "t1"}
  ],
  "selectedSiteId": "1700000000001",
  "modalTarget": null
}`

func TestConvertLegacy(t *testing.T) {
	snap, err := ConvertLegacy([]byte(legacyBlob))
	require.NoError(t, err)

	require.Len(t, snap.Sites, 1)
	assert.Equal(t, "Harbour Road", snap.Sites[0].Name)
	assert.Equal(t, "1700000000001", snap.SelectedSiteID)

	require.Len(t, snap.Sections, 1)
	assert.Equal(t, "1700000000001", snap.Sections[0].SiteID, "section inherits site from its phase")
	assert.Equal(t, domain.LevelSection, snap.Sections[0].Level)
	require.Len(t, snap.Subsections, 1)
	assert.Equal(t, "1700000000001", snap.Subsections[0].SiteID)
	assert.Equal(t, "s1", snap.Subsections[0].ParentID)

	require.Len(t, snap.Tasks, 2)
	pour := snap.Tasks[0]
	assert.Equal(t, "Pour", pour.Name)
	assert.Equal(t, testutil.Date(2024, 3, 1), pour.DueDate)
	require.NotNil(t, pour.ActualStartDate)
	assert.Equal(t, testutil.Date(2024, 3, 2), *pour.ActualStartDate)
	assert.Nil(t, pour.ActualEndDate)
	assert.Equal(t, 30, pour.Progress)
	assert.Equal(t, "t1", snap.Tasks[1].DependentOnTaskID)
}

func TestConvertLegacy_BadDate(t *testing.T) {
	_, err := ConvertLegacy([]byte(`{"tasks": [{"id": "t", "taskName": "x", "dueDate": "03/01/2024"}]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tasks[0].dueDate")
}

func TestParseDocument_FallsBackToLegacyBlob(t *testing.T) {
	doc, err := ParseDocument([]byte(legacyBlob), FormatJSON)
	require.NoError(t, err)
	assert.Len(t, doc.State.Tasks, 2)

	errs, warns := ValidateDocument(doc)
	assert.Empty(t, errs)
	assert.Empty(t, warns)
}

// A blob as the browser app writes it: a phase added with no site selected,
// its section, and a dateless placeholder task.
const legacyBlobWithOrphans = `{
  "sites": [{"id": "1", "name": "Harbour Road"}],
  "phases": [
    {"id": "2", "name": "Foundations", "siteId": "1"},
    {"id": "3", "name": "Stray phase", "siteId": null}
  ],
  "sections": [{"id": "4", "name": "Stray section", "phaseId": "3"}],
  "subsections": [],
  "tasks": [
    {"id": "5", "siteId": "1", "taskName": "Pour", "phaseId": "2", "dueDate": "2024-03-01",
     "endDate": "2024-03-05", "actualStartDate": null, "actualEndDate": null, "progress": 0,
     "dependentOnTaskId": null},
    {"id": "6", "siteId": "1", "taskName": "placeholder", "phaseId": "2", "dueDate": null,
     "endDate": null, "actualStartDate": null, "actualEndDate": null, "progress": 0,
     "dependentOnTaskId": null}
  ],
  "selectedSiteId": "1"
}`

func TestPruneOrphans_LegacyBlobImportsValidRecords(t *testing.T) {
	doc, err := ParseDocument([]byte(legacyBlobWithOrphans), FormatJSON)
	require.NoError(t, err)

	pruned := PruneOrphans(doc)
	errs, warns := ValidateDocument(doc)
	assert.Empty(t, errs)
	assert.Empty(t, warns)

	var paths []string
	for _, w := range pruned {
		paths = append(paths, w.Path)
	}
	assert.Equal(t, []string{"phases[1]", "sections[0]", "tasks[1]"}, paths)
	assert.Contains(t, pruned[0].Message, "no site")
	assert.Contains(t, pruned[2].Message, "placeholder")

	require.Len(t, doc.State.Sites, 1)
	require.Len(t, doc.State.Phases, 1)
	assert.Equal(t, "Foundations", doc.State.Phases[0].Name)
	assert.Empty(t, doc.State.Sections)
	require.Len(t, doc.State.Tasks, 1)
	assert.Equal(t, "Pour", doc.State.Tasks[0].Name)
}

func TestPruneOrphans_InheritsSiteFromParents(t *testing.T) {
	snap := testutil.NewTestSnapshot()
	siteID := snap.Sites[0].ID
	snap.Subsections[0].SiteID = ""
	snap.Tasks[0].SiteID = ""
	snap.Tasks[0].PhaseID = snap.Phases[0].ID
	snap.Tasks[1].SiteID = "demolished"

	doc := &Document{Version: 1, State: snap}
	pruned := PruneOrphans(doc)
	require.Len(t, pruned, 1)
	assert.Equal(t, "tasks[1]", pruned[0].Path)
	assert.Contains(t, pruned[0].Message, `site "demolished" not found`)

	assert.Equal(t, siteID, snap.Subsections[0].SiteID)
	assert.Equal(t, siteID, snap.Tasks[0].SiteID)
	assert.Len(t, snap.Tasks, 3)
}

func TestPruneOrphans_NilDocument(t *testing.T) {
	assert.Nil(t, PruneOrphans(nil))
	assert.Nil(t, PruneOrphans(&Document{}))
}

func TestValidateDocument_Valid(t *testing.T) {
	errs, warns := ValidateDocument(NewDocument(testutil.NewTestSnapshot(), time.Now()))
	assert.Empty(t, errs)
	assert.Empty(t, warns)
}

func TestValidateDocument_Errors(t *testing.T) {
	snap := testutil.NewTestSnapshot()
	snap.Tasks[0].Name = ""
	snap.Tasks[1].Progress = 140
	snap.Tasks[2].DependentOnTaskID = snap.Tasks[2].ID
	snap.Sites = append(snap.Sites, &domain.Site{ID: snap.Sites[0].ID, Name: "Dup"})

	errs, _ := ValidateDocument(&Document{Version: 1, State: snap})
	require.Len(t, errs, 4)
	assert.Contains(t, errs[0].Error(), "sites[1].id")
	assert.Contains(t, errs[1].Error(), "tasks[0]: task name is required")
	assert.Contains(t, errs[2].Error(), "tasks[1]")
	assert.Contains(t, errs[3].Error(), "tasks[2].dependentOnTaskId references itself")
}

func TestValidateDocument_DanglingReferencesAreWarnings(t *testing.T) {
	snap := testutil.NewTestSnapshot()
	snap.Tasks[0].PhaseID = "gone"
	snap.Tasks[3].DependentOnTaskID = "missing"
	snap.Subsections[0].ParentID = "nowhere"
	snap.SelectedSiteID = "deleted"

	errs, warns := ValidateDocument(&Document{Version: 1, State: snap})
	assert.Empty(t, errs)

	var paths []string
	for _, w := range warns {
		paths = append(paths, w.Path)
	}
	assert.ElementsMatch(t, []string{
		"subsections[0].parentId",
		"tasks[0].phaseId",
		"tasks[3].dependentOnTaskId",
		"selectedSiteId",
	}, paths)
}

func TestValidateDocument_NoState(t *testing.T) {
	errs, _ := ValidateDocument(&Document{Version: 1})
	require.Len(t, errs, 1)
}
