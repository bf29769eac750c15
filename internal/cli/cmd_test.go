package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/alexanderramin/sitetrack/internal/config"
	"github.com/alexanderramin/sitetrack/internal/domain"
	"github.com/alexanderramin/sitetrack/internal/repository"
	"github.com/alexanderramin/sitetrack/internal/service"
	"github.com/alexanderramin/sitetrack/internal/store"
	"github.com/alexanderramin/sitetrack/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cliNow = time.Date(2024, 1, 16, 9, 0, 0, 0, time.UTC)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string { return ansiPattern.ReplaceAllString(s, "") }

// testApp wires an App over an in-memory snapshot repo with a fixed clock.
func testApp(t *testing.T, initial *domain.Snapshot) (*App, *repository.MemorySnapshotRepo) {
	t.Helper()
	repo := repository.NewMemorySnapshotRepo(initial)
	n := 0
	tracker := service.NewTrackerService(repo,
		service.WithClock(func() time.Time { return cliNow }),
		service.WithStoreOptions(store.WithIDFunc(func() string {
			n++
			return fmt.Sprintf("id-%02d", n)
		})),
	)
	require.NoError(t, tracker.Open(context.Background()))

	return &App{
		Tracker: tracker,
		Config:  config.Default(),
	}, repo
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stripANSI(buf.String()), err
}

// --- Sites ---

func TestSiteCmd_AddListSelect(t *testing.T) {
	app, repo := testApp(t, nil)

	out, err := executeCmd(t, app, "site", "add", "North Yard")
	require.NoError(t, err)
	assert.Contains(t, out, "Site 'North Yard' added!")

	_, err = executeCmd(t, app, "site", "add", "South Yard")
	require.NoError(t, err)

	out, err = executeCmd(t, app, "site", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "North Yard")
	assert.Contains(t, out, "South Yard")
	assert.Equal(t, "id-01", app.Tracker.SelectedSiteID(context.Background()), "first site is auto-selected")

	out, err = executeCmd(t, app, "site", "select", "south yard")
	require.NoError(t, err)
	assert.Contains(t, out, "Selected site")
	assert.Equal(t, "id-02", app.Tracker.SelectedSiteID(context.Background()))

	snap, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "id-02", snap.SelectedSiteID)
}

func TestSiteCmd_AddRequiresName(t *testing.T) {
	app, _ := testApp(t, nil)

	_, err := executeCmd(t, app, "site", "add")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "site name is required")
}

func TestSiteCmd_ListEmpty(t *testing.T) {
	app, _ := testApp(t, nil)

	out, err := executeCmd(t, app, "site", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No sites yet")
}

func TestSiteCmd_RemoveNeedsConfirmation(t *testing.T) {
	app, _ := testApp(t, testutil.NewTestSnapshot())

	_, err := executeCmd(t, app, "site", "remove", "North Yard")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--yes")

	out, err := executeCmd(t, app, "site", "remove", "North Yard", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "deleted")

	snap, err := app.Tracker.Snapshot(context.Background())
	require.NoError(t, err)
	assert.True(t, snap.IsEmpty())
}

// --- Hierarchy ---

func TestNodeCmds_BuildHierarchy(t *testing.T) {
	app, _ := testApp(t, nil)

	_, err := executeCmd(t, app, "site", "add", "North Yard")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "phase", "add", "Groundworks")
	require.NoError(t, err)
	assert.Contains(t, out, "Phase 'Groundworks' added!")

	out, err = executeCmd(t, app, "section", "add", "Excavation", "--phase", "Groundworks")
	require.NoError(t, err)
	assert.Contains(t, out, "Section 'Excavation' added!")

	out, err = executeCmd(t, app, "subsection", "add", "Trenches", "--section", "excavation")
	require.NoError(t, err)
	assert.Contains(t, out, "Subsection 'Trenches' added!")

	snap, err := app.Tracker.Snapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Subsections, 1)
	assert.Equal(t, snap.Sections[0].ID, snap.Subsections[0].ParentID)
	assert.Equal(t, snap.Sites[0].ID, snap.Subsections[0].SiteID)
}

func TestNodeCmds_SectionRequiresPhase(t *testing.T) {
	app, _ := testApp(t, testutil.NewTestSnapshot())

	_, err := executeCmd(t, app, "section", "add", "Drainage")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--phase is required")

	_, err = executeCmd(t, app, "section", "add", "Drainage", "--phase", "Roofing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestPhaseCmd_NoSiteSelected(t *testing.T) {
	app, _ := testApp(t, nil)

	_, err := executeCmd(t, app, "phase", "add", "Groundworks")
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrNoSiteSelected))
}

// --- Tasks ---

func TestTaskCmd_AddWithFlags(t *testing.T) {
	app, _ := testApp(t, testutil.NewTestSnapshot())

	out, err := executeCmd(t, app, "task", "add", "Pour footings",
		"--phase", "Groundworks", "--section", "Excavation",
		"--due", "2024-01-22", "--end", "2024-01-25", "--progress", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "Task 'Pour footings' added!")
	assert.Contains(t, out, "2024-01-22 to 2024-01-25")

	snap, err := app.Tracker.Snapshot(context.Background())
	require.NoError(t, err)
	added := snap.Tasks[len(snap.Tasks)-1]
	assert.Equal(t, snap.Sections[0].ID, added.SectionID)
	assert.Equal(t, snap.Phases[0].ID, added.PhaseID)
	assert.Equal(t, 10, added.Progress)
}

func TestTaskCmd_AddAfterDerivesDueDate(t *testing.T) {
	app, _ := testApp(t, testutil.NewTestSnapshot())

	out, err := executeCmd(t, app, "task", "add", "Backfill",
		"--after", "Trench A", "--end", "2024-01-28")
	require.NoError(t, err)
	assert.Contains(t, out, "2024-01-21 to 2024-01-28", "due date is the day after Trench A ends")
}

func TestTaskCmd_AddValidation(t *testing.T) {
	app, _ := testApp(t, testutil.NewTestSnapshot())

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing name", []string{"task", "add", "--due", "2024-01-22", "--end", "2024-01-25"}, "task name is required"},
		{"missing due", []string{"task", "add", "X", "--end", "2024-01-25"}, "--due is required"},
		{"missing end", []string{"task", "add", "X", "--due", "2024-01-22"}, "--end is required"},
		{"bad date", []string{"task", "add", "X", "--due", "22/01/2024"}, "expected YYYY-MM-DD"},
		{"unknown dependency", []string{"task", "add", "X", "--after", "Nope", "--end", "2024-01-25"}, "task not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executeCmd(t, app, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestTaskCmd_Lifecycle(t *testing.T) {
	app, _ := testApp(t, testutil.NewTestSnapshot())

	out, err := executeCmd(t, app, "task", "start", "Site setup", "--at", "2024-01-11")
	require.NoError(t, err)
	assert.Contains(t, out, "Started 'Site setup' on 2024-01-11")

	out, err = executeCmd(t, app, "task", "progress", "Site setup", "75%")
	require.NoError(t, err)
	assert.Contains(t, out, "75% complete")

	out, err = executeCmd(t, app, "task", "finish", "Site setup")
	require.NoError(t, err)
	assert.Contains(t, out, "Finished 'Site setup' on 2024-01-16")

	_, err = executeCmd(t, app, "task", "finish", "Trench A")
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrNotStarted)

	out, err = executeCmd(t, app, "task", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Site setup")
	assert.Contains(t, out, "2024-01-11")
}

func TestTaskCmd_FailedSaveStillReportsChange(t *testing.T) {
	app, repo := testApp(t, testutil.NewTestSnapshot())
	repo.SaveErr = errors.New("disk full")

	out, err := executeCmd(t, app, "task", "progress", "Trench A", "30")
	require.Error(t, err)
	assert.True(t, service.IsUnpersisted(err))
	assert.Contains(t, out, "30% complete")

	ctx := context.Background()
	tasks, err := app.Tracker.ListTasks(ctx, app.Tracker.SelectedSiteID(ctx))
	require.NoError(t, err)
	for _, task := range tasks {
		if task.Name == "Trench A" {
			assert.Equal(t, 30, task.Progress, "change stays applied in memory")
		}
	}
}

// --- Timeline, outline and status ---

func TestTimelineCmd_NoSite(t *testing.T) {
	app, _ := testApp(t, nil)

	out, err := executeCmd(t, app, "timeline")
	require.NoError(t, err)
	assert.Contains(t, out, msgNoSite)
}

func TestTimelineCmd_EmptySite(t *testing.T) {
	app, _ := testApp(t, nil)
	_, err := executeCmd(t, app, "site", "add", "Empty Lot")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "timeline")
	require.NoError(t, err)
	assert.Contains(t, out, msgEmptySite)
}

func TestTimelineCmd_RendersChart(t *testing.T) {
	app, _ := testApp(t, testutil.NewTestSnapshot())

	out, err := executeCmd(t, app, "timeline", "--now", "2024-01-16", "--width", "90")
	require.NoError(t, err)
	assert.Contains(t, out, "NORTH YARD")
	assert.Contains(t, out, "2024-01-03 → 2024-01-27")
	for _, name := range []string{"Groundworks", "Excavation", "Trenches", "Site setup", "Clear ground", "Bulk dig", "Trench A"} {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "Finished (1)")
}

func TestTimelineCmd_JSON(t *testing.T) {
	app, _ := testApp(t, testutil.NewTestSnapshot())

	out, err := executeCmd(t, app, "timeline", "--now", "2024-01-16", "--json")
	require.NoError(t, err)

	var got timelineJSON
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "North Yard", got.SiteName)
	assert.Equal(t, 40, got.ColumnWidth)
	require.NotNil(t, got.Start)
	assert.Equal(t, testutil.Date(2024, 1, 3), got.Start.UTC())
	assert.Equal(t, 1, got.Counts[string(domain.StatusFinished)])

	var siteSetup *timelineRowJSON
	for i := range got.Rows {
		if got.Rows[i].Name == "Site setup" {
			siteSetup = &got.Rows[i]
		}
	}
	require.NotNil(t, siteSetup)
	// Jan 10 is 7 days into the window, Jan 10 to 20 spans 10 days.
	assert.Equal(t, 280, siteSetup.Offset)
	assert.Equal(t, 400, siteSetup.Width)
	assert.Equal(t, string(domain.StatusNotStartedPastDue), siteSetup.Status)
}

func TestOutlineCmd(t *testing.T) {
	app, _ := testApp(t, testutil.NewTestSnapshot())

	out, err := executeCmd(t, app, "outline", "--now", "2024-01-16")
	require.NoError(t, err)
	assert.Contains(t, out, "North Yard")
	assert.Contains(t, out, "└─")
	assert.Contains(t, out, "Bulk dig ✔ Finished")
	assert.Contains(t, out, "Trench A ○ Past due")
}

func TestStatusCmd(t *testing.T) {
	app, _ := testApp(t, testutil.NewTestSnapshot())

	out, err := executeCmd(t, app, "status", "--now", "2024-01-16", "--site", "north yard")
	require.NoError(t, err)
	assert.Contains(t, out, "STATUS")
	assert.Contains(t, out, "4 tasks as of 2024-01-16")
	assert.Contains(t, out, "Trench A")
}

func TestBrowseCmd_RequiresTerminal(t *testing.T) {
	app, _ := testApp(t, testutil.NewTestSnapshot())

	_, err := executeCmd(t, app, "browse")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interactive terminal")
}

// --- Snapshots ---

func TestSnapshotCmd_ExportImportRoundTrip(t *testing.T) {
	dir := t.TempDir()
	app, _ := testApp(t, testutil.NewTestSnapshot())

	for _, name := range []string{"state.json", "state.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			_, err := executeCmd(t, app, "snapshot", "export", "--output", path)
			require.NoError(t, err)

			fresh, _ := testApp(t, nil)
			out, err := executeCmd(t, fresh, "snapshot", "import", path)
			require.NoError(t, err)
			assert.Contains(t, out, "Imported 1 sites, 1 phases, 1 sections, 1 subsections and 4 tasks.")

			original, err := app.Tracker.Snapshot(context.Background())
			require.NoError(t, err)
			imported, err := fresh.Tracker.Snapshot(context.Background())
			require.NoError(t, err)
			assert.Equal(t, original, imported)
		})
	}
}

func TestSnapshotCmd_ExportToStdout(t *testing.T) {
	app, _ := testApp(t, testutil.NewTestSnapshot())

	out, err := executeCmd(t, app, "snapshot", "export", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "version: 1")
	assert.Contains(t, out, "taskName: Trench A")
}

func TestSnapshotCmd_ImportLegacyBlob(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.json")
	blob := `{
  "sites": [{"id": "1700000000000", "name": "Harbour"}],
  "phases": [{"id": "1700000000001", "siteId": "1700000000000", "name": "Piling"}],
  "sections": [], "subsections": [],
  "tasks": [{"id": "1700000000002", "siteId": "1700000000000", "phaseId": "1700000000001",
             "taskName": "Drive piles", "dueDate": "2024-02-01", "endDate": "2024-02-10", "progress": "20"}],
  "selectedSiteId": "1700000000000"
}`
	require.NoError(t, os.WriteFile(path, []byte(blob), 0o644))

	app, _ := testApp(t, nil)
	out, err := executeCmd(t, app, "snapshot", "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 sites, 1 phases, 0 sections, 0 subsections and 1 tasks.")

	tasks, err := app.Tracker.ListTasks(context.Background(), "1700000000000")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, 20, tasks[0].Progress)
}

func TestSnapshotCmd_ImportLegacyBlobDropsOrphans(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.json")
	blob := `{
  "sites": [{"id": "1700000000000", "name": "Harbour"}],
  "phases": [
    {"id": "1700000000001", "siteId": "1700000000000", "name": "Piling"},
    {"id": "1700000000003", "siteId": null, "name": "Unassigned"}
  ],
  "sections": [], "subsections": [],
  "tasks": [
    {"id": "1700000000002", "siteId": "1700000000000", "phaseId": "1700000000001",
     "taskName": "Drive piles", "dueDate": "2024-02-01", "endDate": "2024-02-10", "progress": "20"},
    {"id": "1700000000004", "siteId": "1700000000000", "taskName": "Piling group",
     "dueDate": null, "endDate": null, "progress": 0}
  ],
  "selectedSiteId": "1700000000000"
}`
	require.NoError(t, os.WriteFile(path, []byte(blob), 0o644))

	app, _ := testApp(t, nil)
	out, err := executeCmd(t, app, "snapshot", "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, `warning: phases[1]: phase "Unassigned" dropped: no site`)
	assert.Contains(t, out, `warning: tasks[1]: placeholder "Piling group" without dates dropped`)
	assert.Contains(t, out, "Imported 1 sites, 1 phases, 0 sections, 0 subsections and 1 tasks.")
}

func TestSnapshotCmd_ImportReportsWarnings(t *testing.T) {
	snap := testutil.NewTestSnapshot()
	snap.Tasks[0].DependentOnTaskID = "gone"
	path := filepath.Join(t.TempDir(), "state.json")
	src, _ := testApp(t, snap)
	_, err := executeCmd(t, src, "snapshot", "export", "-o", path)
	require.NoError(t, err)

	app, _ := testApp(t, nil)
	out, err := executeCmd(t, app, "snapshot", "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "warning:")
	assert.Contains(t, out, "dependentOnTaskId")
}
