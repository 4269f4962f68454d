package system

import (
	"bytes"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/cloudcast/internal/cli"
	"github.com/julianstephens/cloudcast/internal/client"
	"github.com/julianstephens/cloudcast/internal/constants"
	"github.com/julianstephens/cloudcast/internal/mockserver"
	"github.com/julianstephens/cloudcast/internal/models"
	"github.com/julianstephens/cloudcast/internal/storage/sqlite"
)

func setupTestContext(t *testing.T, initStore bool) (*cli.Context, *bytes.Buffer, string) {
	t.Helper()
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "cloudcast.db")

	store := sqlite.NewStore(dbPath)
	if initStore {
		if err := store.Init(); err != nil {
			t.Fatalf("failed to initialize store: %v", err)
		}
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})

	srv := httptest.NewServer(mockserver.NewServer(mockserver.NewDemoStation(time.Now), false).Handler())
	t.Cleanup(srv.Close)

	station, err := client.New(srv.URL, 2*time.Second)
	if err != nil {
		t.Fatalf("client.New failed: %v", err)
	}

	var out bytes.Buffer
	return &cli.Context{
		Store:     store,
		Station:   station,
		ConfigDir: tempDir,
		Out:       &out,
	}, &out, dbPath
}

func TestInitCmd_Success(t *testing.T) {
	ctx, out, dbPath := setupTestContext(t, false)

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("init command failed: %v", err)
	}
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Errorf("database file was not created at %s", dbPath)
	}
	if !strings.Contains(out.String(), "Initialized cloudcast storage") {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestInitCmd_Force(t *testing.T) {
	ctx, out, _ := setupTestContext(t, true)

	if err := ctx.Store.AddCommitRecord(models.CommitRecord{
		ID:         "c1",
		ScheduleID: 1,
		FileIDs:    []int64{1, 2},
		Result:     constants.SaveSuccess,
		CreatedAt:  time.Now().UTC(),
	}); err != nil {
		t.Fatalf("AddCommitRecord failed: %v", err)
	}

	if err := (&InitCmd{Force: true}).Run(ctx); err != nil {
		t.Fatalf("init --force failed: %v", err)
	}
	if !strings.Contains(out.String(), "Deleted existing database") {
		t.Errorf("expected deletion notice, got %q", out.String())
	}

	records, err := ctx.Store.GetCommitRecords(0)
	if err != nil {
		t.Fatalf("GetCommitRecords failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected an empty journal after --force, got %d records", len(records))
	}
}

func TestHistoryCmd(t *testing.T) {
	ctx, out, _ := setupTestContext(t, true)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	records := []models.CommitRecord{
		{ID: "a", ScheduleID: 1, FileIDs: []int64{1, 2}, Result: constants.SaveSuccess, CreatedAt: base},
		{ID: "b", ScheduleID: 2, FileIDs: []int64{3}, Result: constants.SaveScheduleOutOfSync, Message: constants.MessageScheduleOutOfSync, CreatedAt: base.Add(time.Minute)},
		{ID: "c", ScheduleID: 1, FileIDs: []int64{2, 1}, Message: "connection refused", CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, r := range records {
		if err := ctx.Store.AddCommitRecord(r); err != nil {
			t.Fatalf("AddCommitRecord failed: %v", err)
		}
	}

	tests := []struct {
		name    string
		cmd     HistoryCmd
		want    []string
		notWant []string
	}{
		{
			name: "all",
			cmd:  HistoryCmd{},
			want: []string{"SUCCESS", "SCHEDULE_OUT_OF_SYNC", "ERROR", "connection refused"},
		},
		{
			name:    "limit",
			cmd:     HistoryCmd{Limit: 1},
			want:    []string{"ERROR"},
			notWant: []string{"SUCCESS", "SCHEDULE_OUT_OF_SYNC"},
		},
		{
			name:    "schedule filter",
			cmd:     HistoryCmd{Limit: 5, Schedule: 2},
			want:    []string{"SCHEDULE_OUT_OF_SYNC"},
			notWant: []string{"SUCCESS", "ERROR"},
		},
		{
			name: "no match",
			cmd:  HistoryCmd{Schedule: 99},
			want: []string{"No schedule saves recorded."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out.Reset()
			if err := tt.cmd.Run(ctx); err != nil {
				t.Fatalf("history failed: %v", err)
			}
			got := out.String()
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("output missing %q:\n%s", w, got)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(got, w) {
					t.Errorf("output should not contain %q:\n%s", w, got)
				}
			}
		})
	}
}

func TestDoctorCmd_Healthy(t *testing.T) {
	ctx, out, _ := setupTestContext(t, true)

	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Fatalf("doctor failed on a healthy setup: %v\n%s", err, out.String())
	}
	for _, want := range []string{"Database reachable: OK", "Station reachable: OK", "Schedule payload: OK", "Clock sanity: OK"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestDoctorCmd_Uninitialized(t *testing.T) {
	ctx, out, _ := setupTestContext(t, false)

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Fatal("expected doctor to fail without an initialized database")
	}
	if !strings.Contains(out.String(), "Schema version: SKIPPED") {
		t.Errorf("expected schema check to be skipped:\n%s", out.String())
	}
}

func TestDoctorCmd_StationDown(t *testing.T) {
	ctx, out, _ := setupTestContext(t, true)

	down, err := client.New("http://127.0.0.1:1", time.Second)
	if err != nil {
		t.Fatalf("client.New failed: %v", err)
	}
	ctx.Station = down

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Fatal("expected doctor to fail when the station is unreachable")
	}
	if !strings.Contains(out.String(), "Schedule payload: SKIPPED") {
		t.Errorf("expected payload check to be skipped:\n%s", out.String())
	}
}

func TestClockDrift(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.Local)

	tests := []struct {
		name      string
		generated string
		want      time.Duration
		wantOK    bool
	}{
		{"in sync", "2026-03-01 12:00:00", 0, true},
		{"station behind", "2026-03-01 11:50:00", 10 * time.Minute, true},
		{"station ahead", "2026-03-01 12:00:30", 30 * time.Second, true},
		{"missing", "", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := clockDrift(&models.Status{GeneratedOn: tt.generated}, now)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("clockDrift = (%v, %v), want (%v, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestMaskPassword(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"postgres://operator:secret@db:5432/cloudcast", "postgres://operator:****@db:5432/cloudcast"},
		{"postgres://operator@db:5432/cloudcast", "postgres://operator@db:5432/cloudcast"},
	}
	for _, tt := range tests {
		if got := maskPassword(tt.in); got != tt.want {
			t.Errorf("maskPassword(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBackupCommands(t *testing.T) {
	ctx, out, _ := setupTestContext(t, true)

	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("backup list failed: %v", err)
	}
	if !strings.Contains(out.String(), "No backups") {
		t.Errorf("expected empty listing, got %q", out.String())
	}

	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("backup create failed: %v", err)
	}
	mgr, err := ctx.BackupManager()
	if err != nil {
		t.Fatalf("BackupManager failed: %v", err)
	}
	backups, err := mgr.List()
	if err != nil || len(backups) != 1 {
		t.Fatalf("expected one backup, got %d (err %v)", len(backups), err)
	}

	if err := ctx.Store.AddCommitRecord(models.CommitRecord{
		ID:         "after-backup",
		ScheduleID: 1,
		Result:     constants.SaveSuccess,
		CreatedAt:  time.Now().UTC(),
	}); err != nil {
		t.Fatalf("AddCommitRecord failed: %v", err)
	}

	out.Reset()
	if err := (&BackupRestoreCmd{File: filepath.Base(backups[0].Path)}).Run(ctx); err != nil {
		t.Fatalf("backup restore failed: %v", err)
	}
	records, err := ctx.Store.GetCommitRecords(0)
	if err != nil {
		t.Fatalf("GetCommitRecords failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected the journal to be rolled back, got %d records", len(records))
	}
}
