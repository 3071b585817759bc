package organizer_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"picsort/internal/capture"
	"picsort/internal/config"
	"picsort/internal/errs"
	"picsort/internal/history"
	"picsort/internal/logging"
	"picsort/internal/organizer"
	"picsort/internal/placer"
	"picsort/internal/testsupport"
)

const exifStamp = "2020:09:01 21:42:03"

func newOrganizer(t *testing.T, cfg *config.Config, dryRun bool, opts ...organizer.Option) *organizer.Organizer {
	t.Helper()
	settings, err := organizer.SettingsFromConfig(cfg)
	if err != nil {
		t.Fatalf("SettingsFromConfig: %v", err)
	}
	settings.DryRun = dryRun
	org, err := organizer.New(settings, logging.NewNop(), opts...)
	if err != nil {
		t.Fatalf("organizer.New: %v", err)
	}
	return org
}

func TestRunMovesIntoMonthFolder(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	src := filepath.Join(testsupport.SourceDir(cfg), "IMG_0001.jpg")
	testsupport.WriteExifJPEG(t, src, exifStamp, []byte("one"))

	store := testsupport.MustOpenHistory(t, cfg)
	org := newOrganizer(t, cfg, false, organizer.WithRecorder(store), organizer.WithRunID("run-1"))

	summary, err := org.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Total != 1 || summary.Counts[placer.OutcomeMoved] != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	want := filepath.Join(cfg.Paths.TargetDir, "2020-09", "2020-09-01_21-42-03_IMG_0001.jpg")
	if !testsupport.Exists(t, want) {
		t.Fatalf("expected %s to exist", want)
	}
	if testsupport.Exists(t, src) {
		t.Fatalf("expected source to be moved away")
	}

	records, err := store.List(context.Background(), history.Filter{RunID: "run-1"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 history record, got %d", len(records))
	}
	rec := records[0]
	if rec.Outcome != string(placer.OutcomeMoved) || rec.Target != want {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.CaptureSource != string(capture.SourceEXIF) {
		t.Fatalf("capture source = %q, want exif", rec.CaptureSource)
	}
}

func TestRunCopiesIntoCategory(t *testing.T) {
	cfg := testsupport.NewConfig(t,
		testsupport.WithCopy(),
		testsupport.WithScheme(false, true),
		testsupport.WithCategory("Holiday", [2]string{"2020-08-30", "2020-09-05"}),
	)
	src := filepath.Join(testsupport.SourceDir(cfg), "beach.jpg")
	testsupport.WriteExifJPEG(t, src, exifStamp, []byte("sand"))

	org := newOrganizer(t, cfg, false)
	summary, err := org.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Counts[placer.OutcomeCopied] != 1 {
		t.Fatalf("expected one copy, got %+v", summary.Counts)
	}
	want := filepath.Join(cfg.Paths.TargetDir, "Holiday", "2020-09-01_21-42-03.jpg")
	if !testsupport.Exists(t, want) {
		t.Fatalf("expected %s to exist", want)
	}
	if !testsupport.Exists(t, src) {
		t.Fatalf("copy mode must keep the source")
	}
	if summary.Bytes == 0 {
		t.Fatalf("expected copied bytes to be counted")
	}
}

func TestRunCollisionsAndDuplicates(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithCopy())
	source := testsupport.SourceDir(cfg)
	testsupport.WriteExifJPEG(t, filepath.Join(source, "a", "pic.jpg"), exifStamp, []byte("first"))
	testsupport.WriteExifJPEG(t, filepath.Join(source, "b", "pic.jpg"), exifStamp, []byte("second"))
	testsupport.WriteExifJPEG(t, filepath.Join(source, "c", "pic.jpg"), exifStamp, []byte("first"))

	org := newOrganizer(t, cfg, false)
	summary, err := org.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Counts[placer.OutcomeCopied] != 2 || summary.Counts[placer.OutcomeSkippedDuplicate] != 1 {
		t.Fatalf("unexpected counts: %+v", summary.Counts)
	}
	dir := filepath.Join(cfg.Paths.TargetDir, "2020-09")
	for _, name := range []string{"2020-09-01_21-42-03_pic.jpg", "2020-09-01_21-42-03_pic_00.jpg"} {
		if !testsupport.Exists(t, filepath.Join(dir, name)) {
			t.Fatalf("expected %s", name)
		}
	}
	if testsupport.Exists(t, filepath.Join(dir, "2020-09-01_21-42-03_pic_01.jpg")) {
		t.Fatalf("duplicate content must not get a new name")
	}
}

func TestRunDryRunLeavesDiskUntouched(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	source := testsupport.SourceDir(cfg)
	testsupport.WriteExifJPEG(t, filepath.Join(source, "a", "pic.jpg"), exifStamp, []byte("first"))
	testsupport.WriteExifJPEG(t, filepath.Join(source, "b", "pic.jpg"), exifStamp, []byte("second"))

	var seen []organizer.FileResult
	org := newOrganizer(t, cfg, true, organizer.WithProgress(func(done, total int, res organizer.FileResult) {
		if total != 2 {
			t.Errorf("total = %d, want 2", total)
		}
		seen = append(seen, res)
	}))
	summary, err := org.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Counts[placer.OutcomePlanned] != 2 {
		t.Fatalf("expected two planned files, got %+v", summary.Counts)
	}
	if len(seen) != 2 || seen[0].Target == seen[1].Target {
		t.Fatalf("planned targets must be distinct: %+v", seen)
	}
	if filepath.Base(seen[1].Target) != "2020-09-01_21-42-03_pic_00.jpg" {
		t.Fatalf("unexpected second target %s", seen[1].Target)
	}
	if testsupport.Exists(t, filepath.Join(cfg.Paths.TargetDir, "2020-09")) {
		t.Fatalf("dry run must not create folders")
	}
}

func TestProcessContinuesAfterFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	source := testsupport.SourceDir(cfg)
	good := filepath.Join(source, "good.jpg")
	testsupport.WriteExifJPEG(t, good, exifStamp, nil)
	missing := filepath.Join(source, "gone.jpg")

	store := testsupport.MustOpenHistory(t, cfg)
	org := newOrganizer(t, cfg, false, organizer.WithRecorder(store))
	summary, err := org.Process(context.Background(), []string{missing, good})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if summary.Failed() != 1 || summary.Counts[placer.OutcomeMoved] != 1 {
		t.Fatalf("unexpected counts: %+v", summary.Counts)
	}
	if len(summary.Failures) != 1 || summary.Failures[0].Source != missing {
		t.Fatalf("unexpected failures: %+v", summary.Failures)
	}
	if summary.Failures[0].Reason != "not_found" || !errors.Is(summary.Failures[0].Err, errs.ErrNotFound) {
		t.Fatalf("expected not_found failure, got %+v", summary.Failures[0])
	}

	stats, err := store.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats[string(placer.OutcomeFailed)] != 1 || stats[string(placer.OutcomeMoved)] != 1 {
		t.Fatalf("unexpected history stats: %v", stats)
	}
}

func TestProcessStopsWhenCancelled(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	source := testsupport.SourceDir(cfg)
	first := filepath.Join(source, "1.jpg")
	second := filepath.Join(source, "2.jpg")
	testsupport.WriteExifJPEG(t, first, exifStamp, []byte("1"))
	testsupport.WriteExifJPEG(t, second, exifStamp, []byte("2"))

	ctx, cancel := context.WithCancel(context.Background())
	org := newOrganizer(t, cfg, false, organizer.WithProgress(func(done, total int, res organizer.FileResult) {
		cancel()
	}))
	summary, err := org.Process(ctx, []string{first, second})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if !summary.Cancelled || summary.Processed() != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if !testsupport.Exists(t, second) {
		t.Fatalf("second file must stay in place after cancellation")
	}
}

func TestDiscoverSkipsNestedTargetRoot(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	source := testsupport.SourceDir(cfg)
	cfg.Paths.TargetDir = filepath.Join(source, "library")
	if err := os.MkdirAll(cfg.Paths.TargetDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	testsupport.WriteFile(t, filepath.Join(source, "new.jpg"), 16)
	testsupport.WriteFile(t, filepath.Join(cfg.Paths.TargetDir, "2020-09", "old.jpg"), 16)

	org := newOrganizer(t, cfg, true)
	paths, err := org.Discover()
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(paths) != 1 || filepath.Base(paths[0]) != "new.jpg" {
		t.Fatalf("unexpected discovery: %v", paths)
	}
}

func TestInspectReportsPlan(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithCategory("Trip", [2]string{"2020-09-01", "2020-09-02"}))
	src := filepath.Join(testsupport.SourceDir(cfg), "x.JPG")
	testsupport.WriteExifJPEG(t, src, exifStamp, nil)

	org := newOrganizer(t, cfg, true)
	plan, err := org.Inspect(src)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if plan.Category != "Trip" || plan.CaptureSource != capture.SourceEXIF {
		t.Fatalf("unexpected plan: %+v", plan)
	}
	if plan.TargetDir != filepath.Join(cfg.Paths.TargetDir, "Trip") || plan.TargetName != "2020-09-01_21-42-03_x.JPG" {
		t.Fatalf("unexpected target %s/%s", plan.TargetDir, plan.TargetName)
	}
	if !testsupport.Exists(t, src) {
		t.Fatalf("inspect must not touch the file")
	}
}

func TestNewRejectsInvalidSettings(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	base, err := organizer.SettingsFromConfig(cfg)
	if err != nil {
		t.Fatalf("SettingsFromConfig: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*organizer.Settings)
		kind   error
	}{
		{"no extensions", func(s *organizer.Settings) { s.Extensions = nil }, errs.ErrConfiguration},
		{"unusable scheme", func(s *organizer.Settings) { s.Scheme.KeepOriginalName, s.Scheme.PrependTimestamp = false, false }, errs.ErrConfiguration},
		{"empty target", func(s *organizer.Settings) { s.TargetRoot = " " }, errs.ErrConfiguration},
		{"missing target", func(s *organizer.Settings) { s.TargetRoot = filepath.Join(t.TempDir(), "nope") }, errs.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			settings := base
			settings.Extensions = append([]string(nil), base.Extensions...)
			tc.mutate(&settings)
			if _, err := organizer.New(settings, logging.NewNop()); !errors.Is(err, tc.kind) {
				t.Fatalf("expected %v, got %v", tc.kind, err)
			}
		})
	}
}
