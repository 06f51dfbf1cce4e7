package videoprocessor

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadOptionsFromEnvFile(t *testing.T) {
	dir := t.TempDir()
	env := filepath.Join(dir, ".env")
	content := "VSPLIT_CHUNK_SECONDS=45\nVSPLIT_SKIP=5s\nVSPLIT_PROFILE=youtube-shorts\n"
	if err := os.WriteFile(env, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"VSPLIT_CHUNK_SECONDS", "VSPLIT_SKIP", "VSPLIT_PROFILE"} {
		k := k
		old, had := os.LookupEnv(k)
		os.Unsetenv(k)
		t.Cleanup(func() {
			if had {
				os.Setenv(k, old)
			} else {
				os.Unsetenv(k)
			}
		})
	}

	opts, err := LoadOptions(env)
	if err != nil {
		t.Fatalf("LoadOptions: %v", err)
	}
	if opts.ChunkDuration != 45 || opts.Skip != "5s" || opts.TargetPlatform != "youtube-shorts" {
		t.Fatalf("unexpected options %+v", opts)
	}
	if opts.InputDir != "tosplit" || opts.OutputDir != "splitted" {
		t.Fatalf("defaults lost: %+v", opts)
	}
}

func TestLoadOptionsMissingEnvFile(t *testing.T) {
	if _, err := LoadOptions(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Fatalf("missing env file should be ignored: %v", err)
	}
}

func TestPlanDirectoryEmpty(t *testing.T) {
	opts := DefaultOptions()
	opts.InputDir = t.TempDir()
	opts.OutputDir = filepath.Join(t.TempDir(), "out")

	plans, err := PlanDirectory(context.Background(), &opts)
	if err != nil {
		t.Fatalf("PlanDirectory: %v", err)
	}
	if len(plans) != 0 {
		t.Fatalf("expected no plans, got %d", len(plans))
	}
}

func TestSplitDirectoryRejectsInvalidOptions(t *testing.T) {
	opts := DefaultOptions()
	opts.Workers = 0
	if _, err := SplitDirectory(context.Background(), &opts); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestGetSupportedPlatforms(t *testing.T) {
	got := GetSupportedPlatforms()
	if len(got) != 3 || got[0] != "instagram-reel" || got[2] != "youtube-shorts" {
		t.Fatalf("GetSupportedPlatforms = %v", got)
	}
}

func TestProfilesDefaultTikTok(t *testing.T) {
	for _, p := range Profiles() {
		if p.Name != "tiktok" {
			continue
		}
		if p.MaxDuration != 180 || p.NormalizePreset != "ultrafast" || p.NormalizeCRF != 18 || p.CutPreset != "fast" || p.CutCRF != 23 {
			t.Fatalf("tiktok profile = %+v", p)
		}
		return
	}
	t.Fatal("tiktok profile not registered")
}
