// If you are AI: This file tests the flag/profile merge in buildOptions.

package main

import (
	"os"
	"path/filepath"
	"testing"
)

// resetFlags restores the package flag state touched by these tests.
func resetFlags(t *testing.T) {
	t.Helper()
	flagConfig = ""
	flagOutput = "-"
	flagLogLevel = "info"
	flagPlaypath = ""
	flagBuffer = 0
	for _, name := range []string{"out", "log-level"} {
		rootCmd.Flags().Lookup(name).Changed = false
	}
}

// writeProfile writes a YAML profile into a temp dir and returns its path.
func writeProfile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestBuildOptionsURLRequired(t *testing.T) {
	resetFlags(t)
	if _, _, _, _, err := buildOptions(rootCmd, nil); err == nil {
		t.Fatal("buildOptions without a URL should fail")
	}
}

func TestBuildOptionsArgumentWinsOverProfile(t *testing.T) {
	resetFlags(t)
	flagConfig = writeProfile(t, "url: rtmp://profile.example/app\nbuffer: 5000\n")

	url, opts, _, _, err := buildOptions(rootCmd, []string{"rtmp://arg.example/app"})
	if err != nil {
		t.Fatalf("buildOptions: %v", err)
	}
	if url != "rtmp://arg.example/app" {
		t.Errorf("url = %q, want the argument", url)
	}
	if opts.Buffer != 5000 {
		t.Errorf("buffer = %d, want the profile value 5000", opts.Buffer)
	}
}

func TestBuildOptionsFlagWinsOverProfile(t *testing.T) {
	resetFlags(t)
	flagConfig = writeProfile(t, "url: rtmp://host/app\nplaypath: fromprofile\n")
	flagPlaypath = "fromflag"

	_, opts, _, _, err := buildOptions(rootCmd, nil)
	if err != nil {
		t.Fatalf("buildOptions: %v", err)
	}
	if opts.Playpath != "fromflag" {
		t.Errorf("playpath = %q, want the flag value", opts.Playpath)
	}
}

func TestBuildOptionsProfileOutputUsedWhenFlagUntouched(t *testing.T) {
	resetFlags(t)
	flagConfig = writeProfile(t,
		"url: rtmp://host/app\noutput: dump.flv\nlog_level: warn\n")

	_, _, output, level, err := buildOptions(rootCmd, nil)
	if err != nil {
		t.Fatalf("buildOptions: %v", err)
	}
	if output != "dump.flv" {
		t.Errorf("output = %q, want the profile value", output)
	}
	if level != "warn" {
		t.Errorf("level = %q, want the profile value", level)
	}
}

func TestBuildOptionsExplicitOutputBeatsProfile(t *testing.T) {
	resetFlags(t)
	flagConfig = writeProfile(t, "url: rtmp://host/app\noutput: dump.flv\n")
	if err := rootCmd.Flags().Set("out", "-"); err != nil {
		t.Fatalf("Set out: %v", err)
	}

	_, _, output, _, err := buildOptions(rootCmd, nil)
	if err != nil {
		t.Fatalf("buildOptions: %v", err)
	}
	if output != "-" {
		t.Errorf("output = %q, want the explicit flag value", output)
	}
}
