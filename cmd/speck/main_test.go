package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/speck-sh/speck/pkg/lifecycle"
)

const passInput = `{"Action":"run","Package":"example.com/p","Test":"TestA"}
{"Action":"pass","Package":"example.com/p","Test":"TestA"}
{"Action":"run","Package":"example.com/p","Test":"TestB"}
{"Action":"pass","Package":"example.com/p","Test":"TestB"}
{"Action":"pass","Package":"example.com/p"}
`

const failInput = `{"Action":"run","Package":"example.com/p","Test":"TestA"}
{"Action":"output","Package":"example.com/p","Test":"TestA","Output":"    a_test.go:5: boom\n"}
{"Action":"fail","Package":"example.com/p","Test":"TestA"}
{"Action":"fail","Package":"example.com/p"}
`

func runCLI(t *testing.T, args []string, input string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(input), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_PassingSuite(t *testing.T) {
	code, out, _ := runCLI(t, nil, passInput)
	if code != 0 {
		t.Fatalf("exit = %d, want 0", code)
	}
	if !strings.Contains(out, "2 passed  0 failed  no coverage") {
		t.Errorf("summary missing from output: %q", out)
	}
}

func TestRun_FailingSuite_StillExitsZeroWithoutGate(t *testing.T) {
	// Test failures surface in the report; only the coverage gate flips
	// the exit code.
	code, out, _ := runCLI(t, nil, failInput)
	if code != 0 {
		t.Fatalf("exit = %d, want 0", code)
	}
	if !strings.Contains(out, "0 passed  1 failed") {
		t.Errorf("summary missing: %q", out)
	}
	if !strings.Contains(out, "example.com/p") || !strings.Contains(out, "TestA") {
		t.Errorf("failure report missing: %q", out)
	}
	if !strings.Contains(out, "a_test.go:5: boom") {
		t.Errorf("failure message missing: %q", out)
	}
}

func TestRun_CoverageGateTripsExitCode(t *testing.T) {
	dir := t.TempDir()
	profile := filepath.Join(dir, "coverage.out")
	content := "mode: set\n" +
		"example.com/p/a.go:1.1,2.10 1 1\n" +
		"example.com/p/a.go:3.1,4.10 1 0\n" // 50% coverage
	if err := os.WriteFile(profile, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	code, out, _ := runCLI(t, []string{"--cover", profile, "--threshold", "99"}, passInput)
	if code != 1 {
		t.Errorf("exit = %d, want 1 (50%% < 99%%)", code)
	}
	if !strings.Contains(out, "50% coverage") {
		t.Errorf("coverage text missing: %q", out)
	}

	code, _, _ = runCLI(t, []string{"--cover", profile, "--threshold", "40"}, passInput)
	if code != 0 {
		t.Errorf("exit = %d, want 0 (50%% >= 40%%)", code)
	}
}

func TestRun_ManifestThreshold(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, ".speck.yaml")
	if err := os.WriteFile(manifest, []byte("coverage:\n  threshold: 99\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	profile := filepath.Join(dir, "coverage.out")
	if err := os.WriteFile(profile, []byte("mode: set\nexample.com/p/a.go:1.1,2.10 1 1\nexample.com/p/a.go:3.1,4.10 1 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	code, _, _ := runCLI(t, []string{"--config", manifest, "--cover", profile}, passInput)
	if code != 1 {
		t.Errorf("exit = %d, want 1 (manifest threshold 99)", code)
	}
}

func TestRun_ThresholdZeroFlagDisablesManifestGate(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, ".speck.yaml")
	if err := os.WriteFile(manifest, []byte("coverage:\n  threshold: 99\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	profile := filepath.Join(dir, "coverage.out")
	if err := os.WriteFile(profile, []byte("mode: set\nexample.com/p/a.go:1.1,2.10 1 1\nexample.com/p/a.go:3.1,4.10 1 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	code, _, _ := runCLI(t, []string{"--config", manifest, "--cover", profile, "--threshold", "0"}, passInput)
	if code != 0 {
		t.Errorf("exit = %d, want 0 (explicit --threshold 0 turns the gate off)", code)
	}
}

func TestPumpEvents_StopsWhenConsumerQuits(t *testing.T) {
	// The full-screen view can exit mid-stream; cancellation must
	// unblock the pump or the process never terminates.
	events := []lifecycle.Event{
		lifecycle.NewStart(2),
		lifecycle.NewPass(),
		lifecycle.NewPass(),
		lifecycle.NewEnd(),
	}
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan lifecycle.Event)
	done := make(chan error, 1)
	go func() { done <- pumpEvents(ctx, events, ch) }()

	<-ch // take one event, then stop receiving
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("pump error = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("pump still blocked after the consumer quit")
	}
}

func TestPumpEvents_DrainsFullSequence(t *testing.T) {
	events := []lifecycle.Event{lifecycle.NewStart(1), lifecycle.NewPass(), lifecycle.NewEnd()}
	ch := make(chan lifecycle.Event)
	done := make(chan error, 1)
	go func() { done <- pumpEvents(context.Background(), events, ch) }()

	var got []lifecycle.Event
	for range events {
		got = append(got, <-ch)
	}
	if err := <-done; err != nil {
		t.Fatalf("pump error = %v", err)
	}
	if len(got) != len(events) || got[0].Kind != lifecycle.Start || got[2].Kind != lifecycle.End {
		t.Errorf("delivered sequence = %v", got)
	}
}

func TestRun_NoInput(t *testing.T) {
	code, _, errOut := runCLI(t, nil, "")
	if code != 2 {
		t.Errorf("exit = %d, want 2", code)
	}
	if !strings.Contains(errOut, "no test events") {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestRun_MalformedLinesWarnOnStderr(t *testing.T) {
	input := "garbage\n" + passInput
	code, _, errOut := runCLI(t, nil, input)
	if code != 0 {
		t.Errorf("exit = %d, want 0", code)
	}
	if !strings.Contains(errOut, "malformed") {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestRun_Version(t *testing.T) {
	code, out, _ := runCLI(t, []string{"--version"}, "")
	if code != 0 || !strings.Contains(out, "speck") {
		t.Errorf("version: code=%d out=%q", code, out)
	}
}

func TestRun_BadFlag(t *testing.T) {
	code, _, _ := runCLI(t, []string{"--definitely-not-a-flag"}, "")
	if code != 2 {
		t.Errorf("exit = %d, want 2", code)
	}
}
