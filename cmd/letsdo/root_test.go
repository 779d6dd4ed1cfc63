package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rezmoss/letsdo/internal/config"
	"github.com/rezmoss/letsdo/internal/store/file"
)

type env struct {
	dir      string
	dataPath string
	taskPath string
}

func setup(t *testing.T) *env {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)

	cfg := filepath.Join(dir, "letsdo.yaml")
	if err := os.WriteFile(cfg, []byte("datapath: "+dir+"\ntaskpath: "+dir+"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(config.EnvConfig, cfg)

	return &env{
		dir:      dir,
		dataPath: filepath.Join(dir, file.DataFile),
		taskPath: filepath.Join(dir, file.TaskFile),
	}
}

func (e *env) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	// A nil slice makes cobra fall back to os.Args.
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func (e *env) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, "", args...)
	if err != nil {
		t.Fatalf("letsdo %v error = %v\n%s", args, err, out)
	}
	return out
}

func (e *env) logLines(t *testing.T) int {
	t.Helper()
	data, err := os.ReadFile(e.dataPath)
	if os.IsNotExist(err) {
		return 0
	}
	if err != nil {
		t.Fatal(err)
	}
	return bytes.Count(data, []byte("\n"))
}

func (e *env) markerExists() bool {
	_, err := os.Stat(e.taskPath)
	return err == nil
}

func (e *env) seedLog(t *testing.T, lines ...string) {
	t.Helper()
	if err := os.WriteFile(e.dataPath, []byte(strings.Join(lines, "\n")+"\n"), 0644); err != nil {
		t.Fatal(err)
	}
}

func assertContains(t *testing.T, out, want string) {
	t.Helper()
	if !strings.Contains(out, want) {
		t.Errorf("output missing %q:\n%s", want, out)
	}
}

func TestStartStatusStop(t *testing.T) {
	e := setup(t)

	assertContains(t, e.mustRun(t, "write", "docs", "@home"), "Starting task 'write docs @home'")
	if !e.markerExists() {
		t.Fatal("marker not created")
	}

	assertContains(t, e.mustRun(t), "Working on 'write docs @home' for 0:00:0")

	assertContains(t, e.mustRun(t, "--stop"), "Stopped task 'write docs @home' after")
	if e.markerExists() {
		t.Error("marker still present after stop")
	}
	if n := e.logLines(t); n != 1 {
		t.Errorf("log lines = %d, want 1", n)
	}
}

func TestStart_AlreadyRunning(t *testing.T) {
	e := setup(t)
	e.mustRun(t, "first")
	before, _ := os.ReadFile(e.taskPath)

	out := e.mustRun(t, "second")
	assertContains(t, out, "Warning:")
	assertContains(t, out, "another task is running")
	assertContains(t, out, "Working on 'first'")

	after, _ := os.ReadFile(e.taskPath)
	if !bytes.Equal(before, after) {
		t.Error("marker changed")
	}
}

func TestStop_NotRunning(t *testing.T) {
	e := setup(t)
	e.seedLog(t, "2016-11-10,a,0:05:00,2016-11-10 15:00:00,2016-11-10 15:05:00")

	assertContains(t, e.mustRun(t, "--stop"), "no task running")
	if n := e.logLines(t); n != 1 {
		t.Errorf("log lines = %d, want 1", n)
	}
}

func TestStop_InvalidTime(t *testing.T) {
	e := setup(t)
	e.mustRun(t, "task", "--time", "2030-01-01 10:00")

	assertContains(t, e.mustRun(t, "--stop", "--time", "2029-12-31 10:00"), "end time is before start time")
	if !e.markerExists() {
		t.Error("marker removed by failed stop")
	}
	if n := e.logLines(t); n != 0 {
		t.Errorf("log lines = %d, want 0", n)
	}

	if _, err := e.run(t, "", "--stop", "--time", "later"); err == nil {
		t.Error("unparseable --time error = nil")
	}
}

func TestUnnamed(t *testing.T) {
	e := setup(t)

	assertContains(t, e.mustRun(t), "No task running")
	if e.markerExists() {
		t.Fatal("marker created without a name or --force")
	}

	assertContains(t, e.mustRun(t, "--force"), "Starting task 'unknown'")
}

func TestUnnamed_Prompt(t *testing.T) {
	old := stdinIsTerminal
	stdinIsTerminal = func(io.Reader) bool { return true }
	t.Cleanup(func() { stdinIsTerminal = old })

	e := setup(t)

	out, err := e.run(t, "n\n")
	if err != nil {
		t.Fatal(err)
	}
	assertContains(t, out, "[y/n]")
	if e.markerExists() {
		t.Fatal("marker created after declining")
	}

	out, err = e.run(t, "y\n")
	if err != nil {
		t.Fatal(err)
	}
	assertContains(t, out, "Starting task 'unknown'")
}

func TestChange(t *testing.T) {
	e := setup(t)

	assertContains(t, e.mustRun(t, "--change", "new"), "no task running")

	e.mustRun(t, "old", "name")
	assertContains(t, e.mustRun(t, "--change", "renamed", "+tag"), "Renamed running task to 'renamed +tag'")
	assertContains(t, e.mustRun(t, "--change", "--replace", "renamed", "fresh"), "Renamed running task to 'fresh +tag'")
	assertContains(t, e.mustRun(t), "Working on 'fresh +tag'")

	if _, err := e.run(t, "", "--change"); err == nil {
		t.Error("--change without a name error = nil")
	}
}

func TestTo(t *testing.T) {
	e := setup(t)
	e.mustRun(t, "first")

	out := e.mustRun(t, "--to", "second")
	assertContains(t, out, "Stopped task 'first'")
	assertContains(t, out, "Starting task 'second'")
	if n := e.logLines(t); n != 1 {
		t.Errorf("log lines = %d, want 1", n)
	}
}

func TestKeep(t *testing.T) {
	e := setup(t)
	e.seedLog(t,
		"2016-11-10,task 0,0:01:00,2016-11-10 15:00:00,2016-11-10 15:01:00",
		"2016-11-10,task 1,0:01:00,2016-11-10 15:02:00,2016-11-10 15:03:00",
		"2016-11-10,task 2,0:01:00,2016-11-10 15:04:00,2016-11-10 15:05:00",
	)

	assertContains(t, e.mustRun(t, "--keep", "--id=2"), "Starting task 'task 1'")
	e.mustRun(t, "--stop")

	assertContains(t, e.mustRun(t, "--keep"), "Starting task 'task 1'")
	e.mustRun(t, "--stop")

	assertContains(t, e.mustRun(t, "--keep", "--id=9"), "task not found")
}

func TestReports(t *testing.T) {
	e := setup(t)
	e.seedLog(t,
		"2016-11-10,A,0:05:00,2016-11-10 15:00:00,2016-11-10 15:05:00",
		"2016-11-10,B,0:01:00,2016-11-10 16:00:00,2016-11-10 16:01:00",
		"2016-11-10,A,0:01:00,2016-11-10 16:02:00,2016-11-10 16:03:00",
		"2016-11-11,A,0:10:00,2016-11-11 09:00:00,2016-11-11 09:10:00",
	)

	out := e.mustRun(t, "--report")
	assertContains(t, out, "0:16:00 - A")
	assertContains(t, out, "0:01:00 - B")

	out = e.mustRun(t, "--report-daily")
	assertContains(t, out, "2016-11-10| 0:06:00 - A")
	assertContains(t, out, "2016-11-11| 0:10:00 - A")
	if strings.Index(out, "2016-11-11") > strings.Index(out, "2016-11-10") {
		t.Errorf("daily report not most recent first:\n%s", out)
	}

	out = e.mustRun(t, "--report-full")
	assertContains(t, out, "2016-11-10| 0:01:00 (16:02 -> 16:03) - A")
	assertContains(t, out, "[4]")
}

func TestCorruptMarker(t *testing.T) {
	e := setup(t)
	if err := os.WriteFile(e.taskPath, []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}

	for _, args := range [][]string{{}, {"--stop"}, {"new task"}} {
		if _, err := e.run(t, "", args...); err == nil {
			t.Errorf("letsdo %v with corrupt marker error = nil", args)
		}
	}
	if _, err := os.Stat(e.taskPath); err != nil {
		t.Errorf("corrupt marker removed: %v", err)
	}
}

func TestConfigMissingKeys(t *testing.T) {
	e := setup(t)
	cfg := filepath.Join(e.dir, "partial.yaml")
	if err := os.WriteFile(cfg, []byte("datapath: "+e.dir+"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := e.run(t, "", "--config", cfg, "--report"); err == nil {
		t.Fatal("partial config error = nil")
	}
}
