package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/runlog/internal/app"
)

const ts = "2024-01-02T03:04:05.1234567Z "

const sampleLog = ts + "Current runner version: '2.311.0'\n" +
	ts + "##[group]Run actions/checkout@v4\n" +
	ts + "with: repository\n" +
	ts + "##[endgroup]\n" +
	ts + "##[group]Run go test ./...\n" +
	ts + "\x1b[32mok\x1b[0m  \tpkg\t0.01s\n" +
	ts + "##[error]Process completed with exit code 1.\n" +
	ts + "##[endgroup]\n"

// execute runs the root command with a config path that does not exist, so
// defaults apply.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	return executeWithConfig(t, filepath.Join(t.TempDir(), "missing.toml"), stdin, args...)
}

func executeWithConfig(t *testing.T, configPath, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand("test-version")
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append(args, "--config", configPath))
	err := root.Execute()
	return out.String(), err
}

func writeLog(t *testing.T, dir, name, text string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func TestRoot_Version(t *testing.T) {
	out, err := execute(t, "", "--version")
	require.NoError(t, err)
	assert.Equal(t, "runlog version test-version\n", out)
}

func TestPrint_File(t *testing.T) {
	path := writeLog(t, t.TempDir(), "job.log", sampleLog)

	out, err := execute(t, "", "print", "--color", "never", path)
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"Current runner version: '2.311.0'",
		"▾ Run actions/checkout@v4",
		"with: repository",
		"▾ Run go test ./...",
		"ok  \tpkg\t0.01s",
		"Error: Process completed with exit code 1.",
	}, "\n")+"\n", out)
}

func TestPrint_Step(t *testing.T) {
	path := writeLog(t, t.TempDir(), "job.log", sampleLog)

	out, err := execute(t, "", "print", "--color", "never", "--step", "2", path)
	require.NoError(t, err)
	assert.Equal(t, "▾ Run go test ./...\nok  \tpkg\t0.01s\nError: Process completed with exit code 1.\n", out)

	_, err = execute(t, "", "print", "--step", "5", path)
	assert.ErrorContains(t, err, "job.log: step 5 out of range")
}

func TestPrint_Timestamps(t *testing.T) {
	path := writeLog(t, t.TempDir(), "job.log", sampleLog)

	out, err := execute(t, "", "print", "--color", "never", "--timestamps", "--step", "1", path)
	require.NoError(t, err)
	assert.Equal(t, ts+"▾ Run actions/checkout@v4\n"+ts+"with: repository\n", out)
}

func TestPrint_TailReadsEndOfFile(t *testing.T) {
	path := writeLog(t, t.TempDir(), "job.log", sampleLog)

	out, err := execute(t, "", "print", "--color", "never", "--tail", "2", path)
	require.NoError(t, err)
	// Only the last two lines are read; the trailing endgroup is not drawn.
	assert.Equal(t, "Error: Process completed with exit code 1.\n", out)
}

func TestPrint_TailWithLineNumbers(t *testing.T) {
	path := writeLog(t, t.TempDir(), "job.log", sampleLog)

	out, err := execute(t, "", "print", "--color", "never", "--tail", "2", "-n", path)
	require.NoError(t, err)
	assert.Equal(t, "6 ok  \tpkg\t0.01s\n7 Error: Process completed with exit code 1.\n", out)
}

func TestPrint_Stdin(t *testing.T) {
	out, err := execute(t, "##[warning]disk almost full\nplain\n", "print", "--color", "never", "-")
	require.NoError(t, err)
	assert.Equal(t, "Warning: disk almost full\nplain\n", out)
}

func TestPrint_SeveralSources(t *testing.T) {
	dir := t.TempDir()
	a := writeLog(t, dir, "a.log", "first\n")
	b := writeLog(t, dir, "b.log", "second\n")

	out, err := execute(t, "", "print", "--color", "never", a, b)
	require.NoError(t, err)
	assert.Equal(t, "==> a.log <==\nfirst\n\n==> b.log <==\nsecond\n", out)
}

func TestPrint_Glob(t *testing.T) {
	dir := t.TempDir()
	writeLog(t, dir, "build/1_Set up job.txt", "setting up\n")
	writeLog(t, dir, "build/2_Test.txt", "testing\n")
	writeLog(t, dir, "notes.md", "ignored\n")

	out, err := execute(t, "", "print", "--color", "never", "--dir", dir, "--glob", "**/*.txt")
	require.NoError(t, err)
	assert.Equal(t, "==> build/1_Set up job.txt <==\nsetting up\n\n==> build/2_Test.txt <==\ntesting\n", out)
}

func TestPrint_Errors(t *testing.T) {
	path := writeLog(t, t.TempDir(), "job.log", sampleLog)

	_, err := execute(t, "", "print")
	assert.ErrorIs(t, err, app.ErrNoSources)

	_, err = execute(t, "", "print", "--color", "sometimes", path)
	assert.ErrorContains(t, err, "invalid color mode")

	_, err = execute(t, "", "print", "--step", "-1", path)
	assert.ErrorContains(t, err, "--step must be positive")

	_, err = execute(t, "", "print", filepath.Join(t.TempDir(), "gone.log"))
	assert.Error(t, err)

	_, err = execute(t, "", "print", "--job", "1")
	assert.ErrorContains(t, err, "--repo is required")
}

func TestPrint_GitHubJob(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/octo/hello/actions/jobs/7/logs" {
			http.NotFound(w, r)
			return
		}
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte("##[group]Run make\nbuilding\n##[endgroup]\n"))
	}))
	defer srv.Close()

	t.Setenv("RUNLOG_TEST_TOKEN", "secret")
	cfg := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(cfg, []byte(
		"api_url = \""+srv.URL+"\"\ntoken_env = \"RUNLOG_TEST_TOKEN\"\n"), 0o644))

	out, err := executeWithConfig(t, cfg, "", "print", "--color", "never", "--repo", "octo/hello", "--job", "7")
	require.NoError(t, err)
	assert.Equal(t, "▾ Run make\nbuilding\n", out)
	assert.Equal(t, "Bearer secret", gotAuth)
}

func TestSections(t *testing.T) {
	path := writeLog(t, t.TempDir(), "job.log", sampleLog)

	out, err := execute(t, "", "sections", path)
	require.NoError(t, err)
	assert.Contains(t, out, "job.log  8 lines")
	assert.Contains(t, out, "2 groups")
	assert.Contains(t, out, "Run actions/checkout@v4")
	assert.Contains(t, out, "Run go test ./...")
}

func TestSections_SeveralSources(t *testing.T) {
	dir := t.TempDir()
	a := writeLog(t, dir, "a.log", sampleLog)
	b := writeLog(t, dir, "b.log", "##[group]only\n##[endgroup]\n")

	out, err := execute(t, "", "sections", a, b)
	require.NoError(t, err)
	parts := strings.Split(out, "\n\n")
	require.Len(t, parts, 2)
	assert.True(t, strings.HasPrefix(parts[0], "a.log"))
	assert.True(t, strings.HasPrefix(parts[1], "b.log"))
	assert.Contains(t, parts[1], "only")
}

func TestDump_JSON(t *testing.T) {
	path := writeLog(t, t.TempDir(), "job.log", sampleLog)

	out, err := execute(t, "", "dump", path)
	require.NoError(t, err)

	var got []struct {
		Name       string `json:"name"`
		GroupCount int    `json:"groupCount"`
		Sections   []struct {
			Name string `json:"name"`
		} `json:"sections"`
		Lines []json.RawMessage `json:"lines"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "job.log", got[0].Name)
	assert.Equal(t, 2, got[0].GroupCount)
	assert.Len(t, got[0].Sections, 3)
	assert.Len(t, got[0].Lines, 8)
}

func TestDump_YAML(t *testing.T) {
	path := writeLog(t, t.TempDir(), "job.log", sampleLog)

	out, err := execute(t, "", "dump", "--format", "YAML", path)
	require.NoError(t, err)
	assert.Contains(t, out, "name: job.log")
	assert.Contains(t, out, "groupCount: 2")
}

func TestDump_InvalidFormat(t *testing.T) {
	path := writeLog(t, t.TempDir(), "job.log", sampleLog)

	_, err := execute(t, "", "dump", "-o", "xml", path)
	assert.ErrorContains(t, err, `invalid format "xml"`)
}

func TestView_LaunchesViewerOnTerminal(t *testing.T) {
	origViewer, origTerm := runViewerFunc, isTerminalFunc
	defer func() {
		runViewerFunc, isTerminalFunc = origViewer, origTerm
	}()

	isTerminalFunc = func(io.Writer) bool { return true }
	var got app.Options
	called := false
	runViewerFunc = func(_ context.Context, opts app.Options) error {
		called = true
		got = opts
		return nil
	}

	_, err := execute(t, "", "view", "--follow", "--step", "3", "--prefs", "/tmp/prefs.toml", "job.log")
	require.NoError(t, err)
	require.True(t, called, "viewer should start when stdout is a terminal")
	assert.True(t, got.Follow)
	assert.Equal(t, 3, got.Step)
	assert.Equal(t, "/tmp/prefs.toml", got.PrefsPath)
	assert.Equal(t, []string{"job.log"}, got.Sources.Paths)
	assert.NotNil(t, got.Stdin)
}

func TestView_PrintsWhenNotATerminal(t *testing.T) {
	origViewer := runViewerFunc
	defer func() { runViewerFunc = origViewer }()

	called := false
	runViewerFunc = func(context.Context, app.Options) error {
		called = true
		return nil
	}

	path := writeLog(t, t.TempDir(), "job.log", sampleLog)
	out, err := execute(t, "", "view", "--step", "1", path)
	require.NoError(t, err)
	assert.False(t, called, "viewer should not start without a terminal")
	assert.Contains(t, out, "Run actions/checkout@v4")
	assert.Contains(t, out, "with: repository")
	assert.NotContains(t, out, "Run go test")
}
