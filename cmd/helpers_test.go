package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/derickschaefer/gapview/internal/config"
	"github.com/derickschaefer/gapview/internal/model"
)

const testCSV = `location,time,pop_mlns,fertility_rate,life_expectancy
Chad,2000,8.3,7.2,47.7
Chad,2010,11.9,6.6,51.0
Peru,2000,26.5,2.9,70.5
Peru,2010,29.4,2.6,73.9
`

func TestOutputWriterDefault(t *testing.T) {
	globalFlags.Out = ""
	w, closeFn, err := outputWriter(os.Stdout)
	if err != nil {
		t.Fatalf("outputWriter default: %v", err)
	}
	if w != os.Stdout {
		t.Fatalf("expected stdout writer passthrough")
	}
	if err := closeFn(); err != nil {
		t.Fatalf("default closer should be nil error, got: %v", err)
	}
}

func TestOutputWriterFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "out.txt")
	globalFlags.Out = p
	t.Cleanup(func() { globalFlags.Out = "" })

	w, closeFn, err := outputWriter(os.Stdout)
	if err != nil {
		t.Fatalf("outputWriter file: %v", err)
	}
	if w == os.Stdout {
		t.Fatalf("expected file writer, got stdout")
	}
	if err := closeFn(); err != nil {
		t.Fatalf("closing output writer: %v", err)
	}
	if _, err := os.Stat(p); err != nil {
		t.Fatalf("expected output file to exist: %v", err)
	}
}

func TestResolveFormat(t *testing.T) {
	t.Cleanup(func() { globalFlags.Format = "" })

	globalFlags.Format = ""
	if got := resolveFormat(""); got != "table" {
		t.Errorf("default: got %q", got)
	}
	if got := resolveFormat("csv"); got != "csv" {
		t.Errorf("config: got %q", got)
	}
	globalFlags.Format = "json"
	if got := resolveFormat("csv"); got != "json" {
		t.Errorf("flag should win: got %q", got)
	}
}

func TestDedupe(t *testing.T) {
	got := dedupe([]string{"a", "b", "a", "c", "b"})
	if strings.Join(got, ",") != "a,b,c" {
		t.Fatalf("got %v", got)
	}
}

func TestSetConfigKey(t *testing.T) {
	f := config.Template()
	if err := setConfigKey(&f, "rate", "2.5"); err != nil || f.Rate != 2.5 {
		t.Fatalf("rate: %v %v", err, f.Rate)
	}
	if err := setConfigKey(&f, "category_column", "region"); err != nil || f.CategoryColumn != "region" {
		t.Fatalf("category_column: %v %q", err, f.CategoryColumn)
	}
	if err := setConfigKey(&f, "rate", "-1"); err == nil {
		t.Error("negative rate accepted")
	}
	if err := setConfigKey(&f, "format", "xml"); err == nil {
		t.Error("unknown format accepted")
	}
	if err := setConfigKey(&f, "api_key", "x"); err == nil {
		t.Error("unknown key accepted")
	}
}

// runRoot executes the command tree with args and returns stdout.
func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() {
		globalFlags.Data, globalFlags.Format, globalFlags.Quiet = "", "", false
		renderFlags.Location, renderFlags.OutDir = "", ""
		replayFlags.OutDir = ""
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeTestData(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "gap.csv")
	if err := os.WriteFile(p, []byte(testCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestRenderCommand(t *testing.T) {
	data := writeTestData(t)
	dir := t.TempDir()

	out, err := runRoot(t, "--data", data, "--format", "json", "--quiet", "render", "-l", "Peru", "--out-dir", dir)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	var result struct {
		Kind string               `json:"kind"`
		Data []model.RenderOutput `json:"data"`
	}
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decoding output: %v\n%s", err, out)
	}
	if result.Kind != model.KindRender || len(result.Data) != 2 {
		t.Fatalf("unexpected result: %+v", result)
	}
	for _, o := range result.Data {
		if o.Error != "" {
			t.Errorf("%s: unexpected error %q", o.View, o.Error)
		}
		if _, err := os.Stat(o.Path); err != nil {
			t.Errorf("%s: %v", o.View, err)
		}
	}
	if result.Data[0].Marks != 4 || result.Data[1].Marks != 2 {
		t.Errorf("marks = %d, %d; want 4, 2", result.Data[0].Marks, result.Data[1].Marks)
	}

	svg, err := os.ReadFile(filepath.Join(dir, "line.svg"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(svg), ">Peru<") {
		t.Errorf("line.svg missing Peru title:\n%s", svg)
	}
}

func TestRenderCommandUnknownLocation(t *testing.T) {
	data := writeTestData(t)
	dir := t.TempDir()

	out, err := runRoot(t, "--data", data, "--format", "json", "--quiet", "render", "-l", "Atlantis", "--out-dir", dir)
	if err != nil {
		t.Fatalf("an unknown location should not fail the command: %v", err)
	}
	if !strings.Contains(out, "Atlantis") {
		t.Errorf("output should record the line view error:\n%s", out)
	}
}

func TestRenderCommandNoLocationColumn(t *testing.T) {
	p := filepath.Join(t.TempDir(), "noloc.csv")
	body := "time,pop_mlns,fertility_rate,life_expectancy\n2000,8.3,7.2,47.7\n2010,11.9,6.6,51.0\n"
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()

	out, err := runRoot(t, "--data", p, "--format", "json", "--quiet", "render", "--out-dir", dir)
	if err != nil {
		t.Fatalf("a missing category column should not fail the command: %v", err)
	}
	var result struct {
		Data []model.RenderOutput `json:"data"`
	}
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decoding output: %v\n%s", err, out)
	}
	if len(result.Data) != 2 {
		t.Fatalf("unexpected outputs: %+v", result.Data)
	}
	if sc := result.Data[0]; sc.Error != "" || sc.Marks != 2 {
		t.Errorf("scatter = %+v; want 2 marks and no error", sc)
	}
	if !strings.Contains(result.Data[1].Error, "location") {
		t.Errorf("line error = %q", result.Data[1].Error)
	}
	for _, name := range []string{"scatter.svg", "line.svg"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}
}

func TestReplayCommand(t *testing.T) {
	data := writeTestData(t)
	dir := t.TempDir()
	script := filepath.Join(t.TempDir(), "session.txt")
	body := "# switch and hover\nselect Peru\nmove 525 425\nwait 200ms\n"
	if err := os.WriteFile(script, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := runRoot(t, "--data", data, "--quiet", "replay", script, "--out-dir", dir); err != nil {
		t.Fatalf("replay: %v", err)
	}
	svg, err := os.ReadFile(filepath.Join(dir, "line.svg"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(svg), `class="tooltip"`) {
		t.Errorf("tooltip should be visible after hover and wait")
	}
}

func TestReplayCommandBadScript(t *testing.T) {
	data := writeTestData(t)
	script := filepath.Join(t.TempDir(), "bad.txt")
	if err := os.WriteFile(script, []byte("jump 1 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := runRoot(t, "--data", data, "replay", script); err == nil {
		t.Fatal("expected a script error")
	}
}

func TestLocationsCommand(t *testing.T) {
	data := writeTestData(t)
	out, err := runRoot(t, "--data", data, "--format", "csv", "--quiet", "locations")
	if err != nil {
		t.Fatalf("locations: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("want header + 2 rows, got:\n%s", out)
	}
	if !strings.HasPrefix(lines[1], "Chad") || !strings.HasPrefix(lines[2], "Peru") {
		t.Errorf("locations out of order:\n%s", out)
	}
}

func TestMissingDataFlag(t *testing.T) {
	t.Setenv(config.EnvData, "")
	if _, err := runRoot(t, "describe"); err == nil {
		t.Fatal("expected an error without --data")
	}
}

func TestRootHelpListsEncodings(t *testing.T) {
	if u := rootCmd.PersistentFlags().Lookup("input").Usage; !strings.Contains(u, "jsonl") {
		t.Errorf("--input usage = %q", u)
	}
	if u := rootCmd.PersistentFlags().Lookup("data").Usage; !strings.Contains(u, "- for stdin") {
		t.Errorf("--data usage = %q", u)
	}
	if !strings.Contains(rootCmd.Long, "JSONL") || !strings.Contains(rootCmd.Long, "stdin") {
		t.Error("root help should mention JSONL and stdin input")
	}
}
