package pipeline

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/sasutils/sastopo2svg/pkg/errors"
)

const snapshotXML = `<topo-digraph product-id="prod-4000" nodename="host1" os-version="5.11" timestamp="2020-06-01T00:00:00Z">
  <vertices>
    <vertex fmri="sas://initiator=0" name="initiator" instance="0x0">
      <propgroups>
        <nvlist>
          <nvpair name="name" type="string" value="authority"/>
          <nvpair name="values" type="nvlist-array">
            <nvlist>
              <nvpair name="name" type="string" value="server-id"/>
              <nvpair name="value" type="string" value="host1"/>
            </nvlist>
          </nvpair>
        </nvlist>
      </propgroups>
      <outgoing-edges>
        <edge fmri="sas://port=1"/>
      </outgoing-edges>
    </vertex>
    <vertex fmri="sas://port=1" name="port" instance="0x1">
      <propgroups/>
      <outgoing-edges>
        <edge fmri="sas://target=2"/>
      </outgoing-edges>
    </vertex>
    <vertex fmri="sas://target=2" name="target" instance="0x2">
      <propgroups/>
    </vertex>
  </vertices>
</topo-digraph>`

const danglingXML = `<topo-digraph product-id="p" nodename="n" os-version="o" timestamp="t">
  <vertices>
    <vertex fmri="sas://initiator=0" name="initiator" instance="0x0">
      <propgroups/>
      <outgoing-edges>
        <edge fmri="sas://ghost=9"/>
      </outgoing-edges>
    </vertex>
  </vertices>
</topo-digraph>`

func writeSnapshot(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sastopo.xml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func quietRunner() *Runner {
	return NewRunner(log.NewWithOptions(io.Discard, log.Options{}))
}

func TestExecuteInMemory(t *testing.T) {
	opts := Options{
		Input:   writeSnapshot(t, snapshotXML),
		Formats: []string{FormatSVG, FormatHTML, FormatJSON},
	}

	result, err := quietRunner().Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.RunID == "" {
		t.Error("missing run ID")
	}
	if result.Stats.VertexCount != 3 || result.Stats.EdgeCount != 2 {
		t.Errorf("stats = %d vertices / %d edges, want 3/2", result.Stats.VertexCount, result.Stats.EdgeCount)
	}
	if result.Stats.MaxDepth != 3 || result.Stats.MaxHeight != 1 {
		t.Errorf("layout stats = %d/%d, want 3/1", result.Stats.MaxDepth, result.Stats.MaxHeight)
	}

	svgOut := string(result.Artifacts[FormatSVG])
	if count := strings.Count(svgOut, "<image"); count != 3 {
		t.Errorf("diagram has %d nodes, want 3", count)
	}
	if !strings.Contains(svgOut, `x="50"`) || !strings.Contains(svgOut, `x="300"`) {
		t.Error("diagram column positions wrong")
	}

	htmlOut := string(result.Artifacts[FormatHTML])
	if !strings.Contains(htmlOut, `width="1200"`) {
		t.Error("wrapper width below minimum canvas")
	}

	if !strings.Contains(string(result.Artifacts[FormatJSON]), `"sas://target=2"`) {
		t.Error("JSON export missing vertex")
	}

	if len(result.Files) != 0 {
		t.Errorf("in-memory run wrote files: %v", result.Files)
	}
}

func TestExecuteWritesFiles(t *testing.T) {
	outdir := t.TempDir()
	opts := Options{
		Input:      writeSnapshot(t, snapshotXML),
		Outdir:     outdir,
		Formats:    []string{FormatSVG, FormatHTML},
		SkipAssets: true,
	}

	result, err := quietRunner().Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	for _, name := range []string{"sastopo.svg", "sastopo2svg.html"} {
		if _, err := os.Stat(filepath.Join(outdir, name)); err != nil {
			t.Errorf("output file missing: %s", name)
		}
	}
	if len(result.Files) != 2 {
		t.Errorf("Files = %v, want 2 entries", result.Files)
	}
}

func TestExecuteInstallsAssets(t *testing.T) {
	src := t.TempDir()
	icons := filepath.Join(src, "icons")
	if err := os.MkdirAll(icons, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"initiator.png", "port.png", "expander.png", "target.png"} {
		if err := os.WriteFile(filepath.Join(icons, name), []byte("png"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	outdir := t.TempDir()
	opts := Options{
		Input:     writeSnapshot(t, snapshotXML),
		Outdir:    outdir,
		Formats:   []string{FormatSVG},
		AssetsDir: src,
	}

	if _, err := quietRunner().Execute(context.Background(), opts); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outdir, "assets", "icons", "initiator.png")); err != nil {
		t.Error("icons not installed next to the diagram")
	}
}

func TestExecuteDanglingEdgeWritesNothing(t *testing.T) {
	outdir := t.TempDir()
	opts := Options{
		Input:      writeSnapshot(t, danglingXML),
		Outdir:     outdir,
		Formats:    []string{FormatSVG},
		SkipAssets: true,
	}

	_, err := quietRunner().Execute(context.Background(), opts)
	if err == nil {
		t.Fatal("expected error for dangling edge")
	}
	if !errors.Is(err, errors.ErrCodeLookupFailure) {
		t.Errorf("error code = %q, want LOOKUP_FAILURE", errors.GetCode(err))
	}

	entries, readErr := os.ReadDir(outdir)
	if readErr != nil {
		t.Fatal(readErr)
	}
	if len(entries) != 0 {
		t.Errorf("failed run left output files: %v", entries)
	}
}

func TestExecuteMissingInput(t *testing.T) {
	opts := Options{Input: filepath.Join(t.TempDir(), "nope.xml"), Formats: []string{FormatSVG}}
	_, err := quietRunner().Execute(context.Background(), opts)
	if err == nil {
		t.Fatal("expected error for missing input")
	}
	if !errors.Is(err, errors.ErrCodeIOFailure) {
		t.Errorf("error code = %q, want IO_FAILURE", errors.GetCode(err))
	}
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"missing input", Options{}, true},
		{"bad format", Options{Input: "x.xml", Formats: []string{"png"}}, true},
		{"defaults applied", Options{Input: "x.xml"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && len(tt.opts.Formats) == 0 {
				t.Error("defaults not applied to Formats")
			}
		})
	}
}

func TestExecuteCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := Options{Input: writeSnapshot(t, snapshotXML), Formats: []string{FormatSVG}}
	if _, err := quietRunner().Execute(ctx, opts); err == nil {
		t.Fatal("expected error for canceled context")
	}
}
