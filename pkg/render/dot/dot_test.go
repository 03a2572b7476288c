package dot

import (
	"strings"
	"testing"

	"github.com/sasutils/sastopo2svg/pkg/topo"
)

func TestToDOT(t *testing.T) {
	g := topo.NewDigraph("p", "n", "o", "t")
	vertices := []*topo.Vertex{
		{FMRI: "sas://initiator=0", Kind: topo.KindInitiator, OutgoingEdges: []string{"sas://port=1"}},
		{FMRI: "sas://port=1", Kind: topo.KindPort, OutgoingEdges: []string{"sas://target=2"}},
		{FMRI: "sas://target=2", Kind: topo.KindTarget},
	}
	for _, v := range vertices {
		if err := g.AddVertex(v); err != nil {
			t.Fatal(err)
		}
	}

	out := ToDOT(g)

	if !strings.HasPrefix(out, "digraph sastopo {") {
		t.Errorf("missing digraph header: %q", out[:min(40, len(out))])
	}
	if !strings.Contains(out, "rankdir=LR") {
		t.Error("initiator-to-target flow direction missing")
	}
	for _, decl := range []string{
		`"sas://initiator=0" [`,
		`"sas://port=1" [`,
		`"sas://target=2" [`,
	} {
		if !strings.Contains(out, decl) {
			t.Errorf("node declaration missing: %s", decl)
		}
	}
	for _, edge := range []string{
		`"sas://initiator=0" -> "sas://port=1";`,
		`"sas://port=1" -> "sas://target=2";`,
	} {
		if !strings.Contains(out, edge) {
			t.Errorf("edge missing: %s", edge)
		}
	}
	if !strings.Contains(out, "fillcolor=lightblue") {
		t.Error("initiator fill color missing")
	}
}

func TestToDOTDeterministic(t *testing.T) {
	g := topo.NewDigraph("p", "n", "o", "t")
	for _, fmri := range []string{"sas://c", "sas://a", "sas://b"} {
		if err := g.AddVertex(&topo.Vertex{FMRI: fmri, Kind: topo.KindTarget}); err != nil {
			t.Fatal(err)
		}
	}

	first := ToDOT(g)
	for i := 0; i < 10; i++ {
		if got := ToDOT(g); got != first {
			t.Fatal("DOT output varies across runs")
		}
	}
	a := strings.Index(first, `"sas://a"`)
	b := strings.Index(first, `"sas://b"`)
	c := strings.Index(first, `"sas://c"`)
	if !(a < b && b < c) {
		t.Error("node declarations not in sorted FMRI order")
	}
}
