package topoxml

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleXML = `<topo-digraph product-id="prod-4000" nodename="host1" os-version="5.11" timestamp="2020-06-01T00:00:00Z">
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
            <nvlist>
              <nvpair name="name" type="string" value="phy-mask"/>
              <nvpair name="value" type="string-array">
                <nvpair value="0"/>
                <nvpair value="1"/>
              </nvpair>
            </nvlist>
          </nvpair>
        </nvlist>
      </propgroups>
      <outgoing-edges>
        <edge fmri="sas://port=500"/>
      </outgoing-edges>
    </vertex>
    <vertex fmri="sas://port=500" name="port" instance="0x1f4">
      <propgroups/>
    </vertex>
  </vertices>
</topo-digraph>`

func TestParse(t *testing.T) {
	doc, err := Parse([]byte(sampleXML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if doc.ProductID != "prod-4000" {
		t.Errorf("ProductID = %q, want prod-4000", doc.ProductID)
	}
	if doc.Nodename != "host1" {
		t.Errorf("Nodename = %q, want host1", doc.Nodename)
	}
	if len(doc.Vertices) != 2 {
		t.Fatalf("vertices = %d, want 2", len(doc.Vertices))
	}

	init := doc.Vertices[0]
	if init.Name != "initiator" || init.Instance != "0x0" {
		t.Errorf("vertex[0] = %s/%s", init.Name, init.Instance)
	}
	if init.OutgoingEdges == nil || len(init.OutgoingEdges.Edges) != 1 {
		t.Fatal("vertex[0] should have one outgoing edge")
	}
	if got := init.OutgoingEdges.Edges[0].FMRI; got != "sas://port=500" {
		t.Errorf("edge fmri = %q", got)
	}

	port := doc.Vertices[1]
	if port.OutgoingEdges != nil {
		t.Error("leaf vertex should have nil OutgoingEdges")
	}
}

func TestNVPairShapes(t *testing.T) {
	doc, err := Parse([]byte(sampleXML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	pg := doc.Vertices[0].PropGroups[0]
	if len(pg.Pairs) != 2 {
		t.Fatalf("propgroup pairs = %d, want 2", len(pg.Pairs))
	}

	name := pg.Pairs[0]
	if name.Shape() != ShapeScalar {
		t.Errorf("name pair shape = %v, want scalar", name.Shape())
	}
	if v, ok := name.Scalar(); !ok || v != "authority" {
		t.Errorf("Scalar() = %q, %v", v, ok)
	}

	vals := pg.Pairs[1]
	if vals.Shape() != ShapeLists {
		t.Fatalf("values pair shape = %v, want lists", vals.Shape())
	}
	lists, ok := vals.Nested()
	if !ok || len(lists) != 2 {
		t.Fatalf("Nested() = %d lists, %v", len(lists), ok)
	}

	// Second property carries a string array value.
	arr := lists[1].Pairs[1]
	if arr.Shape() != ShapeArray {
		t.Fatalf("array pair shape = %v, want array", arr.Shape())
	}
	got, ok := arr.Array()
	if !ok || len(got) != 2 || got[0] != "0" || got[1] != "1" {
		t.Errorf("Array() = %v, %v", got, ok)
	}
	if _, ok := arr.Scalar(); ok {
		t.Error("Scalar() should fail on an array pair")
	}
}

func TestParseInvalid(t *testing.T) {
	if _, err := Parse([]byte("<topo-digraph><unclosed")); err == nil {
		t.Fatal("expected error for truncated XML")
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snapshot.xml")
	if err := os.WriteFile(path, []byte(sampleXML), 0o644); err != nil {
		t.Fatal(err)
	}

	doc, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if len(doc.Vertices) != 2 {
		t.Errorf("vertices = %d, want 2", len(doc.Vertices))
	}
}

func TestParseFileNotFound(t *testing.T) {
	if _, err := ParseFile("nonexistent.xml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestNVListString(t *testing.T) {
	l := NVList{Pairs: []NVPair{
		{Name: "name", Value: "target"},
		{Name: "value", Elements: []NVPair{{Value: "a"}, {Value: "b"}}},
	}}
	got := l.String()
	want := `{name="target", value=[a b]}`
	if got != want {
		t.Errorf("String() = %s, want %s", got, want)
	}
}
