package bookshelf

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

// writeBundle writes a minimal five-file design under dir and returns its
// prefix.
func writeBundle(t *testing.T, dir string) string {
	t.Helper()
	files := map[string]string{
		"toy.aux": "RowBasedPlacement : toy.nodes toy.nets toy.wts toy.pl toy.scl\n",
		"toy.nodes": `UCLA nodes 1.0
NumNodes : 3
NumTerminals : 1

a1 3.0 10.0
a2 2.0 10.0
p1 8.0 10.0 terminal
`,
		"toy.pl": `UCLA pl 1.0

a1 5.4 0.0 : N
a2 12.0 0.2 : N
p1 50.0 20.0 : N
`,
		"toy.scl": `UCLA scl 1.0

NumRows : 2

CoreRow Horizontal
  Coordinate     : 0.0
  Height         : 10.0
  Sitewidth      : 1.0
  Sitespacing    : 1.0
  Siteorient     : 1
  Sitesymmetry   : 1
  SubrowOrigin   : 0.0    NumSites : 40
  SubrowOrigin   : 50.0   NumSites : 30
End

CoreRow Horizontal
  Coordinate     : 10.0
  Height         : 10.0
  Sitewidth      : 1.0
  Sitespacing    : 1.0
  Siteorient     : 1
  Sitesymmetry   : 1
  SubrowOrigin   : 0.0    Numsites : 80
End
`,
		"toy.nets": "UCLA nets 1.0\n",
		"toy.wts":  "UCLA wts 1.0\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return filepath.Join(dir, "toy")
}

func TestLoad(t *testing.T) {
	prefix := writeBundle(t, t.TempDir())

	d, err := Load(prefix, quietLogger())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if d.Name != "toy" {
		t.Errorf("Name = %q, want toy", d.Name)
	}
	if len(d.Nodes) != 3 {
		t.Fatalf("len(Nodes) = %d, want 3", len(d.Nodes))
	}

	p := d.Placement
	if len(p.Cells) != 3 {
		t.Fatalf("len(Cells) = %d, want 3", len(p.Cells))
	}

	a1 := p.Cells["a1"]
	if a1.Width != 3 || a1.Height != 10 || a1.Fixed {
		t.Errorf("a1 = %+v", a1)
	}
	if a1.OrigX != 5.4 || a1.OrigY != 0 || a1.X != 5.4 {
		t.Errorf("a1 coords = (%g, %g), orig (%g, %g)", a1.X, a1.Y, a1.OrigX, a1.OrigY)
	}

	p1 := p.Cells["p1"]
	if !p1.Fixed {
		t.Error("p1 should be fixed")
	}

	if len(p.Rows) != 2 {
		t.Fatalf("len(Rows) = %d, want 2", len(p.Rows))
	}
	row := p.Rows[0]
	if len(row.Subrows) != 2 {
		t.Fatalf("len(Subrows) = %d, want 2", len(row.Subrows))
	}
	if row.Subrows[1].XStart != 50 || row.Subrows[1].NumSites != 30 {
		t.Errorf("subrow = %+v", row.Subrows[1])
	}
	// Lowercase Numsites label is accepted.
	if p.Rows[1].Subrows[0].NumSites != 80 {
		t.Errorf("row 2 NumSites = %d, want 80", p.Rows[1].Subrows[0].NumSites)
	}

	if p.MaxX != 80 || p.MaxY != 20 {
		t.Errorf("extent = (%g, %g), want (80, 20)", p.MaxX, p.MaxY)
	}
}

func TestParseAuxMissingKind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.aux")
	content := "RowBasedPlacement : bad.nodes bad.pl bad.scl\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ParseAux(path); err == nil {
		t.Error("aux missing .nets and .wts should be an error")
	}
}

func TestParseAuxMissingFile(t *testing.T) {
	if _, err := ParseAux(filepath.Join(t.TempDir(), "absent.aux")); err == nil {
		t.Error("absent .aux should be an error")
	}
}

func TestParseNodesDuplicateLaterWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dup.nodes")
	content := `UCLA nodes 1.0
NumNodes : 2
NumTerminals : 0

a 3.0 10.0
a 5.0 10.0
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	nodes, err := ParseNodes(path, quietLogger())
	if err != nil {
		t.Fatalf("ParseNodes error: %v", err)
	}
	if len(nodes) != 1 {
		t.Fatalf("len(nodes) = %d, want 1", len(nodes))
	}
	if nodes[0].Width != 5 {
		t.Errorf("width = %g, later definition should win", nodes[0].Width)
	}
}

func TestParseNodesSkipsMalformedRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.nodes")
	content := `UCLA nodes 1.0

a 3.0 10.0
broken line here x
b 2.0 10.0
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	nodes, err := ParseNodes(path, quietLogger())
	if err != nil {
		t.Fatalf("ParseNodes error: %v", err)
	}
	if len(nodes) != 2 {
		t.Errorf("len(nodes) = %d, want 2", len(nodes))
	}
}

func TestParseSclMalformedSubrow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.scl")
	content := `UCLA scl 1.0
CoreRow Horizontal
  Coordinate     : 0.0
  SubrowOrigin   : nonsense
End
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := ParseScl(path); err == nil {
		t.Error("malformed SubrowOrigin should be an error")
	}
}

func TestParseSclComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.scl")
	content := `UCLA scl 1.0
# a full-line comment
CoreRow Horizontal
  Coordinate     : 5.0  # trailing comment
  Height         : 10.0
  Sitewidth      : 2.0
  Sitespacing    : 2.0
  SubrowOrigin   : 4.0 NumSites : 8
End
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	rows, maxX, maxY, err := ParseScl(path)
	if err != nil {
		t.Fatalf("ParseScl error: %v", err)
	}
	if len(rows) != 1 || rows[0].YStart != 5 {
		t.Fatalf("rows = %+v", rows)
	}
	if maxX != 20 || maxY != 15 {
		t.Errorf("extent = (%g, %g), want (20, 15)", maxX, maxY)
	}
}
