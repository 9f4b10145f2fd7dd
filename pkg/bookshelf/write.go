package bookshelf

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/rowfit/rowfit/pkg/errors"
	"github.com/rowfit/rowfit/pkg/place"
)

// Emit writes the design under outPrefix: a fresh .aux/.nodes/.pl/.scl and
// byte-for-byte copies of the input .nets and .wts.
func (d *Design) Emit(outPrefix string) error {
	if err := WriteAux(outPrefix+".aux", outPrefix); err != nil {
		return err
	}
	if err := WriteNodes(outPrefix+".nodes", d.Nodes); err != nil {
		return err
	}
	if err := WritePl(outPrefix+".pl", d.Nodes, d.Placement); err != nil {
		return err
	}
	if err := WriteScl(outPrefix+".scl", d.Placement.Rows); err != nil {
		return err
	}
	if err := CopyFile(d.Files["nets"], outPrefix+".nets"); err != nil {
		return err
	}
	return CopyFile(d.Files["wts"], outPrefix+".wts")
}

// WriteAux writes the .aux index naming the five artifacts under prefix.
func WriteAux(path, prefix string) error {
	f, err := create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "RowBasedPlacement : %s.nodes %s.nets %s.wts %s.pl %s.scl\n",
		prefix, prefix, prefix, prefix, prefix)
	return flush(w, path)
}

// WriteNodes writes the node records in input order at four-decimal
// precision, retaining the terminal annotation on fixed cells.
func WriteNodes(path string, nodes []Node) error {
	f, err := create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	terminals := 0
	for _, n := range nodes {
		if n.Terminal {
			terminals++
		}
	}

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "UCLA nodes 1.0\n")
	fmt.Fprintf(w, "NumNodes : %d\n", len(nodes))
	fmt.Fprintf(w, "NumTerminals : %d\n\n", terminals)
	for _, n := range nodes {
		fmt.Fprintf(w, "%s %.4f %.4f", n.Name, n.Width, n.Height)
		if n.Terminal {
			fmt.Fprintf(w, " terminal")
		}
		fmt.Fprintf(w, "\n")
	}
	return flush(w, path)
}

// WritePl writes each cell's coordinates at six-decimal precision, in node
// input order. No orientation field is written.
func WritePl(path string, nodes []Node, p *place.Placement) error {
	f, err := create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "UCLA pl 1.0\n\n")
	for _, n := range nodes {
		c, ok := p.Cells[n.Name]
		if !ok {
			continue
		}
		fmt.Fprintf(w, "%s %.6f %.6f\n", c.Name, c.X, c.Y)
	}
	return flush(w, path)
}

// WriteScl reproduces the row geometry at four-decimal precision with the
// constant Siteorient and Sitesymmetry fields the benchmarks carry.
func WriteScl(path string, rows []*place.Row) error {
	f, err := create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "UCLA scl 1.0\n")
	fmt.Fprintf(w, "\nNumRows : %d\n\n", len(rows))
	for _, row := range rows {
		fmt.Fprintf(w, "CoreRow Horizontal\n")
		fmt.Fprintf(w, "  Coordinate     : %.4f\n", row.YStart)
		fmt.Fprintf(w, "  Height         : %.4f\n", row.Height)
		fmt.Fprintf(w, "  Sitewidth      : %.4f\n", row.SiteWidth)
		fmt.Fprintf(w, "  Sitespacing    : %.4f\n", row.SiteSpacing)
		fmt.Fprintf(w, "  Siteorient     : 1\n")
		fmt.Fprintf(w, "  Sitesymmetry   : 1\n")
		for _, sr := range row.Subrows {
			fmt.Fprintf(w, "  SubrowOrigin   : %.4f    NumSites : %d\n", sr.XStart, sr.NumSites)
		}
		fmt.Fprintf(w, "End\n\n")
	}
	return flush(w, path)
}

// CopyFile copies src to dst byte for byte.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", src)
	}
	defer in.Close()

	out, err := create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "copy %s to %s", src, dst)
	}
	return nil
}

func create(path string) (*os.File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create %s", path)
	}
	return f, nil
}

func flush(w *bufio.Writer, path string) error {
	if err := w.Flush(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
	}
	return nil
}
