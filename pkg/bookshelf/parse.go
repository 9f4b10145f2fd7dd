package bookshelf

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/rowfit/rowfit/pkg/errors"
	"github.com/rowfit/rowfit/pkg/place"
)

// Node is one .nodes record in input order.
type Node struct {
	Name     string
	Width    float64
	Height   float64
	Terminal bool
}

// Position is one .pl record.
type Position struct {
	X float64
	Y float64
}

// Design is a parsed Bookshelf bundle: the placement model plus enough of
// the raw input (node order, resolved file paths) to emit an equivalent
// bundle under a new prefix.
type Design struct {
	Name      string
	Files     map[string]string // kind ("nodes", "pl", ...) to resolved path
	Nodes     []Node
	Placement *place.Placement
}

// requiredKinds are the five file kinds a .aux must name.
var requiredKinds = []string{"nodes", "nets", "wts", "pl", "scl"}

// Load parses the bundle rooted at prefix (prefix + ".aux" and the files
// it names; relative names resolve against the prefix directory, absolute
// names are used as they are) and builds the placement model. Cells named
// in .nodes but absent from .pl start at the origin.
func Load(prefix string, logger *log.Logger) (*Design, error) {
	if logger == nil {
		logger = log.Default()
	}

	files, err := ParseAux(prefix + ".aux")
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(prefix)
	for kind, name := range files {
		if !filepath.IsAbs(name) {
			files[kind] = filepath.Join(dir, name)
		}
	}

	nodes, err := ParseNodes(files["nodes"], logger)
	if err != nil {
		return nil, err
	}
	positions, err := ParsePl(files["pl"], logger)
	if err != nil {
		return nil, err
	}
	rows, maxX, maxY, err := ParseScl(files["scl"])
	if err != nil {
		return nil, err
	}

	p := place.New()
	p.Rows = rows
	p.MaxX = maxX
	p.MaxY = maxY
	for _, n := range nodes {
		c := &place.Cell{
			Name:   n.Name,
			Width:  n.Width,
			Height: n.Height,
			Fixed:  n.Terminal,
		}
		if pos, ok := positions[n.Name]; ok {
			c.X, c.Y = pos.X, pos.Y
			c.OrigX, c.OrigY = pos.X, pos.Y
		} else {
			logger.Debug("cell has no .pl entry, starting at origin", "cell", n.Name)
		}
		p.Cells[n.Name] = c
	}

	return &Design{
		Name:      filepath.Base(prefix),
		Files:     files,
		Nodes:     nodes,
		Placement: p,
	}, nil
}

// ParseAux reads a .aux index and returns the named files keyed by kind.
// All five kinds must be present.
func ParseAux(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open .aux file %s", path)
	}
	defer f.Close()

	files := make(map[string]string)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		idx := strings.Index(line, " : ")
		if idx < 0 {
			continue
		}
		for _, tok := range strings.Fields(line[idx+3:]) {
			switch {
			case strings.HasSuffix(tok, ".nodes"):
				files["nodes"] = tok
			case strings.HasSuffix(tok, ".nets"):
				files["nets"] = tok
			case strings.HasSuffix(tok, ".wts"):
				files["wts"] = tok
			case strings.HasSuffix(tok, ".pl"):
				files["pl"] = tok
			case strings.HasSuffix(tok, ".scl"):
				files["scl"] = tok
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "read .aux file %s", path)
	}

	for _, kind := range requiredKinds {
		if files[kind] == "" {
			return nil, errors.New(errors.ErrCodeAuxIncomplete, "%s names no .%s file", path, kind)
		}
	}
	return files, nil
}

// ParseNodes reads a .nodes file. Unparsable records are logged and
// skipped; a duplicate name overwrites the earlier record with a warning.
func ParseNodes(path string, logger *log.Logger) ([]Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open .nodes file %s", path)
	}
	defer f.Close()

	var nodes []Node
	index := make(map[string]int)
	headerDone := false

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !headerDone {
			if strings.Contains(line, "UCLA nodes") ||
				strings.Contains(line, "NumNodes") ||
				strings.Contains(line, "NumTerminals") {
				continue
			}
			headerDone = true
		}

		fields := strings.Fields(line)
		if len(fields) < 3 {
			logger.Warn("unparsable .nodes record", "line", line)
			continue
		}
		width, errW := strconv.ParseFloat(fields[1], 64)
		height, errH := strconv.ParseFloat(fields[2], 64)
		if errW != nil || errH != nil {
			logger.Warn("unparsable .nodes record", "line", line)
			continue
		}
		n := Node{Name: fields[0], Width: width, Height: height}
		if len(fields) > 3 && (fields[3] == "terminal" || fields[3] == "fixed") {
			n.Terminal = true
		}

		if at, dup := index[n.Name]; dup {
			logger.Warn("duplicate cell name, later definition wins", "cell", n.Name)
			nodes[at] = n
			continue
		}
		index[n.Name] = len(nodes)
		nodes = append(nodes, n)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "read .nodes file %s", path)
	}
	return nodes, nil
}

// ParsePl reads a .pl file into positions keyed by cell name. A trailing
// orientation field is accepted and ignored.
func ParsePl(path string, logger *log.Logger) (map[string]Position, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open .pl file %s", path)
	}
	defer f.Close()

	positions := make(map[string]Position)
	headerDone := false

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !headerDone {
			if strings.Contains(line, "UCLA pl") {
				continue
			}
			headerDone = true
		}

		fields := strings.Fields(line)
		if len(fields) < 3 {
			logger.Warn("unparsable .pl record", "line", line)
			continue
		}
		x, errX := strconv.ParseFloat(fields[1], 64)
		y, errY := strconv.ParseFloat(fields[2], 64)
		if errX != nil || errY != nil {
			logger.Warn("unparsable .pl record", "line", line)
			continue
		}
		positions[fields[0]] = Position{X: x, Y: y}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "read .pl file %s", path)
	}
	return positions, nil
}

// ParseScl reads a .scl row-geometry file and returns the rows plus the
// occupied design extent. Malformed row blocks are structural errors.
func ParseScl(path string) ([]*place.Row, float64, float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, 0, errors.Wrap(errors.ErrCodeFileNotFound, err, "open .scl file %s", path)
	}
	defer f.Close()

	var (
		rows       []*place.Row
		current    *place.Row
		maxX, maxY float64
	)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.Index(line, "#"); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		keyword := fields[0]
		switch {
		case keyword == "CoreRow":
			current = &place.Row{}
		case keyword == "End":
			if current != nil {
				for _, sr := range current.Subrows {
					if sr.XEnd > maxX {
						maxX = sr.XEnd
					}
				}
				if top := current.YStart + current.Height; top > maxY {
					maxY = top
				}
				rows = append(rows, current)
				current = nil
			}
		case current == nil:
			// Tokens outside a CoreRow block (NumRows header etc).
		case keyword == "Coordinate":
			if current.YStart, err = sclValue(line); err != nil {
				return nil, 0, 0, err
			}
		case keyword == "Height":
			if current.Height, err = sclValue(line); err != nil {
				return nil, 0, 0, err
			}
		case keyword == "Sitewidth":
			if current.SiteWidth, err = sclValue(line); err != nil {
				return nil, 0, 0, err
			}
		case keyword == "Sitespacing":
			if current.SiteSpacing, err = sclValue(line); err != nil {
				return nil, 0, 0, err
			}
		case keyword == "SubrowOrigin":
			xStart, numSites, err := parseSubrowOrigin(line)
			if err != nil {
				return nil, 0, 0, err
			}
			current.Subrows = append(current.Subrows, place.NewSubrow(xStart, numSites, current.SiteWidth))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, 0, errors.Wrap(errors.ErrCodeParse, err, "read .scl file %s", path)
	}
	return rows, maxX, maxY, nil
}

// sclValue parses the numeric value after the first colon of a row field.
func sclValue(line string) (float64, error) {
	idx := strings.Index(line, ":")
	if idx < 0 {
		return 0, errors.New(errors.ErrCodeParse, "missing value in .scl line: %s", line)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(line[idx+1:]), 64)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeParse, err, "non-numeric value in .scl line: %s", line)
	}
	return v, nil
}

// parseSubrowOrigin parses "SubrowOrigin : <x> NumSites : <n>". The sites
// label is accepted in either capitalization the benchmarks use.
func parseSubrowOrigin(line string) (float64, int, error) {
	idx := strings.Index(line, ":")
	if idx < 0 {
		return 0, 0, errors.New(errors.ErrCodeParse, "malformed SubrowOrigin line: %s", line)
	}
	fields := strings.Fields(line[idx+1:])
	if len(fields) < 4 {
		return 0, 0, errors.New(errors.ErrCodeParse, "malformed SubrowOrigin line: %s", line)
	}
	xStart, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, 0, errors.Wrap(errors.ErrCodeParse, err, "bad SubrowOrigin x in line: %s", line)
	}
	if fields[1] != "NumSites" && fields[1] != "Numsites" {
		return 0, 0, errors.New(errors.ErrCodeParse, "missing NumSites label in line: %s", line)
	}
	if fields[2] != ":" {
		return 0, 0, errors.New(errors.ErrCodeParse, "missing colon after NumSites in line: %s", line)
	}
	numSites, err := strconv.Atoi(fields[3])
	if err != nil {
		return 0, 0, errors.Wrap(errors.ErrCodeParse, err, "bad NumSites value in line: %s", line)
	}
	return xStart, numSites, nil
}
