package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/san-kum/gravlace/internal/vmath"
)

var ErrUnknownBody = errors.New("storage: unknown body")

// Trajectory is the recorded positions of every body, one row per frame.
type Trajectory struct {
	Names     []string
	Times     []float64
	Positions [][]vmath.Vector3 // [frame][body]
}

func (t *Trajectory) index(name string) (int, error) {
	for i, n := range t.Names {
		if n == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownBody, name)
}

// Path returns the positions of one body over time.
func (t *Trajectory) Path(name string) ([]vmath.Vector3, error) {
	idx, err := t.index(name)
	if err != nil {
		return nil, err
	}
	out := make([]vmath.Vector3, len(t.Positions))
	for i, row := range t.Positions {
		out[i] = row[idx]
	}
	return out, nil
}

// Component returns one coordinate (0=x, 1=y, 2=z) of a body over time.
func (t *Trajectory) Component(name string, axis int) ([]float64, error) {
	path, err := t.Path(name)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(path))
	for i, p := range path {
		v, err := p.Component(axis)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Separation returns the distance between two bodies over time.
func (t *Trajectory) Separation(a, b string) ([]float64, error) {
	pa, err := t.Path(a)
	if err != nil {
		return nil, err
	}
	pb, err := t.Path(b)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(pa))
	for i := range pa {
		out[i] = pa[i].Distance(pb[i])
	}
	return out, nil
}

func (s *Store) LoadTrajectory(runID string) (*Trajectory, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, trajectoryFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadTrajectory(f)
}

// ReadTrajectory parses the CSV layout written by Save.
func ReadTrajectory(r io.Reader) (*Trajectory, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("trajectory: missing header")
	}

	names, err := parseHeader(records[0])
	if err != nil {
		return nil, err
	}

	traj := &Trajectory{
		Names:     names,
		Times:     make([]float64, 0, len(records)-1),
		Positions: make([][]vmath.Vector3, 0, len(records)-1),
	}
	for line, record := range records[1:] {
		vals := make([]float64, len(record))
		for i, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("trajectory row %d: %w", line+2, err)
			}
			vals[i] = v
		}

		row := make([]vmath.Vector3, len(names))
		for i := range names {
			row[i] = vmath.Vec3(vals[1+3*i], vals[2+3*i], vals[3+3*i])
		}
		traj.Times = append(traj.Times, vals[0])
		traj.Positions = append(traj.Positions, row)
	}
	return traj, nil
}

func parseHeader(header []string) ([]string, error) {
	if len(header) == 0 || header[0] != "time" || (len(header)-1)%3 != 0 {
		return nil, fmt.Errorf("trajectory: malformed header %v", header)
	}
	names := make([]string, 0, (len(header)-1)/3)
	for i := 1; i < len(header); i += 3 {
		name, ok := strings.CutSuffix(header[i], "_x")
		if !ok || header[i+1] != name+"_y" || header[i+2] != name+"_z" {
			return nil, fmt.Errorf("trajectory: malformed columns %v", header[i:i+3])
		}
		names = append(names, name)
	}
	return names, nil
}

type exportData struct {
	Run    *RunMetadata `json:"run"`
	Times  []float64    `json:"times"`
	Bodies []exportBody `json:"bodies"`
}

type exportBody struct {
	Name      string       `json:"name"`
	Positions [][3]float64 `json:"positions"`
}

// ExportJSON writes the metadata and trajectory of a run as one document.
func ExportJSON(w io.Writer, meta *RunMetadata, traj *Trajectory) error {
	data := exportData{
		Run:    meta,
		Times:  traj.Times,
		Bodies: make([]exportBody, len(traj.Names)),
	}
	for i, name := range traj.Names {
		body := exportBody{Name: name, Positions: make([][3]float64, len(traj.Positions))}
		for j, row := range traj.Positions {
			p := row[i]
			body.Positions[j] = [3]float64{p.X, p.Y, p.Z}
		}
		data.Bodies[i] = body
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
