package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/gravlace/internal/driver"
)

// FrameLog is a driver.Observer that streams every tick as one JSON line.
// Writing stops at the first error, which Err reports.
type FrameLog struct {
	enc *json.Encoder
	n   int
	err error
}

type frameRecord struct {
	Tick   int          `json:"tick"`
	Time   float64      `json:"time"`
	Bodies []bodyRecord `json:"bodies"`
}

type bodyRecord struct {
	Name     string     `json:"name"`
	Position [3]float64 `json:"position"`
	Velocity [3]float64 `json:"velocity"`
}

func NewFrameLog(w io.Writer) *FrameLog {
	return &FrameLog{enc: json.NewEncoder(w)}
}

func (l *FrameLog) OnTick(f driver.Frame) {
	if l.err != nil {
		return
	}
	rec := frameRecord{Tick: f.Tick, Time: f.Time, Bodies: make([]bodyRecord, len(f.Bodies))}
	for i, b := range f.Bodies {
		rec.Bodies[i] = bodyRecord{
			Name:     b.Name,
			Position: [3]float64{b.Position.X, b.Position.Y, b.Position.Z},
			Velocity: [3]float64{b.Velocity.X, b.Velocity.Y, b.Velocity.Z},
		}
	}
	if l.err = l.enc.Encode(rec); l.err == nil {
		l.n++
	}
}

// Written is the number of frames successfully written.
func (l *FrameLog) Written() int { return l.n }

func (l *FrameLog) Err() error { return l.err }
