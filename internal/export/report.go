package export

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/san-kum/sparks/internal/metrics"
)

// Report is the machine-readable result of a bench invocation.
type Report struct {
	Width    int   `json:"width"`
	Height   int   `json:"height"`
	Capacity int   `json:"capacity"`
	Frames   int   `json:"frames"`
	Seed     int64 `json:"seed"`
	Runs     []Run `json:"runs"`
}

type Run struct {
	Rate      int       `json:"rate"`
	Ticks     uint64    `json:"ticks"`
	Peak      int       `json:"peak"`
	Final     int       `json:"final"`
	Spawned   uint64    `json:"spawned"`
	Culled    uint64    `json:"culled"`
	Dropped   uint64    `json:"dropped"`
	MeanTick  float64   `json:"mean_tick_us"`
	MaxTick   float64   `json:"max_tick_us"`
	WallClock float64   `json:"wall_clock_s"`
	History   []float64 `json:"history"`
}

func NewRun(rate int, p *metrics.Population, wall time.Duration) Run {
	return Run{
		Rate:      rate,
		Ticks:     p.Ticks,
		Peak:      p.Peak,
		Final:     p.Last.Live,
		Spawned:   p.Spawned,
		Culled:    p.Culled,
		Dropped:   p.Dropped,
		MeanTick:  micros(p.MeanElapsed()),
		MaxTick:   micros(p.MaxElapsed),
		WallClock: wall.Seconds(),
		History:   p.History(),
	}
}

func micros(d time.Duration) float64 {
	return float64(d) / float64(time.Microsecond)
}

func WriteJSON(path string, r *Report) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return EncodeJSON(file, r)
}

func EncodeJSON(w io.Writer, r *Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}
