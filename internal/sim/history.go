package sim

import "pendlab/internal/dynamo"

// History bounds. When the buffers reach maxSamples they are truncated
// from the front down to trimTo, so trimming stays infrequent and the
// amortized cost per step is O(1). ~20 seconds at 240 Hz before the
// first trim.
const (
	maxSamples = 4800
	trimTo     = 3600
)

// history holds the parallel recording series. All slices always have
// equal length.
type history struct {
	times      []float64
	positions  [][]dynamo.Vec3
	velocities [][]dynamo.Vec3
	kinetic    []float64
	potential  []float64
	total      []float64
	phase      [][]dynamo.PhasePoint // nil when the model has no phase output
}

func newHistory() *history {
	return &history{}
}

func (h *history) reset() {
	h.times = h.times[:0]
	h.positions = h.positions[:0]
	h.velocities = h.velocities[:0]
	h.kinetic = h.kinetic[:0]
	h.potential = h.potential[:0]
	h.total = h.total[:0]
	h.phase = h.phase[:0]
}

func (h *history) append(t float64, pos, vel []dynamo.Vec3, e dynamo.EnergyState, phase []dynamo.PhasePoint) {
	if len(h.times) >= maxSamples {
		h.trim()
	}

	h.times = append(h.times, t)
	h.positions = append(h.positions, append([]dynamo.Vec3(nil), pos...))
	h.velocities = append(h.velocities, append([]dynamo.Vec3(nil), vel...))
	h.kinetic = append(h.kinetic, e.Kinetic)
	h.potential = append(h.potential, e.Potential)
	h.total = append(h.total, e.Total)
	if phase != nil {
		h.phase = append(h.phase, append([]dynamo.PhasePoint(nil), phase...))
	}
}

// trim drops the oldest samples, retaining trimTo entries.
func (h *history) trim() {
	drop := len(h.times) - trimTo
	if drop <= 0 {
		return
	}

	h.times = append(h.times[:0], h.times[drop:]...)
	h.positions = append(h.positions[:0], h.positions[drop:]...)
	h.velocities = append(h.velocities[:0], h.velocities[drop:]...)
	h.kinetic = append(h.kinetic[:0], h.kinetic[drop:]...)
	h.potential = append(h.potential[:0], h.potential[drop:]...)
	h.total = append(h.total[:0], h.total[drop:]...)
	if len(h.phase) > drop {
		h.phase = append(h.phase[:0], h.phase[drop:]...)
	}
}

// ExportData is an immutable snapshot of one recorded run: metadata,
// the parameter set in effect, and the full history series.
type ExportData struct {
	Model   string             `json:"model"`
	Params  map[string]float64 `json:"params"`
	FixedDt float64            `json:"fixed_dt"`
	Bodies  int                `json:"bodies"`
	Steps   int                `json:"steps"`

	Times      []float64             `json:"times"`
	Positions  [][]dynamo.Vec3       `json:"positions"`
	Velocities [][]dynamo.Vec3       `json:"velocities"`
	Kinetic    []float64             `json:"kinetic"`
	Potential  []float64             `json:"potential"`
	Total      []float64             `json:"total"`
	Phase      [][]dynamo.PhasePoint `json:"phase,omitempty"`
}

func (h *history) export(model dynamo.Model) *ExportData {
	n := len(h.times)

	data := &ExportData{
		Model:      model.Name(),
		Params:     model.Params(),
		FixedDt:    model.FixedDt(),
		Bodies:     model.Bodies(),
		Steps:      n,
		Times:      append([]float64(nil), h.times...),
		Positions:  make([][]dynamo.Vec3, n),
		Velocities: make([][]dynamo.Vec3, n),
		Kinetic:    append([]float64(nil), h.kinetic...),
		Potential:  append([]float64(nil), h.potential...),
		Total:      append([]float64(nil), h.total...),
	}
	for i := 0; i < n; i++ {
		data.Positions[i] = append([]dynamo.Vec3(nil), h.positions[i]...)
		data.Velocities[i] = append([]dynamo.Vec3(nil), h.velocities[i]...)
	}
	if len(h.phase) == n && n > 0 {
		data.Phase = make([][]dynamo.PhasePoint, n)
		for i := 0; i < n; i++ {
			data.Phase[i] = append([]dynamo.PhasePoint(nil), h.phase[i]...)
		}
	}
	return data
}
