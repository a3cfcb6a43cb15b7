// Package export serializes recorded simulation runs into tabular CSV,
// a structured JSON document, or a short human-readable summary.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"text/tabwriter"

	"pendlab/internal/sim"
)

// WriteCSV emits one row per recorded step: time, per-body position
// x/y/z and velocity x/y/z, the three energies, and per-body
// angle/angular-velocity pairs when the run recorded phase data.
func WriteCSV(w io.Writer, data *sim.ExportData) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"time"}
	for i := 0; i < data.Bodies; i++ {
		header = append(header,
			fmt.Sprintf("px%d", i), fmt.Sprintf("py%d", i), fmt.Sprintf("pz%d", i),
			fmt.Sprintf("vx%d", i), fmt.Sprintf("vy%d", i), fmt.Sprintf("vz%d", i),
		)
	}
	header = append(header, "kinetic", "potential", "total")

	hasPhase := len(data.Phase) == data.Steps && data.Steps > 0
	if hasPhase {
		for i := 0; i < data.Bodies; i++ {
			header = append(header, fmt.Sprintf("theta%d", i), fmt.Sprintf("omega%d", i))
		}
	}

	if err := cw.Write(header); err != nil {
		return err
	}

	row := make([]string, 0, len(header))
	for i := 0; i < data.Steps; i++ {
		row = append(row[:0], fmtF(data.Times[i]))
		for b := 0; b < data.Bodies; b++ {
			p := data.Positions[i][b]
			v := data.Velocities[i][b]
			row = append(row, fmtF(p.X), fmtF(p.Y), fmtF(p.Z), fmtF(v.X), fmtF(v.Y), fmtF(v.Z))
		}
		row = append(row, fmtF(data.Kinetic[i]), fmtF(data.Potential[i]), fmtF(data.Total[i]))
		if hasPhase {
			for _, pt := range data.Phase[i] {
				row = append(row, fmtF(pt.Angle), fmtF(pt.Velocity))
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func fmtF(v float64) string {
	return strconv.FormatFloat(v, 'g', 9, 64)
}

// WriteJSON emits the export snapshot as an indented JSON document
// mirroring the CSV fields.
func WriteJSON(w io.Writer, data *sim.ExportData) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// WriteSummary prints the scalar run parameters as an aligned table.
func WriteSummary(w io.Writer, data *sim.ExportData) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "model\t%s\n", data.Model)
	fmt.Fprintf(tw, "bodies\t%d\n", data.Bodies)
	fmt.Fprintf(tw, "dt\t%.6f\n", data.FixedDt)
	fmt.Fprintf(tw, "steps\t%d\n", data.Steps)
	if data.Steps > 0 {
		fmt.Fprintf(tw, "duration\t%.3fs\n", data.Times[data.Steps-1]-data.Times[0]+data.FixedDt)
	}

	keys := make([]string, 0, len(data.Params))
	for k := range data.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(tw, "%s\t%g\n", k, data.Params[k])
	}

	return tw.Flush()
}
