package storage

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"pendlab/internal/models"
	"pendlab/internal/sim"
)

func sampleExport(t *testing.T) *sim.ExportData {
	t.Helper()
	m, err := models.NewSimplePendulum(models.SimplePendulumConfig{InitialAngle: 0.5})
	require.NoError(t, err)
	s, err := sim.New(m, nil)
	require.NoError(t, err)

	s.SetRecording(true)
	for i := 0; i < 30; i++ {
		s.Step(0)
	}
	return s.Export()
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	id, err := st.Save(sampleExport(t))
	require.NoError(t, err)
	require.Contains(t, id, "simple_")

	meta, err := st.Load(id)
	require.NoError(t, err)
	require.Equal(t, "simple", meta.Model)
	require.Equal(t, 30, meta.Steps)
	require.Equal(t, 1, meta.Bodies)
	require.InDelta(t, 9.81, meta.Params["gravity"], 1e-12)
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	runs, err := st.List()
	require.NoError(t, err)
	require.Empty(t, runs)

	_, err = st.Save(sampleExport(t))
	require.NoError(t, err)

	runs, err = st.List()
	require.NoError(t, err)
	require.Len(t, runs, 1)
}

func TestStoreListMissingDir(t *testing.T) {
	st := New("/nonexistent/pendlab-test")
	runs, err := st.List()
	require.NoError(t, err)
	require.Empty(t, runs)
}

func TestStoreWriteRunJSON(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	id, err := st.Save(sampleExport(t))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, st.WriteRunJSON(&buf, id))

	var doc struct {
		Metadata RunMetadata          `json:"metadata"`
		Series   map[string][]float64 `json:"series"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	require.Equal(t, id, doc.Metadata.ID)
	require.Len(t, doc.Series["time"], 30)
	require.Contains(t, doc.Series, "total")
}

func TestStoreLoadSeries(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	data := sampleExport(t)
	id, err := st.Save(data)
	require.NoError(t, err)

	header, cols, err := st.LoadSeries(id)
	require.NoError(t, err)
	require.Equal(t, "time", header[0])
	require.Len(t, cols, len(header))
	require.Len(t, cols[0], 30)

	// Round-trip fidelity on the time column.
	for i, want := range data.Times {
		require.InDelta(t, want, cols[0][i], 1e-9)
	}
}
