package storage

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/sixdof/internal/config"
)

func TestExportJSON(t *testing.T) {
	s := New(t.TempDir())
	jc := config.GetPreset("slider")
	id, err := s.Save(RunMetadata{Kind: "sweep", Joint: jc.Name}, jc, sweepResult(t, jc))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, s.ExportJSON(&buf, id, true))

	var data ExportData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &data))
	assert.Equal(t, id, data.ID)
	assert.Equal(t, "sweep", data.Kind)
	assert.Equal(t, Columns(), data.Columns)
	assert.Len(t, data.Samples, 5)

	buf.Reset()
	require.NoError(t, s.ExportJSON(&buf, id, false))
	data = ExportData{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &data))
	assert.Equal(t, id, data.ID)
	assert.Nil(t, data.Samples)
}

func TestExportJSONNotFound(t *testing.T) {
	var buf bytes.Buffer
	err := New(t.TempDir()).ExportJSON(&buf, "missing", true)
	assert.True(t, errors.Is(err, ErrNotFound))
}
