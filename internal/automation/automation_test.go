package automation

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/sixdof/internal/config"
	"github.com/san-kum/sixdof/internal/joint"
	"github.com/san-kum/sixdof/internal/scenario"
)

const script = `name: smoke
description: slider sweep then weld settle
steps:
  - preset: slider
    kind: sweep
    axis: linear-x
    from: -2
    to: 2
    samples: 5
  - preset: weld
    kind: settle
    method: sequential
    steps: 10
`

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestRunScript(t *testing.T) {
	s, err := LoadScript(writeScript(t, script))
	require.NoError(t, err)
	assert.Equal(t, "smoke", s.Name)
	require.Len(t, s.Steps, 2)

	results, err := RunScript(context.Background(), s, config.DefaultAppConfig().Solver, nil)
	require.NoError(t, err)
	require.Len(t, results, 2)

	sweep := results[0]
	assert.Equal(t, "slider", sweep.Joint.Name)
	assert.Equal(t, 5, sweep.Result.Steps)
	assert.Equal(t, joint.AtLow, sweep.Result.Samples[0].Status[joint.LinearX].State)
	assert.Equal(t, joint.AtHigh, sweep.Result.Samples[4].Status[joint.LinearX].State)
	assert.Contains(t, sweep.Result.Metrics, "final_error")

	settle := results[1]
	assert.Equal(t, scenario.MethodSequential, settle.Config.Method)
	assert.Equal(t, 10, settle.Result.Steps)
	assert.Less(t, settle.Result.Metrics["energy"], 1e-6)
}

func TestRunScriptStopsOnFailure(t *testing.T) {
	s := &Script{Steps: []Step{
		{Preset: "ball", Kind: KindSettle, Steps: 2},
		{Preset: "ball", Kind: "spin"},
		{Preset: "ball", Kind: KindSettle, Steps: 2},
	}}
	results, err := RunScript(context.Background(), s, config.DefaultAppConfig().Solver, nil)
	assert.ErrorIs(t, err, ErrStep)
	assert.Contains(t, err.Error(), "step 2")
	assert.Len(t, results, 1)
}

func TestRunScriptBadInputs(t *testing.T) {
	solver := config.DefaultAppConfig().Solver
	cases := []Step{
		{Preset: "nope", Kind: KindSettle, Steps: 1},
		{Preset: "hinge", Kind: KindSettle, Method: "magic", Steps: 1},
		{Preset: "hinge", Kind: KindSweep, Axis: "sideways"},
		{Preset: "hinge", Kind: KindSettle, Steps: 0},
	}
	for _, c := range cases {
		_, err := RunScript(context.Background(), &Script{Steps: []Step{c}}, solver, nil)
		assert.Error(t, err, "%+v", c)
	}
}

func TestLoadScriptErrors(t *testing.T) {
	_, err := LoadScript(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
	_, err = LoadScript(writeScript(t, "steps: [unclosed"))
	assert.Error(t, err)
}
