package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, text string) (path string) {
	path = filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(text), 0644))
	return
}

func TestRunScenario(t *testing.T) {
	path := writeScenario(t, `
Title: Small Case
Nx: 5
Ny: 5
GeoModel: layered
Seed: 3
MaxSteps: 4
Wells:
  - {I: 0, J: 0, Type: injector, Rate: 100}
  - {I: 4, J: 4, Type: producer, Rate: 100}
`)
	outDir := t.TempDir()
	var buf bytes.Buffer
	ro := &RunOptions{ScenarioFile: path, PlotSteps: 2, OutDir: outDir}
	require.NoError(t, RunScenario(context.Background(), ro, &buf))
	out := buf.String()
	assert.Contains(t, out, "Max|dSw|")
	assert.Contains(t, out, "Produced")
	assert.Contains(t, out, "recovery")
	// Header, four steps and the summary
	var rows int
	for _, line := range strings.Split(out, "\n") {
		if f := strings.Fields(line); len(f) == 8 && f[0] != "Step" {
			rows++
		}
	}
	assert.Equal(t, 4, rows)
	{ // One run directory holding images from steps 2 and 4 and the charts
		entries, err := os.ReadDir(outDir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		runDir := filepath.Join(outDir, entries[0].Name())
		for _, name := range []string{"pressure_000002.png", "saturation_000004.png", "avg_pressure.png", "avg_sw.png", "recovery.png"} {
			_, err = os.Stat(filepath.Join(runDir, name))
			assert.NoError(t, err, name)
		}
		_, err = os.Stat(filepath.Join(runDir, "pressure_000003.png"))
		assert.True(t, os.IsNotExist(err))
	}
}

func TestRunScenarioOverridesAndErrors(t *testing.T) {
	{ // The step flag wins over the scenario and defaults are used without a file
		var buf bytes.Buffer
		require.NoError(t, RunScenario(context.Background(), &RunOptions{MaxSteps: 2}, &buf))
		assert.Contains(t, buf.String(), "2 steps")
	}
	{ // A cancelled run still reports
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		var buf bytes.Buffer
		require.NoError(t, RunScenario(ctx, &RunOptions{MaxSteps: 100}, &buf))
		assert.Contains(t, buf.String(), "Produced")
	}
	{ // Bad inputs are reported, not run
		var buf bytes.Buffer
		path := writeScenario(t, "Nx: -1\nMuW: 0\n")
		err := RunScenario(context.Background(), &RunOptions{ScenarioFile: path}, &buf)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "MuW")
		err = RunScenario(context.Background(), &RunOptions{MaxSteps: 1, Profile: "gpu"}, &buf)
		assert.Error(t, err)
		err = RunScenario(context.Background(), &RunOptions{ScenarioFile: "missing.yaml"}, &buf)
		assert.Error(t, err)
	}
}

func TestExampleCommand(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"example"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "Nx: 20")
	assert.Contains(t, buf.String(), "Wells:")
	{ // The example is a valid scenario
		path := writeScenario(t, buf.String())
		var out bytes.Buffer
		require.NoError(t, RunScenario(context.Background(), &RunOptions{ScenarioFile: path, MaxSteps: 1}, &out))
	}
}
