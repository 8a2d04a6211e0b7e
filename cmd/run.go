/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/resim/InputParameters"
	"github.com/notargets/resim/model_problems/BlackOil2D"
	"github.com/notargets/resim/utils"
)

type RunOptions struct {
	ScenarioFile string
	MaxSteps     int           // Overrides the scenario when positive
	Interval     time.Duration // Wall clock time between steps
	PlotSteps    int           // Steps between field images, zero disables them
	OutDir       string
	Watch        bool
	Profile      string
	Verbose      bool
}

// RunCmd represents the run command
var RunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a reservoir scenario",
	Long: `
Runs a scenario to its final time or step limit, printing one line per step.
Field images and history charts are written below outDir, in a directory
named for the run. With --watch the scenario file is reloaded when it
changes, a new grid or geology restarts the run, other changes apply to the
next step.

resim run -I scenario.yaml --plotSteps 10`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		ro := &RunOptions{
			MaxSteps:  viper.GetInt("steps"),
			Interval:  viper.GetDuration("interval"),
			PlotSteps: viper.GetInt("plotSteps"),
			OutDir:    viper.GetString("outDir"),
			Watch:     viper.GetBool("watch"),
			Profile:   viper.GetString("profile"),
			Verbose:   viper.GetBool("verbose"),
		}
		if ro.ScenarioFile, err = cmd.Flags().GetString("inputConditionsFile"); err != nil {
			return
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		return RunScenario(ctx, ro, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(RunCmd)
	RunCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML scenario file, see \"resim example\", defaults are used without one")
	RunCmd.Flags().IntP("steps", "n", 0, "stop after this many steps, overriding MaxSteps in the scenario")
	RunCmd.Flags().DurationP("interval", "d", 0, "wall clock delay between steps, zero steps as fast as possible")
	RunCmd.Flags().IntP("plotSteps", "s", 0, "number of steps between field images, zero for none")
	RunCmd.Flags().StringP("outDir", "o", "", "directory for images and charts, nothing is written without one")
	RunCmd.Flags().BoolP("watch", "w", false, "reload the scenario file when it changes")
	RunCmd.Flags().String("profile", "", "write a cpu or mem profile into the run directory")
	bindFlags(RunCmd.Flags())
}

func RunScenario(ctx context.Context, ro *RunOptions, out io.Writer) (err error) {
	var (
		ip     = InputParameters.NewInputParameters()
		runID  = uuid.NewString()
		runDir string
		level  = slog.LevelInfo
	)
	if ro.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})).With("run", runID)
	if len(ro.ScenarioFile) != 0 {
		if ip, err = InputParameters.ReadFile(ro.ScenarioFile); err != nil {
			return
		}
	} else {
		logger.Info("no scenario file given, using the default scenario")
	}
	if ro.MaxSteps > 0 {
		ip.MaxSteps = ro.MaxSteps
	}
	if err = ip.Validate(); err != nil {
		return
	}
	ip.Print()
	if len(ro.OutDir) != 0 {
		runDir = filepath.Join(ro.OutDir, runID)
		if err = os.MkdirAll(runDir, 0755); err != nil {
			return
		}
	}
	switch ro.Profile {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(profileDir(runDir)), profile.Quiet).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath(profileDir(runDir)), profile.Quiet).Stop()
	default:
		return fmt.Errorf("unknown profile %q, must be cpu or mem", ro.Profile)
	}

	var c *BlackOil2D.Engine
	if c, err = BlackOil2D.NewEngine(ip.ToConfig(), nil); err != nil {
		return
	}
	c.Logger = logger
	interval := ro.Interval
	if interval <= 0 {
		interval = time.Microsecond
	}
	r := NewScenarioRunner(c, ip, interval)
	pt := &progressTable{w: out}
	pt.header()
	r.OnStep(func(s BlackOil2D.Snapshot) {
		pt.row(s)
		if len(runDir) != 0 && ro.PlotSteps > 0 && s.Step%ro.PlotSteps == 0 {
			if _, perr := BlackOil2D.WriteSnapshotPNGs(runDir, c.Grid, s, c.Wells()); perr != nil {
				logger.Error("unable to write field images", "step", s.Step, "error", perr)
			}
		}
	})
	r.OnReset(func(s BlackOil2D.Snapshot) {
		logger.Info("scenario restarted", "nx", c.Grid.Nx, "ny", c.Grid.Ny, "ooip", s.OOIP)
		pt.header()
	})
	if ro.Watch && len(ro.ScenarioFile) != 0 {
		var watcher *fsnotify.Watcher
		if watcher, err = watchScenario(ctx, ro.ScenarioFile, r, logger); err != nil {
			return
		}
		defer watcher.Close()
	}

	start := time.Now()
	r.Play()
	if err = r.Run(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			return
		}
		logger.Info("run interrupted", "step", c.Steps, "time", c.Time)
		err = nil
	}
	if len(runDir) != 0 {
		var files []string
		if files, err = BlackOil2D.WriteHistoryPNGs(runDir, r.History().Samples()); err != nil {
			return
		}
		logger.Info("charts written", "dir", runDir, "files", len(files))
	}
	summary(out, c, time.Since(start))
	return
}

// NewScenarioRunner drives c to the scenario limits. The run continues
// through a restart caused by a reloaded scenario.
func NewScenarioRunner(c *BlackOil2D.Engine, ip *InputParameters.InputParameters, interval time.Duration) (r *BlackOil2D.Runner) {
	r = BlackOil2D.NewRunner(c, interval)
	r.FinalTime = ip.FinalTime
	r.MaxSteps = ip.MaxSteps
	r.PauseOnReset = false
	return
}

func profileDir(runDir string) string {
	if len(runDir) == 0 {
		return "."
	}
	return runDir
}

// watchScenario reapplies the scenario file to r whenever it is written
func watchScenario(ctx context.Context, path string, r *BlackOil2D.Runner, logger *slog.Logger) (watcher *fsnotify.Watcher, err error) {
	if watcher, err = fsnotify.NewWatcher(); err != nil {
		return
	}
	if err = watcher.Add(path); err != nil {
		watcher.Close()
		return nil, err
	}
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Op&fsnotify.Write == 0 {
					continue
				}
				ip, err := InputParameters.ReadFile(path)
				if err == nil {
					err = ip.Validate()
				}
				if err != nil {
					logger.Error("scenario reload rejected", "file", path, "error", err)
					continue
				}
				logger.Info("scenario reloaded", "file", path)
				r.ApplyConfig(ip.ToConfig())
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Error("watching scenario", "error", err)
			}
		}
	}()
	return
}

type progressTable struct {
	w io.Writer
}

func (pt *progressTable) header() {
	fmt.Fprintf(pt.w, "%6s %10s %8s %6s %10s %10s %8s %8s\n",
		"Step", "Time", "Dt", "Sweeps", "Max|dSw|", "Avg P", "Avg Sw", "RF%")
}

func (pt *progressTable) row(s BlackOil2D.Snapshot) {
	conv := " "
	if !s.Solve.Converged {
		conv = "*"
	}
	fmt.Fprintf(pt.w, "%6d %10.3f %8.4f %5d%s %10.3e %10.2f %8.5f %8.4f\n",
		s.Step, s.Time, s.Dt, s.Solve.Iterations, conv, s.MaxDeltaSw, s.AvgPressure, s.AvgSw, s.RecoveryFactor)
}

func summary(w io.Writer, c *BlackOil2D.Engine, elapsed time.Duration) {
	s := c.Snapshot()
	mb := c.Balance
	fmt.Fprintf(w, "\nProduced %s STB of oil from %s STB in place, recovery %.2f%%\n",
		humanize.Comma(int64(mb.CumulativeOil)), humanize.Comma(int64(mb.OOIP)), s.RecoveryFactor)
	fmt.Fprintf(w, "Water injected %s STB, produced %s STB, final water cut %.3f\n",
		humanize.Comma(int64(mb.CumulativeWaterInjected)), humanize.Comma(int64(mb.CumulativeWaterProduced)), s.WaterCut)
	fmt.Fprintf(w, "%s steps to %.2f days in %v, %s\n",
		humanize.Comma(int64(s.Step)), s.Time, elapsed.Round(time.Millisecond), utils.GetMemUsage())
}
