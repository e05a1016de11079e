package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"ticksched/internal/analysis"
	"ticksched/internal/job"
	"ticksched/internal/sched"
)

var (
	configPath string
	duration   time.Duration
	csvPath    string
	horizonMs  uint32
)

func main() {
	root := &cobra.Command{
		Use:   "ticksched",
		Short: "Time-triggered cooperative scheduling demo",
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yml", "path to config file")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Drive the schedulers off a wall-clock tick for a while",
		RunE:  runSchedulers,
	}
	runCmd.Flags().DurationVarP(&duration, "duration", "d", 2*time.Second, "how long to run")
	runCmd.Flags().StringVar(&csvPath, "csv", "", "write dispatch events to this CSV file")

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "Check the configured task set against its timing budget",
		RunE:  analyzeTasks,
	}
	analyzeCmd.Flags().Uint32Var(&horizonMs, "horizon", 100, "timeline horizon in milliseconds")

	root.AddCommand(runCmd, analyzeCmd)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() zerolog.Logger {
	out := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05.000"}
	return zerolog.New(out).Level(zerolog.DebugLevel).With().Timestamp().Logger()
}

func runSchedulers(cmd *cobra.Command, args []string) error {
	cfg := sched.Load(configPath)
	log := newLogger()
	log.Info().
		Int("tick_ms", cfg.TickMS).
		Int("max_tasks", cfg.MaxTasks).
		Int("slots", cfg.SlotsPerCycle).
		Msg("config loaded")

	ce := sched.NewCyclicExecutive(cfg.MaxTasks)
	ts := sched.NewTimeSlotScheduler(cfg.SlotsPerCycle, cfg.MaxTasksPerSlot, uint32(cfg.SlotDurationMS))

	var csvWriter *csv.Writer
	if csvPath != "" {
		f, err := os.Create(csvPath)
		if err != nil {
			return fmt.Errorf("create csv log: %w", err)
		}
		defer f.Close()
		csvWriter = csv.NewWriter(f)
		csvWriter.Write([]string{"time_ms", "event", "task", "slot", "runs"})
		defer csvWriter.Flush()
	}

	observer := func(source string) func(sched.Event) {
		return func(ev sched.Event) {
			log.Debug().
				Str("scheduler", source).
				Str("event", ev.Kind.String()).
				Str("task", ev.Task).
				Uint32("time_ms", ev.TimeMs).
				Int("slot", ev.Slot).
				Msg("dispatch")
			if csvWriter != nil {
				csvWriter.Write([]string{
					strconv.FormatUint(uint64(ev.TimeMs), 10),
					ev.Kind.String(),
					ev.Task,
					strconv.Itoa(ev.Slot),
					strconv.FormatUint(uint64(ev.RunCount), 10),
				})
			}
		}
	}
	ce.SetObserver(observer("cyclic"))
	ts.SetObserver(observer("timeslot"))

	tasks := make([]*job.CounterTask, 0, len(cfg.Tasks))
	for _, tc := range cfg.Tasks {
		t := job.NewCounterTask(tc.Name)
		if !ce.AddTask(t, uint32(tc.PeriodMS)) {
			log.Warn().Str("task", tc.Name).Msg("cyclic executive full, task skipped")
			continue
		}
		tasks = append(tasks, t)
		if !ts.AddTaskToSlot(tc.Slot, t) {
			log.Warn().Str("task", tc.Name).Int("slot", tc.Slot).Msg("slot rejected task")
		}
	}

	clock := sched.NewTickClock(256, ce, ts)
	clock.Start(time.Duration(cfg.TickMS) * time.Millisecond)

	deadline := time.After(duration)
loop:
	for {
		select {
		case <-clock.Ch:
			ce.Run()
			ts.Run()
		case <-deadline:
			clock.Stop()
			break loop
		}
	}

	for i, t := range tasks {
		log.Info().
			Str("task", t.Name()).
			Int("count", t.Count()).
			Uint32("cyclic_runs", ce.TaskRunCount(i)).
			Msg("summary")
	}
	return nil
}

func analyzeTasks(cmd *cobra.Command, args []string) error {
	cfg := sched.Load(configPath)
	if len(cfg.Tasks) == 0 {
		return fmt.Errorf("no tasks in %s", configPath)
	}

	specs := make([]analysis.TaskSpec, 0, len(cfg.Tasks))
	for _, tc := range cfg.Tasks {
		specs = append(specs, analysis.TaskSpec{
			Name:     tc.Name,
			PeriodMs: uint32(tc.PeriodMS),
			WCETUs:   uint32(tc.WCETUS),
		})
	}

	u := analysis.Utilization(specs)
	fmt.Printf("tasks: %d  utilization: %.4f  feasible: %v\n",
		len(specs), u, analysis.Feasible(specs))

	for _, d := range analysis.Timeline(specs, horizonMs) {
		fmt.Printf("%6d ms  %s\n", d.TimeMs, d.Task)
	}
	return nil
}
