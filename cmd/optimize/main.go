// Command optimize searches for simulation parameters under which
// populations keep evolving, using CMA-ES over headless worlds.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/aipop/config"
)

type options struct {
	configPath string
	maxTicks   int64
	seeds      int
	maxEvals   int
	population int
	outputDir  string
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "Base config YAML file (empty = use defaults)")
	flag.Int64Var(&opts.maxTicks, "max-ticks", 216000, "Simulation duration in ticks per run")
	flag.IntVar(&opts.seeds, "seeds", 3, "Number of seeds per evaluation")
	flag.IntVar(&opts.maxEvals, "max-evals", 200, "Maximum number of evaluations")
	flag.IntVar(&opts.population, "population", 0, "CMA-ES population size (0 = auto)")
	flag.StringVar(&opts.outputDir, "output", "", "Output directory for results")
	flag.Parse()

	// World progress logs would drown the progress lines.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	if err := run(opts); err != nil {
		log.Fatal(err)
	}
}

func run(opts options) error {
	switch {
	case opts.outputDir == "":
		return errors.New("--output is required")
	case opts.seeds < 1:
		return errors.New("--seeds must be positive")
	}
	if err := os.MkdirAll(opts.outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := config.Init(opts.configPath); err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	baseCfg := config.Cfg()

	params := NewParamVector()
	seeds := make([]uint64, opts.seeds)
	for i := range seeds {
		seeds[i] = uint64(i*1000 + 42)
	}
	evaluator := NewFitnessEvaluator(params, opts.maxTicks, seeds, baseCfg)

	logFile, err := os.Create(filepath.Join(opts.outputDir, "optimize_log.csv"))
	if err != nil {
		return fmt.Errorf("create log: %w", err)
	}
	defer logFile.Close()
	prog := newProgress(logFile, os.Stdout, params, opts.maxEvals)

	popSize := opts.population
	if popSize == 0 {
		popSize = 4 + 3*params.Dim()/2
	}
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			used := params.Clamp(params.Denormalize(x))
			fitness := evaluator.Evaluate(used)
			prog.record(used, fitness, evaluator.LastQuality())
			return fitness
		},
	}
	settings := &optimize.Settings{FuncEvaluations: opts.maxEvals}
	method := &optimize.CmaEsChol{InitStepSize: 0.3, Population: popSize}
	initX := params.Normalize(params.Clamp(params.ExtractFromConfig(baseCfg)))

	fmt.Printf("CMA-ES over %d parameters, population=%d, max_evals=%d, seeds=%d, ticks=%d\n",
		params.Dim(), popSize, opts.maxEvals, opts.seeds, opts.maxTicks)

	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}
	if err := prog.err(); err != nil {
		return fmt.Errorf("write log: %w", err)
	}

	best := prog.best
	if best == nil && result != nil {
		best = params.Clamp(params.Denormalize(result.X))
	}
	if best == nil {
		return errors.New("no evaluation completed")
	}
	prog.summary(os.Stdout)

	return writeResults(opts, params, best, evaluator)
}

// writeResults saves the best config and the telemetry of its best seed.
func writeResults(opts options, params *ParamVector, best []float64, evaluator *FitnessEvaluator) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("reload config: %w", err)
	}
	params.ApplyToConfig(cfg, best)
	cfgPath := filepath.Join(opts.outputDir, "best_config.yaml")
	if err := cfg.WriteYAML(cfgPath); err != nil {
		return fmt.Errorf("write best config: %w", err)
	}
	fmt.Printf("Best config saved to %s\n", cfgPath)

	windows := evaluator.BestWindows()
	if len(windows) == 0 {
		return nil
	}
	path := filepath.Join(opts.outputDir, "best_telemetry.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create best telemetry: %w", err)
	}
	defer f.Close()
	if err := gocsv.MarshalFile(&windows, f); err != nil {
		return fmt.Errorf("write best telemetry: %w", err)
	}
	fmt.Printf("Best run telemetry saved to %s\n", path)
	return nil
}
