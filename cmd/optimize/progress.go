package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"
	"time"
)

// progress logs every evaluation as a CSV row and prints a status line
// with an ETA. It keeps the lowest-fitness parameters seen.
type progress struct {
	w        *csv.Writer
	out      io.Writer
	params   *ParamVector
	maxEvals int
	start    time.Time
	now      func() time.Time

	evals       int
	bestFitness float64
	best        []float64
}

func newProgress(csvOut, statusOut io.Writer, params *ParamVector, maxEvals int) *progress {
	p := &progress{
		w:        csv.NewWriter(csvOut),
		out:      statusOut,
		params:   params,
		maxEvals: maxEvals,
		now:      time.Now,
	}
	p.start = p.now()

	header := []string{"eval", "fitness"}
	for _, s := range params.Specs {
		header = append(header, s.Name)
	}
	p.w.Write(header)
	p.w.Flush()
	return p
}

// record logs one evaluation of the clamped parameter values.
func (p *progress) record(values []float64, fitness, quality float64) {
	p.evals++
	if p.best == nil || fitness < p.bestFitness {
		p.bestFitness = fitness
		p.best = slices.Clone(values)
	}

	row := []string{strconv.Itoa(p.evals), strconv.FormatFloat(fitness, 'f', 6, 64)}
	for _, v := range values {
		row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
	}
	p.w.Write(row)
	p.w.Flush()

	elapsed := p.now().Sub(p.start)
	eta := time.Duration(p.maxEvals-p.evals) * (elapsed / time.Duration(p.evals))
	// fitness = -(generations * completion * (1 + 0.5*quality))
	generations := -fitness / (1 + 0.5*quality)
	fmt.Fprintf(p.out, "Eval %d/%d: generations=%.1f quality=%.2f (best=%.1f) | elapsed %s, ETA %s\n",
		p.evals, p.maxEvals, generations, quality, -p.bestFitness,
		formatDuration(elapsed), formatDuration(eta))
}

func (p *progress) err() error {
	return p.w.Error()
}

// summary prints the best parameters found.
func (p *progress) summary(out io.Writer) {
	fmt.Fprintf(out, "\n%d evaluations in %s, best fitness %.2f\n",
		p.evals, formatDuration(p.now().Sub(p.start)), p.bestFitness)
	for i, s := range p.params.Specs {
		fmt.Fprintf(out, "  %s: %.6f\n", s.Name, p.best[i])
	}
}

// formatDuration formats d as 1h02m03s, or 2m03s under an hour.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}
