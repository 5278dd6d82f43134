// SPDX-License-Identifier: GPL-3.0-or-later

package module

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/netdata/openvpnstatus.plugin/agent/netdataapi"
	"github.com/netdata/openvpnstatus.plugin/logger"
)

var obsoleteCharts = true

// DontObsoleteCharts changes shouldObsoleteCharts() behavior.
// Use it when jobs are about to be restarted and the charts should keep their history.
func DontObsoleteCharts() {
	obsoleteCharts = false
}

func shouldObsoleteCharts() bool {
	return obsoleteCharts
}

const (
	penaltyStep = 5
	maxPenalty  = 600
)

func newRuntimeChart(pluginName string) *Chart {
	return &Chart{
		typ:      "netdata",
		Title:    "Execution time",
		Units:    "ms",
		Fam:      pluginName,
		Ctx:      "netdata.plugin_execution_time",
		Priority: 145000,
		Dims: Dims{
			{ID: "time"},
		},
	}
}

// JobConfig is a Job configuration.
type JobConfig struct {
	PluginName  string
	Name        string
	ModuleName  string
	FullName    string
	Module      Module
	Out         io.Writer
	UpdateEvery int
	Priority    int
}

// NewJob returns a new Job.
func NewJob(cfg JobConfig) *Job {
	var buf bytes.Buffer

	if cfg.UpdateEvery == 0 {
		cfg.UpdateEvery = 1
	}

	j := &Job{
		pluginName:  cfg.PluginName,
		name:        cfg.Name,
		moduleName:  cfg.ModuleName,
		fullName:    cfg.FullName,
		updateEvery: cfg.UpdateEvery,
		priority:    cfg.Priority,
		module:      cfg.Module,
		out:         cfg.Out,
		runChart:    newRuntimeChart(cfg.PluginName),
		stop:        make(chan struct{}),
		tick:        make(chan int),
		buf:         &buf,
		api:         netdataapi.New(&buf),
	}

	log := logger.New().With(
		slog.String("collector", j.ModuleName()),
		slog.String("job", j.Name()),
	)

	j.Logger = log
	if j.module != nil {
		j.module.GetBase().Logger = log
	}

	return j
}

// Job represents a job. It's a module wrapper.
type Job struct {
	pluginName string
	name       string
	moduleName string
	fullName   string

	updateEvery int
	priority    int

	*logger.Logger

	module Module

	initialized bool
	panicked    bool

	runChart *Chart
	charts   *Charts
	tick     chan int
	out      io.Writer
	buf      *bytes.Buffer
	api      *netdataapi.API

	retries int
	prevRun time.Time

	stop chan struct{}
}

// FullName returns job full name.
func (j *Job) FullName() string {
	return j.fullName
}

// ModuleName returns job module name.
func (j *Job) ModuleName() string {
	return j.moduleName
}

// Name returns job name.
func (j *Job) Name() string {
	return j.name
}

// Panicked returns 'panicked' flag value.
func (j *Job) Panicked() bool {
	return j.panicked
}

// Configuration returns the underlying module configuration.
func (j *Job) Configuration() any {
	return j.module.Configuration()
}

// AutoDetection invokes init, check and postCheck. It handles panic.
func (j *Job) AutoDetection() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic %v", r)
			j.panicked = true
			if logger.Level.Enabled(slog.LevelDebug) {
				j.Errorf("STACK: %s", debug.Stack())
			}
		}
		if err != nil {
			j.module.Cleanup(context.Background())
		}
	}()

	if err = j.init(); err != nil {
		j.Errorf("init failed: %v", err)
		return err
	}

	if err = j.check(); err != nil {
		j.Errorf("check failed: %v", err)
		return err
	}

	j.Info("check success")

	if err = j.postCheck(); err != nil {
		j.Errorf("post check failed: %v", err)
		return err
	}

	return nil
}

// Tick 'ticks' the job, a job runs only on a tick that matches its update interval.
func (j *Job) Tick(clock int) {
	select {
	case j.tick <- clock:
	default:
		j.Debug("skip the tick due to previous run hasn't been finished")
	}
}

// Start starts the main loop. Blocks until Stop is called.
func (j *Job) Start() {
LOOP:
	for {
		select {
		case <-j.stop:
			break LOOP
		case t := <-j.tick:
			if t%(j.updateEvery+j.penalty()) == 0 {
				j.runOnce()
			}
		}
	}
	j.module.Cleanup(context.Background())
	j.cleanup()
	j.stop <- struct{}{}
}

// Stop stops the main loop and blocks until the job acknowledges it.
func (j *Job) Stop() {
	j.stop <- struct{}{}
	<-j.stop
}

func (j *Job) init() error {
	if j.initialized {
		return nil
	}
	if err := j.module.Init(context.Background()); err != nil {
		return err
	}
	j.initialized = true
	return nil
}

func (j *Job) check() error {
	return j.module.Check(context.Background())
}

func (j *Job) postCheck() error {
	if j.charts = j.module.Charts(); j.charts == nil {
		return fmt.Errorf("%s[%s] charts can't be nil", j.ModuleName(), j.Name())
	}
	return nil
}

func (j *Job) runOnce() {
	curTime := time.Now()
	sinceLastRun := calcSinceLastRun(curTime, j.prevRun)
	j.prevRun = curTime

	metrics := j.collect()

	if j.panicked {
		return
	}

	if j.processMetrics(metrics, curTime, sinceLastRun) {
		j.retries = 0
	} else {
		j.retries++
	}

	_, _ = io.Copy(j.out, j.buf)
	j.buf.Reset()
}

func (j *Job) collect() (result map[string]int64) {
	j.panicked = false
	defer func() {
		if r := recover(); r != nil {
			j.panicked = true
			j.Errorf("PANIC: %v", r)
			if logger.Level.Enabled(slog.LevelDebug) {
				j.Errorf("STACK: %s", debug.Stack())
			}
		}
	}()
	return j.module.Collect(context.Background())
}

func (j *Job) processMetrics(metrics map[string]int64, startTime time.Time, sinceLastRun int) bool {
	if !j.runChart.created {
		j.runChart.ID = fmt.Sprintf("execution_time_of_%s", j.FullName())
		j.createChart(j.runChart)
	}

	elapsed := int64(durationTo(time.Since(startTime), time.Millisecond))

	var i, updated int
	for _, chart := range *j.charts {
		if !chart.created {
			j.createChart(chart)
		}
		if chart.remove {
			continue
		}
		(*j.charts)[i] = chart
		i++
		if len(metrics) == 0 || chart.Obsolete {
			continue
		}
		if j.updateChart(chart, metrics, sinceLastRun) {
			updated++
		}
	}
	*j.charts = (*j.charts)[:i]

	if updated == 0 {
		return false
	}
	j.updateChart(j.runChart, map[string]int64{"time": elapsed}, sinceLastRun)

	return true
}

func (j *Job) createChart(chart *Chart) {
	defer func() { chart.created = true }()

	if chart.Priority == 0 {
		chart.Priority = j.priority
		j.priority++
	}
	j.api.CHART(netdataapi.ChartOpts{
		TypeID:      firstNotEmpty(chart.typ, j.FullName()),
		ID:          chart.ID,
		Name:        "",
		Title:       chart.Title,
		Units:       chart.Units,
		Family:      chart.Fam,
		Context:     chart.Ctx,
		ChartType:   chart.Type.String(),
		Priority:    chart.Priority,
		UpdateEvery: j.updateEvery,
		Options:     chart.Opts.String(),
		Plugin:      j.pluginName,
		Module:      j.moduleName,
	})

	if chart.Obsolete {
		_ = j.api.EMPTYLINE()
		return
	}

	for _, dim := range chart.Dims {
		j.api.DIMENSION(netdataapi.DimensionOpts{
			ID:         dim.ID,
			Name:       dim.Name,
			Algorithm:  dim.Algo.String(),
			Multiplier: handleZero(dim.Mul),
			Divisor:    handleZero(dim.Div),
			Options:    dim.DimOpts.String(),
		})
	}

	_ = j.api.EMPTYLINE()
}

func (j *Job) updateChart(chart *Chart, collected map[string]int64, sinceLastRun int) bool {
	if !chart.updated {
		sinceLastRun = 0
	}

	j.api.BEGIN(firstNotEmpty(chart.typ, j.FullName()), chart.ID, sinceLastRun)

	var set, i int
	for _, dim := range chart.Dims {
		if dim.remove {
			// dims are sent on chart creation, removal needs a re-create
			chart.MarkNotCreated()
			continue
		}
		chart.Dims[i] = dim
		i++
		if v, ok := collected[dim.ID]; ok {
			j.api.SET(dim.ID, v)
			set++
		} else {
			j.api.SETEMPTY(dim.ID)
		}
	}
	chart.Dims = chart.Dims[:i]

	for _, vr := range chart.Vars {
		if v, ok := collected[vr.ID]; ok {
			j.api.VARIABLE(vr.ID, float64(v))
		}
	}

	j.api.END()

	chart.updated = set > 0
	return chart.updated
}

func (j *Job) cleanup() {
	j.buf.Reset()
	if j.charts == nil || !shouldObsoleteCharts() {
		return
	}
	for _, chart := range *j.charts {
		if chart.created {
			chart.MarkRemove()
			chart.MarkNotCreated()
			j.createChart(chart)
		}
	}
	if j.runChart.created {
		j.runChart.MarkRemove()
		j.runChart.MarkNotCreated()
		j.createChart(j.runChart)
	}
	_, _ = io.Copy(j.out, j.buf)
	j.buf.Reset()
}

func (j *Job) penalty() int {
	v := j.retries / penaltyStep * penaltyStep * j.updateEvery / 2
	if v > maxPenalty {
		return maxPenalty
	}
	return v
}

func calcSinceLastRun(curTime, prevRun time.Time) int {
	if prevRun.IsZero() {
		return 0
	}
	return int((curTime.UnixNano() - prevRun.UnixNano()) / 1000)
}

func durationTo(duration time.Duration, to time.Duration) int {
	return int(int64(duration) / (int64(to)))
}

func firstNotEmpty(val1, val2 string) string {
	if val1 != "" {
		return val1
	}
	return val2
}

func handleZero(v int) int {
	if v == 0 {
		return 1
	}
	return v
}
