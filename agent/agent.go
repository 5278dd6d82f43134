// SPDX-License-Identifier: GPL-3.0-or-later

// Package agent drives collector jobs: it loads the plugin configuration,
// creates a job per configured status file and streams the collected metrics
// to netdata over the external plugins text protocol on stdout.
package agent

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/netdata/openvpnstatus.plugin/agent/module"
	"github.com/netdata/openvpnstatus.plugin/agent/netdataapi"
	"github.com/netdata/openvpnstatus.plugin/agent/safewriter"
	"github.com/netdata/openvpnstatus.plugin/agent/ticker"
	"github.com/netdata/openvpnstatus.plugin/logger"

	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v2"
)

var isTerminal = isatty.IsTerminal(os.Stdout.Fd())

// Config is an Agent configuration.
type Config struct {
	Name           string
	ConfFile       string
	ModuleName     string
	MinUpdateEvery int
}

// Agent represents the openvpn status plugin.
type Agent struct {
	*logger.Logger

	Name           string
	ConfFile       string
	ModuleName     string
	MinUpdateEvery int

	Registry module.Registry
	Out      io.Writer

	api *netdataapi.API
}

// New creates a new Agent.
func New(cfg Config) *Agent {
	return &Agent{
		Logger:         logger.New(),
		Name:           cfg.Name,
		ConfFile:       cfg.ConfFile,
		ModuleName:     cfg.ModuleName,
		MinUpdateEvery: cfg.MinUpdateEvery,
		Registry:       module.DefaultRegistry,
		Out:            safewriter.Stdout,
		api:            netdataapi.New(safewriter.Stdout),
	}
}

// Run starts the Agent and blocks until it is told to stop.
func (a *Agent) Run() {
	go a.keepAlive()
	serve(a)
}

func serve(a *Agent) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	reload := watchConfigFile(a, a.ConfFile)

	var wg sync.WaitGroup

	var exit bool
	for {
		ctx, cancel := context.WithCancel(context.Background())

		wg.Add(1)
		go func() { defer wg.Done(); a.run(ctx) }()

		select {
		case sig := <-ch:
			switch sig {
			case syscall.SIGHUP:
				a.Infof("received %s signal (%d). Restarting running instance", sig, sig)
			default:
				a.Infof("received %s signal (%d). Terminating...", sig, sig)
				module.DontObsoleteCharts()
				exit = true
			}
		case <-reload:
			a.Info("config file changed. Restarting running instance")
		}

		cancel()

		func() {
			timeout := time.Second * 10
			t := time.NewTimer(timeout)
			defer t.Stop()
			done := make(chan struct{})

			go func() { wg.Wait(); close(done) }()

			select {
			case <-t.C:
				a.Errorf("stopping all goroutines timed out after %s. Exiting...", timeout)
				os.Exit(0)
			case <-done:
			}
		}()

		if exit {
			os.Exit(0)
		}

		time.Sleep(time.Second)
	}
}

func (a *Agent) run(ctx context.Context) {
	a.Info("instance is started")
	defer func() { a.Info("instance is stopped") }()

	cfg, err := a.loadConfig()
	if err != nil {
		a.Error(err)
		a.disable()
		return
	}

	jobs := a.createJobs(cfg)
	if len(jobs) == 0 {
		a.Info("no jobs to run")
		a.disable()
		return
	}

	started := jobs[:0]
	for _, job := range jobs {
		if err := job.AutoDetection(); err != nil {
			a.Warningf("job '%s' detection failed: %v", job.FullName(), err)
			continue
		}
		go job.Start()
		started = append(started, job)
	}

	if len(started) == 0 {
		a.Info("no jobs survived detection")
		a.disable()
		return
	}

	tk := ticker.New(time.Second)
	defer tk.Stop()
	defer func() {
		for _, job := range started {
			job.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case clock := <-tk.C:
			a.Debugf("tick %d", clock)
			for _, job := range started {
				job.Tick(clock)
			}
		}
	}
}

func (a *Agent) createJobs(cfg *config) []*module.Job {
	creator, ok := a.Registry.Lookup(a.ModuleName)
	if !ok {
		a.Errorf("module '%s' is not in the registry", a.ModuleName)
		return nil
	}

	var jobs []*module.Job
	seen := make(map[string]bool)

	for i, jobCfg := range cfg.Jobs {
		name := jobName(jobCfg)
		if name == "" {
			a.Warningf("job #%d has no name and no status_path, skipping it", i+1)
			continue
		}
		if seen[name] {
			a.Warningf("duplicate job name '%s', skipping it", name)
			continue
		}

		mod := creator.Create()

		// round-trip through yaml applies the job options to the module config
		bs, err := yaml.Marshal(jobCfg)
		if err != nil {
			a.Warningf("job '%s': failed to serialize config: %v", name, err)
			continue
		}
		if err := yaml.Unmarshal(bs, mod); err != nil {
			a.Warningf("job '%s': failed to apply config: %v", name, err)
			continue
		}

		updateEvery := firstPositive(jobUpdateEvery(jobCfg), cfg.UpdateEvery, creator.UpdateEvery, module.UpdateEvery)
		if updateEvery < a.MinUpdateEvery {
			updateEvery = a.MinUpdateEvery
		}

		seen[name] = true
		jobs = append(jobs, module.NewJob(module.JobConfig{
			PluginName:  a.Name,
			Name:        name,
			ModuleName:  a.ModuleName,
			FullName:    fmt.Sprintf("%s_%s", a.ModuleName, name),
			Module:      mod,
			Out:         a.Out,
			UpdateEvery: updateEvery,
			Priority:    firstPositive(creator.Priority, module.Priority),
		}))
	}

	return jobs
}

func jobUpdateEvery(job map[string]any) int {
	if v, ok := job["update_every"]; ok {
		if n, ok := v.(int); ok {
			return n
		}
	}
	return 0
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}

func (a *Agent) disable() {
	if isTerminal {
		os.Exit(0)
	}
	a.api.DISABLE()
}

// keepAlive periodically sends an empty line to stdout so netdata doesn't
// consider the plugin dead between data batches.
func (a *Agent) keepAlive() {
	if isTerminal {
		return
	}

	tk := time.NewTicker(time.Second)
	defer tk.Stop()

	var n int
	for range tk.C {
		if err := a.api.EMPTYLINE(); err != nil {
			a.Infof("keepAlive: %v", err)
			n++
		} else {
			n = 0
		}
		if n == 3 {
			a.Info("too many keepAlive errors. Terminating...")
			os.Exit(0)
		}
	}
}
