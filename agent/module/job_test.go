// SPDX-License-Identifier: GPL-3.0-or-later

package module

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockModule struct {
	Base

	initErr  error
	checkErr error
	charts   *Charts
	collect  func() map[string]int64

	cleanupDone bool
}

func (m *mockModule) Init(context.Context) error  { return m.initErr }
func (m *mockModule) Check(context.Context) error { return m.checkErr }
func (m *mockModule) Charts() *Charts             { return m.charts }
func (m *mockModule) Configuration() any          { return nil }
func (m *mockModule) Cleanup(context.Context)     { m.cleanupDone = true }

func (m *mockModule) Collect(context.Context) map[string]int64 {
	if m.collect == nil {
		return nil
	}
	return m.collect()
}

func newTestJob(mod Module) *Job {
	return NewJob(JobConfig{
		PluginName:  "test.plugin",
		Name:        "job",
		ModuleName:  "mock",
		FullName:    "mock_job",
		Module:      mod,
		Out:         io.Discard,
		UpdateEvery: 1,
		Priority:    70000,
	})
}

func TestJob_AutoDetection(t *testing.T) {
	tests := map[string]struct {
		mod      *mockModule
		wantFail bool
	}{
		"success": {
			mod: &mockModule{charts: testCharts()},
		},
		"init fails": {
			wantFail: true,
			mod:      &mockModule{initErr: errors.New("init"), charts: testCharts()},
		},
		"check fails": {
			wantFail: true,
			mod:      &mockModule{checkErr: errors.New("check"), charts: testCharts()},
		},
		"nil charts": {
			wantFail: true,
			mod:      &mockModule{},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			job := newTestJob(test.mod)

			if test.wantFail {
				assert.Error(t, job.AutoDetection())
				assert.True(t, test.mod.cleanupDone)
			} else {
				assert.NoError(t, job.AutoDetection())
			}
		})
	}
}

func TestJob_AutoDetection_Panic(t *testing.T) {
	job := newTestJob(&panicOnInit{})

	assert.Error(t, job.AutoDetection())
	assert.True(t, job.Panicked())
}

type panicOnInit struct{ mockModule }

func (p *panicOnInit) Init(context.Context) error { panic("init panic") }

func TestJob_RunOnce(t *testing.T) {
	mod := &mockModule{
		charts: testCharts(),
		collect: func() map[string]int64 {
			return map[string]int64{"in": 1, "out": 2}
		},
	}
	job := newTestJob(mod)

	require.NoError(t, job.AutoDetection())

	job.runOnce()
	assert.Equal(t, 0, job.retries)

	mod.collect = func() map[string]int64 { return nil }
	job.runOnce()
	assert.Equal(t, 1, job.retries)
}

func TestJob_Penalty(t *testing.T) {
	job := newTestJob(&mockModule{charts: testCharts()})

	job.retries = 0
	assert.Equal(t, 0, job.penalty())

	job.retries = penaltyStep
	assert.Equal(t, penaltyStep*job.updateEvery/2, job.penalty())

	job.retries = 1000000
	assert.Equal(t, maxPenalty, job.penalty())
}
