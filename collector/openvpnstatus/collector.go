// SPDX-License-Identifier: GPL-3.0-or-later

package openvpnstatus

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/netdata/openvpnstatus.plugin/agent/module"
	"github.com/netdata/openvpnstatus.plugin/collector/openvpnstatus/status"
)

//go:embed "config_schema.json"
var configSchema string

func init() {
	module.Register("openvpnstatus", module.Creator{
		JobConfigSchema: configSchema,
		Create:          func() module.Module { return New() },
		Config:          func() any { return &Config{} },
	})
}

func New() *Collector {
	return &Collector{
		Config: Config{
			StatusPath:             "/var/log/openvpn/status.log",
			CollectCompression:     true,
			CollectIndividualUsers: true,
		},
		charts:    charts.Copy(),
		seenUsers: make(map[string]bool),
	}
}

type Config struct {
	UpdateEvery            int      `yaml:"update_every,omitempty" json:"update_every"`
	StatusPath             string   `yaml:"status_path" json:"status_path"`
	CollectCompression     bool     `yaml:"collect_compression" json:"collect_compression"`
	ImprovedNamingSchema   bool     `yaml:"improved_naming_schema" json:"improved_naming_schema"`
	CollectUserCount       bool     `yaml:"collect_user_count" json:"collect_user_count"`
	CollectIndividualUsers bool     `yaml:"collect_individual_users" json:"collect_individual_users"`
	PerUserStats           []string `yaml:"per_user_stats,omitempty" json:"per_user_stats"`
}

type Collector struct {
	module.Base
	Config `yaml:",inline" json:""`

	charts *module.Charts

	instance  string
	flags     status.Flags
	seenUsers map[string]bool
}

func (c *Collector) Configuration() any {
	return c.Config
}

func (c *Collector) Init(context.Context) error {
	if err := c.validateConfig(); err != nil {
		return fmt.Errorf("error on validating config: %v", err)
	}

	c.instance = c.instanceName()
	c.flags = status.Flags{
		CollectCompression:     c.CollectCompression,
		ImprovedNamingSchema:   c.ImprovedNamingSchema,
		CollectUserCount:       c.CollectUserCount,
		CollectIndividualUsers: c.CollectIndividualUsers,
	}
	c.charts = c.initCharts()

	c.Debugf("using status file '%s' (instance '%s')", c.StatusPath, c.instance)

	return nil
}

func (c *Collector) Check(context.Context) error {
	mx, err := c.collect()
	if err != nil {
		return err
	}
	if len(mx) == 0 {
		return errors.New("no metrics collected")
	}
	return nil
}

func (c *Collector) Charts() *module.Charts {
	return c.charts
}

func (c *Collector) Collect(context.Context) map[string]int64 {
	mx, err := c.collect()
	if err != nil {
		c.Error(err)
	}

	if len(mx) == 0 {
		return nil
	}
	return mx
}

func (c *Collector) Cleanup(context.Context) {}
