// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"go.uber.org/automaxprocs/maxprocs"

	"github.com/netdata/openvpnstatus.plugin/agent"
	"github.com/netdata/openvpnstatus.plugin/logger"
	"github.com/netdata/openvpnstatus.plugin/pkg/cli"

	_ "github.com/netdata/openvpnstatus.plugin/collector/openvpnstatus"
)

const (
	pluginName = "openvpnstatus.plugin"
	moduleName = "openvpnstatus"
)

// set during the build via -ldflags
var version = "v0.1.0"

func main() {
	_, _ = maxprocs.Set(maxprocs.Logger(func(s string, args ...interface{}) {}))

	opts := parseCLI()

	if opts.Version {
		fmt.Printf("%s, version: %s\n", pluginName, version)
		return
	}

	if lvl := os.Getenv("NETDATA_LOG_LEVEL"); lvl != "" {
		logger.Level.SetByName(lvl)
	}
	if opts.Debug {
		logger.Level.Set(slog.LevelDebug)
	}

	a := agent.New(agent.Config{
		Name:           pluginName,
		ConfFile:       confFile(opts),
		ModuleName:     moduleName,
		MinUpdateEvery: opts.UpdateEvery,
	})

	a.Infof("plugin: name=%s, version=%s", a.Name, version)

	a.Run()
}

func confFile(opts *cli.Option) string {
	if opts.ConfFile != "" {
		return opts.ConfFile
	}
	if dir := os.Getenv("NETDATA_USER_CONFIG_DIR"); dir != "" {
		return filepath.Join(dir, "openvpnstatus.conf")
	}
	return "/etc/netdata/openvpnstatus.conf"
}

func parseCLI() *cli.Option {
	opt, err := cli.Parse(os.Args)
	if err != nil {
		if cli.IsHelp(err) {
			os.Exit(0)
		}
		os.Exit(1)
	}
	return opt
}
