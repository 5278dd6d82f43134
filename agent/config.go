// SPDX-License-Identifier: GPL-3.0-or-later

package agent

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"
)

type config struct {
	UpdateEvery int              `yaml:"update_every"`
	Jobs        []map[string]any `yaml:"jobs"`
}

// deprecatedJobKeys maps retired job option names to their replacements.
// Old names still load, with a warning, so existing configs keep working.
var deprecatedJobKeys = map[string]string{
	"compression": "collect_compression",
}

func (a *Agent) loadConfig() (*config, error) {
	bs, err := os.ReadFile(a.ConfFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %v", err)
	}

	var cfg config
	if err := yaml.Unmarshal(bs, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %v", err)
	}

	for _, job := range cfg.Jobs {
		a.normalizeJobKeys(job)
	}

	return &cfg, nil
}

func (a *Agent) normalizeJobKeys(job map[string]any) {
	for old, cur := range deprecatedJobKeys {
		v, ok := job[old]
		if !ok {
			continue
		}
		a.Warningf("job option '%s' is deprecated, use '%s' instead", old, cur)
		if _, ok := job[cur]; !ok {
			job[cur] = v
		}
		delete(job, old)
	}
}

// jobName derives a job's identity from its config: an explicit 'name' wins,
// otherwise the status file base name is used.
func jobName(job map[string]any) string {
	if v, ok := job["name"]; ok {
		if name, ok := v.(string); ok && name != "" {
			return cleanName(name)
		}
	}
	if v, ok := job["status_path"]; ok {
		if path, ok := v.(string); ok && path != "" {
			return cleanName(filepath.Base(path))
		}
	}
	return ""
}

func cleanName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\'', '"':
			return '_'
		default:
			return r
		}
	}, name)
}
