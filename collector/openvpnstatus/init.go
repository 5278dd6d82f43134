// SPDX-License-Identifier: GPL-3.0-or-later

package openvpnstatus

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

func (c *Collector) validateConfig() error {
	if c.StatusPath == "" {
		return errors.New("empty 'status_path'")
	}
	if !c.CollectIndividualUsers && !c.CollectCompression && !c.CollectUserCount {
		return errors.New("'collect_individual_users', 'collect_compression' and 'collect_user_count' " +
			"are all disabled, there is no data left to collect")
	}
	for _, pattern := range c.PerUserStats {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid 'per_user_stats' pattern '%s'", pattern)
		}
	}
	return nil
}

// instanceName identifies the monitored instance by the status file base name.
func (c *Collector) instanceName() string {
	return filepath.Base(c.StatusPath)
}

// selectUser reports whether individual stats are wanted for the given user.
func (c *Collector) selectUser(name string) bool {
	if len(c.PerUserStats) == 0 {
		return true
	}
	for _, pattern := range c.PerUserStats {
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
	}
	return false
}
