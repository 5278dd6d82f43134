// SPDX-License-Identifier: GPL-3.0-or-later

package openvpnstatus

import (
	"fmt"
	"os"

	"github.com/netdata/openvpnstatus.plugin/collector/openvpnstatus/status"
)

func (c *Collector) collect() (map[string]int64, error) {
	f, err := os.Open(c.StatusPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open '%s': %v", c.StatusPath, err)
	}
	defer func() { _ = f.Close() }()

	mx := make(map[string]int64)

	if err := status.Read(f, c.instance, c.flags, &chartSink{collr: c, mx: mx}); err != nil {
		return nil, err
	}

	return mx, nil
}

// chartSink maps emitted samples into the metrics map and keeps per-user
// charts in sync with the users seen during the read cycle.
type chartSink struct {
	collr *Collector
	mx    map[string]int64
}

func (s *chartSink) SubmitTraffic(primary, secondary string, rx, tx uint64) {
	// single-mode aggregates arrive scoped by the instance name
	if primary == s.collr.instance {
		switch secondary {
		case "traffic":
			s.mx["traffic_in"] = int64(rx)
			s.mx["traffic_out"] = int64(tx)
			return
		case "overhead":
			s.mx["overhead_in"] = int64(rx)
			s.mx["overhead_out"] = int64(tx)
			return
		}
	}

	// per-user sample: the user id lives in the secondary scope under the
	// improved naming schema and in the primary scope under the legacy one
	user := secondary
	if user == "" {
		user = primary
	}
	s.submitUser(user, rx, tx)
}

func (s *chartSink) submitUser(user string, rx, tx uint64) {
	if user == "" || !s.collr.selectUser(user) {
		return
	}
	if !s.collr.seenUsers[user] {
		s.collr.seenUsers[user] = true
		if err := s.collr.addUserCharts(user); err != nil {
			s.collr.Warning(err)
		}
	}
	s.mx[user+"_bytes_received"] = int64(rx)
	s.mx[user+"_bytes_sent"] = int64(tx)
}

func (s *chartSink) SubmitCompression(_, secondary string, uncompressed, compressed uint64) {
	s.mx[secondary+"_uncompressed"] = int64(uncompressed)
	s.mx[secondary+"_compressed"] = int64(compressed)
}

func (s *chartSink) SubmitUsers(_, _ string, count uint64) {
	s.mx["clients"] = int64(count)
}
