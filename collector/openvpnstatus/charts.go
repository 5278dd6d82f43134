// SPDX-License-Identifier: GPL-3.0-or-later

package openvpnstatus

import (
	"fmt"

	"github.com/netdata/openvpnstatus.plugin/agent/module"
)

var charts = module.Charts{
	{
		ID:    "traffic",
		Title: "Link Traffic",
		Units: "kilobits/s",
		Fam:   "traffic",
		Ctx:   "openvpnstatus.traffic",
		Type:  module.Area,
		Dims: module.Dims{
			{ID: "traffic_in", Name: "in", Algo: module.Incremental, Mul: 8, Div: 1000},
			{ID: "traffic_out", Name: "out", Algo: module.Incremental, Mul: 8, Div: -1000},
		},
	},
	{
		ID:    "overhead",
		Title: "Tunnel Overhead",
		Units: "kilobits/s",
		Fam:   "traffic",
		Ctx:   "openvpnstatus.overhead",
		Type:  module.Area,
		Dims: module.Dims{
			{ID: "overhead_in", Name: "in", Algo: module.Incremental, Mul: 8, Div: 1000},
			{ID: "overhead_out", Name: "out", Algo: module.Incremental, Mul: 8, Div: -1000},
		},
	},
	{
		ID:    "data_in",
		Title: "Inbound Compression",
		Units: "kilobits/s",
		Fam:   "compression",
		Ctx:   "openvpnstatus.data_in",
		Dims: module.Dims{
			{ID: "data_in_uncompressed", Name: "uncompressed", Algo: module.Incremental, Mul: 8, Div: 1000},
			{ID: "data_in_compressed", Name: "compressed", Algo: module.Incremental, Mul: 8, Div: 1000},
		},
	},
	{
		ID:    "data_out",
		Title: "Outbound Compression",
		Units: "kilobits/s",
		Fam:   "compression",
		Ctx:   "openvpnstatus.data_out",
		Dims: module.Dims{
			{ID: "data_out_uncompressed", Name: "uncompressed", Algo: module.Incremental, Mul: 8, Div: 1000},
			{ID: "data_out_compressed", Name: "compressed", Algo: module.Incremental, Mul: 8, Div: 1000},
		},
	},
	{
		ID:    "active_clients",
		Title: "Active Clients",
		Units: "clients",
		Fam:   "clients",
		Ctx:   "openvpnstatus.active_clients",
		Dims: module.Dims{
			{ID: "clients"},
		},
	},
}

var userCharts = module.Charts{
	{
		ID:    "%s_user_traffic",
		Title: "User Traffic",
		Units: "kilobits/s",
		Fam:   "user stats",
		Ctx:   "openvpnstatus.user_traffic",
		Type:  module.Area,
		Dims: module.Dims{
			{ID: "%s_bytes_received", Name: "received", Algo: module.Incremental, Mul: 8, Div: 1000},
			{ID: "%s_bytes_sent", Name: "sent", Algo: module.Incremental, Mul: 8, Div: -1000},
		},
	},
}

// initCharts drops the charts whose collection concern is disabled.
func (c *Collector) initCharts() *module.Charts {
	cs := charts.Copy()
	if !c.CollectCompression {
		_ = cs.Remove("data_in")
		_ = cs.Remove("data_out")
	}
	if !c.CollectUserCount {
		_ = cs.Remove("active_clients")
	}
	return cs
}

func (c *Collector) addUserCharts(userName string) error {
	cs := userCharts.Copy()

	for _, chart := range *cs {
		chart.ID = fmt.Sprintf(chart.ID, userName)
		for _, dim := range chart.Dims {
			dim.ID = fmt.Sprintf(dim.ID, userName)
		}
		chart.MarkNotCreated()
	}
	return c.charts.Add(*cs...)
}
