// SPDX-License-Identifier: GPL-3.0-or-later

package netdataapi

type ChartOpts struct {
	TypeID      string
	ID          string
	Name        string
	Title       string
	Units       string
	Family      string
	Context     string
	ChartType   string
	Priority    int
	UpdateEvery int
	Options     string
	Plugin      string
	Module      string
}

type DimensionOpts struct {
	ID         string
	Name       string
	Algorithm  string
	Multiplier int
	Divisor    int
	Options    string
}
