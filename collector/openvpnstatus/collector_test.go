// SPDX-License-Identifier: GPL-3.0-or-later

package openvpnstatus

import (
	"context"
	"os"
	"testing"

	"github.com/netdata/openvpnstatus.plugin/agent/module"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	pathNonExistentFile  = "testdata/non-existent.txt"
	pathEmptyFile        = "testdata/empty.txt"
	pathStaticKey        = "testdata/static-key.txt"
	pathSingle           = "testdata/single.txt"
	pathVersion1         = "testdata/version1.txt"
	pathVersion1NoClient = "testdata/version1-no-clients.txt"
	pathVersion2         = "testdata/version2.txt"
	pathVersion3         = "testdata/version3.txt"
)

var (
	dataConfigJSON, _ = os.ReadFile("testdata/config.json")
	dataConfigYAML, _ = os.ReadFile("testdata/config.yaml")
)

func Test_testDataIsValid(t *testing.T) {
	for name, data := range map[string][]byte{
		"dataConfigJSON": dataConfigJSON,
		"dataConfigYAML": dataConfigYAML,
	} {
		require.NotNil(t, data, name)
	}
}

func TestCollector_ConfigurationSerialize(t *testing.T) {
	module.TestConfigurationSerialize(t, &Collector{}, dataConfigJSON, dataConfigYAML)
}

func TestCollector_Init(t *testing.T) {
	tests := map[string]struct {
		config   Config
		wantFail bool
	}{
		"default config": {
			config: New().Config,
		},
		"unset 'status_path'": {
			wantFail: true,
			config: Config{
				StatusPath: "",
			},
		},
		"all collection concerns disabled": {
			wantFail: true,
			config: Config{
				StatusPath: pathVersion1,
			},
		},
		"invalid 'per_user_stats' pattern": {
			wantFail: true,
			config: Config{
				StatusPath:             pathVersion1,
				CollectIndividualUsers: true,
				PerUserStats:           []string{"[!"},
			},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			collr := New()
			collr.Config = test.config

			if test.wantFail {
				assert.Error(t, collr.Init(context.Background()))
			} else {
				assert.NoError(t, collr.Init(context.Background()))
			}
		})
	}
}

func TestCollector_Check(t *testing.T) {
	tests := map[string]struct {
		prepare  func() *Collector
		wantFail bool
	}{
		"single mode":                  {prepare: prepareCaseSingle},
		"status version 1":             {prepare: prepareCaseVersion1},
		"status version 1 no clients":  {prepare: prepareCaseVersion1NoClients},
		"status version 2":             {prepare: prepareCaseVersion2},
		"status version 3":             {prepare: prepareCaseVersion3},
		"empty file":                   {prepare: prepareCaseEmptyFile, wantFail: true},
		"unknown format (static key)":  {prepare: prepareCaseStaticKey, wantFail: true},
		"non-existent file":            {prepare: prepareCaseNonExistentFile, wantFail: true},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			collr := test.prepare()

			require.NoError(t, collr.Init(context.Background()))

			if test.wantFail {
				assert.Error(t, collr.Check(context.Background()))
			} else {
				assert.NoError(t, collr.Check(context.Background()))
			}
		})
	}
}

func TestCollector_Charts(t *testing.T) {
	t.Run("default config drops the clients chart", func(t *testing.T) {
		collr := prepareCaseVersion1()
		require.NoError(t, collr.Init(context.Background()))

		assert.False(t, collr.Charts().Has("active_clients"))
		assert.True(t, collr.Charts().Has("traffic"))
	})

	t.Run("compression disabled drops the compression charts", func(t *testing.T) {
		collr := prepareCaseSingle()
		collr.CollectCompression = false
		require.NoError(t, collr.Init(context.Background()))

		assert.False(t, collr.Charts().Has("data_in"))
		assert.False(t, collr.Charts().Has("data_out"))
	})

	t.Run("user charts are added on first sight", func(t *testing.T) {
		collr := prepareCaseVersion1()
		require.NoError(t, collr.Init(context.Background()))

		base := len(*collr.Charts())
		_ = collr.Collect(context.Background())

		assert.Len(t, *collr.Charts(), base+len(userCharts)*2)
	})
}

func TestCollector_Collect(t *testing.T) {
	tests := map[string]struct {
		prepare func() *Collector
		wantMx  map[string]int64
	}{
		"single mode": {
			prepare: prepareCaseSingle,
			wantMx: map[string]int64{
				"traffic_in":            1000,
				"traffic_out":           1100,
				"overhead_in":           50,
				"overhead_out":          250,
				"data_in_uncompressed":  250,
				"data_in_compressed":    200,
				"data_out_uncompressed": 150,
				"data_out_compressed":   100,
			},
		},
		"status version 1": {
			prepare: prepareCaseVersion1,
			wantMx: map[string]int64{
				"alice_bytes_received": 334948,
				"alice_bytes_sent":     1973012,
				"bob_bytes_received":   1134948,
				"bob_bytes_sent":       2973012,
			},
		},
		"status version 1 with user count": {
			prepare: func() *Collector {
				collr := prepareCaseVersion1()
				collr.CollectUserCount = true
				return collr
			},
			wantMx: map[string]int64{
				"clients":              2,
				"alice_bytes_received": 334948,
				"alice_bytes_sent":     1973012,
				"bob_bytes_received":   1134948,
				"bob_bytes_sent":       2973012,
			},
		},
		"status version 1 no clients": {
			prepare: prepareCaseVersion1NoClients,
			wantMx: map[string]int64{
				"clients": 0,
			},
		},
		"status version 2": {
			prepare: prepareCaseVersion2,
			wantMx: map[string]int64{
				"alice_bytes_received": 334948,
				"alice_bytes_sent":     1973012,
				"bob_bytes_received":   1134948,
				"bob_bytes_sent":       2973012,
			},
		},
		"status version 3": {
			prepare: prepareCaseVersion3,
			wantMx: map[string]int64{
				"alice_bytes_received": 334948,
				"alice_bytes_sent":     1973012,
				"bob_bytes_received":   1134948,
				"bob_bytes_sent":       2973012,
			},
		},
		"per user selector": {
			prepare: func() *Collector {
				collr := prepareCaseVersion1()
				collr.PerUserStats = []string{"alice"}
				return collr
			},
			wantMx: map[string]int64{
				"alice_bytes_received": 334948,
				"alice_bytes_sent":     1973012,
			},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			collr := test.prepare()

			require.NoError(t, collr.Init(context.Background()))

			assert.Equal(t, test.wantMx, collr.Collect(context.Background()))
		})
	}
}

func TestCollector_Collect_NamingSchemaChangesScopesOnly(t *testing.T) {
	legacy := prepareCaseVersion1()
	require.NoError(t, legacy.Init(context.Background()))

	improved := prepareCaseVersion1()
	improved.ImprovedNamingSchema = true
	require.NoError(t, improved.Init(context.Background()))

	assert.Equal(t,
		legacy.Collect(context.Background()),
		improved.Collect(context.Background()),
	)
}

func prepareCaseSingle() *Collector {
	collr := New()
	collr.StatusPath = pathSingle
	return collr
}

func prepareCaseVersion1() *Collector {
	collr := New()
	collr.StatusPath = pathVersion1
	return collr
}

func prepareCaseVersion1NoClients() *Collector {
	collr := New()
	collr.StatusPath = pathVersion1NoClient
	collr.CollectUserCount = true
	return collr
}

func prepareCaseVersion2() *Collector {
	collr := New()
	collr.StatusPath = pathVersion2
	return collr
}

func prepareCaseVersion3() *Collector {
	collr := New()
	collr.StatusPath = pathVersion3
	return collr
}

func prepareCaseEmptyFile() *Collector {
	collr := New()
	collr.StatusPath = pathEmptyFile
	return collr
}

func prepareCaseStaticKey() *Collector {
	collr := New()
	collr.StatusPath = pathStaticKey
	return collr
}

func prepareCaseNonExistentFile() *Collector {
	collr := New()
	collr.StatusPath = pathNonExistentFile
	return collr
}
