// SPDX-License-Identifier: GPL-3.0-or-later

package status

// emitter maps derived values and the active naming schema into sink calls.
// It contains no parsing logic and performs no I/O of its own.
type emitter struct {
	name  string
	flags Flags
	sink  Sink
}

// traffic submits a single-mode aggregate sample ("traffic" or "overhead"),
// scoped by the instance name.
func (e emitter) traffic(kind string, rx, tx uint64) {
	e.sink.SubmitTraffic(e.name, kind, rx, tx)
}

// compression submits a single-mode compression sample ("data_in" or
// "data_out"), scoped by the instance name.
func (e emitter) compression(kind string, uncompressed, compressed uint64) {
	e.sink.SubmitCompression(e.name, kind, uncompressed, compressed)
}

// peerTraffic submits one client's traffic sample. With the improved naming
// schema the instance name is the primary scope and the client id the
// secondary; the legacy schema scopes by client id alone. The legacy form
// predates multi-instance support and is kept so existing deployments keep
// their historical series names.
func (e emitter) peerTraffic(peer string, rx, tx uint64) {
	if e.flags.ImprovedNamingSchema {
		e.sink.SubmitTraffic(e.name, peer, rx, tx)
	} else {
		e.sink.SubmitTraffic(peer, "", rx, tx)
	}
}

// users submits the aggregate connected-user count for the instance.
func (e emitter) users(count uint64) {
	e.sink.SubmitUsers(e.name, e.name, count)
}
