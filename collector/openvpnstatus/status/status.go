// SPDX-License-Identifier: GPL-3.0-or-later

// Package status parses OpenVPN status snapshot files and derives
// time-series samples from them.
//
// There are two main kinds of status file:
//   - 'single' mode (point-to-point or client mode)
//   - 'multi' mode (server with multiple clients)
//
// For 'multi' there are 3 versions of the status file format:
//   - version 1 - without line type tokens, comma delimited for easy
//     machine parsing. Used by default. Added in openvpn-2.0-beta3.
//   - version 2 - with line type tokens and a 'HEADER' line, comma
//     delimited. Added in openvpn-2.0-beta15.
//   - version 3 - same as version 2 but tab delimited.
//     Added in openvpn-2.1_rc14.
//
// Versions 2/3 carry different sets of columns in different OpenVPN
// versions, so the needed columns are resolved by name from the HEADER
// line rather than by fixed position.
package status

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	titleSingle  = "OpenVPN STATISTICS"
	titleMultiV1 = "OpenVPN CLIENT LIST"
	titleMultiV2 = "TITLE"
)

var (
	// ErrEmptySource means the stream yielded no first line.
	ErrEmptySource = errors.New("empty or unreadable status source")
	// ErrUnrecognizedFormat means the first line matches no known title,
	// or a required section header was never found.
	ErrUnrecognizedFormat = errors.New("unrecognized status file format")
	// ErrFieldCountMismatch means a client list row column count diverges
	// from the count declared by the HEADER line (v2/v3 only).
	ErrFieldCountMismatch = errors.New("client list field count mismatch")
)

// Flags control which metrics a read cycle derives and how emitted samples
// are scoped. A Flags value is constructed once at configuration time and
// passed into every read; it must not change between concurrent reads.
type Flags struct {
	CollectCompression     bool
	ImprovedNamingSchema   bool
	CollectUserCount       bool
	CollectIndividualUsers bool
}

// Sink receives derived samples, fire-and-forget. Per sample it gets the
// primary scope, an optional secondary scope and one or two counter values.
// Rate computation from the cumulative counters is the sink's business.
type Sink interface {
	SubmitTraffic(primary, secondary string, rx, tx uint64)
	SubmitCompression(primary, secondary string, uncompressed, compressed uint64)
	SubmitUsers(primary, secondary string, count uint64)
}

// Read performs one read cycle: it detects the status file dialect from the
// first line, hands the remaining stream to the matching parser and emits
// the derived samples through sink. On error nothing is emitted for the
// cycle and the caller is expected to retry on its next tick.
func Read(r io.Reader, name string, flags Flags, sink Sink) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if !sc.Scan() {
		return fmt.Errorf("%w (instance %s)", ErrEmptySource, name)
	}

	em := emitter{name: name, flags: flags, sink: sink}

	switch line := trimLine(sc.Text()); {
	case line == titleSingle:
		return readSingle(sc, em)
	case line == titleMultiV1:
		return readMultiV1(sc, em)
	case strings.HasPrefix(line, titleMultiV2):
		return readMultiV23(sc, em)
	}

	return fmt.Errorf("%w: unknown title line (instance %s)", ErrUnrecognizedFormat, name)
}

// trimLine strips the line terminator, tolerating CRLF input.
func trimLine(line string) string {
	return strings.TrimRight(line, "\r")
}
