// SPDX-License-Identifier: GPL-3.0-or-later

package status

import "bufio"

// Statistics lines come as 'label,value' pairs. Lines tokenizing to any
// other field count (section headers, footers, noise) are skipped.
const singleMaxFields = 4

func readSingle(sc *bufio.Scanner, em emitter) error {
	var linkRx, linkTx uint64
	var tunRx, tunTx uint64
	var preCompress, postCompress uint64
	var preDecompress, postDecompress uint64

	fields := make([]string, singleMaxFields)

	for sc.Scan() {
		if splitFields(trimLine(sc.Text()), fields) != 2 {
			continue
		}

		// unrecognized labels are ignored, newer daemons add fields
		switch fields[0] {
		case "TUN/TAP read bytes":
			// read from the system, sent over the tunnel
			tunTx = parseCounter(fields[1])
		case "TUN/TAP write bytes":
			// read from the tunnel, written to the system
			tunRx = parseCounter(fields[1])
		case "TCP/UDP read bytes":
			linkRx = parseCounter(fields[1])
		case "TCP/UDP write bytes":
			linkTx = parseCounter(fields[1])
		case "pre-compress bytes":
			preCompress = parseCounter(fields[1])
		case "post-compress bytes":
			postCompress = parseCounter(fields[1])
		case "pre-decompress bytes":
			preDecompress = parseCounter(fields[1])
		case "post-decompress bytes":
			postDecompress = parseCounter(fields[1])
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}

	em.traffic("traffic", linkRx, linkTx)
	em.traffic("overhead",
		overhead(linkRx, preDecompress, postDecompress, tunRx),
		overhead(linkTx, postCompress, preCompress, tunTx))

	if em.flags.CollectCompression {
		em.compression("data_in", postDecompress, preDecompress)
		em.compression("data_out", preCompress, postCompress)
	}

	return nil
}

// overhead computes the encapsulation cost: raw link traffic minus the
// effective tunnel payload, compensated for compression. The grouping is
// mandatory, the counters are unsigned and only
//
//	((link - removed) + added) - tunnel
//
// defers the sign-flipping subtraction until after the compensating
// addition, so consistent per-field inputs can't underflow halfway through.
func overhead(link, removed, added, tunnel uint64) uint64 {
	return ((link - removed) + added) - tunnel
}
