// SPDX-License-Identifier: GPL-3.0-or-later

package status

import (
	"bufio"
	"fmt"
)

const (
	// Version 1 client rows have 5 fixed columns.
	multiV1MaxFields = 10

	// OpenVPN 2.4 has 11 data columns plus the HEADER and CLIENT_LIST
	// tokens on the header line. Leave room for future columns.
	multiV23MaxFields = 20
)

const (
	v1Header = "Common Name,Real Address,Bytes Received,Bytes Sent,Connected Since"

	// no client data follows the routing table section
	v1Terminator = "ROUTING TABLE"
)

// readMultiV1 parses the legacy headerless-columns client list: preamble
// lines up to the fixed header sentinel are ignored, data rows have fixed
// positions (0 = common name, 2 = bytes received, 3 = bytes sent).
func readMultiV1(sc *bufio.Scanner, em emitter) error {
	fields := make([]string, multiV1MaxFields)

	var users uint64
	var foundHeader bool

	for sc.Scan() {
		line := trimLine(sc.Text())

		if line == v1Terminator {
			break
		}
		if line == v1Header {
			foundHeader = true
			continue
		}
		if !foundHeader {
			continue
		}

		// blank and structural lines tokenize short, skip them
		if splitFields(line, fields) < 4 {
			continue
		}

		if em.flags.CollectUserCount {
			users++
		}
		if em.flags.CollectIndividualUsers {
			em.peerTraffic(fields[0], parseCounter(fields[2]), parseCounter(fields[3]))
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}

	if !foundHeader {
		return fmt.Errorf("%w: client list header never found (instance %s)", ErrUnrecognizedFormat, em.name)
	}

	if em.flags.CollectUserCount {
		em.users(users)
	}

	return nil
}

// readMultiV23 parses the self-describing version 2/3 layout: the
// 'HEADER,CLIENT_LIST,...' line declares the column set, and the needed
// columns are resolved by name so schema drift across daemon versions
// doesn't break parsing.
func readMultiV23(sc *bufio.Scanner, em emitter) error {
	fields := make([]string, multiV23MaxFields)

	var users uint64
	var foundHeader bool
	var idxName, idxRecv, idxSent int
	var columns int

	for sc.Scan() {
		n := splitFields(trimLine(sc.Text()), fields)

		if !foundHeader {
			if n < 2 || fields[0] != "HEADER" || fields[1] != "CLIENT_LIST" {
				continue
			}

			for i := 2; i < n; i++ {
				// data rows carry a single leading CLIENT_LIST token where
				// the header carries two, hence the offset by one
				switch fields[i] {
				case "Common Name":
					idxName = i - 1
				case "Bytes Received":
					idxRecv = i - 1
				case "Bytes Sent":
					idxSent = i - 1
				}
			}

			if idxName == 0 || idxRecv == 0 || idxSent == 0 {
				// a header without these columns can't be interpreted
				break
			}

			columns = n - 1
			foundHeader = true
			continue
		}

		// The first line that isn't a client row ends the section.
		// An empty section is fine.
		if n == 0 || fields[0] != "CLIENT_LIST" {
			break
		}

		if n != columns {
			return fmt.Errorf("%w: header declares %d columns, row has %d (instance %s)",
				ErrFieldCountMismatch, columns, n, em.name)
		}

		if em.flags.CollectUserCount {
			users++
		}
		if em.flags.CollectIndividualUsers {
			em.peerTraffic(fields[idxName], parseCounter(fields[idxRecv]), parseCounter(fields[idxSent]))
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}

	if !foundHeader {
		return fmt.Errorf("%w: usable CLIENT_LIST header never found (instance %s)", ErrUnrecognizedFormat, em.name)
	}

	if em.flags.CollectUserCount {
		em.users(users)
	}

	return nil
}
