// Package udppayload holds the UDP probe bodies the scan engine sends
// for ports with a well-known protocol, so a probe doesn't rely solely
// on the remote host sending something back unprompted. Built once at
// init from the generated table in payloads_table.go; treated as a
// read-only process-lifetime singleton.
package udppayload

// ForPort returns the payload to send for dst, and whether one is
// registered. The first matching entry wins; ports never present in
// the table get no payload, and the probe falls back to a blank
// datagram (RFC 768 permits a zero-length UDP payload).
func ForPort(dst uint16) ([]byte, bool) {
	payload, ok := table[dst]
	return payload, ok
}
