package udppayload

// Code generated from the nmap-services UDP payload catalogue; edit the
// generator, not this file.

var table = map[uint16][]byte{
	// DNS: a minimal standard query for "www.google.com" type A.
	53: dnsQuery,

	// NTP: client mode request, version 3, all-zero timestamps.
	123: ntpRequest,

	// SNMP: a GetRequest against the "public" community's sysDescr OID.
	161: snmpGetRequest,

	// NetBIOS name service: a NBSTAT query, commonly used by discovery tools.
	137: netbiosNameQuery,
}

var dnsQuery = []byte{
	0x12, 0x34, // transaction ID
	0x01, 0x00, // standard query, recursion desired
	0x00, 0x01, // questions: 1
	0x00, 0x00, // answer RRs: 0
	0x00, 0x00, // authority RRs: 0
	0x00, 0x00, // additional RRs: 0
	3, 'w', 'w', 'w',
	6, 'g', 'o', 'o', 'g', 'l', 'e',
	3, 'c', 'o', 'm',
	0,          // end of name
	0x00, 0x01, // type A
	0x00, 0x01, // class IN
}

var ntpRequest = func() []byte {
	b := make([]byte, 48)
	b[0] = 0x1b // LI=0, VN=3, Mode=3 (client)
	return b
}()

var snmpGetRequest = []byte{
	0x30, 0x29, 0x02, 0x01, 0x00,
	0x04, 0x06, 'p', 'u', 'b', 'l', 'i', 'c',
	0xa0, 0x1c,
	0x02, 0x04, 0x7a, 0x69, 0x67, 0x71,
	0x02, 0x01, 0x00,
	0x02, 0x01, 0x00,
	0x30, 0x0e, 0x30, 0x0c,
	0x06, 0x08, 0x2b, 0x06, 0x01, 0x02, 0x01, 0x01, 0x01, 0x00,
	0x05, 0x00,
}

var netbiosNameQuery = []byte{
	0x82, 0x28, // transaction ID
	0x00, 0x00, // flags
	0x00, 0x01, // questions: 1
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x20, 'C', 'K', 'A', 'A', 'A', 'A', 'A', 'A', 'A', 'A', 'A', 'A', 'A', 'A',
	'A', 'A', 'A', 'A', 'A', 'A', 'A', 'A', 'A', 'A', 'A', 'A', 'A', 'A', 'A',
	'A', 'A', 'A', 0x00,
	0x00, 0x21, // type NBSTAT
	0x00, 0x01, // class IN
}
