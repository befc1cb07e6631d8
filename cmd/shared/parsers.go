package shared

import (
	"fmt"
	"regexp"
	"strconv"

	"netsock/pkg/config"
)

var transportRe = regexp.MustCompile(`^(tcp|udp)://(\[[0-9a-fA-F:.%\w]+\]|[^:\[\]]*):(\d+)$`)

// ParseTransport parses a transport string in the format "protocol://host:port"
// where protocol is tcp or udp. IPv6 literals are written in brackets. The
// host can be empty or "*" to bind to all interfaces.
func ParseTransport(s string) (proto config.Protocol, host string, port int, err error) {
	matches := transportRe.FindStringSubmatch(s)
	if len(matches) != 4 {
		err = parsingError(s)
		return
	}

	switch matches[1] {
	case "tcp":
		proto = config.ProtoTCP
	case "udp":
		proto = config.ProtoUDP
	}

	host = matches[2]
	if host == "*" {
		host = ""
	}
	if len(host) > 1 && host[0] == '[' {
		host = host[1 : len(host)-1]
	}

	port, err = strconv.Atoi(matches[3])
	if err != nil || port < 0 || port > 65535 {
		err = parsingError(s)
		return
	}

	return
}

func parsingError(s string) error {
	return fmt.Errorf("parsing %s: format should be 'protocol://host:port', where protocol = tcp|udp", s)
}
