package p2p

import (
	"errors"
	"fmt"
	"net/url"
)

const (
	SCHEME       = "http"
	CHAIN_PATH   = "/chain"
	ADDRESS_FMT  = "localhost:%s"
	DEFAULT_PORT = "5000"
	schemePrefix = SCHEME + "://"
)

var ErrInvalidAddress = errors.New("invalid peer address")

// NetworkLocation extracts host:port from a peer URL such as
// "http://192.168.1.5:5000". An address without a network location,
// bare "host:port" included, is invalid.
func NetworkLocation(address string) (string, error) {
	u, err := url.Parse(address)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidAddress, address)
	}
	return u.Host, nil
}

func ChainURL(peer string) string {
	return schemePrefix + peer + CHAIN_PATH
}

func LocalAddress(port string) string {
	return fmt.Sprintf(ADDRESS_FMT, port)
}
