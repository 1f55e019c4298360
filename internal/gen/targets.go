// Package gen produces identifiers and target addresses for verification
// runs. Generated targets are restricted to loopback and RFC 1918 space so a
// misconfigured environment can never scan outward.
package gen

import (
	"fmt"
	"math/rand"
	"net"

	"github.com/google/uuid"
)

var privateBlocks = []string{
	"10.0.0.0/8",
	"172.16.0.0/12",
	"192.168.0.0/16",
}

// SafeIP returns the loopback address, the only target a default test run
// should ever touch.
func SafeIP() string {
	return "127.0.0.1"
}

// SafeNetwork returns a random host address inside one of the RFC 1918
// private blocks.
func SafeNetwork() string {
	block := privateBlocks[rand.Intn(len(privateBlocks))]
	_, ipnet, err := net.ParseCIDR(block)
	if err != nil {
		return SafeIP()
	}

	ip := ipnet.IP.To4()
	mask := ipnet.Mask
	out := make(net.IP, 4)
	for i := range ip {
		out[i] = ip[i] | (byte(rand.Intn(256)) &^ mask[i])
	}
	// avoid network and broadcast host parts
	if out[3] == 0 {
		out[3] = 1
	}
	if out[3] == 255 {
		out[3] = 254
	}
	return out.String()
}

// IsSafeTarget reports whether addr parses as a loopback or RFC 1918
// address. Hostnames are rejected; the suite only submits literal IPs.
func IsSafeTarget(addr string) bool {
	ip := net.ParseIP(addr)
	if ip == nil {
		return false
	}
	if ip.IsLoopback() {
		return true
	}
	for _, block := range privateBlocks {
		_, ipnet, err := net.ParseCIDR(block)
		if err != nil {
			continue
		}
		if ipnet.Contains(ip) {
			return true
		}
	}
	return false
}

// TenantID returns a fresh test tenant identifier.
func TenantID() string {
	return "test-tenant-" + uuid.NewString()[:8]
}

// TestID returns a unique identifier with the given prefix, used for
// correlating suite-created artifacts.
func TestID(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, uuid.NewString())
}
