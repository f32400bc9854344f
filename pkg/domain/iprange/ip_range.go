package iprange

import (
	"encoding/binary"
	"fmt"
	"net/netip"
	"slices"
	"strings"
	"time"
)

// IPRange is one flattened provider range known to the store. Rows are
// never physically removed: once the provider stops publishing an address
// the row is marked deleted and stays deleted.
type IPRange struct {
	Component string    `json:"component" gorm:"primaryKey"`
	Region    string    `json:"region" gorm:"primaryKey"`
	Address   string    `json:"address" gorm:"primaryKey"`
	StartIP   string    `json:"start_ip"`
	EndIP     string    `json:"end_ip"`
	Deleted   bool      `json:"deleted"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r IPRange) TableName() string {
	return "public.ip_ranges"
}

// Key identifies a range independently of its lifecycle flags.
type Key struct {
	Component string `json:"component"`
	Region    string `json:"region"`
	Address   string `json:"address"`
}

func (r IPRange) Key() Key {
	return Key{Component: r.Component, Region: r.Region, Address: r.Address}
}

// RuleString renders the range the way the firewall endpoint expects:
// "start-end", or the single address when the range covers one IP.
func (r IPRange) RuleString() string {
	if r.StartIP == r.EndIP {
		return r.StartIP
	}
	return r.StartIP + "-" + r.EndIP
}

// Bounds returns the inclusive first and last IPv4 address covered by
// address, which may be a bare IP or a CIDR prefix. IPv6 is rejected,
// mirroring the provider feed flattening.
func Bounds(address string) (netip.Addr, netip.Addr, error) {
	if prefix, err := netip.ParsePrefix(address); err == nil {
		if !prefix.Addr().Is4() {
			return netip.Addr{}, netip.Addr{}, fmt.Errorf("address %q is not IPv4", address)
		}
		prefix = prefix.Masked()
		return prefix.Addr(), lastAddr(prefix), nil
	}
	addr, err := netip.ParseAddr(address)
	if err != nil {
		return netip.Addr{}, netip.Addr{}, fmt.Errorf("parse address %q: %w", address, err)
	}
	if !addr.Is4() {
		return netip.Addr{}, netip.Addr{}, fmt.Errorf("address %q is not IPv4", address)
	}
	return addr, addr, nil
}

func lastAddr(prefix netip.Prefix) netip.Addr {
	first := prefix.Addr().As4()
	v := uint64(binary.BigEndian.Uint32(first[:]))
	v |= 1<<(32-uint(prefix.Bits())) - 1
	var last [4]byte
	binary.BigEndian.PutUint32(last[:], uint32(v))
	return netip.AddrFrom4(last)
}

// SortByStart orders ranges by numeric start address ascending so that
// payloads derived from the same set are always byte-identical.
func SortByStart(ranges []IPRange) {
	slices.SortFunc(ranges, func(a, b IPRange) int {
		x, errX := netip.ParseAddr(a.StartIP)
		y, errY := netip.ParseAddr(b.StartIP)
		if errX != nil || errY != nil {
			return strings.Compare(a.StartIP, b.StartIP)
		}
		if c := x.Compare(y); c != 0 {
			return c
		}
		return strings.Compare(a.Address, b.Address)
	})
}
