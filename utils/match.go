package utils

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// EqualFold reports whether two identifiers are equal ignoring case. Hex
// addresses arrive from different sources with mixed checksum casing, so all
// address comparison goes through here.
func EqualFold(a, b string) bool {
	return strings.EqualFold(a, b)
}

// ContainsFold reports whether list contains target, ignoring case.
func ContainsFold(list []string, target string) bool {
	for _, s := range list {
		if strings.EqualFold(s, target) {
			return true
		}
	}
	return false
}

// ContainsAddress reports whether list contains the given address. The list
// entries may be in any casing and may omit the 0x prefix.
func ContainsAddress(list []string, addr common.Address) bool {
	hex := addr.Hex()
	for _, s := range list {
		if strings.EqualFold(s, hex) || strings.EqualFold("0x"+s, hex) {
			return true
		}
	}
	return false
}
