package utils

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

func IsValidEthereumAddress(address string) bool {
	return common.IsHexAddress(address)
}

// NormalizeAddress returns the EIP-55 checksum form of a hex address so the
// same wallet cannot be linked twice with different casing. Non-EVM addresses
// are returned trimmed but otherwise untouched.
func NormalizeAddress(address string) string {
	address = strings.TrimSpace(address)
	if !IsValidEthereumAddress(address) {
		return address
	}
	return common.HexToAddress(address).Hex()
}
