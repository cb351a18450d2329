package ledger

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"strconv"

	tbtypes "github.com/tigerbeetle/tigerbeetle-go/pkg/types"
)

const (
	fundingAccountPrefix     = "acct:funding:"
	participantAccountPrefix = "acct:participant:"
	bonusTransferPrefix      = "xfer:bonus:"
)

// ID128 deterministically maps a string label to a TigerBeetle Uint128.
func ID128(label string) tbtypes.Uint128 {
	sum := sha256.Sum256([]byte(label))
	var raw [16]byte
	copy(raw[:], sum[:16])
	if isZero(raw) || isMax(raw) {
		raw[0] ^= 0x01
	}
	return tbtypes.BytesToUint128(raw)
}

// FundingAccountID returns the account bonuses are paid from.
func FundingAccountID(name string) tbtypes.Uint128 {
	return ID128(fundingAccountPrefix + name)
}

// ParticipantAccountID returns the account credited with a participant's bonus.
func ParticipantAccountID(funding, participantID string) tbtypes.Uint128 {
	return ID128(scopedLabel(participantAccountPrefix, funding, participantID))
}

// BonusTransferID returns the single transfer id a participant can be paid
// under for one funding account. Re-posting the same payout is a no-op.
func BonusTransferID(funding, participantID string) tbtypes.Uint128 {
	return ID128(scopedLabel(bonusTransferPrefix, funding, participantID))
}

// scopedLabel length-prefixes the funding name so no (funding, participant) pair
// shares a label with another split of the same text.
func scopedLabel(prefix, funding, participantID string) string {
	return prefix + strconv.Itoa(len(funding)) + ":" + funding + ":" + participantID
}

// Uint128ToUint64 converts a TigerBeetle Uint128 to uint64 and panics on overflow.
func Uint128ToUint64(value tbtypes.Uint128) uint64 {
	bytes := value.Bytes()
	high := binary.LittleEndian.Uint64(bytes[8:])
	if high != 0 {
		panic(fmt.Errorf("uint128 overflows uint64"))
	}
	return binary.LittleEndian.Uint64(bytes[:8])
}

func isZero(raw [16]byte) bool {
	for _, b := range raw[:] {
		if b != 0 {
			return false
		}
	}
	return true
}

func isMax(raw [16]byte) bool {
	for _, b := range raw[:] {
		if b != 0xFF {
			return false
		}
	}
	return true
}
