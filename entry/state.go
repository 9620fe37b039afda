// Package entry implements the per-entry data store and the pure
// get_entry_state derivation (C8). Grounded on original_source's
// nifty_program/inc/entry.h and spec.md §3/§4.6.
package entry

// State is one of the nine states an entry can occupy, derived purely from
// stored fields and the wall clock; no background job ever transitions an
// entry, every transition is a side effect of a controller call.
type State int

const (
	PreRevealUnowned State = iota
	PreRevealOwned
	WaitingForRevealUnowned
	WaitingForRevealOwned
	InNormalAuction
	WaitingToBeClaimed
	Unowned
	Owned
	OwnedAndStaked
)

func (s State) String() string {
	switch s {
	case PreRevealUnowned:
		return "PreRevealUnowned"
	case PreRevealOwned:
		return "PreRevealOwned"
	case WaitingForRevealUnowned:
		return "WaitingForRevealUnowned"
	case WaitingForRevealOwned:
		return "WaitingForRevealOwned"
	case InNormalAuction:
		return "InNormalAuction"
	case WaitingToBeClaimed:
		return "WaitingToBeClaimed"
	case Unowned:
		return "Unowned"
	case Owned:
		return "Owned"
	case OwnedAndStaked:
		return "OwnedAndStaked"
	default:
		return "Unknown"
	}
}

// GetEntryState is the total pure function from spec.md §4.6's table. The
// caller must already know the block is complete; revealability of an
// unrevealed entry is still evaluated through blockRevealable.
func GetEntryState(e *Entry, blockRevealable bool, nowUnix int64) State {
	revealed := e.IsRevealed()
	purchased := e.IsPurchased()

	if revealed {
		if purchased {
			if e.Staked.StakeAccount.IsZero() {
				return Owned
			}
			return OwnedAndStaked
		}

		if e.Config.HasAuction && e.Auction.BeginTimestamp != 0 && nowUnix < e.Auction.BeginTimestamp+int64(e.Config.Duration) {
			return InNormalAuction
		}
		if e.Auction.HighestBidLamports > 0 {
			return WaitingToBeClaimed
		}
		return Unowned
	}

	if purchased {
		if blockRevealable {
			return WaitingForRevealOwned
		}
		return PreRevealOwned
	}
	if blockRevealable {
		return WaitingForRevealUnowned
	}
	return PreRevealUnowned
}
