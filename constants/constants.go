// Package constants centralizes every tunable value named in the
// specification: PDA address-class prefixes, curve constants, and economic
// caps, mirroring the original implementation's single constants file
// rather than scattering magic numbers through the controllers.
package constants

// LamportsPerSol is the fixed conversion rate between the native balance
// unit and one whole unit of the host chain's token.
const LamportsPerSol uint64 = 1_000_000_000

// PDA address-class prefixes (spec.md §6, "Program-derived addresses").
const (
	PrefixConfig         byte = 1
	PrefixAuthority      byte = 2
	PrefixMasterStake    byte = 3
	PrefixKiMint         byte = 4
	PrefixMint           byte = 5
	PrefixToken          byte = 6
	PrefixBid            byte = 9
	PrefixBridge         byte = 10
	PrefixBidMarkerMint  byte = 11
	PrefixBidMarkerToken byte = 12
	PrefixWhitelist      byte = 13
	PrefixBlock          byte = 14
	PrefixEntry          byte = 15
	PrefixMasterSplit    byte = 16
)

// Whitelist capacity (spec.md §3, "Whitelist").
const WhitelistMaxEntries = 300

// MaxLevel is the highest entry level (spec.md §3, "level ∈ [0,8]").
const MaxLevel = 8

// LevelMetadataSlots is the number of LevelMetadata slots carried in every
// entry's in-band metadata (spec.md §3).
const LevelMetadataSlots = 10

// CommissionScale is the fixed-point denominator commission fractions are
// expressed against (spec.md §4.7, "≈2% of the 0xFFFF binary fraction").
const CommissionScale uint64 = 0xFFFF

// MaxCommissionIncreasePerEpoch is the largest amount block.commission may
// rise by in a single epoch (spec.md §4.7: "new ≤ old + 1310").
const MaxCommissionIncreasePerEpoch uint16 = 1310

// MaxMysteryStartPriceLamports and MaxFinalStartPriceLamports bound the
// sale-curve starting prices a block configuration may declare (spec.md
// §3: "≤100,000·LAMPORTS_PER_SOL").
const (
	MaxMysteryStartPriceLamports = 100_000 * LamportsPerSol
	MaxFinalStartPriceLamports   = 100_000 * LamportsPerSol
)

// KiDiminishingReturnsConstant is the "s" constant in the Ki harvest curve
// (spec.md §4.10, §9): h = (h0*s - (h0^2/s)^2) / (10*s).
const KiDiminishingReturnsConstant uint64 = 106666

// KiDecimalScale respects the one-decimal-place fungible metadata
// requirement on the Ki mint (spec.md §4.10: "multiply by 10").
const KiDecimalScale uint64 = 10

// KiDecimals is the Ki mint's decimal place count; KiDecimalScale is
// 10^KiDecimals.
const KiDecimals uint8 = 1

// MasterStakeAccountMinLamports is the minimum balance the master stake
// account must retain after any split (spec.md §4.11).
const MasterStakeAccountMinLamports = (2*1 + 1) * LamportsPerSol

// BidMarkerUnits and BidMarkerDecimals describe the "bid marker" fungible
// token minted on every bid (spec.md §4.9: "10 units, one decimal").
const (
	BidMarkerUnits    uint64 = 10
	BidMarkerDecimals uint8  = 1
)

// TokenMintAccountSize is the fixed byte size of an external SPL-token-style
// mint account, needed by Initialize to size the Ki mint it creates directly
// and by PlaceBid to size the bid-marker mint it creates on a first bid (as
// opposed to the per-entry mints, which are sized the same way by
// AddEntriesToBlock).
const TokenMintAccountSize = 82

// KiTokenName, KiTokenSymbol and KiTokenMetadataURI name the Ki mint's
// Metaplex metadata, mirroring original_source/program/inc/constants.h's
// KI_TOKEN_NAME/KI_TOKEN_SYMBOL/KI_TOKEN_METADATA_URI.
const (
	KiTokenName        = "Ki"
	KiTokenSymbol      = "KI"
	KiTokenMetadataURI = "https://www.shinobi-systems.com/nifty_stakes/ki.json"
)

// BidMarkerTokenName, BidMarkerTokenSymbol and BidMarkerTokenMetadataURI name
// the bid-marker mint's Metaplex metadata, mirroring
// original_source/program/inc/constants.h's BID_MARKER_TOKEN_* constants.
const (
	BidMarkerTokenName        = "Shinobi Auction Bid Marker"
	BidMarkerTokenSymbol      = "SHIN-BID"
	BidMarkerTokenMetadataURI = "https://www.shinobi-systems.com/nifty_stakes/bid_marker.json"
)
