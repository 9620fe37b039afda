package entry

import (
	"github.com/nifty-labs/entries-program/block"
	"github.com/nifty-labs/entries-program/constants"
	"github.com/nifty-labs/entries-program/errs"
	"github.com/nifty-labs/entries-program/pkg/encodbin"
	"github.com/nifty-labs/entries-program/solana"
)

const DataType uint8 = 3

const (
	levelNameBytes = 32
	levelURIBytes  = 64
	statsSlots     = 20
)

// LevelMetadata is one of the ten per-level metadata slots an entry
// carries in-band: the Ki multiplier for that level, a display name and
// URI, and a per-level skill figure.
type LevelMetadata struct {
	KiFactor uint64
	Name     [levelNameBytes]byte
	URI      [levelURIBytes]byte
	Skill    uint16
}

func (l *LevelMetadata) marshal(enc *encodbin.Encoder) error {
	if err := enc.WriteUint64(l.KiFactor); err != nil {
		return err
	}
	if err := enc.WriteFixedBytes(l.Name[:], levelNameBytes); err != nil {
		return err
	}
	if err := enc.WriteFixedBytes(l.URI[:], levelURIBytes); err != nil {
		return err
	}
	return enc.WriteUint16(l.Skill)
}

func (l *LevelMetadata) unmarshal(dec *encodbin.Decoder) (err error) {
	if l.KiFactor, err = dec.ReadUint64(); err != nil {
		return err
	}
	name, err := dec.ReadFixedBytes(levelNameBytes)
	if err != nil {
		return err
	}
	copy(l.Name[:], name)
	uri, err := dec.ReadFixedBytes(levelURIBytes)
	if err != nil {
		return err
	}
	copy(l.URI[:], uri)
	l.Skill, err = dec.ReadUint16()
	return err
}

// Auction carries the auction-only fields; BeginTimestamp is zero until
// reveal starts the auction window.
type Auction struct {
	BeginTimestamp     int64
	HighestBidLamports uint64
	WinningBidPubkey   solana.PublicKey
}

// Staking carries the fields populated once an owned entry is staked.
type Staking struct {
	StakeAccount                             solana.PublicKey
	LastCommissionChargeStakeAccountLamports uint64
	LastKiHarvestStakeAccountLamports        uint64
}

// Metadata is the in-band, per-entry level progression state. Level1Ki is
// the base Ki cost of the first level-up; each subsequent level multiplies
// the running cost by 1.5x (see LevelUp in package stakeengine).
type Metadata struct {
	Level    uint8
	Level1Ki uint64
	Levels   [constants.LevelMetadataSlots]LevelMetadata
	Stats    [statsSlots]uint16
}

// SaleTerms are the immutable economic parameters copied forward from an
// entry's block at provisioning time (spec.md §3).
type SaleTerms struct {
	MinimumPriceLamports uint64
	HasAuction           bool
	Duration             uint32
	NonAuctionStartPrice uint64
}

// Entry is the decoded form of an Entry account.
type Entry struct {
	DataType         uint8
	EntryIndex       uint16
	Block            solana.PublicKey
	GroupNumber      uint32
	BlockNumber      uint32
	Mint             solana.PublicKey
	Token            solana.PublicKey
	MetaplexMetadata solana.PublicKey

	Config SaleTerms

	RevealSHA256          [32]byte
	RevealTimestamp       int64
	PurchasePriceLamports uint64
	RefundAwarded         bool

	Auction Auction
	Staked  Staking

	Commission uint16

	Metadata Metadata
}

// AccountSize is the fixed size of an Entry account.
const AccountSize = 1 + 2 + 32 + 4 + 4 + 32 + 32 + 32 +
	8 + 1 + 4 + 8 +
	32 + 8 + 8 + 1 +
	(8 + 8 + 32) +
	(32 + 8 + 8) +
	2 +
	1 + 8 + int(constants.LevelMetadataSlots)*(8+levelNameBytes+levelURIBytes+2) + statsSlots*2

// MarshalBinary encodes only the in-band metadata, in the same field order
// as MarshalWithEncoder, for use as the hash input in the commit-reveal
// protocol (reveal recomputes entry_commit over exactly these bytes).
func (m *Metadata) MarshalBinary() ([]byte, error) {
	return encodbin.MarshalBin(m)
}

func (m *Metadata) MarshalWithEncoder(enc *encodbin.Encoder) error {
	if err := enc.WriteUint8(m.Level); err != nil {
		return err
	}
	if err := enc.WriteUint64(m.Level1Ki); err != nil {
		return err
	}
	for i := range m.Levels {
		if err := m.Levels[i].marshal(enc); err != nil {
			return err
		}
	}
	for _, s := range m.Stats {
		if err := enc.WriteUint16(s); err != nil {
			return err
		}
	}
	return nil
}

func (e *Entry) IsRevealed() bool {
	return e.RevealSHA256 == [32]byte{}
}

func (e *Entry) IsPurchased() bool {
	return e.PurchasePriceLamports > 0
}

func Decode(data []byte) (*Entry, error) {
	dec := encodbin.NewBinDecoder(data)
	e := &Entry{}

	dataType, err := dec.ReadUint8()
	if err != nil {
		return nil, err
	}
	e.DataType = dataType
	if e.DataType != DataType {
		return nil, errs.WrongDataType
	}

	if e.EntryIndex, err = dec.ReadUint16(); err != nil {
		return nil, err
	}
	blockKey, err := dec.ReadPubkey()
	if err != nil {
		return nil, err
	}
	e.Block = solana.PublicKey(blockKey)
	if e.GroupNumber, err = dec.ReadUint32(); err != nil {
		return nil, err
	}
	if e.BlockNumber, err = dec.ReadUint32(); err != nil {
		return nil, err
	}
	mint, err := dec.ReadPubkey()
	if err != nil {
		return nil, err
	}
	e.Mint = solana.PublicKey(mint)
	token, err := dec.ReadPubkey()
	if err != nil {
		return nil, err
	}
	e.Token = solana.PublicKey(token)
	metadataPk, err := dec.ReadPubkey()
	if err != nil {
		return nil, err
	}
	e.MetaplexMetadata = solana.PublicKey(metadataPk)

	if e.Config.MinimumPriceLamports, err = dec.ReadUint64(); err != nil {
		return nil, err
	}
	if e.Config.HasAuction, err = dec.ReadBool(); err != nil {
		return nil, err
	}
	if e.Config.Duration, err = dec.ReadUint32(); err != nil {
		return nil, err
	}
	if e.Config.NonAuctionStartPrice, err = dec.ReadUint64(); err != nil {
		return nil, err
	}

	reveal, err := dec.ReadFixedBytes(32)
	if err != nil {
		return nil, err
	}
	copy(e.RevealSHA256[:], reveal)
	if e.RevealTimestamp, err = dec.ReadInt64(); err != nil {
		return nil, err
	}
	if e.PurchasePriceLamports, err = dec.ReadUint64(); err != nil {
		return nil, err
	}
	if e.RefundAwarded, err = dec.ReadBool(); err != nil {
		return nil, err
	}

	if e.Auction.BeginTimestamp, err = dec.ReadInt64(); err != nil {
		return nil, err
	}
	if e.Auction.HighestBidLamports, err = dec.ReadUint64(); err != nil {
		return nil, err
	}
	winningBid, err := dec.ReadPubkey()
	if err != nil {
		return nil, err
	}
	e.Auction.WinningBidPubkey = solana.PublicKey(winningBid)

	stakeAccount, err := dec.ReadPubkey()
	if err != nil {
		return nil, err
	}
	e.Staked.StakeAccount = solana.PublicKey(stakeAccount)
	if e.Staked.LastCommissionChargeStakeAccountLamports, err = dec.ReadUint64(); err != nil {
		return nil, err
	}
	if e.Staked.LastKiHarvestStakeAccountLamports, err = dec.ReadUint64(); err != nil {
		return nil, err
	}

	if e.Commission, err = dec.ReadUint16(); err != nil {
		return nil, err
	}

	if e.Metadata.Level, err = dec.ReadUint8(); err != nil {
		return nil, err
	}
	if e.Metadata.Level1Ki, err = dec.ReadUint64(); err != nil {
		return nil, err
	}
	for i := range e.Metadata.Levels {
		if err := e.Metadata.Levels[i].unmarshal(dec); err != nil {
			return nil, err
		}
	}
	for i := range e.Metadata.Stats {
		if e.Metadata.Stats[i], err = dec.ReadUint16(); err != nil {
			return nil, err
		}
	}

	return e, nil
}

func (e *Entry) Encode() ([]byte, error) {
	return encodbin.MarshalBin(e)
}

func (e *Entry) MarshalWithEncoder(enc *encodbin.Encoder) error {
	if err := enc.WriteUint8(DataType); err != nil {
		return err
	}
	if err := enc.WriteUint16(e.EntryIndex); err != nil {
		return err
	}
	if err := enc.WritePubkey(e.Block); err != nil {
		return err
	}
	if err := enc.WriteUint32(e.GroupNumber); err != nil {
		return err
	}
	if err := enc.WriteUint32(e.BlockNumber); err != nil {
		return err
	}
	if err := enc.WritePubkey(e.Mint); err != nil {
		return err
	}
	if err := enc.WritePubkey(e.Token); err != nil {
		return err
	}
	if err := enc.WritePubkey(e.MetaplexMetadata); err != nil {
		return err
	}
	if err := enc.WriteUint64(e.Config.MinimumPriceLamports); err != nil {
		return err
	}
	if err := enc.WriteBool(e.Config.HasAuction); err != nil {
		return err
	}
	if err := enc.WriteUint32(e.Config.Duration); err != nil {
		return err
	}
	if err := enc.WriteUint64(e.Config.NonAuctionStartPrice); err != nil {
		return err
	}
	if err := enc.WriteFixedBytes(e.RevealSHA256[:], 32); err != nil {
		return err
	}
	if err := enc.WriteInt64(e.RevealTimestamp); err != nil {
		return err
	}
	if err := enc.WriteUint64(e.PurchasePriceLamports); err != nil {
		return err
	}
	if err := enc.WriteBool(e.RefundAwarded); err != nil {
		return err
	}
	if err := enc.WriteInt64(e.Auction.BeginTimestamp); err != nil {
		return err
	}
	if err := enc.WriteUint64(e.Auction.HighestBidLamports); err != nil {
		return err
	}
	if err := enc.WritePubkey(e.Auction.WinningBidPubkey); err != nil {
		return err
	}
	if err := enc.WritePubkey(e.Staked.StakeAccount); err != nil {
		return err
	}
	if err := enc.WriteUint64(e.Staked.LastCommissionChargeStakeAccountLamports); err != nil {
		return err
	}
	if err := enc.WriteUint64(e.Staked.LastKiHarvestStakeAccountLamports); err != nil {
		return err
	}
	if err := enc.WriteUint16(e.Commission); err != nil {
		return err
	}
	return e.Metadata.MarshalWithEncoder(enc)
}

// NewFromBlock builds a freshly provisioned entry, copying the immutable
// economic parameters forward from its block (spec.md §3).
func NewFromBlock(b *block.Block, index uint16, blockAddr, mint, token, metaplexMetadata solana.PublicKey, reveal [32]byte) *Entry {
	return &Entry{
		DataType:         DataType,
		EntryIndex:       index,
		Block:            blockAddr,
		GroupNumber:      b.Config.GroupNumber,
		BlockNumber:      b.Config.BlockNumber,
		Mint:             mint,
		Token:            token,
		MetaplexMetadata: metaplexMetadata,
		Config: SaleTerms{
			MinimumPriceLamports: b.Config.MinimumPriceLamports,
			HasAuction:           b.Config.HasAuction,
			Duration:             b.Config.Duration,
			NonAuctionStartPrice: b.Config.FinalStartPriceLamports,
		},
		RevealSHA256: reveal,
		Commission:   b.Commission,
	}
}
