package program

import (
	"strconv"

	"github.com/nifty-labs/entries-program/block"
	"github.com/nifty-labs/entries-program/constants"
	"github.com/nifty-labs/entries-program/entry"
	"github.com/nifty-labs/entries-program/errs"
	"github.com/nifty-labs/entries-program/metadataprogram"
	"github.com/nifty-labs/entries-program/pda"
	"github.com/nifty-labs/entries-program/runtime"
	"github.com/nifty-labs/entries-program/solana"
	"github.com/nifty-labs/entries-program/tokenprogram"
)

// CreateBlock stands up a fresh, empty block account sized for its
// declared entry count and records its configuration and initial
// commission. Admin-only, matching
// original_source/program/admin/do_create_block.c.
func CreateBlock(ctx *runtime.Context, shepherd *pda.Shepherd, cfg *Config, adminKey, blockKey solana.PublicKey, blockBump uint8, groupNumber, blockNumber uint32, initialCommission uint16, config block.Configuration, bidRentExemptMinimum uint64) error {
	if adminKey != cfg.Admin {
		return errs.NotAdmin
	}
	config.GroupNumber = groupNumber
	config.BlockNumber = blockNumber

	b, err := block.New(config, bidRentExemptMinimum)
	if err != nil {
		return err
	}
	b.Commission = initialCommission

	size := uint64(block.AccountSize(config.TotalEntryCount))
	rent := solana.RentExemptMinimum(ctx.Rent, size)
	if err := shepherd.Ensure(blockKey, BlockSeeds(blockBump, groupNumber, blockNumber), shepherd.ProgramID, rent, size); err != nil {
		return err
	}

	data, err := b.Encode()
	if err != nil {
		return err
	}
	*ctx.Account(blockKey).Data = data
	return nil
}

// EntrySlot names every account a single newly provisioned entry needs:
// its own PDA, a freshly minted non-fungible mint, the program-owned token
// account holding its one unit, and its Metaplex metadata account.
// Grounded on original_source/program/admin/do_add_entries_to_block.c's
// "one quadruple of accounts per entry" convention (spec.md §6).
type EntrySlot struct {
	Entry      solana.PublicKey
	EntryBump  uint8
	Mint       solana.PublicKey
	MintBump   uint8
	Token      solana.PublicKey
	TokenBump  uint8
	Metadata   solana.PublicKey
	Commitment [32]byte
}

// entryMintAccountSize mirrors the external mint account's external size;
// it is the same fixed layout Initialize uses for the Ki mint.
const entryMintAccountSize = constants.TokenMintAccountSize

// AddEntriesToBlock idempotently provisions a contiguous run of entries
// starting at firstEntry: for each, creates its mint, its holding token
// account, its Metaplex metadata (named from uri with the entry index
// appended, per spec.md §4.4), and the entry account itself storing the
// supplied commitment hash pending reveal. Admin-only, matching
// original_source/program/admin/do_add_entries_to_block.c.
func AddEntriesToBlock(ctx *runtime.Context, shepherd *pda.Shepherd, cfg *Config, adminKey, blockKey, secondCreator, fundingKey, authorityKey solana.PublicKey, authorityBump uint8, b *block.Block, firstEntry uint16, uri string, slots []EntrySlot) error {
	if adminKey != cfg.Admin {
		return errs.NotAdmin
	}
	if len(slots) == 0 {
		return errs.WrongAccountCount
	}

	now := ctx.Clock.UnixTimestamp
	epoch := ctx.Clock.Epoch

	return b.AddEntries(firstEntry, uint16(len(slots)), now, epoch, func(index uint16) error {
		slot := slots[index-firstEntry]

		mintRent := solana.RentExemptMinimum(ctx.Rent, entryMintAccountSize)
		if err := shepherd.Ensure(slot.Mint, MintSeeds(slot.MintBump, b.Config.GroupNumber, b.Config.BlockNumber, index), solana.TokenProgramID, mintRent, entryMintAccountSize); err != nil {
			return err
		}
		mintIx := tokenprogram.NewInitializeMint2Instruction(0, authorityKey, nil, slot.Mint)
		if err := invoke(ctx, solana.TokenProgramID, mintIx); err != nil {
			return err
		}

		const tokenAccountSize = 165
		tokenRent := solana.RentExemptMinimum(ctx.Rent, tokenAccountSize)
		if err := shepherd.Ensure(slot.Token, TokenSeeds(slot.TokenBump, slot.Mint), solana.TokenProgramID, tokenRent, tokenAccountSize); err != nil {
			return err
		}
		initTokenIx := tokenprogram.NewInitializeAccount3Instruction(authorityKey, slot.Token, slot.Mint)
		if err := invoke(ctx, solana.TokenProgramID, initTokenIx); err != nil {
			return err
		}
		mintToIx := tokenprogram.NewMintToCheckedInstruction(1, 0, slot.Mint, slot.Token, authorityKey)
		if err := invoke(ctx, solana.TokenProgramID, mintToIx, AuthoritySeeds(authorityBump)); err != nil {
			return err
		}

		metaIx := metadataprogram.NewCreateMetadataAccountInstructionWithCreators(
			entryName(index), entryTokenSymbol, entryURI(uri, index),
			slot.Metadata, slot.Mint, authorityKey, fundingKey, authorityKey,
			adminKey, secondCreator,
		)
		if err := invoke(ctx, solana.MetaplexMetadataProgramID, metaIx, AuthoritySeeds(authorityBump)); err != nil {
			return err
		}

		// Revoke the mint authority once the single unit has been minted, so
		// the mint can never be inflated past one token: true NFT semantics.
		revokeIx := tokenprogram.NewSetAuthorityInstruction(tokenprogram.AuthorityTypeMintTokens, nil, slot.Mint, authorityKey)
		if err := invoke(ctx, solana.TokenProgramID, revokeIx, AuthoritySeeds(authorityBump)); err != nil {
			return err
		}

		entrySize := uint64(entry.AccountSize)
		entryRent := solana.RentExemptMinimum(ctx.Rent, entrySize)
		if err := shepherd.Ensure(slot.Entry, EntrySeeds(slot.EntryBump, slot.Mint), shepherd.ProgramID, entryRent, entrySize); err != nil {
			return err
		}
		e := entry.NewFromBlock(b, index, blockKey, slot.Mint, slot.Token, slot.Metadata, slot.Commitment)
		e.Metadata.Level1Ki = defaultLevel1Ki
		data, err := e.Encode()
		if err != nil {
			return err
		}
		*ctx.Account(slot.Entry).Data = data
		return nil
	})
}

const (
	entryTokenSymbol = "ENTRY"
	defaultLevel1Ki  = 100 * constants.KiDecimalScale
)

func entryName(index uint16) string {
	return "Entry #" + strconv.Itoa(int(index))
}

func entryURI(uri string, index uint16) string {
	return uri + strconv.Itoa(int(index)) + ".json"
}
