// Package errs defines the program's typed exit codes. Every instruction
// entrypoint returns either nil (success) or one of these, never a bare
// string or a panic, so that every non-zero outcome is distinguishable by
// code the way spec.md §6 ("Exit codes") and §7 ("Error Handling Design")
// require.
package errs

import "fmt"

// Code is a program exit code. The numeric ranges mirror spec.md §6:
// 1000-1099 protocol (shape) faults, 1100-1199 per-account faults,
// 1200-1299 per-account permission faults, 1300-1399 per-field data
// faults.
type Code int

func (c Code) Error() string {
	if name, ok := codeNames[c]; ok {
		return fmt.Sprintf("%s (%d)", name, int(c))
	}
	return fmt.Sprintf("error code %d", int(c))
}

// Shape faults (1000-1099).
const (
	InvalidInstructionData Code = 1000 + iota
	UnknownInstruction
	WrongAccountCount
	NotWritable
	NotSigner
)

// Per-account identity faults (1100-1199). InvalidAccount_First is the base
// of a per-index family: InvalidAccount_First+index names the offending
// account by position.
const (
	InvalidAccount_First Code = 1100 + iota
)

// WrongOwner and WrongDataType are common identity faults raised against a
// specific account; callers combine them with InvalidAccount_First+index
// when they need to name the account, or use these directly when only one
// account of that kind is ever in play.
const (
	WrongOwner Code = 1190 + iota
	WrongDataType
	AccountNotFound
	InvalidStakeAccount
)

// Authorization faults (1200-1299).
const (
	NotSuperuser Code = 1200 + iota
	NotAdmin
	NotTokenOwner
	NotBidder
)

// State faults (1300-1399, field/state data faults).
const (
	BlockNotComplete Code = 1300 + iota
	BlockNotRevealable
	AlreadyRevealed
	EntryInAuction
	EntryWaitingToBeClaimed
	AlreadyOwned
	CannotClaimBid
	NotInAuction
	BidWon
	NotStaked
	AlreadyStaked
	InvalidResize
	CreateAccountFailed
	InvalidHash
	PriceTooHigh
	BidTooLow
	InsufficientFunds
	CommissionAlreadySetThisEpoch
	CommissionTooHigh
	WhitelistFull
	WhitelistRequired
	NotInWhitelist
	WhitelistNotEmpty
	WhitelistStillActive
	InvalidBlockConfiguration
	MysteryCountExceedsTotal
	MysteryStartPriceTooHigh
	MinimumPriceTooLow
	FinalStartPriceTooLow
	FinalStartPriceTooHigh
	InvalidDuration
	FailedToMoveStake
	FailedToMoveStakeOut
	FailedToDelegate
	FailedToGetMinimumStakeDelegation
	FailedToGetClock
	FailedToGetRent
	BlockAlreadyExists
)

var codeNames = map[Code]string{
	InvalidInstructionData:            "InvalidInstructionData",
	UnknownInstruction:                "UnknownInstruction",
	WrongAccountCount:                 "WrongAccountCount",
	NotWritable:                       "NotWritable",
	NotSigner:                         "NotSigner",
	InvalidAccount_First:              "InvalidAccount_First",
	WrongOwner:                        "WrongOwner",
	WrongDataType:                     "WrongDataType",
	AccountNotFound:                   "AccountNotFound",
	InvalidStakeAccount:               "InvalidStakeAccount",
	NotSuperuser:                      "NotSuperuser",
	NotAdmin:                          "NotAdmin",
	NotTokenOwner:                     "NotTokenOwner",
	NotBidder:                         "NotBidder",
	BlockNotComplete:                  "BlockNotComplete",
	BlockNotRevealable:                "BlockNotRevealable",
	AlreadyRevealed:                   "AlreadyRevealed",
	EntryInAuction:                    "EntryInAuction",
	EntryWaitingToBeClaimed:           "EntryWaitingToBeClaimed",
	AlreadyOwned:                      "AlreadyOwned",
	CannotClaimBid:                    "CannotClaimBid",
	NotInAuction:                      "NotInAuction",
	BidWon:                            "BidWon",
	NotStaked:                         "NotStaked",
	AlreadyStaked:                     "AlreadyStaked",
	InvalidResize:                     "InvalidResize",
	CreateAccountFailed:               "CreateAccountFailed",
	InvalidHash:                       "InvalidHash",
	PriceTooHigh:                      "PriceTooHigh",
	BidTooLow:                         "BidTooLow",
	InsufficientFunds:                 "InsufficientFunds",
	CommissionAlreadySetThisEpoch:     "CommissionAlreadySetThisEpoch",
	CommissionTooHigh:                 "CommissionTooHigh",
	WhitelistFull:                     "WhitelistFull",
	WhitelistRequired:                 "WhitelistRequired",
	NotInWhitelist:                    "NotInWhitelist",
	WhitelistNotEmpty:                 "WhitelistNotEmpty",
	WhitelistStillActive:              "WhitelistStillActive",
	InvalidBlockConfiguration:         "InvalidBlockConfiguration",
	MysteryCountExceedsTotal:          "MysteryCountExceedsTotal",
	MysteryStartPriceTooHigh:          "MysteryStartPriceTooHigh",
	MinimumPriceTooLow:                "MinimumPriceTooLow",
	FinalStartPriceTooLow:             "FinalStartPriceTooLow",
	FinalStartPriceTooHigh:            "FinalStartPriceTooHigh",
	InvalidDuration:                   "InvalidDuration",
	FailedToMoveStake:                 "FailedToMoveStake",
	FailedToMoveStakeOut:              "FailedToMoveStakeOut",
	FailedToDelegate:                  "FailedToDelegate",
	FailedToGetMinimumStakeDelegation: "FailedToGetMinimumStakeDelegation",
	FailedToGetClock:                  "FailedToGetClock",
	FailedToGetRent:                   "FailedToGetRent",
	BlockAlreadyExists:                "BlockAlreadyExists",
}

// InvalidAccount returns the per-index identity fault for the account at
// position index in the instruction's declared account list.
func InvalidAccount(index int) Code {
	return InvalidAccount_First + Code(index)
}
