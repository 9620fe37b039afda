package runtime

import (
	"fmt"

	"github.com/nifty-labs/entries-program/pkg/encodbin"
	"github.com/nifty-labs/entries-program/solana"
	"github.com/nifty-labs/entries-program/stakeprogram"
)

// syncStakeAccountData writes key's StakeAccountState back into its
// account's raw Data bytes in the external stake program's own layout, so
// that callers decoding the account directly (every controller in
// stakeengine does exactly this) see the same state the simulation just
// produced.
func (h *Host) syncStakeAccountData(key solana.PublicKey) {
	info, ok := h.Accounts[key]
	if !ok {
		return
	}
	s, ok := h.StakeAccounts[key]
	if !ok {
		return
	}

	stake := &stakeprogram.Stake{}
	switch {
	case !s.Initialized:
		stake.State = stakeprogram.StateUninitialized
	case s.Delegated:
		stake.State = stakeprogram.StateStake
		stake.Meta = stakeprogram.Meta{Staker: s.Staker, Withdrawer: s.Withdrawer}
		stake.Delegation = stakeprogram.Delegation{VoterPubkey: s.VoterPubkey, Stake: s.Stake}
	default:
		stake.State = stakeprogram.StateInitialized
		stake.Meta = stakeprogram.Meta{Staker: s.Staker, Withdrawer: s.Withdrawer}
	}

	*info.Data = stake.Encode()
}

func (h *Host) invokeStake(accounts solana.AccountMetaSlice, data []byte) error {
	dec := encodbin.NewBinDecoder(data)
	tag, err := dec.ReadUint32()
	if err != nil {
		return err
	}

	switch tag {
	case 0: // Initialize
		staker, err := dec.ReadPubkey()
		if err != nil {
			return err
		}
		withdrawer, err := dec.ReadPubkey()
		if err != nil {
			return err
		}
		stakeAccount := accounts.Get(0).PublicKey
		h.StakeAccounts[stakeAccount] = &StakeAccountState{
			Initialized: true,
			Staker:      solana.PublicKey(staker),
			Withdrawer:  solana.PublicKey(withdrawer),
		}
		h.syncStakeAccountData(stakeAccount)
		return nil

	case 2: // DelegateStake
		stakeAccount := accounts.Get(0).PublicKey
		voteAccount := accounts.Get(1).PublicKey
		s, ok := h.StakeAccounts[stakeAccount]
		if !ok {
			return fmt.Errorf("runtime: host stake: no such stake account %s", stakeAccount)
		}
		info, err := h.mustAccount(stakeAccount)
		if err != nil {
			return err
		}
		s.Delegated = true
		s.VoterPubkey = voteAccount
		s.Stake = *info.Lamports
		h.syncStakeAccountData(stakeAccount)
		return nil

	case 5: // Deactivate
		stakeAccount := accounts.Get(0).PublicKey
		s, ok := h.StakeAccounts[stakeAccount]
		if !ok {
			return fmt.Errorf("runtime: host stake: no such stake account %s", stakeAccount)
		}
		s.Deactivated = true
		return nil

	case 3: // Split
		lamports, err := dec.ReadUint64()
		if err != nil {
			return err
		}
		source := accounts.Get(0).PublicKey
		destination := accounts.Get(1).PublicKey
		sourceInfo, err := h.mustAccount(source)
		if err != nil {
			return err
		}
		destInfo, err := h.mustAccount(destination)
		if err != nil {
			return err
		}
		if *sourceInfo.Lamports < lamports {
			return fmt.Errorf("runtime: host stake: split exceeds source balance")
		}
		*sourceInfo.Lamports -= lamports
		*destInfo.Lamports += lamports

		sourceState := h.StakeAccounts[source]
		destState, ok := h.StakeAccounts[destination]
		if !ok {
			destState = &StakeAccountState{}
			h.StakeAccounts[destination] = destState
		}
		if sourceState != nil {
			destState.Initialized = sourceState.Initialized
			destState.Staker = sourceState.Staker
			destState.Withdrawer = sourceState.Withdrawer
			destState.Delegated = sourceState.Delegated
			destState.VoterPubkey = sourceState.VoterPubkey
			if sourceState.Delegated {
				sourceState.Stake -= lamports
				destState.Stake = lamports
			}
		}
		h.syncStakeAccountData(source)
		h.syncStakeAccountData(destination)
		return nil

	case 7: // Merge
		destination := accounts.Get(0).PublicKey
		source := accounts.Get(1).PublicKey
		destInfo, err := h.mustAccount(destination)
		if err != nil {
			return err
		}
		sourceInfo, err := h.mustAccount(source)
		if err != nil {
			return err
		}
		*destInfo.Lamports += *sourceInfo.Lamports
		*sourceInfo.Lamports = 0

		if destState, ok := h.StakeAccounts[destination]; ok {
			if sourceState, ok := h.StakeAccounts[source]; ok {
				destState.Stake += sourceState.Stake
			}
		}
		delete(h.StakeAccounts, source)
		h.syncStakeAccountData(destination)
		return nil

	case 4: // Withdraw
		lamports, err := dec.ReadUint64()
		if err != nil {
			return err
		}
		stakeAccount := accounts.Get(0).PublicKey
		destination := accounts.Get(1).PublicKey
		stakeInfo, err := h.mustAccount(stakeAccount)
		if err != nil {
			return err
		}
		destInfo, err := h.mustAccount(destination)
		if err != nil {
			return err
		}
		if *stakeInfo.Lamports < lamports {
			return fmt.Errorf("runtime: host stake: withdraw exceeds balance")
		}
		*stakeInfo.Lamports -= lamports
		*destInfo.Lamports += lamports
		return nil

	case 1: // SetAuthority
		newAuthority, err := dec.ReadPubkey()
		if err != nil {
			return err
		}
		authorize, err := dec.ReadUint32()
		if err != nil {
			return err
		}
		stakeAccount := accounts.Get(0).PublicKey
		s, ok := h.StakeAccounts[stakeAccount]
		if !ok {
			return fmt.Errorf("runtime: host stake: no such stake account %s", stakeAccount)
		}
		if authorize == 0 {
			s.Staker = solana.PublicKey(newAuthority)
		} else {
			s.Withdrawer = solana.PublicKey(newAuthority)
		}
		h.syncStakeAccountData(stakeAccount)
		return nil

	default:
		return fmt.Errorf("runtime: host stake program: unknown instruction tag %d", tag)
	}
}
