// Package pda implements the account shepherd (C4): an idempotent
// create-or-resize-or-reassign primitive used everywhere this program
// needs to stand up one of its own program-derived accounts. Grounded on
// original_source/program/util/util_accounts.c's create_account/
// create_pda pair.
package pda

import (
	"github.com/nifty-labs/entries-program/errs"
	"github.com/nifty-labs/entries-program/solana"
	"github.com/nifty-labs/entries-program/systemprogram"

	"github.com/nifty-labs/entries-program/runtime"
)

// Shepherd funds, allocates, and assigns an account to this program in one
// idempotent call, matching spec.md §4.3.
type Shepherd struct {
	Ctx        *runtime.Context
	ProgramID  solana.PublicKey
	FundingKey solana.PublicKey
}

// Ensure funds, allocates, and assigns `target` so that it ends up exactly
// `space` bytes, owned by `owner`, holding at least `lamports`. If the
// account already exists it is topped up and resized/reassigned in place;
// if it does not exist, seeds (with the trailing bump byte already
// included) are used to sign a CreateAccount CPI.
func (s *Shepherd) Ensure(target solana.PublicKey, seeds runtime.SignerSeeds, owner solana.PublicKey, lamports, space uint64) error {
	info := s.Ctx.Account(target)

	if info == nil || info.IsEmptyData() {
		return s.create(target, seeds, owner, lamports, space)
	}

	funding := s.Ctx.Account(s.FundingKey)
	if funding == nil {
		return errs.AccountNotFound
	}

	if info.GetLamports() < lamports {
		top := lamports - info.GetLamports()
		if err := s.transfer(target, top); err != nil {
			return err
		}
	}

	if uint64(info.DataLen()) != space {
		if solana.IsSystemProgram(info.Owner) {
			if err := s.allocate(target, seeds, space); err != nil {
				return err
			}
		} else if info.Owner == s.ProgramID {
			info.SetDataLen(int(space))
		} else {
			return errs.InvalidResize
		}
	}

	if info.Owner != owner {
		if !solana.IsSystemProgram(info.Owner) {
			return errs.InvalidResize
		}
		if err := s.assign(target, seeds, owner); err != nil {
			return err
		}
	}

	return nil
}

func (s *Shepherd) create(target solana.PublicKey, seeds runtime.SignerSeeds, owner solana.PublicKey, lamports, space uint64) error {
	ix := systemprogram.NewCreateAccountInstruction(lamports, space, owner, s.FundingKey, target)
	data, err := ix.Data()
	if err != nil {
		return err
	}
	var signerSeeds []runtime.SignerSeeds
	if len(seeds) > 0 {
		signerSeeds = append(signerSeeds, seeds)
	}
	if err := s.Ctx.Invoker.Invoke(solana.SystemProgramID, ix.Accounts(), data, signerSeeds...); err != nil {
		return errs.CreateAccountFailed
	}
	return nil
}

// transfer funds the top-up directly from the funding account; it never
// needs the target's own seeds, since the funding account signs for
// itself.
func (s *Shepherd) transfer(target solana.PublicKey, lamports uint64) error {
	ix := systemprogram.NewTransferInstruction(lamports, s.FundingKey, target)
	data, err := ix.Data()
	if err != nil {
		return err
	}
	if err := s.Ctx.Invoker.Invoke(solana.SystemProgramID, ix.Accounts(), data); err != nil {
		return errs.CreateAccountFailed
	}
	return nil
}

func (s *Shepherd) allocate(target solana.PublicKey, seeds runtime.SignerSeeds, space uint64) error {
	ix := systemprogram.NewAllocateInstruction(space, target)
	data, err := ix.Data()
	if err != nil {
		return err
	}
	var signerSeeds []runtime.SignerSeeds
	if len(seeds) > 0 {
		signerSeeds = append(signerSeeds, seeds)
	}
	if err := s.Ctx.Invoker.Invoke(solana.SystemProgramID, ix.Accounts(), data, signerSeeds...); err != nil {
		return errs.CreateAccountFailed
	}
	return nil
}

func (s *Shepherd) assign(target solana.PublicKey, seeds runtime.SignerSeeds, owner solana.PublicKey) error {
	ix := systemprogram.NewAssignInstruction(owner, target)
	data, err := ix.Data()
	if err != nil {
		return err
	}
	var signerSeeds []runtime.SignerSeeds
	if len(seeds) > 0 {
		signerSeeds = append(signerSeeds, seeds)
	}
	if err := s.Ctx.Invoker.Invoke(solana.SystemProgramID, ix.Accounts(), data, signerSeeds...); err != nil {
		return errs.CreateAccountFailed
	}
	return nil
}
