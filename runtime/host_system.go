package runtime

import (
	"fmt"

	"github.com/nifty-labs/entries-program/pkg/encodbin"
	"github.com/nifty-labs/entries-program/solana"
)

func (h *Host) invokeSystem(accounts solana.AccountMetaSlice, data []byte) error {
	dec := encodbin.NewBinDecoder(data)
	tag, err := dec.ReadUint32()
	if err != nil {
		return err
	}

	switch tag {
	case 0: // CreateAccount
		lamports, err := dec.ReadUint64()
		if err != nil {
			return err
		}
		space, err := dec.ReadUint64()
		if err != nil {
			return err
		}
		owner, err := dec.ReadPubkey()
		if err != nil {
			return err
		}
		funder := accounts.Get(0).PublicKey
		newAccount := accounts.Get(1).PublicKey

		funderInfo, err := h.mustAccount(funder)
		if err != nil {
			return err
		}
		*funderInfo.Lamports -= lamports

		d := make([]byte, space)
		l := lamports
		h.Accounts[newAccount] = &AccountInfo{Key: newAccount, Lamports: &l, Data: &d, Owner: solana.PublicKey(owner)}
		return nil

	case 1: // Assign
		owner, err := dec.ReadPubkey()
		if err != nil {
			return err
		}
		target := accounts.Get(0).PublicKey
		info, err := h.mustAccount(target)
		if err != nil {
			return err
		}
		info.Owner = solana.PublicKey(owner)
		return nil

	case 2: // Transfer
		lamports, err := dec.ReadUint64()
		if err != nil {
			return err
		}
		from := accounts.Get(0).PublicKey
		to := accounts.Get(1).PublicKey
		fromInfo, err := h.mustAccount(from)
		if err != nil {
			return err
		}
		toInfo, err := h.mustAccount(to)
		if err != nil {
			return err
		}
		if *fromInfo.Lamports < lamports {
			return fmt.Errorf("runtime: system transfer: insufficient lamports")
		}
		*fromInfo.Lamports -= lamports
		*toInfo.Lamports += lamports
		return nil

	case 8: // Allocate
		space, err := dec.ReadUint64()
		if err != nil {
			return err
		}
		target := accounts.Get(0).PublicKey
		info, err := h.mustAccount(target)
		if err != nil {
			return err
		}
		info.SetDataLen(int(space))
		return nil

	default:
		return fmt.Errorf("runtime: host system program: unknown instruction tag %d", tag)
	}
}
