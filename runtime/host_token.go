package runtime

import (
	"fmt"

	"github.com/nifty-labs/entries-program/pkg/encodbin"
	"github.com/nifty-labs/entries-program/solana"
)

func (h *Host) invokeToken(accounts solana.AccountMetaSlice, data []byte) error {
	dec := encodbin.NewBinDecoder(data)
	tag, err := dec.ReadUint8()
	if err != nil {
		return err
	}

	switch tag {
	case 20: // InitializeMint2
		decimals, err := dec.ReadUint8()
		if err != nil {
			return err
		}
		mintAuthority, err := dec.ReadPubkey()
		if err != nil {
			return err
		}
		mint := accounts.Get(0).PublicKey
		h.Mints[mint] = &MintState{MintAuthority: solana.PublicKey(mintAuthority), Decimals: decimals}
		return nil

	case 18: // InitializeAccount3
		owner, err := dec.ReadPubkey()
		if err != nil {
			return err
		}
		account := accounts.Get(0).PublicKey
		mint := accounts.Get(1).PublicKey
		h.TokenAccounts[account] = &TokenAccountState{Mint: mint, Owner: solana.PublicKey(owner)}
		return nil

	case 14: // MintToChecked
		amount, err := dec.ReadUint64()
		if err != nil {
			return err
		}
		if _, err := dec.ReadUint8(); err != nil { // decimals, unused by the in-memory simulation
			return err
		}
		mint := accounts.Get(0).PublicKey
		destination := accounts.Get(1).PublicKey
		mintState, ok := h.Mints[mint]
		if !ok {
			return fmt.Errorf("runtime: host token: no such mint %s", mint)
		}
		dest, ok := h.TokenAccounts[destination]
		if !ok {
			return fmt.Errorf("runtime: host token: no such token account %s", destination)
		}
		mintState.Supply += amount
		dest.Amount += amount
		return nil

	case 12: // TransferChecked
		amount, err := dec.ReadUint64()
		if err != nil {
			return err
		}
		if _, err := dec.ReadUint8(); err != nil {
			return err
		}
		source := accounts.Get(0).PublicKey
		destination := accounts.Get(2).PublicKey
		src, ok := h.TokenAccounts[source]
		if !ok {
			return fmt.Errorf("runtime: host token: no such token account %s", source)
		}
		dst, ok := h.TokenAccounts[destination]
		if !ok {
			return fmt.Errorf("runtime: host token: no such token account %s", destination)
		}
		if src.Amount < amount {
			return fmt.Errorf("runtime: host token: insufficient funds")
		}
		src.Amount -= amount
		dst.Amount += amount
		return nil

	case 15: // BurnChecked
		amount, err := dec.ReadUint64()
		if err != nil {
			return err
		}
		if _, err := dec.ReadUint8(); err != nil {
			return err
		}
		account := accounts.Get(0).PublicKey
		mint := accounts.Get(1).PublicKey
		acct, ok := h.TokenAccounts[account]
		if !ok {
			return fmt.Errorf("runtime: host token: no such token account %s", account)
		}
		if acct.Amount < amount {
			return fmt.Errorf("runtime: host token: insufficient funds")
		}
		acct.Amount -= amount
		if m, ok := h.Mints[mint]; ok {
			m.Supply -= amount
		}
		return nil

	case 9: // CloseAccount
		account := accounts.Get(0).PublicKey
		destination := accounts.Get(1).PublicKey
		info, err := h.mustAccount(account)
		if err != nil {
			return err
		}
		destInfo, err := h.mustAccount(destination)
		if err != nil {
			return err
		}
		*destInfo.Lamports += *info.Lamports
		*info.Lamports = 0
		delete(h.TokenAccounts, account)
		return nil

	case 6: // SetAuthority
		authorityType, err := dec.ReadUint8()
		if err != nil {
			return err
		}
		hasNew, err := dec.ReadUint8()
		if err != nil {
			return err
		}
		var newAuthority solana.PublicKey
		if hasNew == 1 {
			newAuthority, err = dec.ReadPubkey()
			if err != nil {
				return err
			}
		}
		account := accounts.Get(0).PublicKey
		if mint, ok := h.Mints[account]; ok && authorityType == 0 {
			mint.MintAuthority = newAuthority
			return nil
		}
		if acct, ok := h.TokenAccounts[account]; ok && authorityType == 2 {
			acct.Owner = newAuthority
			return nil
		}
		return fmt.Errorf("runtime: host token: set authority target not found")

	default:
		return fmt.Errorf("runtime: host token program: unknown instruction tag %d", tag)
	}
}
