package runtime

import (
	"fmt"

	"github.com/nifty-labs/entries-program/pkg/encodbin"
	"github.com/nifty-labs/entries-program/solana"
)

func (h *Host) invokeMetadata(accounts solana.AccountMetaSlice, data []byte) error {
	dec := encodbin.NewBinDecoder(data)
	tag, err := dec.ReadUint8()
	if err != nil {
		return err
	}

	switch tag {
	case 0: // CreateMetadataAccount
		name, err := dec.ReadRustString()
		if err != nil {
			return err
		}
		if _, err := dec.ReadRustString(); err != nil { // symbol, not tracked by the simulation
			return err
		}
		uri, err := dec.ReadRustString()
		if err != nil {
			return err
		}
		metadataAccount := accounts.Get(0).PublicKey
		mint := accounts.Get(1).PublicKey
		updateAuthority := accounts.Get(4).PublicKey
		h.MetadataAccounts[metadataAccount] = &MetadataState{
			Mint:            mint,
			UpdateAuthority: updateAuthority,
			Name:            name,
			URI:             uri,
		}
		return nil

	case 1: // UpdateMetadataAccount
		hasName, err := dec.ReadUint8()
		if err != nil {
			return err
		}
		var name string
		if hasName == 1 {
			name, err = dec.ReadRustString()
			if err != nil {
				return err
			}
		}
		hasURI, err := dec.ReadUint8()
		if err != nil {
			return err
		}
		var uri string
		if hasURI == 1 {
			uri, err = dec.ReadRustString()
			if err != nil {
				return err
			}
		}
		hasNewAuthority, err := dec.ReadUint8()
		if err != nil {
			return err
		}
		var newAuthority solana.PublicKey
		if hasNewAuthority == 1 {
			newAuthority, err = dec.ReadPubkey()
			if err != nil {
				return err
			}
		}
		hasPrimarySale, err := dec.ReadUint8()
		if err != nil {
			return err
		}
		var primarySale bool
		if hasPrimarySale == 1 {
			primarySale, err = dec.ReadBool()
			if err != nil {
				return err
			}
		}

		metadataAccount := accounts.Get(0).PublicKey
		m, ok := h.MetadataAccounts[metadataAccount]
		if !ok {
			return fmt.Errorf("runtime: host metadata: no such metadata account %s", metadataAccount)
		}
		if hasName == 1 {
			m.Name = name
		}
		if hasURI == 1 {
			m.URI = uri
		}
		if hasNewAuthority == 1 {
			m.UpdateAuthority = solana.PublicKey(newAuthority)
		}
		if hasPrimarySale == 1 {
			m.PrimarySaleHappened = primarySale
		}
		return nil

	default:
		return fmt.Errorf("runtime: host metadata program: unknown instruction tag %d", tag)
	}
}
