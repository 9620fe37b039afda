package solana

// Hard-coded addresses of the external programs and sysvars this program
// cross-invokes or reads. These mirror the well-known addresses fixed by
// the runtime itself; none of them is ever passed in as configuration.
var (
	SystemProgramID                 = PublicKey{}
	StakeProgramID                  = MustPublicKeyFromBase58("Stake11111111111111111111111111111111111111")
	TokenProgramID                  = MustPublicKeyFromBase58("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")
	AssociatedTokenAccountProgramID = MustPublicKeyFromBase58("ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL")
	MetaplexMetadataProgramID       = MustPublicKeyFromBase58("metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s")
	SysvarClockID                   = MustPublicKeyFromBase58("SysvarC1ock11111111111111111111111111111111")
	SysvarRentID                    = MustPublicKeyFromBase58("SysvarRent111111111111111111111111111111111")
	SysvarStakeHistoryID            = MustPublicKeyFromBase58("SysvarStakeHistory1111111111111111111111111")
	SysvarClockStakeConfigID        = MustPublicKeyFromBase58("StakeConfig11111111111111111111111111111111")
)

// IsSystemProgram mirrors the original implementation's trick of treating
// the all-zero pubkey as the system program id, since that is exactly what
// it is.
func IsSystemProgram(pk PublicKey) bool {
	return pk.IsZero()
}
