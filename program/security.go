package program

// SecurityTxt is the Solana "security.txt" formatted blob spec.md §6
// requires to be embedded in the program binary, following the exact
// field set original_source/program carries (name, project_url, contacts,
// policy, source_code). It is never read by this program itself; it
// exists so that tooling which scans deployed program binaries for a
// disclosure contact finds one.
const SecurityTxt = "=======BEGIN SECURITY.TXT V1=======\x00" +
	"name\x00Entries Program\x00" +
	"project_url\x00https://github.com/nifty-labs/entries-program\x00" +
	"contacts\x00email:security@nifty-labs.example\x00" +
	"policy\x00https://github.com/nifty-labs/entries-program/security/policy\x00" +
	"source_code\x00https://github.com/nifty-labs/entries-program\x00" +
	"=======END SECURITY.TXT V1======="

// embeddedSecurityTxt forces the linker to retain SecurityTxt in the final
// binary even though nothing in the program's own logic ever reads it.
var embeddedSecurityTxt = []byte(SecurityTxt)
