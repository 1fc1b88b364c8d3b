package ledger

import "github.com/openauction/auctiond/pkg/safe"

// Rent prices account storage. Every live account must hold at least
// Minimum(len(data)) lamports; the deposit is refunded when the account
// closes.
type Rent struct {
	// Baseline is charged per account regardless of size.
	Baseline uint64
	// PerByte is charged for each byte of account data.
	PerByte uint64
}

// DefaultRent mirrors the deployment default used by the config package.
var DefaultRent = Rent{Baseline: 890880, PerByte: 6960}

// Minimum returns the rent-exempt deposit for an account with dataLen
// bytes of data.
func (r Rent) Minimum(dataLen int) (uint64, error) {
	byteCost, err := safe.Mul(r.PerByte, uint64(dataLen))
	if err != nil {
		return 0, err
	}
	return safe.Add(r.Baseline, byteCost)
}
