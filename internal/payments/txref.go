package payments

import (
	"crypto/rand"
	"fmt"
)

const txRefAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const txRefSuffixLen = 8

// NewTxRef builds a transaction reference for an invoice:
// INV-<invoice number>-<8 uppercase alphanumerics>. Collision probability is
// negligible but not zero, so callers check the result against existing
// references and regenerate on conflict.
func NewTxRef(invoiceNumber int64) string {
	buf := make([]byte, txRefSuffixLen)
	_, _ = rand.Read(buf)

	for i, b := range buf {
		buf[i] = txRefAlphabet[int(b)%len(txRefAlphabet)]
	}

	return fmt.Sprintf("INV-%d-%s", invoiceNumber, buf)
}
