// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package scanner

import "github.com/luxfi/sp-crypto/enotestore"

// DecryptedEnote is what a Decryptor reports back for a BasicRecord it
// recognizes as belonging to the wallet.
type DecryptedEnote struct {
	KeyImage   enotestore.KeyImage
	OnetimeKey [32]byte
	Amount     uint64
}

// Decryptor recognizes a wallet's own enotes among a chunk's basic
// records. TryDecryptPlain tries the ordinary (recipient-facing) view-key
// path; TryDecryptSelfSend tries the self-send path used to recover an
// enote the wallet sent to itself, which the plain path cannot decrypt
// because it was encoded with the sender's own shared-secret derivation
// instead of the recipient's.
type Decryptor interface {
	TryDecryptPlain(rec BasicRecord) (DecryptedEnote, bool)
	TryDecryptSelfSend(rec BasicRecord) (DecryptedEnote, bool)
}
