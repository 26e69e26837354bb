package signer

// Signer interface for signing the repository index
type Signer interface {
	// SignDetached creates a detached armored signature
	// (repository.json.asc)
	SignDetached(data []byte) ([]byte, error)

	// GetPublicKey returns the armored public key for publication
	// alongside the index
	GetPublicKey() ([]byte, error)
}
