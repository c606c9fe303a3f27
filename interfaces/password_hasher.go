package interfaces

// PasswordHasher turns a plaintext password into an opaque credential.
//
//go:generate moq -stub -out mock/password_hasher.go -pkg mock . PasswordHasher
type PasswordHasher interface {
	Hash(password string) ([]byte, error)
}
