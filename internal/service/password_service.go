package service

type PasswordService interface {
	Hash(plaintext string) (string, error)
	Compare(hash, plaintext string) bool
}
