package repositories

// TokenBlockListRepository records revoked JWT ids (jti claims).
type TokenBlockListRepository interface {
	Add(jti string) error
	Contains(jti string) (bool, error)
}
