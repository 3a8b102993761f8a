package repositories

import "gorm.io/gorm"

// GormStore is the database-backed Store. Every repository it returns shares
// the same *gorm.DB handle, so a store built from a transaction handle scopes
// all of them to that transaction.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a Store backed by the given database handle.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Users() UserRepository            { return NewGORMUserRepository(s.db) }
func (s *GormStore) Products() ProductRepository      { return NewGORMProductRepository(s.db) }
func (s *GormStore) Carts() CartRepository            { return NewGORMCartRepository(s.db) }
func (s *GormStore) Orders() OrderRepository          { return NewGORMOrderRepository(s.db) }
func (s *GormStore) Tokens() TokenBlockListRepository { return NewGORMTokenBlockListRepository(s.db) }

// InTransaction runs fn against a Store bound to a single database
// transaction. An error from fn rolls back everything fn wrote.
func (s *GormStore) InTransaction(fn func(Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewGormStore(tx))
	})
}
