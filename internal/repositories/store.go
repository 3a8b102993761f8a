package repositories

// Store aggregates the per-entity repositories and provides transaction
// scoping. InTransaction runs fn against a Store whose repositories share one
// database transaction: if fn returns an error, every write made through that
// Store is rolled back. Order placement relies on this to undo partially
// applied order items and stock decrements.
type Store interface {
	Users() UserRepository
	Products() ProductRepository
	Carts() CartRepository
	Orders() OrderRepository
	Tokens() TokenBlockListRepository
	InTransaction(fn func(Store) error) error
}
