package repositories

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/GOlukorede/PhoneStore-REST-API/internal/models"
)

// MemoryStore is an in-memory implementation of Store. It mirrors the
// database layout with one map per table and supports real transaction
// semantics: InTransaction snapshots every map and restores the snapshot when
// the callback fails, so rollback behaviour can be exercised without a
// database.
type MemoryStore struct {
	mu   sync.RWMutex // guards the maps
	txMu sync.Mutex   // serializes transactions

	users      map[string]models.User
	products   map[string]models.Product
	carts      map[string]models.Cart
	cartItems  map[string]models.CartItem
	orders     map[string]models.Order
	orderItems map[string]models.OrderItem
	blocklist  map[string]models.TokenBlockListEntry

	// seqs records insertion order per row id; map iteration alone is not
	// deterministic enough to honor "iteration order = insertion order".
	seqs    map[string]int64
	nextSeq int64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:      make(map[string]models.User),
		products:   make(map[string]models.Product),
		carts:      make(map[string]models.Cart),
		cartItems:  make(map[string]models.CartItem),
		orders:     make(map[string]models.Order),
		orderItems: make(map[string]models.OrderItem),
		blocklist:  make(map[string]models.TokenBlockListEntry),
		seqs:       make(map[string]int64),
	}
}

func (s *MemoryStore) Users() UserRepository            { return &memoryUserRepo{s} }
func (s *MemoryStore) Products() ProductRepository      { return &memoryProductRepo{s} }
func (s *MemoryStore) Carts() CartRepository            { return &memoryCartRepo{s} }
func (s *MemoryStore) Orders() OrderRepository          { return &memoryOrderRepo{s} }
func (s *MemoryStore) Tokens() TokenBlockListRepository { return &memoryTokenRepo{s} }

// InTransaction serializes against other transactions, snapshots all state,
// and restores the snapshot if fn returns an error.
//
// Isolation caveat: fn mutates the live maps, so readers on other goroutines
// can observe uncommitted state, and a rollback restores the whole-store
// snapshot, discarding any non-transactional write that raced the failing
// transaction. Callers that mix transactions with concurrent bare writes must
// route the writes through InTransaction too.
func (s *MemoryStore) InTransaction(fn func(Store) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	if err := fn(s); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type memorySnapshot struct {
	users      map[string]models.User
	products   map[string]models.Product
	carts      map[string]models.Cart
	cartItems  map[string]models.CartItem
	orders     map[string]models.Order
	orderItems map[string]models.OrderItem
	blocklist  map[string]models.TokenBlockListEntry
	seqs       map[string]int64
	nextSeq    int64
}

func copyMap[V any](src map[string]V) map[string]V {
	dst := make(map[string]V, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func (s *MemoryStore) snapshot() memorySnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return memorySnapshot{
		users:      copyMap(s.users),
		products:   copyMap(s.products),
		carts:      copyMap(s.carts),
		cartItems:  copyMap(s.cartItems),
		orders:     copyMap(s.orders),
		orderItems: copyMap(s.orderItems),
		blocklist:  copyMap(s.blocklist),
		seqs:       copyMap(s.seqs),
		nextSeq:    s.nextSeq,
	}
}

func (s *MemoryStore) restore(snap memorySnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = snap.users
	s.products = snap.products
	s.carts = snap.carts
	s.cartItems = snap.cartItems
	s.orders = snap.orders
	s.orderItems = snap.orderItems
	s.blocklist = snap.blocklist
	s.seqs = snap.seqs
	s.nextSeq = snap.nextSeq
}

// track must be called with mu held.
func (s *MemoryStore) track(id string) {
	s.nextSeq++
	s.seqs[id] = s.nextSeq
}

// --- users ---

type memoryUserRepo struct{ s *MemoryStore }

func (r *memoryUserRepo) Create(user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	r.s.users[user.ID] = *user
	r.s.track(user.ID)
	return nil
}

func (r *memoryUserRepo) GetByUsername(username string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *memoryUserRepo) GetByEmail(email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *memoryUserRepo) List(page, perPage int) ([]models.User, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	all := make([]models.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		all = append(all, u)
	}
	r.s.sortBySeq(len(all), func(i int) string { return all[i].ID }, func(i, j int) {
		all[i], all[j] = all[j], all[i]
	})
	return pageOf(all, page, perPage), int64(len(all)), nil
}

func (r *memoryUserRepo) GetByID(id string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

// --- products ---

type memoryProductRepo struct{ s *MemoryStore }

func (r *memoryProductRepo) Create(product *models.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	r.s.products[product.ID] = *product
	r.s.track(product.ID)
	return nil
}

func (r *memoryProductRepo) GetByID(id string) (*models.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	return &p, nil
}

func (r *memoryProductRepo) GetByName(name string) (*models.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.products {
		if p.Name == name {
			p := p
			return &p, nil
		}
	}
	return nil, ErrProductNotFound
}

func (r *memoryProductRepo) Update(product *models.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[product.ID]; !ok {
		return ErrProductNotFound
	}
	r.s.products[product.ID] = *product
	return nil
}

func (r *memoryProductRepo) Delete(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[id]; !ok {
		return ErrProductNotFound
	}
	delete(r.s.products, id)
	return nil
}

func (r *memoryProductRepo) List(page, perPage int) ([]models.Product, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	all := make([]models.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		all = append(all, p)
	}
	r.s.sortBySeq(len(all), func(i int) string { return all[i].ID }, func(i, j int) {
		all[i], all[j] = all[j], all[i]
	})
	return pageOf(all, page, perPage), int64(len(all)), nil
}

// DecrementStock is a compare-and-set under the store lock: the in-memory
// analogue of the conditional UPDATE in the GORM implementation.
func (r *memoryProductRepo) DecrementStock(id string, quantity int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return ErrProductNotFound
	}
	if p.Stock < quantity {
		return ErrInsufficientStock
	}
	p.Stock -= quantity
	r.s.products[id] = p
	return nil
}

// --- carts ---

type memoryCartRepo struct{ s *MemoryStore }

func (r *memoryCartRepo) Create(cart *models.Cart) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if cart.ID == "" {
		cart.ID = uuid.New().String()
	}
	cart.CreatedAt = time.Now()
	stored := *cart
	stored.Items = nil
	r.s.carts[cart.ID] = stored
	r.s.track(cart.ID)
	return nil
}

func (r *memoryCartRepo) ListAll(page, perPage int) ([]models.Cart, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	all := make([]models.Cart, 0, len(r.s.carts))
	for _, c := range r.s.carts {
		c.Items = r.itemsOfLocked(c.ID)
		all = append(all, c)
	}
	r.s.sortBySeq(len(all), func(i int) string { return all[i].ID }, func(i, j int) {
		all[i], all[j] = all[j], all[i]
	})
	return pageOf(all, page, perPage), int64(len(all)), nil
}

func (r *memoryCartRepo) GetByUserID(userID string) (*models.Cart, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.carts {
		if c.UserID == userID {
			cart := c
			cart.Items = r.itemsOfLocked(cart.ID)
			return &cart, nil
		}
	}
	return nil, ErrCartNotFound
}

// itemsOfLocked must be called with mu held.
func (r *memoryCartRepo) itemsOfLocked(cartID string) []models.CartItem {
	var items []models.CartItem
	for _, it := range r.s.cartItems {
		if it.CartID == cartID {
			items = append(items, it)
		}
	}
	r.s.sortBySeq(len(items), func(i int) string { return items[i].ID }, func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})
	return items
}

func (r *memoryCartRepo) Delete(cartID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.carts[cartID]; !ok {
		return ErrCartNotFound
	}
	for id, it := range r.s.cartItems {
		if it.CartID == cartID {
			delete(r.s.cartItems, id)
		}
	}
	delete(r.s.carts, cartID)
	return nil
}

func (r *memoryCartRepo) AddItem(item *models.CartItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	item.CreatedAt = time.Now()
	r.s.cartItems[item.ID] = *item
	r.s.track(item.ID)
	return nil
}

func (r *memoryCartRepo) UpdateItem(item *models.CartItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.cartItems[item.ID]; !ok {
		return ErrCartItemNotFound
	}
	r.s.cartItems[item.ID] = *item
	return nil
}

func (r *memoryCartRepo) GetItem(cartID, itemID string) (*models.CartItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	it, ok := r.s.cartItems[itemID]
	if !ok || it.CartID != cartID {
		return nil, ErrCartItemNotFound
	}
	return &it, nil
}

func (r *memoryCartRepo) GetItemByProduct(cartID, productID string) (*models.CartItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, it := range r.s.cartItems {
		if it.CartID == cartID && it.ProductID == productID {
			it := it
			return &it, nil
		}
	}
	return nil, ErrCartItemNotFound
}

func (r *memoryCartRepo) ListItems(cartID string, page, perPage int) ([]models.CartItem, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	items := r.itemsOfLocked(cartID)
	return pageOf(items, page, perPage), int64(len(items)), nil
}

func (r *memoryCartRepo) DeleteItem(cartID, itemID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.cartItems[itemID]
	if !ok || it.CartID != cartID {
		return ErrCartItemNotFound
	}
	delete(r.s.cartItems, itemID)
	return nil
}

// --- orders ---

type memoryOrderRepo struct{ s *MemoryStore }

func (r *memoryOrderRepo) Create(order *models.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.Status == "" {
		order.Status = models.OrderStatusOpen
	}
	order.CreatedAt = time.Now()
	stored := *order
	stored.Items = nil
	r.s.orders[order.ID] = stored
	return nil
}

func (r *memoryOrderRepo) GetByID(id string) (*models.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	o.Items = r.itemsOfLocked(o.ID)
	return &o, nil
}

func (r *memoryOrderRepo) GetOpenByUserID(userID string) (*models.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, o := range r.s.orders {
		if o.UserID == userID && o.Status == models.OrderStatusOpen {
			order := o
			order.Items = r.itemsOfLocked(order.ID)
			return &order, nil
		}
	}
	return nil, ErrOrderNotFound
}

// itemsOfLocked must be called with mu held.
func (r *memoryOrderRepo) itemsOfLocked(orderID string) []models.OrderItem {
	var items []models.OrderItem
	for _, it := range r.s.orderItems {
		if it.OrderID == orderID {
			items = append(items, it)
		}
	}
	r.s.sortBySeq(len(items), func(i int) string { return items[i].ID }, func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})
	return items
}

func (r *memoryOrderRepo) AddItem(item *models.OrderItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	item.CreatedAt = time.Now()
	r.s.orderItems[item.ID] = *item
	r.s.track(item.ID)
	return nil
}

func (r *memoryOrderRepo) ListItems(orderID string) ([]models.OrderItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.itemsOfLocked(orderID), nil
}

func (r *memoryOrderRepo) UpdateStatus(id, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok || o.Status != models.OrderStatusOpen {
		return ErrOrderNotFound
	}
	o.Status = status
	r.s.orders[id] = o
	return nil
}

func (r *memoryOrderRepo) Delete(orderID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.orders[orderID]; !ok {
		return ErrOrderNotFound
	}
	for id, it := range r.s.orderItems {
		if it.OrderID == orderID {
			delete(r.s.orderItems, id)
		}
	}
	delete(r.s.orders, orderID)
	return nil
}

// --- token blocklist ---

type memoryTokenRepo struct{ s *MemoryStore }

func (r *memoryTokenRepo) Add(jti string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.blocklist[jti] = models.TokenBlockListEntry{
		ID:        uuid.New().String(),
		JTI:       jti,
		CreatedAt: time.Now(),
	}
	return nil
}

func (r *memoryTokenRepo) Contains(jti string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.blocklist[jti]
	return ok, nil
}

// --- helpers ---

// sortBySeq sorts n elements by their recorded insertion sequence.
// Must be called with mu held.
func (s *MemoryStore) sortBySeq(n int, idOf func(int) string, swap func(i, j int)) {
	for i := 1; i < n; i++ {
		for j := i; j > 0 && s.seqs[idOf(j)] < s.seqs[idOf(j-1)]; j-- {
			swap(j, j-1)
		}
	}
}

func pageOf[T any](all []T, page, perPage int) []T {
	start := (page - 1) * perPage
	if start >= len(all) {
		return []T{}
	}
	end := start + perPage
	if end > len(all) {
		end = len(all)
	}
	return all[start:end]
}
