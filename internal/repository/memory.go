package repository

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/access"
	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/models"
)

// Memory is a process-local store backing both repositories. Address
// links are kept per user and dropped when the address is deleted.
type Memory struct {
	mu            sync.RWMutex
	users         map[uint]models.User
	links         map[uint][]uint
	addresses     map[uint]models.Address
	nextUserID    uint
	nextAddressID uint
}

func NewMemory() *Memory {
	return &Memory{
		users:     make(map[uint]models.User),
		links:     make(map[uint][]uint),
		addresses: make(map[uint]models.Address),
	}
}

func (m *Memory) Users() *MemoryUserRepository {
	return &MemoryUserRepository{m: m}
}

func (m *Memory) Addresses() *MemoryAddressRepository {
	return &MemoryAddressRepository{m: m}
}

// hydrate returns a detached copy of u with its addresses attached.
// Callers hold at least a read lock.
func (m *Memory) hydrate(u models.User) models.User {
	u = cloneUser(u)
	ids := slices.Clone(m.links[u.ID])
	slices.Sort(ids)
	u.Addresses = make([]models.Address, 0, len(ids))
	for _, id := range ids {
		if a, ok := m.addresses[id]; ok {
			u.Addresses = append(u.Addresses, a)
		}
	}
	return u
}

func (m *Memory) setLinks(userID uint, ids []uint) {
	if len(ids) == 0 {
		delete(m.links, userID)
		return
	}
	m.links[userID] = slices.Clone(ids)
}

type MemoryUserRepository struct {
	m *Memory
}

func (r *MemoryUserRepository) List(_ context.Context, q Query) ([]models.User, int64, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	users := make([]models.User, 0)
	for id, u := range r.m.users {
		if q.Scope.Allows(id) {
			users = append(users, u)
		}
	}
	sort.Slice(users, func(i, j int) bool {
		if !users[i].DateJoined.Equal(users[j].DateJoined) {
			return users[i].DateJoined.After(users[j].DateJoined)
		}
		return users[i].ID > users[j].ID
	})

	total := int64(len(users))
	users = page(users, q)
	for i := range users {
		users[i] = r.m.hydrate(users[i])
	}
	return users, total, nil
}

func (r *MemoryUserRepository) Get(_ context.Context, scope access.Scope, id uint) (*models.User, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	u, ok := r.m.users[id]
	if !ok || !scope.Allows(id) {
		return nil, ErrNotFound
	}
	out := r.m.hydrate(u)
	return &out, nil
}

func (r *MemoryUserRepository) GetByUsername(_ context.Context, scope access.Scope, username string) (*models.User, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	for id, u := range r.m.users {
		if u.Username == username && scope.Allows(id) {
			out := r.m.hydrate(u)
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryUserRepository) Create(_ context.Context, u *models.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	for _, existing := range r.m.users {
		if existing.Username == u.Username {
			return ErrDuplicate
		}
	}
	r.m.nextUserID++
	u.ID = r.m.nextUserID

	stored := cloneUser(*u)
	stored.Addresses = nil
	r.m.users[u.ID] = stored
	r.m.setLinks(u.ID, u.AddressIDs())
	return nil
}

func (r *MemoryUserRepository) Update(_ context.Context, u *models.User, replaceAddresses bool) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	existing, ok := r.m.users[u.ID]
	if !ok {
		return ErrNotFound
	}
	stored := cloneUser(*u)
	stored.Addresses = nil
	stored.Username = existing.Username
	stored.DateJoined = existing.DateJoined
	r.m.users[u.ID] = stored
	if replaceAddresses {
		r.m.setLinks(u.ID, u.AddressIDs())
	}
	return nil
}

func (r *MemoryUserRepository) Delete(_ context.Context, scope access.Scope, id uint) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.users[id]; !ok || !scope.Allows(id) {
		return false, nil
	}
	delete(r.m.users, id)
	delete(r.m.links, id)
	return true, nil
}

type MemoryAddressRepository struct {
	m *Memory
}

func (r *MemoryAddressRepository) List(_ context.Context, q Query) ([]models.Address, int64, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	addresses := make([]models.Address, 0)
	for id, a := range r.m.addresses {
		if q.Scope.Allows(id) {
			addresses = append(addresses, a)
		}
	}
	sort.Slice(addresses, func(i, j int) bool { return addresses[i].ID > addresses[j].ID })
	return page(addresses, q), int64(len(addresses)), nil
}

func (r *MemoryAddressRepository) Get(_ context.Context, scope access.Scope, id uint) (*models.Address, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	a, ok := r.m.addresses[id]
	if !ok || !scope.Allows(id) {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (r *MemoryAddressRepository) FindByIDs(_ context.Context, ids []uint) ([]models.Address, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	found := make([]models.Address, 0, len(ids))
	for _, id := range ids {
		if a, ok := r.m.addresses[id]; ok {
			found = append(found, a)
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].ID < found[j].ID })
	return found, nil
}

func (r *MemoryAddressRepository) Create(_ context.Context, a *models.Address) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	r.m.nextAddressID++
	a.ID = r.m.nextAddressID
	r.m.addresses[a.ID] = *a
	return nil
}

func (r *MemoryAddressRepository) Update(_ context.Context, a *models.Address) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.addresses[a.ID]; !ok {
		return ErrNotFound
	}
	r.m.addresses[a.ID] = *a
	return nil
}

func (r *MemoryAddressRepository) Delete(_ context.Context, scope access.Scope, id uint) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.addresses[id]; !ok || !scope.Allows(id) {
		return false, nil
	}
	delete(r.m.addresses, id)
	for userID, ids := range r.m.links {
		r.m.setLinks(userID, slices.DeleteFunc(slices.Clone(ids), func(v uint) bool { return v == id }))
	}
	return true, nil
}

func page[T any](rows []T, q Query) []T {
	if q.Offset >= len(rows) {
		return rows[:0]
	}
	rows = rows[q.Offset:]
	if q.Limit > 0 && q.Limit < len(rows) {
		rows = rows[:q.Limit]
	}
	return rows
}

func cloneUser(u models.User) models.User {
	u.Avatar = clonePtr(u.Avatar)
	u.DateOfBirth = clonePtr(u.DateOfBirth)
	u.PhoneHome = clonePtr(u.PhoneHome)
	u.PhoneWork = clonePtr(u.PhoneWork)
	u.Mobile = clonePtr(u.Mobile)
	u.Addresses = slices.Clone(u.Addresses)
	return u
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
