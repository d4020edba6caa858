package operator

import (
	"context"
	"sync"
)

// InMemoryStore keeps groups and accounts in mutex-guarded maps. It backs
// unit tests and local runs.
type InMemoryStore struct {
	mu       sync.RWMutex
	groups   map[string]*Group
	accounts map[string]*Account
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		groups:   make(map[string]*Group),
		accounts: make(map[string]*Account),
	}
}

func (s *InMemoryStore) AddGroup(group *Group) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groups[group.ID] = group
}

func (s *InMemoryStore) AddAccount(account *Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[account.ID] = account
}

func (s *InMemoryStore) FindByIDAndShop(_ context.Context, groupID, shopID string) (*Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if group, ok := s.groups[groupID]; ok && group.ShopID == shopID {
		cp := *group
		return &cp, nil
	}
	return nil, ErrGroupNotFound
}

func (s *InMemoryStore) FindByIDInGroup(_ context.Context, accountID, groupID string) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if account, ok := s.accounts[accountID]; ok && account.InGroup(groupID) {
		cp := *account
		cp.GroupIDs = append([]string(nil), account.GroupIDs...)
		return &cp, nil
	}
	return nil, ErrAccountNotFound
}
