package mocks

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	sharedDomain "github.com/davicafu/relaypage/internal/shared/domain"
	sharedQuery "github.com/davicafu/relaypage/internal/shared/infra/platform/query"
	userDomain "github.com/davicafu/relaypage/internal/user/domain"
)

// InMemoryUserRepo simula UserRepository, incluida la tabla de etiquetas.
type InMemoryUserRepo struct {
	Users map[string]*userDomain.User
	Tags  map[string]map[string]bool // tagID -> userIDs
	mu    sync.Mutex

	CountCalls atomic.Int32
	// Err, si no es nil, se devuelve desde List/Count/Exists.
	Err error
}

var _ userDomain.UserRepository = (*InMemoryUserRepo)(nil)

func NewInMemoryUserRepo() *InMemoryUserRepo {
	return &InMemoryUserRepo{
		Users: make(map[string]*userDomain.User),
		Tags:  make(map[string]map[string]bool),
	}
}

func (r *InMemoryUserRepo) Create(ctx context.Context, u *userDomain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.Users {
		if existing.ID == u.ID || (existing.OrganizationID == u.OrganizationID && existing.Email == u.Email) {
			return userDomain.ErrUserAlreadyExists
		}
	}
	r.Users[u.ID] = u
	return nil
}

func (r *InMemoryUserRepo) GetByID(ctx context.Context, id string) (*userDomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.Users[id]
	if !ok {
		return nil, userDomain.ErrUserNotFound
	}
	return u, nil
}

func (r *InMemoryUserRepo) Tag(ctx context.Context, userID, tagID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Users[userID]; !ok {
		return userDomain.ErrUserNotFound
	}
	if r.Tags[tagID] == nil {
		r.Tags[tagID] = make(map[string]bool)
	}
	r.Tags[tagID][userID] = true
	return nil
}

func (r *InMemoryUserRepo) ExistsInOrganization(ctx context.Context, organizationID, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return false, r.Err
	}
	u, ok := r.Users[id]
	return ok && u.OrganizationID == organizationID, nil
}

func (r *InMemoryUserRepo) ListByCriteria(ctx context.Context, criteria sharedDomain.Criteria, s sharedQuery.Sort, limit int) ([]*userDomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	return sortAndLimit(r.filter(criteria), userField, s, limit), nil
}

func (r *InMemoryUserRepo) CountByCriteria(ctx context.Context, criteria sharedDomain.Criteria) (int, error) {
	r.CountCalls.Add(1)
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return 0, r.Err
	}
	return len(r.filter(criteria)), nil
}

func (r *InMemoryUserRepo) filter(criteria sharedDomain.Criteria) []*userDomain.User {
	var conds []sharedDomain.Criterion
	if criteria != nil {
		conds = criteria.ToConditions()
	}
	var list []*userDomain.User
	for _, u := range r.Users {
		if matchAll(u, userField, conds, r.isMember) {
			list = append(list, u)
		}
	}
	return list
}

func (r *InMemoryUserRepo) isMember(m sharedDomain.Membership, id string) bool {
	if !strings.EqualFold(m.Table, userDomain.TagsTable) {
		return false
	}
	tagID, _ := m.Value.(string)
	return r.Tags[tagID][id]
}

func userField(u *userDomain.User, field string) (string, bool) {
	switch field {
	case userDomain.FieldID:
		return u.ID, true
	case userDomain.FieldOrganizationID:
		return u.OrganizationID, true
	case userDomain.FieldEmail:
		return u.Email, true
	case userDomain.FieldName:
		return u.Name, true
	}
	return "", false
}
