// Package memstore is an in-memory implementation of the user and place
// stores and of the place unit of work, for service and handler tests.
//
// All three views share one Store so a committed transaction is visible to
// the repositories, and a rolled back one is not:
//
//	store := memstore.New()
//	svc := service.NewPlaceService(service.PlaceServiceConfig{
//	    PlaceRepo:   store.Places(),
//	    UserRepo:    store.Users(),
//	    Coordinator: service.NewCoordinator(service.CoordinatorConfig{UnitOfWork: store.UnitOfWork()}),
//	})
//
// Failures can be injected per operation with FailNext.
package memstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/placeshare/api/internal/database"
	"github.com/placeshare/api/internal/model"
	"github.com/placeshare/api/internal/service"
)

// Operations that can be made to fail with FailNext
const (
	OpBegin           = "begin"
	OpInsertPlace     = "insert_place"
	OpAddUserPlace    = "add_user_place"
	OpDeletePlace     = "delete_place"
	OpRemoveUserPlace = "remove_user_place"
	OpCommit          = "commit"
	OpCreateUser      = "create_user"
	OpUpdatePlace     = "update_place"
)

// ErrInjected is returned by operations armed with FailNext
var ErrInjected = errors.New("memstore: injected failure")

// Store holds users and places in memory
type Store struct {
	mu       sync.Mutex
	users    map[string]*model.User
	order    []string // user ids in creation order
	places   map[string]*model.Place
	failures map[string]error
	commits  int
}

// New creates an empty store
func New() *Store {
	return &Store{
		users:    make(map[string]*model.User),
		places:   make(map[string]*model.Place),
		failures: make(map[string]error),
	}
}

// FailNext makes the next call of op return err (ErrInjected when err is nil)
func (s *Store) FailNext(op string, err error) {
	if err == nil {
		err = ErrInjected
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = err
}

// Commits returns the number of successful commits
func (s *Store) Commits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commits
}

// User returns a copy of the stored user, or nil
func (s *Store) User(id string) *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[model.NormalizeID(model.TableUser, id)]
	if !ok {
		return nil
	}
	return copyUser(u)
}

// Place returns a copy of the stored place, or nil
func (s *Store) Place(id string) *model.Place {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.places[model.NormalizeID(model.TablePlace, id)]
	if !ok {
		return nil
	}
	cp := *p
	return &cp
}

// PlaceCount returns the number of stored places
func (s *Store) PlaceCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.places)
}

// PutUser stores a user directly, bypassing uniqueness checks
func (s *Store) PutUser(u *model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := copyUser(u)
	cp.ID = model.NormalizeID(model.TableUser, cp.ID)
	if _, exists := s.users[cp.ID]; !exists {
		s.order = append(s.order, cp.ID)
	}
	s.users[cp.ID] = cp
}

// PutPlace stores a place directly without touching its creator
func (s *Store) PutPlace(p *model.Place) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	cp.ID = model.NormalizeID(model.TablePlace, cp.ID)
	s.places[cp.ID] = &cp
}

// Users returns the user repository view
func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }

// Places returns the place repository view
func (s *Store) Places() *PlaceRepository { return &PlaceRepository{s: s} }

// UnitOfWork returns the transactional view
func (s *Store) UnitOfWork() *UnitOfWork { return &UnitOfWork{s: s} }

// takeFailure must be called with mu held
func (s *Store) takeFailure(op string) error {
	err, ok := s.failures[op]
	if !ok {
		return nil
	}
	delete(s.failures, op)
	return err
}

func (s *Store) fail(op string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.takeFailure(op)
}

func copyUser(u *model.User) *model.User {
	cp := *u
	cp.Places = append([]string{}, u.Places...)
	return &cp
}

// ============================================================================
// Users
// ============================================================================

// UserRepository implements service.UserRepository
type UserRepository struct {
	s *Store
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.takeFailure(OpCreateUser); err != nil {
		return err
	}
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return fmt.Errorf("%w: email already exists", database.ErrDuplicate)
		}
	}

	if user.ID == "" {
		user.ID = model.NewUserID()
	}
	user.ID = model.NormalizeID(model.TableUser, user.ID)
	if user.Places == nil {
		user.Places = []string{}
	}
	now := time.Now().UTC()
	user.CreatedOn, user.UpdatedOn = now, now

	r.s.users[user.ID] = copyUser(user)
	r.s.order = append(r.s.order, user.ID)
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.s.User(id), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, nil
}

func (r *UserRepository) List(ctx context.Context) ([]*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	users := make([]*model.User, 0, len(r.s.order))
	for _, id := range r.s.order {
		users = append(users, copyUser(r.s.users[id]))
	}
	return users, nil
}

// ============================================================================
// Places
// ============================================================================

// PlaceRepository implements service.PlaceRepository
type PlaceRepository struct {
	s *Store
}

func (r *PlaceRepository) GetByID(ctx context.Context, id string) (*model.Place, error) {
	return r.s.Place(id), nil
}

func (r *PlaceRepository) ListByCreator(ctx context.Context, userID string) ([]*model.Place, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[model.NormalizeID(model.TableUser, userID)]
	if !ok {
		return nil, database.ErrNotFound
	}
	places := make([]*model.Place, 0, len(u.Places))
	for _, id := range u.Places {
		if p, ok := r.s.places[id]; ok {
			cp := *p
			places = append(places, &cp)
		}
	}
	return places, nil
}

func (r *PlaceRepository) UpdateDetails(ctx context.Context, id, title, description string) (*model.Place, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.takeFailure(OpUpdatePlace); err != nil {
		return nil, err
	}
	p, ok := r.s.places[model.NormalizeID(model.TablePlace, id)]
	if !ok {
		return nil, nil
	}
	p.Title = title
	p.Description = description
	p.UpdatedOn = time.Now().UTC()
	cp := *p
	return &cp, nil
}

// ============================================================================
// Unit of work
// ============================================================================

// UnitOfWork implements service.UnitOfWork
type UnitOfWork struct {
	s *Store
}

// Begin starts a transaction that buffers writes until Commit
func (u *UnitOfWork) Begin(ctx context.Context) (service.PlaceTx, error) {
	if err := u.s.fail(OpBegin); err != nil {
		return nil, err
	}
	return &tx{s: u.s}, nil
}

type tx struct {
	s      *Store
	ops    []func() error
	closed bool
}

func (t *tx) stage(op string, apply func() error) error {
	if t.closed {
		return database.ErrTxClosed
	}
	if err := t.s.fail(op); err != nil {
		return err
	}
	t.ops = append(t.ops, apply)
	return nil
}

func (t *tx) InsertPlace(ctx context.Context, place *model.Place) error {
	cp := *place
	return t.stage(OpInsertPlace, func() error {
		if _, exists := t.s.places[cp.ID]; exists {
			return fmt.Errorf("%w: place %s", database.ErrDuplicate, cp.ID)
		}
		t.s.places[cp.ID] = &cp
		return nil
	})
}

func (t *tx) AddUserPlace(ctx context.Context, userID, placeID string) error {
	return t.stage(OpAddUserPlace, func() error {
		u, ok := t.s.users[model.NormalizeID(model.TableUser, userID)]
		if !ok {
			return fmt.Errorf("%w: user %s", database.ErrNotFound, userID)
		}
		u.Places = append(u.Places, model.NormalizeID(model.TablePlace, placeID))
		return nil
	})
}

func (t *tx) DeletePlace(ctx context.Context, placeID string) error {
	return t.stage(OpDeletePlace, func() error {
		delete(t.s.places, model.NormalizeID(model.TablePlace, placeID))
		return nil
	})
}

func (t *tx) RemoveUserPlace(ctx context.Context, userID, placeID string) error {
	return t.stage(OpRemoveUserPlace, func() error {
		u, ok := t.s.users[model.NormalizeID(model.TableUser, userID)]
		if !ok || !u.OwnsPlace(placeID) {
			return nil
		}
		kept := u.Places[:0]
		for _, id := range u.Places {
			if !model.SameID(model.TablePlace, id, placeID) {
				kept = append(kept, id)
			}
		}
		u.Places = kept
		return nil
	})
}

// Commit applies staged writes against a snapshot and publishes them only
// when every write succeeded.
func (t *tx) Commit(ctx context.Context) error {
	if t.closed {
		return database.ErrTxClosed
	}
	t.closed = true

	if err := ctx.Err(); err != nil {
		return err
	}

	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	if err := t.s.takeFailure(OpCommit); err != nil {
		return err
	}

	users := make(map[string]*model.User, len(t.s.users))
	for id, u := range t.s.users {
		users[id] = copyUser(u)
	}
	places := make(map[string]*model.Place, len(t.s.places))
	for id, p := range t.s.places {
		cp := *p
		places[id] = &cp
	}

	for _, apply := range t.ops {
		if err := apply(); err != nil {
			t.s.users, t.s.places = users, places
			return err
		}
	}
	t.s.commits++
	return nil
}

func (t *tx) Rollback() error {
	t.closed = true
	t.ops = nil
	return nil
}
