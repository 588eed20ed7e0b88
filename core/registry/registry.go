// Package registry implements the bounded user and vehicle directory a
// station consults when processing booking requests.
package registry

import (
	"fmt"
	"sync"

	"github.com/kilianp07/evdock/core/model"
)

// Registry stores users and vehicles for one station. Pools are bounded
// by policy, mirroring the station's fixed capacity, not by any storage
// limitation.
type Registry struct {
	mu          sync.RWMutex
	users       map[int]model.User
	vehicles    map[int]*model.Vehicle
	maxUsers    int
	maxVehicles int
}

// New creates a Registry with the given pool sizes.
func New(maxUsers, maxVehicles int) *Registry {
	return &Registry{
		users:       make(map[int]model.User, maxUsers),
		vehicles:    make(map[int]*model.Vehicle, maxVehicles),
		maxUsers:    maxUsers,
		maxVehicles: maxVehicles,
	}
}

// RegisterUser adds a user. It fails if the pool is full or the ID is
// already taken.
func (r *Registry) RegisterUser(u model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.users) >= r.maxUsers {
		return fmt.Errorf("user pool full: %w", model.ErrCapacityExceeded)
	}
	if _, ok := r.users[u.ID]; ok {
		return fmt.Errorf("user %d: %w", u.ID, model.ErrDuplicateIdentity)
	}
	r.users[u.ID] = u
	return nil
}

// RegisterVehicle adds a vehicle. The owning user must already exist.
func (r *Registry) RegisterVehicle(v model.Vehicle) error {
	if err := v.Validate(); err != nil {
		return fmt.Errorf("%v: %w", err, model.ErrInvalidRequest)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.vehicles) >= r.maxVehicles {
		return fmt.Errorf("vehicle pool full: %w", model.ErrCapacityExceeded)
	}
	if _, ok := r.users[v.UserID]; !ok {
		return fmt.Errorf("user %d: %w", v.UserID, model.ErrNotFound)
	}
	if _, ok := r.vehicles[v.ID]; ok {
		return fmt.Errorf("vehicle %d: %w", v.ID, model.ErrDuplicateIdentity)
	}
	r.vehicles[v.ID] = &v
	return nil
}

// User returns the user with the given ID.
func (r *Registry) User(id int) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return model.User{}, fmt.Errorf("user %d: %w", id, model.ErrNotFound)
	}
	return u, nil
}

// Vehicle returns the vehicle with the given ID. The pointer is shared:
// the station engine mutates the battery state through it, serialised by
// the station lock.
func (r *Registry) Vehicle(id int) (*model.Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.vehicles[id]
	if !ok {
		return nil, fmt.Errorf("vehicle %d: %w", id, model.ErrNotFound)
	}
	return v, nil
}
