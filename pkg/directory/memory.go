// Package directory provides a minimal, in-memory implementation of the
// investigation package's EntityDirectory and SubjectDirectory interfaces
// (spec §6's EntityStore persistence interface is a storage-adapter
// concern left to the caller; this is the in-process stand-in for local
// runs and the cmd/investigator CLI, grounded on profile.InMemoryStore's
// mutex-guarded map pattern).
package directory

import (
	"context"
	"fmt"
	"sync"

	"github.com/clearcheck/investigator/pkg/domain"
	"github.com/clearcheck/investigator/pkg/investigation"
)

type record struct {
	identifiers domain.Identifiers
	request     investigation.ScreeningRequest
}

// InMemoryDirectory implements both investigation.EntityDirectory (D2/D3
// expansion lookups) and investigation.SubjectDirectory (monitoring
// reruns) over a registered set of entities.
type InMemoryDirectory struct {
	mu      sync.RWMutex
	records map[string]record
}

// NewInMemoryDirectory constructs an empty InMemoryDirectory.
func NewInMemoryDirectory() *InMemoryDirectory {
	return &InMemoryDirectory{records: make(map[string]record)}
}

// Register associates entityID with the Identifiers a SAR loop needs and
// the ScreeningRequest a monitoring rerun should replay.
func (d *InMemoryDirectory) Register(entityID string, identifiers domain.Identifiers, req investigation.ScreeningRequest) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.records[entityID] = record{identifiers: identifiers, request: req}
}

// Identifiers implements investigation.EntityDirectory.
func (d *InMemoryDirectory) Identifiers(_ context.Context, entityID string) (domain.Identifiers, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	r, ok := d.records[entityID]
	if !ok {
		return domain.Identifiers{}, fmt.Errorf("directory: unknown entity %s", entityID)
	}
	return r.identifiers, nil
}

// Subject implements investigation.SubjectDirectory.
func (d *InMemoryDirectory) Subject(_ context.Context, entityID string) (investigation.ScreeningRequest, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	r, ok := d.records[entityID]
	if !ok {
		return investigation.ScreeningRequest{}, fmt.Errorf("directory: unknown entity %s", entityID)
	}
	return r.request, nil
}
