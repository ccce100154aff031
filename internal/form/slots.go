package form

import (
	"context"

	"go.uber.org/zap"
)

// Slot names a document position in a job's input schema. Each slot holds
// at most one reference; binding a slot discards the previous one.
type Slot string

const (
	SlotStaffPlanning     Slot = "staff-planning"
	SlotChildPlanning     Slot = "child-planning"
	SlotChildRegistration Slot = "child-registration"
	SlotFixedFacesList    Slot = "fixed-faces-list"
)

// SlotOrder is the fixed order in which document keys are laid out in a
// submission payload. The backend relies on position, not names.
var SlotOrder = []Slot{
	SlotStaffPlanning,
	SlotChildPlanning,
	SlotChildRegistration,
	SlotFixedFacesList,
}

// DocumentReference points at an uploaded backend object.
type DocumentReference struct {
	ObjectKey string
	FileName  string
}

// DeletePolicy decides what happens to the backend object when a slot is
// cleared.
type DeletePolicy int

const (
	// KeepRemote leaves the uploaded object in place. This is the
	// default: the backend garbage-collects orphaned uploads.
	KeepRemote DeletePolicy = iota
	// DeleteRemote issues a best-effort DELETE for the object. Failures
	// are logged and do not block clearing the slot.
	DeleteRemote
)

// RemoteDeleter is the client subset the slot store needs for the
// DeleteRemote policy.
type RemoteDeleter interface {
	DeleteFile(ctx context.Context, objectKey string) error
}

// SlotStore holds the document references shared by the forms of one
// session. It is single-writer: only the currently active form mutates a
// slot, so access is not synchronized.
type SlotStore struct {
	refs    map[Slot]DocumentReference
	deleter RemoteDeleter
	policy  DeletePolicy
	log     *zap.SugaredLogger
}

func NewSlotStore(deleter RemoteDeleter, policy DeletePolicy) *SlotStore {
	return &SlotStore{
		refs:    make(map[Slot]DocumentReference),
		deleter: deleter,
		policy:  policy,
		log:     zap.S().Named("slots"),
	}
}

// Bind places ref into the slot, replacing any previous reference. The
// replaced object is not deleted; replacement is not removal.
func (s *SlotStore) Bind(slot Slot, ref DocumentReference) {
	s.refs[slot] = ref
}

func (s *SlotStore) Get(slot Slot) (DocumentReference, bool) {
	ref, ok := s.refs[slot]
	return ref, ok
}

// Key returns the slot's object key, or nil when the slot is unbound.
// This is the payload representation: position kept, value null.
func (s *SlotStore) Key(slot Slot) *string {
	ref, ok := s.refs[slot]
	if !ok {
		return nil
	}
	key := ref.ObjectKey
	return &key
}

// Clear empties the slot and applies the store's delete policy to the
// previously bound object.
func (s *SlotStore) Clear(ctx context.Context, slot Slot) {
	ref, ok := s.refs[slot]
	if !ok {
		return
	}
	delete(s.refs, slot)

	if s.policy == DeleteRemote && s.deleter != nil {
		if err := s.deleter.DeleteFile(ctx, ref.ObjectKey); err != nil {
			s.log.Warnf("failed to delete backend object %s: %v", ref.ObjectKey, err)
		}
	}
}
