package model

import (
	"encoding/json"
	"time"
)

const MaxManagers = 5

// Policy is the per-identity-class permission set applied when a participant
// of that class first joins a space.
type Policy struct {
	AutoRoom       bool `json:"auto_room"`
	CanRecord      bool `json:"can_record"`
	CanManageRooms bool `json:"can_manage_rooms"`
}

// DefaultPolicies returns the policy table a space starts with unless an
// explicit one is supplied at creation.
func DefaultPolicies() map[Identity]Policy {
	return map[Identity]Policy{
		IdentityOwner:       {AutoRoom: true, CanRecord: true, CanManageRooms: true},
		IdentityManager:     {AutoRoom: true, CanRecord: true, CanManageRooms: true},
		IdentityCustomer:    {AutoRoom: true},
		IdentityParticipant: {},
		IdentityGuest:       {},
	}
}

// OwnerAuth is the derived authorization record for the current owner. It is
// recomputed on every write so a stale overwrite self-heals on the next one.
type OwnerAuth struct {
	ParticipantID string    `json:"participant_id"`
	GrantedAt     time.Time `json:"granted_at"`
}

// Space is the full serialized session record: one JSON blob per space name.
type Space struct {
	Name         string                  `json:"name"`
	OwnerID      string                  `json:"owner_id"`
	OwnerAuth    *OwnerAuth              `json:"owner_auth,omitempty"`
	Managers     []string                `json:"managers,omitempty"`
	Persistent   bool                    `json:"persistent"`
	AllowGuests  bool                    `json:"allow_guests"`
	Recording    bool                    `json:"recording"`
	Apps         []string                `json:"apps,omitempty"`
	Policies     map[Identity]Policy     `json:"policies,omitempty"`
	Rooms        map[string]*ChildRoom   `json:"rooms,omitempty"`
	Participants map[string]*Participant `json:"participants"`
	CreatedAt    time.Time               `json:"created_at"`
}

func NewSpace(name string) *Space {
	return &Space{
		Name:         name,
		Policies:     DefaultPolicies(),
		Rooms:        make(map[string]*ChildRoom),
		Participants: make(map[string]*Participant),
		CreatedAt:    time.Now().UTC(),
	}
}

// UnmarshalJSON re-initializes the map fields after decode. An empty space
// serializes without its rooms key, and callers assign into both maps; a nil
// map coming off the wire must never reach them.
func (s *Space) UnmarshalJSON(data []byte) error {
	type alias Space
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	if a.Rooms == nil {
		a.Rooms = make(map[string]*ChildRoom)
	}
	if a.Participants == nil {
		a.Participants = make(map[string]*Participant)
	}
	*s = Space(a)
	return nil
}

func (s *Space) Empty() bool {
	return len(s.Participants) == 0
}

// PolicyFor falls back to the default table when the space carries no entry
// for the identity class.
func (s *Space) PolicyFor(identity Identity) Policy {
	if p, ok := s.Policies[identity]; ok {
		return p
	}
	return DefaultPolicies()[identity]
}

// IsManager reports whether id is in the managers list.
func (s *Space) IsManager(id string) bool {
	for _, m := range s.Managers {
		if m == id {
			return true
		}
	}
	return false
}

// AddManager enforces the manager invariants: at most MaxManagers, never the
// owner, no duplicates.
func (s *Space) AddManager(id string) bool {
	if id == s.OwnerID || s.IsManager(id) || len(s.Managers) >= MaxManagers {
		return false
	}
	s.Managers = append(s.Managers, id)
	return true
}

func (s *Space) RemoveManager(id string) {
	for i, m := range s.Managers {
		if m == id {
			s.Managers = append(s.Managers[:i], s.Managers[i+1:]...)
			return
		}
	}
}
