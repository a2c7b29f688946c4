package service

import (
	"time"

	"tessera.app/spaced/internal/model"
)

// ensureOwner re-derives the invariant-bearing owner fields before a space is
// written back. Concurrent writers to the same blob race (last write wins), so
// every write recomputes rather than trusting what was read:
//   - OwnerID always points at an existing participant while the space is
//     non-empty, exactly one participant holds the owner identity,
//   - the owner auth record always matches OwnerID,
//   - the owner never appears in the managers list.
func ensureOwner(s *model.Space) {
	if s.Empty() {
		s.OwnerAuth = nil
		return
	}

	if _, ok := s.Participants[s.OwnerID]; !ok {
		for id := range s.Participants {
			s.OwnerID = id
			break
		}
	}

	s.Participants[s.OwnerID].Identity = model.IdentityOwner
	for id, p := range s.Participants {
		if id != s.OwnerID && p.Identity == model.IdentityOwner {
			p.Identity = p.Platform.DemotedIdentity()
		}
	}

	if s.OwnerAuth == nil || s.OwnerAuth.ParticipantID != s.OwnerID {
		s.OwnerAuth = &model.OwnerAuth{ParticipantID: s.OwnerID, GrantedAt: time.Now().UTC()}
	}

	s.RemoveManager(s.OwnerID)
}
