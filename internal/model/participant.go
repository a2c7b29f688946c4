package model

import (
	"encoding/json"
	"time"
)

// Identity is the role a participant holds inside a space.
type Identity string

const (
	IdentityUnset       Identity = ""
	IdentityOwner       Identity = "owner"
	IdentityManager     Identity = "manager"
	IdentityCustomer    Identity = "customer"
	IdentityGuest       Identity = "guest"
	IdentityParticipant Identity = "participant"
)

// Platform is the closed set of client platforms a participant can join from.
// It decides which role a displaced owner falls back to.
type Platform string

const (
	PlatformWeb     Platform = "web"
	PlatformMobile  Platform = "mobile"
	PlatformService Platform = "service"
	PlatformOther   Platform = "other"
)

// DemotedIdentity returns the role a former owner drops to, keyed by the
// platform it originally joined from.
func (p Platform) DemotedIdentity() Identity {
	switch p {
	case PlatformOther:
		return IdentityGuest
	case PlatformService:
		return IdentityCustomer
	case PlatformWeb, PlatformMobile:
		return IdentityParticipant
	default:
		return IdentityParticipant
	}
}

type Participant struct {
	ID         string                     `json:"id"`
	Name       string                     `json:"name"`
	Online     bool                       `json:"online"`
	Identity   Identity                   `json:"identity"`
	Platform   Platform                   `json:"platform"`
	SyncedApps map[string]bool            `json:"synced_apps,omitempty"`
	AppData    map[string]json.RawMessage `json:"app_data,omitempty"`
	SessionID  string                     `json:"session_id,omitempty"`
	JoinedAt   time.Time                  `json:"joined_at"`
	HandRaised bool                       `json:"hand_raised"`
}

// Authenticated reports whether the participant has a real role behind it.
// Unauthenticated guests are dropped even from persistent spaces.
func (p *Participant) Authenticated() bool {
	return p.Identity != IdentityGuest && p.Identity != IdentityUnset
}

// ParticipantPatch is a shallow, top-level merge applied by upsert. Nil fields
// leave the existing value untouched.
type ParticipantPatch struct {
	Name       *string                    `json:"name,omitempty"`
	Identity   *Identity                  `json:"identity,omitempty"`
	Platform   *Platform                  `json:"platform,omitempty"`
	SyncedApps map[string]bool            `json:"synced_apps,omitempty"`
	AppData    map[string]json.RawMessage `json:"app_data,omitempty"`
	SessionID  *string                    `json:"session_id,omitempty"`
	HandRaised *bool                      `json:"hand_raised,omitempty"`
}

// Apply merges the patch into p. Maps replace whole keys, not nested values.
func (patch ParticipantPatch) Apply(p *Participant) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Identity != nil {
		p.Identity = *patch.Identity
	}
	if patch.Platform != nil {
		p.Platform = *patch.Platform
	}
	if patch.SessionID != nil {
		p.SessionID = *patch.SessionID
	}
	if patch.HandRaised != nil {
		p.HandRaised = *patch.HandRaised
	}
	for app, synced := range patch.SyncedApps {
		if p.SyncedApps == nil {
			p.SyncedApps = make(map[string]bool)
		}
		p.SyncedApps[app] = synced
	}
	for app, data := range patch.AppData {
		if p.AppData == nil {
			p.AppData = make(map[string]json.RawMessage)
		}
		p.AppData[app] = data
	}
}
