package dto

import (
	"encoding/json"
	"time"

	"tessera.app/spaced/internal/model"
)

// UpsertParticipantRequest carries the shallow patch; absent fields leave the
// stored value untouched.
type UpsertParticipantRequest struct {
	Name        *string                    `json:"name,omitempty" binding:"omitempty,min=1,max=128"`
	Identity    *model.Identity            `json:"identity,omitempty"`
	Platform    *model.Platform            `json:"platform,omitempty"`
	SyncedApps  map[string]bool            `json:"synced_apps,omitempty"`
	AppData     map[string]json.RawMessage `json:"app_data,omitempty"`
	SessionID   *string                    `json:"session_id,omitempty"`
	HandRaised  *bool                      `json:"hand_raised,omitempty"`
	InitialJoin bool                       `json:"initial_join"`
}

func (r *UpsertParticipantRequest) Patch() model.ParticipantPatch {
	return model.ParticipantPatch{
		Name:       r.Name,
		Identity:   r.Identity,
		Platform:   r.Platform,
		SyncedApps: r.SyncedApps,
		AppData:    r.AppData,
		SessionID:  r.SessionID,
		HandRaised: r.HandRaised,
	}
}

type ParticipantResponse struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Online     bool           `json:"online"`
	Identity   model.Identity `json:"identity"`
	SessionID  string         `json:"session_id,omitempty"`
	JoinedAt   time.Time      `json:"joined_at"`
	HandRaised bool           `json:"hand_raised"`
}

func ToParticipantResponse(p *model.Participant) *ParticipantResponse {
	return &ParticipantResponse{
		ID:         p.ID,
		Name:       p.Name,
		Online:     p.Online,
		Identity:   p.Identity,
		SessionID:  p.SessionID,
		JoinedAt:   p.JoinedAt,
		HandRaised: p.HandRaised,
	}
}

type RemoveParticipantResponse struct {
	Removed      bool `json:"removed"`
	SpaceCleared bool `json:"space_cleared,omitempty"`
}
