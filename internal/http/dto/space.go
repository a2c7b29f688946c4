package dto

import (
	"time"

	"tessera.app/spaced/internal/model"
)

type CreateSpaceRequest struct {
	Name        string                          `json:"name" binding:"required,min=1,max=128"`
	OwnerID     string                          `json:"owner_id,omitempty"`
	OwnerName   string                          `json:"owner_name,omitempty"`
	Platform    model.Platform                  `json:"platform,omitempty"`
	Persistent  bool                            `json:"persistent"`
	AllowGuests bool                            `json:"allow_guests"`
	Recording   bool                            `json:"recording"`
	Apps        []string                        `json:"apps,omitempty"`
	Policies    map[model.Identity]model.Policy `json:"policies,omitempty"`
}

type TransferOwnershipRequest struct {
	NewOwnerID string `json:"new_owner_id" binding:"required"`
}

type PromoteManagerRequest struct {
	ParticipantID string `json:"participant_id" binding:"required"`
}

type SpaceResponse struct {
	Name         string                         `json:"name"`
	OwnerID      string                         `json:"owner_id"`
	Managers     []string                       `json:"managers,omitempty"`
	Persistent   bool                           `json:"persistent"`
	AllowGuests  bool                           `json:"allow_guests"`
	Recording    bool                           `json:"recording"`
	Apps         []string                       `json:"apps,omitempty"`
	Rooms        map[string]*model.ChildRoom    `json:"rooms,omitempty"`
	Participants map[string]*model.Participant  `json:"participants"`
	CreatedAt    time.Time                      `json:"created_at"`
}

func ToSpaceResponse(sp *model.Space) *SpaceResponse {
	return &SpaceResponse{
		Name:         sp.Name,
		OwnerID:      sp.OwnerID,
		Managers:     sp.Managers,
		Persistent:   sp.Persistent,
		AllowGuests:  sp.AllowGuests,
		Recording:    sp.Recording,
		Apps:         sp.Apps,
		Rooms:        sp.Rooms,
		Participants: sp.Participants,
		CreatedAt:    sp.CreatedAt,
	}
}

func ToSpaceResponses(spaces []*model.Space) []*SpaceResponse {
	out := make([]*SpaceResponse, len(spaces))
	for i, sp := range spaces {
		out[i] = ToSpaceResponse(sp)
	}
	return out
}
