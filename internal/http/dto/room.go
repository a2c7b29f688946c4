package dto

import "tessera.app/spaced/internal/model"

type CreateRoomRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=128"`
	OwnerID string `json:"owner_id" binding:"required"`
	Private bool   `json:"private"`
}

type RenameRoomRequest struct {
	NewName string `json:"new_name" binding:"required,min=1,max=128"`
}

type RoomPrivacyRequest struct {
	Private *bool `json:"private" binding:"required"`
}

type RoomMemberRequest struct {
	ParticipantID string `json:"participant_id" binding:"required"`
}

type RoomResponse struct {
	Name    string   `json:"name"`
	OwnerID string   `json:"owner_id"`
	Private bool     `json:"private"`
	Members []string `json:"members"`
}

func ToRoomResponse(r *model.ChildRoom) *RoomResponse {
	members := make([]string, 0, len(r.Members))
	for id := range r.Members {
		members = append(members, id)
	}
	return &RoomResponse{
		Name:    r.Name,
		OwnerID: r.OwnerID,
		Private: r.Private,
		Members: members,
	}
}

// PairingResponse reports the room actually joined, which can differ from the
// requested one when the customer was redirected.
type PairingResponse struct {
	Room string `json:"room"`
}
