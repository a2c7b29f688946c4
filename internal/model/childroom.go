package model

// ChildRoom is a breakout room nested inside a space. Members is kept as a
// set; JSON round-trips it as an object with empty values.
type ChildRoom struct {
	Name    string              `json:"name"`
	OwnerID string              `json:"owner_id"`
	Private bool                `json:"private"`
	Members map[string]struct{} `json:"members,omitempty"`
}

func NewChildRoom(name, ownerID string, private bool) *ChildRoom {
	return &ChildRoom{
		Name:    name,
		OwnerID: ownerID,
		Private: private,
		Members: make(map[string]struct{}),
	}
}

func (r *ChildRoom) Has(participantID string) bool {
	_, ok := r.Members[participantID]
	return ok
}

func (r *ChildRoom) Add(participantID string) {
	if r.Members == nil {
		r.Members = make(map[string]struct{})
	}
	r.Members[participantID] = struct{}{}
}

func (r *ChildRoom) Remove(participantID string) {
	delete(r.Members, participantID)
}

func (r *ChildRoom) Occupancy() int {
	return len(r.Members)
}
