package models

// Room represents a group of people sharing expenses.
type Room struct {
	// ID is the unique identifier for the room (UUID format).
	ID string

	// Name is the display name of the room (e.g., "Flat 4B").
	Name string

	// InviteCode is a unique 8-character code used to invite members.
	// Generated by the store when empty.
	InviteCode string

	// AdminID is the user who administers the room.
	AdminID string

	// Members is the list of user IDs in this room, in join order.
	Members []string

	// CreatedAt is the Unix timestamp when the room was created.
	CreatedAt int64
}

// HasMember reports whether userID belongs to the room.
func (r *Room) HasMember(userID string) bool {
	for _, m := range r.Members {
		if m == userID {
			return true
		}
	}
	return false
}
