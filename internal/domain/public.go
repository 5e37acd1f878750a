package domain

import "encoding/json" // Custom serialization of embedded users

// PublicUser is the part of a User shown to other users
type PublicUser struct {
	ID    uint   `json:"id"`    // Primary key
	Name  string `json:"name"`  // Display name
	Photo string `json:"photo"` // Relative URL of the profile picture
	Role  Role   `json:"role"`  // admin, seller or buyer
}

// Public strips contact and balance fields. A nil user stays nil.
func (u *User) Public() *PublicUser {
	if u == nil {
		return nil
	}
	return &PublicUser{ID: u.ID, Name: u.Name, Photo: u.Photo, Role: u.Role}
}

// MarshalJSON renders the seller and buyer as public users. Balances and
// emails of embedded users are only visible through the account endpoints.
func (p Product) MarshalJSON() ([]byte, error) {
	type product Product // Same fields, no MarshalJSON
	return json.Marshal(struct {
		product
		Owner *PublicUser `json:"user,omitempty"`
		Buyer *PublicUser `json:"userTo,omitempty"`
	}{product(p), p.Owner.Public(), p.Buyer.Public()})
}

// MarshalJSON renders the bidder as a public user
func (b Bid) MarshalJSON() ([]byte, error) {
	type bid Bid // Same fields, no MarshalJSON
	return json.Marshal(struct {
		bid
		User *PublicUser `json:"user,omitempty"`
	}{bid(b), b.User.Public()})
}

// MarshalJSON renders the category owner as a public user
func (c Category) MarshalJSON() ([]byte, error) {
	type category Category // Same fields, no MarshalJSON
	return json.Marshal(struct {
		category
		User *PublicUser `json:"user,omitempty"`
	}{category(c), c.User.Public()})
}
