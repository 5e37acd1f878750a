package domain

// ProductFilter narrows catalog listings. Nil pointers mean "no constraint".
type ProductFilter struct {
	CategoryID *uint
	IsVerify   *bool
	IsSoldout  *bool
	MinPrice   *float64
	MaxPrice   *float64
	Status     ProductStatus
	OwnerID    *uint
	OwnerRole  Role
	BuyerID    *uint
}
