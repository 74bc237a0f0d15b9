package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// User account statuses.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
	UserStatusBlocked  = "blocked"
)

// Roles carried in token claims.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is a phone-keyed customer account. Addresses and cart are owned value
// slices stored as JSON columns, so every mutation is a whole-document
// read-modify-write against a single row. Token material is never serialized
// to API responses.
type User struct {
	BaseModel
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `gorm:"uniqueIndex" json:"phone"`
	Role   string `gorm:"default:user" json:"role"`
	Status string `gorm:"default:active" json:"status"`

	Addresses datatypes.JSONSlice[Address]  `json:"addresses"`
	Cart      datatypes.JSONSlice[CartItem] `json:"cart"`
	Wishlist  pq.StringArray                `gorm:"type:text[]" json:"wishlist"`

	LastLogin  time.Time `json:"last_login"`
	LoginCount int       `json:"login_count"`

	AccessToken        *string    `json:"-"`
	RefreshToken       *string    `json:"-"`
	TokenExpiry        *time.Time `json:"-"`
	RefreshTokenExpiry *time.Time `json:"-"`
}

// CartItem maps a product to a desired quantity.
type CartItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// RecordLogin bumps the login counters.
func (u *User) RecordLogin(now time.Time) {
	u.LastLogin = now
	u.LoginCount++
}

// SetSession overwrites the stored token pair in full. Any previously issued
// pair for this user stops being valid because only one pair is kept.
func (u *User) SetSession(access string, accessExpiry time.Time, refresh string, refreshExpiry time.Time) {
	u.AccessToken = &access
	u.TokenExpiry = &accessExpiry
	u.RefreshToken = &refresh
	u.RefreshTokenExpiry = &refreshExpiry
}

// SetAccessToken replaces only the access credential. The refresh token and
// its expiry are left untouched.
func (u *User) SetAccessToken(access string, expiry time.Time) {
	u.AccessToken = &access
	u.TokenExpiry = &expiry
}

// ClearSession drops all stored token material.
func (u *User) ClearSession() {
	u.AccessToken = nil
	u.TokenExpiry = nil
	u.RefreshToken = nil
	u.RefreshTokenExpiry = nil
}

// HasRefreshToken reports whether the presented token matches the stored one
// and the stored expiry has not elapsed.
func (u *User) HasRefreshToken(raw string, now time.Time) bool {
	if u.RefreshToken == nil || *u.RefreshToken != raw {
		return false
	}
	return u.RefreshTokenExpiry != nil && u.RefreshTokenExpiry.After(now)
}

// UpsertCartItem sets the quantity for a product, adding the line when it is
// not in the cart yet. Last write wins on quantity.
func (u *User) UpsertCartItem(productID string, quantity int) {
	for i := range u.Cart {
		if u.Cart[i].ProductID == productID {
			u.Cart[i].Quantity = quantity
			return
		}
	}
	u.Cart = append(u.Cart, CartItem{ProductID: productID, Quantity: quantity})
}

// RemoveCartItem drops a product line from the cart if present.
func (u *User) RemoveCartItem(productID string) {
	filtered := u.Cart[:0]
	for _, item := range u.Cart {
		if item.ProductID != productID {
			filtered = append(filtered, item)
		}
	}
	u.Cart = filtered
}

// AddToWishlist records a product ID once; duplicates are ignored.
func (u *User) AddToWishlist(productID string) {
	for _, id := range u.Wishlist {
		if id == productID {
			return
		}
	}
	u.Wishlist = append(u.Wishlist, productID)
}

// RemoveFromWishlist drops a product ID if present.
func (u *User) RemoveFromWishlist(productID string) {
	filtered := u.Wishlist[:0]
	for _, id := range u.Wishlist {
		if id != productID {
			filtered = append(filtered, id)
		}
	}
	u.Wishlist = filtered
}
