// Package access holds the role and ownership rules that gate mutations.
// Every check returns nil or a Rejection; none of them touch storage.
package access

import (
	"github.com/google/uuid"

	"svgecommerce/internal/errors"
	"svgecommerce/internal/model"
)

// Actor is the authenticated caller as decoded from the bearer token.
type Actor struct {
	ID         uuid.UUID
	Email      string
	IsAdmin    bool
	IsDesigner bool
	TokenID    string
}

// CanShop allows regular users and designers. Admins cannot cart, order or comment.
func CanShop(a Actor, message string) error {
	if a.IsAdmin {
		return errors.Reject(message)
	}
	return nil
}

// CanManageProducts allows admins and designers.
func CanManageProducts(a Actor, action string) error {
	if !a.IsAdmin && !a.IsDesigner {
		return errors.Reject("Only admin or designer can " + action + " a product")
	}
	return nil
}

// RequireAdmin allows admins only.
func RequireAdmin(a Actor, message string) error {
	if !a.IsAdmin {
		return errors.Reject(message)
	}
	return nil
}

// RequireDesigner allows designers and admins.
func RequireDesigner(a Actor, message string) error {
	if !a.IsDesigner && !a.IsAdmin {
		return errors.Reject(message)
	}
	return nil
}

// OwnsProduct requires a designer who is not an admin to be the creator of p.
func OwnsProduct(a Actor, p *model.Product) error {
	if p == nil {
		return errors.Reject("Product does not exists!")
	}
	if !a.IsAdmin && a.IsDesigner && p.CreatorID != a.ID {
		return errors.Reject("This is not your product!")
	}
	return nil
}

// OwnsComment requires the actor to be the author of c and c to belong to productID.
func OwnsComment(a Actor, c *model.Comment, productID uuid.UUID) error {
	if c == nil {
		return errors.Reject("Comment not found")
	}
	if c.UserID != a.ID {
		return errors.Reject("This is not your comment!")
	}
	if c.ProductID != productID {
		return errors.Reject("No comment found on the product you provided!")
	}
	return nil
}

// CanRemoveComment is OwnsComment with an admin override on authorship.
func CanRemoveComment(a Actor, c *model.Comment, productID uuid.UUID) error {
	if c == nil {
		return errors.Reject("Comment not found")
	}
	if c.UserID != a.ID && !a.IsAdmin {
		return errors.Reject("This is not your comment!")
	}
	if c.ProductID != productID {
		return errors.Reject("No comment found on the product you provided!")
	}
	return nil
}
