package services

import "errors"

var (
	ErrKitNotFound         = errors.New("master kit not found")
	ErrVersionNotFound     = errors.New("version not found")
	ErrItemNotFound        = errors.New("item not found")
	ErrAlreadyInCollection = errors.New("already in collection")
	ErrAlreadyInWishlist   = errors.New("already in wishlist")
	ErrNoFieldsToUpdate    = errors.New("no fields to update")
)
