package cart

import "errors"

var ErrItemNotFound = errors.New("item not found in cart")
