package domain

import "errors"

var ErrNotFound = errors.New("property not found")
