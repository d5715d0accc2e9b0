package richtext

import "errors"

var ErrNoSuchImage = errors.New("image index out of range")
