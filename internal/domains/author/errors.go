package author

import "errors"

var ErrInvalidIDList = errors.New("author id list is malformed")
