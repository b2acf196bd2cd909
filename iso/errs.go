package iso

import "errors"

var (
	ErrDecode = errors.New("iso decode")
	ErrEncode = errors.New("iso encode")
)
