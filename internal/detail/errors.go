package detail

import "errors"

var (
	ErrClosed           = errors.New("stream is closed")
	ErrNoOutstanding    = errors.New("acknowledge called with no outstanding records")
	ErrTokenReleased    = errors.New("token was already acknowledged")
	ErrForeignToken     = errors.New("token does not belong to this stream")
	ErrLeftoverOverflow = errors.New("buffer leftover fills the whole buffer")
	ErrEmptyReply       = errors.New("reply must carry at least one byte")
)
