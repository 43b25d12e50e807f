package generator

import "errors"

// Stage errors. Every error returned by Generate wraps exactly one of these.
var (
	ErrDiscover  = errors.New("route discovery failed")
	ErrSerialize = errors.New("sitemap serialization failed")
	ErrWrite     = errors.New("sitemap write failed")
)
