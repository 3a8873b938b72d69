package render

import "fmt"

// ImageError reports an unreadable, corrupt, or unsupported source
// image. The facade converts it into the placeholder frame.
type ImageError struct {
	Path string
	Err  error
}

func (e *ImageError) Error() string {
	return fmt.Sprintf("image %s: %v", e.Path, e.Err)
}

func (e *ImageError) Unwrap() error { return e.Err }

// GeometryError reports a requested geometry that resolves to a
// non-positive pixel grid. It surfaces to the caller, unlike image and
// cache failures.
type GeometryError struct {
	Op     string
	Detail string
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("geometry: %s: %s", e.Op, e.Detail)
}

// CacheIOError reports a failed cache read or write. It is always
// absorbed: a failed read is a miss, a failed write leaves the already
// rendered frame intact. Exposed only through debug logs.
type CacheIOError struct {
	Op  string
	Err error
}

func (e *CacheIOError) Error() string {
	return fmt.Sprintf("cache %s: %v", e.Op, e.Err)
}

func (e *CacheIOError) Unwrap() error { return e.Err }
