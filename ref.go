package rawimage

// ImageRef is a non-owning reference to an Image. Unlike a raw ImageHandle, it knows when the
// Image it points to has been destroyed.
type ImageRef struct {
	image *Image
}

// Ref returns a non-owning reference to the image
func (i *Image) Ref() ImageRef {
	return ImageRef{image: i}
}

// Handle returns the referenced image's native handle, or false if the image has been
// destroyed or the reference is empty
func (r ImageRef) Handle() (ImageHandle, bool) {
	if r.image == nil || r.image.destroyed.Load() {
		return 0, false
	}

	return r.image.handle, true
}
