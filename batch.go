package rawimage

import (
	"context"

	"golang.org/x/exp/slog"
	"golang.org/x/sync/errgroup"
)

// NewBatch creates one image per entry in infos concurrently, returning them in the same
// order. If any image fails to be created, every image that was created is destroyed and the
// first error is returned. Images that have not started being created when ctx is cancelled
// are skipped.
//
// Every entry in infos is checked before any image is created, so malformed entries panic in
// the calling goroutine just as they would with New. A MemoryAllocator that returns an
// unsupported chunk still panics inside a worker goroutine, which ends the process.
//
// device and allocator must both be safe for concurrent use.
func NewBatch(ctx context.Context, logger *slog.Logger, device Device, allocator MemoryAllocator, infos []CreateInfo) ([]*Image, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("Image::NewBatch")

	for _, info := range infos {
		buildCreateInfo(info)
	}

	images := make([]*Image, len(infos))
	group, groupCtx := errgroup.WithContext(ctx)

	for index := range infos {
		index := index
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			image, err := New(logger, device, allocator, infos[index])
			if err != nil {
				return err
			}
			images[index] = image
			return nil
		})
	}

	err := group.Wait()
	if err != nil {
		for _, image := range images {
			if image != nil {
				image.Destroy()
			}
		}
		return nil, err
	}

	return images, nil
}
