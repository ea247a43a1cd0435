// Package imaging provides the raster primitives the panel extractor is built on.
//
// This package implements the page representation (Raster), codecs, and the
// small set of pixel operations segmentation needs: first-channel reduction,
// a fixed 5x5 Gaussian blur, thresholding, frame painting, cropping, masked
// whitening and intensity histograms. Annotate renders a debug overlay of cut
// panels.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, Min is inclusive (top-left), Max is exclusive (bottom-right)
//
// Rasters built here always start at the origin.
//
// # Thread Safety
//
// The PageCache type is safe for concurrent use. Every other operation is a
// pure function that returns fresh images and can be called concurrently.
//
// # Error Handling
//
// Functions return errors for invalid inputs such as:
//   - Empty or undecodable payloads
//   - Crop regions outside the raster or empty
//   - File I/O errors during page loading
//   - Encoding errors during image output
//
// # Performance Considerations
//
// For repeated operations on the same file, use PageCache to avoid redundant
// disk reads. Cached pages stay in memory until Evict() or Clear().
package imaging
