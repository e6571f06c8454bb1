// Package imaging provides the image handling behind field extraction: loading
// photos, resolving crop rectangles, cropping, preprocessing and debug output.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, Min is inclusive (top-left), Max is exclusive (bottom-right)
//
// # Regions
//
// A RegionSpec is one of four variants: Default, Preset, PercentFromBottom or
// Pixels. SelectRegion turns a spec and an image size into an image.Rectangle.
// Fractions are truncated, never rounded, and the result is not clamped:
//
//	r, err := imaging.SelectRegion(1000, 800, imaging.DefaultRegion())
//	// r == (350,440)-(1000,600)
//
// Pixel specs are resolved once and reused for every photo, so keeping them
// valid across photos of different sizes is up to the caller.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. The remaining functions are
// stateless.
package imaging
