// Package panels cuts scanned comic pages into individual panels.
//
// A page goes through four stages:
//
//  1. Classify: pages whose paper has visible texture (a high share of
//     midtone samples) are not segmented and are handed back unchanged.
//  2. RemoveText: text found by a TextDetector is painted white so that
//     lettering in the gutters does not bridge neighbouring panels.
//  3. SegmentBlock: the page is binarized and the paper gutter that
//     surrounds the panels is isolated as a mask.
//  4. CutPanels: the borders of that mask are traced and every border whose
//     area falls inside the configured window becomes a Panel, cropped to
//     its bounding box with everything outside the border whitened.
//
// Extractor runs the stages over a batch of encoded pages concurrently and
// returns PNG-encoded panels keyed by input index. Failures are confined to
// the page that caused them and reported through *BatchError.
//
// The raster stages are pluggable through Backend; the pure Go
// implementation is always registered as "native".
package panels
