// Package detection provides the binary-image geometry used to find panels.
//
// Everything here works on *image.Gray masks where any non-zero sample is
// foreground:
//
//   - LabelComponents: 4-connected component labelling with area, bounding
//     box and centroid per component
//   - FindContours: outer and hole border tracing with a parent hierarchy
//   - PolygonArea, BoundingRect, FillPolygon: closed-polygon utilities
//   - DetectTextRegions: an edge-density heuristic for lettering, usable
//     when no OCR engine is installed
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//   - Rectangles use inclusive Min and exclusive Max
//
// Contour and component coordinates are relative to the mask's Bounds().Min.
//
// # Determinism
//
// Every function is a pure function of its input. Labels and contours are
// produced in raster-scan order, so identical masks always give identical
// results.
package detection
