// Package ocr finds comic lettering with the Tesseract OCR engine (via
// gosseract/v2) so it can be erased before panel segmentation.
//
// # Prerequisites
//
// Tesseract and its language data must be installed:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// Training data outside the default location can be selected with
// Options.TessdataPrefix.
//
// # Usage
//
// Detector implements panels.TextDetector. Only word positions are used;
// every word's bounding box becomes a polygon to whiten. Words reports the
// recognised text too, for callers that want to see what was found.
//
// Tesseract handles are not safe for concurrent use, so a Detector
// serialises its calls. Build one per worker if OCR throughput matters.
package ocr
