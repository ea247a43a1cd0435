// Package opencv is a panels.Backend built on OpenCV through gocv.
//
// It is only compiled with the opencv build tag, since gocv needs the OpenCV
// 4 libraries at build time:
//
//	go build -tags opencv ./cmd/panel-extractor
//
// Blur, binarization, component labeling and contour tracing run in OpenCV.
// Frame painting, the component ranking rule and the masked crop are shared
// with the native backend, so both backends pick the same block and cut
// panels the same way.
package opencv
