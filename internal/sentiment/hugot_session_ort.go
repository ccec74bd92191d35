//go:build ORT || ALL

package sentiment

import "github.com/knights-analytics/hugot"

// ONNX Runtime backend; needs libonnxruntime on the library path.
func newHugotSession() (*hugot.Session, error) {
	return hugot.NewORTSession()
}
