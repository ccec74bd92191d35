//go:build !ORT && !ALL

package sentiment

import "github.com/knights-analytics/hugot"

func newHugotSession() (*hugot.Session, error) {
	return hugot.NewGoSession()
}
