//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package display

import "errors"

func monitors() ([]Monitor, error) {
	return nil, errors.New("monitor geometry is not supported on this platform")
}
