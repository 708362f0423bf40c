//go:build !linux

// Filename: internal/host/uinput_other.go
package host

import (
	"errors"

	"go.uber.org/zap"

	"github.com/xkilldash9x/macrokey/internal/config"
	"github.com/xkilldash9x/macrokey/internal/humanoid"
)

// ErrUinputUnsupported is returned on platforms without /dev/uinput.
var ErrUinputUnsupported = errors.New("host: uinput is only available on linux")

// UinputEffector is unavailable on this platform.
type UinputEffector struct{}

func NewUinputEffector(cfg config.UinputConfig, logger *zap.Logger) (*UinputEffector, error) {
	return nil, ErrUinputUnsupported
}

func (u *UinputEffector) Assert(k humanoid.Key) error   { return ErrUinputUnsupported }
func (u *UinputEffector) Deassert(k humanoid.Key) error { return ErrUinputUnsupported }
func (u *UinputEffector) Close() error                  { return nil }
