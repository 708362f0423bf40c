//go:build linux

// Filename: internal/host/uinput_linux.go
package host

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/xkilldash9x/macrokey/internal/config"
	"github.com/xkilldash9x/macrokey/internal/humanoid"
)

// linux/uinput.h and linux/input-event-codes.h
const (
	uiSetEvBit   = 0x40045564 // _IOW('U', 100, int)
	uiSetKeyBit  = 0x40045565 // _IOW('U', 101, int)
	uiDevCreate  = 0x5501     // _IO('U', 1)
	uiDevDestroy = 0x5502     // _IO('U', 2)

	evSyn     = 0x00
	evKey     = 0x01
	synReport = 0

	busVirtual = 0x06

	uinputMaxNameSize = 80
	absCnt            = 64
)

// uinputUserDev is the legacy struct uinput_user_dev written before
// UI_DEV_CREATE.
type uinputUserDev struct {
	Name         [uinputMaxNameSize]byte
	BusType      uint16
	Vendor       uint16
	Product      uint16
	Version      uint16
	FFEffectsMax uint32
	AbsMax       [absCnt]int32
	AbsMin       [absCnt]int32
	AbsFuzz      [absCnt]int32
	AbsFlat      [absCnt]int32
}

// inputEvent is struct input_event.
type inputEvent struct {
	Time  unix.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

// UinputEffector drives a virtual keyboard through /dev/uinput.
type UinputEffector struct {
	mu     sync.Mutex
	file   *os.File
	logger *zap.Logger
}

// NewUinputEffector creates the virtual keyboard. Every key in the key table
// is registered as a capability.
func NewUinputEffector(cfg config.UinputConfig, logger *zap.Logger) (*UinputEffector, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	f, err := os.OpenFile(cfg.Device, os.O_WRONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", cfg.Device, err)
	}
	fd := int(f.Fd())

	fail := func(step string, err error) (*UinputEffector, error) {
		f.Close()
		return nil, fmt.Errorf("uinput %s: %w", step, err)
	}

	if err := unix.IoctlSetInt(fd, uiSetEvBit, evKey); err != nil {
		return fail("UI_SET_EVBIT", err)
	}
	for _, k := range humanoid.AllKeys() {
		if err := unix.IoctlSetInt(fd, uiSetKeyBit, int(k)); err != nil {
			return fail(fmt.Sprintf("UI_SET_KEYBIT %s", k), err)
		}
	}

	dev := uinputUserDev{
		BusType: busVirtual,
		Vendor:  cfg.VendorID,
		Product: cfg.ProductID,
		Version: 1,
	}
	copy(dev.Name[:uinputMaxNameSize-1], cfg.Name)
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.NativeEndian, &dev); err != nil {
		return fail("encode device", err)
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		return fail("write device", err)
	}
	if err := unix.IoctlSetInt(fd, uiDevCreate, 0); err != nil {
		return fail("UI_DEV_CREATE", err)
	}

	logger.Info("Uinput virtual keyboard created.",
		zap.String("device", cfg.Device),
		zap.String("name", cfg.Name),
	)
	return &UinputEffector{file: f, logger: logger.Named("uinput")}, nil
}

func (u *UinputEffector) Assert(k humanoid.Key) error   { return u.emitKey(k, 1) }
func (u *UinputEffector) Deassert(k humanoid.Key) error { return u.emitKey(k, 0) }

// emitKey writes the key event and its SYN_REPORT in one write.
func (u *UinputEffector) emitKey(k humanoid.Key, value int32) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.file == nil {
		return os.ErrClosed
	}

	var tv unix.Timeval
	if err := unix.Gettimeofday(&tv); err != nil {
		return fmt.Errorf("gettimeofday: %w", err)
	}
	events := [2]inputEvent{
		{Time: tv, Type: evKey, Code: uint16(k), Value: value},
		{Time: tv, Type: evSyn, Code: synReport, Value: 0},
	}
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.NativeEndian, &events); err != nil {
		return err
	}
	if _, err := u.file.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("uinput write %s: %w", k, err)
	}
	return nil
}

// Close destroys the virtual device.
func (u *UinputEffector) Close() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.file == nil {
		return nil
	}
	err := unix.IoctlSetInt(int(u.file.Fd()), uiDevDestroy, 0)
	if cerr := u.file.Close(); err == nil {
		err = cerr
	}
	u.file = nil
	u.logger.Info("Uinput virtual keyboard destroyed.")
	return err
}
