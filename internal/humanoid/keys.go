// File: internal/humanoid/keys.go
package humanoid

import (
	"fmt"
	"strings"
)

// Key identifies a physical key by its Linux evdev key code. Using evdev codes
// lets the uinput effector emit keys without a translation table.
type Key uint16

const (
	KeyNone       Key = 0
	KeyEsc        Key = 1
	KeyTab        Key = 15
	KeyQ          Key = 16
	KeyW          Key = 17
	KeyE          Key = 18
	KeyR          Key = 19
	KeyT          Key = 20
	KeyY          Key = 21
	KeyU          Key = 22
	KeyI          Key = 23
	KeyO          Key = 24
	KeyP          Key = 25
	KeyEnter      Key = 28
	KeyLeftCtrl   Key = 29
	KeyA          Key = 30
	KeyS          Key = 31
	KeyD          Key = 32
	KeyF          Key = 33
	KeyG          Key = 34
	KeyH          Key = 35
	KeyJ          Key = 36
	KeyK          Key = 37
	KeyL          Key = 38
	KeyLeftShift  Key = 42
	KeyZ          Key = 44
	KeyX          Key = 45
	KeyC          Key = 46
	KeyV          Key = 47
	KeyB          Key = 48
	KeyN          Key = 49
	KeyM          Key = 50
	KeyRightShift Key = 54
	KeyLeftAlt    Key = 56
	KeySpace      Key = 57
	KeyRightCtrl  Key = 97
	KeyRightAlt   Key = 100
	KeyUp         Key = 103
	KeyLeft       Key = 105
	KeyRight      Key = 106
	KeyDown       Key = 108
	KeyLeftMeta   Key = 125
	KeyRightMeta  Key = 126
)

// keyNames maps the configuration spelling of a key to its code.
// Aliases ("mod", "rctl") follow the names used in keymap sources.
var keyNames = map[string]Key{
	"esc": KeyEsc, "tab": KeyTab, "enter": KeyEnter, "space": KeySpace,
	"up": KeyUp, "down": KeyDown, "left": KeyLeft, "right": KeyRight,
	"lctrl": KeyLeftCtrl, "rctrl": KeyRightCtrl, "rctl": KeyRightCtrl, "mod": KeyRightCtrl,
	"lshift": KeyLeftShift, "rshift": KeyRightShift,
	"lalt": KeyLeftAlt, "ralt": KeyRightAlt,
	"lmeta": KeyLeftMeta, "rmeta": KeyRightMeta,
	"a": KeyA, "b": KeyB, "c": KeyC, "d": KeyD, "e": KeyE, "f": KeyF, "g": KeyG,
	"h": KeyH, "i": KeyI, "j": KeyJ, "k": KeyK, "l": KeyL, "m": KeyM, "n": KeyN,
	"o": KeyO, "p": KeyP, "q": KeyQ, "r": KeyR, "s": KeyS, "t": KeyT, "u": KeyU,
	"v": KeyV, "w": KeyW, "x": KeyX, "y": KeyY, "z": KeyZ,
}

// canonicalNames is the reverse of keyNames, preferring the long spelling.
var canonicalNames = func() map[Key]string {
	m := make(map[Key]string, len(keyNames))
	for name, k := range keyNames {
		if existing, ok := m[k]; ok && len(existing) >= len(name) {
			continue
		}
		m[k] = name
	}
	return m
}()

// ParseKey resolves a key name (case-insensitive) to its code.
func ParseKey(name string) (Key, error) {
	k, ok := keyNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return KeyNone, fmt.Errorf("humanoid: unknown key name '%s'", name)
	}
	return k, nil
}

// String returns the canonical name of the key, or its numeric code.
func (k Key) String() string {
	if name, ok := canonicalNames[k]; ok {
		return name
	}
	return fmt.Sprintf("key(%d)", uint16(k))
}

// AllKeys returns every key the name table knows about.
// The uinput effector registers these capabilities on device creation.
func AllKeys() []Key {
	keys := make([]Key, 0, len(canonicalNames))
	for k := range canonicalNames {
		keys = append(keys, k)
	}
	return keys
}
