// Package intent models action intents: serializable, side-effect-free
// descriptions of what executing a result would do. Intents are a closed
// tagged union so that no executable value can cross the plugin trust
// boundary; the only way untrusted code can cause a side effect is to
// return one of these data-only variants and have the trusted action
// performer carry it out after a permission check.
package intent

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/glintlauncher/glint/internal/domain/capability"
)

// Intent errors.
var (
	ErrUnknownType = errors.New("unknown intent type")
	ErrMalformed   = errors.New("malformed intent")
)

// Type identifies an intent variant on the wire.
type Type string

// Intent type tags.
const (
	TypeLaunch         Type = "launch"
	TypeClipboardWrite Type = "clipboard-write"
	TypeOpenURL        Type = "open-url"
	TypePopup          Type = "popup"
	TypeNotify         Type = "notify"
	TypeNone           Type = "none"
)

// Intent is a serializable description of a side effect. Implementations
// are value types carrying only data; the sum is closed by the unexported
// sealed method.
type Intent interface {
	// Type returns the wire tag of the variant.
	Type() Type

	// RequiredCapability returns the capability the originating plugin
	// must hold for the action performer to execute this intent. The
	// zero capability means no privilege is required.
	RequiredCapability() capability.Capability

	sealed()
}

// Launch starts an application or opens a file.
type Launch struct {
	Path string
}

// ClipboardWrite replaces the clipboard contents.
type ClipboardWrite struct {
	Text string
}

// OpenURL opens a URL in the default browser.
type OpenURL struct {
	URL string
}

// Popup displays an in-app popup with an arbitrary JSON payload.
// Rendering happens in the display layer; no privileged sink is involved.
type Popup struct {
	Payload json.RawMessage
}

// Notify shows a system notification.
type Notify struct {
	Title   string
	Message string
}

// None is the empty intent; selecting such a result does nothing.
type None struct{}

// Type implementations.

// Type returns TypeLaunch.
func (Launch) Type() Type { return TypeLaunch }

// Type returns TypeClipboardWrite.
func (ClipboardWrite) Type() Type { return TypeClipboardWrite }

// Type returns TypeOpenURL.
func (OpenURL) Type() Type { return TypeOpenURL }

// Type returns TypePopup.
func (Popup) Type() Type { return TypePopup }

// Type returns TypeNotify.
func (Notify) Type() Type { return TypeNotify }

// Type returns TypeNone.
func (None) Type() Type { return TypeNone }

// RequiredCapability implementations. Launch and OpenURL require a
// capability only for plugin-originated results; the trusted-origin
// exemption is applied by the action performer, not here.

// RequiredCapability returns the shell capability.
func (Launch) RequiredCapability() capability.Capability { return capability.CapShell }

// RequiredCapability returns the clipboard write capability.
func (ClipboardWrite) RequiredCapability() capability.Capability {
	return capability.CapClipboardWrite
}

// RequiredCapability returns the network capability.
func (OpenURL) RequiredCapability() capability.Capability { return capability.CapNetwork }

// RequiredCapability returns the zero capability; popups need no privilege.
func (Popup) RequiredCapability() capability.Capability { return capability.Capability{} }

// RequiredCapability returns the notification capability.
func (Notify) RequiredCapability() capability.Capability { return capability.CapNotification }

// RequiredCapability returns the zero capability.
func (None) RequiredCapability() capability.Capability { return capability.Capability{} }

func (Launch) sealed()         {}
func (ClipboardWrite) sealed() {}
func (OpenURL) sealed()        {}
func (Popup) sealed()          {}
func (Notify) sealed()         {}
func (None) sealed()           {}

// envelope is the JSON wire form shared by all variants.
type envelope struct {
	Type    Type            `json:"type"`
	Path    string          `json:"path,omitempty"`
	Text    string          `json:"text,omitempty"`
	URL     string          `json:"url,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Title   string          `json:"title,omitempty"`
	Message string          `json:"message,omitempty"`
}

// Marshal encodes an intent to its JSON wire form.
func Marshal(in Intent) ([]byte, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: nil intent", ErrMalformed)
	}
	env := envelope{Type: in.Type()}
	switch v := in.(type) {
	case Launch:
		env.Path = v.Path
	case ClipboardWrite:
		env.Text = v.Text
	case OpenURL:
		env.URL = v.URL
	case Popup:
		env.Payload = v.Payload
	case Notify:
		env.Title = v.Title
		env.Message = v.Message
	case None:
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownType, in)
	}
	return json.Marshal(env)
}

// Unmarshal decodes an intent from its JSON wire form, validating that
// the variant carries the fields it requires.
func Unmarshal(data []byte) (Intent, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return fromEnvelope(env)
}

func fromEnvelope(env envelope) (Intent, error) {
	switch env.Type {
	case TypeLaunch:
		if env.Path == "" {
			return nil, fmt.Errorf("%w: launch intent requires a path", ErrMalformed)
		}
		return Launch{Path: env.Path}, nil
	case TypeClipboardWrite:
		return ClipboardWrite{Text: env.Text}, nil
	case TypeOpenURL:
		if env.URL == "" {
			return nil, fmt.Errorf("%w: open-url intent requires a url", ErrMalformed)
		}
		return OpenURL{URL: env.URL}, nil
	case TypePopup:
		return Popup{Payload: env.Payload}, nil
	case TypeNotify:
		if env.Title == "" && env.Message == "" {
			return nil, fmt.Errorf("%w: notify intent requires a title or message", ErrMalformed)
		}
		return Notify{Title: env.Title, Message: env.Message}, nil
	case TypeNone, "":
		return None{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, env.Type)
	}
}
