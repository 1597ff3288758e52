package layout

import "fmt"

// Kind identifies the built-in message kinds. User defined messages use
// KindCustom and carry their payload as an arbitrary value.
type Kind int

const (
	KindCustom Kind = iota
	KindIncMain
	KindExpandMain
	KindShrinkMain
	KindRotate
	KindMirror
	KindUnwrap
	KindHide
	KindShutdown
)

var kindNames = map[Kind]string{
	KindCustom:     "custom",
	KindIncMain:    "inc-main",
	KindExpandMain: "expand-main",
	KindShrinkMain: "shrink-main",
	KindRotate:     "rotate",
	KindMirror:     "mirror",
	KindUnwrap:     "unwrap",
	KindHide:       "hide",
	KindShutdown:   "shutdown",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Message is delivered to layouts to adjust their behaviour.
type Message struct {
	kind    Kind
	delta   int
	payload any
}

// IncMain changes the number of main windows by n. Negative n decreases it.
func IncMain(n int) Message { return Message{kind: KindIncMain, delta: n} }

// DecMain is IncMain(-n).
func DecMain(n int) Message { return IncMain(-n) }

// ExpandMain grows the main area by the layout's ratio step.
func ExpandMain() Message { return Message{kind: KindExpandMain} }

// ShrinkMain shrinks the main area by the layout's ratio step.
func ShrinkMain() Message { return Message{kind: KindShrinkMain} }

// Rotate toggles the layout orientation.
func Rotate() Message { return Message{kind: KindRotate} }

// Mirror toggles which side the main area is placed on.
func Mirror() Message { return Message{kind: KindMirror} }

// Unwrap asks a transformer to replace itself with the layout it wraps.
func Unwrap() Message { return Message{kind: KindUnwrap} }

// Hide is sent when the owning workspace stops being visible.
func Hide() Message { return Message{kind: KindHide} }

// Shutdown is broadcast before the window manager exits.
func Shutdown() Message { return Message{kind: KindShutdown} }

// Custom wraps a user defined payload.
func Custom(payload any) Message { return Message{kind: KindCustom, payload: payload} }

// Kind returns the message kind.
func (m Message) Kind() Kind { return m.kind }

// Delta returns the count carried by IncMain messages.
func (m Message) Delta() int { return m.delta }

func (m Message) String() string {
	switch m.kind {
	case KindIncMain:
		return fmt.Sprintf("inc-main(%d)", m.delta)
	case KindCustom:
		return fmt.Sprintf("custom(%T)", m.payload)
	}
	return m.kind.String()
}

// Payload extracts a custom payload of type T.
func Payload[T any](m Message) (T, bool) {
	if m.kind != KindCustom {
		var zero T
		return zero, false
	}
	v, ok := m.payload.(T)
	return v, ok
}
