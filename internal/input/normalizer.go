// Package input reconciles raw, possibly composed text input into a
// single stream of change and commit events.
package input

// Normalizer turns raw buffer mutations into stable change/commit events.
// While a composition session is open the raw buffer is unstable, so raw
// changes are suppressed until the composition closes. The normalizer has
// no game knowledge; it forwards buffer contents verbatim.
type Normalizer struct {
	onChange func(text string)
	onCommit func(text string)

	composing bool
	lastText  string
}

// NewNormalizer builds a normalizer emitting into the given callbacks.
// Either callback may be nil.
func NewNormalizer(onChange, onCommit func(text string)) *Normalizer {
	return &Normalizer{onChange: onChange, onCommit: onCommit}
}

// Composing reports whether a composition session is open.
func (n *Normalizer) Composing() bool {
	return n.composing
}

// RawChange reports a raw buffer mutation. Suppressed mid-composition.
func (n *Normalizer) RawChange(text string) {
	if n.composing {
		return
	}
	n.emitChange(text)
}

// CompositionOpen marks the start of a composition session.
func (n *Normalizer) CompositionOpen() {
	n.composing = true
}

// CompositionClose ends a composition session and immediately flushes the
// final buffer as one change event; the platform is not guaranteed to send
// a raw change afterwards.
func (n *Normalizer) CompositionClose(finalText string) {
	n.composing = false
	n.emitChange(finalText)
}

// Commit reports an explicit submit of the current buffer. Ignored while
// a composition session is open.
func (n *Normalizer) Commit(text string) {
	if n.composing {
		return
	}
	if n.onCommit != nil {
		n.onCommit(text)
	}
}

func (n *Normalizer) emitChange(text string) {
	n.lastText = text
	if n.onChange != nil {
		n.onChange(text)
	}
}

// Last returns the most recently emitted buffer content.
func (n *Normalizer) Last() string {
	return n.lastText
}
