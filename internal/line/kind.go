package line

// Kind tags the shape of a physical line. The set is closed and the kinds
// are mutually exclusive.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindComment
	KindPersistence
	KindSection
	KindInclude
	KindValue
	KindMultiLineStart
	KindContinuation
	KindContinuationComment
	KindContinuationEmpty
)

// String implements the Stringer interface for Kind
func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "Empty"
	case KindComment:
		return "Comment"
	case KindPersistence:
		return "Persistence"
	case KindSection:
		return "Section"
	case KindInclude:
		return "Include"
	case KindValue:
		return "Value"
	case KindMultiLineStart:
		return "MultiLineStart"
	case KindContinuation:
		return "Continuation"
	case KindContinuationComment:
		return "ContinuationComment"
	case KindContinuationEmpty:
		return "ContinuationEmpty"
	default:
		return "Unknown"
	}
}

// Toggleable reports whether lines of this kind keep their identity when
// prefixed by a comment marker.
func (k Kind) Toggleable() bool {
	switch k {
	case KindSection, KindInclude, KindValue, KindMultiLineStart, KindContinuation:
		return true
	}
	return false
}

// IsKey reports whether the kind opens a key.
func (k Kind) IsKey() bool {
	return k == KindValue || k == KindMultiLineStart
}

// IsHeader reports whether the kind opens a group.
func (k Kind) IsHeader() bool {
	return k == KindSection || k == KindInclude
}
