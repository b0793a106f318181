package internal

import "unicode"

// Route returns the kind the current step transitions to when r is read.
// Returning the same kind means the current step keeps growing.
func Route(r rune, kind StepKind) StepKind {
	switch kind {
	case StepKindAttr:
		return routeAttr(r)
	case StepKindAttrSetter:
		return routeAttrSetter(r)
	case StepKindAttrSingleQuote, StepKindAttrValueSingleQuoted:
		return routeAttrSingleQuote(r)
	case StepKindAttrDoubleQuote, StepKindAttrValueDoubleQuoted:
		return routeAttrDoubleQuote(r)
	case StepKindAttrSingleQuoteClosed, StepKindAttrDoubleQuoteClosed:
		return routeAttrQuoteClosed(r)
	case StepKindAttrValueUnquoted:
		return routeAttrValueUnquoted(r)
	case StepKindAttrMapInjection, StepKindDescendantInjection, StepKindInjectionSpace:
		return routeInjection(r)
	case StepKindElement:
		return routeElement(r)
	case StepKindElementSpace:
		return routeElementSpace(r)
	case StepKindEmptyElement:
		return routeEmptyElement(r)
	case StepKindTag:
		return routeTag(r)
	case StepKindTailElementSolidus:
		return routeTailElementSolidus(r)
	case StepKindTailTag:
		return routeTailTag(r)
	case StepKindTailElementSpace:
		return routeTailElementSpace(r)
	default:
		return routeText(r)
	}
}

func routeText(r rune) StepKind {
	if unicode.IsSpace(r) {
		return StepKindTextSpace
	}
	switch r {
	case CharLessThan:
		return StepKindElement
	case CharOpenBrace:
		return StepKindDescendantInjection
	}
	return StepKindText
}

func routeElement(r rune) StepKind {
	if unicode.IsSpace(r) {
		return StepKindElement
	}
	switch r {
	case CharGreaterThan:
		return StepKindFragment
	case CharSolidus:
		return StepKindTailElementSolidus
	}
	return StepKindTag
}

func routeTag(r rune) StepKind {
	if unicode.IsSpace(r) {
		return StepKindElementSpace
	}
	switch r {
	case CharGreaterThan:
		return StepKindElementClosed
	case CharSolidus:
		return StepKindEmptyElement
	}
	return StepKindTag
}

func routeElementSpace(r rune) StepKind {
	if unicode.IsSpace(r) {
		return StepKindElementSpace
	}
	switch r {
	case CharGreaterThan:
		return StepKindElementClosed
	case CharSolidus:
		return StepKindEmptyElement
	case CharOpenBrace:
		return StepKindAttrMapInjection
	case CharEquals:
		return StepKindAttrSetter
	}
	return StepKindAttr
}

func routeAttr(r rune) StepKind {
	return routeElementSpace(r)
}

func routeAttrSetter(r rune) StepKind {
	if unicode.IsSpace(r) {
		return StepKindAttrSetter
	}
	switch r {
	case CharDoubleQuote:
		return StepKindAttrDoubleQuote
	case CharSingleQuote:
		return StepKindAttrSingleQuote
	}
	return StepKindAttrValueUnquoted
}

func routeAttrValueUnquoted(r rune) StepKind {
	if unicode.IsSpace(r) {
		return StepKindElementSpace
	}
	if r == CharGreaterThan {
		return StepKindElementClosed
	}
	return StepKindAttrValueUnquoted
}

func routeAttrSingleQuote(r rune) StepKind {
	if r == CharSingleQuote {
		return StepKindAttrSingleQuoteClosed
	}
	return StepKindAttrValueSingleQuoted
}

func routeAttrDoubleQuote(r rune) StepKind {
	if r == CharDoubleQuote {
		return StepKindAttrDoubleQuoteClosed
	}
	return StepKindAttrValueDoubleQuoted
}

func routeAttrQuoteClosed(r rune) StepKind {
	switch r {
	case CharGreaterThan:
		return StepKindElementClosed
	case CharSolidus:
		return StepKindEmptyElement
	}
	return StepKindElementSpace
}

func routeInjection(r rune) StepKind {
	if r == CharCloseBrace {
		return StepKindInjectionConfirmed
	}
	return StepKindInjectionSpace
}

func routeEmptyElement(r rune) StepKind {
	if r == CharGreaterThan {
		return StepKindEmptyElementClosed
	}
	return StepKindEmptyElement
}

func routeTailElementSolidus(r rune) StepKind {
	if unicode.IsSpace(r) {
		return StepKindTailElementSolidus
	}
	if r == CharGreaterThan {
		return StepKindFragmentClosed
	}
	return StepKindTailTag
}

func routeTailTag(r rune) StepKind {
	if unicode.IsSpace(r) {
		return StepKindTailElementSpace
	}
	if r == CharGreaterThan {
		return StepKindTailElementClosed
	}
	return StepKindTailTag
}

func routeTailElementSpace(r rune) StepKind {
	if r == CharGreaterThan {
		return StepKindTailElementClosed
	}
	return StepKindTailElementSpace
}
