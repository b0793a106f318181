package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoute(t *testing.T) {
	tests := []struct {
		r        rune
		kind     StepKind
		expected StepKind
	}{
		// text
		{' ', StepKindText, StepKindTextSpace},
		{'\n', StepKindInitial, StepKindTextSpace},
		{'<', StepKindText, StepKindElement},
		{'{', StepKindText, StepKindDescendantInjection},
		{'a', StepKindTextSpace, StepKindText},
		{'>', StepKindText, StepKindText},
		{'<', StepKindElementClosed, StepKindElement},
		{'a', StepKindTailElementClosed, StepKindText},
		{'<', StepKindFragment, StepKindElement},

		// element
		{' ', StepKindElement, StepKindElement},
		{'>', StepKindElement, StepKindFragment},
		{'/', StepKindElement, StepKindTailElementSolidus},
		{'p', StepKindElement, StepKindTag},

		// tag
		{'\t', StepKindTag, StepKindElementSpace},
		{'>', StepKindTag, StepKindElementClosed},
		{'/', StepKindTag, StepKindEmptyElement},
		{'v', StepKindTag, StepKindTag},

		// element space and attributes
		{' ', StepKindElementSpace, StepKindElementSpace},
		{'>', StepKindElementSpace, StepKindElementClosed},
		{'/', StepKindElementSpace, StepKindEmptyElement},
		{'{', StepKindElementSpace, StepKindAttrMapInjection},
		{'=', StepKindElementSpace, StepKindAttrSetter},
		{'h', StepKindElementSpace, StepKindAttr},
		{'=', StepKindAttr, StepKindAttrSetter},
		{' ', StepKindAttr, StepKindElementSpace},
		{'{', StepKindAttr, StepKindAttrMapInjection},
		{'i', StepKindAttr, StepKindAttr},

		// attribute values
		{' ', StepKindAttrSetter, StepKindAttrSetter},
		{'"', StepKindAttrSetter, StepKindAttrDoubleQuote},
		{'\'', StepKindAttrSetter, StepKindAttrSingleQuote},
		{'x', StepKindAttrSetter, StepKindAttrValueUnquoted},
		{' ', StepKindAttrValueUnquoted, StepKindElementSpace},
		{'>', StepKindAttrValueUnquoted, StepKindElementClosed},
		{'/', StepKindAttrValueUnquoted, StepKindAttrValueUnquoted},
		{'\'', StepKindAttrSingleQuote, StepKindAttrSingleQuoteClosed},
		{'x', StepKindAttrSingleQuote, StepKindAttrValueSingleQuoted},
		{'"', StepKindAttrValueSingleQuoted, StepKindAttrValueSingleQuoted},
		{'\'', StepKindAttrValueSingleQuoted, StepKindAttrSingleQuoteClosed},
		{'"', StepKindAttrDoubleQuote, StepKindAttrDoubleQuoteClosed},
		{'\n', StepKindAttrValueDoubleQuoted, StepKindAttrValueDoubleQuoted},
		{'>', StepKindAttrSingleQuoteClosed, StepKindElementClosed},
		{'/', StepKindAttrDoubleQuoteClosed, StepKindEmptyElement},
		{' ', StepKindAttrDoubleQuoteClosed, StepKindElementSpace},

		// injections
		{'}', StepKindAttrMapInjection, StepKindInjectionConfirmed},
		{'}', StepKindDescendantInjection, StepKindInjectionConfirmed},
		{' ', StepKindDescendantInjection, StepKindInjectionSpace},
		{'}', StepKindInjectionSpace, StepKindInjectionConfirmed},

		// closing
		{'>', StepKindEmptyElement, StepKindEmptyElementClosed},
		{' ', StepKindEmptyElement, StepKindEmptyElement},
		{' ', StepKindTailElementSolidus, StepKindTailElementSolidus},
		{'>', StepKindTailElementSolidus, StepKindFragmentClosed},
		{'p', StepKindTailElementSolidus, StepKindTailTag},
		{' ', StepKindTailTag, StepKindTailElementSpace},
		{'>', StepKindTailTag, StepKindTailElementClosed},
		{'x', StepKindTailElementSpace, StepKindTailElementSpace},
		{'>', StepKindTailElementSpace, StepKindTailElementClosed},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String()+"_"+string(tt.r), func(t *testing.T) {
			assert.Equal(t, tt.expected, Route(tt.r, tt.kind))
		})
	}
}

func TestStepKind_String(t *testing.T) {
	assert.Equal(t, StepKindNameTailTag, StepKindTailTag.String())
	assert.Equal(t, StepKindNameTextAlt, StepKindTextAlt.String())
	assert.Equal(t, StepKindNameUnknown, StepKind(999).String())
}

func TestStepKind_IsInjection(t *testing.T) {
	assert.True(t, StepKindAttrMapInjection.IsInjection())
	assert.True(t, StepKindDescendantInjection.IsInjection())
	assert.False(t, StepKindInjectionConfirmed.IsInjection())
	assert.False(t, StepKindInjectionSpace.IsInjection())
}
