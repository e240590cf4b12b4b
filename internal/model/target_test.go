package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortTargets_OrdersByOrderThenString(t *testing.T) {
	targets := []ProtocTarget{
		NewLanguageTarget(LanguagePython, "/out/py", false, 1),
		NewLanguageTarget(LanguageJava, "/out/java", false, 0),
		NewDescriptorSetTarget("/out/descriptor.protobin", false, false, false, 0),
	}

	SortTargets(targets)

	assert.Equal(t, "descriptorSet(/out/descriptor.protobin)", targets[0].String())
	assert.Equal(t, "language(java,/out/java)", targets[1].String())
	assert.Equal(t, "language(python,/out/py)", targets[2].String())
}

func TestSortTargets_StableAcrossRuns(t *testing.T) {
	build := func() []ProtocTarget {
		return []ProtocTarget{
			NewLanguageTarget(LanguageRuby, "/out/ruby", false, 0),
			NewLanguageTarget(LanguageCPP, "/out/cpp", false, 0),
			NewLanguageTarget(LanguageJava, "/out/java", true, 0),
		}
	}

	first := build()
	second := build()
	SortTargets(first)
	SortTargets(second)

	for i := range first {
		assert.Equal(t, first[i].String(), second[i].String())
	}
}

func TestLanguageTarget_OutSpecPrependsLitePrefix(t *testing.T) {
	lite := NewLanguageTarget(LanguageJava, "/out", true, 0)
	assert.Equal(t, "lite:/out", lite.OutSpec())

	notLite := NewLanguageTarget(LanguageJava, "/out", false, 0)
	assert.Equal(t, "/out", notLite.OutSpec())
}
