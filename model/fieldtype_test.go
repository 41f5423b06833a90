package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistryCoversEveryType(t *testing.T) {
	all := AllFieldTypes()
	assert.Len(t, all, 24)

	seen := map[FieldType]bool{}
	for _, ft := range all {
		assert.True(t, ft.Valid(), "type %q missing from registry", ft)
		assert.False(t, seen[ft], "type %q listed twice", ft)
		seen[ft] = true

		caps, err := LookupCapabilities(ft)
		assert.NoError(t, err)
		assert.NotEmpty(t, caps.Label)
		assert.Contains(t, Categories, caps.Category)
	}
}

func TestOnlyChoiceGroupTypesHaveOptions(t *testing.T) {
	withOptions := map[FieldType]bool{
		TypeSelect:      true,
		TypeMultiselect: true,
		TypeRadio:       true,
		TypeCheckbox:    true,
	}

	for _, ft := range AllFieldTypes() {
		assert.Equal(t, withOptions[ft], ft.HasOptions(), "type %q", ft)
	}
}

func TestLookupCapabilitiesUnknownType(t *testing.T) {
	_, err := LookupCapabilities("hologram")
	assert.Error(t, err)
	assert.False(t, FieldType("hologram").Valid())
}

func TestSupportsRule(t *testing.T) {
	assert.True(t, TypeNumber.SupportsRule(RuleMin))
	assert.True(t, TypeNumber.SupportsRule(RuleMax))
	assert.False(t, TypeNumber.SupportsRule(RuleMinLength))

	assert.True(t, TypeText.SupportsRule(RuleMinLength))
	assert.True(t, TypeText.SupportsRule(RuleMaxLength))
	assert.False(t, TypeText.SupportsRule(RuleMin))

	assert.False(t, TypeYesNo.SupportsRule(RuleMin))
	assert.False(t, TypeYesNo.SupportsRule(RulePattern))
}
