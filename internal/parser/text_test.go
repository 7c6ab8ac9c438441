package parser

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"er-editor/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const abilityTextFixture = `static const u8 sNoneDescription[] = _("No special ability.");
static const u8 sStenchDescription[] = _("Helps repel wild\nPOKéMON.");
static const u8 sSpeedBoostDescription[] = _("Gradually boosts SPEED.\n\n");

const u8 gAbilityNames[ABILITIES_COUNT][ABILITY_NAME_LENGTH + 1] =
{
    [ABILITY_NONE] = _("-------"),
    [ABILITY_STENCH] = _("STENCH"),
    [ABILITY_SPEED_BOOST] = _("SPEED BOOST"),
};

const u8 *const gAbilityDescriptionPointers[ABILITIES_COUNT] =
{
    [ABILITY_NONE] = sNoneDescription,
    [ABILITY_STENCH] = sStenchDescription,
    [ABILITY_SPEED_BOOST] = sSpeedBoostDescription,
};
`

func TestDecodeAbilityText(t *testing.T) {
	text, err := DecodeAbilityText(strings.NewReader(abilityTextFixture))
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"ABILITY_NONE":        "-------",
		"ABILITY_STENCH":      "STENCH",
		"ABILITY_SPEED_BOOST": "SPEED BOOST",
	}, text.Names)

	tests := []struct {
		id   string
		want []string
	}{
		{"ABILITY_NONE", []string{"No special ability.", ""}},
		{"ABILITY_STENCH", []string{"Helps repel wild", "POKéMON."}},
		{"ABILITY_SPEED_BOOST", []string{"Gradually boosts SPEED.", ""}},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.want, text.Descriptions[tt.id])
		})
	}
}

func TestDecodeAbilityText_DanglingPointer(t *testing.T) {
	src := "    [ABILITY_STENCH] = sStenchDescription,\n"

	_, err := DecodeAbilityText(strings.NewReader(src))

	var resErr *model.ResolutionError
	require.True(t, errors.As(err, &resErr))
	assert.Equal(t, "ABILITY_STENCH", resErr.Name)
	assert.Equal(t, "sStenchDescription", resErr.Ref)
}

func TestAbilityDescriptionConst(t *testing.T) {
	assert.Equal(t, "sSpeedBoostDescription", AbilityDescriptionConst("ABILITY_SPEED_BOOST"))
	assert.Equal(t, "sStenchDescription", AbilityDescriptionConst("ABILITY_STENCH"))
}

func TestJoinDescription(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  string
	}{
		{"both lines", []string{"a", "b"}, `a\nb`},
		{"trailing blank dropped", []string{"a", ""}, "a"},
		{"inner blank kept", []string{"", "b"}, `\nb`},
		{"all blank", []string{"", " "}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, JoinDescription(tt.lines))
		})
	}
}

func TestEncodeAbilityText(t *testing.T) {
	abilities := []model.Ability{
		model.NewAbility("ABILITY_NONE", "-------", []string{"No special ability."}),
		model.NewAbility("ABILITY_STENCH", "STENCH", []string{"Helps repel wild", "POKéMON."}),
	}

	var buf bytes.Buffer
	require.NoError(t, EncodeAbilityText(&buf, abilities))

	want := `static const u8 sNoneDescription[] = _("No special ability.");
static const u8 sStenchDescription[] = _("Helps repel wild\nPOKéMON.");

const u8 gAbilityNames[ABILITIES_COUNT][ABILITY_NAME_LENGTH + 1] =
{
    [ABILITY_NONE] = _("-------"),
    [ABILITY_STENCH] = _("STENCH"),
};

const u8 *const gAbilityDescriptionPointers[ABILITIES_COUNT] =
{
    [ABILITY_NONE] = sNoneDescription,
    [ABILITY_STENCH] = sStenchDescription,
};
`
	assert.Equal(t, want, buf.String())

	text, err := DecodeAbilityText(&buf)
	require.NoError(t, err)
	for _, a := range abilities {
		assert.Equal(t, a.Name, text.Names[a.ID])
		assert.Equal(t, a.Description, text.Descriptions[a.ID])
	}
}
