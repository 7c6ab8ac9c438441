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

var (
	testEffects = []string{"EFFECT_HIT", "EFFECT_BURN_HIT", "EFFECT_PLACEHOLDER"}
	testFlags1  = []string{"FLAG_MAKES_CONTACT", "FLAG_PROTECT_AFFECTED"}
	testFlags2  = []string{"FLAG_SOUND"}
)

const battleFixture = `const struct BattleMove gBattleMoves[MOVES_COUNT] =
{
    [MOVE_NONE] =
    {
        .effect = EFFECT_HIT,
        .power = 0,
        .type = TYPE_NORMAL,
        .accuracy = 0,
        .pp = 0,
        .secondaryEffectChance = 0,
        .target = MOVE_TARGET_SELECTED,
        .priority = 0,
        .flags = 0,
        .split = SPLIT_PHYSICAL,
    },

    [MOVE_EMBER_WING] =
    {
        .effect = EFFECT_BURN_HIT,
        .power = 60,
        .type = TYPE_FIRE,
        .type2 = TYPE_FLYING,
        .accuracy = 95,
        .pp = 15,
        .secondaryEffectChance = 10,
        .target = MOVE_TARGET_BOTH | MOVE_TARGET_USER,
        .priority = -1,
        .flags = FLAG_MAKES_CONTACT | FLAG_PROTECT_AFFECTED,
        .flags2 = FLAG_SOUND,
        .split = SPLIT_SPECIAL,
        .argument = STATUS1_BURN,
    },
};

const struct IntimidateCloneData gIntimidateCloneData[NUM_INTIMIDATE_CLONES] =
{
    {ABILITY_INTIMIDATE, STRINGID_INTIMIDATE},
};
`

func TestDecodeBattleMoves(t *testing.T) {
	table, err := DecodeBattleMoves(strings.NewReader(battleFixture), testEffects, append(testFlags1, testFlags2...))
	require.NoError(t, err)

	assert.Equal(t, []string{"MOVE_NONE", "MOVE_EMBER_WING"}, table.Order)

	none := table.Moves["MOVE_NONE"]
	assert.Equal(t, "EFFECT_HIT", none.Effect)
	assert.Equal(t, model.TypeNormal, none.Type2)
	assert.Equal(t, model.TargetSelected, none.Target)
	assert.Empty(t, none.Flags)

	ember := table.Moves["MOVE_EMBER_WING"]
	assert.Equal(t, "EFFECT_BURN_HIT", ember.Effect)
	assert.Equal(t, 60, ember.Power)
	assert.Equal(t, model.TypeFire, ember.Type)
	assert.Equal(t, model.TypeFlying, ember.Type2)
	assert.Equal(t, 95, ember.Accuracy)
	assert.Equal(t, 15, ember.PP)
	assert.Equal(t, 10, ember.SecondaryEffectChance)
	assert.Equal(t, model.TargetBoth|model.TargetUser, ember.Target)
	assert.Equal(t, -1, ember.Priority)
	assert.Equal(t, model.NewFlagSet("FLAG_MAKES_CONTACT", "FLAG_PROTECT_AFFECTED", "FLAG_SOUND"), ember.Flags)
	assert.Equal(t, model.SplitSpecial, ember.Split)
	assert.Equal(t, "STATUS1_BURN", ember.Argument)

	assert.True(t, strings.HasPrefix(table.Trailer, BattleMovesTrailer+"\n"))
	assert.True(t, strings.HasSuffix(table.Trailer, "};\n"))
}

func TestDecodeBattleMoves_RejectsUnknownTokens(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		wantField string
		wantValue string
	}{
		{"unknown effect", ".effect = EFFECT_MADE_UP,", "effect", "EFFECT_MADE_UP"},
		{"unknown flag", ".flags = FLAG_MAKES_CONTACT | FLAG_GONE,", "flags", "FLAG_GONE"},
		{"unknown secondary flag", ".flags2 = FLAG_NOPE,", "flags2", "FLAG_NOPE"},
		{"unknown type", ".type = TYPE_SOUND,", "type", "SOUND"},
		{"unknown split", ".split = SPLIT_OTHER,", "split", "OTHER"},
		{"unknown target", ".target = MOVE_TARGET_EVERYONE,", "target", "EVERYONE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := "    [MOVE_POUND] =\n    {\n        " + tt.line + "\n    },\n"

			_, err := DecodeBattleMoves(strings.NewReader(src), testEffects, append(testFlags1, testFlags2...))

			var valErr *model.ValidationError
			require.True(t, errors.As(err, &valErr), "got %v", err)
			assert.Equal(t, tt.wantField, valErr.Field)
			assert.Equal(t, tt.wantValue, valErr.Value)
		})
	}
}

func TestEncodeBattleMoves_OmitsDefaults(t *testing.T) {
	pound := model.NewBattleMove("MOVE_POUND")
	pound.Effect = "EFFECT_HIT"
	pound.Power = 40
	pound.Accuracy = 100
	pound.PP = 35

	var buf bytes.Buffer
	require.NoError(t, EncodeBattleMoves(&buf, []model.BattleMove{pound}, testFlags1, testFlags2, ""))

	want := `const struct BattleMove gBattleMoves[MOVES_COUNT] =
{
    [MOVE_POUND] =
    {
        .effect = EFFECT_HIT,
        .power = 40,
        .type = TYPE_NORMAL,
        .accuracy = 100,
        .pp = 35,
        .secondaryEffectChance = 0,
        .target = MOVE_TARGET_SELECTED,
        .split = SPLIT_PHYSICAL,
    },
};

`
	assert.Equal(t, want, buf.String())
}

func TestEncodeBattleMoves_WritesEveryField(t *testing.T) {
	ember := model.NewBattleMove("MOVE_EMBER_WING")
	ember.Effect = "EFFECT_BURN_HIT"
	ember.Type = model.TypeFire
	ember.Type2 = model.TypeFlying
	ember.Target = model.TargetBoth | model.TargetUser
	ember.Priority = 2
	ember.Flags = model.NewFlagSet("FLAG_SOUND", "FLAG_PROTECT_AFFECTED", "FLAG_MAKES_CONTACT")
	ember.Split = model.SplitStatus
	ember.Argument = "STATUS1_BURN"

	var buf bytes.Buffer
	require.NoError(t, EncodeBattleMoves(&buf, []model.BattleMove{ember}, testFlags1, testFlags2, "TRAILER\n"))
	out := buf.String()

	assert.Contains(t, out, "        .type2 = TYPE_FLYING,\n")
	assert.Contains(t, out, "        .target = MOVE_TARGET_BOTH | MOVE_TARGET_USER,\n")
	assert.Contains(t, out, "        .priority = 2,\n")
	assert.Contains(t, out, "        .flags = FLAG_MAKES_CONTACT | FLAG_PROTECT_AFFECTED,\n")
	assert.Contains(t, out, "        .flags2 = FLAG_SOUND,\n")
	assert.Contains(t, out, "        .split = SPLIT_STATUS,\n")
	assert.Contains(t, out, "        .argument = STATUS1_BURN,\n")
	assert.True(t, strings.HasSuffix(out, "};\n\nTRAILER\n"))
}

func TestEncodeBattleMoves_UnextractableTarget(t *testing.T) {
	bm := model.NewBattleMove("MOVE_POUND")
	bm.Target = 0x200

	err := EncodeBattleMoves(&bytes.Buffer{}, []model.BattleMove{bm}, nil, nil, "")

	var valErr *model.ValidationError
	assert.True(t, errors.As(err, &valErr))
}

func TestBattleMoves_RoundTrip(t *testing.T) {
	flags := append(testFlags1, testFlags2...)
	table, err := DecodeBattleMoves(strings.NewReader(battleFixture), testEffects, flags)
	require.NoError(t, err)

	moves := make([]model.BattleMove, 0, len(table.Order))
	for _, id := range table.Order {
		moves = append(moves, table.Moves[id])
	}

	var buf bytes.Buffer
	require.NoError(t, EncodeBattleMoves(&buf, moves, testFlags1, testFlags2, table.Trailer))

	again, err := DecodeBattleMoves(&buf, testEffects, flags)
	require.NoError(t, err)
	assert.Equal(t, table, again)
}

func TestBattleMoves_TrailerKeepsBytes(t *testing.T) {
	trailer := BattleMovesTrailer + "\r\n{\r\n    {ABILITY_INTIMIDATE, STRINGID_INTIMIDATE},\r\n};"
	src := "const struct BattleMove gBattleMoves[MOVES_COUNT] =\r\n{\r\n};\r\n\r\n" + trailer

	table, err := DecodeBattleMoves(strings.NewReader(src), testEffects, testFlags1)
	require.NoError(t, err)
	assert.Equal(t, trailer, table.Trailer)

	var buf bytes.Buffer
	require.NoError(t, EncodeBattleMoves(&buf, nil, testFlags1, testFlags2, table.Trailer))
	assert.True(t, strings.HasSuffix(buf.String(), "};\n\n"+trailer), buf.String())
}
