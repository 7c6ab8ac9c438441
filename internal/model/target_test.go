package model

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pieceNames(pieces []TargetPiece) []string {
	names := make([]string, len(pieces))
	for i, p := range pieces {
		names[i] = p.Name
	}
	return names
}

func TestTarget_Extract(t *testing.T) {
	tests := []struct {
		name string
		mask Target
		want []string
	}{
		{"selected", TargetSelected, []string{"SELECTED"}},
		{"single piece", TargetRandom, []string{"RANDOM"}},
		{"both and user", TargetBoth | TargetUser, []string{"USER", "BOTH"}},
		{"composite absorbs user", TargetAllBattlers, []string{"ALL_BATTLERS"}},
		{"composite plus atomic", TargetAllBattlers | TargetDepends, []string{"ALL_BATTLERS", "DEPENDS"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pieces, err := tt.mask.Extract()
			require.NoError(t, err)
			assert.Equal(t, tt.want, pieceNames(pieces))
		})
	}
}

func TestTarget_NamesDisplayOrder(t *testing.T) {
	names, err := (TargetBoth | TargetUser).Names()
	require.NoError(t, err)
	assert.Equal(t, []string{"BOTH", "USER"}, names)

	data, err := json.Marshal(TargetBoth | TargetUser)
	require.NoError(t, err)
	assert.JSONEq(t, `["BOTH","USER"]`, string(data))
}

func TestTarget_UnknownBits(t *testing.T) {
	_, err := Target(0x200).Extract()

	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Equal(t, "target", valErr.Field)
}

func TestParseTarget(t *testing.T) {
	mask, err := ParseTarget([]string{"BOTH", "USER"})
	require.NoError(t, err)
	assert.Equal(t, TargetBoth|TargetUser, mask)

	_, err = ParseTarget([]string{"EVERYONE"})
	var valErr *ValidationError
	assert.True(t, errors.As(err, &valErr))
}

// Every mask built from known pieces survives parse(names(mask)).
func TestTarget_ReachableMasksRoundTrip(t *testing.T) {
	pieces := TargetPieces()
	for combo := 0; combo < 1<<len(pieces); combo++ {
		var mask Target
		for i, p := range pieces {
			if combo&(1<<i) != 0 {
				mask |= p.Value
			}
		}

		names, err := mask.Names()
		require.NoError(t, err, "mask %#x", uint16(mask))
		back, err := ParseTarget(names)
		require.NoError(t, err)
		assert.Equal(t, mask, back, "mask %#x via %v", uint16(mask), names)
	}
}
