package essence

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEssence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"collapses blanks", "foo:   1\n", "foo: 1"},
		{"tabs and CR", "foo:\t\t1\r\n", "foo: 1"},
		{"leading blank kept as one space", "   G28", " G28"},
		{"identifier then number fused", "X10", "X10"},
		{"number then identifier separated", "10mm", "10 mm"},
		{"decimal number atomic", "rotation_distance: 40.5", "rotation_distance: 40.5"},
		{"punctuation passes through", "{% if x %}", "{% if x %}"},
		{"adjacent tokens after punctuation", "a,b", "a,b"},
		{"trailing blank lines dropped", "G28\n\n\n", "G28"},
		{"unicode letters are identifiers", "größe: 1", "größe: 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Essence(tt.in))
		})
	}
}

func TestHash_WhitespaceInsensitive(t *testing.T) {
	require.Equal(t, Hash("foo: 1\n", 0), Hash("foo:   1\n", 0))
	require.Equal(t, Hash("foo: 1", 0), Hash("foo: 1\n\n\n", 0))
	require.NotEqual(t, Hash("foo:1", 0), Hash("foo:2", 0))
}

func TestHash_SeedChains(t *testing.T) {
	chained := Hash("b", Hash("a", 0))
	assert.Equal(t, chained, HashLines([]string{"a", "b"}, 0))
	assert.NotEqual(t, chained, HashLines([]string{"b", "a"}, 0))
	// Blank lines contribute nothing to a running checksum.
	assert.Equal(t, chained, HashLines([]string{"a", "", "b", "   "}, 0))
}

func TestHex(t *testing.T) {
	assert.Equal(t, "00000000", Hex(0))
	assert.Equal(t, "DEADBEEF", Hex(0xdeadbeef))
	assert.Len(t, Hex(Hash("stepper_x", 0)), 8)
}

func TestEssenceProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(1357)
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("essence is idempotent", prop.ForAll(
		func(s string) bool {
			e := Essence(s)
			return Essence(e) == e
		},
		gen.AnyString(),
	))

	properties.Property("extra whitespace never changes the hash", prop.ForAll(
		func(words []string, pad int) bool {
			tight := strings.Join(words, " ")
			loose := strings.Join(words, strings.Repeat(" ", pad%5+1)) + "\n\n"
			return Hash(tight, 0) == Hash(loose, 0)
		},
		gen.SliceOf(gen.Identifier()),
		gen.IntRange(0, 100),
	))

	properties.TestingRun(t)
}
