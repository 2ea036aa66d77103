package common

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type reversed struct {
	Zulu  string  `json:"zulu"`
	Alpha float64 `json:"alpha"`
	Mike  []int   `json:"mike"`
}

type ordered struct {
	Alpha float64 `json:"alpha"`
	Mike  []int   `json:"mike"`
	Zulu  string  `json:"zulu"`
}

func TestCanonicalEncodeSortsKeys(t *testing.T) {
	a, err := CanonicalEncode(reversed{Zulu: "z", Alpha: 1.5, Mike: []int{3, 1}})
	require.NoError(t, err)
	b, err := CanonicalEncode(ordered{Alpha: 1.5, Mike: []int{3, 1}, Zulu: "z"})
	require.NoError(t, err)

	require.Equal(t, `{"alpha":1.5,"mike":[3,1],"zulu":"z"}`, string(a))
	require.Equal(t, a, b)
}

func TestCanonicalEncodeKeepsLargeIntegers(t *testing.T) {
	enc, err := CanonicalEncode(map[string]uint64{"proof": 18446744073709551615})
	require.NoError(t, err)
	require.Equal(t, `{"proof":18446744073709551615}`, string(enc))
}

func TestEncodeDecode(t *testing.T) {
	in := ordered{Alpha: -2, Mike: []int{}, Zulu: "x"}
	enc, err := Encode(in)
	require.NoError(t, err)

	out, err := Decode[ordered](enc)
	require.NoError(t, err)
	require.Equal(t, in, *out)

	_, err = Decode[ordered]([]byte("{"))
	require.Error(t, err)
}

func TestToHex(t *testing.T) {
	h, err := ToHex(uint64(258))
	require.NoError(t, err)
	require.Equal(t, []byte{0, 0, 0, 0, 0, 0, 1, 2}, h)
}

func TestDecodeOverKeepsAbsentFields(t *testing.T) {
	data := ordered{Alpha: 1, Zulu: "z"}
	require.NoError(t, DecodeOver([]byte(`{"alpha": 2}`), &data))
	require.Equal(t, ordered{Alpha: 2, Zulu: "z"}, data)
}

func TestExistFile(t *testing.T) {
	dir := t.TempDir()
	require.True(t, ExistFile(dir))
	require.False(t, ExistFile(filepath.Join(dir, "missing")))
}
