package imagecodec

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := [][]byte{
		{},
		{0x00},
		{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'},
		[]byte("not really an image but bytes all the same"),
	}
	for _, in := range cases {
		enc := Encode(in)
		out, err := Decode(enc)
		require.NoError(t, err)
		assert.Equal(t, len(in), len(out))
		assert.Equal(t, string(in), string(out))
	}
}

func TestEncodeIsDeterministic(t *testing.T) {
	b := []byte{1, 2, 3, 4, 5}
	assert.Equal(t, Encode(b), Encode(b))
	assert.Equal(t, "AQIDBAU=", Encode(b))
}

func TestDecodeInvalid(t *testing.T) {
	_, err := Decode("%%% not base64 %%%")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDecode))

	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.NotNil(t, de.Unwrap())
}

func TestDecodeOrNil(t *testing.T) {
	assert.Nil(t, DecodeOrNil("@@@"))
	assert.Equal(t, []byte("hi"), DecodeOrNil(Encode([]byte("hi"))))
}
