package packet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mstream-net/mstream/pkg/seq"
)

func TestMarshalUnmarshal(t *testing.T) {
	p := &Data{
		Seq:       seq.Num(42),
		Loc:       First,
		InOrder:   true,
		MsgNum:    7,
		Timestamp: 1000,
		DestID:    0xdeadbeef,
		Payload:   []byte("foo"),
	}

	out, err := Unmarshal(p.Marshal())
	require.NoError(t, err)
	assert.Equal(t, p, out)
}

func TestMarshalOnly(t *testing.T) {
	p := &Data{Seq: seq.Num(1), Loc: Only, Payload: []byte("solo")}

	out, err := Unmarshal(p.Marshal())
	require.NoError(t, err)
	assert.True(t, out.Loc.Has(First))
	assert.True(t, out.Loc.Has(Last))
	assert.Equal(t, []byte("solo"), out.Payload)
}

func TestUnmarshalTooShort(t *testing.T) {
	_, err := Unmarshal(make([]byte, HeaderLen-1))
	require.Equal(t, ErrTooShort, err)
}

func TestUnmarshalEmptyPayload(t *testing.T) {
	p := &Data{Seq: seq.Num(3), Loc: Middle}

	out, err := Unmarshal(p.Marshal())
	require.NoError(t, err)
	assert.Nil(t, out.Payload)
}

func TestLocationString(t *testing.T) {
	assert.Equal(t, "FIRST", First.String())
	assert.Equal(t, "LAST", Last.String())
	assert.Equal(t, "ONLY", Only.String())
	assert.Equal(t, "MIDDLE", Middle.String())
}
