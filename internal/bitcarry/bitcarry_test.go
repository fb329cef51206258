package bitcarry

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPushConsumeRoundTrip(t *testing.T) {
	c := New()
	require.NoError(t, c.PushBits(0b1, 1))
	require.NoError(t, c.PushBits(0b101, 3))
	require.NoError(t, c.PushBits(0xFF, 8))
	require.NoError(t, c.PushBits(0x1FFFF, 17))

	v, err := c.ConsumeBits(1)
	require.NoError(t, err)
	require.EqualValues(t, 1, v)

	v, err = c.ConsumeBits(3)
	require.NoError(t, err)
	require.EqualValues(t, 0b101, v)

	v, err = c.ConsumeBits(8)
	require.NoError(t, err)
	require.EqualValues(t, 0xFF, v)

	v, err = c.ConsumeBits(17)
	require.NoError(t, err)
	require.EqualValues(t, 0x1FFFF, v)
}

func TestPeekDoesNotAdvance(t *testing.T) {
	c := New()
	require.NoError(t, c.PushBits(0b10110, 5))

	v, err := c.PeekBits(2)
	require.NoError(t, err)
	require.EqualValues(t, 0b10, v)

	v, err = c.PeekBits(2)
	require.NoError(t, err)
	require.EqualValues(t, 0b10, v, "peek must not move the read cursor")

	v, err = c.ConsumeBits(5)
	require.NoError(t, err)
	require.EqualValues(t, 0b10110, v)
}

func TestUnderflow(t *testing.T) {
	c := New()
	require.NoError(t, c.PushBits(1, 1))
	_, err := c.ConsumeBits(2)
	require.ErrorIs(t, err, ErrUnderflow)
}

func TestBadWidth(t *testing.T) {
	c := New()
	require.ErrorIs(t, c.PushBits(0, 65), ErrBadWidth)
	_, err := c.ConsumeBits(-1)
	require.ErrorIs(t, err, ErrBadWidth)
}

func TestGetBytesFlushPadsLowBits(t *testing.T) {
	c := New()
	require.NoError(t, c.PushBits(0x41, 8))
	require.NoError(t, c.PushBits(1, 1))

	flushed := c.GetBytes(true)
	require.Len(t, flushed, 2)
	require.Equal(t, byte(0x41), flushed[0])
	require.Equal(t, byte(0x80), flushed[1])

	unflushed := c.GetBytes(false)
	require.Len(t, unflushed, 1)
}

func TestClearResets(t *testing.T) {
	c := New()
	require.NoError(t, c.PushBits(0xFF, 8))
	c.Clear()
	require.Equal(t, 0, c.AvailableBits())
	require.NoError(t, c.PushBits(0xAA, 8))
	v, err := c.ConsumeBits(8)
	require.NoError(t, err)
	require.EqualValues(t, 0xAA, v)
}

func TestRandomWidthsRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	c := New()
	var widths []int
	var values []uint64
	for i := 0; i < 500; i++ {
		w := 1 + rng.Intn(64)
		var v uint64
		if w == 64 {
			v = rng.Uint64()
		} else {
			v = rng.Uint64() & ((uint64(1) << uint(w)) - 1)
		}
		widths = append(widths, w)
		values = append(values, v)
		require.NoError(t, c.PushBits(v, w))
	}
	for i, w := range widths {
		got, err := c.ConsumeBits(w)
		require.NoError(t, err)
		require.Equalf(t, values[i], got, "mismatch at push #%d width %d", i, w)
	}
	require.Equal(t, 0, c.AvailableBits())
}
