package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMicroToString(t *testing.T) {
	cases := map[uint64]string{
		0:          "0",
		1:          "0.000001",
		1_000_000:  "1",
		5_500_000:  "5.5",
		11_000_000: "11",
		1_234_567:  "1.234567",
	}
	for in, want := range cases {
		assert.Equal(t, want, MicroToString(in), "micro %d", in)
	}
}

func TestTruncateAddress(t *testing.T) {
	addr := "ABCDEFGHIJKLMNOPQRSTUVWXYZ234567ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	assert.Equal(t, "ABCDE...VWXYZ", TruncateAddress(addr))
	assert.Equal(t, "short", TruncateAddress("short"))
	assert.Equal(t, "", TruncateAddress(""))
}

func TestConvertTime(t *testing.T) {
	assert.Equal(t, "", ConvertTime(0, nil))
	assert.Equal(t, "14 Nov 2023, 22:13 UTC", ConvertTime(1700000000, nil))

	tz := time.FixedZone("ICT", 7*3600)
	assert.Equal(t, "15 Nov 2023, 05:13 ICT", ConvertTime(1700000000, tz))
}
