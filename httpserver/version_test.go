package httpserver

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseVersionHTTP11(t *testing.T) {
	v := ParseVersion([]byte("HTTP/1.1\r\n"))
	require.Equal(t, uint8(1), v.Major)
	require.Equal(t, uint8(1), v.Minor)
}

func TestParseVersionMissingIsZero9(t *testing.T) {
	v := ParseVersion([]byte(""))
	require.Equal(t, uint8(0), v.Major)
	require.Equal(t, uint8(9), v.Minor)
}

func TestParseVersionMalformedIsZero9(t *testing.T) {
	v := ParseVersion([]byte("garbage"))
	require.Equal(t, uint8(0), v.Major)
	require.Equal(t, uint8(9), v.Minor)
}

func TestParseVersionClampsOverflow(t *testing.T) {
	v := ParseVersion([]byte("HTTP/999.999\r\n"))
	require.Equal(t, uint8(255), v.Major)
	require.Equal(t, uint8(255), v.Minor)
}
