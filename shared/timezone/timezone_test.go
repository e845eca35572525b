package timezone_test

import (
	"taskpal/shared/timezone"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name string
		zone string
		want string
	}{
		{name: "manila", zone: "Asia/Manila", want: "Asia/Manila"},
		{name: "empty falls back", zone: "", want: "UTC"},
		{name: "unknown falls back", zone: "Mars/Olympus_Mons", want: "UTC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, timezone.Load(tt.zone).String())
		})
	}
}

func TestNowUsesAppLocation(t *testing.T) {
	assert.Equal(t, timezone.GetLocation(), timezone.Now().Location())
}

func TestParseAndFormat(t *testing.T) {
	parsed, err := timezone.Parse("2006-01-02 15:04", "2025-03-01 09:30")
	require.NoError(t, err)

	assert.Equal(t, timezone.GetLocation(), parsed.Location())
	assert.Equal(t, "2025-03-01 09:30", timezone.Format(parsed, "2006-01-02 15:04"))
}

