package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLocationFallsBackToLocal(t *testing.T) {
	assert.Equal(t, time.Local, Location(""))
	assert.Equal(t, time.Local, Location("Mars/Olympus_Mons"))
	assert.Equal(t, "UTC", Location("UTC").String())
}

func TestClockUsesZone(t *testing.T) {
	now := Clock("UTC")()
	assert.Equal(t, time.UTC.String(), now.Location().String())
}
