package geo

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zephy88r/AnoN-sub000/internal/kv"
	"github.com/Zephy88r/AnoN-sub000/internal/types"
)

func newTestSimulator() (*Simulator, *kv.Store) {
	store := kv.NewStore(kv.NewMemoryBackend(), zerolog.Nop())
	return NewSimulator(store), store
}

func TestRoundLocation(t *testing.T) {
	lat, lon := RoundLocation(27.7172, 85.3240, types.GeoModeGhost)
	assert.InDelta(t, 27.72, lat, 1e-9)
	assert.InDelta(t, 85.32, lon, 1e-9)

	lat, lon = RoundLocation(27.7172, 85.3240, types.GeoModeReveal)
	assert.InDelta(t, 27.717, lat, 1e-9)
	assert.InDelta(t, 85.324, lon, 1e-9)
}

func TestJitterStaysWithinAmplitude(t *testing.T) {
	s, _ := newTestSimulator()

	for _, mode := range []types.GeoMode{types.GeoModeGhost, types.GeoModeReveal} {
		j := JitterAmplitude(mode)
		for i := 0; i < 50; i++ {
			lat, lon := s.JitterLocation(10, 20, mode)
			assert.LessOrEqual(t, lat, 10+j)
			assert.GreaterOrEqual(t, lat, 10-j)
			assert.LessOrEqual(t, lon, 20+j)
			assert.GreaterOrEqual(t, lon, 20-j)
		}
	}
}

func TestStable01IsDeterministic(t *testing.T) {
	a := Stable01("dev_abc|KATHMANDU|27.720|85.320|x")
	b := Stable01("dev_abc|KATHMANDU|27.720|85.320|x")
	assert.Equal(t, a, b)
	assert.GreaterOrEqual(t, a, 0.0)
	assert.LessOrEqual(t, a, 1.0)

	assert.NotEqual(t, a, Stable01("dev_abc|KATHMANDU|27.720|85.320|y"))
}

func TestPingPositionsAreStableAcrossPolls(t *testing.T) {
	s, _ := newTestSimulator()

	s.Pulse(types.GeoPulse{AnonKey: "dev_a", Region: "NEPAL", Mode: types.GeoModeGhost, Lat: 27.72, Lon: 85.32})

	first := s.FetchPings("NEPAL")
	second := s.FetchPings("NEPAL")
	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].X, second[0].X)
	assert.Equal(t, first[0].Y, second[0].Y)
	assert.InDelta(t, first[0].X, 50, 40.0)
	assert.InDelta(t, first[0].Y, 50, 38.0)
}

func TestPulseUpsertsByDeviceKey(t *testing.T) {
	s, _ := newTestSimulator()

	base := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	now := base
	s.SetNowFunc(func() time.Time { return now })

	require.True(t, s.Pulse(types.GeoPulse{AnonKey: "dev_a", Region: "NEPAL", Lat: 1, Lon: 1}))

	now = now.Add(time.Minute)
	require.True(t, s.Pulse(types.GeoPulse{AnonKey: "dev_a", Region: "NEPAL", Lat: 2, Lon: 2}))

	pings := s.FetchPings("NEPAL")
	require.Len(t, pings, 1, "one row per device, latest wins")
}

func TestPulseThrottle(t *testing.T) {
	s, _ := newTestSimulator()

	base := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	now := base
	s.SetNowFunc(func() time.Time { return now })

	assert.True(t, s.Pulse(types.GeoPulse{AnonKey: "dev_a", Region: "NEPAL"}))

	now = base.Add(5 * time.Second)
	assert.False(t, s.Pulse(types.GeoPulse{AnonKey: "dev_a", Region: "NEPAL"}), "within 15s window")

	// Other devices are throttled independently.
	assert.True(t, s.Pulse(types.GeoPulse{AnonKey: "dev_b", Region: "NEPAL"}))

	now = base.Add(PulseMinInterval)
	assert.True(t, s.Pulse(types.GeoPulse{AnonKey: "dev_a", Region: "NEPAL"}))
}

func TestExpiredPulsesAreExcluded(t *testing.T) {
	s, _ := newTestSimulator()

	base := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	now := base
	s.SetNowFunc(func() time.Time { return now })

	s.Pulse(types.GeoPulse{AnonKey: "dev_a", Region: "NEPAL"})

	now = base.Add(TTL - time.Minute)
	require.Len(t, s.FetchPings("NEPAL"), 1)

	now = base.Add(TTL + time.Minute)
	assert.Empty(t, s.FetchPings("NEPAL"))
}

func TestFetchPingsPartitionsByRegion(t *testing.T) {
	s, _ := newTestSimulator()

	s.Pulse(types.GeoPulse{AnonKey: "dev_a", Region: "NEPAL"})
	s.Pulse(types.GeoPulse{AnonKey: "dev_b", Region: "INDIA"})

	assert.Len(t, s.FetchPings("INDIA"), 1)
	assert.Empty(t, s.FetchPings("ELSEWHERE"))
}

func TestSignalDerivesFromAge(t *testing.T) {
	s, _ := newTestSimulator()

	base := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	now := base
	s.SetNowFunc(func() time.Time { return now })

	s.Pulse(types.GeoPulse{AnonKey: "dev_a", Region: "NEPAL"})

	now = base.Add(2 * time.Minute)
	assert.Equal(t, types.SignalHigh, s.FetchPings("NEPAL")[0].Signal)

	now = base.Add(8 * time.Minute)
	assert.Equal(t, types.SignalMed, s.FetchPings("NEPAL")[0].Signal)

	now = base.Add(20 * time.Minute)
	assert.Equal(t, types.SignalLow, s.FetchPings("NEPAL")[0].Signal)
}

func TestDeviceKeyIsStable(t *testing.T) {
	s, store := newTestSimulator()

	key := s.DeviceKey()
	require.NotEmpty(t, key)
	assert.Contains(t, key, "dev_")

	assert.Equal(t, key, s.DeviceKey())
	assert.Equal(t, key, NewSimulator(store).DeviceKey())
}

func TestPulsesSurviveReload(t *testing.T) {
	s, store := newTestSimulator()
	s.Pulse(types.GeoPulse{AnonKey: "dev_a", Region: "NEPAL", Lat: 27.72, Lon: 85.32})

	reloaded := NewSimulator(store)
	assert.Len(t, reloaded.FetchPings("NEPAL"), 1)
}
