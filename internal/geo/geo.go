// Package geo implements the privacy-preserving presence simulation: lossy
// location transforms, a TTL-windowed per-region pulse store, and the stable
// pseudorandom display mapping for nearby pings.
package geo

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Zephy88r/AnoN-sub000/internal/kv"
	"github.com/Zephy88r/AnoN-sub000/internal/types"
)

const (
	pulsesKey     = "geo_pulses"
	deviceKeyKey  = "anon_device_key"
	schemaVersion = 1

	// TTL is how long a pulse counts as presence.
	TTL = 30 * time.Minute

	// PulseMinInterval throttles how often a device's position is actually
	// persisted, whatever rate the platform location callback fires at.
	PulseMinInterval = 15 * time.Second
)

// RoundLocation truncates coordinate precision: 2 decimal places (~1.1 km)
// in ghost mode, 3 (~110 m) in reveal mode. One-way lossy; the true
// coordinate is never retained.
func RoundLocation(lat, lon float64, mode types.GeoMode) (float64, float64) {
	places := 2
	if mode == types.GeoModeReveal {
		places = 3
	}
	p := math.Pow(10, float64(places))
	return math.Round(lat*p) / p, math.Round(lon*p) / p
}

// JitterAmplitude returns the uniform noise half-width per axis for a mode.
func JitterAmplitude(mode types.GeoMode) float64 {
	if mode == types.GeoModeReveal {
		return 0.003
	}
	return 0.01 // ~1.1 km in latitude
}

// Stable01 hashes a seed into [0, 1] with 32-bit FNV-1a. The same seed
// always maps to the same value, which keeps displayed dots from teleporting
// between polls.
func Stable01(seed string) float64 {
	h := uint32(2166136261)
	for i := 0; i < len(seed); i++ {
		h ^= uint32(seed[i])
		h *= 16777619
	}
	return float64(h) / 4294967295
}

func clamp(n, lo, hi float64) float64 { return math.Max(lo, math.Min(hi, n)) }

// Simulator owns the pulse store and the device's pulse throttle.
type Simulator struct {
	store  *kv.Store
	nowFn  func() time.Time
	randFn func() float64 // uniform [0, 1)

	mu        sync.Mutex
	pulses    []types.GeoPulse
	lastPulse map[string]time.Time
}

// NewSimulator loads persisted pulses from the store.
func NewSimulator(store *kv.Store) *Simulator {
	s := &Simulator{
		store:     store,
		nowFn:     time.Now,
		randFn:    rand.Float64,
		lastPulse: make(map[string]time.Time),
	}
	s.pulses = kv.Get(store, pulsesKey, []types.GeoPulse{},
		&kv.Options[[]types.GeoPulse]{Version: schemaVersion})
	return s
}

// SetNowFunc overrides the clock. Intended for tests.
func (s *Simulator) SetNowFunc(fn func() time.Time) { s.nowFn = fn }

// SetRandFunc overrides the jitter source. Intended for tests.
func (s *Simulator) SetRandFunc(fn func() float64) { s.randFn = fn }

// DeviceKey returns the durable anonymous device key, generating one on
// first use.
func (s *Simulator) DeviceKey() string {
	key := kv.Get(s.store, deviceKeyKey, "", &kv.Options[string]{Version: schemaVersion})
	if key == "" {
		key = "dev_" + strings.ReplaceAll(uuid.NewString(), "-", "")
		_ = kv.SetVersioned(s.store, deviceKeyKey, key, schemaVersion)
	}
	return key
}

// JitterLocation adds uniform random noise in [-j, j] to each axis. Applied
// after rounding, so the reported position is neither the true position nor
// deterministic across pulses.
func (s *Simulator) JitterLocation(lat, lon float64, mode types.GeoMode) (float64, float64) {
	j := JitterAmplitude(mode)
	return lat + (s.randFn()-0.5)*2*j, lon + (s.randFn()-0.5)*2*j
}

// Transform rounds then jitters a raw coordinate for the given mode.
func (s *Simulator) Transform(lat, lon float64, mode types.GeoMode) (float64, float64) {
	rLat, rLon := RoundLocation(lat, lon, mode)
	return s.JitterLocation(rLat, rLon, mode)
}

// Pulse upserts the device's latest transformed position into the region's
// pulse list, pruning expired pulses and pulses outside the region first.
// Returns false when the pulse was dropped by the per-device throttle.
func (s *Simulator) Pulse(p types.GeoPulse) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowFn().UTC()
	if last, ok := s.lastPulse[p.AnonKey]; ok && now.Sub(last) < PulseMinInterval {
		return false
	}
	s.lastPulse[p.AnonKey] = now
	if p.TS.IsZero() {
		p.TS = now
	}

	kept := s.pulses[:0]
	for _, old := range s.pulses {
		if old.AnonKey == p.AnonKey {
			continue // latest wins
		}
		if old.Region != p.Region {
			continue
		}
		if now.Sub(old.TS) >= TTL {
			continue
		}
		kept = append(kept, old)
	}
	s.pulses = append(kept, p)
	_ = kv.SetVersioned(s.store, pulsesKey, s.pulses, schemaVersion)
	return true
}

// FetchPings returns all non-expired pulses for a region in the UI-facing
// shape. Positions are stable per (anonKey, region, rounded coordinate);
// signal strength derives purely from pulse age. The distance is an
// illustrative placeholder, not real geometry.
func (s *Simulator) FetchPings(region string) []types.GeoPing {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowFn().UTC()
	pings := make([]types.GeoPing, 0, len(s.pulses))
	idx := 0
	for _, p := range s.pulses {
		if p.Region != region || now.Sub(p.TS) >= TTL {
			continue
		}

		seed := fmt.Sprintf("%s|%s|%.3f|%.3f", p.AnonKey, p.Region, p.Lat, p.Lon)
		x := clamp(10+Stable01(seed+"|x")*80, 10, 90)
		y := clamp(12+Stable01(seed+"|y")*76, 12, 88)

		ageMin := int(math.Max(1, math.Round(now.Sub(p.TS).Minutes())))
		signal := types.SignalLow
		switch {
		case ageMin <= 3:
			signal = types.SignalHigh
		case ageMin <= 10:
			signal = types.SignalMed
		}

		distance := 400 + idx*150
		hint := "ghost pulse"
		if p.Mode == types.GeoModeReveal {
			distance = 120 + idx*120
			hint = "coarse reveal"
		}

		pings = append(pings, types.GeoPing{
			UserKey:   "user_" + truncate(p.AnonKey, 8),
			Label:     fmt.Sprintf("User #%d", int(Stable01(p.AnonKey)*900000)+100000),
			DistanceM: distance,
			LastSeen:  p.TS,
			Signal:    signal,
			Hint:      hint,
			X:         x,
			Y:         y,
		})
		idx++
	}
	return pings
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
