package sensor

import (
	"math/rand"
	"sync"
	"sync/atomic"

	"github.com/couchcryptid/river-monitor/internal/domain"
)

const adcMask = 0x0FFF

// StaticADC holds fixed channel values that can be moved at runtime, the way
// a joystick stays where it was left.
type StaticADC struct {
	rain  atomic.Uint32
	level atomic.Uint32
}

// NewStaticADC creates a StaticADC with initial raw values.
func NewStaticADC(rainRaw, levelRaw uint16) *StaticADC {
	a := &StaticADC{}
	a.Set(rainRaw, levelRaw)
	return a
}

// Set moves both channels. Values are truncated to 12 bits.
func (a *StaticADC) Set(rainRaw, levelRaw uint16) {
	a.rain.Store(uint32(rainRaw & adcMask))
	a.level.Store(uint32(levelRaw & adcMask))
}

func (a *StaticADC) Read(ch Channel) uint16 {
	if ch == ChannelRain {
		return uint16(a.rain.Load())
	}
	return uint16(a.level.Load())
}

// DriftADC performs a bounded random walk on each channel so an unattended
// node still produces changing readings.
type DriftADC struct {
	mu    sync.Mutex
	rng   *rand.Rand
	step  int
	value [2]int
}

// NewDriftADC starts both channels at the given raw values and moves each
// read by at most step counts in either direction.
func NewDriftADC(seed int64, rainRaw, levelRaw uint16, step int) *DriftADC {
	if step <= 0 {
		step = 64
	}
	return &DriftADC{
		rng:   rand.New(rand.NewSource(seed)), //nolint:gosec // simulation only
		step:  step,
		value: [2]int{int(rainRaw & adcMask), int(levelRaw & adcMask)},
	}
}

// Set moves both channels; the walk continues from there.
func (a *DriftADC) Set(rainRaw, levelRaw uint16) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.value = [2]int{int(rainRaw & adcMask), int(levelRaw & adcMask)}
}

func (a *DriftADC) Read(ch Channel) uint16 {
	a.mu.Lock()
	defer a.mu.Unlock()

	i := 0
	if ch == ChannelLevel {
		i = 1
	}
	v := a.value[i] + a.rng.Intn(2*a.step+1) - a.step
	switch {
	case v < 0:
		v = 0
	case v > domain.ADCMax:
		v = domain.ADCMax
	}
	a.value[i] = v
	return uint16(v)
}
