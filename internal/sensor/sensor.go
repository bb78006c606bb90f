// Package sensor samples the two analog channels and converts them into
// calibrated river level and rain intensity.
package sensor

import "github.com/couchcryptid/river-monitor/internal/domain"

// Channel selects one analog input.
type Channel int

const (
	ChannelRain  Channel = iota // joystick X, rain plate proxy
	ChannelLevel                // joystick Y, ultrasonic level proxy
)

// ADC reads a 12-bit conversion from a channel. Reads never fail once the
// converter is initialized.
type ADC interface {
	Read(ch Channel) uint16
}

// Reader turns raw conversions into calibrated metrics.
type Reader struct {
	adc ADC
	cal domain.Calibration
}

// NewReader creates a Reader over adc using cal for both transforms.
func NewReader(adc ADC, cal domain.Calibration) *Reader {
	return &Reader{adc: adc, cal: cal}
}

// Read samples both channels, rain first.
func (r *Reader) Read() domain.RawSample {
	return domain.RawSample{
		RainRaw:  r.adc.Read(ChannelRain),
		LevelRaw: r.adc.Read(ChannelLevel),
	}
}

// Sample reads both channels and applies the calibration.
func (r *Reader) Sample() domain.Metrics {
	return domain.Convert(r.Read(), r.cal)
}
