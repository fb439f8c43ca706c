package lutmap

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Options controls a translation.
type Options struct {
	// Module to translate (default: "top")
	TopModule string

	// Clock domain tag given to every lowered flip-flop (default: 7
	// when nil)
	ClockDomain *uint32

	// Constant bit that marks an unconnected LUT input (default: "0")
	UnconnectedNet string

	// Fail on unsupported cell types instead of reporting a diagnostic
	Strict bool

	// Destination of classification and warning lines
	// (default: logrus.StandardLogger())
	Logger logrus.FieldLogger
}

// MaxClockDomain is the highest clock domain tag; the device has eight
// global nets.
const MaxClockDomain = 7

// DefaultOptions returns Options with the reference device settings.
func DefaultOptions() *Options {
	domain := uint32(MaxClockDomain)
	return &Options{
		TopModule:      "top",
		ClockDomain:    &domain,
		UnconnectedNet: "0",
		Strict:         false,
		Logger:         logrus.StandardLogger(),
	}
}

// Validate fills in unset fields and checks the clock domain range.
func (o *Options) Validate() error {
	if o.TopModule == "" {
		o.TopModule = "top"
	}
	if o.UnconnectedNet == "" {
		o.UnconnectedNet = "0"
	}
	if o.Logger == nil {
		o.Logger = logrus.StandardLogger()
	}
	if o.ClockDomain == nil {
		domain := uint32(MaxClockDomain)
		o.ClockDomain = &domain
	}
	if *o.ClockDomain > MaxClockDomain {
		return fmt.Errorf("lutmap: clock domain %d out of range 0-%d", *o.ClockDomain, MaxClockDomain)
	}
	return nil
}
