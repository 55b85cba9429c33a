package main

import "time"

// Pin modes passed to Device.PinMode.
const (
	PinInput = iota
	PinOutput
	PinInputPullup
)

// Device supplies the hardware capability opcodes. The interpreter treats
// every method as an opaque side-effecting primitive with a fixed stack
// signature; injecting a fake makes the core testable without hardware.
type Device interface {
	PinMode(pin, mode int)
	DigitalRead(pin int) bool
	DigitalWrite(pin int, high bool)
	AnalogRead(pin int) int
	AnalogWrite(pin, value int)
	Delay(ms int)
	Millis() int
}

// SimDevice is the default Device: simulated pins over a wall clock.
// Digital writes read back through DigitalRead, and analog samples can be
// staged with SetAnalog so scripts have something to measure.
type SimDevice struct {
	epoch  time.Time
	modes  map[int]int
	pins   map[int]bool
	analog map[int]int
}

func NewSimDevice() *SimDevice {
	return &SimDevice{
		epoch:  time.Now(),
		modes:  make(map[int]int),
		pins:   make(map[int]bool),
		analog: make(map[int]int),
	}
}

func (sd *SimDevice) PinMode(pin, mode int)           { sd.modes[pin] = mode }
func (sd *SimDevice) DigitalRead(pin int) bool        { return sd.pins[pin] }
func (sd *SimDevice) DigitalWrite(pin int, high bool) { sd.pins[pin] = high }
func (sd *SimDevice) AnalogRead(pin int) int          { return sd.analog[pin] }
func (sd *SimDevice) AnalogWrite(pin, value int)      { sd.analog[pin] = value }
func (sd *SimDevice) Delay(ms int)                    { time.Sleep(time.Duration(ms) * time.Millisecond) }
func (sd *SimDevice) Millis() int                     { return int(time.Since(sd.epoch) / time.Millisecond) }

// SetAnalog stages the sample the next analog read of pin returns.
func (sd *SimDevice) SetAnalog(pin, value int) { sd.analog[pin] = value }

// Mode reports the last mode set on pin.
func (sd *SimDevice) Mode(pin int) int { return sd.modes[pin] }
