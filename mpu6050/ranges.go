package mpu6050

import (
	"fmt"
	"strings"

	"github.com/mklimuk/imu/codec"
)

// ErrInvalidRange is returned for values outside of an enumeration.
var ErrInvalidRange = fmt.Errorf("value out of range: %w", codec.ErrInvalidArgument)

// GyroscopeRange is a gyroscope full scale selection. Its value is the FS_SEL code.
type GyroscopeRange uint8

const (
	Gyro250  GyroscopeRange = 0b00 // ±250°/s
	Gyro500  GyroscopeRange = 0b01 // ±500°/s
	Gyro1000 GyroscopeRange = 0b10 // ±1000°/s
	Gyro2000 GyroscopeRange = 0b11 // ±2000°/s
)

// Code returns the 2 bit FS_SEL value.
func (r GyroscopeRange) Code() uint8 {
	return uint8(r)
}

// Scale returns the full scale in degrees per second.
func (r GyroscopeRange) Scale() float64 {
	switch r {
	case Gyro250:
		return 250.0
	case Gyro500:
		return 500.0
	case Gyro1000:
		return 1000.0
	case Gyro2000:
		return 2000.0
	default:
		return 0
	}
}

func (r GyroscopeRange) Valid() bool {
	return r <= Gyro2000
}

func (r GyroscopeRange) String() string {
	if !r.Valid() {
		return fmt.Sprintf("GyroscopeRange(%d)", uint8(r))
	}
	return fmt.Sprintf("%gdps", r.Scale())
}

// ParseGyroscopeRange accepts the full scale with or without unit ("500", "500dps").
func ParseGyroscopeRange(s string) (GyroscopeRange, error) {
	switch strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "dps") {
	case "250":
		return Gyro250, nil
	case "500":
		return Gyro500, nil
	case "1000":
		return Gyro1000, nil
	case "2000":
		return Gyro2000, nil
	}
	return 0, fmt.Errorf("unknown gyroscope range %q: %w", s, ErrInvalidRange)
}

func (r GyroscopeRange) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("gyroscope range %d: %w", uint8(r), ErrInvalidRange)
	}
	return []byte(r.String()), nil
}

func (r *GyroscopeRange) UnmarshalText(text []byte) error {
	v, err := ParseGyroscopeRange(string(text))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// AccelerometerRange is an accelerometer full scale selection. Its value is the AFS_SEL code.
type AccelerometerRange uint8

const (
	Accel2G  AccelerometerRange = 0b00 // ±2g
	Accel4G  AccelerometerRange = 0b01 // ±4g
	Accel8G  AccelerometerRange = 0b10 // ±8g
	Accel16G AccelerometerRange = 0b11 // ±16g
)

// Code returns the 2 bit AFS_SEL value.
func (r AccelerometerRange) Code() uint8 {
	return uint8(r)
}

// Scale returns the full scale in g.
func (r AccelerometerRange) Scale() float64 {
	switch r {
	case Accel2G:
		return 2.0
	case Accel4G:
		return 4.0
	case Accel8G:
		return 8.0
	case Accel16G:
		return 16.0
	default:
		return 0
	}
}

func (r AccelerometerRange) Valid() bool {
	return r <= Accel16G
}

func (r AccelerometerRange) String() string {
	if !r.Valid() {
		return fmt.Sprintf("AccelerometerRange(%d)", uint8(r))
	}
	return fmt.Sprintf("%gg", r.Scale())
}

// ParseAccelerometerRange accepts the full scale with or without unit ("4", "4g").
func ParseAccelerometerRange(s string) (AccelerometerRange, error) {
	switch strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "g") {
	case "2":
		return Accel2G, nil
	case "4":
		return Accel4G, nil
	case "8":
		return Accel8G, nil
	case "16":
		return Accel16G, nil
	}
	return 0, fmt.Errorf("unknown accelerometer range %q: %w", s, ErrInvalidRange)
}

func (r AccelerometerRange) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("accelerometer range %d: %w", uint8(r), ErrInvalidRange)
	}
	return []byte(r.String()), nil
}

func (r *AccelerometerRange) UnmarshalText(text []byte) error {
	v, err := ParseAccelerometerRange(string(text))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// ClockSource is the CLKSEL value of PWR_MGMT_1.
type ClockSource uint8

const (
	ClockInternal      ClockSource = 0 // internal 8MHz oscillator
	ClockGyroX         ClockSource = 1 // PLL with X axis gyroscope reference
	ClockGyroY         ClockSource = 2 // PLL with Y axis gyroscope reference
	ClockGyroZ         ClockSource = 3 // PLL with Z axis gyroscope reference
	ClockExternal32kHz ClockSource = 4 // PLL with external 32.768kHz reference
	ClockExternal19MHz ClockSource = 5 // PLL with external 19.2MHz reference
	ClockStopped       ClockSource = 7 // stops the clock and keeps the timing generator in reset
)

var clockNames = map[ClockSource]string{
	ClockInternal:      "internal",
	ClockGyroX:         "gyro-x",
	ClockGyroY:         "gyro-y",
	ClockGyroZ:         "gyro-z",
	ClockExternal32kHz: "external-32khz",
	ClockExternal19MHz: "external-19mhz",
	ClockStopped:       "stopped",
}

// Valid reports whether c is a documented selector (6 is reserved).
func (c ClockSource) Valid() bool {
	_, ok := clockNames[c]
	return ok
}

func (c ClockSource) String() string {
	if name, ok := clockNames[c]; ok {
		return name
	}
	return fmt.Sprintf("ClockSource(%d)", uint8(c))
}

func ParseClockSource(s string) (ClockSource, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	for c, name := range clockNames {
		if name == normalized {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown clock source %q: %w", s, ErrInvalidRange)
}

func (c ClockSource) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("clock source %d: %w", uint8(c), ErrInvalidRange)
	}
	return []byte(c.String()), nil
}

func (c *ClockSource) UnmarshalText(text []byte) error {
	v, err := ParseClockSource(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// DLPF is the digital low pass filter setting (DLPF_CFG) of the CONFIG register.
// Values are the accelerometer bandwidth in Hz.
type DLPF uint8

const (
	DLPF260Hz DLPF = iota
	DLPF184Hz
	DLPF94Hz
	DLPF44Hz
	DLPF21Hz
	DLPF10Hz
	DLPF5Hz
)

var dlpfBandwidth = [...]int{260, 184, 94, 44, 21, 10, 5}

func (f DLPF) Valid() bool {
	return int(f) < len(dlpfBandwidth)
}

// Bandwidth returns the accelerometer bandwidth in Hz.
func (f DLPF) Bandwidth() int {
	if !f.Valid() {
		return 0
	}
	return dlpfBandwidth[f]
}

func (f DLPF) String() string {
	if !f.Valid() {
		return fmt.Sprintf("DLPF(%d)", uint8(f))
	}
	return fmt.Sprintf("%dHz", f.Bandwidth())
}

// ParseDLPF accepts the bandwidth with or without unit ("44", "44Hz").
func ParseDLPF(s string) (DLPF, error) {
	normalized := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "hz")
	for i, bw := range dlpfBandwidth {
		if fmt.Sprint(bw) == normalized {
			return DLPF(i), nil
		}
	}
	return 0, fmt.Errorf("unknown low pass filter bandwidth %q: %w", s, ErrInvalidRange)
}

func (f DLPF) MarshalText() ([]byte, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("low pass filter %d: %w", uint8(f), ErrInvalidRange)
	}
	return []byte(f.String()), nil
}

func (f *DLPF) UnmarshalText(text []byte) error {
	v, err := ParseDLPF(string(text))
	if err != nil {
		return err
	}
	*f = v
	return nil
}
