package mpu6050

// Register map (RM-MPU-6000A-00 rev 4.2).
const (
	regSampleRateDiv = 0x19
	regConfig        = 0x1A
	regGyroConfig    = 0x1B
	regAccelConfig   = 0x1C

	regAccelXOut = 0x3B
	regAccelYOut = 0x3D
	regAccelZOut = 0x3F
	regTempOut   = 0x41
	regGyroXOut  = 0x43
	regGyroYOut  = 0x45
	regGyroZOut  = 0x47

	regPwrMgmt1 = 0x6B
	regWhoAmI   = 0x75
)

// PWR_MGMT_1 bits.
const (
	bitClkSel0 = 0
	bitClkSel1 = 1
	bitClkSel2 = 2
	bitSleep   = 6
)

// FS_SEL / AFS_SEL occupy bits 4:3 of GYRO_CONFIG and ACCEL_CONFIG.
const (
	bitFullScale0 = 3
	bitFullScale1 = 4
)

// DLPF_CFG occupies bits 2:0 of CONFIG.
const (
	bitDLPF0 = 0
	bitDLPF1 = 1
	bitDLPF2 = 2
)

// burst read of ACCEL_OUT, TEMP_OUT and GYRO_OUT
const sampleLength = 14

const (
	// DefaultAddress is used when AD0 is pulled low.
	DefaultAddress = 0x68
	// AddressAlt is used when AD0 is pulled high.
	AddressAlt = 0x69
)
