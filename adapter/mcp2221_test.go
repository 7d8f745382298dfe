package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBufferToStatus(t *testing.T) {
	buf := make([]byte, reportSize)
	buf[9], buf[10] = 0x02, 0x00
	buf[11], buf[12] = 0x01, 0x00
	buf[13] = 3
	buf[14] = 117
	buf[15] = 9
	buf[16], buf[17] = 0xD0, 0x00
	buf[25] = 1
	assert.Equal(t, &MCP2221Status{
		I2CDataBufferCounter:   3,
		I2CSpeedDivider:        117,
		I2CTimeout:             9,
		CurrentAddress:         "d000",
		LastWriteRequestedSize: 2,
		LastWriteSentSize:      1,
		ReadPending:            1,
	}, bufferToStatus(buf))
}

func TestNewMCP2221_Options(t *testing.T) {
	d := NewMCP2221(WithDeviceIndex(1), WithSpeed(400_000))
	assert.Equal(t, 1, d.index)
	assert.Equal(t, 400_000, d.speed)
	assert.Len(t, d.request, reportSize)
}

func TestResetBuffer(t *testing.T) {
	buf := []byte{1, 2, 3}
	resetBuffer(buf)
	assert.Equal(t, []byte{0, 0, 0}, buf)
}
