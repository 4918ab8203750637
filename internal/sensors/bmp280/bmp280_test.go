package bmp280

import (
	"encoding/binary"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"fanctl/internal/fancontrol"
)

type fakeI2C struct {
	regs map[byte][]byte

	calibReads int
	calibSeq   [][]byte

	// statusSeq is returned by successive status reads, then 0 (idle).
	statusSeq []byte

	writes []writeOp
}

type writeOp struct {
	reg byte
	val byte
}

func (f *fakeI2C) ReadRegU8(reg byte) (byte, error) {
	if reg == regStatus {
		if len(f.statusSeq) == 0 {
			return 0, nil
		}
		st := f.statusSeq[0]
		f.statusSeq = f.statusSeq[1:]
		return st, nil
	}
	b, ok := f.regs[reg]
	if !ok || len(b) < 1 {
		return 0, errors.New("no reg")
	}
	return b[0], nil
}

func (f *fakeI2C) ReadReg(reg byte, dst []byte) error {
	if reg == regCalibT {
		f.calibReads++
		idx := f.calibReads - 1
		if idx < len(f.calibSeq) {
			copy(dst, f.calibSeq[idx])
			return nil
		}
		for i := range dst {
			dst[i] = 0
		}
		return nil
	}

	b, ok := f.regs[reg]
	if !ok {
		return errors.New("no reg")
	}
	copy(dst, b)
	return nil
}

func (f *fakeI2C) WriteReg(reg, value byte) error {
	f.writes = append(f.writes, writeOp{reg: reg, val: value})
	return nil
}

func noSleep(t *testing.T) {
	t.Helper()
	old := sleep
	sleep = func(time.Duration) {}
	t.Cleanup(func() { sleep = old })
}

// datasheetCalib holds the temperature trimming values from the BMP280 datasheet example.
func datasheetCalib() []byte {
	calib := make([]byte, calibTLen)
	binary.LittleEndian.PutUint16(calib[0:2], 27504)
	binary.LittleEndian.PutUint16(calib[2:4], 26435)
	binary.LittleEndian.PutUint16(calib[4:6], uint16(0xFC18)) // -1000
	return calib
}

func TestNew_RetriesCalibrationAfterReset(t *testing.T) {
	noSleep(t)

	f := &fakeI2C{
		regs:     map[byte][]byte{regID: {chipIDBMP280}},
		calibSeq: [][]byte{make([]byte, calibTLen), datasheetCalib()},
	}

	_, err := newWithIO(f)
	require.NoError(t, err)
	require.GreaterOrEqual(t, f.calibReads, 2)
	require.Contains(t, f.writes, writeOp{reg: regReset, val: resetCmd})
}

func TestNew_FailsOnInvalidCalibration(t *testing.T) {
	noSleep(t)

	f := &fakeI2C{regs: map[byte][]byte{regID: {chipIDBMP280}}}
	_, err := newWithIO(f)
	require.Error(t, err)
	require.Equal(t, 3, f.calibReads)
}

func TestNew_RejectsWrongChip(t *testing.T) {
	noSleep(t)

	// 0x60 is a BME280.
	_, err := newWithIO(&fakeI2C{regs: map[byte][]byte{regID: {0x60}}})
	require.ErrorContains(t, err, "chip id=0x60")
}

func TestReadTemperature_DatasheetExample(t *testing.T) {
	noSleep(t)

	f := &fakeI2C{
		regs: map[byte][]byte{
			regID: {chipIDBMP280},
			// adc_T = 519888
			regTempMsb: {0x7E, 0xED, 0x00},
		},
		calibSeq: [][]byte{datasheetCalib()},
	}
	d, err := newWithIO(f)
	require.NoError(t, err)

	f.statusSeq = []byte{statusBusy, statusBusy}
	v, err := d.ReadTemperature()
	require.NoError(t, err)
	require.InDelta(t, 25.08, v, 0.01)
	require.Equal(t, writeOp{reg: regCtrlMeas, val: ctrlForcedTemp}, f.writes[len(f.writes)-1])
	require.Empty(t, f.statusSeq)
}

func TestReadTemperature_ConversionTimeout(t *testing.T) {
	noSleep(t)

	f := &fakeI2C{
		regs:     map[byte][]byte{regID: {chipIDBMP280}, regTempMsb: {0, 0, 0}},
		calibSeq: [][]byte{datasheetCalib()},
	}
	d, err := newWithIO(f)
	require.NoError(t, err)

	busy := make([]byte, pollAttempts)
	for i := range busy {
		busy[i] = statusBusy
	}
	f.statusSeq = busy
	_, err = d.ReadTemperature()
	require.ErrorIs(t, err, fancontrol.ErrSensorUnavailable)
}

func TestReadTemperature_ReadError(t *testing.T) {
	noSleep(t)

	f := &fakeI2C{
		regs:     map[byte][]byte{regID: {chipIDBMP280}},
		calibSeq: [][]byte{datasheetCalib()},
	}
	d, err := newWithIO(f)
	require.NoError(t, err)

	_, err = d.ReadTemperature()
	require.ErrorIs(t, err, fancontrol.ErrSensorUnavailable)
}

func TestOpen_MissingBus(t *testing.T) {
	_, err := Open("/dev/i2c-does-not-exist", DefaultAddress())
	require.ErrorIs(t, err, fancontrol.ErrSensorUnavailable)
}
