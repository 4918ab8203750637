// Package bmp280 reads the temperature of a Bosch BMP280 over I2C, for fans
// that follow an enclosure sensor instead of the SoC thermal zone.
package bmp280

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"fanctl/internal/fancontrol"
	"fanctl/internal/i2c"
)

var sleep = time.Sleep

const (
	addrDefault = 0x77

	regID        = 0xD0
	chipIDBMP280 = 0x58

	regReset = 0xE0
	resetCmd = 0xB6

	regCalibT = 0x88
	calibTLen = 6

	regStatus   = 0xF3
	statusBusy  = 0x08
	regCtrlMeas = 0xF4
	regConfig   = 0xF5
	regTempMsb  = 0xFA

	// osrs_t=x2, osrs_p=skipped, mode=forced.
	ctrlForcedTemp = byte(0x02<<5) | 0x01

	pollAttempts = 20
	pollDelay    = 2 * time.Millisecond
)

type regIO interface {
	ReadRegU8(reg byte) (byte, error)
	ReadReg(reg byte, dst []byte) error
	WriteReg(reg, value byte) error
}

// Device is a BMP280 used as a fancontrol.TemperatureSource.
//
// Each ReadTemperature triggers a single forced-mode conversion, so the
// sensor sleeps between control cycles.
type Device struct {
	dev    regIO
	closer io.Closer

	digT1 uint16
	digT2 int16
	digT3 int16
}

func DefaultAddress() uint16 { return addrDefault }

// Open opens the I2C bus at busPath and probes the sensor at addr.
func Open(busPath string, addr uint16) (*Device, error) {
	bus, err := i2c.Open(busPath)
	if err != nil {
		return nil, fmt.Errorf("%w: bmp280: %v", fancontrol.ErrSensorUnavailable, err)
	}
	d, err := newWithIO(bus.Dev(addr))
	if err != nil {
		_ = bus.Close()
		return nil, fmt.Errorf("%w: %v", fancontrol.ErrSensorUnavailable, err)
	}
	d.closer = bus
	return d, nil
}

func newWithIO(dev regIO) (*Device, error) {
	if dev == nil {
		return nil, fmt.Errorf("bmp280: dev is nil")
	}
	d := &Device{dev: dev}

	id, err := d.dev.ReadRegU8(regID)
	if err != nil {
		return nil, fmt.Errorf("bmp280: id read failed: %w", err)
	}
	if id != chipIDBMP280 {
		return nil, fmt.Errorf("bmp280: chip id=0x%02X want 0x%02X", id, chipIDBMP280)
	}

	// After reset the NVM coefficients are copied over a couple of
	// milliseconds; reading too early returns zeros.
	_ = d.dev.WriteReg(regReset, resetCmd)
	sleep(5 * time.Millisecond)

	var calibErr error
	for i := 0; i < 3; i++ {
		calibErr = d.readCalibration()
		if calibErr == nil && d.digT1 == 0 {
			calibErr = fmt.Errorf("bmp280: calibration invalid (digT1=0)")
		}
		if calibErr == nil {
			break
		}
		sleep(5 * time.Millisecond)
	}
	if calibErr != nil {
		return nil, calibErr
	}

	// Standby and IIR filter off: a forced read is a single raw sample.
	_ = d.dev.WriteReg(regConfig, 0x00)
	return d, nil
}

func (d *Device) readCalibration() error {
	buf := make([]byte, calibTLen)
	if err := d.dev.ReadReg(regCalibT, buf); err != nil {
		return fmt.Errorf("bmp280: read calib failed: %w", err)
	}
	d.digT1 = binary.LittleEndian.Uint16(buf[0:2])
	d.digT2 = int16(binary.LittleEndian.Uint16(buf[2:4]))
	d.digT3 = int16(binary.LittleEndian.Uint16(buf[4:6]))
	return nil
}

// ReadTemperature runs one conversion and returns degrees C.
func (d *Device) ReadTemperature() (float64, error) {
	if err := d.dev.WriteReg(regCtrlMeas, ctrlForcedTemp); err != nil {
		return 0, fmt.Errorf("%w: bmp280: start conversion: %v", fancontrol.ErrSensorUnavailable, err)
	}
	if err := d.waitIdle(); err != nil {
		return 0, fmt.Errorf("%w: %v", fancontrol.ErrSensorUnavailable, err)
	}

	buf := make([]byte, 3)
	if err := d.dev.ReadReg(regTempMsb, buf); err != nil {
		return 0, fmt.Errorf("%w: bmp280: read data failed: %v", fancontrol.ErrSensorUnavailable, err)
	}
	adcT := int32(buf[0])<<12 | int32(buf[1])<<4 | int32(buf[2])>>4
	return d.compensateTemp(adcT), nil
}

func (d *Device) waitIdle() error {
	for i := 0; i < pollAttempts; i++ {
		st, err := d.dev.ReadRegU8(regStatus)
		if err != nil {
			return fmt.Errorf("bmp280: status read failed: %w", err)
		}
		if st&statusBusy == 0 {
			return nil
		}
		sleep(pollDelay)
	}
	return errors.New("bmp280: conversion did not finish")
}

// compensateTemp is the datasheet floating point formula.
func (d *Device) compensateTemp(adcT int32) float64 {
	var1 := (float64(adcT)/16384.0 - float64(d.digT1)/1024.0) * float64(d.digT2)
	var2 := float64(adcT)/131072.0 - float64(d.digT1)/8192.0
	var2 = var2 * var2 * float64(d.digT3)
	return (var1 + var2) / 5120.0
}

func (d *Device) Close() error {
	if d == nil || d.closer == nil {
		return nil
	}
	err := d.closer.Close()
	d.closer = nil
	return err
}
