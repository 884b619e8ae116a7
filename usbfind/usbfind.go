// Copyright (c) 2024–2026 The labtoolkit developers. All rights reserved.
// Project site: https://github.com/labtoolkit/instrument
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

// Package usbfind locates USB-attached instruments by walking
// /sys/class/tty, so callers can open a device by what it is rather
// than by a /dev name that changes across replug.
package usbfind

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// Device is one USB serial device with its descriptor strings.
type Device struct {
	Dev       string // device node name, e.g. "ttyUSB0"
	Path      string // resolved sysfs path
	ProductID string
	VendorID  string
	Mfg       string
	Product   string
	Serial    string
}

func (d Device) String() string {
	return fmt.Sprintf("dev %s path %s pid/vid %s/%s mfg/prod %s/%s serial %s",
		d.Dev, d.Path, d.ProductID, d.VendorID, d.Mfg, d.Product, d.Serial)
}

// Devices is a list of discovered USB serial devices.
type Devices []Device

func (ds Devices) String() string {
	s := make([]string, 0, len(ds))
	for _, d := range ds {
		s = append(s, d.String())
	}
	return strings.Join(s, "\n")
}

// Filter narrows discovery to devices it returns true for.
type Filter func(*Device) bool

// BySerial matches a device by its USB serial number string.
func BySerial(serial string) Filter {
	return func(d *Device) bool { return d.Serial == serial }
}

// ByIDs matches a device by its USB vendor and product IDs, given as
// lowercase hex, e.g. ByIDs("0403", "6001") for an FTDI adapter.
func ByIDs(vendor, product string) Filter {
	return func(d *Device) bool {
		return d.VendorID == vendor && d.ProductID == product
	}
}

// ByManufacturer matches a device whose manufacturer string contains
// the given substring.
func ByManufacturer(substr string) Filter {
	return func(d *Device) bool { return strings.Contains(d.Mfg, substr) }
}

// PrologixFilter matches Prologix GPIB-USB adapters, which enumerate
// with FTDI IDs and a "Prologix" product string.
func PrologixFilter(d *Device) bool {
	return strings.Contains(d.Product, "Prologix")
}

// Find returns the /dev path of the single USB serial device matching
// the filter. A nil filter accepts everything. It is an error for
// zero or more than one device to match.
func Find(filter Filter) (string, error) {
	devs, err := All()
	if err != nil {
		return "", err
	}
	if filter != nil {
		matched := devs[:0:0]
		for i := range devs {
			if filter(&devs[i]) {
				matched = append(matched, devs[i])
			}
		}
		devs = matched
	}
	if len(devs) == 0 {
		return "", fmt.Errorf("no matching usb tty found")
	}
	if len(devs) > 1 {
		return "", fmt.Errorf("multiple usb ttys match:\n%s", devs)
	}
	return filepath.Join("/dev", devs[0].Dev), nil
}

// All lists the USB serial devices present, by resolving the symlinks
// under /sys/class/tty and keeping those that route through a USB bus.
//
// TODO use fs.FS for testing, though we need the equivalent of filepath.EvalSymlinks
func All() (Devices, error) {
	var devs Devices
	sct := "/sys/class/tty/"
	entries, err := os.ReadDir(sct)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.Type()&fs.ModeSymlink == 0 {
			continue
		}
		// symlinks look like
		// /sys/class/tty/ttyUSB0 ->
		// /sys/devices/pci.../usb1/1-10/1-10:1.0/tty/ttyUSB0
		path := filepath.Join(sct, e.Name())
		abs, err := filepath.EvalSymlinks(path)
		if err != nil {
			log.Printf("error evaluating symlink %s; skipping: %s", path, err)
			continue
		}
		if !strings.Contains(abs, "usb") {
			continue
		}
		dev, err := filepath.EvalSymlinks(filepath.Join(abs, "device"))
		if err != nil {
			log.Printf("usb but lacking device subdir?! %s %s", abs, err)
		}
		// the descriptor files live one level above the interface dir
		d := Device{Dev: e.Name(), Path: abs}
		if err := readUsbInfo(filepath.Dir(dev), &d); err != nil {
			log.Printf("%s: %s", abs, err)
		}
		devs = append(devs, d)
	}
	return devs, nil
}

// readUsbInfo fills in the descriptor strings from the sysfs device
// directory. It returns the last error encountered, ignoring missing
// files; partial data is still filled in.
func readUsbInfo(dir string, d *Device) error {
	var err error
	read := func(name string) string {
		b, rerr := os.ReadFile(filepath.Join(dir, name))
		if rerr != nil && !errors.Is(rerr, os.ErrNotExist) {
			err = rerr
		}
		return strings.TrimSpace(string(b))
	}
	d.ProductID = read("idProduct")
	d.VendorID = read("idVendor")
	d.Mfg = read("manufacturer")
	d.Product = read("product")
	d.Serial = read("serial")
	return err
}
