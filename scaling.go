// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package ncs

import (
	"fmt"
	"strings"
)

// Scaling selects the unit of a channel's scaled readings.
type Scaling int

const (
	Volts Scaling = iota
	Millivolts
	Microvolts
)

// ParseScaling parses a unit name or prefix ("V", "mV", "uV", "milli", ...).
func ParseScaling(s string) (Scaling, error) {
	switch strings.TrimSpace(s) {
	case "", "V", "none", "volts":
		return Volts, nil
	case "mV", "milli", "millivolts":
		return Millivolts, nil
	case "uV", "µV", "micro", "microvolts":
		return Microvolts, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownScaling, s)
	}
}

// Factor returns the multiplier applied on top of ADBitVolts.
func (s Scaling) Factor() (float64, error) {
	switch s {
	case Volts:
		return 1, nil
	case Millivolts:
		return 1e3, nil
	case Microvolts:
		return 1e6, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnknownScaling, int(s))
	}
}

// Unit returns the symbol of the physical unit.
func (s Scaling) Unit() string {
	switch s {
	case Volts:
		return "V"
	case Millivolts:
		return "mV"
	case Microvolts:
		return "µV"
	default:
		return ""
	}
}

func (s Scaling) String() string {
	if u := s.Unit(); u != "" {
		return u
	}
	return fmt.Sprintf("Scaling(%d)", int(s))
}
