package types

import (
	"fmt"
	"strings"
)

type WellType uint8

const (
	Injector WellType = iota
	Producer
)

var WellNameMap = map[string]WellType{
	"injector":   Injector,
	"inj":        Injector,
	"injection":  Injector,
	"producer":   Producer,
	"prod":       Producer,
	"production": Producer,
}

func (wt WellType) String() string {
	switch wt {
	case Injector:
		return "injector"
	case Producer:
		return "producer"
	}
	return fmt.Sprintf("WellType(%d)", uint8(wt))
}

func NewWellType(label string) (wt WellType, err error) {
	var ok bool
	if wt, ok = WellNameMap[strings.ToLower(strings.TrimSpace(label))]; !ok {
		err = fmt.Errorf("unknown well type %q, must be injector or producer", label)
	}
	return
}

// MarshalText and UnmarshalText let well types appear by name in input files
func (wt WellType) MarshalText() ([]byte, error) {
	if wt > Producer {
		return nil, fmt.Errorf("invalid well type %d", uint8(wt))
	}
	return []byte(wt.String()), nil
}

func (wt *WellType) UnmarshalText(text []byte) (err error) {
	*wt, err = NewWellType(string(text))
	return
}
