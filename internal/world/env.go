package world

import (
	"image/color"

	"chunkview/internal/event"
)

// EnvVar identifies which environment setting changed in an EnvVarChanged event.
type EnvVar int

const (
	EnvVarWeather EnvVar = iota
	EnvVarEdgeHeight
	EnvVarSidesOffset
	EnvVarSunCol
	EnvVarShadowCol
)

// Weather is the current precipitation kind.
type Weather int

const (
	WeatherSunny Weather = iota
	WeatherRainy
	WeatherSnowy
)

func (w Weather) String() string {
	switch w {
	case WeatherRainy:
		return "rainy"
	case WeatherSnowy:
		return "snowy"
	}
	return "sunny"
}

var (
	DefaultSunCol    = color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}
	DefaultShadowCol = color.RGBA{0x9B, 0x9B, 0x9B, 0xFF}
)

// Env holds the map environment settings that affect chunk geometry and
// weather rendering.
type Env struct {
	Weather     Weather
	EdgeHeight  int
	SidesOffset int
	SunCol      color.RGBA
	ShadowCol   color.RGBA

	bus *event.Bus
}

// NewEnv returns the default environment for a map of the given height.
func NewEnv(bus *event.Bus, mapHeight int) *Env {
	return &Env{
		EdgeHeight:  mapHeight / 2,
		SidesOffset: -2,
		SunCol:      DefaultSunCol,
		ShadowCol:   DefaultShadowCol,
		bus:         bus,
	}
}

// SidesHeight is the height of the bedrock sides surrounding the map.
func (e *Env) SidesHeight() int {
	return e.EdgeHeight + e.SidesOffset
}

func (e *Env) raise(v EnvVar) {
	if e.bus != nil {
		e.bus.EnvVarChanged.Raise(int(v))
	}
}

func (e *Env) SetWeather(w Weather) {
	if e.Weather == w {
		return
	}
	e.Weather = w
	e.raise(EnvVarWeather)
}

func (e *Env) SetEdgeHeight(h int) {
	if e.EdgeHeight == h {
		return
	}
	e.EdgeHeight = h
	e.raise(EnvVarEdgeHeight)
}

func (e *Env) SetSidesOffset(off int) {
	if e.SidesOffset == off {
		return
	}
	e.SidesOffset = off
	e.raise(EnvVarSidesOffset)
}

func (e *Env) SetSunCol(c color.RGBA) {
	if e.SunCol == c {
		return
	}
	e.SunCol = c
	e.raise(EnvVarSunCol)
}

func (e *Env) SetShadowCol(c color.RGBA) {
	if e.ShadowCol == c {
		return
	}
	e.ShadowCol = c
	e.raise(EnvVarShadowCol)
}
