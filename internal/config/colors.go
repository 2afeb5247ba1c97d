package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samdwyer/tileworld/internal/gfx"
)

// ParseHexColor converts a hex color string (e.g., "#FF0000" or "FF0000") to a gfx.Color.
func ParseHexColor(hex string) (gfx.Color, error) {
	// Remove leading # if present
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")

	if len(hex) != 6 {
		return gfx.Color{}, fmt.Errorf("invalid hex color length: %s", hex)
	}

	r, err := strconv.ParseUint(hex[0:2], 16, 8)
	if err != nil {
		return gfx.Color{}, fmt.Errorf("invalid red component in %s: %w", hex, err)
	}

	g, err := strconv.ParseUint(hex[2:4], 16, 8)
	if err != nil {
		return gfx.Color{}, fmt.Errorf("invalid green component in %s: %w", hex, err)
	}

	b, err := strconv.ParseUint(hex[4:6], 16, 8)
	if err != nil {
		return gfx.Color{}, fmt.Errorf("invalid blue component in %s: %w", hex, err)
	}

	return gfx.RGB(uint8(r), uint8(g), uint8(b)), nil
}
