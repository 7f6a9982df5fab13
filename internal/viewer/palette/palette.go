package palette

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"
)

// ============================================================
// Colors
// ============================================================

// Color - 0xRRGGBB.
type Color uint32

const (
	LightBlue Color = 0x88ccff
	Red       Color = 0xcc3333
	Green     Color = 0x33cc33
	Yellow    Color = 0xffcc00
	Pink      Color = 0xff66cc
	Olive     Color = 0x999966
	Purple    Color = 0x9966ff
	White     Color = 0xffffff
)

// Default - палитра цветов частей дома.
var Default = []Color{LightBlue, Red, Green, Yellow, Pink, Olive, Purple}

func (c Color) Hex() string {
	return fmt.Sprintf("#%06x", uint32(c)&0xffffff)
}

// RGB возвращает компоненты в диапазоне [0, 1].
func (c Color) RGB() [3]float32 {
	return [3]float32{
		float32((c>>16)&0xff) / 255,
		float32((c>>8)&0xff) / 255,
		float32(c&0xff) / 255,
	}
}

func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Hex())
}

func (c *Color) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := strconv.ParseUint(strings.TrimPrefix(s, "#"), 16, 32)
	if err != nil || len(s) != 7 {
		return fmt.Errorf("invalid color %q", s)
	}
	*c = Color(v)
	return nil
}

// ============================================================
// Picker
// ============================================================

// Picker выбирает цвет равномерно, с возвращением.
type Picker struct {
	mu     sync.Mutex
	rng    *rand.Rand
	colors []Color
}

// NewPicker создаёт генератор цветов. seed == 0 - сид от текущего времени.
func NewPicker(seed int64, colors []Color) *Picker {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if len(colors) == 0 {
		colors = Default
	}
	return &Picker{
		rng:    rand.New(rand.NewSource(seed)),
		colors: colors,
	}
}

func (p *Picker) Next() Color {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.colors[p.rng.Intn(len(p.colors))]
}
