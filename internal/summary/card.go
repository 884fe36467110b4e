package summary

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/kyiku/hackz-valentine-back/internal/state"
)

// Card geometry in pixels.
const (
	CardWidth   = 480
	cardPadding = 24
	lineHeight  = 22
)

var (
	cardBackground = color.RGBA{R: 0xff, G: 0xe4, B: 0xec, A: 0xff}
	cardAccent     = color.RGBA{R: 0xd6, G: 0x33, B: 0x6c, A: 0xff}
	cardText       = color.RGBA{R: 0x3a, G: 0x1c, B: 0x28, A: 0xff}
)

// basicfont has no glyph for the em dash.
var cardSanitizer = strings.NewReplacer("—", "-", "…", "...")

// RenderCard draws the summary on a small shareable image.
func RenderCard(p state.Proposal) image.Image {
	rows := Rows(p)
	height := cardPadding*2 + lineHeight*(len(rows)+2)

	img := image.NewRGBA(image.Rect(0, 0, CardWidth, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(cardBackground), image.Point{}, draw.Src)

	// Accent bar along the left edge.
	draw.Draw(img, image.Rect(0, 0, 6, height), image.NewUniform(cardAccent), image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(cardAccent),
		Face: basicfont.Face7x13,
	}

	y := cardPadding + lineHeight
	drawLine(d, CopyTitle, y)

	d.Src = image.NewUniform(cardText)
	for _, r := range rows {
		y += lineHeight
		drawLine(d, r.Label+": "+r.Value, y)
	}

	return img
}

func drawLine(d *font.Drawer, text string, baseline int) {
	d.Dot = fixed.P(cardPadding, baseline)
	d.DrawString(fitWidth(d, cardSanitizer.Replace(text)))
}

// fitWidth cuts text so it stays inside the card.
func fitWidth(d *font.Drawer, text string) string {
	limit := fixed.I(CardWidth - cardPadding*2)
	if d.MeasureString(text) <= limit {
		return text
	}
	runes := []rune(text)
	for len(runes) > 0 && d.MeasureString(string(runes)+"...") > limit {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}
