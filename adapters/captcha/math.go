package captcha

import (
	"fmt"
	"image/color"

	"github.com/mojocn/base64Captcha"
	"github.com/sakury/vidora/ports"
)

const (
	DefaultWidth  = 100
	DefaultHeight = 42
)

// MathGenerator renders arithmetic puzzles such as "3+4=?" as PNG images
type MathGenerator struct {
	driver *base64Captcha.DriverMath
}

// NewMathGenerator creates a generator producing width x height images
func NewMathGenerator(width, height int) ports.CaptchaGenerator {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}

	driver := &base64Captcha.DriverMath{
		Height:          height,
		Width:           width,
		NoiseCount:      0,
		ShowLineOptions: base64Captcha.OptionShowHollowLine,
		BgColor:         &color.RGBA{R: 255, G: 255, B: 255, A: 255},
	}

	return &MathGenerator{driver: driver.ConvertFonts()}
}

// Generate returns the base64 encoded image and the expected answer
func (g *MathGenerator) Generate() (string, string, error) {
	_, question, answer := g.driver.GenerateIdQuestionAnswer()

	item, err := g.driver.DrawCaptcha(question)
	if err != nil {
		return "", "", fmt.Errorf("failed to draw captcha: %w", err)
	}

	return item.EncodeB64string(), answer, nil
}
