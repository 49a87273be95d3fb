package calendar

import (
	"bytes"
	"image/color"
	"sync"
	"time"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Константы размеров и отступов
const (
	imageWidth       = 720
	headerHeight     = 90
	rowHeight        = 34
	leftLabelsWidth  = 90
	rightPadding     = 24
	bottomPadding    = 24
	cellPaddingY     = 3
	cellBorderRadius = 6.0
)

// Константы шрифтов
const (
	titleFontSize = 26.0
	labelFontSize = 16.0
	cellFontSize  = 15.0
)

// Цветовая схема
var (
	bgColor        = color.RGBA{245, 246, 248, 255}
	textColor      = color.RGBA{66, 80, 154, 255} // фирменный #42509A
	hourLabelColor = color.RGBA{110, 115, 120, 220}
	rowLineColor   = color.NRGBA{200, 205, 212, 255}

	cellBookedColor    = color.RGBA{250, 118, 71, 220} // #FA7647
	cellAvailableColor = color.RGBA{187, 247, 208, 255}
	cellPastColor      = color.RGBA{226, 228, 232, 255}
	cellFreeColor      = color.RGBA{255, 255, 255, 255}

	cellBookedTextColor    = color.RGBA{255, 255, 255, 255}
	cellAvailableTextColor = color.RGBA{21, 128, 61, 255}
)

var (
	fontsOnce   sync.Once
	regularFont *opentype.Font
	boldFont    *opentype.Font
)

// loadFont выставляет шрифт нужного размера или basicfont как fallback
func loadFont(dc *gg.Context, size float64, bold bool) {
	fontsOnce.Do(func() {
		regularFont, _ = opentype.Parse(goregular.TTF)
		boldFont, _ = opentype.Parse(gobold.TTF)
	})

	parsed := regularFont
	if bold {
		parsed = boldFont
	}
	if parsed == nil {
		dc.SetFontFace(basicfont.Face7x13)
		return
	}

	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		dc.SetFontFace(basicfont.Face7x13)
		return
	}
	dc.SetFontFace(face)
}

// RenderDayImage рисует PNG сетки дня
func RenderDayImage(date time.Time, cells []Cell) ([]byte, error) {
	height := headerHeight + len(cells)*rowHeight + bottomPadding

	dc := gg.NewContext(imageWidth, height)
	dc.SetColor(bgColor)
	dc.Clear()

	drawTitle(dc, date)
	for i, cell := range cells {
		drawCell(dc, i, cell)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// drawTitle рисует заголовок с датой
func drawTitle(dc *gg.Context, date time.Time) {
	loadFont(dc, titleFontSize, true)
	dc.SetColor(textColor)
	dc.DrawStringAnchored(date.Format("Monday, 2 January 2006"), float64(imageWidth)/2, float64(headerHeight)/2, 0.5, 0.5)
}

// drawCell рисует одну строку сетки
func drawCell(dc *gg.Context, index int, cell Cell) {
	y := float64(headerHeight + index*rowHeight)
	x := float64(leftLabelsWidth)
	w := float64(imageWidth - leftLabelsWidth - rightPadding)

	loadFont(dc, labelFontSize, false)
	dc.SetColor(hourLabelColor)
	dc.DrawStringAnchored(cell.Start, x-12, y+rowHeight/2, 1, 0.5)

	dc.SetColor(rowLineColor)
	dc.SetLineWidth(0.5)
	dc.DrawLine(x, y, x+w, y)
	dc.Stroke()

	fill, label, labelColor := cellStyle(cell)
	dc.SetColor(fill)
	dc.DrawRoundedRectangle(x+4, y+cellPaddingY, w-8, rowHeight-2*cellPaddingY, cellBorderRadius)
	dc.Fill()

	if label == "" {
		return
	}

	maxLen := 48
	if len(label) > maxLen {
		label = label[:maxLen-3] + "..."
	}
	loadFont(dc, cellFontSize, cell.Status == CellBooked)
	dc.SetColor(labelColor)
	dc.DrawStringAnchored(label, x+w/2, y+rowHeight/2, 0.5, 0.5)
}

// cellStyle возвращает цвет фона, подпись и цвет подписи
func cellStyle(cell Cell) (color.Color, string, color.Color) {
	switch cell.Status {
	case CellBooked:
		title := "Lesson"
		if cell.Lesson != nil && cell.Lesson.Title != "" {
			title = cell.Lesson.Title
		}
		return cellBookedColor, title, cellBookedTextColor
	case CellAvailable:
		return cellAvailableColor, "Available", cellAvailableTextColor
	case CellPast:
		return cellPastColor, "", hourLabelColor
	default:
		return cellFreeColor, "", hourLabelColor
	}
}
