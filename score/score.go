// Package score renders animations as sparkline staves, one stave per
// bone track, for eyeballing keyframe data without a 3D view.
package score

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/gekko3d/rigkit"
)

type Options struct {
	Width       int // total image width in pixels
	StaveHeight int // pixels per track stave
	LabelWidth  int // left gutter for bone names
	Margin      int // outer margin
}

func DefaultOptions() Options {
	return Options{
		Width:       800,
		StaveHeight: 64,
		LabelWidth:  120,
		Margin:      8,
	}
}

const headerHeight = 20

var (
	background = color.RGBA{255, 255, 255, 255}
	frameColor = color.RGBA{192, 192, 192, 255}
	labelColor = color.RGBA{0, 0, 0, 255}
	tickColor  = color.RGBA{160, 160, 160, 255}

	translationColors = [3]color.RGBA{
		{204, 0, 0, 255}, {0, 153, 0, 255}, {0, 0, 204, 255}}
	rotationColors = [4]color.RGBA{
		{128, 128, 128, 255}, {255, 102, 102, 255}, {102, 204, 102, 255}, {102, 102, 255, 255}}
	scaleColors = [3]color.RGBA{
		{102, 51, 0, 255}, {0, 102, 102, 255}, {102, 0, 102, 255}}
)

// Render draws one stave per track in the animation's track order:
// bone name on the left, then every channel component as a polyline
// over time, each normalized to its own range. Keyframe times show as
// ticks along the stave's lower edge. The skeleton supplies bone
// names and may be nil.
func Render(animation *rigkit.Animation, skeleton *rigkit.Skeleton, opts Options) *image.RGBA {
	if animation == nil {
		panic("nil animation")
	}
	if opts.Width <= 0 || opts.StaveHeight <= 0 {
		opts = DefaultOptions()
	}

	tracks := animation.Tracks()
	height := 2*opts.Margin + headerHeight + len(tracks)*opts.StaveHeight
	img := image.NewRGBA(image.Rect(0, 0, opts.Width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	title := fmt.Sprintf("%s (%.2fs, %d tracks)",
		animation.Name, animation.Duration, len(tracks))
	drawLabel(img, opts.Margin, opts.Margin+basicfont.Face7x13.Ascent, title)

	for i, track := range tracks {
		top := opts.Margin + headerHeight + i*opts.StaveHeight
		stave := image.Rect(opts.Margin, top, opts.Width-opts.Margin, top+opts.StaveHeight)
		renderStave(img, stave, track, animation.Duration, boneLabel(skeleton, track.BoneIndex), opts)
	}

	return img
}

func boneLabel(skeleton *rigkit.Skeleton, boneIndex int) string {
	if skeleton != nil && boneIndex < skeleton.BoneCount() {
		return skeleton.Bone(boneIndex).Name
	}
	return fmt.Sprintf("bone %d", boneIndex)
}

func renderStave(img *image.RGBA, stave image.Rectangle, track *rigkit.Track,
	duration float32, label string, opts Options) {

	drawLabel(img, stave.Min.X, stave.Min.Y+stave.Dy()/2, label)

	plot := image.Rect(stave.Min.X+opts.LabelWidth, stave.Min.Y+2, stave.Max.X, stave.Max.Y-2)
	drawLine(img, plot.Min.X, plot.Max.Y-1, plot.Max.X-1, plot.Max.Y-1, frameColor)

	for _, time := range track.Times {
		x := timeToX(plot, time, duration)
		drawLine(img, x, plot.Max.Y-4, x, plot.Max.Y-1, tickColor)
	}

	for c := 0; c < 3; c++ {
		plotSeries(img, plot, track.Times, func(i int) float32 {
			return track.Translations[i][c]
		}, duration, translationColors[c])
	}
	plotSeries(img, plot, track.Times, func(i int) float32 {
		return track.Rotations[i].W
	}, duration, rotationColors[0])
	for c := 0; c < 3; c++ {
		plotSeries(img, plot, track.Times, func(i int) float32 {
			return track.Rotations[i].V[c]
		}, duration, rotationColors[c+1])
	}
	if track.Scales != nil {
		for c := 0; c < 3; c++ {
			plotSeries(img, plot, track.Times, func(i int) float32 {
				return track.Scales[i][c]
			}, duration, scaleColors[c])
		}
	}
}

// plotSeries draws one component's polyline, normalized to the
// component's own min..max; a constant series draws at mid-height.
func plotSeries(img *image.RGBA, plot image.Rectangle, times []float32,
	value func(i int) float32, duration float32, col color.RGBA) {

	lo, hi := value(0), value(0)
	for i := range times {
		v := value(i)
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	span := hi - lo

	var prevX, prevY int
	for i := range times {
		x := timeToX(plot, times[i], duration)
		normalized := float32(0.5)
		if span > 0 {
			normalized = (value(i) - lo) / span
		}
		y := plot.Max.Y - 1 - int(normalized*float32(plot.Dy()-1)+0.5)
		if i > 0 {
			drawLine(img, prevX, prevY, x, y, col)
		} else if len(times) == 1 {
			img.SetRGBA(x, y, col)
		}
		prevX, prevY = x, y
	}
}

func timeToX(plot image.Rectangle, time, duration float32) int {
	if duration <= 0 {
		return plot.Min.X
	}
	return plot.Min.X + int(time/duration*float32(plot.Dx()-1)+0.5)
}

func drawLabel(img *image.RGBA, x, y int, text string) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(labelColor),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

// drawLine rasterizes a line segment; out-of-bounds pixels are
// silently clipped by SetRGBA.
func drawLine(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	dx := absInt(x1 - x0)
	dy := -absInt(y1 - y0)
	sx := 1
	if x0 >= x1 {
		sx = -1
	}
	sy := 1
	if y0 >= y1 {
		sy = -1
	}
	err := dx + dy
	for {
		img.SetRGBA(x0, y0, col)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
