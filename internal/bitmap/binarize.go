package bitmap

import (
	"image"
)

// BinarizeMethod selects how the global luminance threshold is chosen.
type BinarizeMethod int

const (
	// MethodOtsu picks the threshold maximizing between-class variance.
	MethodOtsu BinarizeMethod = iota
	// MethodMean uses the mean luminance as the threshold.
	MethodMean
	// MethodFixed uses the configured FixedThreshold.
	MethodFixed
)

// BinarizeConfig controls image-to-bitmap conversion.
type BinarizeConfig struct {
	Method         BinarizeMethod
	FixedThreshold uint8 // Used only with MethodFixed
}

// DefaultBinarizeConfig returns the default binarization configuration.
func DefaultBinarizeConfig() BinarizeConfig {
	return BinarizeConfig{Method: MethodOtsu, FixedThreshold: 128}
}

// FromImage converts an image into a BitMatrix by thresholding luminance.
// Pixels darker than the threshold become set (black).
func FromImage(img image.Image, cfg BinarizeConfig) (*BitMatrix, error) {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	m, err := New(width, height)
	if err != nil {
		return nil, err
	}

	lum := make([]uint8, width*height)
	var histogram [256]int
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			// ITU-R BT.601 luma, 16-bit channels scaled down to 8 bits.
			v := uint8((299*r + 587*g + 114*b) / 1000 >> 8)
			lum[y*width+x] = v
			histogram[v]++
		}
	}

	threshold := cfg.FixedThreshold
	switch cfg.Method {
	case MethodOtsu:
		threshold = otsuThreshold(histogram, width*height)
	case MethodMean:
		threshold = meanThreshold(histogram, width*height)
	case MethodFixed:
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if lum[y*width+x] < threshold {
				m.Set(x, y)
			}
		}
	}
	return m, nil
}

// otsuThreshold finds the split that maximizes between-class variance.
func otsuThreshold(histogram [256]int, total int) uint8 {
	var sum float64
	for i, c := range histogram {
		sum += float64(i) * float64(c)
	}

	var sumB, wB float64
	var best float64
	threshold := 128
	for t := 0; t < 256; t++ {
		wB += float64(histogram[t])
		if wB == 0 {
			continue
		}
		wF := float64(total) - wB
		if wF == 0 {
			break
		}
		sumB += float64(t) * float64(histogram[t])
		mB := sumB / wB
		mF := (sum - sumB) / wF
		between := wB * wF * (mB - mF) * (mB - mF)
		if between > best {
			best = between
			threshold = t
		}
	}
	return uint8(threshold)
}

func meanThreshold(histogram [256]int, total int) uint8 {
	if total == 0 {
		return 128
	}
	var sum int
	for i, c := range histogram {
		sum += i * c
	}
	return uint8(sum / total)
}
