// Package segment converts color frames into binary foreground masks.
package segment

import (
	"image"

	"gocv.io/x/gocv"
)

// Mode selects the thresholding strategy.
type Mode int

const (
	// ModeFixed applies a fixed global threshold to the grayscale frame.
	ModeFixed Mode = iota
	// ModeAdaptive thresholds against a locally computed mean, which
	// tolerates uneven lighting.
	ModeAdaptive
	// ModeISODATA picks the split point dynamically by 2-means clustering
	// of sampled pixel intensities.
	ModeISODATA
	// ModeSatIntensity scores pixels by (1-S)*V in HSV space, treating
	// dark or strongly colored pixels as object regardless of hue.
	ModeSatIntensity
)

// String returns a short mode name for overlays and logs.
func (m Mode) String() string {
	switch m {
	case ModeAdaptive:
		return "adaptive"
	case ModeISODATA:
		return "isodata"
	case ModeSatIntensity:
		return "sat-intensity"
	default:
		return "fixed"
	}
}

// MaxBlurKernel is the largest accepted pre-blur kernel size.
const MaxBlurKernel = 21

// Options configures segmentation.
type Options struct {
	Mode       Mode
	Threshold  int // global threshold and sat+intensity cutoff [0..255]
	BlurKernel int // Gaussian pre-blur kernel size (forced odd, 1..21)
}

// DefaultOptions returns segmentation defaults tuned for a dark object
// on a bright, evenly lit surface.
func DefaultOptions() Options {
	return Options{
		Mode:       ModeFixed,
		Threshold:  127,
		BlurKernel: 21,
	}
}

// Apply produces a binary mask with 255 at foreground pixels. The object
// is assumed darker or more saturated than the background, so the
// grayscale modes threshold inverted. A mask is always produced for a
// well-formed frame, possibly an empty one.
func Apply(frame gocv.Mat, opts Options) gocv.Mat {
	if frame.Empty() {
		return gocv.NewMat()
	}

	// Pre-blur to suppress sensor noise
	blurred := gocv.NewMat()
	defer blurred.Close()
	k := oddKernel(opts.BlurKernel, MaxBlurKernel)
	gocv.GaussianBlur(frame, &blurred, image.Pt(k, k), 0, 0, gocv.BorderDefault)

	// Sat+intensity works on the blurred color frame directly
	if opts.Mode == ModeSatIntensity {
		return satIntensityMask(blurred, opts.Threshold)
	}

	gray := gocv.NewMat()
	defer gray.Close()
	toGrayscale(blurred, &gray)

	mask := gocv.NewMat()
	switch opts.Mode {
	case ModeISODATA:
		split := ISODATAThreshold(gray)
		gocv.Threshold(gray, &mask, float32(split), 255, gocv.ThresholdBinaryInv)
	case ModeAdaptive:
		gocv.AdaptiveThreshold(gray, &mask, 255,
			gocv.AdaptiveThresholdGaussian, gocv.ThresholdBinaryInv, 11, 2)
	default:
		t := clamp(opts.Threshold, 0, 255)
		gocv.Threshold(gray, &mask, float32(t), 255, gocv.ThresholdBinaryInv)
	}
	return mask
}

// toGrayscale writes a single-channel copy of src into dst.
func toGrayscale(src gocv.Mat, dst *gocv.Mat) {
	if src.Channels() == 1 {
		src.CopyTo(dst)
		return
	}
	gocv.CvtColor(src, dst, gocv.ColorBGRToGray)
}

// satIntensityMask marks pixels whose (1-S)*V score falls below the
// normalized threshold. Near-white bright pixels score high and become
// background; dark or saturated pixels score low and become foreground.
func satIntensityMask(frame gocv.Mat, threshold int) gocv.Mat {
	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(frame, &hsv, gocv.ColorBGRToHSV)

	rows, cols := hsv.Rows(), hsv.Cols()
	mask := gocv.Zeros(rows, cols, gocv.MatTypeCV8U)

	cutoff := float64(clamp(threshold, 0, 255)) / 255.0
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			vec := hsv.GetVecbAt(y, x)
			s := float64(vec[1]) / 255.0
			v := float64(vec[2]) / 255.0
			if (1.0-s)*v < cutoff {
				mask.SetUCharAt(y, x, 255)
			}
		}
	}
	return mask
}

// oddKernel clamps a kernel size to [1, max] and forces it odd.
func oddKernel(k, max int) int {
	if k < 1 {
		k = 1
	}
	if k%2 == 0 {
		k++
	}
	if k > max {
		k = max
	}
	return k
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
