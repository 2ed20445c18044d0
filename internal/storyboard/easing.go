package storyboard

// Easing functions
//
// Storyboard commands carry an easing id that shapes the speed curve of the
// interpolation between the start and end value. All functions take a
// progress value t ∈ [0, 1] and return the eased progress ∈ [0, 1].
//
// Reference: https://easings.net/

// EasingType identifies the easing curve of a command.
// The script encodes it as an integer in the easing field.
type EasingType int

const (
	// EasingLinear is the identity curve (constant speed).
	EasingLinear EasingType = 0

	// EasingOut starts fast and decelerates: f(t) = 1 - (1-t)²
	EasingOut EasingType = 1

	// EasingIn starts slow and accelerates: f(t) = t²
	EasingIn EasingType = 2

	// EasingInOut accelerates, then decelerates:
	//
	//	t < 0.5:  f(t) = 2t²
	//	t >= 0.5: f(t) = 1 - (-2t+2)²/2
	EasingInOut EasingType = 3
)

// Ease applies the easing curve to a normalized progress value.
// Unknown easing ids fall back to linear, matching what the rest of the
// storyboard ecosystem does with scripts written against newer easing sets.
func (e EasingType) Ease(t float64) float64 {
	switch e {
	case EasingOut:
		return 1 - (1-t)*(1-t)
	case EasingIn:
		return t * t
	case EasingInOut:
		if t < 0.5 {
			return 2 * t * t
		}
		u := -2*t + 2
		return 1 - u*u/2
	default:
		return t
	}
}

// Lerp interpolates between a and b.
// t=0 returns a, t=1 returns b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
