package animate

import (
	"strings"

	"github.com/fogleman/ease"
	"github.com/pkg/errors"
)

// Easing maps linear progress in [0, 1] onto eased progress. Every named easing is
// monotone with Easing(0) == 0 and Easing(1) == 1.
type Easing func(t float64) float64

// Linear leaves progress untouched.
var Linear Easing = ease.Linear

var easings = map[string]Easing{
	"linear":     ease.Linear,
	"outquad":    ease.OutQuad,
	"inoutquad":  ease.InOutQuad,
	"outcubic":   ease.OutCubic,
	"inoutcubic": ease.InOutCubic,
	"outsine":    ease.OutSine,
}

// EasingByName looks up a named easing. Names are case-insensitive; an empty name
// is Linear.
func EasingByName(name string) (Easing, error) {
	if name == "" {
		return Linear, nil
	}

	e, ok := easings[strings.ToLower(name)]
	if !ok {
		return nil, errors.Errorf("unknown easing %q", name)
	}

	return e, nil
}
