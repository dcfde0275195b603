package storm

import (
	"errors"

	"github.com/rossv/designstorms-sub000/internal/betainc"
	"github.com/rossv/designstorms-sub000/internal/catalog"
)

// Failure taxonomy. Generate records these as fallbacks; GenerateStrict
// returns them.
var (
	// ErrInvalidParameter indicates a non-finite or out-of-range depth,
	// duration or unlocked timestep.
	ErrInvalidParameter = errors.New("storm: invalid parameter")

	// ErrDistributionNotFound indicates an unknown distribution name.
	ErrDistributionNotFound = catalog.ErrDistributionNotFound

	// ErrDegeneratePDF indicates a distribution that evaluated to no usable curve.
	ErrDegeneratePDF = betainc.ErrDegeneratePDF

	// ErrInsufficientCurve indicates a custom curve with fewer than two valid points.
	ErrInsufficientCurve = catalog.ErrInsufficientCurve

	// ErrSmoothingUnsupported indicates smoothing requested on an unlocked axis.
	ErrSmoothingUnsupported = errors.New("storm: smoothing requires a table-locked time axis")
)

// Fallback names reported in Result.Fallbacks.
const (
	FallbackInvalidParameter     = "invalid_parameter"
	FallbackDistributionNotFound = "distribution_not_found"
	FallbackDegeneratePDF        = "degenerate_pdf"
	FallbackInsufficientCurve    = "insufficient_custom_curve"
	FallbackSmoothingUnsupported = "smoothing_unsupported"
)

func fallbackName(err error) string {
	switch {
	case errors.Is(err, ErrInvalidParameter):
		return FallbackInvalidParameter
	case errors.Is(err, ErrDistributionNotFound):
		return FallbackDistributionNotFound
	case errors.Is(err, ErrDegeneratePDF):
		return FallbackDegeneratePDF
	case errors.Is(err, ErrInsufficientCurve):
		return FallbackInsufficientCurve
	case errors.Is(err, ErrSmoothingUnsupported):
		return FallbackSmoothingUnsupported
	default:
		return "unknown"
	}
}
