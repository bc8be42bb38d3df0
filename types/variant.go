package types

import (
	"errors"
	"fmt"
)

// ErrUnknownVariant reports a variant outside the closed control set. The UI
// only offers the four known toggles, so hitting this is a programming error.
var ErrUnknownVariant = errors.New("unknown variant")

// Variant selects which segmentation model the remote service runs.
type Variant string

const (
	VariantUNet    Variant = "unet"
	VariantDeepLab Variant = "deeplab"
	VariantBoth    Variant = "both"
	VariantAerial  Variant = "aerial"
)

// DefaultVariant is what a fresh session starts with, matching the UI default.
const DefaultVariant = VariantUNet

// Variants lists the closed variant set in display order.
var Variants = []Variant{VariantUNet, VariantDeepLab, VariantBoth, VariantAerial}

// ParseVariant validates membership in the closed variant set.
func ParseVariant(s string) (Variant, error) {
	switch v := Variant(s); v {
	case VariantUNet, VariantDeepLab, VariantBoth, VariantAerial:
		return v, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownVariant, s)
}

// Endpoint returns the path segment under /predict/ for this variant.
// The mapping is total over the closed set; every variant maps to its
// own identifier.
func (v Variant) Endpoint() string {
	return string(v)
}
