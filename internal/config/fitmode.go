package config

import "fmt"

// FitMode is the aspect-reconciliation policy between a media item's native
// dimensions and the output geometry (spec.md §3).
type FitMode int

const (
	FitStretch FitMode = iota
	FitContain
	FitCover
)

// ParseFitMode accepts the lowercase CLI/TOML spellings, with Fit/Contain
// and Fill/Cover as synonyms.
func ParseFitMode(s string) (FitMode, error) {
	switch s {
	case "stretch":
		return FitStretch, nil
	case "fit", "contain":
		return FitContain, nil
	case "fill", "cover":
		return FitCover, nil
	default:
		return 0, fmt.Errorf("unknown fit mode %q (want stretch|fill|cover|fit|contain)", s)
	}
}

func (f FitMode) String() string {
	switch f {
	case FitStretch:
		return "stretch"
	case FitContain:
		return "contain"
	case FitCover:
		return "cover"
	default:
		return "cover"
	}
}

// UnmarshalText lets go-toml/v2 decode the fit_mode key directly into a FitMode.
func (f *FitMode) UnmarshalText(text []byte) error {
	mode, err := ParseFitMode(string(text))
	if err != nil {
		return err
	}
	*f = mode
	return nil
}

func (f FitMode) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}
