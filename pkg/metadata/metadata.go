// Package metadata reads the camera settings stored in a photo's EXIF block
// and formats them for display.
package metadata

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

// Unknown is shown for any field the EXIF block does not carry.
const Unknown = "Unknown"

// Display keys, in the order Lines renders them.
const (
	KeyAperture     = "Aperture"
	KeyISO          = "ISO"
	KeyShutterSpeed = "Shutter Speed"
	KeyCamera       = "Camera"
	KeyLens         = "Lens"
)

// ErrNoMetadata is returned when the image has no readable EXIF block.
var ErrNoMetadata = errors.New("no EXIF data found in the image")

// Keys lists the record fields in display order.
var Keys = []string{KeyAperture, KeyISO, KeyShutterSpeed, KeyCamera, KeyLens}

// fields maps EXIF tag names onto display keys; every other tag is ignored.
var fields = map[exif.FieldName]string{
	exif.FNumber:         KeyAperture,
	exif.ISOSpeedRatings: KeyISO,
	exif.ExposureTime:    KeyShutterSpeed,
	exif.Model:           KeyCamera,
	exif.LensModel:       KeyLens,
}

// Rational is an unreduced EXIF fraction.
type Rational struct {
	Num, Den int64
}

// Float returns the fraction's value, or zero when the denominator is zero.
func (r Rational) Float() float64 {
	if r.Den == 0 {
		return 0
	}
	return float64(r.Num) / float64(r.Den)
}

// Record holds display strings for the camera settings of one photo.
type Record struct {
	values map[string]string
}

// NewRecord builds a record from raw tag values keyed by display key. Missing
// keys become Unknown.
func NewRecord(raw map[string]any) *Record {
	rec := &Record{values: map[string]string{}}
	for _, key := range Keys {
		rec.values[key] = Unknown
	}

	if v, ok := raw[KeyAperture]; ok {
		rec.values[KeyAperture] = FormatAperture(v)
	}
	if v, ok := raw[KeyShutterSpeed]; ok {
		rec.values[KeyShutterSpeed] = FormatShutter(v)
	}
	for _, key := range []string{KeyISO, KeyCamera, KeyLens} {
		if v, ok := raw[key]; ok {
			rec.values[key] = passThrough(v)
		}
	}

	return rec
}

// Get returns the display value for key, or Unknown.
func (r *Record) Get(key string) string {
	if v, ok := r.values[key]; ok {
		return v
	}
	return Unknown
}

// Lines renders every field as "<Key>: <Value>".
func (r *Record) Lines() []string {
	lines := make([]string, 0, len(Keys))
	for _, key := range Keys {
		lines = append(lines, fmt.Sprintf("%s: %s", key, r.Get(key)))
	}
	return lines
}

// ReadFile opens pathname and reads its EXIF block. A missing block yields
// ErrNoMetadata; failing to open the file is reported as is.
func ReadFile(pathname string) (*Record, error) {
	f, err := os.Open(pathname)
	if err != nil {
		return nil, fmt.Errorf("unable to open %s: %w", pathname, err)
	}
	defer f.Close()

	return Read(f)
}

// Read parses an EXIF block from r.
func Read(r io.Reader) (*Record, error) {
	x, err := exif.Decode(r)
	if x == nil || (err != nil && exif.IsCriticalError(err)) {
		if err == nil {
			return nil, ErrNoMetadata
		}
		return nil, fmt.Errorf("%w: %v", ErrNoMetadata, err)
	}

	w := walker{raw: map[string]any{}}
	err = x.Walk(&w)
	if err != nil {
		return nil, fmt.Errorf("unable to walk EXIF tags: %w", err)
	}

	return NewRecord(w.raw), nil
}

// FormatAperture renders an f-number as "f/<value>".
func FormatAperture(v any) string {
	switch val := v.(type) {
	case nil:
		return Unknown
	case string:
		if val == "" || val == Unknown {
			return Unknown
		}
		return "f/" + val
	case Rational:
		if val.Den == 0 {
			return Unknown
		}
		return "f/" + strconv.FormatFloat(val.Float(), 'f', -1, 64)
	case float64:
		return "f/" + strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprintf("f/%v", val)
	}
}

// FormatShutter renders an exposure time. Fractions keep their stored terms,
// floating point seconds are approximated by the nearest simple fraction and
// anything else is shown as is.
func FormatShutter(v any) string {
	switch val := v.(type) {
	case nil:
		return Unknown
	case Rational:
		return fmt.Sprintf("%d/%d sec", val.Num, val.Den)
	case float64:
		num, den := ApproximateFraction(val, DefaultMaxDenominator)
		return fmt.Sprintf("%d/%d sec", num, den)
	default:
		return passThrough(val)
	}
}

//--------------------------------------------------------------------------------
// private

func passThrough(v any) string {
	switch val := v.(type) {
	case nil:
		return Unknown
	case string:
		if val == "" {
			return Unknown
		}
		return val
	case Rational:
		return fmt.Sprintf("%d/%d", val.Num, val.Den)
	default:
		return fmt.Sprint(val)
	}
}

type walker struct {
	raw map[string]any
}

func (w *walker) Walk(name exif.FieldName, tag *tiff.Tag) error {
	key, ok := fields[name]
	if !ok {
		return nil
	}

	v, err := tagValue(tag)
	if err != nil {
		// a malformed tag only costs us that field
		return nil
	}

	w.raw[key] = v
	return nil
}

func tagValue(tag *tiff.Tag) (any, error) {
	if tag == nil || tag.Count == 0 {
		return nil, errors.New("empty tag")
	}

	switch tag.Format() {
	case tiff.RatVal:
		num, den, err := tag.Rat2(0)
		if err != nil {
			return nil, err
		}
		return Rational{Num: num, Den: den}, nil
	case tiff.IntVal:
		return tag.Int64(0)
	case tiff.FloatVal:
		return tag.Float(0)
	case tiff.StringVal:
		s, err := tag.StringVal()
		if err != nil {
			return nil, err
		}
		return strings.TrimSpace(strings.TrimRight(s, "\x00")), nil
	default:
		return tag.String(), nil
	}
}
