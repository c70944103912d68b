package model

import (
	"errors"
	"strings"
)

// LocationPath is the semantic location hierarchy an asset belongs to.
// Each segment is optional, but a lower segment requires the ones above
// it: a city without a province or a place without a city is invalid.
type LocationPath struct {
	Province string
	City     string
	Place    string
}

var (
	ErrCityWithoutProvince = errors.New("city requires a province")
	ErrPlaceWithoutCity    = errors.New("place requires a city")
)

func (l LocationPath) Validate() error {
	if l.City != "" && l.Province == "" {
		return ErrCityWithoutProvince
	}
	if l.Place != "" && l.City == "" {
		return ErrPlaceWithoutCity
	}
	return nil
}

// Segments returns the non-empty segments in hierarchy order.
func (l LocationPath) Segments() []string {
	segs := make([]string, 0, 3)
	for _, s := range []string{l.Province, l.City, l.Place} {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}

func (l LocationPath) IsEmpty() bool {
	return l.Province == "" && l.City == "" && l.Place == ""
}

// StorageKey derives the canonical object-store key for an asset stem
// under this location. Non-empty segments are joined with "/", the stem
// follows, and the authoritative extension is appended last. Any
// extension already present on the stem is stripped first: the uploaded
// file decides the extension, not the caller-supplied name.
//
// StorageKey is pure: same inputs, same key, no I/O.
func (l LocationPath) StorageKey(stem string, ext Extension) string {
	stem = stripExtension(stem)
	parts := append(l.Segments(), stem)
	key := strings.Join(parts, "/")
	if ext == "" {
		return key
	}
	return key + "." + ext.String()
}

// stripExtension removes a trailing allow-listed extension from the
// stem. Dots that do not introduce a known extension are kept, so a
// stem like "sunset.v2" survives intact.
func stripExtension(stem string) string {
	idx := strings.LastIndex(stem, ".")
	if idx < 0 {
		return stem
	}
	if NormalizeExtension(stem[idx+1:]).IsAllowed() {
		return stem[:idx]
	}
	return stem
}
