package app

import (
	"strconv"
	"strings"

	"smarttravel/internal/domain"
)

/********** alias registries (single source of truth) **********/

var placeAliases = map[string][]string{
	"id":      {"place_id", "id"},
	"name":    {"name", "displayName.text"},
	"address": {"formatted_address", "formattedAddress", "vicinity", "address"},
	"lat":     {"geometry.location.lat", "location.latitude", "lat"},
	"lon":     {"geometry.location.lng", "location.longitude", "lng", "lon"},
	"rating":  {"rating"},
	"count":   {"user_ratings_total", "userRatingCount"},
	"price":   {"price_level", "priceLevel"},
	"types":   {"types"},
}

// new-style places API spells price levels out
var priceLevelNames = map[string]int{
	"PRICE_LEVEL_FREE":           0,
	"PRICE_LEVEL_INEXPENSIVE":    1,
	"PRICE_LEVEL_MODERATE":       2,
	"PRICE_LEVEL_EXPENSIVE":      3,
	"PRICE_LEVEL_VERY_EXPENSIVE": 4,
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

func lookupStr(m map[string]any, path string) string {
	if v := lookupAny(m, path); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func firstNonEmpty(m map[string]any, key string) string {
	for _, p := range placeAliases[key] {
		if s := lookupStr(m, p); s != "" {
			return s
		}
	}
	return ""
}

// getFloatFlexible: number from several paths (float64/int/string like "4,5").
func getFloatFlexible(m map[string]any, paths ...string) *float64 {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			f := v
			return &f
		case int:
			f := float64(v)
			return &f
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return &f
			}
		}
	}
	return nil
}

func firstInt64Flexible(m map[string]any, paths ...string) *int64 {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			x := int64(v)
			return &x
		case int:
			x := int64(v)
			return &x
		case int64:
			x := v
			return &x
		case string:
			s := strings.TrimSpace(v)
			if s == "" {
				continue
			}
			if n, err := strconv.ParseInt(s, 10, 64); err == nil {
				return &n
			}
		}
	}
	return nil
}

func priceLevel(m map[string]any) *int {
	for _, k := range placeAliases["price"] {
		if s := lookupStr(m, k); s != "" {
			if lvl, ok := priceLevelNames[s]; ok {
				return &lvl
			}
		}
	}
	if n := firstInt64Flexible(m, placeAliases["price"]...); n != nil {
		x := int(*n)
		return &x
	}
	return nil
}

func stringSlice(m map[string]any, paths ...string) []string {
	for _, k := range paths {
		raw, ok := lookupAny(m, k).([]any)
		if !ok {
			continue
		}
		out := make([]string, 0, len(raw))
		for _, it := range raw {
			if s, ok := it.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return []string{}
}

// photoRefs collects photo references from a results or details payload.
func photoRefs(m map[string]any) []string {
	raw, ok := lookupAny(m, "photos").([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, it := range raw {
		ph, ok := it.(map[string]any)
		if !ok {
			continue
		}
		if ref, _ := ph["photo_reference"].(string); ref != "" {
			out = append(out, ref)
		} else if name, _ := ph["name"].(string); name != "" {
			out = append(out, name)
		}
	}
	return out
}

/********** place mapper **********/

// mapPlace normalizes one raw search result. Photo references carry only what the
// search result itself provides; enrichment happens in the fetcher.
func mapPlace(r map[string]any) domain.Place {
	p := domain.Place{
		ID:               firstNonEmpty(r, "id"),
		Name:             firstNonEmpty(r, "name"),
		Address:          firstNonEmpty(r, "address"),
		Lat:              getFloatFlexible(r, placeAliases["lat"]...),
		Lon:              getFloatFlexible(r, placeAliases["lon"]...),
		Rating:           getFloatFlexible(r, placeAliases["rating"]...),
		UserRatingsTotal: firstInt64Flexible(r, placeAliases["count"]...),
		PriceLevel:       priceLevel(r),
		Types:            stringSlice(r, placeAliases["types"]...),
		PhotoRefs:        []string{},
	}
	if refs := photoRefs(r); len(refs) > 0 {
		p.PhotoRefs = append(p.PhotoRefs, refs[0])
	}
	return p
}

// mergePhotoRefs appends extra refs to base, skipping duplicates, up to limit entries.
func mergePhotoRefs(base, extra []string, limit int) []string {
	seen := make(map[string]struct{}, len(base)+len(extra))
	out := make([]string, 0, limit)
	for _, list := range [][]string{base, extra} {
		for _, ref := range list {
			if len(out) >= limit {
				return out
			}
			if _, dup := seen[ref]; dup {
				continue
			}
			seen[ref] = struct{}{}
			out = append(out, ref)
		}
	}
	return out
}

func placeRef(p domain.Place, withCount bool) domain.PlaceRef {
	ref := domain.PlaceRef{Name: p.Name, Address: p.Address, Rating: p.Rating, PlaceID: p.ID}
	if withCount {
		ref.UserRatingsTotal = p.UserRatingsTotal
	}
	return ref
}
