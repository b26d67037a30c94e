package usecases

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/paulmach/orb/geojson"
)

var placeholderRe = regexp.MustCompile(`\{([^{}]+)\}`)

// RenderPopup substitutes {propertyName} placeholders in template with
// the feature's property values. Placeholders without a matching
// property are left verbatim, not blanked.
func RenderPopup(template string, props geojson.Properties) string {
	return placeholderRe.ReplaceAllStringFunc(template, func(match string) string {
		key := match[1 : len(match)-1]
		v, ok := props[key]
		if !ok {
			return match
		}
		return formatPropValue(v)
	})
}

// PropertiesPopup lists all feature properties as "key: value" lines,
// sorted by key for stable output.
func PropertiesPopup(props geojson.Properties) string {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(formatPropValue(props[k]))
	}
	return b.String()
}

func formatPropValue(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		// JSON numbers decode as float64; print integers without a
		// trailing .000000
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	default:
		return fmt.Sprintf("%v", v)
	}
}
