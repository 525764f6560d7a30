package bind

import (
	"reflect"
	"strconv"

	"github.com/relit-dev/relit/internal/errors"
	"github.com/relit-dev/relit/pkg/dom"
)

// unitlessStyles are the style keys whose numeric values carry no length
// unit; every other numeric style value is auto-suffixed with "px".
var unitlessStyles = map[string]bool{
	"animation-iteration-count": true,
	"column-count":              true,
	"columns":                   true,
	"flex":                      true,
	"flex-grow":                 true,
	"flex-shrink":               true,
	"font-weight":               true,
	"line-height":               true,
	"opacity":                   true,
	"order":                     true,
	"orphans":                   true,
	"tab-size":                  true,
	"widows":                    true,
	"z-index":                   true,
	"zoom":                      true,
}

type styleRep uint8

const (
	styleNone styleRep = iota
	styleText
	styleMap
)

// styleAttribute handles style holes, which accept either a whole CSS
// string or a key mapping. Mappings are diffed per key against the
// previous mapping; strings are written wholesale when changed.
// Switching between the two representations always resets the style
// surface first.
func styleAttribute(node *dom.Node) func(any) {
	rep := styleNone
	var oldText string
	var oldMap map[string]string
	return func(v any) {
		st := node.Style()
		if v == nil {
			v = ""
		}
		switch val := v.(type) {
		case string:
			if rep == styleText && oldText == val {
				return
			}
			if rep == styleMap {
				st.Clear()
				oldMap = nil
			}
			st.SetCSSText(val)
			oldText = val
			rep = styleText
		default:
			next := styleMapping(val)
			if rep != styleMap {
				st.Clear()
				oldMap = nil
			}
			for k := range oldMap {
				if _, keep := next[k]; !keep {
					st.SetProperty(k, "")
				}
			}
			for k, nv := range next {
				if oldMap[k] != nv {
					st.SetProperty(k, nv)
				}
			}
			oldMap = next
			rep = styleMap
		}
	}
}

// styleMapping canonicalizes a style key-mapping value, applying the px
// auto-suffix to numeric values of dimensional keys.
func styleMapping(v any) map[string]string {
	out := make(map[string]string)
	switch m := v.(type) {
	case map[string]string:
		for k, val := range m {
			out[k] = val
		}
	case map[string]any:
		for k, val := range m {
			out[k] = styleValue(k, val)
		}
	default:
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String {
			for _, key := range rv.MapKeys() {
				k := key.String()
				out[k] = styleValue(k, rv.MapIndex(key).Interface())
			}
			return out
		}
		panic(errors.New(errors.CategoryBind, "style hole needs a string or string-keyed mapping, got %T", v))
	}
	return out
}

func styleValue(key string, v any) string {
	rv := reflect.ValueOf(v)
	switch {
	case rv.IsValid() && rv.CanInt():
		if unitlessStyles[key] {
			return strconv.FormatInt(rv.Int(), 10)
		}
		return strconv.FormatInt(rv.Int(), 10) + "px"
	case rv.IsValid() && rv.CanFloat():
		s := strconv.FormatFloat(rv.Float(), 'f', -1, 64)
		if unitlessStyles[key] {
			return s
		}
		return s + "px"
	default:
		return mustText(v)
	}
}
