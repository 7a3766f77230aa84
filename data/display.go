package data

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

const displayIndent = 4

// Display renders v as an indented tree. Every map key is printed on its
// own line with its value indented one level below it; slices print one
// element per line. Map keys are sorted by their printed form. Containers
// are rendered as by Format.
//
//	a
//	    1
//	    3
//	b
//	    2
func Display(v any) string {
	var b strings.Builder
	if c, ok := v.(Container); ok {
		writeContainer(&b, c, 0)
	} else {
		writeValue(&b, v, 0)
	}
	return b.String()
}

// Format renders a container with Display, keeping partition key order.
func Format(c Container) string {
	var b strings.Builder
	writeContainer(&b, c, 0)
	return b.String()
}

func writeContainer(b *strings.Builder, c Container, indent int) {
	switch t := c.(type) {
	case *Data:
		for _, item := range t.items {
			writeLine(b, item, indent)
		}
	case *Result:
		writeValue(b, t.value, indent)
	case *IndexedData:
		writeChildren(b, t.keys, t.parts, indent)
	case *IndexedResult:
		writeChildren(b, t.keys, t.results, indent)
	case nil:
	default:
		writeLine(b, c, indent)
	}
}

func writeChildren(b *strings.Builder, keys []any, children map[any]Container, indent int) {
	for _, key := range keys {
		writeLine(b, key, indent)
		writeContainer(b, children[key], indent+displayIndent)
	}
}

func writeValue(b *strings.Builder, v any, indent int) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		keys := rv.MapKeys()
		sort.SliceStable(keys, func(i, j int) bool {
			return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface())
		})
		for _, key := range keys {
			writeLine(b, key.Interface(), indent)
			writeValue(b, rv.MapIndex(key).Interface(), indent+displayIndent)
		}
	case reflect.Slice, reflect.Array:
		if _, isBytes := v.([]byte); isBytes {
			writeLine(b, v, indent)
			return
		}
		for i := 0; i < rv.Len(); i++ {
			writeLine(b, rv.Index(i).Interface(), indent)
		}
	default:
		writeLine(b, v, indent)
	}
}

func writeLine(b *strings.Builder, v any, indent int) {
	b.WriteString(strings.Repeat(" ", indent))
	fmt.Fprint(b, v)
	b.WriteByte('\n')
}
