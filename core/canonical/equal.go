package canonical

import "reflect"

// Equal reports deep structural equality of two canonical values.
// Arrays are equal iff same length and pairwise equal in order. Mappings
// are equal iff same key set and pairwise equal values. Tagged values are
// equal iff their tags match and all fields are equal. NaN compares
// unequal to itself, matching float comparison semantics.
func Equal(a, b any) bool {
	ka, kb := KindOf(a), KindOf(b)
	if ka != kb {
		return false
	}

	switch ka {
	case KindNull:
		return true
	case KindScalar:
		return a == b
	case KindTagged:
		ta, tb := a.(*Tagged), b.(*Tagged)
		if ta.Tag != tb.Tag || len(ta.Fields) != len(tb.Fields) {
			return false
		}
		for k, va := range ta.Fields {
			vb, ok := tb.Fields[k]
			if !ok || !Equal(va, vb) {
				return false
			}
		}
		return true
	case KindArray:
		aa, ab := a.([]any), b.([]any)
		if len(aa) != len(ab) {
			return false
		}
		for i := range aa {
			if !Equal(aa[i], ab[i]) {
				return false
			}
		}
		return true
	case KindMapping:
		ma, mb := a.(map[string]any), b.(map[string]any)
		if len(ma) != len(mb) {
			return false
		}
		for k, va := range ma {
			vb, ok := mb[k]
			if !ok || !Equal(va, vb) {
				return false
			}
		}
		return true
	default:
		return sameReference(a, b)
	}
}

// sameReference compares opaque non-canonical values by identity. Using
// == directly can panic on uncomparable types, so reference kinds are
// compared by pointer.
func sameReference(a, b any) bool {
	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if ra.Kind() != rb.Kind() {
		return false
	}
	switch ra.Kind() {
	case reflect.Func, reflect.Chan, reflect.Map, reflect.Slice, reflect.Pointer, reflect.UnsafePointer:
		return ra.Pointer() == rb.Pointer()
	}
	return reflect.DeepEqual(a, b)
}
