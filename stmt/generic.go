package stmt

import "github.com/vellum-lang/vellum/types"

// argTypesEqual mirrors package types' private typeArgsEqual: FuncDef's
// realization cache (Insts) is keyed on a binding-tuple exactly the way
// types.Type.Insts is (spec §4.1's "caching by binding tuple so
// repeated realizations share identity"), but the comparison can't be
// shared across the package boundary since it is unexported there.
func argTypesEqual(as, bs []*types.Type) bool {
	if len(as) != len(bs) {
		return false
	}
	for i := range as {
		if !as[i].Is(bs[i]) {
			return false
		}
	}
	return true
}
