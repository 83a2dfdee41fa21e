package analyzer

import "github.com/airylang/airyc/internal/types"

// Builtin describes one SysY runtime function's signature (§4.5.8,
// §9 "starttime/stoptime/getch/putch/putarray/getarray"). The full list
// restores the original's `utils` crate constant table that the
// distilled spec's "etc." shorthand in §4.6 left out.
type Builtin struct {
	Name   string
	Params []types.Type
	Ret    types.Type
}

// Builtins is the hard-coded list of SysY runtime entry points a call
// may name without a local or imported FunctionID resolving it (§4.5.8:
// "either a built-in ... or a FunctionID"). internal/backend declares
// exactly these as external functions before compiling user code.
var Builtins = []Builtin{
	{Name: "getint", Ret: types.I32},
	{Name: "getch", Ret: types.I32},
	{Name: "getarray", Params: []types.Type{types.Pointer(types.I32, false)}, Ret: types.I32},
	{Name: "putint", Params: []types.Type{types.I32}, Ret: types.Void},
	{Name: "putch", Params: []types.Type{types.I32}, Ret: types.Void},
	{Name: "putarray", Params: []types.Type{types.I32, types.Pointer(types.I32, false)}, Ret: types.Void},
	{Name: "starttime", Ret: types.Void},
	{Name: "stoptime", Ret: types.Void},
}

// LookupBuiltin finds name among the hard-coded SysY runtime functions.
func LookupBuiltin(name string) (Builtin, bool) {
	for _, b := range Builtins {
		if b.Name == name {
			return b, true
		}
	}
	return Builtin{}, false
}
