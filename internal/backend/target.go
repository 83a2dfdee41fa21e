package backend

import (
	"os"
	"runtime"

	"github.com/llir/llvm/ir"
)

// defaultTriple approximates "obtains the default triple" (§4.6 "Target
// setup"): github.com/llir/llvm is a pure-Go IR builder/printer with no
// cgo binding to LLVM's TargetRegistry, so rather than fabricate one the
// backend derives a triple from the host Go runtime's GOARCH/GOOS, the
// same pair `clang`/`llc` would be invoked with downstream by the CLI's
// external linker step (§1 "out of scope: orchestrating clang").
func defaultTriple() string {
	arch := map[string]string{
		"amd64": "x86_64",
		"arm64": "aarch64",
		"386":   "i386",
		"arm":   "armv7",
	}[runtime.GOARCH]
	if arch == "" {
		arch = runtime.GOARCH
	}
	switch runtime.GOOS {
	case "linux":
		return arch + "-unknown-linux-gnu"
	case "darwin":
		return arch + "-apple-macosx"
	case "windows":
		return arch + "-pc-windows-msvc"
	default:
		return arch + "-unknown-" + runtime.GOOS
	}
}

// dataLayouts mirrors LLVM's canonical per-triple data layout strings
// for the handful of hosts this backend targets.
var dataLayouts = map[string]string{
	"linux":   "e-m:e-p270:32:32-p271:32:32-p272:64:64-i64:64-i128:128-f80:128-n8:16:32:64-S128",
	"darwin":  "e-m:o-p270:32:32-p271:32:32-p272:64:64-i64:64-i128:128-f80:128-n8:16:32:64-S128",
	"windows": "e-m:w-p270:32:32-p271:32:32-p272:64:64-i64:64-i128:128-f80:128-n8:16:32:64-S128",
}

func setTarget(m *ir.Module) {
	m.TargetTriple = defaultTriple()
	if dl, ok := dataLayouts[runtime.GOOS]; ok {
		m.DataLayout = dl
	}
}

// verify performs the structural checks available without a real LLVM
// verifier pass: every defined function's every block must end in a
// terminator, since that is the one invariant this backend could
// silently violate (§4.6 "If statement lowering ... a terminator is
// emitted only if the block has no existing terminator").
func verify(m *ir.Module) error {
	for _, f := range m.Funcs {
		if len(f.Blocks) == 0 {
			continue // external declaration
		}
		for _, b := range f.Blocks {
			if b.Term == nil {
				return errVerification("function " + f.Name() + " block " + b.Name() + " has no terminator")
			}
		}
	}
	return nil
}

func writeFile(path, text string) error {
	return os.WriteFile(path, []byte(text), 0o644)
}
