//go:build sixdofdebug

package joint

// assert panics so protocol misuse surfaces at the call site in debug builds.
func assert(cond bool, msg string) {
	if !cond {
		panic("joint: assertion failed: " + msg)
	}
}
