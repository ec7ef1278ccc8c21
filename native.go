// native.go — the standard native functions installed by NewRuntime.

package jasn

import (
	"bufio"
	"os"
	"strings"
	"time"
)

// registerStandardNatives installs the host-provided builtins into the
// interpreter's global frame. Called by NewRuntime before any user code.
func registerStandardNatives(ip *Interpreter) {
	// clock() returns seconds since the Unix epoch.
	ip.RegisterNative("clock", 0, func(_ *Interpreter, _ []Value) (Value, error) {
		return Num(float64(time.Now().UnixNano()) / float64(time.Second)), nil
	})

	// input() reads one line from standard input, without the newline.
	ip.RegisterNative("input", 0, func(_ *Interpreter, _ []Value) (Value, error) {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return Str(""), nil
		}
		return Str(strings.TrimRight(line, "\r\n")), nil
	})

	// len(x) returns the length of a string or array, the arity of a
	// callable, and null for anything else.
	ip.RegisterNative("len", 1, func(_ *Interpreter, args []Value) (Value, error) {
		switch args[0].Tag {
		case VTStr:
			return Num(float64(len(args[0].Data.(string)))), nil
		case VTArray:
			return Num(float64(len(args[0].Data.(*ArrayObject).Elems))), nil
		case VTCallable:
			return Num(float64(args[0].Data.(Callable).Arity())), nil
		default:
			return Null, nil
		}
	})

	// sleep(secs) blocks the whole interpreter; there is no concurrency to
	// yield to.
	ip.RegisterNative("sleep", 1, func(_ *Interpreter, args []Value) (Value, error) {
		if args[0].Tag != VTNum {
			return Null, &RuntimeError{Line: 0, Msg: "sleep only accepts a number as an argument"}
		}
		time.Sleep(time.Duration(args[0].Data.(float64) * float64(time.Second)))
		return Null, nil
	})
}
