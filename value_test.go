package jasn

import "testing"

func Test_Value_Truthy(t *testing.T) {
	cases := []struct {
		v    Value
		want bool
	}{
		{Null, false},
		{Bool(false), false},
		{Bool(true), true},
		{Num(0), true}, // zero is truthy
		{Num(1), true},
		{Str(""), true},
		{Arr(nil), true},
	}
	for _, c := range cases {
		if got := Truthy(c.v); got != c.want {
			t.Fatalf("Truthy(%v): want %v, got %v", c.v, c.want, got)
		}
	}
}

func Test_Value_Equal_Primitives(t *testing.T) {
	if !Equal(Num(1), Num(1)) || Equal(Num(1), Num(2)) {
		t.Fatal("number equality is by value")
	}
	if !Equal(Str("a"), Str("a")) || Equal(Str("a"), Str("b")) {
		t.Fatal("string equality is by value")
	}
	if !Equal(Null, Null) {
		t.Fatal("null equals null")
	}
	if Equal(Num(1), Str("1")) || Equal(Bool(false), Null) {
		t.Fatal("values of different kinds are never equal")
	}
}

func Test_Value_Equal_Arrays_Elementwise(t *testing.T) {
	a := Arr([]Value{Num(1), Str("x")})
	b := Arr([]Value{Num(1), Str("x")})
	if !Equal(a, b) {
		t.Fatal("arrays with equal elements are equal")
	}
	if Equal(a, Arr([]Value{Num(1)})) {
		t.Fatal("arrays of different length are not equal")
	}
	nested := Arr([]Value{Arr([]Value{Num(2)})})
	if !Equal(nested, Arr([]Value{Arr([]Value{Num(2)})})) {
		t.Fatal("array equality recurses")
	}
}

func Test_Value_Arrays_Share_Backing(t *testing.T) {
	a := Arr([]Value{Num(1)})
	b := a // value copy, same backing
	b.Data.(*ArrayObject).Elems[0] = Num(9)
	if a.Data.(*ArrayObject).Elems[0].Data.(float64) != 9 {
		t.Fatal("copies of an array value must share element storage")
	}
}

func Test_Value_Format(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{Null, "null"},
		{Bool(true), "true"},
		{Bool(false), "false"},
		{Num(1), "1"},
		{Num(1.5), "1.5"},
		{Num(-0.25), "-0.25"},
		{Str("raw text"), "raw text"}, // top-level strings print unquoted
		{Arr([]Value{Num(1), Str("x"), Null}), `[1, "x", null]`},
		{Arr(nil), "[]"},
		{Arr([]Value{Arr([]Value{Num(2)})}), "[[2]]"},
	}
	for _, c := range cases {
		if got := Format(c.v); got != c.want {
			t.Fatalf("Format(%#v): want %q, got %q", c.v, c.want, got)
		}
	}
}
