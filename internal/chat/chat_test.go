package chat

import (
	"encoding/json"
	"testing"
)

func decode(t *testing.T, raw string) Component {
	t.Helper()

	var c Component
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		t.Fatalf("unmarshal %s: %v", raw, err)
	}

	return c
}

func TestFlatten_BoldChild(t *testing.T) {
	c := decode(t, `{"text":"Hello ","extra":[{"text":"World","bold":true}]}`)

	got := Flatten(c)
	if want := "Hello " + CodeBold + "World"; got != want {
		t.Fatalf("Flatten = %q, want %q", got, want)
	}
	if plain := Plain(got); plain != "Hello World" {
		t.Fatalf("Plain = %q, want %q", plain, "Hello World")
	}
}

func TestFlatten_BareString(t *testing.T) {
	c := decode(t, `"§aA Minecraft Server"`)

	if got := Flatten(c); got != "§aA Minecraft Server" {
		t.Fatalf("Flatten = %q", got)
	}
	if got := Plain(Flatten(c)); got != "A Minecraft Server" {
		t.Fatalf("Plain = %q", got)
	}
}

func TestFlatten_ResetAfterFormattedSibling(t *testing.T) {
	c := decode(t, `{"text":"","extra":[{"text":"A","color":"red"},{"text":"B"},{"text":"C","italic":true},"D"]}`)

	want := "§cA" + CodeReset + "B" + CodeItalic + "C" + CodeReset + "D"
	if got := Flatten(c); got != want {
		t.Fatalf("Flatten = %q, want %q", got, want)
	}
	if got := Plain(want); got != "ABCD" {
		t.Fatalf("Plain = %q", got)
	}
}

func TestFlatten_FalseAttributesAreNotFormatting(t *testing.T) {
	c := decode(t, `{"extra":[{"text":"x","bold":false},{"text":"y"}]}`)

	if got := Flatten(c); got != "xy" {
		t.Fatalf("Flatten = %q, want %q", got, "xy")
	}
}

func TestFlatten_Nested(t *testing.T) {
	c := decode(t, `{"text":"a","color":"gold","extra":[{"text":"b","extra":[{"text":"c","underlined":true,"strikethrough":true,"obfuscated":true}]}]}`)

	want := "§6a" + "b" + CodeUnderlined + CodeStrikethrough + CodeObfuscated + "c"
	if got := Flatten(c); got != want {
		t.Fatalf("Flatten = %q, want %q", got, want)
	}
}

func TestFlatten_UnknownColorIgnored(t *testing.T) {
	c := decode(t, `{"text":"hex","color":"#ff00aa"}`)

	if got := Flatten(c); got != "hex" {
		t.Fatalf("Flatten = %q", got)
	}
	if !c.Formatted() {
		t.Fatalf("node with a color must count as formatted")
	}
}

func TestPlain_TrailingSectionSign(t *testing.T) {
	if got := Plain("abc§"); got != "abc" {
		t.Fatalf("Plain = %q", got)
	}
	if got := Plain("no codes"); got != "no codes" {
		t.Fatalf("Plain = %q", got)
	}
}

func TestFlatten_HexColorSiblingStillResets(t *testing.T) {
	c := decode(t, `{"extra":[{"text":"a","color":"#123456"},{"text":"b"}]}`)

	if got := Flatten(c); got != "a"+CodeReset+"b" {
		t.Fatalf("Flatten = %q", got)
	}
}
