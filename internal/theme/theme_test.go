package theme

import "testing"

func TestApplyDefaultsFillsMissingFields(t *testing.T) {
	partial := Settings{}
	partial.Colors.Primary = "#112233"
	partial.CustomCSS = ".hero { color: red; }"

	got := ApplyDefaults(partial)

	if got.Colors.Primary != "#112233" {
		t.Fatalf("explicit color overridden: %s", got.Colors.Primary)
	}
	if got.Colors.Text.Primary == "" || got.Typography.BodyFont == "" {
		t.Fatalf("defaults not applied: %+v", got)
	}
	if got.Layout.MaxWidthPx != 1200 {
		t.Fatalf("expected default max width, got %d", got.Layout.MaxWidthPx)
	}
	if got.Navigation.Sticky == nil || !*got.Navigation.Sticky {
		t.Fatalf("expected sticky default true")
	}
	if got.CustomCSS != ".hero { color: red; }" {
		t.Fatalf("custom css not preserved")
	}
}

func TestApplyDefaultsKeepsExplicitFalse(t *testing.T) {
	f := false
	partial := Settings{}
	partial.Navigation.Sticky = &f

	got := ApplyDefaults(partial)
	if got.Navigation.Sticky == nil || *got.Navigation.Sticky {
		t.Fatalf("explicit false overridden by default")
	}
}

func TestDecodeIgnoresUnknownKeysAndBadInput(t *testing.T) {
	raw := []byte(`{"colors":{"primary":"#abc"},"future_block":{"x":1}}`)
	s := Decode(raw)
	if s.Colors.Primary != "#abc" {
		t.Fatalf("known key lost: %+v", s)
	}

	if s := Decode([]byte("not json")); s.Colors.Primary != "" {
		t.Fatalf("malformed input should decode to zero settings")
	}
	if s := Decode(nil); s.Colors.Primary != "" {
		t.Fatalf("empty input should decode to zero settings")
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	s := ApplyDefaults(Settings{})
	raw, errEncode := Encode(s)
	if errEncode != nil {
		t.Fatalf("encode: %v", errEncode)
	}
	decoded := Decode(raw)
	if decoded.Colors.Primary != s.Colors.Primary || decoded.Layout.MaxWidthPx != s.Layout.MaxWidthPx {
		t.Fatalf("round trip mismatch: %+v", decoded)
	}
}
