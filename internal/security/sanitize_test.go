package security

import "testing"

func TestSanitize(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Aspirin", "Aspirin"},
		{"  Aspirin  ", "Aspirin"},
		{"<script>alert(1)</script>", "&lt;script&gt;alert(1)&lt;/script&gt;"},
		{"Tom & Jerry", "Tom &amp; Jerry"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Sanitize(tt.in); got != tt.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
