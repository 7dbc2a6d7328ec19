package errors

import (
	"strings"
	"testing"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "foo", false},
		{"valid with dash", "my-box", false},
		{"valid with underscore", "my_box", false},
		{"valid with inner dot", "group.box", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 300), true},
		{"space", "foo bar", true},
		{"tab", "foo\tbar", true},
		{"control char", "foo\x01bar", true},
		{"leading dot", ".foo", true},
		{"trailing dot", "foo.", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidID) {
				t.Errorf("expected ErrCodeInvalidID, got %v", GetCode(err))
			}
		})
	}
}

func TestValidateReference(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"foo.right", false},
		{"anchor1", false},
		{"", true},
		{"foo .right", true},
	}
	for _, tt := range tests {
		err := ValidateReference(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateReference(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}
