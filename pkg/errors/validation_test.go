package errors

import "testing"

func TestValidateColumnName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"Valid", "carat", false},
		{"ValidWithSpaces", "log carat", false},
		{"Empty", "", true},
		{"ControlChar", "carat\x01", true},
		{"TooLong", string(make([]byte, 300)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateColumnName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateColumnName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateExplanationID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"UUID", "9bd187c1-7a04-4b51-9b18-4e8a29b210a1", false},
		{"Hex", "deadbeef", false},
		{"Empty", "", true},
		{"Traversal", "../etc/passwd", true},
		{"NonHex", "not-an-id!", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateExplanationID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateExplanationID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateOutputPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"Relative", "plots/waterfall.svg", false},
		{"Absolute", "/tmp/out.svg", false},
		{"Empty", "", true},
		{"Traversal", "../../etc/passwd", true},
		{"NullByte", "out\x00.svg", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputPath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputPath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
