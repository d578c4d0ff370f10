package errors

import "testing"

func TestValidateItemID(t *testing.T) {
	tests := []struct {
		id      string
		wantErr bool
	}{
		{"1", false},
		{"copper ore", false},
		{"", true},
		{"a\nb", true},
		{string(make([]byte, 300)), true},
	}
	for _, tt := range tests {
		if err := ValidateItemID(tt.id); (err != nil) != tt.wantErr {
			t.Errorf("ValidateItemID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
		}
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    string
		wantErr bool
	}{
		{"out.svg", "svg", false},
		{"OUT.PNG", "png", false},
		{"dir/out.pdf", "pdf", false},
		{"out", "", true},
		{"out.gif", "", true},
	}
	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if got != tt.want || (err != nil) != tt.wantErr {
			t.Errorf("FormatFromPath(%q) = %q, %v, want %q, wantErr %v", tt.path, got, err, tt.want, tt.wantErr)
		}
		if err != nil && !Is(err, ErrCodeInvalidFormat) {
			t.Errorf("FormatFromPath(%q) code = %v, want %v", tt.path, GetCode(err), ErrCodeInvalidFormat)
		}
	}
}

func TestValidateSource(t *testing.T) {
	tests := []struct {
		ref     string
		wantErr bool
	}{
		{"data.json", false},
		{"data.yml", false},
		{"mongodb://localhost:27017/supply", false},
		{"neo4j://localhost:7687", false},
		{"data.csv", true},
		{"ftp://host/data.json", true},
		{"", true},
	}
	for _, tt := range tests {
		if err := ValidateSource(tt.ref); (err != nil) != tt.wantErr {
			t.Errorf("ValidateSource(%q) error = %v, wantErr %v", tt.ref, err, tt.wantErr)
		}
	}
}

func TestValidateLevel(t *testing.T) {
	if err := ValidateLevel(0); err != nil {
		t.Errorf("ValidateLevel(0) error = %v", err)
	}
	if err := ValidateLevel(-1); err == nil {
		t.Error("ValidateLevel(-1) succeeded, want error")
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput, ErrCodeInvalidFormat, ErrCodeInvalidSource, ErrCodeContract,
		ErrCodeNotFound, ErrCodeItemNotFound, ErrCodeLayoutAborted, ErrCodeLayoutSuperseded,
		ErrCodeLayoutFailed, ErrCodeExport, ErrCodeSource, ErrCodeNetwork, ErrCodeTimeout,
		ErrCodeInternal, ErrCodeUnsupported,
	}
	seen := make(map[Code]bool)
	for _, c := range codes {
		if seen[c] {
			t.Errorf("duplicate error code %s", c)
		}
		seen[c] = true
	}
}
