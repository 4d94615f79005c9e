package enums

import "testing"

func TestParseExportFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    ExportFormat
		wantErr bool
	}{
		{input: "images", want: ExportFormatImages},
		{input: "document", want: ExportFormatDocument},
		{input: "pptx", want: ExportFormatDocument},
		{input: " PPTX ", want: ExportFormatDocument},
		{input: "video", want: ExportFormatVideo},
		{input: "gif", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseExportFormat(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParseExportFormat(%q) expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseExportFormat(%q) unexpected error: %v", tt.input, err)
		}
		if got != tt.want {
			t.Fatalf("ParseExportFormat(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParseShareRoleDefaultsToViewer(t *testing.T) {
	role, err := ParseShareRole("")
	if err != nil || role != ShareRoleViewer {
		t.Fatalf("expected viewer default, got %q err=%v", role, err)
	}
	role, err = ParseShareRole("Editor")
	if err != nil || role != ShareRoleEditor {
		t.Fatalf("expected editor, got %q err=%v", role, err)
	}
	if _, err := ParseShareRole("owner"); err == nil {
		t.Fatal("expected owner to be rejected")
	}
}

func TestMediaTypeForContentType(t *testing.T) {
	cases := map[string]MediaType{
		"video/mp4":                MediaTypeVideo,
		"VIDEO/quicktime":          MediaTypeVideo,
		"image/png":                MediaTypeImage,
		"application/octet-stream": MediaTypeImage,
		"":                         MediaTypeImage,
	}
	for contentType, want := range cases {
		if got := MediaTypeForContentType(contentType); got != want {
			t.Fatalf("MediaTypeForContentType(%q) = %q, want %q", contentType, got, want)
		}
	}
}

func TestAuthProviderIsValid(t *testing.T) {
	if !AuthProviderGoogle.IsValid() || !AuthProviderEmail.IsValid() {
		t.Fatal("known providers should be valid")
	}
	if AuthProvider("github").IsValid() {
		t.Fatal("unknown provider should be invalid")
	}
	if _, err := ParseAuthProvider("github"); err == nil {
		t.Fatal("expected parse error for unknown provider")
	}
}
