package storage

import (
	"mime/multipart"
	"testing"
)

func TestSanitize(t *testing.T) {
	cases := map[string]string{
		"Jordan Malik":  "Jordan_Malik",
		"A1-B2/C3":      "A1_B2_C3",
		"../../../etc":  "_________etc",
		"plain":         "plain",
	}
	for in, want := range cases {
		if got := sanitize(in); got != want {
			t.Errorf("sanitize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValidateDoc(t *testing.T) {
	ok := &multipart.FileHeader{Filename: "docs.zip", Size: 1024}
	if err := ValidateDoc(ok); err != nil {
		t.Errorf("valid zip rejected: %v", err)
	}

	upper := &multipart.FileHeader{Filename: "DOCS.ZIP", Size: 1024}
	if err := ValidateDoc(upper); err != nil {
		t.Errorf("uppercase extension rejected: %v", err)
	}

	tooBig := &multipart.FileHeader{Filename: "docs.zip", Size: MaxDocSize + 1}
	if err := ValidateDoc(tooBig); err == nil {
		t.Error("oversized file accepted")
	}

	wrongType := &multipart.FileHeader{Filename: "resume.pdf", Size: 1024}
	if err := ValidateDoc(wrongType); err == nil {
		t.Error("non-zip file accepted")
	}
}

func TestOpenRejectsOutsideBase(t *testing.T) {
	store := NewDocStore(t.TempDir())

	if _, err := store.Open("/etc/passwd"); err == nil {
		t.Error("absolute path outside base accepted")
	}
	if _, err := store.Open(store.baseDir + "/../escape.zip"); err == nil {
		t.Error("traversal path accepted")
	}
}
