package xliff

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleDoc = `<?xml version="1.0" encoding="UTF-8"?>
<xliff xmlns="urn:oasis:names:tc:xliff:document:1.2" version="1.2">
  <file original="App/Localizable.strings" source-language="en" datatype="plaintext">
    <header>
      <tool tool-id="com.apple.dt.xcode" tool-name="Xcode" tool-version="15.0"></tool>
    </header>
    <body>
      <trans-unit id="greeting">
        <source>Hello</source>
        <note>Shown at launch</note>
      </trans-unit>
      <trans-unit id="done">
        <source>Done</source>
        <target>Fertig</target>
      </trans-unit>
      <trans-unit id="empty">
        <source></source>
      </trans-unit>
    </body>
  </file>
  <file original="App/InfoPlist.strings" source-language="en">
    <body>
      <trans-unit id="bundle-name">
        <source>PhotoDiary</source>
      </trans-unit>
    </body>
  </file>
</xliff>
`

func TestParse_ReadsUnitsAcrossFiles(t *testing.T) {
	doc, err := Parse([]byte(sampleDoc))
	if err != nil {
		t.Fatalf("error: %v", err)
	}

	if doc.SourceLanguage() != "en" {
		t.Errorf("source language = %q", doc.SourceLanguage())
	}
	if len(doc.Files) != 2 {
		t.Fatalf("files = %d, want 2", len(doc.Files))
	}

	units := doc.AllUnits()
	ids := make([]string, len(units))
	for i, u := range units {
		ids[i] = u.ID
	}
	// Empty-source units are excluded; order is document order.
	if strings.Join(ids, ",") != "greeting,done,bundle-name" {
		t.Errorf("units = %v", ids)
	}

	if units[0].Note != "Shown at launch" {
		t.Errorf("note = %q", units[0].Note)
	}
	if units[0].IsTranslated() {
		t.Error("greeting must not count as translated")
	}
	if !units[1].IsTranslated() || units[1].Target != "Fertig" {
		t.Errorf("done = %+v", units[1])
	}
}

func TestParse_Errors(t *testing.T) {
	cases := []struct {
		name string
		data string
		want string
	}{
		{
			name: "malformed XML",
			data: "<xliff><file>",
			want: "invalid XLIFF",
		},
		{
			name: "no file element",
			data: `<xliff version="1.2"></xliff>`,
			want: "no <file> element",
		},
		{
			name: "missing source language",
			data: `<xliff version="1.2"><file original="x"><body></body></file></xliff>`,
			want: "source-language",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.data))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want %q", err, tc.want)
			}
		})
	}
}

func TestParseFile_MissingFile(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "absent.xliff"))
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestSetTarget(t *testing.T) {
	doc, err := Parse([]byte(sampleDoc))
	if err != nil {
		t.Fatal(err)
	}

	if !doc.SetTarget("greeting", "Hallo") {
		t.Error("SetTarget should find greeting")
	}
	if doc.SetTarget("stranger", "x") {
		t.Error("SetTarget must report unknown ids")
	}

	for _, u := range doc.AllUnits() {
		if u.ID == "greeting" && u.Target != "Hallo" {
			t.Errorf("greeting target = %q", u.Target)
		}
	}
}

func TestMarshal_RoundTrip(t *testing.T) {
	doc, err := Parse([]byte(sampleDoc))
	if err != nil {
		t.Fatal(err)
	}
	doc.SetTargetLanguage("de")
	doc.SetTarget("greeting", "Hallo")

	out, err := doc.Marshal()
	if err != nil {
		t.Fatalf("error: %v", err)
	}
	got := string(out)

	for _, want := range []string{
		`<?xml version="1.0" encoding="UTF-8"?>`,
		`version="1.2"`,
		`xmlns="urn:oasis:names:tc:xliff:document:1.2"`,
		`target-language="de"`,
		"<target>Hallo</target>",
		"<target>Fertig</target>",
		"<note>Shown at launch</note>",
		`tool-id="com.apple.dt.xcode"`,
		`original="App/InfoPlist.strings"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if !strings.HasSuffix(got, "\n") {
		t.Error("output must end with a newline")
	}

	// The serialized form must parse back to the same content.
	again, err := Parse(out)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if len(again.AllUnits()) != len(doc.AllUnits()) {
		t.Errorf("unit count changed across round trip")
	}
	if again.Files[0].TargetLanguage != "de" {
		t.Errorf("target-language = %q", again.Files[0].TargetLanguage)
	}
}

func TestMarshal_KeepsEmptySourceUnits(t *testing.T) {
	doc, err := Parse([]byte(sampleDoc))
	if err != nil {
		t.Fatal(err)
	}
	out, err := doc.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), `id="empty"`) {
		t.Error("empty-source unit must survive serialization")
	}
}

func TestParseFile_RoundTripOnDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "de.xliff")
	if err := os.WriteFile(path, []byte(sampleDoc), 0644); err != nil {
		t.Fatal(err)
	}

	doc, err := ParseFile(path)
	if err != nil {
		t.Fatalf("error: %v", err)
	}
	if len(doc.AllUnits()) != 3 {
		t.Errorf("units = %d, want 3", len(doc.AllUnits()))
	}
}
