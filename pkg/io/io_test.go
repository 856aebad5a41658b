package io

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/badgeboard/pkg/arrange"
	"github.com/matzehuels/badgeboard/pkg/document"
	"github.com/matzehuels/badgeboard/pkg/element"
	"github.com/matzehuels/badgeboard/pkg/errors"
	"github.com/matzehuels/badgeboard/pkg/fields"
)

// sampleDoc covers every kind and a nested group.
func sampleDoc(t *testing.T) *document.Document {
	t.Helper()
	d, err := document.FromElements(document.Canvas{Width: 400, Height: 600}, []element.Element{
		element.NewShape(element.ShapeRounded, element.WithID("bg"), element.Sized(400, 600)),
		element.NewImage("https://cdn.example.com/logo.png", element.WithID("logo"), element.At(140, 20)),
		element.NewText(fields.TokenName, element.WithID("name"), element.At(20, 200), element.Rotated(3.5)),
		element.NewQR(fields.TokenIdentifier, element.WithID("qr"), element.At(140, 420)),
		element.NewLine(0, 0, 300, 0, element.WithID("rule"), element.At(50, 260)),
		element.NewPolygon(6, 20, element.WithID("hex"), element.At(10, 10), element.Hidden()),
		element.NewTable(2, 3, element.WithID("tbl"), element.At(20, 300)),
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, ids := range [][]string{{"name", "rule"}, {"hex", "tbl"}} {
		p, err := arrange.Group(d, ids)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := d.Apply(p.Op); err != nil {
			t.Fatal(err)
		}
	}
	outer, err := arrange.Group(d, d.TopLevel()[len(d.TopLevel())-2:])
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.Apply(outer.Op); err != nil {
		t.Fatal(err)
	}
	return d
}

func TestJSONRoundTrip(t *testing.T) {
	d := sampleDoc(t)
	var buf bytes.Buffer
	if err := WriteJSON(d, &buf); err != nil {
		t.Fatal(err)
	}
	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if !got.Equal(d) {
		t.Errorf("round trip changed document:\n got %v\nwant %v", got.IDs(), d.IDs())
	}
	for _, id := range d.IDs() {
		g1, ok1 := d.GroupOf(id)
		g2, ok2 := got.GroupOf(id)
		if g1 != g2 || ok1 != ok2 {
			t.Errorf("GroupOf(%s) = %q, want %q", id, g2, g1)
		}
	}
}

func TestCBORRoundTrip(t *testing.T) {
	d := sampleDoc(t)
	b, err := MarshalCBOR(d)
	if err != nil {
		t.Fatal(err)
	}
	got, err := UnmarshalCBOR(b)
	if err != nil {
		t.Fatalf("UnmarshalCBOR() error = %v", err)
	}
	if !got.Equal(d) {
		t.Error("CBOR round trip changed document")
	}

	again, _ := MarshalCBOR(got)
	if !bytes.Equal(b, again) {
		t.Error("CBOR encoding is not deterministic")
	}
}

func TestDecodeDetectsFormat(t *testing.T) {
	d := sampleDoc(t)
	for _, f := range []Format{FormatJSON, FormatCBOR} {
		t.Run(string(f), func(t *testing.T) {
			b, err := Encode(d, f)
			if err != nil {
				t.Fatal(err)
			}
			got, err := Decode(b)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if !got.Equal(d) {
				t.Error("Decode changed document")
			}
		})
	}
}

func TestSerializeWritesBothDirections(t *testing.T) {
	tree := Serialize(sampleDoc(t))
	byID := map[string]Node{}
	for _, n := range tree.Elements {
		byID[n.ID] = n
	}
	for _, n := range tree.Elements {
		for _, c := range n.ChildIDs {
			if child := byID[c]; child.GroupID == nil || *child.GroupID != n.ID {
				t.Errorf("child %s of %s has groupId %v", c, n.ID, child.GroupID)
			}
		}
	}
	if byID["bg"].GroupID != nil {
		t.Error("top-level element should have null groupId")
	}
}

func TestReadJSONRejects(t *testing.T) {
	text := `"text": {"content": "x", "fontFamily": "Helvetica", "fontSize": 12, "align": "left", "color": "#000000"}`
	geo := `"geometry": {"x": 0, "y": 0, "width": 10, "height": 10, "scaleX": 1, "scaleY": 1, "rotation": 0}`
	node := func(id, extra string) string {
		return `{"id": "` + id + `", "kind": "text", ` + geo + `, ` + text + extra + `}`
	}
	group := func(id, children, extra string) string {
		return `{"id": "` + id + `", "kind": "group", ` + geo + `, "childIds": ` + children + extra + `}`
	}
	doc := func(nodes ...string) string {
		return `{"version": 1, "canvas": {"width": 100, "height": 100}, "elements": [` + strings.Join(nodes, ",") + `]}`
	}

	tests := []struct {
		name string
		in   string
		code errors.Code
	}{
		{"malformed", `{"version": 1,`, errors.ErrCodeInvalidFormat},
		{"unknown field", `{"version": 1, "bogus": true}`, errors.ErrCodeInvalidFormat},
		{"duplicate id", doc(node("a", ""), node("a", "")), errors.ErrCodeInvalidDocument},
		{"missing group", doc(node("a", `, "groupId": "nope"`)), errors.ErrCodeInvalidDocument},
		{"group is not a group", doc(node("a", ""), node("b", `, "groupId": "a"`)), errors.ErrCodeInvalidDocument},
		{"missing child", doc(node("a", `, "groupId": "g"`), group("g", `["a", "zz"]`, "")), errors.ErrCodeInvalidDocument},
		{"child without groupId", doc(node("a", ""), node("b", `, "groupId": "g"`), group("g", `["a", "b"]`, "")), errors.ErrCodeInvalidDocument},
		{"groupId not listed", doc(node("a", `, "groupId": "g"`), node("b", `, "groupId": "g"`), group("g", `["a"]`, "")), errors.ErrCodeInvalidDocument},
		{"empty group", doc(group("g", `[]`, "")), errors.ErrCodeInvalidDocument},
		{"unknown kind", doc(`{"id": "a", "kind": "bezier", ` + geo + `}`), errors.ErrCodeInvalidDocument},
		{"missing payload", doc(`{"id": "a", "kind": "qr", ` + geo + `}`), errors.ErrCodeInvalidDocument},
		{"invalid element", doc(`{"id": "a", "kind": "text", ` + geo + `, "text": {"fontSize": 0, "align": "left"}}`), errors.ErrCodeInvalidDocument},
		{"bad canvas", `{"version": 1, "canvas": {"width": 0, "height": 1}, "elements": []}`, errors.ErrCodeInvalidDocument},
		{"future version", `{"version": 99, "canvas": {"width": 1, "height": 1}, "elements": []}`, errors.ErrCodeInvalidDocument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.in))
			if !errors.Is(err, tt.code) {
				t.Errorf("ReadJSON() error = %v, want %s", err, tt.code)
			}
		})
	}

	ok := doc(node("a", `, "groupId": "g"`), node("b", `, "groupId": "g"`), group("g", `["a", "b"]`, ""))
	if _, err := ReadJSON(strings.NewReader(ok)); err != nil {
		t.Errorf("valid tree rejected: %v", err)
	}
}

func TestExportImportFile(t *testing.T) {
	d := sampleDoc(t)
	path := filepath.Join(t.TempDir(), "badge.json")
	if err := ExportJSON(d, path); err != nil {
		t.Fatal(err)
	}
	got, err := ImportJSON(path)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(d) {
		t.Error("file round trip changed document")
	}

	if _, err := ImportJSON(filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("ImportJSON(missing) error = %v", err)
	}
}

func TestJSONShape(t *testing.T) {
	var buf bytes.Buffer
	d, _ := document.FromElements(document.DefaultCanvas, []element.Element{element.NewQR("x", element.WithID("q"))})
	if err := WriteJSON(d, &buf); err != nil {
		t.Fatal(err)
	}
	var raw map[string]any
	if err := json.Unmarshal(buf.Bytes(), &raw); err != nil {
		t.Fatal(err)
	}
	el := raw["elements"].([]any)[0].(map[string]any)
	if el["kind"] != "qr" || el["qr"] == nil {
		t.Errorf("unexpected element JSON: %v", el)
	}
	if v, present := el["groupId"]; !present || v != nil {
		t.Errorf("groupId = %v (present %v), want explicit null", v, present)
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"json": FormatJSON, ".CBOR": FormatCBOR, "": FormatJSON} {
		if got, err := ParseFormat(in); err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("xml"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("ParseFormat(xml) error = %v", err)
	}
}
