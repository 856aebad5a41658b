package export_test

import (
	"fmt"

	"github.com/matzehuels/badgeboard/pkg/document"
	"github.com/matzehuels/badgeboard/pkg/element"
	"github.com/matzehuels/badgeboard/pkg/export"
	"github.com/matzehuels/badgeboard/pkg/fields"
)

func ExampleResolve() {
	d, _ := document.FromElements(document.DefaultCanvas, []element.Element{
		element.NewText("Hi "+fields.TokenName, element.WithID("hi")),
		element.NewQR(fields.TokenIdentifier, element.WithID("qr")),
	})

	b := export.Resolve(d, fields.Attendee{"identifier": "ABC123", "name": "Grace"}, export.Options{})
	fmt.Println(b.Elements[0].Payload.(element.Text).Content)
	fmt.Println(b.Elements[1].Payload.(element.QR).Data)
	// Output:
	// Hi Grace
	// ABC123
}
