package render

import (
	"fmt"

	"github.com/skip2/go-qrcode"

	"github.com/matzehuels/badgeboard/pkg/element"
)

var qrLevels = map[string]qrcode.RecoveryLevel{
	element.LevelL: qrcode.Low,
	element.LevelM: qrcode.Medium,
	element.LevelQ: qrcode.High,
	element.LevelH: qrcode.Highest,
}

// qrModules returns the dark-module matrix for q without a quiet zone. An
// empty payload yields no modules.
func qrModules(q element.QR) ([][]bool, error) {
	if q.Data == "" {
		return nil, nil
	}
	level, ok := qrLevels[q.Level]
	if !ok {
		level = qrcode.Medium
	}
	code, err := qrcode.New(q.Data, level)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	code.DisableBorder = true
	return code.Bitmap(), nil
}

// qrGrid fits an n x n module grid centred in a w x h box and returns the
// module size and top-left offset.
func qrGrid(n int, w, h float64) (size, ox, oy float64) {
	side := min(w, h)
	size = side / float64(n)
	return size, (w - side) / 2, (h - side) / 2
}
